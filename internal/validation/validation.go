// Package validation binds HTTP requests into request structs and turns
// validator/v10 failures into field-level API errors.
package validation
