// Package service holds quizbank's business operations.
//
// Services sit between the handlers and the repositories: they validate
// question shapes, open transactions and turn missing rows into NotFound
// errors. Every error they return is either nil or an *errs.DataError.
package service
