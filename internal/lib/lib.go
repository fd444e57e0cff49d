// Package lib holds supporting code that is not a layer of its own:
// background jobs (asynq) and small output helpers.
package lib
