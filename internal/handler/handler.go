// Package handler holds the Echo handlers of the quizbank API. Handlers bind
// and validate a request struct, call one service operation and leave error
// rendering to the global error handler.
package handler
