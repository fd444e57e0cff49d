// Package repository is quizbank's data-access layer.
//
// Table[T] is a generic repository over one table, driven by a Schema
// descriptor and built with squirrel. Entity repositories embed it and add
// the queries specific to questions, choices, answers, explanations and
// users. Every repository runs on a database.Executor, so the same code
// works on the pool or inside a transaction (see Repositories.WithExecutor).
package repository
