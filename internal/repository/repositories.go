package repository

import (
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/server"
)

// Repositories groups every repository so services take one dependency.
type Repositories struct {
	Questions    *QuestionRepository
	Choices      *ChoiceRepository
	Answers      *AnswerRepository
	Explanations *ExplanationRepository
	Users        *UserRepository
}

// NewRepositories binds the repositories to the server's pool.
func NewRepositories(s *server.Server) *Repositories {
	return New(s.DB)
}

// New binds the repositories to db.
func New(db database.Executor) *Repositories {
	questions := NewQuestionRepository(db)
	return &Repositories{
		Questions:    questions,
		Choices:      NewChoiceRepository(db),
		Answers:      NewAnswerRepository(db),
		Explanations: NewExplanationRepository(db),
		Users:        NewUserRepository(db, questions),
	}
}

// WithExecutor rebinds every repository to db, usually the Executor of an
// open transaction, so their statements join it.
func (r *Repositories) WithExecutor(db database.Executor) *Repositories {
	return &Repositories{
		Questions:    r.Questions.WithExecutor(db),
		Choices:      r.Choices.WithExecutor(db),
		Answers:      r.Answers.WithExecutor(db),
		Explanations: r.Explanations.WithExecutor(db),
		Users:        r.Users.WithExecutor(db),
	}
}
