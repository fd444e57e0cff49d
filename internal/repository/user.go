package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/model"
)

var userSchema = Schema{
	Table:    "users",
	Key:      "id",
	Columns:  []string{"id", "name"},
	Required: []string{"name"},
}

type UserRepository struct {
	*Table[model.User]
	questions *QuestionRepository
}

func NewUserRepository(db database.Executor, questions *QuestionRepository) *UserRepository {
	return &UserRepository{
		Table:     MustTable[model.User](db, userSchema),
		questions: questions,
	}
}

func (r *UserRepository) WithExecutor(db database.Executor) *UserRepository {
	return &UserRepository{
		Table:     r.Table.WithExecutor(db),
		questions: r.questions.WithExecutor(db),
	}
}

func (r *UserRepository) FindByName(ctx context.Context, name string) (model.User, bool, error) {
	return r.FindOneWhere(ctx, sq.Eq{"name": name})
}

// FindWithQuestions returns a user together with their questions.
func (r *UserRepository) FindWithQuestions(ctx context.Context, id int64) (model.UserWithQuestions, bool, error) {
	user, found, err := r.FindByID(ctx, id)
	if err != nil || !found {
		return model.UserWithQuestions{}, found, err
	}

	questions, err := r.questions.FindByUser(ctx, id)
	if err != nil {
		return model.UserWithQuestions{}, false, err
	}

	return model.UserWithQuestions{User: user, Questions: questions}, true, nil
}
