package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/model"
)

var choiceSchema = Schema{
	Table:    "choices",
	Key:      "id",
	Columns:  []string{"id", "question_id", "text", "is_correct"},
	Required: []string{"question_id", "text"},
}

type ChoiceRepository struct {
	*Table[model.Choice]
}

func NewChoiceRepository(db database.Executor) *ChoiceRepository {
	return &ChoiceRepository{Table: MustTable[model.Choice](db, choiceSchema)}
}

func (r *ChoiceRepository) WithExecutor(db database.Executor) *ChoiceRepository {
	return &ChoiceRepository{Table: r.Table.WithExecutor(db)}
}

// FindByQuestionID returns the choices of a question in id order.
func (r *ChoiceRepository) FindByQuestionID(ctx context.Context, questionID int64) ([]model.Choice, error) {
	return r.FindWhere(ctx, sq.Eq{"question_id": questionID})
}

// FindCorrect returns the correct choice of a question, if any.
func (r *ChoiceRepository) FindCorrect(ctx context.Context, questionID int64) (model.Choice, bool, error) {
	return r.FindOneWhere(ctx, sq.Eq{"question_id": questionID, "is_correct": true})
}

func (r *ChoiceRepository) CreateFor(ctx context.Context, questionID int64, in model.ChoiceInput) (int64, error) {
	return r.Create(ctx, map[string]any{
		"question_id": questionID,
		"text":        in.Text,
		"is_correct":  in.IsCorrect,
	})
}

func (r *ChoiceRepository) DeleteByQuestionID(ctx context.Context, questionID int64) (int64, error) {
	return r.DeleteWhere(ctx, sq.Eq{"question_id": questionID})
}
