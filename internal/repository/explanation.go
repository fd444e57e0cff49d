package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/model"
)

var explanationSchema = Schema{
	Table:    "explanations",
	Key:      "id",
	Columns:  []string{"id", "question_id", "explanation_text"},
	Required: []string{"question_id", "explanation_text"},
}

type ExplanationRepository struct {
	*Table[model.Explanation]
}

func NewExplanationRepository(db database.Executor) *ExplanationRepository {
	return &ExplanationRepository{Table: MustTable[model.Explanation](db, explanationSchema)}
}

func (r *ExplanationRepository) WithExecutor(db database.Executor) *ExplanationRepository {
	return &ExplanationRepository{Table: r.Table.WithExecutor(db)}
}

func (r *ExplanationRepository) FindByQuestionID(ctx context.Context, questionID int64) (model.Explanation, bool, error) {
	return r.FindOneWhere(ctx, sq.Eq{"question_id": questionID})
}

func (r *ExplanationRepository) CreateFor(ctx context.Context, questionID int64, text string) (int64, error) {
	return r.Create(ctx, map[string]any{
		"question_id":      questionID,
		"explanation_text": text,
	})
}

func (r *ExplanationRepository) DeleteByQuestionID(ctx context.Context, questionID int64) (int64, error) {
	return r.DeleteWhere(ctx, sq.Eq{"question_id": questionID})
}
