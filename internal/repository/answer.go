package repository

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/model"
)

var answerSchema = Schema{
	Table:    "answers",
	Key:      "id",
	Columns:  []string{"id", "question_id", "answer_text"},
	Required: []string{"question_id", "answer_text"},
}

type AnswerRepository struct {
	*Table[model.Answer]
}

func NewAnswerRepository(db database.Executor) *AnswerRepository {
	return &AnswerRepository{Table: MustTable[model.Answer](db, answerSchema)}
}

func (r *AnswerRepository) WithExecutor(db database.Executor) *AnswerRepository {
	return &AnswerRepository{Table: r.Table.WithExecutor(db)}
}

// FindByQuestionID returns the answer of a text question. If several rows
// exist the oldest wins.
func (r *AnswerRepository) FindByQuestionID(ctx context.Context, questionID int64) (model.Answer, bool, error) {
	return r.FindOneWhere(ctx, sq.Eq{"question_id": questionID})
}

func (r *AnswerRepository) CreateFor(ctx context.Context, questionID int64, answerText string) (int64, error) {
	return r.Create(ctx, map[string]any{
		"question_id": questionID,
		"answer_text": answerText,
	})
}

func (r *AnswerRepository) DeleteByQuestionID(ctx context.Context, questionID int64) (int64, error) {
	return r.DeleteWhere(ctx, sq.Eq{"question_id": questionID})
}
