package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/jackc/pgx/v5"
)

const questionsTable = "questions"

var questionSchema = Schema{
	Table:    questionsTable,
	Key:      "id",
	Columns:  []string{"id", "text", "type", "user_id", "create_at", "update_at"},
	Required: []string{"text", "type"},
}

// QuestionRepository reads and writes the aggregate root. Dependents are
// handled by their own repositories.
type QuestionRepository struct {
	*Table[model.Question]
}

func NewQuestionRepository(db database.Executor) *QuestionRepository {
	return &QuestionRepository{Table: MustTable[model.Question](db, questionSchema)}
}

func (r *QuestionRepository) WithExecutor(db database.Executor) *QuestionRepository {
	return &QuestionRepository{Table: r.Table.WithExecutor(db)}
}

// Insert creates the question row and returns its id.
func (r *QuestionRepository) Insert(ctx context.Context, text string, qType model.QuestionType, userID *int64) (int64, error) {
	return r.Create(ctx, map[string]any{
		"text":    text,
		"type":    string(qType),
		"user_id": userID,
	})
}

// UpdateScalars rewrites text, type and author and bumps update_at. It
// returns the affected row count; zero means the question does not exist.
func (r *QuestionRepository) UpdateScalars(ctx context.Context, id int64, text string, qType model.QuestionType, userID *int64) (int64, error) {
	return r.Update(ctx, id, map[string]any{
		"text":      text,
		"type":      string(qType),
		"user_id":   userID,
		"update_at": sq.Expr("now()"),
	})
}

// joinedChoice is one element of the choices json_agg. Fields are pointers
// because the outer join fills them with null when there are no choices.
type joinedChoice struct {
	ID        *int64  `json:"id"`
	Text      *string `json:"text"`
	IsCorrect *bool   `json:"is_correct"`
}

// stripJoinArtifacts drops the all-null element a LEFT JOIN aggregate
// produces for a question without choices. The result is never nil.
func stripJoinArtifacts(joined []joinedChoice) []model.ChoiceView {
	out := make([]model.ChoiceView, 0, len(joined))
	for _, c := range joined {
		if c.ID == nil {
			continue
		}
		view := model.ChoiceView{ID: *c.ID}
		if c.Text != nil {
			view.Text = *c.Text
		}
		if c.IsCorrect != nil {
			view.IsCorrect = *c.IsCorrect
		}
		out = append(out, view)
	}
	return out
}

func detailQuery(id int64) sq.SelectBuilder {
	return psql.Select(
		"q.id", "q.text", "q.type", "q.user_id", "q.create_at", "q.update_at",
		"u.name",
		"e.explanation_text",
		"json_agg(json_build_object('id', c.id, 'text', c.text, 'is_correct', c.is_correct) ORDER BY c.id)",
	).
		From("questions q").
		LeftJoin("users u ON u.id = q.user_id").
		LeftJoin("explanations e ON e.question_id = q.id").
		LeftJoin("choices c ON c.question_id = q.id").
		Where(sq.Eq{"q.id": id}).
		GroupBy("q.id", "u.name", "e.explanation_text")
}

// FindDetail returns the question with its author, explanation and choices
// in id order. Choices of a text question come back empty; the answer is not
// part of this query.
func (r *QuestionRepository) FindDetail(ctx context.Context, id int64) (model.QuestionDetail, bool, error) {
	const op = "find_detail"

	rows, err := collect(ctx, r.db, questionsTable, op, id, detailQuery(id), scanDetail)
	if err != nil || len(rows) == 0 {
		return model.QuestionDetail{}, false, err
	}

	detail := rows[0]
	if detail.Type != model.QuestionTypeChoice {
		detail.Choices = []model.ChoiceView{}
	}
	return detail, true, nil
}

// scanDetail reads the json_agg column straight into joinedChoice through
// pgx's json codec.
func scanDetail(row pgx.CollectableRow) (model.QuestionDetail, error) {
	var (
		d      model.QuestionDetail
		joined []joinedChoice
	)
	err := row.Scan(
		&d.ID, &d.Text, &d.Type, &d.UserID, &d.CreateAt, &d.UpdateAt,
		&d.AuthorName,
		&d.Explanation,
		&joined,
	)
	if err != nil {
		return d, err
	}

	d.Choices = stripJoinArtifacts(joined)
	return d, nil
}

// FindPage lists questions newest first, id breaking ties, optionally only
// those of one type.
func (r *QuestionRepository) FindPage(ctx context.Context, page, limit int, typeFilter *model.QuestionType) (Page[model.Question], error) {
	const op = "find_page"

	page, limit = NormalizePage(page, limit)

	where := sq.Eq{}
	if typeFilter != nil {
		where["type"] = string(*typeFilter)
	}

	total, err := r.Count(ctx, where)
	if err != nil {
		return Page[model.Question]{}, err
	}
	pagination := NewPagination(total, page, limit)

	offset, ok := pagination.Offset()
	if !ok {
		return Page[model.Question]{Data: []model.Question{}, Pagination: pagination}, nil
	}

	b := r.selectBuilder().
		OrderBy("create_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(offset)
	if len(where) > 0 {
		b = b.Where(where)
	}

	rows, err := r.query(ctx, op, 0, b)
	if err != nil {
		return Page[model.Question]{}, err
	}
	return Page[model.Question]{Data: rows, Pagination: pagination}, nil
}

// FindByUser lists the questions attributed to a user, newest first.
func (r *QuestionRepository) FindByUser(ctx context.Context, userID int64) ([]model.Question, error) {
	return r.query(ctx, "find_by_user", userID, r.selectBuilder().
		Where(sq.Eq{"user_id": userID}).
		OrderBy("create_at DESC", "id DESC"))
}

// CountByType counts questions per type.
func (r *QuestionRepository) CountByType(ctx context.Context) ([]model.TypeCount, error) {
	b := psql.Select("type", "COUNT(*) AS count").
		From(questionsTable).
		GroupBy("type").
		OrderBy("type")
	return collect(ctx, r.db, questionsTable, "count_by_type", 0, b, pgx.RowToStructByName[model.TypeCount])
}

// CountByUser counts questions per author. Unattributed questions form one
// group with a null user.
func (r *QuestionRepository) CountByUser(ctx context.Context) ([]model.UserCount, error) {
	b := psql.Select("q.user_id", "u.name", "COUNT(*) AS count").
		From("questions q").
		LeftJoin("users u ON u.id = q.user_id").
		GroupBy("q.user_id", "u.name").
		OrderBy("count DESC", "q.user_id NULLS LAST")
	return collect(ctx, r.db, questionsTable, "count_by_user", 0, b, pgx.RowToStructByName[model.UserCount])
}

// CountByPeriod counts questions per UTC day, month or year of creation,
// latest period first.
func (r *QuestionRepository) CountByPeriod(ctx context.Context, g model.Granularity) ([]model.PeriodCount, error) {
	const op = "count_by_period"

	b := psql.Select().
		Column(sq.Expr("date_trunc(?::text, create_at AT TIME ZONE 'UTC') AS bucket", string(g))).
		Column("COUNT(*) AS count").
		From(questionsTable).
		GroupBy("bucket").
		OrderBy("bucket DESC")

	type bucketRow struct {
		Bucket time.Time
		Count  int64
	}
	rows, err := collect(ctx, r.db, questionsTable, op, 0, b, pgx.RowToStructByPos[bucketRow])
	if err != nil {
		return nil, err
	}

	out := make([]model.PeriodCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, model.PeriodCount{Period: g.Format(row.Bucket.UTC()), Count: row.Count})
	}
	return out, nil
}
