package repository

import (
	"context"
	"math"
	"strconv"
	"testing"
	"time"

	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/deppfellow/quizbank/internal/model"
	"github.com/deppfellow/quizbank/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func insertAt(t *testing.T, db *database.Database, qType model.QuestionType, userID *int64, at time.Time) int64 {
	t.Helper()

	var id int64
	err := db.Pool.QueryRow(context.Background(),
		"INSERT INTO questions (text, type, user_id, create_at, update_at) VALUES ($1, $2, $3, $4, $4) RETURNING id",
		"question", string(qType), userID, at).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestQuestionRepository_FindPageWithTypeFilter(t *testing.T) {
	db := testutil.Database(t, time.Second)
	repos := New(db)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		qType := model.QuestionTypeChoice
		if i < 2 {
			qType = model.QuestionTypeText
		}
		insertAt(t, db, qType, nil, base.Add(time.Duration(i)*time.Hour))
	}

	choice := model.QuestionTypeChoice
	page, err := repos.Questions.FindPage(ctx, 1, 2, &choice)
	require.NoError(t, err)

	assert.Equal(t, Pagination{Total: 3, Page: 1, Limit: 2, TotalPages: 2}, page.Pagination)
	require.Len(t, page.Data, 2)
	assert.True(t, page.Data[0].CreateAt.After(page.Data[1].CreateAt))
	for _, q := range page.Data {
		assert.Equal(t, model.QuestionTypeChoice, q.Type)
	}

	all, err := repos.Questions.FindPage(ctx, 1, 10, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), all.Pagination.Total)
	assert.Len(t, all.Data, 5)
}

func TestQuestionRepository_CountByType(t *testing.T) {
	db := testutil.Database(t, time.Second)
	repos := New(db)

	now := time.Now()
	for i := 0; i < 3; i++ {
		insertAt(t, db, model.QuestionTypeChoice, nil, now)
	}
	for i := 0; i < 2; i++ {
		insertAt(t, db, model.QuestionTypeText, nil, now)
	}

	counts, err := repos.Questions.CountByType(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.TypeCount{
		{Type: model.QuestionTypeChoice, Count: 3},
		{Type: model.QuestionTypeText, Count: 2},
	}, counts)
}

func TestQuestionRepository_CountByUser(t *testing.T) {
	db := testutil.Database(t, time.Second)
	repos := New(db)

	ada := testutil.CreateUser(t, db, "ada")
	bob := testutil.CreateUser(t, db, "bob")
	now := time.Now()
	insertAt(t, db, model.QuestionTypeText, &ada, now)
	insertAt(t, db, model.QuestionTypeText, &ada, now)
	insertAt(t, db, model.QuestionTypeText, &bob, now)
	insertAt(t, db, model.QuestionTypeText, nil, now)

	counts, err := repos.Questions.CountByUser(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 3)

	assert.Equal(t, ada, *counts[0].UserID)
	assert.Equal(t, "ada", *counts[0].Name)
	assert.Equal(t, int64(2), counts[0].Count)

	assert.Equal(t, bob, *counts[1].UserID)
	assert.Equal(t, int64(1), counts[1].Count)

	assert.Nil(t, counts[2].UserID)
	assert.Nil(t, counts[2].Name)
	assert.Equal(t, int64(1), counts[2].Count)
}

func TestQuestionRepository_CountByPeriod(t *testing.T) {
	db := testutil.Database(t, time.Second)
	repos := New(db)

	insertAt(t, db, model.QuestionTypeText, nil, time.Date(2023, 12, 31, 23, 30, 0, 0, time.UTC))
	insertAt(t, db, model.QuestionTypeText, nil, time.Date(2024, 1, 5, 8, 0, 0, 0, time.UTC))
	insertAt(t, db, model.QuestionTypeText, nil, time.Date(2024, 1, 20, 8, 0, 0, 0, time.UTC))
	// 2024-02-01 01:00 in UTC, still January in New York.
	insertAt(t, db, model.QuestionTypeText, nil, time.Date(2024, 1, 31, 20, 0, 0, 0, time.FixedZone("EST", -5*3600)))

	tests := []struct {
		name string
		g    model.Granularity
		want []model.PeriodCount
	}{
		{
			name: "month",
			g:    model.GranularityMonth,
			want: []model.PeriodCount{
				{Period: "2024-02", Count: 1},
				{Period: "2024-01", Count: 2},
				{Period: "2023-12", Count: 1},
			},
		},
		{
			name: "year",
			g:    model.GranularityYear,
			want: []model.PeriodCount{
				{Period: "2024", Count: 3},
				{Period: "2023", Count: 1},
			},
		},
		{
			name: "day",
			g:    model.GranularityDay,
			want: []model.PeriodCount{
				{Period: "2024-02-01", Count: 1},
				{Period: "2024-01-20", Count: 1},
				{Period: "2024-01-05", Count: 1},
				{Period: "2023-12-31", Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repos.Questions.CountByPeriod(context.Background(), tt.g)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserRepository_FindByNameAndQuestions(t *testing.T) {
	db := testutil.Database(t, time.Second)
	repos := New(db)
	ctx := context.Background()

	ada := testutil.CreateUser(t, db, "ada")
	older := insertAt(t, db, model.QuestionTypeText, &ada, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	newer := insertAt(t, db, model.QuestionTypeChoice, &ada, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
	insertAt(t, db, model.QuestionTypeText, nil, time.Now())

	user, found, err := repos.Users.FindByName(ctx, "ada")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, ada, user.ID)

	_, found, err = repos.Users.FindByName(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, found)

	withQuestions, found, err := repos.Users.FindWithQuestions(ctx, ada)
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, withQuestions.Questions, 2)
	assert.Equal(t, newer, withQuestions.Questions[0].ID)
	assert.Equal(t, older, withQuestions.Questions[1].ID)

	bob := testutil.CreateUser(t, db, "bob")
	withQuestions, found, err = repos.Users.FindWithQuestions(ctx, bob)
	require.NoError(t, err)
	require.True(t, found)
	assert.NotNil(t, withQuestions.Questions)
	assert.Empty(t, withQuestions.Questions)

	_, found, err = repos.Users.FindWithQuestions(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestChoiceRepository_UnknownQuestionIsConstraintViolation(t *testing.T) {
	db := testutil.Database(t, time.Second)
	repos := New(db)

	_, err := repos.Choices.CreateFor(context.Background(), 9999, model.ChoiceInput{Text: "A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrConstraintViolation)

	var de *errs.DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "choices", de.Table)
	assert.Equal(t, "create", de.Op)
}

func TestQuestionRepository_FindDetailMissing(t *testing.T) {
	db := testutil.Database(t, time.Second)

	_, found, err := New(db).Questions.FindDetail(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestTable_InTxRollsBack(t *testing.T) {
	db := testutil.Database(t, time.Second)
	repos := New(db)
	ctx := context.Background()

	err := db.InTx(ctx, func(tx database.Executor) error {
		if _, err := repos.WithExecutor(tx).Questions.Insert(ctx, "kept?", model.QuestionTypeText, nil); err != nil {
			return err
		}
		return errs.NewNotFound("questions", "test", 0)
	})
	require.Error(t, err)

	total, err := repos.Questions.Count(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, total)
}

func TestTable_FindAllInKeyOrder(t *testing.T) {
	db := testutil.Database(t, time.Second)
	repos := New(db)

	names := []string{"carol", "ada", "bob"}
	var ids []int64
	for _, name := range names {
		ids = append(ids, testutil.CreateUser(t, db, name))
	}

	users, err := repos.Users.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 3)
	for i, u := range users {
		assert.Equal(t, ids[i], u.ID)
		assert.Equal(t, names[i], u.Name)
	}
}

func TestTable_FindAllPaginated(t *testing.T) {
	db := testutil.Database(t, time.Second)
	repos := New(db)
	ctx := context.Background()

	const total = 7
	var ids []int64
	for i := 0; i < total; i++ {
		ids = append(ids, testutil.CreateUser(t, db, "user"+strconv.Itoa(i)))
	}

	for _, limit := range []int{1, 2, 3, 7, 50} {
		wantPages := (total + limit - 1) / limit
		for page := 1; page <= wantPages+1; page++ {
			got, err := repos.Users.FindAllPaginated(ctx, page, limit)
			require.NoError(t, err)

			assert.Equal(t, int64(total), got.Pagination.Total)
			assert.Equal(t, wantPages, got.Pagination.TotalPages)
			assert.LessOrEqual(t, len(got.Data), limit)
			if page > wantPages {
				assert.NotNil(t, got.Data)
				assert.Empty(t, got.Data)
			}
		}
	}

	second, err := repos.Users.FindAllPaginated(ctx, 2, 3)
	require.NoError(t, err)
	require.Len(t, second.Data, 3)
	assert.Equal(t, ids[3], second.Data[0].ID)

	beyondBigint, err := repos.Users.FindAllPaginated(ctx, 1<<62+1, 100)
	require.NoError(t, err)
	assert.Empty(t, beyondBigint.Data)
	assert.Equal(t, 1<<62+1, beyondBigint.Pagination.Page)

	huge, err := repos.Users.FindAllPaginated(ctx, 1, math.MaxInt)
	require.NoError(t, err)
	assert.Len(t, huge.Data, total)
	assert.Equal(t, 1, huge.Pagination.TotalPages)
}

func TestQuestionRepository_FindPageBeyondBigint(t *testing.T) {
	db := testutil.Database(t, time.Second)
	insertAt(t, db, model.QuestionTypeText, nil, time.Now())

	page, err := New(db).Questions.FindPage(context.Background(), 1<<62+1, 100, nil)
	require.NoError(t, err)
	assert.NotNil(t, page.Data)
	assert.Empty(t, page.Data)
	assert.Equal(t, int64(1), page.Pagination.Total)
}
