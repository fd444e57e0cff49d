package repository

import (
	"context"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refusingExecutor fails the test if a statement would reach the store.
type refusingExecutor struct {
	t *testing.T
}

func (e refusingExecutor) Run(context.Context, func(database.Querier) error) error {
	e.t.Fatal("statement reached the store")
	return nil
}

func (e refusingExecutor) InTx(context.Context, func(database.Executor) error) error {
	e.t.Fatal("transaction reached the store")
	return nil
}

func newWidgetTable(t *testing.T) *Table[widget] {
	table, err := NewTable[widget](refusingExecutor{t: t}, widgetSchema())
	require.NoError(t, err)
	return table
}

func TestNewTable_RejectsMismatchedSchema(t *testing.T) {
	s := widgetSchema()
	s.Columns = []string{"id", "name"}

	_, err := NewTable[widget](nil, s)
	assert.Error(t, err)
	assert.Panics(t, func() { MustTable[widget](nil, s) })
}

func TestTable_WriteGuards(t *testing.T) {
	ctx := context.Background()
	table := newWidgetTable(t)

	tests := []struct {
		name string
		run  func() error
	}{
		{"create without fields", func() error {
			_, err := table.Create(ctx, nil)
			return err
		}},
		{"create unknown column", func() error {
			_, err := table.Create(ctx, map[string]any{"name": "a", "colour": "red"})
			return err
		}},
		{"create writes key", func() error {
			_, err := table.Create(ctx, map[string]any{"id": 1, "name": "a"})
			return err
		}},
		{"create missing required", func() error {
			_, err := table.Create(ctx, map[string]any{"weight": 3})
			return err
		}},
		{"create nil required", func() error {
			_, err := table.Create(ctx, map[string]any{"name": nil})
			return err
		}},
		{"update without fields", func() error {
			_, err := table.Update(ctx, 1, map[string]any{})
			return err
		}},
		{"update key", func() error {
			_, err := table.Update(ctx, 1, map[string]any{"id": 2})
			return err
		}},
		{"find where unknown column", func() error {
			_, err := table.FindWhere(ctx, sq.Eq{"colour": "red"})
			return err
		}},
		{"count unknown column", func() error {
			_, err := table.Count(ctx, sq.Eq{"colour": "red"})
			return err
		}},
		{"delete without condition", func() error {
			_, err := table.DeleteWhere(ctx, sq.Eq{})
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.run()
			require.Error(t, err)
			assert.ErrorIs(t, err, errs.ErrConstraintViolation)

			var de *errs.DataError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, "widgets", de.Table)
		})
	}
}

func TestTable_CreateReportsMissingColumns(t *testing.T) {
	table := newWidgetTable(t)

	_, err := table.Create(context.Background(), map[string]any{"weight": 3})

	var de *errs.DataError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, "missing required columns: name", de.Message)
	assert.Equal(t, "create", de.Op)
}

func TestTable_WithExecutorKeepsSchema(t *testing.T) {
	table := newWidgetTable(t)
	other := table.WithExecutor(nil)

	assert.Equal(t, table.Schema(), other.Schema())
	assert.NotSame(t, table, other)
}
