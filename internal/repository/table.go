package repository

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/deppfellow/quizbank/internal/database"
	"github.com/deppfellow/quizbank/internal/errs"
	"github.com/deppfellow/quizbank/internal/sqlerr"
	"github.com/jackc/pgx/v5"
)

// psql builds PostgreSQL statements with $n placeholders.
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// Table is the generic repository over one table whose rows scan into T.
//
// Absence is never an error: FindByID reports found=false and Update and
// Delete report zero affected rows. Every failure is a *errs.DataError that
// names the table, the operation and the id.
type Table[T any] struct {
	schema Schema
	db     database.Executor
}

// NewTable checks schema against T's db tags.
func NewTable[T any](db database.Executor, schema Schema) (*Table[T], error) {
	var zero T
	if err := schema.validate(reflect.TypeOf(zero)); err != nil {
		return nil, err
	}
	return &Table[T]{schema: schema, db: db}, nil
}

// MustTable is NewTable for package-level schemas known to be valid.
func MustTable[T any](db database.Executor, schema Schema) *Table[T] {
	t, err := NewTable[T](db, schema)
	if err != nil {
		panic(err)
	}
	return t
}

// WithExecutor returns a copy bound to db, typically a transaction.
func (t *Table[T]) WithExecutor(db database.Executor) *Table[T] {
	c := *t
	c.db = db
	return &c
}

func (t *Table[T]) Schema() Schema {
	return t.schema
}

func (t *Table[T]) fail(op string, id int64, err error) error {
	return sqlerr.HandleError(t.schema.Table, op, id, err)
}

func (t *Table[T]) selectBuilder() sq.SelectBuilder {
	return psql.Select(t.schema.Columns...).From(t.schema.Table)
}

// checkFields rejects unknown columns and, with allowKey false, the key.
func (t *Table[T]) checkFields(op string, id int64, fields map[string]any, allowKey bool) error {
	for name := range fields {
		if !t.schema.hasColumn(name) {
			return errs.NewConstraintViolation(t.schema.Table, op, id, fmt.Sprintf("unknown column %q", name), nil)
		}
		if !allowKey && name == t.schema.Key {
			return errs.NewConstraintViolation(t.schema.Table, op, id, fmt.Sprintf("column %q cannot be written", name), nil)
		}
	}
	return nil
}

func (t *Table[T]) query(ctx context.Context, op string, id int64, b sq.SelectBuilder) ([]T, error) {
	return collect(ctx, t.db, t.schema.Table, op, id, b, pgx.RowToStructByName[T])
}

// collect runs a select on a borrowed connection and scans every row with
// scan. The result is never nil.
func collect[R any](ctx context.Context, db database.Executor, table, op string, id int64, b sq.Sqlizer, scan pgx.RowToFunc[R]) ([]R, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, sqlerr.HandleError(table, op, id, err)
	}

	var out []R
	err = db.Run(ctx, func(q database.Querier) error {
		rows, err := q.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, scan)
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(table, op, id, err)
	}
	if out == nil {
		out = []R{}
	}
	return out, nil
}

func (t *Table[T]) exec(ctx context.Context, op string, id int64, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, t.fail(op, id, err)
	}

	var affected int64
	err = t.db.Run(ctx, func(q database.Querier) error {
		tag, err := q.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, t.fail(op, id, err)
	}
	return affected, nil
}

// FindAll returns every row in the schema's order.
func (t *Table[T]) FindAll(ctx context.Context) ([]T, error) {
	return t.query(ctx, "find_all", 0, t.selectBuilder().OrderBy(t.schema.orderBy()...))
}

// FindByID returns the row with the given key.
func (t *Table[T]) FindByID(ctx context.Context, id int64) (T, bool, error) {
	rows, err := t.query(ctx, "find_by_id", id, t.selectBuilder().Where(sq.Eq{t.schema.Key: id}))
	if err != nil || len(rows) == 0 {
		var zero T
		return zero, false, err
	}
	return rows[0], true, nil
}

// FindWhere returns rows matching every equality in where, in the schema's
// order.
func (t *Table[T]) FindWhere(ctx context.Context, where sq.Eq) ([]T, error) {
	if err := t.checkFields("find_where", 0, where, true); err != nil {
		return nil, err
	}
	return t.query(ctx, "find_where", 0, t.selectBuilder().Where(where).OrderBy(t.schema.orderBy()...))
}

// FindOneWhere returns the first row FindWhere would return.
func (t *Table[T]) FindOneWhere(ctx context.Context, where sq.Eq) (T, bool, error) {
	var zero T
	if err := t.checkFields("find_one_where", 0, where, true); err != nil {
		return zero, false, err
	}
	rows, err := t.query(ctx, "find_one_where", 0,
		t.selectBuilder().Where(where).OrderBy(t.schema.orderBy()...).Limit(1))
	if err != nil || len(rows) == 0 {
		return zero, false, err
	}
	return rows[0], true, nil
}

// Count counts rows matching where; a nil where counts the whole table.
func (t *Table[T]) Count(ctx context.Context, where sq.Eq) (int64, error) {
	if err := t.checkFields("count", 0, where, true); err != nil {
		return 0, err
	}

	b := psql.Select("COUNT(*)").From(t.schema.Table)
	if len(where) > 0 {
		b = b.Where(where)
	}

	query, args, err := b.ToSql()
	if err != nil {
		return 0, t.fail("count", 0, err)
	}

	var total int64
	err = t.db.Run(ctx, func(q database.Querier) error {
		return q.QueryRow(ctx, query, args...).Scan(&total)
	})
	if err != nil {
		return 0, t.fail("count", 0, err)
	}
	return total, nil
}

// Create inserts one row and returns its generated key.
//
// Unknown columns, the key itself and missing required columns are rejected
// as ConstraintViolation before anything reaches the store.
func (t *Table[T]) Create(ctx context.Context, fields map[string]any) (int64, error) {
	const op = "create"

	if len(fields) == 0 {
		return 0, errs.NewConstraintViolation(t.schema.Table, op, 0, "no columns to insert", nil)
	}
	if err := t.checkFields(op, 0, fields, false); err != nil {
		return 0, err
	}

	var missing []string
	for _, c := range t.schema.Required {
		if v, ok := fields[c]; !ok || v == nil {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return 0, errs.NewConstraintViolation(t.schema.Table, op, 0,
			"missing required columns: "+strings.Join(missing, ", "), nil)
	}

	query, args, err := psql.Insert(t.schema.Table).
		SetMap(fields).
		Suffix("RETURNING " + t.schema.Key).
		ToSql()
	if err != nil {
		return 0, t.fail(op, 0, err)
	}

	var id int64
	err = t.db.Run(ctx, func(q database.Querier) error {
		return q.QueryRow(ctx, query, args...).Scan(&id)
	})
	if err != nil {
		return 0, t.fail(op, 0, err)
	}
	return id, nil
}

// Update sets fields on the row with the given key and returns the number of
// affected rows; zero means no such row.
func (t *Table[T]) Update(ctx context.Context, id int64, fields map[string]any) (int64, error) {
	const op = "update"

	if len(fields) == 0 {
		return 0, errs.NewConstraintViolation(t.schema.Table, op, id, "no columns to update", nil)
	}
	if err := t.checkFields(op, id, fields, false); err != nil {
		return 0, err
	}

	return t.exec(ctx, op, id, psql.Update(t.schema.Table).SetMap(fields).Where(sq.Eq{t.schema.Key: id}))
}

// Delete removes the row with the given key and returns the number of
// affected rows.
func (t *Table[T]) Delete(ctx context.Context, id int64) (int64, error) {
	return t.exec(ctx, "delete", id, psql.Delete(t.schema.Table).Where(sq.Eq{t.schema.Key: id}))
}

// DeleteWhere removes rows matching where. An empty where is refused.
func (t *Table[T]) DeleteWhere(ctx context.Context, where sq.Eq) (int64, error) {
	const op = "delete_where"

	if len(where) == 0 {
		return 0, errs.NewConstraintViolation(t.schema.Table, op, 0, "refusing to delete without a condition", nil)
	}
	if err := t.checkFields(op, 0, where, true); err != nil {
		return 0, err
	}

	return t.exec(ctx, op, 0, psql.Delete(t.schema.Table).Where(where))
}

// FindAllPaginated returns one page in the schema's order.
//
// The total and the rows come from two separate statements without a
// transaction, so a write landing between them can make the pagination
// block disagree with Data by that write.
func (t *Table[T]) FindAllPaginated(ctx context.Context, page, limit int) (Page[T], error) {
	page, limit = NormalizePage(page, limit)

	total, err := t.Count(ctx, nil)
	if err != nil {
		return Page[T]{}, err
	}

	pagination := NewPagination(total, page, limit)

	offset, ok := pagination.Offset()
	if !ok {
		return Page[T]{Data: []T{}, Pagination: pagination}, nil
	}

	rows, err := t.query(ctx, "find_all_paginated", 0, t.selectBuilder().
		OrderBy(t.schema.orderBy()...).
		Limit(uint64(limit)).
		Offset(offset))
	if err != nil {
		return Page[T]{}, err
	}

	return Page[T]{Data: rows, Pagination: pagination}, nil
}
