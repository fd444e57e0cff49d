package repository

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID       int64  `db:"id"`
	Name     string `db:"name"`
	Weight   int    `db:"weight"`
	internal string
}

func widgetSchema() Schema {
	return Schema{
		Table:    "widgets",
		Key:      "id",
		Columns:  []string{"id", "name", "weight"},
		Required: []string{"name"},
		OrderBy:  []string{"name DESC", "id"},
	}
}

func TestSchema_Validate(t *testing.T) {
	rowType := reflect.TypeOf(widget{})
	require.NoError(t, widgetSchema().validate(rowType))

	tests := []struct {
		name   string
		mutate func(*Schema)
	}{
		{"bad table name", func(s *Schema) { s.Table = "widgets; DROP TABLE users" }},
		{"bad column name", func(s *Schema) { s.Columns = []string{"id", "name", "Weight"} }},
		{"key not a column", func(s *Schema) { s.Key = "uuid" }},
		{"required not a column", func(s *Schema) { s.Required = []string{"colour"} }},
		{"key required", func(s *Schema) { s.Required = []string{"id"} }},
		{"order column unknown", func(s *Schema) { s.OrderBy = []string{"colour"} }},
		{"order direction bad", func(s *Schema) { s.OrderBy = []string{"name SIDEWAYS"} }},
		{"order term too long", func(s *Schema) { s.OrderBy = []string{"name DESC NULLS"} }},
		{"columns differ from tags", func(s *Schema) { s.Columns = []string{"id", "name"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := widgetSchema()
			tt.mutate(&s)
			assert.Error(t, s.validate(rowType))
		})
	}
}

func TestSchema_ValidateRejectsNonStruct(t *testing.T) {
	assert.Error(t, widgetSchema().validate(reflect.TypeOf(0)))
}

func TestSchema_OrderByDefaultsToKey(t *testing.T) {
	s := widgetSchema()
	s.OrderBy = nil
	assert.Equal(t, []string{"id"}, s.orderBy())
}

func TestEntitySchemasMatchModels(t *testing.T) {
	// Constructors panic on a schema that does not match its row type.
	assert.NotPanics(t, func() { New(nil) })
}
