package repository

import (
	"fmt"
	"reflect"
	"regexp"
	"slices"
	"strings"
)

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Schema describes the table a Table[T] runs against. It is the only source
// of identifiers in generated SQL and is checked once, when the Table is
// built.
type Schema struct {
	// Table is the table name.
	Table string
	// Key is the generated integer primary key.
	Key string
	// Columns lists every column, the key included. It must match the db
	// tags of the row type exactly.
	Columns []string
	// Required columns must be present and non-nil in Create.
	Required []string
	// OrderBy is the stable listing order, e.g. "create_at DESC". Defaults to
	// the key ascending.
	OrderBy []string
}

func (s Schema) validate(rowType reflect.Type) error {
	if !identifierPattern.MatchString(s.Table) {
		return fmt.Errorf("schema: invalid table name %q", s.Table)
	}

	for _, c := range s.Columns {
		if !identifierPattern.MatchString(c) {
			return fmt.Errorf("schema %s: invalid column name %q", s.Table, c)
		}
	}

	if !slices.Contains(s.Columns, s.Key) {
		return fmt.Errorf("schema %s: key %q is not a column", s.Table, s.Key)
	}

	for _, c := range s.Required {
		if !slices.Contains(s.Columns, c) {
			return fmt.Errorf("schema %s: required column %q is not a column", s.Table, c)
		}
		if c == s.Key {
			return fmt.Errorf("schema %s: key %q cannot be required", s.Table, c)
		}
	}

	for _, o := range s.OrderBy {
		if err := s.validateOrder(o); err != nil {
			return err
		}
	}

	tags, err := dbTags(rowType)
	if err != nil {
		return fmt.Errorf("schema %s: %w", s.Table, err)
	}

	want := slices.Clone(s.Columns)
	slices.Sort(want)
	slices.Sort(tags)
	if !slices.Equal(want, tags) {
		return fmt.Errorf("schema %s: columns %v do not match %s db tags %v", s.Table, want, rowType, tags)
	}

	return nil
}

func (s Schema) validateOrder(term string) error {
	fields := strings.Fields(term)
	if len(fields) == 0 || len(fields) > 2 {
		return fmt.Errorf("schema %s: invalid order term %q", s.Table, term)
	}
	if !slices.Contains(s.Columns, fields[0]) {
		return fmt.Errorf("schema %s: order column %q is not a column", s.Table, fields[0])
	}
	if len(fields) == 2 {
		switch strings.ToUpper(fields[1]) {
		case "ASC", "DESC":
		default:
			return fmt.Errorf("schema %s: invalid order direction in %q", s.Table, term)
		}
	}
	return nil
}

func (s Schema) orderBy() []string {
	if len(s.OrderBy) == 0 {
		return []string{s.Key}
	}
	return s.OrderBy
}

func (s Schema) hasColumn(name string) bool {
	return slices.Contains(s.Columns, name)
}

// dbTags lists the db tags of a struct type. Fields tagged "-" or untagged
// are skipped.
func dbTags(t reflect.Type) ([]string, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("row type %s is not a struct", t)
	}

	var tags []string
	for i := range t.NumField() {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		if tag == "" || tag == "-" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags, nil
}
