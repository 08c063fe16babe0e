package models

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// DateLayout is the wire format of date fields in forms and exports.
const DateLayout = "2006-01-02"

type FieldKind int

const (
	KindText FieldKind = iota
	KindLongText
	KindDate
	KindBool
	KindUUID
	KindTimestamp
)

var (
	errInvalidDate = errors.New("Enter a valid date.")
	errInvalidUUID = errors.New("Enter a valid UUID.")
)

// parse converts a trimmed form value into the value handed to Field.Set:
// string for text kinds, *time.Time for dates, bool for flags and
// *uuid.UUID for identifiers. Blank optional values become nil pointers.
func (k FieldKind) parse(raw string) (any, error) {
	switch k {
	case KindDate:
		if raw == "" {
			return (*time.Time)(nil), nil
		}
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			return nil, errInvalidDate
		}
		return &d, nil
	case KindBool:
		switch strings.ToLower(raw) {
		case "on", "true", "1", "yes":
			return true, nil
		}
		return false, nil
	case KindUUID:
		if raw == "" {
			return (*uuid.UUID)(nil), nil
		}
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, errInvalidUUID
		}
		return &id, nil
	default:
		return raw, nil
	}
}

// Field describes one column of an entity.
type Field[T any] struct {
	Name       string
	Column     string
	Label      string
	Kind       FieldKind
	Required   bool
	MaxLength  int
	Editable   bool
	Searchable bool
	Sortable   bool
	Exported   bool
	Get        func(*T) any
	Set        func(*T, any)
}

// ColumnName is the SQL column backing the field.
func (f Field[T]) ColumnName() string {
	if f.Column != "" {
		return f.Column
	}
	return f.Name
}

// Schema is the static field declaration of an entity kind.
type Schema[T any] struct {
	Table       string
	DefaultSort string
	Fields      []Field[T]
}

func (s *Schema[T]) Field(name string) (Field[T], bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// SearchColumns lists the columns matched by the free-text search.
func (s *Schema[T]) SearchColumns() []string {
	var cols []string
	for _, f := range s.Fields {
		if f.Searchable {
			cols = append(cols, f.ColumnName())
		}
	}
	return cols
}

// SortColumn maps a sortable field name to its column, falling back to the
// default sort field.
func (s *Schema[T]) SortColumn(name string) string {
	if f, ok := s.Field(name); ok && f.Sortable {
		return f.ColumnName()
	}
	f, _ := s.Field(s.DefaultSort)
	return f.ColumnName()
}

// Normalize resolves a raw list query against the schema: unknown sort
// fields fall back to the default field ascending, page sizes outside
// PerPageChoices fall back to DefaultPerPage and pages start at 1.
func (s *Schema[T]) Normalize(q ListQuery) ListQuery {
	q.Search = strings.TrimSpace(q.Search)
	if f, ok := s.Field(q.SortField); !ok || !f.Sortable {
		q.SortField = s.DefaultSort
		q.SortDir = SortAsc
	} else if q.SortDir != SortDesc {
		q.SortDir = SortAsc
	}
	q.PerPage = NormalizePerPage(q.PerPage)
	if q.Page < 1 {
		q.Page = 1
	}
	return q
}

// ExportColumns returns the positionally paired export field names and
// header labels.
func (s *Schema[T]) ExportColumns() (fields, headers []string) {
	for _, f := range s.Fields {
		if f.Exported {
			fields = append(fields, f.Name)
			headers = append(headers, f.Label)
		}
	}
	return fields, headers
}

// ExportRow returns v's exported values in ExportColumns order.
func (s *Schema[T]) ExportRow(v *T) []any {
	var row []any
	for _, f := range s.Fields {
		if f.Exported {
			row = append(row, exportValue(f.Get(v)))
		}
	}
	return row
}

func exportValue(val any) any {
	switch v := val.(type) {
	case *time.Time:
		if v == nil {
			return ""
		}
		return v.Format(DateLayout)
	case time.Time:
		return v.Format(time.RFC3339)
	case *uuid.UUID:
		if v == nil {
			return ""
		}
		return v.String()
	case uuid.UUID:
		return v.String()
	default:
		return v
	}
}

// Bind assigns every editable field of dst from form and validates the
// result. Parse failures and rule violations are reported together in a
// *ValidationError.
func (s *Schema[T]) Bind(dst *T, form url.Values) error {
	verr := NewValidationError()
	for _, f := range s.Fields {
		if !f.Editable {
			continue
		}
		v, err := f.Kind.parse(strings.TrimSpace(form.Get(f.Name)))
		if err != nil {
			verr.Add(f.Name, err.Error())
			continue
		}
		f.Set(dst, v)
	}
	s.check(dst, verr)
	return verr.OrNil()
}

// Validate checks required and length rules on v's current values.
func (s *Schema[T]) Validate(v *T) error {
	verr := NewValidationError()
	s.check(v, verr)
	return verr.OrNil()
}

func (s *Schema[T]) check(v *T, verr *ValidationError) {
	for _, f := range s.Fields {
		if !f.Editable || verr.Has(f.Name) {
			continue
		}
		val := f.Get(v)
		if f.Required && isBlank(val) {
			verr.Add(f.Name, "This field is required.")
			continue
		}
		if str, ok := val.(string); ok && f.MaxLength > 0 && utf8.RuneCountInString(str) > f.MaxLength {
			verr.Add(f.Name, fmt.Sprintf("Ensure this value has at most %d characters.", f.MaxLength))
		}
	}
}

func isBlank(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case *time.Time:
		return v == nil
	case *uuid.UUID:
		return v == nil || *v == uuid.Nil
	case uuid.UUID:
		return v == uuid.Nil
	}
	return false
}
