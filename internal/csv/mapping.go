package csv

import "strings"

// Field names a transaction attribute a CSV column can feed.
type Field string

const (
	FieldDescription Field = "description"
	FieldCategory    Field = "category"
	FieldAmount      Field = "amount"
	FieldDate        Field = "date"
)

// autoMapFields is the auto-mapping evaluation order; earlier fields claim
// columns first and later fields never steal them.
var autoMapFields = []struct {
	field    Field
	keywords []string
}{
	{FieldDescription, []string{"description", "libelle", "label"}},
	{FieldCategory, []string{"categorie", "category", "type"}},
	{FieldAmount, []string{"montant", "amount", "prix", "price"}},
	{FieldDate, []string{"date"}},
}

// Mapping is a strict one-to-one assignment between fields and column
// indexes. Both directions are kept so Assign can atomically evict the prior
// occupant of either side.
type Mapping struct {
	fieldToCol map[Field]int
	colToField map[int]Field
}

func NewMapping() *Mapping {
	return &Mapping{
		fieldToCol: make(map[Field]int),
		colToField: make(map[int]Field),
	}
}

// Assign binds field to column, clearing any previous assignment of either
// the field or the column.
func (m *Mapping) Assign(field Field, column int) {
	if prev, ok := m.fieldToCol[field]; ok {
		delete(m.colToField, prev)
	}
	if prev, ok := m.colToField[column]; ok {
		delete(m.fieldToCol, prev)
	}
	m.fieldToCol[field] = column
	m.colToField[column] = field
}

// Unassign removes the field's column binding ("ignore").
func (m *Mapping) Unassign(field Field) {
	if col, ok := m.fieldToCol[field]; ok {
		delete(m.colToField, col)
		delete(m.fieldToCol, field)
	}
}

// Column returns the column bound to field.
func (m *Mapping) Column(field Field) (int, bool) {
	col, ok := m.fieldToCol[field]
	return col, ok
}

// Field returns the field bound to column.
func (m *Mapping) Field(column int) (Field, bool) {
	field, ok := m.colToField[column]
	return field, ok
}

// Complete reports whether the minimum mapping to import is present:
// description, amount and date. Category stays optional.
func (m *Mapping) Complete() bool {
	for _, f := range []Field{FieldDescription, FieldAmount, FieldDate} {
		if _, ok := m.fieldToCol[f]; !ok {
			return false
		}
	}
	return true
}

// AutoMap suggests a mapping from header names. Matching is case-insensitive
// substring; the first matching unclaimed column wins for each field.
func AutoMap(headers []string) *Mapping {
	m := NewMapping()
	for _, entry := range autoMapFields {
		for col, header := range headers {
			if _, taken := m.colToField[col]; taken {
				continue
			}
			if headerMatches(header, entry.keywords) {
				m.Assign(entry.field, col)
				break
			}
		}
	}
	return m
}

func headerMatches(header string, keywords []string) bool {
	lower := strings.ToLower(header)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
