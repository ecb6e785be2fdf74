package schema

import (
	"fmt"
	"strings"
)

// DefaultUniqueNames are column names conventionally carrying a UNIQUE constraint.
var DefaultUniqueNames = []string{
	"email", "username", "user_name", "slug", "sku", "uuid", "guid",
	"isbn", "barcode", "token", "api_key",
}

const fkSuffix = "_id"

// field aggregates what the rows say about one key.
type field struct {
	name     string
	types    []DataType
	first    DataType
	hasValue bool
	hasNull  bool
}

func (f *field) observe(v any) {
	if v == nil {
		f.hasNull = true
		return
	}
	t := TypeOf(v)
	if !f.hasValue {
		f.first = t
		f.hasValue = true
	}
	for _, seen := range f.types {
		if seen == t {
			return
		}
	}
	f.types = append(f.types, t)
}

// collectFields scans every row and returns one aggregate per key, in
// first-seen order across the rows.
func collectFields(rows []*Row) []*field {
	var fields []*field
	index := make(map[string]*field)
	for _, row := range rows {
		for _, key := range row.Keys {
			f, ok := index[key]
			if !ok {
				f = &field{name: key}
				index[key] = f
				fields = append(fields, f)
			}
			f.observe(row.Values[key])
		}
	}
	return fields
}

// primaryKeyName returns the primary key identity of a table and whether it
// is a literal column of the sample.
func primaryKeyName(table string, rows []*Row) (string, bool) {
	if len(rows) > 0 && len(rows[0].Keys) > 0 {
		first := rows[0].Keys[0]
		if strings.Contains(first, "id") {
			return first, true
		}
	}
	return table + fkSuffix, false
}

// inferColumns produces the ordered ColumnInfo sequence for one table.
func inferColumns(table string, rows []*Row, unique map[string]bool) ([]*ColumnInfo, string) {
	pk, literal := primaryKeyName(table, rows)
	ownID := table + fkSuffix

	fields := collectFields(rows)
	cols := make([]*ColumnInfo, 0, len(fields))
	for _, f := range fields {
		col := &ColumnInfo{
			ColumnName:    f.name,
			DataType:      TypeUndefined,
			ObservedTypes: f.types,
			IsNullable:    NotNullable,
		}
		if f.hasValue {
			col.DataType = f.first
		}
		if col.ObservedTypes == nil {
			col.ObservedTypes = []DataType{}
		}
		if f.hasNull {
			col.IsNullable = Nullable
		}

		col.PrimaryKey = (literal && f.name == pk) || f.name == ownID
		if col.PrimaryKey {
			def := fmt.Sprintf("nextval('%s_%s_seq'::regclass)", table, f.name)
			col.ColumnDefault = &def
		}
		col.Unique = !col.PrimaryKey && unique[strings.ToLower(f.name)]

		if !col.PrimaryKey && f.name != ownID && strings.HasSuffix(f.name, fkSuffix) && len(f.name) > len(fkSuffix) {
			col.ForeignKey = &ForeignKey{
				ForeignTableName:  strings.TrimSuffix(f.name, fkSuffix),
				ForeignColumnName: f.name,
			}
		}
		cols = append(cols, col)
	}

	// The first-column candidate wins over a literal ${table}_id column so
	// the table never ends up with two primary keys.
	if own := findColumn(cols, ownID); own != nil {
		if literal && pk != ownID {
			own.PrimaryKey = false
			own.ColumnDefault = nil
			own.Unique = unique[strings.ToLower(own.ColumnName)]
		} else {
			pk = ownID
		}
	}
	return cols, pk
}

func findColumn(cols []*ColumnInfo, name string) *ColumnInfo {
	for _, c := range cols {
		if c.ColumnName == name {
			return c
		}
	}
	return nil
}

func uniqueSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(strings.TrimSpace(n))] = true
	}
	return set
}
