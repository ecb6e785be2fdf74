package schema

import (
	"fmt"

	"github.com/jinzhu/inflection"
)

// Options tune inference. The zero value uses DefaultUniqueNames.
type Options struct {
	// UniqueNames replaces DefaultUniqueNames when non-empty.
	UniqueNames []string
	// Strict turns a foreign key to an unknown table into an
	// AmbiguousForeignKeyTargetError instead of a dangling flag.
	Strict bool
}

// InferJSON parses a sample document and infers its schema.
func InferJSON(data []byte, opts Options) ([]*SchemaInfo, error) {
	ds, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Infer(ds, opts)
}

// Infer turns sample rows into an ordered schema. The result lists parents
// before the tables referencing them. The dataset is never modified.
func Infer(ds *Dataset, opts Options) ([]*SchemaInfo, error) {
	if ds == nil {
		return nil, invalidInput("", -1, "", "no dataset")
	}
	if err := validate(ds); err != nil {
		return nil, err
	}

	names := opts.UniqueNames
	if len(names) == 0 {
		names = DefaultUniqueNames
	}
	unique := uniqueSet(names)

	// --- Step 1: Columns per table ---
	tables := make([]*SchemaInfo, 0, len(ds.Tables))
	tableMap := make(map[string]*SchemaInfo, len(ds.Tables))
	for _, st := range ds.Tables {
		cols, pk := inferColumns(st.Name, st.Rows, unique)
		info := &SchemaInfo{
			Table:              st.Name,
			TablePlural:        inflection.Plural(st.Name),
			PrimaryKey:         pk,
			RequiredColumns:    []string{},
			ColumnsInfo:        cols,
			ForeignTables:      []string{},
			ForeignKeys:        []string{},
			ChildTables:        []string{},
			HasOne:             []string{},
			HasMany:            []string{},
			BelongsTo:          []string{},
			BelongsToMany:      []string{},
			PivotRelationships: []PivotRelationship{},
			Relations:          []Relation{},
		}
		for _, c := range cols {
			if !c.Nullable() {
				info.RequiredColumns = append(info.RequiredColumns, c.ColumnName)
			}
		}
		tables = append(tables, info)
		tableMap[st.Name] = info
	}

	// --- Step 2: Foreign tables, child tables, pivots ---
	if err := link(tables, tableMap, opts.Strict); err != nil {
		return nil, err
	}

	// --- Step 3: Relationship directions ---
	classify(ds, tables, tableMap)

	return SortTables(tables)
}

func validate(ds *Dataset) error {
	seen := make(map[string]bool, len(ds.Tables))
	for _, t := range ds.Tables {
		if t == nil || t.Name == "" {
			return invalidInput("", -1, "", "table without a name")
		}
		if seen[t.Name] {
			return invalidInput(t.Name, -1, "", "duplicate table")
		}
		seen[t.Name] = true
		for i, row := range t.Rows {
			if row == nil {
				return invalidInput(t.Name, i, "", "row must be an object")
			}
			if len(row.Keys) != len(row.Values) {
				return invalidInput(t.Name, i, "", "row keys and values disagree")
			}
			for _, k := range row.Keys {
				v, ok := row.Values[k]
				if !ok {
					return invalidInput(t.Name, i, k, "missing value")
				}
				if !isFlat(v) {
					return invalidInput(t.Name, i, k, "%v", nestedValueError{})
				}
			}
		}
	}
	return nil
}

// link fills foreignTables, foreignKeys, childTables and isPivot.
func link(tables []*SchemaInfo, tableMap map[string]*SchemaInfo, strict bool) error {
	for _, t := range tables {
		for _, c := range t.ColumnsInfo {
			fk := c.ForeignKey
			if fk == nil {
				continue
			}
			if _, ok := tableMap[fk.ForeignTableName]; !ok {
				if strict {
					return &AmbiguousForeignKeyTargetError{Table: t.Table, Column: c.ColumnName, Target: fk.ForeignTableName}
				}
				fk.Dangling = true
			}
			t.ForeignTables = appendUnique(t.ForeignTables, fk.ForeignTableName)
			t.ForeignKeys = appendUnique(t.ForeignKeys, fk.ForeignColumnName)
		}
	}

	for _, t := range tables {
		for _, parent := range t.ForeignTables {
			if p, ok := tableMap[parent]; ok {
				p.ChildTables = appendUnique(p.ChildTables, t.Table)
			}
		}
		t.IsPivot = isPivot(t, tableMap)
	}
	return nil
}

// isPivot applies the strict arity rule: exactly two foreign-key columns
// referencing two distinct tables present in the schema.
func isPivot(t *SchemaInfo, tableMap map[string]*SchemaInfo) bool {
	fks := t.ForeignKeyColumns()
	if len(fks) != 2 {
		return false
	}
	a, b := fks[0].ForeignKey.ForeignTableName, fks[1].ForeignKey.ForeignTableName
	if a == b {
		return false
	}
	_, okA := tableMap[a]
	_, okB := tableMap[b]
	return okA && okB
}

// CheckForeignKeys returns an AmbiguousForeignKeyTargetError for the first
// foreign key whose target table is not part of tables.
func CheckForeignKeys(tables []*SchemaInfo) error {
	known := make(map[string]bool, len(tables))
	for _, t := range tables {
		known[t.Table] = true
	}
	for _, t := range tables {
		for _, c := range t.ForeignKeyColumns() {
			if !known[c.ForeignKey.ForeignTableName] {
				return fmt.Errorf("check %s: %w", t.Table,
					&AmbiguousForeignKeyTargetError{Table: t.Table, Column: c.ColumnName, Target: c.ForeignKey.ForeignTableName})
			}
		}
	}
	return nil
}

func appendUnique(list []string, v string) []string {
	for _, s := range list {
		if s == v {
			return list
		}
	}
	return append(list, v)
}
