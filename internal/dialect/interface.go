package dialect

import "db-scaffold/internal/schema"

// Dialect abstracts database-specific SQL emission.
type Dialect interface {
	Name() Name

	// Identifiers and values
	Quote(identifier string) string
	Literal(v any) string

	// Column definitions
	ColumnType(col *schema.ColumnInfo) string
	PrimaryKeyDefinition(col *schema.ColumnInfo) string

	// Statement generation
	CreateTableQuery(t *schema.SchemaInfo, refs References) string
	DropTableQuery(table string) string
	TruncateQuery(table string) string
	InsertQuery(table string, cols []string, rows [][]any) string
	Placeholder(index int) string

	// Script framing, e.g. disabling FK checks around a seed.
	BeforeSeed() []string
	AfterSeed() []string
}

// References resolves the column a foreign key should point at in its
// parent table.
type References func(table string) (column string, ok bool)

// ReferencesFor builds References from inferred tables: the parent's
// primary key, which is either a literal column or the synthetic key that
// CreateTableQuery adds.
func ReferencesFor(tables []*schema.SchemaInfo) References {
	pks := make(map[string]string, len(tables))
	for _, t := range tables {
		if t.PrimaryKey != "" {
			pks[t.Table] = t.PrimaryKey
		}
	}
	return func(table string) (string, bool) {
		col, ok := pks[table]
		return col, ok
	}
}
