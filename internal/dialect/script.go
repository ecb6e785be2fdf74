package dialect

import (
	"strings"

	"db-scaffold/internal/schema"
)

// TableRows is the data seeded into one table.
type TableRows struct {
	Table   string
	Columns []string
	Rows    [][]any
}

// DropScript drops tables children first. tables must be in safe order.
func DropScript(d Dialect, tables []*schema.SchemaInfo) []string {
	stmts := make([]string, 0, len(tables))
	for i := len(tables) - 1; i >= 0; i-- {
		stmts = append(stmts, d.DropTableQuery(tables[i].Table))
	}
	return stmts
}

// CreateScript creates tables parents first. tables must be in safe order.
func CreateScript(d Dialect, tables []*schema.SchemaInfo) []string {
	refs := ReferencesFor(tables)
	stmts := make([]string, 0, len(tables))
	for _, t := range tables {
		stmts = append(stmts, d.CreateTableQuery(t, refs))
	}
	return stmts
}

// SeedScript inserts data in the given order, framed by the dialect's seed hooks.
// Empty tables are skipped.
func SeedScript(d Dialect, data []TableRows) []string {
	var inserts []string
	for _, tr := range data {
		if q := d.InsertQuery(tr.Table, tr.Columns, tr.Rows); q != "" {
			inserts = append(inserts, q)
		}
	}
	if len(inserts) == 0 {
		return nil
	}
	stmts := append([]string{}, d.BeforeSeed()...)
	stmts = append(stmts, inserts...)
	return append(stmts, d.AfterSeed()...)
}

// Script renders drop, create and seed statements as one SQL file.
func Script(d Dialect, tables []*schema.SchemaInfo, data []TableRows) string {
	var b strings.Builder
	section := func(title string, stmts []string) {
		if len(stmts) == 0 {
			return
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("-- " + title + "\n")
		for _, s := range stmts {
			b.WriteString(s)
			b.WriteString("\n")
		}
	}
	section("drop", DropScript(d, tables))
	section("create", CreateScript(d, tables))
	section("seed", SeedScript(d, data))
	return b.String()
}
