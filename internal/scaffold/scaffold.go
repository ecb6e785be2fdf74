// Package scaffold emits backend source files (models, repositories,
// controllers and routes) for inferred tables.
package scaffold

import (
	"bytes"
	"embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"db-scaffold/internal/dialect"
	"db-scaffold/internal/naming"
	"db-scaffold/internal/schema"
	"db-scaffold/internal/writer"
)

//go:embed templates
var templateFS embed.FS

// File is one generated source file.
type File = writer.File

// Emitter renders a set of tables for one backend framework.
type Emitter interface {
	Name() string
	Emit(tables []*schema.SchemaInfo) ([]File, error)
}

// Options carries what emitters need beyond the tables.
type Options struct {
	// Module is the Go module path generated Go code imports its packages from.
	Module string
	// Dialect shapes quoting and placeholders in generated SQL.
	Dialect dialect.Dialect
}

type factory func(Options) (Emitter, error)

var registry = map[string]factory{
	"laravel": newLaravel,
	"generic": newGeneric,
}

// Frameworks lists the supported framework names.
func Frameworks() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Get returns the emitter for framework.
func Get(framework string, opts Options) (Emitter, error) {
	f, ok := registry[strings.ToLower(strings.TrimSpace(framework))]
	if !ok {
		return nil, fmt.Errorf("unsupported framework %q; use one of %s", framework, strings.Join(Frameworks(), ", "))
	}
	if opts.Dialect == nil {
		opts.Dialect = dialect.GetDialect(string(dialect.PostgreSQL))
	}
	if opts.Module == "" {
		opts.Module = "app"
	}
	return f(opts)
}

func parseTemplates(dir string, funcs template.FuncMap) (*template.Template, error) {
	tmpl, err := template.New(dir).Funcs(funcs).ParseFS(templateFS, "templates/"+dir+"/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing %s templates: %w", dir, err)
	}
	return tmpl, nil
}

func render(tmpl *template.Template, name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

// relation is one relationship method or field on a generated model.
type relation struct {
	Name       string
	Type       schema.RelationType
	Model      string
	Table      string
	ForeignKey string
	OwnerKey   string
	PivotTable string
	PivotOwner string
	PivotOther string
	Many       bool
}

// relationsOf resolves the relations of t against the other tables, in the
// order belongsTo, hasOne, hasMany, belongsToMany.
func relationsOf(t *schema.SchemaInfo, tables []*schema.SchemaInfo) []relation {
	var rels []relation
	seen := make(map[string]bool)
	add := func(r relation) {
		if seen[r.Name] {
			return
		}
		seen[r.Name] = true
		rels = append(rels, r)
	}

	order := []schema.RelationType{schema.BelongsTo, schema.HasOne, schema.HasMany, schema.BelongsToMany}
	for _, kind := range order {
		for _, r := range t.Relations {
			if r.Type != kind {
				continue
			}
			other := schema.Find(tables, r.Table)
			if other == nil {
				continue
			}
			rel := relation{Type: r.Type, Model: naming.Model(r.Table), Table: r.Table}
			switch r.Type {
			case schema.BelongsTo:
				rel.Name = naming.Camel(naming.Singular(r.Table))
				rel.ForeignKey = r.Column
				rel.OwnerKey = other.PrimaryKey
			case schema.HasOne:
				rel.Name = naming.Camel(naming.Singular(r.Table))
				rel.ForeignKey = r.Column
				rel.OwnerKey = t.PrimaryKey
			case schema.HasMany:
				rel.Name = naming.Camel(naming.Plural(r.Table))
				rel.ForeignKey = r.Column
				rel.OwnerKey = t.PrimaryKey
				rel.Many = true
			case schema.BelongsToMany:
				pivot := schema.Find(tables, r.PivotTable)
				if pivot == nil {
					continue
				}
				rel.Name = naming.Camel(naming.Plural(r.Table))
				rel.PivotTable = r.PivotTable
				rel.PivotOwner = pivotColumn(pivot, t.Table)
				rel.PivotOther = pivotColumn(pivot, r.Table)
				rel.Many = true
			}
			add(rel)
		}
	}
	return rels
}

func pivotColumn(pivot *schema.SchemaInfo, table string) string {
	for _, c := range pivot.ForeignKeyColumns() {
		if c.ForeignKey.ForeignTableName == table {
			return c.ColumnName
		}
	}
	return table + "_id"
}
