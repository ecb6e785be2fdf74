package scaffold

import (
	"fmt"
	"go/format"
	"path"
	"strconv"
	"strings"
	"text/template"
	"unicode"

	"db-scaffold/internal/naming"
	"db-scaffold/internal/schema"
)

// generic emits a plain Go backend: database/sql repositories and net/http
// handlers.
type generic struct {
	tmpl *template.Template
	opts Options
}

func newGeneric(opts Options) (Emitter, error) {
	tmpl, err := parseTemplates("generic", template.FuncMap{"quote": strconv.Quote})
	if err != nil {
		return nil, err
	}
	return &generic{tmpl: tmpl, opts: opts}, nil
}

func (g *generic) Name() string { return "generic" }

type goField struct {
	Name string
	Type string
	Tag  string
}

type goModel struct {
	Module    string
	Table     string
	Model     string
	Var       string
	Route     string
	NeedsTime bool
	Fields    []goField
	Relations []goField
	SelectSQL string
	WhereSQL  string
	DeleteSQL string
}

// Emit writes one model, repository and handler per table plus the shared
// response helpers and route registration.
func (g *generic) Emit(tables []*schema.SchemaInfo) ([]File, error) {
	if len(tables) == 0 {
		return nil, nil
	}

	var files []File
	models := make([]goModel, 0, len(tables))
	for _, t := range tables {
		m := g.model(t, tables)
		models = append(models, m)

		for _, out := range []struct{ tmpl, path string }{
			{"model.go.tmpl", path.Join("models", t.Table+".go")},
			{"repository.go.tmpl", path.Join("repositories", t.Table+"_repository.go")},
			{"handler.go.tmpl", path.Join("handlers", t.Table+"_handler.go")},
		} {
			f, err := g.goFile(out.tmpl, out.path, m)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", t.Table, err)
			}
			files = append(files, f)
		}
	}

	respond, err := g.goFile("respond.go.tmpl", path.Join("handlers", "respond.go"), nil)
	if err != nil {
		return nil, err
	}
	routes, err := g.goFile("routes.go.tmpl", path.Join("routes", "routes.go"), struct {
		Module string
		Models []goModel
	}{g.opts.Module, models})
	if err != nil {
		return nil, err
	}
	return append(files, respond, routes), nil
}

// goFile renders a template and gofmts the result.
func (g *generic) goFile(tmpl, p string, data any) (File, error) {
	src, err := render(g.tmpl, tmpl, data)
	if err != nil {
		return File{}, err
	}
	formatted, err := format.Source(src)
	if err != nil {
		return File{}, fmt.Errorf("formatting %s: %w", p, err)
	}
	return File{Path: p, Content: formatted}, nil
}

func (g *generic) model(t *schema.SchemaInfo, tables []*schema.SchemaInfo) goModel {
	d := g.opts.Dialect
	m := goModel{
		Module: g.opts.Module,
		Table:  t.Table,
		Model:  naming.GoName(naming.Singular(t.Table)),
		Var:    lowerFirst(naming.GoName(naming.Plural(t.Table))) + "Handler",
		Route:  strings.ReplaceAll(naming.Plural(t.Table), "_", "-"),
	}

	used := make(map[string]bool)
	fieldName := func(s string) string {
		name := naming.GoName(s)
		for i := 2; used[name]; i++ {
			name = fmt.Sprintf("%s%d", naming.GoName(s), i)
		}
		used[name] = true
		return name
	}

	cols := t.StorageColumns()
	quoted := make([]string, len(cols))
	for i, c := range cols {
		typ := goType(c)
		if typ == "time.Time" || typ == "*time.Time" {
			m.NeedsTime = true
		}
		m.Fields = append(m.Fields, goField{
			Name: fieldName(c.ColumnName),
			Type: typ,
			Tag:  fmt.Sprintf("`json:%q db:%q`", c.ColumnName, c.ColumnName),
		})
		quoted[i] = d.Quote(c.ColumnName)
	}

	for _, r := range relationsOf(t, tables) {
		typ := "*" + naming.GoName(naming.Singular(r.Table))
		src := naming.Singular(r.Table)
		if r.Many {
			typ = "[]" + naming.GoName(naming.Singular(r.Table))
			src = naming.Plural(r.Table)
		}
		m.Relations = append(m.Relations, goField{
			Name: fieldName(src),
			Type: typ,
			Tag:  fmt.Sprintf("`json:%q db:\"-\"`", r.Name+",omitempty"),
		})
	}

	m.SelectSQL = fmt.Sprintf("SELECT %s FROM %s", strings.Join(quoted, ", "), d.Quote(t.Table))
	m.WhereSQL = fmt.Sprintf(" WHERE %s = %s", d.Quote(t.PrimaryKey), d.Placeholder(1))
	m.DeleteSQL = fmt.Sprintf("DELETE FROM %s%s", d.Quote(t.Table), m.WhereSQL)
	return m
}

func lowerFirst(s string) string {
	r := []rune(s)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

func goType(c *schema.ColumnInfo) string {
	var typ string
	switch c.DataType {
	case schema.TypeNumber:
		typ = "int64"
	case schema.TypeFloat:
		typ = "float64"
	case schema.TypeBigInt, schema.TypeString:
		typ = "string"
	case schema.TypeBoolean:
		typ = "bool"
	case schema.TypeDate:
		typ = "time.Time"
	default:
		return "any"
	}
	if c.Nullable() {
		return "*" + typ
	}
	return typ
}
