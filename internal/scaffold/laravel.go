package scaffold

import (
	"fmt"
	"path"
	"strings"
	"text/template"

	"db-scaffold/internal/naming"
	"db-scaffold/internal/schema"
)

type laravel struct {
	tmpl *template.Template
}

func newLaravel(Options) (Emitter, error) {
	tmpl, err := parseTemplates("laravel", template.FuncMap{"php": phpString})
	if err != nil {
		return nil, err
	}
	return &laravel{tmpl: tmpl}, nil
}

func (l *laravel) Name() string { return "laravel" }

type laravelCast struct {
	Column string
	Cast   string
}

type laravelRule struct {
	Column string
	Rule   string
}

type laravelModel struct {
	Table      string
	Model      string
	Route      string
	PrimaryKey string
	StringKey  bool
	Fillable   []string
	Casts      []laravelCast
	Rules      []laravelRule
	Relations  []relation
}

// Emit writes models, repositories and controllers per table plus one
// routes/api.php, all in table order.
func (l *laravel) Emit(tables []*schema.SchemaInfo) ([]File, error) {
	var files []File
	models := make([]laravelModel, 0, len(tables))

	for _, t := range tables {
		m := l.model(t, tables)
		models = append(models, m)

		for _, out := range []struct{ tmpl, path string }{
			{"model.php.tmpl", path.Join("app", "Models", m.Model+".php")},
			{"repository.php.tmpl", path.Join("app", "Repositories", m.Model+"Repository.php")},
			{"controller.php.tmpl", path.Join("app", "Http", "Controllers", m.Model+"Controller.php")},
		} {
			content, err := render(l.tmpl, out.tmpl, m)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", t.Table, err)
			}
			files = append(files, File{Path: out.path, Content: content})
		}
	}

	routes, err := render(l.tmpl, "routes.php.tmpl", models)
	if err != nil {
		return nil, err
	}
	files = append(files, File{Path: path.Join("routes", "api.php"), Content: routes})
	return files, nil
}

func (l *laravel) model(t *schema.SchemaInfo, tables []*schema.SchemaInfo) laravelModel {
	m := laravelModel{
		Table:      t.Table,
		Model:      naming.Model(t.Table),
		Route:      strings.ReplaceAll(naming.Plural(t.Table), "_", "-"),
		PrimaryKey: t.PrimaryKey,
		Relations:  relationsOf(t, tables),
	}
	if pk := t.PrimaryKeyColumn(); pk != nil && pk.DataType == schema.TypeString {
		m.StringKey = true
	}

	for _, c := range t.ColumnsInfo {
		if c.PrimaryKey {
			continue
		}
		m.Fillable = append(m.Fillable, c.ColumnName)
		if cast := laravelCastFor(c.DataType); cast != "" {
			m.Casts = append(m.Casts, laravelCast{Column: c.ColumnName, Cast: cast})
		}
		m.Rules = append(m.Rules, laravelRule{Column: c.ColumnName, Rule: laravelRuleFor(t, c, tables)})
	}
	return m
}

func laravelCastFor(dt schema.DataType) string {
	switch dt {
	case schema.TypeNumber:
		return "integer"
	case schema.TypeFloat:
		return "float"
	case schema.TypeBoolean:
		return "boolean"
	case schema.TypeDate:
		return "datetime"
	case schema.TypeObject:
		return "array"
	default:
		return ""
	}
}

func laravelRuleFor(t *schema.SchemaInfo, c *schema.ColumnInfo, tables []*schema.SchemaInfo) string {
	rules := []string{"required"}
	if c.Nullable() {
		rules = []string{"nullable"}
	}
	switch c.DataType {
	case schema.TypeNumber:
		rules = append(rules, "integer")
	case schema.TypeFloat, schema.TypeBigInt:
		rules = append(rules, "numeric")
	case schema.TypeBoolean:
		rules = append(rules, "boolean")
	case schema.TypeDate:
		rules = append(rules, "date")
	case schema.TypeString:
		rules = append(rules, "string")
		if schema.Category(c.ColumnName) == "email" {
			rules = append(rules, "email")
		}
	case schema.TypeObject:
		rules = append(rules, "array")
	}
	if c.Unique {
		rules = append(rules, fmt.Sprintf("unique:%s,%s", t.Table, c.ColumnName))
	}
	if fk := c.ForeignKey; fk != nil && !fk.Dangling {
		if parent := schema.Find(tables, fk.ForeignTableName); parent != nil {
			rules = append(rules, fmt.Sprintf("exists:%s,%s", parent.Table, parent.PrimaryKey))
		}
	}
	return strings.Join(rules, "|")
}

// phpString renders s as a single-quoted PHP string literal.
func phpString(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}
