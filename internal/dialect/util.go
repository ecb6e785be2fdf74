package dialect

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"

	"db-scaffold/internal/schema"
)

// GenerateValues joins the literal form of each value with ", ".
func GenerateValues(row []any, literal func(any) string) string {
	parts := make([]string, len(row))
	for i, v := range row {
		parts[i] = literal(v)
	}
	return strings.Join(parts, ", ")
}

// QuoteWith wraps identifier in q, doubling any embedded q.
func QuoteWith(q, identifier string) string {
	return q + strings.ReplaceAll(identifier, q, q+q) + q
}

// quoteList quotes each identifier with the dialect.
func quoteList(d Dialect, names []string) string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = d.Quote(n)
	}
	return strings.Join(quoted, ", ")
}

// DefaultLiteral renders numbers, booleans, nil and dates; strings go through quoteString.
func DefaultLiteral(v any, quoteString func(string) string) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case bool:
		if val {
			return "TRUE"
		}
		return "FALSE"
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32, int16, int8, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case *big.Int:
		return val.String()
	case time.Time:
		return quoteString(val.Format("2006-01-02 15:04:05"))
	case string:
		return quoteString(val)
	default:
		return quoteString(fmt.Sprint(val))
	}
}

// createTable assembles a CREATE TABLE statement shared by both dialects.
// Tables without a literal key column get the synthetic ${table}_id key.
// Dangling foreign keys, and those whose parent refs cannot resolve, are
// kept as comments.
func createTable(d Dialect, t *schema.SchemaInfo, refs References) string {
	var lines []string
	var trailing []string

	for _, c := range t.StorageColumns() {
		if c.PrimaryKey {
			lines = append(lines, fmt.Sprintf("  %s %s", d.Quote(c.ColumnName), d.PrimaryKeyDefinition(c)))
			continue
		}
		def := fmt.Sprintf("  %s %s", d.Quote(c.ColumnName), d.ColumnType(c))
		if !c.Nullable() {
			def += " NOT NULL"
		}
		if c.Unique {
			def += " UNIQUE"
		}
		lines = append(lines, def)
	}

	for _, c := range t.ForeignKeyColumns() {
		fk := c.ForeignKey
		if fk.Dangling {
			trailing = append(trailing, fmt.Sprintf("  -- %s references unknown table %s", c.ColumnName, fk.ForeignTableName))
			continue
		}
		refCol := fk.ForeignColumnName
		if refs != nil {
			col, ok := refs(fk.ForeignTableName)
			if !ok {
				trailing = append(trailing, fmt.Sprintf("  -- %s references %s, which is not part of this script", c.ColumnName, fk.ForeignTableName))
				continue
			}
			refCol = col
		}
		lines = append(lines, fmt.Sprintf("  CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE CASCADE",
			d.Quote(fmt.Sprintf("fk_%s_%s", t.Table, c.ColumnName)),
			d.Quote(c.ColumnName),
			d.Quote(fk.ForeignTableName),
			d.Quote(refCol),
		))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", d.Quote(t.Table))
	b.WriteString(strings.Join(lines, ",\n"))
	if len(trailing) > 0 {
		b.WriteString("\n")
		b.WriteString(strings.Join(trailing, "\n"))
	}
	b.WriteString("\n);")
	return b.String()
}

func insert(d Dialect, table string, cols []string, rows [][]any, prefix, suffix string) string {
	if len(rows) == 0 || len(cols) == 0 {
		return ""
	}
	tuples := make([]string, len(rows))
	for i, row := range rows {
		tuples[i] = "  (" + GenerateValues(row, d.Literal) + ")"
	}
	stmt := fmt.Sprintf("%s %s (%s) VALUES\n%s", prefix, d.Quote(table), quoteList(d, cols), strings.Join(tuples, ",\n"))
	if suffix != "" {
		stmt += "\n" + suffix
	}
	return stmt + ";"
}
