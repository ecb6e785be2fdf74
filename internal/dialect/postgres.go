package dialect

import (
	"fmt"
	"strings"

	"db-scaffold/internal/schema"

	"github.com/lib/pq"
)

type PostgresDialect struct {
	quote string
}

func (d *PostgresDialect) Name() Name { return PostgreSQL }

func (d *PostgresDialect) Quote(identifier string) string {
	if d.quote == "" || d.quote == `"` {
		return pq.QuoteIdentifier(identifier)
	}
	return QuoteWith(d.quote, identifier)
}

func (d *PostgresDialect) Literal(v any) string {
	return DefaultLiteral(v, func(s string) string {
		return strings.TrimSpace(pq.QuoteLiteral(s))
	})
}

func (d *PostgresDialect) ColumnType(col *schema.ColumnInfo) string {
	switch col.DataType {
	case schema.TypeNumber:
		return "INTEGER"
	case schema.TypeBigInt:
		return "NUMERIC(39, 0)"
	case schema.TypeFloat:
		return "NUMERIC(12, 2)"
	case schema.TypeBoolean:
		return "BOOLEAN"
	case schema.TypeDate:
		return "TIMESTAMP"
	case schema.TypeObject:
		return "JSONB"
	case schema.TypeString:
		if col.Unique {
			return "VARCHAR(255)"
		}
		return "TEXT"
	default:
		return "TEXT"
	}
}

func (d *PostgresDialect) PrimaryKeyDefinition(col *schema.ColumnInfo) string {
	switch col.DataType {
	case schema.TypeNumber, schema.TypeUndefined:
		return "SERIAL PRIMARY KEY"
	default:
		return d.ColumnType(col) + " PRIMARY KEY"
	}
}

func (d *PostgresDialect) CreateTableQuery(t *schema.SchemaInfo, refs References) string {
	return createTable(d, t, refs)
}

func (d *PostgresDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE;", d.Quote(table))
}

func (d *PostgresDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE;", d.Quote(table))
}

func (d *PostgresDialect) InsertQuery(table string, cols []string, rows [][]any) string {
	return insert(d, table, cols, rows, "INSERT INTO", "ON CONFLICT DO NOTHING")
}

func (d *PostgresDialect) Placeholder(index int) string {
	return fmt.Sprintf("$%d", index)
}

func (d *PostgresDialect) BeforeSeed() []string {
	return []string{"BEGIN;", "SET CONSTRAINTS ALL DEFERRED;"}
}

func (d *PostgresDialect) AfterSeed() []string {
	return []string{"COMMIT;"}
}
