package dialect

import (
	"fmt"
	"strings"

	"db-scaffold/internal/schema"
)

type MysqlDialect struct {
	quote string
}

var mysqlStringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `''`)

func (d *MysqlDialect) Name() Name { return MySQL }

func (d *MysqlDialect) Quote(identifier string) string {
	return QuoteWith(quoteOr(d.quote, "`"), identifier)
}

func (d *MysqlDialect) Literal(v any) string {
	return DefaultLiteral(v, func(s string) string {
		return "'" + mysqlStringEscaper.Replace(s) + "'"
	})
}

func (d *MysqlDialect) ColumnType(col *schema.ColumnInfo) string {
	switch col.DataType {
	case schema.TypeNumber:
		return "INT"
	case schema.TypeBigInt:
		return "DECIMAL(39, 0)"
	case schema.TypeFloat:
		return "DECIMAL(12, 2)"
	case schema.TypeBoolean:
		return "TINYINT(1)"
	case schema.TypeDate:
		return "DATETIME"
	case schema.TypeObject:
		return "JSON"
	case schema.TypeString:
		// TEXT cannot carry a UNIQUE index without a prefix length.
		if col.Unique {
			return "VARCHAR(255)"
		}
		return "TEXT"
	default:
		return "TEXT"
	}
}

func (d *MysqlDialect) PrimaryKeyDefinition(col *schema.ColumnInfo) string {
	switch col.DataType {
	case schema.TypeNumber, schema.TypeUndefined:
		return "INT AUTO_INCREMENT PRIMARY KEY"
	case schema.TypeString:
		return "VARCHAR(255) PRIMARY KEY"
	default:
		return d.ColumnType(col) + " PRIMARY KEY"
	}
}

func (d *MysqlDialect) CreateTableQuery(t *schema.SchemaInfo, refs References) string {
	return createTable(d, t, refs)
}

func (d *MysqlDialect) DropTableQuery(table string) string {
	return fmt.Sprintf("DROP TABLE IF EXISTS %s;", d.Quote(table))
}

func (d *MysqlDialect) TruncateQuery(table string) string {
	return fmt.Sprintf("TRUNCATE TABLE %s;", d.Quote(table))
}

func (d *MysqlDialect) InsertQuery(table string, cols []string, rows [][]any) string {
	return insert(d, table, cols, rows, "INSERT IGNORE INTO", "")
}

func (d *MysqlDialect) Placeholder(index int) string {
	return "?"
}

func (d *MysqlDialect) BeforeSeed() []string {
	return []string{"SET FOREIGN_KEY_CHECKS = 0;"}
}

func (d *MysqlDialect) AfterSeed() []string {
	return []string{"SET FOREIGN_KEY_CHECKS = 1;"}
}
