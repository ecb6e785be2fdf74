package dialect

import (
	"fmt"
	"strings"
)

// Name identifies a supported SQL dialect.
type Name string

const (
	PostgreSQL Name = "postgresql"
	MySQL      Name = "mysql"
)

// Config is passed to every generator instead of ambient state.
type Config struct {
	Dialect Name
	// IdentifierQuote overrides the dialect's quote character when set.
	IdentifierQuote string
}

// ParseName accepts the dialect spellings used in configs and DSNs.
func ParseName(s string) (Name, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "postgresql", "postgres", "pg", "pgsql":
		return PostgreSQL, nil
	case "mysql", "mariadb":
		return MySQL, nil
	default:
		return "", fmt.Errorf("unsupported dialect: %s; use 'postgresql' or 'mysql'", s)
	}
}

// New returns the Dialect implementation for cfg.
func New(cfg Config) (Dialect, error) {
	name, err := ParseName(string(cfg.Dialect))
	if err != nil {
		return nil, err
	}
	switch cfg.IdentifierQuote {
	case "", `"`, "`":
	default:
		return nil, fmt.Errorf("unsupported identifier quote %q", cfg.IdentifierQuote)
	}

	switch name {
	case MySQL:
		return &MysqlDialect{quote: quoteOr(cfg.IdentifierQuote, "`")}, nil
	default:
		return &PostgresDialect{quote: quoteOr(cfg.IdentifierQuote, `"`)}, nil
	}
}

// GetDialect returns a dialect with its default quoting, falling back to
// PostgreSQL for unknown names.
func GetDialect(name string) Dialect {
	d, err := New(Config{Dialect: Name(name)})
	if err != nil {
		return &PostgresDialect{quote: `"`}
	}
	return d
}

func quoteOr(q, def string) string {
	if q == "" {
		return def
	}
	return q
}

// Ensure interface implementation
var _ Dialect = (*MysqlDialect)(nil)
var _ Dialect = (*PostgresDialect)(nil)
