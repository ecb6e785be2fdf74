package schema

import (
	"fmt"
	"strings"
)

// InvalidInputError is returned when the sample input is not a mapping of
// table names to arrays of flat row objects. Inference aborts entirely.
type InvalidInputError struct {
	Table  string
	Row    int // -1 when the problem is not tied to a row
	Column string
	Reason string
}

func (e *InvalidInputError) Error() string {
	var b strings.Builder
	b.WriteString("invalid input")
	if e.Table != "" {
		fmt.Fprintf(&b, ": table %q", e.Table)
	}
	if e.Row >= 0 && e.Table != "" {
		fmt.Fprintf(&b, " row %d", e.Row)
	}
	if e.Column != "" {
		fmt.Fprintf(&b, " column %q", e.Column)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

func invalidInput(table string, row int, column, format string, args ...any) *InvalidInputError {
	return &InvalidInputError{Table: table, Row: row, Column: column, Reason: fmt.Sprintf(format, args...)}
}

// CyclicDependencyError reports a table whose childTables closure reaches itself.
type CyclicDependencyError struct {
	Cycle []string
}

func (e *CyclicDependencyError) Error() string {
	return "cyclic dependency between tables: " + strings.Join(e.Cycle, " -> ")
}

// AmbiguousForeignKeyTargetError reports a foreign key whose stripped target
// table does not exist in the input.
type AmbiguousForeignKeyTargetError struct {
	Table  string
	Column string
	Target string
}

func (e *AmbiguousForeignKeyTargetError) Error() string {
	return fmt.Sprintf("foreign key %s.%s references unknown table %q", e.Table, e.Column, e.Target)
}
