// Package typescript renders inferred tables as TypeScript interfaces with
// runtime type guards.
package typescript

import (
	"fmt"
	"regexp"
	"strings"

	"db-scaffold/internal/naming"
	"db-scaffold/internal/schema"
)

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// TypeOf maps an inferred data type to its TypeScript type.
func TypeOf(t schema.DataType) string {
	switch t {
	case schema.TypeNumber, schema.TypeFloat:
		return "number"
	case schema.TypeBigInt:
		return "bigint"
	case schema.TypeString:
		return "string"
	case schema.TypeBoolean:
		return "boolean"
	case schema.TypeDate:
		return "Date"
	case schema.TypeObject:
		return "Record<string, unknown>"
	default:
		return "unknown"
	}
}

// Generate renders every table, in the given order, as one TypeScript module.
func Generate(tables []*schema.SchemaInfo) string {
	var sb strings.Builder

	sb.WriteString("// Generated by db-scaffold from sample data. Do not edit.\n")

	for _, t := range tables {
		sb.WriteString("\n")
		sb.WriteString(tableInterface(t))
		sb.WriteString("\n")
		sb.WriteString(tableGuard(t))
	}
	return sb.String()
}

func property(name string) string {
	if identifier.MatchString(name) {
		return name
	}
	return fmt.Sprintf("%q", name)
}

func tableInterface(t *schema.SchemaInfo) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "export interface %s {\n", naming.Model(t.Table))
	for _, col := range t.ColumnsInfo {
		tsType := TypeOf(col.DataType)
		if col.Nullable() && tsType != "unknown" {
			tsType += " | null"
		}
		fmt.Fprintf(&sb, "  %s: %s;\n", property(col.ColumnName), tsType)
	}

	for _, rel := range relationFields(t) {
		fmt.Fprintf(&sb, "  %s?: %s;\n", rel.name, rel.tsType)
	}
	sb.WriteString("}\n")
	return sb.String()
}

type relationField struct {
	name   string
	tsType string
}

func relationFields(t *schema.SchemaInfo) []relationField {
	var fields []relationField
	seen := make(map[string]bool)
	add := func(name, tsType string) {
		if seen[name] || t.Column(name) != nil {
			return
		}
		seen[name] = true
		fields = append(fields, relationField{name: name, tsType: tsType})
	}

	for _, p := range t.BelongsTo {
		add(naming.Camel(naming.Singular(p)), naming.Model(p))
	}
	for _, c := range t.HasOne {
		add(naming.Camel(naming.Singular(c)), naming.Model(c))
	}
	for _, c := range t.HasMany {
		add(naming.Camel(naming.Plural(c)), naming.Model(c)+"[]")
	}
	for _, r := range t.BelongsToMany {
		add(naming.Camel(naming.Plural(r)), naming.Model(r)+"[]")
	}
	return fields
}

// guardCheck returns the runtime check for a present value of type dt, or
// "" when the type cannot be checked.
func guardCheck(access string, dt schema.DataType) string {
	switch dt {
	case schema.TypeNumber, schema.TypeFloat:
		return fmt.Sprintf(`typeof %s === "number"`, access)
	case schema.TypeBigInt:
		return fmt.Sprintf(`(typeof %s === "bigint" || typeof %s === "number")`, access, access)
	case schema.TypeString:
		return fmt.Sprintf(`typeof %s === "string"`, access)
	case schema.TypeBoolean:
		return fmt.Sprintf(`typeof %s === "boolean"`, access)
	case schema.TypeDate:
		return fmt.Sprintf(`(%s instanceof Date || typeof %s === "string")`, access, access)
	case schema.TypeObject:
		return fmt.Sprintf(`(typeof %s === "object" && %s !== null)`, access, access)
	default:
		return ""
	}
}

func tableGuard(t *schema.SchemaInfo) string {
	var sb strings.Builder
	model := naming.Model(t.Table)

	fmt.Fprintf(&sb, "export function is%s(value: unknown): value is %s {\n", model, model)
	sb.WriteString("  if (typeof value !== \"object\" || value === null) return false;\n")
	sb.WriteString("  const v = value as Record<string, unknown>;\n")

	var checks []string
	for _, col := range t.ColumnsInfo {
		access := fmt.Sprintf("v[%q]", col.ColumnName)
		check := guardCheck(access, col.DataType)
		switch {
		case check == "":
			continue
		case col.Nullable():
			checks = append(checks, fmt.Sprintf("(%s == null || %s)", access, check))
		default:
			checks = append(checks, check)
		}
	}

	if len(checks) == 0 {
		sb.WriteString("  return true;\n")
	} else {
		sb.WriteString("  return (\n    ")
		sb.WriteString(strings.Join(checks, " &&\n    "))
		sb.WriteString("\n  );\n")
	}
	sb.WriteString("}\n")
	return sb.String()
}
