// Package naming converts table and column names into the identifiers
// generated code uses.
package naming

import (
	"strings"
	"unicode"

	"github.com/jinzhu/inflection"
)

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == '_' || r == '-' || r == ' ' || r == '.'
	})
}

// Pascal converts snake_case to PascalCase: "order_product" -> "OrderProduct".
func Pascal(s string) string {
	parts := words(s)
	for i, part := range parts {
		r := []rune(part)
		parts[i] = string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:]))
	}
	return strings.Join(parts, "")
}

// Camel converts snake_case to camelCase: "order_product" -> "orderProduct".
func Camel(s string) string {
	p := Pascal(s)
	if p == "" {
		return p
	}
	r := []rune(p)
	r[0] = unicode.ToLower(r[0])
	return string(r)
}

// Model is the singular PascalCase type name of a table: "users" -> "User".
func Model(table string) string {
	return Pascal(Singular(table))
}

// Singular singularises the last word of a snake_case name.
func Singular(s string) string {
	i := strings.LastIndexAny(s, "_-")
	return s[:i+1] + inflection.Singular(s[i+1:])
}

// Plural pluralises the last word of a snake_case name.
func Plural(s string) string {
	i := strings.LastIndexAny(s, "_-")
	return s[:i+1] + inflection.Plural(s[i+1:])
}

var initialisms = map[string]bool{
	"id": true, "ip": true, "url": true, "uuid": true, "api": true,
	"sku": true, "json": true, "sql": true, "http": true, "html": true,
}

// GoName converts a column or table name to an exported Go identifier,
// upper-casing common initialisms: "user_id" -> "UserID".
func GoName(s string) string {
	var sb strings.Builder
	for _, w := range words(s) {
		w = strings.Map(func(r rune) rune {
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				return r
			}
			return -1
		}, w)
		if w == "" {
			continue
		}
		if initialisms[strings.ToLower(w)] {
			sb.WriteString(strings.ToUpper(w))
			continue
		}
		r := []rune(w)
		sb.WriteString(string(unicode.ToUpper(r[0])) + strings.ToLower(string(r[1:])))
	}
	name := sb.String()
	if name == "" || unicode.IsDigit([]rune(name)[0]) {
		name = "X" + name
	}
	return name
}
