package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Parse decodes a sample document: a mapping from table name to an array of
// flat row objects. Strict JSON is accepted, as are the relaxed forms JSON5
// authors tend to use (unquoted identifier keys, single-quoted strings).
// Anything else YAML would accept, such as block style or bare words, is
// rejected. Table and column order follow the document.
func Parse(data []byte) (*Dataset, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, invalidInput("", -1, "", "empty document")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	var doc yaml.Node
	if err := dec.Decode(&doc); err != nil {
		return nil, invalidInput("", -1, "", "malformed document: %v", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return nil, invalidInput("", -1, "", "trailing content after the top-level object")
	}

	if len(doc.Content) == 0 {
		return nil, invalidInput("", -1, "", "empty document")
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, invalidInput("", -1, "", "top level must map table names to row arrays")
	}
	if err := checkFlow(root); err != nil {
		return nil, invalidInput("", -1, "", "%v", err)
	}

	ds := &Dataset{}
	seen := make(map[string]bool)
	for i := 0; i+1 < len(root.Content); i += 2 {
		name, err := keyValue(root.Content[i])
		if err != nil {
			return nil, invalidInput("", -1, "", "%v", err)
		}
		if name == "" {
			return nil, invalidInput("", -1, "", "empty table name at line %d", root.Content[i].Line)
		}
		if seen[name] {
			return nil, invalidInput(name, -1, "", "duplicate table")
		}
		seen[name] = true

		rows, err := parseRows(name, root.Content[i+1])
		if err != nil {
			return nil, err
		}
		ds.Tables = append(ds.Tables, &SampleTable{Name: name, Rows: rows})
	}
	return ds, nil
}

func parseRows(table string, n *yaml.Node) ([]*Row, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, invalidInput(table, -1, "", "rows must be an array")
	}
	if err := checkFlow(n); err != nil {
		return nil, invalidInput(table, -1, "", "%v", err)
	}

	rows := make([]*Row, 0, len(n.Content))
	for idx, item := range n.Content {
		if item.Kind != yaml.MappingNode {
			return nil, invalidInput(table, idx, "", "row must be an object")
		}
		if err := checkFlow(item); err != nil {
			return nil, invalidInput(table, idx, "", "%v", err)
		}
		row := &Row{Values: make(map[string]any, len(item.Content)/2)}
		for j := 0; j+1 < len(item.Content); j += 2 {
			key, err := keyValue(item.Content[j])
			if err != nil {
				return nil, invalidInput(table, idx, "", "%v", err)
			}
			if _, dup := row.Values[key]; dup {
				return nil, invalidInput(table, idx, key, "duplicate column")
			}
			v, err := scalarValue(item.Content[j+1])
			if err != nil {
				return nil, invalidInput(table, idx, key, "%v", err)
			}
			row.Set(key, v)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// checkFlow rejects YAML-only constructs: block collections, tags, anchors
// and aliases.
func checkFlow(n *yaml.Node) error {
	switch {
	case n.Kind == yaml.AliasNode || n.Anchor != "":
		return fmt.Errorf("anchors and aliases are not allowed (line %d)", n.Line)
	case n.Style&yaml.TaggedStyle != 0:
		return fmt.Errorf("explicit tags are not allowed (line %d)", n.Line)
	case n.Kind != yaml.ScalarNode && n.Style&yaml.FlowStyle == 0:
		return fmt.Errorf("expected a JSON object or array (line %d)", n.Line)
	}
	return nil
}

// identifierKey is an unquoted JSON5 object key.
var identifierKey = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

func keyValue(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("object keys must be strings (line %d)", n.Line)
	}
	if err := checkFlow(n); err != nil {
		return "", err
	}
	if n.Style == 0 && !identifierKey.MatchString(n.Value) {
		return "", fmt.Errorf("unquoted key %q must be an identifier (line %d)", n.Value, n.Line)
	}
	return n.Value, nil
}

// integerLiteral matches integers too large for int64, which the YAML
// resolver reports as floats.
var integerLiteral = regexp.MustCompile(`^[-+]?[0-9]+$`)

type nestedValueError struct{}

func (nestedValueError) Error() string { return "nested objects and arrays are not supported" }

// numberLiteral is the unquoted number syntax of JSON5.
var numberLiteral = regexp.MustCompile(`^[-+]?(0[xX][0-9a-fA-F]+|([0-9]+\.?[0-9]*|\.[0-9]+)([eE][-+]?[0-9]+)?)$`)

func scalarValue(n *yaml.Node) (any, error) {
	if n.Kind == yaml.MappingNode || n.Kind == yaml.SequenceNode {
		return nil, nestedValueError{}
	}
	if err := checkFlow(n); err != nil {
		return nil, err
	}
	if n.Style == 0 {
		return plainValue(n)
	}
	// Quoted scalars are always strings.
	return n.Value, nil
}

// plainValue decodes an unquoted scalar, which must be null, a boolean or a
// number as JSON5 writes them.
func plainValue(n *yaml.Node) (any, error) {
	switch n.Value {
	case "null":
		return nil, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	case "Infinity", "+Infinity":
		return math.Inf(1), nil
	case "-Infinity":
		return math.Inf(-1), nil
	case "NaN", "+NaN", "-NaN":
		return math.NaN(), nil
	}
	if !numberLiteral.MatchString(n.Value) {
		return nil, fmt.Errorf("unquoted value %q is not null, a boolean or a number", n.Value)
	}

	switch n.ShortTag() {
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			return i, nil
		}
		if bi, ok := new(big.Int).SetString(n.Value, 10); ok {
			return bi, nil
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	case "!!float":
		if integerLiteral.MatchString(n.Value) {
			if bi, ok := new(big.Int).SetString(n.Value, 10); ok {
				return bi, nil
			}
		}
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}
		return f, nil
	default:
		return nil, fmt.Errorf("unsupported number %q", n.Value)
	}
}
