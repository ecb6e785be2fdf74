package schema_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"db-scaffold/internal/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_KeepsOrder(t *testing.T) {
	ds, err := schema.Parse([]byte(`{"zeta": [{"b": 1, "a": 2}], "alpha": []}`))
	require.NoError(t, err)

	require.Len(t, ds.Tables, 2)
	assert.Equal(t, "zeta", ds.Tables[0].Name)
	assert.Equal(t, "alpha", ds.Tables[1].Name)
	assert.Equal(t, []string{"b", "a"}, ds.Tables[0].Rows[0].Keys)
}

func TestParse_ScalarValues(t *testing.T) {
	ds, err := schema.Parse([]byte(`{"t": [{
		"i": 42, "f": 1.5, "s": "hi", "b": true, "n": null,
		"big": 123456789012345678901234567890
	}]}`))
	require.NoError(t, err)

	v := ds.Tables[0].Rows[0].Values
	assert.Equal(t, int64(42), v["i"])
	assert.Equal(t, 1.5, v["f"])
	assert.Equal(t, "hi", v["s"])
	assert.Equal(t, true, v["b"])
	assert.Nil(t, v["n"])
	assert.IsType(t, &big.Int{}, v["big"])
}

func TestParse_RelaxedSyntax(t *testing.T) {
	ds, err := schema.Parse([]byte(`{user: [{id: 1, name: 'Ada', score: .5, mask: 0x1F, born: "1815-12-10"}]}`))
	require.NoError(t, err)

	v := ds.Table("user").Rows[0].Values
	assert.Equal(t, "Ada", v["name"])
	assert.Equal(t, 0.5, v["score"])
	assert.Equal(t, int64(31), v["mask"])
	assert.Equal(t, "1815-12-10", v["born"])
}

func TestParse_Invalid(t *testing.T) {
	cases := map[string]string{
		"empty":           ``,
		"malformed":       `{"user": [`,
		"top level array": `[{"id": 1}]`,
		"rows not array":  `{"user": {"id": 1}}`,
		"row not object":  `{"user": [1, 2]}`,
		"nested object":   `{"user": [{"id": 1, "meta": {"a": 1}}]}`,
		"nested array":    `{"user": [{"id": 1, "tags": ["a"]}]}`,
		"duplicate table": `{"user": [], "user": []}`,
		"duplicate key":   `{"user": [{"id": 1, "id": 2}]}`,
		"null rows":       `{"user": null}`,
		"scalar rows":     `{"user": 3}`,
		"block mapping":   "user:\n  - id: 1\n    name: Ada\n",
		"block rows":      "{\"user\":\n  - {\"id\": 1}\n}",
		"bare words":      `{"user": [{"id": 1, "name": Ada Lovelace}]}`,
		"bare word":       `{"user": [{"id": 1, "name": Ada}]}`,
		"bare timestamp":  `{"user": [{"id": 1, "born": 2020-01-01}]}`,
		"yaml null":       `{"user": [{"id": 1, "name": ~}]}`,
		"yaml bool":       `{"user": [{"id": 1, "ok": yes}]}`,
		"empty value":     `{"user": [{"id": 1, "name": }]}`,
		"spaced key":      `{"user": [{first name: "Ada"}]}`,
		"explicit tag":    `{"user": [{"id": !!str 1}]}`,
		"anchor":          `{"user": [&row {"id": 1}, *row]}`,
		"second document": "{\"user\": []}\n---\n{\"post\": []}\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			ds, err := schema.Parse([]byte(doc))
			assert.Nil(t, ds)
			var inv *schema.InvalidInputError
			assert.True(t, errors.As(err, &inv), "got %v", err)
		})
	}
}

func TestTypeOf(t *testing.T) {
	cases := []struct {
		value any
		want  schema.DataType
	}{
		{1, schema.TypeNumber},
		{int64(7), schema.TypeNumber},
		{2.0, schema.TypeNumber},
		{2.5, schema.TypeFloat},
		{"text", schema.TypeString},
		{"2024-01-15", schema.TypeDate},
		{"2024-01-15T10:00:00Z", schema.TypeDate},
		{time.Now(), schema.TypeDate},
		{false, schema.TypeBoolean},
		{nil, schema.TypeUndefined},
		{big.NewInt(1), schema.TypeBigInt},
		{func() {}, schema.TypeFunction},
		{struct{}{}, schema.TypeObject},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, schema.TypeOf(tc.value), "%#v", tc.value)
	}
}
