package engine_test

import (
	"testing"
	"time"

	"db-scaffold/internal/dialect"
	"db-scaffold/internal/engine"
	"db-scaffold/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const posSchema = `{
  "customer": [{"id": 1, "name": "Ann", "email": "ann@shop.io"}],
  "order": [{"id": 1, "customer_id": 1, "total": 9.5, "placed_at": "2024-03-01"}],
  "order_product": [{"id": 1, "order_id": 1, "product_id": 1}],
  "product": [{"id": 1, "name": "Tea", "sku": "T-1", "price": 2.5}],
  "tag": [{"label": "hot"}]
}`

func inferPOS(t *testing.T) []*schema.SchemaInfo {
	t.Helper()
	tables, err := schema.InferJSON([]byte(posSchema), schema.Options{})
	require.NoError(t, err)
	return tables
}

func rowsFor(data []dialect.TableRows, table string) dialect.TableRows {
	for _, d := range data {
		if d.Table == table {
			return d
		}
	}
	return dialect.TableRows{}
}

func column(tr dialect.TableRows, name string) []any {
	idx := -1
	for i, c := range tr.Columns {
		if c == name {
			idx = i
		}
	}
	if idx < 0 {
		return nil
	}
	vals := make([]any, len(tr.Rows))
	for i, r := range tr.Rows {
		vals[i] = r[idx]
	}
	return vals
}

func TestPump_ForeignKeysReferenceParents(t *testing.T) {
	tables := inferPOS(t)
	progress := 0
	data, results := engine.Pump(tables, engine.Options{Count: 20, Seed: 42}, func() { progress++ })

	require.Len(t, data, 5)
	require.Len(t, results, 5)
	for i, d := range data {
		assert.Equal(t, tables[i].Table, d.Table)
	}

	customers := column(rowsFor(data, "customer"), "id")
	for _, v := range column(rowsFor(data, "order"), "customer_id") {
		assert.Contains(t, customers, v)
	}

	orders := column(rowsFor(data, "order"), "id")
	products := column(rowsFor(data, "product"), "id")
	pivot := rowsFor(data, "order_product")
	seen := map[[2]any]bool{}
	for _, r := range pivot.Rows {
		assert.Contains(t, orders, r[1])
		assert.Contains(t, products, r[2])
		pair := [2]any{r[1], r[2]}
		assert.False(t, seen[pair], "pivot pair repeated")
		seen[pair] = true
	}

	total := 0
	for _, r := range results {
		total += r.Actual
	}
	assert.Equal(t, total, progress)
}

func TestPump_SyntheticKeyColumn(t *testing.T) {
	tables := inferPOS(t)
	data, _ := engine.Pump(tables, engine.Options{Count: 3, Seed: 1}, nil)

	tag := rowsFor(data, "tag")
	assert.Equal(t, []string{"tag_id", "label"}, tag.Columns)
	assert.Equal(t, []any{1, 2, 3}, column(tag, "tag_id"))

	pivot := rowsFor(data, "order_product")
	assert.Equal(t, []string{"id", "order_id", "product_id"}, pivot.Columns)
}

func TestPump_UniqueColumnsDoNotRepeat(t *testing.T) {
	tables := inferPOS(t)
	data, results := engine.Pump(tables, engine.Options{Count: 50, Seed: 7}, nil)

	for _, name := range []string{"customer", "product"} {
		tr := rowsFor(data, name)
		col := "email"
		if name == "product" {
			col = "sku"
		}
		seen := map[any]bool{}
		for _, v := range column(tr, col) {
			assert.False(t, seen[v], "%s.%s repeated %v", name, col, v)
			seen[v] = true
		}
	}
	for _, r := range results {
		if r.TableName == "customer" || r.TableName == "product" {
			assert.Equal(t, engine.StatusOK, r.Status)
			assert.Equal(t, 50, r.Actual)
		}
	}
}

func TestPump_PivotShortfall(t *testing.T) {
	tables := inferPOS(t)
	// Only 2 orders x 2 products exist, so at most 4 distinct pairs.
	data, results := engine.Pump(tables, engine.Options{Count: 2, Seed: 3}, nil)
	assert.LessOrEqual(t, len(rowsFor(data, "order_product").Rows), 4)
	for _, r := range results {
		assert.LessOrEqual(t, r.Actual, r.Target)
	}
}

func TestPump_Deterministic(t *testing.T) {
	tables := inferPOS(t)
	a, _ := engine.Pump(tables, engine.Options{Count: 5, Seed: 99}, nil)
	b, _ := engine.Pump(tables, engine.Options{Count: 5, Seed: 99}, nil)
	assert.Equal(t, a, b)
}

func TestPump_UseSamples(t *testing.T) {
	ds, err := schema.Parse([]byte(posSchema))
	require.NoError(t, err)
	tables, err := schema.Infer(ds, schema.Options{})
	require.NoError(t, err)

	data, results := engine.Pump(tables, engine.Options{Count: 5, UseSamples: true, Samples: ds}, nil)

	customer := rowsFor(data, "customer")
	require.Len(t, customer.Rows, 1)
	assert.Equal(t, []any{int64(1), "Ann", "ann@shop.io"}, customer.Rows[0])

	pivot := rowsFor(data, "order_product")
	assert.Equal(t, []any{int64(1), int64(1), int64(1)}, pivot.Rows[0])

	tag := rowsFor(data, "tag")
	assert.Equal(t, []any{1, "hot"}, tag.Rows[0])

	for _, r := range results {
		assert.Equal(t, engine.StatusSamples, r.Status)
	}
}

func TestGenerateValue(t *testing.T) {
	f := gofakeit.New(5)

	email := engine.GenerateValue(f, &schema.ColumnInfo{ColumnName: "email", DataType: schema.TypeString}, "users")
	assert.Contains(t, email, "@")

	active := engine.GenerateValue(f, &schema.ColumnInfo{ColumnName: "active", DataType: schema.TypeBoolean}, "users")
	assert.IsType(t, true, active)

	when := engine.GenerateValue(f, &schema.ColumnInfo{ColumnName: "created_at", DataType: schema.TypeDate}, "users")
	require.IsType(t, time.Time{}, when)
	assert.GreaterOrEqual(t, when.(time.Time).Year(), 2020)
	assert.LessOrEqual(t, when.(time.Time).Year(), 2025)

	qty := engine.GenerateValue(f, &schema.ColumnInfo{ColumnName: "qty", DataType: schema.TypeNumber}, "items")
	require.IsType(t, 0, qty)
	assert.GreaterOrEqual(t, qty.(int), 0)
	assert.LessOrEqual(t, qty.(int), 100)

	price := engine.GenerateValue(f, &schema.ColumnInfo{ColumnName: "price", DataType: schema.TypeFloat}, "items")
	assert.IsType(t, float64(0), price)

	assert.Nil(t, engine.GenerateValue(f, &schema.ColumnInfo{ColumnName: "x", DataType: schema.TypeUndefined, IsNullable: schema.Nullable}, "t"))
}
