package schema_test

import (
	"errors"
	"strings"
	"testing"

	"db-scaffold/internal/schema"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const usersPostOneToOneSchema = `{
  "user": [
    {"id": 1, "name": "Ada", "email": "ada@example.com"},
    {"id": 2, "name": "Linus", "email": "linus@example.com"}
  ],
  "post": [
    {"id": 1, "user_id": 1, "title": "Hello", "published_at": "2024-01-15"},
    {"id": 2, "user_id": 2, "title": "World", "published_at": null}
  ]
}`

const usersPostOneToManySchema = `{
  "user": [
    {"id": 1, "name": "Ada"},
    {"id": 2, "name": "Linus"}
  ],
  "post": [
    {"id": 1, "user_id": 1, "title": "Hello"},
    {"id": 2, "user_id": 1, "title": "Again"},
    {"id": 3, "user_id": 2, "title": "World"}
  ]
}`

// posSchema lists tables alphabetically, the way the sample editor stores them.
const posSchema = `{
  "customer": [
    {"id": 1, "name": "Ada", "email": "ada@example.com", "phone": null}
  ],
  "order": [
    {"id": 1, "customer_id": 1, "total": 10.5, "created_at": "2024-02-01 10:00:00"},
    {"id": 2, "customer_id": 1, "total": 3, "created_at": "2024-02-02 11:30:00"}
  ],
  "order_product": [
    {"id": 1, "order_id": 1, "product_id": 1, "quantity": 2},
    {"id": 2, "order_id": 1, "product_id": 2, "quantity": 1},
    {"id": 3, "order_id": 2, "product_id": 1, "quantity": 5}
  ],
  "product": [
    {"id": 1, "name": "Coffee", "sku": "COF-1", "price": 2.5, "in_stock": true},
    {"id": 2, "name": "Tea", "sku": "TEA-1", "price": 1.75, "in_stock": false}
  ]
}`

func infer(t *testing.T, doc string) []*schema.SchemaInfo {
	t.Helper()
	tables, err := schema.InferJSON([]byte(doc), schema.Options{})
	require.NoError(t, err)
	return tables
}

func names(tables []*schema.SchemaInfo) []string {
	out := make([]string, 0, len(tables))
	for _, t := range tables {
		out = append(out, t.Table)
	}
	return out
}

func TestInfer_OneToOne(t *testing.T) {
	tables := infer(t, usersPostOneToOneSchema)
	user := schema.Find(tables, "user")
	post := schema.Find(tables, "post")
	require.NotNil(t, user)
	require.NotNil(t, post)

	assert.Equal(t, []string{"post"}, user.HasOne)
	assert.Empty(t, user.HasMany)
	assert.Equal(t, []string{"user"}, post.BelongsTo)
	assert.False(t, post.IsPivot)
	assert.Equal(t, []string{"post"}, user.ChildTables)
	assert.Equal(t, []string{"user"}, post.ForeignTables)
	assert.Equal(t, []string{"user_id"}, post.ForeignKeys)

	require.Len(t, user.Relations, 1)
	assert.Equal(t, schema.HasOne, user.Relations[0].Type)
	assert.Equal(t, schema.ConfidenceInferred, user.Relations[0].Confidence)
}

func TestInfer_OneToMany(t *testing.T) {
	tables := infer(t, usersPostOneToManySchema)
	user := schema.Find(tables, "user")

	assert.Equal(t, []string{"post"}, user.HasMany)
	assert.Empty(t, user.HasOne)
	require.Len(t, user.Relations, 1)
	assert.Equal(t, schema.ConfidenceSampled, user.Relations[0].Confidence)
}

func TestInfer_ManyToManyPOS(t *testing.T) {
	tables := infer(t, posSchema)

	pivot := schema.Find(tables, "order_product")
	order := schema.Find(tables, "order")
	product := schema.Find(tables, "product")
	customer := schema.Find(tables, "customer")

	assert.True(t, pivot.IsPivot)
	assert.False(t, order.IsPivot)
	assert.Equal(t, []string{"product"}, order.BelongsToMany)
	assert.Equal(t, []string{"order"}, product.BelongsToMany)
	assert.Equal(t, []schema.PivotRelationship{{RelatedTable: "product", PivotTable: "order_product"}}, order.PivotRelationships)
	assert.Equal(t, []schema.PivotRelationship{{RelatedTable: "order", PivotTable: "order_product"}}, product.PivotRelationships)
	assert.Equal(t, []string{"order", "product"}, pivot.BelongsTo)

	// The pivot never becomes a hasOne/hasMany child.
	assert.NotContains(t, order.HasOne, "order_product")
	assert.NotContains(t, order.HasMany, "order_product")
	assert.NotContains(t, product.HasMany, "order_product")

	assert.Equal(t, []string{"order"}, customer.HasMany)
}

func TestInfer_POSCreationAndDropOrder(t *testing.T) {
	tables := infer(t, posSchema)

	assert.Equal(t, []string{"product", "customer", "order", "order_product"}, names(tables))

	var drop []string
	for i := len(tables) - 1; i >= 0; i-- {
		drop = append(drop, tables[i].Table)
	}
	assert.Equal(t, []string{"order_product", "order", "customer", "product"}, drop)
}

func TestInfer_KeepsOrderWhenAlreadySafe(t *testing.T) {
	doc := `{"zone": [{"id": 1}], "user": [{"id": 1}], "post": [{"id": 1, "user_id": 1}]}`
	tables := infer(t, doc)
	assert.Equal(t, []string{"zone", "user", "post"}, names(tables))
}

func TestInfer_Cyclic(t *testing.T) {
	doc := `{
	  "a": [{"id": 1, "b_id": 1}],
	  "b": [{"id": 1, "a_id": 1}]
	}`
	tables, err := schema.InferJSON([]byte(doc), schema.Options{})
	assert.Nil(t, tables)

	var cyc *schema.CyclicDependencyError
	require.True(t, errors.As(err, &cyc))
	assert.GreaterOrEqual(t, len(cyc.Cycle), 3)
	assert.Equal(t, cyc.Cycle[0], cyc.Cycle[len(cyc.Cycle)-1])
}

func TestInfer_Columns(t *testing.T) {
	tables := infer(t, posSchema)
	order := schema.Find(tables, "order")
	product := schema.Find(tables, "product")
	customer := schema.Find(tables, "customer")

	id := order.Column("id")
	require.NotNil(t, id)
	assert.True(t, id.PrimaryKey)
	require.NotNil(t, id.ColumnDefault)
	assert.Equal(t, "nextval('order_id_seq'::regclass)", *id.ColumnDefault)
	assert.Equal(t, "id", order.PrimaryKey)

	assert.Equal(t, schema.TypeFloat, order.Column("total").DataType)
	assert.Equal(t, []schema.DataType{schema.TypeFloat, schema.TypeNumber}, order.Column("total").ObservedTypes)
	assert.Equal(t, schema.TypeDate, order.Column("created_at").DataType)
	assert.Equal(t, schema.TypeBoolean, product.Column("in_stock").DataType)
	assert.Equal(t, schema.TypeString, product.Column("name").DataType)

	assert.True(t, product.Column("sku").Unique)
	assert.True(t, customer.Column("email").Unique)
	assert.False(t, customer.Column("name").Unique)

	phone := customer.Column("phone")
	assert.Equal(t, schema.Nullable, phone.IsNullable)
	assert.Equal(t, schema.TypeUndefined, phone.DataType)
	assert.NotContains(t, customer.RequiredColumns, "phone")
	assert.Equal(t, []string{"id", "name", "email"}, customer.RequiredColumns)

	var cols []string
	for _, c := range order.ColumnsInfo {
		cols = append(cols, c.ColumnName)
	}
	assert.Equal(t, []string{"id", "customer_id", "total", "created_at"}, cols)
}

func TestInfer_SyntheticPrimaryKey(t *testing.T) {
	doc := `{"tag": [{"label": "go", "tag_id": 7}, {"label": "sql", "tag_id": 8}]}`
	tables := infer(t, doc)
	tag := tables[0]

	assert.Equal(t, "tag_id", tag.PrimaryKey)
	assert.True(t, tag.Column("tag_id").PrimaryKey)
	assert.Nil(t, tag.Column("tag_id").ForeignKey)
	assert.False(t, tag.Column("label").PrimaryKey)

	doc = `{"note": [{"body": "x"}]}`
	tables = infer(t, doc)
	assert.Equal(t, "note_id", tables[0].PrimaryKey)
	assert.Nil(t, tables[0].PrimaryKeyColumn())
}

func TestInfer_SinglePrimaryKey(t *testing.T) {
	doc := `{"post": [{"id": 1, "post_id": 5}]}`
	tables := infer(t, doc)

	pks := 0
	for _, c := range tables[0].ColumnsInfo {
		if c.PrimaryKey {
			pks++
		}
	}
	assert.Equal(t, 1, pks)
	assert.Equal(t, "id", tables[0].PrimaryKey)
	assert.Nil(t, tables[0].Column("post_id").ForeignKey)
}

func TestInfer_EmptyTable(t *testing.T) {
	tables := infer(t, `{"empty": [], "user": [{"id": 1}]}`)
	empty := schema.Find(tables, "empty")

	assert.Empty(t, empty.ColumnsInfo)
	assert.Empty(t, empty.RequiredColumns)
	assert.Empty(t, empty.ForeignKeys)
	assert.Empty(t, empty.ForeignTables)
	assert.Equal(t, "empties", empty.TablePlural)
}

func TestInfer_DanglingForeignKey(t *testing.T) {
	doc := `{"post": [{"id": 1, "author_id": 3}]}`
	tables := infer(t, doc)
	post := tables[0]

	fk := post.Column("author_id").ForeignKey
	require.NotNil(t, fk)
	assert.True(t, fk.Dangling)
	assert.Equal(t, "author", fk.ForeignTableName)
	assert.Equal(t, []string{"author"}, post.BelongsTo)

	err := schema.CheckForeignKeys(tables)
	var amb *schema.AmbiguousForeignKeyTargetError
	require.True(t, errors.As(err, &amb))
	assert.Equal(t, "author_id", amb.Column)

	_, err = schema.InferJSON([]byte(doc), schema.Options{Strict: true})
	require.True(t, errors.As(err, &amb))
}

func TestInfer_PivotArity(t *testing.T) {
	doc := `{
	  "a": [{"id": 1}], "b": [{"id": 1}], "c": [{"id": 1}],
	  "two": [{"id": 1, "a_id": 1, "b_id": 1}],
	  "three": [{"id": 1, "a_id": 1, "b_id": 1, "c_id": 1}],
	  "also_two": [{"id": 1, "b_id": 1, "a_id": 1}],
	  "half": [{"id": 1, "a_id": 1, "ghost_id": 1}]
	}`
	tables := infer(t, doc)
	assert.True(t, schema.Find(tables, "two").IsPivot)
	assert.True(t, schema.Find(tables, "also_two").IsPivot)
	assert.False(t, schema.Find(tables, "three").IsPivot)
	assert.False(t, schema.Find(tables, "half").IsPivot)
	assert.False(t, schema.Find(tables, "a").IsPivot)

	a := schema.Find(tables, "a")
	assert.Equal(t, []string{"b"}, a.BelongsToMany)
	assert.ElementsMatch(t, []schema.PivotRelationship{
		{RelatedTable: "b", PivotTable: "two"},
		{RelatedTable: "b", PivotTable: "also_two"},
	}, a.PivotRelationships)
	assert.Contains(t, a.HasOne, "three")
	assert.Contains(t, a.HasOne, "half")
}

func TestInfer_Properties(t *testing.T) {
	for name, doc := range map[string]string{
		"one-to-one":  usersPostOneToOneSchema,
		"one-to-many": usersPostOneToManySchema,
		"pos":         posSchema,
	} {
		t.Run(name, func(t *testing.T) {
			tables := infer(t, doc)
			pos := make(map[string]int)
			for i, tbl := range tables {
				pos[tbl.Table] = i
			}

			for _, tbl := range tables {
				fkCount := 0
				for _, c := range tbl.ColumnsInfo {
					if c.ForeignKey == nil {
						continue
					}
					fkCount++
					assert.True(t, strings.HasSuffix(c.ColumnName, "_id"))
					assert.Equal(t, c.ColumnName[:len(c.ColumnName)-3], c.ForeignKey.ForeignTableName)
					assert.NotEqual(t, tbl.Table+"_id", c.ColumnName)
				}
				if tbl.IsPivot {
					assert.Equal(t, 2, fkCount)
				}
				for _, r := range tbl.BelongsToMany {
					assert.Contains(t, schema.Find(tables, r).BelongsToMany, tbl.Table)
				}
				for _, child := range tbl.ChildTables {
					assert.Greater(t, pos[child], pos[tbl.Table], "%s must follow %s", child, tbl.Table)
				}
				for _, parent := range tbl.BelongsTo {
					p := schema.Find(tables, parent)
					if p == nil || tbl.IsPivot {
						continue
					}
					assert.True(t, contains(p.HasOne, tbl.Table) || contains(p.HasMany, tbl.Table))
				}
				for _, c := range tbl.HasOne {
					assert.NotContains(t, tbl.HasMany, c)
				}
			}
		})
	}
}

func TestInfer_Idempotent(t *testing.T) {
	first := infer(t, posSchema)
	second := infer(t, posSchema)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("inference is not deterministic (-first +second):\n%s", diff)
	}
}

func TestInfer_DoesNotMutateDataset(t *testing.T) {
	ds := (&schema.Dataset{}).
		Add("user", schema.NewRow("id", 1, "name", "Ada")).
		Add("post", schema.NewRow("id", 1, "user_id", 1), schema.NewRow("id", 2, "user_id", 1))

	_, err := schema.Infer(ds, schema.Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"id", "user_id"}, ds.Table("post").Rows[0].Keys)
	assert.Equal(t, 2, len(ds.Table("post").Rows))
}

func TestInfer_RejectsNestedValues(t *testing.T) {
	ds := (&schema.Dataset{}).Add("user", schema.NewRow("id", 1, "tags", []string{"a"}))
	_, err := schema.Infer(ds, schema.Options{})

	var inv *schema.InvalidInputError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "tags", inv.Column)
}

func TestInfer_CustomUniqueNames(t *testing.T) {
	doc := `{"user": [{"id": 1, "email": "a@b.c", "handle": "ada"}]}`
	tables, err := schema.InferJSON([]byte(doc), schema.Options{UniqueNames: []string{"handle"}})
	require.NoError(t, err)

	assert.True(t, tables[0].Column("handle").Unique)
	assert.False(t, tables[0].Column("email").Unique)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
