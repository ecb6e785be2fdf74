package schema

// DataType is the primitive type inferred for a sample value.
type DataType string

const (
	TypeNumber    DataType = "number"
	TypeFloat     DataType = "float"
	TypeString    DataType = "string"
	TypeBoolean   DataType = "boolean"
	TypeDate      DataType = "Date"
	TypeObject    DataType = "object"
	TypeUndefined DataType = "undefined"
	TypeSymbol    DataType = "symbol"
	TypeBigInt    DataType = "bigint"
	TypeFunction  DataType = "function"
	TypeUnknown   DataType = "unknown"
)

const (
	Nullable    = "YES"
	NotNullable = "NO"
)

// Confidence tells how a relationship classification was reached.
type Confidence string

const (
	// ConfidenceSampled means repeated foreign-key values were observed in the rows.
	ConfidenceSampled Confidence = "sampled"
	// ConfidenceInferred means the label comes from naming, structure or the hasOne default.
	ConfidenceInferred Confidence = "inferred"
)

type RelationType string

const (
	HasOne        RelationType = "hasOne"
	HasMany       RelationType = "hasMany"
	BelongsTo     RelationType = "belongsTo"
	BelongsToMany RelationType = "belongsToMany"
)

type ForeignKey struct {
	ForeignTableName  string `json:"foreign_table_name"`
	ForeignColumnName string `json:"foreign_column_name"`
	// Dangling is set when ForeignTableName is not part of the input.
	Dangling bool `json:"dangling"`
}

type ColumnInfo struct {
	ColumnName    string      `json:"column_name"`
	DataType      DataType    `json:"data_type"`
	ObservedTypes []DataType  `json:"observed_types"`
	IsNullable    string      `json:"is_nullable"`
	ColumnDefault *string     `json:"column_default"`
	PrimaryKey    bool        `json:"primary_key"`
	Unique        bool        `json:"unique"`
	ForeignKey    *ForeignKey `json:"foreign_key"`
}

// Nullable reports whether a null was observed for the column.
func (c *ColumnInfo) Nullable() bool {
	return c.IsNullable == Nullable
}

type PivotRelationship struct {
	RelatedTable string `json:"relatedTable"`
	PivotTable   string `json:"pivotTable"`
}

// Relation is one classified edge as seen from the owning table.
type Relation struct {
	Type       RelationType `json:"type"`
	Table      string       `json:"table"`
	Column     string       `json:"column,omitempty"`
	PivotTable string       `json:"pivotTable,omitempty"`
	Confidence Confidence   `json:"confidence"`
}

type SchemaInfo struct {
	Table              string              `json:"table"`
	TablePlural        string              `json:"tablePlural"`
	PrimaryKey         string              `json:"primaryKey"`
	RequiredColumns    []string            `json:"requiredColumns"`
	ColumnsInfo        []*ColumnInfo       `json:"columnsInfo"`
	ForeignTables      []string            `json:"foreignTables"`
	ForeignKeys        []string            `json:"foreignKeys"`
	ChildTables        []string            `json:"childTables"`
	IsPivot            bool                `json:"isPivot"`
	HasOne             []string            `json:"hasOne"`
	HasMany            []string            `json:"hasMany"`
	BelongsTo          []string            `json:"belongsTo"`
	BelongsToMany      []string            `json:"belongsToMany"`
	PivotRelationships []PivotRelationship `json:"pivotRelationships"`
	Relations          []Relation          `json:"relations"`
}

// Column returns the named column or nil.
func (s *SchemaInfo) Column(name string) *ColumnInfo {
	for _, c := range s.ColumnsInfo {
		if c.ColumnName == name {
			return c
		}
	}
	return nil
}

// PrimaryKeyColumn returns the literal primary key column, or nil when the
// key is only the synthetic ${table}_id identity.
func (s *SchemaInfo) PrimaryKeyColumn() *ColumnInfo {
	for _, c := range s.ColumnsInfo {
		if c.PrimaryKey {
			return c
		}
	}
	return nil
}

// StorageColumns returns the columns a table is stored with: the synthetic
// ${table}_id key first when no sample column is the key, then ColumnsInfo.
func (s *SchemaInfo) StorageColumns() []*ColumnInfo {
	if s.PrimaryKeyColumn() != nil || s.PrimaryKey == "" {
		return s.ColumnsInfo
	}
	cols := make([]*ColumnInfo, 0, len(s.ColumnsInfo)+1)
	cols = append(cols, &ColumnInfo{
		ColumnName:    s.PrimaryKey,
		DataType:      TypeNumber,
		ObservedTypes: []DataType{},
		IsNullable:    NotNullable,
		PrimaryKey:    true,
	})
	return append(cols, s.ColumnsInfo...)
}

// ForeignKeyColumns returns the columns carrying a foreign key, in column order.
func (s *SchemaInfo) ForeignKeyColumns() []*ColumnInfo {
	var cols []*ColumnInfo
	for _, c := range s.ColumnsInfo {
		if c.ForeignKey != nil {
			cols = append(cols, c)
		}
	}
	return cols
}

// Find looks a table up by name.
func Find(tables []*SchemaInfo, name string) *SchemaInfo {
	for _, t := range tables {
		if t.Table == name {
			return t
		}
	}
	return nil
}

// Dataset is the parsed sample input: tables in input order.
type Dataset struct {
	Tables []*SampleTable
}

type SampleTable struct {
	Name string
	Rows []*Row
}

// Row keeps the column order of the sample object.
type Row struct {
	Keys   []string
	Values map[string]any
}

// NewRow builds a row from alternating key/value pairs.
func NewRow(kv ...any) *Row {
	r := &Row{Values: make(map[string]any, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		k, _ := kv[i].(string)
		r.Set(k, kv[i+1])
	}
	return r
}

// Set appends or replaces a value, keeping first-seen key order.
func (r *Row) Set(key string, v any) {
	if r.Values == nil {
		r.Values = make(map[string]any)
	}
	if _, ok := r.Values[key]; !ok {
		r.Keys = append(r.Keys, key)
	}
	r.Values[key] = v
}

// Table looks a sample table up by name.
func (d *Dataset) Table(name string) *SampleTable {
	for _, t := range d.Tables {
		if t.Name == name {
			return t
		}
	}
	return nil
}

// Add appends a table with the given rows.
func (d *Dataset) Add(name string, rows ...*Row) *Dataset {
	d.Tables = append(d.Tables, &SampleTable{Name: name, Rows: rows})
	return d
}
