package engine

import (
	"fmt"
	"strings"

	"db-scaffold/internal/dialect"
	"db-scaffold/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"
)

const (
	StatusOK      = "OK"
	StatusMissing = "MISSING DATA"
	StatusSamples = "SAMPLES"
)

// Options controls a Pump run.
type Options struct {
	// Count is the number of rows generated per table.
	Count int
	// Seed makes a run reproducible; 0 picks a random seed.
	Seed int64
	// UseSamples seeds tables from Samples instead of fake data when the
	// table has sample rows.
	UseSamples bool
	Samples    *schema.Dataset
	Logger     *zap.Logger
}

// PumpResult reports how many rows were produced for one table.
type PumpResult struct {
	TableName string
	Target    int
	Actual    int
	Status    string
	ErrorMsg  string
}

// Pump produces seed rows for tables, which must be in safe order. Parent
// primary keys are pooled so children only reference rows that exist.
func Pump(tables []*schema.SchemaInfo, opts Options, onProgress func()) ([]dialect.TableRows, []PumpResult) {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	f := gofakeit.New(opts.Seed)

	var data []dialect.TableRows
	var results []PumpResult
	fkPool := make(map[string][]any)

	for _, table := range tables {
		cols := table.StorageColumns()
		names := make([]string, len(cols))
		for i, c := range cols {
			names[i] = c.ColumnName
		}

		var rows [][]any
		var res PumpResult
		if sample := sampleTable(opts, table.Table); sample != nil {
			rows = sampleRows(sample, names)
			res = PumpResult{TableName: table.Table, Target: len(rows), Actual: len(rows), Status: StatusSamples}
			if onProgress != nil {
				for range rows {
					onProgress()
				}
			}
		} else {
			rows, res = generateTable(f, table, cols, fkPool, opts.Count, onProgress)
		}

		if res.Status == StatusMissing {
			log.Warn("table not filled",
				zap.String("table", table.Table),
				zap.Int("target", res.Target),
				zap.Int("actual", res.Actual))
		} else {
			log.Debug("table filled", zap.String("table", table.Table), zap.Int("rows", res.Actual))
		}

		data = append(data, dialect.TableRows{Table: table.Table, Columns: names, Rows: rows})
		results = append(results, res)
		updateFKPool(table, names, rows, fkPool)
	}

	return data, results
}

func sampleTable(opts Options, name string) *schema.SampleTable {
	if !opts.UseSamples || opts.Samples == nil {
		return nil
	}
	st := opts.Samples.Table(name)
	if st == nil || len(st.Rows) == 0 {
		return nil
	}
	return st
}

// sampleRows lays sample values out in column order. A synthetic key is
// numbered from 1.
func sampleRows(st *schema.SampleTable, names []string) [][]any {
	rows := make([][]any, len(st.Rows))
	for i, r := range st.Rows {
		row := make([]any, len(names))
		for j, n := range names {
			v, ok := r.Values[n]
			if !ok && j == 0 {
				v = i + 1
			}
			row[j] = v
		}
		rows[i] = row
	}
	return rows
}

func generateTable(f *gofakeit.Faker, table *schema.SchemaInfo, cols []*schema.ColumnInfo, fkPool map[string][]any, count int, onProgress func()) ([][]any, PumpResult) {
	var rows [][]any
	attempts := 0
	nextID := 1

	// Pivot rows must not repeat the same pair of parents.
	usedCombinations := make(map[string]bool)

	usedUniqueValues := make(map[string]map[string]bool)
	for _, c := range cols {
		if c.Unique {
			usedUniqueValues[c.ColumnName] = make(map[string]bool)
		}
	}

	for len(rows) < count && attempts < count*10 {
		attempts++
		values := generateRow(f, table, cols, fkPool, nextID, attempts)

		if table.IsPivot {
			var fkValues []string
			for i, c := range cols {
				if c.ForeignKey != nil {
					fkValues = append(fkValues, fmt.Sprintf("%v", values[i]))
				}
			}
			key := strings.Join(fkValues, "|")
			if usedCombinations[key] {
				continue
			}
			usedCombinations[key] = true
		}

		skipRow := false
		for i, c := range cols {
			if c.Unique && values[i] != nil && usedUniqueValues[c.ColumnName][fmt.Sprintf("%v", values[i])] {
				skipRow = true
				break
			}
		}
		if skipRow {
			continue
		}
		for i, c := range cols {
			if c.Unique && values[i] != nil {
				usedUniqueValues[c.ColumnName][fmt.Sprintf("%v", values[i])] = true
			}
		}

		rows = append(rows, values)
		nextID++
		if onProgress != nil {
			onProgress()
		}
	}

	res := PumpResult{TableName: table.Table, Target: count, Actual: len(rows), Status: StatusOK}
	if len(rows) < count {
		res.Status = StatusMissing
		if len(rows) == 0 && attempts > 0 {
			res.ErrorMsg = "Failed to produce any rows."
		} else {
			res.ErrorMsg = fmt.Sprintf("Only produced %d out of %d after %d attempts.", len(rows), count, attempts)
		}
	}
	return rows, res
}

func generateRow(f *gofakeit.Faker, table *schema.SchemaInfo, cols []*schema.ColumnInfo, fkPool map[string][]any, id, index int) []any {
	values := make([]any, len(cols))
	for i, col := range cols {
		values[i] = getSmartVal(f, col, table, fkPool, id, index)
	}
	return values
}

func getSmartVal(f *gofakeit.Faker, col *schema.ColumnInfo, t *schema.SchemaInfo, pool map[string][]any, id, index int) any {
	if col.PrimaryKey {
		if col.DataType == schema.TypeString {
			return f.UUID()
		}
		return id
	}

	if fk := col.ForeignKey; fk != nil && !fk.Dangling {
		if vals := pool[fk.ForeignTableName]; len(vals) > 0 {
			// Unique foreign keys walk the pool so values do not collide.
			if col.Unique {
				return vals[(index-1)%len(vals)]
			}
			return vals[f.Number(0, len(vals)-1)]
		}
		if col.Nullable() {
			return nil
		}
		// Parent has no rows yet; 1 is the first generated key.
		return 1
	}

	if col.Nullable() && !col.Unique && f.Number(1, 5) == 1 {
		return nil
	}
	return GenerateValue(f, col, t.Table)
}

// updateFKPool records the primary key values of rows for child tables.
func updateFKPool(table *schema.SchemaInfo, names []string, rows [][]any, fkPool map[string][]any) {
	idx := -1
	for i, n := range names {
		if n == table.PrimaryKey {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	for _, r := range rows {
		if r[idx] != nil {
			fkPool[table.Table] = append(fkPool[table.Table], r[idx])
		}
	}
}
