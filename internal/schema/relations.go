package schema

import "fmt"

// classify assigns hasOne/hasMany/belongsTo/belongsToMany using the row
// sample as cardinality evidence and the pivot flags computed by link.
func classify(ds *Dataset, tables []*SchemaInfo, tableMap map[string]*SchemaInfo) {
	for _, t := range tables {
		rows := ds.Table(t.Table).Rows
		for _, c := range t.ForeignKeyColumns() {
			parentName := c.ForeignKey.ForeignTableName
			t.BelongsTo = appendUnique(t.BelongsTo, parentName)
			t.Relations = appendRelation(t.Relations, Relation{
				Type: BelongsTo, Table: parentName, Column: c.ColumnName, Confidence: ConfidenceInferred,
			})

			parent, ok := tableMap[parentName]
			if !ok || t.IsPivot {
				continue
			}
			if hasRepeatedValue(rows, c.ColumnName) {
				parent.HasMany = appendUnique(parent.HasMany, t.Table)
				parent.Relations = appendRelation(parent.Relations, Relation{
					Type: HasMany, Table: t.Table, Column: c.ColumnName, Confidence: ConfidenceSampled,
				})
				continue
			}
			// No repeated value in the sample: default to the less committing claim.
			parent.HasOne = appendUnique(parent.HasOne, t.Table)
			parent.Relations = appendRelation(parent.Relations, Relation{
				Type: HasOne, Table: t.Table, Column: c.ColumnName, Confidence: ConfidenceInferred,
			})
		}
	}

	for _, t := range tables {
		if !t.IsPivot {
			continue
		}
		fks := t.ForeignKeyColumns()
		p1, p2 := tableMap[fks[0].ForeignKey.ForeignTableName], tableMap[fks[1].ForeignKey.ForeignTableName]
		linkPivot(p1, p2, t.Table)
		linkPivot(p2, p1, t.Table)
	}
}

func linkPivot(owner, related *SchemaInfo, pivot string) {
	owner.BelongsToMany = appendUnique(owner.BelongsToMany, related.Table)
	pr := PivotRelationship{RelatedTable: related.Table, PivotTable: pivot}
	for _, existing := range owner.PivotRelationships {
		if existing == pr {
			return
		}
	}
	owner.PivotRelationships = append(owner.PivotRelationships, pr)
	owner.Relations = appendRelation(owner.Relations, Relation{
		Type: BelongsToMany, Table: related.Table, PivotTable: pivot, Confidence: ConfidenceInferred,
	})
}

// hasRepeatedValue reports whether any non-null value of column occurs more
// than once across rows.
func hasRepeatedValue(rows []*Row, column string) bool {
	seen := make(map[string]bool, len(rows))
	for _, row := range rows {
		v, ok := row.Values[column]
		if !ok || v == nil {
			continue
		}
		key := fmt.Sprintf("%T:%v", v, v)
		if n, isNum := numericKey(v); isNum {
			key = n
		}
		if seen[key] {
			return true
		}
		seen[key] = true
	}
	return false
}

// numericKey normalises numbers so 1 and 1.0 count as the same value.
func numericKey(v any) (string, bool) {
	switch TypeOf(v) {
	case TypeNumber, TypeFloat:
		return fmt.Sprintf("num:%v", toFloat(v)), true
	}
	return "", false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	}
	var f float64
	fmt.Sscan(fmt.Sprint(v), &f)
	return f
}

func appendRelation(list []Relation, r Relation) []Relation {
	for _, existing := range list {
		if existing == r {
			return list
		}
	}
	return append(list, r)
}
