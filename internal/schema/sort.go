package schema

// ---------------------------------------------------------------------
// Topological ordering
// ---------------------------------------------------------------------

// SortTables orders tables so that every table precedes the tables listed
// in its ChildTables. The input order is returned untouched when it already
// satisfies that rule. A cycle fails with *CyclicDependencyError.
func SortTables(tables []*SchemaInfo) ([]*SchemaInfo, error) {
	tableMap := make(map[string]*SchemaInfo, len(tables))
	for _, t := range tables {
		tableMap[t.Table] = t
	}

	// Cycles must be reported even when the order looks fine, so the DFS
	// always runs; only its result is discarded.
	sorted, err := dfsSort(tables, tableMap)
	if err != nil {
		return nil, err
	}
	if IsSafeOrder(tables) {
		out := make([]*SchemaInfo, len(tables))
		copy(out, tables)
		return out, nil
	}
	return sorted, nil
}

const (
	unvisited = iota
	inProgress
	done
)

func dfsSort(tables []*SchemaInfo, tableMap map[string]*SchemaInfo) ([]*SchemaInfo, error) {
	state := make(map[string]int, len(tables))
	var stack []string
	var order []*SchemaInfo

	var visit func(t *SchemaInfo) error
	visit = func(t *SchemaInfo) error {
		switch state[t.Table] {
		case done:
			return nil
		case inProgress:
			return &CyclicDependencyError{Cycle: cyclePath(stack, t.Table)}
		}
		state[t.Table] = inProgress
		stack = append(stack, t.Table)
		for _, child := range t.ChildTables {
			c, ok := tableMap[child]
			if !ok {
				continue
			}
			if err := visit(c); err != nil {
				return err
			}
		}
		stack = stack[:len(stack)-1]
		state[t.Table] = done
		order = append(order, t)
		return nil
	}

	for _, t := range tables {
		if err := visit(t); err != nil {
			return nil, err
		}
	}

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

func cyclePath(stack []string, again string) []string {
	for i, name := range stack {
		if name == again {
			path := append([]string{}, stack[i:]...)
			return append(path, again)
		}
	}
	return []string{again, again}
}

// IsSafeOrder reports whether every table appears before all of its child tables.
func IsSafeOrder(tables []*SchemaInfo) bool {
	pos := make(map[string]int, len(tables))
	for i, t := range tables {
		pos[t.Table] = i
	}
	for i, t := range tables {
		for _, child := range t.ChildTables {
			if j, ok := pos[child]; ok && j <= i {
				return false
			}
		}
	}
	return true
}
