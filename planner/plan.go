package planner

import (
	"fmt"
	"sort"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/sql"
)

// AggEntry is one (func, column) pair from an aggregated select list.
type AggEntry struct {
	Func   ast.AggFunc
	Column string
}

// State is the per-statement planner state. It is built fresh on every
// statement and never shared across statements.
type State struct {
	Collections        map[string]string // alias -> collection name
	Aliases             map[string]string // any written name -> canonical alias
	CollectionFields     map[string][]string // alias -> ordered output columns ("*"/"docid" included)
	AggregationFields   map[string]AggEntry
	AggregationOrder    []string // "func(column)" keys of AggregationFields, in select order
	ColumnNameMap       map[string]map[string]string // alias -> sourceColumn -> outputColumn
	Join                *JoinSpec
	DefaultPart         string
	Pushdown            map[string][]Predicate
	Residual            map[string][]Predicate
	HasAggregation      bool
	HasPlainProjection  bool
}

// froms normalizes a Select's Froms/Join into the ordered list of
// ast.FromSpec the planner walks to build collections/aliases.
func froms(sel *ast.Select) []ast.FromSpec {
	if sel.Join != nil {
		return []ast.FromSpec{sel.Join.Left, sel.Join.Right}
	}
	return sel.Froms
}

// Plan walks a Select and builds the planner State.
func Plan(sel *ast.Select) (*State, error) {
	st := &State{
		Collections:       map[string]string{},
		Aliases:           map[string]string{},
		CollectionFields:  map[string][]string{},
		AggregationFields: map[string]AggEntry{},
		ColumnNameMap:     map[string]map[string]string{},
	}
	for i, f := range froms(sel) {
		alias := f.ResolvedAlias()
		if _, exists := st.Collections[alias]; exists {
			return nil, sql.ErrPlan.New(fmt.Sprintf("alias %q used more than once", alias))
		}
		st.Collections[alias] = f.Collection
		st.Aliases[alias] = alias
		if f.Alias != "" {
			st.Aliases[f.Collection] = alias
		}
		if i == 0 {
			st.DefaultPart = alias
		}
	}

	for _, col := range sel.Columns {
		alias, err := st.resolveAlias(col.Table)
		if err != nil {
			return nil, err
		}
		if col.Agg != ast.AggNone {
			st.HasAggregation = true
			key := fmt.Sprintf("%s(%s)", col.Agg, col.Column)
			st.AggregationFields[key] = AggEntry{Func: col.Agg, Column: col.Column}
			st.AggregationOrder = append(st.AggregationOrder, key)
			// Aggregation still needs the source rows fetched and filtered,
			// so the column is added to the alias's projection too (unless
			// it's the `*` placeholder COUNT(*) uses).
			if col.Column != "*" {
				st.CollectionFields[alias] = appendUnique(st.CollectionFields[alias], col.Column)
			}
			continue
		}
		st.HasPlainProjection = true
		st.CollectionFields[alias] = appendUnique(st.CollectionFields[alias], col.Column)
	}

	if st.HasAggregation && st.HasPlainProjection {
		return nil, sql.ErrPlan.New("cannot mix aggregated and non-aggregated columns in one SELECT")
	}

	if err := st.buildColumnNameMap(sel.Columns); err != nil {
		return nil, err
	}

	pushdown, residual, join, err := Split(sel.Where)
	if err != nil {
		return nil, err
	}
	if join == nil && sel.Join != nil {
		on := sel.Join.On
		left, _ := on.Left.(*ast.ColRef)
		right, _ := on.Right.(*ast.ColRef)
		join = &JoinSpec{LeftAlias: left.Table, LeftField: left.Column, RightAlias: right.Table, RightField: right.Column}
	}
	if join != nil {
		if err := st.resolveJoinAliases(join); err != nil {
			return nil, err
		}
	}
	st.Join = join
	st.Pushdown = st.resolveAliasKeys(pushdown)
	st.Residual = st.resolveAliasKeys(residual)
	return st, nil
}

// PlanWrite seeds planner state for UPDATE/DELETE as if it were
// `SELECT docid, * FROM table WHERE ...`, so the write path sees every
// field of each target document and its returned projection carries the
// fields the write doesn't touch.
func PlanWrite(table ast.FromSpec, where ast.Expr) (*State, error) {
	sel := &ast.Select{
		Columns: []ast.ColRef{{Column: "docid"}, {Column: "*"}},
		Froms:   []ast.FromSpec{table},
		Where:   where,
	}
	return Plan(sel)
}

func (st *State) resolveAlias(written string) (string, error) {
	if written == "" {
		if st.DefaultPart == "" {
			return "", sql.ErrPlan.New("column has no table qualifier and there is no default FROM")
		}
		return st.DefaultPart, nil
	}
	if canonical, ok := st.Aliases[written]; ok {
		return canonical, nil
	}
	return "", sql.ErrPlan.New(fmt.Sprintf("unresolved table qualifier %q", written))
}

func (st *State) resolveJoinAliases(j *JoinSpec) error {
	la, err := st.resolveAlias(j.LeftAlias)
	if err != nil {
		return err
	}
	ra, err := st.resolveAlias(j.RightAlias)
	if err != nil {
		return err
	}
	if la == ra {
		return sql.ErrPlan.New("join condition must reference two different aliases")
	}
	j.LeftAlias, j.RightAlias = la, ra
	return nil
}

// resolveAliasKeys remaps predicate maps keyed by the as-written qualifier
// (possibly "") to the canonical alias.
func (st *State) resolveAliasKeys(in map[string][]Predicate) map[string][]Predicate {
	out := make(map[string][]Predicate, len(in))
	for written, preds := range in {
		alias, err := st.resolveAlias(written)
		if err != nil {
			alias = written
		}
		out[alias] = append(out[alias], preds...)
	}
	return out
}

// buildColumnNameMap implements the two-pass rename: identity first, then
// for every pair of identically named output columns across the full
// column list, rename all of them to `aliasAsWritten_column`.
func (st *State) buildColumnNameMap(cols []ast.ColRef) error {
	type entry struct {
		alias      string
		aliasWritten string
		source     string
		output     string
	}
	var entries []entry
	seen := map[string][]int{} // output name (pass 1) -> entry indexes

	for _, col := range cols {
		alias, err := st.resolveAlias(col.Table)
		if err != nil {
			return err
		}
		written := col.Table
		if written == "" {
			written = alias
		}
		output := col.Column
		if col.Agg != ast.AggNone {
			output = fmt.Sprintf("%s(%s)", col.Agg, col.Column)
		}
		e := entry{alias: alias, aliasWritten: written, source: col.Column, output: output}
		entries = append(entries, e)
		seen[output] = append(seen[output], len(entries)-1)
	}

	for output, idxs := range seen {
		if len(idxs) < 2 {
			continue
		}
		for _, i := range idxs {
			entries[i].output = fmt.Sprintf("%s_%s", entries[i].aliasWritten, entries[i].source)
		}
		_ = output
	}

	for _, e := range entries {
		if e.source == "*" {
			continue
		}
		if st.ColumnNameMap[e.alias] == nil {
			st.ColumnNameMap[e.alias] = map[string]string{}
		}
		st.ColumnNameMap[e.alias][e.source] = e.output
	}
	return nil
}

func appendUnique(list []string, col string) []string {
	for _, c := range list {
		if c == col {
			return list
		}
	}
	return append(list, col)
}

// SortedKeys is a small helper projection uses to make wildcard-discovered
// keys deterministic: remaining document keys are added in sorted order.
func SortedKeys(keys []string) []string {
	out := append([]string(nil), keys...)
	sort.Strings(out)
	return out
}
