// Package planner implements the predicate splitter and the query
// planner: it resolves aliases, builds the per-alias column/aggregation/
// rename maps, and partitions WHERE into pushdown predicates, residual
// predicates, and an optional join spec.
package planner

import (
	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/sql"
)

// Predicate is one leaf of a per-alias predicate list: a field (possibly
// dotted), an operator, and a literal value (or, for IN/ARRAY_CONTAINS_ANY,
// a list literal).
type Predicate struct {
	Field string
	Op    ast.BinaryOp
	Value sql.Value
}

// JoinSpec is the (leftAliasField, ==, rightAliasField) triple surfaced by
// the splitter.
type JoinSpec struct {
	LeftAlias   string
	LeftField   string
	RightAlias  string
	RightField  string
}

// Split partitions a WHERE tree into pushdown and residual predicates per
// alias:
//   - pushdown: leaves with a literal RHS and op in ast.PushdownOps
//   - residual: leaves with op in ast.ResidualOps (LIKE/NOT LIKE)
//   - join-condition leaves (column == column across two aliases) are
//     pulled out as the JoinSpec instead of appearing in either map
//
// AND is flattened implicitly (conjunction per alias). An OR is only
// accepted when every leaf underneath touches the same alias and column
// with op ==; it is then folded into one pushdown IN predicate. Any other
// OR — across aliases, or mixing columns/operators even within one alias —
// is rejected with ErrPlan rather than silently merged into a flat AND
// list: folding a cross-alias or mixed-operator OR into an IN predicate
// would change which rows match.
func Split(where ast.Expr) (pushdown map[string][]Predicate, residual map[string][]Predicate, join *JoinSpec, err error) {
	pushdown = map[string][]Predicate{}
	residual = map[string][]Predicate{}
	if where == nil {
		return pushdown, residual, nil, nil
	}
	if err := split(where, pushdown, residual, &join); err != nil {
		return nil, nil, nil, err
	}
	return pushdown, residual, join, nil
}

func split(e ast.Expr, pushdown, residual map[string][]Predicate, join **JoinSpec) error {
	be, ok := e.(*ast.BinaryExpr)
	if !ok {
		return sql.ErrPlan.New("WHERE clause must be built from comparisons, got a bare value")
	}
	switch be.Op {
	case ast.OpAnd:
		if err := split(be.Left, pushdown, residual, join); err != nil {
			return err
		}
		return split(be.Right, pushdown, residual, join)
	case ast.OpOr:
		return splitOr(be, pushdown)
	default:
		return splitLeaf(be, pushdown, residual, join)
	}
}

func splitLeaf(be *ast.BinaryExpr, pushdown, residual map[string][]Predicate, join **JoinSpec) error {
	left, ok := be.Left.(*ast.ColRef)
	if !ok {
		return sql.ErrPlan.New("left side of a WHERE comparison must be a column")
	}
	if rightCol, ok := be.Right.(*ast.ColRef); ok {
		if be.Op != ast.OpEq {
			return sql.ErrPlan.New("join conditions must use ==")
		}
		if *join != nil {
			return sql.ErrPlan.New("at most one join condition is supported")
		}
		*join = &JoinSpec{LeftAlias: left.Table, LeftField: left.Column, RightAlias: rightCol.Table, RightField: rightCol.Column}
		return nil
	}
	lit, ok := be.Right.(*ast.Literal)
	if !ok {
		return sql.ErrPlan.New("right side of a WHERE comparison must be a literal or a column")
	}
	alias := left.Table
	pred := Predicate{Field: left.Column, Op: be.Op, Value: lit.Value}
	switch {
	case ast.ResidualOps[be.Op]:
		residual[alias] = append(residual[alias], pred)
	case ast.PushdownOps[be.Op]:
		pushdown[alias] = append(pushdown[alias], pred)
	default:
		return sql.ErrPlan.New("unsupported operator in WHERE clause")
	}
	return nil
}

// splitOr validates that every leaf beneath e shares one alias and column
// and uses ==, then folds them into a single IN pushdown predicate.
func splitOr(e ast.Expr, pushdown map[string][]Predicate) error {
	var leaves []*ast.BinaryExpr
	if err := collectOrLeaves(e, &leaves); err != nil {
		return err
	}
	first, ok := leaves[0].Left.(*ast.ColRef)
	if !ok {
		return sql.ErrPlan.New("disjunction not supported: left side must be a column")
	}
	values := make([]sql.Value, 0, len(leaves))
	for _, leaf := range leaves {
		col, ok := leaf.Left.(*ast.ColRef)
		if !ok || leaf.Op != ast.OpEq || col.Table != first.Table || col.Column != first.Column {
			return sql.ErrPlan.New("disjunction not supported: OR leaves must all be `alias.column == literal` on the same alias and column")
		}
		lit, ok := leaf.Right.(*ast.Literal)
		if !ok {
			return sql.ErrPlan.New("disjunction not supported: OR leaves must compare against a literal")
		}
		values = append(values, lit.Value)
	}
	pushdown[first.Table] = append(pushdown[first.Table], Predicate{Field: first.Column, Op: ast.OpIn, Value: sql.ListValue(values)})
	return nil
}

func collectOrLeaves(e ast.Expr, out *[]*ast.BinaryExpr) error {
	be, ok := e.(*ast.BinaryExpr)
	if !ok {
		return sql.ErrPlan.New("disjunction not supported: OR must be built from comparisons")
	}
	switch be.Op {
	case ast.OpOr:
		if err := collectOrLeaves(be.Left, out); err != nil {
			return err
		}
		return collectOrLeaves(be.Right, out)
	case ast.OpAnd:
		return sql.ErrPlan.New("disjunction not supported: AND nested inside OR")
	default:
		*out = append(*out, be)
		return nil
	}
}
