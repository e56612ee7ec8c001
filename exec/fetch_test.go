package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
	"github.com/documentql/docql/store/memory"
)

func newFetchState(t *testing.T, where ast.Expr) *planner.State {
	t.Helper()
	sel := &ast.Select{
		Columns: []ast.ColRef{{Column: "*"}},
		Froms:   []ast.FromSpec{{Collection: "users"}},
		Where:   where,
	}
	st, err := planner.Plan(sel)
	require.NoError(t, err)
	return st
}

func TestFetchFullScanWithoutPredicates(t *testing.T) {
	s := memory.New()
	s.Seed("users", map[string]sql.Document{"1": {"name": "Ada"}, "2": {"name": "Grace"}})
	ctx := sql.NewEmptyContext()

	st := newFetchState(t, nil)
	docs, err := Fetch(ctx, st, s)
	require.NoError(t, err)
	assert.Len(t, docs["users"], 2)
}

func TestFetchPushdownUsesQueryByTuples(t *testing.T) {
	s := memory.New()
	s.Seed("users", map[string]sql.Document{"1": {"age": 30.0}, "2": {"age": 18.0}})
	ctx := sql.NewEmptyContext()

	where := &ast.BinaryExpr{Op: ast.OpGte, Left: &ast.ColRef{Column: "age"}, Right: &ast.Literal{Value: sql.NumberValue(21)}}
	st := newFetchState(t, where)
	docs, err := Fetch(ctx, st, s)
	require.NoError(t, err)
	assert.Len(t, docs["users"], 1)
}

func TestFetchDocIDShortCircuit(t *testing.T) {
	s := memory.New()
	s.Seed("users", map[string]sql.Document{"1": {"name": "Ada"}, "2": {"name": "Grace"}})
	ctx := sql.NewEmptyContext()

	where := &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColRef{Column: "docid"}, Right: &ast.Literal{Value: sql.StringValue("1")}}
	st := newFetchState(t, where)
	docs, err := Fetch(ctx, st, s)
	require.NoError(t, err)
	require.Len(t, docs["users"], 1)
	assert.Contains(t, docs["users"], "1")
}

func TestFetchDocIDInShortCircuit(t *testing.T) {
	s := memory.New()
	s.Seed("users", map[string]sql.Document{"1": {"name": "Ada"}, "2": {"name": "Grace"}, "3": {"name": "Mae"}})
	ctx := sql.NewEmptyContext()

	where := &ast.BinaryExpr{
		Op: ast.OpIn, Left: &ast.ColRef{Column: "docid"},
		Right: &ast.Literal{Value: sql.ListValue([]sql.Value{sql.StringValue("1"), sql.StringValue("3")})},
	}
	st := newFetchState(t, where)
	docs, err := Fetch(ctx, st, s)
	require.NoError(t, err)
	assert.Len(t, docs["users"], 2)
}

func TestFetchDocIDMissingIsSkipped(t *testing.T) {
	s := memory.New()
	s.Seed("users", map[string]sql.Document{"1": {"name": "Ada"}})
	ctx := sql.NewEmptyContext()

	where := &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColRef{Column: "docid"}, Right: &ast.Literal{Value: sql.StringValue("missing")}}
	st := newFetchState(t, where)
	docs, err := Fetch(ctx, st, s)
	require.NoError(t, err)
	assert.Len(t, docs["users"], 0)
}
