package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

func TestApplyResidualLikePrefix(t *testing.T) {
	docs := AliasDocs{"users": {
		"1": {"name": "Jane"},
		"2": {"name": "John"},
		"3": {"name": "Mary"},
	}}
	residual := map[string][]planner.Predicate{
		"users": {{Field: "name", Op: ast.OpLike, Value: sql.StringValue("J%")}},
	}
	out, err := ApplyResidual(sql.NewEmptyContext(), docs, residual)
	require.NoError(t, err)
	assert.Len(t, out["users"], 2)
	assert.Contains(t, out["users"], "1")
	assert.Contains(t, out["users"], "2")
}

func TestApplyResidualNotLike(t *testing.T) {
	docs := AliasDocs{"users": {
		"1": {"name": "Jane"},
		"2": {"name": "Mary"},
	}}
	residual := map[string][]planner.Predicate{
		"users": {{Field: "name", Op: ast.OpNotLike, Value: sql.StringValue("J%")}},
	}
	out, err := ApplyResidual(sql.NewEmptyContext(), docs, residual)
	require.NoError(t, err)
	assert.Len(t, out["users"], 1)
	assert.Contains(t, out["users"], "2")
}

func TestApplyResidualMissingFieldNeverMatches(t *testing.T) {
	docs := AliasDocs{"users": {"1": {"other": "x"}}}
	residual := map[string][]planner.Predicate{
		"users": {{Field: "name", Op: ast.OpLike, Value: sql.StringValue("J%")}},
	}
	out, err := ApplyResidual(sql.NewEmptyContext(), docs, residual)
	require.NoError(t, err)
	assert.Len(t, out["users"], 0)
}

func TestApplyResidualMissingFieldNeverMatchesEmptyPattern(t *testing.T) {
	docs := AliasDocs{"users": {"1": {"other": "x"}}}
	residual := map[string][]planner.Predicate{
		"users": {{Field: "name", Op: ast.OpLike, Value: sql.StringValue("%")}},
	}
	out, err := ApplyResidual(sql.NewEmptyContext(), docs, residual)
	require.NoError(t, err)
	assert.Len(t, out["users"], 0)
}

func TestApplyResidualMissingFieldNotLikeNeverMatchesEither(t *testing.T) {
	docs := AliasDocs{"users": {"1": {"other": "x"}}}
	residual := map[string][]planner.Predicate{
		"users": {{Field: "name", Op: ast.OpNotLike, Value: sql.StringValue("%")}},
	}
	out, err := ApplyResidual(sql.NewEmptyContext(), docs, residual)
	require.NoError(t, err)
	assert.Len(t, out["users"], 0)
}

func TestApplyResidualNoPredicatesPassesThrough(t *testing.T) {
	docs := AliasDocs{"users": {"1": {"name": "Jane"}}}
	out, err := ApplyResidual(sql.NewEmptyContext(), docs, map[string][]planner.Predicate{})
	require.NoError(t, err)
	assert.Len(t, out["users"], 1)
}

func TestGlobToRegexpEscapesLiteralChars(t *testing.T) {
	re, err := globToRegexp("a.b%")
	require.NoError(t, err)
	assert.True(t, re.MatchString("a.bxyz"))
	assert.False(t, re.MatchString("axbxyz"))
}
