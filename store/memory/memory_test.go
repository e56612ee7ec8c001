package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

func TestGetCollectionDocumentsReturnsCopies(t *testing.T) {
	s := New()
	s.Seed("users", map[string]sql.Document{"1": {"name": "Ada"}})
	ctx := sql.NewEmptyContext()

	docs, err := s.GetCollectionDocuments(ctx, "users")
	require.NoError(t, err)
	docs["1"]["name"] = "mutated"

	again, err := s.GetCollectionDocuments(ctx, "users")
	require.NoError(t, err)
	assert.Equal(t, "Ada", again["1"]["name"])
}

func TestQueryByTuplesRangeComparison(t *testing.T) {
	s := New()
	s.Seed("users", map[string]sql.Document{
		"1": {"age": 30.0},
		"2": {"age": 18.0},
	})
	ctx := sql.NewEmptyContext()
	out, err := s.QueryByTuples(ctx, "users", []planner.Predicate{{Field: "age", Op: ast.OpGte, Value: sql.NumberValue(21)}})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Contains(t, out, "1")
}

func TestGetDocumentNotFound(t *testing.T) {
	s := New()
	ctx := sql.NewEmptyContext()
	_, err := s.GetDocument(ctx, "users", "missing")
	require.Error(t, err)
	assert.True(t, sql.ErrNotFound.Is(err))
}

func TestSetAndGetDocument(t *testing.T) {
	s := New()
	ctx := sql.NewEmptyContext()
	id, err := s.GenerateDocumentID(ctx, "users")
	require.NoError(t, err)
	require.NoError(t, s.SetDocument(ctx, "users", id, sql.Document{"name": "Grace"}))

	doc, err := s.GetDocument(ctx, "users", id)
	require.NoError(t, err)
	assert.Equal(t, "Grace", doc["name"])
}

func TestUpdateDocumentMergesPartial(t *testing.T) {
	s := New()
	s.Seed("users", map[string]sql.Document{"1": {"name": "Ada", "age": 30.0}})
	ctx := sql.NewEmptyContext()

	require.NoError(t, s.UpdateDocument(ctx, "users", "1", sql.Document{"age": 31.0}))

	doc, err := s.GetDocument(ctx, "users", "1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc["name"])
	assert.Equal(t, 31.0, doc["age"])
}

func TestDeleteDocument(t *testing.T) {
	s := New()
	s.Seed("users", map[string]sql.Document{"1": {"name": "Ada"}})
	ctx := sql.NewEmptyContext()

	require.NoError(t, s.DeleteDocument(ctx, "users", "1"))
	_, err := s.GetDocument(ctx, "users", "1")
	require.Error(t, err)
}

func TestQueryByTuplesArrayContainsAny(t *testing.T) {
	s := New()
	s.Seed("posts", map[string]sql.Document{
		"1": {"tags": []interface{}{"go", "backend"}},
		"2": {"tags": []interface{}{"python"}},
	})
	ctx := sql.NewEmptyContext()
	pred := planner.Predicate{
		Field: "tags", Op: ast.OpArrayContainsAny,
		Value: sql.ListValue([]sql.Value{sql.StringValue("go"), sql.StringValue("rust")}),
	}
	out, err := s.QueryByTuples(ctx, "posts", []planner.Predicate{pred})
	require.NoError(t, err)
	assert.Len(t, out, 1)
	assert.Contains(t, out, "1")
}
