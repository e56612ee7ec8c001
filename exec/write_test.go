package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/sql"
	"github.com/documentql/docql/store/memory"
)

func TestInsertExplicitColumns(t *testing.T) {
	s := memory.New()
	ctx := sql.NewEmptyContext()
	ins := &ast.Insert{
		Table:   ast.FromSpec{Collection: "users"},
		Columns: []ast.ColRef{{Column: "name"}, {Column: "age"}},
		Values:  []ast.Literal{{Value: sql.StringValue("Ada")}, {Value: sql.NumberValue(30)}},
	}
	doc, err := Insert(ctx, s, ins)
	require.NoError(t, err)
	assert.Equal(t, "Ada", doc["name"])
	assert.Equal(t, 30.0, doc["age"])
	require.NotEmpty(t, doc[docIDField])

	stored, err := s.GetDocument(ctx, "users", doc[docIDField].(string))
	require.NoError(t, err)
	assert.Equal(t, "Ada", stored["name"])
}

func TestInsertMappingSpecialCase(t *testing.T) {
	s := memory.New()
	ctx := sql.NewEmptyContext()
	ins := &ast.Insert{
		Table:   ast.FromSpec{Collection: "users"},
		Columns: []ast.ColRef{{Column: "*"}},
		Values: []ast.Literal{{Value: sql.MapValue(map[string]sql.Value{
			"name": sql.StringValue("Grace"),
			"tags": sql.ListValue([]sql.Value{sql.StringValue("admin")}),
		})}},
	}
	doc, err := Insert(ctx, s, ins)
	require.NoError(t, err)
	assert.Equal(t, "Grace", doc["name"])
	assert.Equal(t, []interface{}{"admin"}, doc["tags"])
}

func TestInsertColumnValueLengthMismatch(t *testing.T) {
	s := memory.New()
	ctx := sql.NewEmptyContext()
	ins := &ast.Insert{
		Table:   ast.FromSpec{Collection: "users"},
		Columns: []ast.ColRef{{Column: "name"}, {Column: "age"}},
		Values:  []ast.Literal{{Value: sql.StringValue("Ada")}},
	}
	_, err := Insert(ctx, s, ins)
	require.Error(t, err)
}

func TestUpdateMergesSetsAndReturnsProjection(t *testing.T) {
	s := memory.New()
	s.Seed("users", map[string]sql.Document{"1": {"name": "Ada", "age": 30.0}})
	ctx := sql.NewEmptyContext()

	upd := &ast.Update{
		Table: ast.FromSpec{Collection: "users"},
		Sets:  []ast.Assignment{{Column: ast.ColRef{Column: "age"}, Value: ast.Literal{Value: sql.NumberValue(31)}}},
		Where: &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColRef{Column: "name"}, Right: &ast.Literal{Value: sql.StringValue("Ada")}},
	}
	rows, err := Update(ctx, s, upd)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 31.0, rows[0].Values["age"])

	stored, err := s.GetDocument(ctx, "users", "1")
	require.NoError(t, err)
	assert.Equal(t, 31.0, stored["age"])
	assert.Equal(t, "Ada", stored["name"])
}

func TestUpdateWithNoMatchesReturnsEmpty(t *testing.T) {
	s := memory.New()
	s.Seed("users", map[string]sql.Document{"1": {"name": "Ada"}})
	ctx := sql.NewEmptyContext()

	upd := &ast.Update{
		Table: ast.FromSpec{Collection: "users"},
		Sets:  []ast.Assignment{{Column: ast.ColRef{Column: "age"}, Value: ast.Literal{Value: sql.NumberValue(1)}}},
		Where: &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColRef{Column: "name"}, Right: &ast.Literal{Value: sql.StringValue("missing")}},
	}
	rows, err := Update(ctx, s, upd)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDeleteRemovesMatchesAndReturnsPreDeleteRows(t *testing.T) {
	s := memory.New()
	s.Seed("users", map[string]sql.Document{
		"1": {"name": "Ada", "age": 30.0},
		"2": {"name": "Grace", "age": 40.0},
	})
	ctx := sql.NewEmptyContext()

	del := &ast.Delete{
		Table: ast.FromSpec{Collection: "users"},
		Where: &ast.BinaryExpr{Op: ast.OpEq, Left: &ast.ColRef{Column: "name"}, Right: &ast.Literal{Value: sql.StringValue("Ada")}},
	}
	rows, err := Delete(ctx, s, del)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Ada", rows[0].Values["name"])

	_, err = s.GetDocument(ctx, "users", "1")
	require.Error(t, err)
	_, err = s.GetDocument(ctx, "users", "2")
	require.NoError(t, err)
}
