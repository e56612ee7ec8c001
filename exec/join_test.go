package exec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

func TestJoinMatchesOnEqualValues(t *testing.T) {
	docs := AliasDocs{
		"o": {"o1": {"user_id": "u1"}, "o2": {"user_id": "u2"}},
		"u": {"u1": {"uid": "u1"}, "u2": {"uid": "u2"}},
	}
	spec := &planner.JoinSpec{LeftAlias: "o", LeftField: "user_id", RightAlias: "u", RightField: "uid"}
	rows, err := Join(sql.NewEmptyContext(), docs, spec)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		assert.Equal(t, r.HashDoc["user_id"], r.ProbeDoc["uid"])
	}
}

func TestJoinDropsDocumentsMissingJoinField(t *testing.T) {
	docs := AliasDocs{
		"o": {"o1": {"user_id": "u1"}, "o2": {}},
		"u": {"u1": {"uid": "u1"}},
	}
	spec := &planner.JoinSpec{LeftAlias: "o", LeftField: "user_id", RightAlias: "u", RightField: "uid"}
	rows, err := Join(sql.NewEmptyContext(), docs, spec)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "o1", rows[0].HashID)
}

func TestJoinHashesLargerSide(t *testing.T) {
	docs := AliasDocs{
		"small": {"s1": {"k": "a"}},
		"big":   {"b1": {"k": "a"}, "b2": {"k": "b"}, "b3": {"k": "c"}},
	}
	spec := &planner.JoinSpec{LeftAlias: "small", LeftField: "k", RightAlias: "big", RightField: "k"}
	rows, err := Join(sql.NewEmptyContext(), docs, spec)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "big", rows[0].HashAlias)
	assert.Equal(t, "small", rows[0].ProbeAlias)
}

func TestJoinBelowThresholdUsesNestedLoop(t *testing.T) {
	docs := AliasDocs{
		"small": {"s1": {"k": "a"}},
		"big":   {"b1": {"k": "a"}, "b2": {"k": "b"}},
	}
	spec := &planner.JoinSpec{LeftAlias: "small", LeftField: "k", RightAlias: "big", RightField: "k"}
	ctx := sql.NewEmptyContext()
	ctx.JoinHashThreshold = 10 // bigger than either side: forces the nested-loop path
	rows, err := Join(ctx, docs, spec)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "b1", rows[0].HashID)
}

func TestJoinStructuralEqualityOnLists(t *testing.T) {
	docs := AliasDocs{
		"a": {"a1": {"tags": []interface{}{"x", "y"}}},
		"b": {"b1": {"tags": []interface{}{"x", "y"}}, "b2": {"tags": []interface{}{"x"}}},
	}
	spec := &planner.JoinSpec{LeftAlias: "a", LeftField: "tags", RightAlias: "b", RightField: "tags"}
	rows, err := Join(sql.NewEmptyContext(), docs, spec)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, sql.FromNative(docs["b"]["b1"]["tags"]), sql.FromNative(rows[0].HashDoc["tags"]))
}
