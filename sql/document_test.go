package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentGetDottedPath(t *testing.T) {
	doc := Document{"address": map[string]interface{}{"city": "Porto"}}
	v, ok := doc.Get("address.city")
	assert.True(t, ok)
	assert.Equal(t, "Porto", v)
}

func TestDocumentGetMissingSegment(t *testing.T) {
	doc := Document{"address": map[string]interface{}{"city": "Porto"}}
	_, ok := doc.Get("address.zip")
	assert.False(t, ok)
	_, ok = doc.Get("missing.path")
	assert.False(t, ok)
}

func TestDocumentGetValueMissingDefaultsToEmptyString(t *testing.T) {
	doc := Document{}
	v := doc.GetValue("missing")
	assert.Equal(t, KindString, v.Kind)
	assert.Equal(t, "", v.Str)
}

func TestDocumentGetValueNestedMap(t *testing.T) {
	doc := Document{"address": map[string]interface{}{"city": "Porto", "zip": "4000"}}
	v := doc.GetValue("address")
	assert.Equal(t, KindMap, v.Kind)
	assert.Equal(t, "Porto", v.Map["city"].Str)
}

func TestDocumentClone(t *testing.T) {
	doc := Document{"a": 1}
	clone := doc.Clone()
	clone["b"] = 2
	_, ok := doc["b"]
	assert.False(t, ok)
}

func TestDocumentKeys(t *testing.T) {
	doc := Document{"a": 1, "b": 2}
	keys := doc.Keys()
	assert.Len(t, keys, 2)
}
