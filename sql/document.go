package sql

import "strings"

// Document is the hierarchical, schemaless mapping: field names to
// scalars, lists, or nested sub-mappings.
type Document map[string]interface{}

// DocIDField is the synthetic column injected by projection. It is never
// present in a document's stored body; if a stored document happens to
// contain this key, the store-assigned id wins.
const DocIDField = "docid"

// Get resolves a dotted path (a.b.c) against the document, walking each
// segment. A missing segment terminates the walk and returns (nil, false).
func (d Document) Get(path string) (interface{}, bool) {
	segments := strings.Split(path, ".")
	var cur interface{} = map[string]interface{}(d)
	for _, seg := range segments {
		m, ok := cur.(map[string]interface{})
		if !ok {
			if dm, ok2 := cur.(Document); ok2 {
				m = map[string]interface{}(dm)
			} else {
				return nil, false
			}
		}
		v, ok := m[seg]
		if !ok {
			return nil, false
		}
		cur = v
	}
	return cur, true
}

// GetValue is Get wrapped in the Value model, defaulting to the empty
// string when the path is missing.
func (d Document) GetValue(path string) Value {
	v, ok := d.Get(path)
	if !ok {
		return StringValue("")
	}
	return FromNative(v)
}

// Clone makes a shallow copy of the top-level keys, enough for the
// read-modify-write merge in Update.
func (d Document) Clone() Document {
	out := make(Document, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// Keys returns the document's top-level field names in map-iteration order.
// Callers that need a deterministic order, as wildcard expansion does,
// sort this slice themselves.
func (d Document) Keys() []string {
	out := make([]string, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	return out
}
