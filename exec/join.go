package exec

import (
	"github.com/mitchellh/hashstructure"

	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

// JoinedRow pairs one probe-side document with one hash-side match, the
// unit the join engine hands to projection.
type JoinedRow struct {
	ProbeAlias string
	ProbeID    string
	ProbeDoc   sql.Document
	HashAlias  string
	HashID     string
	HashDoc    sql.Document
}

// Join performs the single supported inner equi-join: build a hash map on
// the larger side, probe with the smaller side. Join value equality is
// structural — lists compare element-wise, timestamps as a point in time
// — which Value.Equal already implements; the hash bucket key here is
// computed with hashstructure over the value's Native() form so
// structurally-equal lists/maps land in the same bucket without a bespoke
// deep-equal.
//
// Below ctx.JoinHashThreshold documents on the hash side, bucketing is
// skipped in favor of a direct nested-loop comparison: hashing has a fixed
// per-document cost that only pays for itself once the hash side is large
// enough to make repeated linear scans more expensive than the hash calls.
func Join(ctx *sql.Context, docs AliasDocs, spec *planner.JoinSpec) ([]JoinedRow, error) {
	left := docs[spec.LeftAlias]
	right := docs[spec.RightAlias]

	hashAlias, hashField, hashDocs := spec.LeftAlias, spec.LeftField, left
	probeAlias, probeField, probeDocs := spec.RightAlias, spec.RightField, right
	if len(right) > len(left) {
		hashAlias, hashField, hashDocs = spec.RightAlias, spec.RightField, right
		probeAlias, probeField, probeDocs = spec.LeftAlias, spec.LeftField, left
	}

	if len(hashDocs) < ctx.JoinHashThreshold {
		return joinNestedLoop(probeAlias, probeField, probeDocs, hashAlias, hashField, hashDocs)
	}

	type bucketEntry struct {
		id  string
		doc sql.Document
	}
	buckets := map[uint64][]bucketEntry{}
	for id, doc := range hashDocs {
		v := doc.GetValue(hashField)
		if !hasField(doc, hashField) {
			continue // missing join field: document dropped
		}
		h, err := joinHash(v)
		if err != nil {
			return nil, sql.ErrType.New(err.Error())
		}
		buckets[h] = append(buckets[h], bucketEntry{id: id, doc: doc})
	}

	var rows []JoinedRow
	for id, doc := range probeDocs {
		v := doc.GetValue(probeField)
		if !hasField(doc, probeField) {
			continue
		}
		h, err := joinHash(v)
		if err != nil {
			return nil, sql.ErrType.New(err.Error())
		}
		for _, entry := range buckets[h] {
			hv := entry.doc.GetValue(hashField)
			if !v.Equal(hv) {
				continue // hash collision, not an actual match
			}
			rows = append(rows, JoinedRow{
				ProbeAlias: probeAlias, ProbeID: id, ProbeDoc: doc,
				HashAlias: hashAlias, HashID: entry.id, HashDoc: entry.doc,
			})
		}
	}
	return rows, nil
}

// joinNestedLoop compares every probe document against every hash-side
// document directly with Value.Equal, with no bucketing step.
func joinNestedLoop(probeAlias, probeField string, probeDocs map[string]sql.Document, hashAlias, hashField string, hashDocs map[string]sql.Document) ([]JoinedRow, error) {
	var rows []JoinedRow
	for pid, pdoc := range probeDocs {
		pv := pdoc.GetValue(probeField)
		if !hasField(pdoc, probeField) {
			continue
		}
		for hid, hdoc := range hashDocs {
			if !hasField(hdoc, hashField) {
				continue
			}
			if !pv.Equal(hdoc.GetValue(hashField)) {
				continue
			}
			rows = append(rows, JoinedRow{
				ProbeAlias: probeAlias, ProbeID: pid, ProbeDoc: pdoc,
				HashAlias: hashAlias, HashID: hid, HashDoc: hdoc,
			})
		}
	}
	return rows, nil
}

func hasField(doc sql.Document, path string) bool {
	_, ok := doc.Get(path)
	return ok
}

func joinHash(v sql.Value) (uint64, error) {
	return hashstructure.Hash(v.Native(), nil)
}
