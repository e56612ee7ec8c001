package exec

import (
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

// Row is one output row: an ordered column list plus the values keyed by
// output column name. The explicit order makes projection's column
// ordering deterministic even though the underlying map has none.
type Row struct {
	Columns []string
	Values  map[string]interface{}
}

// NewRow builds an empty Row with the given column order.
func NewRow(columns []string) Row {
	return Row{Columns: append([]string(nil), columns...), Values: make(map[string]interface{}, len(columns))}
}

// Project builds the final row list from filtered per-alias documents:
// wildcard expansion by sampling, columnNameMap renaming, dotted-path
// reads, and docid injection. Used for the no-join path.
func Project(st *planner.State, docs AliasDocs) ([]Row, error) {
	expanded := map[string][]fieldSpec{}
	used := usedOutputNames(st)
	for alias, fields := range st.CollectionFields {
		fs, err := expandFields(st, alias, fields, sampleOne(docs[alias]), used)
		if err != nil {
			return nil, err
		}
		expanded[alias] = fs
	}

	var rows []Row
	for alias, byID := range docs {
		fields := expanded[alias]
		cols := columnsFor(fields)
		for id, doc := range byID {
			rows = append(rows, buildRow(cols, fields, alias, id, doc))
		}
	}
	return rows, nil
}

// ProjectJoined builds the final row list from joined rows: fields are
// drawn in order from the probe side then the hash side.
func ProjectJoined(st *planner.State, joined []JoinedRow) ([]Row, error) {
	used := usedOutputNames(st)
	expanded := map[string][]fieldSpec{}
	for alias := range st.CollectionFields {
		var sample sql.Document
		for _, jr := range joined {
			if jr.ProbeAlias == alias {
				sample = jr.ProbeDoc
				break
			}
			if jr.HashAlias == alias {
				sample = jr.HashDoc
				break
			}
		}
		fs, err := expandFields(st, alias, st.CollectionFields[alias], sample, used)
		if err != nil {
			return nil, err
		}
		expanded[alias] = fs
	}

	rows := make([]Row, 0, len(joined))
	for _, jr := range joined {
		probeFields := expanded[jr.ProbeAlias]
		hashFields := expanded[jr.HashAlias]
		cols := append(columnsFor(probeFields), columnsFor(hashFields)...)
		row := NewRow(cols)
		fillRow(row, probeFields, jr.ProbeAlias, jr.ProbeID, jr.ProbeDoc)
		fillRow(row, hashFields, jr.HashAlias, jr.HashID, jr.HashDoc)
		rows = append(rows, row)
	}
	return rows, nil
}

// fieldSpec is one resolved (source, output) pair for one alias, after
// wildcard expansion.
type fieldSpec struct {
	source string // "docid" or a (dotted) document path
	output string
}

func columnsFor(fields []fieldSpec) []string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.output
	}
	return out
}

func buildRow(cols []string, fields []fieldSpec, alias, id string, doc sql.Document) Row {
	row := NewRow(cols)
	fillRow(row, fields, alias, id, doc)
	return row
}

func fillRow(row Row, fields []fieldSpec, alias, id string, doc sql.Document) {
	for _, f := range fields {
		if f.source == docIDField {
			row.Values[f.output] = id
			continue
		}
		row.Values[f.output] = doc.GetValue(f.source).Native()
	}
	_ = alias
}

// sampleOne returns an arbitrary document from the set, to expand a
// wildcard against one representative key set. With an empty set it
// returns nil and expandFields skips wildcard expansion, so projecting an
// empty result set yields [] rather than erroring.
func sampleOne(byID map[string]sql.Document) sql.Document {
	for _, doc := range byID {
		return doc
	}
	return nil
}

// expandFields resolves an alias's declared columns into concrete
// fieldSpecs, expanding "*" against sample: explicit columns keep their
// position, wildcard adds docid (unless listed explicitly) and then the
// remaining document keys in sorted order, and newly
// discovered keys that collide with another alias's output name are
// renamed to alias_column to preserve the no-duplicate-output-key
// invariant.
func expandFields(st *planner.State, alias string, declared []string, sample sql.Document, used map[string]bool) ([]fieldSpec, error) {
	nameMap := st.ColumnNameMap[alias]
	var out []fieldSpec
	haveExplicit := map[string]bool{}
	for _, col := range declared {
		if col == "*" {
			continue
		}
		out = append(out, fieldSpec{source: col, output: outputFor(nameMap, col, col)})
		haveExplicit[col] = true
	}
	if !containsStar(declared) || sample == nil {
		for _, f := range out {
			used[f.output] = true
		}
		return out, nil
	}
	keys := append([]string{docIDField}, planner.SortedKeys(sample.Keys())...)
	for _, k := range keys {
		if haveExplicit[k] {
			continue
		}
		haveExplicit[k] = true
		output := outputFor(nameMap, k, k)
		if used[output] {
			output = alias + "_" + k
		}
		out = append(out, fieldSpec{source: k, output: output})
	}
	for _, f := range out {
		used[f.output] = true
	}
	return out, nil
}

func containsStar(cols []string) bool {
	for _, c := range cols {
		if c == "*" {
			return true
		}
	}
	return false
}

func outputFor(nameMap map[string]string, source, fallback string) string {
	if nameMap != nil {
		if out, ok := nameMap[source]; ok {
			return out
		}
	}
	return fallback
}

func usedOutputNames(st *planner.State) map[string]bool {
	used := map[string]bool{}
	for _, m := range st.ColumnNameMap {
		for _, out := range m {
			used[out] = true
		}
	}
	return used
}
