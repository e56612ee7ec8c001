// Package exec implements the store executor, residual filter, join
// engine, projection, aggregation, and writers, plus the orchestration
// that sequences them through the PARSED → ... → DONE state machine.
package exec

import (
	"fmt"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
	"github.com/documentql/docql/store"
)

// AliasDocs is alias → {docId → document}, the shape the store executor
// returns. Order within a collection is not guaranteed.
type AliasDocs map[string]map[string]sql.Document

const docIDField = "docid"

// Fetch issues one query per alias: pushdown predicates via QueryByTuples,
// a full scan via GetCollectionDocuments otherwise, with the docid
// short-circuit handled here since it governs which store call the
// executor issues, not how the store evaluates it.
func Fetch(ctx *sql.Context, st *planner.State, s store.Store) (AliasDocs, error) {
	out := AliasDocs{}
	for alias, collection := range st.Collections {
		if ctx.Cancelled() {
			return nil, sql.ErrStore.New("cancelled before fetching alias " + alias)
		}
		docs, err := fetchAlias(ctx, s, alias, collection, st.Pushdown[alias])
		if err != nil {
			return nil, err
		}
		out[alias] = docs
		ctx.Logger.WithField("alias", alias).WithField("count", len(docs)).Debug("fetched alias")
	}
	return out, nil
}

func fetchAlias(ctx *sql.Context, s store.Store, alias, collection string, predicates []planner.Predicate) (map[string]sql.Document, error) {
	defer ctx.StartSpan(fmt.Sprintf("fetch:%s", alias))()

	if docIDPred, rest, ok := extractDocIDPredicate(predicates); ok {
		docs, err := fetchByDocID(ctx, s, collection, docIDPred)
		if err != nil {
			return nil, err
		}
		_ = rest // other predicates on the same alias are ignored once docid pins the result
		return docs, nil
	}

	if len(predicates) > 0 {
		docs, err := s.QueryByTuples(ctx, collection, predicates)
		if err != nil {
			return nil, sql.ErrStore.New(err.Error())
		}
		return docs, nil
	}
	docs, err := s.GetCollectionDocuments(ctx, collection)
	if err != nil {
		return nil, sql.ErrStore.New(err.Error())
	}
	return docs, nil
}

// extractDocIDPredicate finds a predicate on the synthetic docid field:
// "docid == X" fetches one document, "docid in [...]" fetches each id.
// When present it short-circuits the query.
func extractDocIDPredicate(predicates []planner.Predicate) (planner.Predicate, []planner.Predicate, bool) {
	for i, p := range predicates {
		if p.Field == docIDField && (p.Op == ast.OpEq || p.Op == ast.OpIn) {
			rest := make([]planner.Predicate, 0, len(predicates)-1)
			rest = append(rest, predicates[:i]...)
			rest = append(rest, predicates[i+1:]...)
			return p, rest, true
		}
	}
	return planner.Predicate{}, nil, false
}

func fetchByDocID(ctx *sql.Context, s store.Store, collection string, p planner.Predicate) (map[string]sql.Document, error) {
	out := map[string]sql.Document{}
	ids := []string{}
	if p.Op == ast.OpEq {
		ids = append(ids, p.Value.Str)
	} else {
		for _, v := range p.Value.List {
			ids = append(ids, v.Str)
		}
	}
	for _, id := range ids {
		doc, err := s.GetDocument(ctx, collection, id)
		if err != nil {
			if sql.ErrNotFound.Is(err) {
				continue
			}
			return nil, sql.ErrStore.New(err.Error())
		}
		out[id] = doc
	}
	return out, nil
}
