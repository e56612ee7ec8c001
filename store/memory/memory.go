// Package memory implements store.Store over plain in-process maps. It
// exists for tests and as the simplest concrete example of the store
// contract; production deployments plug in a real document-store client.
package memory

import (
	"sync"

	uuid "github.com/satori/go.uuid"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

// Store is a concurrency-safe, in-memory document store.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]sql.Document
}

// New creates an empty Store.
func New() *Store {
	return &Store{collections: map[string]map[string]sql.Document{}}
}

// Seed installs documents into a collection directly, for test setup.
func (s *Store) Seed(collection string, docs map[string]sql.Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = map[string]sql.Document{}
	}
	for id, doc := range docs {
		s.collections[collection][id] = doc
	}
}

func (s *Store) GetCollectionDocuments(ctx *sql.Context, collection string) (map[string]sql.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneCollection(s.collections[collection]), nil
}

func (s *Store) QueryByTuples(ctx *sql.Context, collection string, predicates []planner.Predicate) (map[string]sql.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := map[string]sql.Document{}
	for id, doc := range s.collections[collection] {
		if matchesAll(doc, predicates) {
			out[id] = doc.Clone()
		}
	}
	return out, nil
}

func (s *Store) GetDocument(ctx *sql.Context, collection, docID string) (sql.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][docID]
	if !ok {
		return nil, sql.ErrNotFound.New(docID)
	}
	return doc.Clone(), nil
}

func (s *Store) GenerateDocumentID(ctx *sql.Context, collection string) (string, error) {
	return uuid.NewV4().String(), nil
}

func (s *Store) SetDocument(ctx *sql.Context, collection, docID string, doc sql.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = map[string]sql.Document{}
	}
	s.collections[collection][docID] = doc.Clone()
	return nil
}

func (s *Store) UpdateDocument(ctx *sql.Context, collection, docID string, partial sql.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.collections[collection][docID]
	if existing == nil {
		existing = sql.Document{}
	}
	merged := existing.Clone()
	for k, v := range partial {
		merged[k] = v
	}
	if s.collections[collection] == nil {
		s.collections[collection] = map[string]sql.Document{}
	}
	s.collections[collection][docID] = merged
	return nil
}

func (s *Store) DeleteDocument(ctx *sql.Context, collection, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.collections[collection], docID)
	return nil
}

func cloneCollection(in map[string]sql.Document) map[string]sql.Document {
	out := make(map[string]sql.Document, len(in))
	for id, doc := range in {
		out[id] = doc.Clone()
	}
	return out
}

// matchesAll evaluates the pushdown predicate set natively, the behavior
// QueryByTuples must provide.
func matchesAll(doc sql.Document, predicates []planner.Predicate) bool {
	for _, p := range predicates {
		if !matches(doc, p) {
			return false
		}
	}
	return true
}

func matches(doc sql.Document, p planner.Predicate) bool {
	actual := doc.GetValue(p.Field)
	switch p.Op {
	case ast.OpEq:
		return actual.Equal(p.Value)
	case ast.OpNeq:
		return !actual.Equal(p.Value)
	case ast.OpGt, ast.OpLt, ast.OpGte, ast.OpLte:
		return compare(actual, p.Value, p.Op)
	case ast.OpIn:
		for _, v := range p.Value.List {
			if actual.Equal(v) {
				return true
			}
		}
		return false
	case ast.OpNotIn:
		for _, v := range p.Value.List {
			if actual.Equal(v) {
				return false
			}
		}
		return true
	case ast.OpArrayContains:
		if actual.Kind != sql.KindList {
			return false
		}
		for _, v := range actual.List {
			if v.Equal(p.Value) {
				return true
			}
		}
		return false
	case ast.OpArrayContainsAny:
		if actual.Kind != sql.KindList {
			return false
		}
		for _, v := range actual.List {
			for _, want := range p.Value.List {
				if v.Equal(want) {
					return true
				}
			}
		}
		return false
	default:
		return false
	}
}

func compare(a, b sql.Value, op ast.BinaryOp) bool {
	an, aok := sql.NumberOf(a)
	bn, bok := sql.NumberOf(b)
	if aok && bok {
		switch op {
		case ast.OpGt:
			return an > bn
		case ast.OpLt:
			return an < bn
		case ast.OpGte:
			return an >= bn
		case ast.OpLte:
			return an <= bn
		}
	}
	if a.Kind == sql.KindTimestamp && b.Kind == sql.KindTimestamp {
		switch op {
		case ast.OpGt:
			return a.Time.After(b.Time)
		case ast.OpLt:
			return a.Time.Before(b.Time)
		case ast.OpGte:
			return !a.Time.Before(b.Time)
		case ast.OpLte:
			return !a.Time.After(b.Time)
		}
	}
	switch op {
	case ast.OpGt:
		return a.Str > b.Str
	case ast.OpLt:
		return a.Str < b.Str
	case ast.OpGte:
		return a.Str >= b.Str
	case ast.OpLte:
		return a.Str <= b.Str
	}
	return false
}
