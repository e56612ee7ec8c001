// Package boltstore implements store.Store on top of a local bolt
// database, giving the core a persistent backend to run against in
// addition to the in-memory one in store/memory. bolt has no native
// secondary index, so QueryByTuples falls back to a full bucket scan plus
// this package's own predicate-match helper (matchesAll) — the store
// adapter still owns the decision of how to evaluate the predicates it is
// handed, the core never assumes it pushed anything down successfully
// versus scanned.
package boltstore

import (
	"encoding/json"

	"github.com/boltdb/bolt"
	uuid "github.com/satori/go.uuid"

	"github.com/documentql/docql/ast"
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

// Store wraps a *bolt.DB; every collection is a top-level bucket, every
// document is a JSON-encoded value keyed by its document id.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if necessary) a bolt database file as a Store.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, sql.ErrStore.New(err.Error())
	}
	return &Store{db: db}, nil
}

// Close releases the underlying bolt database.
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) GetCollectionDocuments(ctx *sql.Context, collection string) (map[string]sql.Document, error) {
	out := map[string]sql.Document{}
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			doc, err := decode(v)
			if err != nil {
				return err
			}
			out[string(k)] = doc
			return nil
		})
	})
	if err != nil {
		return nil, sql.ErrStore.New(err.Error())
	}
	return out, nil
}

func (s *Store) QueryByTuples(ctx *sql.Context, collection string, predicates []planner.Predicate) (map[string]sql.Document, error) {
	all, err := s.GetCollectionDocuments(ctx, collection)
	if err != nil {
		return nil, err
	}
	out := map[string]sql.Document{}
	for id, doc := range all {
		if matchesAll(doc, predicates) {
			out[id] = doc
		}
	}
	return out, nil
}

func (s *Store) GetDocument(ctx *sql.Context, collection, docID string) (sql.Document, error) {
	var doc sql.Document
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return sql.ErrNotFound.New(docID)
		}
		v := b.Get([]byte(docID))
		if v == nil {
			return sql.ErrNotFound.New(docID)
		}
		d, err := decode(v)
		doc = d
		return err
	})
	return doc, err
}

func (s *Store) GenerateDocumentID(ctx *sql.Context, collection string) (string, error) {
	return uuid.NewV4().String(), nil
}

func (s *Store) SetDocument(ctx *sql.Context, collection, docID string, doc sql.Document) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		data, err := json.Marshal(doc)
		if err != nil {
			return err
		}
		return b.Put([]byte(docID), data)
	})
}

func (s *Store) UpdateDocument(ctx *sql.Context, collection, docID string, partial sql.Document) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(collection))
		if err != nil {
			return err
		}
		existing := sql.Document{}
		if v := b.Get([]byte(docID)); v != nil {
			existing, err = decode(v)
			if err != nil {
				return err
			}
		}
		merged := existing.Clone()
		for k, v := range partial {
			merged[k] = v
		}
		data, err := json.Marshal(merged)
		if err != nil {
			return err
		}
		return b.Put([]byte(docID), data)
	})
}

func (s *Store) DeleteDocument(ctx *sql.Context, collection, docID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(collection))
		if b == nil {
			return nil
		}
		return b.Delete([]byte(docID))
	})
}

func decode(v []byte) (sql.Document, error) {
	var doc sql.Document
	if err := json.Unmarshal(v, &doc); err != nil {
		return nil, sql.ErrStore.New(err.Error())
	}
	return doc, nil
}

// matchesAll follows store/memory's predicate evaluation, except that
// <, <=, >, >= compare numeric values only: a timestamp or other
// non-numeric operand never matches them. bolt has no
// native query operators to delegate to, so every predicate is residual
// from bolt's point of view even though the core still treats it as a
// pushdown predicate it handed to QueryByTuples.
func matchesAll(doc sql.Document, predicates []planner.Predicate) bool {
	for _, p := range predicates {
		if !matchOne(doc, p) {
			return false
		}
	}
	return true
}

func matchOne(doc sql.Document, p planner.Predicate) bool {
	actual := doc.GetValue(p.Field)
	switch p.Op {
	case ast.OpEq:
		return actual.Equal(p.Value)
	case ast.OpNeq:
		return !actual.Equal(p.Value)
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
		for _, v := range actual.List {
			if v.Equal(p.Value) {
				return true
			}
		}
		return false
	case ast.OpArrayContainsAny:
		for _, v := range actual.List {
			for _, want := range p.Value.List {
				if v.Equal(want) {
					return true
				}
			}
		}
		return false
	case ast.OpGt, ast.OpLt, ast.OpGte, ast.OpLte:
		an, aok := sql.NumberOf(actual)
		bn, bok := sql.NumberOf(p.Value)
		if !aok || !bok {
			return false
		}
		switch p.Op {
		case ast.OpGt:
			return an > bn
		case ast.OpLt:
			return an < bn
		case ast.OpGte:
			return an >= bn
		default:
			return an <= bn
		}
	default:
		return false
	}
}
