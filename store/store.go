// Package store defines the narrow interface the core consumes from the
// external document store. Connection, authentication, credential loading
// and the raw wire protocol are the store's concern, not the core's.
package store

import (
	"github.com/documentql/docql/planner"
	"github.com/documentql/docql/sql"
)

// Store is the external document-store collaborator. Implementations must
// be safe for sequential reuse across statements.
type Store interface {
	// GetCollectionDocuments returns every document in a collection.
	GetCollectionDocuments(ctx *sql.Context, collection string) (map[string]sql.Document, error)
	// QueryByTuples evaluates predicates natively and returns matches.
	// Operators must include ==, !=, <, <=, >, >=, in, not_in,
	// array_contains, array_contains_any.
	QueryByTuples(ctx *sql.Context, collection string, predicates []planner.Predicate) (map[string]sql.Document, error)
	// GetDocument fetches a single document by id.
	GetDocument(ctx *sql.Context, collection, docID string) (sql.Document, error)
	// GenerateDocumentID allocates a fresh id for an insert.
	GenerateDocumentID(ctx *sql.Context, collection string) (string, error)
	// SetDocument writes doc as the full body of docID.
	SetDocument(ctx *sql.Context, collection, docID string, doc sql.Document) error
	// UpdateDocument merges partial into the existing document (merge
	// semantics: unspecified fields are preserved by the store).
	UpdateDocument(ctx *sql.Context, collection, docID string, partial sql.Document) error
	// DeleteDocument removes a document by id.
	DeleteDocument(ctx *sql.Context, collection, docID string) error
}
