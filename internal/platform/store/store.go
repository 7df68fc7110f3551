package store

import (
	"context"
	"errors"
)

// Collection names used by the domain packages. They match the legacy
// dataset so an export of the original deployment loads unchanged.
const (
	CollectionRegisterData = "RegisterData"
	CollectionPatients     = "Patients"
	CollectionMedicines    = "Medicines"
	CollectionMedibase     = "medibase"
	CollectionUsers        = "users"
	CollectionLoginData    = "logindata"
)

// ErrNotFound is returned when a document id does not exist in a collection.
var ErrNotFound = errors.New("document not found")

// Document is one stored record. The "id" key is reserved: implementations
// populate it on reads and ignore it inside the stored payload.
type Document map[string]interface{}

// ID returns the document id, or "" when unset.
func (d Document) ID() string {
	id, _ := d["id"].(string)
	return id
}

// String returns the named field as a string, or "" when absent or not a
// string.
func (d Document) String(field string) string {
	s, _ := d[field].(string)
	return s
}

// Bool returns the named field as a bool, or false when absent.
func (d Document) Bool(field string) bool {
	b, _ := d[field].(bool)
	return b
}

// Store is a document-oriented record store addressed by collection and id.
// Writes are atomic per document; there are no multi-document transactions.
type Store interface {
	// GetByID returns the document with the given id, or ErrNotFound.
	GetByID(ctx context.Context, collection, id string) (Document, error)

	// QueryAll returns every document in the collection. When orderKey is
	// non-empty, results are ordered ascending by that field.
	QueryAll(ctx context.Context, collection, orderKey string) ([]Document, error)

	// QueryWhere returns the documents whose field equals value.
	QueryWhere(ctx context.Context, collection, field string, value interface{}) ([]Document, error)

	// Create stores a new document. An empty id asks the store to assign
	// one; the assigned id is returned either way. Creating with an id
	// that already exists replaces the document, mirroring the upsert
	// semantics of the legacy store.
	Create(ctx context.Context, collection, id string, data Document) (string, error)

	// Update shallow-merges partial into the existing document. Returns
	// ErrNotFound when the id does not exist.
	Update(ctx context.Context, collection, id string, partial Document) error

	// Delete removes the document. Returns ErrNotFound when absent.
	Delete(ctx context.Context, collection, id string) error
}
