package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Memory is an in-process Store used by tests and local development runs.
type Memory struct {
	mu          sync.RWMutex
	collections map[string]map[string]Document
}

func NewMemory() *Memory {
	return &Memory{collections: make(map[string]map[string]Document)}
}

func (s *Memory) GetByID(_ context.Context, collection, id string) (Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneDocument(id, doc), nil
}

func (s *Memory) QueryAll(_ context.Context, collection, orderKey string) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for id, doc := range s.collections[collection] {
		docs = append(docs, cloneDocument(id, doc))
	}
	if orderKey != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			return docs[i].String(orderKey) < docs[j].String(orderKey)
		})
	} else {
		// Deterministic order for tests.
		sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID() < docs[j].ID() })
	}
	return docs, nil
}

func (s *Memory) QueryWhere(_ context.Context, collection, field string, value interface{}) ([]Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var docs []Document
	for id, doc := range s.collections[collection] {
		if equalValues(doc[field], value) {
			docs = append(docs, cloneDocument(id, doc))
		}
	}
	sort.SliceStable(docs, func(i, j int) bool { return docs[i].ID() < docs[j].ID() })
	return docs, nil
}

func (s *Memory) Create(_ context.Context, collection, id string, data Document) (string, error) {
	if id == "" {
		id = uuid.New().String()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.collections[collection] == nil {
		s.collections[collection] = make(map[string]Document)
	}
	s.collections[collection][id] = cloneDocument("", data)
	return id, nil
}

func (s *Memory) Update(_ context.Context, collection, id string, partial Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.collections[collection][id]
	if !ok {
		return ErrNotFound
	}
	for k, v := range partial {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	return nil
}

func (s *Memory) Delete(_ context.Context, collection, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.collections[collection][id]; !ok {
		return ErrNotFound
	}
	delete(s.collections[collection], id)
	return nil
}

func cloneDocument(id string, doc Document) Document {
	clone := make(Document, len(doc)+1)
	for k, v := range doc {
		if k == "id" {
			continue
		}
		clone[k] = v
	}
	if id != "" {
		clone["id"] = id
	}
	return clone
}

// equalValues compares field values the way the JSONB containment operator
// would: by encoded representation rather than Go type identity.
func equalValues(a, b interface{}) bool {
	if a == nil || b == nil {
		return a == b
	}
	ra, err := json.Marshal(a)
	if err != nil {
		return false
	}
	rb, err := json.Marshal(b)
	if err != nil {
		return false
	}
	return string(ra) == string(rb)
}

// Seed inserts documents for tests; ids must be present under the "id" key.
func (s *Memory) Seed(collection string, docs ...Document) error {
	for _, doc := range docs {
		id := doc.ID()
		if id == "" {
			return fmt.Errorf("seed document in %s has no id", collection)
		}
		if _, err := s.Create(context.Background(), collection, id, doc); err != nil {
			return err
		}
	}
	return nil
}
