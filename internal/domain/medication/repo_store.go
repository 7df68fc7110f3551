package medication

import (
	"context"
	"fmt"

	"github.com/carebase/carebase/internal/platform/store"
)

type storeRepo struct {
	store store.Store
}

func NewStoreRepo(st store.Store) Repository {
	return &storeRepo{store: st}
}

func (r *storeRepo) GetByPatient(ctx context.Context, patientID string) (*MedicationDocument, error) {
	docs, err := r.store.QueryWhere(ctx, store.CollectionMedicines, "patientId", patientID)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, store.ErrNotFound
	}
	return FromDocument(docs[0])
}

func (r *storeRepo) Save(ctx context.Context, m *MedicationDocument) error {
	doc, err := m.ToDocument()
	if err != nil {
		return err
	}
	id, err := r.store.Create(ctx, store.CollectionMedicines, m.ID, doc)
	if err != nil {
		return err
	}
	m.ID = id
	return nil
}

func (r *storeRepo) Vocabulary(ctx context.Context) ([]string, error) {
	docs, err := r.store.QueryAll(ctx, store.CollectionMedibase, "name")
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(docs))
	for _, doc := range docs {
		if name := doc.String("name"); name != "" {
			names = append(names, name)
		}
	}
	return names, nil
}

func (r *storeRepo) AddVocabulary(ctx context.Context, name string) error {
	_, err := r.store.Create(ctx, store.CollectionMedibase, "", store.Document{"name": name})
	if err != nil {
		return fmt.Errorf("add vocabulary entry: %w", err)
	}
	return nil
}
