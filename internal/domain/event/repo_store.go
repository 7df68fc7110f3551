package event

import (
	"context"
	"fmt"

	"github.com/carebase/carebase/internal/domain/registry"
	"github.com/carebase/carebase/internal/platform/store"
)

type storeRepo struct {
	store store.Store
}

func NewStoreRepo(st store.Store) Repository {
	return &storeRepo{store: st}
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*registry.PatientRecord, error) {
	doc, err := r.store.GetByID(ctx, store.CollectionRegisterData, id)
	if err != nil {
		return nil, err
	}
	return registry.FromDocument(doc)
}

func (r *storeRepo) UpdateStatus(ctx context.Context, id string, fields store.Document) error {
	return r.store.Update(ctx, store.CollectionRegisterData, id, fields)
}

func (r *storeRepo) List(ctx context.Context) ([]registry.PatientRecord, error) {
	docs, err := r.store.QueryAll(ctx, store.CollectionRegisterData, "patientname")
	if err != nil {
		return nil, err
	}
	records := make([]registry.PatientRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := registry.FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("list event records: %w", err)
		}
		records = append(records, *rec)
	}
	return records, nil
}
