package registry

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

func (r *storeRepo) Create(ctx context.Context, rec *PatientRecord) error {
	doc, err := rec.ToDocument()
	if err != nil {
		return err
	}
	// The palliative id doubles as the document id, as the legacy app did.
	id, err := r.store.Create(ctx, store.CollectionRegisterData, rec.PalliativeID, doc)
	if err != nil {
		return err
	}
	rec.ID = id
	return nil
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*PatientRecord, error) {
	doc, err := r.store.GetByID(ctx, store.CollectionRegisterData, id)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

func (r *storeRepo) Update(ctx context.Context, id string, fields store.Document) error {
	return r.store.Update(ctx, store.CollectionRegisterData, id, fields)
}

func (r *storeRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.CollectionRegisterData, id)
}

func (r *storeRepo) List(ctx context.Context) ([]PatientRecord, error) {
	docs, err := r.store.QueryAll(ctx, store.CollectionRegisterData, "patientname")
	if err != nil {
		return nil, err
	}
	records := make([]PatientRecord, 0, len(docs))
	for _, doc := range docs {
		rec, err := FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("list registrations: %w", err)
		}
		records = append(records, *rec)
	}
	return records, nil
}
