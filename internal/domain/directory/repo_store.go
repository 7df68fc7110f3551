package directory

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

func (r *storeRepo) Create(ctx context.Context, p *PatientProfile) error {
	doc, err := p.ToDocument()
	if err != nil {
		return err
	}
	id, err := r.store.Create(ctx, store.CollectionPatients, p.ID, doc)
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

func (r *storeRepo) GetByID(ctx context.Context, id string) (*PatientProfile, error) {
	doc, err := r.store.GetByID(ctx, store.CollectionPatients, id)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

func (r *storeRepo) Update(ctx context.Context, id string, fields store.Document) error {
	return r.store.Update(ctx, store.CollectionPatients, id, fields)
}

func (r *storeRepo) Delete(ctx context.Context, id string) error {
	return r.store.Delete(ctx, store.CollectionPatients, id)
}

func (r *storeRepo) List(ctx context.Context) ([]PatientProfile, error) {
	docs, err := r.store.QueryAll(ctx, store.CollectionPatients, "name")
	if err != nil {
		return nil, err
	}
	profiles := make([]PatientProfile, 0, len(docs))
	for _, doc := range docs {
		p, err := FromDocument(doc)
		if err != nil {
			return nil, fmt.Errorf("list patient profiles: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, nil
}
