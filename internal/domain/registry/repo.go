package registry

import (
	"context"

	"github.com/carebase/carebase/internal/platform/store"
)

type Repository interface {
	Create(ctx context.Context, rec *PatientRecord) error
	GetByID(ctx context.Context, id string) (*PatientRecord, error)
	// Update shallow-merges the given fields into the stored document.
	Update(ctx context.Context, id string, fields store.Document) error
	Delete(ctx context.Context, id string) error
	// List returns all registrations ordered by patient name.
	List(ctx context.Context) ([]PatientRecord, error)
}
