package event

import (
	"context"

	"github.com/carebase/carebase/internal/domain/registry"
	"github.com/carebase/carebase/internal/platform/store"
)

type Repository interface {
	GetByID(ctx context.Context, id string) (*registry.PatientRecord, error)
	// UpdateStatus merges only the status fields into the stored record.
	UpdateStatus(ctx context.Context, id string, fields store.Document) error
	List(ctx context.Context) ([]registry.PatientRecord, error)
}
