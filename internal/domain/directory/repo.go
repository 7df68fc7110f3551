package directory

import (
	"context"

	"github.com/carebase/carebase/internal/platform/store"
)

type Repository interface {
	Create(ctx context.Context, p *PatientProfile) error
	GetByID(ctx context.Context, id string) (*PatientProfile, error)
	Update(ctx context.Context, id string, fields store.Document) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]PatientProfile, error)
}
