package registry

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/carebase/carebase/internal/platform/guard"
)

type Service struct {
	repo Repository
	pin  guard.PIN
}

func NewService(repo Repository, pin guard.PIN) *Service {
	return &Service{repo: repo, pin: pin}
}

// NewPalliativeID produces a fresh patient identifier: a fixed prefix plus
// a 6-digit random integer. No uniqueness check is made against existing
// identifiers; a collision overwrites the older record. Known gap carried
// over from the original design.
func NewPalliativeID() string {
	return fmt.Sprintf("PTV%d", 100000+rand.Intn(900000))
}

func (s *Service) Register(ctx context.Context, rec *PatientRecord) error {
	if rec.PatientName == "" {
		return fmt.Errorf("patientname is required")
	}
	if rec.PalliativeID == "" {
		rec.PalliativeID = NewPalliativeID()
	}
	// Registration form defaults carried over from the original intake.
	if rec.Panchayat == "" {
		rec.Panchayat = "MAKKARAPARAMBA"
	}
	if rec.Medicine == "" {
		rec.Medicine = "NO"
	}
	if rec.LeavingTime == "" {
		rec.LeavingTime = "22:00"
	}
	if rec.Remarks == "" {
		rec.Remarks = "NO REMARK"
	}
	rec.EventStatus = false
	return s.repo.Create(ctx, rec)
}

func (s *Service) Get(ctx context.Context, id string) (*PatientRecord, error) {
	return s.repo.GetByID(ctx, id)
}

// Update rewrites the demographic fields of a registration. The event
// status fields are owned by the event workflow and are never touched here,
// whatever the caller sends.
func (s *Service) Update(ctx context.Context, id string, rec *PatientRecord) error {
	if rec.PatientName == "" {
		return fmt.Errorf("patientname is required")
	}
	fields, err := rec.ToDocument()
	if err != nil {
		return err
	}
	for _, owned := range []string{"id", "eventStatus", "checkedInAt", "checkedOutAt", "lastUpdated"} {
		delete(fields, owned)
	}
	return s.repo.Update(ctx, id, fields)
}

// Delete permanently removes a registration. It is PIN-guarded and
// terminal: there is no undo.
func (s *Service) Delete(ctx context.Context, id, suppliedPIN string) error {
	if err := s.pin.Verify(suppliedPIN); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]PatientRecord, error) {
	return s.repo.List(ctx)
}
