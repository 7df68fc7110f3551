package event

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebase/carebase/internal/domain/registry"
	"github.com/carebase/carebase/internal/platform/guard"
	"github.com/carebase/carebase/internal/platform/store"
)

var (
	ErrAlreadyCheckedIn = errors.New("patient already checked in")
	ErrNotCheckedIn     = errors.New("patient is not checked in")
	// ErrTransitionPending means a check-in or check-out for the same
	// record is still in flight. Callers should retry once it settles.
	ErrTransitionPending = errors.New("a status change for this record is already in progress")
)

type Service struct {
	repo   Repository
	pin    guard.PIN
	logger zerolog.Logger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

func NewService(repo Repository, pin guard.PIN, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		pin:      pin,
		logger:   logger.With().Str("component", "event").Logger(),
		inFlight: make(map[string]struct{}),
	}
}

// acquire claims the per-record transition slot. Transitions on distinct
// records proceed concurrently; a second transition on the same record is
// rejected rather than queued.
func (s *Service) acquire(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inFlight[id]; busy {
		return ErrTransitionPending
	}
	s.inFlight[id] = struct{}{}
	return nil
}

func (s *Service) release(id string) {
	s.mu.Lock()
	delete(s.inFlight, id)
	s.mu.Unlock()
}

// CheckIn marks a patient as present. Check-in needs no PIN and no
// precondition beyond the patient not being checked in already.
func (s *Service) CheckIn(ctx context.Context, id string) (store.Document, error) {
	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec.EventStatus {
		return nil, ErrAlreadyCheckedIn
	}

	now := time.Now().UTC().Format(time.RFC3339)
	fields := store.Document{
		"eventStatus": true,
		"checkedInAt": now,
		"lastUpdated": now,
	}
	// The store write happens first; the in-memory view is only updated
	// once the write is known to have succeeded.
	if err := s.repo.UpdateStatus(ctx, id, fields); err != nil {
		return nil, err
	}
	s.logger.Info().Str("palliative_id", id).Msg("patient checked in")
	return fields, nil
}

// CheckOut marks a checked-in patient as departed. Unlike check-in it is
// PIN-guarded; a wrong PIN leaves the record untouched.
func (s *Service) CheckOut(ctx context.Context, id, suppliedPIN string) (store.Document, error) {
	if err := s.pin.Verify(suppliedPIN); err != nil {
		return nil, err
	}
	if err := s.acquire(id); err != nil {
		return nil, err
	}
	defer s.release(id)

	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !rec.EventStatus {
		return nil, ErrNotCheckedIn
	}

	now := time.Now().UTC().Format(time.RFC3339)
	fields := store.Document{
		"eventStatus":  false,
		"checkedOutAt": now,
		"lastUpdated":  now,
	}
	if err := s.repo.UpdateStatus(ctx, id, fields); err != nil {
		return nil, err
	}
	s.logger.Info().Str("palliative_id", id).Msg("patient checked out")
	return fields, nil
}

func (s *Service) List(ctx context.Context) ([]registry.PatientRecord, error) {
	return s.repo.List(ctx)
}

// ListCheckedIn returns currently checked-in patients, optionally limited
// to one ward. An empty or "All" ward matches everyone.
func (s *Service) ListCheckedIn(ctx context.Context, ward string) ([]registry.PatientRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]registry.PatientRecord, 0, len(records))
	for _, rec := range records {
		if !rec.EventStatus {
			continue
		}
		if ward != "" && ward != "All" && rec.WardNumber != ward {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

// Wards lists the distinct ward numbers present across all records,
// sorted, for populating the ward filter.
func (s *Service) Wards(ctx context.Context) ([]string, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]struct{})
	wards := make([]string, 0)
	for _, rec := range records {
		if rec.WardNumber == "" {
			continue
		}
		if _, ok := seen[rec.WardNumber]; ok {
			continue
		}
		seen[rec.WardNumber] = struct{}{}
		wards = append(wards, rec.WardNumber)
	}
	sort.Strings(wards)
	return wards, nil
}

// Reconcile applies the written status fields to an in-memory snapshot,
// returning a new slice. It never re-reads the store: the snapshot is
// patched with exactly what was written.
func Reconcile(snapshot []registry.PatientRecord, id string, fields store.Document) []registry.PatientRecord {
	out := make([]registry.PatientRecord, len(snapshot))
	copy(out, snapshot)
	for i := range out {
		if out[i].PalliativeID != id {
			continue
		}
		if v, ok := fields["eventStatus"].(bool); ok {
			out[i].EventStatus = v
		}
		if v, ok := fields["checkedInAt"].(string); ok {
			out[i].CheckedInAt = v
		}
		if v, ok := fields["checkedOutAt"].(string); ok {
			out[i].CheckedOutAt = v
		}
		if v, ok := fields["lastUpdated"].(string); ok {
			out[i].LastUpdated = v
		}
	}
	return out
}
