package medication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/carebase/carebase/internal/platform/store"
)

var (
	// ErrConfirmationRequired means a destructive ledger change was
	// attempted without the caller confirming it.
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrEntryNotFound        = errors.New("medication entry not found")
	// ErrInvalidEntry wraps every entry validation failure.
	ErrInvalidEntry = errors.New("invalid medication entry")
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "medication").Logger()}
}

func validateEntry(e *Entry) error {
	if e.MedicineName == "" {
		return fmt.Errorf("%w: medicineName is required", ErrInvalidEntry)
	}
	if e.Quantity == "" {
		return fmt.Errorf("%w: quantity is required", ErrInvalidEntry)
	}
	if !ValidTimeSlot(e.Time) {
		return fmt.Errorf("%w: unknown time slot %q", ErrInvalidEntry, e.Time)
	}
	if e.Status == "" {
		e.Status = StatusActive
	}
	if e.Status != StatusActive && e.Status != StatusStopped {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidEntry, e.Status)
	}
	return nil
}

// ledger loads the patient's document, creating an empty one in memory
// when the patient has no ledger yet.
func (s *Service) ledger(ctx context.Context, patientID string) (*MedicationDocument, error) {
	doc, err := s.repo.GetByPatient(ctx, patientID)
	if errors.Is(err, store.ErrNotFound) {
		return &MedicationDocument{PatientID: patientID, Medicines: []Entry{}}, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *Service) save(ctx context.Context, doc *MedicationDocument) error {
	doc.SubmittedAt = time.Now().UTC().Format(time.RFC3339)
	return s.repo.Save(ctx, doc)
}

// Get returns a patient's ledger. A patient with no ledger yet gets an
// empty document rather than a not-found error: the list screen always
// renders.
func (s *Service) Get(ctx context.Context, patientID string) (*MedicationDocument, error) {
	return s.ledger(ctx, patientID)
}

// AddOrUpdate validates the entry and rewrites the whole list. A nil
// editingIndex appends; otherwise the entry at that index is replaced in
// place. Validation failures happen before any store access.
func (s *Service) AddOrUpdate(ctx context.Context, patientID string, entry Entry, editingIndex *int, details PatientDetails) (*MedicationDocument, error) {
	if err := validateEntry(&entry); err != nil {
		return nil, err
	}

	doc, err := s.ledger(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if details != (PatientDetails{}) {
		doc.PatientDetails = details
	}

	isNewName := !s.knownName(ctx, doc, entry.MedicineName)

	if editingIndex == nil {
		doc.Medicines = append(doc.Medicines, entry)
	} else {
		i := *editingIndex
		if i < 0 || i >= len(doc.Medicines) {
			return nil, ErrEntryNotFound
		}
		doc.Medicines[i] = entry
	}

	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}

	// Vocabulary write-through is advisory. Failure never fails the
	// ledger write, and a racing duplicate entry is acceptable.
	if isNewName {
		if err := s.repo.AddVocabulary(ctx, entry.MedicineName); err != nil {
			s.logger.Warn().Err(err).Str("medicine", entry.MedicineName).
				Msg("vocabulary write-through failed")
		}
	}
	return doc, nil
}

func (s *Service) knownName(ctx context.Context, doc *MedicationDocument, name string) bool {
	names, err := s.repo.Vocabulary(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("vocabulary lookup failed")
		return true // skip the write-through rather than risk a duplicate storm
	}
	for _, n := range names {
		if n == name {
			return true
		}
	}
	for _, e := range doc.Medicines {
		if e.MedicineName == name {
			return true
		}
	}
	return false
}

// ToggleStatus flips one entry between active and stopped. The caller
// must confirm; other entries are untouched.
func (s *Service) ToggleStatus(ctx context.Context, patientID string, index int, confirmed bool) (*MedicationDocument, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	doc, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(doc.Medicines) {
		return nil, ErrEntryNotFound
	}
	if doc.Medicines[index].Status == StatusActive {
		doc.Medicines[index].Status = StatusStopped
	} else {
		doc.Medicines[index].Status = StatusActive
	}
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Delete removes one entry from the list. Confirmed, terminal.
func (s *Service) Delete(ctx context.Context, patientID string, index int, confirmed bool) (*MedicationDocument, error) {
	if !confirmed {
		return nil, ErrConfirmationRequired
	}
	doc, err := s.repo.GetByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(doc.Medicines) {
		return nil, ErrEntryNotFound
	}
	doc.Medicines = append(doc.Medicines[:index], doc.Medicines[index+1:]...)
	if err := s.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// Vocabulary exposes the shared medicine-name reference list.
func (s *Service) Vocabulary(ctx context.Context) ([]string, error) {
	return s.repo.Vocabulary(ctx)
}
