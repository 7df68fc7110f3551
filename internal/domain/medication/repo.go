package medication

import "context"

type Repository interface {
	// GetByPatient returns the patient's ledger document, or
	// store.ErrNotFound when none exists yet.
	GetByPatient(ctx context.Context, patientID string) (*MedicationDocument, error)
	// Save writes the whole document; first write creates it.
	Save(ctx context.Context, m *MedicationDocument) error
	// Vocabulary lists the known medicine names.
	Vocabulary(ctx context.Context) ([]string, error)
	// AddVocabulary appends a medicine name to the shared reference
	// list. No deduplication at the store level.
	AddVocabulary(ctx context.Context, name string) error
}
