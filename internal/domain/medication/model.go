package medication

import (
	"encoding/json"
	"fmt"

	"github.com/carebase/carebase/internal/platform/store"
)

const (
	StatusActive  = "active"
	StatusStopped = "stopped"
)

// TimeSlots are the valid dosing schedules, as fixed choices rather than
// free text.
var TimeSlots = []string{
	"Morning",
	"Noon",
	"Night",
	"Morning-Noon",
	"Morning-Night",
	"Noon-Night",
	"Morning-Noon-Night",
	"SOS",
}

func ValidTimeSlot(slot string) bool {
	for _, s := range TimeSlots {
		if s == slot {
			return true
		}
	}
	return false
}

// Entry is one medicine on a patient's list. Entries have no identity of
// their own; they live and die with the parent document's array.
type Entry struct {
	MedicineName string `json:"medicineName"`
	Quantity     string `json:"quantity"`
	Time         string `json:"time"`
	PatientsNow  bool   `json:"patientsNow"`
	Status       string `json:"status"`
}

// PatientDetails is the denormalized snapshot stored alongside the list
// so the ledger is readable without a directory lookup.
type PatientDetails struct {
	Name           string `json:"name,omitempty"`
	RegisterNumber string `json:"registernumber,omitempty"`
	Address        string `json:"address,omitempty"`
}

// MedicationDocument is the single per-patient ledger document. All
// writes replace the medicines array wholesale.
type MedicationDocument struct {
	ID             string         `json:"id,omitempty"`
	PatientID      string         `json:"patientId"`
	PatientDetails PatientDetails `json:"patientDetails"`
	Medicines      []Entry        `json:"medicines"`
	SubmittedAt    string         `json:"submittedAt,omitempty"`
}

func FromDocument(doc store.Document) (*MedicationDocument, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var m MedicationDocument
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("decode medication document %s: %w", doc.ID(), err)
	}
	if m.ID == "" {
		m.ID = doc.ID()
	}
	return &m, nil
}

func (m *MedicationDocument) ToDocument() (store.Document, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("encode medication document %s: %w", m.ID, err)
	}
	doc := store.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode medication document %s: %w", m.ID, err)
	}
	return doc, nil
}
