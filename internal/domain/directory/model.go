package directory

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/carebase/carebase/internal/platform/store"
)

// PatientProfile is one entry in the long-term patient directory. Field
// names track the legacy dataset.
type PatientProfile struct {
	ID                  string `json:"id,omitempty"`
	PatientID           string `json:"patientId,omitempty"`
	RegisterNumber      string `json:"registernumber"`
	Name                string `json:"name"`
	Age                 string `json:"age,omitempty"`
	Gender              string `json:"gender,omitempty"`
	DOB                 string `json:"dob,omitempty"`
	Category            string `json:"category,omitempty"`
	Address             string `json:"address"`
	Location            string `json:"location,omitempty"`
	Ward                string `json:"ward,omitempty"`
	Panchayat           string `json:"panchayat,omitempty"`
	Email               string `json:"email,omitempty"`
	MainDiagnosis       string `json:"mainDiagnosis"`
	MedicalHistory      string `json:"medicalHistory,omitempty"`
	CurrentDifficulties string `json:"currentDifficulties,omitempty"`
	MainCaretaker       string `json:"mainCaretaker,omitempty"`
	MainCaretakerPhone  string `json:"mainCaretakerPhone,omitempty"`
	NeighbourName       string `json:"neighbourName,omitempty"`
	NeighbourPhone      string `json:"neighbourPhone,omitempty"`
	RelativeName        string `json:"relativeName,omitempty"`
	RelativePhone       string `json:"relativePhone,omitempty"`
	ReferralPerson      string `json:"referralPerson,omitempty"`
	ReferralPhone       string `json:"referralPhone,omitempty"`
	CommunityVolunteer  string `json:"communityVolunteer,omitempty"`
	WardMember          string `json:"wardMember,omitempty"`
	AshaWorker          string `json:"ashaWorker,omitempty"`
	Deactivated         bool   `json:"deactivated,omitempty"`
}

// Status resolves the display status from the deactivated flag.
func (p *PatientProfile) Status() string {
	if p.Deactivated {
		return "Inactive"
	}
	return "Active"
}

// Diagnoses splits the comma-joined mainDiagnosis field into trimmed,
// non-empty diagnosis names.
func (p *PatientProfile) Diagnoses() []string {
	parts := strings.Split(p.MainDiagnosis, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if d := strings.TrimSpace(part); d != "" {
			out = append(out, d)
		}
	}
	return out
}

// HasDiagnosis reports whether one of the comma-separated diagnoses
// matches exactly.
func (p *PatientProfile) HasDiagnosis(diagnosis string) bool {
	for _, d := range p.Diagnoses() {
		if d == diagnosis {
			return true
		}
	}
	return false
}

func FromDocument(doc store.Document) (*PatientProfile, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var p PatientProfile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("decode patient profile %s: %w", doc.ID(), err)
	}
	if p.ID == "" {
		p.ID = doc.ID()
	}
	return &p, nil
}

func (p *PatientProfile) ToDocument() (store.Document, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encode patient profile %s: %w", p.ID, err)
	}
	doc := store.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode patient profile %s: %w", p.ID, err)
	}
	return doc, nil
}
