package registry

import (
	"encoding/json"
	"fmt"

	"github.com/carebase/carebase/internal/platform/store"
)

// JSON field names match the legacy dataset exactly, misspellings included
// ("rigisterno"), so existing exports load without a migration.

// Contact is a named phone contact nested inside a patient record.
type Contact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Bystander is the accompanying person with up to two phone numbers.
type Bystander struct {
	Name   string `json:"name"`
	Phone1 string `json:"phone1"`
	Phone2 string `json:"phone2"`
}

// PeopleCount tallies who arrives with the patient.
type PeopleCount struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

// PatientRecord is one event registration.
//
// EventStatus is a derived convenience flag; CheckedInAt/CheckedOutAt are
// the audit trail. A record may be checked in and out many times; each
// transition overwrites its own timestamp field (last transition wins) and
// neither field is ever cleared.
type PatientRecord struct {
	ID                string      `json:"id,omitempty"`
	PalliativeID      string      `json:"palliativeId"`
	PatientName       string      `json:"patientname"`
	RegisterNo        string      `json:"rigisterno"`
	Address           string      `json:"address"`
	Place             string      `json:"place"`
	Panchayat         string      `json:"panchayat"`
	WardNumber        string      `json:"wardNumber"`
	EquipmentRequired string      `json:"equipmentRequired"`
	Food              string      `json:"food"`
	Medicine          string      `json:"medicine"`
	Vehicle           string      `json:"vehicle"`
	LeavingTime       string      `json:"leavingTime"`
	Remarks           string      `json:"remarks"`
	PeopleWithYou     PeopleCount `json:"peopleWithYou"`
	Bystander         Bystander   `json:"bystander"`
	WardCoordinator   Contact     `json:"wardCoordinator"`
	PatientVolunteer  Contact     `json:"patientVolunteer"`
	InchargeVolunteer Contact     `json:"inchargeVolunteer"`

	EventStatus  bool   `json:"eventStatus"`
	CheckedInAt  string `json:"checkedInAt,omitempty"`
	CheckedOutAt string `json:"checkedOutAt,omitempty"`
	LastUpdated  string `json:"lastUpdated,omitempty"`
}

// FromDocument decodes a store document into a PatientRecord.
func FromDocument(doc store.Document) (*PatientRecord, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var rec PatientRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode patient record %s: %w", doc.ID(), err)
	}
	if rec.ID == "" {
		rec.ID = doc.ID()
	}
	return &rec, nil
}

// ToDocument encodes the record as a store document.
func (r *PatientRecord) ToDocument() (store.Document, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode patient record %s: %w", r.ID, err)
	}
	doc := store.Document{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode patient record %s: %w", r.ID, err)
	}
	return doc, nil
}
