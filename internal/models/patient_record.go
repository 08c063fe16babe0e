package models

import (
	"time"

	"github.com/google/uuid"
)

type PatientRecord struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	HubID        uuid.UUID  `json:"hub_id" db:"hub_id"`
	PatientName  string     `json:"patient_name" db:"patient_name"`
	DateOfBirth  *time.Time `json:"date_of_birth" db:"date_of_birth"`
	Gender       string     `json:"gender" db:"gender"`
	BloodType    string     `json:"blood_type" db:"blood_type"`
	Allergies    string     `json:"allergies" db:"allergies"`
	MedicalNotes string     `json:"medical_notes" db:"medical_notes"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	IsDeleted    bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt    *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NewPatientRecord returns a record with the column defaults applied.
func NewPatientRecord(hubID uuid.UUID) *PatientRecord {
	return &PatientRecord{HubID: hubID, IsActive: true}
}

// PatientRecordSchema is the single field declaration used for form binding,
// sorting, searching and export of patient records.
var PatientRecordSchema = &Schema[PatientRecord]{
	Table:       "patient_records_patientrecord",
	DefaultSort: "is_active",
	Fields: []Field[PatientRecord]{
		{
			Name: "is_active", Label: "Is Active", Kind: KindBool,
			Editable: true, Sortable: true, Exported: true,
			Get: func(p *PatientRecord) any { return p.IsActive },
			Set: func(p *PatientRecord, v any) { p.IsActive = v.(bool) },
		},
		{
			Name: "patient_name", Label: "Patient Name", Kind: KindText,
			Required: true, MaxLength: 255, Editable: true, Searchable: true, Sortable: true, Exported: true,
			Get: func(p *PatientRecord) any { return p.PatientName },
			Set: func(p *PatientRecord, v any) { p.PatientName = v.(string) },
		},
		{
			Name: "date_of_birth", Label: "Date Of Birth", Kind: KindDate,
			Editable: true, Sortable: true, Exported: true,
			Get: func(p *PatientRecord) any { return p.DateOfBirth },
			Set: func(p *PatientRecord, v any) { p.DateOfBirth = v.(*time.Time) },
		},
		{
			Name: "gender", Label: "Gender", Kind: KindText,
			MaxLength: 20, Editable: true, Searchable: true, Sortable: true, Exported: true,
			Get: func(p *PatientRecord) any { return p.Gender },
			Set: func(p *PatientRecord, v any) { p.Gender = v.(string) },
		},
		{
			Name: "blood_type", Label: "Blood Type", Kind: KindText,
			MaxLength: 5, Editable: true, Searchable: true, Sortable: true, Exported: true,
			Get: func(p *PatientRecord) any { return p.BloodType },
			Set: func(p *PatientRecord, v any) { p.BloodType = v.(string) },
		},
		{
			Name: "allergies", Label: "Allergies", Kind: KindLongText,
			Editable: true, Searchable: true, Sortable: true, Exported: true,
			Get: func(p *PatientRecord) any { return p.Allergies },
			Set: func(p *PatientRecord, v any) { p.Allergies = v.(string) },
		},
		{
			Name: "medical_notes", Label: "Medical Notes", Kind: KindLongText,
			Editable: true,
			Get: func(p *PatientRecord) any { return p.MedicalNotes },
			Set: func(p *PatientRecord, v any) { p.MedicalNotes = v.(string) },
		},
		{
			Name: "created_at", Label: "Created At", Kind: KindTimestamp,
			Sortable: true,
			Get: func(p *PatientRecord) any { return p.CreatedAt },
		},
	},
}
