package models

import (
	"time"

	"github.com/google/uuid"
)

type Treatment struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	HubID          uuid.UUID  `json:"hub_id" db:"hub_id"`
	PatientID      uuid.UUID  `json:"patient_id" db:"patient_id"`
	Date           *time.Time `json:"date" db:"date"`
	Description    string     `json:"description" db:"description"`
	Diagnosis      string     `json:"diagnosis" db:"diagnosis"`
	Prescription   string     `json:"prescription" db:"prescription"`
	PractitionerID *uuid.UUID `json:"practitioner_id" db:"practitioner_id"`
	Notes          string     `json:"notes" db:"notes"`
	IsDeleted      bool       `json:"is_deleted" db:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at" db:"deleted_at"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

func NewTreatment(hubID uuid.UUID) *Treatment {
	return &Treatment{HubID: hubID}
}

// TreatmentSchema declares the treatment fields. The "patient" field maps to
// the patient_id column.
var TreatmentSchema = &Schema[Treatment]{
	Table:       "patient_records_treatment",
	DefaultSort: "patient",
	Fields: []Field[Treatment]{
		{
			Name: "patient", Column: "patient_id", Label: "PatientRecord", Kind: KindUUID,
			Required: true, Editable: true, Sortable: true, Exported: true,
			Get: func(t *Treatment) any { return t.PatientID },
			Set: func(t *Treatment, v any) {
				if id := v.(*uuid.UUID); id != nil {
					t.PatientID = *id
				} else {
					t.PatientID = uuid.Nil
				}
			},
		},
		{
			Name: "date", Label: "Date", Kind: KindDate,
			Required: true, Editable: true, Sortable: true, Exported: true,
			Get: func(t *Treatment) any { return t.Date },
			Set: func(t *Treatment, v any) { t.Date = v.(*time.Time) },
		},
		{
			Name: "description", Label: "Description", Kind: KindLongText,
			Required: true, Editable: true, Searchable: true, Sortable: true, Exported: true,
			Get: func(t *Treatment) any { return t.Description },
			Set: func(t *Treatment, v any) { t.Description = v.(string) },
		},
		{
			Name: "diagnosis", Label: "Diagnosis", Kind: KindLongText,
			Editable: true, Searchable: true, Sortable: true, Exported: true,
			Get: func(t *Treatment) any { return t.Diagnosis },
			Set: func(t *Treatment, v any) { t.Diagnosis = v.(string) },
		},
		{
			Name: "prescription", Label: "Prescription", Kind: KindLongText,
			Editable: true, Searchable: true, Sortable: true, Exported: true,
			Get: func(t *Treatment) any { return t.Prescription },
			Set: func(t *Treatment, v any) { t.Prescription = v.(string) },
		},
		{
			Name: "practitioner_id", Label: "Practitioner Id", Kind: KindUUID,
			Editable: true, Sortable: true, Exported: true,
			Get: func(t *Treatment) any { return t.PractitionerID },
			Set: func(t *Treatment, v any) { t.PractitionerID = v.(*uuid.UUID) },
		},
		{
			Name: "notes", Label: "Notes", Kind: KindLongText,
			Editable: true, Searchable: true,
			Get: func(t *Treatment) any { return t.Notes },
			Set: func(t *Treatment, v any) { t.Notes = v.(string) },
		},
		{
			Name: "created_at", Label: "Created At", Kind: KindTimestamp,
			Sortable: true,
			Get: func(t *Treatment) any { return t.CreatedAt },
		},
	},
}
