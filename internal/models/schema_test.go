package models

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatientRecordSchema_Bind(t *testing.T) {
	hubID := uuid.New()
	form := url.Values{
		"patient_name":  {"  Jane Doe  "},
		"date_of_birth": {"1990-04-12"},
		"gender":        {"female"},
		"blood_type":    {"AB+"},
		"allergies":     {"penicillin"},
		"medical_notes": {"none"},
		"is_active":     {"on"},
	}

	record := NewPatientRecord(hubID)
	require.NoError(t, PatientRecordSchema.Bind(record, form))

	assert.Equal(t, "Jane Doe", record.PatientName)
	require.NotNil(t, record.DateOfBirth)
	assert.Equal(t, "1990-04-12", record.DateOfBirth.Format(DateLayout))
	assert.Equal(t, "AB+", record.BloodType)
	assert.True(t, record.IsActive)
	assert.Equal(t, hubID, record.HubID)
}

func TestPatientRecordSchema_BindUncheckedFlag(t *testing.T) {
	record := NewPatientRecord(uuid.New())
	require.NoError(t, PatientRecordSchema.Bind(record, url.Values{"patient_name": {"John"}}))

	assert.False(t, record.IsActive)
	assert.Nil(t, record.DateOfBirth)
}

func TestPatientRecordSchema_BindErrors(t *testing.T) {
	tests := []struct {
		name   string
		form   url.Values
		fields []string
	}{
		{
			name:   "missing name",
			form:   url.Values{"gender": {"male"}},
			fields: []string{"patient_name"},
		},
		{
			name:   "blank name",
			form:   url.Values{"patient_name": {"   "}},
			fields: []string{"patient_name"},
		},
		{
			name:   "bad date and long blood type",
			form:   url.Values{"patient_name": {"A"}, "date_of_birth": {"12/04/1990"}, "blood_type": {"ABCDEF"}},
			fields: []string{"date_of_birth", "blood_type"},
		},
		{
			name:   "name too long",
			form:   url.Values{"patient_name": {strings.Repeat("x", 256)}},
			fields: []string{"patient_name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := PatientRecordSchema.Bind(NewPatientRecord(uuid.New()), tt.form)
			verr, ok := IsValidationError(err)
			require.True(t, ok, "expected validation error, got %v", err)
			assert.Len(t, verr.Errors, len(tt.fields))
			for _, field := range tt.fields {
				assert.Contains(t, verr.Errors, field)
			}
		})
	}
}

func TestTreatmentSchema_Bind(t *testing.T) {
	patientID := uuid.New()
	practitionerID := uuid.New()

	treatment := NewTreatment(uuid.New())
	err := TreatmentSchema.Bind(treatment, url.Values{
		"patient":         {patientID.String()},
		"date":            {"2024-02-01"},
		"description":     {"Follow-up"},
		"practitioner_id": {practitionerID.String()},
	})
	require.NoError(t, err)

	assert.Equal(t, patientID, treatment.PatientID)
	require.NotNil(t, treatment.PractitionerID)
	assert.Equal(t, practitionerID, *treatment.PractitionerID)
	assert.Equal(t, "Follow-up", treatment.Description)
}

func TestTreatmentSchema_BindRequired(t *testing.T) {
	err := TreatmentSchema.Bind(NewTreatment(uuid.New()), url.Values{
		"practitioner_id": {"not-a-uuid"},
	})

	verr, ok := IsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "This field is required.", verr.Errors["patient"])
	assert.Equal(t, "This field is required.", verr.Errors["date"])
	assert.Equal(t, "This field is required.", verr.Errors["description"])
	assert.Equal(t, "Enter a valid UUID.", verr.Errors["practitioner_id"])
}

func TestSchema_Normalize(t *testing.T) {
	tests := []struct {
		name string
		in   ListQuery
		want ListQuery
	}{
		{
			name: "unknown sort falls back to default ascending",
			in:   ListQuery{SortField: "nonexistent_field", SortDir: SortDesc, Page: 2, PerPage: 25},
			want: ListQuery{SortField: "is_active", SortDir: SortAsc, Page: 2, PerPage: 25},
		},
		{
			name: "known sort keeps direction",
			in:   ListQuery{SortField: "patient_name", SortDir: SortDesc, Page: 1, PerPage: 10},
			want: ListQuery{SortField: "patient_name", SortDir: SortDesc, Page: 1, PerPage: 10},
		},
		{
			name: "bogus direction is ascending",
			in:   ListQuery{SortField: "gender", SortDir: "sideways", Page: 1, PerPage: 10},
			want: ListQuery{SortField: "gender", SortDir: SortAsc, Page: 1, PerPage: 10},
		},
		{
			name: "per page outside choices",
			in:   ListQuery{Search: "  jane ", SortField: "is_active", Page: 0, PerPage: 999},
			want: ListQuery{Search: "jane", SortField: "is_active", SortDir: SortAsc, Page: 1, PerPage: 10},
		},
		{
			name: "medical notes are not sortable",
			in:   ListQuery{SortField: "medical_notes", SortDir: SortDesc, Page: 1, PerPage: 50},
			want: ListQuery{SortField: "is_active", SortDir: SortAsc, Page: 1, PerPage: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PatientRecordSchema.Normalize(tt.in))
		})
	}

	q := TreatmentSchema.Normalize(ListQuery{SortField: "nonexistent_field", PerPage: 100})
	assert.Equal(t, "patient", q.SortField)
	assert.Equal(t, "patient_id", TreatmentSchema.SortColumn(q.SortField))
}

func TestSchema_SearchColumns(t *testing.T) {
	assert.Equal(t, []string{"patient_name", "gender", "blood_type", "allergies"}, PatientRecordSchema.SearchColumns())
	assert.Equal(t, []string{"description", "diagnosis", "prescription", "notes"}, TreatmentSchema.SearchColumns())
}

func TestSchema_ExportColumns(t *testing.T) {
	fields, headers := PatientRecordSchema.ExportColumns()
	assert.Equal(t, []string{"is_active", "patient_name", "date_of_birth", "gender", "blood_type", "allergies"}, fields)
	assert.Equal(t, []string{"Is Active", "Patient Name", "Date Of Birth", "Gender", "Blood Type", "Allergies"}, headers)

	fields, headers = TreatmentSchema.ExportColumns()
	assert.Equal(t, []string{"patient", "date", "description", "diagnosis", "prescription", "practitioner_id"}, fields)
	assert.Equal(t, []string{"PatientRecord", "Date", "Description", "Diagnosis", "Prescription", "Practitioner Id"}, headers)
}

func TestSchema_ExportRow(t *testing.T) {
	dob := time.Date(1985, 7, 3, 0, 0, 0, 0, time.UTC)
	record := &PatientRecord{PatientName: "Jane", DateOfBirth: &dob, BloodType: "O-", IsActive: true}

	assert.Equal(t, []any{true, "Jane", "1985-07-03", "", "O-", ""}, PatientRecordSchema.ExportRow(record))

	patientID := uuid.New()
	treatment := &Treatment{PatientID: patientID, Date: &dob, Description: "Checkup"}
	assert.Equal(t, []any{patientID.String(), "1985-07-03", "Checkup", "", "", ""}, TreatmentSchema.ExportRow(treatment))
}
