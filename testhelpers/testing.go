package testhelpers

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"patientrecords/internal/models"
	"patientrecords/pkg/database"
)

// TestDB holds the database connection for testing
type TestDB struct {
	Pool    *pgxpool.Pool
	Cleanup func() error
}

// SetupTestDB connects to TEST_DATABASE_URL and applies the migrations.
// The test is skipped when no database is configured.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	connString := os.Getenv("TEST_DATABASE_URL")
	if connString == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		t.Skipf("test database unreachable: %v", err)
	}
	if _, err := database.Migrate(ctx, pool); err != nil {
		pool.Close()
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return &TestDB{
		Pool: pool,
		Cleanup: func() error {
			pool.Close()
			return nil
		},
	}
}

// SetupTestHub returns a fresh hub id and removes its rows when the test ends.
func SetupTestHub(t *testing.T, db *TestDB) uuid.UUID {
	t.Helper()

	hubID := uuid.New()
	t.Cleanup(func() {
		ctx := context.Background()
		db.Pool.Exec(ctx, `DELETE FROM patient_records_treatment WHERE hub_id = $1`, hubID)
		db.Pool.Exec(ctx, `DELETE FROM patient_records_patientrecord WHERE hub_id = $1`, hubID)
	})
	return hubID
}

// SetupTestPatientRecord inserts an active patient record.
func SetupTestPatientRecord(t *testing.T, db *TestDB, hubID uuid.UUID, name string) *models.PatientRecord {
	t.Helper()

	dob := time.Date(1985, 3, 14, 0, 0, 0, 0, time.UTC)
	record := &models.PatientRecord{
		ID:          uuid.New(),
		HubID:       hubID,
		PatientName: name,
		DateOfBirth: &dob,
		Gender:      "female",
		BloodType:   "A+",
		IsActive:    true,
	}

	query := `
		INSERT INTO patient_records_patientrecord (id, hub_id, patient_name, date_of_birth, gender, blood_type, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query,
		record.ID, record.HubID, record.PatientName, record.DateOfBirth, record.Gender, record.BloodType, record.IsActive).
		Scan(&record.CreatedAt, &record.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test patient record: %v", err)
	}

	return record
}

// SetupTestTreatment inserts a treatment for patientID.
func SetupTestTreatment(t *testing.T, db *TestDB, hubID, patientID uuid.UUID, description string) *models.Treatment {
	t.Helper()

	date := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	treatment := &models.Treatment{
		ID:          uuid.New(),
		HubID:       hubID,
		PatientID:   patientID,
		Date:        &date,
		Description: description,
	}

	query := `
		INSERT INTO patient_records_treatment (id, hub_id, patient_id, date, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`
	err := db.Pool.QueryRow(context.Background(), query,
		treatment.ID, treatment.HubID, treatment.PatientID, treatment.Date, treatment.Description).
		Scan(&treatment.CreatedAt, &treatment.UpdatedAt)
	if err != nil {
		t.Fatalf("Failed to create test treatment: %v", err)
	}

	return treatment
}
