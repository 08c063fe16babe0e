package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"patientrecords/internal/models"
)

type PatientRecordRepository interface {
	Create(ctx context.Context, record *models.PatientRecord) error
	GetByID(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error)
	GetByIDIncludingDeleted(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error)
	Update(ctx context.Context, record *models.PatientRecord) error
	SoftDelete(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error)
	SetActive(ctx context.Context, hubID, id uuid.UUID, active bool) (*models.PatientRecord, error)
	ToggleActive(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error)
	HardDelete(ctx context.Context, hubID, id uuid.UUID) error
	Count(ctx context.Context, hubID uuid.UUID, search string) (int, error)
	List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) ([]*models.PatientRecord, error)
	Stream(ctx context.Context, hubID uuid.UUID, q models.ListQuery, fn func(*models.PatientRecord) error) error
	ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.PatientRecord, error)
	BulkSetActive(ctx context.Context, hubID uuid.UUID, ids []uuid.UUID, active bool) (int64, error)
	BulkSoftDelete(ctx context.Context, hubID uuid.UUID, ids []uuid.UUID) (int64, error)
}

const patientRecordColumns = `id, hub_id, patient_name, date_of_birth, gender, blood_type, allergies, medical_notes, is_active, is_deleted, deleted_at, created_at, updated_at`

type patientRecordRepo struct {
	db   Database
	list listSQL
}

func NewPatientRecordRepository(db Database) PatientRecordRepository {
	return &patientRecordRepo{
		db: db,
		list: listSQL{
			table:         models.PatientRecordSchema.Table,
			columns:       patientRecordColumns,
			searchColumns: models.PatientRecordSchema.SearchColumns(),
		},
	}
}

func scanPatientRecord(row pgx.Row) (*models.PatientRecord, error) {
	r := &models.PatientRecord{}
	err := row.Scan(&r.ID, &r.HubID, &r.PatientName, &r.DateOfBirth, &r.Gender, &r.BloodType, &r.Allergies, &r.MedicalNotes, &r.IsActive, &r.IsDeleted, &r.DeletedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return r, nil
}

func (r *patientRecordRepo) Create(ctx context.Context, record *models.PatientRecord) error {
	query := `
		INSERT INTO patient_records_patientrecord (id, hub_id, patient_name, date_of_birth, gender, blood_type, allergies, medical_notes, is_active, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, record.ID, record.HubID, record.PatientName, record.DateOfBirth, record.Gender, record.BloodType, record.Allergies, record.MedicalNotes, record.IsActive).
		Scan(&record.CreatedAt, &record.UpdatedAt)
}

func (r *patientRecordRepo) GetByID(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	query := `
		SELECT ` + patientRecordColumns + `
		FROM patient_records_patientrecord
		WHERE hub_id = $1 AND id = $2 AND is_deleted = false
	`
	return scanPatientRecord(r.db.QueryRow(ctx, query, hubID, id))
}

func (r *patientRecordRepo) GetByIDIncludingDeleted(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	query := `
		SELECT ` + patientRecordColumns + `
		FROM patient_records_patientrecord
		WHERE hub_id = $1 AND id = $2
	`
	return scanPatientRecord(r.db.QueryRow(ctx, query, hubID, id))
}

// Update rewrites the editable columns and refreshes record from the stored row.
func (r *patientRecordRepo) Update(ctx context.Context, record *models.PatientRecord) error {
	query := `
		UPDATE patient_records_patientrecord
		SET patient_name = $3, date_of_birth = $4, gender = $5, blood_type = $6, allergies = $7, medical_notes = $8, is_active = $9, updated_at = NOW()
		WHERE hub_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + patientRecordColumns
	updated, err := scanPatientRecord(r.db.QueryRow(ctx, query, record.HubID, record.ID, record.PatientName, record.DateOfBirth, record.Gender, record.BloodType, record.Allergies, record.MedicalNotes, record.IsActive))
	if err != nil {
		return err
	}
	*record = *updated
	return nil
}

func (r *patientRecordRepo) SoftDelete(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	query := `
		UPDATE patient_records_patientrecord
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE hub_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + patientRecordColumns
	return scanPatientRecord(r.db.QueryRow(ctx, query, hubID, id))
}

func (r *patientRecordRepo) SetActive(ctx context.Context, hubID, id uuid.UUID, active bool) (*models.PatientRecord, error) {
	query := `
		UPDATE patient_records_patientrecord
		SET is_active = $3, updated_at = NOW()
		WHERE hub_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + patientRecordColumns
	return scanPatientRecord(r.db.QueryRow(ctx, query, hubID, id, active))
}

func (r *patientRecordRepo) ToggleActive(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	query := `
		UPDATE patient_records_patientrecord
		SET is_active = NOT is_active, updated_at = NOW()
		WHERE hub_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + patientRecordColumns
	return scanPatientRecord(r.db.QueryRow(ctx, query, hubID, id))
}

// HardDelete physically removes the row, soft-deleted or not. The foreign key
// on patient_records_treatment cascades to the patient's treatments.
func (r *patientRecordRepo) HardDelete(ctx context.Context, hubID, id uuid.UUID) error {
	query := `DELETE FROM patient_records_patientrecord WHERE hub_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, hubID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *patientRecordRepo) Count(ctx context.Context, hubID uuid.UUID, search string) (int, error) {
	query, args := r.list.count(hubID, search)
	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *patientRecordRepo) List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) ([]*models.PatientRecord, error) {
	query, args := r.list.page(hubID, q, models.PatientRecordSchema.SortColumn(q.SortField))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPatientRecord)
}

func (r *patientRecordRepo) Stream(ctx context.Context, hubID uuid.UUID, q models.ListQuery, fn func(*models.PatientRecord) error) error {
	query, args := r.list.stream(hubID, q, models.PatientRecordSchema.SortColumn(q.SortField))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	return each(rows, scanPatientRecord, fn)
}

func (r *patientRecordRepo) ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.PatientRecord, error) {
	query := `
		SELECT ` + patientRecordColumns + `
		FROM patient_records_patientrecord
		WHERE hub_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, hubID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanPatientRecord)
}

func (r *patientRecordRepo) BulkSetActive(ctx context.Context, hubID uuid.UUID, ids []uuid.UUID, active bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
		UPDATE patient_records_patientrecord
		SET is_active = $3, updated_at = NOW()
		WHERE hub_id = $1 AND is_deleted = false AND id = ANY($2)
	`
	tag, err := r.db.Exec(ctx, query, hubID, ids, active)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *patientRecordRepo) BulkSoftDelete(ctx context.Context, hubID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
		UPDATE patient_records_patientrecord
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE hub_id = $1 AND is_deleted = false AND id = ANY($2)
	`
	tag, err := r.db.Exec(ctx, query, hubID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
