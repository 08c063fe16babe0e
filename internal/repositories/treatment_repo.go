package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"patientrecords/internal/models"
)

type TreatmentRepository interface {
	Create(ctx context.Context, treatment *models.Treatment) error
	GetByID(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error)
	GetByIDIncludingDeleted(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error)
	Update(ctx context.Context, treatment *models.Treatment) error
	SoftDelete(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error)
	HardDelete(ctx context.Context, hubID, id uuid.UUID) error
	Count(ctx context.Context, hubID uuid.UUID, search string) (int, error)
	List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) ([]*models.Treatment, error)
	Stream(ctx context.Context, hubID uuid.UUID, q models.ListQuery, fn func(*models.Treatment) error) error
	ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.Treatment, error)
	ListByPatient(ctx context.Context, hubID, patientID uuid.UUID) ([]*models.Treatment, error)
	BulkSoftDelete(ctx context.Context, hubID uuid.UUID, ids []uuid.UUID) (int64, error)
}

const treatmentColumns = `id, hub_id, patient_id, date, description, diagnosis, prescription, practitioner_id, notes, is_deleted, deleted_at, created_at, updated_at`

type treatmentRepo struct {
	db   Database
	list listSQL
}

func NewTreatmentRepository(db Database) TreatmentRepository {
	return &treatmentRepo{
		db: db,
		list: listSQL{
			table:         models.TreatmentSchema.Table,
			columns:       treatmentColumns,
			searchColumns: models.TreatmentSchema.SearchColumns(),
		},
	}
}

func scanTreatment(row pgx.Row) (*models.Treatment, error) {
	t := &models.Treatment{}
	err := row.Scan(&t.ID, &t.HubID, &t.PatientID, &t.Date, &t.Description, &t.Diagnosis, &t.Prescription, &t.PractitionerID, &t.Notes, &t.IsDeleted, &t.DeletedAt, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return t, nil
}

func (r *treatmentRepo) Create(ctx context.Context, treatment *models.Treatment) error {
	query := `
		INSERT INTO patient_records_treatment (id, hub_id, patient_id, date, description, diagnosis, prescription, practitioner_id, notes, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, false, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	return r.db.QueryRow(ctx, query, treatment.ID, treatment.HubID, treatment.PatientID, treatment.Date, treatment.Description, treatment.Diagnosis, treatment.Prescription, treatment.PractitionerID, treatment.Notes).
		Scan(&treatment.CreatedAt, &treatment.UpdatedAt)
}

func (r *treatmentRepo) GetByID(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error) {
	query := `
		SELECT ` + treatmentColumns + `
		FROM patient_records_treatment
		WHERE hub_id = $1 AND id = $2 AND is_deleted = false
	`
	return scanTreatment(r.db.QueryRow(ctx, query, hubID, id))
}

func (r *treatmentRepo) GetByIDIncludingDeleted(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error) {
	query := `
		SELECT ` + treatmentColumns + `
		FROM patient_records_treatment
		WHERE hub_id = $1 AND id = $2
	`
	return scanTreatment(r.db.QueryRow(ctx, query, hubID, id))
}

func (r *treatmentRepo) Update(ctx context.Context, treatment *models.Treatment) error {
	query := `
		UPDATE patient_records_treatment
		SET patient_id = $3, date = $4, description = $5, diagnosis = $6, prescription = $7, practitioner_id = $8, notes = $9, updated_at = NOW()
		WHERE hub_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + treatmentColumns
	updated, err := scanTreatment(r.db.QueryRow(ctx, query, treatment.HubID, treatment.ID, treatment.PatientID, treatment.Date, treatment.Description, treatment.Diagnosis, treatment.Prescription, treatment.PractitionerID, treatment.Notes))
	if err != nil {
		return err
	}
	*treatment = *updated
	return nil
}

func (r *treatmentRepo) SoftDelete(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error) {
	query := `
		UPDATE patient_records_treatment
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE hub_id = $1 AND id = $2 AND is_deleted = false
		RETURNING ` + treatmentColumns
	return scanTreatment(r.db.QueryRow(ctx, query, hubID, id))
}

func (r *treatmentRepo) HardDelete(ctx context.Context, hubID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM patient_records_treatment WHERE hub_id = $1 AND id = $2`, hubID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *treatmentRepo) Count(ctx context.Context, hubID uuid.UUID, search string) (int, error) {
	query, args := r.list.count(hubID, search)
	var total int
	if err := r.db.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *treatmentRepo) List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) ([]*models.Treatment, error) {
	query, args := r.list.page(hubID, q, models.TreatmentSchema.SortColumn(q.SortField))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTreatment)
}

func (r *treatmentRepo) Stream(ctx context.Context, hubID uuid.UUID, q models.ListQuery, fn func(*models.Treatment) error) error {
	query, args := r.list.stream(hubID, q, models.TreatmentSchema.SortColumn(q.SortField))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return err
	}
	return each(rows, scanTreatment, fn)
}

func (r *treatmentRepo) ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.Treatment, error) {
	query := `
		SELECT ` + treatmentColumns + `
		FROM patient_records_treatment
		WHERE hub_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := r.db.Query(ctx, query, hubID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTreatment)
}

// ListByPatient returns the live treatments of one patient, newest first.
func (r *treatmentRepo) ListByPatient(ctx context.Context, hubID, patientID uuid.UUID) ([]*models.Treatment, error) {
	query := `
		SELECT ` + treatmentColumns + `
		FROM patient_records_treatment
		WHERE hub_id = $1 AND patient_id = $2 AND is_deleted = false
		ORDER BY date DESC, id ASC
	`
	rows, err := r.db.Query(ctx, query, hubID, patientID)
	if err != nil {
		return nil, err
	}
	return collect(rows, scanTreatment)
}

func (r *treatmentRepo) BulkSoftDelete(ctx context.Context, hubID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	query := `
		UPDATE patient_records_treatment
		SET is_deleted = true, deleted_at = NOW(), updated_at = NOW()
		WHERE hub_id = $1 AND is_deleted = false AND id = ANY($2)
	`
	tag, err := r.db.Exec(ctx, query, hubID, ids)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
