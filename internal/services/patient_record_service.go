package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"patientrecords/internal/export"
	"patientrecords/internal/models"
	"patientrecords/internal/repositories"
	"patientrecords/internal/settings"
)

type PatientRecordService interface {
	Create(ctx context.Context, hubID uuid.UUID, record *models.PatientRecord) error
	Get(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error)
	Update(ctx context.Context, hubID uuid.UUID, record *models.PatientRecord) error
	Delete(ctx context.Context, hubID, id uuid.UUID) error
	Toggle(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error)
	SetActive(ctx context.Context, hubID, id uuid.UUID, active bool) (*models.PatientRecord, error)
	List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) (*models.Page[*models.PatientRecord], models.ListQuery, error)
	Export(ctx context.Context, hubID uuid.UUID, q models.ListQuery, format export.Format) (*ExportResult, error)
	BulkAction(ctx context.Context, hubID uuid.UUID, req models.BulkRequest) error
	ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.PatientRecord, error)
	Purge(ctx context.Context, hubID, id uuid.UUID) error
}

const patientRecordExportName = "patient_records"

type patientRecordService struct {
	repo     repositories.PatientRecordRepository
	archiver *exportArchiver
}

// NewPatientRecordService wires the store. store and queue may be nil, in
// which case exports are never archived.
func NewPatientRecordService(repo repositories.PatientRecordRepository, store settings.Store, queue ExportArchiveQueue) PatientRecordService {
	return &patientRecordService{
		repo:     repo,
		archiver: &exportArchiver{settings: store, queue: queue},
	}
}

func (s *patientRecordService) Create(ctx context.Context, hubID uuid.UUID, record *models.PatientRecord) error {
	if err := models.PatientRecordSchema.Validate(record); err != nil {
		return err
	}

	record.ID = uuid.New()
	record.HubID = hubID
	return s.repo.Create(ctx, record)
}

func (s *patientRecordService) Get(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	return s.repo.GetByID(ctx, hubID, id)
}

func (s *patientRecordService) Update(ctx context.Context, hubID uuid.UUID, record *models.PatientRecord) error {
	if err := models.PatientRecordSchema.Validate(record); err != nil {
		return err
	}

	record.HubID = hubID
	return s.repo.Update(ctx, record)
}

func (s *patientRecordService) Delete(ctx context.Context, hubID, id uuid.UUID) error {
	_, err := s.repo.SoftDelete(ctx, hubID, id)
	return err
}

func (s *patientRecordService) Toggle(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	return s.repo.ToggleActive(ctx, hubID, id)
}

func (s *patientRecordService) SetActive(ctx context.Context, hubID, id uuid.UUID, active bool) (*models.PatientRecord, error) {
	return s.repo.SetActive(ctx, hubID, id, active)
}

func (s *patientRecordService) List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) (*models.Page[*models.PatientRecord], models.ListQuery, error) {
	return listPage(ctx, models.PatientRecordSchema, s.repo, hubID, q)
}

func (s *patientRecordService) Export(ctx context.Context, hubID uuid.UUID, q models.ListQuery, format export.Format) (*ExportResult, error) {
	q = models.PatientRecordSchema.Normalize(q)
	result, err := writeExport(models.PatientRecordSchema, format, patientRecordExportName,
		func(fn func(*models.PatientRecord) error) error {
			return s.repo.Stream(ctx, hubID, q, fn)
		})
	if err != nil {
		return nil, err
	}

	log.Info().Str("hub_id", hubID.String()).Str("format", string(format)).Int("rows", result.Rows).Int("bytes", len(result.Data)).Msg("patient records exported")
	s.archiver.archive(ctx, hubID, result)
	return result, nil
}

// BulkAction applies req to the hub's live records in one statement. Unknown
// actions are ignored.
func (s *patientRecordService) BulkAction(ctx context.Context, hubID uuid.UUID, req models.BulkRequest) error {
	var (
		affected int64
		err      error
	)
	switch req.Action {
	case models.BulkActivate:
		affected, err = s.repo.BulkSetActive(ctx, hubID, req.IDs, true)
	case models.BulkDeactivate:
		affected, err = s.repo.BulkSetActive(ctx, hubID, req.IDs, false)
	case models.BulkDelete:
		affected, err = s.repo.BulkSoftDelete(ctx, hubID, req.IDs)
	default:
		log.Debug().Str("action", string(req.Action)).Msg("ignoring unknown bulk action")
		return nil
	}
	if err != nil {
		return err
	}

	log.Info().Str("hub_id", hubID.String()).Str("action", string(req.Action)).Int("requested", len(req.IDs)).Int64("affected", affected).Msg("patient records bulk action")
	return nil
}

func (s *patientRecordService) ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.PatientRecord, error) {
	return s.repo.ListIncludingDeleted(ctx, hubID)
}

// Purge physically removes a record and, through the foreign key, its
// treatments.
func (s *patientRecordService) Purge(ctx context.Context, hubID, id uuid.UUID) error {
	if err := s.repo.HardDelete(ctx, hubID, id); err != nil {
		return err
	}
	log.Warn().Str("hub_id", hubID.String()).Str("patient_record_id", id.String()).Msg("patient record purged")
	return nil
}
