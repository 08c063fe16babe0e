package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"patientrecords/internal/export"
	"patientrecords/internal/models"
	"patientrecords/internal/repositories"
	"patientrecords/internal/settings"
)

type TreatmentService interface {
	Create(ctx context.Context, hubID uuid.UUID, treatment *models.Treatment) error
	Get(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error)
	Update(ctx context.Context, hubID uuid.UUID, treatment *models.Treatment) error
	Delete(ctx context.Context, hubID, id uuid.UUID) error
	List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) (*models.Page[*models.Treatment], models.ListQuery, error)
	ListByPatient(ctx context.Context, hubID, patientID uuid.UUID) ([]*models.Treatment, error)
	Export(ctx context.Context, hubID uuid.UUID, q models.ListQuery, format export.Format) (*ExportResult, error)
	BulkAction(ctx context.Context, hubID uuid.UUID, req models.BulkRequest) error
	ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.Treatment, error)
}

const (
	treatmentExportName = "treatments"
	invalidChoice       = "Select a valid choice. That choice is not one of the available choices."
)

type treatmentService struct {
	repo     repositories.TreatmentRepository
	patients repositories.PatientRecordRepository
	archiver *exportArchiver
}

func NewTreatmentService(repo repositories.TreatmentRepository, patients repositories.PatientRecordRepository, store settings.Store, queue ExportArchiveQueue) TreatmentService {
	return &treatmentService{
		repo:     repo,
		patients: patients,
		archiver: &exportArchiver{settings: store, queue: queue},
	}
}

// validate runs the field rules and then checks that the referenced patient
// is a live record of the same hub.
func (s *treatmentService) validate(ctx context.Context, hubID uuid.UUID, t *models.Treatment) error {
	if err := models.TreatmentSchema.Validate(t); err != nil {
		return err
	}

	_, err := s.patients.GetByID(ctx, hubID, t.PatientID)
	if errors.Is(err, models.ErrNotFound) {
		verr := models.NewValidationError()
		verr.Add("patient", invalidChoice)
		return verr
	}
	return err
}

func (s *treatmentService) Create(ctx context.Context, hubID uuid.UUID, treatment *models.Treatment) error {
	if err := s.validate(ctx, hubID, treatment); err != nil {
		return err
	}

	treatment.ID = uuid.New()
	treatment.HubID = hubID
	return s.repo.Create(ctx, treatment)
}

func (s *treatmentService) Get(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error) {
	return s.repo.GetByID(ctx, hubID, id)
}

func (s *treatmentService) Update(ctx context.Context, hubID uuid.UUID, treatment *models.Treatment) error {
	if err := s.validate(ctx, hubID, treatment); err != nil {
		return err
	}

	treatment.HubID = hubID
	return s.repo.Update(ctx, treatment)
}

func (s *treatmentService) Delete(ctx context.Context, hubID, id uuid.UUID) error {
	_, err := s.repo.SoftDelete(ctx, hubID, id)
	return err
}

func (s *treatmentService) List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) (*models.Page[*models.Treatment], models.ListQuery, error) {
	return listPage(ctx, models.TreatmentSchema, s.repo, hubID, q)
}

func (s *treatmentService) ListByPatient(ctx context.Context, hubID, patientID uuid.UUID) ([]*models.Treatment, error) {
	return s.repo.ListByPatient(ctx, hubID, patientID)
}

func (s *treatmentService) Export(ctx context.Context, hubID uuid.UUID, q models.ListQuery, format export.Format) (*ExportResult, error) {
	q = models.TreatmentSchema.Normalize(q)
	result, err := writeExport(models.TreatmentSchema, format, treatmentExportName,
		func(fn func(*models.Treatment) error) error {
			return s.repo.Stream(ctx, hubID, q, fn)
		})
	if err != nil {
		return nil, err
	}

	log.Info().Str("hub_id", hubID.String()).Str("format", string(format)).Int("rows", result.Rows).Int("bytes", len(result.Data)).Msg("treatments exported")
	s.archiver.archive(ctx, hubID, result)
	return result, nil
}

// BulkAction only supports delete for treatments.
func (s *treatmentService) BulkAction(ctx context.Context, hubID uuid.UUID, req models.BulkRequest) error {
	if req.Action != models.BulkDelete {
		log.Debug().Str("action", string(req.Action)).Msg("ignoring unsupported treatment bulk action")
		return nil
	}

	affected, err := s.repo.BulkSoftDelete(ctx, hubID, req.IDs)
	if err != nil {
		return err
	}
	log.Info().Str("hub_id", hubID.String()).Int("requested", len(req.IDs)).Int64("affected", affected).Msg("treatments bulk delete")
	return nil
}

func (s *treatmentService) ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.Treatment, error) {
	return s.repo.ListIncludingDeleted(ctx, hubID)
}
