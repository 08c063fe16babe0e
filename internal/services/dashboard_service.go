package services

import (
	"context"

	"github.com/google/uuid"

	"patientrecords/internal/models"
	"patientrecords/internal/repositories"
)

type DashboardService interface {
	Summary(ctx context.Context, hubID uuid.UUID) (*models.DashboardSummary, error)
}

type dashboardService struct {
	patients   repositories.PatientRecordRepository
	treatments repositories.TreatmentRepository
}

func NewDashboardService(patients repositories.PatientRecordRepository, treatments repositories.TreatmentRepository) DashboardService {
	return &dashboardService{patients: patients, treatments: treatments}
}

// Summary counts the hub's non-deleted rows per entity.
func (s *dashboardService) Summary(ctx context.Context, hubID uuid.UUID) (*models.DashboardSummary, error) {
	patients, err := s.patients.Count(ctx, hubID, "")
	if err != nil {
		return nil, err
	}
	treatments, err := s.treatments.Count(ctx, hubID, "")
	if err != nil {
		return nil, err
	}
	return &models.DashboardSummary{
		TotalPatientRecords: patients,
		TotalTreatments:     treatments,
	}, nil
}
