package handlers

import (
	"context"
	"net/url"

	"patientrecords/internal/export"
	"patientrecords/internal/models"
	"patientrecords/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockPatientRecordService struct {
	mock.Mock
}

func (m *MockPatientRecordService) Create(ctx context.Context, hubID uuid.UUID, record *models.PatientRecord) error {
	return m.Called(ctx, hubID, record).Error(0)
}

func (m *MockPatientRecordService) Get(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordService) Update(ctx context.Context, hubID uuid.UUID, record *models.PatientRecord) error {
	return m.Called(ctx, hubID, record).Error(0)
}

func (m *MockPatientRecordService) Delete(ctx context.Context, hubID, id uuid.UUID) error {
	return m.Called(ctx, hubID, id).Error(0)
}

func (m *MockPatientRecordService) Toggle(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordService) SetActive(ctx context.Context, hubID, id uuid.UUID, active bool) (*models.PatientRecord, error) {
	args := m.Called(ctx, hubID, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordService) List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) (*models.Page[*models.PatientRecord], models.ListQuery, error) {
	args := m.Called(ctx, hubID, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(models.ListQuery), args.Error(2)
	}
	return args.Get(0).(*models.Page[*models.PatientRecord]), args.Get(1).(models.ListQuery), args.Error(2)
}

func (m *MockPatientRecordService) Export(ctx context.Context, hubID uuid.UUID, q models.ListQuery, format export.Format) (*services.ExportResult, error) {
	args := m.Called(ctx, hubID, q, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportResult), args.Error(1)
}

func (m *MockPatientRecordService) BulkAction(ctx context.Context, hubID uuid.UUID, req models.BulkRequest) error {
	return m.Called(ctx, hubID, req).Error(0)
}

func (m *MockPatientRecordService) ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.PatientRecord, error) {
	args := m.Called(ctx, hubID)
	return args.Get(0).([]*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordService) Purge(ctx context.Context, hubID, id uuid.UUID) error {
	return m.Called(ctx, hubID, id).Error(0)
}

type MockTreatmentService struct {
	mock.Mock
}

func (m *MockTreatmentService) Create(ctx context.Context, hubID uuid.UUID, treatment *models.Treatment) error {
	return m.Called(ctx, hubID, treatment).Error(0)
}

func (m *MockTreatmentService) Get(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Treatment), args.Error(1)
}

func (m *MockTreatmentService) Update(ctx context.Context, hubID uuid.UUID, treatment *models.Treatment) error {
	return m.Called(ctx, hubID, treatment).Error(0)
}

func (m *MockTreatmentService) Delete(ctx context.Context, hubID, id uuid.UUID) error {
	return m.Called(ctx, hubID, id).Error(0)
}

func (m *MockTreatmentService) List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) (*models.Page[*models.Treatment], models.ListQuery, error) {
	args := m.Called(ctx, hubID, q)
	if args.Get(0) == nil {
		return nil, args.Get(1).(models.ListQuery), args.Error(2)
	}
	return args.Get(0).(*models.Page[*models.Treatment]), args.Get(1).(models.ListQuery), args.Error(2)
}

func (m *MockTreatmentService) ListByPatient(ctx context.Context, hubID, patientID uuid.UUID) ([]*models.Treatment, error) {
	args := m.Called(ctx, hubID, patientID)
	return args.Get(0).([]*models.Treatment), args.Error(1)
}

func (m *MockTreatmentService) Export(ctx context.Context, hubID uuid.UUID, q models.ListQuery, format export.Format) (*services.ExportResult, error) {
	args := m.Called(ctx, hubID, q, format)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.ExportResult), args.Error(1)
}

func (m *MockTreatmentService) BulkAction(ctx context.Context, hubID uuid.UUID, req models.BulkRequest) error {
	return m.Called(ctx, hubID, req).Error(0)
}

func (m *MockTreatmentService) ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.Treatment, error) {
	args := m.Called(ctx, hubID)
	return args.Get(0).([]*models.Treatment), args.Error(1)
}

type MockDashboardService struct {
	mock.Mock
}

func (m *MockDashboardService) Summary(ctx context.Context, hubID uuid.UUID) (*models.DashboardSummary, error) {
	args := m.Called(ctx, hubID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.DashboardSummary), args.Error(1)
}

type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get(ctx context.Context, hubID uuid.UUID) models.ModuleSettings {
	return m.Called(ctx, hubID).Get(0).(models.ModuleSettings)
}

func (m *MockSettingsService) Update(ctx context.Context, hubID uuid.UUID, form url.Values) (models.ModuleSettings, error) {
	args := m.Called(ctx, hubID, form)
	return args.Get(0).(models.ModuleSettings), args.Error(1)
}
