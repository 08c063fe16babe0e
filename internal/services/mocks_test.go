package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"patientrecords/internal/models"
)

type MockPatientRecordRepository struct {
	mock.Mock
	// streamed is handed to Stream callbacks.
	streamed []*models.PatientRecord
}

func (m *MockPatientRecordRepository) Create(ctx context.Context, record *models.PatientRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockPatientRecordRepository) GetByID(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordRepository) GetByIDIncludingDeleted(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordRepository) Update(ctx context.Context, record *models.PatientRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockPatientRecordRepository) SoftDelete(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordRepository) SetActive(ctx context.Context, hubID, id uuid.UUID, active bool) (*models.PatientRecord, error) {
	args := m.Called(ctx, hubID, id, active)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordRepository) ToggleActive(ctx context.Context, hubID, id uuid.UUID) (*models.PatientRecord, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordRepository) HardDelete(ctx context.Context, hubID, id uuid.UUID) error {
	return m.Called(ctx, hubID, id).Error(0)
}

func (m *MockPatientRecordRepository) Count(ctx context.Context, hubID uuid.UUID, search string) (int, error) {
	args := m.Called(ctx, hubID, search)
	return args.Int(0), args.Error(1)
}

func (m *MockPatientRecordRepository) List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) ([]*models.PatientRecord, error) {
	args := m.Called(ctx, hubID, q)
	return args.Get(0).([]*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordRepository) Stream(ctx context.Context, hubID uuid.UUID, q models.ListQuery, fn func(*models.PatientRecord) error) error {
	if err := m.Called(ctx, hubID, q).Error(0); err != nil {
		return err
	}
	for _, r := range m.streamed {
		if err := fn(r); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockPatientRecordRepository) ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.PatientRecord, error) {
	args := m.Called(ctx, hubID)
	return args.Get(0).([]*models.PatientRecord), args.Error(1)
}

func (m *MockPatientRecordRepository) BulkSetActive(ctx context.Context, hubID uuid.UUID, ids []uuid.UUID, active bool) (int64, error) {
	args := m.Called(ctx, hubID, ids, active)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPatientRecordRepository) BulkSoftDelete(ctx context.Context, hubID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, hubID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockTreatmentRepository struct {
	mock.Mock
	streamed []*models.Treatment
}

func (m *MockTreatmentRepository) Create(ctx context.Context, t *models.Treatment) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTreatmentRepository) GetByID(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) GetByIDIncludingDeleted(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) Update(ctx context.Context, t *models.Treatment) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTreatmentRepository) SoftDelete(ctx context.Context, hubID, id uuid.UUID) (*models.Treatment, error) {
	args := m.Called(ctx, hubID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) HardDelete(ctx context.Context, hubID, id uuid.UUID) error {
	return m.Called(ctx, hubID, id).Error(0)
}

func (m *MockTreatmentRepository) Count(ctx context.Context, hubID uuid.UUID, search string) (int, error) {
	args := m.Called(ctx, hubID, search)
	return args.Int(0), args.Error(1)
}

func (m *MockTreatmentRepository) List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) ([]*models.Treatment, error) {
	args := m.Called(ctx, hubID, q)
	return args.Get(0).([]*models.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) Stream(ctx context.Context, hubID uuid.UUID, q models.ListQuery, fn func(*models.Treatment) error) error {
	if err := m.Called(ctx, hubID, q).Error(0); err != nil {
		return err
	}
	for _, t := range m.streamed {
		if err := fn(t); err != nil {
			return err
		}
	}
	return nil
}

func (m *MockTreatmentRepository) ListIncludingDeleted(ctx context.Context, hubID uuid.UUID) ([]*models.Treatment, error) {
	args := m.Called(ctx, hubID)
	return args.Get(0).([]*models.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) ListByPatient(ctx context.Context, hubID, patientID uuid.UUID) ([]*models.Treatment, error) {
	args := m.Called(ctx, hubID, patientID)
	return args.Get(0).([]*models.Treatment), args.Error(1)
}

func (m *MockTreatmentRepository) BulkSoftDelete(ctx context.Context, hubID uuid.UUID, ids []uuid.UUID) (int64, error) {
	args := m.Called(ctx, hubID, ids)
	return args.Get(0).(int64), args.Error(1)
}

type MockSettingsStore struct {
	mock.Mock
}

func (m *MockSettingsStore) Get(ctx context.Context, hubID uuid.UUID) (models.ModuleSettings, error) {
	args := m.Called(ctx, hubID)
	return args.Get(0).(models.ModuleSettings), args.Error(1)
}

func (m *MockSettingsStore) Save(ctx context.Context, hubID uuid.UUID, s models.ModuleSettings) error {
	return m.Called(ctx, hubID, s).Error(0)
}

type MockArchiveQueue struct {
	mock.Mock
}

func (m *MockArchiveQueue) Enqueue(ctx context.Context, hubID uuid.UUID, filename, contentType string, data []byte) error {
	return m.Called(ctx, hubID, filename, contentType, data).Error(0)
}
