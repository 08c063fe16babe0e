package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboardService_Summary(t *testing.T) {
	patients := &MockPatientRecordRepository{}
	treatments := &MockTreatmentRepository{}
	service := NewDashboardService(patients, treatments)
	ctx := context.Background()
	hub := uuid.New()

	patients.On("Count", ctx, hub, "").Return(4, nil)
	treatments.On("Count", ctx, hub, "").Return(9, nil)

	summary, err := service.Summary(ctx, hub)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalPatientRecords)
	assert.Equal(t, 9, summary.TotalTreatments)
	patients.AssertExpectations(t)
	treatments.AssertExpectations(t)
}

func TestDashboardService_SummaryError(t *testing.T) {
	patients := &MockPatientRecordRepository{}
	service := NewDashboardService(patients, &MockTreatmentRepository{})
	ctx := context.Background()
	hub := uuid.New()

	patients.On("Count", ctx, hub, "").Return(0, errors.New("db down"))

	_, err := service.Summary(ctx, hub)
	assert.Error(t, err)
}
