package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockArchive struct {
	mock.Mock
}

func (m *mockArchive) EnsureBucket(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockArchive) Put(ctx context.Context, hubID uuid.UUID, filename, contentType string, data []byte) (string, error) {
	args := m.Called(ctx, hubID, filename, contentType, data)
	return args.String(0), args.Error(1)
}

func (m *mockArchive) Prune(ctx context.Context, cutoff time.Time) (int, error) {
	args := m.Called(ctx, cutoff)
	return args.Int(0), args.Error(1)
}

type mockEnqueuer struct {
	mock.Mock
}

func (m *mockEnqueuer) EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	args := m.Called(ctx, task)
	info, _ := args.Get(0).(*asynq.TaskInfo)
	return info, args.Error(1)
}

func TestNewArchiveExportTask(t *testing.T) {
	hub := uuid.New()
	task, err := NewArchiveExportTask(hub, "treatments.csv", "text/csv", []byte("a,b\n"))
	require.NoError(t, err)
	assert.Equal(t, TypeArchiveExport, task.Type())

	var payload ArchiveExportPayload
	require.NoError(t, json.Unmarshal(task.Payload(), &payload))
	assert.Equal(t, hub, payload.HubID)
	assert.Equal(t, "treatments.csv", payload.Filename)
	assert.Equal(t, []byte("a,b\n"), payload.Data)
}

func TestExportArchiveQueue_Enqueue(t *testing.T) {
	client := &mockEnqueuer{}
	queue := NewExportArchiveQueue(client)
	hub := uuid.New()

	client.On("EnqueueContext", mock.Anything, mock.MatchedBy(func(task *asynq.Task) bool {
		return task.Type() == TypeArchiveExport
	})).Return(&asynq.TaskInfo{ID: "task-1"}, nil).Once()

	require.NoError(t, queue.Enqueue(context.Background(), hub, "patient_records.csv", "text/csv", []byte("x")))
	client.AssertExpectations(t)
}

func TestExportArchiveQueue_EnqueueError(t *testing.T) {
	client := &mockEnqueuer{}
	queue := NewExportArchiveQueue(client)

	client.On("EnqueueContext", mock.Anything, mock.Anything).Return(nil, errors.New("redis down")).Once()

	err := queue.Enqueue(context.Background(), uuid.New(), "f.csv", "text/csv", nil)
	assert.ErrorContains(t, err, "redis down")
}

func TestArchiveExportHandler(t *testing.T) {
	archive := &mockArchive{}
	archiver := NewExportArchiver(archive)
	hub := uuid.New()
	data := []byte("Patient Name\nAda\n")

	task, err := NewArchiveExportTask(hub, "patient_records.csv", "text/csv", data)
	require.NoError(t, err)

	archive.On("Put", mock.Anything, hub, "patient_records.csv", "text/csv", data).
		Return(hub.String()+"/20260101T000000Z-patient_records.csv", nil).Once()

	assert.NoError(t, archiver.ArchiveExportHandler(context.Background(), task))
	archive.AssertExpectations(t)
}

func TestArchiveExportHandler_PutError(t *testing.T) {
	archive := &mockArchive{}
	archiver := NewExportArchiver(archive)

	task, err := NewArchiveExportTask(uuid.New(), "f.xlsx", "application/octet-stream", []byte{1})
	require.NoError(t, err)
	archive.On("Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return("", errors.New("denied")).Once()

	assert.EqualError(t, archiver.ArchiveExportHandler(context.Background(), task), "denied")
}

func TestArchiveExportHandler_BadPayloadSkipsRetry(t *testing.T) {
	archiver := NewExportArchiver(&mockArchive{})

	err := archiver.ArchiveExportHandler(context.Background(), asynq.NewTask(TypeArchiveExport, []byte("{")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
