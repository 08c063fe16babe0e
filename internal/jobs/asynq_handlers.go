package jobs

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"patientrecords/internal/storage"
)

const TypeArchiveExport = "patient_records:archive_export"

// ArchiveExportPayload carries a finished export to the archive worker.
type ArchiveExportPayload struct {
	HubID       uuid.UUID `json:"hub_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Data        []byte    `json:"data"`
}

func NewArchiveExportTask(hubID uuid.UUID, filename, contentType string, data []byte) (*asynq.Task, error) {
	payload, err := json.Marshal(ArchiveExportPayload{
		HubID:       hubID,
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeArchiveExport, payload, asynq.MaxRetry(3)), nil
}

// Enqueuer is implemented by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ExportArchiveQueue hands exports to the background archive worker.
type ExportArchiveQueue struct {
	client Enqueuer
}

func NewExportArchiveQueue(client Enqueuer) *ExportArchiveQueue {
	return &ExportArchiveQueue{client: client}
}

func (q *ExportArchiveQueue) Enqueue(ctx context.Context, hubID uuid.UUID, filename, contentType string, data []byte) error {
	task, err := NewArchiveExportTask(hubID, filename, contentType, data)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task)
	if err != nil {
		return fmt.Errorf("enqueue archive export: %w", err)
	}
	log.Debug().Str("task_id", info.ID).Str("hub_id", hubID.String()).Str("filename", filename).Msg("export archive queued")
	return nil
}

// ExportArchiver is the worker side: it uploads queued exports.
type ExportArchiver struct {
	archive storage.ExportArchive
}

func NewExportArchiver(archive storage.ExportArchive) *ExportArchiver {
	return &ExportArchiver{archive: archive}
}

func (a *ExportArchiver) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeArchiveExport, a.ArchiveExportHandler)
}

func (a *ExportArchiver) ArchiveExportHandler(ctx context.Context, t *asynq.Task) error {
	var payload ArchiveExportPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal archive payload: %w: %w", err, asynq.SkipRetry)
	}

	name, err := a.archive.Put(ctx, payload.HubID, payload.Filename, payload.ContentType, payload.Data)
	if err != nil {
		log.Error().Err(err).Str("hub_id", payload.HubID.String()).Str("filename", payload.Filename).Msg("export archive failed")
		return err
	}

	log.Info().Str("hub_id", payload.HubID.String()).Str("object", name).Int("bytes", len(payload.Data)).Msg("export archived")
	return nil
}
