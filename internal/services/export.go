package services

import (
	"bytes"
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"patientrecords/internal/export"
	"patientrecords/internal/models"
	"patientrecords/internal/settings"
)

// ExportArchiveQueue hands a finished export to the background archiver.
type ExportArchiveQueue interface {
	Enqueue(ctx context.Context, hubID uuid.UUID, filename, contentType string, data []byte) error
}

// ExportResult is a complete export document ready to be downloaded.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
	Rows        int
}

type streamFunc[T any] func(fn func(*T) error) error

// writeExport renders every streamed row through the schema's export columns.
func writeExport[T any](schema *models.Schema[T], format export.Format, base string, stream streamFunc[T]) (*ExportResult, error) {
	var buf bytes.Buffer
	w, err := export.NewWriter(format, &buf)
	if err != nil {
		return nil, err
	}

	_, headers := schema.ExportColumns()
	if err := w.WriteHeader(headers); err != nil {
		return nil, err
	}

	rows := 0
	err = stream(func(item *T) error {
		rows++
		return w.WriteRow(schema.ExportRow(item))
	})
	if err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return &ExportResult{
		Filename:    format.Filename(base),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
		Rows:        rows,
	}, nil
}

// exportArchiver queues a copy of each export for hubs that enabled
// archiving. Failures are logged and never fail the download.
type exportArchiver struct {
	settings settings.Store
	queue    ExportArchiveQueue
}

func (a *exportArchiver) archive(ctx context.Context, hubID uuid.UUID, result *ExportResult) {
	if a == nil || a.queue == nil || a.settings == nil {
		return
	}

	s, err := a.settings.Get(ctx, hubID)
	if err != nil {
		log.Warn().Err(err).Str("hub_id", hubID.String()).Msg("settings unavailable, export not archived")
		return
	}
	if !s.ArchiveExports {
		return
	}

	if err := a.queue.Enqueue(ctx, hubID, result.Filename, result.ContentType, result.Data); err != nil {
		log.Error().Err(err).Str("hub_id", hubID.String()).Str("filename", result.Filename).Msg("failed to queue export archive")
	}
}

type lister[T any] interface {
	Count(ctx context.Context, hubID uuid.UUID, search string) (int, error)
	List(ctx context.Context, hubID uuid.UUID, q models.ListQuery) ([]*T, error)
}

// listPage normalizes raw, clamps the page into range and loads it. The
// effective query is returned for the view context.
func listPage[T any](ctx context.Context, schema *models.Schema[T], repo lister[T], hubID uuid.UUID, raw models.ListQuery) (*models.Page[*T], models.ListQuery, error) {
	q := schema.Normalize(raw)

	total, err := repo.Count(ctx, hubID, q.Search)
	if err != nil {
		return nil, q, err
	}
	q.Page = models.ClampPage(q.Page, models.TotalPages(total, q.PerPage))

	items, err := repo.List(ctx, hubID, q)
	if err != nil {
		return nil, q, err
	}
	return models.NewPage(items, total, q.Page, q.PerPage), q, nil
}
