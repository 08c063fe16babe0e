package background

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/rs/zerolog/log"

	"patientrecords/internal/storage"
)

const archivePruneInterval = time.Hour

// JobScheduler runs the module's periodic maintenance jobs.
type JobScheduler struct {
	scheduler gocron.Scheduler
	archive   storage.ExportArchive
	retention time.Duration
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler registers the archive prune job when an archive is
// configured. A nil archive yields a scheduler without jobs.
func NewJobScheduler(archive storage.ExportArchive, retention time.Duration) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	js := &JobScheduler{
		scheduler: scheduler,
		archive:   archive,
		retention: retention,
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}
	js.registerJobs()
	return js, nil
}

func (js *JobScheduler) Start() {
	log.Info().Int("jobs", js.JobCount()).Msg("starting background job scheduler")
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	log.Info().Msg("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) JobCount() int {
	js.mu.RLock()
	defer js.mu.RUnlock()
	return len(js.jobs)
}

func (js *JobScheduler) registerJobs() {
	if js.archive == nil || js.retention <= 0 {
		return
	}

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(archivePruneInterval),
		gocron.NewTask(js.pruneExportArchive, context.Background()),
		gocron.WithName("export-archive-prune"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Error().Err(err).Msg("failed to create export archive prune job")
		return
	}

	js.mu.Lock()
	js.jobs["export-archive-prune"] = job
	js.mu.Unlock()
}

// pruneExportArchive deletes archived exports older than the retention.
func (js *JobScheduler) pruneExportArchive(ctx context.Context) error {
	cutoff := js.now().Add(-js.retention)
	removed, err := js.archive.Prune(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("export archive prune failed")
		return err
	}
	log.Info().Int("removed", removed).Time("cutoff", cutoff).Msg("export archive pruned")
	return nil
}
