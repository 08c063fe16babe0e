package services

import (
	"context"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"patientrecords/internal/models"
	"patientrecords/internal/settings"
)

type SettingsService interface {
	// Get never fails: an unreachable store yields the defaults.
	Get(ctx context.Context, hubID uuid.UUID) models.ModuleSettings
	Update(ctx context.Context, hubID uuid.UUID, form url.Values) (models.ModuleSettings, error)
}

type settingsService struct {
	store settings.Store
}

func NewSettingsService(store settings.Store) SettingsService {
	return &settingsService{store: store}
}

func (s *settingsService) Get(ctx context.Context, hubID uuid.UUID) models.ModuleSettings {
	current, err := s.store.Get(ctx, hubID)
	if err != nil {
		log.Warn().Err(err).Str("hub_id", hubID.String()).Msg("failed to load module settings, using defaults")
		return models.DefaultModuleSettings()
	}
	return current
}

func (s *settingsService) Update(ctx context.Context, hubID uuid.UUID, form url.Values) (models.ModuleSettings, error) {
	updated := models.ModuleSettings{
		DefaultView:    strings.TrimSpace(form.Get("default_view")),
		ArchiveExports: form.Get("archive_exports") == "on" || form.Get("archive_exports") == "true",
	}
	if updated.DefaultView == "" {
		updated.DefaultView = models.ViewTable
	}
	if models.NormalizeView(updated.DefaultView, "") == "" {
		verr := models.NewValidationError()
		verr.Add("default_view", invalidChoice)
		return updated, verr
	}

	if err := s.store.Save(ctx, hubID, updated); err != nil {
		return updated, err
	}
	log.Info().Str("hub_id", hubID.String()).Str("default_view", updated.DefaultView).Bool("archive_exports", updated.ArchiveExports).Msg("module settings updated")
	return updated, nil
}
