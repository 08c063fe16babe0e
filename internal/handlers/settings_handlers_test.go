package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"testing"

	"patientrecords/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetSettings(t *testing.T) {
	hubID := uuid.New()
	svc := &MockSettingsService{}
	svc.On("Get", mock.Anything, hubID).Return(models.ModuleSettings{DefaultView: models.ViewCards, ArchiveExports: true})

	c, rec := newContext(hubID, http.MethodGet, "/settings", nil)
	require.NoError(t, NewSettingsHandlers(svc).GetSettings(c))

	view := decodeView(t, rec)
	assert.Equal(t, tplSettingsPage, view.Template)
	assert.Equal(t, "settings", view.Context["current_section"])
	s := view.Context["settings"].(map[string]any)
	assert.Equal(t, "cards", s["default_view"])
	assert.Equal(t, true, s["archive_exports"])
}

func TestUpdateSettings(t *testing.T) {
	hubID := uuid.New()
	form := url.Values{"default_view": {"cards"}}
	svc := &MockSettingsService{}
	svc.On("Update", mock.Anything, hubID, form).Return(models.ModuleSettings{DefaultView: models.ViewCards}, nil)

	c, rec := newContext(hubID, http.MethodPost, "/settings", form)
	require.NoError(t, NewSettingsHandlers(svc).UpdateSettings(htmx(c, "")))

	assert.Equal(t, http.StatusOK, rec.Code)
	view := decodeView(t, rec)
	assert.Equal(t, tplSettingsContent, view.Template)
	assert.Equal(t, true, view.Context["saved"])
}

func TestUpdateSettings_Invalid(t *testing.T) {
	hubID := uuid.New()
	form := url.Values{"default_view": {"kanban"}}
	verr := models.NewValidationError()
	verr.Add("default_view", "Select a valid choice.")
	svc := &MockSettingsService{}
	svc.On("Update", mock.Anything, hubID, form).Return(models.ModuleSettings{DefaultView: "kanban"}, verr)

	c, rec := newContext(hubID, http.MethodPost, "/settings", form)
	require.NoError(t, NewSettingsHandlers(svc).UpdateSettings(c))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	view := decodeView(t, rec)
	assert.Contains(t, view.Context["errors"], "default_view")
	assert.Equal(t, "kanban", view.Context["values"].(map[string]any)["default_view"])
}

func TestUpdateSettings_StoreFailure(t *testing.T) {
	hubID := uuid.New()
	svc := &MockSettingsService{}
	svc.On("Update", mock.Anything, hubID, mock.Anything).Return(models.ModuleSettings{}, errors.New("redis down"))

	c, _ := newContext(hubID, http.MethodPost, "/settings", url.Values{})
	err := NewSettingsHandlers(svc).UpdateSettings(c)
	assert.Equal(t, http.StatusInternalServerError, httpCode(t, err))
}
