package handlers

import (
	"net/http"

	"patientrecords/internal/models"
	"patientrecords/internal/module"
	"patientrecords/internal/services"

	"github.com/labstack/echo/v4"
)

type SettingsHandlers struct {
	settingsService services.SettingsService
}

func NewSettingsHandlers(settingsService services.SettingsService) *SettingsHandlers {
	return &SettingsHandlers{settingsService: settingsService}
}

func (h *SettingsHandlers) GetSettings(c echo.Context) error {
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}

	current := h.settingsService.Get(c.Request().Context(), hubID)
	return renderPage(c, http.StatusOK, tplSettingsPage, tplSettingsContent, module.NavSettings, map[string]any{
		"settings":     current,
		"view_choices": []string{models.ViewTable, models.ViewCards},
	})
}

func (h *SettingsHandlers) UpdateSettings(c echo.Context) error {
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}

	updated, err := h.settingsService.Update(c.Request().Context(), hubID, form)
	if verr, ok := models.IsValidationError(err); ok {
		return renderPage(c, http.StatusUnprocessableEntity, tplSettingsPage, tplSettingsContent, module.NavSettings, map[string]any{
			"settings":     updated,
			"view_choices": []string{models.ViewTable, models.ViewCards},
			"errors":       verr.Errors,
			"values":       submittedValues(form),
		})
	}
	if err != nil {
		return storeFailure(c, err, "failed to save module settings")
	}

	return renderPage(c, http.StatusOK, tplSettingsPage, tplSettingsContent, module.NavSettings, map[string]any{
		"settings":     updated,
		"view_choices": []string{models.ViewTable, models.ViewCards},
		"saved":        true,
	})
}
