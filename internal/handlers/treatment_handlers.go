package handlers

import (
	"net/http"

	"patientrecords/internal/export"
	"patientrecords/internal/models"
	"patientrecords/internal/module"
	"patientrecords/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type TreatmentHandlers struct {
	treatmentService services.TreatmentService
	settingsService  services.SettingsService
}

func NewTreatmentHandlers(treatmentService services.TreatmentService, settingsService services.SettingsService) *TreatmentHandlers {
	return &TreatmentHandlers{
		treatmentService: treatmentService,
		settingsService:  settingsService,
	}
}

func (h *TreatmentHandlers) ListTreatments(c echo.Context) error {
	ctx := c.Request().Context()
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}

	params := c.QueryParams()
	q := models.ListQueryFromValues(params)

	if format, ok := export.ParseFormat(params.Get("export")); ok {
		result, err := h.treatmentService.Export(ctx, hubID, q, format)
		if err != nil {
			return storeFailure(c, err, "failed to export treatments")
		}
		return sendExport(c, result)
	}

	page, effective, err := h.treatmentService.List(ctx, hubID, q)
	if err != nil {
		return storeFailure(c, err, "failed to list treatments")
	}

	view := models.NormalizeView(params.Get("view"), h.settingsService.Get(ctx, hubID).DefaultView)
	data := listContext("treatments", page, effective, view)
	if wantsListFragment(c) {
		return renderPartial(c, http.StatusOK, tplTreatmentsList, data)
	}
	return renderPage(c, http.StatusOK, tplTreatmentsPage, tplTreatmentsContent, module.NavPatients, data)
}

func (h *TreatmentHandlers) renderList(c echo.Context, hubID uuid.UUID) error {
	page, effective, err := h.treatmentService.List(c.Request().Context(), hubID, defaultListQuery())
	if err != nil {
		return storeFailure(c, err, "failed to list treatments")
	}
	return renderPartial(c, http.StatusOK, tplTreatmentsList, listContext("treatments", page, effective, models.ViewTable))
}

func (h *TreatmentHandlers) AddForm(c echo.Context) error {
	if _, err := sessionHub(c); err != nil {
		return err
	}
	return renderPartial(c, http.StatusOK, tplTreatmentAdd, map[string]any{})
}

func (h *TreatmentHandlers) CreateTreatment(c echo.Context) error {
	ctx := c.Request().Context()
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}

	treatment := models.NewTreatment(hubID)
	if err := models.TreatmentSchema.Bind(treatment, form); err != nil {
		return formFailure(c, err, tplTreatmentAdd, form, nil)
	}
	if err := h.treatmentService.Create(ctx, hubID, treatment); err != nil {
		return formFailure(c, err, tplTreatmentAdd, form, nil)
	}

	return h.renderList(c, hubID)
}

func (h *TreatmentHandlers) EditForm(c echo.Context) error {
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	treatment, err := h.treatmentService.Get(c.Request().Context(), hubID, id)
	if err != nil {
		return mutationFailure(c, err)
	}
	return renderPartial(c, http.StatusOK, tplTreatmentEdit, map[string]any{"obj": treatment})
}

func (h *TreatmentHandlers) UpdateTreatment(c echo.Context) error {
	ctx := c.Request().Context()
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	treatment, err := h.treatmentService.Get(ctx, hubID, id)
	if err != nil {
		return mutationFailure(c, err)
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}
	if err := models.TreatmentSchema.Bind(treatment, form); err != nil {
		return formFailure(c, err, tplTreatmentEdit, form, treatment)
	}
	if err := h.treatmentService.Update(ctx, hubID, treatment); err != nil {
		return formFailure(c, err, tplTreatmentEdit, form, treatment)
	}

	return h.renderList(c, hubID)
}

func (h *TreatmentHandlers) DeleteTreatment(c echo.Context) error {
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.treatmentService.Delete(c.Request().Context(), hubID, id); err != nil {
		return mutationFailure(c, err)
	}
	return h.renderList(c, hubID)
}

func (h *TreatmentHandlers) BulkAction(c echo.Context) error {
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}

	req := models.BulkRequest{
		IDs:    models.ParseBulkIDs(c.FormValue("ids")),
		Action: models.BulkAction(c.FormValue("action")),
	}
	if err := h.treatmentService.BulkAction(c.Request().Context(), hubID, req); err != nil {
		return storeFailure(c, err, "treatments bulk action failed")
	}
	return h.renderList(c, hubID)
}
