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

// PatientRecordHandlers serves the patient list, its form panels and the
// record mutations.
type PatientRecordHandlers struct {
	patientService   services.PatientRecordService
	treatmentService services.TreatmentService
	settingsService  services.SettingsService
}

func NewPatientRecordHandlers(patientService services.PatientRecordService, treatmentService services.TreatmentService, settingsService services.SettingsService) *PatientRecordHandlers {
	return &PatientRecordHandlers{
		patientService:   patientService,
		treatmentService: treatmentService,
		settingsService:  settingsService,
	}
}

// ListPatientRecords renders the list, or streams a download when export is
// a known format.
func (h *PatientRecordHandlers) ListPatientRecords(c echo.Context) error {
	ctx := c.Request().Context()
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}

	params := c.QueryParams()
	q := models.ListQueryFromValues(params)

	if format, ok := export.ParseFormat(params.Get("export")); ok {
		result, err := h.patientService.Export(ctx, hubID, q, format)
		if err != nil {
			return storeFailure(c, err, "failed to export patient records")
		}
		return sendExport(c, result)
	}

	page, effective, err := h.patientService.List(ctx, hubID, q)
	if err != nil {
		return storeFailure(c, err, "failed to list patient records")
	}

	view := models.NormalizeView(params.Get("view"), h.settingsService.Get(ctx, hubID).DefaultView)
	data := listContext("patient_records", page, effective, view)
	if wantsListFragment(c) {
		return renderPartial(c, http.StatusOK, tplPatientRecordsList, data)
	}
	return renderPage(c, http.StatusOK, tplPatientRecordsPage, tplPatientRecordsContent, module.NavPatients, data)
}

func (h *PatientRecordHandlers) renderList(c echo.Context, hubID uuid.UUID) error {
	q := defaultListQuery()
	page, effective, err := h.patientService.List(c.Request().Context(), hubID, q)
	if err != nil {
		return storeFailure(c, err, "failed to list patient records")
	}
	return renderPartial(c, http.StatusOK, tplPatientRecordsList, listContext("patient_records", page, effective, models.ViewTable))
}

func (h *PatientRecordHandlers) AddForm(c echo.Context) error {
	if _, err := sessionHub(c); err != nil {
		return err
	}
	return renderPartial(c, http.StatusOK, tplPatientRecordAdd, map[string]any{})
}

func (h *PatientRecordHandlers) CreatePatientRecord(c echo.Context) error {
	ctx := c.Request().Context()
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}

	record := models.NewPatientRecord(hubID)
	if err := models.PatientRecordSchema.Bind(record, form); err != nil {
		return formFailure(c, err, tplPatientRecordAdd, form, nil)
	}
	if err := h.patientService.Create(ctx, hubID, record); err != nil {
		return formFailure(c, err, tplPatientRecordAdd, form, nil)
	}

	return h.renderList(c, hubID)
}

// EditForm renders the edit panel with the record and its treatments.
func (h *PatientRecordHandlers) EditForm(c echo.Context) error {
	ctx := c.Request().Context()
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	record, err := h.patientService.Get(ctx, hubID, id)
	if err != nil {
		return mutationFailure(c, err)
	}
	treatments, err := h.treatmentService.ListByPatient(ctx, hubID, id)
	if err != nil {
		return storeFailure(c, err, "failed to list patient treatments")
	}

	return renderPartial(c, http.StatusOK, tplPatientRecordEdit, map[string]any{
		"obj":        record,
		"treatments": treatments,
	})
}

func (h *PatientRecordHandlers) UpdatePatientRecord(c echo.Context) error {
	ctx := c.Request().Context()
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	record, err := h.patientService.Get(ctx, hubID, id)
	if err != nil {
		return mutationFailure(c, err)
	}

	form, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid form")
	}
	if err := models.PatientRecordSchema.Bind(record, form); err != nil {
		return formFailure(c, err, tplPatientRecordEdit, form, record)
	}
	if err := h.patientService.Update(ctx, hubID, record); err != nil {
		return formFailure(c, err, tplPatientRecordEdit, form, record)
	}

	return h.renderList(c, hubID)
}

func (h *PatientRecordHandlers) DeletePatientRecord(c echo.Context) error {
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.patientService.Delete(c.Request().Context(), hubID, id); err != nil {
		return mutationFailure(c, err)
	}
	return h.renderList(c, hubID)
}

func (h *PatientRecordHandlers) TogglePatientRecord(c echo.Context) error {
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if _, err := h.patientService.Toggle(c.Request().Context(), hubID, id); err != nil {
		return mutationFailure(c, err)
	}
	return h.renderList(c, hubID)
}

// BulkAction never fails on unknown ids or actions.
func (h *PatientRecordHandlers) BulkAction(c echo.Context) error {
	hubID, err := sessionHub(c)
	if err != nil {
		return err
	}

	req := models.BulkRequest{
		IDs:    models.ParseBulkIDs(c.FormValue("ids")),
		Action: models.BulkAction(c.FormValue("action")),
	}
	if err := h.patientService.BulkAction(c.Request().Context(), hubID, req); err != nil {
		return storeFailure(c, err, "patient records bulk action failed")
	}
	return h.renderList(c, hubID)
}
