package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"patientrecords/internal/common"
	"patientrecords/internal/models"
	"patientrecords/internal/module"
	"patientrecords/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// View is handed to the view layer, which owns the templates.
type View struct {
	Template string         `json:"template"`
	Partial  bool           `json:"partial"`
	Context  map[string]any `json:"context"`
}

const listTarget = "datatable-body"

const (
	tplDashboardPage    = "patient_records/pages/index.html"
	tplDashboardContent = "patient_records/partials/dashboard_content.html"

	tplPatientRecordsPage    = "patient_records/pages/patient_records.html"
	tplPatientRecordsContent = "patient_records/partials/patient_records_content.html"
	tplPatientRecordsList    = "patient_records/partials/patient_records_list.html"
	tplPatientRecordAdd      = "patient_records/partials/panel_patient_record_add.html"
	tplPatientRecordEdit     = "patient_records/partials/panel_patient_record_edit.html"

	tplTreatmentsPage    = "patient_records/pages/treatments.html"
	tplTreatmentsContent = "patient_records/partials/treatments_content.html"
	tplTreatmentsList    = "patient_records/partials/treatments_list.html"
	tplTreatmentAdd      = "patient_records/partials/panel_treatment_add.html"
	tplTreatmentEdit     = "patient_records/partials/panel_treatment_edit.html"

	tplSettingsPage    = "patient_records/pages/settings.html"
	tplSettingsContent = "patient_records/partials/settings_content.html"
)

func isHTMX(c echo.Context) bool {
	return c.Request().Header.Get("HX-Request") == "true"
}

func wantsListFragment(c echo.Context) bool {
	return isHTMX(c) && c.Request().Header.Get("HX-Target") == listTarget
}

// renderPage answers HTMX requests with the content partial and everything
// else with the full page. Both carry the module navigation.
func renderPage(c echo.Context, status int, page, content, nav string, data map[string]any) error {
	data["module_id"] = module.ID
	data["navigation"] = module.Navigation()
	data["current_section"] = nav

	if isHTMX(c) {
		return c.JSON(status, View{Template: content, Partial: true, Context: data})
	}
	return c.JSON(status, View{Template: page, Context: data})
}

func renderPartial(c echo.Context, status int, template string, data map[string]any) error {
	return c.JSON(status, View{Template: template, Partial: true, Context: data})
}

func listContext[T any](key string, page *models.Page[T], q models.ListQuery, view string) map[string]any {
	return map[string]any{
		key:            page,
		"page_obj":     page,
		"search_query": q.Search,
		"sort_field":   q.SortField,
		"sort_dir":     q.SortDir,
		"current_view": view,
		"per_page":     q.PerPage,
	}
}

// defaultListQuery is the list state a mutation re-renders with.
func defaultListQuery() models.ListQuery {
	return models.ListQuery{Page: 1, PerPage: models.DefaultPerPage}
}

func sendExport(c echo.Context, result *services.ExportResult) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", result.Filename))
	return c.Blob(http.StatusOK, result.ContentType, result.Data)
}

func sessionHub(c echo.Context) (uuid.UUID, error) {
	hubID, ok := common.GetHubIDFromContext(c.Request().Context())
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "Hub not found")
	}
	return hubID, nil
}

// pathID treats a malformed id like a missing row.
func pathID(c echo.Context) (uuid.UUID, error) {
	id, ok := common.ParseID(c.Param("id"))
	if !ok {
		return uuid.Nil, errNotFound()
	}
	return id, nil
}

func errNotFound() error {
	return echo.NewHTTPError(http.StatusNotFound, "Not found")
}

func storeFailure(c echo.Context, err error, msg string) error {
	log.Error().Err(err).Str("path", c.Path()).Msg(msg)
	return echo.NewHTTPError(http.StatusInternalServerError, "Internal server error")
}

// formFailure maps a create/update error. Validation errors re-render the
// form panel with every submitted value.
func formFailure(c echo.Context, err error, template string, form url.Values, obj any) error {
	if verr, ok := models.IsValidationError(err); ok {
		data := map[string]any{
			"errors": verr.Errors,
			"values": submittedValues(form),
		}
		if obj != nil {
			data["obj"] = obj
		}
		return renderPartial(c, http.StatusUnprocessableEntity, template, data)
	}
	if errors.Is(err, models.ErrNotFound) {
		return errNotFound()
	}
	return storeFailure(c, err, "failed to save form")
}

func submittedValues(form url.Values) map[string]string {
	values := make(map[string]string, len(form))
	for k := range form {
		values[k] = form.Get(k)
	}
	return values
}

func mutationFailure(c echo.Context, err error) error {
	if errors.Is(err, models.ErrNotFound) {
		return errNotFound()
	}
	return storeFailure(c, err, "mutation failed")
}
