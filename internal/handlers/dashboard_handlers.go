package handlers

import (
	"net/http"

	"patientrecords/internal/module"
	"patientrecords/internal/services"

	"github.com/labstack/echo/v4"
)

type DashboardHandlers struct {
	dashboardService services.DashboardService
}

func NewDashboardHandlers(dashboardService services.DashboardService) *DashboardHandlers {
	return &DashboardHandlers{dashboardService: dashboardService}
}

// Dashboard shows the hub's live patient and treatment counts. nav selects
// the highlighted navigation entry, since the dashboard is also reachable
// as "records".
func (h *DashboardHandlers) Dashboard(nav string) echo.HandlerFunc {
	return func(c echo.Context) error {
		hubID, err := sessionHub(c)
		if err != nil {
			return err
		}

		summary, err := h.dashboardService.Summary(c.Request().Context(), hubID)
		if err != nil {
			return storeFailure(c, err, "failed to load dashboard")
		}

		return renderPage(c, http.StatusOK, tplDashboardPage, tplDashboardContent, nav, map[string]any{
			"total_patient_records": summary.TotalPatientRecords,
			"total_treatments":      summary.TotalTreatments,
		})
	}
}

// Manifest describes the module to the hub.
func Manifest(c echo.Context) error {
	return c.JSON(http.StatusOK, module.Describe())
}
