package models

// View modes of the list pages.
const (
	ViewTable = "table"
	ViewCards = "cards"
)

// ModuleSettings are the per-hub preferences edited on the settings page.
type ModuleSettings struct {
	DefaultView    string `json:"default_view"`
	ArchiveExports bool   `json:"archive_exports"`
}

func DefaultModuleSettings() ModuleSettings {
	return ModuleSettings{DefaultView: ViewTable}
}

// NormalizeView returns view when it is a known mode, otherwise fallback.
func NormalizeView(view, fallback string) string {
	switch view {
	case ViewTable, ViewCards:
		return view
	}
	return fallback
}

// DashboardSummary holds the non-deleted row counts of a hub.
type DashboardSummary struct {
	TotalPatientRecords int `json:"total_patient_records"`
	TotalTreatments     int `json:"total_treatments"`
}
