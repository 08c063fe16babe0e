// Package module describes the patient records module to the hub that
// hosts it: identity, menu entry, navigation and permissions.
package module

const (
	ID          = "patient_records"
	Name        = "Patient Records"
	Version     = "1.0.0"
	Icon        = "medical-outline"
	Description = "Patient medical records, treatments and prescriptions"
	Author      = "ERPlora"
	Category    = "specialized"
	MenuOrder   = 90
)

// Navigation ids.
const (
	NavDashboard = "dashboard"
	NavPatients  = "patients"
	NavRecords   = "records"
	NavSettings  = "settings"
)

// Permission codes checked by the hub.
const (
	PermViewPatientRecord   = ID + ".view_patientrecord"
	PermAddPatientRecord    = ID + ".add_patientrecord"
	PermChangePatientRecord = ID + ".change_patientrecord"
	PermViewTreatment       = ID + ".view_treatment"
	PermAddTreatment        = ID + ".add_treatment"
	PermChangeTreatment     = ID + ".change_treatment"
	PermManageSettings      = ID + ".manage_settings"
)

type NavItem struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

type Menu struct {
	Label string `json:"label"`
	Icon  string `json:"icon"`
	Order int    `json:"order"`
}

type Manifest struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Version      string    `json:"version"`
	Icon         string    `json:"icon"`
	Description  string    `json:"description"`
	Author       string    `json:"author"`
	Category     string    `json:"category"`
	Menu         Menu      `json:"menu"`
	Navigation   []NavItem `json:"navigation"`
	Dependencies []string  `json:"dependencies"`
	Permissions  []string  `json:"permissions"`
}

func Navigation() []NavItem {
	return []NavItem{
		{ID: NavDashboard, Label: "Dashboard", Icon: "speedometer-outline"},
		{ID: NavPatients, Label: "Patients", Icon: "medical-outline"},
		{ID: NavRecords, Label: "Records", Icon: "document-text-outline"},
		{ID: NavSettings, Label: "Settings", Icon: "settings-outline"},
	}
}

func Permissions() []string {
	return []string{
		PermViewPatientRecord,
		PermAddPatientRecord,
		PermChangePatientRecord,
		PermViewTreatment,
		PermAddTreatment,
		PermChangeTreatment,
		PermManageSettings,
	}
}

// Describe returns the manifest served to the hub.
func Describe() Manifest {
	return Manifest{
		ID:           ID,
		Name:         Name,
		Version:      Version,
		Icon:         Icon,
		Description:  Description,
		Author:       Author,
		Category:     Category,
		Menu:         Menu{Label: Name, Icon: Icon, Order: MenuOrder},
		Navigation:   Navigation(),
		Dependencies: []string{},
		Permissions:  Permissions(),
	}
}
