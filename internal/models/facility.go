package models

// FacilityType enumerates the kinds of health facility.
type FacilityType string

const (
	FacilityClinic           FacilityType = "clinic"
	FacilityHealthCenter     FacilityType = "health_center"
	FacilityDistrictHospital FacilityType = "district_hospital"
	FacilityCentralHospital  FacilityType = "central_hospital"
	FacilityPrivate          FacilityType = "private"
)

// Facility is a health site within a district.
type Facility struct {
	ID             string       `db:"id" json:"id"`
	Name           string       `db:"name" json:"name"`
	Code           *string      `db:"code" json:"code,omitempty"`
	FacilityType   FacilityType `db:"facility_type" json:"facility_type"`
	DistrictID     string       `db:"district_id" json:"district_id"`
	OrganizationID *string      `db:"organization_id" json:"organization_id,omitempty"`

	DistrictName     string  `db:"district_name" json:"district_name,omitempty"`
	OrganizationName *string `db:"organization_name" json:"organization_name,omitempty"`
}

// FacilityFilter captures list options for facilities.
type FacilityFilter struct {
	Search         string
	DistrictID     string
	OrganizationID string
	FacilityType   string
	Paging
}
