package models

import "time"

// Gender values recorded for workers.
const (
	GenderMale   = "male"
	GenderFemale = "female"
)

// DefaultWorkerLanguage is applied when a worker is registered without one.
const DefaultWorkerLanguage = "Chichewa/English"

// HealthcareWorker is a registered clinician or support worker.
type HealthcareWorker struct {
	ID             string    `db:"id" json:"id"`
	NationalID     *string   `db:"national_id" json:"national_id,omitempty"`
	FirstName      string    `db:"first_name" json:"first_name"`
	LastName       string    `db:"last_name" json:"last_name"`
	Phone          string    `db:"phone" json:"phone"`
	Email          *string   `db:"email" json:"email,omitempty"`
	Gender         *string   `db:"gender" json:"gender,omitempty"`
	Disability     bool      `db:"disability" json:"disability"`
	Language       string    `db:"language" json:"language"`
	Position       string    `db:"position" json:"position"`
	IsActive       bool      `db:"is_active" json:"is_active"`
	FacilityID     *string   `db:"facility_id" json:"facility_id,omitempty"`
	OrganizationID *string   `db:"organization_id" json:"organization_id,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// FullName renders "First Last".
func (w HealthcareWorker) FullName() string {
	return w.FirstName + " " + w.LastName
}

// WorkerFilter captures list options for workers.
type WorkerFilter struct {
	Search         string
	DistrictID     string
	FacilityID     string
	OrganizationID string
	Gender         string
	Position       string
	IsActive       *bool
	Paging
}

// CandidateWorker is the denormalised worker view consumed by candidate selection.
type CandidateWorker struct {
	ID                 string  `db:"id" json:"id"`
	FirstName          string  `db:"first_name" json:"first_name"`
	LastName           string  `db:"last_name" json:"last_name"`
	Phone              string  `db:"phone" json:"phone"`
	Email              *string `db:"email" json:"email,omitempty"`
	Position           string  `db:"position" json:"position"`
	IsActive           bool    `db:"is_active" json:"is_active"`
	FacilityName       *string `db:"facility_name" json:"facility_name,omitempty"`
	FacilityDistrictID *string `db:"facility_district_id" json:"facility_district_id,omitempty"`
	DistrictName       *string `db:"district_name" json:"district_name,omitempty"`
	OrganizationName   *string `db:"organization_name" json:"organization_name,omitempty"`
}

// FullName renders "First Last".
func (w CandidateWorker) FullName() string {
	return w.FirstName + " " + w.LastName
}

// CandidateQuery narrows the worker population fetched for selection.
type CandidateQuery struct {
	ActiveOnly    bool
	Positions     []string
	CompetencyIDs []string
}
