package models

import "time"

// DeploymentStatus tracks the lifecycle of a deployment.
type DeploymentStatus string

const (
	DeploymentActive   DeploymentStatus = "active"
	DeploymentArchived DeploymentStatus = "archived"
)

// Outbreak types accepted by the deployment wizard.
const (
	OutbreakCOVID19 = "COVID-19"
	OutbreakCholera = "Cholera"
	OutbreakPolio   = "Polio"
	OutbreakEbola   = "Ebola"
	OutbreakOther   = "Other"
)

// Urgency levels attached to a deployment plan.
const (
	UrgencyLow      = "low"
	UrgencyMedium   = "medium"
	UrgencyHigh     = "high"
	UrgencyCritical = "critical"
)

// DefaultDeploymentRole is used when neither a requested nor a worker position is known.
const DefaultDeploymentRole = "Healthcare Worker"

// Deployment assigns a worker to an outbreak response in a district.
type Deployment struct {
	ID             string           `db:"id" json:"id"`
	WorkerID       string           `db:"worker_id" json:"worker_id"`
	DistrictID     string           `db:"district_id" json:"district_id"`
	OutbreakType   string           `db:"outbreak_type" json:"outbreak_type"`
	StartDate      time.Time        `db:"start_date" json:"start_date"`
	EndDate        *time.Time       `db:"end_date" json:"end_date,omitempty"`
	Role           string           `db:"role" json:"role"`
	Status         DeploymentStatus `db:"status" json:"status"`
	Urgency        string           `db:"urgency" json:"urgency"`
	DeploymentName string           `db:"deployment_name" json:"deployment_name"`
	Notes          *string          `db:"notes" json:"notes,omitempty"`
	CreatedAt      time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at" json:"updated_at"`

	WorkerName   string `db:"worker_name" json:"worker_name,omitempty"`
	WorkerPhone  string `db:"worker_phone" json:"worker_phone,omitempty"`
	DistrictName string `db:"district_name" json:"district_name,omitempty"`
}

// DeploymentFilter captures list options for deployments.
type DeploymentFilter struct {
	Status       string
	OutbreakType string
	DistrictID   string
	WorkerID     string
	Search       string
	Paging
}

// DeploymentStats summarises the deployment table by status.
type DeploymentStats struct {
	Active   int `db:"active" json:"active"`
	Archived int `db:"archived" json:"archived"`
	Total    int `db:"total" json:"total"`
}
