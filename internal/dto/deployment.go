package dto

import (
	"time"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

// DateLayout is the calendar date format accepted on deployment payloads.
const DateLayout = "2006-01-02"

// CandidateRequest describes an outbreak staffing need for the candidate wizard.
type CandidateRequest struct {
	DistrictID            string   `json:"district_id" validate:"required,uuid"`
	OutbreakType          string   `json:"outbreak_type" validate:"required,oneof=COVID-19 Cholera Polio Ebola Other"`
	NumberOfWorkers       int      `json:"number_of_workers" validate:"required,min=1,max=100"`
	RequiredPositions     []string `json:"required_positions"`
	RequiredCompetencies  []string `json:"required_competencies" validate:"omitempty,dive,uuid"`
	StartDate             string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EstimatedDurationDays int      `json:"estimated_duration_days" validate:"min=1,max=365"`
}

// PlanRequest selects candidates and deploys the ranked top N in one call.
type PlanRequest struct {
	CandidateRequest
	Urgency        string  `json:"urgency" validate:"omitempty,oneof=low medium high critical"`
	DeploymentName string  `json:"deployment_name" validate:"max=200"`
	Notes          *string `json:"notes"`
}

// DeploymentAssignment selects one worker for a bulk deployment.
type DeploymentAssignment struct {
	WorkerID string `json:"worker_id" validate:"required,uuid"`
	Role     string `json:"role" validate:"max=100"`
}

// CreateDeploymentsRequest persists deployments for hand-picked candidates.
type CreateDeploymentsRequest struct {
	DistrictID            string                 `json:"district_id" validate:"required,uuid"`
	OutbreakType          string                 `json:"outbreak_type" validate:"required,oneof=COVID-19 Cholera Polio Ebola Other"`
	StartDate             string                 `json:"start_date" validate:"required,datetime=2006-01-02"`
	EstimatedDurationDays int                    `json:"estimated_duration_days" validate:"min=1,max=365"`
	RequiredPositions     []string               `json:"required_positions"`
	Urgency               string                 `json:"urgency" validate:"omitempty,oneof=low medium high critical"`
	DeploymentName        string                 `json:"deployment_name" validate:"max=200"`
	Notes                 *string                `json:"notes"`
	Workers               []DeploymentAssignment `json:"workers" validate:"required,min=1,max=100,dive"`
}

// ArchiveDeploymentsRequest closes every active deployment.
type ArchiveDeploymentsRequest struct {
	CompletionNotes string `json:"completion_notes" validate:"max=2000"`
}

// AvailabilityView is the latest availability shown beside a candidate.
type AvailabilityView struct {
	Status     models.AvailabilityStatus `json:"status"`
	Note       *string                   `json:"note,omitempty"`
	Location   *string                   `json:"location,omitempty"`
	RecordedAt time.Time                 `json:"recorded_at"`
}

// CandidateView is one ranked candidate in the wizard response.
type CandidateView struct {
	ID                 string                   `json:"id"`
	FullName           string                   `json:"full_name"`
	FirstName          string                   `json:"first_name"`
	LastName           string                   `json:"last_name"`
	Phone              string                   `json:"phone"`
	Email              *string                  `json:"email,omitempty"`
	Position           string                   `json:"position"`
	FacilityName       *string                  `json:"facility_name,omitempty"`
	DistrictName       *string                  `json:"district_name,omitempty"`
	OrganizationName   *string                  `json:"organization_name,omitempty"`
	Competencies       []string                 `json:"competencies"`
	LatestAvailability *AvailabilityView        `json:"latest_availability,omitempty"`
	MatchScore         int                      `json:"match_score"`
	Readiness          models.ReadinessTier     `json:"readiness"`
	DistrictMatch      models.DistrictProximity `json:"district_match"`
}

// CandidateResponse is the ranked shortlist for a staffing request.
type CandidateResponse struct {
	Request    CandidateRequest `json:"request"`
	Candidates []CandidateView  `json:"candidates"`
	Requested  int              `json:"requested"`
	Returned   int              `json:"returned"`
	Shortfall  int              `json:"shortfall"`
}

// PlanResponse returns the shortlist together with the deployments created from it.
type PlanResponse struct {
	CandidateResponse
	Deployments []models.Deployment `json:"deployments"`
}

// ArchiveResponse reports how many deployments were archived.
type ArchiveResponse struct {
	ArchivedCount int    `json:"archived_count"`
	Message       string `json:"message"`
}
