package dto

// FacilityRequest creates or updates a facility.
type FacilityRequest struct {
	Name           string  `json:"name" validate:"required,max=200"`
	Code           *string `json:"code" validate:"omitempty,max=50"`
	FacilityType   string  `json:"facility_type" validate:"required,oneof=clinic health_center district_hospital central_hospital private"`
	DistrictID     string  `json:"district_id" validate:"required,uuid"`
	OrganizationID *string `json:"organization_id" validate:"omitempty,uuid"`
}

// WorkerRequest creates or updates a healthcare worker.
type WorkerRequest struct {
	NationalID     *string `json:"national_id" validate:"omitempty,max=50"`
	FirstName      string  `json:"first_name" validate:"required,max=100"`
	LastName       string  `json:"last_name" validate:"required,max=100"`
	Phone          string  `json:"phone" validate:"required,max=50"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Gender         *string `json:"gender" validate:"omitempty,oneof=male female"`
	Disability     bool    `json:"disability"`
	Language       string  `json:"language" validate:"max=100"`
	Position       string  `json:"position" validate:"required,max=100"`
	IsActive       *bool   `json:"is_active"`
	FacilityID     *string `json:"facility_id" validate:"omitempty,uuid"`
	OrganizationID *string `json:"organization_id" validate:"omitempty,uuid"`
}

// TrainingRequest records a completed training.
type TrainingRequest struct {
	WorkerID      string  `json:"worker_id" validate:"required,uuid"`
	CompetencyID  string  `json:"competency_id" validate:"required,uuid"`
	Provider      string  `json:"provider" validate:"max=200"`
	DateCompleted string  `json:"date_completed" validate:"required,datetime=2006-01-02"`
	ValidUntil    *string `json:"valid_until" validate:"omitempty,datetime=2006-01-02"`
}

// AvailabilityRequest appends an availability record.
type AvailabilityRequest struct {
	WorkerID string  `json:"worker_id" validate:"required,uuid"`
	Status   string  `json:"status" validate:"required,oneof=available unavailable deployed on_leave"`
	Note     *string `json:"note" validate:"omitempty,max=500"`
	Location *string `json:"location" validate:"omitempty,max=200"`
}

// CertificateURLResponse carries a signed, expiring certificate download link.
type CertificateURLResponse struct {
	TrainingID  string `json:"training_id"`
	DownloadURL string `json:"download_url"`
	ExpiresAt   string `json:"expires_at"`
}
