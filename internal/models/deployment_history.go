package models

import "time"

// DeploymentHistory is the immutable snapshot written when a deployment is archived.
// Worker and district details are copied so later registry edits do not rewrite history.
type DeploymentHistory struct {
	ID                   string     `db:"id" json:"id"`
	OriginalDeploymentID string     `db:"original_deployment_id" json:"original_deployment_id"`
	WorkerID             string     `db:"worker_id" json:"worker_id"`
	WorkerName           string     `db:"worker_name" json:"worker_name"`
	WorkerPhone          string     `db:"worker_phone" json:"worker_phone"`
	WorkerEmail          *string    `db:"worker_email" json:"worker_email,omitempty"`
	WorkerPosition       string     `db:"worker_position" json:"worker_position"`
	DistrictID           string     `db:"district_id" json:"district_id"`
	DistrictName         string     `db:"district_name" json:"district_name"`
	OutbreakType         string     `db:"outbreak_type" json:"outbreak_type"`
	StartDate            time.Time  `db:"start_date" json:"start_date"`
	EndDate              *time.Time `db:"end_date" json:"end_date,omitempty"`
	Role                 string     `db:"role" json:"role"`
	Urgency              string     `db:"urgency" json:"urgency"`
	DeploymentName       string     `db:"deployment_name" json:"deployment_name"`
	ArchivedBy           *string    `db:"archived_by" json:"archived_by,omitempty"`
	CompletionNotes      string     `db:"completion_notes" json:"completion_notes"`
	ArchivedAt           time.Time  `db:"archived_at" json:"archived_at"`
}

// DeploymentHistoryFilter captures list options for archived deployments.
type DeploymentHistoryFilter struct {
	OutbreakType string
	DistrictID   string
	WorkerID     string
	Search       string
	Paging
}

// ArchiveRequest carries the optional actor and notes for archiving all active deployments.
type ArchiveRequest struct {
	ArchivedBy      *string
	CompletionNotes string
	ArchivedAt      time.Time
}
