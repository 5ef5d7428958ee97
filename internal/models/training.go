package models

import "time"

// Training records a competency a worker completed.
type Training struct {
	ID              string     `db:"id" json:"id"`
	WorkerID        string     `db:"worker_id" json:"worker_id"`
	CompetencyID    string     `db:"competency_id" json:"competency_id"`
	Provider        string     `db:"provider" json:"provider"`
	DateCompleted   time.Time  `db:"date_completed" json:"date_completed"`
	ValidUntil      *time.Time `db:"valid_until" json:"valid_until,omitempty"`
	CertificatePath *string    `db:"certificate_path" json:"-"`

	WorkerName     string `db:"worker_name" json:"worker_name,omitempty"`
	CompetencyName string `db:"competency_name" json:"competency_name,omitempty"`
	HasCertificate bool   `db:"-" json:"has_certificate"`
}

// TrainingFilter captures list options for trainings.
type TrainingFilter struct {
	WorkerID     string
	CompetencyID string
	Provider     string
	Paging
}

// WorkerTraining is the slim competency view used by candidate scoring.
type WorkerTraining struct {
	WorkerID       string `db:"worker_id"`
	CompetencyID   string `db:"competency_id"`
	CompetencyName string `db:"competency_name"`
}
