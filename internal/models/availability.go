package models

import "time"

// AvailabilityStatus is the self-reported readiness of a worker.
type AvailabilityStatus string

const (
	AvailabilityAvailable   AvailabilityStatus = "available"
	AvailabilityUnavailable AvailabilityStatus = "unavailable"
	AvailabilityDeployed    AvailabilityStatus = "deployed"
	AvailabilityOnLeave     AvailabilityStatus = "on_leave"
)

// AvailabilityRecord is one entry in a worker's append-only availability log.
type AvailabilityRecord struct {
	ID         string             `db:"id" json:"id"`
	WorkerID   string             `db:"worker_id" json:"worker_id"`
	Status     AvailabilityStatus `db:"status" json:"status"`
	Note       *string            `db:"note" json:"note,omitempty"`
	Location   *string            `db:"location" json:"location,omitempty"`
	RecordedAt time.Time          `db:"recorded_at" json:"recorded_at"`

	WorkerName string `db:"worker_name" json:"worker_name,omitempty"`
}

// AvailabilityFilter captures list options for availability records.
type AvailabilityFilter struct {
	WorkerID string
	Status   string
	Paging
}
