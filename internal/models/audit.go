package models

import "time"

// Audit actions recorded for coordinator writes and certificate downloads.
const (
	AuditActionDeploymentCreate    = "DEPLOYMENT_CREATE"
	AuditActionDeploymentPlan      = "DEPLOYMENT_PLAN"
	AuditActionDeploymentArchive   = "DEPLOYMENT_ARCHIVE"
	AuditActionCovidSync           = "COVID_SYNC"
	AuditActionCertificateUpload   = "CERTIFICATE_UPLOAD"
	AuditActionCertificateDownload = "CERTIFICATE_DOWNLOAD"
)

// AuditLog is one row of the operator audit trail.
type AuditLog struct {
	ID         string    `db:"id" json:"id"`
	UserID     *string   `db:"user_id" json:"user_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	Details    string    `db:"details" json:"details,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
