package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

const deploymentSelect = `SELECT d.id, d.worker_id, d.district_id, d.outbreak_type, d.start_date, d.end_date, d.role, d.status,
	d.urgency, d.deployment_name, d.notes, d.created_at, d.updated_at,
	` + workerNameSQL + ` AS worker_name, w.phone AS worker_phone, di.name AS district_name
	FROM deployments d
	JOIN healthcare_workers w ON w.id = d.worker_id
	JOIN districts di ON di.id = d.district_id`

const historySelect = `SELECT id, original_deployment_id, worker_id, worker_name, worker_phone, worker_email, worker_position,
	district_id, district_name, outbreak_type, start_date, end_date, role, urgency, deployment_name,
	archived_by, completion_notes, archived_at
	FROM deployment_histories`

// DeploymentRepository manages deployments and their archived history.
type DeploymentRepository struct {
	db *sqlx.DB
}

// NewDeploymentRepository constructs a DeploymentRepository.
func NewDeploymentRepository(db *sqlx.DB) *DeploymentRepository {
	return &DeploymentRepository{db: db}
}

func deploymentConditions(filter models.DeploymentFilter) conditions {
	var cond conditions
	if filter.Status != "" {
		cond.add("d.status = $%d", filter.Status)
	}
	if filter.OutbreakType != "" {
		cond.add("d.outbreak_type = $%d", filter.OutbreakType)
	}
	if filter.DistrictID != "" {
		cond.add("d.district_id = $%d", filter.DistrictID)
	}
	if filter.WorkerID != "" {
		cond.add("d.worker_id = $%d", filter.WorkerID)
	}
	if filter.Search != "" {
		cond.add(`(LOWER(w.first_name) LIKE $%[1]d OR LOWER(w.last_name) LIKE $%[1]d
			OR LOWER(d.deployment_name) LIKE $%[1]d OR LOWER(d.role) LIKE $%[1]d)`, likePattern(filter.Search))
	}
	return cond
}

// List returns deployments newest first.
func (r *DeploymentRepository) List(ctx context.Context, filter models.DeploymentFilter) ([]models.Deployment, int, error) {
	cond := deploymentConditions(filter)
	where := cond.where(" WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf("%s%s ORDER BY d.start_date DESC, d.created_at DESC LIMIT %d OFFSET %d", deploymentSelect, where, filter.PageSize, offset)
	var deployments []models.Deployment
	if err := r.db.SelectContext(ctx, &deployments, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list deployments: %w", err)
	}

	countQuery := "SELECT COUNT(*) FROM deployments d JOIN healthcare_workers w ON w.id = d.worker_id" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count deployments: %w", err)
	}
	return deployments, total, nil
}

// ListAll returns every deployment matching the filter, ignoring paging. Used by exports.
func (r *DeploymentRepository) ListAll(ctx context.Context, filter models.DeploymentFilter) ([]models.Deployment, error) {
	cond := deploymentConditions(filter)
	query := deploymentSelect + cond.where(" WHERE 1=1") + " ORDER BY di.name ASC, w.last_name ASC, w.first_name ASC"
	var deployments []models.Deployment
	if err := r.db.SelectContext(ctx, &deployments, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list deployments for export: %w", err)
	}
	return deployments, nil
}

// FindByID fetches a deployment by ID.
func (r *DeploymentRepository) FindByID(ctx context.Context, id string) (*models.Deployment, error) {
	var deployment models.Deployment
	if err := r.db.GetContext(ctx, &deployment, deploymentSelect+" WHERE d.id = $1", id); err != nil {
		return nil, err
	}
	return &deployment, nil
}

// CreateBatch inserts all deployments atomically.
func (r *DeploymentRepository) CreateBatch(ctx context.Context, deployments []models.Deployment) (err error) {
	if len(deployments) == 0 {
		return nil
	}
	now := time.Now().UTC()
	for i := range deployments {
		if deployments[i].ID == "" {
			deployments[i].ID = uuid.NewString()
		}
		if deployments[i].Status == "" {
			deployments[i].Status = models.DeploymentActive
		}
		deployments[i].CreatedAt = now
		deployments[i].UpdatedAt = now
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin deployment transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO deployments (id, worker_id, district_id, outbreak_type, start_date, end_date, role, status,
		urgency, deployment_name, notes, created_at, updated_at)
		VALUES (:id, :worker_id, :district_id, :outbreak_type, :start_date, :end_date, :role, :status,
		:urgency, :deployment_name, :notes, :created_at, :updated_at)`
	for i := range deployments {
		if _, err = tx.NamedExecContext(ctx, query, &deployments[i]); err != nil {
			return fmt.Errorf("insert deployment for worker %s: %w", deployments[i].WorkerID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit deployments: %w", err)
	}
	return nil
}

// Stats counts deployments per status.
func (r *DeploymentRepository) Stats(ctx context.Context) (*models.DeploymentStats, error) {
	const query = `SELECT
		COUNT(*) FILTER (WHERE status = 'active') AS active,
		COUNT(*) FILTER (WHERE status = 'archived') AS archived,
		COUNT(*) AS total
		FROM deployments`
	var stats models.DeploymentStats
	if err := r.db.GetContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("deployment stats: %w", err)
	}
	return &stats, nil
}

// ArchiveAllActive snapshots every active deployment into deployment_histories and marks it archived.
// The active set is row-locked for the duration; any failure rolls back every row.
func (r *DeploymentRepository) ArchiveAllActive(ctx context.Context, req models.ArchiveRequest) (count int, err error) {
	archivedAt := req.ArchivedAt
	if archivedAt.IsZero() {
		archivedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin archive transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const lockQuery = `SELECT d.id AS original_deployment_id, d.worker_id, d.district_id, d.outbreak_type, d.start_date, d.end_date,
		d.role, d.urgency, d.deployment_name,
		` + workerNameSQL + ` AS worker_name, w.phone AS worker_phone, w.email AS worker_email,
		w.position AS worker_position, di.name AS district_name
		FROM deployments d
		JOIN healthcare_workers w ON w.id = d.worker_id
		JOIN districts di ON di.id = d.district_id
		WHERE d.status = 'active'
		ORDER BY d.start_date ASC, d.id ASC
		FOR UPDATE OF d`
	var snapshots []models.DeploymentHistory
	if err = tx.SelectContext(ctx, &snapshots, lockQuery); err != nil {
		return 0, fmt.Errorf("lock active deployments: %w", err)
	}
	if len(snapshots) == 0 {
		if err = tx.Commit(); err != nil {
			return 0, fmt.Errorf("commit empty archive: %w", err)
		}
		return 0, nil
	}

	ids := make([]string, len(snapshots))
	const insertQuery = `INSERT INTO deployment_histories (id, original_deployment_id, worker_id, worker_name, worker_phone,
		worker_email, worker_position, district_id, district_name, outbreak_type, start_date, end_date, role, urgency,
		deployment_name, archived_by, completion_notes, archived_at)
		VALUES (:id, :original_deployment_id, :worker_id, :worker_name, :worker_phone, :worker_email, :worker_position,
		:district_id, :district_name, :outbreak_type, :start_date, :end_date, :role, :urgency, :deployment_name,
		:archived_by, :completion_notes, :archived_at)`
	for i := range snapshots {
		snapshots[i].ID = uuid.NewString()
		snapshots[i].ArchivedBy = req.ArchivedBy
		snapshots[i].CompletionNotes = req.CompletionNotes
		snapshots[i].ArchivedAt = archivedAt
		ids[i] = snapshots[i].OriginalDeploymentID
		if _, err = tx.NamedExecContext(ctx, insertQuery, &snapshots[i]); err != nil {
			return 0, fmt.Errorf("insert deployment history for %s: %w", snapshots[i].OriginalDeploymentID, err)
		}
	}

	const updateQuery = `UPDATE deployments SET status = 'archived', updated_at = $1 WHERE id = ANY($2) AND status = 'active'`
	res, err := tx.ExecContext(ctx, updateQuery, archivedAt, pq.Array(ids))
	if err != nil {
		return 0, fmt.Errorf("mark deployments archived: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("archived rows affected: %w", err)
	}
	if int(affected) != len(ids) {
		err = fmt.Errorf("archived %d of %d locked deployments", affected, len(ids))
		return 0, err
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit archive: %w", err)
	}
	return len(ids), nil
}

func historyConditions(filter models.DeploymentHistoryFilter) conditions {
	var cond conditions
	if filter.OutbreakType != "" {
		cond.add("outbreak_type = $%d", filter.OutbreakType)
	}
	if filter.DistrictID != "" {
		cond.add("district_id = $%d", filter.DistrictID)
	}
	if filter.WorkerID != "" {
		cond.add("worker_id = $%d", filter.WorkerID)
	}
	if filter.Search != "" {
		cond.add("(LOWER(worker_name) LIKE $%[1]d OR LOWER(deployment_name) LIKE $%[1]d OR LOWER(district_name) LIKE $%[1]d)", likePattern(filter.Search))
	}
	return cond
}

// ListHistory returns archived deployment snapshots, most recently archived first.
func (r *DeploymentRepository) ListHistory(ctx context.Context, filter models.DeploymentHistoryFilter) ([]models.DeploymentHistory, int, error) {
	cond := historyConditions(filter)
	where := cond.where(" WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf("%s%s ORDER BY archived_at DESC, start_date DESC LIMIT %d OFFSET %d", historySelect, where, filter.PageSize, offset)
	var items []models.DeploymentHistory
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list deployment history: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM deployment_histories"+where, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count deployment history: %w", err)
	}
	return items, total, nil
}

// ListAllHistory returns every archived snapshot matching the filter. Used by exports.
func (r *DeploymentRepository) ListAllHistory(ctx context.Context, filter models.DeploymentHistoryFilter) ([]models.DeploymentHistory, error) {
	cond := historyConditions(filter)
	query := historySelect + cond.where(" WHERE 1=1") + " ORDER BY archived_at DESC, start_date DESC"
	var items []models.DeploymentHistory
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, fmt.Errorf("list deployment history for export: %w", err)
	}
	return items, nil
}

// FindHistoryByID fetches an archived snapshot by ID.
func (r *DeploymentRepository) FindHistoryByID(ctx context.Context, id string) (*models.DeploymentHistory, error) {
	var item models.DeploymentHistory
	if err := r.db.GetContext(ctx, &item, historySelect+" WHERE id = $1", id); err != nil {
		return nil, err
	}
	return &item, nil
}
