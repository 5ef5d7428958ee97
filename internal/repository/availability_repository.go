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

// AvailabilityRepository reads and appends worker availability records. Records are never updated.
type AvailabilityRepository struct {
	db *sqlx.DB
}

// NewAvailabilityRepository constructs an AvailabilityRepository.
func NewAvailabilityRepository(db *sqlx.DB) *AvailabilityRepository {
	return &AvailabilityRepository{db: db}
}

// List returns availability records newest first.
func (r *AvailabilityRepository) List(ctx context.Context, filter models.AvailabilityFilter) ([]models.AvailabilityRecord, int, error) {
	var cond conditions
	if filter.WorkerID != "" {
		cond.add("a.worker_id = $%d", filter.WorkerID)
	}
	if filter.Status != "" {
		cond.add("a.status = $%d", filter.Status)
	}
	base := cond.where("FROM availability_records a JOIN healthcare_workers w ON w.id = a.worker_id WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf(`SELECT a.id, a.worker_id, a.status, a.note, a.location, a.recorded_at,
		%s AS worker_name %s ORDER BY a.recorded_at DESC LIMIT %d OFFSET %d`, workerNameSQL, base, filter.PageSize, offset)
	var records []models.AvailabilityRecord
	if err := r.db.SelectContext(ctx, &records, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list availability: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count availability: %w", err)
	}
	return records, total, nil
}

// Latest returns the most recent availability record for a worker.
func (r *AvailabilityRepository) Latest(ctx context.Context, workerID string) (*models.AvailabilityRecord, error) {
	const query = `SELECT id, worker_id, status, note, location, recorded_at FROM availability_records
		WHERE worker_id = $1 ORDER BY recorded_at DESC, id DESC LIMIT 1`
	var record models.AvailabilityRecord
	if err := r.db.GetContext(ctx, &record, query, workerID); err != nil {
		return nil, err
	}
	return &record, nil
}

// LatestForWorkers returns the most recent record per worker. Workers without records are absent.
func (r *AvailabilityRepository) LatestForWorkers(ctx context.Context, workerIDs []string) ([]models.AvailabilityRecord, error) {
	if len(workerIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT DISTINCT ON (worker_id) id, worker_id, status, note, location, recorded_at
		FROM availability_records WHERE worker_id = ANY($1)
		ORDER BY worker_id, recorded_at DESC, id DESC`
	var records []models.AvailabilityRecord
	if err := r.db.SelectContext(ctx, &records, query, pq.Array(workerIDs)); err != nil {
		return nil, fmt.Errorf("latest availability: %w", err)
	}
	return records, nil
}

// Create appends an availability record.
func (r *AvailabilityRepository) Create(ctx context.Context, record *models.AvailabilityRecord) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}
	const query = `INSERT INTO availability_records (id, worker_id, status, note, location, recorded_at)
		VALUES (:id, :worker_id, :status, :note, :location, :recorded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create availability: %w", err)
	}
	return nil
}
