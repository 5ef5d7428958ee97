package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

const workerColumns = `w.id, w.national_id, w.first_name, w.last_name, w.phone, w.email, w.gender, w.disability,
	w.language, w.position, w.is_active, w.facility_id, w.organization_id, w.created_at, w.updated_at`

// WorkerRepository manages persistence for healthcare workers.
type WorkerRepository struct {
	db *sqlx.DB
}

// NewWorkerRepository constructs a WorkerRepository.
func NewWorkerRepository(db *sqlx.DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// List returns workers matching filters ordered by last then first name.
func (r *WorkerRepository) List(ctx context.Context, filter models.WorkerFilter) ([]models.HealthcareWorker, int, error) {
	var cond conditions
	if filter.Search != "" {
		cond.add(`(LOWER(w.first_name) LIKE $%[1]d OR LOWER(w.last_name) LIKE $%[1]d
			OR LOWER(w.phone) LIKE $%[1]d OR LOWER(COALESCE(w.national_id, '')) LIKE $%[1]d)`, likePattern(filter.Search))
	}
	if filter.DistrictID != "" {
		cond.add("f.district_id = $%d", filter.DistrictID)
	}
	if filter.FacilityID != "" {
		cond.add("w.facility_id = $%d", filter.FacilityID)
	}
	if filter.OrganizationID != "" {
		cond.add("w.organization_id = $%d", filter.OrganizationID)
	}
	if filter.Gender != "" {
		cond.add("w.gender = $%d", filter.Gender)
	}
	if filter.Position != "" {
		cond.add("LOWER(w.position) LIKE $%d", likePattern(filter.Position))
	}
	if filter.IsActive != nil {
		cond.add("w.is_active = $%d", *filter.IsActive)
	}
	base := cond.where("FROM healthcare_workers w LEFT JOIN facilities f ON f.id = w.facility_id WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf("SELECT %s %s ORDER BY w.last_name ASC, w.first_name ASC LIMIT %d OFFSET %d", workerColumns, base, filter.PageSize, offset)
	var workers []models.HealthcareWorker
	if err := r.db.SelectContext(ctx, &workers, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list workers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count workers: %w", err)
	}
	return workers, total, nil
}

// FindByID fetches a worker by ID.
func (r *WorkerRepository) FindByID(ctx context.Context, id string) (*models.HealthcareWorker, error) {
	query := "SELECT " + workerColumns + " FROM healthcare_workers w WHERE w.id = $1"
	var worker models.HealthcareWorker
	if err := r.db.GetContext(ctx, &worker, query, id); err != nil {
		return nil, err
	}
	return &worker, nil
}

// FindByIDs fetches the workers with the given IDs.
func (r *WorkerRepository) FindByIDs(ctx context.Context, ids []string) ([]models.HealthcareWorker, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := "SELECT " + workerColumns + " FROM healthcare_workers w WHERE w.id = ANY($1)"
	var workers []models.HealthcareWorker
	if err := r.db.SelectContext(ctx, &workers, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find workers: %w", err)
	}
	return workers, nil
}

// FindCandidates returns the denormalised worker view for deployment selection.
// Position patterns match case-insensitively as substrings; competencies match on any held training.
func (r *WorkerRepository) FindCandidates(ctx context.Context, q models.CandidateQuery) ([]models.CandidateWorker, error) {
	var cond conditions
	if q.ActiveOnly {
		cond.add("w.is_active = $%d", true)
	}
	if patterns := positionPatterns(q.Positions); len(patterns) > 0 {
		cond.add("LOWER(w.position) LIKE ANY($%d)", pq.Array(patterns))
	}
	if len(q.CompetencyIDs) > 0 {
		cond.add("EXISTS (SELECT 1 FROM trainings t WHERE t.worker_id = w.id AND t.competency_id = ANY($%d))", pq.Array(q.CompetencyIDs))
	}

	query := cond.where(`SELECT w.id, w.first_name, w.last_name, w.phone, w.email, w.position, w.is_active,
		f.name AS facility_name, f.district_id AS facility_district_id, d.name AS district_name, o.name AS organization_name
		FROM healthcare_workers w
		LEFT JOIN facilities f ON f.id = w.facility_id
		LEFT JOIN districts d ON d.id = f.district_id
		LEFT JOIN organizations o ON o.id = w.organization_id
		WHERE 1=1`) + " ORDER BY w.last_name ASC, w.first_name ASC"

	var workers []models.CandidateWorker
	if err := r.db.SelectContext(ctx, &workers, query, cond.args...); err != nil {
		return nil, fmt.Errorf("find candidate workers: %w", err)
	}
	return workers, nil
}

func positionPatterns(positions []string) []string {
	patterns := make([]string, 0, len(positions))
	for _, p := range positions {
		if strings.TrimSpace(p) == "" {
			continue
		}
		patterns = append(patterns, likePattern(p))
	}
	return patterns
}

// Create inserts a new worker.
func (r *WorkerRepository) Create(ctx context.Context, worker *models.HealthcareWorker) error {
	if worker.ID == "" {
		worker.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if worker.CreatedAt.IsZero() {
		worker.CreatedAt = now
	}
	worker.UpdatedAt = now

	const query = `INSERT INTO healthcare_workers (id, national_id, first_name, last_name, phone, email, gender, disability,
		language, position, is_active, facility_id, organization_id, created_at, updated_at)
		VALUES (:id, :national_id, :first_name, :last_name, :phone, :email, :gender, :disability,
		:language, :position, :is_active, :facility_id, :organization_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, worker); err != nil {
		return fmt.Errorf("create worker: %w", err)
	}
	return nil
}

// Update modifies an existing worker.
func (r *WorkerRepository) Update(ctx context.Context, worker *models.HealthcareWorker) error {
	worker.UpdatedAt = time.Now().UTC()
	const query = `UPDATE healthcare_workers SET national_id = :national_id, first_name = :first_name, last_name = :last_name,
		phone = :phone, email = :email, gender = :gender, disability = :disability, language = :language,
		position = :position, is_active = :is_active, facility_id = :facility_id, organization_id = :organization_id,
		updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, worker); err != nil {
		return fmt.Errorf("update worker: %w", err)
	}
	return nil
}

// Deactivate clears a worker's active flag, removing them from candidate selection.
func (r *WorkerRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE healthcare_workers SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, time.Now().UTC()); err != nil {
		return fmt.Errorf("deactivate worker: %w", err)
	}
	return nil
}
