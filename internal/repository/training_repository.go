package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

const trainingSelect = `SELECT t.id, t.worker_id, t.competency_id, t.provider, t.date_completed, t.valid_until, t.certificate_path,
	` + workerNameSQL + ` AS worker_name, c.name AS competency_name
	FROM trainings t
	JOIN healthcare_workers w ON w.id = t.worker_id
	JOIN competencies c ON c.id = t.competency_id`

// TrainingRepository manages persistence for trainings.
type TrainingRepository struct {
	db *sqlx.DB
}

// NewTrainingRepository constructs a TrainingRepository.
func NewTrainingRepository(db *sqlx.DB) *TrainingRepository {
	return &TrainingRepository{db: db}
}

// List returns trainings newest first.
func (r *TrainingRepository) List(ctx context.Context, filter models.TrainingFilter) ([]models.Training, int, error) {
	var cond conditions
	if filter.WorkerID != "" {
		cond.add("t.worker_id = $%d", filter.WorkerID)
	}
	if filter.CompetencyID != "" {
		cond.add("t.competency_id = $%d", filter.CompetencyID)
	}
	if filter.Provider != "" {
		cond.add("LOWER(t.provider) LIKE $%d", likePattern(filter.Provider))
	}
	where := cond.where(" WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf("%s%s ORDER BY t.date_completed DESC LIMIT %d OFFSET %d", trainingSelect, where, filter.PageSize, offset)
	var trainings []models.Training
	if err := r.db.SelectContext(ctx, &trainings, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list trainings: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM trainings t"+where, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count trainings: %w", err)
	}
	return trainings, total, nil
}

// FindByID fetches a training by ID.
func (r *TrainingRepository) FindByID(ctx context.Context, id string) (*models.Training, error) {
	var training models.Training
	if err := r.db.GetContext(ctx, &training, trainingSelect+" WHERE t.id = $1", id); err != nil {
		return nil, err
	}
	return &training, nil
}

// ListForWorkers returns the competencies held by each of the given workers.
func (r *TrainingRepository) ListForWorkers(ctx context.Context, workerIDs []string) ([]models.WorkerTraining, error) {
	if len(workerIDs) == 0 {
		return nil, nil
	}
	const query = `SELECT DISTINCT t.worker_id, t.competency_id, c.name AS competency_name
		FROM trainings t JOIN competencies c ON c.id = t.competency_id
		WHERE t.worker_id = ANY($1)
		ORDER BY t.worker_id, c.name`
	var rows []models.WorkerTraining
	if err := r.db.SelectContext(ctx, &rows, query, pq.Array(workerIDs)); err != nil {
		return nil, fmt.Errorf("list worker trainings: %w", err)
	}
	return rows, nil
}

// Create inserts a new training.
func (r *TrainingRepository) Create(ctx context.Context, training *models.Training) error {
	if training.ID == "" {
		training.ID = uuid.NewString()
	}
	const query = `INSERT INTO trainings (id, worker_id, competency_id, provider, date_completed, valid_until, certificate_path)
		VALUES (:id, :worker_id, :competency_id, :provider, :date_completed, :valid_until, :certificate_path)`
	if _, err := r.db.NamedExecContext(ctx, query, training); err != nil {
		return fmt.Errorf("create training: %w", err)
	}
	return nil
}

// Update modifies an existing training.
func (r *TrainingRepository) Update(ctx context.Context, training *models.Training) error {
	const query = `UPDATE trainings SET worker_id = :worker_id, competency_id = :competency_id, provider = :provider,
		date_completed = :date_completed, valid_until = :valid_until WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, training); err != nil {
		return fmt.Errorf("update training: %w", err)
	}
	return nil
}

// SetCertificate records the stored certificate path for a training.
func (r *TrainingRepository) SetCertificate(ctx context.Context, id, path string) error {
	if _, err := r.db.ExecContext(ctx, `UPDATE trainings SET certificate_path = $2 WHERE id = $1`, id, path); err != nil {
		return fmt.Errorf("set training certificate: %w", err)
	}
	return nil
}

// Delete removes a training.
func (r *TrainingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM trainings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete training: %w", err)
	}
	return nil
}
