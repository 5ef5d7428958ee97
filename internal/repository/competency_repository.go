package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

// CompetencyRepository manages persistence for competencies.
type CompetencyRepository struct {
	db *sqlx.DB
}

// NewCompetencyRepository constructs a CompetencyRepository.
func NewCompetencyRepository(db *sqlx.DB) *CompetencyRepository {
	return &CompetencyRepository{db: db}
}

// List returns competencies ordered by code.
func (r *CompetencyRepository) List(ctx context.Context, filter models.CompetencyFilter) ([]models.Competency, int, error) {
	var cond conditions
	if filter.Search != "" {
		cond.add("(LOWER(code) LIKE $%[1]d OR LOWER(name) LIKE $%[1]d)", likePattern(filter.Search))
	}
	base := cond.where("FROM competencies WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf("SELECT id, code, name, description %s ORDER BY code ASC LIMIT %d OFFSET %d", base, filter.PageSize, offset)
	var items []models.Competency
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list competencies: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count competencies: %w", err)
	}
	return items, total, nil
}

// FindByID fetches a competency by ID.
func (r *CompetencyRepository) FindByID(ctx context.Context, id string) (*models.Competency, error) {
	const query = `SELECT id, code, name, description FROM competencies WHERE id = $1`
	var item models.Competency
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// FindByIDs fetches the competencies with the given IDs.
func (r *CompetencyRepository) FindByIDs(ctx context.Context, ids []string) ([]models.Competency, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	const query = `SELECT id, code, name, description FROM competencies WHERE id = ANY($1) ORDER BY code ASC`
	var items []models.Competency
	if err := r.db.SelectContext(ctx, &items, query, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("find competencies: %w", err)
	}
	return items, nil
}

// Create inserts a new competency.
func (r *CompetencyRepository) Create(ctx context.Context, item *models.Competency) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	const query = `INSERT INTO competencies (id, code, name, description) VALUES (:id, :code, :name, :description)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create competency: %w", err)
	}
	return nil
}

// Update modifies an existing competency.
func (r *CompetencyRepository) Update(ctx context.Context, item *models.Competency) error {
	const query = `UPDATE competencies SET code = :code, name = :name, description = :description WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update competency: %w", err)
	}
	return nil
}

// Delete removes a competency. Trainings referencing it block the delete.
func (r *CompetencyRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM competencies WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete competency: %w", err)
	}
	return nil
}
