package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

// DistrictRepository manages persistence for districts.
type DistrictRepository struct {
	db *sqlx.DB
}

// NewDistrictRepository constructs a DistrictRepository.
func NewDistrictRepository(db *sqlx.DB) *DistrictRepository {
	return &DistrictRepository{db: db}
}

// List returns districts ordered by name along with the total count.
func (r *DistrictRepository) List(ctx context.Context, filter models.DistrictFilter) ([]models.District, int, error) {
	var cond conditions
	if filter.Search != "" {
		cond.add("(LOWER(name) LIKE $%[1]d OR LOWER(code) LIKE $%[1]d)", likePattern(filter.Search))
	}
	base := cond.where("FROM districts WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf("SELECT id, code, name %s ORDER BY name ASC LIMIT %d OFFSET %d", base, filter.PageSize, offset)
	var districts []models.District
	if err := r.db.SelectContext(ctx, &districts, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list districts: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count districts: %w", err)
	}
	return districts, total, nil
}

// FindByID fetches a district by ID.
func (r *DistrictRepository) FindByID(ctx context.Context, id string) (*models.District, error) {
	const query = `SELECT id, code, name FROM districts WHERE id = $1`
	var district models.District
	if err := r.db.GetContext(ctx, &district, query, id); err != nil {
		return nil, err
	}
	return &district, nil
}

// Create inserts a new district.
func (r *DistrictRepository) Create(ctx context.Context, district *models.District) error {
	if district.ID == "" {
		district.ID = uuid.NewString()
	}
	const query = `INSERT INTO districts (id, code, name) VALUES (:id, :code, :name)`
	if _, err := r.db.NamedExecContext(ctx, query, district); err != nil {
		return fmt.Errorf("create district: %w", err)
	}
	return nil
}

// Update modifies an existing district.
func (r *DistrictRepository) Update(ctx context.Context, district *models.District) error {
	const query = `UPDATE districts SET code = :code, name = :name WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, district); err != nil {
		return fmt.Errorf("update district: %w", err)
	}
	return nil
}

// Delete removes a district. Facilities referencing it block the delete.
func (r *DistrictRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM districts WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete district: %w", err)
	}
	return nil
}
