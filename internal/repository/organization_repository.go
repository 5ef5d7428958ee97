package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

// OrganizationRepository manages persistence for organizations.
type OrganizationRepository struct {
	db *sqlx.DB
}

// NewOrganizationRepository constructs an OrganizationRepository.
func NewOrganizationRepository(db *sqlx.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

// List returns organizations ordered by name.
func (r *OrganizationRepository) List(ctx context.Context, filter models.OrganizationFilter) ([]models.Organization, int, error) {
	var cond conditions
	if filter.Search != "" {
		cond.add("LOWER(name) LIKE $%[1]d", likePattern(filter.Search))
	}
	base := cond.where("FROM organizations WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf("SELECT id, name, contact_email, contact_phone %s ORDER BY name ASC LIMIT %d OFFSET %d", base, filter.PageSize, offset)
	var orgs []models.Organization
	if err := r.db.SelectContext(ctx, &orgs, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list organizations: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count organizations: %w", err)
	}
	return orgs, total, nil
}

// FindByID fetches an organization by ID.
func (r *OrganizationRepository) FindByID(ctx context.Context, id string) (*models.Organization, error) {
	const query = `SELECT id, name, contact_email, contact_phone FROM organizations WHERE id = $1`
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, id); err != nil {
		return nil, err
	}
	return &org, nil
}

// Create inserts a new organization.
func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	if org.ID == "" {
		org.ID = uuid.NewString()
	}
	const query = `INSERT INTO organizations (id, name, contact_email, contact_phone) VALUES (:id, :name, :contact_email, :contact_phone)`
	if _, err := r.db.NamedExecContext(ctx, query, org); err != nil {
		return fmt.Errorf("create organization: %w", err)
	}
	return nil
}

// Update modifies an existing organization.
func (r *OrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	const query = `UPDATE organizations SET name = :name, contact_email = :contact_email, contact_phone = :contact_phone WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, org); err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	return nil
}

// Delete removes an organization; facilities and workers keep their rows with the link cleared.
func (r *OrganizationRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM organizations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete organization: %w", err)
	}
	return nil
}
