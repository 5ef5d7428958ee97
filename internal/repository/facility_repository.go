package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

const facilitySelect = `SELECT f.id, f.name, f.code, f.facility_type, f.district_id, f.organization_id,
	d.name AS district_name, o.name AS organization_name
	FROM facilities f
	JOIN districts d ON d.id = f.district_id
	LEFT JOIN organizations o ON o.id = f.organization_id`

// FacilityRepository manages persistence for facilities.
type FacilityRepository struct {
	db *sqlx.DB
}

// NewFacilityRepository constructs a FacilityRepository.
func NewFacilityRepository(db *sqlx.DB) *FacilityRepository {
	return &FacilityRepository{db: db}
}

// List returns facilities with district and organization names.
func (r *FacilityRepository) List(ctx context.Context, filter models.FacilityFilter) ([]models.Facility, int, error) {
	var cond conditions
	if filter.Search != "" {
		cond.add("(LOWER(f.name) LIKE $%[1]d OR LOWER(COALESCE(f.code, '')) LIKE $%[1]d)", likePattern(filter.Search))
	}
	if filter.DistrictID != "" {
		cond.add("f.district_id = $%d", filter.DistrictID)
	}
	if filter.OrganizationID != "" {
		cond.add("f.organization_id = $%d", filter.OrganizationID)
	}
	if filter.FacilityType != "" {
		cond.add("f.facility_type = $%d", filter.FacilityType)
	}
	where := cond.where(" WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf("%s%s ORDER BY f.name ASC LIMIT %d OFFSET %d", facilitySelect, where, filter.PageSize, offset)
	var facilities []models.Facility
	if err := r.db.SelectContext(ctx, &facilities, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list facilities: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM facilities f"+where, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count facilities: %w", err)
	}
	return facilities, total, nil
}

// FindByID fetches a facility by ID.
func (r *FacilityRepository) FindByID(ctx context.Context, id string) (*models.Facility, error) {
	var facility models.Facility
	if err := r.db.GetContext(ctx, &facility, facilitySelect+" WHERE f.id = $1", id); err != nil {
		return nil, err
	}
	return &facility, nil
}

// Create inserts a new facility.
func (r *FacilityRepository) Create(ctx context.Context, facility *models.Facility) error {
	if facility.ID == "" {
		facility.ID = uuid.NewString()
	}
	const query = `INSERT INTO facilities (id, name, code, facility_type, district_id, organization_id)
		VALUES (:id, :name, :code, :facility_type, :district_id, :organization_id)`
	if _, err := r.db.NamedExecContext(ctx, query, facility); err != nil {
		return fmt.Errorf("create facility: %w", err)
	}
	return nil
}

// Update modifies an existing facility.
func (r *FacilityRepository) Update(ctx context.Context, facility *models.Facility) error {
	const query = `UPDATE facilities SET name = :name, code = :code, facility_type = :facility_type,
		district_id = :district_id, organization_id = :organization_id WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, facility); err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	return nil
}

// Delete removes a facility; workers keep their rows with the link cleared.
func (r *FacilityRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM facilities WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete facility: %w", err)
	}
	return nil
}
