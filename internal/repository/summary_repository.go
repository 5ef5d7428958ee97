package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

// filteredWorkerJoins exposes workers (w) with their facility (f), facility district (d) and organization (o).
const filteredWorkerJoins = `LEFT JOIN facilities f ON f.id = w.facility_id
	LEFT JOIN districts d ON d.id = f.district_id
	LEFT JOIN organizations o ON o.id = w.organization_id`

// SummaryRepository runs the aggregate queries behind the dashboard.
type SummaryRepository struct {
	db *sqlx.DB
}

// NewSummaryRepository constructs a SummaryRepository.
func NewSummaryRepository(db *sqlx.DB) *SummaryRepository {
	return &SummaryRepository{db: db}
}

// workerFilterClause is the single predicate every filtered breakdown shares.
// District and organization match by name, code or id. Every comparison is case-insensitive
// so that SummaryFilter.CacheKey, which lowercases values, names exactly one result set.
func workerFilterClause(filter models.SummaryFilter) conditions {
	var cond conditions
	if filter.District != nil {
		cond.add("(LOWER(d.name) = LOWER($%[1]d) OR LOWER(d.code) = LOWER($%[1]d) OR d.id::text = LOWER($%[1]d))", *filter.District)
	}
	if filter.Gender != nil {
		cond.add("LOWER(w.gender) = LOWER($%d)", *filter.Gender)
	}
	if filter.Organization != nil {
		cond.add("(LOWER(o.name) = LOWER($%[1]d) OR o.id::text = LOWER($%[1]d))", *filter.Organization)
	}
	if filter.FacilityType != nil {
		cond.add("f.facility_type = LOWER($%d)", *filter.FacilityType)
	}
	return cond
}

// Totals returns filtered worker counts alongside unfiltered registry totals.
func (r *SummaryRepository) Totals(ctx context.Context, filter models.SummaryFilter) (*models.SummaryTotals, error) {
	cond := workerFilterClause(filter)
	query := cond.where(`SELECT COUNT(w.id) AS total_workers, COUNT(w.id) FILTER (WHERE w.is_active) AS active_workers,
		(SELECT COUNT(*) FROM facilities) AS total_facilities,
		(SELECT COUNT(*) FROM organizations) AS total_organizations,
		(SELECT COUNT(*) FROM competencies) AS total_competencies,
		(SELECT COUNT(*) FROM trainings) AS total_trainings
		FROM healthcare_workers w ` + filteredWorkerJoins + ` WHERE 1=1`)
	var totals models.SummaryTotals
	if err := r.db.GetContext(ctx, &totals, query, cond.args...); err != nil {
		return nil, fmt.Errorf("summary totals: %w", err)
	}
	return &totals, nil
}

// GenderDistribution groups filtered workers by gender.
func (r *SummaryRepository) GenderDistribution(ctx context.Context, filter models.SummaryFilter) ([]models.GenderCount, error) {
	cond := workerFilterClause(filter)
	query := cond.where(`SELECT COALESCE(w.gender, 'unspecified') AS gender, COUNT(*) AS count
		FROM healthcare_workers w `+filteredWorkerJoins+` WHERE 1=1`) +
		" GROUP BY COALESCE(w.gender, 'unspecified') ORDER BY count DESC, gender ASC"
	var rows []models.GenderCount
	if err := r.db.SelectContext(ctx, &rows, query, cond.args...); err != nil {
		return nil, fmt.Errorf("gender distribution: %w", err)
	}
	return rows, nil
}

// DistrictDistribution counts facilities and workers per district over the whole registry.
func (r *SummaryRepository) DistrictDistribution(ctx context.Context) ([]models.DistrictCount, error) {
	const query = `SELECT d.name, d.code, COUNT(DISTINCT f.id) AS total_facilities, COUNT(w.id) AS total_workers
		FROM districts d
		LEFT JOIN facilities f ON f.district_id = d.id
		LEFT JOIN healthcare_workers w ON w.facility_id = f.id
		GROUP BY d.id, d.name, d.code
		ORDER BY d.name ASC`
	var rows []models.DistrictCount
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("district distribution: %w", err)
	}
	return rows, nil
}

// FacilityTypes groups filtered workers by the type of facility they work at.
func (r *SummaryRepository) FacilityTypes(ctx context.Context, filter models.SummaryFilter) ([]models.FacilityTypeCount, error) {
	cond := workerFilterClause(filter)
	query := cond.where(`SELECT f.facility_type, COUNT(DISTINCT f.id) AS facility_count, COUNT(w.id) AS worker_count
		FROM healthcare_workers w `+filteredWorkerJoins+` WHERE f.id IS NOT NULL`) +
		" GROUP BY f.facility_type ORDER BY worker_count DESC, f.facility_type ASC"
	var rows []models.FacilityTypeCount
	if err := r.db.SelectContext(ctx, &rows, query, cond.args...); err != nil {
		return nil, fmt.Errorf("facility type distribution: %w", err)
	}
	return rows, nil
}

// OrganizationDistribution counts filtered workers per organization.
func (r *SummaryRepository) OrganizationDistribution(ctx context.Context, filter models.SummaryFilter) ([]models.OrganizationCount, error) {
	cond := workerFilterClause(filter)
	query := cond.where(`SELECT o.name, COUNT(w.id) AS total_workers
		FROM healthcare_workers w `+filteredWorkerJoins+` WHERE o.id IS NOT NULL`) +
		" GROUP BY o.id, o.name ORDER BY total_workers DESC, o.name ASC"
	var rows []models.OrganizationCount
	if err := r.db.SelectContext(ctx, &rows, query, cond.args...); err != nil {
		return nil, fmt.Errorf("organization distribution: %w", err)
	}
	return rows, nil
}

// CompetencyPopularity returns the competencies most trained among filtered workers.
func (r *SummaryRepository) CompetencyPopularity(ctx context.Context, filter models.SummaryFilter, limit int) ([]models.CompetencyCount, error) {
	if limit <= 0 {
		limit = 10
	}
	cond := workerFilterClause(filter)
	query := cond.where(`SELECT c.code, c.name, COUNT(t.id) AS total_trainings
		FROM trainings t
		JOIN competencies c ON c.id = t.competency_id
		JOIN healthcare_workers w ON w.id = t.worker_id `+filteredWorkerJoins+` WHERE 1=1`) +
		fmt.Sprintf(" GROUP BY c.id, c.code, c.name ORDER BY total_trainings DESC, c.code ASC LIMIT %d", limit)
	var rows []models.CompetencyCount
	if err := r.db.SelectContext(ctx, &rows, query, cond.args...); err != nil {
		return nil, fmt.Errorf("competency popularity: %w", err)
	}
	return rows, nil
}

// TrainingTimeline counts trainings completed by filtered workers per year.
func (r *SummaryRepository) TrainingTimeline(ctx context.Context, filter models.SummaryFilter) ([]models.TrainingYearCount, error) {
	cond := workerFilterClause(filter)
	query := cond.where(`SELECT EXTRACT(YEAR FROM t.date_completed)::int AS year, COUNT(t.id) AS count
		FROM trainings t
		JOIN healthcare_workers w ON w.id = t.worker_id `+filteredWorkerJoins+` WHERE 1=1`) +
		" GROUP BY EXTRACT(YEAR FROM t.date_completed) ORDER BY year ASC"
	var rows []models.TrainingYearCount
	if err := r.db.SelectContext(ctx, &rows, query, cond.args...); err != nil {
		return nil, fmt.Errorf("training timeline: %w", err)
	}
	return rows, nil
}

// DisabilityStats splits filtered workers by disability flag.
func (r *SummaryRepository) DisabilityStats(ctx context.Context, filter models.SummaryFilter) (*models.DisabilityStats, error) {
	cond := workerFilterClause(filter)
	query := cond.where(`SELECT COUNT(w.id) FILTER (WHERE w.disability) AS with_disability,
		COUNT(w.id) FILTER (WHERE NOT w.disability) AS without_disability
		FROM healthcare_workers w ` + filteredWorkerJoins + ` WHERE 1=1`)
	var stats models.DisabilityStats
	if err := r.db.GetContext(ctx, &stats, query, cond.args...); err != nil {
		return nil, fmt.Errorf("disability stats: %w", err)
	}
	return &stats, nil
}
