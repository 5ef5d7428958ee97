package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

// CovidSnapshotRepository stores fetched COVID-19 readings.
type CovidSnapshotRepository struct {
	db *sqlx.DB
}

// NewCovidSnapshotRepository constructs a CovidSnapshotRepository.
func NewCovidSnapshotRepository(db *sqlx.DB) *CovidSnapshotRepository {
	return &CovidSnapshotRepository{db: db}
}

// Create inserts a snapshot.
func (r *CovidSnapshotRepository) Create(ctx context.Context, snapshot *models.CovidSnapshot) error {
	if snapshot.ID == "" {
		snapshot.ID = uuid.NewString()
	}
	// raw goes through as text so Postgres can parse it as JSONB
	var raw interface{}
	if len(snapshot.Raw) > 0 {
		raw = string(snapshot.Raw)
	}
	const query = `INSERT INTO covid_snapshots (id, source, district_id, cases, today_cases, deaths, today_deaths, recovered, active, raw, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	if _, err := r.db.ExecContext(ctx, query, snapshot.ID, snapshot.Source, snapshot.DistrictID, snapshot.Cases, snapshot.TodayCases,
		snapshot.Deaths, snapshot.TodayDeaths, snapshot.Recovered, snapshot.Active, raw, snapshot.RecordedAt); err != nil {
		return fmt.Errorf("create covid snapshot: %w", err)
	}
	return nil
}

// List returns snapshots newest first.
func (r *CovidSnapshotRepository) List(ctx context.Context, filter models.CovidSnapshotFilter) ([]models.CovidSnapshot, int, error) {
	var cond conditions
	if filter.Source != "" {
		cond.add("source = $%d", filter.Source)
	}
	base := cond.where("FROM covid_snapshots WHERE 1=1")
	offset := filter.Normalize()

	query := fmt.Sprintf(`SELECT id, source, district_id, cases, today_cases, deaths, today_deaths, recovered, active, raw, recorded_at
		%s ORDER BY recorded_at DESC LIMIT %d OFFSET %d`, base, filter.PageSize, offset)
	var items []models.CovidSnapshot
	if err := r.db.SelectContext(ctx, &items, query, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("list covid snapshots: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, cond.args...); err != nil {
		return nil, 0, fmt.Errorf("count covid snapshots: %w", err)
	}
	return items, total, nil
}
