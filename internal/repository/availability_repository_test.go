package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

var availabilityColumns = []string{"id", "worker_id", "status", "note", "location", "recorded_at"}

func TestAvailabilityRepositoryLatestForWorkers(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	recorded := time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`(?s)SELECT DISTINCT ON \(worker_id\) id, worker_id, status, note, location, recorded_at.+WHERE worker_id = ANY\(\$1\).+ORDER BY worker_id, recorded_at DESC, id DESC`).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(availabilityColumns).
			AddRow("rec-2", "w-1", "available", nil, "Lilongwe", recorded).
			AddRow("rec-7", "w-2", "on_leave", "annual leave", nil, recorded.Add(-48*time.Hour)))

	records, err := repo.LatestForWorkers(context.Background(), []string{"w-1", "w-2", "w-3"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, models.AvailabilityAvailable, records[0].Status)
	require.NotNil(t, records[0].Location)
	assert.Equal(t, "Lilongwe", *records[0].Location)
	assert.Equal(t, models.AvailabilityOnLeave, records[1].Status)
	require.NotNil(t, records[1].Note)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryLatestForWorkersSkipsEmptyInput(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	records, err := repo.LatestForWorkers(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAvailabilityRepositoryLatestNoRecord(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAvailabilityRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE worker_id = $1 ORDER BY recorded_at DESC, id DESC LIMIT 1")).
		WithArgs("w-9").
		WillReturnRows(sqlmock.NewRows(availabilityColumns))

	_, err := repo.Latest(context.Background(), "w-9")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
