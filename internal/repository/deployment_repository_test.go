package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var archiveLockColumns = []string{
	"original_deployment_id", "worker_id", "district_id", "outbreak_type", "start_date", "end_date",
	"role", "urgency", "deployment_name", "worker_name", "worker_phone", "worker_email", "worker_position", "district_name",
}

func activeDeploymentRows() *sqlmock.Rows {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 30)
	email := "grace@example.org"
	return sqlmock.NewRows(archiveLockColumns).
		AddRow("dep-1", "w-1", "dist-1", "Cholera", start, end, "Nurse", "high", "Cholera - Lilongwe", "Grace Phiri", "0999000111", email, "Nurse Midwife", "Lilongwe").
		AddRow("dep-2", "w-2", "dist-1", "Cholera", start, nil, "Clinician", "high", "Cholera - Lilongwe", "John Banda", "0888000222", nil, "Clinical Officer", "Lilongwe")
}

func TestDeploymentRepositoryArchiveAllActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeploymentRepository(db)

	actor := "user-1"
	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE d.status = 'active'") + ".*" + regexp.QuoteMeta("FOR UPDATE OF d")).
		WillReturnRows(activeDeploymentRows())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployment_histories")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployment_histories")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deployments SET status = 'archived'")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	count, err := repo.ArchiveAllActive(context.Background(), models.ArchiveRequest{ArchivedBy: &actor, CompletionNotes: "outbreak contained"})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeploymentRepositoryArchiveAllActiveNothingActive(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeploymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF d")).
		WillReturnRows(sqlmock.NewRows(archiveLockColumns))
	mock.ExpectCommit()

	count, err := repo.ArchiveAllActive(context.Background(), models.ArchiveRequest{})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeploymentRepositoryArchiveAllActiveRollsBackOnHistoryFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeploymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF d")).
		WillReturnRows(activeDeploymentRows())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployment_histories")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployment_histories")).
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	count, err := repo.ArchiveAllActive(context.Background(), models.ArchiveRequest{CompletionNotes: "done"})
	require.Error(t, err)
	assert.Zero(t, count)
	assert.Contains(t, err.Error(), "dep-2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeploymentRepositoryArchiveAllActiveRollsBackOnPartialUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeploymentRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE OF d")).
		WillReturnRows(activeDeploymentRows())
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployment_histories")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployment_histories")).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE deployments SET status = 'archived'")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	count, err := repo.ArchiveAllActive(context.Background(), models.ArchiveRequest{})
	require.Error(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeploymentRepositoryCreateBatch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeploymentRepository(db)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	deployments := []models.Deployment{
		{WorkerID: "w-1", DistrictID: "dist-1", OutbreakType: "Ebola", StartDate: start, Role: "Nurse", Urgency: "critical", DeploymentName: "Ebola - Mzimba"},
		{WorkerID: "w-2", DistrictID: "dist-1", OutbreakType: "Ebola", StartDate: start, Role: "Clinician", Urgency: "critical", DeploymentName: "Ebola - Mzimba"},
	}

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployments")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployments")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateBatch(context.Background(), deployments))
	for _, d := range deployments {
		assert.NotEmpty(t, d.ID)
		assert.Equal(t, models.DeploymentActive, d.Status)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeploymentRepositoryCreateBatchRollsBack(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeploymentRepository(db)

	deployments := []models.Deployment{{WorkerID: "w-1"}, {WorkerID: "w-2"}}
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployments")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO deployments")).WillReturnError(errors.New("fk violation"))
	mock.ExpectRollback()

	err := repo.CreateBatch(context.Background(), deployments)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "w-2")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeploymentRepositoryStats(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeploymentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("COUNT(*) FILTER (WHERE status = 'active') AS active")).
		WillReturnRows(sqlmock.NewRows([]string{"active", "archived", "total"}).AddRow(3, 7, 10))

	stats, err := repo.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.DeploymentStats{Active: 3, Archived: 7, Total: 10}, *stats)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeploymentRepositoryListHistoryFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeploymentRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM deployment_histories WHERE 1=1 AND outbreak_type = $1 AND district_id = $2 ORDER BY archived_at DESC, start_date DESC LIMIT 20 OFFSET 0")).
		WithArgs("Polio", "dist-9").
		WillReturnRows(sqlmock.NewRows([]string{"id", "original_deployment_id", "worker_name"}).AddRow("h-1", "dep-1", "Grace Phiri"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM deployment_histories WHERE 1=1 AND outbreak_type = $1 AND district_id = $2")).
		WithArgs("Polio", "dist-9").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.ListHistory(context.Background(), models.DeploymentHistoryFilter{OutbreakType: "Polio", DistrictID: "dist-9"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Grace Phiri", items[0].WorkerName)
	assert.Equal(t, 1, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeploymentRepositoryWorkerNameMatchesHistorySnapshot(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDeploymentRepository(db)

	nameColumn := "(?s)" + regexp.QuoteMeta("w.first_name || ' ' || w.last_name AS worker_name")
	mock.ExpectQuery(nameColumn + ".*" + regexp.QuoteMeta("WHERE d.id = $1")).
		WithArgs("dep-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "worker_id", "worker_name"}).AddRow("dep-1", "w-1", "Grace Phiri"))
	mock.ExpectBegin()
	mock.ExpectQuery(nameColumn + ".*" + regexp.QuoteMeta("FOR UPDATE OF d")).
		WillReturnRows(sqlmock.NewRows(archiveLockColumns))
	mock.ExpectCommit()

	deployment, err := repo.FindByID(context.Background(), "dep-1")
	require.NoError(t, err)
	assert.Equal(t, "Grace Phiri", deployment.WorkerName)

	count, err := repo.ArchiveAllActive(context.Background(), models.ArchiveRequest{})
	require.NoError(t, err)
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}
