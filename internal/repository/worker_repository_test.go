package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
)

var candidateColumns = []string{
	"id", "first_name", "last_name", "phone", "email", "position", "is_active",
	"facility_name", "facility_district_id", "district_name", "organization_name",
}

func TestWorkerRepositoryFindCandidatesPushesDownCriteria(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("w.is_active = $1 AND LOWER(w.position) LIKE ANY($2) AND EXISTS (SELECT 1 FROM trainings t WHERE t.worker_id = w.id AND t.competency_id = ANY($3)) ORDER BY w.last_name ASC, w.first_name ASC")).
		WithArgs(true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(candidateColumns).
			AddRow("w-1", "Grace", "Phiri", "0999", nil, "Nurse Midwife", true, "Kamuzu Central", "dist-1", "Lilongwe", "MoH"))

	workers, err := repo.FindCandidates(context.Background(), models.CandidateQuery{
		ActiveOnly:    true,
		Positions:     []string{"nurse", "  "},
		CompetencyIDs: []string{"comp-1"},
	})
	require.NoError(t, err)
	require.Len(t, workers, 1)
	assert.Equal(t, "Grace Phiri", workers[0].FullName())
	require.NotNil(t, workers[0].FacilityDistrictID)
	assert.Equal(t, "dist-1", *workers[0].FacilityDistrictID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWorkerRepositoryFindCandidatesWithoutCriteria(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkerRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 ORDER BY w.last_name ASC")).
		WillReturnRows(sqlmock.NewRows(candidateColumns))

	workers, err := repo.FindCandidates(context.Background(), models.CandidateQuery{})
	require.NoError(t, err)
	assert.Empty(t, workers)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPositionPatterns(t *testing.T) {
	assert.Equal(t, []string{"%nurse%", "%clinical officer%"}, positionPatterns([]string{" Nurse ", "", "Clinical Officer"}))
	assert.Empty(t, positionPatterns(nil))
	assert.Equal(t, []string{`%nurse\\%`, `%50\% fte%`, `%mch\_nurse%`}, positionPatterns([]string{`Nurse\`, "50% FTE", "MCH_Nurse"}))
}

func TestWorkerRepositoryListFilters(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewWorkerRepository(db)

	active := true
	mock.ExpectQuery(regexp.QuoteMeta("WHERE 1=1 AND f.district_id = $1 AND w.gender = $2 AND w.is_active = $3 ORDER BY w.last_name ASC, w.first_name ASC LIMIT 50 OFFSET 50")).
		WithArgs("dist-1", "female", true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name"}).AddRow("w-1", "Grace", "Phiri"))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM healthcare_workers w LEFT JOIN facilities f")).
		WithArgs("dist-1", "female", true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(51))

	workers, total, err := repo.List(context.Background(), models.WorkerFilter{
		DistrictID: "dist-1",
		Gender:     "female",
		IsActive:   &active,
		Paging:     models.Paging{Page: 2, PageSize: 50},
	})
	require.NoError(t, err)
	assert.Len(t, workers, 1)
	assert.Equal(t, 51, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}
