package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type fakeWorkerFinder struct {
	workers map[string]models.HealthcareWorker
}

func (f *fakeWorkerFinder) FindByID(_ context.Context, id string) (*models.HealthcareWorker, error) {
	w, ok := f.workers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &w, nil
}

type fakeAvailabilityRepo struct {
	records   []models.AvailabilityRecord
	createErr error
}

func (f *fakeAvailabilityRepo) List(_ context.Context, filter models.AvailabilityFilter) ([]models.AvailabilityRecord, int, error) {
	out := lo.Filter(f.records, func(r models.AvailabilityRecord, _ int) bool {
		return (filter.WorkerID == "" || r.WorkerID == filter.WorkerID) && (filter.Status == "" || string(r.Status) == filter.Status)
	})
	return out, len(out), nil
}

func (f *fakeAvailabilityRepo) Latest(_ context.Context, workerID string) (*models.AvailabilityRecord, error) {
	var latest *models.AvailabilityRecord
	for i := range f.records {
		r := &f.records[i]
		if r.WorkerID == workerID && (latest == nil || r.RecordedAt.After(latest.RecordedAt)) {
			latest = r
		}
	}
	if latest == nil {
		return nil, sql.ErrNoRows
	}
	return latest, nil
}

func (f *fakeAvailabilityRepo) Create(_ context.Context, record *models.AvailabilityRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	record.ID = "rec-new"
	f.records = append(f.records, *record)
	return nil
}

func newAvailabilityFixture() (*AvailabilityService, *fakeAvailabilityRepo, time.Time) {
	repo := &fakeAvailabilityRepo{records: []models.AvailabilityRecord{
		{ID: "rec-1", WorkerID: testWorker1, Status: models.AvailabilityOnLeave, RecordedAt: time.Date(2024, 4, 1, 8, 0, 0, 0, time.UTC)},
		{ID: "rec-2", WorkerID: testWorker1, Status: models.AvailabilityAvailable, RecordedAt: time.Date(2024, 4, 20, 8, 0, 0, 0, time.UTC)},
	}}
	workers := &fakeWorkerFinder{workers: map[string]models.HealthcareWorker{
		testWorker1: {ID: testWorker1, FirstName: "Grace", LastName: "Kumwenda", IsActive: true},
		testWorker2: {ID: testWorker2, FirstName: "Aaron", LastName: "Aba", IsActive: true},
	}}
	svc := NewAvailabilityService(repo, workers, nil, nil)
	clock := time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clock }
	return svc, repo, clock
}

func TestAvailabilityServiceRecordAppends(t *testing.T) {
	svc, repo, clock := newAvailabilityFixture()
	note := "back from leave"

	record, err := svc.Record(context.Background(), dto.AvailabilityRequest{WorkerID: testWorker1, Status: " Deployed ", Note: &note})
	require.NoError(t, err)
	assert.Equal(t, models.AvailabilityDeployed, record.Status)
	assert.Equal(t, clock, record.RecordedAt)
	require.Len(t, repo.records, 3)
	assert.Equal(t, models.AvailabilityOnLeave, repo.records[0].Status)
	assert.Equal(t, models.AvailabilityAvailable, repo.records[1].Status)

	latest, err := svc.Latest(context.Background(), testWorker1)
	require.NoError(t, err)
	assert.Equal(t, "rec-new", latest.ID)
}

func TestAvailabilityServiceRecordRejects(t *testing.T) {
	tests := []struct {
		name   string
		req    dto.AvailabilityRequest
		status int
	}{
		{name: "unknown status", req: dto.AvailabilityRequest{WorkerID: testWorker1, Status: "sick"}, status: appErrors.ErrValidation.Status},
		{name: "malformed worker id", req: dto.AvailabilityRequest{WorkerID: "w1", Status: "available"}, status: appErrors.ErrValidation.Status},
		{name: "unknown worker", req: dto.AvailabilityRequest{WorkerID: testWorker3, Status: "available"}, status: appErrors.ErrNotFound.Status},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _ := newAvailabilityFixture()
			_, err := svc.Record(context.Background(), tc.req)
			require.Error(t, err)
			assert.Equal(t, tc.status, appErrors.FromError(err).Status)
			assert.Len(t, repo.records, 2)
		})
	}
}

func TestAvailabilityServiceRecordStoreFailure(t *testing.T) {
	svc, repo, _ := newAvailabilityFixture()
	repo.createErr = errors.New("connection refused")

	_, err := svc.Record(context.Background(), dto.AvailabilityRequest{WorkerID: testWorker1, Status: "available"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestAvailabilityServiceLatest(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()

	latest, err := svc.Latest(context.Background(), testWorker1)
	require.NoError(t, err)
	assert.Equal(t, "rec-2", latest.ID)
	assert.Equal(t, models.AvailabilityAvailable, latest.Status)

	_, err = svc.Latest(context.Background(), testWorker2)
	require.Error(t, err)
	assert.Equal(t, "availability record not found", appErrors.FromError(err).Message)

	_, err = svc.Latest(context.Background(), testWorker3)
	require.Error(t, err)
	assert.Equal(t, "worker not found", appErrors.FromError(err).Message)
}

func TestAvailabilityServiceList(t *testing.T) {
	svc, _, _ := newAvailabilityFixture()

	items, pagination, err := svc.List(context.Background(), models.AvailabilityFilter{WorkerID: testWorker1, Status: "on_leave"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "rec-1", items[0].ID)
	assert.Equal(t, 1, pagination.TotalCount)
}
