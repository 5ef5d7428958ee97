package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/pkg/diseasefeed"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
	"github.com/noah-isme/hcw-deploy-api/pkg/jobs"
)

type fakeCovidFeed struct {
	report  *diseasefeed.CountryReport
	err     error
	country string
}

func (f *fakeCovidFeed) Country(_ context.Context, country string) (*diseasefeed.CountryReport, error) {
	f.country = country
	if f.err != nil {
		return nil, f.err
	}
	return f.report, nil
}

type fakeCovidRepo struct {
	created []models.CovidSnapshot
	items   []models.CovidSnapshot
	err     error
}

func (f *fakeCovidRepo) Create(_ context.Context, snapshot *models.CovidSnapshot) error {
	if f.err != nil {
		return f.err
	}
	snapshot.ID = "snap-1"
	f.created = append(f.created, *snapshot)
	return nil
}

func (f *fakeCovidRepo) List(_ context.Context, _ models.CovidSnapshotFilter) ([]models.CovidSnapshot, int, error) {
	return f.items, len(f.items), f.err
}

type fakeEnqueuer struct {
	jobs []jobs.Job
	err  error
}

func (f *fakeEnqueuer) Enqueue(job jobs.Job) error {
	if f.err != nil {
		return f.err
	}
	f.jobs = append(f.jobs, job)
	return nil
}

func TestCovidSnapshotServiceSyncStoresReport(t *testing.T) {
	feed := &fakeCovidFeed{report: &diseasefeed.CountryReport{
		Country: "Malawi", Cases: 89000, TodayCases: 12, Deaths: 2686, Recovered: 86000, Active: 314,
		Updated: 1717243200000, Raw: json.RawMessage(`{"country":"Malawi"}`),
	}}
	repo := &fakeCovidRepo{}
	svc := NewCovidSnapshotService(feed, repo, "Malawi", nil)

	snapshot, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Malawi", feed.country)
	require.Len(t, repo.created, 1)
	assert.Equal(t, diseasefeed.Source, snapshot.Source)
	assert.Equal(t, int64(89000), snapshot.Cases)
	assert.Equal(t, time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC), snapshot.RecordedAt)
	assert.JSONEq(t, `{"country":"Malawi"}`, string(snapshot.Raw))
}

func TestCovidSnapshotServiceSyncFallsBackToClock(t *testing.T) {
	fixed := time.Date(2024, 7, 1, 8, 0, 0, 0, time.UTC)
	svc := NewCovidSnapshotService(&fakeCovidFeed{report: &diseasefeed.CountryReport{Cases: 1}}, &fakeCovidRepo{}, "Malawi", nil)
	svc.now = func() time.Time { return fixed }

	snapshot, err := svc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, fixed, snapshot.RecordedAt)
}

func TestCovidSnapshotServiceSyncErrors(t *testing.T) {
	svc := NewCovidSnapshotService(&fakeCovidFeed{err: errors.New("timeout")}, &fakeCovidRepo{}, "Malawi", nil)
	_, err := svc.Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUpstream.Code, appErrors.FromError(err).Code)

	svc = NewCovidSnapshotService(&fakeCovidFeed{report: &diseasefeed.CountryReport{}}, &fakeCovidRepo{err: errors.New("db down")}, "Malawi", nil)
	_, err = svc.Sync(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestCovidSnapshotServiceRequestSync(t *testing.T) {
	repo := &fakeCovidRepo{}
	svc := NewCovidSnapshotService(&fakeCovidFeed{report: &diseasefeed.CountryReport{Cases: 5}}, repo, "Malawi", nil)

	id, err := svc.RequestSync(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Len(t, repo.created, 1)

	queue := &fakeEnqueuer{}
	svc.AttachQueue(queue)
	id, err = svc.RequestSync(context.Background())
	require.NoError(t, err)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, id, queue.jobs[0].ID)
	assert.Equal(t, CovidSyncJobType, queue.jobs[0].Type)
	assert.Len(t, repo.created, 1)

	require.NoError(t, svc.HandleJob(context.Background(), queue.jobs[0]))
	assert.Len(t, repo.created, 2)
	require.NoError(t, svc.HandleJob(context.Background(), jobs.Job{Type: "other"}))
	assert.Len(t, repo.created, 2)

	queue.err = errors.New("queue stopped")
	_, err = svc.RequestSync(context.Background())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnavailable.Code, appErrors.FromError(err).Code)
}

func TestCovidSnapshotServiceList(t *testing.T) {
	repo := &fakeCovidRepo{items: []models.CovidSnapshot{{ID: "a"}, {ID: "b"}}}
	svc := NewCovidSnapshotService(nil, repo, "Malawi", nil)

	items, pagination, err := svc.List(context.Background(), models.CovidSnapshotFilter{Paging: models.Paging{Page: 1, PageSize: 20}})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	require.NotNil(t, pagination)
	assert.Equal(t, 2, pagination.TotalCount)
}
