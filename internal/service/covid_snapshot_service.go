package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/pkg/diseasefeed"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
	"github.com/noah-isme/hcw-deploy-api/pkg/jobs"
)

// CovidSyncJobType labels queued feed syncs.
const CovidSyncJobType = "covid.sync"

type covidFeed interface {
	Country(ctx context.Context, country string) (*diseasefeed.CountryReport, error)
}

type covidSnapshotRepository interface {
	Create(ctx context.Context, snapshot *models.CovidSnapshot) error
	List(ctx context.Context, filter models.CovidSnapshotFilter) ([]models.CovidSnapshot, int, error)
}

type jobEnqueuer interface {
	Enqueue(job jobs.Job) error
}

// CovidSnapshotService pulls national outbreak figures into the registry.
type CovidSnapshotService struct {
	feed    covidFeed
	repo    covidSnapshotRepository
	queue   jobEnqueuer
	country string
	logger  *zap.Logger
	now     func() time.Time
}

// NewCovidSnapshotService constructs a CovidSnapshotService for country.
func NewCovidSnapshotService(feed covidFeed, repo covidSnapshotRepository, country string, logger *zap.Logger) *CovidSnapshotService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CovidSnapshotService{feed: feed, repo: repo, country: country, logger: logger, now: time.Now}
}

// AttachQueue routes RequestSync through a background queue.
func (s *CovidSnapshotService) AttachQueue(queue jobEnqueuer) {
	s.queue = queue
}

// Sync fetches the latest figures and stores them as a new snapshot.
func (s *CovidSnapshotService) Sync(ctx context.Context) (*models.CovidSnapshot, error) {
	report, err := s.feed.Country(ctx, s.country)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, "covid feed unavailable")
	}

	recordedAt := report.UpdatedAt()
	if recordedAt.IsZero() {
		recordedAt = s.now().UTC()
	}
	snapshot := &models.CovidSnapshot{
		Source:      diseasefeed.Source,
		Cases:       report.Cases,
		TodayCases:  report.TodayCases,
		Deaths:      report.Deaths,
		TodayDeaths: report.TodayDeaths,
		Recovered:   report.Recovered,
		Active:      report.Active,
		Raw:         report.Raw,
		RecordedAt:  recordedAt,
	}
	if err := s.repo.Create(ctx, snapshot); err != nil {
		return nil, internalError(err, "failed to store covid snapshot")
	}
	s.logger.Info("covid snapshot stored", zap.String("country", s.country), zap.Int64("cases", snapshot.Cases), zap.Time("recorded_at", snapshot.RecordedAt))
	return snapshot, nil
}

// RequestSync queues a sync, or runs it inline when no queue is attached.
func (s *CovidSnapshotService) RequestSync(ctx context.Context) (string, error) {
	job := s.NewSyncJob()
	if s.queue == nil {
		if _, err := s.Sync(ctx); err != nil {
			return "", err
		}
		return job.ID, nil
	}
	if err := s.queue.Enqueue(job); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "sync queue unavailable")
	}
	return job.ID, nil
}

// NewSyncJob builds a queue job for one sync.
func (s *CovidSnapshotService) NewSyncJob() jobs.Job {
	return jobs.Job{ID: uuid.NewString(), Type: CovidSyncJobType, Payload: s.country}
}

// HandleJob is the queue handler for sync jobs.
func (s *CovidSnapshotService) HandleJob(ctx context.Context, job jobs.Job) error {
	if job.Type != CovidSyncJobType {
		s.logger.Warn("unexpected job type", zap.String("type", job.Type))
		return nil
	}
	_, err := s.Sync(ctx)
	return err
}

// List returns stored snapshots newest first.
func (s *CovidSnapshotService) List(ctx context.Context, filter models.CovidSnapshotFilter) ([]models.CovidSnapshot, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list covid snapshots")
	}
	return items, paginationFor(filter.Paging, total), nil
}
