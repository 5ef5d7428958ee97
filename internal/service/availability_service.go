package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type availabilityRepository interface {
	List(ctx context.Context, filter models.AvailabilityFilter) ([]models.AvailabilityRecord, int, error)
	Latest(ctx context.Context, workerID string) (*models.AvailabilityRecord, error)
	Create(ctx context.Context, record *models.AvailabilityRecord) error
}

type workerFinder interface {
	FindByID(ctx context.Context, id string) (*models.HealthcareWorker, error)
}

// AvailabilityService records and reads the append-only availability log.
type AvailabilityService struct {
	repo      availabilityRepository
	workers   workerFinder
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewAvailabilityService creates a new availability service.
func NewAvailabilityService(repo availabilityRepository, workers workerFinder, validate *validator.Validate, logger *zap.Logger) *AvailabilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{repo: repo, workers: workers, validator: validate, logger: logger, now: time.Now}
}

// List returns the availability timeline, newest first.
func (s *AvailabilityService) List(ctx context.Context, filter models.AvailabilityFilter) ([]models.AvailabilityRecord, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list availability")
	}
	return items, paginationFor(filter.Paging, total), nil
}

// Latest returns the most recent availability for a worker.
func (s *AvailabilityService) Latest(ctx context.Context, workerID string) (*models.AvailabilityRecord, error) {
	if _, err := s.workers.FindByID(ctx, workerID); err != nil {
		return nil, lookupError(err, "worker")
	}
	record, err := s.repo.Latest(ctx, workerID)
	if err != nil {
		return nil, lookupError(err, "availability record")
	}
	return record, nil
}

// Record appends a new availability entry. Earlier entries are never modified.
func (s *AvailabilityService) Record(ctx context.Context, req dto.AvailabilityRequest) (*models.AvailabilityRecord, error) {
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid availability payload")
	}
	if _, err := s.workers.FindByID(ctx, req.WorkerID); err != nil {
		return nil, lookupError(err, "worker")
	}
	record := &models.AvailabilityRecord{
		WorkerID:   req.WorkerID,
		Status:     models.AvailabilityStatus(req.Status),
		Note:       req.Note,
		Location:   req.Location,
		RecordedAt: s.now().UTC(),
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, appErrors.FromPQ(err, "failed to record availability")
	}
	return record, nil
}
