package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type workerRepository interface {
	List(ctx context.Context, filter models.WorkerFilter) ([]models.HealthcareWorker, int, error)
	FindByID(ctx context.Context, id string) (*models.HealthcareWorker, error)
	Create(ctx context.Context, worker *models.HealthcareWorker) error
	Update(ctx context.Context, worker *models.HealthcareWorker) error
	Deactivate(ctx context.Context, id string) error
}

type facilityFinder interface {
	FindByID(ctx context.Context, id string) (*models.Facility, error)
}

// WorkerService manages healthcare worker records.
type WorkerService struct {
	repo          workerRepository
	facilities    facilityFinder
	organizations organizationFinder
	summary       summaryInvalidator
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewWorkerService creates a new worker service.
func NewWorkerService(repo workerRepository, facilities facilityFinder, organizations organizationFinder, summary summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *WorkerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkerService{repo: repo, facilities: facilities, organizations: organizations, summary: summary, validator: validate, logger: logger}
}

// List returns paginated workers.
func (s *WorkerService) List(ctx context.Context, filter models.WorkerFilter) ([]models.HealthcareWorker, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list workers")
	}
	return items, paginationFor(filter.Paging, total), nil
}

// Get returns a worker by identifier.
func (s *WorkerService) Get(ctx context.Context, id string) (*models.HealthcareWorker, error) {
	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "worker")
	}
	return worker, nil
}

// Create registers a worker. New workers are active unless stated otherwise.
func (s *WorkerService) Create(ctx context.Context, req dto.WorkerRequest) (*models.HealthcareWorker, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	worker := &models.HealthcareWorker{IsActive: true}
	applyWorkerRequest(worker, req)
	if err := s.repo.Create(ctx, worker); err != nil {
		return nil, appErrors.FromPQ(err, "failed to create worker")
	}
	invalidateSummary(ctx, s.summary)
	s.logger.Info("worker registered", zap.String("worker_id", worker.ID), zap.String("position", worker.Position))
	return worker, nil
}

// Update modifies an existing worker.
func (s *WorkerService) Update(ctx context.Context, id string, req dto.WorkerRequest) (*models.HealthcareWorker, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	worker, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "worker")
	}
	applyWorkerRequest(worker, req)
	if err := s.repo.Update(ctx, worker); err != nil {
		return nil, appErrors.FromPQ(err, "failed to update worker")
	}
	invalidateSummary(ctx, s.summary)
	return worker, nil
}

// Deactivate removes a worker from candidate selection without deleting history.
func (s *WorkerService) Deactivate(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "worker")
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return internalError(err, "failed to deactivate worker")
	}
	invalidateSummary(ctx, s.summary)
	return nil
}

func (s *WorkerService) validate(ctx context.Context, req *dto.WorkerRequest) error {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Position = strings.TrimSpace(req.Position)
	if req.Gender != nil {
		lowered := strings.ToLower(strings.TrimSpace(*req.Gender))
		req.Gender = &lowered
	}
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid worker payload")
	}
	if req.FacilityID != nil && *req.FacilityID != "" {
		if _, err := s.facilities.FindByID(ctx, *req.FacilityID); err != nil {
			return lookupError(err, "facility")
		}
	} else {
		req.FacilityID = nil
	}
	if req.OrganizationID != nil && *req.OrganizationID != "" {
		if _, err := s.organizations.FindByID(ctx, *req.OrganizationID); err != nil {
			return lookupError(err, "organization")
		}
	} else {
		req.OrganizationID = nil
	}
	return nil
}

func applyWorkerRequest(w *models.HealthcareWorker, req dto.WorkerRequest) {
	w.NationalID = req.NationalID
	w.FirstName = req.FirstName
	w.LastName = req.LastName
	w.Phone = req.Phone
	w.Email = req.Email
	w.Gender = req.Gender
	w.Disability = req.Disability
	w.Language = strings.TrimSpace(req.Language)
	if w.Language == "" {
		w.Language = models.DefaultWorkerLanguage
	}
	w.Position = req.Position
	if req.IsActive != nil {
		w.IsActive = *req.IsActive
	}
	w.FacilityID = req.FacilityID
	w.OrganizationID = req.OrganizationID
}
