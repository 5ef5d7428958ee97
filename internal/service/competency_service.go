package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type competencyRepository interface {
	List(ctx context.Context, filter models.CompetencyFilter) ([]models.Competency, int, error)
	FindByID(ctx context.Context, id string) (*models.Competency, error)
	Create(ctx context.Context, item *models.Competency) error
	Update(ctx context.Context, item *models.Competency) error
	Delete(ctx context.Context, id string) error
}

// CompetencyService manages the competency catalogue.
type CompetencyService struct {
	repo      competencyRepository
	summary   summaryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCompetencyService creates a new competency service.
func NewCompetencyService(repo competencyRepository, summary summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *CompetencyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompetencyService{repo: repo, summary: summary, validator: validate, logger: logger}
}

// List returns paginated competencies.
func (s *CompetencyService) List(ctx context.Context, filter models.CompetencyFilter) ([]models.Competency, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list competencies")
	}
	return items, paginationFor(filter.Paging, total), nil
}

// Get returns a competency by identifier.
func (s *CompetencyService) Get(ctx context.Context, id string) (*models.Competency, error) {
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "competency")
	}
	return item, nil
}

// Create adds a competency. Codes are stored upper-case and must be unique.
func (s *CompetencyService) Create(ctx context.Context, req models.Competency) (*models.Competency, error) {
	normalizeCompetency(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid competency payload")
	}
	req.ID = ""
	if err := s.repo.Create(ctx, &req); err != nil {
		return nil, appErrors.FromPQ(err, "failed to create competency")
	}
	invalidateSummary(ctx, s.summary)
	return &req, nil
}

// Update modifies an existing competency.
func (s *CompetencyService) Update(ctx context.Context, id string, req models.Competency) (*models.Competency, error) {
	normalizeCompetency(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid competency payload")
	}
	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "competency")
	}
	item.Code = req.Code
	item.Name = req.Name
	item.Description = req.Description
	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.FromPQ(err, "failed to update competency")
	}
	invalidateSummary(ctx, s.summary)
	return item, nil
}

// Delete removes a competency that no training references.
func (s *CompetencyService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "competency")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromPQ(err, "failed to delete competency")
	}
	invalidateSummary(ctx, s.summary)
	return nil
}

func normalizeCompetency(c *models.Competency) {
	c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
	c.Name = strings.TrimSpace(c.Name)
	c.Description = strings.TrimSpace(c.Description)
}
