package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type districtRepository interface {
	List(ctx context.Context, filter models.DistrictFilter) ([]models.District, int, error)
	FindByID(ctx context.Context, id string) (*models.District, error)
	Create(ctx context.Context, district *models.District) error
	Update(ctx context.Context, district *models.District) error
	Delete(ctx context.Context, id string) error
}

// DistrictService handles district registry workflows.
type DistrictService struct {
	repo      districtRepository
	summary   summaryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDistrictService creates a new district service.
func NewDistrictService(repo districtRepository, summary summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *DistrictService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DistrictService{repo: repo, summary: summary, validator: validate, logger: logger}
}

// List returns paginated districts.
func (s *DistrictService) List(ctx context.Context, filter models.DistrictFilter) ([]models.District, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list districts")
	}
	return items, paginationFor(filter.Paging, total), nil
}

// Get returns a district by identifier.
func (s *DistrictService) Get(ctx context.Context, id string) (*models.District, error) {
	district, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "district")
	}
	return district, nil
}

// Create adds a district. Codes are stored upper-case and must be unique.
func (s *DistrictService) Create(ctx context.Context, req models.District) (*models.District, error) {
	normalizeDistrict(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid district payload")
	}
	req.ID = ""
	if err := s.repo.Create(ctx, &req); err != nil {
		return nil, appErrors.FromPQ(err, "failed to create district")
	}
	invalidateSummary(ctx, s.summary)
	return &req, nil
}

// Update modifies an existing district.
func (s *DistrictService) Update(ctx context.Context, id string, req models.District) (*models.District, error) {
	normalizeDistrict(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid district payload")
	}
	district, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "district")
	}
	district.Code = req.Code
	district.Name = req.Name
	if err := s.repo.Update(ctx, district); err != nil {
		return nil, appErrors.FromPQ(err, "failed to update district")
	}
	invalidateSummary(ctx, s.summary)
	return district, nil
}

// Delete removes a district. Districts still referenced by facilities or deployments are protected.
func (s *DistrictService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "district")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromPQ(err, "failed to delete district")
	}
	invalidateSummary(ctx, s.summary)
	return nil
}

func normalizeDistrict(d *models.District) {
	d.Code = strings.ToUpper(strings.TrimSpace(d.Code))
	d.Name = strings.TrimSpace(d.Name)
}
