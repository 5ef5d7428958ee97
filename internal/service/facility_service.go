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

type facilityRepository interface {
	List(ctx context.Context, filter models.FacilityFilter) ([]models.Facility, int, error)
	FindByID(ctx context.Context, id string) (*models.Facility, error)
	Create(ctx context.Context, facility *models.Facility) error
	Update(ctx context.Context, facility *models.Facility) error
	Delete(ctx context.Context, id string) error
}

type organizationFinder interface {
	FindByID(ctx context.Context, id string) (*models.Organization, error)
}

// FacilityService handles facility registry workflows.
type FacilityService struct {
	repo          facilityRepository
	districts     districtFinder
	organizations organizationFinder
	summary       summaryInvalidator
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewFacilityService creates a new facility service.
func NewFacilityService(repo facilityRepository, districts districtFinder, organizations organizationFinder, summary summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *FacilityService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FacilityService{repo: repo, districts: districts, organizations: organizations, summary: summary, validator: validate, logger: logger}
}

// List returns paginated facilities.
func (s *FacilityService) List(ctx context.Context, filter models.FacilityFilter) ([]models.Facility, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list facilities")
	}
	return items, paginationFor(filter.Paging, total), nil
}

// Get returns a facility by identifier.
func (s *FacilityService) Get(ctx context.Context, id string) (*models.Facility, error) {
	facility, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "facility")
	}
	return facility, nil
}

// Create adds a facility after checking its district and organization exist.
func (s *FacilityService) Create(ctx context.Context, req dto.FacilityRequest) (*models.Facility, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	facility := &models.Facility{}
	applyFacilityRequest(facility, req)
	if err := s.repo.Create(ctx, facility); err != nil {
		return nil, appErrors.FromPQ(err, "failed to create facility")
	}
	invalidateSummary(ctx, s.summary)
	return facility, nil
}

// Update modifies an existing facility.
func (s *FacilityService) Update(ctx context.Context, id string, req dto.FacilityRequest) (*models.Facility, error) {
	if err := s.validate(ctx, &req); err != nil {
		return nil, err
	}
	facility, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "facility")
	}
	applyFacilityRequest(facility, req)
	if err := s.repo.Update(ctx, facility); err != nil {
		return nil, appErrors.FromPQ(err, "failed to update facility")
	}
	invalidateSummary(ctx, s.summary)
	return facility, nil
}

// Delete removes a facility.
func (s *FacilityService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "facility")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromPQ(err, "failed to delete facility")
	}
	invalidateSummary(ctx, s.summary)
	return nil
}

func (s *FacilityService) validate(ctx context.Context, req *dto.FacilityRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid facility payload")
	}
	if _, err := s.districts.FindByID(ctx, req.DistrictID); err != nil {
		return lookupError(err, "district")
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

func applyFacilityRequest(f *models.Facility, req dto.FacilityRequest) {
	f.Name = req.Name
	f.Code = req.Code
	f.FacilityType = models.FacilityType(req.FacilityType)
	f.DistrictID = req.DistrictID
	f.OrganizationID = req.OrganizationID
}
