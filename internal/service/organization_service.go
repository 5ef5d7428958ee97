package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type organizationRepository interface {
	List(ctx context.Context, filter models.OrganizationFilter) ([]models.Organization, int, error)
	FindByID(ctx context.Context, id string) (*models.Organization, error)
	Create(ctx context.Context, org *models.Organization) error
	Update(ctx context.Context, org *models.Organization) error
	Delete(ctx context.Context, id string) error
}

// OrganizationService handles organization registry workflows.
type OrganizationService struct {
	repo      organizationRepository
	summary   summaryInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewOrganizationService creates a new organization service.
func NewOrganizationService(repo organizationRepository, summary summaryInvalidator, validate *validator.Validate, logger *zap.Logger) *OrganizationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizationService{repo: repo, summary: summary, validator: validate, logger: logger}
}

// List returns paginated organizations.
func (s *OrganizationService) List(ctx context.Context, filter models.OrganizationFilter) ([]models.Organization, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list organizations")
	}
	return items, paginationFor(filter.Paging, total), nil
}

// Get returns an organization by identifier.
func (s *OrganizationService) Get(ctx context.Context, id string) (*models.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "organization")
	}
	return org, nil
}

// Create adds an organization.
func (s *OrganizationService) Create(ctx context.Context, req models.Organization) (*models.Organization, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid organization payload")
	}
	req.ID = ""
	if err := s.repo.Create(ctx, &req); err != nil {
		return nil, appErrors.FromPQ(err, "failed to create organization")
	}
	invalidateSummary(ctx, s.summary)
	return &req, nil
}

// Update modifies an existing organization.
func (s *OrganizationService) Update(ctx context.Context, id string, req models.Organization) (*models.Organization, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid organization payload")
	}
	org, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "organization")
	}
	org.Name = req.Name
	org.ContactEmail = req.ContactEmail
	org.ContactPhone = req.ContactPhone
	if err := s.repo.Update(ctx, org); err != nil {
		return nil, appErrors.FromPQ(err, "failed to update organization")
	}
	invalidateSummary(ctx, s.summary)
	return org, nil
}

// Delete removes an organization.
func (s *OrganizationService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return lookupError(err, "organization")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromPQ(err, "failed to delete organization")
	}
	invalidateSummary(ctx, s.summary)
	return nil
}
