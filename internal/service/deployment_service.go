package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type deploymentStore interface {
	List(ctx context.Context, filter models.DeploymentFilter) ([]models.Deployment, int, error)
	ListAll(ctx context.Context, filter models.DeploymentFilter) ([]models.Deployment, error)
	FindByID(ctx context.Context, id string) (*models.Deployment, error)
	CreateBatch(ctx context.Context, deployments []models.Deployment) error
	Stats(ctx context.Context) (*models.DeploymentStats, error)
	ArchiveAllActive(ctx context.Context, req models.ArchiveRequest) (int, error)
	ListHistory(ctx context.Context, filter models.DeploymentHistoryFilter) ([]models.DeploymentHistory, int, error)
	ListAllHistory(ctx context.Context, filter models.DeploymentHistoryFilter) ([]models.DeploymentHistory, error)
	FindHistoryByID(ctx context.Context, id string) (*models.DeploymentHistory, error)
}

type candidateWorkerReader interface {
	FindCandidates(ctx context.Context, q models.CandidateQuery) ([]models.CandidateWorker, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.HealthcareWorker, error)
}

type workerTrainingReader interface {
	ListForWorkers(ctx context.Context, workerIDs []string) ([]models.WorkerTraining, error)
}

type latestAvailabilityReader interface {
	LatestForWorkers(ctx context.Context, workerIDs []string) ([]models.AvailabilityRecord, error)
}

type districtFinder interface {
	FindByID(ctx context.Context, id string) (*models.District, error)
}

// DeploymentServiceConfig tunes deployment planning.
type DeploymentServiceConfig struct {
	DefaultDurationDays int
}

// DeploymentServiceParams groups constructor dependencies.
type DeploymentServiceParams struct {
	Deployments  deploymentStore
	Workers      candidateWorkerReader
	Trainings    workerTrainingReader
	Availability latestAvailabilityReader
	Districts    districtFinder
	Metrics      *MetricsService
	Validator    *validator.Validate
	Logger       *zap.Logger
	Config       DeploymentServiceConfig
}

// DeploymentService selects candidates for outbreak response and manages the deployment lifecycle.
type DeploymentService struct {
	deployments  deploymentStore
	workers      candidateWorkerReader
	trainings    workerTrainingReader
	availability latestAvailabilityReader
	districts    districtFinder
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
	cfg          DeploymentServiceConfig
}

// NewDeploymentService constructs a DeploymentService with sane defaults.
func NewDeploymentService(params DeploymentServiceParams) *DeploymentService {
	cfg := params.Config
	if cfg.DefaultDurationDays <= 0 || cfg.DefaultDurationDays > 365 {
		cfg.DefaultDurationDays = 30
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeploymentService{
		deployments:  params.Deployments,
		workers:      params.Workers,
		trainings:    params.Trainings,
		availability: params.Availability,
		districts:    params.Districts,
		metrics:      params.Metrics,
		validator:    validate,
		logger:       logger,
		now:          time.Now,
		cfg:          cfg,
	}
}

// SelectCandidates ranks eligible workers for a staffing request. An empty shortlist is not an error.
func (s *DeploymentService) SelectCandidates(ctx context.Context, req dto.CandidateRequest) (*dto.CandidateResponse, error) {
	s.applyDefaults(&req)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid candidate request")
	}
	if _, err := s.loadDistrict(ctx, req.DistrictID); err != nil {
		return nil, err
	}

	ranked, err := s.rank(ctx, req)
	if err != nil {
		return nil, err
	}
	return buildCandidateResponse(req, ranked), nil
}

// Plan ranks candidates and deploys the shortlist in one transaction.
func (s *DeploymentService) Plan(ctx context.Context, req dto.PlanRequest) (*dto.PlanResponse, error) {
	s.applyDefaults(&req.CandidateRequest)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid deployment plan")
	}
	district, err := s.loadDistrict(ctx, req.DistrictID)
	if err != nil {
		return nil, err
	}

	ranked, err := s.rank(ctx, req.CandidateRequest)
	if err != nil {
		return nil, err
	}

	resp := &dto.PlanResponse{CandidateResponse: *buildCandidateResponse(req.CandidateRequest, ranked), Deployments: []models.Deployment{}}
	if len(ranked) == 0 {
		return resp, nil
	}

	start, _ := time.Parse(dto.DateLayout, req.StartDate)
	template := deploymentTemplate{
		districtID:     district.ID,
		outbreakType:   req.OutbreakType,
		start:          start,
		durationDays:   req.EstimatedDurationDays,
		urgency:        req.Urgency,
		deploymentName: defaultDeploymentName(req.DeploymentName, req.OutbreakType, district.Name, start),
		notes:          req.Notes,
	}
	deployments := make([]models.Deployment, 0, len(ranked))
	for _, c := range ranked {
		deployments = append(deployments, template.build(c.Worker.ID, resolveRole("", c.MatchedPosition, c.Worker.Position)))
	}

	if err := s.deployments.CreateBatch(ctx, deployments); err != nil {
		return nil, appErrors.FromPQ(err, "failed to create deployments")
	}
	s.metrics.RecordDeploymentsCreated(req.OutbreakType, len(deployments))
	s.logger.Info("deployment plan created",
		zap.String("district_id", district.ID),
		zap.String("outbreak_type", req.OutbreakType),
		zap.Int("deployed", len(deployments)),
		zap.Int("requested", req.NumberOfWorkers))

	resp.Deployments = deployments
	return resp, nil
}

// CreateDeployments deploys hand-picked workers. Every worker must exist and be active.
func (s *DeploymentService) CreateDeployments(ctx context.Context, req dto.CreateDeploymentsRequest) ([]models.Deployment, error) {
	if req.EstimatedDurationDays == 0 {
		req.EstimatedDurationDays = s.cfg.DefaultDurationDays
	}
	if req.Urgency == "" {
		req.Urgency = models.UrgencyMedium
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid deployment payload")
	}
	district, err := s.loadDistrict(ctx, req.DistrictID)
	if err != nil {
		return nil, err
	}

	ids := lo.Uniq(lo.Map(req.Workers, func(a dto.DeploymentAssignment, _ int) string { return a.WorkerID }))
	if len(ids) != len(req.Workers) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "a worker can only be deployed once per request")
	}
	workers, err := s.workers.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load workers")
	}
	byID := lo.KeyBy(workers, func(w models.HealthcareWorker) string { return w.ID })

	criteria := newEligibilityCriteria(req.RequiredPositions, nil)
	start, _ := time.Parse(dto.DateLayout, req.StartDate)
	template := deploymentTemplate{
		districtID:     district.ID,
		outbreakType:   req.OutbreakType,
		start:          start,
		durationDays:   req.EstimatedDurationDays,
		urgency:        req.Urgency,
		deploymentName: defaultDeploymentName(req.DeploymentName, req.OutbreakType, district.Name, start),
		notes:          req.Notes,
	}

	deployments := make([]models.Deployment, 0, len(req.Workers))
	for _, assignment := range req.Workers {
		worker, ok := byID[assignment.WorkerID]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("worker %s not found", assignment.WorkerID))
		}
		if !worker.IsActive {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("worker %s is inactive", assignment.WorkerID))
		}
		matched, _ := criteria.matchPosition(worker.Position)
		deployments = append(deployments, template.build(worker.ID, resolveRole(assignment.Role, matched, worker.Position)))
	}

	if err := s.deployments.CreateBatch(ctx, deployments); err != nil {
		return nil, appErrors.FromPQ(err, "failed to create deployments")
	}
	s.metrics.RecordDeploymentsCreated(req.OutbreakType, len(deployments))
	return deployments, nil
}

// ArchiveAllActive moves every active deployment into history. actorID may be nil.
func (s *DeploymentService) ArchiveAllActive(ctx context.Context, req dto.ArchiveDeploymentsRequest, actorID *string) (*dto.ArchiveResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid archive request")
	}
	notes := strings.TrimSpace(req.CompletionNotes)
	if notes == "" {
		notes = "Deployment completed"
	}

	count, err := s.deployments.ArchiveAllActive(ctx, models.ArchiveRequest{
		ArchivedBy:      actorID,
		CompletionNotes: notes,
		ArchivedAt:      s.now().UTC(),
	})
	if err != nil {
		s.logger.Error("archive deployments failed", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to archive deployments")
	}
	s.metrics.RecordDeploymentsArchived(count)
	s.logger.Info("active deployments archived", zap.Int("count", count), zap.Stringp("archived_by", actorID))

	message := "No active deployments to archive"
	if count > 0 {
		message = fmt.Sprintf("Successfully archived %d deployment(s)", count)
	}
	return &dto.ArchiveResponse{ArchivedCount: count, Message: message}, nil
}

// Stats counts active, archived and total deployments.
func (s *DeploymentService) Stats(ctx context.Context) (*models.DeploymentStats, error) {
	stats, err := s.deployments.Stats(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count deployments")
	}
	return stats, nil
}

// List returns deployments plus pagination data.
func (s *DeploymentService) List(ctx context.Context, filter models.DeploymentFilter) ([]models.Deployment, *models.Pagination, error) {
	items, total, err := s.deployments.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list deployments")
	}
	return items, paginationFor(filter.Paging, total), nil
}

// Get returns a deployment by id.
func (s *DeploymentService) Get(ctx context.Context, id string) (*models.Deployment, error) {
	item, err := s.deployments.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "deployment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load deployment")
	}
	return item, nil
}

// ListHistory returns archived deployments plus pagination data.
func (s *DeploymentService) ListHistory(ctx context.Context, filter models.DeploymentHistoryFilter) ([]models.DeploymentHistory, *models.Pagination, error) {
	items, total, err := s.deployments.ListHistory(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list deployment history")
	}
	return items, paginationFor(filter.Paging, total), nil
}

// GetHistory returns an archived deployment by id.
func (s *DeploymentService) GetHistory(ctx context.Context, id string) (*models.DeploymentHistory, error) {
	item, err := s.deployments.FindHistoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "deployment history not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load deployment history")
	}
	return item, nil
}

func (s *DeploymentService) applyDefaults(req *dto.CandidateRequest) {
	if req.EstimatedDurationDays == 0 {
		req.EstimatedDurationDays = s.cfg.DefaultDurationDays
	}
}

func (s *DeploymentService) loadDistrict(ctx context.Context, id string) (*models.District, error) {
	district, err := s.districts.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "district not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load district")
	}
	return district, nil
}

// rank runs eligibility, scoring and ranking for a validated request.
func (s *DeploymentService) rank(ctx context.Context, req dto.CandidateRequest) ([]models.RankedCandidate, error) {
	started := s.now()
	criteria := newEligibilityCriteria(req.RequiredPositions, req.RequiredCompetencies)

	pool, err := s.workers.FindCandidates(ctx, models.CandidateQuery{
		ActiveOnly:    true,
		Positions:     criteria.positions,
		CompetencyIDs: criteria.competencyIDs,
	})
	s.metrics.ObserveDBQuery("find_candidates", s.now().Sub(started))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load candidate workers")
	}

	ids := lo.Map(pool, func(w models.CandidateWorker, _ int) string { return w.ID })
	trainingRows, err := s.trainings.ListForWorkers(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker competencies")
	}
	held := indexTrainings(trainingRows)

	eligible := filterEligible(pool, held, criteria)

	latest := map[string]*models.AvailabilityRecord{}
	if len(eligible) > 0 {
		records, err := s.availability.LatestForWorkers(ctx, lo.Map(eligible, func(w models.CandidateWorker, _ int) string { return w.ID }))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load worker availability")
		}
		for i := range records {
			latest[records[i].WorkerID] = &records[i]
		}
	}

	scored := make([]models.RankedCandidate, 0, len(eligible))
	for _, w := range eligible {
		scored = append(scored, scoreCandidate(w, held[w.ID], latest[w.ID], criteria, req.DistrictID))
	}
	ranked := rankCandidates(scored, req.NumberOfWorkers)

	s.metrics.ObserveCandidateSelection(req.OutbreakType, len(ranked), s.now().Sub(started))
	s.logger.Debug("candidates ranked",
		zap.String("district_id", req.DistrictID),
		zap.Int("pool", len(pool)),
		zap.Int("eligible", len(eligible)),
		zap.Int("returned", len(ranked)))
	return ranked, nil
}

type deploymentTemplate struct {
	districtID     string
	outbreakType   string
	start          time.Time
	durationDays   int
	urgency        string
	deploymentName string
	notes          *string
}

func (t deploymentTemplate) build(workerID, role string) models.Deployment {
	end := t.start.AddDate(0, 0, t.durationDays)
	urgency := t.urgency
	if urgency == "" {
		urgency = models.UrgencyMedium
	}
	return models.Deployment{
		WorkerID:       workerID,
		DistrictID:     t.districtID,
		OutbreakType:   t.outbreakType,
		StartDate:      t.start,
		EndDate:        &end,
		Role:           role,
		Status:         models.DeploymentActive,
		Urgency:        urgency,
		DeploymentName: t.deploymentName,
		Notes:          t.notes,
	}
}

// resolveRole prefers an explicit role, then the requested position the worker matched, then their own position.
func resolveRole(explicit, matched, position string) string {
	for _, candidate := range []string{explicit, matched, position} {
		if trimmed := strings.TrimSpace(candidate); trimmed != "" {
			return trimmed
		}
	}
	return models.DefaultDeploymentRole
}

func defaultDeploymentName(name, outbreak, district string, start time.Time) string {
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("%s - %s - %s", outbreak, district, start.Format(dto.DateLayout))
}

func buildCandidateResponse(req dto.CandidateRequest, ranked []models.RankedCandidate) *dto.CandidateResponse {
	views := lo.Map(ranked, func(c models.RankedCandidate, _ int) dto.CandidateView {
		view := dto.CandidateView{
			ID:               c.Worker.ID,
			FullName:         c.Worker.FullName(),
			FirstName:        c.Worker.FirstName,
			LastName:         c.Worker.LastName,
			Phone:            c.Worker.Phone,
			Email:            c.Worker.Email,
			Position:         c.Worker.Position,
			FacilityName:     c.Worker.FacilityName,
			DistrictName:     c.Worker.DistrictName,
			OrganizationName: c.Worker.OrganizationName,
			Competencies:     c.Competencies,
			MatchScore:       c.MatchScore,
			Readiness:        c.Readiness,
			DistrictMatch:    c.DistrictMatch,
		}
		if a := c.LatestAvailability; a != nil {
			view.LatestAvailability = &dto.AvailabilityView{Status: a.Status, Note: a.Note, Location: a.Location, RecordedAt: a.RecordedAt}
		}
		return view
	})
	return &dto.CandidateResponse{
		Request:    req,
		Candidates: views,
		Requested:  req.NumberOfWorkers,
		Returned:   len(views),
		Shortfall:  req.NumberOfWorkers - len(views),
	}
}

func paginationFor(p models.Paging, total int) *models.Pagination {
	p.Normalize()
	return &models.Pagination{Page: p.Page, PageSize: p.PageSize, TotalCount: total}
}
