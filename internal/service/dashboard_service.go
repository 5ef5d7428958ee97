package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

// SummaryCachePattern matches every cached dashboard summary.
const SummaryCachePattern = "dash:summary:*"

type summaryRepository interface {
	Totals(ctx context.Context, filter models.SummaryFilter) (*models.SummaryTotals, error)
	GenderDistribution(ctx context.Context, filter models.SummaryFilter) ([]models.GenderCount, error)
	DistrictDistribution(ctx context.Context) ([]models.DistrictCount, error)
	FacilityTypes(ctx context.Context, filter models.SummaryFilter) ([]models.FacilityTypeCount, error)
	OrganizationDistribution(ctx context.Context, filter models.SummaryFilter) ([]models.OrganizationCount, error)
	CompetencyPopularity(ctx context.Context, filter models.SummaryFilter, limit int) ([]models.CompetencyCount, error)
	TrainingTimeline(ctx context.Context, filter models.SummaryFilter) ([]models.TrainingYearCount, error)
	DisabilityStats(ctx context.Context, filter models.SummaryFilter) (*models.DisabilityStats, error)
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL           time.Duration
	TopCompetencyLimit int
}

// DashboardService composes the registry summary served to the dashboard.
type DashboardService struct {
	repo   summaryRepository
	cache  *CacheService
	logger *zap.Logger
	cfg    DashboardServiceConfig
}

// DashboardServiceParams groups constructor dependencies.
type DashboardServiceParams struct {
	Repo   summaryRepository
	Cache  *CacheService
	Logger *zap.Logger
	Config DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if cfg.TopCompetencyLimit <= 0 {
		cfg.TopCompetencyLimit = 10
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		repo:   params.Repo,
		cache:  params.Cache,
		logger: logger,
		cfg:    cfg,
	}
}

// Summary returns the aggregate registry picture for the filter and indicates cache utilisation.
// District rollup and headline facility, organization, competency and training totals ignore the filter.
func (s *DashboardService) Summary(ctx context.Context, filter models.SummaryFilter) (*models.DashboardSummary, bool, error) {
	return Remember(ctx, s.cache, "dash:summary:"+filter.CacheKey(), s.cfg.CacheTTL, func(ctx context.Context) (*models.DashboardSummary, error) {
		return s.compose(ctx, filter)
	})
}

// Invalidate drops every cached summary. Called after registry writes.
func (s *DashboardService) Invalidate(ctx context.Context) {
	if s == nil || s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, SummaryCachePattern); err != nil {
		s.logger.Warn("dashboard cache invalidate failed", zap.Error(err))
	}
}

func (s *DashboardService) compose(ctx context.Context, filter models.SummaryFilter) (*models.DashboardSummary, error) {
	summary := &models.DashboardSummary{AppliedFilters: filter}
	var (
		totals     *models.SummaryTotals
		disability *models.DisabilityStats
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totals, err = s.repo.Totals(gctx, filter)
		return wrapSummaryErr(err, "totals")
	})
	g.Go(func() (err error) {
		summary.GenderDistribution, err = s.repo.GenderDistribution(gctx, filter)
		return wrapSummaryErr(err, "gender distribution")
	})
	g.Go(func() (err error) {
		summary.DistrictDistribution, err = s.repo.DistrictDistribution(gctx)
		return wrapSummaryErr(err, "district distribution")
	})
	g.Go(func() (err error) {
		summary.FacilityTypes, err = s.repo.FacilityTypes(gctx, filter)
		return wrapSummaryErr(err, "facility types")
	})
	g.Go(func() (err error) {
		summary.OrganizationDistribution, err = s.repo.OrganizationDistribution(gctx, filter)
		return wrapSummaryErr(err, "organization distribution")
	})
	g.Go(func() (err error) {
		summary.CompetencyPopularity, err = s.repo.CompetencyPopularity(gctx, filter, s.cfg.TopCompetencyLimit)
		return wrapSummaryErr(err, "competency popularity")
	})
	g.Go(func() (err error) {
		summary.TrainingTimeline, err = s.repo.TrainingTimeline(gctx, filter)
		return wrapSummaryErr(err, "training timeline")
	})
	g.Go(func() (err error) {
		disability, err = s.repo.DisabilityStats(gctx, filter)
		return wrapSummaryErr(err, "disability stats")
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard summary failed", zap.Error(err))
		return nil, err
	}

	if totals != nil {
		summary.Summary = *totals
	}
	if disability != nil {
		summary.DisabilityStats = *disability
	}
	ensureSummarySlices(summary)
	return summary, nil
}

func wrapSummaryErr(err error, section string) error {
	if err == nil {
		return nil
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+section)
}

// ensureSummarySlices keeps empty breakdowns serialised as [] rather than null.
func ensureSummarySlices(summary *models.DashboardSummary) {
	if summary.GenderDistribution == nil {
		summary.GenderDistribution = []models.GenderCount{}
	}
	if summary.DistrictDistribution == nil {
		summary.DistrictDistribution = []models.DistrictCount{}
	}
	if summary.FacilityTypes == nil {
		summary.FacilityTypes = []models.FacilityTypeCount{}
	}
	if summary.OrganizationDistribution == nil {
		summary.OrganizationDistribution = []models.OrganizationCount{}
	}
	if summary.CompetencyPopularity == nil {
		summary.CompetencyPopularity = []models.CompetencyCount{}
	}
	if summary.TrainingTimeline == nil {
		summary.TrainingTimeline = []models.TrainingYearCount{}
	}
}
