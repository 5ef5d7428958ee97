package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/hcw-deploy-api/api/swagger"
	"github.com/noah-isme/hcw-deploy-api/internal/handler"
	"github.com/noah-isme/hcw-deploy-api/internal/repository"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	"github.com/noah-isme/hcw-deploy-api/pkg/cache"
	"github.com/noah-isme/hcw-deploy-api/pkg/config"
	"github.com/noah-isme/hcw-deploy-api/pkg/database"
	"github.com/noah-isme/hcw-deploy-api/pkg/diseasefeed"
	"github.com/noah-isme/hcw-deploy-api/pkg/jobs"
	"github.com/noah-isme/hcw-deploy-api/pkg/logger"
	"github.com/noah-isme/hcw-deploy-api/pkg/storage"
)

// @title Healthcare Workforce Deployment API
// @version 1.0.0
// @description Workforce registry and outbreak deployment coordination for healthcare workers.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logr *zap.Logger) error {
	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(ctx, cfg.Database, logr)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	checks := map[string]handler.Pinger{"postgres": db}

	var cacheRepo service.CacheRepository
	redisClient, err := cache.NewRedis(cfg.Redis, logr)
	switch {
	case err != nil:
		logr.Warn("redis unavailable, using in-process cache", zap.Error(err))
		cacheRepo = repository.NewMemoryCacheRepository(cfg.Cache.SummaryTTL)
	case redisClient == nil:
		cacheRepo = repository.NewMemoryCacheRepository(cfg.Cache.SummaryTTL)
	default:
		defer redisClient.Close()
		cacheRepo = repository.NewCacheRepository(redisClient, "hcw:", logr)
		checks["redis"] = cache.Pinger{Client: redisClient}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.SummaryTTL, logr, cfg.Cache.Enabled)

	districtRepo := repository.NewDistrictRepository(db)
	organizationRepo := repository.NewOrganizationRepository(db)
	facilityRepo := repository.NewFacilityRepository(db)
	competencyRepo := repository.NewCompetencyRepository(db)
	workerRepo := repository.NewWorkerRepository(db)
	trainingRepo := repository.NewTrainingRepository(db)
	availabilityRepo := repository.NewAvailabilityRepository(db)
	deploymentRepo := repository.NewDeploymentRepository(db)
	summaryRepo := repository.NewSummaryRepository(db)
	userRepo := repository.NewUserRepository(db)
	covidRepo := repository.NewCovidSnapshotRepository(db)

	certStore, err := storage.NewLocalStorage(cfg.Certificates.StorageDir)
	if err != nil {
		return err
	}
	signer := storage.NewSignedURLSigner(cfg.Certificates.SignedURLSecret, cfg.Certificates.SignedURLTTL)

	dashboardSvc := service.NewDashboardService(service.DashboardServiceParams{
		Repo:   summaryRepo,
		Cache:  cacheSvc,
		Logger: logr,
		Config: service.DashboardServiceConfig{CacheTTL: cfg.Cache.SummaryTTL},
	})
	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret: cfg.JWT.Secret,
		AccessTokenExpiry: cfg.JWT.Expiration,
		Issuer:            "hcw-deploy-api",
	})
	deploymentSvc := service.NewDeploymentService(service.DeploymentServiceParams{
		Deployments:  deploymentRepo,
		Workers:      workerRepo,
		Trainings:    trainingRepo,
		Availability: availabilityRepo,
		Districts:    districtRepo,
		Metrics:      metrics,
		Validator:    validate,
		Logger:       logr,
		Config:       service.DeploymentServiceConfig{DefaultDurationDays: cfg.Selection.DefaultDurationDays},
	})
	trainingSvc := service.NewTrainingService(service.TrainingServiceParams{
		Repo:         trainingRepo,
		Workers:      workerRepo,
		Competencies: competencyRepo,
		Store:        certStore,
		Signer:       signer,
		Summary:      dashboardSvc,
		Validator:    validate,
		Logger:       logr,
		Config: service.TrainingServiceConfig{
			MaxCertificateBytes: cfg.Certificates.MaxFileSizeBytes,
			AllowedMIMEs:        cfg.Certificates.AllowedMIMEs,
			DownloadPath:        cfg.APIPrefix + "/certificates/download",
		},
	})
	exportSvc := service.NewExportService(deploymentRepo, workerRepo, logr)

	feed := diseasefeed.NewClient(diseasefeed.Config{
		BaseURL: cfg.CovidFeed.BaseURL,
		Timeout: cfg.CovidFeed.Timeout,
		Retries: cfg.CovidFeed.Retries,
	}, logr)
	covidSvc := service.NewCovidSnapshotService(feed, covidRepo, cfg.CovidFeed.Country, logr)
	covidQueue := jobs.NewQueue("covid-sync", covidSvc.HandleJob, jobs.QueueConfig{
		Workers:    cfg.CovidFeed.Workers,
		MaxRetries: cfg.CovidFeed.Retries,
		RetryDelay: 30 * time.Second,
		Logger:     logr,
	})
	covidQueue.Start(ctx)
	defer covidQueue.Stop()
	covidSvc.AttachQueue(covidQueue)
	if cfg.CovidFeed.Enabled {
		covidQueue.Every(ctx, cfg.CovidFeed.Interval, covidSvc.NewSyncJob)
	}

	handlers := routeHandlers{
		auth:          handler.NewAuthHandler(authSvc),
		users:         handler.NewUserHandler(service.NewUserService(userRepo, validate, logr)),
		districts:     handler.NewDistrictHandler(service.NewDistrictService(districtRepo, dashboardSvc, validate, logr)),
		organizations: handler.NewOrganizationHandler(service.NewOrganizationService(organizationRepo, dashboardSvc, validate, logr)),
		facilities:    handler.NewFacilityHandler(service.NewFacilityService(facilityRepo, districtRepo, organizationRepo, dashboardSvc, validate, logr)),
		competencies:  handler.NewCompetencyHandler(service.NewCompetencyService(competencyRepo, dashboardSvc, validate, logr)),
		workers:       handler.NewWorkerHandler(service.NewWorkerService(workerRepo, facilityRepo, organizationRepo, dashboardSvc, validate, logr), exportSvc),
		trainings:     handler.NewTrainingHandler(trainingSvc, cfg.Certificates.MaxFileSizeBytes),
		availability:  handler.NewAvailabilityHandler(service.NewAvailabilityService(availabilityRepo, workerRepo, validate, logr)),
		deployments:   handler.NewDeploymentHandler(deploymentSvc, exportSvc),
		dashboard:     handler.NewDashboardHandler(dashboardSvc),
		covid:         handler.NewCovidSnapshotHandler(covidSvc),
		metrics:       handler.NewMetricsHandler(metrics, checks),
		audit:         repository.NewAuditRepository(db),
	}
	router := newRouter(cfg, logr, metrics, authSvc, handlers)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
