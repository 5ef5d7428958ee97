package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/handler"
	"github.com/noah-isme/hcw-deploy-api/internal/middleware"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	"github.com/noah-isme/hcw-deploy-api/pkg/config"
	"github.com/noah-isme/hcw-deploy-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/hcw-deploy-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/hcw-deploy-api/pkg/middleware/requestid"
)

type routeHandlers struct {
	auth          *handler.AuthHandler
	users         *handler.UserHandler
	districts     *handler.DistrictHandler
	organizations *handler.OrganizationHandler
	facilities    *handler.FacilityHandler
	competencies  *handler.CompetencyHandler
	workers       *handler.WorkerHandler
	trainings     *handler.TrainingHandler
	availability  *handler.AvailabilityHandler
	deployments   *handler.DeploymentHandler
	dashboard     *handler.DashboardHandler
	covid         *handler.CovidSnapshotHandler
	metrics       *handler.MetricsHandler
	audit         middleware.AuditRecorder
}

type crudHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

func newRouter(cfg *config.Config, logr *zap.Logger, metrics *service.MetricsService, tokens middleware.TokenValidator, h routeHandlers) *gin.Engine {
	r := gin.New()
	r.Use(logger.Recovery(logr))
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", h.metrics.Health)
	r.GET("/ready", h.metrics.Ready)
	r.GET("/metrics", h.metrics.Prometheus)
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(h.audit, logr, action, resource)
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", h.auth.Login)
	// signed token authorises the download; a bearer token only names the actor in the audit row
	api.GET("/certificates/download", middleware.OptionalJWT(tokens),
		audit(models.AuditActionCertificateDownload, "certificate"), h.trainings.DownloadCertificate)

	authed := api.Group("")
	authed.Use(middleware.JWT(tokens))
	writers := middleware.RequireRoles(models.RoleAdmin, models.RoleCoordinator)

	authed.GET("/auth/me", h.auth.Me)
	admins := middleware.RequireRoles(models.RoleAdmin)
	authed.GET("/system/metrics", admins, h.metrics.Snapshot)

	registerCRUD(authed.Group("/users", admins), "", h.users)

	registerCRUD(authed, "/districts", h.districts, writers)
	registerCRUD(authed, "/organizations", h.organizations, writers)
	registerCRUD(authed, "/facilities", h.facilities, writers)
	registerCRUD(authed, "/competencies", h.competencies, writers)

	authed.GET("/workers/export", h.workers.Export)
	registerCRUD(authed, "/workers", h.workers, writers)
	authed.GET("/workers/:id/availability/latest", h.availability.Latest)

	registerCRUD(authed, "/trainings", h.trainings, writers)
	authed.POST("/trainings/:id/certificate", writers, audit(models.AuditActionCertificateUpload, "trainings"), h.trainings.UploadCertificate)
	authed.GET("/trainings/:id/certificate-url", h.trainings.CertificateURL)

	authed.GET("/availability", h.availability.List)
	authed.POST("/availability", writers, h.availability.Record)

	deployments := authed.Group("/deployments")
	deployments.POST("/candidates", h.deployments.Candidates)
	deployments.POST("/plan", writers, audit(models.AuditActionDeploymentPlan, "deployments"), h.deployments.Plan)
	deployments.POST("", writers, audit(models.AuditActionDeploymentCreate, "deployments"), h.deployments.Create)
	deployments.GET("", h.deployments.List)
	deployments.GET("/stats", h.deployments.Stats)
	deployments.GET("/export", h.deployments.Export)
	deployments.POST("/archive", writers, audit(models.AuditActionDeploymentArchive, "deployments"), h.deployments.Archive)
	deployments.GET("/:id", h.deployments.Get)

	history := authed.Group("/deployment-history")
	history.GET("", h.deployments.ListHistory)
	history.GET("/export", h.deployments.ExportHistory)
	history.GET("/:id", h.deployments.GetHistory)

	authed.GET("/dashboard/summary", h.dashboard.Summary)
	authed.GET("/covid-snapshots", h.covid.List)
	authed.POST("/covid-snapshots/sync", writers, audit(models.AuditActionCovidSync, "covid_snapshots"), h.covid.Sync)

	return r
}

func registerCRUD(group *gin.RouterGroup, path string, h crudHandler, writeGuards ...gin.HandlerFunc) {
	guarded := func(final gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, writeGuards...), final)
	}
	group.GET(path, h.List)
	group.GET(path+"/:id", h.Get)
	group.POST(path, guarded(h.Create)...)
	group.PUT(path+"/:id", guarded(h.Update)...)
	group.DELETE(path+"/:id", guarded(h.Delete)...)
}
