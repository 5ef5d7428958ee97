package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/middleware"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	"github.com/noah-isme/hcw-deploy-api/pkg/response"
)

type deploymentService interface {
	SelectCandidates(ctx context.Context, req dto.CandidateRequest) (*dto.CandidateResponse, error)
	Plan(ctx context.Context, req dto.PlanRequest) (*dto.PlanResponse, error)
	CreateDeployments(ctx context.Context, req dto.CreateDeploymentsRequest) ([]models.Deployment, error)
	ArchiveAllActive(ctx context.Context, req dto.ArchiveDeploymentsRequest, actorID *string) (*dto.ArchiveResponse, error)
	Stats(ctx context.Context) (*models.DeploymentStats, error)
	List(ctx context.Context, filter models.DeploymentFilter) ([]models.Deployment, *models.Pagination, error)
	Get(ctx context.Context, id string) (*models.Deployment, error)
	ListHistory(ctx context.Context, filter models.DeploymentHistoryFilter) ([]models.DeploymentHistory, *models.Pagination, error)
	GetHistory(ctx context.Context, id string) (*models.DeploymentHistory, error)
}

type deploymentExporter interface {
	ActiveDeployments(ctx context.Context, filter models.DeploymentFilter, format string) (*service.ExportFile, error)
	History(ctx context.Context, filter models.DeploymentHistoryFilter, format string) (*service.ExportFile, error)
}

// DeploymentHandler exposes candidate selection, the deployment lifecycle and history.
type DeploymentHandler struct {
	service deploymentService
	exports deploymentExporter
}

// NewDeploymentHandler constructs a deployment handler.
func NewDeploymentHandler(svc deploymentService, exports deploymentExporter) *DeploymentHandler {
	return &DeploymentHandler{service: svc, exports: exports}
}

// Candidates godoc
// @Summary Rank deployment candidates
// @Description Filters active workers by position and competency, scores and ranks them without persisting anything
// @Tags Deployments
// @Accept json
// @Produce json
// @Param payload body dto.CandidateRequest true "Selection criteria"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /deployments/candidates [post]
func (h *DeploymentHandler) Candidates(c *gin.Context) {
	var req dto.CandidateRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.SelectCandidates(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetMeta(c, "shortfall", res.Shortfall)
	response.JSON(c, http.StatusOK, res, nil, middleware.ExtractMeta(c))
}

// Plan godoc
// @Summary Rank candidates and deploy the top N
// @Tags Deployments
// @Accept json
// @Produce json
// @Param payload body dto.PlanRequest true "Plan request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /deployments/plan [post]
func (h *DeploymentHandler) Plan(c *gin.Context) {
	var req dto.PlanRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.service.Plan(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Create godoc
// @Summary Deploy selected workers
// @Tags Deployments
// @Accept json
// @Produce json
// @Param payload body dto.CreateDeploymentsRequest true "Deployment batch"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /deployments [post]
func (h *DeploymentHandler) Create(c *gin.Context) {
	var req dto.CreateDeploymentsRequest
	if !bindJSON(c, &req) {
		return
	}
	items, err := h.service.CreateDeployments(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, items)
}

// List godoc
// @Summary List deployments
// @Tags Deployments
// @Produce json
// @Param status query string false "active or archived"
// @Param outbreak_type query string false "Outbreak type"
// @Param district_id query string false "District"
// @Param worker_id query string false "Worker"
// @Param search query string false "Search worker or deployment name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /deployments [get]
func (h *DeploymentHandler) List(c *gin.Context) {
	items, pagination, err := h.service.List(c.Request.Context(), deploymentFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get deployment by id
// @Tags Deployments
// @Produce json
// @Param id path string true "Deployment ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /deployments/{id} [get]
func (h *DeploymentHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Stats godoc
// @Summary Deployment counts by status
// @Tags Deployments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /deployments/stats [get]
func (h *DeploymentHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, stats, nil)
}

// Archive godoc
// @Summary Archive all active deployments
// @Description Moves every active deployment into history in one transaction
// @Tags Deployments
// @Accept json
// @Produce json
// @Param payload body dto.ArchiveDeploymentsRequest false "Completion notes"
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Security BearerAuth
// @Router /deployments/archive [post]
func (h *DeploymentHandler) Archive(c *gin.Context) {
	var req dto.ArchiveDeploymentsRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	res, err := h.service.ArchiveAllActive(c.Request.Context(), req, actorFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// Export godoc
// @Summary Export active deployments
// @Tags Deployments
// @Produce octet-stream
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Param outbreak_type query string false "Outbreak type"
// @Param district_id query string false "District"
// @Success 200 {file} file
// @Router /deployments/export [get]
func (h *DeploymentHandler) Export(c *gin.Context) {
	file, err := h.exports.ActiveDeployments(c.Request.Context(), deploymentFilterFromQuery(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

// ListHistory godoc
// @Summary List archived deployments
// @Tags Deployment History
// @Produce json
// @Param outbreak_type query string false "Outbreak type"
// @Param district_id query string false "District"
// @Param worker_id query string false "Worker"
// @Param search query string false "Search worker or deployment name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /deployment-history [get]
func (h *DeploymentHandler) ListHistory(c *gin.Context) {
	items, pagination, err := h.service.ListHistory(c.Request.Context(), historyFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// GetHistory godoc
// @Summary Get archived deployment by id
// @Tags Deployment History
// @Produce json
// @Param id path string true "History ID"
// @Success 200 {object} response.Envelope
// @Router /deployment-history/{id} [get]
func (h *DeploymentHandler) GetHistory(c *gin.Context) {
	item, err := h.service.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// ExportHistory godoc
// @Summary Export deployment history
// @Tags Deployment History
// @Produce octet-stream
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} file
// @Router /deployment-history/export [get]
func (h *DeploymentHandler) ExportHistory(c *gin.Context) {
	file, err := h.exports.History(c.Request.Context(), historyFilterFromQuery(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func deploymentFilterFromQuery(c *gin.Context) models.DeploymentFilter {
	return models.DeploymentFilter{
		Status:       c.Query("status"),
		OutbreakType: c.Query("outbreak_type"),
		DistrictID:   c.Query("district_id"),
		WorkerID:     c.Query("worker_id"),
		Search:       searchQuery(c),
		Paging:       pagingFromQuery(c),
	}
}

func historyFilterFromQuery(c *gin.Context) models.DeploymentHistoryFilter {
	return models.DeploymentHistoryFilter{
		OutbreakType: c.Query("outbreak_type"),
		DistrictID:   c.Query("district_id"),
		WorkerID:     c.Query("worker_id"),
		Search:       searchQuery(c),
		Paging:       pagingFromQuery(c),
	}
}
