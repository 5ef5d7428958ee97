package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	"github.com/noah-isme/hcw-deploy-api/pkg/response"
)

// WorkerHandler handles healthcare worker endpoints.
type WorkerHandler struct {
	service *service.WorkerService
	exports *service.ExportService
}

// NewWorkerHandler constructs a worker handler.
func NewWorkerHandler(svc *service.WorkerService, exports *service.ExportService) *WorkerHandler {
	return &WorkerHandler{service: svc, exports: exports}
}

// List godoc
// @Summary List healthcare workers
// @Tags Workers
// @Produce json
// @Param search query string false "Search names, phone or national id"
// @Param district_id query string false "Filter by facility district"
// @Param facility_id query string false "Filter by facility"
// @Param organization_id query string false "Filter by organization"
// @Param gender query string false "Filter by gender"
// @Param position query string false "Filter by position (substring)"
// @Param is_active query bool false "Filter by active flag"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	workers, pagination, err := h.service.List(c.Request.Context(), workerFilterFromQuery(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workers, pagination)
}

// Get godoc
// @Summary Get worker by id
// @Tags Workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} response.Envelope
// @Router /workers/{id} [get]
func (h *WorkerHandler) Get(c *gin.Context) {
	worker, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, worker, nil)
}

// Create godoc
// @Summary Register worker
// @Tags Workers
// @Accept json
// @Produce json
// @Param payload body dto.WorkerRequest true "Worker payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /workers [post]
func (h *WorkerHandler) Create(c *gin.Context) {
	var req dto.WorkerRequest
	if !bindJSON(c, &req) {
		return
	}
	worker, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, worker)
}

// Update godoc
// @Summary Update worker
// @Tags Workers
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param payload body dto.WorkerRequest true "Worker payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /workers/{id} [put]
func (h *WorkerHandler) Update(c *gin.Context) {
	var req dto.WorkerRequest
	if !bindJSON(c, &req) {
		return
	}
	worker, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, worker, nil)
}

// Delete godoc
// @Summary Deactivate worker
// @Description Workers are deactivated rather than removed so deployment history stays intact
// @Tags Workers
// @Param id path string true "Worker ID"
// @Success 204
// @Security BearerAuth
// @Router /workers/{id} [delete]
func (h *WorkerHandler) Delete(c *gin.Context) {
	if err := h.service.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Export godoc
// @Summary Export worker register
// @Tags Workers
// @Produce octet-stream
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Success 200 {file} file
// @Router /workers/export [get]
func (h *WorkerHandler) Export(c *gin.Context) {
	file, err := h.exports.Workers(c.Request.Context(), workerFilterFromQuery(c), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

func workerFilterFromQuery(c *gin.Context) models.WorkerFilter {
	return models.WorkerFilter{
		Search:         searchQuery(c),
		DistrictID:     c.Query("district_id"),
		FacilityID:     c.Query("facility_id"),
		OrganizationID: c.Query("organization_id"),
		Gender:         c.Query("gender"),
		Position:       c.Query("position"),
		IsActive:       optionalBoolQuery(c, "is_active"),
		Paging:         pagingFromQuery(c),
	}
}
