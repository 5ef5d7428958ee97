package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	"github.com/noah-isme/hcw-deploy-api/pkg/response"
)

// AvailabilityHandler exposes the append-only availability timeline.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs an availability handler.
func NewAvailabilityHandler(svc *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: svc}
}

// List godoc
// @Summary List availability records
// @Tags Availability
// @Produce json
// @Param worker_id query string false "Filter by worker"
// @Param status query string false "available, unavailable, deployed or on_leave"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /availability [get]
func (h *AvailabilityHandler) List(c *gin.Context) {
	filter := models.AvailabilityFilter{
		WorkerID: c.Query("worker_id"),
		Status:   c.Query("status"),
		Paging:   pagingFromQuery(c),
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Record godoc
// @Summary Record worker availability
// @Tags Availability
// @Accept json
// @Produce json
// @Param payload body dto.AvailabilityRequest true "Availability payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /availability [post]
func (h *AvailabilityHandler) Record(c *gin.Context) {
	var req dto.AvailabilityRequest
	if !bindJSON(c, &req) {
		return
	}
	record, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}

// Latest godoc
// @Summary Latest availability for a worker
// @Tags Availability
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workers/{id}/availability/latest [get]
func (h *AvailabilityHandler) Latest(c *gin.Context) {
	record, err := h.service.Latest(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, record, nil)
}
