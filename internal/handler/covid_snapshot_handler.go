package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/pkg/response"
)

type covidSnapshotService interface {
	List(ctx context.Context, filter models.CovidSnapshotFilter) ([]models.CovidSnapshot, *models.Pagination, error)
	RequestSync(ctx context.Context) (string, error)
}

// CovidSnapshotHandler exposes stored outbreak figures and manual syncs.
type CovidSnapshotHandler struct {
	service covidSnapshotService
}

// NewCovidSnapshotHandler constructs the handler.
func NewCovidSnapshotHandler(svc covidSnapshotService) *CovidSnapshotHandler {
	return &CovidSnapshotHandler{service: svc}
}

// List godoc
// @Summary List COVID-19 snapshots
// @Tags Outbreak Feed
// @Produce json
// @Param source query string false "Feed source"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /covid-snapshots [get]
func (h *CovidSnapshotHandler) List(c *gin.Context) {
	filter := models.CovidSnapshotFilter{Source: c.Query("source"), Paging: pagingFromQuery(c)}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Sync godoc
// @Summary Queue a feed sync
// @Tags Outbreak Feed
// @Produce json
// @Success 202 {object} response.Envelope
// @Failure 503 {object} response.Envelope
// @Security BearerAuth
// @Router /covid-snapshots/sync [post]
func (h *CovidSnapshotHandler) Sync(c *gin.Context) {
	jobID, err := h.service.RequestSync(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"job_id": jobID, "status": "queued"}, nil)
}
