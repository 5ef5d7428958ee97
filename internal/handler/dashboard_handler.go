package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hcw-deploy-api/internal/middleware"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
	"github.com/noah-isme/hcw-deploy-api/pkg/response"
)

type dashboardService interface {
	Summary(ctx context.Context, filter models.SummaryFilter) (*models.DashboardSummary, bool, error)
}

// DashboardHandler serves the aggregate registry summary.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Summary godoc
// @Summary Registry dashboard summary
// @Description Worker breakdowns honour the filters. District distribution and headline facility, organization, competency and training totals do not.
// @Tags Dashboard
// @Produce json
// @Param district query string false "District name or all"
// @Param gender query string false "male, female or all"
// @Param organization query string false "Organization name or all"
// @Param facility_type query string false "Facility type or all"
// @Success 200 {object} response.Envelope
// @Router /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	filter := models.NewSummaryFilter(c.Query("district"), c.Query("gender"), c.Query("organization"), c.Query("facility_type"))

	start := time.Now()
	summary, cacheHit, err := h.service.Summary(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	meta := middleware.ExtractMeta(c)
	if meta == nil {
		meta = map[string]interface{}{}
	}
	meta["processing_time_ms"] = time.Since(start).Milliseconds()
	response.JSON(c, http.StatusOK, summary, nil, meta)
}
