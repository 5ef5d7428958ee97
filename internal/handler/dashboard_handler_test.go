package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type fakeDashboardSrv struct {
	summary    *models.DashboardSummary
	hit        bool
	err        error
	lastFilter models.SummaryFilter
}

func (f *fakeDashboardSrv) Summary(_ context.Context, filter models.SummaryFilter) (*models.DashboardSummary, bool, error) {
	f.lastFilter = filter
	return f.summary, f.hit, f.err
}

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Meta  map[string]interface{} `json:"meta"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func TestDashboardHandlerSummaryParsesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeDashboardSrv{summary: &models.DashboardSummary{Summary: models.SummaryTotals{TotalWorkers: 4}}, hit: true}
	handler := NewDashboardHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/summary?district=Lilongwe&gender=all&facility_type=clinic", nil)

	handler.Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, srv.lastFilter.District)
	assert.Equal(t, "Lilongwe", *srv.lastFilter.District)
	assert.Nil(t, srv.lastFilter.Gender)
	assert.Nil(t, srv.lastFilter.Organization)
	require.NotNil(t, srv.lastFilter.FacilityType)
	assert.Equal(t, "clinic", *srv.lastFilter.FacilityType)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, true, envelope.Meta["cache_hit"])
	summary := envelope.Data["summary"].(map[string]interface{})
	assert.Equal(t, float64(4), summary["total_workers"])
}

func TestDashboardHandlerSummaryError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewDashboardHandler(&fakeDashboardSrv{err: appErrors.Wrap(errors.New("timeout"), appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load totals")})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/dashboard/summary", nil)

	handler.Summary(c)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
}
