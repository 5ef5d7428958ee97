package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type fakeCovidSrv struct {
	syncErr    error
	lastSource string
}

func (f *fakeCovidSrv) List(_ context.Context, filter models.CovidSnapshotFilter) ([]models.CovidSnapshot, *models.Pagination, error) {
	f.lastSource = filter.Source
	return []models.CovidSnapshot{{ID: "s1", Cases: 10}}, &models.Pagination{Page: 1, PageSize: 20, TotalCount: 1}, nil
}

func (f *fakeCovidSrv) RequestSync(context.Context) (string, error) {
	if f.syncErr != nil {
		return "", f.syncErr
	}
	return "job-1", nil
}

func newCovidRouter(srv *fakeCovidSrv) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCovidSnapshotHandler(srv)
	router := gin.New()
	router.GET("/covid-snapshots", h.List)
	router.POST("/covid-snapshots/sync", h.Sync)
	return router
}

func TestCovidSnapshotHandler(t *testing.T) {
	srv := &fakeCovidSrv{}
	router := newCovidRouter(srv)

	rec := doJSON(router, http.MethodGet, "/covid-snapshots?source=disease.sh", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "disease.sh", srv.lastSource)
	assert.Contains(t, rec.Body.String(), `"total_count":1`)

	rec = doJSON(router, http.MethodPost, "/covid-snapshots/sync", nil)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, rec.Body.String(), `"job_id":"job-1"`)

	srv.syncErr = appErrors.Wrap(errors.New("stopped"), appErrors.ErrUnavailable.Code, appErrors.ErrUnavailable.Status, "sync queue unavailable")
	rec = doJSON(router, http.MethodPost, "/covid-snapshots/sync", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
