package main

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/handler"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	"github.com/noah-isme/hcw-deploy-api/pkg/config"
)

type staticTokens map[string]*models.JWTClaims

func (s staticTokens) ValidateToken(token string) (*models.JWTClaims, error) {
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, errors.New("unknown token")
}

func newTestRouter(env string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{Env: env, APIPrefix: "/api/v1"}
	metrics := service.NewMetricsService()
	tokens := staticTokens{"viewer": {UserID: "u-1", Role: models.RoleViewer}}
	h := routeHandlers{
		auth:          handler.NewAuthHandler(nil),
		users:         handler.NewUserHandler(nil),
		districts:     handler.NewDistrictHandler(nil),
		organizations: handler.NewOrganizationHandler(nil),
		facilities:    handler.NewFacilityHandler(nil),
		competencies:  handler.NewCompetencyHandler(nil),
		workers:       handler.NewWorkerHandler(nil, nil),
		trainings:     handler.NewTrainingHandler(nil, 1024),
		availability:  handler.NewAvailabilityHandler(nil),
		deployments:   handler.NewDeploymentHandler(nil, nil),
		dashboard:     handler.NewDashboardHandler(nil),
		covid:         handler.NewCovidSnapshotHandler(nil),
		metrics:       handler.NewMetricsHandler(metrics, nil),
	}
	return newRouter(cfg, zap.NewNop(), metrics, tokens, h)
}

func request(router *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRouterHealthAndReady(t *testing.T) {
	router := newTestRouter(config.EnvProduction)

	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/ready", "").Code)
	assert.Equal(t, http.StatusOK, request(router, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusNotFound, request(router, http.MethodGet, "/docs/index.html", "").Code)
}

func TestRouterRequiresToken(t *testing.T) {
	router := newTestRouter(config.EnvProduction)

	for _, path := range []string{"/api/v1/deployments", "/api/v1/workers", "/api/v1/dashboard/summary", "/api/v1/auth/me"} {
		assert.Equal(t, http.StatusUnauthorized, request(router, http.MethodGet, path, "").Code, path)
	}
}

func TestRouterViewerCannotWrite(t *testing.T) {
	router := newTestRouter(config.EnvProduction)

	cases := []struct{ method, path string }{
		{http.MethodPost, "/api/v1/deployments"},
		{http.MethodPost, "/api/v1/deployments/plan"},
		{http.MethodPost, "/api/v1/deployments/archive"},
		{http.MethodPost, "/api/v1/covid-snapshots/sync"},
		{http.MethodDelete, "/api/v1/workers/w-1"},
		{http.MethodPut, "/api/v1/districts/d-1"},
		{http.MethodGet, "/api/v1/users"},
		{http.MethodPost, "/api/v1/users"},
	}
	for _, tc := range cases {
		assert.Equal(t, http.StatusForbidden, request(router, tc.method, tc.path, "viewer").Code, tc.path)
	}
}

func TestRouterServesDocsOutsideProduction(t *testing.T) {
	router := newTestRouter(config.EnvDevelopment)

	rec := request(router, http.MethodGet, "/docs/doc.json", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Healthcare Workforce Deployment API")
}
