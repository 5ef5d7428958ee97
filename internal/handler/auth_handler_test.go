package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/hcw-deploy-api/internal/middleware"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
)

type fakeAuthSrv struct{}

func (fakeAuthSrv) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if req.Password != "correct-horse" {
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}
	return &models.LoginResponse{AccessToken: "token", ExpiresIn: 3600}, nil
}

func (fakeAuthSrv) Me(_ context.Context, userID string) (*models.UserInfo, error) {
	return &models.UserInfo{ID: userID, Role: models.RoleCoordinator}, nil
}

func newAuthRouter(claims *models.JWTClaims) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewAuthHandler(fakeAuthSrv{})
	router := gin.New()
	router.POST("/auth/login", h.Login)
	router.GET("/auth/me", func(c *gin.Context) {
		if claims != nil {
			c.Set(middleware.ContextUserKey, claims)
		}
		c.Next()
	}, h.Me)
	return router
}

func TestAuthHandlerLogin(t *testing.T) {
	router := newAuthRouter(nil)

	rec := doJSON(router, http.MethodPost, "/auth/login", map[string]string{"email": "ops@moh.mw", "password": "correct-horse"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"access_token":"token"`)

	rec = doJSON(router, http.MethodPost, "/auth/login", map[string]string{"email": "ops@moh.mw", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthHandlerMe(t *testing.T) {
	rec := doJSON(newAuthRouter(nil), http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(newAuthRouter(&models.JWTClaims{UserID: "u1"}), http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"COORDINATOR"`)
}
