package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	"github.com/noah-isme/hcw-deploy-api/pkg/response"
)

// CompetencyHandler handles competency endpoints.
type CompetencyHandler struct {
	service *service.CompetencyService
}

// NewCompetencyHandler constructs a competency handler.
func NewCompetencyHandler(svc *service.CompetencyService) *CompetencyHandler {
	return &CompetencyHandler{service: svc}
}

// List godoc
// @Summary List competencies
// @Tags Competencies
// @Produce json
// @Param search query string false "Search by code or name"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /competencies [get]
func (h *CompetencyHandler) List(c *gin.Context) {
	filter := models.CompetencyFilter{Search: searchQuery(c), Paging: pagingFromQuery(c)}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get competency by id
// @Tags Competencies
// @Produce json
// @Param id path string true "Competency ID"
// @Success 200 {object} response.Envelope
// @Router /competencies/{id} [get]
func (h *CompetencyHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create competency
// @Tags Competencies
// @Accept json
// @Produce json
// @Param payload body models.Competency true "Competency payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /competencies [post]
func (h *CompetencyHandler) Create(c *gin.Context) {
	var req models.Competency
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update competency
// @Tags Competencies
// @Accept json
// @Produce json
// @Param id path string true "Competency ID"
// @Param payload body models.Competency true "Competency payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /competencies/{id} [put]
func (h *CompetencyHandler) Update(c *gin.Context) {
	var req models.Competency
	if !bindJSON(c, &req) {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete competency
// @Description Competencies with recorded trainings cannot be deleted
// @Tags Competencies
// @Param id path string true "Competency ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /competencies/{id} [delete]
func (h *CompetencyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
