package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	"github.com/noah-isme/hcw-deploy-api/pkg/response"
)

// DistrictHandler handles district endpoints.
type DistrictHandler struct {
	service *service.DistrictService
}

// NewDistrictHandler constructs a district handler.
func NewDistrictHandler(svc *service.DistrictService) *DistrictHandler {
	return &DistrictHandler{service: svc}
}

// List godoc
// @Summary List districts
// @Tags Districts
// @Produce json
// @Param search query string false "Search by name or code"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /districts [get]
func (h *DistrictHandler) List(c *gin.Context) {
	filter := models.DistrictFilter{Search: searchQuery(c), Paging: pagingFromQuery(c)}
	districts, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, districts, pagination)
}

// Get godoc
// @Summary Get district by id
// @Tags Districts
// @Produce json
// @Param id path string true "District ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /districts/{id} [get]
func (h *DistrictHandler) Get(c *gin.Context) {
	district, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, district, nil)
}

// Create godoc
// @Summary Create district
// @Tags Districts
// @Accept json
// @Produce json
// @Param payload body models.District true "District payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /districts [post]
func (h *DistrictHandler) Create(c *gin.Context) {
	var req models.District
	if !bindJSON(c, &req) {
		return
	}
	district, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, district)
}

// Update godoc
// @Summary Update district
// @Tags Districts
// @Accept json
// @Produce json
// @Param id path string true "District ID"
// @Param payload body models.District true "District payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /districts/{id} [put]
func (h *DistrictHandler) Update(c *gin.Context) {
	var req models.District
	if !bindJSON(c, &req) {
		return
	}
	district, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, district, nil)
}

// Delete godoc
// @Summary Delete district
// @Description Districts referenced by facilities cannot be deleted
// @Tags Districts
// @Produce json
// @Param id path string true "District ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /districts/{id} [delete]
func (h *DistrictHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
