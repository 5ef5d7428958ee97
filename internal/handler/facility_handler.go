package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	"github.com/noah-isme/hcw-deploy-api/pkg/response"
)

// FacilityHandler handles facility endpoints.
type FacilityHandler struct {
	service *service.FacilityService
}

// NewFacilityHandler constructs a facility handler.
func NewFacilityHandler(svc *service.FacilityService) *FacilityHandler {
	return &FacilityHandler{service: svc}
}

// List godoc
// @Summary List facilities
// @Tags Facilities
// @Produce json
// @Param district_id query string false "Filter by district"
// @Param organization_id query string false "Filter by organization"
// @Param facility_type query string false "Filter by facility type"
// @Param search query string false "Search by name or code"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /facilities [get]
func (h *FacilityHandler) List(c *gin.Context) {
	filter := models.FacilityFilter{
		Search:         searchQuery(c),
		DistrictID:     c.Query("district_id"),
		OrganizationID: c.Query("organization_id"),
		FacilityType:   c.Query("facility_type"),
		Paging:         pagingFromQuery(c),
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get facility by id
// @Tags Facilities
// @Produce json
// @Param id path string true "Facility ID"
// @Success 200 {object} response.Envelope
// @Router /facilities/{id} [get]
func (h *FacilityHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create facility
// @Tags Facilities
// @Accept json
// @Produce json
// @Param payload body dto.FacilityRequest true "Facility payload"
// @Success 201 {object} response.Envelope
// @Security BearerAuth
// @Router /facilities [post]
func (h *FacilityHandler) Create(c *gin.Context) {
	var req dto.FacilityRequest
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
// @Summary Update facility
// @Tags Facilities
// @Accept json
// @Produce json
// @Param id path string true "Facility ID"
// @Param payload body dto.FacilityRequest true "Facility payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /facilities/{id} [put]
func (h *FacilityHandler) Update(c *gin.Context) {
	var req dto.FacilityRequest
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
// @Summary Delete facility
// @Tags Facilities
// @Param id path string true "Facility ID"
// @Success 204
// @Security BearerAuth
// @Router /facilities/{id} [delete]
func (h *FacilityHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
