package handler

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	"github.com/noah-isme/hcw-deploy-api/internal/service"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
	"github.com/noah-isme/hcw-deploy-api/pkg/response"
)

// TrainingHandler handles training records and certificate files.
type TrainingHandler struct {
	service  *service.TrainingService
	maxBytes int64
}

// NewTrainingHandler constructs a training handler. maxBytes bounds certificate uploads.
func NewTrainingHandler(svc *service.TrainingService, maxBytes int64) *TrainingHandler {
	if maxBytes <= 0 {
		maxBytes = 5 * 1024 * 1024
	}
	return &TrainingHandler{service: svc, maxBytes: maxBytes}
}

// List godoc
// @Summary List trainings
// @Tags Trainings
// @Produce json
// @Param worker_id query string false "Filter by worker"
// @Param competency_id query string false "Filter by competency"
// @Param provider query string false "Filter by provider"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /trainings [get]
func (h *TrainingHandler) List(c *gin.Context) {
	filter := models.TrainingFilter{
		WorkerID:     c.Query("worker_id"),
		CompetencyID: c.Query("competency_id"),
		Provider:     c.Query("provider"),
		Paging:       pagingFromQuery(c),
	}
	items, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// Get godoc
// @Summary Get training by id
// @Tags Trainings
// @Produce json
// @Param id path string true "Training ID"
// @Success 200 {object} response.Envelope
// @Router /trainings/{id} [get]
func (h *TrainingHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Record training
// @Tags Trainings
// @Accept json
// @Produce json
// @Param payload body dto.TrainingRequest true "Training payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Security BearerAuth
// @Router /trainings [post]
func (h *TrainingHandler) Create(c *gin.Context) {
	var req dto.TrainingRequest
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
// @Summary Update training
// @Tags Trainings
// @Accept json
// @Produce json
// @Param id path string true "Training ID"
// @Param payload body dto.TrainingRequest true "Training payload"
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /trainings/{id} [put]
func (h *TrainingHandler) Update(c *gin.Context) {
	var req dto.TrainingRequest
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
// @Summary Delete training
// @Tags Trainings
// @Param id path string true "Training ID"
// @Success 204
// @Security BearerAuth
// @Router /trainings/{id} [delete]
func (h *TrainingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// UploadCertificate godoc
// @Summary Upload training certificate
// @Description Accepts PDF, PNG or JPEG. The type is detected from file content.
// @Tags Trainings
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Training ID"
// @Param file formData file true "Certificate"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /trainings/{id}/certificate [post]
func (h *TrainingHandler) UploadCertificate(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}
	src, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file"))
		return
	}
	defer src.Close()

	// one byte over the limit lets the service reject oversize files
	data, err := io.ReadAll(io.LimitReader(src, h.maxBytes+1))
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to buffer file"))
		return
	}

	item, err := h.service.UploadCertificate(c.Request.Context(), c.Param("id"), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// CertificateURL godoc
// @Summary Get a signed certificate download link
// @Tags Trainings
// @Produce json
// @Param id path string true "Training ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /trainings/{id}/certificate-url [get]
func (h *TrainingHandler) CertificateURL(c *gin.Context) {
	res, err := h.service.CertificateURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// DownloadCertificate godoc
// @Summary Download certificate with a signed token
// @Tags Trainings
// @Produce octet-stream
// @Param token query string true "Signed token"
// @Success 200 {file} file
// @Failure 403 {object} response.Envelope
// @Router /certificates/download [get]
func (h *TrainingHandler) DownloadCertificate(c *gin.Context) {
	file, err := h.service.OpenCertificate(c.Request.Context(), c.Query("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Body.Close() //nolint:errcheck

	size, err := file.Body.Seek(0, io.SeekEnd)
	if err == nil {
		_, err = file.Body.Seek(0, io.SeekStart)
	}
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read certificate"))
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", file.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, size, file.ContentType, file.Body, nil)
}
