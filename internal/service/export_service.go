package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
	"github.com/noah-isme/hcw-deploy-api/pkg/export"
)

const exportDateLayout = "2006-01-02"

type deploymentExportSource interface {
	ListAll(ctx context.Context, filter models.DeploymentFilter) ([]models.Deployment, error)
	ListAllHistory(ctx context.Context, filter models.DeploymentHistoryFilter) ([]models.DeploymentHistory, error)
}

type workerExportSource interface {
	List(ctx context.Context, filter models.WorkerFilter) ([]models.HealthcareWorker, int, error)
}

// ExportFile is a rendered report ready to stream.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
}

// ExportService renders deployment, history and worker reports.
type ExportService struct {
	deployments deploymentExportSource
	workers     workerExportSource
	renderers   func(export.Format) export.Renderer
	logger      *zap.Logger
	now         func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(deployments deploymentExportSource, workers workerExportSource, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		deployments: deployments,
		workers:     workers,
		renderers:   export.RendererFor,
		logger:      logger,
		now:         time.Now,
	}
}

// ActiveDeployments renders the currently active deployments matching filter.
func (s *ExportService) ActiveDeployments(ctx context.Context, filter models.DeploymentFilter, format string) (*ExportFile, error) {
	filter.Status = string(models.DeploymentActive)
	items, err := s.deployments.ListAll(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to load deployments")
	}

	data := export.Dataset{Headers: []string{"Worker", "Phone", "District", "Outbreak", "Role", "Urgency", "Start", "End", "Deployment"}}
	for _, d := range items {
		data.AddRow(d.WorkerName, d.WorkerPhone, d.DistrictName, d.OutbreakType, d.Role, d.Urgency,
			d.StartDate.Format(exportDateLayout), formatOptionalDate(d.EndDate), d.DeploymentName)
	}
	doc := export.Document{
		Title:    "ACTIVE DEPLOYMENTS REPORT",
		Subtitle: s.generatedLine(len(items)),
		Footer:   "Outbreak deployment registry",
		Data:     data,
	}
	return s.render(doc, format, "active-deployments")
}

// History renders archived deployments matching filter.
func (s *ExportService) History(ctx context.Context, filter models.DeploymentHistoryFilter, format string) (*ExportFile, error) {
	items, err := s.deployments.ListAllHistory(ctx, filter)
	if err != nil {
		return nil, internalError(err, "failed to load deployment history")
	}

	data := export.Dataset{Headers: []string{"Worker", "Position", "District", "Outbreak", "Role", "Start", "End", "Archived", "Notes"}}
	for _, h := range items {
		data.AddRow(h.WorkerName, h.WorkerPosition, h.DistrictName, h.OutbreakType, h.Role,
			h.StartDate.Format(exportDateLayout), formatOptionalDate(h.EndDate), h.ArchivedAt.Format(exportDateLayout), h.CompletionNotes)
	}
	doc := export.Document{
		Title:    "DEPLOYMENT HISTORY REPORT",
		Subtitle: s.generatedLine(len(items)),
		Footer:   "Outbreak deployment registry",
		Data:     data,
	}
	return s.render(doc, format, "deployment-history")
}

// Workers renders the worker registry page by page.
func (s *ExportService) Workers(ctx context.Context, filter models.WorkerFilter, format string) (*ExportFile, error) {
	filter.Page, filter.PageSize = 1, 100
	var all []models.HealthcareWorker
	for {
		page, total, err := s.workers.List(ctx, filter)
		if err != nil {
			return nil, internalError(err, "failed to load workers")
		}
		all = append(all, page...)
		if len(page) == 0 || len(all) >= total {
			break
		}
		filter.Page++
	}

	data := export.Dataset{Headers: []string{"Last Name", "First Name", "Phone", "Position", "Gender", "Language", "Active"}}
	for _, w := range all {
		data.AddRow(w.LastName, w.FirstName, w.Phone, w.Position, lo.FromPtr(w.Gender), w.Language, strconv.FormatBool(w.IsActive))
	}
	doc := export.Document{
		Title:    "HEALTHCARE WORKER REGISTER",
		Subtitle: s.generatedLine(len(all)),
		Data:     data,
	}
	return s.render(doc, format, "workers")
}

func (s *ExportService) render(doc export.Document, rawFormat, basename string) (*ExportFile, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, err.Error())
	}
	body, err := s.renderers(format).Render(doc)
	if err != nil {
		return nil, internalError(err, "failed to render "+string(format)+" report")
	}
	s.logger.Info("report rendered", zap.String("report", basename), zap.String("format", string(format)), zap.Int("rows", len(doc.Data.Rows)))
	return &ExportFile{
		Filename:    fmt.Sprintf("%s-%s.%s", basename, s.now().UTC().Format("20060102-150405"), format),
		ContentType: format.ContentType(),
		Body:        body,
		Rows:        len(doc.Data.Rows),
	}, nil
}

func (s *ExportService) generatedLine(count int) string {
	return fmt.Sprintf("Generated %s UTC, %d record(s)", s.now().UTC().Format("2006-01-02 15:04"), count)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(exportDateLayout)
}
