package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/hcw-deploy-api/internal/dto"
	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
	"github.com/noah-isme/hcw-deploy-api/pkg/storage"
)

type trainingRepository interface {
	List(ctx context.Context, filter models.TrainingFilter) ([]models.Training, int, error)
	FindByID(ctx context.Context, id string) (*models.Training, error)
	Create(ctx context.Context, training *models.Training) error
	Update(ctx context.Context, training *models.Training) error
	SetCertificate(ctx context.Context, id, path string) error
	Delete(ctx context.Context, id string) error
}

type competencyFinder interface {
	FindByID(ctx context.Context, id string) (*models.Competency, error)
}

type certificateStore interface {
	Save(relPath string, data []byte) (string, error)
	Open(relPath string) (io.ReadSeekCloser, error)
	Delete(relPath string) error
}

type certificateSigner interface {
	Generate(resourceID, relPath string) (string, time.Time, error)
	Parse(token string) (string, string, error)
}

// TrainingServiceConfig controls certificate handling.
type TrainingServiceConfig struct {
	MaxCertificateBytes int64
	AllowedMIMEs        []string
	DownloadPath        string
}

// TrainingServiceParams groups constructor dependencies.
type TrainingServiceParams struct {
	Repo         trainingRepository
	Workers      workerFinder
	Competencies competencyFinder
	Store        certificateStore
	Signer       certificateSigner
	Summary      summaryInvalidator
	Validator    *validator.Validate
	Logger       *zap.Logger
	Config       TrainingServiceConfig
}

// TrainingService records worker trainings and their certificates.
type TrainingService struct {
	repo         trainingRepository
	workers      workerFinder
	competencies competencyFinder
	store        certificateStore
	signer       certificateSigner
	summary      summaryInvalidator
	validator    *validator.Validate
	logger       *zap.Logger
	cfg          TrainingServiceConfig
}

// CertificateFile is an opened certificate ready for streaming.
type CertificateFile struct {
	Body        io.ReadSeekCloser
	Filename    string
	ContentType string
}

// NewTrainingService constructs a TrainingService with sane defaults.
func NewTrainingService(params TrainingServiceParams) *TrainingService {
	cfg := params.Config
	if cfg.MaxCertificateBytes <= 0 {
		cfg.MaxCertificateBytes = 5 * 1024 * 1024
	}
	if len(cfg.AllowedMIMEs) == 0 {
		cfg.AllowedMIMEs = []string{"application/pdf", "image/png", "image/jpeg"}
	}
	if cfg.DownloadPath == "" {
		cfg.DownloadPath = "/api/v1/certificates/download"
	}
	validate := params.Validator
	if validate == nil {
		validate = validator.New()
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TrainingService{
		repo:         params.Repo,
		workers:      params.Workers,
		competencies: params.Competencies,
		store:        params.Store,
		signer:       params.Signer,
		summary:      params.Summary,
		validator:    validate,
		logger:       logger,
		cfg:          cfg,
	}
}

// List returns paginated trainings.
func (s *TrainingService) List(ctx context.Context, filter models.TrainingFilter) ([]models.Training, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, internalError(err, "failed to list trainings")
	}
	for i := range items {
		markCertificate(&items[i])
	}
	return items, paginationFor(filter.Paging, total), nil
}

// Get returns a training by identifier.
func (s *TrainingService) Get(ctx context.Context, id string) (*models.Training, error) {
	training, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "training")
	}
	markCertificate(training)
	return training, nil
}

// Create records a completed training.
func (s *TrainingService) Create(ctx context.Context, req dto.TrainingRequest) (*models.Training, error) {
	training := &models.Training{}
	if err := s.apply(ctx, training, req); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, training); err != nil {
		return nil, appErrors.FromPQ(err, "failed to create training")
	}
	invalidateSummary(ctx, s.summary)
	return training, nil
}

// Update modifies an existing training.
func (s *TrainingService) Update(ctx context.Context, id string, req dto.TrainingRequest) (*models.Training, error) {
	training, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "training")
	}
	if err := s.apply(ctx, training, req); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, training); err != nil {
		return nil, appErrors.FromPQ(err, "failed to update training")
	}
	invalidateSummary(ctx, s.summary)
	markCertificate(training)
	return training, nil
}

// Delete removes a training and its stored certificate.
func (s *TrainingService) Delete(ctx context.Context, id string) error {
	training, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return lookupError(err, "training")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.FromPQ(err, "failed to delete training")
	}
	if training.CertificatePath != nil && s.store != nil {
		if err := s.store.Delete(*training.CertificatePath); err != nil {
			s.logger.Warn("certificate cleanup failed", zap.String("training_id", id), zap.Error(err))
		}
	}
	invalidateSummary(ctx, s.summary)
	return nil
}

// UploadCertificate stores a certificate after sniffing its real content type.
func (s *TrainingService) UploadCertificate(ctx context.Context, id string, data []byte) (*models.Training, error) {
	if len(data) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "certificate file is empty")
	}
	if int64(len(data)) > s.cfg.MaxCertificateBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("certificate exceeds %d bytes", s.cfg.MaxCertificateBytes))
	}
	detected, err := storage.Sniff(data, s.cfg.AllowedMIMEs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unsupported certificate file")
	}

	training, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "training")
	}

	relPath := fmt.Sprintf("trainings/%s/certificate.%s", training.ID, detected.Extension)
	if _, err := s.store.Save(relPath, data); err != nil {
		return nil, internalError(err, "failed to store certificate")
	}
	if training.CertificatePath != nil && *training.CertificatePath != relPath {
		if err := s.store.Delete(*training.CertificatePath); err != nil {
			s.logger.Warn("previous certificate cleanup failed", zap.String("training_id", id), zap.Error(err))
		}
	}
	if err := s.repo.SetCertificate(ctx, training.ID, relPath); err != nil {
		return nil, internalError(err, "failed to record certificate")
	}
	training.CertificatePath = &relPath
	markCertificate(training)
	s.logger.Info("certificate uploaded", zap.String("training_id", id), zap.String("mime", detected.MIME), zap.Int("bytes", len(data)))
	return training, nil
}

// CertificateURL returns a signed, expiring download link for a training's certificate.
func (s *TrainingService) CertificateURL(ctx context.Context, id string) (*dto.CertificateURLResponse, error) {
	training, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "training")
	}
	if training.CertificatePath == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "training has no certificate")
	}
	token, expiresAt, err := s.signer.Generate(training.ID, *training.CertificatePath)
	if err != nil {
		return nil, internalError(err, "failed to sign certificate url")
	}
	return &dto.CertificateURLResponse{
		TrainingID:  training.ID,
		DownloadURL: s.cfg.DownloadPath + "?token=" + token,
		ExpiresAt:   expiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// OpenCertificate validates a download token and opens the referenced file.
func (s *TrainingService) OpenCertificate(ctx context.Context, token string) (*CertificateFile, error) {
	if token == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "token is required")
	}
	trainingID, relPath, err := s.signer.Parse(token)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired download token")
	}
	training, err := s.repo.FindByID(ctx, trainingID)
	if err != nil {
		return nil, lookupError(err, "training")
	}
	if training.CertificatePath == nil || *training.CertificatePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "certificate not found")
	}
	body, err := s.store.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "certificate not found")
	}

	head := make([]byte, 262)
	n, _ := io.ReadFull(body, head)
	contentType := "application/octet-stream"
	ext := "bin"
	if detected, err := storage.Sniff(head[:n], s.cfg.AllowedMIMEs); err == nil {
		contentType, ext = detected.MIME, detected.Extension
	}
	if _, err := body.Seek(0, io.SeekStart); err != nil {
		_ = body.Close()
		return nil, internalError(err, "failed to read certificate")
	}
	return &CertificateFile{
		Body:        body,
		Filename:    fmt.Sprintf("certificate-%s.%s", training.ID, ext),
		ContentType: contentType,
	}, nil
}

func (s *TrainingService) apply(ctx context.Context, training *models.Training, req dto.TrainingRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid training payload")
	}
	completed, _ := time.Parse(dto.DateLayout, req.DateCompleted)
	var validUntil *time.Time
	if req.ValidUntil != nil {
		parsed, _ := time.Parse(dto.DateLayout, *req.ValidUntil)
		if parsed.Before(completed) {
			return appErrors.Clone(appErrors.ErrValidation, "valid_until must not precede date_completed")
		}
		validUntil = &parsed
	}
	worker, err := s.workers.FindByID(ctx, req.WorkerID)
	if err != nil {
		return lookupError(err, "worker")
	}
	competency, err := s.competencies.FindByID(ctx, req.CompetencyID)
	if err != nil {
		return lookupError(err, "competency")
	}

	training.WorkerID = worker.ID
	training.CompetencyID = competency.ID
	training.Provider = req.Provider
	training.DateCompleted = completed
	training.ValidUntil = validUntil
	training.WorkerName = worker.FullName()
	training.CompetencyName = competency.Name
	return nil
}

func markCertificate(t *models.Training) {
	t.HasCertificate = t.CertificatePath != nil && *t.CertificatePath != ""
}
