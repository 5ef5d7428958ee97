package service

import (
	"bytes"
	"context"
	"database/sql"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hcw-deploy-api/internal/models"
	appErrors "github.com/noah-isme/hcw-deploy-api/pkg/errors"
	"github.com/noah-isme/hcw-deploy-api/pkg/storage"
)

const testTrainingID = "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a01"

var (
	pdfCertificate = []byte("%PDF-1.4\n1 0 obj << /Type /Catalog >> endobj\ntrailer << >>\n%%EOF\n")
	pngCertificate = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, bytes.Repeat([]byte{0}, 32)...)
	gifCertificate = append([]byte("GIF89a"), bytes.Repeat([]byte{0}, 32)...)
)

type fakeTrainingRepo struct {
	trainings map[string]*models.Training
	setCalls  int
}

func (f *fakeTrainingRepo) List(context.Context, models.TrainingFilter) ([]models.Training, int, error) {
	out := make([]models.Training, 0, len(f.trainings))
	for _, t := range f.trainings {
		out = append(out, *t)
	}
	return out, len(out), nil
}

func (f *fakeTrainingRepo) FindByID(_ context.Context, id string) (*models.Training, error) {
	t, ok := f.trainings[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeTrainingRepo) Create(_ context.Context, t *models.Training) error {
	f.trainings[t.ID] = t
	return nil
}

func (f *fakeTrainingRepo) Update(_ context.Context, t *models.Training) error {
	f.trainings[t.ID] = t
	return nil
}

func (f *fakeTrainingRepo) SetCertificate(_ context.Context, id, path string) error {
	f.setCalls++
	f.trainings[id].CertificatePath = &path
	return nil
}

func (f *fakeTrainingRepo) Delete(_ context.Context, id string) error {
	delete(f.trainings, id)
	return nil
}

type trainingFixture struct {
	svc   *TrainingService
	repo  *fakeTrainingRepo
	store *storage.LocalStorage
}

func newTrainingFixture(t *testing.T) *trainingFixture {
	t.Helper()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := &fakeTrainingRepo{trainings: map[string]*models.Training{
		testTrainingID: {ID: testTrainingID, WorkerID: testWorker1, CompetencyID: testCompCovid, DateCompleted: time.Date(2023, 9, 1, 0, 0, 0, 0, time.UTC)},
	}}
	svc := NewTrainingService(TrainingServiceParams{
		Repo:   repo,
		Store:  store,
		Signer: storage.NewSignedURLSigner("certificate-secret", time.Minute),
		Config: TrainingServiceConfig{MaxCertificateBytes: 1024, DownloadPath: "/api/v1/certificates/download"},
	})
	return &trainingFixture{svc: svc, repo: repo, store: store}
}

func (f *trainingFixture) tokenFor(t *testing.T) string {
	t.Helper()
	link, err := f.svc.CertificateURL(context.Background(), testTrainingID)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(link.DownloadURL, "/api/v1/certificates/download?token="))
	return strings.TrimPrefix(link.DownloadURL, "/api/v1/certificates/download?token=")
}

func TestTrainingServiceUploadAndDownloadCertificate(t *testing.T) {
	f := newTrainingFixture(t)

	training, err := f.svc.UploadCertificate(context.Background(), testTrainingID, pdfCertificate)
	require.NoError(t, err)
	assert.True(t, training.HasCertificate)
	assert.Equal(t, "trainings/"+testTrainingID+"/certificate.pdf", *f.repo.trainings[testTrainingID].CertificatePath)

	file, err := f.svc.OpenCertificate(context.Background(), f.tokenFor(t))
	require.NoError(t, err)
	defer file.Body.Close()
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.Equal(t, "certificate-"+testTrainingID+".pdf", file.Filename)
	body, err := io.ReadAll(file.Body)
	require.NoError(t, err)
	assert.Equal(t, pdfCertificate, body)
}

func TestTrainingServiceUploadCertificateRejects(t *testing.T) {
	tests := []struct {
		name   string
		id     string
		data   []byte
		status int
	}{
		{name: "empty file", id: testTrainingID, data: nil, status: appErrors.ErrValidation.Status},
		{name: "over size limit", id: testTrainingID, data: append([]byte("%PDF-1.4\n"), bytes.Repeat([]byte("x"), 1024)...), status: appErrors.ErrValidation.Status},
		{name: "disallowed type", id: testTrainingID, data: gifCertificate, status: appErrors.ErrValidation.Status},
		{name: "unrecognised content", id: testTrainingID, data: []byte("plain text pretending to be a pdf"), status: appErrors.ErrValidation.Status},
		{name: "unknown training", id: "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4aff", data: pdfCertificate, status: appErrors.ErrNotFound.Status},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newTrainingFixture(t)
			_, err := f.svc.UploadCertificate(context.Background(), tc.id, tc.data)
			require.Error(t, err)
			assert.Equal(t, tc.status, appErrors.FromError(err).Status)
			assert.Zero(t, f.repo.setCalls)
		})
	}
}

func TestTrainingServiceReplacingCertificateInvalidatesOldLink(t *testing.T) {
	f := newTrainingFixture(t)
	_, err := f.svc.UploadCertificate(context.Background(), testTrainingID, pdfCertificate)
	require.NoError(t, err)
	staleToken := f.tokenFor(t)

	_, err = f.svc.UploadCertificate(context.Background(), testTrainingID, pngCertificate)
	require.NoError(t, err)
	assert.Equal(t, "trainings/"+testTrainingID+"/certificate.png", *f.repo.trainings[testTrainingID].CertificatePath)

	_, err = f.store.Open("trainings/" + testTrainingID + "/certificate.pdf")
	assert.Error(t, err, "previous certificate should be removed")

	_, err = f.svc.OpenCertificate(context.Background(), staleToken)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Status, appErrors.FromError(err).Status)

	file, err := f.svc.OpenCertificate(context.Background(), f.tokenFor(t))
	require.NoError(t, err)
	defer file.Body.Close()
	assert.Equal(t, "image/png", file.ContentType)
}

func TestTrainingServiceCertificateLinks(t *testing.T) {
	f := newTrainingFixture(t)

	_, err := f.svc.CertificateURL(context.Background(), testTrainingID)
	require.Error(t, err)
	assert.Equal(t, "training has no certificate", appErrors.FromError(err).Message)

	_, err = f.svc.OpenCertificate(context.Background(), "")
	assert.Equal(t, appErrors.ErrValidation.Status, appErrors.FromError(err).Status)

	_, err = f.svc.OpenCertificate(context.Background(), "not.a.valid.token")
	assert.Equal(t, appErrors.ErrForbidden.Status, appErrors.FromError(err).Status)

	_, err = f.svc.UploadCertificate(context.Background(), testTrainingID, pdfCertificate)
	require.NoError(t, err)
	token := f.tokenFor(t)
	tampered := strings.Replace(token, testTrainingID, "e1f2a3b4-c5d6-4e7f-8a9b-0c1d2e3f4a02", 1)
	_, err = f.svc.OpenCertificate(context.Background(), tampered)
	assert.Equal(t, appErrors.ErrForbidden.Status, appErrors.FromError(err).Status)
}
