package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignedURLSignerGenerateAndParse(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, expiresAt, err := signer.Generate("training-1", "trainings/training-1/certificate.pdf")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.False(t, expiresAt.IsZero())

	id, path, err := signer.Parse(token)
	require.NoError(t, err)
	require.Equal(t, "training-1", id)
	require.Equal(t, "trainings/training-1/certificate.pdf", path)
}

func TestSignedURLSignerExpired(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Minute)
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	signer.now = func() time.Time { return base }
	token, _, err := signer.Generate("training-1", "a.pdf")
	require.NoError(t, err)

	signer.now = func() time.Time { return base.Add(2 * time.Minute) }
	_, _, err = signer.Parse(token)
	require.EqualError(t, err, "token expired")
}

func TestSignedURLSignerRejectsTampering(t *testing.T) {
	signer := NewSignedURLSigner("secret", time.Hour)
	token, _, err := signer.Generate("training-1", "a.pdf")
	require.NoError(t, err)

	other := NewSignedURLSigner("other", time.Hour)
	_, _, err = other.Parse(token)
	require.Error(t, err)

	_, _, err = signer.Parse("garbage")
	require.Error(t, err)

	_, _, err = NewSignedURLSigner("", time.Hour).Generate("training-1", "a.pdf")
	require.Error(t, err)
}

func TestLocalStorageRoundTripAndTraversal(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	path, err := store.Save("trainings/t1/cert.pdf", []byte("%PDF-1.4"))
	require.NoError(t, err)
	require.Equal(t, "trainings/t1/cert.pdf", path)

	file, err := store.Open(path)
	require.NoError(t, err)
	buf := make([]byte, 8)
	n, err := file.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4", string(buf[:n]))
	require.NoError(t, file.Close())

	_, err = store.Save("../escape.pdf", []byte("x"))
	require.Error(t, err)
	_, err = store.Open("/etc/passwd")
	require.Error(t, err)

	require.NoError(t, store.Delete(path))
	require.NoError(t, store.Delete(path))
}

func TestSniff(t *testing.T) {
	allowed := []string{"application/pdf", "image/png"}
	pdf := []byte("%PDF-1.7\n%\xe2\xe3\xcf\xd3\n1 0 obj")
	png := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D, 0x49, 0x48, 0x44, 0x52}
	gif := []byte("GIF89a\x01\x00\x01\x00")

	got, err := Sniff(pdf, allowed)
	require.NoError(t, err)
	require.Equal(t, "application/pdf", got.MIME)
	require.Equal(t, "pdf", got.Extension)

	got, err = Sniff(png, allowed)
	require.NoError(t, err)
	require.Equal(t, "png", got.Extension)

	_, err = Sniff(gif, allowed)
	require.Error(t, err)

	_, err = Sniff([]byte("plain text"), allowed)
	require.Error(t, err)
}
