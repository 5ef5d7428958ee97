package storage

import (
	"fmt"

	"github.com/h2non/filetype"
)

// DetectedFile describes content sniffed from the leading bytes of an upload.
type DetectedFile struct {
	MIME      string
	Extension string
}

// Sniff identifies a file by its magic bytes and rejects types outside allowed.
// The client-declared content type is never trusted.
func Sniff(data []byte, allowed []string) (DetectedFile, error) {
	kind, err := filetype.Match(data)
	if err != nil {
		return DetectedFile{}, fmt.Errorf("detect file type: %w", err)
	}
	if kind == filetype.Unknown {
		return DetectedFile{}, fmt.Errorf("unrecognised file type")
	}
	for _, mime := range allowed {
		if kind.MIME.Value == mime {
			return DetectedFile{MIME: kind.MIME.Value, Extension: kind.Extension}, nil
		}
	}
	return DetectedFile{}, fmt.Errorf("file type %s not allowed", kind.MIME.Value)
}
