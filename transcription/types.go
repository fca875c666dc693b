package transcription

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// DefaultSuffix is used for uploads whose name has no extension.
const DefaultSuffix = ".mp3"

// Output is what a model returns for one audio file.
type Output struct {
	Text     string    `json:"text"`
	Segments []Segment `json:"segments,omitempty"`
	Language string    `json:"language,omitempty"`
	// Duration is the audio length in seconds, when known.
	Duration float64 `json:"duration,omitempty"`
}

// Segment is a time-aligned piece of a transcript.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Upload is an audio file received from a client. Its content is read only
// after the model is ready.
type Upload struct {
	Filename string
	open     func() (io.ReadCloser, error)
}

// NewUpload wraps in-memory content.
func NewUpload(filename string, data []byte) Upload {
	return Upload{
		Filename: filename,
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// NewUploadFunc wraps content produced by open, such as a multipart file.
func NewUploadFunc(filename string, open func() (io.ReadCloser, error)) Upload {
	return Upload{Filename: filename, open: open}
}

// ReadAll returns the full content. An Upload without a source reads as
// empty.
func (u Upload) ReadAll() ([]byte, error) {
	if u.open == nil {
		return nil, nil
	}
	rc, err := u.open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer rc.Close() //nolint:errcheck // read-only

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	return data, nil
}

// SuffixFor returns the lower-cased extension of filename, or DefaultSuffix
// when there is none or it is not a plain alphanumeric extension. A leading
// dot, as in ".hidden", is part of the name and not an extension.
func SuffixFor(filename string) string {
	base := filepath.Base(filename)
	if strings.LastIndex(base, ".") <= 0 {
		return DefaultSuffix
	}
	ext := strings.ToLower(filepath.Ext(base))
	if len(ext) < 2 || len(ext) > 16 {
		return DefaultSuffix
	}
	for _, r := range ext[1:] {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return DefaultSuffix
		}
	}
	return ext
}
