// Package whisper talks to a faster-whisper HTTP sidecar.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kbukum/memoscribe/provider"
	"github.com/kbukum/memoscribe/transcription"
	"github.com/kbukum/memoscribe/validation"
)

const (
	// ProviderName is the registered name for the sidecar backend.
	ProviderName = "whisper-http"

	defaultWhisperURL     = "http://localhost:8387"
	defaultWhisperTimeout = 120 * time.Second
)

// Config holds configuration for the sidecar backend.
type Config struct {
	URL      string        `yaml:"url" mapstructure:"url" validate:"omitempty,url"`
	Language string        `yaml:"language" mapstructure:"language"`
	Timeout  time.Duration `yaml:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.URL == "" {
		c.URL = defaultWhisperURL
	}
	c.URL = strings.TrimRight(c.URL, "/")
	if c.Timeout == 0 {
		c.Timeout = defaultWhisperTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Backend implements transcription.Backend using the sidecar.
type Backend struct {
	cfg    Config
	client *http.Client
}

// NewBackend creates a sidecar backend.
func NewBackend(cfg Config) *Backend {
	cfg.ApplyDefaults()
	return &Backend{
		cfg: cfg,
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Factory returns a provider.Factory that builds sidecar backends from cfg.
// Keys in the factory map override it.
func Factory(cfg Config) provider.Factory[transcription.Backend] {
	return func(m map[string]any) (transcription.Backend, error) {
		c := cfg
		if v, ok := m["url"].(string); ok {
			c.URL = v
		}
		if v, ok := m["language"].(string); ok {
			c.Language = v
		}
		if v, ok := m["timeout"].(time.Duration); ok {
			c.Timeout = v
		}
		return NewBackend(c), nil
	}
}

// Name returns the provider name.
func (b *Backend) Name() string { return ProviderName }

// IsAvailable checks if the sidecar is reachable.
func (b *Backend) IsAvailable(ctx context.Context) bool {
	return b.health(ctx) == nil
}

// Load checks the sidecar health endpoint and returns a model bound to
// modelID and device. The sidecar owns the weights.
func (b *Backend) Load(ctx context.Context, modelID, device string) (transcription.Model, error) {
	if err := b.health(ctx); err != nil {
		return nil, err
	}
	return &Model{backend: b, model: modelID, device: device}, nil
}

func (b *Backend) health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.cfg.URL+"/health", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := b.client.Do(req)
	if err != nil {
		return fmt.Errorf("whisper sidecar unreachable at %s: %w", b.cfg.URL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whisper sidecar unhealthy (status %d)", resp.StatusCode)
	}
	return nil
}

// Model posts audio files to the sidecar.
type Model struct {
	backend *Backend
	model   string
	device  string
}

// Run sends the audio file to the sidecar and returns the transcription.
func (m *Model) Run(ctx context.Context, audioPath string) (*transcription.Output, error) {
	body, contentType, err := m.form(audioPath)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, m.backend.cfg.URL+"/transcribe", body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := m.backend.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("whisper request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var result whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode whisper response: %w", err)
	}
	return toOutput(&result), nil
}

func (m *Model) form(audioPath string) (*bytes.Buffer, string, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("audio", filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("write audio data: %w", err)
	}

	_ = writer.WriteField("model", m.model)
	if m.device != "" {
		_ = writer.WriteField("device", m.device)
	}
	if lang := m.backend.cfg.Language; lang != "" {
		_ = writer.WriteField("language", lang)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, writer.FormDataContentType(), nil
}

// --- sidecar response types ---

type whisperResponse struct {
	Text     string           `json:"text"`
	Segments []whisperSegment `json:"segments"`
	Language string           `json:"language"`
}

type whisperSegment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

func toOutput(resp *whisperResponse) *transcription.Output {
	segments := make([]transcription.Segment, len(resp.Segments))
	for i, seg := range resp.Segments {
		segments[i] = transcription.Segment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		}
	}

	var duration float64
	if len(resp.Segments) > 0 {
		duration = resp.Segments[len(resp.Segments)-1].End
	}

	return &transcription.Output{
		Text:     resp.Text,
		Segments: segments,
		Duration: duration,
		Language: resp.Language,
	}
}
