// Package whispercli runs speech models through the openai-whisper command
// line tool.
package whispercli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/kbukum/memoscribe/process"
	"github.com/kbukum/memoscribe/provider"
	"github.com/kbukum/memoscribe/transcription"
	"github.com/kbukum/memoscribe/validation"
)

const (
	// ProviderName is the registered name for the CLI backend.
	ProviderName = "whisper-cli"

	defaultBinary = "whisper"

	FormatTXT  = "txt"
	FormatJSON = "json"
)

// MsgNotInstalled is the load error when the binary cannot be found.
const MsgNotInstalled = "whisper is not installed. Install it with 'pip install openai-whisper'."

// Config holds configuration for the CLI backend.
type Config struct {
	// Binary is the whisper executable name or path.
	Binary string `yaml:"binary" mapstructure:"binary"`
	// OutputFormat is the transcript file whisper writes: txt or json.
	OutputFormat string `yaml:"output_format" mapstructure:"output_format" validate:"omitempty,oneof=txt json"`
	// Language skips language detection when set.
	Language string `yaml:"language" mapstructure:"language"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Binary == "" {
		c.Binary = defaultBinary
	}
	if c.OutputFormat == "" {
		c.OutputFormat = FormatTXT
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	return validation.Validate(c)
}

// Backend implements transcription.Backend with the whisper CLI.
type Backend struct {
	cfg Config
}

// NewBackend creates a CLI backend.
func NewBackend(cfg Config) *Backend {
	cfg.ApplyDefaults()
	return &Backend{cfg: cfg}
}

// Factory returns a provider.Factory that builds CLI backends from cfg.
// Keys in the factory map override it.
func Factory(cfg Config) provider.Factory[transcription.Backend] {
	return func(m map[string]any) (transcription.Backend, error) {
		c := cfg
		if v, ok := m["binary"].(string); ok {
			c.Binary = v
		}
		if v, ok := m["output_format"].(string); ok {
			c.OutputFormat = v
		}
		if v, ok := m["language"].(string); ok {
			c.Language = v
		}
		return NewBackend(c), nil
	}
}

// Name returns the provider name.
func (b *Backend) Name() string { return ProviderName }

// IsAvailable reports whether the binary is on PATH.
func (b *Backend) IsAvailable(context.Context) bool {
	_, err := process.LookPath(b.cfg.Binary)
	return err == nil
}

// Load resolves the binary and returns a model bound to modelID and device.
// The CLI loads weights per invocation, so nothing is kept in memory.
func (b *Backend) Load(_ context.Context, modelID, device string) (transcription.Model, error) {
	path, err := process.LookPath(b.cfg.Binary)
	if err != nil {
		return nil, errors.New(MsgNotInstalled)
	}
	return &Model{
		binary:   path,
		model:    modelID,
		device:   device,
		format:   b.cfg.OutputFormat,
		language: b.cfg.Language,
	}, nil
}

// Model runs one whisper process per audio file.
type Model struct {
	binary   string
	model    string
	device   string
	format   string
	language string
}

// Run transcribes audioPath into a scratch directory and reads the result.
// A missing transcript file yields empty output.
func (m *Model) Run(ctx context.Context, audioPath string) (*transcription.Output, error) {
	dir, err := os.MkdirTemp("", "memoscribe-whisper-*")
	if err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	defer os.RemoveAll(dir) //nolint:errcheck // scratch dir

	if _, err := process.Run(ctx, process.Command{Binary: m.binary, Args: m.args(audioPath, dir)}); err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	data, err := os.ReadFile(filepath.Join(dir, base+"."+m.format))
	if errors.Is(err, os.ErrNotExist) {
		return &transcription.Output{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read transcript: %w", err)
	}

	if m.format == FormatJSON {
		return decodeJSON(data)
	}
	return &transcription.Output{Text: string(data), Language: m.language}, nil
}

func (m *Model) args(audioPath, outDir string) []string {
	args := []string{
		audioPath,
		"--model", m.model,
		"--device", m.device,
		"--output_dir", outDir,
		"--output_format", m.format,
		"--verbose", "False",
	}
	if m.device == transcription.DeviceCPU {
		args = append(args, "--fp16", "False")
	}
	if m.language != "" {
		args = append(args, "--language", m.language)
	}
	return args
}

type cliResult struct {
	Text     string       `json:"text"`
	Language string       `json:"language"`
	Segments []cliSegment `json:"segments"`
}

type cliSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

func decodeJSON(data []byte) (*transcription.Output, error) {
	var res cliResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}
	out := &transcription.Output{
		Text:     res.Text,
		Language: res.Language,
		Segments: make([]transcription.Segment, len(res.Segments)),
	}
	for i, s := range res.Segments {
		out.Segments[i] = transcription.Segment{Start: s.Start, End: s.End, Text: s.Text}
	}
	if n := len(res.Segments); n > 0 {
		out.Duration = res.Segments[n-1].End
	}
	return out, nil
}
