// Package testutil provides scriptable transcription backends for tests.
package testutil

import (
	"context"
	"os"
	"sync"
	"sync/atomic"

	"github.com/kbukum/memoscribe/transcription"
)

// Backend is a transcription.Backend whose Load behavior is scripted.
type Backend struct {
	BackendName string
	// LoadFunc runs on every Load. Nil returns Model.
	LoadFunc func(ctx context.Context, modelID, device string) (transcription.Model, error)
	// Model is returned by Load when LoadFunc is nil.
	Model *Model

	loads      atomic.Int32
	mu         sync.Mutex
	lastModel  string
	lastDevice string
}

// NewBackend returns a backend named "fake" that loads model.
func NewBackend(model *Model) *Backend {
	return &Backend{BackendName: "fake", Model: model}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	if b.BackendName == "" {
		return "fake"
	}
	return b.BackendName
}

// IsAvailable always reports true.
func (b *Backend) IsAvailable(context.Context) bool { return true }

// Load records the call and runs LoadFunc.
func (b *Backend) Load(ctx context.Context, modelID, device string) (transcription.Model, error) {
	b.loads.Add(1)
	b.mu.Lock()
	b.lastModel, b.lastDevice = modelID, device
	b.mu.Unlock()

	if b.LoadFunc != nil {
		return b.LoadFunc(ctx, modelID, device)
	}
	if b.Model == nil {
		return nil, nil
	}
	return b.Model, nil
}

// Loads returns how many times Load was called.
func (b *Backend) Loads() int { return int(b.loads.Load()) }

// LastLoad returns the arguments of the most recent Load.
func (b *Backend) LastLoad() (modelID, device string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastModel, b.lastDevice
}

// Model is a transcription.Model whose Run behavior is scripted.
type Model struct {
	// RunFunc runs on every Run. Nil returns Output.
	RunFunc func(ctx context.Context, audioPath string) (*transcription.Output, error)
	// Output is returned by Run when RunFunc is nil.
	Output *transcription.Output

	runs     atomic.Int32
	mu       sync.Mutex
	paths    []string
	existed  []bool
	contents [][]byte
}

// NewModel returns a model that answers every Run with text.
func NewModel(text string) *Model {
	return &Model{Output: &transcription.Output{Text: text}}
}

// Run records the path, whether the file existed and its content.
func (m *Model) Run(ctx context.Context, audioPath string) (*transcription.Output, error) {
	m.runs.Add(1)
	data, err := os.ReadFile(audioPath)
	m.mu.Lock()
	m.paths = append(m.paths, audioPath)
	m.existed = append(m.existed, err == nil)
	m.contents = append(m.contents, data)
	m.mu.Unlock()

	if m.RunFunc != nil {
		return m.RunFunc(ctx, audioPath)
	}
	return m.Output, nil
}

// Runs returns how many times Run was called.
func (m *Model) Runs() int { return int(m.runs.Load()) }

// Paths returns the audio paths Run received.
func (m *Model) Paths() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// Existed reports, per Run call, whether the audio file was readable.
func (m *Model) Existed() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.existed...)
}

// Contents returns the audio bytes each Run call saw.
func (m *Model) Contents() [][]byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([][]byte(nil), m.contents...)
}

// Source is a transcription.ModelSource that counts calls and returns a
// fixed model or error.
type Source struct {
	Model transcription.Model
	Err   error
	calls atomic.Int32
}

// EnsureReady returns the configured model or error.
func (s *Source) EnsureReady(context.Context) (transcription.Model, error) {
	s.calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	return s.Model, nil
}

// Calls returns how many times EnsureReady was called.
func (s *Source) Calls() int { return int(s.calls.Load()) }
