package local

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/memoscribe/component"
)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := NewStorage(filepath.Join(t.TempDir(), "staging"))
	if err != nil {
		t.Fatalf("NewStorage failed: %v", err)
	}
	return s
}

func TestUploadExistsDelete(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	if err := s.Upload(ctx, "clip.wav", strings.NewReader("RIFF")); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	ok, err := s.Exists(ctx, "clip.wav")
	if err != nil || !ok {
		t.Fatalf("expected file to exist, got %v (%v)", ok, err)
	}

	path, err := s.LocalPath("clip.wav")
	if err != nil {
		t.Fatalf("LocalPath failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil || string(data) != "RIFF" {
		t.Fatalf("unexpected content %q (%v)", data, err)
	}
	info, _ := os.Stat(path)
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}

	if err := s.Delete(ctx, "clip.wav"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if ok, _ := s.Exists(ctx, "clip.wav"); ok {
		t.Error("expected file to be gone after Delete")
	}
}

func TestDeleteMissingIsNotAnError(t *testing.T) {
	s := newTestStorage(t)
	if err := s.Delete(context.Background(), "missing.mp3"); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestResolveStaysInsideBase(t *testing.T) {
	s := newTestStorage(t)

	path, err := s.LocalPath("../../etc/passwd")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(path, s.BasePath()+string(filepath.Separator)) {
		t.Errorf("expected path under %s, got %s", s.BasePath(), path)
	}

	if _, err := s.LocalPath(""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestUploadHonorsCanceledContext(t *testing.T) {
	s := newTestStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := s.Upload(ctx, "a.mp3", strings.NewReader("x")); err == nil {
		t.Error("expected error for canceled context")
	}
}

func TestComponentHealth(t *testing.T) {
	s := newTestStorage(t)
	c := NewComponent(s)

	if err := os.RemoveAll(s.BasePath()); err != nil {
		t.Fatal(err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy without base dir, got %s", h.Status)
	}

	if err := c.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if h := c.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after Start, got %s (%s)", h.Status, h.Message)
	}
}

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.BasePath != filepath.Join(os.TempDir(), "memoscribe") {
		t.Errorf("unexpected default base path %q", cfg.BasePath)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
