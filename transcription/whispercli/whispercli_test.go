package whispercli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kbukum/memoscribe/process"
)

// fakeWhisper writes an executable that records its arguments next to
// itself and then runs body with $dir, $fmt and $base set.
func fakeWhisper(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	script := `#!/bin/sh
echo "$@" > "$(dirname "$0")/args"
audio="$1"
shift
while [ $# -gt 0 ]; do
  case "$1" in
    --output_dir) dir="$2"; shift 2 ;;
    --output_format) fmt="$2"; shift 2 ;;
    *) shift ;;
  esac
done
base=$(basename "$audio")
base="${base%.*}"
` + body
	path := filepath.Join(dir, "whisper")
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func recordedArgs(t *testing.T, binary string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(filepath.Dir(binary), "args"))
	if err != nil {
		t.Fatalf("read args: %v", err)
	}
	return strings.TrimSpace(string(data))
}

func audioFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "memo.wav")
	if err := os.WriteFile(path, []byte("RIFF"), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_NotInstalled(t *testing.T) {
	b := NewBackend(Config{Binary: filepath.Join(t.TempDir(), "missing")})

	_, err := b.Load(context.Background(), "base", "cpu")
	if err == nil || err.Error() != MsgNotInstalled {
		t.Fatalf("expected %q, got %v", MsgNotInstalled, err)
	}
	if b.IsAvailable(context.Background()) {
		t.Error("expected IsAvailable to be false")
	}
}

func TestRun_Text(t *testing.T) {
	bin := fakeWhisper(t, `printf '  hello world \n' > "$dir/$base.$fmt"`+"\n")
	b := NewBackend(Config{Binary: bin})

	model, err := b.Load(context.Background(), "small", "cpu")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	audio := audioFile(t)
	out, err := model.Run(context.Background(), audio)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(out.Text) != "hello world" {
		t.Errorf("unexpected text %q", out.Text)
	}

	args := recordedArgs(t, bin)
	for _, want := range []string{audio, "--model small", "--device cpu", "--output_format txt", "--fp16 False"} {
		if !strings.Contains(args, want) {
			t.Errorf("expected %q in args %q", want, args)
		}
	}
}

func TestRun_JSON(t *testing.T) {
	bin := fakeWhisper(t, `cat > "$dir/$base.$fmt" <<'JSON'
{"text": " hi there", "language": "en", "segments": [{"start": 0, "end": 1.5, "text": " hi"}, {"start": 1.5, "end": 2.25, "text": " there"}]}
JSON
`)
	b := NewBackend(Config{Binary: bin, OutputFormat: FormatJSON, Language: "en"})

	model, err := b.Load(context.Background(), "base", "cuda")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	out, err := model.Run(context.Background(), audioFile(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Text != " hi there" || out.Language != "en" {
		t.Errorf("unexpected output %+v", out)
	}
	if len(out.Segments) != 2 || out.Duration != 2.25 {
		t.Errorf("unexpected segments %+v (duration %v)", out.Segments, out.Duration)
	}

	args := recordedArgs(t, bin)
	if strings.Contains(args, "--fp16") {
		t.Errorf("expected no fp16 flag on cuda, got %q", args)
	}
	if !strings.Contains(args, "--language en") {
		t.Errorf("expected language flag, got %q", args)
	}
}

func TestRun_NoTranscriptFile(t *testing.T) {
	bin := fakeWhisper(t, "exit 0\n")
	model, err := NewBackend(Config{Binary: bin}).Load(context.Background(), "base", "cpu")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	out, err := model.Run(context.Background(), audioFile(t))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Text != "" {
		t.Errorf("expected empty output, got %q", out.Text)
	}
}

func TestRun_ProcessFailure(t *testing.T) {
	bin := fakeWhisper(t, "echo 'RuntimeError: CUDA out of memory' >&2\nexit 1\n")
	model, err := NewBackend(Config{Binary: bin}).Load(context.Background(), "base", "cuda")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err = model.Run(context.Background(), audioFile(t))
	var exitErr *process.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("expected ExitError, got %v", err)
	}
	if exitErr.Code != 1 || !strings.Contains(exitErr.Stderr, "CUDA out of memory") {
		t.Errorf("unexpected exit error %+v", exitErr)
	}
}

func TestFactory_Overrides(t *testing.T) {
	f := Factory(Config{Binary: "whisper"})
	backend, err := f(map[string]any{"binary": "/opt/whisper", "output_format": FormatJSON})
	if err != nil {
		t.Fatal(err)
	}
	b := backend.(*Backend)
	if b.cfg.Binary != "/opt/whisper" || b.cfg.OutputFormat != FormatJSON {
		t.Errorf("unexpected config %+v", b.cfg)
	}
	if b.Name() != ProviderName {
		t.Errorf("unexpected name %q", b.Name())
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Config{OutputFormat: "srt"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Error("expected srt to be rejected")
	}
	cfg.OutputFormat = FormatTXT
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
