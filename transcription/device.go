package transcription

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/kbukum/memoscribe/process"
)

// Devices.
const (
	DeviceCPU  = "cpu"
	DeviceCUDA = "cuda"
	DeviceAuto = "auto"
)

// DeviceProber reports whether an accelerator is present.
type DeviceProber interface {
	Probe(ctx context.Context) (accelerated bool, err error)
}

// DeviceProberFunc adapts a function to DeviceProber.
type DeviceProberFunc func(ctx context.Context) (bool, error)

// Probe calls f.
func (f DeviceProberFunc) Probe(ctx context.Context) (bool, error) { return f(ctx) }

// ResolveDevice returns preference unless it is empty or "auto", in which
// case it probes: cuda when accelerated, cpu otherwise. A nil prober means
// cpu.
func ResolveDevice(ctx context.Context, preference string, prober DeviceProber) (string, error) {
	if p := strings.TrimSpace(preference); p != "" && !strings.EqualFold(p, DeviceAuto) {
		return p, nil
	}
	if prober == nil {
		return DeviceCPU, nil
	}
	accelerated, err := prober.Probe(ctx)
	if err != nil {
		return "", err
	}
	if accelerated {
		return DeviceCUDA, nil
	}
	return DeviceCPU, nil
}

// NvidiaSMIProber detects CUDA GPUs by listing them with nvidia-smi.
// A missing binary or a failing driver means no accelerator.
type NvidiaSMIProber struct {
	Binary  string
	Timeout time.Duration
}

// NewNvidiaSMIProber returns a prober using nvidia-smi from PATH.
func NewNvidiaSMIProber() *NvidiaSMIProber {
	return &NvidiaSMIProber{Binary: "nvidia-smi", Timeout: 10 * time.Second}
}

// Probe runs `nvidia-smi -L` and looks for a listed GPU.
func (p *NvidiaSMIProber) Probe(ctx context.Context) (bool, error) {
	if _, err := process.LookPath(p.Binary); err != nil {
		return false, nil
	}
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	res, err := process.Run(ctx, process.Command{Binary: p.Binary, Args: []string{"-L"}})
	if err != nil {
		var exitErr *process.ExitError
		if errors.As(err, &exitErr) {
			return false, nil
		}
		return false, err
	}
	for _, line := range strings.Split(string(res.Stdout), "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "GPU ") {
			return true, nil
		}
	}
	return false, nil
}
