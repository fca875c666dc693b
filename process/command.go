package process

import (
	"io"
	"time"
)

// Command describes a subprocess to run.
type Command struct {
	// Binary is an executable path or a name resolved via PATH.
	Binary string
	Args   []string
	// Dir is the working directory; empty means the current one.
	Dir string
	// Env holds extra KEY=value pairs appended to the inherited environment.
	Env   []string
	Stdin io.Reader
	// GracePeriod is the delay between SIGTERM and SIGKILL on cancellation.
	GracePeriod time.Duration
}
