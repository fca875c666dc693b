package process

import (
	"strings"
	"time"
)

// Result holds the output and status of a finished subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 if the process was killed by a signal.
	ExitCode int
	Duration time.Duration
}

// StderrTail returns the last n bytes of stderr with surrounding space
// trimmed.
func (r *Result) StderrTail(n int) string {
	s := r.Stderr
	if n > 0 && len(s) > n {
		s = s[len(s)-n:]
	}
	return strings.TrimSpace(string(s))
}
