package util

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	kib int64 = 1024
	mib       = 1024 * kib
	gib       = 1024 * mib
)

// ParseSize parses a human-readable size ("100MB", "512KB", "2GB", "4096")
// into bytes. Returns defaultBytes if s is empty or malformed.
func ParseSize(s string, defaultBytes int64) int64 {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return defaultBytes
	}

	multiplier := int64(1)
	for _, unit := range []struct {
		suffix string
		bytes  int64
	}{{"GB", gib}, {"MB", mib}, {"KB", kib}, {"B", 1}} {
		if strings.HasSuffix(s, unit.suffix) {
			multiplier = unit.bytes
			s = strings.TrimSpace(strings.TrimSuffix(s, unit.suffix))
			break
		}
	}

	val, err := strconv.ParseInt(s, 10, 64)
	if err != nil || val < 0 {
		return defaultBytes
	}
	return val * multiplier
}

// FormatSize renders n bytes in the largest whole unit ParseSize accepts.
func FormatSize(n int64) string {
	switch {
	case n >= gib && n%gib == 0:
		return fmt.Sprintf("%dGB", n/gib)
	case n >= mib && n%mib == 0:
		return fmt.Sprintf("%dMB", n/mib)
	case n >= kib && n%kib == 0:
		return fmt.Sprintf("%dKB", n/kib)
	default:
		return fmt.Sprintf("%dB", n)
	}
}
