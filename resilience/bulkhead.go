package resilience

import (
	"context"
	"errors"
	"time"
)

// Slot rejection errors.
var (
	ErrBulkheadFull    = errors.New("bulkhead is full")
	ErrBulkheadTimeout = errors.New("bulkhead wait timeout")
)

const defaultSlots = 10

// BulkheadConfig configures a bulkhead.
type BulkheadConfig struct {
	// Name identifies the bulkhead in logs and errors.
	Name string
	// MaxConcurrent is the number of slots. Non-positive means 10.
	MaxConcurrent int
	// MaxWait bounds how long a caller waits for a slot. 0 fails at once.
	MaxWait time.Duration
}

// DefaultBulkheadConfig returns a 10-slot bulkhead that fails immediately
// when full.
func DefaultBulkheadConfig(name string) BulkheadConfig {
	return BulkheadConfig{Name: name, MaxConcurrent: defaultSlots}
}

// Bulkhead is a counting semaphore with a bounded wait.
type Bulkhead struct {
	name    string
	maxWait time.Duration
	slots   chan struct{}
}

// NewBulkhead creates a bulkhead from cfg.
func NewBulkhead(cfg BulkheadConfig) *Bulkhead {
	n := cfg.MaxConcurrent
	if n <= 0 {
		n = defaultSlots
	}
	return &Bulkhead{
		name:    cfg.Name,
		maxWait: cfg.MaxWait,
		slots:   make(chan struct{}, n),
	}
}

// Name returns the configured name.
func (b *Bulkhead) Name() string { return b.name }

// Acquire takes a slot. When none is free it waits up to MaxWait and then
// fails with ErrBulkheadTimeout, or with ErrBulkheadFull at once when
// MaxWait is zero. A done ctx ends the wait with ctx.Err(). Every successful
// Acquire must be paired with Release.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	select {
	case b.slots <- struct{}{}:
		return nil
	default:
	}
	if b.maxWait <= 0 {
		return ErrBulkheadFull
	}

	timer := time.NewTimer(b.maxWait)
	defer timer.Stop()

	select {
	case b.slots <- struct{}{}:
		return nil
	case <-timer.C:
		return ErrBulkheadTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a slot taken by Acquire.
func (b *Bulkhead) Release() {
	<-b.slots
}

// Available returns the number of free slots.
func (b *Bulkhead) Available() int {
	return cap(b.slots) - len(b.slots)
}

// InUse returns the number of occupied slots.
func (b *Bulkhead) InUse() int {
	return len(b.slots)
}
