package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestBulkhead_Slots(t *testing.T) {
	b := NewBulkhead(BulkheadConfig{Name: "inference", MaxConcurrent: 2})
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := b.Acquire(ctx); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}
	if b.Available() != 0 || b.InUse() != 2 {
		t.Fatalf("expected 0 free and 2 in use, got %d/%d", b.Available(), b.InUse())
	}
	if err := b.Acquire(ctx); !errors.Is(err, ErrBulkheadFull) {
		t.Fatalf("expected ErrBulkheadFull, got %v", err)
	}

	b.Release()
	b.Release()
	if b.Available() != 2 {
		t.Errorf("expected all slots free, got %d", b.Available())
	}
}

func TestBulkhead_DefaultSize(t *testing.T) {
	tests := []struct {
		name string
		cfg  BulkheadConfig
		want int
	}{
		{"default config", DefaultBulkheadConfig("x"), defaultSlots},
		{"zero", BulkheadConfig{}, defaultSlots},
		{"negative", BulkheadConfig{MaxConcurrent: -3}, defaultSlots},
		{"explicit", BulkheadConfig{MaxConcurrent: 4}, 4},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := NewBulkhead(tc.cfg).Available(); got != tc.want {
				t.Errorf("expected %d slots, got %d", tc.want, got)
			}
		})
	}
}

// full returns a one-slot bulkhead whose slot is taken.
func full(t *testing.T, maxWait time.Duration) *Bulkhead {
	t.Helper()
	b := NewBulkhead(BulkheadConfig{Name: "inference", MaxConcurrent: 1, MaxWait: maxWait})
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	return b
}

func TestBulkhead_WaitOutcomes(t *testing.T) {
	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name    string
		maxWait time.Duration
		ctx     context.Context
		want    error
	}{
		{"no wait", 0, context.Background(), ErrBulkheadFull},
		{"wait expires", 10 * time.Millisecond, context.Background(), ErrBulkheadTimeout},
		{"caller gives up", time.Second, canceled, context.Canceled},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := full(t, tc.maxWait)
			if err := b.Acquire(tc.ctx); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
			if b.InUse() != 1 {
				t.Errorf("rejection must not take a slot, %d in use", b.InUse())
			}
		})
	}
}

func TestBulkhead_WaiterGetsReleasedSlot(t *testing.T) {
	b := full(t, time.Second)

	go func() {
		time.Sleep(20 * time.Millisecond)
		b.Release()
	}()

	start := time.Now()
	if err := b.Acquire(context.Background()); err != nil {
		t.Fatalf("expected the released slot, got %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Error("expected Acquire to wait for the release")
	}
	b.Release()
}
