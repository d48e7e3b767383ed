// Package ingest holds the hand-off point between the transport delivery
// goroutine and the refresh cycle.
package ingest

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// OverflowPolicy decides which value is lost when a bounded buffer is full.
type OverflowPolicy string

const (
	// DropOldest evicts the oldest pending value to make room for the new one.
	DropOldest OverflowPolicy = "drop_oldest"
	// DropNewest rejects the incoming value and keeps the pending ones.
	DropNewest OverflowPolicy = "drop_newest"
)

// ParsePolicy validates a textual overflow policy.
func ParsePolicy(s string) (OverflowPolicy, error) {
	switch p := OverflowPolicy(s); p {
	case DropOldest, DropNewest:
		return p, nil
	case "":
		return DropOldest, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

// Buffer is a mutex-guarded FIFO of raw values. Producers only ever wait for
// the short critical section of another Push or DrainAll, never for the
// consumer to process anything.
type Buffer struct {
	mu       sync.Mutex
	pending  []float64
	capacity int // 0 means unbounded
	policy   OverflowPolicy

	dropped atomic.Uint64
}

// NewBuffer creates a buffer. capacity <= 0 makes it unbounded, in which case
// the policy is never consulted.
func NewBuffer(capacity int, policy OverflowPolicy) *Buffer {
	if capacity < 0 {
		capacity = 0
	}
	if policy == "" {
		policy = DropOldest
	}
	return &Buffer{
		capacity: capacity,
		policy:   policy,
	}
}

// Push enqueues v. It reports false only when v itself was discarded
// (DropNewest on a full buffer); with DropOldest the new value is always kept.
func (b *Buffer) Push(v float64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.capacity > 0 && len(b.pending) >= b.capacity {
		b.dropped.Add(1)
		if b.policy == DropNewest {
			return false
		}
		// shift instead of reslicing so the backing array does not creep forward
		copy(b.pending, b.pending[1:])
		b.pending[len(b.pending)-1] = v
		return true
	}

	b.pending = append(b.pending, v)
	return true
}

// PushPayload parses a wire payload and enqueues the value. A malformed payload
// is rejected with an error wrapping ErrMalformedPayload and nothing is enqueued.
func (b *Buffer) PushPayload(payload []byte) (float64, error) {
	v, err := ParsePayload(payload)
	if err != nil {
		return 0, err
	}
	b.Push(v)
	return v, nil
}

// DrainAll returns every value pushed since the previous drain, oldest first.
// It never waits; an empty buffer yields an empty, non-nil slice.
func (b *Buffer) DrainAll() []float64 {
	b.mu.Lock()
	out := b.pending
	b.pending = nil
	b.mu.Unlock()

	if out == nil {
		return []float64{}
	}
	return out
}

// Len returns the number of pending values.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}

// Dropped returns the total number of values lost to overflow.
func (b *Buffer) Dropped() uint64 {
	return b.dropped.Load()
}

// Capacity returns the configured bound, 0 when unbounded.
func (b *Buffer) Capacity() int { return b.capacity }

// Policy returns the overflow policy.
func (b *Buffer) Policy() OverflowPolicy { return b.policy }
