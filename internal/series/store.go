// Package series keeps the bounded, time-ordered window of readings that the
// dashboard renders, together with its min/max.
package series

import (
	"sync"
	"time"

	"picow_telemetry/internal/models"
)

// DefaultCapacity is used when a non-positive capacity is requested; the
// window is never unbounded.
const DefaultCapacity = 500

// Store is a fixed-capacity ring of readings. Append evicts the oldest point
// once the window is full. Min and max are maintained on every append and only
// rescanned when an evicted point held one of the extremes.
type Store struct {
	mu       sync.RWMutex
	points   []models.Reading
	start    int // index of the oldest point once the ring is full
	capacity int
	min      float64
	max      float64
	last     time.Time
	now      func() time.Time
}

// Option customises a Store.
type Option func(*Store)

// WithClock overrides the clock used to stamp appended readings.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// NewStore creates an empty window holding at most capacity points.
func NewStore(capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		capacity: capacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append stamps v with the current time and adds it at the tail. Timestamps
// never go backwards: a clock that steps back is clamped to the last stamp.
func (s *Store) Append(v float64) models.Reading {
	s.mu.Lock()
	defer s.mu.Unlock()

	ts := s.now()
	if ts.Before(s.last) {
		ts = s.last
	}
	s.last = ts
	r := models.Reading{Timestamp: ts, Value: v}

	if len(s.points) < s.capacity {
		s.points = append(s.points, r)
		if len(s.points) == 1 {
			s.min, s.max = v, v
			return r
		}
		s.extend(v)
		return r
	}

	evicted := s.points[s.start]
	s.points[s.start] = r
	s.start = (s.start + 1) % s.capacity

	if evicted.Value == s.min || evicted.Value == s.max {
		s.rescan()
		return r
	}
	s.extend(v)
	return r
}

// Snapshot returns a copy of the window and its derived values taken under a
// single read lock.
func (s *Store) Snapshot() models.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := models.Snapshot{Capacity: s.capacity}
	if len(s.points) == 0 {
		snap.Points = []models.Reading{}
		snap.Placeholder = models.PlaceholderCurrent
		return snap
	}

	snap.Points = make([]models.Reading, 0, len(s.points))
	snap.Points = append(snap.Points, s.points[s.start:]...)
	snap.Points = append(snap.Points, s.points[:s.start]...)

	lo, hi := s.min, s.max
	bounds := DisplayBounds(lo, hi)
	current := snap.Points[len(snap.Points)-1]

	snap.MinValue = &lo
	snap.MaxValue = &hi
	snap.DisplayBounds = &bounds
	snap.Current = &current
	return snap
}

// Len returns the number of points in the window.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.points)
}

// Capacity returns the maximum number of retained points.
func (s *Store) Capacity() int { return s.capacity }

func (s *Store) extend(v float64) {
	if v < s.min {
		s.min = v
	}
	if v > s.max {
		s.max = v
	}
}

func (s *Store) rescan() {
	s.min, s.max = s.points[0].Value, s.points[0].Value
	for _, p := range s.points[1:] {
		s.extend(p.Value)
	}
}
