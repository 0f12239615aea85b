// Package testutil provides shared test infrastructure for the transit simulator.
// It has no dependency on sim/ so that sim's own tests can import it.
package testutil

import (
	"math"
	"sync"
	"testing"
)

// AssertFloat64Equal fails the test if want and got differ by more than relTol
// relative to the larger magnitude.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// RecordingObserver keeps a copy of every value it is notified with.
type RecordingObserver[T any] struct {
	Received []T
}

func (r *RecordingObserver[T]) Notify(info T) {
	r.Received = append(r.Received, info)
}

// Last returns the most recent value, or the zero value if none.
func (r *RecordingObserver[T]) Last() T {
	var zero T
	if len(r.Received) == 0 {
		return zero
	}
	return r.Received[len(r.Received)-1]
}

// LogRecord is one record captured by MemoryLog.
type LogRecord struct {
	Dest   string
	Fields []string
}

// MemoryLog is an in-memory log writer. Err, if set, is returned by every Write
// after the record is captured.
type MemoryLog struct {
	mu      sync.Mutex
	Records []LogRecord
	Err     error
}

func (m *MemoryLog) Write(dest string, fields []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, LogRecord{Dest: dest, Fields: append([]string(nil), fields...)})
	return m.Err
}

// For returns the records written to dest in order.
func (m *MemoryLog) For(dest string) []LogRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogRecord
	for _, r := range m.Records {
		if r.Dest == dest {
			out = append(out, r)
		}
	}
	return out
}
