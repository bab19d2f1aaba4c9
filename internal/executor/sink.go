package executor

import (
	"fmt"
	"sync"

	"github.com/aryankumar/parbench/internal/util"
	"k8s.io/apimachinery/pkg/util/sets"
)

// Sink collects exactly one Result per task id in [1, N].
// It is safe for concurrent use; slot i always holds task i's outcome
// regardless of the order in which writes arrive.
type Sink[T any] struct {
	// mu guards slots and written
	mu sync.Mutex

	slots   []Result[T]
	written sets.Set[int]
}

// NewSink creates a sink with n empty slots
func NewSink[T any](n int) *Sink[T] {
	if n < 0 {
		n = 0
	}
	return &Sink[T]{
		slots:   make([]Result[T], n),
		written: sets.New[int](),
	}
}

// Write stores r in the slot for r.TaskID.
// A second write to the same slot or an id outside [1, N] is rejected
// and leaves the sink unchanged.
func (s *Sink[T]) Write(r Result[T]) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.TaskID < 1 || r.TaskID > len(s.slots) {
		return fmt.Errorf("write task %d into sink of %d: %w", r.TaskID, len(s.slots), util.ErrSlotOutOfRange)
	}
	if s.written.Has(r.TaskID) {
		return fmt.Errorf("write task %d: %w", r.TaskID, util.ErrSlotWritten)
	}

	s.slots[r.TaskID-1] = r
	s.written.Insert(r.TaskID)
	return nil
}

// Get returns the result for task id and whether it has been written
func (s *Sink[T]) Get(id int) (Result[T], bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id < 1 || id > len(s.slots) || !s.written.Has(id) {
		return Result[T]{}, false
	}
	return s.slots[id-1], true
}

// Len returns the number of slots
func (s *Sink[T]) Len() int {
	return len(s.slots)
}

// Written returns how many slots have been populated
func (s *Sink[T]) Written() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.written.Len()
}

// Complete reports whether every slot has been written
func (s *Sink[T]) Complete() bool {
	return s.Written() == s.Len()
}

// Missing returns the ids of unwritten slots in increasing order
func (s *Sink[T]) Missing() []int {
	s.mu.Lock()
	defer s.mu.Unlock()

	missing := make([]int, 0, len(s.slots)-s.written.Len())
	for id := 1; id <= len(s.slots); id++ {
		if !s.written.Has(id) {
			missing = append(missing, id)
		}
	}
	return missing
}

// FillMissing writes a failure carrying cause into every unwritten slot.
// Strategies call it after an early stop so the sink is always complete.
// Returns the number of slots filled.
func (s *Sink[T]) FillMissing(cause error) int {
	if cause == nil {
		cause = util.ErrCancelled
	}

	missing := s.Missing()
	for _, id := range missing {
		// Only this goroutine fills after the run, so the write cannot collide.
		_ = s.Write(Result[T]{
			TaskID: id,
			Error:  fmt.Errorf("%w: %w", util.ErrNotExecuted, cause),
		})
	}
	return len(missing)
}

// Results returns a copy of all slots ordered by task id
func (s *Sink[T]) Results() []Result[T] {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Result[T], len(s.slots))
	copy(out, s.slots)
	return out
}
