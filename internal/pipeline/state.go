package pipeline

import (
	"fmt"
	"sync"

	"github.com/lucidity-ai/lucidity/pkg/types"
)

// stateStore guards the shared AuditState. The dependency graph already
// guarantees one writer per slot; the store still asserts it on every
// write so an accidental same-slot race surfaces as a fatal orchestrator
// error instead of silent corruption.
type stateStore struct {
	mu      sync.RWMutex
	state   *types.AuditState
	written map[types.Slot]bool
}

func newStateStore(documentID, content string) *stateStore {
	return &stateStore{
		state:   types.NewAuditState(documentID, content),
		written: make(map[types.Slot]bool),
	}
}

// put writes v into its owning slot, exactly once.
func (s *stateStore) put(v types.SlotValue) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot := v.Slot()
	if s.written[slot] {
		return fmt.Errorf("%w: slot %q written twice", ErrStateCorrupted, slot)
	}
	s.written[slot] = true
	s.state.Assign(v)
	return nil
}

// snapshot returns a read-only copy of the state for a stage invocation.
// Slot values are immutable once written, so a shallow copy suffices.
func (s *stateStore) snapshot() *types.AuditState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// setFinalReport completes the state. It fails if called twice.
func (s *stateStore) setFinalReport(r *types.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.FinalReport != nil {
		return fmt.Errorf("%w: final report set twice", ErrStateCorrupted)
	}
	s.state.FinalReport = r
	return nil
}
