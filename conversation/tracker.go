// Package conversation remembers the scripted step of each in-flight call.
package conversation

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/AVVKavvk/sahay-call-agent/models"
)

// Tracker maps a call identifier to its current state.
// Get never fails on a missing call: it returns the initial state.
type Tracker interface {
	Get(callID string) (models.CallState, error)
	Put(state models.CallState) error
	Reset(callID string) error
}

type entry struct {
	state   models.CallState
	touched time.Time
}

// MemoryTracker keeps states in process memory and forgets calls untouched for ttl.
type MemoryTracker struct {
	mu       sync.Mutex
	calls    map[string]entry
	ttl      time.Duration
	language models.Language
	now      func() time.Time
}

func NewMemoryTracker(ttl time.Duration, defaultLang models.Language) *MemoryTracker {
	return &MemoryTracker{
		calls:    make(map[string]entry),
		ttl:      ttl,
		language: defaultLang,
		now:      time.Now,
	}
}

func (m *MemoryTracker) Get(callID string) (models.CallState, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.calls[callID]
	if !ok || m.expired(e) {
		return models.InitialState(callID, m.language), nil
	}
	return e.state, nil
}

func (m *MemoryTracker) Put(state models.CallState) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	state.UpdatedAt = now
	m.calls[state.CallID] = entry{state: state, touched: now}
	return nil
}

func (m *MemoryTracker) Reset(callID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.calls, callID)
	return nil
}

// Len reports how many calls are currently held, expired or not.
func (m *MemoryTracker) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Sweep drops expired calls and returns how many were removed.
func (m *MemoryTracker) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, e := range m.calls {
		if m.expired(e) {
			delete(m.calls, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is done.
func (m *MemoryTracker) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				log.WithField("removed", n).Debug("expired call states swept")
			}
		}
	}
}

func (m *MemoryTracker) expired(e entry) bool {
	return m.now().Sub(e.touched) > m.ttl
}
