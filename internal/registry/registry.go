// Package registry holds the process-wide table of joined participants.
// It is the source of truth for presence: a participant exists here if
// and only if its connection is open and has completed a join handshake.
package registry

import (
	"sync"

	"github.com/shashshekh8-jpg/sense-mesh/internal/models"
)

// SessionRegistry maps connection ids to participants. It is constructed
// at startup and injected into the protocol layer; all access is
// serialized by a single mutex. Operations are O(1)/O(n) on participant
// count, so coarse locking is deliberate.
type SessionRegistry struct {
	mu    sync.Mutex
	table map[string]models.Participant
	order []string // insertion order, preserved for presence snapshots
}

// New creates an empty SessionRegistry.
func New() *SessionRegistry {
	return &SessionRegistry{
		table: make(map[string]models.Participant),
	}
}

// Join inserts or overwrites the participant keyed by its connection id.
// It never fails. A re-join keeps the original ordering slot.
func (r *SessionRegistry) Join(p models.Participant) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.table[p.ID]; !exists {
		r.order = append(r.order, p.ID)
	}
	r.table[p.ID] = p
}

// Leave removes the participant if present. Removing an absent id is a
// no-op, not an error.
func (r *SessionRegistry) Leave(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.table[id]; !exists {
		return
	}
	delete(r.table, id)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// Lookup returns the participant for a connection id. Absence is a
// normal outcome: callers must treat it as "receiver currently
// unreachable", never as an error.
func (r *SessionRegistry) Lookup(id string) (models.Participant, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.table[id]
	return p, ok
}

// Snapshot returns a consistent point-in-time view of all participants
// in insertion order. Concurrent readers never observe a participant
// mid-insertion.
func (r *SessionRegistry) Snapshot() []models.Participant {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]models.Participant, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.table[id])
	}
	return out
}

// Len returns the current participant count.
func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.table)
}
