package client

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

type mutationKind int

const (
	mutationCreate mutationKind = iota
	mutationUpdate
	mutationDelete
)

// pendingMutation is one locally applied, unconfirmed write. An entry exists
// exactly while the mutation is in the PENDING_LOCAL state: inserted when the
// optimistic change is applied, removed once on confirmation, rollback, or
// deadline expiry.
type pendingMutation struct {
	kind     mutationKind
	id       uuid.UUID
	deadline time.Time
}

// tracker holds the pending signatures the reconciler consults to recognize
// feed events that describe mutations this session already applied.
// All methods assume the caller holds the store lock.
type tracker struct {
	ttl   time.Duration
	now   func() time.Time
	bySig map[string]pendingMutation
	byID  map[uuid.UUID]mutationKind
}

func newTracker(ttl time.Duration, now func() time.Time) *tracker {
	return &tracker{
		ttl:   ttl,
		now:   now,
		bySig: make(map[string]pendingMutation),
		byID:  make(map[uuid.UUID]mutationKind),
	}
}

// createSignature keys a pending create. The server-assigned id is unknown
// until confirmation, so creates are matched on owner plus content.
func createSignature(ownerID uuid.UUID, title, url string) string {
	return "create|" + ownerID.String() + "|" + title + "|" + url
}

func updateSignature(id uuid.UUID) string {
	return "update|" + id.String()
}

func deleteSignature(id uuid.UUID) string {
	return "delete|" + id.String()
}

func (t *tracker) begin(sig string, kind mutationKind, id uuid.UUID) {
	t.sweep()
	t.bySig[sig] = pendingMutation{kind: kind, id: id, deadline: t.now().Add(t.ttl)}
	t.byID[id] = kind
}

// resolve releases a pending entry. Safe to call for an entry the sweep
// already expired.
func (t *tracker) resolve(sig string) {
	if m, ok := t.bySig[sig]; ok {
		delete(t.bySig, sig)
		delete(t.byID, m.id)
	}
}

// matches reports whether sig names a live pending mutation.
func (t *tracker) matches(sig string) bool {
	m, ok := t.bySig[sig]
	if !ok {
		return false
	}
	if t.now().After(m.deadline) {
		t.resolve(sig)
		return false
	}
	return true
}

func (t *tracker) isPendingCreate(id uuid.UUID) bool {
	kind, ok := t.byID[id]
	return ok && kind == mutationCreate
}

func (t *tracker) isPendingUpdate(id uuid.UUID) bool {
	kind, ok := t.byID[id]
	return ok && kind == mutationUpdate
}

func (t *tracker) isPendingDelete(id uuid.UUID) bool {
	kind, ok := t.byID[id]
	return ok && kind == mutationDelete
}

// sweep drops entries whose deadline has passed, so a gateway call that never
// resolves cannot suppress external events forever.
func (t *tracker) sweep() {
	now := t.now()
	for sig, m := range t.bySig {
		if now.After(m.deadline) {
			delete(t.bySig, sig)
			delete(t.byID, m.id)
		}
	}
}
