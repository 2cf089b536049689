package client

import (
	"context"

	"github.com/linkmark/api/bookmarks/feed"
	"github.com/linkmark/api/bookmarks/models"
)

// Connect subscribes to the owner's change feed and pumps it into the store.
// The returned function tears the subscription down; Close does not call it, so
// callers that connect a feed must cancel it themselves.
func (s *Store) Connect(ctx context.Context, sub feed.Subscriber) (func(), error) {
	events, cancel, err := sub.Subscribe(ctx, s.owner)
	if err != nil {
		return nil, err
	}
	s.Run(events)
	return cancel, nil
}

// Run pumps a change feed into the reconciler until the channel closes or the
// store is closed. Events are applied strictly in receipt order.
func (s *Store) Run(events <-chan feed.ChangeEvent) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for {
			select {
			case <-s.baseCtx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				s.Apply(event)
			}
		}
	}()
}

// Apply merges one change event into the session state. Events describing
// mutations this session initiated are recognized via the pending-signature
// map or by id presence and skipped, so a change is never applied twice.
func (s *Store) Apply(event feed.ChangeEvent) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}

	var changed bool
	switch event.Op {
	case feed.OpInsert:
		changed = s.applyInsertLocked(event.Record)
	case feed.OpUpdate:
		changed = s.applyUpdateLocked(event.Record)
	case feed.OpDelete:
		changed = s.applyDeleteLocked(event.Record)
	}
	s.mu.Unlock()

	if changed {
		s.notifyChange()
	}
}

func (s *Store) applyInsertLocked(record models.Bookmark) bool {
	// Already confirmed through the tracker, or delivered before.
	if s.indexOfIDLocked(s.items, record.ID) >= 0 {
		return false
	}
	// A pending create owns reconciling this record when its call resolves.
	if s.pending.matches(createSignature(record.OwnerID, record.Title, record.URL)) {
		return false
	}

	// A genuinely external insert, e.g. another session of the same user.
	changed := false
	if record.IsQuickAccess && s.indexOfIDLocked(s.quickAccess, record.ID) < 0 {
		s.quickAccess = append([]Bookmark{wrap(record)}, s.quickAccess...)
		changed = true
	}

	if s.currentPage == 1 && s.activeQuery == "" {
		s.items = append([]Bookmark{wrap(record)}, s.items...)
	} else if s.opts.IgnoreHiddenInserts {
		return changed
	}
	s.totalCount++
	s.recomputeTotalPagesLocked()
	return true
}

func (s *Store) applyUpdateLocked(record models.Bookmark) bool {
	// A local optimistic edit is in flight for this record; its own
	// resolution (or resync) owns the final state.
	if s.pending.isPendingUpdate(record.ID) {
		return false
	}

	idx := s.indexOfIDLocked(s.items, record.ID)
	qaIdx := s.indexOfIDLocked(s.quickAccess, record.ID)
	if idx < 0 && qaIdx < 0 {
		// Record lives on a different page.
		return false
	}

	if idx >= 0 {
		clientID := s.items[idx].ClientID
		s.items[idx] = Bookmark{Bookmark: record, ClientID: clientID}
	}

	// Keep the quick-access subset consistent with the flag.
	if record.IsQuickAccess {
		if qaIdx >= 0 {
			clientID := s.quickAccess[qaIdx].ClientID
			s.quickAccess[qaIdx] = Bookmark{Bookmark: record, ClientID: clientID}
		} else if idx >= 0 {
			s.quickAccess = append([]Bookmark{s.items[idx]}, s.quickAccess...)
		}
	} else if qaIdx >= 0 {
		s.quickAccess = append(s.quickAccess[:qaIdx], s.quickAccess[qaIdx+1:]...)
	}
	return true
}

func (s *Store) applyDeleteLocked(record models.Bookmark) bool {
	// Locally initiated: the list and count already reflect it.
	if s.pending.isPendingDelete(record.ID) {
		return false
	}

	if !s.removeByIDLocked(record.ID) {
		return false
	}
	if s.totalCount > 0 {
		s.totalCount--
	}
	s.recomputeTotalPagesLocked()
	return true
}
