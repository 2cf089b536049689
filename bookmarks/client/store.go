package client

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	uuid "github.com/gofrs/uuid"

	"github.com/linkmark/api/bookmarks/models"
	"github.com/linkmark/api/internal/pkg/log"
)

const (
	defaultPageSize      = 10
	defaultQuietInterval = 300 * time.Millisecond
	defaultPendingTTL    = 30 * time.Second
)

// Options tunes a session store.
type Options struct {
	// PageSize is the fixed page size for list fetches. Defaults to 10.
	PageSize int
	// QuietInterval is the search debounce window. Defaults to 300ms.
	QuietInterval time.Duration
	// PendingTTL bounds how long a pending mutation signature survives when
	// its gateway call never resolves. Defaults to 30s.
	PendingTTL time.Duration
	// IgnoreHiddenInserts drops external inserts that are not visible
	// (page > 1 or active filter) entirely instead of still bumping the
	// total count. By default the count is bumped so pagination stays
	// accurate.
	IgnoreHiddenInserts bool
	// OnChange is invoked after every state transition the view should render.
	OnChange func()
	// OnError receives non-fatal mutation and fetch failures.
	OnError func(error)
}

// Store reconciles optimistic local mutations, authoritative gateway
// responses, and the asynchronous change feed into one consistent view of a
// user's bookmarks. One Store is constructed per authenticated session and
// torn down with Close; all state transitions are serialized by its lock,
// while gateway round trips run outside it.
type Store struct {
	gateway  Gateway
	owner    uuid.UUID
	pageSize int
	opts     Options

	debounce *debouncer

	baseCtx context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup

	mu            sync.Mutex
	closed        bool
	items         []Bookmark
	quickAccess   []Bookmark
	totalCount    int
	currentPage   int
	totalPages    int
	searchQuery   string
	activeQuery   string
	loading       bool
	searching     bool
	switchingPage bool
	pending       *tracker

	// fetchGen orders page loads: a response whose generation is no longer
	// current is discarded instead of clobbering a newer result.
	fetchGen    uint64
	fetchCancel context.CancelFunc
}

// NewStore builds a session store for one owner. Call Load to populate it and
// Close on logout.
func NewStore(gateway Gateway, ownerID uuid.UUID, opts Options) *Store {
	if opts.PageSize <= 0 {
		opts.PageSize = defaultPageSize
	}
	if opts.QuietInterval <= 0 {
		opts.QuietInterval = defaultQuietInterval
	}
	if opts.PendingTTL <= 0 {
		opts.PendingTTL = defaultPendingTTL
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Store{
		gateway:     gateway,
		owner:       ownerID,
		pageSize:    opts.PageSize,
		opts:        opts,
		debounce:    newDebouncer(opts.QuietInterval),
		baseCtx:     ctx,
		cancel:      cancel,
		loading:     true,
		currentPage: 1,
		totalPages:  1,
		pending:     newTracker(opts.PendingTTL, time.Now),
	}
}

// Load performs the initial fetch of page 1 and the quick-access subset.
func (s *Store) Load(ctx context.Context) error {
	page, err := s.gateway.List(ctx, s.owner, 1, s.pageSize, "")
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return err
	}

	quickAccess, err := s.gateway.ListQuickAccess(ctx, s.owner)
	if err != nil {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.applyPageLocked(1, "", page)
	s.quickAccess = wrapAll(quickAccess)
	s.loading = false
	s.mu.Unlock()
	s.notifyChange()
	return nil
}

// Snapshot returns a consistent copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Bookmark, len(s.items))
	copy(items, s.items)
	quickAccess := make([]Bookmark, len(s.quickAccess))
	copy(quickAccess, s.quickAccess)

	return Snapshot{
		Items:         items,
		QuickAccess:   quickAccess,
		TotalCount:    s.totalCount,
		CurrentPage:   s.currentPage,
		TotalPages:    s.totalPages,
		SearchQuery:   s.searchQuery,
		Loading:       s.loading,
		Searching:     s.searching,
		SwitchingPage: s.switchingPage,
	}
}

// CreateBookmark applies the new bookmark optimistically and confirms it
// against the gateway in the background. The optimistic record keeps its
// ClientID across the temp-to-real id swap; on failure it is removed from all
// views and the pre-mutation count restored.
func (s *Store) CreateBookmark(req *models.CreateRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	title := strings.TrimSpace(req.Title)
	url := strings.TrimSpace(req.URL)

	tempID, err := uuid.NewV4()
	if err != nil {
		return err
	}

	optimistic := Bookmark{
		Bookmark: models.Bookmark{
			ID:            tempID,
			OwnerID:       s.owner,
			Title:         title,
			URL:           url,
			IsQuickAccess: req.IsQuickAccess,
			CreatedAt:     time.Now().UTC(),
		},
		ClientID: tempID.String(),
	}
	sig := createSignature(s.owner, title, url)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("store is closed")
	}
	s.items = append([]Bookmark{optimistic}, s.items...)
	if req.IsQuickAccess {
		s.quickAccess = append([]Bookmark{optimistic}, s.quickAccess...)
	}
	s.totalCount++
	s.recomputeTotalPagesLocked()
	s.pending.begin(sig, mutationCreate, tempID)
	s.mu.Unlock()
	s.notifyChange()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		record, err := s.gateway.Create(s.baseCtx, s.owner, &models.CreateRequest{
			Title: title, URL: url, IsQuickAccess: req.IsQuickAccess,
		})

		s.mu.Lock()
		s.pending.resolve(sig)
		if err != nil {
			// Rollback: the optimistic record never existed server-side.
			s.removeByClientIDLocked(optimistic.ClientID)
			if s.totalCount > 0 {
				s.totalCount--
			}
			s.recomputeTotalPagesLocked()
			s.mu.Unlock()
			s.notifyChange()
			s.fail(err)
			return
		}

		// Confirmed: swap in the authoritative id and timestamp, keep the
		// ClientID so the rendered item does not remount.
		confirmed := Bookmark{Bookmark: *record, ClientID: optimistic.ClientID}
		s.replaceByClientIDLocked(optimistic.ClientID, confirmed)
		s.mu.Unlock()
		s.notifyChange()
	}()

	return nil
}

// EditBookmark applies a title/url change immediately and updates the gateway
// in the background. On failure the page and quick-access subset are
// re-fetched to resynchronize with the authoritative store.
func (s *Store) EditBookmark(id uuid.UUID, title, url string) error {
	req := &models.UpdateRequest{Title: &title, URL: &url}
	if err := req.Validate(); err != nil {
		return err
	}

	trimmedTitle := strings.TrimSpace(title)
	trimmedURL := strings.TrimSpace(url)
	sig := updateSignature(id)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("store is closed")
	}
	// Unconfirmed records have no server identity yet; ignore until confirmed.
	if s.pending.isPendingCreate(id) {
		s.mu.Unlock()
		return nil
	}
	mutate := func(b *Bookmark) {
		b.Title = trimmedTitle
		b.URL = trimmedURL
	}
	s.updateInPlaceLocked(id, mutate)
	s.pending.begin(sig, mutationUpdate, id)
	s.mu.Unlock()
	s.notifyChange()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		_, err := s.gateway.Update(s.baseCtx, id, s.owner, &models.UpdateRequest{
			Title: &trimmedTitle, URL: &trimmedURL,
		})

		s.mu.Lock()
		s.pending.resolve(sig)
		s.mu.Unlock()

		if err != nil {
			s.fail(err)
			s.resync()
		}
	}()

	return nil
}

// ToggleQuickAccess flips the pinned flag immediately and updates the gateway
// in the background. On failure the flag is reverted in place in both the
// main list and the quick-access subset.
func (s *Store) ToggleQuickAccess(id uuid.UUID, currentState bool) error {
	newState := !currentState
	sig := updateSignature(id)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("store is closed")
	}
	if s.pending.isPendingCreate(id) {
		s.mu.Unlock()
		return nil
	}

	s.applyQuickAccessLocked(id, newState)
	s.pending.begin(sig, mutationUpdate, id)
	s.mu.Unlock()
	s.notifyChange()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		_, err := s.gateway.Update(s.baseCtx, id, s.owner, &models.UpdateRequest{
			IsQuickAccess: &newState,
		})

		s.mu.Lock()
		s.pending.resolve(sig)
		if err != nil {
			s.applyQuickAccessLocked(id, currentState)
		}
		s.mu.Unlock()

		if err != nil {
			s.notifyChange()
			s.fail(err)
		}
	}()

	return nil
}

// DeleteBookmark removes the record from all views immediately and deletes it
// on the gateway in the background. The local removal is not undone on
// failure; the error is surfaced and a background resync lets the record
// reappear if the delete did not commit.
func (s *Store) DeleteBookmark(id uuid.UUID) error {
	sig := deleteSignature(id)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return errors.New("store is closed")
	}
	if s.pending.isPendingCreate(id) {
		s.mu.Unlock()
		return nil
	}

	removed := s.removeByIDLocked(id)
	if removed && s.totalCount > 0 {
		s.totalCount--
	}
	s.recomputeTotalPagesLocked()
	s.pending.begin(sig, mutationDelete, id)
	s.mu.Unlock()
	s.notifyChange()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		err := s.gateway.Delete(s.baseCtx, id, s.owner)

		s.mu.Lock()
		s.pending.resolve(sig)
		s.mu.Unlock()

		if err != nil {
			s.fail(err)
			s.resync()
		}
	}()

	return nil
}

// SetSearchQuery records a new query from the search box. Clearing the query
// reloads page 1 unfiltered immediately; anything else is debounced, and the
// eventual fetch cancels whatever stale search fetch is still in flight.
func (s *Store) SetSearchQuery(q string) {
	trimmed := strings.TrimSpace(q)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.searchQuery = q
	if trimmed == "" {
		s.searching = false
		s.switchingPage = true
		s.mu.Unlock()
		s.debounce.cancel()
		s.notifyChange()
		s.startFetch(1, "", true)
		return
	}
	s.searching = true
	s.mu.Unlock()
	s.notifyChange()

	s.debounce.schedule(func() {
		s.startFetch(1, trimmed, true)
	})
}

// ChangePage navigates to page p with the currently loaded filter. Targets
// outside [1, totalPages] are clamped; a clamp onto the current page is a
// no-op.
func (s *Store) ChangePage(p int) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	totalPages := s.totalPages
	if totalPages < 1 {
		totalPages = 1
	}
	if p < 1 {
		p = 1
	}
	if p > totalPages {
		p = totalPages
	}
	if p == s.currentPage {
		s.mu.Unlock()
		return
	}
	s.switchingPage = true
	query := s.activeQuery
	s.mu.Unlock()
	s.notifyChange()

	s.startFetch(p, query, false)
}

// Close tears the session down: pending fetches are cancelled and in-flight
// mutation goroutines drained.
func (s *Store) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.mu.Unlock()

	s.debounce.cancel()
	s.cancel()
	s.wg.Wait()
}

// startFetch loads one page+query as a single atomic request. cancelPrev is
// set for search-triggered fetches, which abort the previous in-flight search
// so a stale response cannot overwrite a newer result; page navigation relies
// on generation ordering alone.
func (s *Store) startFetch(page int, query string, cancelPrev bool) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.fetchGen++
	gen := s.fetchGen
	if cancelPrev && s.fetchCancel != nil {
		s.fetchCancel()
	}
	ctx, cancel := context.WithCancel(s.baseCtx)
	s.fetchCancel = cancel
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		result, err := s.gateway.List(ctx, s.owner, page, s.pageSize, query)

		s.mu.Lock()
		if err != nil {
			// Keep the previously displayed page intact on failure.
			if gen == s.fetchGen {
				s.loading = false
				s.searching = false
				s.switchingPage = false
			}
			s.mu.Unlock()
			if !errors.Is(err, context.Canceled) {
				s.notifyChange()
				s.fail(err)
			}
			return
		}
		if gen != s.fetchGen {
			// Superseded by a newer fetch.
			s.mu.Unlock()
			return
		}
		s.applyPageLocked(page, query, result)
		s.loading = false
		s.searching = false
		s.switchingPage = false
		s.mu.Unlock()
		s.notifyChange()
	}()
}

// resync re-fetches the current page and the quick-access subset after a
// failed edit or delete, restoring the authoritative state.
func (s *Store) resync() {
	s.mu.Lock()
	page := s.currentPage
	query := s.activeQuery
	s.mu.Unlock()

	s.startFetch(page, query, false)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		quickAccess, err := s.gateway.ListQuickAccess(s.baseCtx, s.owner)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				s.fail(err)
			}
			return
		}
		s.mu.Lock()
		s.quickAccess = wrapAll(quickAccess)
		s.mu.Unlock()
		s.notifyChange()
	}()
}

func (s *Store) applyPageLocked(page int, query string, result *models.BookmarkPage) {
	s.items = wrapAll(result.Items)
	s.totalCount = result.TotalCount
	s.totalPages = result.TotalPages
	if s.totalPages < 1 {
		s.totalPages = 1
	}
	s.currentPage = page
	s.activeQuery = query
}

func (s *Store) recomputeTotalPagesLocked() {
	s.totalPages = (s.totalCount + s.pageSize - 1) / s.pageSize
	if s.totalPages < 1 {
		s.totalPages = 1
	}
}

// applyQuickAccessLocked sets the pinned flag on the record and keeps the
// quick-access subset consistent with it.
func (s *Store) applyQuickAccessLocked(id uuid.UUID, state bool) {
	s.updateInPlaceLocked(id, func(b *Bookmark) {
		b.IsQuickAccess = state
	})

	if state {
		if s.indexOfIDLocked(s.quickAccess, id) >= 0 {
			return
		}
		if idx := s.indexOfIDLocked(s.items, id); idx >= 0 {
			item := s.items[idx]
			s.quickAccess = append([]Bookmark{item}, s.quickAccess...)
		}
		return
	}
	if idx := s.indexOfIDLocked(s.quickAccess, id); idx >= 0 {
		s.quickAccess = append(s.quickAccess[:idx], s.quickAccess[idx+1:]...)
	}
}

func (s *Store) updateInPlaceLocked(id uuid.UUID, mutate func(*Bookmark)) bool {
	found := false
	if idx := s.indexOfIDLocked(s.items, id); idx >= 0 {
		mutate(&s.items[idx])
		found = true
	}
	if idx := s.indexOfIDLocked(s.quickAccess, id); idx >= 0 {
		mutate(&s.quickAccess[idx])
		found = true
	}
	return found
}

func (s *Store) indexOfIDLocked(list []Bookmark, id uuid.UUID) int {
	for i := range list {
		if list[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) removeByIDLocked(id uuid.UUID) bool {
	removed := false
	if idx := s.indexOfIDLocked(s.items, id); idx >= 0 {
		s.items = append(s.items[:idx], s.items[idx+1:]...)
		removed = true
	}
	if idx := s.indexOfIDLocked(s.quickAccess, id); idx >= 0 {
		s.quickAccess = append(s.quickAccess[:idx], s.quickAccess[idx+1:]...)
		removed = true
	}
	return removed
}

func (s *Store) removeByClientIDLocked(clientID string) {
	filter := func(list []Bookmark) []Bookmark {
		out := list[:0]
		for _, b := range list {
			if b.ClientID != clientID {
				out = append(out, b)
			}
		}
		return out
	}
	s.items = filter(s.items)
	s.quickAccess = filter(s.quickAccess)
}

func (s *Store) replaceByClientIDLocked(clientID string, replacement Bookmark) bool {
	replaced := false
	for i := range s.items {
		if s.items[i].ClientID == clientID {
			s.items[i] = replacement
			replaced = true
		}
	}
	for i := range s.quickAccess {
		if s.quickAccess[i].ClientID == clientID {
			s.quickAccess[i] = replacement
			replaced = true
		}
	}
	return replaced
}

func (s *Store) notifyChange() {
	if s.opts.OnChange != nil {
		s.opts.OnChange()
	}
}

// fail surfaces a non-fatal failure to the view. Aborted fetches are not
// user-visible failures and are swallowed.
func (s *Store) fail(err error) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	if s.opts.OnError != nil {
		s.opts.OnError(err)
		return
	}
	log.Error("bookmark store: %v", err)
}
