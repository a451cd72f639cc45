package feed

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/logger"
	"github.com/campusboard/feedengine/internal/storage"
)

var snapshotsApplied = promauto.NewCounter(prometheus.CounterOpts{
	Name: "feed_snapshots_applied_total",
	Help: "Snapshots delivered by the live subscription and applied to sessions",
})

// State of one feed session. Loading is re-entered whenever the subscription
// delivers a new snapshot; every control change recomputes synchronously from
// the latest snapshot without touching the store.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateReady   State = "ready"
)

// filters is the filter portion of a query. Changing it invalidates the
// client's page position.
type filters struct {
	time   domain.Bucket
	text   domain.TextFilters
	pinned bool
}

func filtersOf(q domain.FeedQuery) filters {
	return filters{time: q.TimeFilter, text: q.Text, pinned: q.PinnedOnly}
}

// Session owns the latest snapshot for one scope plus the selection state.
// Selection is independent of pagination: it survives page turns within one
// snapshot and is cleared whenever a fresh snapshot arrives.
type Session struct {
	Id    string
	Scope domain.Scope

	mu          sync.RWMutex
	state       State
	snapshot    []domain.Announcement
	selected    map[domain.AnnouncementId]bool
	lastUsed    time.Time
	lastFilters filters
	queried     bool

	sub      storage.Subscription
	pageSize int
	now      func() time.Time
	done     chan struct{}
}

func newSession(scope domain.Scope, sub storage.Subscription, pageSize int, now func() time.Time) *Session {
	s := &Session{
		Id:       uuid.NewString(),
		Scope:    scope,
		state:    StateIdle,
		selected: make(map[domain.AnnouncementId]bool),
		lastUsed: now(),
		sub:      sub,
		pageSize: pageSize,
		now:      now,
		done:     make(chan struct{}),
	}
	go s.consume()
	return s
}

func (s *Session) consume() {
	defer close(s.done)
	for snap := range s.sub.Snapshots() {
		s.mu.Lock()
		s.state = StateLoading
		s.snapshot = snap
		// data changed under the selection; stale ids must not survive
		s.selected = make(map[domain.AnnouncementId]bool)
		s.state = StateReady
		s.mu.Unlock()
		snapshotsApplied.Inc()
	}
	if err := s.sub.Err(); err != nil {
		logger.Log.Error("feed subscription ended",
			"component", "feed_session",
			"session", s.Id,
			"scope", s.Scope,
			"error", err)
	}
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Query computes the visible page for the given controls. Pure recomputation
// over the held snapshot; no round-trip. A page number only means anything
// within one filtered view, so changing any filter sends the client back to
// page 1.
func (s *Session) Query(q domain.FeedQuery) Page {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	q = s.resetPageOnFilterChange(q)
	return Run(s.snapshot, q, s.now(), s.pageSize)
}

// resetPageOnFilterChange forces Page back to 1 whenever the filter portion
// of the query differs from the previous one. Callers hold s.mu.
func (s *Session) resetPageOnFilterChange(q domain.FeedQuery) domain.FeedQuery {
	q = q.Normalize()
	f := filtersOf(q)
	if s.queried && f != s.lastFilters {
		q.Page = 1
	}
	s.lastFilters, s.queried = f, true
	return q
}

// Select marks the given ids. Unknown ids are ignored so a selection can
// never reference records outside the held snapshot.
func (s *Session) Select(ids ...domain.AnnouncementId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	known := make(map[domain.AnnouncementId]bool, len(s.snapshot))
	for _, a := range s.snapshot {
		known[a.Id] = true
	}
	for _, id := range ids {
		if known[id] {
			s.selected[id] = true
		}
	}
}

// SelectPage selects only the records on the page the query resolves to.
func (s *Session) SelectPage(q domain.FeedQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	q = s.resetPageOnFilterChange(q)
	page := Run(s.snapshot, q, s.now(), s.pageSize)
	for _, a := range page.Items {
		s.selected[a.Id] = true
	}
}

// SelectAllFiltered selects every record matching the query's filters,
// across all pages.
func (s *Session) SelectAllFiltered(q domain.FeedQuery) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	for _, id := range FilteredIds(s.snapshot, q, s.now()) {
		s.selected[id] = true
	}
}

func (s *Session) Deselect(ids ...domain.AnnouncementId) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	for _, id := range ids {
		delete(s.selected, id)
	}
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUsed = s.now()
	s.selected = make(map[domain.AnnouncementId]bool)
}

func (s *Session) SelectedIds() []domain.AnnouncementId {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]domain.AnnouncementId, 0, len(s.selected))
	for id := range s.selected {
		ids = append(ids, id)
	}
	return ids
}

func (s *Session) Close() {
	s.sub.Close()
	<-s.done
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastUsed.Before(cutoff)
}

// Manager tracks live sessions and evicts idle ones in the background.
type Manager struct {
	watcher  storage.Watcher
	pageSize int
	ttl      time.Duration
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewManager(watcher storage.Watcher, pageSize int, ttl time.Duration) *Manager {
	return &Manager{
		watcher:  watcher,
		pageSize: pageSize,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Open subscribes to a scope and returns a new session for it.
func (m *Manager) Open(ctx context.Context, scope domain.Scope) (*Session, error) {
	sub, err := m.watcher.Watch(ctx, scope)
	if err != nil {
		return nil, err
	}
	s := newSession(scope, sub, m.pageSize, m.now)
	m.mu.Lock()
	m.sessions[s.Id] = s
	m.mu.Unlock()
	return s, nil
}

func (m *Manager) PageSize() int {
	return m.pageSize
}

func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	return s, ok
}

func (m *Manager) Close(id string) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok {
		s.Close()
	}
}

// StartEviction drops sessions idle for longer than the TTL. Follows the
// same background-loop shape as the rest of the service.
func (m *Manager) StartEviction(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				m.evictIdle()
			case <-ctx.Done():
				m.closeAll()
				return
			}
		}
	}()
}

func (m *Manager) evictIdle() {
	cutoff := m.now().Add(-m.ttl)
	m.mu.Lock()
	var stale []*Session
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			stale = append(stale, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()
	for _, s := range stale {
		s.Close()
		logger.Log.Info("evicted idle feed session",
			"component", "feed_session",
			"session", s.Id,
			"scope", s.Scope)
	}
}

func (m *Manager) closeAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
	for _, s := range sessions {
		s.Close()
	}
}
