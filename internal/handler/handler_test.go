package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/feed"
	"github.com/campusboard/feedengine/internal/render"
	"github.com/campusboard/feedengine/internal/storage"
)

// MockAnnouncements mocks the service.AnnouncementService interface.
type MockAnnouncements struct {
	createFunc     func(ctx context.Context, data domain.AnnouncementCreationData) (domain.AnnouncementId, error)
	getFunc        func(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error)
	listFunc       func(ctx context.Context, scope domain.Scope) ([]domain.Announcement, error)
	editFunc       func(ctx context.Context, id domain.AnnouncementId, edit domain.EditData) error
	editPollFunc   func(ctx context.Context, id domain.AnnouncementId, draft domain.PollDraft) error
	removePollFunc func(ctx context.Context, id domain.AnnouncementId) error
	pinFunc        func(ctx context.Context, id domain.AnnouncementId, order int) error
	unpinFunc      func(ctx context.Context, id domain.AnnouncementId) error
	setOrderFunc   func(ctx context.Context, id domain.AnnouncementId, order int) error
	deleteFunc     func(ctx context.Context, id domain.AnnouncementId) error
	bulkDeleteFunc func(ctx context.Context, ids []domain.AnnouncementId) error
	bulkUnpinFunc  func(ctx context.Context, ids []domain.AnnouncementId) error
}

func (m *MockAnnouncements) Create(ctx context.Context, data domain.AnnouncementCreationData) (domain.AnnouncementId, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, data)
	}
	return "id1", nil
}

func (m *MockAnnouncements) Get(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &domain.Announcement{Id: id}, nil
}

func (m *MockAnnouncements) List(ctx context.Context, scope domain.Scope) ([]domain.Announcement, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, scope)
	}
	return nil, nil
}

func (m *MockAnnouncements) Edit(ctx context.Context, id domain.AnnouncementId, edit domain.EditData) error {
	if m.editFunc != nil {
		return m.editFunc(ctx, id, edit)
	}
	return nil
}

func (m *MockAnnouncements) EditPoll(ctx context.Context, id domain.AnnouncementId, draft domain.PollDraft) error {
	if m.editPollFunc != nil {
		return m.editPollFunc(ctx, id, draft)
	}
	return nil
}

func (m *MockAnnouncements) RemovePoll(ctx context.Context, id domain.AnnouncementId) error {
	if m.removePollFunc != nil {
		return m.removePollFunc(ctx, id)
	}
	return nil
}

func (m *MockAnnouncements) Pin(ctx context.Context, id domain.AnnouncementId, order int) error {
	if m.pinFunc != nil {
		return m.pinFunc(ctx, id, order)
	}
	return nil
}

func (m *MockAnnouncements) Unpin(ctx context.Context, id domain.AnnouncementId) error {
	if m.unpinFunc != nil {
		return m.unpinFunc(ctx, id)
	}
	return nil
}

func (m *MockAnnouncements) SetPinOrder(ctx context.Context, id domain.AnnouncementId, order int) error {
	if m.setOrderFunc != nil {
		return m.setOrderFunc(ctx, id, order)
	}
	return nil
}

func (m *MockAnnouncements) Delete(ctx context.Context, id domain.AnnouncementId) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *MockAnnouncements) BulkDelete(ctx context.Context, ids []domain.AnnouncementId) error {
	if m.bulkDeleteFunc != nil {
		return m.bulkDeleteFunc(ctx, ids)
	}
	return nil
}

func (m *MockAnnouncements) BulkUnpin(ctx context.Context, ids []domain.AnnouncementId) error {
	if m.bulkUnpinFunc != nil {
		return m.bulkUnpinFunc(ctx, ids)
	}
	return nil
}

// stubSubscription feeds one snapshot then stays open.
type stubSubscription struct {
	ch chan []domain.Announcement
}

func (s *stubSubscription) Snapshots() <-chan []domain.Announcement { return s.ch }
func (s *stubSubscription) Err() error                              { return nil }
func (s *stubSubscription) Close()                                  { close(s.ch) }

type stubWatcher struct {
	snapshot []domain.Announcement
}

func (w *stubWatcher) Watch(ctx context.Context, scope domain.Scope) (storage.Subscription, error) {
	sub := &stubSubscription{ch: make(chan []domain.Announcement, 1)}
	sub.ch <- w.snapshot
	return sub, nil
}

func newTestHandler(svc *MockAnnouncements, watcher storage.Watcher) *Handler {
	if watcher == nil {
		watcher = &stubWatcher{}
	}
	sessions := feed.NewManager(watcher, 10, time.Minute)
	return New(svc, sessions, render.New(), pingOK{})
}

type pingOK struct{}

func (pingOK) Ping(ctx context.Context) error { return nil }

func createRequest(t *testing.T, method, url string, body []byte, params map[string]string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, url, bytes.NewBuffer(body))
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}
