package service

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/errors"
	"github.com/campusboard/feedengine/internal/storage"
)

// MockStorage mocks the storage.Storage interface.
type MockStorage struct {
	listFunc        func(ctx context.Context, scope domain.Scope) ([]domain.Announcement, error)
	getFunc         func(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error)
	createFunc      func(ctx context.Context, a *domain.Announcement) (domain.AnnouncementId, error)
	applyPatchFunc  func(ctx context.Context, id domain.AnnouncementId, p domain.Patch) error
	deleteFunc      func(ctx context.Context, id domain.AnnouncementId) error
	deleteBatchFunc func(ctx context.Context, ids []domain.AnnouncementId) error
	patchBatchFunc  func(ctx context.Context, ids []domain.AnnouncementId, p domain.Patch) error
}

func (m *MockStorage) List(ctx context.Context, scope domain.Scope) ([]domain.Announcement, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, scope)
	}
	return nil, nil
}

func (m *MockStorage) Get(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, id)
	}
	return &domain.Announcement{Id: id}, nil
}

func (m *MockStorage) Create(ctx context.Context, a *domain.Announcement) (domain.AnnouncementId, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, a)
	}
	return "new-id", nil
}

func (m *MockStorage) ApplyPatch(ctx context.Context, id domain.AnnouncementId, p domain.Patch) error {
	if m.applyPatchFunc != nil {
		return m.applyPatchFunc(ctx, id, p)
	}
	return nil
}

func (m *MockStorage) Delete(ctx context.Context, id domain.AnnouncementId) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *MockStorage) DeleteBatch(ctx context.Context, ids []domain.AnnouncementId) error {
	if m.deleteBatchFunc != nil {
		return m.deleteBatchFunc(ctx, ids)
	}
	return nil
}

func (m *MockStorage) PatchBatch(ctx context.Context, ids []domain.AnnouncementId, p domain.Patch) error {
	if m.patchBatchFunc != nil {
		return m.patchBatchFunc(ctx, ids, p)
	}
	return nil
}

func (m *MockStorage) Watch(ctx context.Context, scope domain.Scope) (storage.Subscription, error) {
	return nil, nil
}

func (m *MockStorage) Ping(ctx context.Context) error { return nil }

func newService(store *MockStorage) *Announcements {
	s := NewAnnouncements(store, &FieldValidator{}, 10)
	s.now = func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }
	return s
}

func validCreation() domain.AnnouncementCreationData {
	return domain.AnnouncementCreationData{
		Scope:       "hostel-a",
		Title:       "Title",
		ShortDesc:   "Short",
		Description: "Long description",
	}
}

func TestCreateValidation(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(*domain.AnnouncementCreationData)
		expectError bool
	}{
		{name: "Valid", mutate: func(d *domain.AnnouncementCreationData) {}, expectError: false},
		{name: "Missing title", mutate: func(d *domain.AnnouncementCreationData) { d.Title = " " }, expectError: true},
		{name: "Missing short desc", mutate: func(d *domain.AnnouncementCreationData) { d.ShortDesc = "" }, expectError: true},
		{name: "Missing scope", mutate: func(d *domain.AnnouncementCreationData) { d.Scope = "" }, expectError: true},
		{name: "Poll without question", mutate: func(d *domain.AnnouncementCreationData) {
			d.Poll = &domain.Poll{Options: map[domain.OptionKey]domain.PollOption{"opt1": {Text: "A"}}}
		}, expectError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var created *domain.Announcement
			store := &MockStorage{
				createFunc: func(ctx context.Context, a *domain.Announcement) (domain.AnnouncementId, error) {
					created = a
					return "id1", nil
				},
			}
			s := newService(store)

			data := validCreation()
			tc.mutate(&data)
			id, err := s.Create(context.Background(), data)

			if tc.expectError {
				var ve *errors.ValidationError
				assert.ErrorAs(t, err, &ve)
				assert.Nil(t, created, "no write may happen on validation failure")
			} else {
				require.NoError(t, err)
				assert.Equal(t, domain.AnnouncementId("id1"), id)
				assert.Equal(t, "hostel-a", string(created.Scope))
				assert.False(t, created.CreatedAt.IsZero())
			}
		})
	}
}

func TestEditNeverTouchesPollOrPin(t *testing.T) {
	var applied domain.Patch
	store := &MockStorage{
		getFunc: func(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error) {
			return &domain.Announcement{
				Id:         id,
				PosterUrls: []string{"a.jpg", "b.jpg", "c.jpg"},
				Poll:       &domain.Poll{Question: "q"},
			}, nil
		},
		applyPatchFunc: func(ctx context.Context, id domain.AnnouncementId, p domain.Patch) error {
			applied = p
			return nil
		},
	}
	s := newService(store)

	err := s.Edit(context.Background(), "id1", domain.EditData{
		Title:           "New title",
		ShortDesc:       "New short",
		Description:     "New desc",
		AddPosterUrls:   []string{"d.jpg"},
		RemovePosterIdx: []int{1},
	})
	require.NoError(t, err)

	for path := range applied {
		assert.NotContains(t, path, "poll", "full-field edit must stay silent on the poll subtree")
		assert.NotContains(t, path, "pinned")
	}
	assert.Equal(t, []string{"a.jpg", "c.jpg", "d.jpg"}, applied["poster_urls"])
	assert.True(t, domain.IsTombstone(applied["dates"]), "cleared range is removed, not zeroed")
}

func TestEditPoll(t *testing.T) {
	existing := &domain.Announcement{
		Id: "id1",
		Poll: &domain.Poll{
			Question: "q",
			Options: map[domain.OptionKey]domain.PollOption{
				"opt1": {Text: "Red", Votes: map[domain.VoterId]bool{"u1": true}},
			},
		},
	}

	var applied domain.Patch
	store := &MockStorage{
		getFunc: func(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error) {
			return existing, nil
		},
		applyPatchFunc: func(ctx context.Context, id domain.AnnouncementId, p domain.Patch) error {
			applied = p
			return nil
		},
	}
	s := newService(store)

	err := s.EditPoll(context.Background(), "id1", domain.PollDraft{
		Question: "q",
		Options:  map[domain.OptionKey]string{"opt1": "Crimson"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Crimson", applied["poll.options.opt1.text"])
	_, votesTouched := applied["poll.options.opt1.votes"]
	assert.False(t, votesTouched)
}

func TestEditPollValidation(t *testing.T) {
	s := newService(&MockStorage{})

	err := s.EditPoll(context.Background(), "id1", domain.PollDraft{
		Question: " ",
		Options:  map[domain.OptionKey]string{"opt1": "A"},
	})
	var ve *errors.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestEditPollEmptyDraftIsNoop(t *testing.T) {
	patched := false
	store := &MockStorage{
		applyPatchFunc: func(ctx context.Context, id domain.AnnouncementId, p domain.Patch) error {
			patched = true
			return nil
		},
	}
	s := newService(store)

	err := s.EditPoll(context.Background(), "id1", domain.PollDraft{Question: ""})
	require.NoError(t, err)
	assert.False(t, patched, "blank draft must not remove or touch the poll")
}

func TestEditPollRecordVanished(t *testing.T) {
	store := &MockStorage{
		getFunc: func(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error) {
			return nil, &errors.NotFoundError{Id: string(id)}
		},
	}
	s := newService(store)

	err := s.EditPoll(context.Background(), "gone", domain.PollDraft{Question: "q"})
	var nf *errors.NotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestPinUnpin(t *testing.T) {
	var applied domain.Patch
	store := &MockStorage{
		applyPatchFunc: func(ctx context.Context, id domain.AnnouncementId, p domain.Patch) error {
			applied = p
			return nil
		},
	}
	s := newService(store)

	require.NoError(t, s.Pin(context.Background(), "id1", 2))
	assert.Equal(t, true, applied["is_pinned"])
	assert.Equal(t, 2, applied["pinned_order"])
	assert.Equal(t, s.now(), applied["pinned_at"])

	require.NoError(t, s.Unpin(context.Background(), "id1"))
	assert.Equal(t, false, applied["is_pinned"])
	assert.True(t, domain.IsTombstone(applied["pinned_order"]))
	assert.True(t, domain.IsTombstone(applied["pinned_at"]))
}

func TestBulkDelete(t *testing.T) {
	var batchSizes []int
	store := &MockStorage{
		deleteBatchFunc: func(ctx context.Context, ids []domain.AnnouncementId) error {
			batchSizes = append(batchSizes, len(ids))
			return nil
		},
	}
	s := newService(store) // chunk size 10

	ids := make([]domain.AnnouncementId, 23)
	for i := range ids {
		ids[i] = domain.AnnouncementId(string(rune('a' + i)))
	}
	require.NoError(t, s.BulkDelete(context.Background(), ids))
	assert.Equal(t, []int{10, 10, 3}, batchSizes)
}

func TestBulkDeletePartialFailure(t *testing.T) {
	calls := 0
	store := &MockStorage{
		deleteBatchFunc: func(ctx context.Context, ids []domain.AnnouncementId) error {
			calls++
			if calls == 2 {
				return stderrors.New("store hiccup")
			}
			return nil
		},
	}
	s := newService(store)

	ids := make([]domain.AnnouncementId, 23)
	for i := range ids {
		ids[i] = domain.AnnouncementId(string(rune('a' + i)))
	}
	err := s.BulkDelete(context.Background(), ids)

	var pbf *errors.PartialBatchFailure
	require.ErrorAs(t, err, &pbf)
	assert.Equal(t, 10, pbf.Succeeded)
	assert.Equal(t, 13, pbf.Failed)
}

func TestBulkUnpinUsesTombstonePatch(t *testing.T) {
	var applied domain.Patch
	store := &MockStorage{
		patchBatchFunc: func(ctx context.Context, ids []domain.AnnouncementId, p domain.Patch) error {
			applied = p
			return nil
		},
	}
	s := newService(store)

	require.NoError(t, s.BulkUnpin(context.Background(), []domain.AnnouncementId{"a", "b"}))
	assert.Equal(t, false, applied["is_pinned"])
	assert.True(t, domain.IsTombstone(applied["pinned_at"]))
}
