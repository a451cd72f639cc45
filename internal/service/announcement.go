package service

import (
	"context"
	"time"

	"github.com/campusboard/feedengine/internal/bulk"
	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/poll"
	"github.com/campusboard/feedengine/internal/storage"
)

// to mock service in tests
type AnnouncementService interface {
	Create(ctx context.Context, data domain.AnnouncementCreationData) (domain.AnnouncementId, error)
	Get(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error)
	List(ctx context.Context, scope domain.Scope) ([]domain.Announcement, error)
	Edit(ctx context.Context, id domain.AnnouncementId, edit domain.EditData) error
	EditPoll(ctx context.Context, id domain.AnnouncementId, draft domain.PollDraft) error
	RemovePoll(ctx context.Context, id domain.AnnouncementId) error
	Pin(ctx context.Context, id domain.AnnouncementId, order int) error
	Unpin(ctx context.Context, id domain.AnnouncementId) error
	SetPinOrder(ctx context.Context, id domain.AnnouncementId, order int) error
	Delete(ctx context.Context, id domain.AnnouncementId) error
	BulkDelete(ctx context.Context, ids []domain.AnnouncementId) error
	BulkUnpin(ctx context.Context, ids []domain.AnnouncementId) error
}

type Announcements struct {
	storage   storage.Storage
	validator Validator
	chunkSize int
	now       func() time.Time
}

func NewAnnouncements(store storage.Storage, validator Validator, chunkSize int) *Announcements {
	return &Announcements{
		storage:   store,
		validator: validator,
		chunkSize: chunkSize,
		now:       time.Now,
	}
}

func (s *Announcements) Create(ctx context.Context, data domain.AnnouncementCreationData) (domain.AnnouncementId, error) {
	if err := s.validator.CreationData(&data); err != nil {
		return "", err
	}

	a := &domain.Announcement{
		Scope:       data.Scope,
		Title:       data.Title,
		ShortDesc:   data.ShortDesc,
		Description: data.Description,
		Dates:       data.Dates,
		PosterUrls:  data.PosterUrls,
		Poll:        data.Poll,
		CreatedAt:   s.now(),
		CreatedBy:   data.CreatedBy,
	}
	return s.storage.Create(ctx, a)
}

func (s *Announcements) Get(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error) {
	return s.storage.Get(ctx, id)
}

func (s *Announcements) List(ctx context.Context, scope domain.Scope) ([]domain.Announcement, error) {
	return s.storage.List(ctx, scope)
}

// Edit is the full-field edit: title, descriptions, dates, poster list. It
// is built as a patch that never mentions poll or pin paths, so it cannot
// fabricate or destroy vote data or pin state.
func (s *Announcements) Edit(ctx context.Context, id domain.AnnouncementId, edit domain.EditData) error {
	if err := s.validator.Edit(&edit); err != nil {
		return err
	}

	existing, err := s.storage.Get(ctx, id)
	if err != nil {
		return err
	}

	patch := domain.Patch{
		"title":       edit.Title,
		"short_desc":  edit.ShortDesc,
		"description": edit.Description,
	}
	if edit.Dates != nil {
		patch["dates"] = edit.Dates
	} else {
		patch["dates"] = domain.Tombstone
	}

	merged := mergePosters(existing.PosterUrls, edit.AddPosterUrls, edit.RemovePosterIdx)
	if len(merged) > 0 {
		patch["poster_urls"] = merged
	} else {
		patch["poster_urls"] = domain.Tombstone
	}

	return s.storage.ApplyPatch(ctx, id, patch)
}

// EditPoll applies a vote-preserving patch built from the draft. An empty
// draft question produces an empty patch and the record is left alone;
// removing a poll is RemovePoll, never a side effect of an edit.
func (s *Announcements) EditPoll(ctx context.Context, id domain.AnnouncementId, draft domain.PollDraft) error {
	if err := s.validator.PollDraft(&draft); err != nil {
		return err
	}

	existing, err := s.storage.Get(ctx, id)
	if err != nil {
		return err
	}

	patch := poll.BuildPatch(existing.Poll, draft)
	if len(patch) == 0 {
		return nil
	}
	return s.storage.ApplyPatch(ctx, id, patch)
}

func (s *Announcements) RemovePoll(ctx context.Context, id domain.AnnouncementId) error {
	return s.storage.ApplyPatch(ctx, id, domain.Patch{poll.PollPath: domain.Tombstone})
}

func (s *Announcements) Pin(ctx context.Context, id domain.AnnouncementId, order int) error {
	if order < 0 {
		order = 0
	}
	return s.storage.ApplyPatch(ctx, id, domain.Patch{
		"is_pinned":    true,
		"pinned_order": order,
		"pinned_at":    s.now(),
	})
}

func (s *Announcements) Unpin(ctx context.Context, id domain.AnnouncementId) error {
	return s.storage.ApplyPatch(ctx, id, unpinPatch())
}

func (s *Announcements) SetPinOrder(ctx context.Context, id domain.AnnouncementId, order int) error {
	if order < 0 {
		order = 0
	}
	return s.storage.ApplyPatch(ctx, id, domain.Patch{"pinned_order": order})
}

func (s *Announcements) Delete(ctx context.Context, id domain.AnnouncementId) error {
	return s.storage.Delete(ctx, id)
}

// BulkDelete removes the selection in sequential, size-bounded batches.
// On failure the returned PartialBatchFailure says exactly how far it got.
func (s *Announcements) BulkDelete(ctx context.Context, ids []domain.AnnouncementId) error {
	return bulk.Run(ctx, bulk.Plan(ids, s.chunkSize), s.storage.DeleteBatch)
}

func (s *Announcements) BulkUnpin(ctx context.Context, ids []domain.AnnouncementId) error {
	patch := unpinPatch()
	return bulk.Run(ctx, bulk.Plan(ids, s.chunkSize), func(ctx context.Context, batch []domain.AnnouncementId) error {
		return s.storage.PatchBatch(ctx, batch, patch)
	})
}

func unpinPatch() domain.Patch {
	return domain.Patch{
		"is_pinned":    false,
		"pinned_order": domain.Tombstone,
		"pinned_at":    domain.Tombstone,
	}
}

func mergePosters(current, add []string, removeIdx []int) []string {
	drop := make(map[int]bool, len(removeIdx))
	for _, i := range removeIdx {
		drop[i] = true
	}
	merged := make([]string, 0, len(current)+len(add))
	for i, url := range current {
		if !drop[i] {
			merged = append(merged, url)
		}
	}
	return append(merged, add...)
}
