// Package storage defines the narrow contract the engine needs from its
// persistence collaborator. Implementations live in subpackages.
package storage

import (
	"context"

	"github.com/campusboard/feedengine/internal/domain"
)

// Subscription is a live collection read: the current record set for one
// scope is delivered whenever it changes, push semantics. The first snapshot
// arrives shortly after subscribing.
type Subscription interface {
	// Snapshots yields the full record set for the scope. The channel is
	// closed when the subscription ends; check Err afterwards.
	Snapshots() <-chan []domain.Announcement
	Err() error
	Close()
}

type Watcher interface {
	Watch(ctx context.Context, scope domain.Scope) (Subscription, error)
}

type Reader interface {
	List(ctx context.Context, scope domain.Scope) ([]domain.Announcement, error)
	Get(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error)
}

type Writer interface {
	// Create persists a complete new record and returns its store-assigned id.
	Create(ctx context.Context, a *domain.Announcement) (domain.AnnouncementId, error)
	// ApplyPatch applies a flat path -> value (or tombstone) map atomically to
	// one record. Paths the patch does not mention are left untouched.
	ApplyPatch(ctx context.Context, id domain.AnnouncementId, p domain.Patch) error
	Delete(ctx context.Context, id domain.AnnouncementId) error
}

// BulkWriter applies one size-bounded batch atomically. Callers are
// responsible for keeping batches under the store's transaction-size limit
// and for applying them sequentially.
type BulkWriter interface {
	DeleteBatch(ctx context.Context, ids []domain.AnnouncementId) error
	PatchBatch(ctx context.Context, ids []domain.AnnouncementId, p domain.Patch) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

// Storage is the full collaborator surface the service wires together.
type Storage interface {
	Reader
	Writer
	BulkWriter
	Watcher
	Pinger
}
