package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/errors"
	"github.com/campusboard/feedengine/internal/logger"
	"github.com/campusboard/feedengine/internal/storage"
)

type subscription struct {
	snapshots chan []domain.Announcement
	cancel    context.CancelFunc
	done      chan struct{}
	err       error
}

func (s *subscription) Snapshots() <-chan []domain.Announcement { return s.snapshots }

func (s *subscription) Err() error {
	<-s.done
	return s.err
}

func (s *subscription) Close() {
	s.cancel()
	<-s.done
}

// Watch opens a change stream scoped to one hostel/club and re-reads the
// full record set on every relevant event. The first snapshot is delivered
// right after subscribing. Coalescing to full snapshots keeps the consumer
// contract trivial: it never has to merge deltas.
func (s *Storage) Watch(ctx context.Context, scope domain.Scope) (storage.Subscription, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"$or": []bson.M{
				{"fullDocument.scope": scope},
				// deletes carry no fullDocument; let them through and
				// re-list, the scope filter happens there
				{"operationType": "delete"},
			},
		}}},
	}

	streamCtx, cancel := context.WithCancel(context.Background())
	stream, err := s.col.Watch(streamCtx, pipeline)
	if err != nil {
		cancel()
		return nil, &errors.TransientIOError{Op: "open change stream", Err: err}
	}

	sub := &subscription{
		snapshots: make(chan []domain.Announcement, 1),
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	go s.run(streamCtx, stream, scope, sub)
	return sub, nil
}

func (s *Storage) run(ctx context.Context, stream *mongo.ChangeStream, scope domain.Scope, sub *subscription) {
	defer close(sub.done)
	defer close(sub.snapshots)
	defer stream.Close(context.Background())

	if !s.push(ctx, scope, sub) {
		return
	}

	for stream.Next(ctx) {
		if !s.push(ctx, scope, sub) {
			return
		}
	}

	if err := stream.Err(); err != nil && ctx.Err() == nil {
		sub.err = &errors.TransientIOError{Op: "change stream", Err: err}
		logger.Log.Error("change stream ended",
			"component", "mongodb",
			"scope", scope,
			"error", err)
	}
}

// push re-lists the scope and delivers the snapshot, dropping a pending
// undelivered one first so the consumer only ever sees the latest state.
func (s *Storage) push(ctx context.Context, scope domain.Scope, sub *subscription) bool {
	snap, err := s.List(ctx, scope)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		sub.err = err
		return false
	}

	select {
	case <-sub.snapshots:
	default:
	}

	select {
	case sub.snapshots <- snap:
		return true
	case <-ctx.Done():
		return false
	}
}
