package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/campusboard/feedengine/internal/domain"
	"github.com/campusboard/feedengine/internal/errors"
)

// List returns every record in a scope in creation order. Snapshot ordering
// is the stability baseline for the feed pipeline, so it must not vary
// between calls.
func (s *Storage) List(ctx context.Context, scope domain.Scope) ([]domain.Announcement, error) {
	cur, err := s.col.Find(ctx,
		bson.M{"scope": scope},
		options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, &errors.TransientIOError{Op: "list announcements", Err: err}
	}

	var out []domain.Announcement
	if err := cur.All(ctx, &out); err != nil {
		return nil, &errors.TransientIOError{Op: "decode announcements", Err: err}
	}
	return out, nil
}

func (s *Storage) Get(ctx context.Context, id domain.AnnouncementId) (*domain.Announcement, error) {
	var a domain.Announcement
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&a)
	if err == mongo.ErrNoDocuments {
		return nil, &errors.NotFoundError{Id: string(id)}
	}
	if err != nil {
		return nil, &errors.TransientIOError{Op: "get announcement", Err: err}
	}
	return &a, nil
}

func (s *Storage) Create(ctx context.Context, a *domain.Announcement) (domain.AnnouncementId, error) {
	a.Id = domain.AnnouncementId(bson.NewObjectID().Hex())
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}
	if _, err := s.col.InsertOne(ctx, a); err != nil {
		return "", &errors.TransientIOError{Op: "create announcement", Err: err}
	}
	return a.Id, nil
}

// ApplyPatch translates a flat path map into one atomic $set/$unset update.
// Paths the patch does not mention are untouched, which is what lets a poll
// edit and a concurrent vote cast coexist without locking.
func (s *Storage) ApplyPatch(ctx context.Context, id domain.AnnouncementId, p domain.Patch) error {
	update := patchToUpdate(p)
	if len(update) == 0 {
		return nil
	}

	res, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return &errors.TransientIOError{Op: "patch announcement", Err: err}
	}
	if res.MatchedCount == 0 {
		return &errors.NotFoundError{Id: string(id)}
	}
	return nil
}

func (s *Storage) Delete(ctx context.Context, id domain.AnnouncementId) error {
	res, err := s.col.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return &errors.TransientIOError{Op: "delete announcement", Err: err}
	}
	if res.DeletedCount == 0 {
		return &errors.NotFoundError{Id: string(id)}
	}
	return nil
}

// DeleteBatch removes one planner-sized batch in a single ordered bulk write.
func (s *Storage) DeleteBatch(ctx context.Context, ids []domain.AnnouncementId) error {
	if len(ids) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(ids))
	for _, id := range ids {
		models = append(models, mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": id}))
	}
	if _, err := s.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return &errors.TransientIOError{Op: "bulk delete", Err: err}
	}
	return nil
}

// PatchBatch applies the same sparse patch to every id in one bulk write.
func (s *Storage) PatchBatch(ctx context.Context, ids []domain.AnnouncementId, p domain.Patch) error {
	if len(ids) == 0 {
		return nil
	}
	update := patchToUpdate(p)
	if len(update) == 0 {
		return nil
	}
	models := make([]mongo.WriteModel, 0, len(ids))
	for _, id := range ids {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"_id": id}).
			SetUpdate(update))
	}
	if _, err := s.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return &errors.TransientIOError{Op: "bulk patch", Err: err}
	}
	return nil
}

func patchToUpdate(p domain.Patch) bson.M {
	set := bson.M{}
	unset := bson.M{}
	for path, value := range p {
		if domain.IsTombstone(value) {
			unset[path] = ""
		} else {
			set[path] = value
		}
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update
}
