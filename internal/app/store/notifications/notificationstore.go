// internal/app/store/notifications/notificationstore.go
package notificationstore

import (
	"context"
	"errors"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var Schema = querybuilder.Schema{
	"seen":       querybuilder.Bool,
	"ref_id":     querybuilder.ObjectID,
	"created_at": querybuilder.Time,
}

// Store covers the notifications collection and the per-user unseen
// counters in notification_counts.
type Store struct {
	c      *mongo.Collection
	counts *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("notifications"),
		counts: db.Collection("notification_counts"),
	}
}

// CreateMany inserts ns as unseen and bumps each receiver's counter.
func (s *Store) CreateMany(ctx context.Context, ns []models.Notification) ([]models.Notification, error) {
	if len(ns) == 0 {
		return ns, nil
	}
	now := time.Now()
	docs := make([]interface{}, 0, len(ns))
	for i := range ns {
		ns[i].ID = primitive.NewObjectID()
		ns[i].Seen = false
		ns[i].CreatedAt = now
		docs = append(docs, ns[i])
	}
	if _, err := s.c.InsertMany(ctx, docs); err != nil {
		return nil, err
	}
	for _, n := range ns {
		if err := s.IncrementCount(ctx, n.Receiver); err != nil {
			return nil, err
		}
	}
	return ns, nil
}

// IncrementCount adds one to user's unseen counter, creating it at 1.
func (s *Store) IncrementCount(ctx context.Context, user primitive.ObjectID) error {
	_, err := s.counts.UpdateOne(ctx,
		bson.M{"user": user},
		bson.M{"$inc": bson.M{"count": 1}},
		options.Update().SetUpsert(true))
	return err
}

// UnseenCount returns user's counter, 0 when none exists.
func (s *Store) UnseenCount(ctx context.Context, user primitive.ObjectID) (int, error) {
	var nc models.NotificationCount
	err := s.counts.FindOne(ctx, bson.M{"user": user}).Decode(&nc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return nc.Count, nil
}

// MarkAllSeen flags every notification of user as seen and resets the
// counter. It returns the number of notifications changed.
func (s *Store) MarkAllSeen(ctx context.Context, user primitive.ObjectID) (int64, error) {
	res, err := s.c.UpdateMany(ctx,
		bson.M{"receiver": user, "seen": false},
		bson.M{"$set": bson.M{"seen": true}})
	if err != nil {
		return 0, err
	}
	if _, err := s.counts.UpdateOne(ctx,
		bson.M{"user": user},
		bson.M{"$set": bson.M{"count": 0}},
		options.Update().SetUpsert(true)); err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// List returns receiver's notifications.
func (s *Store) List(ctx context.Context, receiver primitive.ObjectID, p querybuilder.Params) ([]models.Notification, querybuilder.Pagination, error) {
	b := querybuilder.New(s.c, p,
		querybuilder.WithSchema(Schema),
		querybuilder.WithBaseFilter(bson.M{"receiver": receiver}),
	).
		Paginate().
		Search("title", "message").
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.Notification](ctx, b)
}

// DeleteSeenBefore removes seen notifications created before cutoff and
// returns how many were deleted.
func (s *Store) DeleteSeenBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.c.DeleteMany(ctx, bson.M{"seen": true, "created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
