// internal/app/store/storylikes/likestore.go
package likestore

import (
	"context"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("story_likes")}
}

// Toggle likes story for user, or unlikes it when already liked. It
// reports whether the story is liked afterwards.
func (s *Store) Toggle(ctx context.Context, user, story primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user": user, "story": story})
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}
	like := models.StoryLike{
		ID:        primitive.NewObjectID(),
		User:      user,
		Story:     story,
		CreatedAt: time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, like); err != nil {
		if wafflemongo.IsDup(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// CountForStory returns the number of likes on story.
func (s *Store) CountForStory(ctx context.Context, story primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"story": story})
}

// CountsForStories groups like counts by story. Stories without likes are
// absent from the map.
func (s *Store) CountsForStories(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]int64, error) {
	out := make(map[primitive.ObjectID]int64, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"story": bson.M{"$in": ids}}}},
		{{Key: "$group", Value: bson.M{"_id": "$story", "count": bson.M{"$sum": 1}}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			Story primitive.ObjectID `bson:"_id"`
			Count int64              `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.Story] = row.Count
	}
	return out, cur.Err()
}

// DeleteByStory removes every like of story.
func (s *Store) DeleteByStory(ctx context.Context, story primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"story": story})
	return err
}
