// internal/app/store/stories/storystore.go
package storystore

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

var ErrNotFound = errors.New("story not found")

// SearchFields are matched by the list searchTerm.
var SearchFields = []string{"title", "club"}

var Schema = querybuilder.Schema{
	"published":  querybuilder.Bool,
	"created_by": querybuilder.ObjectID,
	"created_at": querybuilder.Time,
	"updated_at": querybuilder.Time,
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("stories")}
}

func (s *Store) Create(ctx context.Context, st models.Story) (models.Story, error) {
	now := time.Now()
	st.ID = primitive.NewObjectID()
	st.CreatedAt = now
	st.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, st); err != nil {
		return models.Story{}, err
	}
	return st, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Story, error) {
	var st models.Story
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&st); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return st, ErrNotFound
		}
		return st, err
	}
	return st, nil
}

// Exists reports whether a story with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	return n > 0, err
}

// Update holds the editable fields; nil means unchanged.
type Update struct {
	Title       *string
	Description *string
	Image       *string
	Club        *string
	Published   *bool
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Story, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Club != nil {
		set["club"] = *upd.Club
	}
	if upd.Published != nil {
		set["published"] = *upd.Published
	}

	var st models.Story
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&st)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return st, ErrNotFound
	}
	return st, err
}

func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Count returns the number of stories matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return s.c.CountDocuments(ctx, filter)
}

func (s *Store) List(ctx context.Context, p querybuilder.Params, opts ...querybuilder.Option) ([]models.Story, querybuilder.Pagination, error) {
	opts = append([]querybuilder.Option{querybuilder.WithSchema(Schema)}, opts...)
	b := querybuilder.New(s.c, p, opts...).
		Paginate().
		Search(SearchFields...).
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.Story](ctx, b)
}
