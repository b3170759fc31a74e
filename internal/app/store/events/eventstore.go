// internal/app/store/events/eventstore.go
package eventstore

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

var ErrNotFound = errors.New("event not found")

// SearchFields are matched by the list searchTerm.
var SearchFields = []string{"name", "title", "location"}

var Schema = querybuilder.Schema{
	"published":  querybuilder.Bool,
	"event_date": querybuilder.Time,
	"created_by": querybuilder.ObjectID,
	"created_at": querybuilder.Time,
	"updated_at": querybuilder.Time,
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("events")}
}

func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	now := time.Now()
	e.ID = primitive.NewObjectID()
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return e, ErrNotFound
		}
		return e, err
	}
	return e, nil
}

// Exists reports whether an event with id exists.
func (s *Store) Exists(ctx context.Context, id primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": id}, options.Count().SetLimit(1))
	return n > 0, err
}

// Update holds the editable fields; nil means unchanged.
type Update struct {
	Name        *string
	Title       *string
	Description *string
	Location    *string
	Image       *string
	EventDate   *time.Time
	Published   *bool
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Event, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Location != nil {
		set["location"] = *upd.Location
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.EventDate != nil {
		set["event_date"] = *upd.EventDate
	}
	if upd.Published != nil {
		set["published"] = *upd.Published
	}

	var e models.Event
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return e, ErrNotFound
	}
	return e, err
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

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s *Store) List(ctx context.Context, p querybuilder.Params, opts ...querybuilder.Option) ([]models.Event, querybuilder.Pagination, error) {
	opts = append([]querybuilder.Option{querybuilder.WithSchema(Schema)}, opts...)
	b := querybuilder.New(s.c, p, opts...).
		Paginate().
		Search(SearchFields...).
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.Event](ctx, b)
}
