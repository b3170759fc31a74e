// internal/app/store/sponsors/sponsorstore.go
package sponsorstore

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

var ErrNotFound = errors.New("sponsor not found")

// SearchFields are matched by the list searchTerm.
var SearchFields = []string{"title", "location"}

// DefaultFields is the list projection when the request names no fields.
var DefaultFields = []string{"logo", "title", "location"}

var Schema = querybuilder.Schema{
	"created_at": querybuilder.Time,
	"updated_at": querybuilder.Time,
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("sponsors")}
}

func (s *Store) Create(ctx context.Context, sp models.Sponsor) (models.Sponsor, error) {
	now := time.Now()
	sp.ID = primitive.NewObjectID()
	sp.CreatedAt = now
	sp.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, sp); err != nil {
		return models.Sponsor{}, err
	}
	return sp, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Sponsor, error) {
	var sp models.Sponsor
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&sp); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return sp, ErrNotFound
		}
		return sp, err
	}
	return sp, nil
}

// Update holds the editable fields; nil means unchanged.
type Update struct {
	Title       *string
	Logo        *string
	Location    *string
	Description *string
	Website     *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.Sponsor, error) {
	set := bson.M{"updated_at": time.Now()}
	for k, v := range map[string]*string{
		"title":       upd.Title,
		"logo":        upd.Logo,
		"location":    upd.Location,
		"description": upd.Description,
		"website":     upd.Website,
	} {
		if v != nil {
			set[k] = *v
		}
	}

	var sp models.Sponsor
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&sp)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return sp, ErrNotFound
	}
	return sp, err
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

// List projects DefaultFields unless the request asks for specific fields.
func (s *Store) List(ctx context.Context, p querybuilder.Params) ([]models.Sponsor, querybuilder.Pagination, error) {
	b := querybuilder.New(s.c, p,
		querybuilder.WithSchema(Schema),
		querybuilder.WithProjection(DefaultFields...),
	).
		Paginate().
		Search(SearchFields...).
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.Sponsor](ctx, b)
}
