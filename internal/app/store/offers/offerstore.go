// internal/app/store/offers/offerstore.go
package offerstore

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

var (
	ErrNotFound        = errors.New("exclusive offer not found")
	ErrInvalidStatus   = errors.New(`status must be "pending"|"approved"|"rejected"`)
	ErrInvalidLocation = errors.New("location must be a Point with [longitude, latitude]")
)

// SearchFields are matched by the list searchTerm.
var SearchFields = []string{"name", "title", "address"}

var Schema = querybuilder.Schema{
	"user":            querybuilder.ObjectID,
	"published":       querybuilder.Bool,
	"discount.enable": querybuilder.Bool,
	"discount.value":  querybuilder.Float,
	"created_at":      querybuilder.Time,
	"updated_at":      querybuilder.Time,
}

// ValidStatus reports whether s is a known review status.
func ValidStatus(s string) bool {
	switch s {
	case models.OfferPending, models.OfferApproved, models.OfferRejected:
		return true
	}
	return false
}

func validPoint(p *models.GeoPoint) bool {
	if p == nil {
		return true
	}
	if p.Type != "Point" || len(p.Coordinates) != 2 {
		return false
	}
	lng, lat := p.Coordinates[0], p.Coordinates[1]
	return lng >= -180 && lng <= 180 && lat >= -90 && lat <= 90
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("exclusive_offers")}
}

// Create inserts o. New offers start pending and unpublished unless the
// caller says otherwise.
func (s *Store) Create(ctx context.Context, o models.ExclusiveOffer) (models.ExclusiveOffer, error) {
	now := time.Now()
	o.ID = primitive.NewObjectID()
	if o.Status == "" {
		o.Status = models.OfferPending
	}
	if !ValidStatus(o.Status) {
		return models.ExclusiveOffer{}, ErrInvalidStatus
	}
	if o.Location != nil && o.Location.Type == "" {
		o.Location.Type = "Point"
	}
	if !validPoint(o.Location) {
		return models.ExclusiveOffer{}, ErrInvalidLocation
	}
	o.CreatedAt = now
	o.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, o); err != nil {
		return models.ExclusiveOffer{}, err
	}
	return o, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.ExclusiveOffer, error) {
	var o models.ExclusiveOffer
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return o, ErrNotFound
		}
		return o, err
	}
	return o, nil
}

// Update holds the editable fields; nil means unchanged.
type Update struct {
	Name        *string
	Title       *string
	Address     *string
	Location    *models.GeoPoint
	Image       *string
	Description *string
	Category    *string
	Discount    *models.Discount
	Status      *string
	Published   *bool
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.ExclusiveOffer, error) {
	var o models.ExclusiveOffer
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		set["name"] = *upd.Name
	}
	if upd.Title != nil {
		set["title"] = *upd.Title
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.Location != nil {
		if upd.Location.Type == "" {
			upd.Location.Type = "Point"
		}
		if !validPoint(upd.Location) {
			return o, ErrInvalidLocation
		}
		set["location"] = upd.Location
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.Description != nil {
		set["description"] = *upd.Description
	}
	if upd.Category != nil {
		set["category"] = *upd.Category
	}
	if upd.Discount != nil {
		set["discount"] = *upd.Discount
	}
	if upd.Status != nil {
		if !ValidStatus(*upd.Status) {
			return o, ErrInvalidStatus
		}
		set["status"] = *upd.Status
	}
	if upd.Published != nil {
		set["published"] = *upd.Published
	}

	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&o)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return o, ErrNotFound
	}
	return o, err
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

// CountActiveByUser counts owner's approved and published offers.
func (s *Store) CountActiveByUser(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{
		"user":      owner,
		"status":    models.OfferApproved,
		"published": true,
	})
}

func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

func (s *Store) List(ctx context.Context, p querybuilder.Params, opts ...querybuilder.Option) ([]models.ExclusiveOffer, querybuilder.Pagination, error) {
	opts = append([]querybuilder.Option{querybuilder.WithSchema(Schema)}, opts...)
	b := querybuilder.New(s.c, p, opts...).
		Paginate().
		Search(SearchFields...).
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.ExclusiveOffer](ctx, b)
}
