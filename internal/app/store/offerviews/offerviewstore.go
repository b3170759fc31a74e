// internal/app/store/offerviews/offerviewstore.go
package offerviewstore

import (
	"context"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("offer_views")}
}

// Record stores one view of offer by user.
func (s *Store) Record(ctx context.Context, user, offer primitive.ObjectID) error {
	_, err := s.c.InsertOne(ctx, models.OfferView{
		ID:        primitive.NewObjectID(),
		User:      user,
		Offer:     offer,
		CreatedAt: time.Now(),
	})
	return err
}

// Count returns the number of recorded views of offer.
func (s *Store) Count(ctx context.Context, offer primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"offer": offer})
}

// DeleteByOffer removes the view history of offer.
func (s *Store) DeleteByOffer(ctx context.Context, offer primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"offer": offer})
	return err
}
