// internal/app/store/favourites/favouritestore.go
package favouritestore

import (
	"context"
	"errors"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("offer_favourites")}
}

// Toggle adds offer to user's favourites, or removes it when already
// present. It reports whether the offer is a favourite afterwards.
func (s *Store) Toggle(ctx context.Context, user, offer primitive.ObjectID) (bool, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user": user, "offer": offer})
	if err != nil {
		return false, err
	}
	if res.DeletedCount > 0 {
		return false, nil
	}

	fav := models.OfferFavourite{
		ID:        primitive.NewObjectID(),
		User:      user,
		Offer:     offer,
		CreatedAt: time.Now(),
	}
	if _, err := s.c.InsertOne(ctx, fav); err != nil {
		// A concurrent toggle inserted first; the offer is a favourite.
		if wafflemongo.IsDup(err) {
			return true, nil
		}
		return false, err
	}
	return true, nil
}

// IsFavourite reports whether user favourited offer.
func (s *Store) IsFavourite(ctx context.Context, user, offer primitive.ObjectID) (bool, error) {
	err := s.c.FindOne(ctx, bson.M{"user": user, "offer": offer},
		options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// OfferIDs returns the ids of user's favourite offers.
func (s *Store) OfferIDs(ctx context.Context, user primitive.ObjectID) ([]primitive.ObjectID, error) {
	cur, err := s.c.Find(ctx, bson.M{"user": user}, options.Find().SetProjection(bson.M{"offer": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	ids := []primitive.ObjectID{}
	for cur.Next(ctx) {
		var row struct {
			Offer primitive.ObjectID `bson:"offer"`
		}
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		ids = append(ids, row.Offer)
	}
	return ids, cur.Err()
}

// DeleteByOffer removes every favourite of offer.
func (s *Store) DeleteByOffer(ctx context.Context, offer primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"offer": offer})
	return err
}
