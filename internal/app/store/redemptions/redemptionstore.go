// internal/app/store/redemptions/redemptionstore.go
package redemptionstore

import (
	"context"
	"errors"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("redemption not found")
	// ErrExists is returned when the member has already redeemed.
	ErrExists = errors.New("redemption already exists for this member")
)

var Schema = querybuilder.Schema{
	"user":       querybuilder.ObjectID,
	"creator":    querybuilder.ObjectID,
	"date":       querybuilder.Time,
	"created_at": querybuilder.Time,
	"updated_at": querybuilder.Time,
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("member_redemptions")}
}

func (s *Store) Create(ctx context.Context, m models.MemberRedemption) (models.MemberRedemption, error) {
	now := time.Now()
	m.ID = primitive.NewObjectID()
	if m.Date.IsZero() {
		m.Date = now
	}
	m.CreatedAt = now
	m.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.MemberRedemption{}, ErrExists
		}
		return models.MemberRedemption{}, err
	}
	return m, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.MemberRedemption, error) {
	var m models.MemberRedemption
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return m, ErrNotFound
		}
		return m, err
	}
	return m, nil
}

// ExistsForUser reports whether user has any redemption.
func (s *Store) ExistsForUser(ctx context.Context, user primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"user": user}, options.Count().SetLimit(1))
	return n > 0, err
}

// CountByCreator counts redemptions recorded by creator. A non-zero
// window restricts the count to dates in [from, to).
func (s *Store) CountByCreator(ctx context.Context, creator primitive.ObjectID, from, to time.Time) (int64, error) {
	filter := bson.M{"creator": creator}
	if !from.IsZero() || !to.IsZero() {
		date := bson.M{}
		if !from.IsZero() {
			date["$gte"] = from
		}
		if !to.IsZero() {
			date["$lt"] = to
		}
		filter["date"] = date
	}
	return s.c.CountDocuments(ctx, filter)
}

type Update struct {
	User *primitive.ObjectID
	Date *time.Time
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.MemberRedemption, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.User != nil {
		set["user"] = *upd.User
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
	}

	var m models.MemberRedemption
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&m)
	switch {
	case err == nil:
		return m, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return m, ErrNotFound
	case wafflemongo.IsDup(err):
		return m, ErrExists
	}
	return m, err
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

func (s *Store) List(ctx context.Context, p querybuilder.Params, opts ...querybuilder.Option) ([]models.MemberRedemption, querybuilder.Pagination, error) {
	opts = append([]querybuilder.Option{querybuilder.WithSchema(Schema)}, opts...)
	b := querybuilder.New(s.c, p, opts...).
		Paginate().
		Search().
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.MemberRedemption](ctx, b)
}
