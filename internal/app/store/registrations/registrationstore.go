// internal/app/store/registrations/registrationstore.go
package registrationstore

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
	ErrNotFound = errors.New("event registration not found")
	// ErrDuplicate is returned when the user already registered for the event.
	ErrDuplicate = errors.New("user has already registered for this event")
	// ErrNotPending is returned when cancelling a reviewed registration.
	ErrNotPending = errors.New("registration is no longer pending")
	errBadStatus  = errors.New(`status must be "pending"|"approved"|"rejected"`)
)

var Schema = querybuilder.Schema{
	"event":      querybuilder.ObjectID,
	"user":       querybuilder.ObjectID,
	"created_at": querybuilder.Time,
	"updated_at": querybuilder.Time,
}

// ValidStatus reports whether s is a known registration status.
func ValidStatus(s string) bool {
	switch s {
	case models.RegistrationPending, models.RegistrationApproved, models.RegistrationRejected:
		return true
	}
	return false
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("event_registrations")}
}

// Create registers r.User for r.Event. Status defaults to pending.
func (s *Store) Create(ctx context.Context, r models.EventRegistration) (models.EventRegistration, error) {
	now := time.Now()
	r.ID = primitive.NewObjectID()
	if r.Status == "" {
		r.Status = models.RegistrationPending
	}
	if !ValidStatus(r.Status) {
		return models.EventRegistration{}, errBadStatus
	}
	r.CreatedAt = now
	r.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, r); err != nil {
		if wafflemongo.IsDup(err) {
			return models.EventRegistration{}, ErrDuplicate
		}
		return models.EventRegistration{}, err
	}
	return r, nil
}

// Exists reports whether user is registered for event.
func (s *Store) Exists(ctx context.Context, event, user primitive.ObjectID) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"event": event, "user": user}, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.EventRegistration, error) {
	var r models.EventRegistration
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return r, ErrNotFound
		}
		return r, err
	}
	return r, nil
}

// Cancel deletes user's registration for event while it is still
// pending and returns it.
func (s *Store) Cancel(ctx context.Context, event, user primitive.ObjectID) (models.EventRegistration, error) {
	var r models.EventRegistration
	if err := s.c.FindOne(ctx, bson.M{"event": event, "user": user}).Decode(&r); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return r, ErrNotFound
		}
		return r, err
	}
	if r.Status != "" && r.Status != models.RegistrationPending {
		return r, ErrNotPending
	}

	// Only delete if still pending, so a concurrent approval wins.
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": r.ID, "status": models.RegistrationPending})
	if err != nil {
		return r, err
	}
	if res.DeletedCount == 0 {
		return r, ErrNotPending
	}
	return r, nil
}

// SetStatus reviews a registration.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status string) (models.EventRegistration, error) {
	var r models.EventRegistration
	if !ValidStatus(status) {
		return r, errBadStatus
	}
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&r)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return r, ErrNotFound
	}
	return r, err
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

func (s *Store) List(ctx context.Context, p querybuilder.Params, opts ...querybuilder.Option) ([]models.EventRegistration, querybuilder.Pagination, error) {
	opts = append([]querybuilder.Option{querybuilder.WithSchema(Schema)}, opts...)
	b := querybuilder.New(s.c, p, opts...).
		Paginate().
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.EventRegistration](ctx, b)
}
