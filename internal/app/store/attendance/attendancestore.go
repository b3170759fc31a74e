// internal/app/store/attendance/attendancestore.go
package attendancestore

import (
	"context"
	"errors"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/daterange"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("attendance not found")
	// ErrAlreadyMarked is returned when the member already has a check-in
	// for the day (unique index on user+day).
	ErrAlreadyMarked = errors.New("attendance already marked for today")
)

// Schema coerces list filters.
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
	return &Store{c: db.Collection("daily_attendances")}
}

// Create inserts a check-in. Day defaults to the UTC day of Date.
func (s *Store) Create(ctx context.Context, a models.DailyAttendance) (models.DailyAttendance, error) {
	now := time.Now()
	a.ID = primitive.NewObjectID()
	if a.Date.IsZero() {
		a.Date = now
	}
	if a.Day == "" {
		a.Day = daterange.DayKey(a.Date.UTC())
	}
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.DailyAttendance{}, ErrAlreadyMarked
		}
		return models.DailyAttendance{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.DailyAttendance, error) {
	var a models.DailyAttendance
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return a, ErrNotFound
		}
		return a, err
	}
	return a, nil
}

// ExistsForDay reports whether user already has a check-in on day.
func (s *Store) ExistsForDay(ctx context.Context, user primitive.ObjectID, day string) (bool, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"user": user, "day": day}, options.Count().SetLimit(1))
	return n > 0, err
}

// CountForDay counts check-ins on day. A non-nil creator narrows the
// count to one desk.
func (s *Store) CountForDay(ctx context.Context, day string, creator *primitive.ObjectID) (int64, error) {
	filter := bson.M{"day": day}
	if creator != nil {
		filter["creator"] = *creator
	}
	return s.c.CountDocuments(ctx, filter)
}

// Update changes the member or date of a check-in. Day must accompany
// Date so the per-day uniqueness stays correct.
type Update struct {
	User *primitive.ObjectID
	Date *time.Time
	Day  string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.DailyAttendance, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.User != nil {
		set["user"] = *upd.User
	}
	if upd.Date != nil {
		set["date"] = *upd.Date
		day := upd.Day
		if day == "" {
			day = daterange.DayKey(upd.Date.UTC())
		}
		set["day"] = day
	}

	var a models.DailyAttendance
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&a)
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return a, ErrNotFound
	case wafflemongo.IsDup(err):
		return a, ErrAlreadyMarked
	}
	return a, err
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

// List runs a list query. Check-ins have no searchable fields.
func (s *Store) List(ctx context.Context, p querybuilder.Params, opts ...querybuilder.Option) ([]models.DailyAttendance, querybuilder.Pagination, error) {
	opts = append([]querybuilder.Option{querybuilder.WithSchema(Schema)}, opts...)
	b := querybuilder.New(s.c, p, opts...).
		Paginate().
		Search().
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.DailyAttendance](ctx, b)
}
