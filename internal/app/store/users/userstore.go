package userstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/authz"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/daterange"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/normalize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is used for password hashes.
const BcryptCost = 10

var (
	// ErrDuplicateEmail is returned when attempting to create a user with an email that already exists.
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	// ErrNotFound is returned when no user matches.
	ErrNotFound = errors.New("user not found")
	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	errBadRole    = errors.New(`role must be "superadmin"|"admin"|"partner"|"user"`)
	errEmailEmpty = errors.New("email is required")
)

// SearchFields are matched by the list searchTerm.
var SearchFields = []string{"name", "email", "phone"}

// Schema coerces list filters on typed user fields.
var Schema = querybuilder.Schema{
	"verified":         querybuilder.Bool,
	"application_form": querybuilder.ObjectID,
	"created_at":       querybuilder.Time,
	"updated_at":       querybuilder.Time,
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create normalizes u, hashes password (when non-empty) and inserts the user.
func (s *Store) Create(ctx context.Context, u models.User, password string) (models.User, error) {
	u.ID = primitive.NewObjectID()
	u.Name = normalize.Name(u.Name)
	u.NameCI = text.Fold(u.Name)
	u.Email = normalize.Email(u.Email)
	u.Phone = normalize.Phone(u.Phone)
	u.Role = normalize.Role(u.Role)
	if u.Role == "" {
		u.Role = authz.RoleUser
	}
	if u.Email == "" {
		return models.User{}, errEmailEmpty
	}
	if !authz.ValidRole(u.Role) {
		return models.User{}, errBadRole
	}

	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
		if err != nil {
			return models.User{}, fmt.Errorf("hash password: %w", err)
		}
		u.PasswordHash = string(hash)
	}

	now := time.Now()
	u.CreatedAt = now
	u.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID loads a user by ObjectID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByEmail looks up a user by case-insensitive email.
func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findOne(ctx, bson.M{"email": normalize.Email(email)})
}

// GetByApplicationForm resolves a membership card id to its member.
func (s *Store) GetByApplicationForm(ctx context.Context, formID primitive.ObjectID) (*models.User, error) {
	return s.findOne(ctx, bson.M{"application_form": formID})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := s.c.FindOne(ctx, filter).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// Authenticate checks email and password. Unknown users and wrong
// passwords both yield ErrInvalidCredentials.
func (s *Store) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	u, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if u.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// ExistsByEmailOrPhone reports whether any user has the email or, when
// phone is non-empty, the phone number.
func (s *Store) ExistsByEmailOrPhone(ctx context.Context, email, phone string) (bool, error) {
	or := bson.A{bson.M{"email": normalize.Email(email)}}
	if p := normalize.Phone(phone); p != "" {
		or = append(or, bson.M{"phone": p})
	}
	err := s.c.FindOne(ctx, bson.M{"$or": or}, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == nil {
		return true, nil
	}
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	return false, err
}

// SetVerified marks the user's email as verified.
func (s *Store) SetVerified(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{
		"verified":   true,
		"updated_at": time.Now(),
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SetApplicationForm links the user to a membership card, or unlinks it
// when form is nil.
func (s *Store) SetApplicationForm(ctx context.Context, id primitive.ObjectID, form *primitive.ObjectID) error {
	now := time.Now()
	update := bson.M{"$set": bson.M{"application_form": form, "updated_at": now}}
	if form == nil {
		update = bson.M{"$unset": bson.M{"application_form": ""}, "$set": bson.M{"updated_at": now}}
	}
	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ProfileUpdate holds the fields a user may change on their own profile.
// Nil fields are left untouched.
type ProfileUpdate struct {
	Name         *string
	Phone        *string
	ProfileImage *string
	Preferences  []string
}

// UpdateProfile applies upd and returns the updated user.
func (s *Store) UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) (*models.User, error) {
	set := bson.M{"updated_at": time.Now()}
	if upd.Name != nil {
		name := normalize.Name(*upd.Name)
		set["name"] = name
		set["name_ci"] = text.Fold(name)
	}
	if upd.Phone != nil {
		set["phone"] = normalize.Phone(*upd.Phone)
	}
	if upd.ProfileImage != nil {
		set["profile_image"] = *upd.ProfileImage
	}
	if upd.Preferences != nil {
		set["preferences"] = upd.Preferences
	}

	var u models.User
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&u)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListByRoles returns every user holding one of roles.
func (s *Store) ListByRoles(ctx context.Context, roles ...string) ([]models.User, error) {
	cur, err := s.c.Find(ctx, bson.M{"role": bson.M{"$in": roles}},
		options.Find().SetProjection(bson.M{"_id": 1, "name": 1, "email": 1, "role": 1}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Summaries loads the public shape of each user in ids, keyed by id.
// Missing ids are simply absent from the map.
func (s *Store) Summaries(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.UserSummary, error) {
	out := make(map[primitive.ObjectID]models.UserSummary, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find().SetProjection(bson.M{
		"_id": 1, "name": 1, "email": 1, "phone": 1, "profile_image": 1, "role": 1,
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var us models.UserSummary
		if err := cur.Decode(&us); err != nil {
			return nil, err
		}
		out[us.ID] = us
	}
	return out, cur.Err()
}

// HiddenFields are never filterable, sortable or returned by List.
var HiddenFields = []string{"password_hash"}

// List runs a list query over users.
func (s *Store) List(ctx context.Context, p querybuilder.Params) ([]models.User, querybuilder.Pagination, error) {
	b := querybuilder.New(s.c, p,
		querybuilder.WithSchema(Schema),
		querybuilder.WithHiddenFields(HiddenFields...),
	).
		Paginate().
		Search(SearchFields...).
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.User](ctx, b)
}

// Count returns the number of users matching filter.
func (s *Store) Count(ctx context.Context, filter bson.M) (int64, error) {
	if filter == nil {
		filter = bson.M{}
	}
	return s.c.CountDocuments(ctx, filter)
}

// CountByMonth returns sign-ups per calendar month of year in loc.
// Index 0 is January.
func (s *Store) CountByMonth(ctx context.Context, year int, loc *time.Location) ([12]int64, error) {
	var out [12]int64
	if loc == nil {
		loc = time.UTC
	}
	yr := daterange.Year(year, loc)

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"created_at": bson.M{"$gte": yr.Start, "$lt": yr.End}}}},
		{{Key: "$group", Value: bson.M{
			"_id":   bson.M{"$month": bson.M{"date": "$created_at", "timezone": loc.String()}},
			"count": bson.M{"$sum": 1},
		}}},
	}
	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return out, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var row struct {
			Month int   `bson:"_id"`
			Count int64 `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return out, err
		}
		if row.Month >= 1 && row.Month <= 12 {
			out[row.Month-1] = row.Count
		}
	}
	return out, cur.Err()
}

// EnsureSuperAdmin creates a verified superadmin with email when no user
// has that email yet. It reports whether a user was created.
func (s *Store) EnsureSuperAdmin(ctx context.Context, name, email, password string) (bool, error) {
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return false, nil
	} else if !errors.Is(err, ErrNotFound) {
		return false, err
	}
	_, err := s.Create(ctx, models.User{
		Name:     name,
		Email:    email,
		Role:     authz.RoleSuperAdmin,
		Verified: true,
	}, password)
	if errors.Is(err, ErrDuplicateEmail) {
		return false, nil
	}
	return err == nil, err
}

// TempPassword returns a random password for accounts created on a
// user's behalf, such as an approved partner.
func TempPassword() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}
