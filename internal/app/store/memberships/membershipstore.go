// internal/app/store/memberships/membershipstore.go
package membershipstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/normalize"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// counterKey names the sequence document in the counters collection.
const counterKey = "membership_id"

var (
	ErrNotFound      = errors.New("membership application not found")
	ErrDuplicate     = errors.New("membership application already exists for this user")
	ErrInvalidStatus = errors.New(`membership_status must be "pending"|"active"|"rejected"|"expired"`)
)

// SearchFields are matched by the list searchTerm.
var SearchFields = []string{"name", "email", "phone", "membership_id", "membership_type"}

var Schema = querybuilder.Schema{
	"user":       querybuilder.ObjectID,
	"expires_at": querybuilder.Time,
	"created_at": querybuilder.Time,
	"updated_at": querybuilder.Time,
}

// ValidStatus reports whether s is a known membership status.
func ValidStatus(s string) bool {
	switch s {
	case models.MembershipPending, models.MembershipActive, models.MembershipRejected, models.MembershipExpired:
		return true
	}
	return false
}

// FormatMembershipID renders sequence n as AC-00001.
func FormatMembershipID(n int64) string {
	return fmt.Sprintf("AC-%05d", n)
}

type Store struct {
	c        *mongo.Collection
	counters *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("membership_applications"),
		counters: db.Collection("counters"),
	}
}

// NextMembershipID atomically advances the sequence and returns the new id.
func (s *Store) NextMembershipID(ctx context.Context) (string, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterKey},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("next membership id: %w", err)
	}
	return FormatMembershipID(doc.Seq), nil
}

// Create normalizes contact details, assigns the next membership id and
// inserts the application as pending. One application per user; the unique
// user index turns a second one into ErrDuplicate.
func (s *Store) Create(ctx context.Context, a models.MembershipApplication) (models.MembershipApplication, error) {
	now := time.Now()
	a.ID = primitive.NewObjectID()
	a.Name = normalize.Name(a.Name)
	a.Email = normalize.Email(a.Email)
	a.Phone = normalize.Phone(a.Phone)
	if a.MembershipStatus == "" {
		a.MembershipStatus = models.MembershipPending
	}
	if !ValidStatus(a.MembershipStatus) {
		return models.MembershipApplication{}, ErrInvalidStatus
	}
	id, err := s.NextMembershipID(ctx)
	if err != nil {
		return models.MembershipApplication{}, err
	}
	a.MembershipID = id
	a.CreatedAt = now
	a.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.MembershipApplication{}, ErrDuplicate
		}
		return models.MembershipApplication{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.MembershipApplication, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByUser returns the application owned by user.
func (s *Store) GetByUser(ctx context.Context, user primitive.ObjectID) (models.MembershipApplication, error) {
	return s.findOne(ctx, bson.M{"user": user})
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.MembershipApplication, error) {
	var a models.MembershipApplication
	if err := s.c.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return a, ErrNotFound
		}
		return a, err
	}
	return a, nil
}

// Update holds the editable fields; nil means unchanged.
type Update struct {
	MembershipType   *string
	Name             *string
	Phone            *string
	Address          *string
	FamilyMembers    []models.FamilyMember
	JobTitle         *string
	OrganizationName *string
	Nationality      *string
	Image            *string
	MembershipStatus *string
	ExpiresAt        *time.Time
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.MembershipApplication, error) {
	var a models.MembershipApplication
	set := bson.M{"updated_at": time.Now()}
	if upd.MembershipType != nil {
		set["membership_type"] = *upd.MembershipType
	}
	if upd.Name != nil {
		set["name"] = normalize.Name(*upd.Name)
	}
	if upd.Phone != nil {
		set["phone"] = normalize.Phone(*upd.Phone)
	}
	if upd.Address != nil {
		set["address"] = *upd.Address
	}
	if upd.FamilyMembers != nil {
		set["family_members"] = upd.FamilyMembers
	}
	if upd.JobTitle != nil {
		set["job_title"] = *upd.JobTitle
	}
	if upd.OrganizationName != nil {
		set["organization_name"] = *upd.OrganizationName
	}
	if upd.Nationality != nil {
		set["nationality"] = *upd.Nationality
	}
	if upd.Image != nil {
		set["image"] = *upd.Image
	}
	if upd.ExpiresAt != nil {
		set["expires_at"] = *upd.ExpiresAt
	}
	if upd.MembershipStatus != nil {
		if !ValidStatus(*upd.MembershipStatus) {
			return a, ErrInvalidStatus
		}
		set["membership_status"] = *upd.MembershipStatus
	}

	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&a)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return a, ErrNotFound
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

func (s *Store) List(ctx context.Context, p querybuilder.Params, opts ...querybuilder.Option) ([]models.MembershipApplication, querybuilder.Pagination, error) {
	opts = append([]querybuilder.Option{querybuilder.WithSchema(Schema)}, opts...)
	b := querybuilder.New(s.c, p, opts...).
		Paginate().
		Search(SearchFields...).
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.MembershipApplication](ctx, b)
}
