// internal/app/store/partnerrequests/partnerstore.go
package partnerstore

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
const counterKey = "partnership_id"

var (
	ErrNotFound      = errors.New("partner request not found")
	ErrDuplicateID   = errors.New("partnership id already assigned")
	ErrInvalidStatus = errors.New(`partnership_status must be "pending"|"active"|"rejected"`)
)

// SearchFields are matched by the list searchTerm.
var SearchFields = []string{"company_name", "contact_name", "contact_email", "partnership_id"}

var Schema = querybuilder.Schema{
	"created_at": querybuilder.Time,
	"updated_at": querybuilder.Time,
}

// ValidStatus reports whether s is a known partnership status.
func ValidStatus(s string) bool {
	switch s {
	case models.PartnershipPending, models.PartnershipActive, models.PartnershipRejected:
		return true
	}
	return false
}

// FormatPartnershipID renders sequence n as PC-00001.
func FormatPartnershipID(n int64) string {
	return fmt.Sprintf("PC-%05d", n)
}

type Store struct {
	c        *mongo.Collection
	counters *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("partner_requests"),
		counters: db.Collection("counters"),
	}
}

// NextPartnershipID atomically advances the sequence and returns the new id.
func (s *Store) NextPartnershipID(ctx context.Context) (string, error) {
	var doc struct {
		Seq int64 `bson:"seq"`
	}
	err := s.counters.FindOneAndUpdate(ctx,
		bson.M{"_id": counterKey},
		bson.M{"$inc": bson.M{"seq": 1}},
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&doc)
	if err != nil {
		return "", fmt.Errorf("next partnership id: %w", err)
	}
	return FormatPartnershipID(doc.Seq), nil
}

// Create normalizes contact details, assigns the next partnership id and
// inserts the request as pending.
func (s *Store) Create(ctx context.Context, pr models.PartnerRequest) (models.PartnerRequest, error) {
	now := time.Now()
	pr.ID = primitive.NewObjectID()
	pr.ContactEmail = normalize.Email(pr.ContactEmail)
	pr.ContactPhone = normalize.Phone(pr.ContactPhone)
	pr.CompanyName = normalize.Name(pr.CompanyName)
	pr.ContactName = normalize.Name(pr.ContactName)
	if pr.PartnershipStatus == "" {
		pr.PartnershipStatus = models.PartnershipPending
	}
	if !ValidStatus(pr.PartnershipStatus) {
		return models.PartnerRequest{}, ErrInvalidStatus
	}
	if pr.PartnershipID == "" {
		id, err := s.NextPartnershipID(ctx)
		if err != nil {
			return models.PartnerRequest{}, err
		}
		pr.PartnershipID = id
	}
	pr.CreatedAt = now
	pr.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, pr); err != nil {
		if wafflemongo.IsDup(err) {
			return models.PartnerRequest{}, ErrDuplicateID
		}
		return models.PartnerRequest{}, err
	}
	return pr, nil
}

// ExistsByEmail reports whether an application uses email.
func (s *Store) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, bson.M{"contact_email": normalize.Email(email)})
}

// ExistsByPhone reports whether an application uses phone. An empty phone
// never matches.
func (s *Store) ExistsByPhone(ctx context.Context, phone string) (bool, error) {
	p := normalize.Phone(phone)
	if p == "" {
		return false, nil
	}
	return s.exists(ctx, bson.M{"contact_phone": p})
}

func (s *Store) exists(ctx context.Context, filter bson.M) (bool, error) {
	n, err := s.c.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return n > 0, err
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.PartnerRequest, error) {
	var pr models.PartnerRequest
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&pr); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return pr, ErrNotFound
		}
		return pr, err
	}
	return pr, nil
}

// Update holds the editable fields; nil means unchanged.
type Update struct {
	CompanyName       *string
	Industry          *string
	ContactName       *string
	ContactEmail      *string
	ContactPhone      *string
	Website           *string
	Message           *string
	ProfileImage      *string
	PartnershipStatus *string
}

func (s *Store) Update(ctx context.Context, id primitive.ObjectID, upd Update) (models.PartnerRequest, error) {
	var pr models.PartnerRequest
	set := bson.M{"updated_at": time.Now()}
	if upd.CompanyName != nil {
		set["company_name"] = normalize.Name(*upd.CompanyName)
	}
	if upd.Industry != nil {
		set["industry"] = *upd.Industry
	}
	if upd.ContactName != nil {
		set["contact_name"] = normalize.Name(*upd.ContactName)
	}
	if upd.ContactEmail != nil {
		set["contact_email"] = normalize.Email(*upd.ContactEmail)
	}
	if upd.ContactPhone != nil {
		set["contact_phone"] = normalize.Phone(*upd.ContactPhone)
	}
	if upd.Website != nil {
		set["website"] = *upd.Website
	}
	if upd.Message != nil {
		set["message"] = *upd.Message
	}
	if upd.ProfileImage != nil {
		set["profile_image"] = *upd.ProfileImage
	}
	if upd.PartnershipStatus != nil {
		if !ValidStatus(*upd.PartnershipStatus) {
			return pr, ErrInvalidStatus
		}
		set["partnership_status"] = *upd.PartnershipStatus
	}

	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&pr)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return pr, ErrNotFound
	}
	return pr, err
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

func (s *Store) List(ctx context.Context, p querybuilder.Params, opts ...querybuilder.Option) ([]models.PartnerRequest, querybuilder.Pagination, error) {
	opts = append([]querybuilder.Option{querybuilder.WithSchema(Schema)}, opts...)
	b := querybuilder.New(s.c, p, opts...).
		Paginate().
		Search(SearchFields...).
		Fields().
		Filter().
		Sort()
	return querybuilder.List[models.PartnerRequest](ctx, b)
}
