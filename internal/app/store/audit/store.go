// internal/app/store/audit/store.go
package audit

import (
	"context"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/querybuilder"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Event categories.
const (
	CategoryAuth  = "auth"
	CategoryAdmin = "admin"
)

// Auth event types.
const (
	EventLoginSuccess           = "login_success"
	EventLoginFailed            = "login_failed"
	EventLoginRateLimited       = "login_rate_limited"
	EventLogout                 = "logout"
	EventEmailVerified          = "email_verified"
	EventVerificationCodeFailed = "verification_code_failed"
)

// Admin event types.
const (
	EventPartnerRequestApproved = "partner_request_approved"
	EventPartnerRequestRejected = "partner_request_rejected"
	EventPartnerAccountCreated  = "partner_account_created"
)

// Event is one row of the audit trail.
type Event struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Timestamp time.Time          `bson:"timestamp" json:"timestamp"`

	Category  string `bson:"category" json:"category"`
	EventType string `bson:"event_type" json:"event_type"`

	UserID  *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`   // affected user
	ActorID *primitive.ObjectID `bson:"actor_id,omitempty" json:"actor_id,omitempty"` // who acted, for admin events

	IP        string `bson:"ip" json:"ip,omitempty"`
	UserAgent string `bson:"user_agent,omitempty" json:"user_agent,omitempty"`

	Success       bool   `bson:"success" json:"success"`
	FailureReason string `bson:"failure_reason,omitempty" json:"failure_reason,omitempty"`

	Details map[string]string `bson:"details,omitempty" json:"details,omitempty"`
}

// Schema coerces list filters on typed fields.
var Schema = querybuilder.Schema{
	"success":   querybuilder.Bool,
	"user_id":   querybuilder.ObjectID,
	"actor_id":  querybuilder.ObjectID,
	"timestamp": querybuilder.Time,
}

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("audit_events")}
}

// Log inserts e, stamping ID and Timestamp when unset.
func (s *Store) Log(ctx context.Context, e Event) error {
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	_, err := s.c.InsertOne(ctx, e)
	return err
}

// List pages through events, newest first unless sortBy says otherwise.
func (s *Store) List(ctx context.Context, p querybuilder.Params) ([]Event, querybuilder.Pagination, error) {
	b := querybuilder.New(s.c, p,
		querybuilder.WithSchema(Schema),
		querybuilder.WithDefaultSort("timestamp"),
	).
		Paginate().
		Search("event_type", "ip", "failure_reason").
		Fields().
		Filter().
		Sort()
	return querybuilder.List[Event](ctx, b)
}
