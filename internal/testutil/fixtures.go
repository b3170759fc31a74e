package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/app/system/mailer"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the password of every user created by Fixtures.
const FixturePassword = "password123"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert into %s: %v", coll, err)
	}
}

// CreateUser inserts a verified user with FixturePassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		NameCI:       text.Fold(name),
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		Verified:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

// CreateMember inserts a verified member with a membership card id.
func (f *Fixtures) CreateMember(ctx context.Context, name, email string) models.User {
	f.t.Helper()

	u := f.CreateUser(ctx, name, email, "user")
	card := primitive.NewObjectID()
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, map[string]any{
		"$set": map[string]any{"application_form": card},
	}); err != nil {
		f.t.Fatalf("set application_form: %v", err)
	}
	u.ApplicationForm = &card
	return u
}

// CreateEvent inserts a published event on date.
func (f *Fixtures) CreateEvent(ctx context.Context, name string, date time.Time) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	e := models.Event{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Title:     name,
		Location:  "Main Hall",
		EventDate: date.UTC(),
		Published: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "events", e)
	return e
}

// CreateOffer inserts an offer owned by owner.
func (f *Fixtures) CreateOffer(ctx context.Context, name string, owner primitive.ObjectID, status string, published bool) models.ExclusiveOffer {
	f.t.Helper()

	now := time.Now().UTC()
	o := models.ExclusiveOffer{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Title:     name,
		User:      owner,
		Status:    status,
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "exclusive_offers", o)
	return o
}

// CreateStory inserts a published story.
func (f *Fixtures) CreateStory(ctx context.Context, title string) models.Story {
	f.t.Helper()

	now := time.Now().UTC()
	s := models.Story{
		ID:        primitive.NewObjectID(),
		Title:     title,
		Published: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert(ctx, "stories", s)
	return s
}

// AsTestUser converts a stored user to the request-context form.
func AsTestUser(u models.User) TestUser {
	return TestUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
}

// MailRecorder is a mailer.Sender that keeps every message.
type MailRecorder struct {
	mu   sync.Mutex
	Sent []mailer.Email
	Err  error
}

func (m *MailRecorder) Send(_ context.Context, e mailer.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, e)
	return nil
}

// Messages returns a copy of the recorded messages.
func (m *MailRecorder) Messages() []mailer.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]mailer.Email(nil), m.Sent...)
}
