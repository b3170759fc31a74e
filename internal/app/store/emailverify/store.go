// internal/app/store/emailverify/store.go
package emailverify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	// CodeLength is the number of digits in a one-time code.
	CodeLength = 6
	// DefaultExpiry is how long a code is valid.
	DefaultExpiry = 3 * time.Minute
	// BcryptCost for hashing codes.
	BcryptCost = 10
	// MaxVerifyAttempts caps guesses per code.
	MaxVerifyAttempts = 5
	// MaxResends caps resends within ResendWindow.
	MaxResends = 3
	// ResendWindow is the window resends are counted in.
	ResendWindow = 10 * time.Minute
)

var (
	ErrNotFound        = errors.New("verification not found or expired")
	ErrInvalidCode     = errors.New("invalid verification code")
	ErrTooManyAttempts = errors.New("too many verification attempts")
	ErrTooManyResends  = errors.New("too many resend requests")
)

// Verification is a pending one-time code for a user's email.
type Verification struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"user_id"`
	Email       string             `bson:"email"`
	CodeHash    string             `bson:"code_hash"`
	ExpiresAt   time.Time          `bson:"expires_at"` // TTL
	CreatedAt   time.Time          `bson:"created_at"`
	Attempts    int                `bson:"attempts"`
	ResendCount int                `bson:"resend_count"`
	WindowStart time.Time          `bson:"window_start"`
}

type Store struct {
	c      *mongo.Collection
	expiry time.Duration
}

// New creates a Store. A non-positive expiry selects DefaultExpiry.
func New(db *mongo.Database, expiry time.Duration) *Store {
	if expiry <= 0 {
		expiry = DefaultExpiry
	}
	return &Store{
		c:      db.Collection("email_verifications"),
		expiry: expiry,
	}
}

func (s *Store) Expiry() time.Duration {
	return s.expiry
}

// CreateResult carries the plain code to email.
type CreateResult struct {
	Code        string
	ExpiresAt   time.Time
	ResendCount int
}

// Create replaces any pending code for userID with a fresh one. Resends
// within ResendWindow are counted and capped at MaxResends.
func (s *Store) Create(ctx context.Context, userID primitive.ObjectID, email string, isResend bool) (*CreateResult, error) {
	now := time.Now()

	var existing Verification
	found := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&existing) == nil
	inWindow := found && now.Before(existing.WindowStart.Add(ResendWindow))

	if isResend && inWindow && existing.ResendCount >= MaxResends {
		return nil, ErrTooManyResends
	}

	code, err := generateCode()
	if err != nil {
		return nil, fmt.Errorf("generate code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash code: %w", err)
	}

	resendCount := 0
	windowStart := now
	if inWindow {
		windowStart = existing.WindowStart
		resendCount = existing.ResendCount
		if isResend {
			resendCount++
		}
	}

	if _, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID}); err != nil {
		return nil, fmt.Errorf("clear verifications: %w", err)
	}

	v := Verification{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Email:       email,
		CodeHash:    string(hash),
		ExpiresAt:   now.Add(s.expiry),
		CreatedAt:   now,
		ResendCount: resendCount,
		WindowStart: windowStart,
	}
	if _, err := s.c.InsertOne(ctx, v); err != nil {
		return nil, fmt.Errorf("insert verification: %w", err)
	}

	return &CreateResult{Code: code, ExpiresAt: v.ExpiresAt, ResendCount: resendCount}, nil
}

// VerifyCode checks code for userID. A matching code is consumed. Every
// attempt, right or wrong, counts toward MaxVerifyAttempts.
func (s *Store) VerifyCode(ctx context.Context, userID primitive.ObjectID, code string) (*Verification, error) {
	var v Verification
	err := s.c.FindOne(ctx, bson.M{
		"user_id":    userID,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Decode(&v)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if v.Attempts >= MaxVerifyAttempts {
		return nil, ErrTooManyAttempts
	}
	if _, err := s.c.UpdateOne(ctx, bson.M{"_id": v.ID}, bson.M{"$inc": bson.M{"attempts": 1}}); err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(v.CodeHash), []byte(code)); err != nil {
		return nil, ErrInvalidCode
	}

	_, _ = s.c.DeleteOne(ctx, bson.M{"_id": v.ID})
	return &v, nil
}

// DeleteByUser removes every pending code for a user.
func (s *Store) DeleteByUser(ctx context.Context, userID primitive.ObjectID) error {
	_, err := s.c.DeleteMany(ctx, bson.M{"user_id": userID})
	return err
}

// generateCode returns a uniformly random code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
