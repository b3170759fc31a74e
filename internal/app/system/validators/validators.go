// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Collections lists every collection the API writes, in creation order.
var Collections = []string{
	"users",
	"email_verifications",
	"daily_attendances",
	"member_redemptions",
	"events",
	"event_registrations",
	"exclusive_offers",
	"offer_favourites",
	"offer_views",
	"partner_requests",
	"membership_applications",
	"sponsors",
	"stories",
	"story_likes",
	"notifications",
	"notification_counts",
	"counters",
	"audit_events",
}

// EnsureAll creates missing collections and attaches JSON-Schema validators
// where one is defined. Servers without collMod support are logged and
// skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	schemas := map[string]bson.M{
		"users":                   usersSchema(),
		"daily_attendances":       attendancesSchema(),
		"member_redemptions":      redemptionsSchema(),
		"events":                  eventsSchema(),
		"event_registrations":     registrationsSchema(),
		"exclusive_offers":        offersSchema(),
		"partner_requests":        partnerRequestsSchema(),
		"membership_applications": membershipApplicationsSchema(),
		"stories":                 storiesSchema(),
		"notifications":           notificationsSchema(),
		"audit_events":            auditEventsSchema(),
	}

	var problems []string
	for _, coll := range Collections {
		if _, err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			continue
		}
		schema, ok := schemas[coll]
		if !ok {
			continue
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isNoSuchCommand(err) || isNotImplemented(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				continue
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* ---------------------- collection helpers & logging ---------------------- */

// collectionExists returns true when <name> already exists.
// Uses ListCollectionNames to avoid "created collection" log when it didn't.
func collectionExists(ctx context.Context, db *mongo.Database, name string) (bool, error) {
	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		return false, err
	}
	for _, n := range names {
		if n == name {
			return true, nil
		}
	}
	return false, nil
}

// ensureCollection idempotently makes sure <name> exists.
// Returns created==true only if we actually created it.
func ensureCollection(ctx context.Context, db *mongo.Database, name string) (created bool, err error) {
	exists, listErr := collectionExists(ctx, db, name)
	if listErr == nil && exists {
		zap.L().Info("collection exists", zap.String("collection", name))
		return false, nil
	}
	// If listing failed, fall back to create-and-handle-race.
	if err := db.CreateCollection(ctx, name); err != nil {
		// NamespaceExists / already exists is fine (race or prior run).
		if isNamespaceExistsErr(err) {
			zap.L().Info("collection exists", zap.String("collection", name))
			return false, nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return false, err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return true, nil
}

/* ------------------------------ validators ------------------------------- */

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

/* ------------------------- error helpers ------------------------- */

func isNamespaceExistsErr(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 48 || strings.Contains(strings.ToLower(ce.Message), "already exists")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

func isNoSuchCommand(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || strings.Contains(strings.ToLower(ce.Message), "no such command")) {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "no such command")
}

func isNotImplemented(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 115 ||
		strings.Contains(strings.ToLower(ce.Message), "not implemented") ||
		strings.Contains(strings.ToLower(ce.Message), "not supported")) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "not implemented") || strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

var nonBlank = bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}

func enum(values ...string) bson.M {
	a := bson.A{}
	for _, v := range values {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

func objectSchema(required []string, props bson.M) bson.M {
	req := bson.A{}
	for _, r := range required {
		req = append(req, r)
	}
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType":   "object",
			"required":   req,
			"properties": props,
		},
	}
}

func usersSchema() bson.M {
	return objectSchema([]string{"name", "email", "role"}, bson.M{
		"name":             nonBlank,
		"email":            nonBlank,
		"role":             enum("superadmin", "admin", "partner", "user"),
		"verified":         bson.M{"bsonType": "bool"},
		"application_form": bson.M{"bsonType": "objectId"},
		"preferences":      bson.M{"bsonType": "array", "items": bson.M{"bsonType": "string"}},
	})
}

func attendancesSchema() bson.M {
	return objectSchema([]string{"creator", "user", "date", "day"}, bson.M{
		"creator": bson.M{"bsonType": "objectId"},
		"user":    bson.M{"bsonType": "objectId"},
		"date":    bson.M{"bsonType": "date"},
		"day":     bson.M{"bsonType": "string", "pattern": "^[0-9]{4}-[0-9]{2}-[0-9]{2}$"},
	})
}

func redemptionsSchema() bson.M {
	return objectSchema([]string{"creator", "user", "date"}, bson.M{
		"creator": bson.M{"bsonType": "objectId"},
		"user":    bson.M{"bsonType": "objectId"},
		"date":    bson.M{"bsonType": "date"},
	})
}

func eventsSchema() bson.M {
	return objectSchema([]string{"name", "title", "event_date"}, bson.M{
		"name":       nonBlank,
		"title":      nonBlank,
		"event_date": bson.M{"bsonType": "date"},
		"published":  bson.M{"bsonType": "bool"},
	})
}

func registrationsSchema() bson.M {
	return objectSchema([]string{"event", "user", "status"}, bson.M{
		"event":  bson.M{"bsonType": "objectId"},
		"user":   bson.M{"bsonType": "objectId"},
		"status": enum(models.RegistrationPending, models.RegistrationApproved, models.RegistrationRejected),
	})
}

func offersSchema() bson.M {
	return objectSchema([]string{"name", "title", "user", "status"}, bson.M{
		"name":      nonBlank,
		"title":     nonBlank,
		"user":      bson.M{"bsonType": "objectId"},
		"status":    enum(models.OfferPending, models.OfferApproved, models.OfferRejected),
		"published": bson.M{"bsonType": "bool"},
		"location": bson.M{
			"bsonType": "object",
			"required": bson.A{"type", "coordinates"},
			"properties": bson.M{
				"type":        enum("Point"),
				"coordinates": bson.M{"bsonType": "array", "minItems": 2, "maxItems": 2},
			},
		},
	})
}

func partnerRequestsSchema() bson.M {
	return objectSchema([]string{"company_name", "contact_name", "contact_email", "partnership_status"}, bson.M{
		"company_name":       nonBlank,
		"contact_name":       nonBlank,
		"contact_email":      nonBlank,
		"partnership_id":     bson.M{"bsonType": "string", "pattern": "^PC-[0-9]{5,}$"},
		"partnership_status": enum(models.PartnershipPending, models.PartnershipActive, models.PartnershipRejected),
	})
}

func storiesSchema() bson.M {
	return objectSchema([]string{"title"}, bson.M{
		"title":     nonBlank,
		"published": bson.M{"bsonType": "bool"},
	})
}

func notificationsSchema() bson.M {
	return objectSchema([]string{"receiver", "title", "seen"}, bson.M{
		"receiver": bson.M{"bsonType": "objectId"},
		"title":    nonBlank,
		"seen":     bson.M{"bsonType": "bool"},
	})
}

func auditEventsSchema() bson.M {
	return objectSchema([]string{"timestamp", "category", "event_type"}, bson.M{
		"timestamp":  bson.M{"bsonType": "date"},
		"category":   enum("auth", "admin"),
		"event_type": nonBlank,
		"success":    bson.M{"bsonType": "bool"},
	})
}

func membershipApplicationsSchema() bson.M {
	return objectSchema([]string{"name", "email", "membership_type", "membership_status"}, bson.M{
		"name":              nonBlank,
		"email":             nonBlank,
		"membership_type":   nonBlank,
		"membership_status": enum("pending", "active", "rejected", "expired"),
	})
}
