// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// spec declares the indexes one collection should carry.
type spec struct {
	collection string
	models     []mongo.IndexModel
}

func idx(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func unique(name string, keys bson.D) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name).SetUnique(true)}
}

// desired is the full index plan. The unique indexes on daily_attendances,
// member_redemptions, event_registrations, offer_favourites and story_likes
// back the one-per-member rules enforced by the handlers.
func desired() []spec {
	return []spec{
		{"users", []mongo.IndexModel{
			unique("uniq_users_email", bson.D{{Key: "email", Value: 1}}),
			idx("idx_users_application_form", bson.D{{Key: "application_form", Value: 1}}),
			idx("idx_users_role_created", bson.D{{Key: "role", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_users_phone", bson.D{{Key: "phone", Value: 1}}),
		}},
		{"email_verifications", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "expires_at", Value: 1}},
				Options: options.Index().SetName("idx_emailverify_expires_ttl").SetExpireAfterSeconds(0),
			},
			idx("idx_emailverify_user", bson.D{{Key: "user_id", Value: 1}}),
		}},
		{"daily_attendances", []mongo.IndexModel{
			unique("uniq_attendance_user_day", bson.D{{Key: "user", Value: 1}, {Key: "day", Value: 1}}),
			idx("idx_attendance_day_creator", bson.D{{Key: "day", Value: 1}, {Key: "creator", Value: 1}}),
			idx("idx_attendance_created", bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
		}},
		{"member_redemptions", []mongo.IndexModel{
			unique("uniq_redemption_user", bson.D{{Key: "user", Value: 1}}),
			idx("idx_redemption_creator_date", bson.D{{Key: "creator", Value: 1}, {Key: "date", Value: -1}}),
		}},
		{"events", []mongo.IndexModel{
			idx("idx_events_date", bson.D{{Key: "event_date", Value: -1}}),
			idx("idx_events_created", bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
		}},
		{"event_registrations", []mongo.IndexModel{
			unique("uniq_registration_event_user", bson.D{{Key: "event", Value: 1}, {Key: "user", Value: 1}}),
			idx("idx_registration_user", bson.D{{Key: "user", Value: 1}}),
		}},
		{"exclusive_offers", []mongo.IndexModel{
			idx("idx_offers_user_status", bson.D{{Key: "user", Value: 1}, {Key: "status", Value: 1}}),
			idx("idx_offers_location", bson.D{{Key: "location", Value: "2dsphere"}}),
			idx("idx_offers_created", bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
		}},
		{"offer_favourites", []mongo.IndexModel{
			unique("uniq_favourite_user_offer", bson.D{{Key: "user", Value: 1}, {Key: "offer", Value: 1}}),
		}},
		{"offer_views", []mongo.IndexModel{
			idx("idx_offer_views_offer", bson.D{{Key: "offer", Value: 1}}),
		}},
		{"partner_requests", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "partnership_id", Value: 1}},
				Options: options.Index().SetName("uniq_partner_partnership_id").SetUnique(true).SetSparse(true),
			},
			idx("idx_partner_contact_email", bson.D{{Key: "contact_email", Value: 1}}),
			idx("idx_partner_contact_phone", bson.D{{Key: "contact_phone", Value: 1}}),
		}},
		{"sponsors", []mongo.IndexModel{
			idx("idx_sponsors_created", bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
		}},
		{"stories", []mongo.IndexModel{
			idx("idx_stories_created", bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
		}},
		{"story_likes", []mongo.IndexModel{
			unique("uniq_story_like_user_story", bson.D{{Key: "user", Value: 1}, {Key: "story", Value: 1}}),
			idx("idx_story_like_story", bson.D{{Key: "story", Value: 1}}),
		}},
		{"notifications", []mongo.IndexModel{
			idx("idx_notifications_receiver", bson.D{{Key: "receiver", Value: 1}, {Key: "created_at", Value: -1}}),
			idx("idx_notifications_seen_created", bson.D{{Key: "seen", Value: 1}, {Key: "created_at", Value: 1}}),
		}},
		{"notification_counts", []mongo.IndexModel{
			unique("uniq_notification_count_user", bson.D{{Key: "user", Value: 1}}),
		}},
		{"membership_applications", []mongo.IndexModel{
			{
				Keys:    bson.D{{Key: "membership_id", Value: 1}},
				Options: options.Index().SetName("uniq_membership_id").SetUnique(true).SetSparse(true),
			},
			{
				Keys:    bson.D{{Key: "user", Value: 1}},
				Options: options.Index().SetName("uniq_membership_user").SetUnique(true).SetSparse(true),
			},
			idx("idx_membership_status_created", bson.D{{Key: "membership_status", Value: 1}, {Key: "created_at", Value: -1}}),
		}},
		{"audit_events", []mongo.IndexModel{
			idx("idx_audit_timestamp", bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: -1}}),
			idx("idx_audit_category_type", bson.D{{Key: "category", Value: 1}, {Key: "event_type", Value: 1}, {Key: "timestamp", Value: -1}}),
			idx("idx_audit_user", bson.D{{Key: "user_id", Value: 1}, {Key: "timestamp", Value: -1}}),
		}},
	}
}

/*
EnsureAll is called at startup. Reconciling each collection is idempotent.
Errors are aggregated so every problem is visible and startup fails fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string
	for _, s := range desired() {
		if err := ensureIndexSet(ctx, db.Collection(s.collection), s.models); err != nil {
			problems = append(problems, s.collection+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

/* -------------------------------------------------------------------------- */
/* Reconcile one collection                                                   */
/* -------------------------------------------------------------------------- */

type existingIndex struct {
	Name   string `bson:"name"`
	Key    bson.D `bson:"key"`
	Unique *bool  `bson:"unique,omitempty"`
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

func boolVal(p *bool) bool { return p != nil && *p }

// isDuplicateKeyErr catches E11000 from either write or command errors.
func isDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 {
				return true
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 11000 {
		return true
	}
	return strings.Contains(err.Error(), "E11000")
}

func listExisting(ctx context.Context, coll *mongo.Collection) (map[string]existingIndex, error) {
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := map[string]existingIndex{}
	for cur.Next(ctx) {
		var ix existingIndex
		if err := cur.Decode(&ix); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		out[keySig(ix.Key)] = ix
	}
	return out, cur.Err()
}

func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listExisting(ctx, coll)
	if err != nil {
		// A collection that does not exist yet has no indexes.
		existing = map[string]existingIndex{}
	}

	var errs []string
	for _, m := range models {
		name := ""
		var wantUnique *bool
		if m.Options != nil {
			if m.Options.Name != nil {
				name = *m.Options.Name
			}
			wantUnique = m.Options.Unique
		}
		sig := keySig(m.Keys.(bson.D))
		start := time.Now()

		if ex, ok := existing[sig]; ok {
			if boolVal(wantUnique) == boolVal(ex.Unique) && (name == "" || ex.Name == name) {
				zap.L().Debug("reusing existing index",
					zap.String("collection", coll.Name()),
					zap.String("name", ex.Name),
					zap.String("keys", sig))
				continue
			}
			// Options or name differ: drop and recreate.
			if _, err := coll.Indexes().DropOne(ctx, ex.Name); err != nil {
				errs = append(errs, fmt.Sprintf("%s: drop failed: %v", name, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			if isDuplicateKeyErr(err) && boolVal(wantUnique) {
				errs = append(errs, fmt.Sprintf("%s: cannot create unique index on %s (duplicates present)", name, sig))
			} else {
				errs = append(errs, fmt.Sprintf("%s: %v", name, err))
			}
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig),
			zap.Bool("unique", boolVal(wantUnique)),
			zap.Duration("took", time.Since(start)))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}
