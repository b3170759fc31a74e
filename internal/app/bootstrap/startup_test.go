package bootstrap

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/abdullahalnomandev/alpha-backend--n/internal/domain/models"
	"github.com/abdullahalnomandev/alpha-backend--n/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func testAppConfig() AppConfig {
	return AppConfig{
		MongoURI:             "mongodb://localhost:27017",
		SessionKey:           "test-session-key-for-testing-only-0123456789",
		SessionName:          "alphaclub-test",
		SessionMaxAge:        time.Hour,
		SiteName:             "Alpha Club",
		BaseURL:              "http://localhost:3000",
		ClubTimezone:         "UTC",
		AttendanceDailyLimit: 50,
		PartnerRequestLimit:  5,
		PartnerRequestWindow: time.Hour,
		EmailVerifyExpiry:    3 * time.Minute,
		AuditLogAuth:         "all",
		AuditLogAdmin:        "db",
	}
}

func TestEnsureSuperAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := testAppConfig()
	cfg.SuperAdminName = "Root"
	cfg.SuperAdminEmail = "Root@Club.test"
	cfg.SuperAdminPassword = "s3cret-pass"

	if err := ensureSuperAdmin(ctx, DBDeps{MongoDatabase: db}, cfg, zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin: %v", err)
	}

	var u models.User
	if err := db.Collection("users").FindOne(ctx, bson.M{"email": "root@club.test"}).Decode(&u); err != nil {
		t.Fatalf("find superadmin: %v", err)
	}
	if u.Role != "superadmin" {
		t.Errorf("role = %q, want superadmin", u.Role)
	}
	if !u.Verified {
		t.Error("superadmin should be verified")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("s3cret-pass")) != nil {
		t.Error("password hash does not match")
	}
}

func TestEnsureSuperAdmin_LeavesExistingUser(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fx := testutil.NewFixtures(t, db)
	fx.CreateUser(ctx, "Existing", "owner@club.test", "admin")

	cfg := testAppConfig()
	cfg.SuperAdminEmail = "owner@club.test"
	for i := 0; i < 2; i++ {
		if err := ensureSuperAdmin(ctx, DBDeps{MongoDatabase: db}, cfg, zap.NewNop()); err != nil {
			t.Fatalf("ensureSuperAdmin: %v", err)
		}
	}

	n, err := db.Collection("users").CountDocuments(ctx, bson.M{"email": "owner@club.test"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("users with email = %d, want 1", n)
	}
	var u models.User
	_ = db.Collection("users").FindOne(ctx, bson.M{"email": "owner@club.test"}).Decode(&u)
	if u.Role != "admin" {
		t.Errorf("existing role changed to %q", u.Role)
	}
}

func TestEnsureSuperAdmin_SkipsWithoutEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureSuperAdmin(ctx, DBDeps{MongoDatabase: db}, testAppConfig(), zap.NewNop()); err != nil {
		t.Fatalf("ensureSuperAdmin: %v", err)
	}
	n, _ := db.Collection("users").CountDocuments(ctx, bson.M{})
	if n != 0 {
		t.Errorf("users = %d, want 0", n)
	}
}

func TestValidateConfig(t *testing.T) {
	dev := &config.CoreConfig{Env: "dev"}
	prod := &config.CoreConfig{Env: "prod"}

	tests := []struct {
		name    string
		core    *config.CoreConfig
		mutate  func(*AppConfig)
		wantErr string
	}{
		{"valid", dev, func(*AppConfig) {}, ""},
		{"bad uri", dev, func(c *AppConfig) { c.MongoURI = "postgres://nope" }, "MongoDB URI"},
		{"bad timezone", dev, func(c *AppConfig) { c.ClubTimezone = "Nowhere/Land" }, "club_timezone"},
		{"zero limit", dev, func(c *AppConfig) { c.AttendanceDailyLimit = 0 }, "attendance_daily_limit"},
		{"zero partner limit", dev, func(c *AppConfig) { c.PartnerRequestLimit = 0 }, "partner_request_limit"},
		{"bad audit mode", dev, func(c *AppConfig) { c.AuditLogAdmin = "loud" }, "audit_log_admin"},
		{"dev key in prod", prod, func(c *AppConfig) { c.SessionKey = devSessionKey }, "session_key"},
		{"short key in prod", prod, func(c *AppConfig) { c.SessionKey = "short" }, "session_key"},
		{"dev key in dev", dev, func(c *AppConfig) { c.SessionKey = devSessionKey }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testAppConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(tt.core, cfg, zap.NewNop())
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" http://a.test, ,http://b.test ")
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Errorf("splitList = %q", got)
	}
	if splitList("") != nil {
		t.Error("empty input should yield nil")
	}
}

func TestBackground_StopAllOnceInReverse(t *testing.T) {
	var order []int
	b := &Background{}
	b.Add(func() { order = append(order, 1) })
	b.Add(func() { order = append(order, 2) })
	b.StopAll()
	b.StopAll()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("stop order = %v, want [2 1]", order)
	}

	var nilBG *Background
	nilBG.Add(func() {})
	nilBG.StopAll()
}

func TestBuildHandler_Routes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db, Background: &Background{}}
	defer deps.Background.StopAll()

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, testAppConfig(), deps, zap.NewNop())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	tests := []struct {
		method, path string
		want         int
	}{
		{"GET", "/health", http.StatusOK},
		{"GET", "/metrics", http.StatusOK},
		{"GET", "/api/v1/events", http.StatusUnauthorized},
		{"GET", "/api/v1/daily-attendance", http.StatusUnauthorized},
		{"GET", "/api/v1/membership-applications/my-application", http.StatusUnauthorized},
		{"GET", "/api/v1/notifications", http.StatusUnauthorized},
		{"GET", "/api/v1/audit-events", http.StatusUnauthorized},
		{"GET", "/api/v1/nope", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}
