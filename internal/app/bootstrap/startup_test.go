package bootstrap

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/authutil"
	"github.com/dalemusser/guildhub/internal/app/system/ratelimit"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestEnsureAdmin_CreatesNew(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "Admin@Test.com", "bootstrap-password", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	user, err := userstore.New(db).GetByEmail(ctx, "admin@test.com")
	if err != nil {
		t.Fatalf("failed to find created user: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected role 'admin', got %q", user.Role)
	}
	if user.Status != "active" {
		t.Errorf("expected status 'active', got %q", user.Status)
	}
	if !authutil.CheckPassword("bootstrap-password", user.PasswordHash) {
		t.Error("expected bootstrap password to be set")
	}
}

func TestEnsureAdmin_PromotesExisting(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	existing := fx.CreateMember(ctx, "Existing User", "existing@test.com")

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, existing.Email, "", testLogger()); err != nil {
		t.Fatalf("ensureAdmin failed: %v", err)
	}

	user, err := userstore.New(db).GetByID(ctx, existing.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if user.Role != models.RoleAdmin {
		t.Errorf("expected role 'admin' after promotion, got %q", user.Role)
	}
	if user.PasswordHash != "" {
		t.Error("no password was configured; hash should stay empty")
	}
	if user.FullName != "Existing User" {
		t.Errorf("promotion must not rename the user, got %q", user.FullName)
	}
}

func TestEnsureAdmin_KeepsExistingPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := ensureAdmin(ctx, deps, "admin@test.com", "first-password", testLogger()); err != nil {
		t.Fatalf("first ensureAdmin: %v", err)
	}
	if err := ensureAdmin(ctx, deps, "admin@test.com", "second-password", testLogger()); err != nil {
		t.Fatalf("second ensureAdmin: %v", err)
	}

	count, err := db.Collection("users").CountDocuments(ctx, map[string]any{})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("expected exactly one user, got %d", count)
	}
	user, _ := userstore.New(db).GetByEmail(ctx, "admin@test.com")
	if !authutil.CheckPassword("first-password", user.PasswordHash) {
		t.Error("existing password must not be overwritten on restart")
	}
}

func TestEnsureAdmin_WeakPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := ensureAdmin(ctx, DBDeps{MongoDatabase: db}, "admin@test.com", "short", testLogger()); err != authutil.ErrWeakPassword {
		t.Errorf("expected ErrWeakPassword, got %v", err)
	}
}

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:           "mongodb://localhost:27017",
		MongoDatabase:      "guildhub",
		AuditLogModeration: "all",
		AuditLogMembership: "log",
		RateLimitCount:     60,
		RateLimitWindow:    time.Minute,
		KafkaTopic:         "guildhub.moderation",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"defaults", func(*AppConfig) {}, false},
		{"bad mongo uri", func(c *AppConfig) { c.MongoURI = "postgres://nope" }, true},
		{"short token secret", func(c *AppConfig) { c.TokenSecret = "too-short" }, true},
		{"long token secret", func(c *AppConfig) { c.TokenSecret = "0123456789abcdef0123456789abcdef" }, false},
		{"bad admin email", func(c *AppConfig) { c.AdminEmail = "admin" }, true},
		{"bad audit mode", func(c *AppConfig) { c.AuditLogMembership = "verbose" }, true},
		{"negative rate limit", func(c *AppConfig) { c.RateLimitCount = -1 }, true},
		{"kafka without topic", func(c *AppConfig) { c.KafkaBrokers = []string{"k:9092"}; c.KafkaTopic = "" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateConfig() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSplitList(t *testing.T) {
	got := splitList(" a:9092, ,b:9092,")
	if len(got) != 2 || got[0] != "a:9092" || got[1] != "b:9092" {
		t.Errorf("splitList: %q", got)
	}
	if splitList("") != nil {
		t.Error("empty input should give nil")
	}
}

func TestNewLimiter(t *testing.T) {
	cfg := validConfig()

	cfg.RateLimitCount = 0
	if l := newLimiter(cfg, DBDeps{}, testLogger()); l != nil {
		t.Errorf("zero count should disable limiting, got %T", l)
	}

	cfg.RateLimitCount = 5
	l := newLimiter(cfg, DBDeps{}, testLogger())
	mem, ok := l.(*ratelimit.Limiter)
	if !ok {
		t.Fatalf("without redis expected *ratelimit.Limiter, got %T", l)
	}
	mem.Close()
}

// call sends a JSON request through h with an optional cookie and bearer token.
func call(t *testing.T, h http.Handler, method, path string, body any, cookies []*http.Cookie, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestBuildHandler_EndToEnd(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cfg := validConfig()
	cfg.SessionKey = "test-session-key-must-be-32-chars-long"
	cfg.SessionName = "guildhub-test"
	cfg.SessionMaxAge = time.Hour
	cfg.TokenSecret = "test-token-secret-must-be-32-chars!!"
	cfg.TokenIssuer = "guildhub"
	cfg.RateLimitCount = 0

	deps := DBDeps{MongoClient: db.Client(), MongoDatabase: db}
	if err := EnsureSchema(ctx, &config.CoreConfig{}, cfg, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := ensureAdmin(ctx, deps, "admin@test.com", "admin-password", testLogger()); err != nil {
		t.Fatalf("ensureAdmin: %v", err)
	}
	member := fx.CreateMember(ctx, "Mia", "mia@test.com")
	hash, _ := authutil.HashPassword("member-password")
	if err := userstore.New(db).SetPassword(ctx, member.ID, hash); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}

	h, err := BuildHandler(&config.CoreConfig{Env: "dev"}, cfg, deps, testLogger())
	if err != nil {
		t.Fatalf("BuildHandler: %v", err)
	}

	if rec := call(t, h, "GET", "/health", nil, nil, ""); rec.Code != http.StatusOK {
		t.Fatalf("health: got %d (%s)", rec.Code, rec.Body.String())
	}

	// Member signs in and uses the bearer token.
	rec := call(t, h, "POST", "/api/login", map[string]string{"email": "mia@test.com", "password": "member-password"}, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("member login: got %d (%s)", rec.Code, rec.Body.String())
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &login); err != nil || login.Token == "" {
		t.Fatalf("expected token, err=%v body=%s", err, rec.Body.String())
	}

	rec = call(t, h, "POST", "/api/jobs", map[string]any{
		"title": "Platform Engineer", "company": "Acme", "location": "Berlin",
		"type": "contract", "description": "Keep the lights on",
	}, nil, login.Token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("submit: got %d (%s)", rec.Code, rec.Body.String())
	}
	var job struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &job); err != nil {
		t.Fatalf("decode job: %v", err)
	}
	if job.Status != models.StatusPending {
		t.Errorf("new job status: %q", job.Status)
	}

	// Pending content is invisible to the public.
	if rec := call(t, h, "GET", "/api/jobs/"+job.ID, nil, nil, ""); rec.Code != http.StatusNotFound {
		t.Errorf("anonymous view of pending job: got %d", rec.Code)
	}

	// Member cannot approve.
	if rec := call(t, h, "POST", "/api/jobs/"+job.ID+"/approve", nil, nil, login.Token); rec.Code != http.StatusForbidden {
		t.Errorf("member approve: got %d", rec.Code)
	}

	// Admin signs in with the cookie and approves.
	rec = call(t, h, "POST", "/api/login", map[string]string{"email": "admin@test.com", "password": "admin-password"}, nil, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("admin login: got %d (%s)", rec.Code, rec.Body.String())
	}
	adminCookies := rec.Result().Cookies()

	rec = call(t, h, "GET", "/api/notifications/unread-count", nil, adminCookies, "")
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(`"count":1`)) {
		t.Errorf("admin unread count: got %d (%s)", rec.Code, rec.Body.String())
	}

	if rec := call(t, h, "POST", "/api/jobs/"+job.ID+"/approve", nil, adminCookies, ""); rec.Code != http.StatusOK {
		t.Fatalf("admin approve: got %d (%s)", rec.Code, rec.Body.String())
	}

	if rec := call(t, h, "GET", "/api/jobs/"+job.ID, nil, nil, ""); rec.Code != http.StatusOK {
		t.Errorf("anonymous view of approved job: got %d", rec.Code)
	}

	// Member saves and applies to the approved job; both land in their feed.
	if rec := call(t, h, "POST", "/api/jobs/"+job.ID+"/save", nil, nil, login.Token); rec.Code != http.StatusOK {
		t.Errorf("save job: got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec := call(t, h, "POST", "/api/jobs/"+job.ID+"/apply", map[string]string{"cover_letter": "Hello"}, nil, login.Token); rec.Code != http.StatusCreated {
		t.Errorf("apply: got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = call(t, h, "GET", "/api/me/saved-jobs", nil, nil, login.Token)
	if rec.Code != http.StatusOK || !bytes.Contains(rec.Body.Bytes(), []byte(job.ID)) {
		t.Errorf("saved jobs: got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = call(t, h, "GET", "/api/me/activity", nil, nil, login.Token)
	if rec.Code != http.StatusOK ||
		!bytes.Contains(rec.Body.Bytes(), []byte(models.ActivityJobSaved)) ||
		!bytes.Contains(rec.Body.Bytes(), []byte(models.ActivityJobApplication)) {
		t.Errorf("activity feed: got %d (%s)", rec.Code, rec.Body.String())
	}
	if rec := call(t, h, "GET", "/api/me/registrations", nil, nil, login.Token); rec.Code != http.StatusOK {
		t.Errorf("my registrations: got %d", rec.Code)
	}

	// Logout clears the cookie identity.
	rec = call(t, h, "POST", "/api/logout", nil, adminCookies, "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("logout: got %d", rec.Code)
	}
	if rec := call(t, h, "GET", "/api/notifications", nil, rec.Result().Cookies(), ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("after logout: got %d", rec.Code)
	}
}
