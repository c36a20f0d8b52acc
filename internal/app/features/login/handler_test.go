package login_test

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/guildhub/internal/app/features/login"
	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authutil"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/guildhub/internal/testutil"
	"go.uber.org/zap"
)

const secret = "test-token-secret-must-be-32-chars!!"

func newTestHandler(t *testing.T) (*login.Handler, *testutil.Fixtures, *auth.TokenVerifier) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	tv, err := auth.NewTokenVerifier(secret, "guildhub")
	if err != nil {
		t.Fatalf("token verifier: %v", err)
	}
	return login.NewHandler(userstore.New(db), sm, tv, logger), testutil.NewFixtures(t, db), tv
}

func withPassword(t *testing.T, fx *testutil.Fixtures, u models.User, password string) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	hash, err := authutil.HashPassword(password)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := userstore.New(fx.DB()).SetPassword(ctx, u.ID, hash); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
}

func TestHandleLogin_Success(t *testing.T) {
	h, fx, tv := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateMember(ctx, "Ada", "ada@example.com")
	withPassword(t, fx, u, "analytical-engine")

	rec := testutil.NewRecorder()
	h.HandleLogin(rec, testutil.NewJSONRequest("POST", "/api/login", map[string]string{
		"email": " ADA@example.com ", "password": "analytical-engine",
	}))
	rec.AssertStatus(t, http.StatusOK)

	if !strings.Contains(rec.Header().Get("Set-Cookie"), "test-session=") {
		t.Errorf("expected session cookie, got %q", rec.Header().Get("Set-Cookie"))
	}
	rec.AssertContains(t, `"email":"ada@example.com"`)
	if strings.Contains(rec.Body.String(), "password_hash") {
		t.Error("password hash must not be serialized")
	}

	var body struct {
		Token string `json:"token"`
	}
	rec.DecodeJSON(t, &body)
	su, err := tv.Verify(body.Token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if su.ID != u.ID.Hex() || su.Role != models.RoleMember {
		t.Errorf("token identity: %+v", su)
	}
}

func TestHandleLogin_Rejections(t *testing.T) {
	h, fx, _ := newTestHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fx.CreateMember(ctx, "Ada", "ada@example.com")
	withPassword(t, fx, u, "analytical-engine")
	disabled := fx.CreateMember(ctx, "Off", "off@example.com")
	withPassword(t, fx, disabled, "analytical-engine")
	if _, err := fx.DB().Collection("users").UpdateByID(ctx, disabled.ID, map[string]any{"$set": map[string]any{"status": "disabled"}}); err != nil {
		t.Fatalf("disable: %v", err)
	}
	nopass := fx.CreateMember(ctx, "Nopass", "nopass@example.com")

	tests := []struct {
		name     string
		email    string
		password string
		want     int
	}{
		{"bad email", "not-an-email", "analytical-engine", http.StatusBadRequest},
		{"empty password", "ada@example.com", "", http.StatusBadRequest},
		{"unknown email", "nobody@example.com", "analytical-engine", http.StatusUnauthorized},
		{"wrong password", "ada@example.com", "difference-engine", http.StatusUnauthorized},
		{"disabled", "off@example.com", "analytical-engine", http.StatusUnauthorized},
		{"no password set", nopass.Email, "analytical-engine", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.HandleLogin(rec, testutil.NewJSONRequest("POST", "/api/login", map[string]string{
				"email": tt.email, "password": tt.password,
			}))
			rec.AssertStatus(t, tt.want)
			if rec.Header().Get("Set-Cookie") != "" {
				t.Error("no cookie expected on failure")
			}
		})
	}
}
