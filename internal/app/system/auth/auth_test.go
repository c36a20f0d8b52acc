package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	_, err := auth.NewSessionManager("", "s", "", time.Hour, false, zap.NewNop())
	if err == nil {
		t.Fatal("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)
	rec := httptest.NewRecorder()

	sm.RequireSignedIn(okHandler()).ServeHTTP(rec, httptest.NewRequest("GET", "/api/jobs", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
}

func TestRequireSignedIn_WithUser_Proceeds(t *testing.T) {
	sm := newTestSessionManager(t)
	rec := httptest.NewRecorder()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/api/jobs", nil), &auth.SessionUser{ID: "u1", Role: "member"})

	sm.RequireSignedIn(okHandler()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		user    *auth.SessionUser
		allowed []string
		want    int
	}{
		{"no user", nil, []string{"admin"}, http.StatusUnauthorized},
		{"wrong role", &auth.SessionUser{ID: "u1", Role: "member"}, []string{"admin"}, http.StatusForbidden},
		{"correct role", &auth.SessionUser{ID: "u1", Role: "admin"}, []string{"admin"}, http.StatusOK},
		{"multiple roles", &auth.SessionUser{ID: "u1", Role: "member"}, []string{"admin", "member"}, http.StatusOK},
		{"case insensitive", &auth.SessionUser{ID: "u1", Role: "ADMIN"}, []string{" admin "}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/jobs/1/approve", nil)
			if tt.user != nil {
				req = auth.WithTestUser(req, tt.user)
			}
			rec := httptest.NewRecorder()

			auth.RequireRole(tt.allowed...)(okHandler()).ServeHTTP(rec, req)

			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLoadSessionUser_CookieRoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	// Sign in on one request, then replay the cookie on the next.
	signIn := httptest.NewRecorder()
	u := &auth.SessionUser{ID: "64b000000000000000000001", Name: "Ada", Email: "ada@example.com", Role: "member"}
	if err := sm.SignIn(signIn, httptest.NewRequest("POST", "/login", nil), u); err != nil {
		t.Fatalf("SignIn: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/jobs", nil)
	for _, c := range signIn.Result().Cookies() {
		req.AddCookie(c)
	}

	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("expected user from session cookie")
	}
	if got.ID != u.ID || got.Role != "member" || got.Email != u.Email {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestSignIn_ReplacesStaleCookie(t *testing.T) {
	// A cookie signed with a rotated-away key must not block a new sign-in.
	old, err := auth.NewSessionManager("an-older-session-key-also-32-chars!!", "test-session", "", time.Hour, false, zap.NewNop())
	if err != nil {
		t.Fatalf("old session manager: %v", err)
	}
	stale := httptest.NewRecorder()
	if err := old.SignIn(stale, httptest.NewRequest("POST", "/login", nil), &auth.SessionUser{ID: "x"}); err != nil {
		t.Fatalf("old SignIn: %v", err)
	}

	sm := newTestSessionManager(t)
	req := httptest.NewRequest("POST", "/login", nil)
	for _, c := range stale.Result().Cookies() {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	if err := sm.SignIn(rec, req, &auth.SessionUser{ID: "64b000000000000000000001", Role: "member"}); err != nil {
		t.Fatalf("SignIn over stale cookie: %v", err)
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("expected a fresh session cookie")
	}
}

type stubFetcher struct{ user *auth.SessionUser }

func (s stubFetcher) FetchUser(_ context.Context, _ string) *auth.SessionUser { return s.user }

func TestLoadSessionUser_FetcherDisablesUser(t *testing.T) {
	sm := newTestSessionManager(t)
	sm.SetUserFetcher(stubFetcher{user: nil})

	signIn := httptest.NewRecorder()
	_ = sm.SignIn(signIn, httptest.NewRequest("POST", "/login", nil), &auth.SessionUser{ID: "u1", Role: "member"})

	req := httptest.NewRequest("GET", "/api/jobs", nil)
	for _, c := range signIn.Result().Cookies() {
		req.AddCookie(c)
	}

	var found bool
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, found = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)

	if found {
		t.Error("expected no user when fetcher rejects the session")
	}
}

func TestLoadSessionUser_BearerToken(t *testing.T) {
	sm := newTestSessionManager(t)
	tv, err := auth.NewTokenVerifier("test-token-secret-must-be-32-chars-long", "guildhub")
	if err != nil {
		t.Fatalf("NewTokenVerifier: %v", err)
	}
	sm.SetTokenVerifier(tv)

	tok, err := tv.Sign(&auth.SessionUser{ID: "u42", Name: "Grace", Role: "admin"}, time.Hour)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+tok)

	var got *auth.SessionUser
	sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})).ServeHTTP(httptest.NewRecorder(), req)

	if got == nil || got.ID != "u42" || got.Role != "admin" {
		t.Errorf("unexpected user: %+v", got)
	}
}

func TestTokenVerifier_Rejects(t *testing.T) {
	tv, _ := auth.NewTokenVerifier("test-token-secret-must-be-32-chars-long", "guildhub")
	other, _ := auth.NewTokenVerifier("another-secret-that-is-32-chars-long!!", "guildhub")
	wrongIssuer, _ := auth.NewTokenVerifier("test-token-secret-must-be-32-chars-long", "elsewhere")

	u := &auth.SessionUser{ID: "u1", Role: "member"}
	expired, _ := tv.Sign(u, -time.Hour)
	forged, _ := other.Sign(u, time.Hour)
	foreign, _ := wrongIssuer.Sign(u, time.Hour)

	for name, tok := range map[string]string{
		"expired":      expired,
		"wrong secret": forged,
		"wrong issuer": foreign,
		"garbage":      "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := tv.Verify(tok); err == nil {
				t.Error("expected verification to fail")
			}
		})
	}
}

func TestNewTokenVerifier_ShortSecret(t *testing.T) {
	if _, err := auth.NewTokenVerifier("short", ""); err == nil {
		t.Error("expected error for short secret")
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	if _, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil)); ok {
		t.Error("expected no user")
	}
}
