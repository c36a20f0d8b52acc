package userinfo_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/guildhub/internal/app/features/userinfo"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/testutil"
)

func TestServeUserInfo_Unauthenticated(t *testing.T) {
	h := userinfo.NewHandler()

	rec := testutil.NewRecorder()
	h.ServeUserInfo(rec, httptest.NewRequest("GET", "/api/me", nil))

	rec.AssertStatus(t, http.StatusOK)
	var body map[string]any
	rec.DecodeJSON(t, &body)
	if body["authenticated"] != false {
		t.Errorf("expected authenticated=false, got %v", body["authenticated"])
	}
	if _, ok := body["id"]; ok {
		t.Error("anonymous response must not carry an id")
	}
}

func TestServeUserInfo_Authenticated(t *testing.T) {
	h := userinfo.NewHandler()

	req := auth.WithTestUser(httptest.NewRequest("GET", "/api/me", nil), &auth.SessionUser{
		ID:    "65a000000000000000000001",
		Name:  "Test User",
		Email: "test@example.com",
		Role:  "member",
	})
	rec := testutil.NewRecorder()
	h.ServeUserInfo(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" && ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var body map[string]any
	rec.DecodeJSON(t, &body)
	if body["authenticated"] != true || body["name"] != "Test User" || body["role"] != "member" || body["email"] != "test@example.com" {
		t.Errorf("unexpected body: %v", body)
	}
}
