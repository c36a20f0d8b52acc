// internal/app/features/login/handler.go
package login

import (
	"errors"
	"net/http"
	"strings"
	"time"

	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/apperr"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authutil"
	"github.com/dalemusser/guildhub/internal/app/system/respond"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// DefaultTokenTTL is how long an issued bearer token stays valid.
const DefaultTokenTTL = 24 * time.Hour

type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Tokens     *auth.TokenVerifier // nil disables token issuance
	TokenTTL   time.Duration
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, tokens *auth.TokenVerifier, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Tokens:     tokens,
		TokenTTL:   DefaultTokenTTL,
		Log:        logger,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	User  models.User `json:"user"`
	Token string      `json:"token,omitempty"`
}

// HandleLogin handles POST /api/login. On success the session cookie is set
// and, when a token signer is configured, a bearer token is returned too.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, h.Log, err)
		return
	}

	var bad []string
	if !authutil.IsValidEmail(req.Email) {
		bad = append(bad, "email")
	}
	if strings.TrimSpace(req.Password) == "" {
		bad = append(bad, "password")
	}
	if len(bad) > 0 {
		respond.Error(w, h.Log, apperr.Invalid(bad...))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Log.Info("login failed: unknown email", zap.String("email", userstore.NormalizeEmail(req.Email)))
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return
	}
	if err != nil {
		respond.Error(w, h.Log, err)
		return
	}
	if u.Status != "active" || !authutil.CheckPassword(req.Password, u.PasswordHash) {
		h.Log.Info("login failed", zap.String("user_id", u.ID.Hex()), zap.String("status", u.Status))
		respond.Error(w, h.Log, apperr.ErrUnauthorized)
		return
	}

	su := &auth.SessionUser{ID: u.ID.Hex(), Name: u.FullName, Email: u.Email, Role: u.Role}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("save session", zap.Error(err))
		respond.Error(w, h.Log, err)
		return
	}

	resp := loginResponse{User: *u}
	if h.Tokens != nil {
		tok, err := h.Tokens.Sign(su, h.TokenTTL)
		if err != nil {
			respond.Error(w, h.Log, err)
			return
		}
		resp.Token = tok
	}
	h.Log.Info("user logged in", zap.String("user_id", su.ID), zap.String("role", su.Role))
	respond.JSON(w, http.StatusOK, resp)
}
