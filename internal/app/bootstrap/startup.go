// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/authutil"
	"github.com/dalemusser/guildhub/internal/app/system/timeouts"
	"github.com/dalemusser/guildhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		cur := timeouts.Current()
		logger.Info("timeouts configured from environment",
			zap.Int("overrides", n),
			zap.Duration("short", cur.Short),
			zap.Duration("medium", cur.Medium),
			zap.Duration("long", cur.Long))
	}

	if appCfg.AdminEmail != "" {
		ctx, cancel := context.WithTimeout(ctx, timeouts.Medium())
		defer cancel()
		if err := ensureAdmin(ctx, deps, appCfg.AdminEmail, appCfg.AdminPassword, logger); err != nil {
			return fmt.Errorf("ensure admin: %w", err)
		}
	}
	return nil
}

// ensureAdmin makes sure email belongs to an active admin. An existing user
// is promoted and keeps their password unless they have none. A new user is
// created with the given password, which may be blank (login disabled until
// one is set).
func ensureAdmin(ctx context.Context, deps DBDeps, email, password string, logger *zap.Logger) error {
	users := userstore.New(deps.MongoDatabase)

	var hash string
	if password != "" {
		h, err := authutil.HashPassword(password)
		if err != nil {
			return err
		}
		hash = h
	}

	u, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		created, err := users.Create(ctx, models.User{
			FullName:     "Administrator",
			Email:        email,
			Role:         models.RoleAdmin,
			PasswordHash: hash,
		})
		if err != nil {
			return err
		}
		logger.Info("created bootstrap admin",
			zap.String("user_id", created.ID.Hex()),
			zap.String("email", created.Email),
			zap.Bool("has_password", hash != ""))
		return nil
	case err != nil:
		return err
	}

	if u.Role != models.RoleAdmin {
		if err := users.SetRole(ctx, u.ID, models.RoleAdmin); err != nil {
			return err
		}
		logger.Info("promoted bootstrap admin", zap.String("user_id", u.ID.Hex()), zap.String("from_role", u.Role))
	}
	if u.PasswordHash == "" && hash != "" {
		if err := users.SetPassword(ctx, u.ID, hash); err != nil {
			return err
		}
		logger.Info("set bootstrap admin password", zap.String("user_id", u.ID.Hex()))
	}
	return nil
}
