// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activityfeature "github.com/dalemusser/guildhub/internal/app/features/activity"
	auditlogfeature "github.com/dalemusser/guildhub/internal/app/features/auditlog"
	contentfeature "github.com/dalemusser/guildhub/internal/app/features/content"
	discussionsfeature "github.com/dalemusser/guildhub/internal/app/features/discussions"
	healthfeature "github.com/dalemusser/guildhub/internal/app/features/health"
	jobsfeature "github.com/dalemusser/guildhub/internal/app/features/jobs"
	loginfeature "github.com/dalemusser/guildhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/guildhub/internal/app/features/logout"
	membershipsfeature "github.com/dalemusser/guildhub/internal/app/features/memberships"
	mentoringfeature "github.com/dalemusser/guildhub/internal/app/features/mentoring"
	notificationsfeature "github.com/dalemusser/guildhub/internal/app/features/notifications"
	seminarsfeature "github.com/dalemusser/guildhub/internal/app/features/seminars"
	userinfofeature "github.com/dalemusser/guildhub/internal/app/features/userinfo"
	activitystore "github.com/dalemusser/guildhub/internal/app/store/activity"
	applicationstore "github.com/dalemusser/guildhub/internal/app/store/applications"
	"github.com/dalemusser/guildhub/internal/app/store/audit"
	documentstore "github.com/dalemusser/guildhub/internal/app/store/documents"
	mentorstore "github.com/dalemusser/guildhub/internal/app/store/mentors"
	notificationstore "github.com/dalemusser/guildhub/internal/app/store/notifications"
	registrationstore "github.com/dalemusser/guildhub/internal/app/store/registrations"
	seminarstore "github.com/dalemusser/guildhub/internal/app/store/seminars"
	userstore "github.com/dalemusser/guildhub/internal/app/store/users"
	"github.com/dalemusser/guildhub/internal/app/system/activity"
	"github.com/dalemusser/guildhub/internal/app/system/auditlog"
	"github.com/dalemusser/guildhub/internal/app/system/auth"
	"github.com/dalemusser/guildhub/internal/app/system/authz"
	"github.com/dalemusser/guildhub/internal/app/system/membership"
	"github.com/dalemusser/guildhub/internal/app/system/moderation"
	"github.com/dalemusser/guildhub/internal/app/system/notify"
	"github.com/dalemusser/guildhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed.
//
// GuildHub serves /health and a JSON API under /api. Every API feature
// registers its full paths on the one /api router: the content routes use
// /{kind} patterns, and mounting sub-routers beside them would shadow those.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	// Fresh user data on each request, so role changes and disabled accounts
	// take effect immediately.
	sessionMgr.SetUserFetcher(userstore.NewFetcher(deps.MongoDatabase))

	var tokens *auth.TokenVerifier
	if appCfg.TokenSecret != "" {
		tokens, err = auth.NewTokenVerifier(appCfg.TokenSecret, appCfg.TokenIssuer)
		if err != nil {
			logger.Error("token verifier init failed", zap.Error(err))
			return nil, err
		}
		sessionMgr.SetTokenVerifier(tokens)
	}

	db := deps.MongoDatabase
	users := userstore.New(db)
	events := audit.New(db)
	docs := documentstore.New(db)
	regs := registrationstore.New(db)
	inbox := notificationstore.New(db)
	apps := applicationstore.New(db)
	feed := activitystore.New(db)
	recorder := activity.NewRecorder(feed, logger)
	auditLog := auditlog.New(events, logger, auditlog.Config{
		Moderation: appCfg.AuditLogModeration,
		Membership: appCfg.AuditLogMembership,
	})

	notifiers := notify.Fanout{notify.NewInbox(inbox)}
	if deps.Kafka != nil {
		notifiers = append(notifiers, deps.Kafka)
	}
	roles := authz.Roles{}
	engine := moderation.New(docs, roles, notifiers, logger)
	mutator := membership.New(docs)

	r := chi.NewRouter()

	// Loads the caller from the session cookie or bearer token.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, deps.Redis, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	limiter := newLimiter(appCfg, deps, logger)

	r.Route("/api", func(api chi.Router) {
		if limiter != nil {
			api.Use(ratelimit.Middleware(limiter, logger))
		}

		loginfeature.Routes(api, loginfeature.NewHandler(users, sessionMgr, tokens, logger))
		logoutfeature.Routes(api, logoutfeature.NewHandler(sessionMgr, logger))
		userinfofeature.Routes(api, userinfofeature.NewHandler())
		auditlogfeature.Routes(api, auditlogfeature.NewHandler(events, users, logger), sessionMgr)

		notificationsfeature.Routes(api, notificationsfeature.NewHandler(inbox, logger), sessionMgr)
		seminarsfeature.Routes(api, seminarsfeature.NewHandler(seminarstore.New(db), logger), roles)
		discussionsfeature.Routes(api, discussionsfeature.NewHandler(docs, logger), sessionMgr)
		membershipsfeature.Routes(api, membershipsfeature.NewHandler(mutator, regs, recorder, auditLog, logger), sessionMgr)
		jobsfeature.Routes(api, jobsfeature.NewHandler(engine, apps, roles, notifiers, recorder, logger), sessionMgr)
		mentoringfeature.Routes(api, mentoringfeature.NewHandler(mentorstore.New(db), notifiers, recorder, logger), sessionMgr)
		activityfeature.Routes(api, activityfeature.NewHandler(feed, logger), sessionMgr)

		// Moderated kinds: /{kind} and /{kind}/{id}.
		contentfeature.Routes(api, contentfeature.NewHandler(engine, regs, apps, auditLog, logger), sessionMgr)
	})

	return r, nil
}

// newLimiter picks the shared Redis limiter when Redis is connected and the
// in-process one otherwise. A zero count disables limiting.
func newLimiter(appCfg AppConfig, deps DBDeps, logger *zap.Logger) ratelimit.Allower {
	if appCfg.RateLimitCount <= 0 {
		logger.Info("rate limiting disabled")
		return nil
	}
	if deps.Redis != nil {
		logger.Info("rate limiting via Redis",
			zap.Int("count", appCfg.RateLimitCount),
			zap.Duration("window", appCfg.RateLimitWindow))
		return ratelimit.NewRedis(deps.Redis, "guildhub:rl", appCfg.RateLimitCount, appCfg.RateLimitWindow)
	}
	logger.Info("rate limiting in memory",
		zap.Int("count", appCfg.RateLimitCount),
		zap.Duration("window", appCfg.RateLimitWindow))
	return ratelimit.New(appCfg.RateLimitCount, appCfg.RateLimitWindow)
}
