// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nexorahq/nexora/internal/app/analytics"
	analyticsfeature "github.com/nexorahq/nexora/internal/app/features/analytics"
	exportfeature "github.com/nexorahq/nexora/internal/app/features/export"
	facilitiesfeature "github.com/nexorahq/nexora/internal/app/features/facilities"
	healthfeature "github.com/nexorahq/nexora/internal/app/features/health"
	loginfeature "github.com/nexorahq/nexora/internal/app/features/login"
	logoutfeature "github.com/nexorahq/nexora/internal/app/features/logout"
	facilitystore "github.com/nexorahq/nexora/internal/app/store/facilities"
	membershipstore "github.com/nexorahq/nexora/internal/app/store/memberships"
	projectstore "github.com/nexorahq/nexora/internal/app/store/projects"
	taskstore "github.com/nexorahq/nexora/internal/app/store/tasks"
	userstore "github.com/nexorahq/nexora/internal/app/store/users"
	"github.com/nexorahq/nexora/internal/app/system/auth"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// the Startup hook have completed. It builds the stores, the report service
// with its cache, and mounts every feature router.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	db := deps.MongoDatabase
	users := userstore.New(db)
	facilities := facilitystore.New(db)
	memberships := membershipstore.New(db)
	projects := projectstore.New(db)
	tasks := taskstore.New(db)

	svc := analytics.NewService(analytics.Stores{
		Facilities:  facilities,
		Memberships: memberships,
		Projects:    projects,
		Tasks:       tasks,
		Users:       users,
	}, analytics.NewReportCache(appCfg.ReportCacheTTL), logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if signed in.
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(users, sessionMgr, appCfg.SessionKey,
		appCfg.GoogleClientID, appCfg.GoogleClientSecret, appCfg.BaseURL, logger)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler))

	// Facility browsing (membership-gated project and task lists)
	facilitiesHandler := facilitiesfeature.NewHandler(facilities, memberships, projects, tasks, logger)
	r.Mount("/facilities", facilitiesfeature.Routes(facilitiesHandler))

	// Analytics reports
	analyticsHandler := analyticsfeature.NewHandler(svc, logger)
	r.Mount("/analytics", analyticsfeature.Routes(analyticsHandler))

	// PDF export of the same reports
	exportHandler := exportfeature.NewHandler(svc, exportfeature.NewChromeRenderer(), logger)
	r.Mount("/export", exportfeature.Routes(exportHandler))

	return r, nil
}
