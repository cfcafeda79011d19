// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"

	"github.com/nexorahq/nexora/internal/app/system/timeouts"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. Nexora
// uses it to apply the configured request-timeout tiers so that report
// handlers pick them up before the first request.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Long:   appCfg.ReportTimeout,
		Render: appCfg.RenderTimeout,
	})
	return nil
}
