// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"

	facilitystore "github.com/nexorahq/nexora/internal/app/store/facilities"
	membershipstore "github.com/nexorahq/nexora/internal/app/store/memberships"
	projectstore "github.com/nexorahq/nexora/internal/app/store/projects"
	taskstore "github.com/nexorahq/nexora/internal/app/store/tasks"
	userstore "github.com/nexorahq/nexora/internal/app/store/users"
)

// ConnectDB establishes the MongoDB connection used by every store.
// The returned deps are passed to EnsureSchema, Startup, BuildHandler,
// and Shutdown.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return DBDeps{}, fmt.Errorf("connect mongodb: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return DBDeps{}, fmt.Errorf("ping mongodb: %w", err)
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		MongoClient:   client,
		MongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates the indexes each store depends on. Index creation
// in MongoDB is idempotent, so this runs unconditionally on every start.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.MongoDatabase

	type indexer interface {
		EnsureIndexes(ctx context.Context) error
	}
	stores := map[string]indexer{
		"users":           userstore.New(db),
		"facilities":      facilitystore.New(db),
		"user_facilities": membershipstore.New(db),
		"projects":        projectstore.New(db),
		"tasks":           taskstore.New(db),
	}

	for name, s := range stores {
		if err := s.EnsureIndexes(ctx); err != nil {
			logger.Error("index creation failed",
				zap.String("collection", name), zap.Error(err))
			return fmt.Errorf("ensure indexes for %s: %w", name, err)
		}
	}

	logger.Info("database indexes ensured", zap.Int("collections", len(stores)))
	return nil
}
