package bootstrap

import (
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.uber.org/zap"

	"github.com/nexorahq/nexora/internal/testutil"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func validAppConfig() AppConfig {
	return AppConfig{
		MongoURI:       "mongodb://localhost:27017",
		MongoDatabase:  "nexora",
		SessionKey:     "0123456789abcdef0123456789abcdef",
		ReportCacheTTL: 60 * time.Second,
		ReportTimeout:  15 * time.Second,
		RenderTimeout:  45 * time.Second,
	}
}

func TestValidateConfig(t *testing.T) {
	if err := ValidateConfig(nil, validAppConfig(), testLogger()); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestValidateConfig_BadMongoURI(t *testing.T) {
	cfg := validAppConfig()
	cfg.MongoURI = "not-a-mongo-uri"
	if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
		t.Fatal("expected error for malformed mongo URI")
	}
}

func TestValidateConfig_RenderShorterThanReport(t *testing.T) {
	cfg := validAppConfig()
	cfg.RenderTimeout = 5 * time.Second
	err := ValidateConfig(nil, cfg, testLogger())
	if err == nil {
		t.Fatal("expected error when render_timeout < report_timeout")
	}
	if !strings.Contains(err.Error(), "render_timeout") {
		t.Errorf("error should name render_timeout, got: %v", err)
	}
}

func TestValidateConfig_HalfConfiguredOAuth(t *testing.T) {
	cfg := validAppConfig()
	cfg.GoogleClientID = "client-id"
	if err := ValidateConfig(nil, cfg, testLogger()); err == nil {
		t.Fatal("expected error for client ID without secret")
	}
}

func TestEnsureSchemaCreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db}
	if err := EnsureSchema(ctx, nil, validAppConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	// Spot-check one collection: users must carry the unique email_ci index.
	cur, err := db.Collection("users").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("list user indexes: %v", err)
	}
	var found bool
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("decode index: %v", err)
		}
		if keys, ok := idx["key"].(bson.M); ok {
			if _, ok := keys["email_ci"]; ok {
				found = true
			}
		}
	}
	if !found {
		t.Error("expected an index on users.email_ci")
	}

	// Running again must be a no-op, not a duplicate-index error.
	if err := EnsureSchema(ctx, nil, validAppConfig(), deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema second run failed: %v", err)
	}
}
