package projectstore_test

import (
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	projectstore "github.com/nexorahq/nexora/internal/app/store/projects"
	"github.com/nexorahq/nexora/internal/domain/models"
	"github.com/nexorahq/nexora/internal/testutil"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Project{
		FacilityID: primitive.NewObjectID(),
		Name:       "Platform Rollout",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI != "platform rollout" {
		t.Errorf("expected folded name_ci, got %q", created.NameCI)
	}
	if created.Status != "active" {
		t.Errorf("expected default status 'active', got %q", created.Status)
	}
}

func TestStore_ByFacility_ExcludesArchivedAndDeleted(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	facility := primitive.NewObjectID()

	live, err := store.Create(ctx, models.Project{FacilityID: facility, Name: "Live"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	archived, err := store.Create(ctx, models.Project{FacilityID: facility, Name: "Archived", Archived: true})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	deleted, err := store.Create(ctx, models.Project{FacilityID: facility, Name: "Deleted"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	now := time.Now().UTC()
	if _, err := db.Collection("projects").UpdateByID(ctx, deleted.ID,
		bson.M{"$set": bson.M{"deleted_at": now}}); err != nil {
		t.Fatalf("mark deleted: %v", err)
	}

	got, err := store.ByFacility(ctx, facility)
	if err != nil {
		t.Fatalf("ByFacility failed: %v", err)
	}
	if len(got) != 1 || got[0].ID != live.ID {
		t.Errorf("expected only the live project, got %d projects", len(got))
	}

	all, err := store.ByFacilityAll(ctx, facility)
	if err != nil {
		t.Fatalf("ByFacilityAll failed: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 projects including archived %s, got %d", archived.ID.Hex(), len(all))
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := projectstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, projectstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
