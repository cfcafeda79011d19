package facilitystore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	facilitystore "github.com/nexorahq/nexora/internal/app/store/facilities"
	"github.com/nexorahq/nexora/internal/domain/models"
	"github.com/nexorahq/nexora/internal/testutil"
)

func TestStore_Create_OwnerBecomesMember(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := facilitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	created, err := store.Create(ctx, models.Facility{
		Name:    "Alpha Site",
		OwnerID: owner,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI != "alpha site" {
		t.Errorf("expected folded name_ci, got %q", created.NameCI)
	}
	if created.Status != "active" {
		t.Errorf("expected default status 'active', got %q", created.Status)
	}

	var found bool
	for _, m := range created.Members {
		if m == owner {
			found = true
		}
	}
	if !found {
		t.Error("expected owner in members array")
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := facilitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, facilitystore.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestStore_ByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := facilitystore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a, err := store.Create(ctx, models.Facility{Name: "Alpha", OwnerID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	b, err := store.Create(ctx, models.Facility{Name: "Beta", OwnerID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	got, err := store.ByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("ByIDs failed: %v", err)
	}
	if len(got) != 2 {
		t.Errorf("expected 2 facilities, got %d", len(got))
	}

	if got, err := store.ByIDs(ctx, nil); err != nil || got != nil {
		t.Errorf("expected nil result for empty input, got %v, %v", got, err)
	}
}
