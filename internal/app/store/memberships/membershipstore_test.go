package membershipstore_test

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	membershipstore "github.com/nexorahq/nexora/internal/app/store/memberships"
	"github.com/nexorahq/nexora/internal/domain/models"
	"github.com/nexorahq/nexora/internal/testutil"
)

func TestStore_Add(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	facility := primitive.NewObjectID()

	uf, err := store.Add(ctx, user, facility, models.RoleManager)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if uf.Role != models.RoleManager {
		t.Errorf("expected role manager, got %q", uf.Role)
	}
	if !uf.IsManagerial() {
		t.Error("manager role should be managerial")
	}

	got, err := store.Get(ctx, user, facility)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.ID != uf.ID {
		t.Errorf("expected membership %s, got %s", uf.ID.Hex(), got.ID.Hex())
	}
}

func TestStore_Add_BadRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.Add(ctx, primitive.NewObjectID(), primitive.NewObjectID(), "superuser"); err == nil {
		t.Fatal("expected error for invalid role")
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := store.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes failed: %v", err)
	}

	user := primitive.NewObjectID()
	facility := primitive.NewObjectID()

	if _, err := store.Add(ctx, user, facility, models.RoleMember); err != nil {
		t.Fatalf("first Add failed: %v", err)
	}
	_, err := store.Add(ctx, user, facility, models.RoleGuest)
	if !errors.Is(err, membershipstore.ErrDuplicateMembership) {
		t.Errorf("expected ErrDuplicateMembership, got %v", err)
	}
}

func TestStore_ByUserAndByFacility(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	facA := primitive.NewObjectID()
	facB := primitive.NewObjectID()
	other := primitive.NewObjectID()

	for _, add := range []struct {
		u, f primitive.ObjectID
		role string
	}{
		{user, facA, models.RoleOwner},
		{user, facB, models.RoleMember},
		{other, facA, models.RoleGuest},
	} {
		if _, err := store.Add(ctx, add.u, add.f, add.role); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	byUser, err := store.ByUser(ctx, user)
	if err != nil {
		t.Fatalf("ByUser failed: %v", err)
	}
	if len(byUser) != 2 {
		t.Errorf("expected 2 memberships for user, got %d", len(byUser))
	}

	byFac, err := store.ByFacility(ctx, facA)
	if err != nil {
		t.Fatalf("ByFacility failed: %v", err)
	}
	if len(byFac) != 2 {
		t.Errorf("expected 2 memberships for facility, got %d", len(byFac))
	}
}

func TestStore_Remove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := membershipstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	user := primitive.NewObjectID()
	facility := primitive.NewObjectID()
	if _, err := store.Add(ctx, user, facility, models.RoleMember); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	n, err := store.Remove(ctx, user, facility)
	if err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 deletion, got %d", n)
	}

	if _, err := store.Get(ctx, user, facility); !errors.Is(err, membershipstore.ErrNotFound) {
		t.Errorf("expected ErrNotFound after removal, got %v", err)
	}
}
