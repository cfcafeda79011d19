package identity_test

import (
	"context"
	"testing"

	"github.com/nexorahq/nexora/internal/app/system/identity"
	"github.com/nexorahq/nexora/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeUsers struct {
	byID    map[primitive.ObjectID]models.User
	byUID   map[string]models.User
	byEmail map[string]models.User
}

func (f *fakeUsers) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return models.User{}, identity.ErrUnresolvable
}

func (f *fakeUsers) GetByAuthUID(_ context.Context, uid string) (models.User, error) {
	if u, ok := f.byUID[uid]; ok {
		return u, nil
	}
	return models.User{}, identity.ErrUnresolvable
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return models.User{}, identity.ErrUnresolvable
}

func TestResolve(t *testing.T) {
	id := primitive.NewObjectID()
	internal := models.User{ID: id, Email: "internal@example.com"}
	external := models.User{ID: primitive.NewObjectID(), FirebaseUID: "fb-abc123"}
	byMail := models.User{ID: primitive.NewObjectID(), Email: "mail@example.com"}

	r := identity.NewResolver(&fakeUsers{
		byID:    map[primitive.ObjectID]models.User{id: internal},
		byUID:   map[string]models.User{"fb-abc123": external},
		byEmail: map[string]models.User{"mail@example.com": byMail},
	})
	ctx := context.Background()

	tests := []struct {
		name      string
		candidate string
		want      primitive.ObjectID
		wantErr   bool
	}{
		{"objectid hex", id.Hex(), id, false},
		{"auth uid", "fb-abc123", external.ID, false},
		{"email", "mail@example.com", byMail.ID, false},
		{"whitespace trimmed", "  fb-abc123  ", external.ID, false},
		{"empty", "", primitive.NilObjectID, true},
		{"unknown", "nobody", primitive.NilObjectID, true},
		{"unknown email not substring-matched", "ail@example.com", primitive.NilObjectID, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := r.Resolve(ctx, tc.candidate)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q) succeeded, want error", tc.candidate)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q): %v", tc.candidate, err)
			}
			if u.ID != tc.want {
				t.Errorf("Resolve(%q) = %v, want %v", tc.candidate, u.ID, tc.want)
			}
		})
	}
}

func TestResolve_ObjectIDMissFallsThrough(t *testing.T) {
	// A hex-shaped candidate that is not a known internal ID must still be
	// tried as an auth UID before giving up.
	hexUID := primitive.NewObjectID().Hex()
	external := models.User{ID: primitive.NewObjectID(), FirebaseUID: hexUID}

	r := identity.NewResolver(&fakeUsers{
		byUID: map[string]models.User{hexUID: external},
	})

	u, err := r.Resolve(context.Background(), hexUID)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if u.ID != external.ID {
		t.Errorf("got %v, want %v", u.ID, external.ID)
	}
}
