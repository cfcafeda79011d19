// Package identity resolves a caller-supplied user reference to a canonical
// user record.
//
// Clients address members three different ways: by internal ObjectID, by
// external auth UID, and occasionally by email. Rather than inlining the
// "guess the right ID format" branches at every call site, Resolve is the
// single lookup used everywhere.
package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/nexorahq/nexora/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrUnresolvable means the candidate matched no user by any strategy.
var ErrUnresolvable = errors.New("identity: no user matches candidate")

// UserLookup is the slice of the user store the resolver needs.
type UserLookup interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetByAuthUID(ctx context.Context, uid string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
}

type Resolver struct {
	users UserLookup
}

func NewResolver(users UserLookup) *Resolver {
	return &Resolver{users: users}
}

// Resolve tries, in order: internal ObjectID hex, external auth UID, exact
// email. The first hit wins; ErrUnresolvable when every strategy misses.
func (r *Resolver) Resolve(ctx context.Context, candidate string) (models.User, error) {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return models.User{}, ErrUnresolvable
	}

	if oid, err := primitive.ObjectIDFromHex(candidate); err == nil {
		if u, err := r.users.GetByID(ctx, oid); err == nil {
			return u, nil
		}
	}

	if u, err := r.users.GetByAuthUID(ctx, candidate); err == nil {
		return u, nil
	}

	if strings.ContainsRune(candidate, '@') {
		if u, err := r.users.GetByEmail(ctx, candidate); err == nil {
			return u, nil
		}
	}

	return models.User{}, ErrUnresolvable
}
