// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/nexorahq/nexora/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the current user's Mongo ObjectID, external auth UID, and a
// found flag. If no user is present in context or the user ID is malformed,
// it returns NilObjectID, "", false. Callers can trust that ok=true means a
// valid, authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (userID primitive.ObjectID, authUID string, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, "", false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session - fail closed for security.
		return primitive.NilObjectID, "", false
	}
	return userID, user.AuthUID, true
}

// UserName returns the current user's display name, or "" when signed out.
func UserName(r *http.Request) string {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return ""
	}
	return user.Name
}
