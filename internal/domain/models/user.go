// internal/domain/models/user.go
package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents an account that can sign in and hold facility memberships.
//
// NOTE:
//   - Facility membership is not embedded on User.
//     Use the user_facilities collection to discover a user's facilities.
//   - FirebaseUID is the external auth identifier; older task documents
//     reference users by it instead of by ObjectID.
type User struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirebaseUID string             `bson:"firebase_uid,omitempty" json:"firebase_uid,omitempty"`
	Email       string             `bson:"email" json:"email"`
	EmailCI     string             `bson:"email_ci" json:"-"` // lowercase, diacritics-stripped

	FirstName      string `bson:"first_name,omitempty" json:"first_name,omitempty"`
	LastName       string `bson:"last_name,omitempty" json:"last_name,omitempty"`
	ProfilePicture string `bson:"profile_picture,omitempty" json:"profile_picture,omitempty"`

	PasswordHash string `bson:"password_hash,omitempty" json:"-"`
	AuthMethod   string `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google

	Status string `bson:"status,omitempty" json:"status,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DisplayName returns the user's name for UI and reports, falling back to
// the email local part when no name parts are set.
func (u User) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(u.FirstName) + " " + strings.TrimSpace(u.LastName))
	if name != "" {
		return name
	}
	if at := strings.IndexByte(u.Email, '@'); at > 0 {
		return u.Email[:at]
	}
	return u.Email
}
