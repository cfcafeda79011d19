// internal/domain/models/userfacility.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Membership roles, ordered from most to least privileged.
const (
	RoleOwner   = "owner"
	RoleManager = "manager"
	RoleMember  = "member"
	RoleGuest   = "guest"
)

// UserFacility is the authoritative join between users and facilities.
// Exactly one document per (user_id, facility_id); the role determines
// how much of the facility's data the user sees in analytics.
type UserFacility struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	FacilityID primitive.ObjectID `bson:"facility_id" json:"facility_id"`
	Role       string             `bson:"role" json:"role"` // owner | manager | member | guest
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// IsManagerial reports whether the role can view other members' analytics
// without sharing an assignment with them.
func (uf UserFacility) IsManagerial() bool {
	return uf.Role == RoleOwner || uf.Role == RoleManager
}
