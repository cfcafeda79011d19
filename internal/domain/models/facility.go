// internal/domain/models/facility.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Facility is a tenant workspace containing projects, tasks, and members.
//
// NOTE:
//   - The members array is denormalized for fast "who belongs here" checks;
//     the user_facilities collection remains the authoritative join and is
//     what analytics reads. The owner is always an implicit member.
type Facility struct {
	ID      primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name    string               `bson:"name" json:"name"`
	NameCI  string               `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	OwnerID primitive.ObjectID   `bson:"owner_id" json:"owner_id"`
	Members []primitive.ObjectID `bson:"members,omitempty" json:"members,omitempty"`

	Status string `bson:"status" json:"status"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
