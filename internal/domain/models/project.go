// internal/domain/models/project.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Project groups tasks inside a facility.
//
// Archived (or soft-deleted) projects are excluded from aggregation unless
// explicitly requested; the project store applies that filter.
type Project struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FacilityID primitive.ObjectID `bson:"facility_id" json:"facility_id"`
	Name       string             `bson:"name" json:"name"`
	NameCI     string             `bson:"name_ci" json:"-"`
	Assignees  []string           `bson:"assignees,omitempty" json:"assignees,omitempty"` // user ObjectID hex or external auth UID

	Status   string `bson:"status" json:"status"`
	Archived bool   `bson:"archived,omitempty" json:"archived,omitempty"`

	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`
}
