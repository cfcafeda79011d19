// internal/domain/models/task.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Task is a unit of work inside a project.
//
// Tasks are written by several client generations, so the date fields and
// assignee fields arrive in heterogeneous shapes:
//
//   - due_date / created_at / updated_at: native BSON date, ISO-8601 string,
//     epoch millis, or a {seconds,nanoseconds} wrapper. They are declared as
//     `any` here and must be normalized through timeutil.Coerce before any
//     comparison (the analytics normalize stage does this).
//   - assignee_id: a single user reference (ObjectID hex or external auth
//     UID), or historically an array of them.
//   - status: free-form ("done", "completed", "in-progress", "in_progress",
//     "review", "todo", "pending", "not-started", ...).
//
// Soft-deleted tasks (deleted_at set) are excluded by the task store.
type Task struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ProjectID primitive.ObjectID `bson:"project_id" json:"project_id"`
	Title     string             `bson:"title" json:"title"`

	AssigneeID  any      `bson:"assignee_id,omitempty" json:"assignee_id,omitempty"`
	AssigneeIDs []string `bson:"assignee_ids,omitempty" json:"assignee_ids,omitempty"`

	Status   string `bson:"status" json:"status"`
	Priority string `bson:"priority,omitempty" json:"priority,omitempty"`

	DueDate   any `bson:"due_date,omitempty" json:"due_date,omitempty"`
	CreatedAt any `bson:"created_at,omitempty" json:"created_at,omitempty"`
	UpdatedAt any `bson:"updated_at,omitempty" json:"updated_at,omitempty"`

	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"-"`
}
