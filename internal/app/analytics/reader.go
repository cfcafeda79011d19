// internal/app/analytics/reader.go
package analytics

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/nexorahq/nexora/internal/domain/models"
)

// Read-side store contracts. The concrete Mongo stores satisfy these;
// tests substitute in-memory fakes.

type FacilityReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Facility, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Facility, error)
}

type MembershipReader interface {
	ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserFacility, error)
	ByFacility(ctx context.Context, facilityID primitive.ObjectID) ([]models.UserFacility, error)
	Get(ctx context.Context, userID, facilityID primitive.ObjectID) (models.UserFacility, error)
}

type ProjectReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.Project, error)
	ByFacility(ctx context.Context, facilityID primitive.ObjectID) ([]models.Project, error)
}

type TaskReader interface {
	ByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error)
	ByAssignee(ctx context.Context, keys []string) ([]models.Task, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error)
	GetByAuthUID(ctx context.Context, uid string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// Stores bundles every reader the report service needs.
type Stores struct {
	Facilities  FacilityReader
	Memberships MembershipReader
	Projects    ProjectReader
	Tasks       TaskReader
	Users       UserReader
}
