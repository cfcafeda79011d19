// internal/app/store/memberships/membershipstore.go
package membershipstore

// Terminology: User Identifiers
//   - UserID / userID / user_id: The MongoDB ObjectID (_id) that uniquely identifies a user record
//   - AuthUID: the external auth UID carried on the user document

import (
	"context"
	"errors"
	"time"

	"github.com/nexorahq/nexora/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	errBadRole             = errors.New(`role must be "owner", "manager", "member", or "guest"`)
	ErrDuplicateMembership = errors.New("user is already a member of this facility")
	ErrNotFound            = errors.New("membership not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("user_facilities")}
}

// Add creates a membership after enforcing role validity. The unique index
// on (user_id, facility_id) enforces at most one relationship per pair.
func (s *Store) Add(ctx context.Context, userID, facilityID primitive.ObjectID, role string) (models.UserFacility, error) {
	switch role {
	case models.RoleOwner, models.RoleManager, models.RoleMember, models.RoleGuest:
	default:
		return models.UserFacility{}, errBadRole
	}

	now := time.Now().UTC()
	uf := models.UserFacility{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		FacilityID: facilityID,
		Role:       role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.c.InsertOne(ctx, uf); err != nil {
		if wafflemongo.IsDup(err) {
			return models.UserFacility{}, ErrDuplicateMembership
		}
		return models.UserFacility{}, err
	}
	return uf, nil
}

// ByUser returns all memberships held by the given user.
func (s *Store) ByUser(ctx context.Context, userID primitive.ObjectID) ([]models.UserFacility, error) {
	return s.find(ctx, bson.M{"user_id": userID})
}

// ByFacility returns all memberships of the given facility.
func (s *Store) ByFacility(ctx context.Context, facilityID primitive.ObjectID) ([]models.UserFacility, error) {
	return s.find(ctx, bson.M{"facility_id": facilityID})
}

// Get returns the membership for the (user, facility) pair.
func (s *Store) Get(ctx context.Context, userID, facilityID primitive.ObjectID) (models.UserFacility, error) {
	var uf models.UserFacility
	err := s.c.FindOne(ctx, bson.M{"user_id": userID, "facility_id": facilityID}).Decode(&uf)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.UserFacility{}, ErrNotFound
		}
		return models.UserFacility{}, err
	}
	return uf, nil
}

// Remove deletes the membership for the (user, facility) pair.
func (s *Store) Remove(ctx context.Context, userID, facilityID primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"user_id": userID, "facility_id": facilityID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// EnsureIndexes creates indexes for the user_facilities collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		// At most one relationship per (user, facility) pair.
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "facility_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_membership_user_facility"),
		},
		{
			Keys:    bson.D{{Key: "facility_id", Value: 1}},
			Options: options.Index().SetName("idx_membership_facility"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.UserFacility, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.UserFacility
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
