// internal/app/store/facilities/facilitystore.go
package facilitystore

import (
	"context"
	"errors"
	"time"

	"github.com/nexorahq/nexora/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var (
	ErrDuplicateName = errors.New("a facility with this name already exists")
	ErrNotFound      = errors.New("facility not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("facilities")}
}

// Create inserts a new facility. The owner is always recorded as a member.
func (s *Store) Create(ctx context.Context, f models.Facility) (models.Facility, error) {
	now := time.Now().UTC()
	f.ID = primitive.NewObjectID()
	f.NameCI = text.Fold(f.Name)
	if f.Status == "" {
		f.Status = "active"
	}
	if !containsID(f.Members, f.OwnerID) {
		f.Members = append(f.Members, f.OwnerID)
	}
	f.CreatedAt = now
	f.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, f); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Facility{}, ErrDuplicateName
		}
		return models.Facility{}, err
	}
	return f, nil
}

// GetByID retrieves a facility by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Facility, error) {
	var f models.Facility
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Facility{}, ErrNotFound
		}
		return models.Facility{}, err
	}
	return f, nil
}

// ByIDs returns the facilities with the given IDs, in no particular order.
// Missing IDs are skipped, not errors.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Facility, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Facility
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Find returns facilities matching the given filter.
func (s *Store) Find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]models.Facility, error) {
	cur, err := s.c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Facility
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// EnsureIndexes creates indexes for the facilities collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetName("idx_facility_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetName("idx_facility_owner"),
		},
		{
			Keys:    bson.D{{Key: "members", Value: 1}},
			Options: options.Index().SetName("idx_facility_members"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
