// internal/app/store/users/userstore.go
package userstore

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
	ErrDuplicateEmail = errors.New("a user with this email already exists")
	ErrNotFound       = errors.New("user not found")
)

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("users")}
}

// Create inserts a new user.
func (s *Store) Create(ctx context.Context, u models.User) (models.User, error) {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.EmailCI = text.Fold(u.Email)
	if u.Status == "" {
		u.Status = "active"
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, u); err != nil {
		if wafflemongo.IsDup(err) {
			return models.User{}, ErrDuplicateEmail
		}
		return models.User{}, err
	}
	return u, nil
}

// GetByID retrieves a user by internal ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.User, error) {
	return s.findOne(ctx, bson.M{"_id": id})
}

// GetByAuthUID retrieves a user by external auth UID.
func (s *Store) GetByAuthUID(ctx context.Context, uid string) (models.User, error) {
	if uid == "" {
		return models.User{}, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"firebase_uid": uid})
}

// GetByEmail retrieves a user by case-folded email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if email == "" {
		return models.User{}, ErrNotFound
	}
	return s.findOne(ctx, bson.M{"email_ci": text.Fold(email)})
}

// ByIDs returns the users with the given IDs. Missing IDs are skipped.
func (s *Store) ByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cur, err := s.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.User
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UpsertByAuthUID finds a user by external auth UID, creating the record on
// first sign-in. Profile fields are refreshed from the auth provider.
func (s *Store) UpsertByAuthUID(ctx context.Context, u models.User) (models.User, error) {
	existing, err := s.GetByAuthUID(ctx, u.FirebaseUID)
	if err == nil {
		set := bson.M{
			"first_name":      u.FirstName,
			"last_name":       u.LastName,
			"profile_picture": u.ProfilePicture,
			"updated_at":      time.Now().UTC(),
		}
		if _, err := s.c.UpdateByID(ctx, existing.ID, bson.M{"$set": set}); err != nil {
			return models.User{}, err
		}
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		existing.ProfilePicture = u.ProfilePicture
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return models.User{}, err
	}
	return s.Create(ctx, u)
}

// EnsureIndexes creates indexes for the users collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_user_email_ci"),
		},
		{
			Keys: bson.D{{Key: "firebase_uid", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"firebase_uid": bson.M{"$type": "string"}}).
				SetName("idx_user_firebase_uid"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.User, error) {
	var u models.User
	err := s.c.FindOne(ctx, filter).Decode(&u)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.User{}, ErrNotFound
		}
		return models.User{}, err
	}
	return u, nil
}
