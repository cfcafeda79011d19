// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"time"

	"github.com/nexorahq/nexora/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

var ErrNotFound = errors.New("task not found")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("tasks")}
}

// notDeleted excludes soft-deleted tasks. Every read path applies it;
// soft-deleted tasks never reach aggregation.
func notDeleted(filter bson.M) bson.M {
	filter["deleted_at"] = nil
	return filter
}

// Create inserts a new task. Date fields are stored as given; readers
// normalize through timeutil.Coerce, so fixtures may insert any of the
// historical shapes.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	t.ID = primitive.NewObjectID()
	if t.CreatedAt == nil {
		t.CreatedAt = time.Now().UTC()
	}
	if t.UpdatedAt == nil {
		t.UpdatedAt = t.CreatedAt
	}
	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// GetByID retrieves a task by its ID.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	err := s.c.FindOne(ctx, notDeleted(bson.M{"_id": id})).Decode(&t)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return models.Task{}, ErrNotFound
		}
		return models.Task{}, err
	}
	return t, nil
}

// ByProject returns the project's tasks, excluding soft-deleted ones.
func (s *Store) ByProject(ctx context.Context, projectID primitive.ObjectID) ([]models.Task, error) {
	return s.find(ctx, notDeleted(bson.M{"project_id": projectID}))
}

// ByAssignee returns tasks carrying any of the given assignee keys (user
// ObjectID hex or external auth UID) in either assignee field. This is the
// cross-facility fallback path for member reports without a facility scope.
func (s *Store) ByAssignee(ctx context.Context, keys []string) ([]models.Task, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	filter := notDeleted(bson.M{
		"$or": []bson.M{
			{"assignee_ids": bson.M{"$in": keys}},
			{"assignee_id": bson.M{"$in": keys}},
		},
	})
	return s.find(ctx, filter)
}

// SoftDelete marks a task deleted without removing the document.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{"deleted_at": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// EnsureIndexes creates indexes for the tasks collection.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_id", Value: 1}, {Key: "deleted_at", Value: 1}},
			Options: options.Index().SetName("idx_task_project"),
		},
		{
			Keys:    bson.D{{Key: "assignee_ids", Value: 1}},
			Options: options.Index().SetName("idx_task_assignee_ids"),
		},
		{
			Keys:    bson.D{{Key: "assignee_id", Value: 1}},
			Options: options.Index().SetName("idx_task_assignee_id"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("idx_task_status"),
		},
	}
	_, err := s.c.Indexes().CreateMany(ctx, indexes)
	return err
}

func (s *Store) find(ctx context.Context, filter bson.M) ([]models.Task, error) {
	cur, err := s.c.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Task
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
