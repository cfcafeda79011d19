// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"github.com/nexorahq/nexora/internal/domain/models"
)

// Fixtures inserts documents directly into the test database, bypassing the
// stores, so handler tests can arrange state with one call per entity.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

func (f *Fixtures) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 5*time.Second)
}

func (f *Fixtures) insert(coll string, doc any) {
	f.t.Helper()
	ctx, cancel := f.ctx()
	defer cancel()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("insert %s fixture: %v", coll, err)
	}
}

// CreateUser inserts a password user. The first name doubles as the local
// part of nothing in particular; tests pass distinct emails themselves.
func (f *Fixtures) CreateUser(first, email, password string) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash fixture password: %v", err)
	}

	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Email:        email,
		EmailCI:      text.Fold(email),
		FirstName:    first,
		PasswordHash: string(hash),
		AuthMethod:   "password",
		Status:       "active",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert("users", u)
	return u
}

// CreateFacility inserts a facility owned by owner, plus the owner's
// membership row, matching what the real facility create flow writes.
func (f *Fixtures) CreateFacility(name string, owner models.User) models.Facility {
	f.t.Helper()

	now := time.Now().UTC()
	fac := models.Facility{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		OwnerID:   owner.ID,
		Members:   []primitive.ObjectID{owner.ID},
		Status:    "active",
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.insert("facilities", fac)
	f.CreateMembership(owner, fac, models.RoleOwner)
	return fac
}

func (f *Fixtures) CreateMembership(u models.User, fac models.Facility, role string) models.UserFacility {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.UserFacility{
		ID:         primitive.NewObjectID(),
		UserID:     u.ID,
		FacilityID: fac.ID,
		Role:       role,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert("user_facilities", m)
	return m
}

func (f *Fixtures) CreateProject(fac models.Facility, name string) models.Project {
	f.t.Helper()

	now := time.Now().UTC()
	p := models.Project{
		ID:         primitive.NewObjectID(),
		FacilityID: fac.ID,
		Name:       name,
		NameCI:     text.Fold(name),
		Status:     "active",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	f.insert("projects", p)
	return p
}

// CreateTask inserts a task; assignee is a user ObjectID hex or auth UID,
// or empty for an unassigned task.
func (f *Fixtures) CreateTask(p models.Project, status, assignee string) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:        primitive.NewObjectID(),
		ProjectID: p.ID,
		Title:     "Task (" + status + ")",
		Status:    status,
		DueDate:   now.Add(72 * time.Hour),
		CreatedAt: now.Add(-48 * time.Hour),
		UpdatedAt: now,
	}
	if assignee != "" {
		task.AssigneeID = assignee
	}
	f.insert("tasks", task)
	return task
}
