// internal/app/features/analytics/handler_test.go
package analytics_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	core "github.com/nexorahq/nexora/internal/app/analytics"
	feature "github.com/nexorahq/nexora/internal/app/features/analytics"
	"github.com/nexorahq/nexora/internal/app/system/auth"
	"github.com/nexorahq/nexora/internal/domain/models"
)

var errNotFound = errors.New("not found")

// world is a minimal in-memory store graph for handler tests.
type world struct {
	owner models.User
	fac   models.Facility
	mem   models.UserFacility
}

func newWorld() *world {
	owner := models.User{ID: primitive.NewObjectID(), FirstName: "Dana", Email: "dana@example.com"}
	fac := models.Facility{ID: primitive.NewObjectID(), Name: "Alpha", OwnerID: owner.ID}
	return &world{
		owner: owner,
		fac:   fac,
		mem:   models.UserFacility{UserID: owner.ID, FacilityID: fac.ID, Role: models.RoleOwner},
	}
}

func (w *world) GetByID(_ context.Context, id primitive.ObjectID) (models.Facility, error) {
	if id == w.fac.ID {
		return w.fac, nil
	}
	return models.Facility{}, errNotFound
}

func (w *world) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Facility, error) {
	var out []models.Facility
	for _, id := range ids {
		if id == w.fac.ID {
			out = append(out, w.fac)
		}
	}
	return out, nil
}

type worldMemberships struct{ w *world }

func (m worldMemberships) ByUser(_ context.Context, userID primitive.ObjectID) ([]models.UserFacility, error) {
	if userID == m.w.owner.ID {
		return []models.UserFacility{m.w.mem}, nil
	}
	return nil, nil
}

func (m worldMemberships) ByFacility(_ context.Context, facilityID primitive.ObjectID) ([]models.UserFacility, error) {
	if facilityID == m.w.fac.ID {
		return []models.UserFacility{m.w.mem}, nil
	}
	return nil, nil
}

func (m worldMemberships) Get(_ context.Context, userID, facilityID primitive.ObjectID) (models.UserFacility, error) {
	if userID == m.w.owner.ID && facilityID == m.w.fac.ID {
		return m.w.mem, nil
	}
	return models.UserFacility{}, errNotFound
}

type worldProjects struct{}

func (worldProjects) GetByID(context.Context, primitive.ObjectID) (models.Project, error) {
	return models.Project{}, errNotFound
}
func (worldProjects) ByFacility(context.Context, primitive.ObjectID) ([]models.Project, error) {
	return nil, nil
}

type worldTasks struct{}

func (worldTasks) ByProject(context.Context, primitive.ObjectID) ([]models.Task, error) {
	return nil, nil
}
func (worldTasks) ByAssignee(context.Context, []string) ([]models.Task, error) { return nil, nil }

type worldUsers struct{ w *world }

func (u worldUsers) GetByID(_ context.Context, id primitive.ObjectID) (models.User, error) {
	if id == u.w.owner.ID {
		return u.w.owner, nil
	}
	return models.User{}, errNotFound
}
func (u worldUsers) GetByAuthUID(context.Context, string) (models.User, error) {
	return models.User{}, errNotFound
}
func (u worldUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	if email == u.w.owner.Email {
		return u.w.owner, nil
	}
	return models.User{}, errNotFound
}
func (u worldUsers) ByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var out []models.User
	for _, id := range ids {
		if id == u.w.owner.ID {
			out = append(out, u.w.owner)
		}
	}
	return out, nil
}

func newRouter(wd *world) http.Handler {
	svc := core.NewService(core.Stores{
		Facilities:  wd,
		Memberships: worldMemberships{wd},
		Projects:    worldProjects{},
		Tasks:       worldTasks{},
		Users:       worldUsers{wd},
	}, nil, zap.NewNop())
	return feature.Routes(feature.NewHandler(svc, zap.NewNop()))
}

func asUser(r *http.Request, u models.User) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{ID: u.ID.Hex(), Name: u.FirstName, Email: u.Email})
}

func TestServeGlobalRequiresAuth(t *testing.T) {
	wd := newWorld()
	req := httptest.NewRequest("GET", "/global", nil)
	rec := httptest.NewRecorder()

	newRouter(wd).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestServeGlobal(t *testing.T) {
	wd := newWorld()
	req := asUser(httptest.NewRequest("GET", "/global?range=2w", nil), wd.owner)
	rec := httptest.NewRecorder()

	newRouter(wd).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var rep core.GlobalReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if rep.Meta.Range != "2w" {
		t.Fatalf("meta.range = %q, want 2w", rep.Meta.Range)
	}
	if rep.KPIs.TotalFacilities != 1 {
		t.Fatalf("totalFacilities = %d, want 1", rep.KPIs.TotalFacilities)
	}
	if len(rep.Insights) == 0 {
		t.Fatal("insights must not be empty")
	}
}

func TestServeFacilityBadID(t *testing.T) {
	wd := newWorld()
	req := asUser(httptest.NewRequest("GET", "/facility/not-an-id", nil), wd.owner)
	rec := httptest.NewRecorder()

	newRouter(wd).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServeFacilityForbidden(t *testing.T) {
	wd := newWorld()
	outsider := models.User{ID: primitive.NewObjectID(), Email: "sam@example.com"}
	req := asUser(httptest.NewRequest("GET", "/facility/"+wd.fac.ID.Hex(), nil), outsider)
	rec := httptest.NewRecorder()

	newRouter(wd).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}

func TestServeFacility(t *testing.T) {
	wd := newWorld()
	req := asUser(httptest.NewRequest("GET", "/facility/"+wd.fac.ID.Hex(), nil), wd.owner)
	rec := httptest.NewRecorder()

	newRouter(wd).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var rep core.FacilityReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if rep.FacilityName != "Alpha" {
		t.Fatalf("facilityName = %q", rep.FacilityName)
	}
}

func TestServeMemberBadFacilityParam(t *testing.T) {
	wd := newWorld()
	req := asUser(httptest.NewRequest("GET", "/member/"+wd.owner.ID.Hex()+"?facility=nope", nil), wd.owner)
	rec := httptest.NewRecorder()

	newRouter(wd).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServeMemberSelf(t *testing.T) {
	wd := newWorld()
	req := asUser(httptest.NewRequest("GET", "/member/"+wd.owner.ID.Hex(), nil), wd.owner)
	rec := httptest.NewRecorder()

	newRouter(wd).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
	}
	var rep core.MemberReport
	if err := json.Unmarshal(rec.Body.Bytes(), &rep); err != nil {
		t.Fatalf("bad JSON: %v", err)
	}
	if rep.UserID != wd.owner.ID.Hex() {
		t.Fatalf("userId = %q, want %q", rep.UserID, wd.owner.ID.Hex())
	}
}
