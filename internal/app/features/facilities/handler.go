// internal/app/features/facilities/handler.go
package facilities

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	facilitystore "github.com/nexorahq/nexora/internal/app/store/facilities"
	membershipstore "github.com/nexorahq/nexora/internal/app/store/memberships"
	projectstore "github.com/nexorahq/nexora/internal/app/store/projects"
	taskstore "github.com/nexorahq/nexora/internal/app/store/tasks"
	"github.com/nexorahq/nexora/internal/app/system/authz"
	"github.com/nexorahq/nexora/internal/app/system/httperr"
	"github.com/nexorahq/nexora/internal/app/system/timeouts"
	"github.com/nexorahq/nexora/internal/domain/models"
)

// Handler serves the read-only facility listing API the client navigates
// with. All writes happen in external collaborator tools.
type Handler struct {
	Facilities  *facilitystore.Store
	Memberships *membershipstore.Store
	Projects    *projectstore.Store
	Tasks       *taskstore.Store
	Log         *zap.Logger
	herr        *httperr.Logger
}

func NewHandler(
	facilities *facilitystore.Store,
	memberships *membershipstore.Store,
	projects *projectstore.Store,
	tasks *taskstore.Store,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Facilities:  facilities,
		Memberships: memberships,
		Projects:    projects,
		Tasks:       tasks,
		Log:         logger,
		herr:        httperr.NewLogger(logger),
	}
}

type facilityRow struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// ServeList handles GET /facilities: every facility the caller belongs
// to, with their role in each.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID, _, ok := authz.UserCtx(r)
	if !ok {
		h.herr.Unauthorized(w, "sign in required")
		return
	}

	mems, err := h.Memberships.ByUser(ctx, userID)
	if err != nil {
		h.herr.ServerError(w, r, "facilities: membership lookup", err, "could not list facilities")
		return
	}

	ids := make([]primitive.ObjectID, 0, len(mems))
	roleByID := make(map[primitive.ObjectID]string, len(mems))
	for _, m := range mems {
		ids = append(ids, m.FacilityID)
		roleByID[m.FacilityID] = m.Role
	}

	facs, err := h.Facilities.ByIDs(ctx, ids)
	if err != nil {
		h.herr.ServerError(w, r, "facilities: facility lookup", err, "could not list facilities")
		return
	}

	rows := make([]facilityRow, 0, len(facs))
	for _, f := range facs {
		rows = append(rows, facilityRow{
			ID:     f.ID.Hex(),
			Name:   f.Name,
			Role:   roleByID[f.ID],
			Status: f.Status,
		})
	}
	httperr.JSON(w, http.StatusOK, rows)
}

// ServeProjects handles GET /facilities/{facilityID}/projects.
func (h *Handler) ServeProjects(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID, _, ok := authz.UserCtx(r)
	if !ok {
		h.herr.Unauthorized(w, "sign in required")
		return
	}

	facilityID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "facilityID"))
	if err != nil {
		h.herr.BadRequest(w, "invalid facility id")
		return
	}

	if _, err := h.Memberships.Get(ctx, userID, facilityID); err != nil {
		h.herr.Forbidden(w, "you are not a member of this facility")
		return
	}

	projects, err := h.Projects.ByFacility(ctx, facilityID)
	if err != nil {
		h.herr.ServerError(w, r, "facilities: project list", err, "could not list projects")
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	httperr.JSON(w, http.StatusOK, projects)
}

// ServeTasks handles GET /facilities/{facilityID}/projects/{projectID}/tasks.
// Members and guests only see tasks assigned to them; owners and managers
// see the whole project.
func (h *Handler) ServeTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	userID, authUID, ok := authz.UserCtx(r)
	if !ok {
		h.herr.Unauthorized(w, "sign in required")
		return
	}

	facilityID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "facilityID"))
	if err != nil {
		h.herr.BadRequest(w, "invalid facility id")
		return
	}
	projectID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "projectID"))
	if err != nil {
		h.herr.BadRequest(w, "invalid project id")
		return
	}

	mem, err := h.Memberships.Get(ctx, userID, facilityID)
	if err != nil {
		h.herr.Forbidden(w, "you are not a member of this facility")
		return
	}

	project, err := h.Projects.GetByID(ctx, projectID)
	if err != nil || project.FacilityID != facilityID {
		h.herr.NotFound(w, "project not found")
		return
	}

	tasks, err := h.Tasks.ByProject(ctx, projectID)
	if err != nil {
		h.herr.ServerError(w, r, "facilities: task list", err, "could not list tasks")
		return
	}

	if !mem.IsManagerial() {
		tasks = filterAssignedTasks(tasks, userID.Hex(), authUID)
	}
	if tasks == nil {
		tasks = []models.Task{}
	}
	httperr.JSON(w, http.StatusOK, tasks)
}

// filterAssignedTasks keeps tasks that reference the caller by either
// identity key.
func filterAssignedTasks(tasks []models.Task, idHex, authUID string) []models.Task {
	matches := func(v string) bool {
		return v != "" && (v == idHex || v == authUID)
	}
	out := make([]models.Task, 0, len(tasks))
	for _, t := range tasks {
		keep := false
		for _, a := range t.AssigneeIDs {
			if matches(a) {
				keep = true
			}
		}
		switch a := t.AssigneeID.(type) {
		case string:
			if matches(a) {
				keep = true
			}
		case []any:
			for _, v := range a {
				if s, ok := v.(string); ok && matches(s) {
					keep = true
				}
			}
		}
		if keep {
			out = append(out, t)
		}
	}
	return out
}
