// internal/app/features/facilities/routes.go
package facilities

import (
	"github.com/go-chi/chi/v5"

	"github.com/nexorahq/nexora/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /facilities.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.ServeList)
	r.Get("/{facilityID}/projects", h.ServeProjects)
	r.Get("/{facilityID}/projects/{projectID}/tasks", h.ServeTasks)
	return r
}
