// internal/app/features/analytics/routes.go
package analytics

import (
	"github.com/go-chi/chi/v5"

	"github.com/nexorahq/nexora/internal/app/system/auth"
)

// Routes returns the subrouter mounted under /analytics.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/global", h.ServeGlobal)
	r.Get("/facility/{facilityID}", h.ServeFacility)
	r.Get("/member/{memberID}", h.ServeMember)
	return r
}
