// internal/app/features/analytics/handler.go
package analytics

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/nexorahq/nexora/internal/app/analytics"
	"github.com/nexorahq/nexora/internal/app/system/authz"
	"github.com/nexorahq/nexora/internal/app/system/httperr"
	"github.com/nexorahq/nexora/internal/app/system/timeouts"
)

// Handler serves the three report scopes as JSON.
type Handler struct {
	Svc  *analytics.Service
	Log  *zap.Logger
	herr *httperr.Logger
}

func NewHandler(svc *analytics.Service, logger *zap.Logger) *Handler {
	return &Handler{
		Svc:  svc,
		Log:  logger,
		herr: httperr.NewLogger(logger),
	}
}

// ServeGlobal handles GET /analytics/global?range=4w.
func (h *Handler) ServeGlobal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	userID, _, ok := authz.UserCtx(r)
	if !ok {
		h.herr.Unauthorized(w, "sign in required")
		return
	}

	rep, err := h.Svc.Global(ctx, userID, query.Get(r, "range"))
	if err != nil {
		h.herr.ServerError(w, r, "analytics: global report", err, "could not build report")
		return
	}
	httperr.JSON(w, http.StatusOK, rep)
}

// ServeFacility handles GET /analytics/facility/{facilityID}?range=4w.
func (h *Handler) ServeFacility(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
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

	rep, err := h.Svc.Facility(ctx, userID, facilityID, query.Get(r, "range"))
	switch {
	case errors.Is(err, analytics.ErrAccessDenied):
		h.herr.Forbidden(w, "you are not a member of this facility")
		return
	case errors.Is(err, analytics.ErrFacilityNotFound):
		h.herr.NotFound(w, "facility not found")
		return
	case err != nil:
		h.herr.ServerError(w, r, "analytics: facility report", err, "could not build report")
		return
	}
	httperr.JSON(w, http.StatusOK, rep)
}

// ServeMember handles GET /analytics/member/{memberID}?range=4w&facility=….
// memberID may be an ObjectID hex, an external auth UID, or an email. The
// optional facility parameter narrows the report to one facility's tasks.
func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	userID, _, ok := authz.UserCtx(r)
	if !ok {
		h.herr.Unauthorized(w, "sign in required")
		return
	}

	memberRef := chi.URLParam(r, "memberID")
	if memberRef == "" {
		h.herr.BadRequest(w, "missing member id")
		return
	}

	facilityID := primitive.NilObjectID
	if raw := query.Get(r, "facility"); raw != "" {
		var err error
		facilityID, err = primitive.ObjectIDFromHex(raw)
		if err != nil {
			h.herr.BadRequest(w, "invalid facility id")
			return
		}
	}

	rep, err := h.Svc.Member(ctx, userID, memberRef, facilityID, query.Get(r, "range"))
	switch {
	case errors.Is(err, analytics.ErrAccessDenied):
		h.herr.Forbidden(w, "you cannot view this member's analytics")
		return
	case err != nil:
		h.herr.ServerError(w, r, "analytics: member report", err, "could not build report")
		return
	}
	httperr.JSON(w, http.StatusOK, rep)
}
