// internal/app/features/export/handler.go
package export

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/nexorahq/nexora/internal/app/analytics"
	"github.com/nexorahq/nexora/internal/app/system/authz"
	"github.com/nexorahq/nexora/internal/app/system/httperr"
	"github.com/nexorahq/nexora/internal/app/system/timeouts"
)

// artifactTTL is how long a generated export is considered valid by
// clients; advertised in the response headers.
const artifactTTL = 24 * time.Hour

// ReportSource is the slice of the aggregation service the exporter needs.
type ReportSource interface {
	Global(ctx context.Context, userID primitive.ObjectID, rangeToken string) (*analytics.GlobalReport, error)
	Facility(ctx context.Context, userID, facilityID primitive.ObjectID, rangeToken string) (*analytics.FacilityReport, error)
	Member(ctx context.Context, viewerID primitive.ObjectID, targetRef string, facilityID primitive.ObjectID, rangeToken string) (*analytics.MemberReport, error)
}

// Handler serves the PDF export endpoints.
type Handler struct {
	Src      ReportSource
	Renderer Renderer
	Log      *zap.Logger
	herr     *httperr.Logger
	now      func() time.Time
}

func NewHandler(src ReportSource, renderer Renderer, logger *zap.Logger) *Handler {
	return &Handler{
		Src:      src,
		Renderer: renderer,
		Log:      logger,
		herr:     httperr.NewLogger(logger),
		now:      time.Now,
	}
}

// ServeGlobal handles GET /export/global?range=4w.
func (h *Handler) ServeGlobal(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Render())
	defer cancel()

	userID, _, ok := authz.UserCtx(r)
	if !ok {
		h.herr.Unauthorized(w, "sign in required")
		return
	}

	rep, err := h.Src.Global(ctx, userID, query.Get(r, "range"))
	if err != nil {
		h.herr.ServerError(w, r, "export: global report", err, "could not build report")
		return
	}

	html, err := GlobalHTML(rep)
	if err != nil {
		h.herr.ServerError(w, r, "export: global document", err, "could not render export")
		return
	}
	h.respondPDF(ctx, w, r, html, Filename("global", "all-facilities", rep.Meta.Range, h.now()))
}

// ServeFacility handles GET /export/facility/{facilityID}?range=4w.
func (h *Handler) ServeFacility(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Render())
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

	rep, err := h.Src.Facility(ctx, userID, facilityID, query.Get(r, "range"))
	switch {
	case errors.Is(err, analytics.ErrAccessDenied):
		h.herr.Forbidden(w, "you are not a member of this facility")
		return
	case errors.Is(err, analytics.ErrFacilityNotFound):
		h.herr.NotFound(w, "facility not found")
		return
	case err != nil:
		h.herr.ServerError(w, r, "export: facility report", err, "could not build report")
		return
	}

	html, err := FacilityHTML(rep)
	if err != nil {
		h.herr.ServerError(w, r, "export: facility document", err, "could not render export")
		return
	}
	h.respondPDF(ctx, w, r, html, Filename("facility", rep.FacilityName, rep.Meta.Range, h.now()))
}

// ServeMember handles GET /export/member/{memberID}?range=4w&facility=….
func (h *Handler) ServeMember(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Render())
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

	rep, err := h.Src.Member(ctx, userID, memberRef, facilityID, query.Get(r, "range"))
	switch {
	case errors.Is(err, analytics.ErrAccessDenied):
		h.herr.Forbidden(w, "you cannot view this member's analytics")
		return
	case err != nil:
		h.herr.ServerError(w, r, "export: member report", err, "could not build report")
		return
	}

	html, err := MemberHTML(rep)
	if err != nil {
		h.herr.ServerError(w, r, "export: member document", err, "could not render export")
		return
	}
	h.respondPDF(ctx, w, r, html, Filename("member", rep.Name, rep.Meta.Range, h.now()))
}

// respondPDF renders the document and streams it as an attachment. Each
// export carries an artifact ID and an expiry stamp so clients can cache
// or re-request deterministically.
func (h *Handler) respondPDF(ctx context.Context, w http.ResponseWriter, r *http.Request, html, filename string) {
	pdf, err := h.Renderer.RenderPDF(ctx, html)
	if err != nil {
		h.herr.ServerError(w, r, "export: pdf render", err, "could not render export")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.Header().Set("X-Artifact-ID", uuid.NewString())
	w.Header().Set("X-Artifact-Expires", h.now().Add(artifactTTL).UTC().Format(time.RFC3339))
	_, _ = w.Write(pdf)
}
