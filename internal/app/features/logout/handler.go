// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/nexorahq/nexora/internal/app/system/auth"
	"github.com/nexorahq/nexora/internal/app/system/httperr"
)

type Handler struct {
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Log:        logger,
		SessionMgr: sessionMgr,
	}
}

// ServeLogout handles POST /logout: clears the session cookie.
func (h *Handler) ServeLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		// The deletion cookie usually still went out; log and report success.
		h.Log.Warn("logout: session save", zap.Error(err))
	}
	httperr.JSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}
