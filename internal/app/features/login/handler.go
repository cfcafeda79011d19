// internal/app/features/login/handler.go
package login

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/securecookie"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	userstore "github.com/nexorahq/nexora/internal/app/store/users"
	"github.com/nexorahq/nexora/internal/app/system/auth"
	"github.com/nexorahq/nexora/internal/app/system/httperr"
	"github.com/nexorahq/nexora/internal/app/system/timeouts"
	"github.com/nexorahq/nexora/internal/domain/models"
)

const stateCookie = "nexora_oauth_state"

// Handler serves password login and the Google OAuth flow.
type Handler struct {
	Users      *userstore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
	herr       *httperr.Logger

	// OAuth is nil when Google sign-in is not configured; the /google
	// routes then respond 404.
	OAuth      *oauth2.Config
	stateCodec *securecookie.SecureCookie
}

// NewHandler builds the login handler. clientID/clientSecret may be empty
// to disable Google sign-in.
func NewHandler(users *userstore.Store, sessionMgr *auth.SessionManager, sessionKey, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	h := &Handler{
		Users:      users,
		SessionMgr: sessionMgr,
		Log:        logger,
		herr:       httperr.NewLogger(logger),
		stateCodec: securecookie.New([]byte(sessionKey), nil),
	}
	if clientID != "" && clientSecret != "" {
		h.OAuth = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  strings.TrimSuffix(baseURL, "/") + "/login/google/callback",
			Scopes:       []string{"openid", "email", "profile"},
			Endpoint:     google.Endpoint,
		}
	}
	return h
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ServeLogin handles POST /login with an email/password JSON body.
// Unknown email and wrong password return the same 401 so the endpoint
// doesn't confirm which addresses have accounts.
func (h *Handler) ServeLogin(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.herr.BadRequest(w, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		h.herr.BadRequest(w, "email and password are required")
		return
	}

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if !errors.Is(err, userstore.ErrNotFound) {
			h.herr.ServerError(w, r, "login: user lookup", err, "could not sign in")
			return
		}
		h.herr.Unauthorized(w, "invalid email or password")
		return
	}
	if u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		h.herr.Unauthorized(w, "invalid email or password")
		return
	}

	if err := h.signIn(w, r, u); err != nil {
		h.herr.ServerError(w, r, "login: session save", err, "could not sign in")
		return
	}
	httperr.JSON(w, http.StatusOK, loginResponse{ID: u.ID.Hex(), Name: u.DisplayName(), Email: u.Email})
}

// ServeGoogleStart handles GET /login/google: sets a signed state cookie
// and redirects to Google's consent screen.
func (h *Handler) ServeGoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		h.herr.NotFound(w, "google sign-in is not configured")
		return
	}

	state := randomState()
	encoded, err := h.stateCodec.Encode(stateCookie, state)
	if err != nil {
		h.herr.ServerError(w, r, "login: encode oauth state", err, "could not start sign-in")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    encoded,
		Path:     "/",
		MaxAge:   300,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, h.OAuth.AuthCodeURL(state), http.StatusFound)
}

// ServeGoogleCallback handles GET /login/google/callback: verifies state,
// exchanges the code, upserts the user by Google subject ID, and signs
// them in.
func (h *Handler) ServeGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.OAuth == nil {
		h.herr.NotFound(w, "google sign-in is not configured")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	cookie, err := r.Cookie(stateCookie)
	if err != nil {
		h.herr.BadRequest(w, "missing oauth state")
		return
	}
	var state string
	if err := h.stateCodec.Decode(stateCookie, cookie.Value, &state); err != nil ||
		state == "" || state != r.URL.Query().Get("state") {
		h.herr.BadRequest(w, "oauth state mismatch")
		return
	}

	tok, err := h.OAuth.Exchange(ctx, r.URL.Query().Get("code"))
	if err != nil {
		h.herr.ServerError(w, r, "login: oauth exchange", err, "google sign-in failed")
		return
	}

	info, err := fetchGoogleProfile(ctx, h.OAuth, tok)
	if err != nil {
		h.herr.ServerError(w, r, "login: google profile", err, "google sign-in failed")
		return
	}

	u, err := h.Users.UpsertByAuthUID(ctx, models.User{
		FirebaseUID:    info.Sub,
		Email:          info.Email,
		FirstName:      info.GivenName,
		LastName:       info.FamilyName,
		ProfilePicture: info.Picture,
		AuthMethod:     "google",
	})
	if err != nil {
		h.herr.ServerError(w, r, "login: upsert google user", err, "google sign-in failed")
		return
	}

	if err := h.signIn(w, r, u); err != nil {
		h.herr.ServerError(w, r, "login: session save", err, "google sign-in failed")
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, u models.User) error {
	return h.SessionMgr.SignIn(w, r, auth.SessionUser{
		ID:      u.ID.Hex(),
		Name:    u.DisplayName(),
		Email:   u.Email,
		AuthUID: u.FirebaseUID,
	})
}

type googleProfile struct {
	Sub        string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	Picture    string `json:"picture"`
}

func fetchGoogleProfile(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token) (*googleProfile, error) {
	resp, err := cfg.Client(ctx, tok).Get("https://openidconnect.googleapis.com/v1/userinfo")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleProfile
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&info); err != nil {
		return nil, err
	}
	if info.Sub == "" {
		return nil, errors.New("userinfo response missing subject")
	}
	return &info, nil
}

func randomState() string {
	b := make([]byte, 24)
	_, _ = rand.Read(b)
	return base64.RawURLEncoding.EncodeToString(b)
}
