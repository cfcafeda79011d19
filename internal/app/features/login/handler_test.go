// internal/app/features/login/handler_test.go
package login_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/nexorahq/nexora/internal/app/features/login"
	userstore "github.com/nexorahq/nexora/internal/app/store/users"
	"github.com/nexorahq/nexora/internal/app/system/auth"
	"github.com/nexorahq/nexora/internal/testutil"
)

const testSessionKey = "0123456789abcdef0123456789abcdef"

func newHandler(t *testing.T, users *userstore.Store) *login.Handler {
	t.Helper()
	sm, err := auth.NewSessionManager(testSessionKey, "nexora_test", "", false, zap.NewNop())
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	return login.NewHandler(users, sm, testSessionKey, "", "", "http://localhost:8080", zap.NewNop())
}

func TestServeLoginBadBody(t *testing.T) {
	h := newHandler(t, nil)

	req := httptest.NewRequest("POST", "/login", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestServeLoginMissingFields(t *testing.T) {
	h := newHandler(t, nil)

	req := httptest.NewRequest("POST", "/login", strings.NewReader(`{"email":"a@b.c"}`))
	rec := httptest.NewRecorder()
	h.ServeLogin(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestGoogleStartUnconfigured(t *testing.T) {
	h := newHandler(t, nil)

	req := httptest.NewRequest("GET", "/login/google", nil)
	rec := httptest.NewRecorder()
	h.ServeGoogleStart(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404 when Google sign-in is not configured", rec.Code)
	}
}

func TestServeLoginPassword(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fx := testutil.NewFixtures(t, db)
	users := userstore.New(db)

	fx.CreateUser("Dana", "dana@example.com", "s3cret-pass")
	h := newHandler(t, users)

	t.Run("wrong password", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/login",
			strings.NewReader(`{"email":"dana@example.com","password":"nope"}`))
		rec := httptest.NewRecorder()
		h.ServeLogin(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("unknown email matches wrong-password response", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/login",
			strings.NewReader(`{"email":"ghost@example.com","password":"nope"}`))
		rec := httptest.NewRecorder()
		h.ServeLogin(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("correct password signs in", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/login",
			strings.NewReader(`{"email":"dana@example.com","password":"s3cret-pass"}`))
		rec := httptest.NewRecorder()
		h.ServeLogin(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200; body: %s", rec.Code, rec.Body.String())
		}
		if len(rec.Result().Cookies()) == 0 {
			t.Fatal("expected a session cookie")
		}
	})
}
