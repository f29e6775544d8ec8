package middleware_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthpredict-web/config"
	"healthpredict-web/logger"
	"healthpredict-web/middleware"
	"healthpredict-web/models"
	"healthpredict-web/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newProvider() *session.CookieProvider {
	return session.NewCookieProvider(&config.SessionConfig{
		Secret:   testSecret,
		Name:     "hp_test",
		MaxAge:   3600,
		TokenTTL: time.Hour,
	}, nil, logger.Discard())
}

// signedInRequest returns a request carrying a session cookie for s.
func signedInRequest(t *testing.T, p *session.CookieProvider, target string, s *models.Session) *http.Request {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, target, nil)
	if s == nil {
		return req
	}

	rec := httptest.NewRecorder()
	require.NoError(t, p.Save(rec, httptest.NewRequest(http.MethodPost, "/login", nil), s))
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func okHandler(t *testing.T, wantView models.View) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, ok := session.FromContext(r.Context())
		require.True(t, ok)
		assert.Equal(t, wantView, d.View)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireSession(t *testing.T) {
	p := newProvider()
	guard := session.NewGuard(p)
	log := logger.Discard()

	admin := &models.Session{Email: "a@b.com", Fullname: "Admin", IsAdmin: true}
	user := &models.Session{Email: "u@x.com", Fullname: "User"}

	tests := []struct {
		name         string
		mw           func(http.Handler) http.Handler
		session      *models.Session
		wantStatus   int
		wantLocation string
		wantView     models.View
		wantFlash    bool
	}{
		{"combined without session", middleware.Auth(guard, p, log), nil, http.StatusSeeOther, "/login", 0, false},
		{"combined as user", middleware.Auth(guard, p, log), user, http.StatusOK, "", models.UserView, false},
		{"combined as admin", middleware.Auth(guard, p, log), admin, http.StatusOK, "", models.AdminView, false},
		{"admin-only without session", middleware.AdminAuth(guard, p, log), nil, http.StatusSeeOther, "/login", 0, false},
		{"admin-only as user", middleware.AdminAuth(guard, p, log), user, http.StatusSeeOther, "/", 0, true},
		{"admin-only as admin", middleware.AdminAuth(guard, p, log), admin, http.StatusOK, "", models.AdminView, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				okHandler(t, tt.wantView).ServeHTTP(w, r)
			})

			rec := httptest.NewRecorder()
			tt.mw(next).ServeHTTP(rec, signedInRequest(t, p, "/dashboard", tt.session))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantStatus == http.StatusOK, called)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))

			if tt.wantFlash {
				follow := httptest.NewRequest(http.MethodGet, "/", nil)
				for _, c := range rec.Result().Cookies() {
					follow.AddCookie(c)
				}
				assert.Equal(t, []string{"Access denied: Admins only."}, p.Flashes(httptest.NewRecorder(), follow))
			}
		})
	}
}

func TestRequireSessionAPI(t *testing.T) {
	p := newProvider()
	guard := session.NewGuard(p)
	log := logger.Discard()

	tests := []struct {
		name       string
		mw         func(http.Handler) http.Handler
		session    *models.Session
		wantStatus int
		wantError  string
	}{
		{"no session", middleware.APIAuth(guard, log), nil, http.StatusUnauthorized, "Authentication required"},
		{"user on combined", middleware.APIAuth(guard, log), &models.Session{Email: "u@x.com"}, http.StatusOK, ""},
		{"user on admin-only", middleware.AdminAPIAuth(guard, log), &models.Session{Email: "u@x.com"}, http.StatusForbidden, "Access denied: Admins only."},
		{"admin on admin-only", middleware.AdminAPIAuth(guard, log), &models.Session{Email: "a@b.com", IsAdmin: true}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			})

			rec := httptest.NewRecorder()
			tt.mw(next).ServeHTTP(rec, signedInRequest(t, p, "/api/dashboard/refresh", tt.session))

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantError == "" {
				return
			}
			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantError, body["error"])
		})
	}
}

func TestRequestLogger(t *testing.T) {
	log, err := logger.New("info", "json", "stdout")
	require.NoError(t, err)
	var buf bytes.Buffer
	log.SetOutput(&buf)

	var seen string
	h := middleware.RequestLogger(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = middleware.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))

	_, err = uuid.Parse(seen)
	require.NoError(t, err)
	assert.Equal(t, seen, rec.Header().Get(middleware.HeaderRequestID))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "warning", entry["level"])
	assert.Equal(t, "/missing", entry["path"])
	assert.Equal(t, float64(404), entry["status"])
	assert.Equal(t, seen, entry["request_id"])
}

func TestRequestLogger_KeepsIncomingID(t *testing.T) {
	incoming := uuid.NewString()

	h := middleware.RequestLogger(logger.Discard())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, incoming, middleware.RequestIDFromContext(r.Context()))
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.HeaderRequestID, incoming)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, incoming, rec.Header().Get(middleware.HeaderRequestID))
}

func TestRecovery(t *testing.T) {
	h := middleware.Recovery(logger.Discard())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() { h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestChainOrderAndSecurityHeaders(t *testing.T) {
	var order []string
	mark := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := middleware.Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}), mark("first"), mark("second"), middleware.SecurityHeaders)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}
