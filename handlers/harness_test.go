package handlers_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/require"

	"healthpredict-web/client"
	"healthpredict-web/config"
	"healthpredict-web/dashboard"
	"healthpredict-web/handlers"
	"healthpredict-web/logger"
	"healthpredict-web/session"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type backendUser struct {
	Password string
	Fullname string
	IsAdmin  int
}

// fakeBackend mimics the prediction API: login plus the two statistics
// endpoints. Responses are set per test.
type fakeBackend struct {
	mu         sync.Mutex
	users      map[string]backendUser
	adminBody  string
	adminCode  int
	userBody   string
	userCode   int
	adminHits  atomic.Int32
	userHits   atomic.Int32
	userHold   chan struct{}
	lastEmails []string
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		users: map[string]backendUser{
			"a@b.com": {Password: "secret123", Fullname: "Ada Admin", IsAdmin: 1},
			"u@x.com": {Password: "secret123", Fullname: "Uma User", IsAdmin: 0},
		},
		adminCode: http.StatusOK,
		userCode:  http.StatusOK,
	}
}

func (b *fakeBackend) setAdmin(code int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adminCode, b.adminBody = code, body
}

func (b *fakeBackend) setUser(code int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.userCode, b.userBody = code, body
}

// holdUser makes user statistics requests wait until the returned release
// func is called. Release also runs at test cleanup.
func (b *fakeBackend) holdUser(t *testing.T) func() {
	t.Helper()

	hold := make(chan struct{})
	b.mu.Lock()
	b.userHold = hold
	b.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			b.mu.Lock()
			b.userHold = nil
			b.mu.Unlock()
			close(hold)
		})
	}
	t.Cleanup(release)
	return release
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/api/user/stats" {
		b.userHits.Add(1)
		b.mu.Lock()
		hold := b.userHold
		b.mu.Unlock()
		if hold != nil {
			<-hold
		}
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	switch r.URL.Path {
	case "/api/login":
		var req struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		u, ok := b.users[req.Email]
		if !ok || u.Password != req.Password {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"Invalid email or password"}`)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"message": "Login successful",
			"user": map[string]interface{}{
				"email":    req.Email,
				"fullname": u.Fullname,
				"is_admin": u.IsAdmin,
			},
		})
	case "/api/admin/stats":
		b.adminHits.Add(1)
		b.lastEmails = append(b.lastEmails, r.URL.Query().Get("email"))
		w.WriteHeader(b.adminCode)
		io.WriteString(w, b.adminBody)
	case "/api/user/stats":
		b.lastEmails = append(b.lastEmails, r.URL.Query().Get("email"))
		w.WriteHeader(b.userCode)
		io.WriteString(w, b.userBody)
	default:
		http.NotFound(w, r)
	}
}

type recordingDiagnostics struct {
	mu       sync.Mutex
	failures []dashboard.Failure
}

func (d *recordingDiagnostics) Report(_ context.Context, f dashboard.Failure) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures = append(d.failures, f)
}

func (d *recordingDiagnostics) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.failures)
}

type harness struct {
	app         *httptest.Server
	backend     *fakeBackend
	diagnostics *recordingDiagnostics
	tokens      *session.TokenCodec
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := newFakeBackend()
	api := httptest.NewServer(backend)
	t.Cleanup(api.Close)

	log := logger.Discard()
	base := client.NewBaseClient(api.URL, 5*time.Second, log)
	tokens := session.NewTokenCodec(testSecret, time.Hour)
	provider := session.NewCookieProvider(&config.SessionConfig{
		Secret: testSecret,
		Name:   "hp_session",
		MaxAge: 3600,
	}, tokens, log)

	diag := &recordingDiagnostics{}
	registry := prometheus.NewRegistry()
	composer := dashboard.NewComposer(
		client.NewStatsClient(base, log),
		dashboard.NewSurface(time.Hour),
		dashboard.NewClock(time.UTC, "2006-01-02 15:04"),
		diag,
		dashboard.NewMetrics(registry),
		log,
	)

	app := httptest.NewServer(handlers.NewRouter(handlers.Deps{
		Auth:     client.NewAuthClient(base, log),
		Composer: composer,
		Provider: provider,
		Tokens:   tokens,
		Renderer: handlers.NewRenderer(log),
		Upgrader: handlers.NewUpgrader(nil),
		Metrics:  promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		Logger:   log,
	}))
	t.Cleanup(app.Close)

	return &harness{app: app, backend: backend, diagnostics: diag, tokens: tokens}
}

// browser returns a cookie-keeping client that does not follow redirects.
func (h *harness) browser(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (h *harness) login(t *testing.T, c *http.Client, email string) {
	t.Helper()

	resp, err := c.PostForm(h.app.URL+"/login", url.Values{"email": {email}, "password": {"secret123"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/", resp.Header.Get("Location"))
}

func get(t *testing.T, c *http.Client, target string) (*http.Response, string) {
	t.Helper()

	resp, err := c.Get(target)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()

	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}
