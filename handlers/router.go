// handlers/router.go
package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"healthpredict-web/middleware"
	"healthpredict-web/session"
)

// Deps is everything the routes need.
type Deps struct {
	Auth     Authenticator
	Composer Composer
	Provider session.Provider
	Tokens   *session.TokenCodec
	Renderer *Renderer
	Upgrader *websocket.Upgrader
	Metrics  http.Handler
	Logger   *logrus.Logger
}

// NewRouter mounts the pages, the refresh API and the operational
// endpoints.
func NewRouter(d Deps) *mux.Router {
	guard := session.NewGuard(d.Provider)

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(d.Logger), middleware.Recovery(d.Logger), middleware.SecurityHeaders)

	r.HandleFunc("/health", Health()).Methods("GET")
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics).Methods("GET")
	}

	// Public pages
	r.HandleFunc("/", HomePage(d.Provider, d.Renderer)).Methods("GET")
	r.HandleFunc("/login", LoginPage(d.Provider, d.Renderer)).Methods("GET")
	r.HandleFunc("/login", Login(d.Auth, d.Provider, d.Tokens, d.Renderer, d.Logger)).Methods("POST")
	r.HandleFunc("/logout", Logout(d.Provider, d.Composer, d.Logger)).Methods("POST")

	// Combined dashboard
	r.Handle("/dashboard", middleware.Auth(guard, d.Provider, d.Logger)(
		DashboardPage(d.Composer, d.Provider, d.Renderer, d.Logger))).Methods("GET")
	r.Handle("/ws/dashboard", middleware.APIAuth(guard, d.Logger)(
		DashboardSocket(d.Composer, d.Upgrader, d.Logger))).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.APIAuth(guard, d.Logger))
	api.HandleFunc("/dashboard/refresh", RefreshDashboard(d.Composer)).Methods("POST")

	// Admin-only dashboard
	admin := r.PathPrefix("/admin").Subrouter()
	admin.Handle("/dashboard", middleware.AdminAuth(guard, d.Provider, d.Logger)(
		AdminDashboard(d.Composer, d.Provider, d.Renderer, d.Logger))).Methods("GET")

	adminAPI := admin.PathPrefix("/api").Subrouter()
	adminAPI.Use(middleware.AdminAPIAuth(guard, d.Logger))
	adminAPI.HandleFunc("/dashboard/refresh", AdminRefreshDashboard(d.Composer)).Methods("POST")

	return r
}
