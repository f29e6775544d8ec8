// handlers/pages.go
package handlers

import (
	"net/http"

	"healthpredict-web/session"
)

// HomePage renders the landing page with any pending flashes.
func HomePage(provider session.Provider, rd *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, _ := provider.Load(r)

		data := map[string]interface{}{
			"Title":   "HealthPredict",
			"Session": s,
			"Flashes": provider.Flashes(w, r),
		}

		rd.Render(w, http.StatusOK, "home.html", data)
	}
}

// LoginPage renders the login form. Signed-in visitors go to the dashboard.
func LoginPage(provider session.Provider, rd *Renderer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, err := provider.Load(r); err == nil && s.Valid() {
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}

		data := map[string]interface{}{
			"Title":   "Login - HealthPredict",
			"Flashes": provider.Flashes(w, r),
		}

		rd.Render(w, http.StatusOK, "login.html", data)
	}
}

// Health reports liveness.
func Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"status": "ok",
		})
	}
}
