// handlers/dashboard.go
package handlers

import (
	"context"
	"net/http"

	"github.com/sirupsen/logrus"

	"healthpredict-web/dashboard"
	"healthpredict-web/models"
	"healthpredict-web/session"
)

// Composer is the part of dashboard.Composer the handlers drive.
type Composer interface {
	Load(ctx context.Context, view dashboard.View, email string) dashboard.Frame
	Refresh(ctx context.Context, view dashboard.View, email string) dashboard.Frame
	Forget(email string)
}

// entryPoint tells the two dashboard pages apart. Only the admin-only page
// turns a first failure into an error message.
type entryPoint int

const (
	combinedEntry entryPoint = iota
	adminOnlyEntry
)

// forEntry adapts frame to the entry point's failure display.
func forEntry(frame dashboard.Frame, entry entryPoint) dashboard.Frame {
	if entry == adminOnlyEntry && frame.View == dashboard.AdminView && frame.Failed && !frame.Loaded {
		failed := dashboard.FailedAdmin()
		frame.Admin = &failed
	}
	return frame
}

// DashboardPage serves the combined dashboard: administrators see the
// all-users statistics, everyone else their own history.
func DashboardPage(c Composer, provider session.Provider, rd *Renderer, logger *logrus.Logger) http.HandlerFunc {
	return dashboardPage(c, provider, rd, logger, combinedEntry)
}

func dashboardPage(c Composer, provider session.Provider, rd *Renderer, logger *logrus.Logger, entry entryPoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := session.FromContext(r.Context())
		if !ok {
			logger.WithField("path", r.URL.Path).Error("Dashboard reached without an admitted session")
			http.Redirect(w, r, session.LoginPath, http.StatusSeeOther)
			return
		}

		frame := forEntry(c.Load(r.Context(), d.View, d.Session.Email), entry)

		title := "My Dashboard - HealthPredict"
		if frame.View == dashboard.AdminView {
			title = "Admin Dashboard - HealthPredict"
		}

		rd.Render(w, http.StatusOK, "dashboard.html", models.DashboardPage{
			Title:   title,
			Session: d.Session,
			View:    frame.View.String(),
			Admin:   frame.Admin,
			User:    frame.User,
			Failed:  frame.Failed,
			Flashes: provider.Flashes(w, r),
		})
	}
}

// RefreshDashboard re-runs the fetch for the admitted view and returns the
// committed frame as JSON.
func RefreshDashboard(c Composer) http.HandlerFunc {
	return refreshDashboard(c, combinedEntry)
}

func refreshDashboard(c Composer, entry entryPoint) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := session.FromContext(r.Context())
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
				"success": false,
				"error":   "Authentication required",
			})
			return
		}

		frame := forEntry(c.Refresh(r.Context(), d.View, d.Session.Email), entry)
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": !frame.Failed,
			"frame":   frame,
		})
	}
}
