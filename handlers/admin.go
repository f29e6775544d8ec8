// handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"healthpredict-web/session"
)

// AdminDashboard serves the admin-only statistics page. It must be mounted
// behind middleware.AdminAuth; a failure before the first successful fetch
// shows the error text instead of the loading placeholders.
func AdminDashboard(c Composer, provider session.Provider, rd *Renderer, logger *logrus.Logger) http.HandlerFunc {
	return dashboardPage(c, provider, rd, logger, adminOnlyEntry)
}

// AdminRefreshDashboard is RefreshDashboard for the admin-only page.
func AdminRefreshDashboard(c Composer) http.HandlerFunc {
	return refreshDashboard(c, adminOnlyEntry)
}
