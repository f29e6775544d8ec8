// middleware/admin_auth.go
package middleware

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"healthpredict-web/session"
)

// AdminAuth gates a page on the admin-only policy. Non-admins are sent home
// with an alert instead of being downgraded.
func AdminAuth(guard *session.Guard, provider session.Provider, logger *logrus.Logger) func(http.Handler) http.Handler {
	return RequireSession(guard, session.AdminOnlyPolicy{}, provider, logger)
}

// AdminAPIAuth is AdminAuth for JSON endpoints.
func AdminAPIAuth(guard *session.Guard, logger *logrus.Logger) func(http.Handler) http.Handler {
	return RequireSessionAPI(guard, session.AdminOnlyPolicy{}, logger)
}

// APIAuth gates a JSON endpoint on the combined policy.
func APIAuth(guard *session.Guard, logger *logrus.Logger) func(http.Handler) http.Handler {
	return RequireSessionAPI(guard, session.CombinedPolicy{}, logger)
}
