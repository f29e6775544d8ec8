// middleware/auth.go
package middleware

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"

	"healthpredict-web/models"
	"healthpredict-web/session"
)

// Auth gates a page on the combined dashboard policy.
func Auth(guard *session.Guard, provider session.Provider, logger *logrus.Logger) func(http.Handler) http.Handler {
	return RequireSession(guard, session.CombinedPolicy{}, provider, logger)
}

// RequireSession evaluates the Session before next runs and applies the
// policy's Decision: admitted requests carry it in their context, refused
// ones are redirected with an optional flash.
func RequireSession(guard *session.Guard, policy session.Policy, provider session.Provider, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := policy.Decide(guard.Evaluate(r))
			if d.Admit {
				next.ServeHTTP(w, r.WithContext(session.WithDecision(r.Context(), d)))
				return
			}

			logRefusal(logger, r, policy, d)

			if d.Flash != "" {
				if err := provider.Flash(w, r, d.Flash); err != nil {
					logger.WithError(err).Warn("Failed to store flash message")
				}
			}
			http.Redirect(w, r, d.RedirectTo, http.StatusSeeOther)
		})
	}
}

// RequireSessionAPI is RequireSession for JSON endpoints: refusals are
// answered with 401 or 403 instead of a redirect.
func RequireSessionAPI(guard *session.Guard, policy session.Policy, logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := policy.Decide(guard.Evaluate(r))
			if d.Admit {
				next.ServeHTTP(w, r.WithContext(session.WithDecision(r.Context(), d)))
				return
			}

			logRefusal(logger, r, policy, d)

			status, message := http.StatusUnauthorized, "Authentication required"
			if errors.Is(d.Err, models.ErrUnauthorized) {
				status, message = http.StatusForbidden, d.Flash
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   message,
			})
		})
	}
}

func logRefusal(logger *logrus.Logger, r *http.Request, policy session.Policy, d session.Decision) {
	fields := logrus.Fields{
		"request_id": RequestIDFromContext(r.Context()),
		"policy":     policy.Name(),
		"path":       r.URL.Path,
	}
	if d.Session != nil {
		fields["email"] = d.Session.Email
	}
	logger.WithFields(fields).WithError(d.Err).Info("Request refused by session policy")
}
