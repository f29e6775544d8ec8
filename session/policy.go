package session

import (
	"healthpredict-web/dashboard"
	"healthpredict-web/models"
)

const (
	// LoginPath is where unauthenticated visitors are sent.
	LoginPath = "/login"
	// HomePath is where authenticated non-admins land when refused.
	HomePath = "/"
	// AdminDeniedMessage is flashed when a non-admin opens an admin page.
	AdminDeniedMessage = "Access denied: Admins only."
)

// Decision is what a Policy wants done with a request.
type Decision struct {
	Admit      bool
	View       models.View
	Session    *models.Session
	RedirectTo string
	Flash      string
	// Err is models.ErrUnauthenticated or models.ErrUnauthorized when the
	// request is refused.
	Err error
}

// Policy maps a Verdict to a Decision.
type Policy interface {
	Decide(v Verdict) Decision
	Name() string
}

// AdminOnlyPolicy admits administrators only. Other signed-in users are
// sent home with an alert.
type AdminOnlyPolicy struct{}

// Name implements Policy.
func (AdminOnlyPolicy) Name() string { return "admin_only" }

// Decide implements Policy.
func (AdminOnlyPolicy) Decide(v Verdict) Decision {
	if !v.Authenticated {
		return Decision{RedirectTo: LoginPath, Err: models.ErrUnauthenticated}
	}
	if !v.Session.IsAdmin {
		return Decision{
			Session:    v.Session,
			RedirectTo: HomePath,
			Flash:      AdminDeniedMessage,
			Err:        models.ErrUnauthorized,
		}
	}
	return Decision{Admit: true, View: models.AdminView, Session: v.Session}
}

// CombinedPolicy admits any signed-in user and picks the view from the
// Session's privilege. Non-admins are downgraded silently.
type CombinedPolicy struct{}

// Name implements Policy.
func (CombinedPolicy) Name() string { return "combined" }

// Decide implements Policy.
func (CombinedPolicy) Decide(v Verdict) Decision {
	if !v.Authenticated {
		return Decision{RedirectTo: LoginPath, Err: models.ErrUnauthenticated}
	}
	return Decision{Admit: true, View: dashboard.SelectView(v.Session), Session: v.Session}
}
