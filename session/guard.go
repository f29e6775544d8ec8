package session

import (
	"net/http"

	"healthpredict-web/models"
)

// Verdict is the outcome of evaluating a request's Session.
type Verdict struct {
	Authenticated bool
	Session       *models.Session
}

// Guard decides whether a request carries a usable Session. It never calls
// the network.
type Guard struct {
	provider Provider
}

// NewGuard creates a Guard reading from provider.
func NewGuard(provider Provider) *Guard {
	return &Guard{provider: provider}
}

// Evaluate loads the Session for r. A missing or unreadable Session yields
// an unauthenticated Verdict.
func (g *Guard) Evaluate(r *http.Request) Verdict {
	s, err := g.provider.Load(r)
	if err != nil || !s.Valid() {
		return Verdict{}
	}
	return Verdict{Authenticated: true, Session: s}
}
