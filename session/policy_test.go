package session_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"healthpredict-web/models"
	"healthpredict-web/session"
)

var (
	adminSession = &models.Session{Email: "admin@x.com", Fullname: "Admin", IsAdmin: true}
	userSession  = &models.Session{Email: "bob@x.com", Fullname: "Bob", IsAdmin: false}
)

func TestAdminOnlyPolicy(t *testing.T) {
	p := session.AdminOnlyPolicy{}

	tests := []struct {
		name    string
		verdict session.Verdict
		want    session.Decision
	}{
		{
			name:    "unauthenticated goes to login",
			verdict: session.Verdict{},
			want:    session.Decision{RedirectTo: "/login", Err: models.ErrUnauthenticated},
		},
		{
			name:    "non-admin is sent home with alert",
			verdict: session.Verdict{Authenticated: true, Session: userSession},
			want: session.Decision{
				Session:    userSession,
				RedirectTo: "/",
				Flash:      "Access denied: Admins only.",
				Err:        models.ErrUnauthorized,
			},
		},
		{
			name:    "admin is admitted to admin view",
			verdict: session.Verdict{Authenticated: true, Session: adminSession},
			want:    session.Decision{Admit: true, View: models.AdminView, Session: adminSession},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Decide(tt.verdict))
		})
	}
}

func TestCombinedPolicy(t *testing.T) {
	p := session.CombinedPolicy{}

	tests := []struct {
		name    string
		verdict session.Verdict
		want    session.Decision
	}{
		{
			name:    "unauthenticated goes to login",
			verdict: session.Verdict{},
			want:    session.Decision{RedirectTo: "/login", Err: models.ErrUnauthenticated},
		},
		{
			name:    "non-admin is downgraded silently",
			verdict: session.Verdict{Authenticated: true, Session: userSession},
			want:    session.Decision{Admit: true, View: models.UserView, Session: userSession},
		},
		{
			name:    "admin gets admin view",
			verdict: session.Verdict{Authenticated: true, Session: adminSession},
			want:    session.Decision{Admit: true, View: models.AdminView, Session: adminSession},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Decide(tt.verdict))
		})
	}
}

func TestPoliciesDifferOnlyForNonAdmins(t *testing.T) {
	verdicts := []session.Verdict{
		{},
		{Authenticated: true, Session: adminSession},
	}
	for _, v := range verdicts {
		assert.Equal(t, session.AdminOnlyPolicy{}.Decide(v), session.CombinedPolicy{}.Decide(v))
	}

	nonAdmin := session.Verdict{Authenticated: true, Session: userSession}
	assert.False(t, session.AdminOnlyPolicy{}.Decide(nonAdmin).Admit)
	assert.True(t, session.CombinedPolicy{}.Decide(nonAdmin).Admit)
}

func TestContextRoundTrip(t *testing.T) {
	d := session.CombinedPolicy{}.Decide(session.Verdict{Authenticated: true, Session: userSession})
	ctx := session.WithDecision(context.Background(), d)

	got, ok := session.FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, d, got)

	s, ok := session.SessionFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, userSession, s)

	_, ok = session.FromContext(context.Background())
	assert.False(t, ok)

	refused := session.WithDecision(context.Background(), session.Decision{RedirectTo: "/login"})
	_, ok = session.SessionFromContext(refused)
	assert.False(t, ok)
}
