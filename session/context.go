package session

import (
	"context"

	"healthpredict-web/models"
)

type contextKey struct{}

// WithDecision stores an admitted Decision on ctx.
func WithDecision(ctx context.Context, d Decision) context.Context {
	return context.WithValue(ctx, contextKey{}, d)
}

// FromContext returns the Decision stored by WithDecision.
func FromContext(ctx context.Context) (Decision, bool) {
	d, ok := ctx.Value(contextKey{}).(Decision)
	return d, ok && d.Admit
}

// SessionFromContext is a shortcut for the admitted Session.
func SessionFromContext(ctx context.Context) (*models.Session, bool) {
	d, ok := FromContext(ctx)
	if !ok {
		return nil, false
	}
	return d.Session, true
}
