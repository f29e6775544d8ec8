// Package session owns the persisted Session: loading it once per request,
// saving it on login, clearing it on logout, and gating pages on it.
package session

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/sirupsen/logrus"

	"healthpredict-web/config"
	"healthpredict-web/models"
)

// userKey is the cookie value key holding the serialized Session.
const userKey = "user"

// Provider is the single source of the current request's Session.
type Provider interface {
	// Load returns the Session or models.ErrUnauthenticated when none is
	// present or the stored value cannot be parsed.
	Load(r *http.Request) (*models.Session, error)
	Save(w http.ResponseWriter, r *http.Request, s *models.Session) error
	Clear(w http.ResponseWriter, r *http.Request) error
	Flash(w http.ResponseWriter, r *http.Request, msg string) error
	Flashes(w http.ResponseWriter, r *http.Request) []string
}

// CookieProvider keeps the Session in a signed cookie and optionally accepts
// Bearer tokens issued by a TokenCodec.
type CookieProvider struct {
	store  *sessions.CookieStore
	name   string
	tokens *TokenCodec
	logger *logrus.Logger
}

// NewCookieProvider creates a CookieProvider. tokens may be nil to disable
// Bearer sessions.
func NewCookieProvider(cfg *config.SessionConfig, tokens *TokenCodec, logger *logrus.Logger) *CookieProvider {
	store := sessions.NewCookieStore([]byte(cfg.Secret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}

	return &CookieProvider{
		store:  store,
		name:   cfg.Name,
		tokens: tokens,
		logger: logger,
	}
}

// Load implements Provider.
func (p *CookieProvider) Load(r *http.Request) (*models.Session, error) {
	if s := p.fromCookie(r); s != nil {
		return s, nil
	}
	if s := p.fromBearer(r); s != nil {
		return s, nil
	}
	return nil, models.ErrUnauthenticated
}

func (p *CookieProvider) fromCookie(r *http.Request) *models.Session {
	sess, err := p.store.Get(r, p.name)
	if err != nil {
		p.logger.WithError(err).Debug("Discarding unreadable session cookie")
		return nil
	}

	raw, ok := sess.Values[userKey].(string)
	if !ok {
		return nil
	}

	var s models.Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil || !s.Valid() {
		p.logger.WithError(err).Warn("Stored session is malformed, treating as signed out")
		return nil
	}
	return &s
}

func (p *CookieProvider) fromBearer(r *http.Request) *models.Session {
	if p.tokens == nil {
		return nil
	}

	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}

	s, err := p.tokens.Parse(strings.TrimPrefix(header, "Bearer "))
	if err != nil {
		p.logger.WithError(err).Debug("Rejected bearer session token")
		return nil
	}
	return s
}

// Save implements Provider.
func (p *CookieProvider) Save(w http.ResponseWriter, r *http.Request, s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}

	// A stale or tampered cookie still yields a fresh session to write into.
	sess, _ := p.store.Get(r, p.name)
	sess.Values[userKey] = string(data)
	return sess.Save(r, w)
}

// Clear implements Provider.
func (p *CookieProvider) Clear(w http.ResponseWriter, r *http.Request) error {
	sess, _ := p.store.Get(r, p.name)
	delete(sess.Values, userKey)
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// Flash queues a one-shot message shown on the next page.
func (p *CookieProvider) Flash(w http.ResponseWriter, r *http.Request, msg string) error {
	sess, _ := p.store.Get(r, p.name)
	sess.AddFlash(msg)
	return sess.Save(r, w)
}

// Flashes pops the queued messages.
func (p *CookieProvider) Flashes(w http.ResponseWriter, r *http.Request) []string {
	sess, err := p.store.Get(r, p.name)
	if err != nil {
		return nil
	}

	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		p.logger.WithError(err).Warn("Failed to persist consumed flashes")
	}

	out := make([]string, 0, len(raw))
	for _, f := range raw {
		if s, ok := f.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
