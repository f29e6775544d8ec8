// handlers/auth.go
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"healthpredict-web/client"
	"healthpredict-web/models"
	"healthpredict-web/session"
)

// Authenticator checks credentials against the backend.
type Authenticator interface {
	Login(ctx context.Context, req *client.LoginRequest) (*models.Session, error)
}

// SurfaceForgetter drops the display state of a signed-out identity.
type SurfaceForgetter interface {
	Forget(email string)
}

type LoginResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Token   string          `json:"token,omitempty"`
	User    *models.Session `json:"user,omitempty"`
}

// Login accepts the login form or a JSON body, verifies the credentials
// with the backend and creates the Session. JSON callers also receive a
// Bearer token when token sessions are enabled.
func Login(auth Authenticator, provider session.Provider, tokens *session.TokenCodec, rd *Renderer, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wantsJSON := isJSON(r)

		var req client.LoginRequest
		if wantsJSON {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeJSON(w, http.StatusBadRequest, LoginResponse{Message: "Invalid request body"})
				return
			}
		} else {
			req.Email = r.PostFormValue("email")
			req.Password = r.PostFormValue("password")
		}
		req.Email = strings.TrimSpace(req.Email)

		fail := func(status int, message string) {
			if wantsJSON {
				writeJSON(w, status, LoginResponse{Message: message})
				return
			}
			rd.Render(w, status, "login.html", map[string]interface{}{
				"Title": "Login - HealthPredict",
				"Error": message,
				"Email": req.Email,
			})
		}

		if req.Email == "" || req.Password == "" {
			fail(http.StatusBadRequest, "Email and password are required")
			return
		}

		s, err := auth.Login(r.Context(), &req)
		if err != nil {
			var loginErr *client.LoginError
			switch {
			case errors.As(err, &loginErr) && errors.Is(err, client.ErrInvalidCredentials):
				fail(http.StatusUnauthorized, loginErr.Error())
			default:
				logger.WithError(err).Error("Login request to backend failed")
				fail(http.StatusBadGateway, "Login is unavailable, please try again later")
			}
			return
		}

		if err := provider.Save(w, r, s); err != nil {
			logger.WithError(err).Error("Failed to save session")
			fail(http.StatusInternalServerError, "Could not start session")
			return
		}

		logger.WithFields(logrus.Fields{
			"email":    s.Email,
			"is_admin": s.IsAdmin,
		}).Info("User signed in")

		if !wantsJSON {
			if err := provider.Flash(w, r, "Login successful!"); err != nil {
				logger.WithError(err).Warn("Failed to store flash message")
			}
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		resp := LoginResponse{Success: true, User: s}
		if tokens != nil {
			token, err := tokens.Issue(s)
			if err != nil {
				logger.WithError(err).Error("Failed to issue session token")
				fail(http.StatusInternalServerError, "Could not issue token")
				return
			}
			resp.Token = token
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// Logout clears the Session and forgets the identity's dashboard state.
func Logout(provider session.Provider, surface SurfaceForgetter, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, err := provider.Load(r); err == nil {
			surface.Forget(s.Email)
		}

		if err := provider.Clear(w, r); err != nil {
			logger.WithError(err).Warn("Failed to clear session")
		}

		if isJSON(r) {
			writeJSON(w, http.StatusOK, map[string]interface{}{
				"success": true,
				"message": "Logged out",
			})
			return
		}
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

func isJSON(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
