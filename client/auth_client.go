package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"

	"healthpredict-web/models"
)

const loginPath = "/api/login"

// ErrInvalidCredentials is returned when the backend rejects a login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginError carries the backend's rejection message.
type LoginError struct {
	StatusCode int
	Detail     string
}

func (e *LoginError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("login failed with status %d", e.StatusCode)
}

// Unwrap lets callers match client rejections with ErrInvalidCredentials.
func (e *LoginError) Unwrap() error {
	if e.StatusCode >= http.StatusBadRequest && e.StatusCode < http.StatusInternalServerError {
		return ErrInvalidCredentials
	}
	return nil
}

// AuthClient authenticates users against the backend.
type AuthClient struct {
	*BaseClient

	logger *logrus.Logger
}

// NewAuthClient creates an AuthClient on top of base.
func NewAuthClient(base *BaseClient, logger *logrus.Logger) *AuthClient {
	return &AuthClient{BaseClient: base, logger: logger}
}

// Login posts the credentials and returns the identity from the response's
// user object.
func (c *AuthClient) Login(ctx context.Context, req *LoginRequest) (*models.Session, error) {
	resp, err := c.Do(ctx, http.MethodPost, loginPath, nil, req)
	if err != nil {
		return nil, &models.TransportError{Op: "login", Err: err}
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		loginErr := &LoginError{StatusCode: resp.StatusCode, Detail: parseErrorDetail(resp)}
		c.logger.WithField("status", resp.StatusCode).Info("Login rejected by backend")
		return nil, loginErr
	}

	var body struct {
		User *models.Session `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &models.MalformedResponseError{Op: "login", Err: err}
	}
	if !body.User.Valid() {
		return nil, &models.MalformedResponseError{Op: "login", Missing: []string{"user.email"}}
	}

	return body.User, nil
}
