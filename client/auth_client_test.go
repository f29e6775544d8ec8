package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthpredict-web/client"
	"healthpredict-web/logger"
	"healthpredict-web/models"
)

func newAuthClient(t *testing.T, handler http.HandlerFunc) *client.AuthClient {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.Discard()
	return client.NewAuthClient(client.NewBaseClient(server.URL, 5*time.Second, log), log)
}

func TestAuthClient_Login(t *testing.T) {
	ac := newAuthClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/login", r.URL.Path)

		var req client.LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a@b.com", req.Email)
		assert.Equal(t, "secret1", req.Password)

		_, _ = w.Write([]byte(`{"message": "ok", "user": {"email": "a@b.com", "fullname": "Ada", "is_admin": 1}}`))
	})

	s, err := ac.Login(context.Background(), &client.LoginRequest{Email: "a@b.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, &models.Session{Email: "a@b.com", Fullname: "Ada", IsAdmin: true}, s)
}

func TestAuthClient_Login_Rejected(t *testing.T) {
	ac := newAuthClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail": "Invalid credentials"}`))
	})

	_, err := ac.Login(context.Background(), &client.LoginRequest{Email: "a@b.com", Password: "nope"})
	require.Error(t, err)

	assert.True(t, errors.Is(err, client.ErrInvalidCredentials))
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestAuthClient_Login_ServerError(t *testing.T) {
	ac := newAuthClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := ac.Login(context.Background(), &client.LoginRequest{Email: "a@b.com", Password: "x"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, client.ErrInvalidCredentials))
	assert.Equal(t, "login failed with status 500", err.Error())
}

func TestAuthClient_Login_MissingUser(t *testing.T) {
	ac := newAuthClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"message": "ok"}`))
	})

	_, err := ac.Login(context.Background(), &client.LoginRequest{Email: "a@b.com", Password: "x"})
	assert.True(t, models.IsFetchFailure(err))
}
