package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"healthpredict-web/models"
)

const tokenSecret = "0123456789abcdef0123456789abcdef"

func TestTokenCodec_RoundTrip(t *testing.T) {
	codec := NewTokenCodec(tokenSecret, time.Hour)
	in := &models.Session{Email: "admin@x.com", Fullname: "Admin", IsAdmin: true}

	token, err := codec.Issue(in)
	require.NoError(t, err)

	out, err := codec.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestTokenCodec_IssueRejectsEmptySession(t *testing.T) {
	_, err := NewTokenCodec(tokenSecret, time.Hour).Issue(&models.Session{Fullname: "No Email"})
	assert.Error(t, err)
}

func TestTokenCodec_ParseRejects(t *testing.T) {
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	expired := NewTokenCodec(tokenSecret, time.Minute)
	expired.now = func() time.Time { return base }
	expiredToken, err := expired.Issue(&models.Session{Email: "a@x.com"})
	require.NoError(t, err)

	otherKey, err := NewTokenCodec("ffffffffffffffffffffffffffffffff", time.Hour).Issue(&models.Session{Email: "a@x.com"})
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{Email: "a@x.com"}).SignedString([]byte(tokenSecret))
	require.NoError(t, err)

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(tokenSecret))
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, Claims{
		Email:            "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(tokenSecret))
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		now   time.Time
	}{
		{name: "expired", token: expiredToken, now: base.Add(2 * time.Minute)},
		{name: "foreign key", token: otherKey, now: time.Now()},
		{name: "no expiry", token: noExpiry, now: time.Now()},
		{name: "no email", token: noEmail, now: time.Now()},
		{name: "wrong algorithm", token: wrongAlg, now: time.Now()},
		{name: "garbage", token: "abc.def.ghi", now: time.Now()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := NewTokenCodec(tokenSecret, time.Hour)
			now := tt.now
			codec.now = func() time.Time { return now }

			s, err := codec.Parse(tt.token)
			assert.Error(t, err)
			assert.Nil(t, s)
		})
	}
}
