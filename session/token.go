package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"healthpredict-web/models"
)

// Claims is the JWT body of a Bearer session token.
type Claims struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	IsAdmin  bool   `json:"is_admin"`
	jwt.RegisteredClaims
}

// TokenCodec issues and verifies HS256 session tokens for non-browser
// callers of the refresh API.
type TokenCodec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenCodec creates a TokenCodec.
func NewTokenCodec(secret string, ttl time.Duration) *TokenCodec {
	return &TokenCodec{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a token for s.
func (c *TokenCodec) Issue(s *models.Session) (string, error) {
	if !s.Valid() {
		return "", errors.New("cannot issue token for empty session")
	}

	now := c.now()
	claims := Claims{
		Email:    s.Email,
		Fullname: s.Fullname,
		IsAdmin:  s.IsAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   s.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its Session.
func (c *TokenCodec) Parse(tokenString string) (*models.Session, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(*jwt.Token) (interface{}, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	s := &models.Session{Email: claims.Email, Fullname: claims.Fullname, IsAdmin: claims.IsAdmin}
	if !s.Valid() {
		return nil, errors.New("invalid session token: missing email")
	}
	return s, nil
}
