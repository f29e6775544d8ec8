// models/session.go
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Session is the locally persisted identity of the signed-in browser user.
// Field names match the user object returned by the backend login endpoint.
type Session struct {
	Email    string `json:"email"`
	Fullname string `json:"fullname"`
	IsAdmin  bool   `json:"is_admin"`
}

// Valid reports whether the session carries an identity. A session without
// an email cannot scope a statistics fetch and is treated as absent.
func (s *Session) Valid() bool {
	return s != nil && strings.TrimSpace(s.Email) != ""
}

// DisplayName returns the fullname, falling back to the email.
func (s *Session) DisplayName() string {
	if s == nil {
		return ""
	}
	if name := strings.TrimSpace(s.Fullname); name != "" {
		return name
	}
	return s.Email
}

// UnmarshalJSON accepts is_admin as a boolean or as the 0/1 integer the
// backend stores.
func (s *Session) UnmarshalJSON(data []byte) error {
	var raw struct {
		Email    string          `json:"email"`
		Fullname string          `json:"fullname"`
		IsAdmin  json.RawMessage `json:"is_admin"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	s.Email = raw.Email
	s.Fullname = raw.Fullname
	s.IsAdmin = false

	switch strings.TrimSpace(string(raw.IsAdmin)) {
	case "", "null", "false", "0":
	case "true", "1":
		s.IsAdmin = true
	default:
		return fmt.Errorf("is_admin: unexpected value %s", raw.IsAdmin)
	}
	return nil
}
