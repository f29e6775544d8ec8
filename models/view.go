// models/view.go
package models

import "fmt"

// View is one of the two dashboard view modes.
type View int

const (
	// UserView is the single-user history view.
	UserView View = iota
	// AdminView is the all-users statistics view.
	AdminView
)

func (v View) String() string {
	switch v {
	case AdminView:
		return "admin"
	case UserView:
		return "user"
	default:
		return "unknown"
	}
}

// MarshalText encodes the view as "admin" or "user".
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText parses "admin" or "user".
func (v *View) UnmarshalText(text []byte) error {
	switch string(text) {
	case "admin":
		*v = AdminView
	case "user":
		*v = UserView
	default:
		return fmt.Errorf("unknown view %q", text)
	}
	return nil
}
