// Package dashboard selects the dashboard view, fetches the matching
// statistics snapshot and projects it into a render tree.
package dashboard

import "healthpredict-web/models"

// View is re-exported so callers outside models can name view modes here.
type View = models.View

const (
	AdminView = models.AdminView
	UserView  = models.UserView
)

// SelectView returns AdminView for administrators and UserView otherwise.
func SelectView(s *models.Session) View {
	if s != nil && s.IsAdmin {
		return AdminView
	}
	return UserView
}
