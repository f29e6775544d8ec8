// models/dashboard.go
package models

// Text is a single plain-text display region such as a counter.
type Text struct {
	Value       string `json:"value"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// ListItem is one labeled entry of a List. Placeholder items carry their
// message in Label and have no Value.
type ListItem struct {
	Label       string `json:"label"`
	Value       string `json:"value,omitempty"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// List is a rendered list region.
type List struct {
	Items []ListItem `json:"items"`
}

// Cell is one table cell.
type Cell struct {
	Text  string `json:"text"`
	Badge bool   `json:"badge,omitempty"`
	Muted bool   `json:"muted,omitempty"`
}

// Row is one table row. A placeholder row has a single cell spanning Span
// columns.
type Row struct {
	Cells       []Cell `json:"cells"`
	Placeholder bool   `json:"placeholder,omitempty"`
	Span        int    `json:"span,omitempty"`
}

// Table is a rendered table body with its column headings.
type Table struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// StatusCard shows the latest assessment for one fixed category.
type StatusCard struct {
	Category  string `json:"category"`
	Outcome   string `json:"outcome"`
	Timestamp string `json:"timestamp,omitempty"`
	HasData   bool   `json:"has_data"`
}

// AdminDashboard is the render tree of the admin statistics view.
type AdminDashboard struct {
	TotalUsers Text  `json:"total_users"`
	Breakdown  List  `json:"breakdown"`
	Recent     Table `json:"recent"`
}

// UserDashboard is the render tree of the personal history view.
type UserDashboard struct {
	WellnessScore Text         `json:"wellness_score"`
	StatusCards   []StatusCard `json:"status_cards"`
	History       Table        `json:"history"`
}

// DashboardPage is the data handed to the dashboard templates. Exactly one
// of Admin and User is set.
type DashboardPage struct {
	Title   string
	Session *Session
	View    string
	Admin   *AdminDashboard
	User    *UserDashboard
	Failed  bool
	Flashes []string
}
