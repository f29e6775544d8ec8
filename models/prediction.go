// models/prediction.go
package models

// PredictionRecord is one historical risk assessment as returned by the
// statistics endpoints. Fullname is only populated in the admin payload.
type PredictionRecord struct {
	Fullname  string `json:"fullname,omitempty"`
	Type      string `json:"type"`
	Outcome   string `json:"outcome"`
	Timestamp string `json:"timestamp"`
}

// AdminSnapshot is the aggregated statistics payload over all users.
type AdminSnapshot struct {
	TotalUsers          int                `json:"total_users"`
	PredictionBreakdown map[string]int     `json:"prediction_breakdown"`
	RecentPredictions   []PredictionRecord `json:"recent_predictions"`
}

// UserSnapshot is the statistics payload scoped to a single identity.
// WellnessScore is kept as display text since the backend may send either a
// number or a preformatted string.
type UserSnapshot struct {
	WellnessScore string             `json:"wellness_score"`
	Predictions   []PredictionRecord `json:"predictions"`
}
