// database/diagnostics.go
package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/sirupsen/logrus"

	"healthpredict-web/dashboard"
)

const insertTimeout = 3 * time.Second

// DiagnosticsStore records statistics fetch failures in Postgres.
type DiagnosticsStore struct {
	db     *sql.DB
	logger *logrus.Logger
}

// NewDiagnosticsStore creates a DiagnosticsStore over db.
func NewDiagnosticsStore(db *sql.DB, logger *logrus.Logger) *DiagnosticsStore {
	return &DiagnosticsStore{db: db, logger: logger}
}

// Report implements dashboard.Diagnostics. Insert errors are logged and
// dropped.
func (s *DiagnosticsStore) Report(ctx context.Context, f dashboard.Failure) {
	// The request may already be cancelled when its fetch failed.
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), insertTimeout)
	defer cancel()

	var status sql.NullInt32
	if f.StatusCode != 0 {
		status = sql.NullInt32{Int32: int32(f.StatusCode), Valid: true}
	}

	message := ""
	if f.Err != nil {
		message = f.Err.Error()
	}

	_, err := s.db.ExecContext(ctx, `
        INSERT INTO fetch_failures (view, email, kind, status_code, message, occurred_at)
        VALUES ($1, $2, $3, $4, $5, $6)
    `, f.View.String(), f.Email, f.Kind, status, message, f.At.UTC())
	if err != nil {
		s.logger.WithError(err).WithField("email", f.Email).Warn("Failed to record fetch failure")
	}
}
