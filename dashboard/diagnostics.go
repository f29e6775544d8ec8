package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"healthpredict-web/models"
)

// Failure kinds reported to Diagnostics.
const (
	KindTransport = "transport"
	KindMalformed = "malformed"
)

// Failure is one failed statistics fetch.
type Failure struct {
	View       View
	Email      string
	Kind       string
	StatusCode int
	Err        error
	At         time.Time
}

// NewFailure classifies err.
func NewFailure(view View, email string, err error, at time.Time) Failure {
	f := Failure{View: view, Email: email, Kind: KindTransport, Err: err, At: at}

	var malformed *models.MalformedResponseError
	if errors.As(err, &malformed) {
		f.Kind = KindMalformed
	}

	var transport *models.TransportError
	if errors.As(err, &transport) {
		f.StatusCode = transport.StatusCode
	}
	return f
}

// Diagnostics receives fetch failures. Implementations must not fail the
// caller.
type Diagnostics interface {
	Report(ctx context.Context, f Failure)
}

// LogDiagnostics writes failures to a logrus logger.
type LogDiagnostics struct {
	logger *logrus.Logger
}

// NewLogDiagnostics creates a LogDiagnostics.
func NewLogDiagnostics(logger *logrus.Logger) *LogDiagnostics {
	return &LogDiagnostics{logger: logger}
}

// Report implements Diagnostics.
func (d *LogDiagnostics) Report(_ context.Context, f Failure) {
	d.logger.WithFields(logrus.Fields{
		"view":        f.View.String(),
		"email":       f.Email,
		"kind":        f.Kind,
		"status_code": f.StatusCode,
	}).WithError(f.Err).Error("Error loading dashboard")
}

// MultiDiagnostics fans a failure out to every sink.
type MultiDiagnostics []Diagnostics

// Report implements Diagnostics.
func (m MultiDiagnostics) Report(ctx context.Context, f Failure) {
	for _, d := range m {
		d.Report(ctx, f)
	}
}
