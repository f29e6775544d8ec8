package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"

	"healthpredict-web/models"
)

const (
	adminStatsPath = "/api/admin/stats"
	userStatsPath  = "/api/user/stats"
)

// StatsClient fetches statistics snapshots from the backend.
type StatsClient struct {
	*BaseClient

	logger *logrus.Logger
}

// NewStatsClient creates a StatsClient on top of base.
func NewStatsClient(base *BaseClient, logger *logrus.Logger) *StatsClient {
	return &StatsClient{BaseClient: base, logger: logger}
}

// AdminStats issues GET /api/admin/stats?email=... and decodes the body.
func (c *StatsClient) AdminStats(ctx context.Context, email string) (*models.AdminSnapshot, error) {
	const op = "admin stats"

	resp, err := c.get(ctx, op, adminStatsPath, email)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return DecodeAdminSnapshot(resp.Body)
}

// UserStats issues GET /api/user/stats?email=... and decodes the body.
func (c *StatsClient) UserStats(ctx context.Context, email string) (*models.UserSnapshot, error) {
	const op = "user stats"

	resp, err := c.get(ctx, op, userStatsPath, email)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	return DecodeUserSnapshot(resp.Body)
}

// get performs the request and converts transport failures and non-success
// statuses into a TransportError. On success the caller closes the body.
func (c *StatsClient) get(ctx context.Context, op, path, email string) (*http.Response, error) {
	resp, err := c.Do(ctx, http.MethodGet, path, url.Values{"email": {email}}, nil)
	if err != nil {
		return nil, &models.TransportError{Op: op, Err: err}
	}

	if !isSuccess(resp.StatusCode) {
		detail := parseErrorDetail(resp)
		resp.Body.Close()
		c.logger.WithFields(logrus.Fields{
			"op":     op,
			"status": resp.StatusCode,
			"detail": detail,
		}).Warn("Statistics request rejected")
		return nil, &models.TransportError{Op: op, StatusCode: resp.StatusCode}
	}

	return resp, nil
}
