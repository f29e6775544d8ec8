// Package client calls the prediction/authentication backend API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// BaseClient provides request building, JSON headers and logging for calls
// to the backend.
type BaseClient struct {
	httpClient *http.Client
	baseURL    string
	logger     *logrus.Logger
}

// NewBaseClient creates a BaseClient for the backend rooted at baseURL
// (e.g. "http://localhost:8000").
func NewBaseClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *BaseClient {
	return &BaseClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Do executes a request against path with the given query and JSON body.
// query values are URL-encoded. The caller closes the response body.
func (c *BaseClient) Do(
	ctx context.Context,
	method string,
	path string,
	query url.Values,
	body interface{},
) (*http.Response, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	// Query strings carry the user's email, so only the path is logged.
	fields := logrus.Fields{
		"method": method,
		"path":   path,
	}
	c.logger.WithFields(fields).Debug("Sending HTTP request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithFields(fields).WithError(err).Error("HTTP request failed")
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}

	c.logger.WithFields(fields).WithField("status", resp.StatusCode).Debug("Received HTTP response")

	return resp, nil
}

// BaseURL returns the configured backend origin.
func (c *BaseClient) BaseURL() string {
	return c.baseURL
}

// errorBody is the error shape returned by the backend.
type errorBody struct {
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

// parseErrorDetail extracts a human readable message from an error response.
// It returns an empty string when the body has no usable message.
func parseErrorDetail(resp *http.Response) string {
	var body errorBody
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<16)).Decode(&body); err != nil {
		return ""
	}
	if body.Detail != "" {
		return body.Detail
	}
	return body.Message
}

func isSuccess(status int) bool {
	return status >= http.StatusOK && status < http.StatusMultipleChoices
}
