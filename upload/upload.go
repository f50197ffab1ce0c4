// Package upload submits result documents to a collection server.
package upload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/threadstone/threadstone/harness"
)

// ErrRejected is returned when the server answers with a non-2xx status.
var ErrRejected = errors.New("upload rejected")

const maxErrorBody = 512

// Client posts results to Endpoint.
type Client struct {
	Endpoint   string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// NewClient validates endpoint and returns a Client using httpClient.
func NewClient(endpoint string, httpClient *http.Client, logger *slog.Logger) (*Client, error) {
	if endpoint == "" {
		return nil, fmt.Errorf("upload endpoint is not configured")
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q must be http or https", endpoint)
	}

	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		Endpoint:   endpoint,
		HTTPClient: httpClient,
		Logger:     logger.With(slog.String("endpoint", endpoint)),
	}, nil
}

// Upload posts result as JSON.
func (c *Client) Upload(ctx context.Context, result *harness.Result) error {
	var body bytes.Buffer
	if err := result.WriteJSON(&body); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, &body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	c.Logger.InfoContext(ctx, "uploading result",
		slog.String("id", result.ID),
		slog.String("workload", result.Workload),
	)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("post result: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

		return fmt.Errorf("%w: %s: %s", ErrRejected, resp.Status, bytes.TrimSpace(excerpt))
	}

	c.Logger.InfoContext(ctx, "result uploaded",
		slog.Int("status", resp.StatusCode),
	)

	return nil
}
