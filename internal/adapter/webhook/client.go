// Package webhook posts accepted reports to the city operations webhook, the
// HTTP secondary sink.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/VarunUmapathy/Urbanlytic/internal/domain"
)

// Client implements ingest.Forwarder over HTTP.
type Client struct {
	endpoint   string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a webhook forwarder for the given endpoint.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoint: endpoint,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Name identifies this sink in metrics, logs, and dead letters.
func (c *Client) Name() string { return "webhook" }

// Forward posts one report as JSON. Any non-2xx response is an error; the
// response body is included for diagnosis.
func (c *Client) Forward(ctx context.Context, report domain.ForwardedReport) error {
	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook error: status %d: %s", resp.StatusCode, body)
	}

	c.logger.Debug("webhook delivered", "report_id", report.ID, "status", resp.StatusCode)
	return nil
}
