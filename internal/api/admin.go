package api

import (
	"context"
	"encoding/json"

	"github.com/sandwipshanto/relevant/internal/models"
)

// ProcessingResponse wraps the background-job status endpoint.
type ProcessingResponse struct {
	Success bool                    `json:"success"`
	Status  models.ProcessingStatus `json:"status"`
}

// ProcessingStatus reports server-side content-processing jobs.
func (c *Client) ProcessingStatus(ctx context.Context) (*models.ProcessingStatus, error) {
	var resp ProcessingResponse
	if err := c.get(ctx, "/api/processing/status", &resp); err != nil {
		return nil, err
	}
	return &resp.Status, nil
}

// TriggerProcessing asks the server to re-run content processing now.
func (c *Client) TriggerProcessing(ctx context.Context) error {
	return c.do(ctx, "POST", "/api/processing/trigger", nil, nil)
}

// AdminDiagnostics fetches the raw diagnostics document. The shape varies by
// deployment, so it stays an untyped JSON object.
func (c *Client) AdminDiagnostics(ctx context.Context) (map[string]any, error) {
	var raw json.RawMessage
	if err := c.get(ctx, "/api/admin/diagnostics", &raw); err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
