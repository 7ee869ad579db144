// Package webhook provides the outbound webhook node executor. It POSTs a
// JSON envelope of the run state to a caller-configured URL. Failures of any
// kind are encoded into the node result, never raised.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fluxlane/fluxlane/pkg/models"
	"github.com/fluxlane/fluxlane/pkg/protocol"
)

const defaultTimeout = 30 * time.Second

// envelope is the JSON body delivered to the webhook endpoint.
type envelope struct {
	WorkflowID string         `json:"workflowId"`
	RunID      string         `json:"runId"`
	NodeID     string         `json:"nodeId"`
	Variables  map[string]any `json:"variables"`
	Results    map[string]any `json:"results"`
}

type Executor struct {
	client *http.Client
	logger *slog.Logger
}

func NewExecutor(client *http.Client, logger *slog.Logger) *Executor {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}

	return &Executor{client: client, logger: logger}
}

func (e *Executor) Execute(ctx context.Context, node *models.Node, execCtx *models.ExecutionContext) (protocol.Outcome, error) {
	url := node.StringAttribute("url")
	if url == "" {
		return protocol.ResultOutcome(errorResult("webhook node has no url configured")), nil
	}

	payload, err := json.Marshal(envelope{
		WorkflowID: execCtx.WorkflowID,
		RunID:      execCtx.RunID,
		NodeID:     node.ID,
		Variables:  execCtx.Variables,
		Results:    execCtx.Results,
	})
	if err != nil {
		return protocol.ResultOutcome(errorResult("failed to encode webhook payload: " + err.Error())), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return protocol.ResultOutcome(errorResult("failed to build webhook request: " + err.Error())), nil
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		e.logger.Warn("webhook delivery failed", "node_id", node.ID, "url", url, "error", err)

		return protocol.ResultOutcome(errorResult("webhook request failed: " + err.Error())), nil
	}

	defer func() {
		if err := resp.Body.Close(); err != nil {
			e.logger.Warn("failed to close webhook response body", "error", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return protocol.ResultOutcome(errorResult("failed to read webhook response: " + err.Error())), nil
	}

	// Non-2xx responses are captured in the result, not raised.
	return protocol.ResultOutcome(map[string]any{
		"success": resp.StatusCode >= 200 && resp.StatusCode < 300,
		"status":  resp.StatusCode,
		"data":    decodeBody(body),
	}), nil
}

// decodeBody parses the response as JSON when possible, falling back to the
// raw text.
func decodeBody(body []byte) any {
	var data any
	if err := json.Unmarshal(body, &data); err == nil {
		return data
	}

	return string(body)
}

func errorResult(message string) map[string]any {
	return map[string]any{
		"success": false,
		"error":   message,
	}
}
