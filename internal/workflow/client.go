package workflow

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/nulzo/cache-gateway-api/internal/httpclient"
)

// Workflow run statuses reported by the external service. Anything else is
// treated as still in progress.
const (
	StatusCompleted = "COMPLETED"
	StatusFailed    = "FAILED"
	StatusError     = "ERROR"
	StatusRunning   = "RUNNING"
)

// Inputs identifies the account a run operates on. The composite cache key
// is derived from these two fields.
type Inputs struct {
	AccountNumber string `json:"accountnumber"`
	ClientID      string `json:"clientid"`
}

// TriggerRequest starts a workflow run.
type TriggerRequest struct {
	AgentID    string `json:"agent_id"`
	TemplateID string `json:"template_id"`
	Inputs     Inputs `json:"inputs"`
}

// RunStatus is one observation of a workflow run.
type RunStatus struct {
	ID     string                 `json:"id"`
	Status string                 `json:"status"`
	Error  string                 `json:"error,omitempty"`
	Output map[string]interface{} `json:"output,omitempty"`
}

// Runner triggers workflow runs and reports their status.
type Runner interface {
	Trigger(ctx context.Context, req TriggerRequest) (string, error)
	Status(ctx context.Context, runID string) (*RunStatus, error)
}

// Client is the REST Runner: a bearer-token-authenticated caller against the
// workflow service's internal API.
type Client struct {
	apiURL string
	token  string
	http   *http.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		apiURL: baseURL + "/api/internal/v1/workflows",
		token:  token,
		http:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) Trigger(ctx context.Context, req TriggerRequest) (string, error) {
	var status RunStatus
	url := c.apiURL + "/runs/start"
	if err := httpclient.SendRequest(ctx, c.http, http.MethodPost, url, c.headers(), req, &status); err != nil {
		return "", fmt.Errorf("trigger workflow: %w", err)
	}
	if status.ID == "" {
		return "", fmt.Errorf("trigger workflow: no run id returned")
	}
	return status.ID, nil
}

func (c *Client) Status(ctx context.Context, runID string) (*RunStatus, error) {
	var status RunStatus
	url := c.apiURL + "/runs/" + runID
	if err := httpclient.SendRequest(ctx, c.http, http.MethodGet, url, c.headers(), nil, &status); err != nil {
		return nil, fmt.Errorf("get workflow status: %w", err)
	}
	return &status, nil
}

func (c *Client) headers() map[string]string {
	if c.token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + c.token}
}
