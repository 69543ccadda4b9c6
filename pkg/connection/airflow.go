package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// ErrConnectionMissing is returned by a MetadataStore when the named
// connection definition does not exist. The resolver treats it as a soft
// miss, not a failure.
var ErrConnectionMissing = errors.New("connection definition not found")

// Definition is a connection definition as stored by the orchestrator.
// Field names follow the Airflow connections API: Schema is the database
// name, Login the database user.
type Definition struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Schema   string `json:"schema"`
	Login    string `json:"login"`
	Password string `json:"password"`
}

// MetadataStore fetches a named connection definition from the orchestrator.
type MetadataStore interface {
	GetConnection(ctx context.Context, name string) (Definition, error)
}

// AirflowClient reads connection definitions through the Airflow stable REST
// API (GET /api/v1/connections/{id}). The orchestrator is an optional
// collaborator: callers must treat any failure here as non-fatal.
type AirflowClient struct {
	httpClient *http.Client
	baseURL    string
	user       string
	password   string
}

// NewAirflowClient creates a client for the Airflow REST API at baseURL.
// user/password are the API credentials (Airflow basic auth), not database
// credentials.
func NewAirflowClient(baseURL, user, password string) *AirflowClient {
	return &AirflowClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
		user:       user,
		password:   password,
	}
}

// GetConnection fetches one connection definition by ID.
// Returns ErrConnectionMissing on 404; any other failure is reported as-is.
func (c *AirflowClient) GetConnection(ctx context.Context, name string) (Definition, error) {
	reqURL := fmt.Sprintf("%s/api/v1/connections/%s", c.baseURL, url.PathEscape(name))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return Definition{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Definition{}, fmt.Errorf("fetch connection %q: %w", name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Definition{}, fmt.Errorf("%w: %s", ErrConnectionMissing, name)
	case resp.StatusCode != http.StatusOK:
		return Definition{}, fmt.Errorf("airflow returned HTTP %d for connection %q", resp.StatusCode, name)
	}

	var def Definition
	if err := json.NewDecoder(resp.Body).Decode(&def); err != nil {
		return Definition{}, fmt.Errorf("decode connection response: %w", err)
	}

	return def, nil
}
