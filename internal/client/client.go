// Package client is a typed client for the repcounter REST API. It backs the
// control CLI and the stdio MCP server when the engine runs on another host
// (for example over Tailscale).
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/claude/repcounter/internal/models"
	"github.com/claude/repcounter/internal/workout"
	"github.com/google/uuid"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the repcounter REST API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a Client targeting baseURL. apiKey is sent on every request.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var er models.ErrorResponse
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			apiErr.Message = er.Error
		}
		return apiErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("client: decode %s: %w", path, err)
	}
	return nil
}

// State returns the full workout state.
func (c *Client) State(ctx context.Context) (workout.State, error) {
	var st workout.State
	err := c.do(ctx, http.MethodGet, "/api/v1/workout", nil, &st)
	return st, err
}

func (c *Client) action(ctx context.Context, name string) (*models.ActionResult, error) {
	var res models.ActionResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/workout/"+name, nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Start begins a new run.
func (c *Client) Start(ctx context.Context) (*models.ActionResult, error) {
	return c.action(ctx, "start")
}

// Pause pauses a running workout.
func (c *Client) Pause(ctx context.Context) (*models.ActionResult, error) {
	return c.action(ctx, "pause")
}

// Resume resumes a paused workout.
func (c *Client) Resume(ctx context.Context) (*models.ActionResult, error) {
	return c.action(ctx, "resume")
}

// Reset returns the workout to the pristine state.
func (c *Client) Reset(ctx context.Context) (*models.ActionResult, error) {
	return c.action(ctx, "reset")
}

// Configuration returns the current configuration.
func (c *Client) Configuration(ctx context.Context) (workout.Config, error) {
	var cfg workout.Config
	err := c.do(ctx, http.MethodGet, "/api/v1/workout/config", nil, &cfg)
	return cfg, err
}

// UpdateConfiguration applies a partial configuration change.
func (c *Client) UpdateConfiguration(ctx context.Context, patch workout.ConfigPatch) (workout.Config, error) {
	var cfg workout.Config
	err := c.do(ctx, http.MethodPatch, "/api/v1/workout/config", patch, &cfg)
	return cfg, err
}

// ReplaceConfiguration overwrites the whole configuration.
func (c *Client) ReplaceConfiguration(ctx context.Context, cfg workout.Config) (workout.Config, error) {
	var out workout.Config
	err := c.do(ctx, http.MethodPut, "/api/v1/workout/config", cfg, &out)
	return out, err
}

// ListPresets returns every saved preset.
func (c *Client) ListPresets(ctx context.Context) ([]models.WorkoutPreset, error) {
	var list []models.WorkoutPreset
	err := c.do(ctx, http.MethodGet, "/api/v1/presets", nil, &list)
	return list, err
}

// GetPreset returns one preset.
func (c *Client) GetPreset(ctx context.Context, id uuid.UUID) (*models.WorkoutPreset, error) {
	var p models.WorkoutPreset
	if err := c.do(ctx, http.MethodGet, "/api/v1/presets/"+id.String(), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreatePreset stores cfg under name.
func (c *Client) CreatePreset(ctx context.Context, name string, cfg workout.Config) (*models.WorkoutPreset, error) {
	return c.createPreset(ctx, models.PresetRequest{Name: name, Config: &cfg})
}

// SavePreset snapshots the server's current configuration under name.
func (c *Client) SavePreset(ctx context.Context, name string) (*models.WorkoutPreset, error) {
	return c.createPreset(ctx, models.PresetRequest{Name: name})
}

func (c *Client) createPreset(ctx context.Context, req models.PresetRequest) (*models.WorkoutPreset, error) {
	var p models.WorkoutPreset
	if err := c.do(ctx, http.MethodPost, "/api/v1/presets", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePreset replaces a preset's name and configuration.
func (c *Client) UpdatePreset(ctx context.Context, id uuid.UUID, name string, cfg workout.Config) (*models.WorkoutPreset, error) {
	var p models.WorkoutPreset
	req := models.PresetRequest{Name: name, Config: &cfg}
	if err := c.do(ctx, http.MethodPut, "/api/v1/presets/"+id.String(), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePreset removes a preset.
func (c *Client) DeletePreset(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/presets/"+id.String(), nil, nil)
}

// ApplyPreset loads a preset on the server, resetting the workout.
func (c *Client) ApplyPreset(ctx context.Context, id uuid.UUID) (workout.State, error) {
	var st workout.State
	err := c.do(ctx, http.MethodPost, "/api/v1/presets/"+id.String()+"/apply", nil, &st)
	return st, err
}
