package fleetgen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/okian/collide/internal/domain/model"
	"github.com/okian/collide/internal/domain/types"
)

const maxErrorBody = 4 << 10

// Client submits fleets to the runs API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a client for baseURL with a per-request timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type submitRequest struct {
	CollisionDistance *float64       `json:"collision_distance,omitempty"`
	Vehicles          []model.Record `json:"vehicles"`
}

// Submit posts a fleet and returns the created run.
func (c *Client) Submit(ctx context.Context, records []model.Record, distance float64) (types.Run, error) {
	body := submitRequest{Vehicles: records}
	if body.Vehicles == nil {
		body.Vehicles = []model.Record{}
	}
	if distance > 0 {
		body.CollisionDistance = &distance
	}
	data, err := json.Marshal(body)
	if err != nil {
		return types.Run{}, fmt.Errorf("encode fleet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/runs", bytes.NewReader(data))
	if err != nil {
		return types.Run{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var run types.Run
	if err := c.do(req, http.StatusCreated, &run); err != nil {
		return types.Run{}, err
	}
	return run, nil
}

// Run fetches a stored run.
func (c *Client) Run(ctx context.Context, id string) (types.Run, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/runs/"+id, http.NoBody)
	if err != nil {
		return types.Run{}, fmt.Errorf("create request: %w", err)
	}
	var run types.Run
	if err := c.do(req, http.StatusOK, &run); err != nil {
		return types.Run{}, err
	}
	return run, nil
}

func (c *Client) do(req *http.Request, want int, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %w", ErrSubmit, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %s %s: status %d: %s", ErrSubmit, req.Method, req.URL.Path,
			resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
