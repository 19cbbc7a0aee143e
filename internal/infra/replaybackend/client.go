package replaybackend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/arenakit/match-replay-service/internal/observability/tracing"
)

// Client talks JSON over HTTP to the external replay backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	var status StatusResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/status", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

func (c *Client) StartRecording(ctx context.Context, req *StartRecordingRequest) error {
	path := "/api/v1/recordings"

	slog.DebugContext(ctx, "requesting recording start",
		slog.String("recording_id", req.RecordingID),
		slog.String("world", req.World),
		slog.Int("max_duration_seconds", req.MaxDurationSeconds),
	)

	return c.do(ctx, http.MethodPost, path, req, nil)
}

func (c *Client) StopRecording(ctx context.Context, recordingID string, save bool) error {
	path := fmt.Sprintf("/api/v1/recordings/%s/stop", url.PathEscape(recordingID))

	slog.DebugContext(ctx, "requesting recording stop",
		slog.String("recording_id", recordingID),
		slog.Bool("save", save),
	)

	body := struct {
		Save bool `json:"save"`
	}{Save: save}

	return c.do(ctx, http.MethodPost, path, body, nil)
}

func (c *Client) GetRecording(ctx context.Context, recordingID string) (*RecordingResponse, error) {
	path := fmt.Sprintf("/api/v1/recordings/%s", url.PathEscape(recordingID))

	var recording RecordingResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &recording); err != nil {
		return nil, err
	}
	return &recording, nil
}

func (c *Client) do(ctx context.Context, method, path string, reqBody, respBody any) error {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("failed to parse base URL: %w", err)
	}
	u.Path = path

	var payload io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	tracing.InjectToHTTPRequest(ctx, req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		data, _ := io.ReadAll(resp.Body)
		var backendErr errorResponse
		if json.Unmarshal(data, &backendErr) == nil && backendErr.Error != "" {
			return fmt.Errorf("backend rejected request: %s (status %d)", backendErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	if respBody != nil {
		if err := json.NewDecoder(resp.Body).Decode(respBody); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}
