package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lk16/patzer/internal/config"
	"github.com/lk16/patzer/internal/models"
)

var ErrNotFound = errors.New("not found on server")

// StatusError is returned when the server answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("server returned unexpected status %d: %s", e.StatusCode, e.Message)
}

// Client talks to a remote analysis server.
type Client struct {
	config *config.ClientConfig
	http   *http.Client
}

func NewClient(config *config.ClientConfig) *Client {
	return &Client{
		config: config,
		http: &http.Client{
			Timeout: config.Timeout,
		},
	}
}

func (c *Client) logRequestAsCurl(req *http.Request) {
	// Do not build string if we're not logging it
	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}

	var builder strings.Builder
	builder.WriteString("curl -X ")
	builder.WriteString(req.Method)
	builder.WriteString(" '")
	builder.WriteString(req.URL.String())
	builder.WriteString("'")

	for key, values := range req.Header {
		for _, value := range values {
			builder.WriteString(" -H '")
			builder.WriteString(strings.ToLower(key))
			builder.WriteString(": ")
			builder.WriteString(value)
			builder.WriteString("'")
		}
	}

	if req.GetBody != nil {
		body, err := req.GetBody()
		if err == nil {
			data, _ := io.ReadAll(body)
			if len(data) > 0 {
				builder.WriteString(" -d '")
				builder.WriteString(strings.ReplaceAll(strings.TrimSpace(string(data)), "'", "'\\''"))
				builder.WriteString("'")
			}
		}
	}

	slog.Debug("Sending request", "command", builder.String())
}

func (c *Client) request(ctx context.Context, method string, path string, payload any, target any) error {
	body := io.Reader(http.NoBody)

	if payload != nil {
		buf := &bytes.Buffer{}
		if err := json.NewEncoder(buf).Encode(payload); err != nil {
			return fmt.Errorf("failed to encode payload: %w", err)
		}
		body = buf
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.ServerURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	req.Header.Set("X-Token", c.config.Token)

	c.logRequestAsCurl(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	slog.Debug("Response", "status", resp.Status)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var parsed struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&parsed)
		return &StatusError{StatusCode: resp.StatusCode, Message: parsed.Error}
	}

	if err = json.NewDecoder(resp.Body).Decode(target); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// Analyze asks the server for the best move.
func (c *Client) Analyze(ctx context.Context, request models.AnalysisRequest) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := c.request(ctx, http.MethodPost, "/api/analysis", request, &analysis); err != nil {
		return nil, fmt.Errorf("failed to analyze: %w", err)
	}

	return &analysis, nil
}

// GetAnalysis fetches a stored analysis.
func (c *Client) GetAnalysis(ctx context.Context, id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := c.request(ctx, http.MethodGet, "/api/analysis/"+id.String(), nil, &analysis); err != nil {
		return nil, fmt.Errorf("failed to get analysis %s: %w", id, err)
	}

	return &analysis, nil
}

// ListAnalyses fetches the most recent analyses.
func (c *Client) ListAnalyses(ctx context.Context, limit int) ([]models.Analysis, error) {
	var analyses []models.Analysis
	if err := c.request(ctx, http.MethodGet, "/api/analysis?limit="+strconv.Itoa(limit), nil, &analyses); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}

	return analyses, nil
}
