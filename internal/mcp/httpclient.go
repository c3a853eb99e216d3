package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/claude/liftnotes/internal/models"
)

// HTTPClient implements DataSource by calling the liftnotes REST API.
// Used for remote MCP mode where the binary runs locally (stdio) but
// data lives on the remote server (accessed over Tailscale).
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Compile-time check: HTTPClient satisfies DataSource.
var _ DataSource = (*HTTPClient)(nil)

// errNotFound marks a 404 from the server.
var errNotFound = errors.New("not found")

// NewHTTPClient creates an HTTPClient targeting the given base URL.
func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *HTTPClient) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("httpclient: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: %s: %w", path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("httpclient: %s: %w", path, errNotFound)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("httpclient: %s returned %d: %s", path, resp.StatusCode, body)
	}

	return body, nil
}

// LatestDocument fetches the latest stored document. The server answers 404
// when none exists, which maps to a nil document.
func (c *HTTPClient) LatestDocument(ctx context.Context, _ int) (*models.DocumentRow, error) {
	body, err := c.get(ctx, "/api/v1/documents/latest", nil)
	if errors.Is(err, errNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc models.DocumentRow
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("httpclient: decode document: %w", err)
	}
	return &doc, nil
}

func (c *HTTPClient) QueryEffortRows(ctx context.Context, start, end time.Time, _ int, exerciseFilter string) ([]models.EffortRow, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))
	if exerciseFilter != "" {
		params.Set("exercise", exerciseFilter)
	}

	body, err := c.get(ctx, "/api/v1/sets", params)
	if err != nil {
		return nil, err
	}

	var rows []models.EffortRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("httpclient: decode effort rows: %w", err)
	}
	return rows, nil
}

// ExerciseNames uses the suggestions endpoint, which lists every exercise of
// the latest document.
func (c *HTTPClient) ExerciseNames(ctx context.Context, _ int) ([]string, error) {
	body, err := c.get(ctx, "/api/v1/suggestions", nil)
	if err != nil {
		return nil, err
	}

	var resp struct {
		Exercises []string `json:"exercises"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("httpclient: decode suggestions: %w", err)
	}
	return resp.Exercises, nil
}
