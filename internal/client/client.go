// Package client is the HTTP client for the godex retrieval backend. Network
// failures map to ErrTransport and non-2xx responses to ServerError so callers
// can branch on the error taxonomy without touching net/http.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"time"

	"github.com/godex-dev/godex/internal/domain"
)

// DefaultBaseURL is used when GODEX_SERVER_URL is unset.
const DefaultBaseURL = "http://localhost:8000"

const defaultTimeout = 30 * time.Second

// BaseURLFromEnv resolves the server URL from GODEX_SERVER_URL.
func BaseURLFromEnv() string {
	if v := os.Getenv("GODEX_SERVER_URL"); v != "" {
		return v
	}
	return DefaultBaseURL
}

// Client talks to the godex HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout. Indexing calls run
// synchronously on the server and may need minutes.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type queryRequest struct {
	Query        string   `json:"query"`
	Limit        int      `json:"limit,omitempty"`
	Collections  []string `json:"collections,omitempty"`
	IncludeRules bool     `json:"include_rules,omitempty"`
}

type queryResponse struct {
	Query        string  `json:"query"`
	ProjectRules *string `json:"project_rules"`
	Contexts     []struct {
		Collection string `json:"collection"`
		Results    []struct {
			Source string  `json:"source"`
			Text   string  `json:"text"`
			Score  float64 `json:"score"`
		} `json:"results"`
	} `json:"contexts"`
}

// Query runs a retrieval query and returns the context bundle.
func (c *Client) Query(ctx context.Context, q domain.Query, limit int) (domain.ContextBundle, error) {
	body := queryRequest{
		Query:        q.Text,
		Limit:        limit,
		Collections:  q.Collections,
		IncludeRules: q.IncludeRules,
	}

	var resp queryResponse
	if err := c.postJSON(ctx, "/api/query", body, &resp); err != nil {
		return domain.ContextBundle{}, err
	}

	bundle := domain.ContextBundle{
		Query:        resp.Query,
		ProjectRules: resp.ProjectRules,
		Contexts:     make([]domain.CollectionResults, len(resp.Contexts)),
	}
	for i, cc := range resp.Contexts {
		results := make([]domain.SearchResult, len(cc.Results))
		for j, r := range cc.Results {
			results[j] = domain.SearchResult{Source: r.Source, Text: r.Text, Score: r.Score}
		}
		bundle.Contexts[i] = domain.CollectionResults{Collection: cc.Collection, Results: results}
	}
	return bundle, nil
}

type collectionsResponse struct {
	Collections []struct {
		Name string `json:"name"`
	} `json:"collections"`
}

// Collections returns the known collection names.
func (c *Client) Collections(ctx context.Context) ([]string, error) {
	var resp collectionsResponse
	if err := c.getJSON(ctx, "/api/collections", &resp); err != nil {
		return nil, err
	}
	names := make([]string, len(resp.Collections))
	for i, col := range resp.Collections {
		names[i] = col.Name
	}
	return names, nil
}

// CreateCollection creates an empty collection.
func (c *Client) CreateCollection(ctx context.Context, name string) error {
	body := struct {
		Name string `json:"name"`
	}{Name: name}
	return c.postJSON(ctx, "/api/collections", body, nil)
}

// DeleteCollection removes a collection and all its chunks.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/collections/"+name, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, nil)
}

// IndexStats mirrors the server's per-run indexing summary.
type IndexStats struct {
	FilesIndexed   int     `json:"files_indexed"`
	FilesSkipped   int     `json:"files_skipped"`
	PagesFetched   int     `json:"pages_fetched"`
	PagesFailed    int     `json:"pages_failed"`
	ChunksUpserted int     `json:"chunks_upserted"`
	TokensUsed     int     `json:"tokens_used"`
	DurationSec    float64 `json:"duration_sec"`
}

type indexResponse struct {
	Message string     `json:"message"`
	Stats   IndexStats `json:"stats"`
}

// IndexProject asks the server to index a project directory. The path must be
// visible from the server process.
func (c *Client) IndexProject(ctx context.Context, path, collection string) (IndexStats, string, error) {
	body := struct {
		Path       string `json:"path"`
		Collection string `json:"collection,omitempty"`
	}{Path: path, Collection: collection}

	var resp indexResponse
	if err := c.postJSON(ctx, "/api/index-project", body, &resp); err != nil {
		return IndexStats{}, "", err
	}
	return resp.Stats, resp.Message, nil
}

// IndexDocs asks the server to scrape and index the docs for version.
func (c *Client) IndexDocs(ctx context.Context, version, collection string) (IndexStats, string, error) {
	body := struct {
		Version    string `json:"version"`
		Collection string `json:"collection,omitempty"`
	}{Version: version, Collection: collection}

	var resp indexResponse
	if err := c.postJSON(ctx, "/api/index-docs", body, &resp); err != nil {
		return IndexStats{}, "", err
	}
	return resp.Stats, resp.Message, nil
}

// UploadRules uploads a project rules document as multipart form data.
func (c *Client) UploadRules(ctx context.Context, filename string, content []byte) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return fmt.Errorf("write multipart form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("close multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload-rules", &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.do(req, nil)
}

// HealthReport mirrors the server's /health payload.
type HealthReport struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health fetches the server health report. A degraded server answers 503 with
// a valid body, so that status is decoded rather than treated as a failure.
func (c *Client) Health(ctx context.Context) (HealthReport, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return HealthReport{}, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return HealthReport{}, fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusServiceUnavailable {
		return HealthReport{}, serverErrorFrom(resp)
	}

	var report HealthReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return HealthReport{}, fmt.Errorf("decode health response: %w", err)
	}
	return report, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return serverErrorFrom(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// serverErrorFrom extracts the detail field from an error body. A body that
// is not the expected JSON shape still yields a ServerError with the status.
func serverErrorFrom(resp *http.Response) error {
	var body struct {
		Detail string `json:"detail"`
	}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
	_ = json.Unmarshal(data, &body)
	return domain.NewServerError(resp.StatusCode, body.Detail)
}
