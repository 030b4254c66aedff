// Package jobspy provides a client for a JobSpy-style job scraping API.
package jobspy

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Client defines the scraping operations.
type Client interface {
	// Search runs a single scrape for one (search term, location) pair.
	Search(ctx context.Context, req SearchRequest) ([]Job, error)
	// ScrapeAll fans a search out over every location and role pair,
	// deduplicating the combined results by job URL.
	ScrapeAll(ctx context.Context, locations, roles []string, defaults SearchDefaults) ([]Job, error)
}

// SearchDefaults is the request shape shared by every search in a scrape run.
type SearchDefaults struct {
	Sites         []string `json:"sites"`
	ResultsWanted int      `json:"results_wanted"`
	HoursOld      int      `json:"hours_old"`
	JobType       string   `json:"job_type,omitempty"`
}

// SearchRequest is the body of one search call.
type SearchRequest struct {
	SearchDefaults
	SearchTerm string `json:"search_term"`
	Location   string `json:"location"`
}

// Job is one scraped job row as returned by the API.
type Job struct {
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location"`
	URL         string     `json:"job_url"`
	Site        string     `json:"site"`
	Description string     `json:"description"`
	PostedAt    *time.Time `json:"date_posted,omitempty"`
}

type searchResponse struct {
	Jobs []Job `json:"jobs"`
}

// Option configures the jobspy client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithLimiter sets the rate limiter pacing successive searches.
func WithLimiter(l *rate.Limiter) Option {
	return func(c *httpClient) {
		c.limiter = l
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a jobspy client. The default limiter paces searches at
// one per two seconds to stay under the job boards' rate limits.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: "http://localhost:8000",
		http: &http.Client{
			Timeout: 120 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Search posts one scrape request. Each call is attempted exactly once:
// there is no retry policy for scrape traffic.
func (c *httpClient) Search(ctx context.Context, req SearchRequest) ([]Job, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "jobspy: rate limit wait")
	}

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, eris.Wrap(err, "jobspy: marshal request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "jobspy: create request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, eris.Wrap(err, "jobspy: request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "jobspy: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("jobspy: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var result searchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "jobspy: unmarshal response")
	}

	return result.Jobs, nil
}

// ScrapeAll runs one search per (location, role) pair. Individual search
// failures are logged and skipped; an error is returned only when every
// search failed, so partial scrapes still flow into scoring.
func (c *httpClient) ScrapeAll(ctx context.Context, locations, roles []string, defaults SearchDefaults) ([]Job, error) {
	var (
		jobs    []Job
		lastErr error
		seen    = map[string]bool{}
	)

	searches := 0
	for _, loc := range locations {
		for _, role := range roles {
			searches++
			rows, err := c.Search(ctx, SearchRequest{
				SearchDefaults: defaults,
				SearchTerm:     role,
				Location:       loc,
			})
			if err != nil {
				lastErr = err
				zap.L().Warn("jobspy: search failed",
					zap.String("location", loc),
					zap.String("role", role),
					zap.Error(err),
				)
				continue
			}
			for _, row := range rows {
				if row.URL != "" && seen[row.URL] {
					continue
				}
				if row.URL != "" {
					seen[row.URL] = true
				}
				jobs = append(jobs, row)
			}
		}
	}

	if len(jobs) == 0 && lastErr != nil && searches > 0 {
		return nil, eris.Wrap(lastErr, "jobspy: all searches failed")
	}
	return jobs, nil
}
