// Package callback posts terminal submission outcomes back to the
// originating system. Delivery is strictly best-effort: one attempt per
// submission, failures logged and never escalated.
package callback

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/arokua/job-hunter/internal/model"
)

// Timeout bounds the callback POST.
const Timeout = 10 * time.Second

// Reporter posts a terminal outcome to the caller-configured endpoint.
type Reporter interface {
	// Report delivers the outcome. A nil error means the endpoint accepted
	// it or no endpoint is configured.
	Report(ctx context.Context, outcome model.Outcome) error
}

// HTTPReporter implements Reporter over HTTP with bearer authentication.
type HTTPReporter struct {
	url    string
	secret string
	http   *http.Client
}

// Option configures the reporter.
type Option func(*HTTPReporter)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(r *HTTPReporter) {
		r.http = hc
	}
}

// New creates an HTTPReporter. An empty URL makes Report a logged no-op.
func New(url, secret string, opts ...Option) *HTTPReporter {
	r := &HTTPReporter{
		url:    url,
		secret: secret,
		http:   &http.Client{Timeout: Timeout},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *HTTPReporter) Report(ctx context.Context, outcome model.Outcome) error {
	log := zap.L().With(zap.String("submission_id", outcome.SubmissionID))

	if r.url == "" {
		log.Info("callback: no endpoint configured, skipping")
		return nil
	}

	payload, err := json.Marshal(outcome)
	if err != nil {
		return eris.Wrap(err, "callback: marshal payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(payload))
	if err != nil {
		return eris.Wrap(err, "callback: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+r.secret)

	resp, err := r.http.Do(req)
	if err != nil {
		return eris.Wrap(err, "callback: post")
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return eris.Errorf("callback: status %d: %s", resp.StatusCode, string(body))
	}

	log.Info("callback: delivered",
		zap.String("status", string(outcome.Status)),
		zap.Int("job_count", outcome.JobCount),
		zap.Int("http_status", resp.StatusCode),
	)
	return nil
}
