package forwarder

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/isometry/wp-trigger-app/internal/delivery"
	"github.com/pkg/errors"
)

// HTTPOption configures the HTTP forwarder.
type HTTPOption func(*httpForwarder)

// WithHTTPTimeout bounds every attempt.
func WithHTTPTimeout(d time.Duration) HTTPOption {
	return func(f *httpForwarder) {
		f.client.HTTPClient.Timeout = d
	}
}

// WithHTTPRetryMax sets how many times a failed delivery is retried.
func WithHTTPRetryMax(n int) HTTPOption {
	return func(f *httpForwarder) {
		f.client.RetryMax = n
	}
}

// WithHTTPRetryWait sets the backoff bounds between attempts.
func WithHTTPRetryWait(minWait, maxWait time.Duration) HTTPOption {
	return func(f *httpForwarder) {
		f.client.RetryWaitMin = minWait
		f.client.RetryWaitMax = maxWait
	}
}

// WithHTTPHeaders adds static headers to every delivery.
func WithHTTPHeaders(headers map[string]string) HTTPOption {
	return func(f *httpForwarder) {
		f.headers = headers
	}
}

// WithHTTPLogger routes the retrying client's logs to logger.
func WithHTTPLogger(logger *slog.Logger) HTTPOption {
	return func(f *httpForwarder) {
		f.client.Logger = logger.WithGroup("forwarder:http")
	}
}

type httpForwarder struct {
	url     string
	headers map[string]string
	client  *retryablehttp.Client
}

// NewHTTPForwarder returns a Forwarder POSTing every event as JSON to url.
func NewHTTPForwarder(url string, opts ...HTTPOption) Forwarder {
	client := retryablehttp.NewClient()
	client.Logger = nil
	_inst := &httpForwarder{url: url, client: client}
	for _, opt := range opts {
		opt(_inst)
	}
	return _inst
}

func (f *httpForwarder) Name() string {
	return "http"
}

func (f *httpForwarder) Forward(ctx context.Context, event delivery.Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "failed to encode event")
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, f.url, body)
	if err != nil {
		return errors.Wrap(err, "failed to build downstream request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Delivery-Id", event.ID)
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return errors.Wrap(err, "failed to deliver event")
	}
	defer func() { _ = resp.Body.Close() }()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return errors.Errorf("downstream responded with status %d", resp.StatusCode)
	}
	return nil
}
