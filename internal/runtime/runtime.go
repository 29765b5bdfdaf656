// Package runtime adapts a webhook handler to the HTTP service and AWS Lambda transports.
package runtime

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/isometry/wp-trigger-app/internal/handler"
	"github.com/isometry/wp-trigger-app/internal/helpers"
	"github.com/isometry/wp-trigger-app/internal/models"
	"golang.org/x/time/rate"
)

// Lambda payload types.
const (
	PayloadAPIGatewayV1 = "api-gateway-v1"
	PayloadAPIGatewayV2 = "api-gateway-v2"
	PayloadLambdaURL    = "lambda-url"
)

// DefaultMaxBodyBytes bounds the size of an inbound webhook body.
const DefaultMaxBodyBytes = 1 << 20

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the runtime logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runtime) {
		r.logger = logger
	}
}

// WithLambdaPayloadType selects the response shape returned by HandleEvent.
func WithLambdaPayloadType(payloadType string) Option {
	return func(r *Runtime) {
		r.payloadType = payloadType
	}
}

// WithRateLimit limits accepted calls per minute. Zero disables limiting.
func WithRateLimit(perMinute int) Option {
	return func(r *Runtime) {
		r.limiter = helpers.NewPerMinuteLimiter(perMinute)
	}
}

// WithMaxBodyBytes bounds the size of inbound bodies read by ServeHTTP.
func WithMaxBodyBytes(n int64) Option {
	return func(r *Runtime) {
		r.maxBodyBytes = n
	}
}

// Runtime serves one trigger handler over HTTP or Lambda.
type Runtime struct {
	*handler.Handler
	logger       *slog.Logger
	payloadType  string
	limiter      *rate.Limiter
	maxBodyBytes int64
}

// NewRuntime creates a new runtime instance
func NewRuntime(handler *handler.Handler, opts ...Option) *Runtime {
	_inst := &Runtime{Handler: handler, payloadType: PayloadAPIGatewayV2, maxBodyBytes: DefaultMaxBodyBytes}
	for _, opt := range opts {
		opt(_inst)
	}
	if _inst.logger == nil {
		_inst.logger = helpers.NewNoopLogger()
	}
	return _inst
}

// Request is the Lambda HTTP request. API Gateway v1, v2 and function URL payloads share its body and headers fields.
type Request = events.APIGatewayV2HTTPRequest

// HandleEvent is the Lambda handler for the runtime. Accepted events are delivered before it returns.
func (r *Runtime) HandleEvent(ctx context.Context, req Request) (any, error) {
	r.logger.Info("received Lambda request")

	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			r.logger.Warn("failed to decode base64 body", slog.Any("error", err))
		} else {
			body = decoded
		}
	}

	response, err := r.process(ctx, body, req.Headers)
	// The execution environment may freeze once the handler returns.
	if fErr := r.Handler.Flush(ctx); fErr != nil {
		r.logger.Warn("pending deliveries not flushed", slog.Any("error", fErr))
	}
	encoded := helpers.EncodeBody(response, err)
	headers := map[string]string{"Content-Type": "application/json"}
	if encoded == "" {
		headers = nil
	}

	switch r.payloadType {
	case PayloadAPIGatewayV1:
		return events.APIGatewayProxyResponse{Body: encoded, StatusCode: response.StatusCode, Headers: headers}, nil
	case PayloadAPIGatewayV2:
		return events.APIGatewayV2HTTPResponse{Body: encoded, StatusCode: response.StatusCode, Headers: headers}, nil
	case PayloadLambdaURL:
		return events.LambdaFunctionURLResponse{Body: encoded, StatusCode: response.StatusCode, Headers: headers}, nil
	default:
		return nil, fmt.Errorf("unsupported lambda payload type: %s", r.payloadType)
	}
}

// ServeHTTP is the HTTP handler for the runtime
func (r *Runtime) ServeHTTP(resp http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		r.logger.Debug("rejecting HTTP request...", slog.Any("requestor", req.RemoteAddr), "reason", "method not allowed", slog.Any("method", req.Method))
		helpers.RespondHTTP(models.Response{StatusCode: http.StatusMethodNotAllowed, Headers: map[string]string{"Allow": http.MethodPost}}, nil, resp)
		return
	}

	r.logger.Debug("received HTTP request...", slog.Any("requestor", req.RemoteAddr), slog.Any("path", req.URL.Path))
	headers := make(map[string]string, len(req.Header))
	for k, v := range req.Header {
		// Only the first value of repeated headers is kept.
		headers[strings.ToLower(k)] = v[0]
	}

	body, err := io.ReadAll(http.MaxBytesReader(resp, req.Body, r.maxBodyBytes))
	if err != nil {
		r.logger.Error("failed to read request body", slog.Any("error", err))
		status := http.StatusBadRequest
		if tooLarge := new(http.MaxBytesError); errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		helpers.RespondHTTP(models.Response{StatusCode: status}, err, resp)
		return
	}

	response, err := r.process(req.Context(), body, headers)
	helpers.RespondHTTP(response, err, resp)
}

func (r *Runtime) process(ctx context.Context, body []byte, headers map[string]string) (models.Response, error) {
	if r.limiter != nil && !r.limiter.Allow() {
		r.logger.Warn("rate limit exceeded")
		return models.Response{StatusCode: http.StatusTooManyRequests}, fmt.Errorf("rate limit exceeded")
	}

	lch := make(map[string]string, len(headers))
	for k, v := range headers {
		lch[strings.ToLower(k)] = v
	}

	bus, err := r.Handler.Process(ctx, body, lch)
	if err != nil {
		// Pipeline defects are not described to the caller.
		return bus.Response, fmt.Errorf("internal error")
	}
	return bus.Response, nil
}
