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

	"github.com/google/uuid"

	"github.com/motogestor/dashclient/internal/logging"
)

// RequestIDHeaderName carries a per-call id so client and API logs line up.
const RequestIDHeaderName = "X-Request-ID"

// RequestOptions describes one outbound call. Zero value is an
// unauthenticated GET without a body.
type RequestOptions struct {
	Method  string
	Token   string
	Body    any
	Headers map[string]string
}

// Gateway builds calls against the API base URL and turns answers into
// either a decoded payload or an *APIError. It never retries.
type Gateway struct {
	baseURL string
	http    *http.Client
	timeout time.Duration
	log     logging.Logger
}

type GatewayOption func(*Gateway)

// WithHTTPClient swaps the underlying *http.Client (tests, custom transports).
func WithHTTPClient(c *http.Client) GatewayOption {
	return func(g *Gateway) { g.http = c }
}

// WithTimeout bounds every single request. Zero disables the bound.
func WithTimeout(d time.Duration) GatewayOption {
	return func(g *Gateway) { g.timeout = d }
}

func WithLogger(l logging.Logger) GatewayOption {
	return func(g *Gateway) { g.log = l }
}

func NewGateway(baseURL string, opts ...GatewayOption) *Gateway {
	g := &Gateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    http.DefaultClient,
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Request performs a single call to path and decodes a JSON 2xx body into
// out. Non-JSON or empty bodies leave out untouched. out may be nil.
func (g *Gateway) Request(ctx context.Context, path string, opts RequestOptions, out any) error {
	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	var body io.Reader
	if opts.Body != nil {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeaderName, requestID)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}
	for k, v := range opts.Headers {
		req.Header.Set(k, v)
	}

	g.log.Debug(ctx, "api request", "method", method, "path", path, "request_id", requestID)

	resp, err := g.http.Do(req)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Method: method, Path: path, Err: err}
	}

	isJSON := strings.Contains(resp.Header.Get("Content-Type"), "application/json") && len(bytes.TrimSpace(raw)) > 0

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := newAPIError(resp.StatusCode, raw, isJSON)
		g.log.Debug(ctx, "api error", "method", method, "path", path, "request_id", requestID,
			"status", resp.StatusCode, "message", apiErr.Message)
		return apiErr
	}

	if !isJSON || out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

// newAPIError reads the two envelopes the services answer with:
// {"error":{"message":..,"details":..}} and {"msg":..}.
func newAPIError(status int, raw []byte, isJSON bool) *APIError {
	apiErr := &APIError{Message: fmt.Sprintf("Error %d", status), Status: status}
	if !isJSON {
		return apiErr
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return apiErr
	}
	apiErr.Details = payload

	obj, ok := payload.(map[string]any)
	if !ok {
		return apiErr
	}

	envelope, _ := obj["error"].(map[string]any)
	if msg, _ := envelope["message"].(string); msg != "" {
		apiErr.Message = msg
	} else if msg, _ := obj["msg"].(string); msg != "" {
		apiErr.Message = msg
	}
	if details, ok := envelope["details"]; ok && details != nil {
		apiErr.Details = details
	}
	return apiErr
}
