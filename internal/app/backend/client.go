/*
Package backend is the outbound HTTP client for the learning backend.

Every call goes through one instrumented *http.Client, carries the inbound
request ID as X-Request-ID, and attaches the session token as a bearer
credential when one is given. The token is never logged.
*/
package backend

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Backend API paths.
const (
	PathAuthToken    = "/api/v1/auth/token"
	PathAuth         = "/api/v1/auth"
	PathUserMe       = "/api/v1/user/me"
	PathUserRegister = "/api/v1/user/register"
	PathRolePlay     = "/api/v1/role-play/"
)

// HeaderRequestID correlates a backend call with the inbound request.
const HeaderRequestID = "X-Request-ID"

// maxResponseSize bounds how much of a backend response is buffered.
const maxResponseSize = 8 << 20 // 8 MB

// Client calls the backend at a fixed base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a client for baseURL (no trailing slash) whose calls time out after timeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http: &http.Client{
			Timeout: timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport,
				otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
					return "backend " + r.Method + " " + spanPath(r)
				}),
			),
		},
	}
}

// spanPathKey carries the API path constant of an outbound call so span names
// never include the base URL or values interpolated into the path.
type spanPathKey struct{}

func spanPath(r *http.Request) string {
	if p, ok := r.Context().Value(spanPathKey{}).(string); ok {
		return p
	}
	return r.URL.Path
}

// Response is a fully buffered backend reply.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// do sends one request and buffers the reply. A non-nil error always means the
// call did not complete (transport failure, timeout, cancelled context).
func (c *Client) do(ctx context.Context, method, path, token, contentType string, body []byte) (*Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	ctx = context.WithValue(ctx, spanPathKey{}, path)
	httpReq, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}

	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(HeaderRequestID, requestID(ctx))
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	return &Response{
		Status:      httpResp.StatusCode,
		ContentType: httpResp.Header.Get("Content-Type"),
		Body:        data,
	}, nil
}

// requestID reuses chi's request ID when the call happens inside an HTTP handler.
func requestID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
