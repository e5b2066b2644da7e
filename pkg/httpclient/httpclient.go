// Package httpclient is a small fluent HTTP client with retries, used for
// outbound calls such as rendering QR images:
//
//	resp, err := httpclient.Get(cfg.QREndpoint).
//	    Query("size", "300x300").
//	    Query("data", payload).
//	    Retry(3, 500*time.Millisecond).
//	    Send(ctx)
//	if err == nil && resp.OK() {
//	    png := resp.Raw
//	}
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/dnguyen-dev/bistro/pkg/logger"
)

// defaultTransport is the connection-pooled transport used in production.
var defaultTransport = &http.Transport{
	MaxIdleConns:        100,
	MaxIdleConnsPerHost: 20,
	IdleConnTimeout:     90 * time.Second,
}

// DefaultClient is the shared client for all outgoing requests. Tests can
// swap DefaultClient.Transport to intercept calls; restore with ResetTransport.
var DefaultClient = &http.Client{
	Transport: defaultTransport,
}

// ResetTransport restores the production transport on DefaultClient.
func ResetTransport() {
	DefaultClient.Transport = defaultTransport
}

// Request is a fluent request builder.
type Request struct {
	method    string
	url       string
	query     url.Values
	headers   map[string]string
	body      any
	timeout   time.Duration
	retries   int
	retryWait time.Duration
}

// Get starts a GET request.
func Get(rawURL string) *Request { return newRequest(http.MethodGet, rawURL) }

// Post starts a POST request.
func Post(rawURL string) *Request { return newRequest(http.MethodPost, rawURL) }

func newRequest(method, rawURL string) *Request {
	return &Request{
		method:    method,
		url:       rawURL,
		query:     url.Values{},
		headers:   map[string]string{"Accept": "*/*"},
		timeout:   15 * time.Second,
		retries:   1,
		retryWait: 500 * time.Millisecond,
	}
}

// Query appends a URL query parameter.
func (r *Request) Query(key, value string) *Request {
	r.query.Add(key, value)
	return r
}

// Header sets a request header.
func (r *Request) Header(key, value string) *Request {
	r.headers[key] = value
	return r
}

// Body sets the request body. Strings and []byte are sent raw, anything
// else is marshalled to JSON.
func (r *Request) Body(v any) *Request {
	r.body = v
	return r
}

// Timeout sets the per-attempt timeout.
func (r *Request) Timeout(d time.Duration) *Request {
	r.timeout = d
	return r
}

// Retry configures automatic retries. n is total attempts (1 = no retry);
// wait is the initial backoff and doubles each attempt.
func (r *Request) Retry(n int, wait time.Duration) *Request {
	r.retries = n
	r.retryWait = wait
	return r
}

// Send executes the request, retrying on transport errors.
func (r *Request) Send(ctx context.Context) (*Response, error) {
	var lastErr error

	for attempt := 1; attempt <= r.retries; attempt++ {
		resp, err := r.do(ctx)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if attempt < r.retries {
			backoff := time.Duration(float64(r.retryWait) * math.Pow(2, float64(attempt-1)))
			logger.Warn("httpclient: request failed, retrying",
				"url", r.url, "attempt", attempt, "backoff", backoff, "error", err)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("httpclient: all %d attempts failed for %s %s: %w",
		r.retries, r.method, r.url, lastErr)
}

func (r *Request) do(ctx context.Context) (*Response, error) {
	target := r.url
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	body, ct, err := r.buildBody()
	if err != nil {
		return nil, err
	}

	reqCtx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, r.method, target, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: build request: %w", err)
	}
	for k, v := range r.headers {
		req.Header.Set(k, v)
	}
	if ct != "" {
		req.Header.Set("Content-Type", ct)
	}

	resp, err := DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("httpclient: send: %w", err)
	}

	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("httpclient: read body: %w", err)
	}

	return &Response{StatusCode: resp.StatusCode, Headers: resp.Header, Raw: raw}, nil
}

func (r *Request) buildBody() (io.Reader, string, error) {
	if r.body == nil {
		return nil, "", nil
	}
	switch v := r.body.(type) {
	case string:
		return bytes.NewBufferString(v), "text/plain", nil
	case []byte:
		return bytes.NewReader(v), "application/octet-stream", nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, "", fmt.Errorf("httpclient: marshal body: %w", err)
		}
		return bytes.NewReader(b), "application/json", nil
	}
}

// Response wraps the HTTP response.
type Response struct {
	StatusCode int
	Headers    http.Header
	Raw        []byte
}

// OK reports whether the status code is 2xx.
func (r *Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// JSON unmarshals the response body into dest.
func (r *Response) JSON(dest any) error {
	if err := json.Unmarshal(r.Raw, dest); err != nil {
		return fmt.Errorf("httpclient: decode JSON: %w", err)
	}
	return nil
}

// Throw returns an error when the status is not 2xx.
func (r *Response) Throw() error {
	if !r.OK() {
		return fmt.Errorf("httpclient: request failed with status %d: %s", r.StatusCode, string(r.Raw))
	}
	return nil
}
