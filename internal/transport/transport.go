package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

const (
	// DefaultTimeout bounds every upstream call unless overridden.
	DefaultTimeout = 8 * time.Second

	// bodyExcerptLen caps how much of an upstream error body is kept for diagnostics.
	bodyExcerptLen = 120
)

var (
	// ErrTimeout indicates the upstream call exceeded its deadline and was cancelled.
	ErrTimeout = errors.New("network timeout - request took too long")

	// ErrUnreachable indicates the request never produced an HTTP response.
	ErrUnreachable = errors.New("network error - server is unreachable")

	// ErrParse indicates the upstream responded 2xx with a payload we could not decode.
	ErrParse = errors.New("malformed upstream payload")

	errCircuitOpen = errors.New("circuit breaker open")
)

// HTTPError is a non-2xx upstream response, carrying a short body excerpt.
type HTTPError struct {
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("HTTP %d", e.Status)
	}
	return fmt.Sprintf("HTTP %d - %s", e.Status, e.Body)
}

// Client fetches JSON documents with a per-call timeout and a circuit breaker.
// Failures are classified into ErrTimeout, ErrUnreachable, *HTTPError or ErrParse.
type Client struct {
	http    *http.Client
	timeout time.Duration
	circuit *gobreaker.CircuitBreaker
}

// NewClient creates a Client named for breaker metrics. A zero timeout
// falls back to DefaultTimeout. A nil http.Client gets a fresh one; the
// per-request deadline comes from the context, not the client.
func NewClient(name string, httpClient *http.Client, timeout time.Duration) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &Client{
		http:    httpClient,
		timeout: timeout,
		circuit: cb,
	}
}

// GetJSON fetches url and decodes the response body into out.
// The call is cancelled when the timeout elapses, releasing the connection.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	result, err := c.circuit.Execute(func() (interface{}, error) {
		resp, execErr := c.http.Do(req)
		if execErr != nil {
			return nil, classify(ctx, execErr)
		}
		return resp, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", errCircuitOpen, err)
		}
		return err
	}

	resp, ok := result.(*http.Response)
	if !ok {
		return fmt.Errorf("unexpected result type from circuit breaker")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &HTTPError{Status: resp.StatusCode, Body: bodyExcerpt(resp.Body)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", ErrParse, err)
	}
	return nil
}

// classify maps low-level request failures onto the transport taxonomy.
func classify(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return ErrTimeout
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUnreachable, err)
}

func bodyExcerpt(r io.Reader) string {
	b, err := io.ReadAll(io.LimitReader(r, bodyExcerptLen))
	if err != nil {
		return ""
	}
	return string(b)
}
