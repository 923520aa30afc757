// Package upstream holds the outbound HTTP plumbing shared by the REST
// Countries and World Bank clients: one GET per call, a fixed timeout, no
// retries, and a small failure taxonomy the tool layer maps onto user-facing
// error payloads and log levels.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Failure taxonomy. Each outbound call resolves to success, one of these,
// or a plain error (the generic "unexpected" tier).
var (
	// ErrNotFound maps HTTP 404. Expected absence, not a fault.
	ErrNotFound = errors.New("not found")

	// ErrTimeout maps a request that exceeded the fixed timeout.
	ErrTimeout = errors.New("request timed out")

	// ErrNetwork maps lower-level transport failures: connection refused,
	// DNS resolution, TLS handshake.
	ErrNetwork = errors.New("network error")
)

// StatusError is a non-404 HTTP error status from an upstream API.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected HTTP status %d", e.StatusCode)
}

// NewClient returns an HTTP client with the fixed per-request timeout.
// Each API client owns one; there is no shared global client.
func NewClient(timeout time.Duration) *http.Client {
	return &http.Client{Timeout: timeout}
}

// Get issues a single GET and returns the response body for 2xx statuses.
// Non-success statuses and transport failures are classified into the
// package taxonomy. No retries on any path.
func Get(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, classify(err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: GET %s", ErrNotFound, url)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify(err)
	}
	return body, nil
}

// classify maps a transport-level error to the package taxonomy.
// Timeouts are checked first: a deadline surfacing as a net.Error or a
// context error must not be reported as a generic network failure.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
