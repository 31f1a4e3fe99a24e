// Package fetcher retrieves the magazine payload from the remote API.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/tkilaker/magazine/internal/logger"
	"github.com/tkilaker/magazine/internal/magazine"
)

// ErrStatus is returned for responses outside the 2xx range
var ErrStatus = errors.New("unexpected status")

const userAgent = "magazine-widget/1.0"

// Result is the single outcome of a fetch. Exactly one of Payload or Err is set.
type Result struct {
	Payload  *magazine.Payload
	Endpoint string
	Err      error
}

// OK reports whether the fetch produced a payload
func (r Result) OK() bool {
	return r.Err == nil && r.Payload != nil
}

// EndpointSource yields the URL for the next request
type EndpointSource interface {
	Next() string
}

// Fetcher issues one GET per Fetch call
type Fetcher struct {
	client    *http.Client
	endpoints EndpointSource
}

// New creates a fetcher. A zero timeout leaves requests unbounded.
func New(endpoints EndpointSource, timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		endpoints: endpoints,
	}
}

// NewWithClient creates a fetcher on an existing HTTP client
func NewWithClient(endpoints EndpointSource, client *http.Client) *Fetcher {
	return &Fetcher{client: client, endpoints: endpoints}
}

// Fetch starts the request and returns a channel that yields exactly one
// Result and is then closed.
func (f *Fetcher) Fetch(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	url := f.endpoints.Next()

	go func() {
		defer close(out)
		payload, err := f.get(ctx, url)
		out <- Result{Payload: payload, Endpoint: url, Err: err}
	}()

	return out
}

func (f *Fetcher) get(ctx context.Context, url string) (*magazine.Payload, error) {
	log := logger.Log.WithField("endpoint", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	log.Debug("Fetching payload")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d from %s", ErrStatus, resp.StatusCode, url)
	}

	payload, err := magazine.DecodePayload(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", url, err)
	}

	log.WithField("articles", len(payload.Articles)).Debug("Fetched payload")
	return payload, nil
}
