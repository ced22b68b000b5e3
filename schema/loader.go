package schema

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

// Document loading limits.
const (
	// maxDocumentSize caps remote schema documents (8MB). Prevents
	// resource exhaustion from a misbehaving source.
	maxDocumentSize = 8 << 20

	// defaultFetchTimeout bounds HTTP document fetches when the caller
	// supplies no client of their own.
	defaultFetchTimeout = 30 * time.Second
)

// Loader supplies schema plans from an external source.
//
// Implementations must report failures by wrapping ErrLoadFailed so that
// callers can distinguish "the document never arrived" from "the plan
// failed to apply".
type Loader interface {
	// Load fetches and parses the document identified by locator.
	Load(ctx context.Context, locator string) (Plan, error)
}

// FileLoader loads schema documents from the local filesystem.
// The locator is a file path.
type FileLoader struct{}

// Load reads and parses a local JSON schema document.
func (FileLoader) Load(_ context.Context, locator string) (Plan, error) {
	data, err := os.ReadFile(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrLoadFailed, locator, err)
	}
	return ParsePlan(data)
}

// HTTPLoader fetches schema documents over HTTP(S).
// The locator is a URL.
type HTTPLoader struct {
	// Client is the HTTP client to use. Nil falls back to a client with
	// defaultFetchTimeout.
	Client *http.Client
}

// Load fetches and parses a remote JSON schema document.
//
// Non-2xx responses and bodies over maxDocumentSize fail with
// ErrLoadFailed; the fetch honours ctx for cancellation.
func (l HTTPLoader) Load(ctx context.Context, locator string) (Plan, error) {
	client := l.Client
	if client == nil {
		client = &http.Client{Timeout: defaultFetchTimeout}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: building request for %s: %w", ErrLoadFailed, locator, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetching %s: %w", ErrLoadFailed, locator, err)
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort cleanup

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: fetching %s: unexpected status %s", ErrLoadFailed, locator, resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrLoadFailed, locator, err)
	}
	if len(data) > maxDocumentSize {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrLoadFailed, locator, maxDocumentSize)
	}

	return ParsePlan(data)
}
