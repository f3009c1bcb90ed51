package driven

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/ballotwatch/internal/core/domain"
)

// PageFetcher retrieves a public web page.
type PageFetcher interface {
	// Fetch downloads the page at url. HTML bodies are converted to markdown.
	// Non-2xx responses return a *FetchError.
	Fetch(ctx context.Context, url string) (*domain.Page, error)
}

// FetchError describes a failed page fetch.
type FetchError struct {
	URL        string
	StatusCode int

	// Transient is true for failures worth retrying: timeouts,
	// connection resets, 429 and 5xx responses.
	Transient bool

	Err error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return "fetch " + e.URL + ": failed"
}

// Unwrap returns the underlying error.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsTransientStatus reports whether an HTTP status is worth retrying.
func IsTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= 500
}

// IsTransient checks if an error is a retryable fetch failure.
func IsTransient(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Transient
	}
	return false
}

// IsNotFound checks if an error is a 404 fetch failure.
func IsNotFound(err error) bool {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode == http.StatusNotFound
	}
	return false
}
