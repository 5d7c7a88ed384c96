package llmprovider

import (
	"errors"
	"fmt"
)

var (
	// ErrNoAdaptersConfigured indicates no vendor credential was present at startup.
	ErrNoAdaptersConfigured = errors.New("no LLM adapters configured")

	// ErrEmptyResponse indicates the vendor returned success but no usable content.
	ErrEmptyResponse = errors.New("no usable content in response")
)

// ProviderError wraps a non-success vendor HTTP response.
type ProviderError struct {
	Provider   string
	StatusCode int
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s API error: %d - %s", e.Provider, e.StatusCode, e.Body)
}
