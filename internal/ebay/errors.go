package ebay

import (
	"errors"
	"fmt"
)

// Error kinds. AuthError and SearchError match these with errors.Is.
var (
	ErrAuthentication = errors.New("authentication error")
	ErrSearch         = errors.New("search error")
	ErrNotConfigured  = errors.New("eBay client credentials not configured")
)

// AuthError is returned when the token endpoint answers with anything but a usable 200.
type AuthError struct {
	StatusCode int
	Body       string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Body)
}

func (e *AuthError) Is(target error) bool {
	return target == ErrAuthentication
}

// SearchError is returned when the search endpoint answers with a non-200 status.
type SearchError struct {
	StatusCode int
	Body       string
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search failed: %s", e.Body)
}

func (e *SearchError) Is(target error) bool {
	return target == ErrSearch
}

// IsAuthError reports whether err came from the token endpoint.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// IsSearchError reports whether err came from the search endpoint.
func IsSearchError(err error) bool {
	var searchErr *SearchError
	return errors.As(err, &searchErr)
}
