package searxng

import "errors"

var (
	// ErrMissingBaseURL indicates the client was constructed without an instance URL.
	ErrMissingBaseURL = errors.New("searxng base URL is required")

	// ErrSearchFailed indicates a search request could not be completed.
	ErrSearchFailed = errors.New("searxng search failed")
)
