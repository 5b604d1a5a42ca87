package extract

import "errors"

var (
	// ErrFetchFailed indicates both fetch attempts for a page failed.
	ErrFetchFailed = errors.New("page fetch failed")

	// ErrMissingURL indicates an article without a URL reached the engine.
	ErrMissingURL = errors.New("article has no URL")
)
