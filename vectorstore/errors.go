package vectorstore

import "errors"

var (
	// ErrMissingCredentials indicates the store was constructed without a URL or key.
	ErrMissingCredentials = errors.New("vector store URL and service key are required")

	// ErrUploadFailed indicates a bulk insert could not be completed.
	ErrUploadFailed = errors.New("vector store upload failed")

	// ErrSearchFailed indicates a similarity search could not be completed.
	ErrSearchFailed = errors.New("vector store search failed")
)
