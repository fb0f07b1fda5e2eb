package index

import "errors"

var (
	// ErrIndexNotReady indicates no snapshot has been loaded yet.
	ErrIndexNotReady = errors.New("vector index not loaded")

	// ErrItemRepositoryRequired is returned when no item repository is provided.
	ErrItemRepositoryRequired = errors.New("item repository required")

	// ErrCacheCorrupt indicates the persisted snapshot file could not be decoded.
	ErrCacheCorrupt = errors.New("vector cache file corrupt")
)
