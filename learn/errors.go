package learn

import "errors"

var (
	// ErrMappingRepositoryRequired is returned when a mapping history repository is not provided.
	ErrMappingRepositoryRequired = errors.New("mapping history repository required")
)
