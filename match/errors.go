// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package match

import "errors"

var (
	// ErrItemRepositoryRequired is returned when an item repository is not provided.
	ErrItemRepositoryRequired = errors.New("item repository required")

	// ErrMappingRepositoryRequired is returned when a mapping history repository is not provided.
	ErrMappingRepositoryRequired = errors.New("mapping history repository required")

	// ErrQuoteRepositoryRequired is returned when a quote repository is not provided.
	ErrQuoteRepositoryRequired = errors.New("quote repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrIndexRequired is returned when a vector index is not provided.
	ErrIndexRequired = errors.New("vector index required")

	// ErrEmbeddingCountMismatch is returned when the provider returns a
	// different number of vectors than texts sent.
	ErrEmbeddingCountMismatch = errors.New("embedding count mismatch")
)
