// Package mock provides test doubles for the ai package interfaces.
// The mocks generate deterministic embeddings so tests can assert on
// similarity behavior without an external embedding service.
package mock
