package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing or database sequences.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// CatalogItem represents a single sellable item from the catalog
// source-of-record. The embedding vector is populated by the embedding
// generator; an item with an empty vector is pending embedding.
type CatalogItem struct {
	SKU        string
	Name       string
	Vector     []float32 // Embedding of Name, L2-normalized (empty until generated)
	Price      float64
	Image      string
	InsertedAt time.Time // When the item was first imported
	UpdatedAt  time.Time // When the item was last updated
}

// Pending reports whether the item still needs an embedding.
func (i *CatalogItem) Pending() bool {
	return len(i.Vector) == 0
}

// MappingRecord tracks how often a normalized requirement string was
// finalized against a SKU. Records are created on first observation and
// only ever grow.
type MappingRecord struct {
	Requirement  string // Normalized requirement text
	SKU          string
	Frequency    uint64
	LastObserved time.Time
}

// Key returns the composite identity of the record as "(requirement,sku)".
func (m *MappingRecord) Key() string {
	return "(" + m.Requirement + "," + m.SKU + ")"
}

// QuoteRecord is one historical quotation line for a SKU, kept for
// suggestion enrichment (the last quotes a reviewer sees next to a match).
type QuoteRecord struct {
	Id          ID
	SKU         string
	Requirement string
	Customer    string
	Quantity    float64
	Price       float64
	QuotedAt    time.Time
}

// RequirementLine is one free-text procurement requirement extracted from an
// inbound document. It lives only for the duration of a suggestion request.
type RequirementLine struct {
	Id       int64
	Text     string
	Quantity float64
	Unit     string
}

// Confidence labels a suggestion score for presentation. It is metadata
// only and never influences ranking.
type Confidence int

const (
	ConfidenceLow Confidence = iota + 1
	ConfidenceMedium
	ConfidenceHigh
)

func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "unknown"
	}
}

// SimilarityMatch represents a catalog item match from vector similarity search.
type SimilarityMatch struct {
	SKU   string
	Score float64
}

// Suggestion is one ranked candidate for a requirement line, computed fresh
// per request and never persisted.
type Suggestion struct {
	SKU              string
	ItemName         string
	Score            float64
	Confidence       Confidence
	VectorSimilarity float64
	HistoryScore     float64 // Frequency normalized against the best candidate
	HistoryFrequency uint64
	Price            float64
	Image            string
	LastQuotes       []*QuoteRecord
}
