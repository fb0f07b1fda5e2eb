package index

import (
	"slices"
	"strings"
	"time"

	"github.com/poiesic/skumatch/core"
)

// Entry is one embedded catalog item inside a snapshot.
type Entry struct {
	SKU    string
	Name   string
	Vector []float32 // L2-normalized
}

// Snapshot is an immutable view of the embedded catalog. Once built it is
// never mutated, which is what makes the lock-free swap in Index safe.
type Snapshot struct {
	entries   []Entry
	dimension int
	builtAt   time.Time
}

// BuildSnapshot constructs a snapshot from catalog items.
//
// Items without an embedding, with a zero vector, or with a vector of the
// wrong length (when dimension > 0) are excluded. Vectors are normalized so
// Search can use a plain dot product. Entries are kept in ascending SKU
// order.
func BuildSnapshot(items []*core.CatalogItem, dimension int) *Snapshot {
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item == nil || item.Pending() {
			continue
		}
		if dimension > 0 && len(item.Vector) != dimension {
			continue
		}
		if core.IsZeroVector(item.Vector) {
			continue
		}
		entries = append(entries, Entry{
			SKU:    item.SKU,
			Name:   item.Name,
			Vector: core.NormalizeVector(item.Vector),
		})
	}

	slices.SortFunc(entries, func(a, b Entry) int {
		return strings.Compare(a.SKU, b.SKU)
	})

	return &Snapshot{
		entries:   entries,
		dimension: dimension,
		builtAt:   time.Now().UTC(),
	}
}

// Len returns the number of searchable entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// BuiltAt returns when the snapshot was constructed.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Search returns the limit most similar entries to the query vector,
// ordered by descending cosine similarity. Equal scores are broken by
// ascending SKU so results are deterministic.
func (s *Snapshot) Search(vector []float32, limit int) []core.SimilarityMatch {
	if limit <= 0 || len(s.entries) == 0 {
		return nil
	}

	query := core.NormalizeVector(vector)

	matches := make([]core.SimilarityMatch, len(s.entries))
	for i, entry := range s.entries {
		matches[i] = core.SimilarityMatch{
			SKU:   entry.SKU,
			Score: float64(core.Dot(query, entry.Vector)),
		}
	}

	// Entries are in SKU order, so a stable sort by score keeps equal
	// scores in ascending SKU order
	slices.SortStableFunc(matches, func(a, b core.SimilarityMatch) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return 0
	})

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// SearchBatch runs Search for each query vector.
func (s *Snapshot) SearchBatch(vectors [][]float32, limit int) [][]core.SimilarityMatch {
	results := make([][]core.SimilarityMatch, len(vectors))
	for i, vector := range vectors {
		results[i] = s.Search(vector, limit)
	}
	return results
}

// items converts the snapshot back to catalog items for persistence.
func (s *Snapshot) items() []*core.CatalogItem {
	out := make([]*core.CatalogItem, len(s.entries))
	for i, entry := range s.entries {
		out[i] = &core.CatalogItem{
			SKU:    entry.SKU,
			Name:   entry.Name,
			Vector: entry.Vector,
		}
	}
	return out
}
