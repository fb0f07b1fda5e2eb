package match

import "github.com/poiesic/skumatch/core"

// Config holds the scoring parameters for suggestion ranking.
type Config struct {
	// HistoryWeight is the weight of the normalized history frequency
	HistoryWeight float64

	// VectorWeight is the weight of the cosine similarity
	VectorWeight float64

	// TopK is the number of suggestions returned per line
	TopK int

	// PoolSize is the number of vector candidates fetched per line
	PoolSize int

	// HighThreshold is the minimum score for high confidence
	HighThreshold float64

	// LowThreshold is the minimum score for medium confidence
	LowThreshold float64

	// QuoteLimit is the number of recent quotes attached per suggestion
	QuoteLimit int
}

// DefaultConfig returns a Config with the standard weighting.
func DefaultConfig() *Config {
	return &Config{
		HistoryWeight: 0.7,
		VectorWeight:  0.3,
		TopK:          3,
		PoolSize:      10,
		HighThreshold: 0.85,
		LowThreshold:  0.60,
		QuoteLimit:    3,
	}
}

// normalizeFrequencies scales raw selection counts into [0,1] by dividing
// each frequency by the highest frequency among the records. The most
// frequently chosen SKU always gets 1.0, independent of absolute counts.
func normalizeFrequencies(records []*core.MappingRecord) map[string]float64 {
	if len(records) == 0 {
		return nil
	}

	var max uint64
	for _, record := range records {
		if record.Frequency > max {
			max = record.Frequency
		}
	}
	if max == 0 {
		return nil
	}

	scores := make(map[string]float64, len(records))
	for _, record := range records {
		scores[record.SKU] = float64(record.Frequency) / float64(max)
	}
	return scores
}

// combine computes the weighted hybrid score for one candidate.
func (c *Config) combine(historyScore, similarity float64) float64 {
	return c.HistoryWeight*historyScore + c.VectorWeight*similarity
}

// confidence buckets a hybrid score for presentation.
func (c *Config) confidence(score float64) core.Confidence {
	switch {
	case score >= c.HighThreshold:
		return core.ConfidenceHigh
	case score >= c.LowThreshold:
		return core.ConfidenceMedium
	default:
		return core.ConfidenceLow
	}
}
