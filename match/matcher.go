package match

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/poiesic/skumatch/ai"
	"github.com/poiesic/skumatch/core"
	"github.com/poiesic/skumatch/index"
	"github.com/poiesic/skumatch/storage"
)

// Timing records how long each stage of a suggestion request took.
type Timing struct {
	Embedding    time.Duration
	VectorSearch time.Duration
	History      time.Duration
	Enrichment   time.Duration
	Total        time.Duration
}

// Result holds the outcome of one suggestion request.
type Result struct {
	// Suggestions maps requirement line IDs to their ranked candidates.
	Suggestions map[int64][]*core.Suggestion

	// Skipped lists line IDs whose text normalized to empty.
	Skipped []int64

	// Timing breaks down where the request spent its time.
	Timing Timing
}

// Matcher produces ranked catalog suggestions for requirement lines by
// blending mapping history with vector similarity.
type Matcher struct {
	items    storage.ItemRepository
	history  storage.MappingHistoryRepository
	quotes   storage.QuoteRepository
	embedder ai.Embedder
	index    *index.Index
	config   *Config
	logger   *slog.Logger
}

// Option configures a Matcher.
type Option func(*Matcher) error

// WithConfig replaces the default scoring configuration.
func WithConfig(config *Config) Option {
	return func(m *Matcher) error {
		if config != nil {
			m.config = config
		}
		return nil
	}
}

// WithTopK sets the number of suggestions returned per line.
// Default is 3, with a minimum of 1.
func WithTopK(k int) Option {
	return func(m *Matcher) error {
		if k < 1 {
			k = 1
		}
		m.config.TopK = k
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(m *Matcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		m.logger = logger
		return nil
	}
}

// NewMatcher creates a new matcher.
func NewMatcher(
	items storage.ItemRepository,
	history storage.MappingHistoryRepository,
	quotes storage.QuoteRepository,
	embedder ai.Embedder,
	ix *index.Index,
	opts ...Option,
) (*Matcher, error) {
	if items == nil {
		return nil, ErrItemRepositoryRequired
	}
	if history == nil {
		return nil, ErrMappingRepositoryRequired
	}
	if quotes == nil {
		return nil, ErrQuoteRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if ix == nil {
		return nil, ErrIndexRequired
	}

	m := &Matcher{
		items:    items,
		history:  history,
		quotes:   quotes,
		embedder: embedder,
		index:    ix,
		config:   DefaultConfig(),
		logger:   slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(m); err != nil {
			return nil, err
		}
	}

	// The vector pool must at least cover the requested result count
	if m.config.PoolSize < m.config.TopK {
		m.config.PoolSize = m.config.TopK
	}
	m.logger = m.logger.With("component", "matcher")

	return m, nil
}

// Suggest ranks catalog candidates for each requirement line.
// Returns index.ErrIndexNotReady when the vector index has not been loaded.
func (m *Matcher) Suggest(ctx context.Context, lines []*core.RequirementLine) (*Result, error) {
	return m.SuggestWithMonitor(ctx, lines, nil)
}

// SuggestWithMonitor ranks catalog candidates with monitoring.
// The monitor receives callbacks at each stage of the matching process.
func (m *Matcher) SuggestWithMonitor(ctx context.Context, lines []*core.RequirementLine, monitor Monitor) (*Result, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	start := time.Now()
	monitor.Start(lines)

	result := &Result{Suggestions: make(map[int64][]*core.Suggestion, len(lines))}

	// 1. Normalize line texts, dropping lines that normalize to empty, and
	// deduplicate so repeated texts embed once
	type activeLine struct {
		line       *core.RequirementLine
		normalized string
	}
	active := make([]activeLine, 0, len(lines))
	texts := make([]string, 0, len(lines))
	textIndex := make(map[string]int, len(lines))
	for _, line := range lines {
		if line == nil {
			continue
		}
		normalized := core.NormalizeRequirement(line.Text)
		if normalized == "" {
			result.Skipped = append(result.Skipped, line.Id)
			monitor.SkippedLine(line)
			continue
		}
		if _, seen := textIndex[normalized]; !seen {
			textIndex[normalized] = len(texts)
			texts = append(texts, normalized)
		}
		active = append(active, activeLine{line: line, normalized: normalized})
	}

	if len(active) == 0 {
		result.Timing.Total = time.Since(start)
		monitor.Finish(result)
		return result, nil
	}

	snap, err := m.index.Current()
	if err != nil {
		return nil, err
	}

	// 2. One provider call covers every distinct requirement text
	embedStart := time.Now()
	vectors, err := m.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		m.logger.Error("error embedding requirement texts", "texts", len(texts), "err", err)
		return nil, fmt.Errorf("failed to embed requirement texts: %w", err)
	}
	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("%w: sent %d texts, received %d vectors",
			ErrEmbeddingCountMismatch, len(texts), len(vectors))
	}
	result.Timing.Embedding = time.Since(embedStart)
	monitor.AfterEmbedding(texts)

	// 3. Vector candidates per distinct text
	searchStart := time.Now()
	matchesByText := snap.SearchBatch(vectors, m.config.PoolSize)
	result.Timing.VectorSearch = time.Since(searchStart)

	// 4. Per line: history lookup, then score the candidate union
	for _, al := range active {
		matches := matchesByText[textIndex[al.normalized]]
		monitor.AfterVectorSearch(al.line.Id, matches)

		historyStart := time.Now()
		records, err := m.history.LookupMappings(ctx, al.normalized)
		if err != nil {
			m.logger.Error("error looking up mapping history", "requirement", al.normalized, "err", err)
			return nil, fmt.Errorf("failed to look up mapping history: %w", err)
		}
		result.Timing.History += time.Since(historyStart)
		monitor.AfterHistoryLookup(al.line.Id, records)

		suggestions := m.score(matches, records)
		monitor.Scored(al.line.Id, suggestions)
		result.Suggestions[al.line.Id] = suggestions
	}

	// 5. Attach item details and recent quotes
	enrichStart := time.Now()
	if err := m.enrich(ctx, result.Suggestions); err != nil {
		return nil, err
	}
	result.Timing.Enrichment = time.Since(enrichStart)

	result.Timing.Total = time.Since(start)
	m.logger.Debug("suggestion request complete",
		"lines", len(lines),
		"skipped", len(result.Skipped),
		"uniqueTexts", len(texts),
		"total", result.Timing.Total)
	monitor.Finish(result)

	return result, nil
}

// SuggestOne ranks catalog candidates for a single free-text requirement.
func (m *Matcher) SuggestOne(ctx context.Context, text string) ([]*core.Suggestion, error) {
	normalized := core.NormalizeRequirement(text)
	if normalized == "" {
		return nil, core.ErrEmptyRequirement
	}

	snap, err := m.index.Current()
	if err != nil {
		return nil, err
	}

	vector, err := m.embedder.EmbedText(ctx, normalized)
	if err != nil {
		m.logger.Error("error embedding requirement text", "err", err)
		return nil, fmt.Errorf("failed to embed requirement text: %w", err)
	}

	records, err := m.history.LookupMappings(ctx, normalized)
	if err != nil {
		return nil, fmt.Errorf("failed to look up mapping history: %w", err)
	}

	suggestions := m.score(snap.Search(vector, m.config.PoolSize), records)
	if err := m.enrich(ctx, map[int64][]*core.Suggestion{0: suggestions}); err != nil {
		return nil, err
	}

	return suggestions, nil
}

// score builds ranked suggestions from the two candidate signals.
//
// Candidates are the union of vector hits and history records. A SKU present
// in only one signal scores zero on the other, so with no history the
// ranking degrades to pure similarity. Ties are broken by ascending SKU.
func (m *Matcher) score(matches []core.SimilarityMatch, records []*core.MappingRecord) []*core.Suggestion {
	historyScores := normalizeFrequencies(records)
	frequencies := make(map[string]uint64, len(records))
	for _, record := range records {
		frequencies[record.SKU] = record.Frequency
	}

	similarities := make(map[string]float64, len(matches))
	candidates := make([]string, 0, len(matches)+len(records))
	for _, match := range matches {
		similarities[match.SKU] = match.Score
		candidates = append(candidates, match.SKU)
	}
	for sku := range historyScores {
		if _, hit := similarities[sku]; !hit {
			candidates = append(candidates, sku)
		}
	}

	suggestions := make([]*core.Suggestion, 0, len(candidates))
	for _, sku := range candidates {
		historyScore := historyScores[sku]
		similarity := similarities[sku]
		score := m.config.combine(historyScore, similarity)
		suggestions = append(suggestions, &core.Suggestion{
			SKU:              sku,
			Score:            score,
			Confidence:       m.config.confidence(score),
			VectorSimilarity: similarity,
			HistoryScore:     historyScore,
			HistoryFrequency: frequencies[sku],
		})
	}

	slices.SortFunc(suggestions, func(a, b *core.Suggestion) int {
		if a.Score > b.Score {
			return -1
		}
		if a.Score < b.Score {
			return 1
		}
		return strings.Compare(a.SKU, b.SKU)
	})

	if len(suggestions) > m.config.TopK {
		suggestions = suggestions[:m.config.TopK]
	}
	return suggestions
}

// enrich fills in item details and recent quotes for every suggestion.
// Each distinct SKU is fetched once across all lines.
func (m *Matcher) enrich(ctx context.Context, byLine map[int64][]*core.Suggestion) error {
	skuSet := make(map[string]bool)
	for _, suggestions := range byLine {
		for _, s := range suggestions {
			skuSet[s.SKU] = true
		}
	}
	if len(skuSet) == 0 {
		return nil
	}

	skus := make([]string, 0, len(skuSet))
	for sku := range skuSet {
		skus = append(skus, sku)
	}

	items, err := m.items.GetItems(ctx, skus...)
	if err != nil {
		return fmt.Errorf("failed to retrieve catalog items: %w", err)
	}
	itemsBySKU := make(map[string]*core.CatalogItem, len(items))
	for _, item := range items {
		itemsBySKU[item.SKU] = item
	}

	quotesBySKU := make(map[string][]*core.QuoteRecord, len(skus))
	if m.config.QuoteLimit > 0 {
		for _, sku := range skus {
			quotes, err := m.quotes.LastQuotes(ctx, sku, m.config.QuoteLimit)
			if err != nil {
				m.logger.Warn("failed to retrieve quotes", "sku", sku, "err", err)
				continue
			}
			quotesBySKU[sku] = quotes
		}
	}

	for _, suggestions := range byLine {
		for _, s := range suggestions {
			if item, ok := itemsBySKU[s.SKU]; ok {
				s.ItemName = item.Name
				s.Price = item.Price
				s.Image = item.Image
			}
			s.LastQuotes = quotesBySKU[s.SKU]
		}
	}
	return nil
}
