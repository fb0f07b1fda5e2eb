package match

import "github.com/poiesic/skumatch/core"

// Monitor provides hooks to observe the suggestion process.
// Implement this interface to track intermediate steps and results during matching.
type Monitor interface {
	Start(lines []*core.RequirementLine)
	SkippedLine(line *core.RequirementLine)
	AfterEmbedding(texts []string)
	AfterVectorSearch(lineId int64, matches []core.SimilarityMatch)
	AfterHistoryLookup(lineId int64, records []*core.MappingRecord)
	Scored(lineId int64, suggestions []*core.Suggestion)
	Finish(result *Result)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ []*core.RequirementLine)                      {}
func (n *noopMonitor) SkippedLine(_ *core.RequirementLine)                  {}
func (n *noopMonitor) AfterEmbedding(_ []string)                            {}
func (n *noopMonitor) AfterVectorSearch(_ int64, _ []core.SimilarityMatch)  {}
func (n *noopMonitor) AfterHistoryLookup(_ int64, _ []*core.MappingRecord)  {}
func (n *noopMonitor) Scored(_ int64, _ []*core.Suggestion)                 {}
func (n *noopMonitor) Finish(_ *Result)                                     {}
