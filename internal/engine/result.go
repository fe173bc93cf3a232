package engine

import (
	"github.com/searchforge/cardfuse/internal/fuse"
	"github.com/searchforge/cardfuse/internal/names"
	"github.com/searchforge/cardfuse/internal/signal"
)

// SignalScore is one signal's opinion about one candidate, kept alongside
// the fused score for explainability.
type SignalScore struct {
	Raw        float64 `json:"raw"`
	Normalized float64 `json:"normalized"`
	Rank       int     `json:"rank"`
}

// Candidate is one fused result row. Signals contains only signals that had
// an opinion; NoData names the weighted signals that did not. "No data" is
// deliberately distinct from a zero score: WeightedSum may treat missing as
// zero internally, but the breakdown never pretends the signal voted.
type Candidate struct {
	Key     names.Key                   `json:"key"`
	Score   float64                     `json:"score"`
	Rank    int                         `json:"rank"`
	Signals map[signal.Name]SignalScore `json:"signals"`
	NoData  []signal.Name               `json:"no_data,omitempty"`
}

// Result is the full query answer: the ranking plus the resolution metadata
// needed to debug zero-result cases.
type Result struct {
	QueryID  string    `json:"query_id"`
	Query    string    `json:"query"`
	Resolved names.Key `json:"resolved"`

	Aggregator fuse.Kind   `json:"aggregator"`
	Candidates []Candidate `json:"candidates"`

	// AbsentSignals failed to load for this process generation.
	AbsentSignals []signal.Name `json:"absent_signals,omitempty"`
	// NoOpinion lists weighted signals that are loaded but returned no
	// data for this particular query.
	NoOpinion []signal.Name `json:"no_opinion,omitempty"`
}
