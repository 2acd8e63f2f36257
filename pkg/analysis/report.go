package analysis

import (
	"topicshare-go/pkg/keyword"
	"topicshare-go/pkg/market"
	"topicshare-go/pkg/serp"
)

// Request holds everything one analysis run needs. Negative sets and
// thresholds arrive as explicit values; nothing here is shared mutable
// state.
type Request struct {
	Seeds        []string               `json:"seeds"`
	Location     int                    `json:"location"`
	Language     string                 `json:"language"`
	Depth        int                    `json:"depth"`
	FetchLimit   int                    `json:"fetch_limit"`
	AnalyzeLimit int                    `json:"analyze_limit"`
	MaxSpend     float64                `json:"max_spend"`
	Sources      []keyword.Source       `json:"sources"`
	Negatives    keyword.NegativeFilter `json:"-"`
}

// SourceError records a keyword source that failed. The run continues with
// the remaining sources; the failure stays visible.
type SourceError struct {
	Source keyword.Source `json:"source"`
	Err    error          `json:"-"`
}

func (e SourceError) Error() string {
	return "keyword source " + e.Source.String() + " failed: " + e.Err.Error()
}

// Report is the complete outcome of one analysis run
type Report struct {
	Keywords       []keyword.Keyword   `json:"keywords"`
	Results        []serp.Result       `json:"results"`
	DomainStats    []market.DomainStat `json:"domain_stats"`
	TotalTraffic   float64             `json:"total_traffic"`
	Top3Share      float64             `json:"top3_share"`
	Top5Share      float64             `json:"top5_share"`
	Top10Share     float64             `json:"top10_share"`
	MarketType     market.MarketType   `json:"market_type"`
	ParseFailures  int                 `json:"parse_failures"`
	EstimatedCost  float64             `json:"estimated_cost"`
	FailedKeywords []serp.KeywordError `json:"failed_keywords,omitempty"`
	SourceErrors   []SourceError       `json:"source_errors,omitempty"`
}

// VolumeMap returns normalized keyword text to search volume for the
// analyzed keyword set
func VolumeMap(keywords []keyword.Keyword) map[string]int {
	volumes := make(map[string]int, len(keywords))
	for _, kw := range keywords {
		volumes[kw.Text] = kw.SearchVolume
	}
	return volumes
}
