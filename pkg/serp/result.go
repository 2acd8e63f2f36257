package serp

import (
	"fmt"

	"topicshare-go/pkg/ctr"
)

// Result is one organic ranking row: a keyword, a 1-based position and the
// URL that holds it. Domain is the host as reported upstream; aggregation
// reduces it to a registrable domain (falling back to URL when empty).
type Result struct {
	Keyword string  `json:"keyword"`
	Rank    int     `json:"rank"`
	URL     string  `json:"url"`
	Domain  string  `json:"domain,omitempty"`
	Title   string  `json:"title,omitempty"`
	CTR     float64 `json:"ctr,omitempty"`
}

// NewResult validates the rank boundary before a Result enters the
// pipeline. Positions outside the supported curve depth are rejected here
// so downstream estimation never sees them.
func NewResult(keyword string, rank int, url string) (Result, error) {
	if !ctr.ValidRank(rank) {
		return Result{}, fmt.Errorf("rank %d out of range 1..%d", rank, ctr.MaxDepth)
	}
	return Result{Keyword: keyword, Rank: rank, URL: url}, nil
}

// SupportedDepths lists the SERP depths the upstream API accepts
var SupportedDepths = []int{10, 20, 50, 100}

// ValidDepth reports whether depth is one of the supported fetch depths
func ValidDepth(depth int) bool {
	for _, d := range SupportedDepths {
		if d == depth {
			return true
		}
	}
	return false
}
