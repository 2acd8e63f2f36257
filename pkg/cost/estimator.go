// Package cost estimates the monetary price of a prospective analysis so
// runs can be blocked before any paid upstream call is issued. Everything
// here is pure arithmetic; nothing talks to the network.
package cost

import (
	"fmt"
	"math"
)

// OperationKind identifies one billable upstream operation
type OperationKind string

const (
	// OpKeywordFetch is one related-terms request, billed per batch of up
	// to KeywordBatchSize keywords
	OpKeywordFetch OperationKind = "keyword_fetch"
	// OpKeywordIdeasFetch is one topic-ideas request, same batch billing
	OpKeywordIdeasFetch OperationKind = "keyword_ideas_fetch"
	// OpAutocompleteFetch is one autocomplete request, billed per request
	OpAutocompleteFetch OperationKind = "autocomplete_fetch"
	// OpSerpFetch is one SERP request for one keyword at base depth 10;
	// deeper fetches scale the unit price by depth/10
	OpSerpFetch OperationKind = "serp_fetch"
)

// KeywordBatchSize is the number of keywords one keyword-fetch unit covers
const KeywordBatchSize = 700

// SerpBaseDepth is the depth one SERP unit price covers
const SerpBaseDepth = 10

// Prices maps operation kinds to their unit price in dollars
type Prices map[OperationKind]float64

// DefaultPrices returns the upstream API's published prices
func DefaultPrices() Prices {
	return Prices{
		OpKeywordFetch:      0.01,
		OpKeywordIdeasFetch: 0.01,
		OpAutocompleteFetch: 0.0002,
		OpSerpFetch:         0.0006,
	}
}

// Estimate is a pure linear combination of unit counts and unit prices.
// Unknown operation kinds price at zero; empty input costs zero.
func Estimate(unitCounts map[OperationKind]int, unitPrices Prices) float64 {
	var total float64
	for op, count := range unitCounts {
		if count <= 0 {
			continue
		}
		total += float64(count) * unitPrices[op]
	}
	return total
}

// KeywordFetchUnits converts a requested keyword count into billable batch
// units
func KeywordFetchUnits(keywordCount int) int {
	if keywordCount <= 0 {
		return 0
	}
	return int(math.Ceil(float64(keywordCount) / KeywordBatchSize))
}

// SerpFetchPrice returns the per-keyword SERP price at the given depth
func SerpFetchPrice(unitPrices Prices, depth int) float64 {
	return unitPrices[OpSerpFetch] * float64(depth) / SerpBaseDepth
}

// BudgetExceededError reports an estimate over the configured ceiling
type BudgetExceededError struct {
	Estimated float64
	Ceiling   float64
}

func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("estimated cost $%.4f exceeds spend ceiling $%.2f", e.Estimated, e.Ceiling)
}

// Guard blocks a run whose estimated cost exceeds the ceiling. This is the
// hard pre-flight gate; callers must not issue paid requests after a
// non-nil return.
func Guard(estimated, ceiling float64) error {
	if estimated > ceiling {
		return &BudgetExceededError{Estimated: estimated, Ceiling: ceiling}
	}
	return nil
}
