package analysis

import (
	"context"
	"errors"
	"fmt"

	"topicshare-go/pkg/cost"
	"topicshare-go/pkg/keyword"
	"topicshare-go/pkg/logger"
	"topicshare-go/pkg/market"
	"topicshare-go/pkg/serp"
)

// ErrNoSources is returned when a run selects no keyword source at all
var ErrNoSources = errors.New("no keyword sources selected")

// KeywordSource is the keyword-research collaborator. The dataforseo
// package provides the production implementations.
type KeywordSource interface {
	Fetch(ctx context.Context, seeds []string, location int, language string, negatives keyword.NegativeFilter) ([]keyword.Keyword, error)
	Kind() keyword.Source
}

// Runner drives the full pipeline: cost gate, keyword research, SERP
// fan-out and domain aggregation.
type Runner struct {
	sources    map[keyword.Source]KeywordSource
	fanout     *serp.Fanout
	keywords   *keyword.Aggregator
	domains    *market.Aggregator
	prices     cost.Prices
	thresholds market.Thresholds
	log        *logger.Logger
}

// NewRunner wires the pipeline from its collaborators
func NewRunner(
	sources []KeywordSource,
	fanout *serp.Fanout,
	keywords *keyword.Aggregator,
	domains *market.Aggregator,
	prices cost.Prices,
	thresholds market.Thresholds,
) *Runner {
	byKind := make(map[keyword.Source]KeywordSource, len(sources))
	for _, s := range sources {
		byKind[s.Kind()] = s
	}
	return &Runner{
		sources:    byKind,
		fanout:     fanout,
		keywords:   keywords,
		domains:    domains,
		prices:     prices,
		thresholds: thresholds,
		log:        logger.GetLogger().WithField("component", "analysis_runner"),
	}
}

// EstimateCost prices the whole prospective run without touching the
// network
func (r *Runner) EstimateCost(req Request) float64 {
	counts := make(map[cost.OperationKind]int)
	for _, src := range req.Sources {
		switch src {
		case keyword.SourceRelatedTerms:
			counts[cost.OpKeywordFetch] += cost.KeywordFetchUnits(req.FetchLimit) * maxInt(len(req.Seeds), 1)
		case keyword.SourceTopicIdeas:
			counts[cost.OpKeywordIdeasFetch] += cost.KeywordFetchUnits(req.FetchLimit) * maxInt(len(req.Seeds), 1)
		case keyword.SourceAutocomplete:
			counts[cost.OpAutocompleteFetch] += len(req.Seeds)
		}
	}
	counts[cost.OpSerpFetch] = req.AnalyzeLimit

	prices := cost.Prices{
		cost.OpKeywordFetch:      r.prices[cost.OpKeywordFetch],
		cost.OpKeywordIdeasFetch: r.prices[cost.OpKeywordIdeasFetch],
		cost.OpAutocompleteFetch: r.prices[cost.OpAutocompleteFetch],
		cost.OpSerpFetch:         cost.SerpFetchPrice(r.prices, req.Depth),
	}
	return cost.Estimate(counts, prices)
}

// FetchKeywords runs the keyword-research step alone: fetch from each
// selected source, merge, dedupe, filter and sort. Individual source
// failures are returned alongside the surviving keywords.
func (r *Runner) FetchKeywords(ctx context.Context, req Request) ([]keyword.Keyword, []SourceError, error) {
	if len(req.Sources) == 0 {
		return nil, nil, ErrNoSources
	}

	var lists [][]keyword.Keyword
	var sourceErrs []SourceError

	for _, kind := range req.Sources {
		source, ok := r.sources[kind]
		if !ok {
			return nil, nil, fmt.Errorf("keyword source %s not configured", kind)
		}
		list, err := source.Fetch(ctx, req.Seeds, req.Location, req.Language, req.Negatives)
		if err != nil {
			sourceErrs = append(sourceErrs, SourceError{Source: kind, Err: err})
			r.log.WithError(err).WithField("source", kind.String()).Warn("Keyword source failed, continuing with the rest")
			continue
		}
		lists = append(lists, list)
	}

	if len(lists) == 0 && len(sourceErrs) > 0 {
		return nil, sourceErrs, fmt.Errorf("all keyword sources failed: %w", sourceErrs[0].Err)
	}

	merged := r.keywords.Merge(lists, req.Negatives)
	return merged, sourceErrs, nil
}

// Run executes a full analysis. The cost gate runs first and blocks the
// run before any paid request when the estimate exceeds the ceiling.
func (r *Runner) Run(ctx context.Context, req Request) (*Report, error) {
	if !serp.ValidDepth(req.Depth) {
		return nil, fmt.Errorf("unsupported serp depth %d", req.Depth)
	}
	// A non-positive limit would price zero units while still fetching,
	// sidestepping the budget gate.
	if req.FetchLimit <= 0 || req.AnalyzeLimit <= 0 {
		return nil, fmt.Errorf("fetch limit %d and analyze limit %d must be positive", req.FetchLimit, req.AnalyzeLimit)
	}

	estimated := r.EstimateCost(req)
	if err := cost.Guard(estimated, req.MaxSpend); err != nil {
		return nil, err
	}

	keywords, sourceErrs, err := r.FetchKeywords(ctx, req)
	if err != nil {
		return nil, err
	}

	if len(keywords) > req.AnalyzeLimit {
		keywords = keywords[:req.AnalyzeLimit]
	}

	report := &Report{
		Keywords:      keywords,
		EstimatedCost: estimated,
		SourceErrors:  sourceErrs,
		MarketType:    market.MarketNoData,
	}
	if len(keywords) == 0 {
		return report, nil
	}

	texts := make([]string, len(keywords))
	for i, kw := range keywords {
		texts[i] = kw.Text
	}

	results, failed := r.fanout.Fetch(ctx, texts, req.Location, req.Language, req.Depth)
	report.Results = results
	report.FailedKeywords = failed

	stats, parseFailures := r.domains.Aggregate(results, VolumeMap(keywords), req.Negatives)
	report.DomainStats = stats
	report.ParseFailures = parseFailures
	report.TotalTraffic = market.TotalTraffic(stats)
	report.Top3Share = market.Concentration(stats, 3)
	report.Top5Share = market.Concentration(stats, 5)
	report.Top10Share = market.Concentration(stats, 10)
	report.MarketType = market.Classify(stats, r.thresholds)

	r.log.WithFields(map[string]interface{}{
		"keywords":    len(keywords),
		"results":     len(results),
		"domains":     len(stats),
		"market_type": string(report.MarketType),
	}).Info("Analysis run complete")

	return report, nil
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
