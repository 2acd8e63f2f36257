package analysis

import (
	"context"
	"errors"
	"math"
	"sync/atomic"
	"testing"
	"time"

	"topicshare-go/pkg/cost"
	"topicshare-go/pkg/keyword"
	"topicshare-go/pkg/market"
	"topicshare-go/pkg/serp"
)

type fakeKeywordSource struct {
	kind  keyword.Source
	list  []keyword.Keyword
	err   error
	calls int64
}

func (f *fakeKeywordSource) Kind() keyword.Source { return f.kind }

func (f *fakeKeywordSource) Fetch(ctx context.Context, seeds []string, location int, language string, negatives keyword.NegativeFilter) ([]keyword.Keyword, error) {
	atomic.AddInt64(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

type fakeSerpSource struct {
	rows  map[string][]serp.Result
	calls int64
}

func (f *fakeSerpSource) Fetch(ctx context.Context, kw string, location int, language string, depth int) ([]serp.Result, error) {
	atomic.AddInt64(&f.calls, 1)
	return f.rows[kw], nil
}

func newTestRunner(kwSource *fakeKeywordSource, serpSource *fakeSerpSource) *Runner {
	fanout := serp.NewFanout(serpSource, serp.FanoutConfig{MaxConcurrent: 2, QPS: 1000, RequestTimeout: time.Second})
	return NewRunner(
		[]KeywordSource{kwSource},
		fanout,
		keyword.NewAggregator(0),
		market.NewAggregator(market.NewPublicSuffixResolver()),
		cost.DefaultPrices(),
		market.DefaultThresholds(),
	)
}

func baseRequest() Request {
	return Request{
		Seeds:        []string{"ecommerce"},
		Location:     2840,
		Language:     "en",
		Depth:        10,
		FetchLimit:   700,
		AnalyzeLimit: 100,
		MaxSpend:     5.0,
		Sources:      []keyword.Source{keyword.SourceRelatedTerms},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	kwSource := &fakeKeywordSource{
		kind: keyword.SourceRelatedTerms,
		list: []keyword.Keyword{
			{Text: "seo tools", SearchVolume: 1000, Sources: []keyword.Source{keyword.SourceRelatedTerms}},
		},
	}
	serpSource := &fakeSerpSource{rows: map[string][]serp.Result{
		"seo tools": {
			{Keyword: "seo tools", Rank: 1, URL: "https://a.com/x"},
			{Keyword: "seo tools", Rank: 2, URL: "https://b.com/y"},
			{Keyword: "seo tools", Rank: 3, URL: "https://a.com/z"},
		},
	}}

	report, err := newTestRunner(kwSource, serpSource).Run(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(report.DomainStats) != 2 {
		t.Fatalf("Expected 2 domains, got %d", len(report.DomainStats))
	}
	wantA := 1000*0.30 + 1000*0.10
	if report.DomainStats[0].Domain != "a.com" || math.Abs(report.DomainStats[0].TotalTraffic-wantA) > 1e-9 {
		t.Errorf("Unexpected leader row: %+v", report.DomainStats[0])
	}
	if math.Abs(report.Top3Share-1.0) > 1e-9 {
		t.Errorf("Top3 share = %v, want 1.0", report.Top3Share)
	}
	if report.Top3Share > report.Top5Share+1e-9 || report.Top5Share > report.Top10Share+1e-9 {
		t.Error("Concentration must be monotone in topN")
	}
	if report.MarketType != market.MarketMonopolistic {
		t.Errorf("Market type = %v, want monopolistic", report.MarketType)
	}
}

func TestRun_CostGateBlocksBeforeAnyFetch(t *testing.T) {
	kwSource := &fakeKeywordSource{kind: keyword.SourceRelatedTerms}
	serpSource := &fakeSerpSource{}
	runner := newTestRunner(kwSource, serpSource)

	req := baseRequest()
	req.MaxSpend = 0.001

	_, err := runner.Run(context.Background(), req)

	var budgetErr *cost.BudgetExceededError
	if !errors.As(err, &budgetErr) {
		t.Fatalf("Expected BudgetExceededError, got %v", err)
	}
	if atomic.LoadInt64(&kwSource.calls) != 0 || atomic.LoadInt64(&serpSource.calls) != 0 {
		t.Error("Cost gate must block before any upstream call")
	}
}

func TestRun_InvalidDepthRejected(t *testing.T) {
	runner := newTestRunner(&fakeKeywordSource{kind: keyword.SourceRelatedTerms}, &fakeSerpSource{})
	req := baseRequest()
	req.Depth = 30

	if _, err := runner.Run(context.Background(), req); err == nil {
		t.Error("Depth outside {10,20,50,100} must be rejected")
	}
}

func TestRun_NonPositiveLimitsRejected(t *testing.T) {
	kwSource := &fakeKeywordSource{
		kind: keyword.SourceRelatedTerms,
		list: []keyword.Keyword{
			{Text: "alpha", SearchVolume: 300, Sources: []keyword.Source{keyword.SourceRelatedTerms}},
			{Text: "beta", SearchVolume: 200, Sources: []keyword.Source{keyword.SourceRelatedTerms}},
			{Text: "gamma", SearchVolume: 100, Sources: []keyword.Source{keyword.SourceRelatedTerms}},
		},
	}

	tests := []struct {
		name         string
		fetchLimit   int
		analyzeLimit int
	}{
		{"negative analyze limit", 700, -1},
		{"zero analyze limit", 700, 0},
		{"negative fetch limit", -1, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serpSource := &fakeSerpSource{}
			runner := newTestRunner(kwSource, serpSource)

			req := baseRequest()
			req.FetchLimit = tt.fetchLimit
			req.AnalyzeLimit = tt.analyzeLimit
			// Tight ceiling: if the limit slipped past the estimate, the
			// gate would open and the fetches below would be paid for.
			req.MaxSpend = 0.011

			if _, err := runner.Run(context.Background(), req); err == nil {
				t.Error("Non-positive limit must be rejected")
			}
			if atomic.LoadInt64(&serpSource.calls) != 0 {
				t.Error("No SERP fetches may be issued for a rejected request")
			}
		})
	}
}

func TestRun_NoSourcesSelected(t *testing.T) {
	runner := newTestRunner(&fakeKeywordSource{kind: keyword.SourceRelatedTerms}, &fakeSerpSource{})
	req := baseRequest()
	req.Sources = nil

	if _, err := runner.Run(context.Background(), req); !errors.Is(err, ErrNoSources) {
		t.Errorf("Expected ErrNoSources, got %v", err)
	}
}

func TestRun_EmptyKeywordPoolIsNotAnError(t *testing.T) {
	kwSource := &fakeKeywordSource{kind: keyword.SourceRelatedTerms}
	serpSource := &fakeSerpSource{}

	report, err := newTestRunner(kwSource, serpSource).Run(context.Background(), baseRequest())
	if err != nil {
		t.Fatalf("Empty keyword pool should not error: %v", err)
	}
	if len(report.DomainStats) != 0 || report.TotalTraffic != 0 {
		t.Errorf("Expected empty report, got %+v", report)
	}
	if report.MarketType != market.MarketNoData {
		t.Errorf("Market type = %v, want no_data", report.MarketType)
	}
	if atomic.LoadInt64(&serpSource.calls) != 0 {
		t.Error("No SERP fetches expected with an empty keyword pool")
	}
}

func TestFetchKeywords_PartialSourceFailure(t *testing.T) {
	okSource := &fakeKeywordSource{
		kind: keyword.SourceRelatedTerms,
		list: []keyword.Keyword{{Text: "alpha", SearchVolume: 100, Sources: []keyword.Source{keyword.SourceRelatedTerms}}},
	}
	badSource := &fakeKeywordSource{kind: keyword.SourceTopicIdeas, err: errors.New("status 500")}

	fanout := serp.NewFanout(&fakeSerpSource{}, serp.DefaultFanoutConfig())
	runner := NewRunner(
		[]KeywordSource{okSource, badSource},
		fanout,
		keyword.NewAggregator(0),
		market.NewAggregator(market.NewPublicSuffixResolver()),
		cost.DefaultPrices(),
		market.DefaultThresholds(),
	)

	req := baseRequest()
	req.Sources = []keyword.Source{keyword.SourceRelatedTerms, keyword.SourceTopicIdeas}

	keywords, sourceErrs, err := runner.FetchKeywords(context.Background(), req)
	if err != nil {
		t.Fatalf("Partial failure should not abort: %v", err)
	}
	if len(keywords) != 1 || keywords[0].Text != "alpha" {
		t.Errorf("Expected surviving keywords from healthy source, got %v", keywords)
	}
	if len(sourceErrs) != 1 || sourceErrs[0].Source != keyword.SourceTopicIdeas {
		t.Errorf("Expected recorded source failure, got %v", sourceErrs)
	}
}

func TestFetchKeywords_AllSourcesFail(t *testing.T) {
	badSource := &fakeKeywordSource{kind: keyword.SourceRelatedTerms, err: errors.New("status 500")}
	runner := newTestRunner(badSource, &fakeSerpSource{})

	_, _, err := runner.FetchKeywords(context.Background(), baseRequest())
	if err == nil {
		t.Error("All sources failing must surface an error")
	}
}

func TestEstimateCost(t *testing.T) {
	runner := newTestRunner(&fakeKeywordSource{kind: keyword.SourceRelatedTerms}, &fakeSerpSource{})

	req := baseRequest()
	req.AnalyzeLimit = 100
	req.Depth = 10

	// One 700-keyword batch plus 100 SERP fetches at base depth.
	want := 0.01 + 100*0.0006
	if got := runner.EstimateCost(req); math.Abs(got-want) > 1e-12 {
		t.Errorf("EstimateCost = %v, want %v", got, want)
	}

	req.Depth = 100
	want = 0.01 + 100*0.006
	if got := runner.EstimateCost(req); math.Abs(got-want) > 1e-12 {
		t.Errorf("EstimateCost at depth 100 = %v, want %v", got, want)
	}
}
