package serp

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type fakeSource struct {
	calls    int64
	failWord string
	delay    time.Duration
}

func (s *fakeSource) Fetch(ctx context.Context, keyword string, location int, language string, depth int) ([]Result, error) {
	atomic.AddInt64(&s.calls, 1)
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if keyword == s.failWord {
		return nil, errors.New("rate limit exceeded")
	}
	return []Result{
		{Keyword: keyword, Rank: 1, URL: "https://a.com/" + keyword},
		{Keyword: keyword, Rank: 2, URL: "https://b.com/" + keyword},
	}, nil
}

func TestFanout_CollectsAllKeywords(t *testing.T) {
	source := &fakeSource{}
	fanout := NewFanout(source, FanoutConfig{MaxConcurrent: 4, QPS: 1000, RequestTimeout: time.Second})

	results, failures := fanout.Fetch(context.Background(), []string{"alpha", "beta", "gamma"}, 2840, "en", 10)

	if len(failures) != 0 {
		t.Fatalf("Expected no failures, got %v", failures)
	}
	if len(results) != 6 {
		t.Fatalf("Expected 6 results, got %d", len(results))
	}
	// Stable ordering: keyword ascending, rank ascending.
	if results[0].Keyword != "alpha" || results[0].Rank != 1 {
		t.Errorf("Unexpected first result: %+v", results[0])
	}
	if results[5].Keyword != "gamma" || results[5].Rank != 2 {
		t.Errorf("Unexpected last result: %+v", results[5])
	}
}

func TestFanout_PartialFailureContinues(t *testing.T) {
	source := &fakeSource{failWord: "beta"}
	fanout := NewFanout(source, FanoutConfig{MaxConcurrent: 2, QPS: 1000, RequestTimeout: time.Second})

	results, failures := fanout.Fetch(context.Background(), []string{"alpha", "beta", "gamma"}, 2840, "en", 10)

	if len(failures) != 1 || failures[0].Keyword != "beta" {
		t.Fatalf("Expected single failure for beta, got %v", failures)
	}
	if len(results) != 4 {
		t.Errorf("Expected 4 results from surviving keywords, got %d", len(results))
	}
}

func TestFanout_CancellationStopsNewFetches(t *testing.T) {
	source := &fakeSource{delay: 50 * time.Millisecond}
	fanout := NewFanout(source, FanoutConfig{MaxConcurrent: 1, QPS: 1000, RequestTimeout: time.Second})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	keywords := make([]string, 50)
	for i := range keywords {
		keywords[i] = "kw" + string(rune('a'+i%26))
	}

	fanout.Fetch(ctx, keywords, 2840, "en", 10)

	if calls := atomic.LoadInt64(&source.calls); calls >= int64(len(keywords)) {
		t.Errorf("Expected cancellation to stop issuing fetches, but all %d were issued", calls)
	}
}

func TestFanout_EmptyKeywordList(t *testing.T) {
	fanout := NewFanout(&fakeSource{}, DefaultFanoutConfig())
	results, failures := fanout.Fetch(context.Background(), nil, 2840, "en", 10)
	if results != nil || failures != nil {
		t.Errorf("Expected nil outputs for empty input, got %v / %v", results, failures)
	}
}

func TestValidDepth(t *testing.T) {
	for _, d := range []int{10, 20, 50, 100} {
		if !ValidDepth(d) {
			t.Errorf("Depth %d should be valid", d)
		}
	}
	for _, d := range []int{0, 5, 30, 200} {
		if ValidDepth(d) {
			t.Errorf("Depth %d should be invalid", d)
		}
	}
}

func TestNewResult_RankBoundary(t *testing.T) {
	if _, err := NewResult("kw", 0, "https://a.com"); err == nil {
		t.Error("Rank 0 must be rejected")
	}
	if _, err := NewResult("kw", 101, "https://a.com"); err == nil {
		t.Error("Rank beyond max depth must be rejected")
	}
	if _, err := NewResult("kw", 100, "https://a.com"); err != nil {
		t.Errorf("Rank 100 should be accepted: %v", err)
	}
}
