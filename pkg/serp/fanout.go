package serp

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"topicshare-go/pkg/logger"
)

// FanoutConfig bounds the concurrent SERP fetch burst
type FanoutConfig struct {
	MaxConcurrent  int           `json:"max_concurrent"`
	QPS            float64       `json:"qps"`
	RequestTimeout time.Duration `json:"request_timeout"`
}

// DefaultFanoutConfig returns conservative defaults safe for the upstream
// API's rate limits
func DefaultFanoutConfig() FanoutConfig {
	return FanoutConfig{
		MaxConcurrent:  10,
		QPS:            20,
		RequestTimeout: 30 * time.Second,
	}
}

// KeywordError records a keyword whose SERP fetch failed. The run carries
// on without it, but the failure stays visible to the caller.
type KeywordError struct {
	Keyword string `json:"keyword"`
	Err     error  `json:"-"`
}

func (e KeywordError) Error() string {
	return "serp fetch failed for " + e.Keyword + ": " + e.Err.Error()
}

// Fanout issues per-keyword SERP fetches with bounded concurrency and
// request pacing. Aggregation downstream only needs the completed result
// set, so cancellation simply stops issuing new fetches.
type Fanout struct {
	source  Source
	config  FanoutConfig
	limiter *rate.Limiter
	log     *logger.Logger
}

// NewFanout creates a fan-out runner over the given source
func NewFanout(source Source, config FanoutConfig) *Fanout {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = DefaultFanoutConfig().MaxConcurrent
	}
	if config.QPS <= 0 {
		config.QPS = DefaultFanoutConfig().QPS
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = DefaultFanoutConfig().RequestTimeout
	}
	return &Fanout{
		source:  source,
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.QPS), config.MaxConcurrent),
		log:     logger.GetLogger().WithField("component", "serp_fanout"),
	}
}

// Fetch retrieves SERP results for every keyword. Failed keywords are
// returned separately and contribute zero results; the run is aborted only
// by context cancellation, in which case whatever completed is returned.
func (f *Fanout) Fetch(ctx context.Context, keywords []string, location int, language string, depth int) ([]Result, []KeywordError) {
	if len(keywords) == 0 {
		return nil, nil
	}

	var (
		mu       sync.Mutex
		results  []Result
		failures []KeywordError
		wg       sync.WaitGroup
	)

	progress := logger.NewProgressReporter(len(keywords), "SERP fetch progress")
	sem := make(chan struct{}, f.config.MaxConcurrent)

	for _, kw := range keywords {
		if ctx.Err() != nil {
			break
		}
		if err := f.limiter.Wait(ctx); err != nil {
			break
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(keyword string) {
			defer wg.Done()
			defer func() { <-sem }()

			reqCtx, cancel := context.WithTimeout(ctx, f.config.RequestTimeout)
			defer cancel()

			rows, err := f.source.Fetch(reqCtx, keyword, location, language, depth)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, KeywordError{Keyword: keyword, Err: err})
				f.log.WithError(err).WithField("keyword", keyword).Warn("SERP fetch failed, continuing without keyword")
			} else {
				results = append(results, rows...)
			}
			progress.Update(1)
		}(kw)
	}

	wg.Wait()
	progress.Complete()

	// Goroutine completion order is not deterministic; restore a stable
	// keyword/rank ordering for downstream consumers and exports.
	sort.Slice(results, func(i, j int) bool {
		if results[i].Keyword != results[j].Keyword {
			return results[i].Keyword < results[j].Keyword
		}
		return results[i].Rank < results[j].Rank
	})
	sort.Slice(failures, func(i, j int) bool {
		return failures[i].Keyword < failures[j].Keyword
	})

	f.log.WithFields(map[string]interface{}{
		"keywords": len(keywords),
		"results":  len(results),
		"failed":   len(failures),
	}).Info("SERP fan-out complete")

	return results, failures
}
