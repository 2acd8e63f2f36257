package service

import (
	"context"
	"time"

	"topicshare-go/internal/config"
	"topicshare-go/pkg/analysis"
	"topicshare-go/pkg/cost"
	"topicshare-go/pkg/dataforseo"
	"topicshare-go/pkg/keyword"
	"topicshare-go/pkg/market"
	"topicshare-go/pkg/serp"
)

type analysisService struct {
	cfg      *config.Config
	resolver market.DomainResolver
}

// NewAnalysisService creates the production pipeline service from loaded
// configuration
func NewAnalysisService(cfg *config.Config) AnalysisService {
	return &analysisService{
		cfg:      cfg,
		resolver: market.NewPublicSuffixResolver(),
	}
}

func (s *analysisService) Run(ctx context.Context, creds dataforseo.Credentials, req analysis.Request) (*analysis.Report, error) {
	return s.buildRunner(creds).Run(ctx, req)
}

func (s *analysisService) FetchKeywords(ctx context.Context, creds dataforseo.Credentials, req analysis.Request) ([]keyword.Keyword, []analysis.SourceError, error) {
	return s.buildRunner(creds).FetchKeywords(ctx, req)
}

func (s *analysisService) EstimateCost(req analysis.Request) float64 {
	return s.buildRunner(dataforseo.Credentials{}).EstimateCost(req)
}

func (s *analysisService) Balance(ctx context.Context, creds dataforseo.Credentials) (float64, error) {
	return s.newClient(creds).Balance(ctx)
}

func (s *analysisService) newClient(creds dataforseo.Credentials) *dataforseo.Client {
	return dataforseo.NewClient(creds, dataforseo.ClientConfig{
		BaseURL:    s.cfg.API.BaseURL,
		Timeout:    time.Duration(s.cfg.API.TimeoutMs) * time.Millisecond,
		MaxRetries: s.cfg.API.MaxRetries,
		RetryDelay: time.Duration(s.cfg.API.RetryDelayMs) * time.Millisecond,
		MaxConns:   s.cfg.API.MaxConns,
	})
}

// buildRunner assembles a pipeline bound to one set of credentials. The
// runner is cheap to construct, so per-request assembly keeps credential
// lifetime equal to request lifetime.
func (s *analysisService) buildRunner(creds dataforseo.Credentials) *analysis.Runner {
	client := s.newClient(creds)

	sources := []analysis.KeywordSource{
		dataforseo.NewRelatedTermsSource(client, s.cfg.Analysis.FetchLimit),
		dataforseo.NewTopicIdeasSource(client, s.cfg.Analysis.FetchLimit),
		dataforseo.NewAutocompleteSource(client),
	}

	fanout := serp.NewFanout(dataforseo.NewSerpSource(client), serp.FanoutConfig{
		MaxConcurrent:  s.cfg.Fanout.MaxConcurrent,
		QPS:            s.cfg.Fanout.QPS,
		RequestTimeout: time.Duration(s.cfg.Fanout.TimeoutMs) * time.Millisecond,
	})

	prices := cost.Prices{
		cost.OpKeywordFetch:      s.cfg.Budget.Prices.KeywordFetch,
		cost.OpKeywordIdeasFetch: s.cfg.Budget.Prices.KeywordIdeasFetch,
		cost.OpAutocompleteFetch: s.cfg.Budget.Prices.AutocompleteFetch,
		cost.OpSerpFetch:         s.cfg.Budget.Prices.SerpFetch,
	}

	thresholds := market.Thresholds{
		MonopolisticTop3:  s.cfg.Thresholds.MonopolisticTop3,
		ConcentratedTop3:  s.cfg.Thresholds.ConcentratedTop3,
		ConcentratedTop10: s.cfg.Thresholds.ConcentratedTop10,
	}

	return analysis.NewRunner(
		sources,
		fanout,
		keyword.NewAggregator(s.cfg.Analysis.MinVolume),
		market.NewAggregator(s.resolver),
		prices,
		thresholds,
	)
}

// DefaultNegatives builds the starter negative filter from configuration
func DefaultNegatives(cfg *config.Config) keyword.NegativeFilter {
	return keyword.NewNegativeFilter(cfg.Negatives.Keywords, cfg.Negatives.Domains)
}
