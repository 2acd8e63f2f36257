package service

import (
	"context"

	"topicshare-go/pkg/analysis"
	"topicshare-go/pkg/dataforseo"
	"topicshare-go/pkg/keyword"
)

// AnalysisService is the seam between the HTTP surface and the pipeline.
// Credentials are per-call: each run builds its own upstream client and
// nothing credential-shaped outlives the request.
type AnalysisService interface {
	Run(ctx context.Context, creds dataforseo.Credentials, req analysis.Request) (*analysis.Report, error)
	FetchKeywords(ctx context.Context, creds dataforseo.Credentials, req analysis.Request) ([]keyword.Keyword, []analysis.SourceError, error)
	EstimateCost(req analysis.Request) float64
	Balance(ctx context.Context, creds dataforseo.Credentials) (float64, error)
}
