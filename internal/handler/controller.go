package handler

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"topicshare-go/internal/config"
	"topicshare-go/internal/service"
	"topicshare-go/pkg/analysis"
	"topicshare-go/pkg/cost"
	"topicshare-go/pkg/dataforseo"
	"topicshare-go/pkg/keyword"
	"topicshare-go/pkg/logger"
	"topicshare-go/pkg/serp"
)

// Controller exposes the analysis pipeline over HTTP. Credentials arrive
// per request via basic auth and are handed straight to the service; they
// are never stored or echoed back.
type Controller struct {
	cfg      *config.Config
	analysis service.AnalysisService
	log      *logger.Logger
}

func NewController(cfg *config.Config, analysisService service.AnalysisService) *Controller {
	return &Controller{
		cfg:      cfg,
		analysis: analysisService,
		log:      logger.GetLogger().WithField("component", "http_controller"),
	}
}

// Register mounts all routes on the fiber app
func (ctl *Controller) Register(app *fiber.App) {
	app.Get("/health", ctl.Health)

	v1 := app.Group("/api/v1")
	v1.Get("/balance", ctl.Balance)
	v1.Post("/keywords", ctl.Keywords)
	v1.Post("/analyze", ctl.Analyze)
}

func (ctl *Controller) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (ctl *Controller) Balance(c *fiber.Ctx) error {
	creds, err := credentials(c)
	if err != nil {
		return unauthorized(c, err)
	}

	balance, err := ctl.analysis.Balance(c.Context(), creds)
	if err != nil {
		return upstreamError(c, err)
	}
	return c.JSON(fiber.Map{"balance": balance})
}

// AnalyzeRequest is the JSON body for both the keyword-research and the
// full-analysis endpoints. Absent fields fall back to configured defaults;
// an explicitly empty negative list disables filtering.
type AnalyzeRequest struct {
	Seeds            []string `json:"seeds"`
	Location         int      `json:"location"`
	Language         string   `json:"language"`
	Depth            int      `json:"depth"`
	FetchLimit       int      `json:"fetch_limit"`
	AnalyzeLimit     int      `json:"analyze_limit"`
	MaxSpend         *float64 `json:"max_spend"`
	Sources          []string `json:"sources"`
	NegativeKeywords []string `json:"negative_keywords"`
	NegativeDomains  []string `json:"negative_domains"`
}

func (ctl *Controller) Keywords(c *fiber.Ctx) error {
	creds, err := credentials(c)
	if err != nil {
		return unauthorized(c, err)
	}
	req, err := ctl.buildRequest(c)
	if err != nil {
		return badRequest(c, err)
	}

	keywords, sourceErrs, err := ctl.analysis.FetchKeywords(c.Context(), creds, req)
	if err != nil {
		return ctl.mapPipelineError(c, err)
	}

	if c.Query("format") == "csv" {
		return writeKeywordCSV(c, keywords)
	}
	return c.JSON(fiber.Map{
		"keywords":      keywords,
		"source_errors": sourceErrorMessages(sourceErrs),
	})
}

func (ctl *Controller) Analyze(c *fiber.Ctx) error {
	creds, err := credentials(c)
	if err != nil {
		return unauthorized(c, err)
	}
	req, err := ctl.buildRequest(c)
	if err != nil {
		return badRequest(c, err)
	}

	report, err := ctl.analysis.Run(c.Context(), creds, req)
	if err != nil {
		return ctl.mapPipelineError(c, err)
	}

	switch c.Query("export") {
	case "summary":
		return writeSummaryCSV(c, report)
	case "serp":
		return writeSerpCSV(c, report)
	case "":
		return c.JSON(report)
	default:
		return badRequest(c, fmt.Errorf("unknown export %q", c.Query("export")))
	}
}

// buildRequest merges the JSON body with configured defaults
func (ctl *Controller) buildRequest(c *fiber.Ctx) (analysis.Request, error) {
	var body AnalyzeRequest
	if err := c.BodyParser(&body); err != nil {
		return analysis.Request{}, fmt.Errorf("parse body: %w", err)
	}

	seeds := make([]string, 0, len(body.Seeds))
	for _, s := range body.Seeds {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			seeds = append(seeds, trimmed)
		}
	}
	if len(seeds) == 0 {
		return analysis.Request{}, fmt.Errorf("at least one seed keyword is required")
	}

	defaults := ctl.cfg.Analysis
	req := analysis.Request{
		Seeds:        seeds,
		Location:     body.Location,
		Language:     body.Language,
		Depth:        body.Depth,
		FetchLimit:   body.FetchLimit,
		AnalyzeLimit: body.AnalyzeLimit,
		MaxSpend:     ctl.cfg.Budget.MaxSpend,
	}
	if req.Location == 0 {
		req.Location = defaults.Location
	}
	if req.Language == "" {
		req.Language = defaults.Language
	}
	if req.Depth == 0 {
		req.Depth = defaults.Depth
	}
	if !serp.ValidDepth(req.Depth) {
		return analysis.Request{}, fmt.Errorf("depth must be one of %v", serp.SupportedDepths)
	}
	if req.FetchLimit == 0 {
		req.FetchLimit = defaults.FetchLimit
	}
	if req.AnalyzeLimit == 0 {
		req.AnalyzeLimit = defaults.AnalyzeLimit
	}
	if req.FetchLimit <= 0 || req.AnalyzeLimit <= 0 {
		return analysis.Request{}, fmt.Errorf("fetch_limit and analyze_limit must be positive")
	}
	if body.MaxSpend != nil {
		req.MaxSpend = *body.MaxSpend
	}

	sources, err := parseSources(body.Sources)
	if err != nil {
		return analysis.Request{}, err
	}
	req.Sources = sources

	negKeywords := ctl.cfg.Negatives.Keywords
	if body.NegativeKeywords != nil {
		negKeywords = body.NegativeKeywords
	}
	negDomains := ctl.cfg.Negatives.Domains
	if body.NegativeDomains != nil {
		negDomains = body.NegativeDomains
	}
	req.Negatives = keyword.NewNegativeFilter(negKeywords, negDomains)

	return req, nil
}

func parseSources(names []string) ([]keyword.Source, error) {
	if len(names) == 0 {
		return []keyword.Source{keyword.SourceRelatedTerms}, nil
	}
	out := make([]keyword.Source, 0, len(names))
	for _, name := range names {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "related_terms":
			out = append(out, keyword.SourceRelatedTerms)
		case "topic_ideas":
			out = append(out, keyword.SourceTopicIdeas)
		case "autocomplete":
			out = append(out, keyword.SourceAutocomplete)
		default:
			return nil, fmt.Errorf("unknown keyword source %q", name)
		}
	}
	return out, nil
}

// credentials extracts basic auth from the request without ever logging it
func credentials(c *fiber.Ctx) (dataforseo.Credentials, error) {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return dataforseo.Credentials{}, fmt.Errorf("missing credentials")
	}
	const prefix = "Basic "
	if !strings.HasPrefix(header, prefix) {
		return dataforseo.Credentials{}, fmt.Errorf("expected basic auth")
	}
	decoded, err := base64.StdEncoding.DecodeString(header[len(prefix):])
	if err != nil {
		return dataforseo.Credentials{}, fmt.Errorf("malformed basic auth")
	}
	parts := strings.SplitN(string(decoded), ":", 2)
	if len(parts) != 2 || parts[0] == "" {
		return dataforseo.Credentials{}, fmt.Errorf("malformed basic auth")
	}
	return dataforseo.Credentials{Login: parts[0], Password: parts[1]}, nil
}

func (ctl *Controller) mapPipelineError(c *fiber.Ctx, err error) error {
	var budgetErr *cost.BudgetExceededError
	if errors.As(err, &budgetErr) {
		return c.Status(fiber.StatusPaymentRequired).JSON(fiber.Map{
			"error":     budgetErr.Error(),
			"estimated": budgetErr.Estimated,
			"ceiling":   budgetErr.Ceiling,
		})
	}
	if errors.Is(err, analysis.ErrNoSources) {
		return badRequest(c, err)
	}
	var fe *dataforseo.FetchError
	if errors.As(err, &fe) {
		return upstreamError(c, err)
	}
	return badRequest(c, err)
}

func badRequest(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func unauthorized(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
}

func upstreamError(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": err.Error()})
}

func sourceErrorMessages(errs []analysis.SourceError) []string {
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Error()
	}
	return out
}
