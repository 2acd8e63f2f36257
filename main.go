package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"topicshare-go/internal/config"
	"topicshare-go/internal/service"
	"topicshare-go/pkg/analysis"
	"topicshare-go/pkg/dataforseo"
	"topicshare-go/pkg/export"
	"topicshare-go/pkg/keyword"
	"topicshare-go/pkg/logger"
)

// One-shot analysis run: fetch keywords for the seed topic, fan out SERP
// requests, aggregate traffic share per domain and write the CSV reports.
// Credentials come from DATAFORSEO_LOGIN / DATAFORSEO_PASSWORD (or a local
// .env file) and exist only for the lifetime of the process.
func main() {
	var (
		configPath  = flag.String("config", "config/config.yaml", "Configuration file path")
		seeds       = flag.String("seeds", "", "Comma-separated seed keywords (required)")
		sources     = flag.String("sources", "related_terms", "Comma-separated keyword sources: related_terms, topic_ideas, autocomplete")
		depth       = flag.Int("depth", 0, "SERP depth (10, 20, 50 or 100; 0 = configured default)")
		analyzeN    = flag.Int("analyze", 0, "Max keywords to analyze (0 = configured default)")
		maxSpend    = flag.Float64("max-spend", -1, "Spend ceiling in dollars (negative = configured default)")
		negKeywords = flag.String("negative-keywords", "", "Comma-separated negative keywords (empty = configured starter set)")
		negDomains  = flag.String("negative-domains", "", "Comma-separated negative domains (empty = configured starter set)")
		outDir      = flag.String("out", "reports", "Directory for CSV output")
		debug       = flag.Bool("debug", false, "Enable debug logging")
	)
	flag.Parse()

	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	if *debug {
		os.Setenv("DEBUG", "true")
	}
	log := logger.GetLogger().WithField("component", "cli")

	if *seeds == "" {
		fmt.Fprintln(os.Stderr, "usage: topicshare -seeds \"ecommerce, online shopping\" [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	creds := dataforseo.Credentials{
		Login:    os.Getenv("DATAFORSEO_LOGIN"),
		Password: os.Getenv("DATAFORSEO_PASSWORD"),
	}
	if creds.Login == "" || creds.Password == "" {
		log.Error("DATAFORSEO_LOGIN and DATAFORSEO_PASSWORD must be set")
		os.Exit(1)
	}

	cfg, err := config.NewManager().Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	logger.SetLogger(logger.New(logger.Config{
		Level:      cfg.Logger.Level,
		Format:     cfg.Logger.Format,
		Output:     cfg.Logger.Output,
		TimeFormat: cfg.Logger.TimeFormat,
	}))
	log = logger.GetLogger().WithField("component", "cli")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("Shutdown signal received, finishing with completed results")
		cancel()
	}()

	req, err := buildRequest(cfg, *seeds, *sources, *depth, *analyzeN, *maxSpend, *negKeywords, *negDomains)
	if err != nil {
		log.WithError(err).Fatal("Invalid arguments")
	}

	svc := service.NewAnalysisService(cfg)

	estimated := svc.EstimateCost(req)
	log.WithField("estimated_cost", fmt.Sprintf("$%.4f", estimated)).
		WithField("ceiling", fmt.Sprintf("$%.2f", req.MaxSpend)).
		Info("Pre-flight cost estimate")

	report, err := svc.Run(ctx, creds, req)
	if err != nil {
		log.WithError(err).Fatal("Analysis failed")
	}

	if err := writeReports(*outDir, report); err != nil {
		log.WithError(err).Fatal("Failed to write reports")
	}

	printSummary(log, report)
}

func buildRequest(cfg *config.Config, seeds, sources string, depth, analyzeN int, maxSpend float64, negKeywords, negDomains string) (analysis.Request, error) {
	req := analysis.Request{
		Seeds:        splitList(seeds),
		Location:     cfg.Analysis.Location,
		Language:     cfg.Analysis.Language,
		Depth:        cfg.Analysis.Depth,
		FetchLimit:   cfg.Analysis.FetchLimit,
		AnalyzeLimit: cfg.Analysis.AnalyzeLimit,
		MaxSpend:     cfg.Budget.MaxSpend,
	}
	if depth != 0 {
		req.Depth = depth
	}
	if analyzeN < 0 {
		return analysis.Request{}, fmt.Errorf("analyze limit must be positive")
	}
	if analyzeN > 0 {
		req.AnalyzeLimit = analyzeN
	}
	if maxSpend >= 0 {
		req.MaxSpend = maxSpend
	}

	for _, name := range splitList(sources) {
		switch name {
		case "related_terms":
			req.Sources = append(req.Sources, keyword.SourceRelatedTerms)
		case "topic_ideas":
			req.Sources = append(req.Sources, keyword.SourceTopicIdeas)
		case "autocomplete":
			req.Sources = append(req.Sources, keyword.SourceAutocomplete)
		default:
			return analysis.Request{}, fmt.Errorf("unknown keyword source %q", name)
		}
	}

	nk := cfg.Negatives.Keywords
	if negKeywords != "" {
		nk = splitList(negKeywords)
	}
	nd := cfg.Negatives.Domains
	if negDomains != "" {
		nd = splitList(negDomains)
	}
	req.Negatives = keyword.NewNegativeFilter(nk, nd)

	return req, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func writeReports(outDir string, report *analysis.Report) error {
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	files := []struct {
		name  string
		write func(f *os.File) error
	}{
		{"domain_summary.csv", func(f *os.File) error {
			return export.WriteDomainSummary(f, report.DomainStats)
		}},
		{"detailed_serp.csv", func(f *os.File) error {
			return export.WriteDetailedSerp(f, report.Results, analysis.VolumeMap(report.Keywords))
		}},
		{"keywords.csv", func(f *os.File) error {
			return export.WriteKeywordList(f, report.Keywords)
		}},
	}

	for _, spec := range files {
		f, err := os.Create(filepath.Join(outDir, spec.name))
		if err != nil {
			return fmt.Errorf("create %s: %w", spec.name, err)
		}
		if err := spec.write(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", spec.name, err)
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close %s: %w", spec.name, err)
		}
	}
	return nil
}

func printSummary(log *logger.Logger, report *analysis.Report) {
	fields := map[string]interface{}{
		"keywords":       len(report.Keywords),
		"domains":        len(report.DomainStats),
		"total_traffic":  fmt.Sprintf("%.0f", report.TotalTraffic),
		"top3_share":     fmt.Sprintf("%.1f%%", report.Top3Share*100),
		"top10_share":    fmt.Sprintf("%.1f%%", report.Top10Share*100),
		"market_type":    string(report.MarketType),
		"parse_failures": report.ParseFailures,
	}
	if len(report.DomainStats) > 0 {
		fields["leader"] = report.DomainStats[0].Domain
	}
	log.WithFields(fields).Info("Analysis complete")

	for _, fk := range report.FailedKeywords {
		log.WithField("keyword", fk.Keyword).Warn("SERP fetch failed for keyword")
	}
	for _, se := range report.SourceErrors {
		log.WithError(se.Err).WithField("source", se.Source.String()).Warn("Keyword source failed")
	}
}
