package market

import (
	"sort"

	"topicshare-go/pkg/ctr"
	"topicshare-go/pkg/keyword"
	"topicshare-go/pkg/logger"
	"topicshare-go/pkg/serp"
)

// DomainStat is one row of the traffic-share table: a registrable domain,
// its CTR-weighted traffic sum across all analyzed keywords, the number of
// distinct keywords it ranks for and its share of total market traffic.
type DomainStat struct {
	Domain       string  `json:"domain"`
	TotalTraffic float64 `json:"total_traffic"`
	KeywordCount int     `json:"keyword_count"`
	Share        float64 `json:"share"`
}

// Aggregator folds SERP results into per-domain traffic shares
type Aggregator struct {
	resolver DomainResolver
	log      *logger.Logger
}

// NewAggregator creates an aggregator using the given domain resolver
func NewAggregator(resolver DomainResolver) *Aggregator {
	return &Aggregator{
		resolver: resolver,
		log:      logger.GetLogger().WithField("component", "domain_aggregator"),
	}
}

// Aggregate computes the domain table. volumes maps normalized keyword text
// to search volume. Every result host is reduced to its registrable domain,
// including hosts the upstream already reported, so subdomains of one site
// fold into a single row. Results whose host cannot be reduced are skipped
// and counted; results on negative domains are dropped before any traffic
// is attributed.
//
// A domain ranking several times for one keyword earns traffic for each
// rank, but counts that keyword once.
func (a *Aggregator) Aggregate(results []serp.Result, volumes map[string]int, negatives keyword.NegativeFilter) ([]DomainStat, int) {
	traffic := make(map[string]float64)
	keywordSets := make(map[string]map[string]struct{})
	parseFailures := 0

	for _, r := range results {
		host := r.Domain
		if host == "" {
			host = r.URL
		}
		domain, err := a.resolver.Resolve(host)
		if err != nil {
			parseFailures++
			a.log.WithError(err).WithField("url", r.URL).Debug("Skipping result with unresolvable host")
			continue
		}

		if negatives.MatchesDomain(domain) {
			continue
		}

		traffic[domain] += ctr.EstimateTraffic(volumes[keyword.Normalize(r.Keyword)], r.Rank)
		set, ok := keywordSets[domain]
		if !ok {
			set = make(map[string]struct{})
			keywordSets[domain] = set
		}
		set[keyword.Normalize(r.Keyword)] = struct{}{}
	}

	var total float64
	for _, t := range traffic {
		total += t
	}

	stats := make([]DomainStat, 0, len(traffic))
	for domain, t := range traffic {
		share := 0.0
		if total > 0 {
			share = t / total
		}
		stats = append(stats, DomainStat{
			Domain:       domain,
			TotalTraffic: t,
			KeywordCount: len(keywordSets[domain]),
			Share:        share,
		})
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalTraffic != stats[j].TotalTraffic {
			return stats[i].TotalTraffic > stats[j].TotalTraffic
		}
		return stats[i].Domain < stats[j].Domain
	})

	if parseFailures > 0 {
		a.log.WithField("parse_failures", parseFailures).Warn("Some result URLs were skipped")
	}
	return stats, parseFailures
}

// Concentration returns the combined share of the first topN entries. The
// stats slice must already be in aggregate order (traffic descending).
func Concentration(stats []DomainStat, topN int) float64 {
	if topN > len(stats) {
		topN = len(stats)
	}
	var sum float64
	for i := 0; i < topN; i++ {
		sum += stats[i].Share
	}
	return sum
}

// TotalTraffic sums estimated traffic across the whole table
func TotalTraffic(stats []DomainStat) float64 {
	var total float64
	for _, s := range stats {
		total += s.TotalTraffic
	}
	return total
}
