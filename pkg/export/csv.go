// Package export renders analysis output as flat delimited text. CSV is
// the only persisted artifact the system produces; credentials and run
// state are never written anywhere.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"topicshare-go/pkg/ctr"
	"topicshare-go/pkg/keyword"
	"topicshare-go/pkg/market"
	"topicshare-go/pkg/serp"
)

// WriteDomainSummary writes the ranked domain table: one row per domain
// with traffic, keyword count and market share.
func WriteDomainSummary(w io.Writer, stats []market.DomainStat) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"rank", "domain", "total_traffic", "keyword_count", "share"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, s := range stats {
		row := []string{
			strconv.Itoa(i + 1),
			s.Domain,
			formatFloat(s.TotalTraffic),
			strconv.Itoa(s.KeywordCount),
			formatFloat(s.Share),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteDetailedSerp writes one row per surviving SERP result with its
// estimated per-position traffic. volumes maps normalized keyword text to
// search volume.
func WriteDetailedSerp(w io.Writer, results []serp.Result, volumes map[string]int) error {
	cw := csv.NewWriter(w)

	header := []string{"keyword", "search_volume", "rank", "url", "domain", "ctr", "estimated_traffic"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range results {
		volume := volumes[keyword.Normalize(r.Keyword)]
		clickRate := ctr.EstimateClicks(r.Rank)
		row := []string{
			r.Keyword,
			strconv.Itoa(volume),
			strconv.Itoa(r.Rank),
			r.URL,
			r.Domain,
			formatFloat(clickRate),
			formatFloat(float64(volume) * clickRate),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteKeywordList writes the merged keyword pool with provenance
func WriteKeywordList(w io.Writer, keywords []keyword.Keyword) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"keyword", "search_volume", "sources"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, kw := range keywords {
		row := []string{
			kw.Text,
			strconv.Itoa(kw.SearchVolume),
			strings.Join(kw.SourceNames(), "|"),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
