package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"topicshare-go/pkg/keyword"
	"topicshare-go/pkg/market"
	"topicshare-go/pkg/serp"
)

func TestWriteDomainSummary(t *testing.T) {
	stats := []market.DomainStat{
		{Domain: "a.com", TotalTraffic: 400, KeywordCount: 1, Share: 0.7272727272727273},
		{Domain: "b.com", TotalTraffic: 150, KeywordCount: 1, Share: 0.2727272727272727},
	}

	var buf bytes.Buffer
	if err := WriteDomainSummary(&buf, stats); err != nil {
		t.Fatalf("WriteDomainSummary failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "rank" || rows[0][1] != "domain" {
		t.Errorf("Unexpected header: %v", rows[0])
	}
	if rows[1][0] != "1" || rows[1][1] != "a.com" || rows[1][3] != "1" {
		t.Errorf("Unexpected first data row: %v", rows[1])
	}
}

func TestWriteDetailedSerp(t *testing.T) {
	results := []serp.Result{
		{Keyword: "seo tools", Rank: 1, URL: "https://a.com/x", Domain: "a.com"},
		{Keyword: "seo tools", Rank: 2, URL: "https://b.com/y", Domain: "b.com"},
	}
	volumes := map[string]int{"seo tools": 1000}

	var buf bytes.Buffer
	if err := WriteDetailedSerp(&buf, results, volumes); err != nil {
		t.Fatalf("WriteDetailedSerp failed: %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("Output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Expected header + 2 rows, got %d", len(rows))
	}
	if rows[1][6] != "300" {
		t.Errorf("Rank 1 estimated traffic = %q, want 300", rows[1][6])
	}
	if rows[2][5] != "0.15" {
		t.Errorf("Rank 2 CTR = %q, want 0.15", rows[2][5])
	}
}

func TestWriteKeywordList(t *testing.T) {
	keywords := []keyword.Keyword{
		{Text: "seo tools", SearchVolume: 1000, Sources: []keyword.Source{keyword.SourceRelatedTerms, keyword.SourceTopicIdeas}},
	}

	var buf bytes.Buffer
	if err := WriteKeywordList(&buf, keywords); err != nil {
		t.Fatalf("WriteKeywordList failed: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "related_terms|topic_ideas") {
		t.Errorf("Expected provenance column, got:\n%s", out)
	}
}

func TestWriteDomainSummary_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteDomainSummary(&buf, nil); err != nil {
		t.Fatalf("Empty export should succeed: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "rank,domain,total_traffic,keyword_count,share" {
		t.Errorf("Expected header-only output, got %q", buf.String())
	}
}
