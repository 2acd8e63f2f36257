package dataforseo

import (
	"context"
	"encoding/json"
	"fmt"

	"topicshare-go/pkg/serp"
)

type serpSource struct {
	client *Client
}

// NewSerpSource fetches live organic results from the Google SERP
// endpoint. It implements serp.Source and is driven concurrently by the
// fan-out layer.
func NewSerpSource(client *Client) serp.Source {
	return &serpSource{client: client}
}

func (s *serpSource) Fetch(ctx context.Context, kw string, location int, language string, depth int) ([]serp.Result, error) {
	const endpoint = "/serp/google/organic/live/advanced"

	if !serp.ValidDepth(depth) {
		return nil, fetchErr("serp", endpoint, fmt.Errorf("unsupported depth %d", depth))
	}

	task := map[string]interface{}{
		"keyword":       kw,
		"location_code": location,
		"language_code": language,
		"depth":         depth,
	}

	envelope, err := s.client.post(ctx, "serp", endpoint, []interface{}{task})
	if err != nil {
		return nil, err
	}

	var out []serp.Result
	for _, t := range envelope.Tasks {
		if len(t.Result) == 0 {
			continue
		}
		var results []struct {
			Keyword string `json:"keyword"`
			Items   []struct {
				Type      string `json:"type"`
				RankGroup int    `json:"rank_group"`
				URL       string `json:"url"`
				Domain    string `json:"domain"`
				Title     string `json:"title"`
			} `json:"items"`
		}
		if err := json.Unmarshal(t.Result, &results); err != nil {
			return nil, fetchErr("serp", endpoint, fmt.Errorf("decode result: %w", err))
		}

		for _, r := range results {
			for _, item := range r.Items {
				if item.Type != "organic" {
					continue
				}
				row, err := serp.NewResult(r.Keyword, item.RankGroup, item.URL)
				if err != nil {
					// Upstream occasionally reports positions past the
					// requested depth; skip rather than fail the keyword.
					continue
				}
				row.Domain = item.Domain
				row.Title = item.Title
				out = append(out, row)
			}
		}
	}
	return out, nil
}
