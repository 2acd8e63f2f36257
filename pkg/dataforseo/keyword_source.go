package dataforseo

import (
	"context"
	"encoding/json"
	"fmt"

	"topicshare-go/pkg/keyword"
)

// KeywordSource fetches candidate keywords for a set of seed terms. The
// three implementations differ only in upstream endpoint and volume
// semantics.
type KeywordSource interface {
	Fetch(ctx context.Context, seeds []string, location int, language string, negatives keyword.NegativeFilter) ([]keyword.Keyword, error)
	Kind() keyword.Source
}

type relatedTermsSource struct {
	client *Client
	limit  int
}

// NewRelatedTermsSource fetches semantically related keywords from the
// Google Ads keywords-for-keywords endpoint
func NewRelatedTermsSource(client *Client, limit int) KeywordSource {
	return &relatedTermsSource{client: client, limit: limit}
}

func (s *relatedTermsSource) Kind() keyword.Source { return keyword.SourceRelatedTerms }

func (s *relatedTermsSource) Fetch(ctx context.Context, seeds []string, location int, language string, negatives keyword.NegativeFilter) ([]keyword.Keyword, error) {
	const endpoint = "/keywords_data/google_ads/keywords_for_keywords/live"

	task := map[string]interface{}{
		"keywords":      seeds,
		"location_code": location,
		"language_code": language,
		"sort_by":       "search_volume",
		"limit":         s.limit,
	}
	if filters := buildNegativeFilters(negatives.KeywordSubstrings()); filters != nil {
		task["filters"] = filters
	}

	envelope, err := s.client.post(ctx, "related_terms", endpoint, []interface{}{task})
	if err != nil {
		return nil, err
	}

	var out []keyword.Keyword
	for _, t := range envelope.Tasks {
		if len(t.Result) == 0 {
			continue
		}
		var rows []struct {
			Keyword      string `json:"keyword"`
			SearchVolume int    `json:"search_volume"`
		}
		if err := json.Unmarshal(t.Result, &rows); err != nil {
			return nil, fetchErr("related_terms", endpoint, fmt.Errorf("decode result: %w", err))
		}
		for _, row := range rows {
			out = append(out, keyword.Keyword{
				Text:         row.Keyword,
				SearchVolume: row.SearchVolume,
				Sources:      []keyword.Source{keyword.SourceRelatedTerms},
			})
		}
	}
	return out, nil
}

type topicIdeasSource struct {
	client *Client
	limit  int
}

// NewTopicIdeasSource fetches broader topic suggestions from the Labs
// keyword-ideas endpoint
func NewTopicIdeasSource(client *Client, limit int) KeywordSource {
	return &topicIdeasSource{client: client, limit: limit}
}

func (s *topicIdeasSource) Kind() keyword.Source { return keyword.SourceTopicIdeas }

func (s *topicIdeasSource) Fetch(ctx context.Context, seeds []string, location int, language string, negatives keyword.NegativeFilter) ([]keyword.Keyword, error) {
	const endpoint = "/dataforseo_labs/google/keyword_ideas/live"

	task := map[string]interface{}{
		"keywords":             seeds,
		"location_code":        location,
		"language_code":        language,
		"include_seed_keyword": true,
		"include_serp_info":    false,
		"limit":                s.limit,
	}
	if filters := buildNegativeFilters(negatives.KeywordSubstrings()); filters != nil {
		task["filters"] = filters
	}

	envelope, err := s.client.post(ctx, "topic_ideas", endpoint, []interface{}{task})
	if err != nil {
		return nil, err
	}

	// Labs responses nest rows one level deeper than the Ads endpoints.
	var out []keyword.Keyword
	for _, t := range envelope.Tasks {
		if len(t.Result) == 0 {
			continue
		}
		var results []struct {
			Items []struct {
				Keyword     string `json:"keyword"`
				KeywordInfo struct {
					SearchVolume int `json:"search_volume"`
				} `json:"keyword_info"`
			} `json:"items"`
		}
		if err := json.Unmarshal(t.Result, &results); err != nil {
			return nil, fetchErr("topic_ideas", endpoint, fmt.Errorf("decode result: %w", err))
		}
		for _, r := range results {
			for _, item := range r.Items {
				out = append(out, keyword.Keyword{
					Text:         item.Keyword,
					SearchVolume: item.KeywordInfo.SearchVolume,
					Sources:      []keyword.Source{keyword.SourceTopicIdeas},
				})
			}
		}
	}
	return out, nil
}

type autocompleteSource struct {
	client *Client
}

// NewAutocompleteSource fetches live Google autocomplete suggestions. The
// endpoint reports no search volumes, so keywords enter the pool at volume
// zero.
func NewAutocompleteSource(client *Client) KeywordSource {
	return &autocompleteSource{client: client}
}

func (s *autocompleteSource) Kind() keyword.Source { return keyword.SourceAutocomplete }

func (s *autocompleteSource) Fetch(ctx context.Context, seeds []string, location int, language string, negatives keyword.NegativeFilter) ([]keyword.Keyword, error) {
	const endpoint = "/keywords_data/google/autocomplete/live"

	tasks := make([]interface{}, 0, len(seeds))
	for _, seed := range seeds {
		tasks = append(tasks, map[string]interface{}{
			"keyword":       seed,
			"location_code": location,
			"language_code": language,
		})
	}
	if len(tasks) == 0 {
		return nil, nil
	}

	envelope, err := s.client.post(ctx, "autocomplete", endpoint, tasks)
	if err != nil {
		return nil, err
	}

	var out []keyword.Keyword
	for _, t := range envelope.Tasks {
		if len(t.Result) == 0 {
			continue
		}
		for _, text := range decodeSuggestions(t.Result) {
			out = append(out, keyword.Keyword{
				Text:    text,
				Sources: []keyword.Source{keyword.SourceAutocomplete},
			})
		}
	}
	return out, nil
}

// decodeSuggestions tolerates both response shapes the endpoint has been
// seen returning: objects with a keyword field and bare strings.
func decodeSuggestions(raw json.RawMessage) []string {
	var objects []struct {
		Keyword string `json:"keyword"`
	}
	if err := json.Unmarshal(raw, &objects); err == nil {
		texts := make([]string, 0, len(objects))
		for _, o := range objects {
			if o.Keyword != "" {
				texts = append(texts, o.Keyword)
			}
		}
		if len(texts) > 0 {
			return texts
		}
	}

	var strs []string
	if err := json.Unmarshal(raw, &strs); err == nil {
		return strs
	}
	return nil
}
