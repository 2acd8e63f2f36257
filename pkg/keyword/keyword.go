package keyword

import "strings"

// Source identifies the upstream provider a keyword came from
type Source int

const (
	SourceRelatedTerms Source = iota
	SourceTopicIdeas
	SourceAutocomplete
)

func (s Source) String() string {
	switch s {
	case SourceRelatedTerms:
		return "related_terms"
	case SourceTopicIdeas:
		return "topic_ideas"
	case SourceAutocomplete:
		return "autocomplete"
	default:
		return "unknown"
	}
}

// Keyword is a candidate search term with its reported monthly volume.
// Text is stored in normalized form; Sources records provenance in
// first-seen order and is kept only for reporting and export.
type Keyword struct {
	Text         string   `json:"text"`
	SearchVolume int      `json:"search_volume"`
	Sources      []Source `json:"sources"`
}

// Normalize lowercases, trims and collapses internal whitespace. The
// normalized text is the uniqueness key for merging.
func Normalize(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

// MarshalJSON renders sources by name rather than ordinal
func (s Source) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// HasSource reports whether the keyword was observed from the given source
func (k Keyword) HasSource(s Source) bool {
	for _, src := range k.Sources {
		if src == s {
			return true
		}
	}
	return false
}

// SourceNames returns the provenance list as strings, for export
func (k Keyword) SourceNames() []string {
	names := make([]string, 0, len(k.Sources))
	for _, s := range k.Sources {
		names = append(names, s.String())
	}
	return names
}
