package keyword

import (
	"sort"

	"topicshare-go/pkg/logger"
)

// Aggregator merges keyword lists fetched from multiple sources into a
// single deduplicated, filtered, volume-sorted list. It performs no I/O.
type Aggregator struct {
	minVolume int
	log       *logger.Logger
}

// NewAggregator creates an aggregator. minVolume is the volume floor below
// which keywords are dropped; autocomplete keywords report no volume and
// are exempt from the floor.
func NewAggregator(minVolume int) *Aggregator {
	return &Aggregator{
		minVolume: minVolume,
		log:       logger.GetLogger().WithField("component", "keyword_aggregator"),
	}
}

// Merge concatenates the source lists, deduplicates by normalized text,
// applies the negative-substring filter and sorts by volume descending
// (ties by text ascending, so output is deterministic).
//
// When the same text appears more than once the highest observed volume
// wins and the source sets are unioned.
func (a *Aggregator) Merge(sourceLists [][]Keyword, negatives NegativeFilter) []Keyword {
	merged := make(map[string]*Keyword)

	for _, list := range sourceLists {
		for _, kw := range list {
			text := Normalize(kw.Text)
			if text == "" {
				continue
			}
			existing, ok := merged[text]
			if !ok {
				entry := Keyword{Text: text, SearchVolume: kw.SearchVolume}
				entry.Sources = appendSources(entry.Sources, kw.Sources)
				merged[text] = &entry
				continue
			}
			if kw.SearchVolume > existing.SearchVolume {
				existing.SearchVolume = kw.SearchVolume
			}
			existing.Sources = appendSources(existing.Sources, kw.Sources)
		}
	}

	filtered := 0
	out := make([]Keyword, 0, len(merged))
	for _, kw := range merged {
		if negatives.MatchesKeyword(kw.Text) {
			filtered++
			continue
		}
		if !a.passesVolumeFloor(*kw) {
			continue
		}
		out = append(out, *kw)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].SearchVolume != out[j].SearchVolume {
			return out[i].SearchVolume > out[j].SearchVolume
		}
		return out[i].Text < out[j].Text
	})

	if filtered > 0 {
		a.log.WithField("filtered", filtered).Debug("Dropped keywords matching negative filter")
	}
	return out
}

// passesVolumeFloor applies the minimum-volume cutoff. Zero-volume keywords
// survive only when autocomplete contributed them, since that provider does
// not report volumes at all.
func (a *Aggregator) passesVolumeFloor(kw Keyword) bool {
	if kw.SearchVolume >= a.minVolume {
		return true
	}
	return kw.SearchVolume == 0 && kw.HasSource(SourceAutocomplete)
}

func appendSources(dst []Source, add []Source) []Source {
	for _, s := range add {
		seen := false
		for _, existing := range dst {
			if existing == s {
				seen = true
				break
			}
		}
		if !seen {
			dst = append(dst, s)
		}
	}
	return dst
}
