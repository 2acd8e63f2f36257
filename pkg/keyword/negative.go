package keyword

import "strings"

// NegativeFilter holds the user-configured exclusion sets: substrings that
// disqualify a keyword and domains that are dropped from SERP results.
// The value is immutable after construction; callers pass it explicitly
// into the aggregation steps.
type NegativeFilter struct {
	substrings []string
	domains    []string
}

// NewNegativeFilter builds a filter from raw user input. Entries are
// normalized and empties discarded, so comma-splitting artifacts are safe
// to pass through.
func NewNegativeFilter(keywordSubstrings, domains []string) NegativeFilter {
	f := NegativeFilter{}
	for _, s := range keywordSubstrings {
		if n := Normalize(s); n != "" {
			f.substrings = append(f.substrings, n)
		}
	}
	for _, d := range domains {
		if n := strings.ToLower(strings.TrimSpace(d)); n != "" {
			f.domains = append(f.domains, strings.TrimPrefix(n, "www."))
		}
	}
	return f
}

// MatchesKeyword reports whether the text contains any negative substring.
// Matching is case-insensitive and unanchored.
func (f NegativeFilter) MatchesKeyword(text string) bool {
	normalized := Normalize(text)
	for _, sub := range f.substrings {
		if strings.Contains(normalized, sub) {
			return true
		}
	}
	return false
}

// MatchesDomain reports whether the domain equals or is a subdomain of any
// negative entry.
func (f NegativeFilter) MatchesDomain(domain string) bool {
	d := strings.ToLower(strings.TrimSpace(domain))
	for _, nd := range f.domains {
		if d == nd || strings.HasSuffix(d, "."+nd) {
			return true
		}
	}
	return false
}

// KeywordSubstrings returns the normalized substring set, used to build
// server-side filter expressions for the upstream API.
func (f NegativeFilter) KeywordSubstrings() []string {
	out := make([]string, len(f.substrings))
	copy(out, f.substrings)
	return out
}

// Domains returns the normalized negative domain set
func (f NegativeFilter) Domains() []string {
	out := make([]string, len(f.domains))
	copy(out, f.domains)
	return out
}
