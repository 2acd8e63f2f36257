package market

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// DomainResolver reduces a raw URL to its registrable domain. It is an
// interface so the public-suffix dataset can be swapped or updated without
// touching the aggregator.
type DomainResolver interface {
	Resolve(rawURL string) (string, error)
}

type publicSuffixResolver struct{}

// NewPublicSuffixResolver returns a resolver backed by the embedded public
// suffix list, which collapses multi-part TLDs like co.uk correctly.
func NewPublicSuffixResolver() DomainResolver {
	return publicSuffixResolver{}
}

func (publicSuffixResolver) Resolve(rawURL string) (string, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return "", fmt.Errorf("empty url")
	}

	// SERP rows sometimes carry bare hostnames without a scheme
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse %q: %w", rawURL, err)
	}

	host := strings.ToLower(strings.TrimSuffix(parsed.Hostname(), "."))
	if host == "" {
		return "", fmt.Errorf("no host in %q", rawURL)
	}
	host = strings.TrimPrefix(host, "www.")

	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", fmt.Errorf("registrable domain for %q: %w", host, err)
	}
	return domain, nil
}
