package market

import "testing"

func TestResolve_RegistrableDomain(t *testing.T) {
	resolver := NewPublicSuffixResolver()

	tests := []struct {
		url  string
		want string
	}{
		{"https://www.example.com/path?q=1", "example.com"},
		{"http://blog.example.com/post", "example.com"},
		{"https://news.bbc.co.uk/story", "bbc.co.uk"},
		{"example.com", "example.com"},
		{"https://Example.COM/", "example.com"},
		{"https://sub.deep.example.co.uk", "example.co.uk"},
	}

	for _, tt := range tests {
		got, err := resolver.Resolve(tt.url)
		if err != nil {
			t.Errorf("Resolve(%q) returned error: %v", tt.url, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Resolve(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestResolve_Failures(t *testing.T) {
	resolver := NewPublicSuffixResolver()

	for _, raw := range []string{"", "   ", "://bad", "https:///nohost"} {
		if _, err := resolver.Resolve(raw); err == nil {
			t.Errorf("Resolve(%q) should fail", raw)
		}
	}
}
