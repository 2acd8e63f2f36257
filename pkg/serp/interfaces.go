package serp

import "context"

// Source fetches the ordered organic results for a single keyword up to the
// requested depth. Implementations live in pkg/dataforseo.
type Source interface {
	Fetch(ctx context.Context, keyword string, location int, language string, depth int) ([]Result, error)
}
