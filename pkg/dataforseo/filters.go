package dataforseo

// buildNegativeFilters translates negative substrings into the API's
// filter expression: ["keyword","not_like","%neg%"] triples joined by
// "and". A single substring is sent as a bare triple, matching what the
// endpoint expects. Client-side filtering stays in place as the safety
// net, so this only reduces billable rows.
func buildNegativeFilters(negatives []string) interface{} {
	if len(negatives) == 0 {
		return nil
	}

	if len(negatives) == 1 {
		return []interface{}{"keyword", "not_like", "%" + negatives[0] + "%"}
	}

	filters := make([]interface{}, 0, len(negatives)*2-1)
	for i, neg := range negatives {
		filters = append(filters, []interface{}{"keyword", "not_like", "%" + neg + "%"})
		if i < len(negatives)-1 {
			filters = append(filters, "and")
		}
	}
	return filters
}
