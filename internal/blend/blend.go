// Package blend implements the one null-tolerant weighted average used at
// every level of the composite score: metrics within a factor, factors
// within a category, categories within the overall. Missing terms do not
// score zero; their weight is redistributed across what remains.
package blend

// Term is one weighted input. A nil Value marks the term unavailable.
type Term struct {
	Name   string
	Weight float64
	Value  *float64
}

// Result is the blended output plus the effective weight each available
// term carried after redistribution. Applied weights sum to 1.
type Result struct {
	Value   float64
	Applied map[string]float64
}

// Weighted averages the available terms, renormalizing weights over them.
// Returns nil when no term is available: absence of evidence is not a
// zero score.
func Weighted(terms []Term) *Result {
	totalWeight := 0.0
	for _, t := range terms {
		if t.Value != nil && t.Weight > 0 {
			totalWeight += t.Weight
		}
	}
	if totalWeight == 0 {
		return nil
	}

	res := &Result{Applied: make(map[string]float64)}
	for _, t := range terms {
		if t.Value == nil || t.Weight <= 0 {
			continue
		}
		applied := t.Weight / totalWeight
		res.Value += applied * (*t.Value)
		res.Applied[t.Name] = applied
	}
	return res
}
