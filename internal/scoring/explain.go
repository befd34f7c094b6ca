package scoring

import (
	"fmt"
	"sort"
	"strings"

	"github.com/investorcenter/score-engine/internal/contracts"
)

// Factor scores at or beyond these marks qualify as notable strengths or
// weaknesses in the summary.
const (
	strengthCutoff = 70.0
	weaknessCutoff = 30.0
)

// Summarize renders a one-paragraph plain-text explanation of a composite
// score for analyst-facing surfaces. Deterministic for a given score.
func Summarize(cs *contracts.CompositeScore) string {
	var b strings.Builder

	if cs.Overall == nil {
		fmt.Fprintf(&b, "%s: no overall score", cs.EntityID)
		if !cs.Confidence.CoreGateMet {
			b.WriteString(" (core fundamental coverage missing)")
		} else {
			b.WriteString(" (no factor data available)")
		}
		b.WriteString(".")
		return b.String()
	}

	fmt.Fprintf(&b, "%s scores %.1f (%s, %s confidence, %s stage).",
		cs.EntityID, *cs.Overall, ratingLabel(cs.Rating), cs.Confidence.Tier, cs.Stage)

	if strengths := pick(cs.Factors, func(s float64) bool { return s >= strengthCutoff }); len(strengths) > 0 {
		fmt.Fprintf(&b, " Strengths: %s.", strings.Join(strengths, ", "))
	}
	if weaknesses := pick(cs.Factors, func(s float64) bool { return s <= weaknessCutoff }); len(weaknesses) > 0 {
		fmt.Fprintf(&b, " Weaknesses: %s.", strings.Join(weaknesses, ", "))
	}

	return b.String()
}

// pick returns "factor (score)" strings for factors matching the
// predicate, strongest deviation first.
func pick(factors contracts.FactorScoreSet, match func(float64) bool) []string {
	type entry struct {
		factor contracts.Factor
		score  float64
	}

	var entries []entry
	for _, f := range contracts.AllFactors {
		if fs := factors[f]; fs != nil && match(fs.Score) {
			entries = append(entries, entry{f, fs.Score})
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di := entries[i].score - 50
		dj := entries[j].score - 50
		if di < 0 {
			di = -di
		}
		if dj < 0 {
			dj = -dj
		}
		return di > dj
	})

	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = fmt.Sprintf("%s (%.0f)", e.factor, e.score)
	}
	return out
}

func ratingLabel(r contracts.Rating) string {
	return strings.ReplaceAll(string(r), "_", " ")
}
