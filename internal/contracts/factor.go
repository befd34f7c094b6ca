package contracts

// Factor identifies one of the nine composite-score factors.
// Every log line, DB row, and config entry uses these names.
type Factor string

const (
	FactorGrowth          Factor = "growth"
	FactorProfitability   Factor = "profitability"
	FactorFinancialHealth Factor = "financial_health"
	FactorRelativeValue   Factor = "relative_value"
	FactorIntrinsicValue  Factor = "intrinsic_value"
	FactorSmartMoney      Factor = "smart_money"
	FactorMomentum        Factor = "momentum"
	FactorTechnical       Factor = "technical"
	FactorSentiment       Factor = "sentiment"
)

// Category groups factors for the two-level aggregation.
type Category string

const (
	CategoryQuality   Category = "quality"
	CategoryValuation Category = "valuation"
	CategorySignals   Category = "signals"
)

// AllFactors lists every factor in canonical order. The order is stable:
// completeness ratios and persisted component arrays rely on it.
var AllFactors = []Factor{
	FactorGrowth,
	FactorProfitability,
	FactorFinancialHealth,
	FactorRelativeValue,
	FactorIntrinsicValue,
	FactorSmartMoney,
	FactorMomentum,
	FactorTechnical,
	FactorSentiment,
}

// AllCategories lists every category in canonical order.
var AllCategories = []Category{CategoryQuality, CategoryValuation, CategorySignals}

// factorCategories maps each factor to its category.
var factorCategories = map[Factor]Category{
	FactorGrowth:          CategoryQuality,
	FactorProfitability:   CategoryQuality,
	FactorFinancialHealth: CategoryQuality,
	FactorRelativeValue:   CategoryValuation,
	FactorIntrinsicValue:  CategoryValuation,
	FactorSmartMoney:      CategorySignals,
	FactorMomentum:        CategorySignals,
	FactorTechnical:       CategorySignals,
	FactorSentiment:       CategorySignals,
}

// CategoryOf returns the category a factor belongs to.
func CategoryOf(f Factor) Category {
	return factorCategories[f]
}

// FactorsIn returns the factors of a category, in canonical order.
func FactorsIn(c Category) []Factor {
	var out []Factor
	for _, f := range AllFactors {
		if factorCategories[f] == c {
			out = append(out, f)
		}
	}
	return out
}

// IsValid reports whether f is one of the nine known factors.
func (f Factor) IsValid() bool {
	_, ok := factorCategories[f]
	return ok
}

// String returns the factor name
func (f Factor) String() string {
	return string(f)
}

// String returns the category name
func (c Category) String() string {
	return string(c)
}
