package contracts

import "time"

// SectorDistribution summarizes how one metric is distributed across the
// active entities of one sector on a run date. Percentile lookups
// interpolate between the stored breakpoints instead of touching raw data.
type SectorDistribution struct {
	Sector      string    `json:"sector"`
	Metric      string    `json:"metric"`
	Date        time.Time `json:"date"`
	Min         float64   `json:"min"`
	P10         float64   `json:"p10"`
	P25         float64   `json:"p25"`
	P50         float64   `json:"p50"`
	P75         float64   `json:"p75"`
	P90         float64   `json:"p90"`
	Max         float64   `json:"max"`
	Mean        float64   `json:"mean"`
	StdDev      float64   `json:"std_dev"`
	SampleCount int       `json:"sample_count"`

	// Sufficient is false when the sector had fewer observations than the
	// configured minimum. The distribution is kept for diagnostics but
	// percentile lookups against it return null.
	Sufficient bool `json:"sufficient"`
}

// DistributionIndex is the run-scoped lookup table built during the
// distribution phase and read (immutably) by the scoring phase.
type DistributionIndex struct {
	bySector map[string]map[string]*SectorDistribution
}

// NewDistributionIndex returns an empty index.
func NewDistributionIndex() *DistributionIndex {
	return &DistributionIndex{bySector: make(map[string]map[string]*SectorDistribution)}
}

// Put stores a distribution. Not safe for concurrent use; the engine
// serializes writes behind its collector.
func (ix *DistributionIndex) Put(d *SectorDistribution) {
	m, ok := ix.bySector[d.Sector]
	if !ok {
		m = make(map[string]*SectorDistribution)
		ix.bySector[d.Sector] = m
	}
	m[d.Metric] = d
}

// Lookup returns the distribution for (sector, metric), or nil when the
// sector or metric was never computed. Callers treat nil as "no percentile".
func (ix *DistributionIndex) Lookup(sector, metric string) *SectorDistribution {
	if m, ok := ix.bySector[sector]; ok {
		return m[metric]
	}
	return nil
}

// Len returns the number of stored distributions.
func (ix *DistributionIndex) Len() int {
	n := 0
	for _, m := range ix.bySector {
		n += len(m)
	}
	return n
}
