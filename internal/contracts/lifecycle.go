package contracts

// LifecycleStage is the business maturity classification of an entity.
// The set is closed: weight tables are total over these five values and
// the classifier can return nothing else.
type LifecycleStage string

const (
	StageHypergrowth LifecycleStage = "hypergrowth"
	StageGrowth      LifecycleStage = "growth"
	StageMature      LifecycleStage = "mature"
	StageTurnaround  LifecycleStage = "turnaround"
	StageDeclining   LifecycleStage = "declining"
)

// AllLifecycleStages lists every stage. Config validation iterates this to
// guarantee the weight tables cover the whole enum.
var AllLifecycleStages = []LifecycleStage{
	StageHypergrowth,
	StageGrowth,
	StageMature,
	StageTurnaround,
	StageDeclining,
}

// IsValid reports whether s is a known stage.
func (s LifecycleStage) IsValid() bool {
	switch s {
	case StageHypergrowth, StageGrowth, StageMature, StageTurnaround, StageDeclining:
		return true
	}
	return false
}

// String returns the stage name
func (s LifecycleStage) String() string {
	return string(s)
}
