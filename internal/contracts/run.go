package contracts

import (
	"fmt"
	"time"
)

// RunState is the lifecycle of a scoring run.
//
// Happy path:
//
//	scheduled → computing_distributions → scoring_entities → persisting → complete
//
// failed is reachable from any non-terminal state.
type RunState string

const (
	RunScheduled     RunState = "scheduled"
	RunDistributions RunState = "computing_distributions"
	RunScoring       RunState = "scoring_entities"
	RunPersisting    RunState = "persisting"
	RunComplete      RunState = "complete"
	RunFailed        RunState = "failed"
)

// next maps each state to its single legal successor.
var nextRunState = map[RunState]RunState{
	RunScheduled:     RunDistributions,
	RunDistributions: RunScoring,
	RunScoring:       RunPersisting,
	RunPersisting:    RunComplete,
}

// Terminal reports whether the state is final.
func (s RunState) Terminal() bool {
	return s == RunComplete || s == RunFailed
}

// String returns the state name
func (s RunState) String() string {
	return string(s)
}

// EntityFailure records one entity the run could not score.
type EntityFailure struct {
	EntityID string `json:"entity_id"`
	Attempts int    `json:"attempts"`
	Error    string `json:"error"`
}

// RunRecord is the persisted audit row for one scoring run.
type RunRecord struct {
	ID         string    `json:"id"`
	Date       time.Time `json:"date"`
	State      RunState  `json:"state"`
	ConfigHash string    `json:"config_hash"`

	EntitiesTotal  int `json:"entities_total"`
	EntitiesScored int `json:"entities_scored"`
	Distributions  int `json:"distributions"`

	Failures []EntityFailure `json:"failures,omitempty"`
	Error    string          `json:"error,omitempty"`

	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Advance moves the run to its next state. Advancing a terminal or unknown
// state is a programming error and returns one.
func (r *RunRecord) Advance() error {
	next, ok := nextRunState[r.State]
	if !ok {
		return fmt.Errorf("run %s: no transition from state %q", r.ID, r.State)
	}
	r.State = next
	if next == RunComplete {
		now := time.Now()
		r.FinishedAt = &now
	}
	return nil
}

// Fail marks the run failed with the given cause. Failing an already
// terminal run is rejected so a completed run can never be unpublished.
func (r *RunRecord) Fail(cause error) error {
	if r.State.Terminal() {
		return fmt.Errorf("run %s: cannot fail terminal state %q", r.ID, r.State)
	}
	r.State = RunFailed
	if cause != nil {
		r.Error = cause.Error()
	}
	now := time.Now()
	r.FinishedAt = &now
	return nil
}
