package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// CompletionState records how an effort went relative to the exercise target.
type CompletionState int

const (
	StateNone CompletionState = iota
	StateA                    // met the objective
	StateB                    // met the objective with difficulty
	StateC                    // partial, with an explicit value
)

// String returns the notation letter, or "" for StateNone.
func (s CompletionState) String() string {
	switch s {
	case StateA:
		return "A"
	case StateB:
		return "B"
	case StateC:
		return "C"
	default:
		return ""
	}
}

// ParseState maps a single notation letter to a state. Letters are case-sensitive.
func ParseState(letter string) (CompletionState, bool) {
	switch letter {
	case "A":
		return StateA, true
	case "B":
		return StateB, true
	case "C":
		return StateC, true
	}
	return StateNone, false
}

// MarshalJSON encodes the state as its letter, or "none".
func (s CompletionState) MarshalJSON() ([]byte, error) {
	if s == StateNone {
		return json.Marshal("none")
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the output of MarshalJSON.
func (s *CompletionState) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v == "none" || v == "" {
		*s = StateNone
		return nil
	}
	st, ok := ParseState(v)
	if !ok {
		return fmt.Errorf("unknown completion state %q", v)
	}
	*s = st
	return nil
}

// ResultKind tags both Target and EffortResult.
type ResultKind string

const (
	KindReps ResultKind = "reps"
	KindTime ResultKind = "time"
)

type LoadUnit string

const (
	LoadNone LoadUnit = ""
	LoadKg   LoadUnit = "kg"
)

type TimeUnit string

const (
	TimeNone    TimeUnit = ""
	TimeSeconds TimeUnit = "s"
	TimeMinutes TimeUnit = "min"
)

// LoadValue is a resistance such as 45kg.
type LoadValue struct {
	Value float64  `json:"value"`
	Unit  LoadUnit `json:"unit,omitempty"`
}

// TimeValue is a duration as written in the log. A value without unit counts as seconds.
type TimeValue struct {
	Value float64  `json:"value"`
	Unit  TimeUnit `json:"unit,omitempty"`
}

// Seconds normalises the value to seconds.
func (t TimeValue) Seconds() float64 {
	if t.Unit == TimeMinutes {
		return t.Value * 60
	}
	return t.Value
}

// Target is the declared objective for every set of an exercise.
type Target struct {
	Kind     ResultKind `json:"kind"`
	Count    int        `json:"count,omitempty"`
	Duration TimeValue  `json:"duration,omitzero"`
}

// RepsTarget builds a repetition target.
func RepsTarget(count int) Target {
	return Target{Kind: KindReps, Count: count}
}

// TimeTarget builds a duration target.
func TimeTarget(d TimeValue) Target {
	return Target{Kind: KindTime, Duration: d}
}

// EffortResult is what was achieved in one effort. Kind always matches the
// owning exercise's Target.Kind.
type EffortResult struct {
	Kind     ResultKind      `json:"kind"`
	Count    int             `json:"count,omitempty"`
	Duration TimeValue       `json:"duration,omitzero"`
	State    CompletionState `json:"state"`
}

// ZeroResult returns an empty result typed to the target.
func ZeroResult(t Target) EffortResult {
	return EffortResult{Kind: t.Kind}
}

// FullResult returns a result that meets the target, tagged with state.
func FullResult(t Target, state CompletionState) EffortResult {
	return EffortResult{Kind: t.Kind, Count: t.Count, Duration: t.Duration, State: state}
}

// IsZero reports whether the result carries no value.
func (r EffortResult) IsZero() bool {
	return r.Count == 0 && r.Duration.Value == 0
}

// Effort is one load-and-result pair. Several efforts in a set form a drop set.
type Effort struct {
	Load     *LoadValue   `json:"load,omitempty"`
	Result   EffortResult `json:"result"`
	IsRepeat bool         `json:"-"`
}

// Set is one performed unit of work.
type Set struct {
	Efforts []Effort `json:"efforts"`
	Comment string   `json:"comment,omitempty"`
}

// Exercise is a named movement with its target and performed sets.
// len(Sets) may differ from TargetSets.
type Exercise struct {
	Name       string `json:"name"`
	TargetSets int    `json:"target_sets"`
	Target     Target `json:"target"`
	Sets       []Set  `json:"sets"`
	Comment    string `json:"comment,omitempty"`
}

// TrainingSession is one logged workout.
type TrainingSession struct {
	Title     string     `json:"title"`
	Date      *time.Time `json:"date,omitempty"`
	Comment   string     `json:"comment,omitempty"`
	Exercises []Exercise `json:"exercises"`
}
