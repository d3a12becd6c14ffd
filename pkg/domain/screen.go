package domain

import (
	"fmt"
	"strconv"
)

// Screen is the top-level wizard screen. Exactly one is active at a time.
type Screen string

const (
	ScreenLanding    Screen = "landing"
	ScreenCollecting Screen = "collecting"
	ScreenReviewing  Screen = "reviewing"
)

// Valid reports whether s is one of the three known screens.
func (s Screen) Valid() bool {
	switch s {
	case ScreenLanding, ScreenCollecting, ScreenReviewing:
		return true
	}
	return false
}

// Step is the sub-step cursor used while the wizard is Collecting.
type Step int

const (
	StepDestination Step = iota
	StepDates
	StepBudget
	StepGroup
	StepInterests
)

// StepCount is the number of data-collection sub-steps.
const StepCount = 5

const (
	FirstStep = StepDestination
	LastStep  = StepInterests
)

var stepNames = [StepCount]string{"destination", "dates", "budget", "group", "interests"}

var stepTitles = [StepCount]string{"Where to?", "When?", "Budget", "Group Size", "Interests"}

// Steps returns the sub-steps in their fixed order.
func Steps() []Step {
	return []Step{StepDestination, StepDates, StepBudget, StepGroup, StepInterests}
}

// Valid reports whether s is within [FirstStep, LastStep].
func (s Step) Valid() bool {
	return s >= FirstStep && s <= LastStep
}

func (s Step) String() string {
	if !s.Valid() {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

// Title is the heading shown for the step.
func (s Step) Title() string {
	if !s.Valid() {
		return ""
	}
	return stepTitles[s]
}

// ParseStep resolves a step name ("budget") or index ("2").
func ParseStep(v string) (Step, error) {
	for i, name := range stepNames {
		if name == v {
			return Step(i), nil
		}
	}
	if idx, err := strconv.Atoi(v); err == nil && Step(idx).Valid() {
		return Step(idx), nil
	}
	return 0, fmt.Errorf("%w: step %q", ErrInvalidValue, v)
}
