package slideshow

import "errors"

// ErrNoSteps is returned when a slideshow is built from an empty step list.
var ErrNoSteps = errors.New("slideshow: at least one step is required")

// NavigationState is the committed position in a slideshow.
// ActiveStep is either steps[StepIndex] verbatim or that step with only its
// active file replaced.
type NavigationState struct {
	StepIndex  int
	ActiveStep Step
}

// ChangeEvent is delivered to observers after the step index changes.
type ChangeEvent struct {
	Index int `json:"index"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxIndex(steps []Step) int {
	return len(steps) - 1
}

// Initialize returns the starting state with start clamped into range.
func Initialize(steps []Step, start int) (NavigationState, error) {
	if len(steps) == 0 {
		return NavigationState{}, ErrNoSteps
	}
	return JumpTo(steps, start), nil
}

// JumpTo moves to index i, clamped into range. Any active-file override is
// dropped. steps must not be empty.
func JumpTo(steps []Step, i int) NavigationState {
	idx := clamp(i, 0, maxIndex(steps))
	return NavigationState{StepIndex: idx, ActiveStep: steps[idx]}
}

// Advance moves one step forward. With loop the index wraps from the last
// step to the first; without it the last step holds.
func Advance(steps []Step, s NavigationState, loop bool) NavigationState {
	var next int
	if loop {
		next = (s.StepIndex + 1) % (maxIndex(steps) + 1)
	} else {
		next = clamp(s.StepIndex+1, 0, maxIndex(steps))
	}
	return NavigationState{StepIndex: next, ActiveStep: steps[next]}
}

// SelectFile marks filename active in the current step. The index is
// unchanged and the step list is never written back.
func SelectFile(s NavigationState, filename string) NavigationState {
	return NavigationState{StepIndex: s.StepIndex, ActiveStep: s.ActiveStep.WithActive(filename)}
}

// AtStart reports whether s is on the first step.
func AtStart(s NavigationState) bool {
	return s.StepIndex == 0
}

// AtEnd reports whether s is on the last step, regardless of looping.
func AtEnd(steps []Step, s NavigationState) bool {
	return s.StepIndex == maxIndex(steps)
}
