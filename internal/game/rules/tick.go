package rules

import (
	"fmt"
)

// TickStep is one stage of the per-frame update.
type TickStep int

const (
	StepResolveInput TickStep = iota
	StepAdvanceTransfers
	StepCheckBurn
	StepRefillHand
)

var tickStepNames = map[TickStep]string{
	StepResolveInput:     "RESOLVE_INPUT",
	StepAdvanceTransfers: "ADVANCE_TRANSFERS",
	StepCheckBurn:        "CHECK_BURN",
	StepRefillHand:       "REFILL_HAND",
}

func (s TickStep) String() string {
	if name, ok := tickStepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("STEP_%d", int(s))
}

// tickSequence is the fixed order of a frame. Burn checks run after every
// transfer for the frame has landed and before the hand is refilled.
var tickSequence = []TickStep{
	StepResolveInput,
	StepAdvanceTransfers,
	StepCheckBurn,
	StepRefillHand,
}

// TickSequence returns a copy of the per-frame step order.
func TickSequence() []TickStep {
	seq := make([]TickStep, len(tickSequence))
	copy(seq, tickSequence)
	return seq
}

// TickClock counts frames and tracks the step in progress.
type TickClock struct {
	frame int
	index int
}

// NewTickClock creates a clock before the first frame.
func NewTickClock() *TickClock {
	return &TickClock{index: -1}
}

// Frame returns the number of frames begun so far.
func (tc *TickClock) Frame() int {
	return tc.frame
}

// CurrentStep returns the step in progress and whether a frame is running.
func (tc *TickClock) CurrentStep() (TickStep, bool) {
	if tc.index < 0 || tc.index >= len(tickSequence) {
		return 0, false
	}
	return tickSequence[tc.index], true
}

// BeginFrame starts a new frame at its first step.
func (tc *TickClock) BeginFrame() TickStep {
	tc.frame++
	tc.index = 0
	return tickSequence[0]
}

// AdvanceStep moves to the next step. It reports false once the frame is
// complete.
func (tc *TickClock) AdvanceStep() (TickStep, bool) {
	if tc.index < 0 {
		return 0, false
	}
	tc.index++
	if tc.index >= len(tickSequence) {
		tc.index = -1
		return 0, false
	}
	return tickSequence[tc.index], true
}
