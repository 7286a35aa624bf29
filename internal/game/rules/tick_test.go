package rules

import "testing"

func TestTickSequence(t *testing.T) {
	expected := []TickStep{
		StepResolveInput,
		StepAdvanceTransfers,
		StepCheckBurn,
		StepRefillHand,
	}

	clock := NewTickClock()
	if _, running := clock.CurrentStep(); running {
		t.Fatal("clock should not be running before the first frame")
	}

	step := clock.BeginFrame()
	for i, exp := range expected {
		if step != exp {
			t.Fatalf("step %d: expected %s, got %s", i, exp, step)
		}
		current, running := clock.CurrentStep()
		if !running || current != exp {
			t.Fatalf("step %d: CurrentStep = %s, %v", i, current, running)
		}
		var ok bool
		step, ok = clock.AdvanceStep()
		if i < len(expected)-1 && !ok {
			t.Fatalf("frame ended early after %s", exp)
		}
		if i == len(expected)-1 && ok {
			t.Fatalf("frame should end after %s", exp)
		}
	}

	if clock.Frame() != 1 {
		t.Fatalf("expected frame 1, got %d", clock.Frame())
	}
	if _, ok := clock.AdvanceStep(); ok {
		t.Fatal("advancing a finished frame should report false")
	}
}

func TestTickSequenceIsCopy(t *testing.T) {
	seq := TickSequence()
	seq[0] = StepRefillHand
	if TickSequence()[0] != StepResolveInput {
		t.Fatal("TickSequence must not expose internal state")
	}
}

func TestTickStepString(t *testing.T) {
	if StepCheckBurn.String() != "CHECK_BURN" {
		t.Fatalf("unexpected name %s", StepCheckBurn)
	}
	if TickStep(9).String() != "STEP_9" {
		t.Fatalf("unexpected name %s", TickStep(9))
	}
}
