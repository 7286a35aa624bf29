package rules

import (
	"fmt"

	"github.com/palace-cards/palace-engine/internal/game/cards"
)

// Outcome classifies a proposed play. The numeric values are stable and
// there is no outcome 4.
type Outcome int

const (
	OutcomeInvalid Outcome = 0
	OutcomeNormal  Outcome = 1
	OutcomeReset   Outcome = 2
	OutcomeBurn    Outcome = 3
	OutcomeCopy    Outcome = 5
)

var outcomeNames = map[Outcome]string{
	OutcomeInvalid: "INVALID",
	OutcomeNormal:  "NORMAL",
	OutcomeReset:   "RESET",
	OutcomeBurn:    "BURN",
	OutcomeCopy:    "COPY",
}

func (o Outcome) String() string {
	if name, ok := outcomeNames[o]; ok {
		return name
	}
	return fmt.Sprintf("OUTCOME_%d", int(o))
}

// Playable reports whether the outcome lets the cards onto the pile.
func (o Outcome) Playable() bool {
	return o != OutcomeInvalid
}

// Power ranks.
const (
	RankReset  = cards.RankTwo
	RankInvert = cards.RankSix
	RankCopy   = cards.RankSeven
	RankBurn   = cards.RankNine
)

// PileTop is the comparison basis offered by the settled discard pile.
// A nil *PileTop stands for an empty pile.
type PileTop struct {
	Strength int
	Inverted bool // a rank 6 is the top card; the next play must be lower or equal
}

// TopOf derives the comparison basis from the pile's top card.
func TopOf(card cards.Card) *PileTop {
	return &PileTop{
		Strength: card.Strength,
		Inverted: card.Rank == RankInvert,
	}
}

// Evaluate classifies a set of candidate cards against the pile top.
// It never mutates its arguments and is safe to call speculatively.
func Evaluate(candidates []cards.Card, top *PileTop) Outcome {
	if len(candidates) == 0 {
		return OutcomeInvalid
	}

	rank := candidates[0].Rank
	for _, c := range candidates[1:] {
		if c.Rank != rank {
			return OutcomeInvalid
		}
	}

	switch rank {
	case RankReset:
		return OutcomeReset
	case RankBurn:
		return OutcomeBurn
	case RankCopy:
		return OutcomeCopy
	}

	if top == nil {
		return OutcomeNormal
	}

	strength := candidates[0].Strength
	if top.Inverted {
		if strength <= top.Strength {
			return OutcomeNormal
		}
		return OutcomeInvalid
	}
	if strength >= top.Strength {
		return OutcomeNormal
	}
	return OutcomeInvalid
}

// CopyStrength returns the strength a Copy play takes on: the strength of
// the current top, or fallback when the pile is empty.
func CopyStrength(top *PileTop, fallback int) int {
	if top == nil {
		return fallback
	}
	return top.Strength
}
