package watchers

import (
	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/rules"
	"github.com/palace-cards/palace-engine/internal/game/zones"
)

// BurnRunLength is how many same-rank cards on top of the pile burn it.
const BurnRunLength = 4

// BurnReason explains why the auto-burn watcher fired.
type BurnReason int

const (
	BurnNone BurnReason = iota
	BurnNineOnTop
	BurnFourOfAKind
)

func (r BurnReason) String() string {
	switch r {
	case BurnNineOnTop:
		return "NINE_ON_TOP"
	case BurnFourOfAKind:
		return "FOUR_OF_A_KIND"
	default:
		return "NONE"
	}
}

type pileEntry struct {
	card cards.ID
	rank cards.Rank
}

// AutoBurnWatcher mirrors the discard pile from attach and detach events and
// reports when the pile should burn: a 9 on top, or four cards of one rank
// on top. It only tracks the condition; the round decides when to act on
// it, once the frame has settled.
type AutoBurnWatcher struct {
	*rules.BaseWatcher
	pile   []pileEntry
	reason BurnReason
}

// NewAutoBurnWatcher creates a new auto-burn watcher.
func NewAutoBurnWatcher() *AutoBurnWatcher {
	return &AutoBurnWatcher{
		BaseWatcher: rules.NewBaseWatcher("AutoBurnWatcher"),
	}
}

// Watch implements the Watcher interface.
func (w *AutoBurnWatcher) Watch(event rules.Event) {
	if event.Zone != zones.KindDiscard.String() {
		return
	}
	switch event.Type {
	case rules.EventCardAttached:
		w.pile = append(w.pile, pileEntry{card: cards.ID(event.CardID), rank: cards.Rank(event.Rank)})
	case rules.EventCardDetached:
		for i, e := range w.pile {
			if e.card == cards.ID(event.CardID) {
				w.pile = append(w.pile[:i], w.pile[i+1:]...)
				break
			}
		}
	default:
		return
	}
	w.evaluate()
}

func (w *AutoBurnWatcher) evaluate() {
	w.reason = BurnNone
	n := len(w.pile)
	if n == 0 {
		w.SetCondition(false)
		return
	}
	top := w.pile[n-1].rank
	if top == rules.RankBurn {
		w.reason = BurnNineOnTop
	} else if n >= BurnRunLength {
		run := 1
		for i := n - 2; i >= n-BurnRunLength; i-- {
			if w.pile[i].rank != top {
				break
			}
			run++
		}
		if run == BurnRunLength {
			w.reason = BurnFourOfAKind
		}
	}
	w.SetCondition(w.reason != BurnNone)
}

// Reason returns why the condition is met, or BurnNone.
func (w *AutoBurnWatcher) Reason() BurnReason {
	return w.reason
}

// Depth returns the number of cards the watcher believes are on the pile.
func (w *AutoBurnWatcher) Depth() int {
	return len(w.pile)
}

// Reset clears the watcher's state.
func (w *AutoBurnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.pile = nil
	w.reason = BurnNone
}

// Check applies the same burn rule directly to a pile listed bottom first.
func Check(pile []cards.Card) BurnReason {
	w := NewAutoBurnWatcher()
	for _, c := range pile {
		w.pile = append(w.pile, pileEntry{card: c.ID, rank: c.Rank})
	}
	w.evaluate()
	return w.reason
}
