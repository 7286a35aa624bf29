package zones

import (
	"errors"
	"fmt"

	"github.com/palace-cards/palace-engine/internal/game/cards"
)

var (
	// ErrNotInZone is returned when detaching a card the zone does not hold.
	ErrNotInZone = errors.New("card not in zone")
	// ErrAlreadyOwned is returned when attaching a card some zone already holds.
	ErrAlreadyOwned = errors.New("card already owned by a zone")
)

// Kind identifies one of the closed set of zones on the table.
type Kind int

const (
	KindDeck Kind = iota
	KindHand
	KindUnderHand
	KindOverHand
	KindDiscard
	KindBurn
	KindDestroy
)

// Kinds lists every zone kind in table order.
var Kinds = []Kind{
	KindDeck,
	KindHand,
	KindUnderHand,
	KindOverHand,
	KindDiscard,
	KindBurn,
	KindDestroy,
}

var kindNames = map[Kind]string{
	KindDeck:      "DECK",
	KindHand:      "HAND",
	KindUnderHand: "UNDER_HAND",
	KindOverHand:  "OVER_HAND",
	KindDiscard:   "DISCARD",
	KindBurn:      "BURN",
	KindDestroy:   "DESTROY",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ZONE_%d", int(k))
}

// Reserve reports whether k is one of the two reserve stacks.
func (k Kind) Reserve() bool {
	return k == KindUnderHand || k == KindOverHand
}

// Zone is the capability every table zone exposes.
type Zone interface {
	Kind() Kind
	Attach(id cards.ID)
	Detach(id cards.ID) error
	Contains(id cards.ID) bool
	Cards() []cards.ID
	Len() int
}

// Pile is an ordered zone. The last element is the top.
type Pile struct {
	kind Kind
	ids  []cards.ID
}

// NewPile creates an empty pile of the given kind.
func NewPile(kind Kind) *Pile {
	return &Pile{kind: kind, ids: make([]cards.ID, 0, 8)}
}

// Kind returns the zone kind.
func (p *Pile) Kind() Kind {
	return p.kind
}

// Attach places a card on top of the pile.
func (p *Pile) Attach(id cards.ID) {
	p.ids = append(p.ids, id)
}

// Detach removes a card from anywhere in the pile.
func (p *Pile) Detach(id cards.ID) error {
	idx := p.IndexOf(id)
	if idx < 0 {
		return fmt.Errorf("detach card %d from %s: %w", id, p.kind, ErrNotInZone)
	}
	p.ids = append(p.ids[:idx], p.ids[idx+1:]...)
	return nil
}

// Contains reports whether the pile holds the card.
func (p *Pile) Contains(id cards.ID) bool {
	return p.IndexOf(id) >= 0
}

// IndexOf returns the position of the card counted from the bottom, or -1.
func (p *Pile) IndexOf(id cards.ID) int {
	for i, held := range p.ids {
		if held == id {
			return i
		}
	}
	return -1
}

// Cards returns a copy of the pile, bottom first.
func (p *Pile) Cards() []cards.ID {
	out := make([]cards.ID, len(p.ids))
	copy(out, p.ids)
	return out
}

// Len returns the number of cards in the pile.
func (p *Pile) Len() int {
	return len(p.ids)
}

// Empty reports whether the pile holds no cards.
func (p *Pile) Empty() bool {
	return len(p.ids) == 0
}

// Top returns the most recently attached card.
func (p *Pile) Top() (cards.ID, bool) {
	if len(p.ids) == 0 {
		return 0, false
	}
	return p.ids[len(p.ids)-1], true
}

// TopN returns up to n cards from the top, topmost first.
func (p *Pile) TopN(n int) []cards.ID {
	if n > len(p.ids) {
		n = len(p.ids)
	}
	out := make([]cards.ID, 0, n)
	for i := len(p.ids) - 1; i >= len(p.ids)-n; i-- {
		out = append(out, p.ids[i])
	}
	return out
}

// Clear removes and returns every card, bottom first.
func (p *Pile) Clear() []cards.ID {
	out := p.ids
	p.ids = make([]cards.ID, 0, 8)
	return out
}
