package cards

import (
	"fmt"
)

// StandardDeckSize is the number of cards in a French deck without jokers.
const StandardDeckSize = 52

// Arena stores every card of a round by value. Zones refer to cards by ID
// and the arena is the only place card state lives.
type Arena struct {
	cards []Card
}

// NewStandardArena creates the 52 cards of a French deck, suit by suit,
// Ace through King.
func NewStandardArena() *Arena {
	a := &Arena{cards: make([]Card, 0, StandardDeckSize)}
	for suit := SuitHearts; suit <= SuitClubs; suit++ {
		for rank := RankAce; rank <= RankKing; rank++ {
			a.cards = append(a.cards, New(ID(len(a.cards)), rank, suit))
		}
	}
	return a
}

// Len returns the number of cards in the arena.
func (a *Arena) Len() int {
	return len(a.cards)
}

// Get returns the card with the given ID, or nil when the ID is out of range.
func (a *Arena) Get(id ID) *Card {
	if int(id) < 0 || int(id) >= len(a.cards) {
		return nil
	}
	return &a.cards[id]
}

// MustGet is Get for IDs that are known to come from this arena.
func (a *Arena) MustGet(id ID) *Card {
	card := a.Get(id)
	if card == nil {
		panic(fmt.Sprintf("cards: id %d outside arena of %d", id, len(a.cards)))
	}
	return card
}

// IDs returns every card ID in arena order.
func (a *Arena) IDs() []ID {
	ids := make([]ID, len(a.cards))
	for i := range a.cards {
		ids[i] = a.cards[i].ID
	}
	return ids
}

// Collect copies the cards for the given IDs, preserving order.
func (a *Arena) Collect(ids []ID) []Card {
	out := make([]Card, 0, len(ids))
	for _, id := range ids {
		if card := a.Get(id); card != nil {
			out = append(out, *card)
		}
	}
	return out
}

// Find returns the ID of the card with the given rank and suit.
func (a *Arena) Find(rank Rank, suit Suit) (ID, bool) {
	for i := range a.cards {
		if a.cards[i].Rank == rank && a.cards[i].Suit == suit {
			return a.cards[i].ID, true
		}
	}
	return 0, false
}

// ResetTransient clears per-round state on every card: strength, face,
// selection, and transit flags.
func (a *Arena) ResetTransient() {
	for i := range a.cards {
		c := &a.cards[i]
		c.ResetStrength()
		c.Face = FaceDown
		c.Selected = false
		c.InTransit = false
		c.Position = Point{}
	}
}
