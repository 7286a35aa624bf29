package zones

import (
	"fmt"
	"math/rand"

	"github.com/palace-cards/palace-engine/internal/game/cards"
)

// Table groups the arena with every zone of a single-player round.
// Which zone holds a card is derived by asking each zone; cards never point
// back at their zone.
type Table struct {
	arena *cards.Arena

	Deck      *Deck
	Hand      *Hand
	UnderHand *Pile
	OverHand  *Pile
	Discard   *Pile
	Burn      *Pile
	Destroy   *Pile
}

// NewTable creates a table whose deck holds every card of the arena in
// arena order. Call Deck.Shuffle before dealing.
func NewTable(arena *cards.Arena, rng *rand.Rand) *Table {
	t := &Table{
		arena:     arena,
		Deck:      NewDeck(rng),
		Hand:      NewHand(),
		UnderHand: NewPile(KindUnderHand),
		OverHand:  NewPile(KindOverHand),
		Discard:   NewPile(KindDiscard),
		Burn:      NewPile(KindBurn),
		Destroy:   NewPile(KindDestroy),
	}
	for _, id := range arena.IDs() {
		t.Deck.Attach(id)
	}
	return t
}

// Arena returns the card arena backing the table.
func (t *Table) Arena() *cards.Arena {
	return t.arena
}

// Card returns the card with the given ID.
func (t *Table) Card(id cards.ID) *cards.Card {
	return t.arena.Get(id)
}

// Zone returns the zone of the given kind.
func (t *Table) Zone(kind Kind) Zone {
	switch kind {
	case KindDeck:
		return t.Deck
	case KindHand:
		return t.Hand
	case KindUnderHand:
		return t.UnderHand
	case KindOverHand:
		return t.OverHand
	case KindDiscard:
		return t.Discard
	case KindBurn:
		return t.Burn
	case KindDestroy:
		return t.Destroy
	default:
		return nil
	}
}

// Owner returns the kind of the zone holding the card. Cards in transit
// belong to no zone.
func (t *Table) Owner(id cards.ID) (Kind, bool) {
	for _, kind := range Kinds {
		if t.Zone(kind).Contains(id) {
			return kind, true
		}
	}
	return 0, false
}

// Attach places the card in the zone of the given kind, refusing cards
// that another zone already holds.
func (t *Table) Attach(kind Kind, id cards.ID) error {
	card := t.arena.Get(id)
	if card == nil {
		return fmt.Errorf("attach card %d: unknown card", id)
	}
	if owner, ok := t.Owner(id); ok {
		return fmt.Errorf("attach card %d to %s: held by %s: %w", id, kind, owner, ErrAlreadyOwned)
	}
	zone := t.Zone(kind)
	if zone == nil {
		return fmt.Errorf("attach card %d: unknown zone %s", id, kind)
	}
	zone.Attach(id)
	return nil
}

// Detach removes the card from whichever zone holds it and returns that
// zone's kind.
func (t *Table) Detach(id cards.ID) (Kind, error) {
	owner, ok := t.Owner(id)
	if !ok {
		return 0, fmt.Errorf("detach card %d: %w", id, ErrNotInZone)
	}
	if err := t.Zone(owner).Detach(id); err != nil {
		return owner, err
	}
	if owner == KindHand {
		t.arena.MustGet(id).Selected = false
	}
	return owner, nil
}

// Select toggles a hand card's selection and mirrors the logical flag on
// the card.
func (t *Table) Select(id cards.ID) (bool, error) {
	selected, err := t.Hand.Select(id)
	if err != nil {
		return false, err
	}
	t.arena.MustGet(id).Selected = selected
	return selected, nil
}

// PlaySelection detaches the selected hand cards and returns them.
func (t *Table) PlaySelection() []cards.ID {
	played := t.Hand.Play()
	for _, id := range played {
		t.arena.MustGet(id).Selected = false
	}
	return played
}

// Draw removes up to n cards from the front of the deck.
func (t *Table) Draw(n int) []cards.ID {
	return t.Deck.Draw(n)
}

// Count returns the number of cards held across every zone.
func (t *Table) Count() int {
	total := 0
	for _, kind := range Kinds {
		total += t.Zone(kind).Len()
	}
	return total
}

// Gather returns every zone's cards to the deck in arena order and resets
// transient card state. In-flight transfers must be flushed first.
func (t *Table) Gather() {
	for _, kind := range Kinds {
		zone := t.Zone(kind)
		for _, id := range zone.Cards() {
			_ = zone.Detach(id)
		}
	}
	t.Hand.ClearSelections()
	t.arena.ResetTransient()
	for _, id := range t.arena.IDs() {
		t.Deck.Attach(id)
	}
}
