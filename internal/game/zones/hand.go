package zones

import (
	"fmt"

	"github.com/palace-cards/palace-engine/internal/game/cards"
)

// Hand holds a player's drawable cards and the subset currently selected
// for play. Selections are kept in selection order.
type Hand struct {
	*Pile
	selections []cards.ID
}

// NewHand creates an empty hand.
func NewHand() *Hand {
	return &Hand{Pile: NewPile(KindHand)}
}

// Select toggles the card in the selection and reports whether it is
// selected afterwards.
func (h *Hand) Select(id cards.ID) (bool, error) {
	if !h.Contains(id) {
		return false, fmt.Errorf("select card %d: %w", id, ErrNotInZone)
	}
	for i, sel := range h.selections {
		if sel == id {
			h.selections = append(h.selections[:i], h.selections[i+1:]...)
			return false, nil
		}
	}
	h.selections = append(h.selections, id)
	return true, nil
}

// Selected reports whether the card is in the selection.
func (h *Hand) Selected(id cards.ID) bool {
	for _, sel := range h.selections {
		if sel == id {
			return true
		}
	}
	return false
}

// Selections returns a copy of the selection in selection order.
func (h *Hand) Selections() []cards.ID {
	out := make([]cards.ID, len(h.selections))
	copy(out, h.selections)
	return out
}

// ClearSelections empties the selection and returns what was selected.
func (h *Hand) ClearSelections() []cards.ID {
	out := h.selections
	h.selections = nil
	return out
}

// Detach removes the card from the hand and from the selection.
func (h *Hand) Detach(id cards.ID) error {
	if err := h.Pile.Detach(id); err != nil {
		return err
	}
	for i, sel := range h.selections {
		if sel == id {
			h.selections = append(h.selections[:i], h.selections[i+1:]...)
			break
		}
	}
	return nil
}

// Play removes the selected cards from the hand, clears the selection, and
// returns the detached cards in selection order. Scheduling them onto the
// pile is the caller's job.
func (h *Hand) Play() []cards.ID {
	played := make([]cards.ID, 0, len(h.selections))
	for _, id := range h.selections {
		if err := h.Pile.Detach(id); err == nil {
			played = append(played, id)
		}
	}
	h.selections = nil
	return played
}
