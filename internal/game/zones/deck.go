package zones

import (
	"math/rand"

	"github.com/palace-cards/palace-engine/internal/game/cards"
)

// Deck is the FIFO draw source. The front of the draw order is the bottom
// of the underlying pile.
type Deck struct {
	*Pile
	rng *rand.Rand
}

// NewDeck creates an empty deck that shuffles with rng.
func NewDeck(rng *rand.Rand) *Deck {
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	return &Deck{Pile: NewPile(KindDeck), rng: rng}
}

// Shuffle puts the deck into a uniformly random order.
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.ids), func(i, j int) {
		d.ids[i], d.ids[j] = d.ids[j], d.ids[i]
	})
}

// Draw removes and returns up to n cards from the front of the draw order.
// Asking for more cards than remain returns what is left.
func (d *Deck) Draw(n int) []cards.ID {
	if n <= 0 {
		return nil
	}
	if n > len(d.ids) {
		n = len(d.ids)
	}
	drawn := make([]cards.ID, n)
	copy(drawn, d.ids[:n])
	d.ids = append(d.ids[:0], d.ids[n:]...)
	return drawn
}

// Peek returns up to n cards from the front without removing them.
func (d *Deck) Peek(n int) []cards.ID {
	if n > len(d.ids) {
		n = len(d.ids)
	}
	out := make([]cards.ID, n)
	copy(out, d.ids[:n])
	return out
}
