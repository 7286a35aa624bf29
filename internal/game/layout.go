package game

import (
	"math"

	"github.com/palace-cards/palace-engine/internal/config"
	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/zones"
)

// Layout maps a card's slot in a zone to a screen position.
type Layout struct {
	cfg config.LayoutConfig
}

// NewLayout creates a layout from the configured anchors.
func NewLayout(cfg config.LayoutConfig) Layout {
	return Layout{cfg: cfg}
}

// Anchor returns the anchor of a zone.
func (l Layout) Anchor(kind zones.Kind) cards.Point {
	var a config.Anchor
	switch kind {
	case zones.KindDeck:
		a = l.cfg.Deck
	case zones.KindHand:
		a = l.cfg.Hand
	case zones.KindUnderHand:
		a = l.cfg.UnderHand
	case zones.KindOverHand:
		a = l.cfg.OverHand
	case zones.KindDiscard:
		a = l.cfg.Discard
	case zones.KindBurn:
		a = l.cfg.Burn
	case zones.KindDestroy:
		a = l.cfg.Destroy
	}
	return cards.Point{X: a.X, Y: a.Y}
}

// Slot returns the position of the index-th card of a zone holding count
// cards.
func (l Layout) Slot(kind zones.Kind, index, count int) cards.Point {
	anchor := l.Anchor(kind)
	switch kind {
	case zones.KindHand:
		return l.handSlot(anchor, index, count)
	case zones.KindUnderHand, zones.KindOverHand:
		return cards.Point{X: anchor.X + float64(index)*l.cfg.ReserveSpacing, Y: anchor.Y}
	default:
		// Piles fan slightly up and to the right as they grow.
		step := float64(index) * l.cfg.PileStackOffset
		return cards.Point{X: anchor.X + math.Trunc(step/3), Y: anchor.Y - step}
	}
}

// The hand is centred on its anchor and squeezed once it would exceed the
// maximum width.
func (l Layout) handSlot(anchor cards.Point, index, count int) cards.Point {
	if count <= 0 {
		return anchor
	}
	w := l.cfg.CardWidth
	spacing := w
	if float64(count)*w > l.cfg.HandMaxWidth {
		spacing = 0
		if count > 1 {
			spacing = (l.cfg.HandMaxWidth - w) / float64(count-1)
		}
	}
	total := w + spacing*float64(count-1)
	return cards.Point{X: anchor.X - total/2 + spacing*float64(index), Y: anchor.Y}
}
