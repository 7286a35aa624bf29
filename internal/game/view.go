package game

import (
	"fmt"
	"time"

	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/rules"
	"github.com/palace-cards/palace-engine/internal/game/watchers"
	"github.com/palace-cards/palace-engine/internal/game/zones"
)

// RenderView is what a renderer needs to draw one card.
type RenderView struct {
	Card      cards.ID    `json:"card"`
	Label     string      `json:"label"`
	Rank      int         `json:"rank"`
	Suit      string      `json:"suit"`
	Position  cards.Point `json:"position"`
	Face      string      `json:"face"`
	FaceUp    bool        `json:"face_up"`
	Selected  bool        `json:"selected"`
	InTransit bool        `json:"in_transit"`
	Zone      string      `json:"zone,omitempty"`
}

// RenderRequest returns where and how to draw a card: the interpolated
// position while it is in transit, its zone slot otherwise.
func (r *Round) RenderRequest(id cards.ID) (RenderView, error) {
	card := r.table.Card(id)
	if card == nil {
		return RenderView{}, fmt.Errorf("render card %d: %w", id, ErrUnknownCard)
	}
	view := RenderView{
		Card:      id,
		Label:     card.String(),
		Rank:      int(card.Rank),
		Suit:      card.Suit.String(),
		Position:  r.position(id),
		Face:      card.Face.String(),
		FaceUp:    card.Face == cards.FaceUp,
		Selected:  card.Selected,
		InTransit: card.InTransit,
	}
	if kind, ok := r.table.Owner(id); ok {
		view.Zone = kind.String()
	}
	return view, nil
}

// CountCards returns the cards held by zones plus those in flight. It is
// always the size of the arena.
func (r *Round) CountCards() int {
	return r.table.Count() + r.scheduler.Len()
}

// Stats returns the round's play statistics.
func (r *Round) Stats() watchers.Stats {
	return r.stats.Snapshot()
}

// PileTopView describes the settled top of the discard pile.
type PileTopView struct {
	Card     cards.ID `json:"card"`
	Label    string   `json:"label"`
	Strength int      `json:"strength"`
	Inverted bool     `json:"inverted"`
}

// Snapshot is a full view of the round for renderers.
type Snapshot struct {
	RoundID   string           `json:"round_id"`
	StartedAt time.Time        `json:"started_at"`
	Frame     int              `json:"frame"`
	Zones     map[string][]int `json:"zones"`
	Cards     []RenderView     `json:"cards"`
	InFlight  int              `json:"in_flight"`
	Pending   int              `json:"pending"`
	PileTop   *PileTopView     `json:"pile_top,omitempty"`
	BurnArmed bool             `json:"burn_armed"`
}

// Snapshot captures every card and zone.
func (r *Round) Snapshot() Snapshot {
	snap := Snapshot{
		RoundID:   r.id,
		StartedAt: r.startedAt,
		Frame:     r.clock.Frame(),
		Zones:     make(map[string][]int, len(zones.Kinds)),
		InFlight:  r.scheduler.Len(),
		Pending:   len(r.queue),
		BurnArmed: r.burnRequested || r.burn.ConditionMet(),
	}
	for _, kind := range zones.Kinds {
		ids := r.table.Zone(kind).Cards()
		out := make([]int, len(ids))
		for i, id := range ids {
			out[i] = int(id)
		}
		snap.Zones[kind.String()] = out
	}
	for _, id := range r.table.Arena().IDs() {
		view, err := r.RenderRequest(id)
		if err != nil {
			continue
		}
		snap.Cards = append(snap.Cards, view)
	}
	if id, ok := r.table.Discard.Top(); ok {
		card := r.table.Card(id)
		top := rules.TopOf(*card)
		snap.PileTop = &PileTopView{
			Card:     id,
			Label:    card.String(),
			Strength: top.Strength,
			Inverted: top.Inverted,
		}
	}
	return snap
}
