package transfer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/rules"
	"github.com/palace-cards/palace-engine/internal/game/zones"
	"go.uber.org/zap"
)

var (
	// ErrInTransit is returned when scheduling a card that is already moving.
	ErrInTransit = errors.New("card already in transit")
	// ErrNegativeDuration is returned for transfers with a negative tick count.
	ErrNegativeDuration = errors.New("transfer duration must not be negative")
)

// Board is the view of the table the scheduler needs: card state plus the
// ability to detach a card from its owner and attach it to a zone.
type Board interface {
	Card(id cards.ID) *cards.Card
	Owner(id cards.ID) (zones.Kind, bool)
	Detach(id cards.ID) (zones.Kind, error)
	Attach(kind zones.Kind, id cards.ID) error
}

// Transfer is one card in flight between zones.
type Transfer struct {
	ID           string
	Card         cards.ID
	Source       zones.Kind
	HasSource    bool // false when the caller detached the card before scheduling
	Destination  zones.Kind
	Start        cards.Point
	End          cards.Point
	TotalTicks   int
	ElapsedTicks int
}

// Progress returns the completed fraction of the transfer in [0, 1].
func (t *Transfer) Progress() float64 {
	if t.TotalTicks <= 0 {
		return 1
	}
	p := float64(t.ElapsedTicks) / float64(t.TotalTicks)
	if p > 1 {
		return 1
	}
	return p
}

// Move is a single card's leg of a scheduled relocation.
type Move struct {
	Card  cards.ID
	Start cards.Point
	End   cards.Point
}

// Scheduler owns every in-flight card relocation. It is advanced once per
// frame from the round's tick and is not safe for concurrent use.
type Scheduler struct {
	board     Board
	bus       *rules.EventBus
	logger    *zap.Logger
	transfers []*Transfer
}

// NewScheduler creates a scheduler over the board. bus and logger may be nil.
func NewScheduler(board Board, bus *rules.EventBus, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		board:     board,
		bus:       bus,
		logger:    logger,
		transfers: make([]*Transfer, 0, 16),
	}
}

// Schedule sends every card along the same path to the destination zone.
func (s *Scheduler) Schedule(ids []cards.ID, dest zones.Kind, start, end cards.Point, ticks int) error {
	moves := make([]Move, len(ids))
	for i, id := range ids {
		moves[i] = Move{Card: id, Start: start, End: end}
	}
	return s.ScheduleMoves(moves, dest, ticks)
}

// ScheduleMoves detaches each card from its zone immediately and records a
// transfer towards dest. Cards that were already detached by the caller
// are accepted as they are. The start point becomes the card's position.
func (s *Scheduler) ScheduleMoves(moves []Move, dest zones.Kind, ticks int) error {
	if ticks < 0 {
		return fmt.Errorf("schedule %d cards to %s: %w", len(moves), dest, ErrNegativeDuration)
	}
	seen := make(map[cards.ID]bool, len(moves))
	for _, m := range moves {
		card := s.board.Card(m.Card)
		if card == nil {
			return fmt.Errorf("schedule card %d: unknown card", m.Card)
		}
		if card.InTransit || seen[m.Card] {
			return fmt.Errorf("schedule card %d: %w", m.Card, ErrInTransit)
		}
		seen[m.Card] = true
	}

	for _, m := range moves {
		card := s.board.Card(m.Card)
		t := &Transfer{
			ID:          uuid.New().String(),
			Card:        m.Card,
			Destination: dest,
			Start:       m.Start,
			End:         m.End,
			TotalTicks:  ticks,
		}
		if _, owned := s.board.Owner(m.Card); owned {
			from, err := s.board.Detach(m.Card)
			if err != nil {
				return fmt.Errorf("schedule card %d: %w", m.Card, err)
			}
			t.Source = from
			t.HasSource = true
			detached := rules.NewEvent(rules.EventCardDetached, int(m.Card), from.String())
			detached.Rank = int(card.Rank)
			s.publish(detached)
		}

		card.InTransit = true
		card.Position = m.Start
		s.transfers = append(s.transfers, t)

		evt := rules.NewEvent(rules.EventTransferScheduled, int(m.Card), dest.String())
		evt.Amount = ticks
		if t.HasSource {
			evt.Source = t.Source.String()
		}
		s.publish(evt)
	}

	s.logger.Debug("scheduled transfers",
		zap.Int("cards", len(moves)),
		zap.String("destination", dest.String()),
		zap.Int("ticks", ticks),
	)
	return nil
}

// Advance moves every live transfer forward by one tick and finalizes the
// ones that have arrived, in the order they were scheduled. It returns the
// cards that landed.
func (s *Scheduler) Advance() []cards.ID {
	if len(s.transfers) == 0 {
		return nil
	}

	var landed []cards.ID
	live := s.transfers[:0]
	for _, t := range s.transfers {
		card := s.board.Card(t.Card)
		card.Position = t.Start.Lerp(t.End, t.Progress())
		t.ElapsedTicks++
		if t.ElapsedTicks >= t.TotalTicks {
			s.finalize(t, card)
			landed = append(landed, t.Card)
			continue
		}
		live = append(live, t)
	}
	for i := len(live); i < len(s.transfers); i++ {
		s.transfers[i] = nil
	}
	s.transfers = live
	return landed
}

// Flush lands every live transfer at its destination immediately, in the
// order they were scheduled. No card is left without a zone.
func (s *Scheduler) Flush() []cards.ID {
	landed := make([]cards.ID, 0, len(s.transfers))
	for _, t := range s.transfers {
		t.ElapsedTicks = t.TotalTicks
		s.finalize(t, s.board.Card(t.Card))
		landed = append(landed, t.Card)
	}
	s.transfers = s.transfers[:0]
	return landed
}

func (s *Scheduler) finalize(t *Transfer, card *cards.Card) {
	card.Position = t.End
	card.InTransit = false
	if err := s.board.Attach(t.Destination, t.Card); err != nil {
		// The card was detached by this scheduler, so attach can only fail
		// if a caller broke the ownership invariant.
		s.logger.Error("failed to land transfer",
			zap.String("transfer_id", t.ID),
			zap.Int("card_id", int(t.Card)),
			zap.String("destination", t.Destination.String()),
			zap.Error(err),
		)
		return
	}
	attached := rules.NewEvent(rules.EventCardAttached, int(t.Card), t.Destination.String())
	attached.Rank = int(card.Rank)
	s.publish(attached)

	evt := rules.NewEvent(rules.EventTransferFinalized, int(t.Card), t.Destination.String())
	evt.Metadata["transfer_id"] = t.ID
	s.publish(evt)
}

func (s *Scheduler) publish(evt rules.Event) {
	if s.bus != nil {
		s.bus.Publish(evt)
	}
}

// Len returns the number of live transfers.
func (s *Scheduler) Len() int {
	return len(s.transfers)
}

// Idle reports whether no transfer is in flight.
func (s *Scheduler) Idle() bool {
	return len(s.transfers) == 0
}

// InTransit reports whether the card is held by a live transfer.
func (s *Scheduler) InTransit(id cards.ID) bool {
	for _, t := range s.transfers {
		if t.Card == id {
			return true
		}
	}
	return false
}

// Inbound counts live transfers heading to the zone.
func (s *Scheduler) Inbound(kind zones.Kind) int {
	n := 0
	for _, t := range s.transfers {
		if t.Destination == kind {
			n++
		}
	}
	return n
}

// Outbound counts live transfers that left the zone.
func (s *Scheduler) Outbound(kind zones.Kind) int {
	n := 0
	for _, t := range s.transfers {
		if t.HasSource && t.Source == kind {
			n++
		}
	}
	return n
}

// Transfers returns copies of the live transfers in scheduling order.
func (s *Scheduler) Transfers() []Transfer {
	out := make([]Transfer, len(s.transfers))
	for i, t := range s.transfers {
		out[i] = *t
	}
	return out
}
