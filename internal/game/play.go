package game

import (
	"fmt"

	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/rules"
	"github.com/palace-cards/palace-engine/internal/game/zones"
	"go.uber.org/zap"
)

// Select toggles a hand card's selection and reports whether it is selected
// afterwards.
func (r *Round) Select(id cards.ID) (bool, error) {
	if r.table.Card(id) == nil {
		return false, fmt.Errorf("select card %d: %w", id, ErrUnknownCard)
	}
	selected, err := r.table.Select(id)
	if err != nil {
		return false, err
	}
	evtType := rules.EventCardDeselected
	if selected {
		evtType = rules.EventCardSelected
	}
	r.publish(rules.NewEvent(evtType, int(id), zones.KindHand.String()))
	return selected, nil
}

// PlaySelection evaluates the selected hand cards against the pile and, if
// the play is legal, sends them to the pile. An invalid play shakes the hand
// and leaves every zone untouched.
func (r *Round) PlaySelection() (rules.Outcome, error) {
	selection := r.table.Hand.Selections()
	if len(selection) == 0 {
		return rules.OutcomeInvalid, ErrNoSelection
	}

	candidates := r.table.Arena().Collect(selection)
	top := r.pileTop()
	outcome := rules.Evaluate(candidates, top)
	if !outcome.Playable() {
		r.reject(candidates[0].Rank, len(candidates))
		r.shake(ShakeHand, r.cfg.Shake.Hand, 0)
		return outcome, fmt.Errorf("play %d %s: %w", len(candidates), candidates[0].Rank, ErrInvalidPlay)
	}

	starts := make([]cards.Point, len(selection))
	for i, id := range selection {
		starts[i] = r.position(id)
	}
	played := r.table.PlaySelection()
	if err := r.toPile(played, starts, outcome, top); err != nil {
		return outcome, err
	}
	r.accept(played, outcome, zones.KindHand)
	return outcome, nil
}

// PlayReserve plays one card from the over-hand or under-hand. The
// over-hand unlocks once the hand is empty and the under-hand once the hand
// and the over-hand are empty; cards still on their way there count. A
// reserve card the pile rejects is destroyed and the pile is picked up.
func (r *Round) PlayReserve(id cards.ID) (rules.Outcome, error) {
	card := r.table.Card(id)
	if card == nil {
		return rules.OutcomeInvalid, fmt.Errorf("play reserve card %d: %w", id, ErrUnknownCard)
	}
	kind, ok := r.table.Owner(id)
	if !ok || !kind.Reserve() {
		return rules.OutcomeInvalid, fmt.Errorf("play reserve card %d: %w", id, zones.ErrNotInZone)
	}

	if r.reserveLocked(kind) {
		r.publish(rules.NewEvent(rules.EventReserveLocked, int(id), kind.String()))
		r.shake(ShakeCard, r.cfg.Shake.Reserve, id)
		return rules.OutcomeInvalid, fmt.Errorf("play %s from %s: %w", card, kind, ErrReserveLocked)
	}

	start := r.position(id)
	card.Face = cards.FaceUp
	top := r.pileTop()
	outcome := rules.Evaluate([]cards.Card{*card}, top)
	if !outcome.Playable() {
		if err := r.misplay(id, start, kind); err != nil {
			return outcome, err
		}
		return outcome, fmt.Errorf("play %s from %s: %w", card, kind, ErrReserveMisplay)
	}

	if _, err := r.table.Detach(id); err != nil {
		return outcome, err
	}
	played := []cards.ID{id}
	if err := r.toPile(played, []cards.Point{start}, outcome, top); err != nil {
		return outcome, err
	}
	r.accept(played, outcome, kind)
	return outcome, nil
}

func (r *Round) reserveLocked(kind zones.Kind) bool {
	if r.occupied(zones.KindHand) {
		return true
	}
	return kind == zones.KindUnderHand && r.occupied(zones.KindOverHand)
}

func (r *Round) occupied(kind zones.Kind) bool {
	return r.table.Zone(kind).Len()+r.scheduler.Inbound(kind) > 0
}

// misplay destroys the reserve card and forces the whole pile into the hand.
func (r *Round) misplay(id cards.ID, start cards.Point, from zones.Kind) error {
	if _, err := r.table.Detach(id); err != nil {
		return err
	}
	if err := r.sendFrom([]cards.ID{id}, []cards.Point{start}, zones.KindDestroy, r.cfg.Timing.MisplayTicks); err != nil {
		return err
	}
	picked, err := r.takePile()
	if err != nil {
		return err
	}

	evt := rules.NewEvent(rules.EventReserveMisplay, int(id), from.String())
	evt.Rank = int(r.table.Card(id).Rank)
	evt.Amount = picked
	r.publish(evt)

	r.logger.Info("reserve misplay",
		zap.Int("card_id", int(id)),
		zap.String("zone", from.String()),
		zap.Int("picked_up", picked),
	)
	r.emitNotification(NotifyMisplay, map[string]interface{}{
		"card_id":   int(id),
		"picked_up": picked,
	})
	return nil
}

// PickUpPile moves the whole pile into the hand. It is refused while any
// single hand card could be played, and does nothing on an empty pile.
func (r *Round) PickUpPile() error {
	if r.table.Discard.Empty() {
		return nil
	}
	top := r.pileTop()
	for _, id := range r.table.Hand.Cards() {
		if rules.Evaluate([]cards.Card{*r.table.Card(id)}, top).Playable() {
			r.publish(rules.NewEvent(rules.EventPickupRefused, int(id), zones.KindHand.String()))
			r.shake(ShakePile, r.cfg.Shake.Pile, 0)
			return fmt.Errorf("pick up pile: %s is playable: %w", r.table.Card(id), ErrPickupRefused)
		}
	}

	picked, err := r.takePile()
	if err != nil {
		return err
	}
	r.publish(rules.NewEventWithAmount(rules.EventPilePickedUp, zones.KindDiscard.String(), picked))
	r.logger.Debug("pile picked up", zap.Int("cards", picked))
	r.emitNotification(NotifyPickup, map[string]interface{}{"cards": picked})
	return nil
}

// takePile schedules every pile card to the hand with its strength reset.
func (r *Round) takePile() (int, error) {
	ids := r.table.Discard.Cards()
	if len(ids) == 0 {
		return 0, nil
	}
	for _, id := range ids {
		card := r.table.Card(id)
		card.ResetStrength()
		card.Face = cards.FaceUp
	}
	if err := r.sendTo(ids, zones.KindHand, r.cfg.Timing.PickupTicks); err != nil {
		return 0, err
	}
	r.burnRequested = false
	return len(ids), nil
}

// toPile sends detached cards face up onto the pile, applying the outcome's
// effect on strength and burning.
func (r *Round) toPile(ids []cards.ID, starts []cards.Point, outcome rules.Outcome, top *rules.PileTop) error {
	for _, id := range ids {
		card := r.table.Card(id)
		card.Face = cards.FaceUp
		if outcome == rules.OutcomeCopy {
			card.Strength = rules.CopyStrength(top, r.cfg.Rules.CopyFallbackStrength)
		}
	}
	if err := r.sendFrom(ids, starts, zones.KindDiscard, r.cfg.Timing.PlayTicks); err != nil {
		return err
	}
	if outcome == rules.OutcomeBurn {
		r.burnRequested = true
	}
	return nil
}

func (r *Round) accept(ids []cards.ID, outcome rules.Outcome, from zones.Kind) {
	rank := r.table.Card(ids[0]).Rank
	evt := rules.NewEventWithAmount(rules.EventPlayAccepted, from.String(), len(ids))
	evt.Outcome = outcome
	evt.Rank = int(rank)
	r.publish(evt)

	r.logger.Debug("play accepted",
		zap.String("outcome", outcome.String()),
		zap.String("rank", rank.String()),
		zap.Int("cards", len(ids)),
		zap.String("from", from.String()),
	)
	r.emitNotification(NotifyPlay, map[string]interface{}{
		"outcome": outcome.String(),
		"rank":    int(rank),
		"cards":   len(ids),
		"from":    from.String(),
	})
}

func (r *Round) reject(rank cards.Rank, n int) {
	evt := rules.NewEventWithAmount(rules.EventPlayRejected, zones.KindHand.String(), n)
	evt.Outcome = rules.OutcomeInvalid
	evt.Rank = int(rank)
	r.publish(evt)
}
