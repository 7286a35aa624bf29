package game

import (
	"fmt"
	"strings"

	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/zones"
)

// InputKind is the kind of a player input forwarded by the input collaborator.
type InputKind int

const (
	InputSelect InputKind = iota
	InputPlay
	InputReservePlay
	InputPickup
)

var inputKindNames = map[InputKind]string{
	InputSelect:      "select",
	InputPlay:        "play",
	InputReservePlay: "reserve",
	InputPickup:      "pickup",
}

func (k InputKind) String() string {
	if name, ok := inputKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("input_%d", int(k))
}

// ParseInputKind parses the wire name of an input kind.
func ParseInputKind(s string) (InputKind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for kind, name := range inputKindNames {
		if name == s {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("unknown input kind %q", s)
}

// InputEvent is a queued player input. Card is ignored for plays and pickups.
type InputEvent struct {
	Kind InputKind `json:"kind"`
	Card cards.ID  `json:"card"`
}

// InputResult records what happened to an input resolved during a tick.
type InputResult struct {
	Input InputEvent
	Err   error
}

// blocksOnPile reports whether the input must wait for the pile to settle.
func (e InputEvent) blocksOnPile() bool {
	return e.Kind != InputSelect
}

// HandleInput queues an input for the next tick.
func (r *Round) HandleInput(evt InputEvent) error {
	if _, ok := inputKindNames[evt.Kind]; !ok {
		return fmt.Errorf("handle input: unknown input kind %d", int(evt.Kind))
	}
	if (evt.Kind == InputSelect || evt.Kind == InputReservePlay) && r.table.Card(evt.Card) == nil {
		return fmt.Errorf("handle %s input for card %d: %w", evt.Kind, evt.Card, ErrUnknownCard)
	}
	r.queue = append(r.queue, evt)
	if r.recorder != nil {
		r.recorder.input(evt)
	}
	return nil
}

// Pending returns the number of queued inputs.
func (r *Round) Pending() int {
	return len(r.queue)
}

func (r *Round) pileSettled() bool {
	return r.scheduler.Inbound(zones.KindDiscard) == 0 && r.scheduler.Outbound(zones.KindDiscard) == 0
}

// resolveInputs applies queued inputs in order. The first play or pickup
// that meets an unsettled pile stops resolution; it and everything behind it
// stay queued so that a later selection cannot change an earlier play.
func (r *Round) resolveInputs() []InputResult {
	var results []InputResult
	i := 0
	for ; i < len(r.queue); i++ {
		evt := r.queue[i]
		if evt.blocksOnPile() && !r.pileSettled() {
			break
		}
		results = append(results, InputResult{Input: evt, Err: r.apply(evt)})
	}
	r.queue = append(r.queue[:0], r.queue[i:]...)
	return results
}

func (r *Round) apply(evt InputEvent) error {
	switch evt.Kind {
	case InputSelect:
		_, err := r.Select(evt.Card)
		return err
	case InputPlay:
		_, err := r.PlaySelection()
		return err
	case InputReservePlay:
		_, err := r.PlayReserve(evt.Card)
		return err
	case InputPickup:
		return r.PickUpPile()
	default:
		return fmt.Errorf("apply input: unknown input kind %d", int(evt.Kind))
	}
}
