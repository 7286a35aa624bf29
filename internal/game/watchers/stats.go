package watchers

import (
	"github.com/palace-cards/palace-engine/internal/game/rules"
)

// PlayStatsWatcher tallies what happened over a round.
type PlayStatsWatcher struct {
	*rules.BaseWatcher
	outcomes map[rules.Outcome]int
	rejected int
	burns    int
	burned   int
	pickups  int
	misplays int
	drawn    int
	landed   int
}

// Stats is a snapshot of a PlayStatsWatcher.
type Stats struct {
	Outcomes    map[rules.Outcome]int
	Rejected    int
	Burns       int
	CardsBurned int
	Pickups     int
	Misplays    int
	CardsDrawn  int
	CardsLanded int
}

// NewPlayStatsWatcher creates a new play statistics watcher.
func NewPlayStatsWatcher() *PlayStatsWatcher {
	return &PlayStatsWatcher{
		BaseWatcher: rules.NewBaseWatcher("PlayStatsWatcher"),
		outcomes:    make(map[rules.Outcome]int),
	}
}

// Watch implements the Watcher interface.
func (w *PlayStatsWatcher) Watch(event rules.Event) {
	switch event.Type {
	case rules.EventPlayAccepted:
		w.outcomes[event.Outcome]++
	case rules.EventPlayRejected:
		w.rejected++
	case rules.EventPileBurned:
		w.burns++
		w.burned += event.Amount
	case rules.EventPilePickedUp:
		w.pickups++
	case rules.EventReserveMisplay:
		w.misplays++
	case rules.EventCardsDrawn:
		w.drawn += event.Amount
	case rules.EventTransferFinalized:
		w.landed++
	default:
		return
	}
	w.SetCondition(true)
}

// Reset clears the watcher's state.
func (w *PlayStatsWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.outcomes = make(map[rules.Outcome]int)
	w.rejected = 0
	w.burns = 0
	w.burned = 0
	w.pickups = 0
	w.misplays = 0
	w.drawn = 0
	w.landed = 0
}

// Plays returns the number of accepted plays.
func (w *PlayStatsWatcher) Plays() int {
	return w.Snapshot().Plays()
}

// Snapshot copies the current tallies.
func (w *PlayStatsWatcher) Snapshot() Stats {
	outcomes := make(map[rules.Outcome]int, len(w.outcomes))
	for k, v := range w.outcomes {
		outcomes[k] = v
	}
	return Stats{
		Outcomes:    outcomes,
		Rejected:    w.rejected,
		Burns:       w.burns,
		CardsBurned: w.burned,
		Pickups:     w.pickups,
		Misplays:    w.misplays,
		CardsDrawn:  w.drawn,
		CardsLanded: w.landed,
	}
}

// Plays returns the number of accepted plays in the snapshot.
func (s Stats) Plays() int {
	total := 0
	for _, n := range s.Outcomes {
		total += n
	}
	return total
}
