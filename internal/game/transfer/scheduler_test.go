package transfer

import (
	"math/rand"
	"testing"

	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/rules"
	"github.com/palace-cards/palace-engine/internal/game/zones"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newTestScheduler(t *testing.T) (*Scheduler, *zones.Table, *rules.EventBus) {
	t.Helper()
	table := zones.NewTable(cards.NewStandardArena(), rand.New(rand.NewSource(3)))
	bus := rules.NewEventBus()
	return NewScheduler(table, bus, zaptest.NewLogger(t)), table, bus
}

// total counts cards in zones plus cards in flight.
func total(s *Scheduler, table *zones.Table) int {
	return table.Count() + s.Len()
}

func TestScheduleDetachesImmediately(t *testing.T) {
	s, table, _ := newTestScheduler(t)

	id := table.Deck.Peek(1)[0]
	start := cards.Point{X: 1100, Y: 350}
	end := cards.Point{X: 475, Y: 725}
	require.NoError(t, s.Schedule([]cards.ID{id}, zones.KindHand, start, end, 10))

	assert.False(t, table.Deck.Contains(id))
	assert.False(t, table.Hand.Contains(id))
	_, owned := table.Owner(id)
	assert.False(t, owned)
	assert.True(t, table.Card(id).InTransit)
	assert.Equal(t, start, table.Card(id).Position)
	assert.True(t, s.InTransit(id))
	assert.Equal(t, 1, s.Inbound(zones.KindHand))
	assert.Equal(t, 1, s.Outbound(zones.KindDeck))
	assert.Equal(t, cards.StandardDeckSize, total(s, table))
}

func TestAdvanceInterpolatesAndFinalizes(t *testing.T) {
	s, table, _ := newTestScheduler(t)

	id := table.Deck.Peek(1)[0]
	start := cards.Point{X: 0, Y: 0}
	end := cards.Point{X: 100, Y: 200}
	require.NoError(t, s.Schedule([]cards.ID{id}, zones.KindDiscard, start, end, 4))

	expected := []cards.Point{
		{X: 0, Y: 0},
		{X: 25, Y: 50},
		{X: 50, Y: 100},
	}
	for i, want := range expected {
		landed := s.Advance()
		assert.Empty(t, landed, "tick %d", i)
		assert.Equal(t, want, table.Card(id).Position, "tick %d", i)
		assert.False(t, table.Discard.Contains(id))
		assert.Equal(t, cards.StandardDeckSize, total(s, table))
	}

	landed := s.Advance()
	assert.Equal(t, []cards.ID{id}, landed)
	assert.True(t, table.Discard.Contains(id))
	assert.False(t, table.Card(id).InTransit)
	assert.Equal(t, end, table.Card(id).Position)
	assert.True(t, s.Idle())
	assert.Equal(t, cards.StandardDeckSize, total(s, table))
}

func TestZeroDurationFinalizesOnFirstAdvance(t *testing.T) {
	s, table, _ := newTestScheduler(t)

	id := table.Deck.Peek(1)[0]
	end := cards.Point{X: 9, Y: 9}
	require.NoError(t, s.Schedule([]cards.ID{id}, zones.KindBurn, cards.Point{}, end, 0))
	assert.False(t, table.Burn.Contains(id))

	landed := s.Advance()
	assert.Equal(t, []cards.ID{id}, landed)
	assert.True(t, table.Burn.Contains(id))
	assert.Equal(t, end, table.Card(id).Position)
}

func TestSimultaneousArrivalsKeepScheduleOrder(t *testing.T) {
	s, table, _ := newTestScheduler(t)

	ids := table.Deck.Peek(4)
	// Schedule in reverse so insertion order differs from deck order.
	for i := len(ids) - 1; i >= 0; i-- {
		require.NoError(t, s.Schedule([]cards.ID{ids[i]}, zones.KindDiscard, cards.Point{}, cards.Point{}, 2))
	}

	s.Advance()
	landed := s.Advance()

	want := []cards.ID{ids[3], ids[2], ids[1], ids[0]}
	assert.Equal(t, want, landed)
	assert.Equal(t, want, table.Discard.Cards())
}

func TestMixedDurations(t *testing.T) {
	s, table, _ := newTestScheduler(t)
	ids := table.Deck.Peek(2)

	require.NoError(t, s.Schedule(ids[:1], zones.KindHand, cards.Point{}, cards.Point{}, 3))
	require.NoError(t, s.Schedule(ids[1:], zones.KindHand, cards.Point{}, cards.Point{}, 1))

	assert.Equal(t, []cards.ID{ids[1]}, s.Advance())
	assert.Empty(t, s.Advance())
	assert.Equal(t, []cards.ID{ids[0]}, s.Advance())
	assert.Equal(t, []cards.ID{ids[1], ids[0]}, table.Hand.Cards())
}

func TestSchedulePreDetachedCards(t *testing.T) {
	s, table, _ := newTestScheduler(t)

	drawn := table.Draw(2)
	require.Len(t, drawn, 2)
	assert.Equal(t, cards.StandardDeckSize-2, table.Count())

	require.NoError(t, s.Schedule(drawn, zones.KindHand, cards.Point{}, cards.Point{}, 1))
	assert.Equal(t, 0, s.Outbound(zones.KindDeck))
	assert.Equal(t, cards.StandardDeckSize, total(s, table))

	s.Advance()
	assert.Equal(t, drawn, table.Hand.Cards())
}

func TestScheduleRejectsBadInput(t *testing.T) {
	s, table, _ := newTestScheduler(t)
	id := table.Deck.Peek(1)[0]

	err := s.Schedule([]cards.ID{id}, zones.KindHand, cards.Point{}, cards.Point{}, -1)
	assert.ErrorIs(t, err, ErrNegativeDuration)

	err = s.Schedule([]cards.ID{id, id}, zones.KindHand, cards.Point{}, cards.Point{}, 1)
	assert.ErrorIs(t, err, ErrInTransit)
	assert.True(t, table.Deck.Contains(id), "rejected schedule must not detach")

	require.NoError(t, s.Schedule([]cards.ID{id}, zones.KindHand, cards.Point{}, cards.Point{}, 5))
	err = s.Schedule([]cards.ID{id}, zones.KindDiscard, cards.Point{}, cards.Point{}, 1)
	assert.ErrorIs(t, err, ErrInTransit)

	err = s.Schedule([]cards.ID{cards.ID(99)}, zones.KindHand, cards.Point{}, cards.Point{}, 1)
	assert.Error(t, err)
}

func TestFlushLandsEverything(t *testing.T) {
	s, table, _ := newTestScheduler(t)
	ids := table.Deck.Peek(3)
	require.NoError(t, s.Schedule(ids, zones.KindDestroy, cards.Point{}, cards.Point{X: 5}, 100))

	landed := s.Flush()
	assert.Equal(t, ids, landed)
	assert.True(t, s.Idle())
	assert.Equal(t, ids, table.Destroy.Cards())
	for _, id := range ids {
		assert.False(t, table.Card(id).InTransit)
		assert.Equal(t, cards.Point{X: 5}, table.Card(id).Position)
	}
}

func TestSchedulerPublishesEvents(t *testing.T) {
	s, table, bus := newTestScheduler(t)

	var seen []rules.EventType
	bus.Subscribe(func(e rules.Event) { seen = append(seen, e.Type) })

	id := table.Deck.Peek(1)[0]
	require.NoError(t, s.Schedule([]cards.ID{id}, zones.KindDiscard, cards.Point{}, cards.Point{}, 1))
	s.Advance()

	assert.Equal(t, []rules.EventType{
		rules.EventCardDetached,
		rules.EventTransferScheduled,
		rules.EventCardAttached,
		rules.EventTransferFinalized,
	}, seen)
}

func TestTransferProgress(t *testing.T) {
	tr := &Transfer{TotalTicks: 4, ElapsedTicks: 1}
	assert.InDelta(t, 0.25, tr.Progress(), 1e-9)
	tr.ElapsedTicks = 8
	assert.Equal(t, 1.0, tr.Progress())
	assert.Equal(t, 1.0, (&Transfer{}).Progress())

	s, table, _ := newTestScheduler(t)
	id := table.Deck.Peek(1)[0]
	require.NoError(t, s.Schedule([]cards.ID{id}, zones.KindHand, cards.Point{}, cards.Point{}, 2))
	snapshot := s.Transfers()
	require.Len(t, snapshot, 1)
	assert.Equal(t, id, snapshot[0].Card)
	assert.Equal(t, zones.KindDeck, snapshot[0].Source)
	assert.NotEmpty(t, snapshot[0].ID)
}
