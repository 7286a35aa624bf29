package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestNewReplay(t *testing.T) {
	replay := NewReplay("round-123")
	assert.Equal(t, "round-123", replay.RoundID)
	assert.Equal(t, 0, replay.CurrentIndex)
	assert.Equal(t, 0, replay.Size())
}

func TestReplayNavigation(t *testing.T) {
	replay := NewReplay("round-123")
	for i := 1; i <= 5; i++ {
		replay.RecordState(Snapshot{RoundID: "round-123", Frame: i})
	}
	require.Equal(t, 5, replay.Size())

	replay.Start()
	state, ok := replay.Next()
	require.True(t, ok)
	assert.Equal(t, 1, state.Frame)
	state, _ = replay.Next()
	assert.Equal(t, 2, state.Frame)
	assert.Equal(t, 2, replay.CurrentIndex)

	state, ok = replay.Previous()
	require.True(t, ok)
	assert.Equal(t, 2, state.Frame)
	state, _ = replay.Previous()
	assert.Equal(t, 1, state.Frame)

	_, ok = replay.Previous()
	assert.False(t, ok, "no state before the first")

	state, ok = replay.Skip(10)
	require.True(t, ok)
	assert.Equal(t, 5, state.Frame, "skip clamps to the last state")
	state, _ = replay.Skip(-2)
	assert.Equal(t, 3, state.Frame)
	state, _ = replay.Skip(-10)
	assert.Equal(t, 1, state.Frame)

	replay.Skip(10)
	replay.Next()
	_, ok = replay.Next()
	assert.False(t, ok, "no state past the end")

	_, ok = replay.GetStateAt(5)
	assert.False(t, ok)
	state, ok = replay.GetStateAt(4)
	require.True(t, ok)
	assert.Equal(t, 5, state.Frame)

	_, ok = NewReplay("empty").Skip(1)
	assert.False(t, ok)
}

func TestStartRecordingRequiresFreshRound(t *testing.T) {
	r := newTestRound(t, nil)
	r.Tick()

	err := NewReplayRecorder(nil).StartRecording(r)
	assert.Error(t, err)
}

func TestRecordAndPlayReproducesRound(t *testing.T) {
	cfg := testConfig()
	cfg.Seed = 21
	r := newTestRound(t, cfg)

	recorder := NewReplayRecorder(zaptest.NewLogger(t))
	require.NoError(t, recorder.StartRecording(r))
	assert.True(t, recorder.IsRecording())

	rng := rand.New(rand.NewSource(9))
	var checksums []string
	for frame := 0; frame < 400; frame++ {
		switch hand := r.table.Hand.Cards(); rng.Intn(4) {
		case 0, 1:
			if len(hand) > 0 {
				require.NoError(t, r.HandleInput(InputEvent{Kind: InputSelect, Card: hand[rng.Intn(len(hand))]}))
			}
		case 2:
			require.NoError(t, r.HandleInput(InputEvent{Kind: InputPlay}))
		case 3:
			require.NoError(t, r.HandleInput(InputEvent{Kind: InputPickup}))
		}
		r.Tick()
		checksums = append(checksums, r.Snapshot().Checksum().Hash)
	}

	rec := recorder.StopRecording(r)
	require.NotNil(t, rec)
	assert.False(t, recorder.IsRecording())
	assert.Equal(t, r.ID(), rec.RoundID)
	assert.Equal(t, int64(21), rec.Config.Seed)
	assert.Equal(t, 400, rec.TotalFrames)
	assert.NotEmpty(t, rec.Frames)

	replay, replayed, err := Play(rec, zaptest.NewLogger(t))
	require.NoError(t, err)
	require.Equal(t, 400, replay.Size())
	assert.NotEqual(t, r.ID(), replayed.ID())

	for i, want := range checksums {
		state, ok := replay.GetStateAt(i)
		require.True(t, ok)
		require.Equal(t, want, state.Checksum().Hash, "frame %d diverged", i+1)
	}
	assert.Equal(t, r.Stats().Plays(), replayed.Stats().Plays())
}

func TestReshuffleStopsRecording(t *testing.T) {
	r := newTestRound(t, nil)
	recorder := NewReplayRecorder(nil)
	require.NoError(t, recorder.StartRecording(r))

	r.Tick()
	require.NoError(t, r.Reshuffle())
	assert.False(t, recorder.IsRecording())
	assert.Nil(t, r.recorder)
}

func TestPlayNilRecording(t *testing.T) {
	_, _, err := Play(nil, nil)
	assert.Error(t, err)
}
