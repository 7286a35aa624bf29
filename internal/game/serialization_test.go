package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksumIgnoresRoundIdentity(t *testing.T) {
	a := newTestRound(t, nil)
	b := newTestRound(t, nil)
	require.NotEqual(t, a.ID(), b.ID())

	for i := 0; i < 30; i++ {
		a.Tick()
		b.Tick()
	}
	sa, sb := a.Snapshot().Checksum(), b.Snapshot().Checksum()
	assert.Equal(t, sa.Hash, sb.Hash)
	assert.Equal(t, 30, sa.Frame)
	assert.Equal(t, 1, sa.Version)
	assert.Len(t, sa.Hash, 64)
}

func TestChecksumIsStable(t *testing.T) {
	r := newTestRound(t, nil)
	settle(t, r)

	want := r.Snapshot().Checksum().Hash
	for i := 0; i < 10; i++ {
		assert.Equal(t, want, r.Snapshot().Checksum().Hash)
	}
}

func TestChecksumTracksState(t *testing.T) {
	r := newTestRound(t, nil)
	settle(t, r)
	before := r.Snapshot().Checksum().Hash

	hand := r.table.Hand.Cards()
	require.NotEmpty(t, hand)
	_, err := r.Select(hand[0])
	require.NoError(t, err)
	assert.NotEqual(t, before, r.Snapshot().Checksum().Hash, "selection is observable")

	other := newTestRound(t, nil)
	settle(t, other)
	_, err = other.Select(hand[0])
	require.NoError(t, err)
	assert.Equal(t, r.Snapshot().Checksum().Hash, other.Snapshot().Checksum().Hash)
}
