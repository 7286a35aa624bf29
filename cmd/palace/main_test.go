package main

import (
	"bytes"
	"testing"

	"github.com/fatih/color"
	"github.com/palace-cards/palace-engine/internal/config"
	"github.com/palace-cards/palace-engine/internal/game"
	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func init() {
	color.NoColor = true
}

func TestChoosePlayPrefersWeakestNormalRank(t *testing.T) {
	hand := []cards.Card{
		cards.New(0, cards.RankKing, cards.SuitHearts),
		cards.New(1, cards.RankFive, cards.SuitHearts),
		cards.New(2, cards.RankFive, cards.SuitSpades),
		cards.New(3, cards.RankTwo, cards.SuitClubs),
		cards.New(4, cards.RankThree, cards.SuitClubs),
	}

	got := choosePlay(hand, &rules.PileTop{Strength: 4})
	assert.ElementsMatch(t, []cards.ID{1, 2}, got)

	got = choosePlay(hand, &rules.PileTop{Strength: 14})
	assert.Equal(t, []cards.ID{3}, got, "power cards only when nothing else plays")

	assert.Nil(t, choosePlay(hand[:1], &rules.PileTop{Strength: 14}))
}

func TestSimulateKeepsEveryCard(t *testing.T) {
	cfg := config.Default()
	cfg.Seed = 1234
	cfg.Timing = config.TimingConfig{DealTicks: 1, DrawTicks: 1, PlayTicks: 1, BurnTicks: 1, PickupTicks: 1, MisplayTicks: 1}

	round, err := game.NewRound(cfg, zaptest.NewLogger(t))
	require.NoError(t, err)

	var out bytes.Buffer
	result := simulate(round, &out, 5000)

	assert.Positive(t, result.Frames)
	assert.Equal(t, cards.StandardDeckSize, round.CountCards())
	assert.Contains(t, out.String(), "Palace round "+round.ID())
	assert.Contains(t, out.String(), "total:    52")
	assert.Positive(t, round.Stats().Plays())
}

func TestRootCommandWiring(t *testing.T) {
	root := newRootCmd()
	names := map[string]bool{}
	for _, c := range root.Commands() {
		names[c.Name()] = true
	}
	assert.True(t, names["serve"])
	assert.True(t, names["simulate"])

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"simulate", "--seed", "7", "--frames", "50", "--log-level", "error", "--no-color"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "seed 7")
}

func TestSimulateVerifiesReplay(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"simulate", "--seed", "3", "--frames", "300", "--log-level", "error", "--no-color", "--verify-replay"})
	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "replay:   300 frames")
}

func TestInitLogger(t *testing.T) {
	for _, cfg := range []config.LoggingConfig{
		{Level: "debug", Format: "console"},
		{Level: "warn", Format: "json"},
		{Level: "bogus"},
	} {
		logger, err := initLogger(cfg)
		require.NoError(t, err)
		assert.NotNil(t, logger)
	}
}
