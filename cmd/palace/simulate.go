package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/palace-cards/palace-engine/internal/game"
	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/rules"
	"github.com/palace-cards/palace-engine/internal/game/zones"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var (
		maxFrames int
		noColor   bool
		verify    bool
	)
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Play a scripted round headlessly and print what happens",
		Long: `Simulate plays one round with a simple scripted player: it plays the
weakest legal rank from the hand, falls back to the reserve stacks once the
hand is empty, and picks the pile up when nothing is playable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if noColor {
				color.NoColor = true
			}
			logger, err := initLogger(cfg.Logging)
			if err != nil {
				return err
			}
			defer logger.Sync()

			round, err := game.NewRound(cfg, logger)
			if err != nil {
				return err
			}
			var recorder *game.ReplayRecorder
			if verify {
				recorder = game.NewReplayRecorder(logger)
				if err := recorder.StartRecording(round); err != nil {
					return err
				}
			}
			result := simulate(round, cmd.OutOrStdout(), maxFrames)
			logger.Info("simulation finished",
				zap.Int("frames", result.Frames),
				zap.Bool("cleared", result.Cleared),
			)
			if recorder != nil {
				return verifyReplay(cmd.OutOrStdout(), round, recorder.StopRecording(round), logger)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&maxFrames, "frames", "n", 20000, "maximum number of frames to run")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&verify, "verify-replay", false, "replay the recorded inputs and compare the final checksum")
	return cmd
}

type simResult struct {
	Frames  int
	Cleared bool
}

var (
	headerColor = color.New(color.FgCyan, color.Bold)
	redSuit     = color.New(color.FgRed)
	blackSuit   = color.New(color.FgHiWhite)
	burnColor   = color.New(color.FgRed, color.Bold)
	pickupColor = color.New(color.FgYellow)
	misplayCol  = color.New(color.FgMagenta)
	dimColor    = color.New(color.Faint)
)

// simulate runs the round with the scripted player until every zone the
// player draws from is empty or maxFrames have passed.
func simulate(r *game.Round, out io.Writer, maxFrames int) simResult {
	bus := r.Events()
	handle := bus.Subscribe(func(e rules.Event) { printEvent(out, r, e) })
	defer bus.Unsubscribe(handle)

	headerColor.Fprintf(out, "Palace round %s (seed %d)\n", r.ID(), r.Seed())

	var result simResult
	for result.Frames < maxFrames {
		inputs, done := nextInputs(r)
		if done {
			result.Cleared = true
			break
		}
		for _, in := range inputs {
			_ = r.HandleInput(in)
		}
		r.Tick()
		result.Frames++
	}
	printSummary(out, r, result)
	return result
}

// nextInputs decides what the scripted player does this frame. It waits for
// the table to settle and reports done once nothing is left to play.
func nextInputs(r *game.Round) ([]game.InputEvent, bool) {
	if r.Pending() > 0 || !r.Scheduler().Idle() {
		return nil, false
	}
	t := r.Table()
	top := pileTop(t)

	if hand := t.Hand.Cards(); len(hand) > 0 {
		group := choosePlay(t.Arena().Collect(hand), top)
		if group == nil {
			return []game.InputEvent{{Kind: game.InputPickup}}, false
		}
		inputs := make([]game.InputEvent, 0, len(group)+1)
		for _, id := range group {
			inputs = append(inputs, game.InputEvent{Kind: game.InputSelect, Card: id})
		}
		return append(inputs, game.InputEvent{Kind: game.InputPlay}), false
	}

	if over := t.OverHand.Cards(); len(over) > 0 {
		pick := over[0]
		for _, c := range t.Arena().Collect(over) {
			if rules.Evaluate([]cards.Card{c}, top).Playable() {
				pick = c.ID
				break
			}
		}
		return []game.InputEvent{{Kind: game.InputReservePlay, Card: pick}}, false
	}
	if under := t.UnderHand.Cards(); len(under) > 0 {
		return []game.InputEvent{{Kind: game.InputReservePlay, Card: under[0]}}, false
	}
	return nil, t.Deck.Empty()
}

func pileTop(t *zones.Table) *rules.PileTop {
	id, ok := t.Discard.Top()
	if !ok {
		return nil
	}
	return rules.TopOf(*t.Card(id))
}

// choosePlay picks every card of the weakest rank that plays normally, and
// only spends power cards when nothing else is legal.
func choosePlay(hand []cards.Card, top *rules.PileTop) []cards.ID {
	byRank := make(map[cards.Rank][]cards.Card)
	for _, c := range hand {
		byRank[c.Rank] = append(byRank[c.Rank], c)
	}

	type option struct {
		ids      []cards.ID
		outcome  rules.Outcome
		strength int
	}
	var options []option
	for _, group := range byRank {
		outcome := rules.Evaluate(group, top)
		if !outcome.Playable() {
			continue
		}
		ids := make([]cards.ID, len(group))
		for i, c := range group {
			ids[i] = c.ID
		}
		options = append(options, option{ids: ids, outcome: outcome, strength: group[0].Strength})
	}
	if len(options) == 0 {
		return nil
	}

	preference := map[rules.Outcome]int{
		rules.OutcomeNormal: 0,
		rules.OutcomeReset:  1,
		rules.OutcomeCopy:   2,
		rules.OutcomeBurn:   3,
	}
	sort.Slice(options, func(i, j int) bool {
		pi, pj := preference[options[i].outcome], preference[options[j].outcome]
		if pi != pj {
			return pi < pj
		}
		if options[i].strength != options[j].strength {
			return options[i].strength < options[j].strength
		}
		return options[i].ids[0] < options[j].ids[0]
	})
	return options[0].ids
}

func cardLabel(c *cards.Card) string {
	if c.Suit.Red() {
		return redSuit.Sprint(c.String())
	}
	return blackSuit.Sprint(c.String())
}

func printEvent(out io.Writer, r *game.Round, e rules.Event) {
	frame := dimColor.Sprintf("[%05d]", r.Frame())
	switch e.Type {
	case rules.EventPlayAccepted:
		fmt.Fprintf(out, "%s played %d x %s from %s (%s)\n",
			frame, e.Amount, cards.Rank(e.Rank), strings.ToLower(e.Zone), e.Outcome)
	case rules.EventPileBurned:
		fmt.Fprintf(out, "%s %s\n", frame, burnColor.Sprintf("burned %d cards (%s)", e.Amount, e.Description))
	case rules.EventPilePickedUp:
		fmt.Fprintf(out, "%s %s\n", frame, pickupColor.Sprintf("picked up %d cards", e.Amount))
	case rules.EventReserveMisplay:
		card := r.Table().Card(cards.ID(e.CardID))
		fmt.Fprintf(out, "%s %s %s, picked up %d cards\n", frame, misplayCol.Sprint("misplayed"), cardLabel(card), e.Amount)
	case rules.EventCardAttached:
		if e.Zone == zones.KindDiscard.String() {
			if card := r.Table().Card(cards.ID(e.CardID)); card != nil {
				fmt.Fprintf(out, "%s   pile <- %s\n", frame, cardLabel(card))
			}
		}
	}
}

func printSummary(out io.Writer, r *game.Round, result simResult) {
	stats := r.Stats()
	t := r.Table()
	headerColor.Fprintln(out, "Summary")
	fmt.Fprintf(out, "  frames:   %d\n", result.Frames)
	fmt.Fprintf(out, "  cleared:  %t\n", result.Cleared)
	fmt.Fprintf(out, "  plays:    %d (rejected %d)\n", stats.Plays(), stats.Rejected)
	fmt.Fprintf(out, "  burns:    %d (%d cards)\n", stats.Burns, stats.CardsBurned)
	fmt.Fprintf(out, "  pickups:  %d\n", stats.Pickups)
	fmt.Fprintf(out, "  misplays: %d\n", stats.Misplays)
	for _, kind := range zones.Kinds {
		fmt.Fprintf(out, "  %-11s %d\n", strings.ToLower(kind.String())+":", t.Zone(kind).Len())
	}
	fmt.Fprintf(out, "  total:    %d\n", r.CountCards())
}

// verifyReplay re-runs the recording from its seed and checks that it ends
// in the same state as the live round.
func verifyReplay(out io.Writer, r *game.Round, rec *game.Recording, logger *zap.Logger) error {
	replay, _, err := game.Play(rec, logger)
	if err != nil {
		return err
	}
	want := r.Snapshot().Checksum()
	got, ok := replay.GetStateAt(replay.Size() - 1)
	if !ok {
		return fmt.Errorf("verify replay %s: no frames recorded", rec.RoundID)
	}
	if sum := got.Checksum(); sum.Hash != want.Hash {
		return fmt.Errorf("verify replay %s: checksum %s at frame %d, want %s", rec.RoundID, sum.Hash, sum.Frame, want.Hash)
	}
	fmt.Fprintf(out, "  replay:   %d frames, checksum %s\n", replay.Size(), want.Hash[:12])
	return nil
}
