package game

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/palace-cards/palace-engine/internal/config"
	"github.com/palace-cards/palace-engine/internal/game/cards"
	"github.com/palace-cards/palace-engine/internal/game/rules"
	"github.com/palace-cards/palace-engine/internal/game/transfer"
	"github.com/palace-cards/palace-engine/internal/game/watchers"
	"github.com/palace-cards/palace-engine/internal/game/zones"
	"go.uber.org/zap"
)

// Round is the state of one round of Palace: the arena, every zone, the
// transfer scheduler, and the queued inputs. It is mutated only through its
// methods, from a single frame loop, and is not safe for concurrent use.
type Round struct {
	id        string
	seed      int64
	cfg       *config.Config
	base      *zap.Logger
	logger    *zap.Logger
	layout    Layout
	table     *zones.Table
	scheduler *transfer.Scheduler
	bus       *rules.EventBus
	watchers  *rules.WatcherRegistry
	burn      *watchers.AutoBurnWatcher
	stats     *watchers.PlayStatsWatcher
	clock     *rules.TickClock
	notify    NotificationHandler
	recorder  *ReplayRecorder

	queue         []InputEvent
	burnRequested bool
	startedAt     time.Time
}

// TickReport summarizes one frame.
type TickReport struct {
	Frame    int
	Inputs   []InputResult
	Deferred int
	Landed   []cards.ID
	Burned   int
	Drawn    int
}

// NewRound shuffles a fresh deck and schedules the deal. A nil cfg uses the
// defaults and a nil logger discards output.
func NewRound(cfg *config.Config, logger *zap.Logger) (*Round, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("new round: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	r := &Round{
		seed:     seed,
		cfg:      cfg,
		base:     logger,
		layout:   NewLayout(cfg.Layout),
		bus:      rules.NewEventBus(),
		watchers: rules.NewWatcherRegistry(),
		burn:     watchers.NewAutoBurnWatcher(),
		stats:    watchers.NewPlayStatsWatcher(),
		clock:    rules.NewTickClock(),
	}
	r.table = zones.NewTable(cards.NewStandardArena(), rand.New(rand.NewSource(seed)))
	r.watchers.AddWatcher(r.burn)
	r.watchers.AddWatcher(r.stats)
	r.watchers.Attach(r.bus)
	r.setID(uuid.New().String())

	if err := r.start(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Round) setID(id string) {
	r.id = id
	r.logger = r.base.With(zap.String("round_id", id))
	r.scheduler = transfer.NewScheduler(r.table, r.bus, r.logger)
}

// start shuffles and deals: the under-hand face down, the over-hand face up,
// then the opening hand.
func (r *Round) start() error {
	r.startedAt = time.Now()
	r.table.Deck.Shuffle()
	r.publish(rules.NewEventWithAmount(rules.EventShuffled, zones.KindDeck.String(), r.table.Deck.Len()))

	reserve := r.cfg.Rules.ReserveSize
	if _, err := r.deal(zones.KindUnderHand, reserve, cards.FaceDown, r.cfg.Timing.DealTicks); err != nil {
		return fmt.Errorf("deal under-hand: %w", err)
	}
	if _, err := r.deal(zones.KindOverHand, reserve, cards.FaceUp, r.cfg.Timing.DealTicks); err != nil {
		return fmt.Errorf("deal over-hand: %w", err)
	}
	r.refillHand()

	evt := rules.NewEvent(rules.EventRoundStarted, -1, "")
	evt.Metadata["seed"] = fmt.Sprintf("%d", r.seed)
	r.publish(evt)

	r.logger.Info("round started",
		zap.Int64("seed", r.seed),
		zap.Int("reserve_size", reserve),
		zap.Int("min_hand_size", r.cfg.Rules.MinHandSize),
	)
	return nil
}

// ID returns the round's unique ID.
func (r *Round) ID() string {
	return r.id
}

// Seed returns the seed of the round's RNG.
func (r *Round) Seed() int64 {
	return r.seed
}

// Table exposes the zones for read-only inspection.
func (r *Round) Table() *zones.Table {
	return r.table
}

// Scheduler exposes the transfer scheduler for read-only inspection.
func (r *Round) Scheduler() *transfer.Scheduler {
	return r.scheduler
}

// Events returns the round's event bus.
func (r *Round) Events() *rules.EventBus {
	return r.bus
}

// Frame returns the number of ticks run so far.
func (r *Round) Frame() int {
	return r.clock.Frame()
}

// Tick runs one frame: resolve inputs, advance transfers, check for a
// burn, refill the hand.
func (r *Round) Tick() TickReport {
	var report TickReport
	step := r.clock.BeginFrame()
	report.Frame = r.clock.Frame()
	if r.recorder != nil {
		r.recorder.frame(report.Frame)
	}
	for ok := true; ok; step, ok = r.clock.AdvanceStep() {
		r.publishStep(step)
		switch step {
		case rules.StepResolveInput:
			report.Inputs = r.resolveInputs()
			report.Deferred = len(r.queue)
		case rules.StepAdvanceTransfers:
			report.Landed = r.scheduler.Advance()
		case rules.StepCheckBurn:
			report.Burned = r.checkBurn()
		case rules.StepRefillHand:
			report.Drawn = r.refillHand()
		}
	}
	for _, res := range report.Inputs {
		if res.Err != nil {
			r.logger.Debug("input rejected",
				zap.String("kind", res.Input.Kind.String()),
				zap.Int("card_id", int(res.Input.Card)),
				zap.Error(res.Err),
			)
		}
	}
	return report
}

func (r *Round) publishStep(step rules.TickStep) {
	evt := rules.NewEvent(rules.EventStepChanged, -1, "")
	evt.Amount = r.clock.Frame()
	evt.Description = step.String()
	r.publish(evt)
}

// checkBurn burns the pile once it has settled, when a Burn play asked for
// it or the pile shows a 9 or four of a kind on top.
func (r *Round) checkBurn() int {
	if !r.burnRequested && !r.burn.ConditionMet() {
		return 0
	}
	if !r.pileSettled() {
		return 0
	}
	reason := r.burn.Reason()
	r.burnRequested = false
	if r.table.Discard.Empty() {
		return 0
	}
	return r.burnPile(reason)
}

func (r *Round) burnPile(reason watchers.BurnReason) int {
	ids := r.table.Discard.Cards()
	if err := r.sendTo(ids, zones.KindBurn, r.cfg.Timing.BurnTicks); err != nil {
		r.logger.Error("failed to burn pile", zap.Error(err))
		return 0
	}

	evt := rules.NewEventWithAmount(rules.EventPileBurned, zones.KindDiscard.String(), len(ids))
	evt.Description = reason.String()
	r.publish(evt)

	r.logger.Info("pile burned",
		zap.Int("cards", len(ids)),
		zap.String("reason", reason.String()),
	)
	r.shake(ShakeScreen, r.cfg.Shake.Screen, 0)
	r.emitNotification(NotifyBurn, map[string]interface{}{
		"cards":  len(ids),
		"reason": reason.String(),
	})
	return len(ids)
}

// refillHand tops the hand up to the minimum size. Cards already on their
// way to the hand count towards it.
func (r *Round) refillHand() int {
	have := r.table.Hand.Len() + r.scheduler.Inbound(zones.KindHand)
	need := r.cfg.Rules.MinHandSize - have
	if need <= 0 {
		return 0
	}
	drawn, err := r.deal(zones.KindHand, need, cards.FaceUp, r.cfg.Timing.DrawTicks)
	if err != nil {
		r.logger.Error("failed to refill hand", zap.Error(err))
		return 0
	}
	return drawn
}

// deal moves up to n cards from the front of the deck to a zone. A short
// deck deals what it has.
func (r *Round) deal(kind zones.Kind, n int, face cards.Face, ticks int) (int, error) {
	if n <= 0 {
		return 0, nil
	}
	ids := r.table.Deck.Peek(n)
	if len(ids) < n {
		r.logger.Debug("deck exhausted",
			zap.Int("requested", n),
			zap.Int("available", len(ids)),
		)
	}
	if len(ids) == 0 {
		return 0, nil
	}
	for _, id := range ids {
		r.table.Card(id).Face = face
	}
	if err := r.sendTo(ids, kind, ticks); err != nil {
		return 0, err
	}
	r.publish(rules.NewEventWithAmount(rules.EventCardsDrawn, kind.String(), len(ids)))
	return len(ids), nil
}

// sendTo schedules owned cards from their current slots to the next free
// slots of dest.
func (r *Round) sendTo(ids []cards.ID, dest zones.Kind, ticks int) error {
	starts := make([]cards.Point, len(ids))
	for i, id := range ids {
		starts[i] = r.position(id)
	}
	return r.sendFrom(ids, starts, dest, ticks)
}

// sendFrom schedules cards, which may already be detached, from the given
// start points.
func (r *Round) sendFrom(ids []cards.ID, starts []cards.Point, dest zones.Kind, ticks int) error {
	base := r.table.Zone(dest).Len() + r.scheduler.Inbound(dest)
	count := base + len(ids)
	moves := make([]transfer.Move, len(ids))
	for i, id := range ids {
		moves[i] = transfer.Move{
			Card:  id,
			Start: starts[i],
			End:   r.layout.Slot(dest, base+i, count),
		}
	}
	return r.scheduler.ScheduleMoves(moves, dest, ticks)
}

// position is where the card is drawn right now.
func (r *Round) position(id cards.ID) cards.Point {
	card := r.table.Card(id)
	if card.InTransit {
		return card.Position
	}
	kind, ok := r.table.Owner(id)
	if !ok {
		return card.Position
	}
	zone := r.table.Zone(kind)
	return r.layout.Slot(kind, indexOf(zone, id), zone.Len())
}

func indexOf(zone zones.Zone, id cards.ID) int {
	for i, c := range zone.Cards() {
		if c == id {
			return i
		}
	}
	return -1
}

// pileTop returns the comparison basis of the settled pile, nil when empty.
func (r *Round) pileTop() *rules.PileTop {
	id, ok := r.table.Discard.Top()
	if !ok {
		return nil
	}
	return rules.TopOf(*r.table.Card(id))
}

// Reshuffle lands every in-flight card, gathers the table back into the
// deck and deals a new round with a fresh ID. It ends any recording.
func (r *Round) Reshuffle() error {
	if r.recorder != nil {
		r.recorder.StopRecording(r)
	}
	r.scheduler.Flush()
	r.table.Gather()
	r.watchers.ResetWatchers()
	r.queue = nil
	r.burnRequested = false

	r.setID(uuid.New().String())
	return r.start()
}

func (r *Round) publish(evt rules.Event) {
	evt.Metadata["round_id"] = r.id
	r.bus.Publish(evt)
}
