package game

import (
	"fmt"
	"sync"

	"github.com/palace-cards/palace-engine/internal/config"
	"go.uber.org/zap"
)

// Recording holds everything needed to reproduce a round: its
// configuration with the resolved seed, and the inputs queued before each
// frame.
type Recording struct {
	RoundID     string          `json:"round_id"`
	Config      config.Config   `json:"config"`
	TotalFrames int             `json:"total_frames"`
	Frames      []RecordedFrame `json:"frames"`
}

// RecordedFrame is the inputs queued ahead of one tick.
type RecordedFrame struct {
	Frame  int          `json:"frame"`
	Inputs []InputEvent `json:"inputs"`
}

// ReplayRecorder captures a round's accepted inputs as they are queued.
type ReplayRecorder struct {
	logger    *zap.Logger
	recording *Recording
	pending   []InputEvent
	start     int
}

// NewReplayRecorder creates a recorder. logger may be nil.
func NewReplayRecorder(logger *zap.Logger) *ReplayRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayRecorder{logger: logger}
}

// StartRecording attaches the recorder to the round. The round must not
// have ticked yet, since replays start from the deal.
func (rr *ReplayRecorder) StartRecording(r *Round) error {
	if r.Frame() != 0 {
		return fmt.Errorf("start recording round %s: already at frame %d", r.ID(), r.Frame())
	}
	cfg := *r.cfg
	cfg.Seed = r.seed
	rr.recording = &Recording{RoundID: r.id, Config: cfg}
	rr.pending = append(rr.pending[:0], r.queue...)
	rr.start = r.Frame()
	r.recorder = rr

	rr.logger.Info("replay recording started",
		zap.String("round_id", r.id),
		zap.Int64("seed", r.seed),
	)
	return nil
}

// StopRecording detaches the recorder and returns what it captured.
func (rr *ReplayRecorder) StopRecording(r *Round) *Recording {
	if r.recorder == rr {
		r.recorder = nil
	}
	rec := rr.recording
	rr.recording = nil
	rr.pending = nil
	if rec != nil {
		rr.logger.Info("replay recording stopped",
			zap.String("round_id", rec.RoundID),
			zap.Int("frames", rec.TotalFrames),
		)
	}
	return rec
}

// IsRecording reports whether the recorder is attached to a round.
func (rr *ReplayRecorder) IsRecording() bool {
	return rr.recording != nil
}

func (rr *ReplayRecorder) input(evt InputEvent) {
	if rr.recording != nil {
		rr.pending = append(rr.pending, evt)
	}
}

// frame is called as a tick begins.
func (rr *ReplayRecorder) frame(frame int) {
	if rr.recording == nil {
		return
	}
	rr.recording.TotalFrames = frame - rr.start
	if len(rr.pending) == 0 {
		return
	}
	inputs := make([]InputEvent, len(rr.pending))
	copy(inputs, rr.pending)
	rr.recording.Frames = append(rr.recording.Frames, RecordedFrame{Frame: frame, Inputs: inputs})
	rr.pending = rr.pending[:0]
}

// Replay is a recorded round as a sequence of per-frame snapshots.
type Replay struct {
	RoundID      string
	States       []Snapshot
	CurrentIndex int
	mu           sync.RWMutex
}

// NewReplay creates a new replay instance.
func NewReplay(roundID string) *Replay {
	return &Replay{
		RoundID: roundID,
		States:  make([]Snapshot, 0),
	}
}

// RecordState adds a new state snapshot to the replay.
func (r *Replay) RecordState(snapshot Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.States = append(r.States, snapshot)
}

// Start resets the replay to the beginning.
func (r *Replay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.CurrentIndex = 0
}

// Next returns the current state and moves forward.
func (r *Replay) Next() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex < len(r.States) {
		state := r.States[r.CurrentIndex]
		r.CurrentIndex++
		return state, true
	}
	return Snapshot{}, false
}

// Previous moves back one state and returns it.
func (r *Replay) Previous() (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.CurrentIndex > 0 {
		r.CurrentIndex--
		return r.States[r.CurrentIndex], true
	}
	return Snapshot{}, false
}

// Skip moves by count states, clamped to the recorded range.
func (r *Replay) Skip(count int) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.States) == 0 {
		return Snapshot{}, false
	}
	idx := r.CurrentIndex + count
	if idx >= len(r.States) {
		idx = len(r.States) - 1
	}
	if idx < 0 {
		idx = 0
	}
	r.CurrentIndex = idx
	return r.States[idx], true
}

// Size returns the number of recorded states.
func (r *Replay) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.States)
}

// GetStateAt returns the state at a specific index.
func (r *Replay) GetStateAt(index int) (Snapshot, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if index >= 0 && index < len(r.States) {
		return r.States[index], true
	}
	return Snapshot{}, false
}

// Play re-runs a recording from the deal and captures a snapshot after
// every frame. It returns the replay and the reconstructed round.
func Play(rec *Recording, logger *zap.Logger) (*Replay, *Round, error) {
	if rec == nil {
		return nil, nil, fmt.Errorf("play replay: nil recording")
	}
	cfg := rec.Config
	round, err := NewRound(&cfg, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("play replay %s: %w", rec.RoundID, err)
	}

	replay := NewReplay(rec.RoundID)
	next := 0
	for frame := 1; frame <= rec.TotalFrames; frame++ {
		if next < len(rec.Frames) && rec.Frames[next].Frame == frame {
			for _, in := range rec.Frames[next].Inputs {
				if err := round.HandleInput(in); err != nil {
					return nil, nil, fmt.Errorf("play replay %s frame %d: %w", rec.RoundID, frame, err)
				}
			}
			next++
		}
		round.Tick()
		replay.RecordState(round.Snapshot())
	}
	return replay, round, nil
}
