package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/palace-cards/palace-engine/internal/config"
	"github.com/palace-cards/palace-engine/internal/game"
	"github.com/palace-cards/palace-engine/internal/game/cards"
	"go.uber.org/zap"
)

// Message types on the wire.
const (
	MessageInput        = "input"
	MessageReshuffle    = "reshuffle"
	MessageFrame        = "frame"
	MessageNotification = "notification"
	MessageError        = "error"
)

const (
	sendBuffer   = 256
	writeTimeout = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // local renderer bridge
	},
}

// Message is the envelope for every websocket message in both directions.
type Message struct {
	Type    string `json:"type"`
	RoundID string `json:"round_id,omitempty"`
	Kind    string `json:"kind,omitempty"`
	Card    *int   `json:"card,omitempty"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type client struct {
	id   string
	conn *websocket.Conn
	send chan []byte
}

type request struct {
	from *client
	msg  Message
}

// Bridge connects renderers to a round over websockets. Run owns the round:
// connection goroutines only hand messages to it over channels.
type Bridge struct {
	round  *game.Round
	cfg    config.ServerConfig
	logger *zap.Logger

	register   chan *client
	unregister chan *client
	requests   chan request
	done       chan struct{}

	// Owned by Run.
	clients map[*client]bool
	notes   []game.GameNotification
	dirty   bool
}

// NewBridge creates a bridge around the round.
func NewBridge(round *game.Round, cfg config.ServerConfig, logger *zap.Logger) *Bridge {
	if logger == nil {
		logger = zap.NewNop()
	}
	b := &Bridge{
		round:      round,
		cfg:        cfg,
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		requests:   make(chan request, sendBuffer),
		done:       make(chan struct{}),
		clients:    make(map[*client]bool),
	}
	round.SetNotificationHandler(func(n game.GameNotification) {
		b.notes = append(b.notes, n)
	})
	return b
}

// Run drives the frame loop at the configured rate until ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	fps := b.cfg.FPS
	if fps < 1 {
		return fmt.Errorf("run bridge: fps must be positive, got %d", fps)
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()
	defer b.shutdown()

	b.logger.Info("frame loop started",
		zap.String("round_id", b.round.ID()),
		zap.Int("fps", fps),
	)

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("frame loop stopped", zap.Int("frame", b.round.Frame()))
			return nil

		case c := <-b.register:
			b.clients[c] = true
			b.dirty = true
			b.logger.Info("renderer connected", zap.String("client_id", c.id))

		case c := <-b.unregister:
			b.drop(c)

		case req := <-b.requests:
			b.handle(req)

		case <-ticker.C:
			report := b.round.Tick()
			if len(report.Inputs) > 0 || len(report.Landed) > 0 || !b.round.Scheduler().Idle() {
				b.dirty = true
			}
			b.flush()
		}
	}
}

func (b *Bridge) handle(req request) {
	switch req.msg.Type {
	case MessageInput:
		evt, err := decodeInput(req.msg)
		if err == nil {
			err = b.round.HandleInput(evt)
		}
		if err != nil {
			b.reply(req.from, Message{Type: MessageError, Error: err.Error()})
		}
	case MessageReshuffle:
		if err := b.round.Reshuffle(); err != nil {
			b.logger.Error("reshuffle failed", zap.Error(err))
			b.reply(req.from, Message{Type: MessageError, Error: err.Error()})
			return
		}
		b.dirty = true
	default:
		b.reply(req.from, Message{Type: MessageError, Error: fmt.Sprintf("unknown message type %q", req.msg.Type)})
	}
}

func decodeInput(msg Message) (game.InputEvent, error) {
	kind, err := game.ParseInputKind(msg.Kind)
	if err != nil {
		return game.InputEvent{}, err
	}
	evt := game.InputEvent{Kind: kind}
	if kind == game.InputSelect || kind == game.InputReservePlay {
		if msg.Card == nil {
			return game.InputEvent{}, errors.New("input " + msg.Kind + " needs a card")
		}
		evt.Card = cards.ID(*msg.Card)
	}
	return evt, nil
}

// flush sends pending notifications, then a frame snapshot if anything
// changed.
func (b *Bridge) flush() {
	if len(b.clients) == 0 {
		b.notes = b.notes[:0]
		return
	}
	for _, n := range b.notes {
		b.broadcast(Message{Type: MessageNotification, RoundID: n.RoundID, Data: n})
	}
	b.notes = b.notes[:0]
	if !b.dirty {
		return
	}
	b.dirty = false
	b.broadcast(Message{Type: MessageFrame, RoundID: b.round.ID(), Data: b.round.Snapshot()})
}

func (b *Bridge) broadcast(msg Message) {
	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error("failed to encode message", zap.String("type", msg.Type), zap.Error(err))
		return
	}
	for c := range b.clients {
		select {
		case c.send <- payload:
		default:
			b.logger.Warn("renderer too slow, dropping", zap.String("client_id", c.id))
			b.drop(c)
		}
	}
}

func (b *Bridge) reply(c *client, msg Message) {
	if !b.clients[c] {
		return
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
		b.drop(c)
	}
}

func (b *Bridge) drop(c *client) {
	if _, ok := b.clients[c]; !ok {
		return
	}
	delete(b.clients, c)
	close(c.send)
	b.logger.Info("renderer disconnected", zap.String("client_id", c.id))
}

func (b *Bridge) shutdown() {
	close(b.done)
	for c := range b.clients {
		b.drop(c)
	}
}

// ServeWS upgrades the request and attaches a renderer.
func (b *Bridge) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		b.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	c := &client{
		id:   uuid.New().String(),
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}
	select {
	case b.register <- c:
	case <-b.done:
		conn.Close()
		return
	}

	go b.writePump(c)
	go b.readPump(c)
}

func (b *Bridge) readPump(c *client) {
	defer func() {
		select {
		case b.unregister <- c:
		case <-b.done:
		}
		c.conn.Close()
	}()

	for {
		_, payload, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				b.logger.Debug("renderer read failed", zap.String("client_id", c.id), zap.Error(err))
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(payload, &msg); err != nil {
			b.logger.Debug("malformed message", zap.String("client_id", c.id), zap.Error(err))
			continue
		}
		select {
		case b.requests <- request{from: c, msg: msg}:
		case <-b.done:
			return
		}
	}
}

func (b *Bridge) writePump(c *client) {
	defer c.conn.Close()

	for payload := range c.send {
		_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			b.logger.Debug("renderer write failed", zap.String("client_id", c.id), zap.Error(err))
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// Handler returns the HTTP routes of the bridge.
func (b *Bridge) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", b.ServeWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

// ListenAndServe serves the bridge on the configured address and runs the
// frame loop until ctx is cancelled.
func (b *Bridge) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              b.cfg.Address,
		Handler:           b.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		b.logger.Info("starting WebSocket server", zap.String("address", b.cfg.Address))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	loopDone := make(chan error, 1)
	go func() { loopDone <- b.Run(runCtx) }()

	var serveErr error
	select {
	case <-ctx.Done():
	case err, ok := <-errCh:
		if ok {
			serveErr = fmt.Errorf("websocket server: %w", err)
		}
	}

	cancel()
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		b.logger.Warn("websocket server shutdown", zap.Error(err))
	}
	if err := <-loopDone; err != nil && serveErr == nil {
		serveErr = err
	}
	return serveErr
}
