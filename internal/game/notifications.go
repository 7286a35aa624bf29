package game

import (
	"time"

	"github.com/palace-cards/palace-engine/internal/config"
	"github.com/palace-cards/palace-engine/internal/game/cards"
	"go.uber.org/zap"
)

// Notification types.
const (
	NotifyShake   = "SHAKE"
	NotifyPlay    = "PLAY"
	NotifyBurn    = "BURN"
	NotifyPickup  = "PICKUP"
	NotifyMisplay = "MISPLAY"
)

// Shake targets.
const (
	ShakeHand   = "hand"
	ShakePile   = "pile"
	ShakeScreen = "screen"
	ShakeCard   = "card"
)

// GameNotification represents a notification for renderers and websocket
// clients. Shakes are purely cosmetic.
type GameNotification struct {
	Type      string                 `json:"type"`
	RoundID   string                 `json:"round_id"`
	Frame     int                    `json:"frame"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// NotificationHandler is a function that handles game notifications.
type NotificationHandler func(notification GameNotification)

// SetNotificationHandler sets the handler for round notifications. The
// handler runs on the frame loop and must not block.
func (r *Round) SetNotificationHandler(handler NotificationHandler) {
	r.notify = handler
}

func (r *Round) emitNotification(kind string, data map[string]interface{}) {
	if r.notify == nil {
		return
	}
	r.notify(GameNotification{
		Type:      kind,
		RoundID:   r.id,
		Frame:     r.clock.Frame(),
		Timestamp: time.Now(),
		Data:      data,
	})
}

func (r *Round) shake(target string, preset config.Shake, card cards.ID) {
	data := map[string]interface{}{
		"target":    target,
		"frames":    preset.Frames,
		"intensity": preset.Intensity,
	}
	if target == ShakeCard {
		data["card_id"] = int(card)
	}
	r.logger.Debug("shake", zap.String("target", target), zap.Int("frames", preset.Frames))
	r.emitNotification(NotifyShake, data)
}
