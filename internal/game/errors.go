package game

import "errors"

var (
	// ErrInvalidPlay is returned when the rule engine rejects a hand play.
	ErrInvalidPlay = errors.New("invalid play")
	// ErrReserveLocked is returned when a reserve card is played while the
	// zones in front of it still hold cards.
	ErrReserveLocked = errors.New("reserve locked")
	// ErrReserveMisplay is returned when a reserve card turned out to be
	// unplayable. The round has already applied the penalty.
	ErrReserveMisplay = errors.New("reserve misplay")
	// ErrPickupRefused is returned when the hand still holds a playable card.
	ErrPickupRefused = errors.New("pickup refused: hand has a playable card")
	// ErrNoSelection is returned when playing with nothing selected.
	ErrNoSelection = errors.New("no cards selected")
	// ErrUnknownCard is returned for card IDs outside the arena.
	ErrUnknownCard = errors.New("unknown card")
)
