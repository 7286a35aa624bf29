package cards

import (
	"fmt"
)

// Rank is the printed rank of a card. Ace is 1 and King is 13.
type Rank int

const (
	RankAce Rank = iota + 1
	RankTwo
	RankThree
	RankFour
	RankFive
	RankSix
	RankSeven
	RankEight
	RankNine
	RankTen
	RankJack
	RankQueen
	RankKing
)

// AceStrength is the comparison strength of an Ace, which ranks above the King.
const AceStrength = 14

var rankNames = map[Rank]string{
	RankAce:   "Ace",
	RankJack:  "Jack",
	RankQueen: "Queen",
	RankKing:  "King",
}

func (r Rank) String() string {
	if name, ok := rankNames[r]; ok {
		return name
	}
	return fmt.Sprintf("%d", int(r))
}

// Valid reports whether r is one of the thirteen printed ranks.
func (r Rank) Valid() bool {
	return r >= RankAce && r <= RankKing
}

// Strength returns the natural comparison strength of the rank.
func (r Rank) Strength() int {
	if r == RankAce {
		return AceStrength
	}
	return int(r)
}

// Suit is one of the four French suits.
type Suit int

const (
	SuitHearts Suit = iota
	SuitDiamonds
	SuitSpades
	SuitClubs
)

var suitNames = map[Suit]string{
	SuitHearts:   "Hearts",
	SuitDiamonds: "Diamonds",
	SuitSpades:   "Spades",
	SuitClubs:    "Clubs",
}

func (s Suit) String() string {
	if name, ok := suitNames[s]; ok {
		return name
	}
	return fmt.Sprintf("SUIT_%d", int(s))
}

// Red reports whether the suit prints in red.
func (s Suit) Red() bool {
	return s == SuitHearts || s == SuitDiamonds
}

// Face tells the renderer which side of a card to draw.
type Face int

const (
	FaceDown Face = iota
	FaceUp
)

func (f Face) String() string {
	if f == FaceUp {
		return "UP"
	}
	return "DOWN"
}

// Point is a screen-space coordinate.
type Point struct {
	X float64
	Y float64
}

// Lerp returns the point a fraction t of the way from p to q.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{
		X: p.X + (q.X-p.X)*t,
		Y: p.Y + (q.Y-p.Y)*t,
	}
}

// ID addresses a card inside its Arena.
type ID int

// Card is a single playing card. Rank and Suit never change; the remaining
// fields are transient state owned by the round.
type Card struct {
	ID       ID
	Rank     Rank
	Suit     Suit
	Strength int // effective strength; overridden by a Copy play
	Face     Face
	Selected bool

	// InTransit is set while a transfer holds the card. Position is only
	// authoritative while InTransit is true.
	InTransit bool
	Position  Point
}

// New creates a face-down card with its natural strength.
func New(id ID, rank Rank, suit Suit) Card {
	return Card{
		ID:       id,
		Rank:     rank,
		Suit:     suit,
		Strength: rank.Strength(),
		Face:     FaceDown,
	}
}

func (c Card) String() string {
	return fmt.Sprintf("%s of %s", c.Rank, c.Suit)
}

// ResetStrength restores the natural strength of the card.
func (c *Card) ResetStrength() {
	c.Strength = c.Rank.Strength()
}

// Flip turns the card over.
func (c *Card) Flip() {
	if c.Face == FaceUp {
		c.Face = FaceDown
		return
	}
	c.Face = FaceUp
}
