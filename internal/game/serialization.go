package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/palace-cards/palace-engine/internal/game/zones"
)

// SnapshotChecksum is a deterministic digest of a snapshot. Two rounds
// dealt from the same seed and driven by the same inputs produce equal
// checksums frame for frame.
type SnapshotChecksum struct {
	Hash    string `json:"hash"`    // SHA-256 of the canonical representation
	Frame   int    `json:"frame"`
	Version int    `json:"version"`
}

// Checksum digests everything a renderer could observe except the round ID
// and start time.
func (s Snapshot) Checksum() SnapshotChecksum {
	sum := sha256.Sum256(s.canonical())
	return SnapshotChecksum{
		Hash:    hex.EncodeToString(sum[:]),
		Frame:   s.Frame,
		Version: 1,
	}
}

// canonical writes zones in table order and cards in arena order so the
// output does not depend on map iteration.
func (s Snapshot) canonical() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "ROUND:%d|%d|%d|%t\n", s.Frame, s.InFlight, s.Pending, s.BurnArmed)

	for _, kind := range zones.Kinds {
		fmt.Fprintf(&buf, "ZONE:%s:%v\n", kind, s.Zones[kind.String()])
	}
	for _, v := range s.Cards {
		fmt.Fprintf(&buf, "CARD:%d|%s|%s|%t|%t|%.4f,%.4f\n",
			v.Card, v.Zone, v.Face, v.Selected, v.InTransit, v.Position.X, v.Position.Y)
	}
	if s.PileTop != nil {
		fmt.Fprintf(&buf, "TOP:%d|%d|%t\n", s.PileTop.Card, s.PileTop.Strength, s.PileTop.Inverted)
	}
	return buf.Bytes()
}
