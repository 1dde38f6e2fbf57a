package game

import (
	"fmt"
	"time"

	"github.com/lox/mahjongforbots/internal/tile"
)

// MoveAction identifies the kind of move in a history entry
type MoveAction string

const (
	ActionDraw     MoveAction = "draw"
	ActionDiscard  MoveAction = "discard"
	ActionClaim    MoveAction = "claim"
	ActionPass     MoveAction = "pass"
	ActionWin      MoveAction = "win"
	ActionNextTurn MoveAction = "next_turn"
)

// HistoryEntry is one applied move. Tile is set for draws and discards,
// Claim for accepted claims.
type HistoryEntry struct {
	Turn      int        `json:"turn"`
	Seat      int        `json:"seat"`
	Action    MoveAction `json:"action"`
	Tile      tile.Tile  `json:"tile,omitempty"`
	HasTile   bool       `json:"has_tile,omitempty"`
	Claim     *Claim     `json:"claim,omitempty"`
	Timestamp time.Time  `json:"timestamp"`
}

// String returns a compact human-readable form of the entry
func (e HistoryEntry) String() string {
	switch {
	case e.Action == ActionClaim && e.Claim != nil:
		return fmt.Sprintf("[t%d] %s", e.Turn, e.Claim)
	case e.HasTile:
		return fmt.Sprintf("[t%d] seat %d %s %s", e.Turn, e.Seat, e.Action, e.Tile)
	default:
		return fmt.Sprintf("[t%d] seat %d %s", e.Turn, e.Seat, e.Action)
	}
}

// recordMove stamps and appends a history entry. Only successfully
// applied moves are recorded.
func (g *Game) recordMove(entry HistoryEntry) {
	entry.Turn = g.turnNumber
	entry.Timestamp = time.Now()
	g.history = append(g.history, entry)
}

// ApplyMove validates and applies a recorded move as if it were fresh.
// It is the single dispatch point used to replay a transcript against
// another game with the same wall.
func (g *Game) ApplyMove(entry HistoryEntry) error {
	switch entry.Action {
	case ActionDraw:
		_, _, err := g.Draw()
		return err
	case ActionDiscard:
		_, err := g.Discard(entry.Tile)
		return err
	case ActionClaim:
		if entry.Claim == nil {
			return fmt.Errorf("%w: claim entry carries no claim", ErrInvalidArgument)
		}
		return g.AcceptClaim(*entry.Claim)
	case ActionPass:
		return g.PassClaims()
	case ActionWin:
		return g.DeclareWin(entry.Seat)
	case ActionNextTurn:
		return g.NextTurn()
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidArgument, entry.Action)
	}
}

// ReplayMove re-applies the i-th recorded move to the current state,
// with the same validation as a fresh move
func (g *Game) ReplayMove(index int) error {
	if index < 0 || index >= len(g.history) {
		return fmt.Errorf("%w: history index %d out of range", ErrInvalidArgument, index)
	}
	return g.ApplyMove(g.history[index])
}
