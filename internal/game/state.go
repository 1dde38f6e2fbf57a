package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/mahjongforbots/internal/tile"
)

// Phase represents the lifecycle stage of a game
type Phase int

const (
	// PhasePlaying means the game is in progress and accepts moves
	PhasePlaying Phase = iota
	// PhaseEnded means the game has finished; all moves are rejected
	PhaseEnded
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// NoWinner is the winner seat for a game that ended with an exhausted wall
const NoWinner = -1

// startingHandSize is the number of tiles dealt to each seat
const startingHandSize = 13

// Game is the complete state of a four-seat game. All mutation goes
// through the action methods; a failed action leaves the state untouched.
type Game struct {
	id      string
	players [NumSeats]*Player
	wall    *tile.Wall

	current         int
	turnNumber      int
	phase           Phase
	winner          int
	selfDrawn       bool
	awaitingDiscard bool

	discardPile    []tile.Tile
	pendingClaims  []Claim
	lastDiscard    tile.Tile
	lastDiscarder  int
	hasLastDiscard bool

	dealer         int
	prevailingWind int
	roundNumber    int
	winScore       int

	history  []HistoryEntry
	eventBus EventBus
	rng      *rand.Rand
}

// GameID returns the unique identifier for this game
func (g *Game) GameID() string { return g.id }

// Phase returns the current lifecycle phase
func (g *Game) Phase() Phase { return g.phase }

// CurrentPlayer returns the seat whose turn it is
func (g *Game) CurrentPlayer() int { return g.current }

// TurnNumber returns the number of completed turn changes
func (g *Game) TurnNumber() int { return g.turnNumber }

// Winner returns the winning seat, or NoWinner when the wall ran out or
// the game is still in progress
func (g *Game) Winner() int {
	if g.phase != PhaseEnded {
		return NoWinner
	}
	return g.winner
}

// SelfDrawn reports whether the winning tile came from the wall rather
// than a claimed discard
func (g *Game) SelfDrawn() bool { return g.selfDrawn }

// PlayerName returns the display name of a seat
func (g *Game) PlayerName(seat int) string {
	if seat < 0 || seat >= NumSeats {
		return ""
	}
	return g.players[seat].Name
}

// Hand returns a copy of a seat's concealed tiles
func (g *Game) Hand(seat int) []tile.Tile {
	if seat < 0 || seat >= NumSeats {
		return nil
	}
	hand := make([]tile.Tile, len(g.players[seat].Hand))
	copy(hand, g.players[seat].Hand)
	return hand
}

// Melds returns a copy of a seat's exposed melds
func (g *Game) Melds(seat int) []Meld {
	if seat < 0 || seat >= NumSeats {
		return nil
	}
	melds := make([]Meld, len(g.players[seat].Melds))
	copy(melds, g.players[seat].Melds)
	return melds
}

// Discards returns a copy of the tiles a seat has discarded, including
// tiles later claimed by other seats
func (g *Game) Discards(seat int) []tile.Tile {
	if seat < 0 || seat >= NumSeats {
		return nil
	}
	discards := make([]tile.Tile, len(g.players[seat].Discarded))
	copy(discards, g.players[seat].Discarded)
	return discards
}

// Score returns a seat's cumulative score across rounds
func (g *Game) Score(seat int) int {
	if seat < 0 || seat >= NumSeats {
		return 0
	}
	return g.players[seat].Score
}

// SeatWind returns a seat's wind for the current round. The dealer is
// always East.
func (g *Game) SeatWind(seat int) int {
	if seat < 0 || seat >= NumSeats {
		return 0
	}
	return g.players[seat].SeatWind
}

// DiscardPile returns a copy of the shared pile of unclaimed discards
func (g *Game) DiscardPile() []tile.Tile {
	pile := make([]tile.Tile, len(g.discardPile))
	copy(pile, g.discardPile)
	return pile
}

// WallRemaining returns the number of tiles left to draw
func (g *Game) WallRemaining() int { return g.wall.Remaining() }

// PrevailingWind returns the wind of the current round
func (g *Game) PrevailingWind() int { return g.prevailingWind }

// RoundNumber returns the current round, starting at 1
func (g *Game) RoundNumber() int { return g.roundNumber }

// Dealer returns the seat that dealt the current round
func (g *Game) Dealer() int { return g.dealer }

// AwaitingDiscard reports whether the current seat holds a fourteenth
// tile and must discard before the turn can pass
func (g *Game) AwaitingDiscard() bool { return g.awaitingDiscard }

// PendingClaims returns the ranked claims on the most recent discard.
// It is empty outside the claim window.
func (g *Game) PendingClaims() []Claim {
	claims := make([]Claim, len(g.pendingClaims))
	copy(claims, g.pendingClaims)
	return claims
}

// LastDiscard returns the most recently discarded tile and whether a
// discard has happened since the last draw or claim
func (g *Game) LastDiscard() (tile.Tile, bool) {
	return g.lastDiscard, g.hasLastDiscard
}

// History returns a copy of the ordered move log
func (g *Game) History() []HistoryEntry {
	history := make([]HistoryEntry, len(g.history))
	copy(history, g.history)
	return history
}

// validateSeat rejects out-of-range seat indices
func validateSeat(seat int) error {
	if seat < 0 || seat >= NumSeats {
		return fmt.Errorf("%w: seat %d out of range", ErrInvalidArgument, seat)
	}
	return nil
}

// publish sends an event to the bus, if one is configured
func (g *Game) publish(event GameEvent) {
	if g.eventBus != nil {
		g.eventBus.Publish(event)
	}
}
