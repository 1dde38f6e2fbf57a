package game

import (
	"github.com/lox/mahjongforbots/internal/tile"
)

// DefaultWinScore is the flat score awarded for a winning hand
const DefaultWinScore = 8

// GameOption configures optional game behavior
type GameOption func(*Game)

// WithGameID sets the game identifier. Without this option a random
// identifier is generated from the game's random source.
func WithGameID(id string) GameOption {
	return func(g *Game) {
		g.id = id
	}
}

// WithWall supplies the exact wall ordering instead of shuffling a fresh
// set. The slice must contain a full set of tiles; tiles are drawn from
// the end, so the final elements are dealt first.
func WithWall(tiles []tile.Tile) GameOption {
	return func(g *Game) {
		g.wall = tile.NewWallFromTiles(tiles)
	}
}

// WithEventBus sets the event bus that receives game events
func WithEventBus(bus EventBus) GameOption {
	return func(g *Game) {
		g.eventBus = bus
	}
}

// WithWinScore overrides the flat score awarded to a winner
func WithWinScore(score int) GameOption {
	return func(g *Game) {
		g.winScore = score
	}
}

// WithDealer sets the seat that deals the first round
func WithDealer(seat int) GameOption {
	return func(g *Game) {
		g.dealer = seat
	}
}
