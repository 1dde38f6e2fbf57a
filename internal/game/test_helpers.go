package game

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/mahjongforbots/internal/randutil"
	"github.com/lox/mahjongforbots/internal/tile"
)

// TestNames are the default seat names used across tests, dealer first.
var TestNames = []string{"Alice", "Bob", "Charlie", "Diana"}

// NewTestGame creates a game for testing with a fixed seed. Options are
// passed straight through, so tests rig walls or dealers the same way
// production callers do.
func NewTestGame(opts ...GameOption) *Game {
	g, err := NewGame(TestNames, randutil.New(42), opts...)
	if err != nil {
		panic(err)
	}
	return g
}

// RiggedWall builds a full 136-tile wall that deals the given hands and then
// serves the given draws in order. Hands are space-separated tile strings of
// exactly 13 tiles each, indexed by seat; draws may be empty. The layout
// assumes seat 0 deals, so pair it with the default dealer.
//
// Draws pop from the end of the wall. The dealt block therefore sits at the
// very end (the dealer's hand last), the scripted draws sit just below it in
// reverse order, and every remaining copy of the set pads the front so tile
// conservation still holds.
func RiggedWall(hands [NumSeats]string, draws string) ([]tile.Tile, error) {
	return RiggedWallForDealer(0, hands, draws)
}

// RiggedWallForDealer is RiggedWall for a table where the given seat deals
func RiggedWallForDealer(dealer int, hands [NumSeats]string, draws string) ([]tile.Tile, error) {
	var used [tile.NumTypes]int
	count := func(tiles []tile.Tile) error {
		for _, t := range tiles {
			index := t.TypeIndex()
			if index < 0 {
				return fmt.Errorf("invalid tile %v", t)
			}
			used[index]++
			if used[index] > tile.CopiesPerType {
				return fmt.Errorf("more than %d copies of %s", tile.CopiesPerType, t)
			}
		}
		return nil
	}

	var dealt [NumSeats][]tile.Tile
	for seat, notation := range hands {
		parsed, err := tile.ParseTiles(notation)
		if err != nil {
			return nil, fmt.Errorf("seat %d hand: %w", seat, err)
		}
		if len(parsed) != startingHandSize {
			return nil, fmt.Errorf("seat %d hand has %d tiles, want %d", seat, len(parsed), startingHandSize)
		}
		if err := count(parsed); err != nil {
			return nil, fmt.Errorf("seat %d hand: %w", seat, err)
		}
		dealt[seat] = parsed
	}

	var drawn []tile.Tile
	if draws != "" {
		parsed, err := tile.ParseTiles(draws)
		if err != nil {
			return nil, fmt.Errorf("draws: %w", err)
		}
		if err := count(parsed); err != nil {
			return nil, fmt.Errorf("draws: %w", err)
		}
		drawn = parsed
	}

	wall := make([]tile.Tile, 0, tile.SetSize)
	for index := 0; index < tile.NumTypes; index++ {
		for n := used[index]; n < tile.CopiesPerType; n++ {
			wall = append(wall, tile.FromTypeIndex(index))
		}
	}
	for i := len(drawn) - 1; i >= 0; i-- {
		wall = append(wall, drawn[i])
	}
	for offset := NumSeats - 1; offset >= 0; offset-- {
		wall = append(wall, dealt[(dealer+offset)%NumSeats]...)
	}
	return wall, nil
}

// MustRiggedWall is RiggedWall that panics on error, for fixture literals.
func MustRiggedWall(hands [NumSeats]string, draws string) []tile.Tile {
	wall, err := RiggedWall(hands, draws)
	if err != nil {
		panic(err)
	}
	return wall
}

func testLogger() *log.Logger {
	return log.New(io.Discard)
}
