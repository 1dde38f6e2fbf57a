package evaluator

import "github.com/lox/mahjongforbots/internal/tile"

// WaitingTiles returns the distinct tile types that would complete a 13-tile
// hand, in canonical order. A hand of any other size has no waits.
//
// Symmetry holds by construction: t is returned exactly when
// IsWinningHand(append(hand, t)) is true.
func WaitingTiles(tiles []tile.Tile) []tile.Tile {
	return WaitingTilesWithMelds(tiles, 0)
}

// WaitingTilesWithMelds computes waits for a concealed hand with melds
// revealed sets already on the table
func WaitingTilesWithMelds(tiles []tile.Tile, melds int) []tile.Tile {
	if melds < 0 || melds > 4 {
		return nil
	}
	if len(tiles) != 13-3*melds {
		return nil
	}

	// One search across all 34 probes so memoized sub-decompositions
	// carry over between candidates.
	s := newSearch()
	candidate := make([]tile.Tile, len(tiles)+1)
	copy(candidate, tiles)

	var waits []tile.Tile
	for i := 0; i < tile.NumTypes; i++ {
		probe := tile.FromTypeIndex(i)
		candidate[len(tiles)] = probe
		if s.completes(candidate, melds) {
			waits = append(waits, probe)
		}
	}
	return waits
}

// IsWaiting reports whether the hand is one tile away from winning
func IsWaiting(tiles []tile.Tile) bool {
	return len(WaitingTiles(tiles)) > 0
}
