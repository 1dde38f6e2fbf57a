// Package evaluator implements hand analysis: group recognition, winning-hand
// decomposition and waiting-tile computation. All functions are pure and
// operate on tile slices without touching game state.
package evaluator

import "github.com/lox/mahjongforbots/internal/tile"

// GroupKind identifies the shape of a tile group
type GroupKind int

const (
	GroupPair GroupKind = iota
	GroupPung
	GroupKong
	GroupChow
)

// String returns the string representation of a group kind
func (k GroupKind) String() string {
	switch k {
	case GroupPair:
		return "pair"
	case GroupPung:
		return "pung"
	case GroupKong:
		return "kong"
	case GroupChow:
		return "chow"
	default:
		return "?"
	}
}

// Group is one component of a decomposed hand
type Group struct {
	Kind  GroupKind
	Tiles []tile.Tile
}

// IsPair reports whether the tiles are two identical tiles
func IsPair(tiles []tile.Tile) bool {
	return len(tiles) == 2 && tiles[0].Equals(tiles[1])
}

// IsPung reports whether the tiles are three identical tiles
func IsPung(tiles []tile.Tile) bool {
	return len(tiles) == 3 && tiles[0].Equals(tiles[1]) && tiles[1].Equals(tiles[2])
}

// IsKong reports whether the tiles are four identical tiles
func IsKong(tiles []tile.Tile) bool {
	return len(tiles) == 4 &&
		tiles[0].Equals(tiles[1]) && tiles[1].Equals(tiles[2]) && tiles[2].Equals(tiles[3])
}

// IsChow reports whether the tiles are three same-suited tiles with
// consecutive values. Honor tiles never form chows.
func IsChow(tiles []tile.Tile) bool {
	if len(tiles) != 3 {
		return false
	}
	if !tiles[0].Suit.IsSuited() {
		return false
	}
	if tiles[1].Suit != tiles[0].Suit || tiles[2].Suit != tiles[0].Suit {
		return false
	}
	sorted := tile.Sorted(tiles)
	return sorted[1].Value == sorted[0].Value+1 && sorted[2].Value == sorted[1].Value+1
}
