package tile

import (
	rand "math/rand/v2"
	"sort"
)

const (
	// NumTypes is the number of distinct tile types: 27 suited plus 4
	// winds plus 3 dragons.
	NumTypes = 34

	// CopiesPerType is the number of physical copies of each type.
	CopiesPerType = 4

	// SetSize is the total number of tiles in a full set.
	SetSize = NumTypes * CopiesPerType
)

// TypeIndex returns the canonical index of the tile's type in [0, NumTypes),
// or -1 for an invalid tile. Indexes follow the canonical suit order, so
// bamboo occupies 0-8, characters 9-17, dots 18-26, winds 27-30 and
// dragons 31-33.
func (t Tile) TypeIndex() int {
	if !t.IsValid() {
		return -1
	}
	switch t.Suit {
	case Bamboo:
		return t.Value - 1
	case Character:
		return 9 + t.Value - 1
	case Dot:
		return 18 + t.Value - 1
	case Wind:
		return 27 + t.Value - 1
	default:
		return 31 + t.Value - 1
	}
}

// FromTypeIndex returns the tile type for a canonical index
func FromTypeIndex(index int) Tile {
	switch {
	case index < 9:
		return New(Bamboo, index+1)
	case index < 18:
		return New(Character, index-9+1)
	case index < 27:
		return New(Dot, index-18+1)
	case index < 31:
		return New(Wind, index-27+1)
	default:
		return New(Dragon, index-31+1)
	}
}

// Less reports whether a sorts before b in canonical order: suit rank
// first, then value ascending. Copy IDs are ignored.
func Less(a, b Tile) bool {
	if a.Suit != b.Suit {
		return a.Suit < b.Suit
	}
	return a.Value < b.Value
}

// Sort sorts tiles in place into canonical order
func Sort(tiles []Tile) {
	sort.SliceStable(tiles, func(i, j int) bool {
		return Less(tiles[i], tiles[j])
	})
}

// Sorted returns a canonically ordered copy, leaving the input untouched
func Sorted(tiles []Tile) []Tile {
	out := make([]Tile, len(tiles))
	copy(out, tiles)
	Sort(out)
	return out
}

// NewFullSet creates all 136 tiles in deterministic pre-shuffle order with
// unique incrementing copy IDs
func NewFullSet() []Tile {
	tiles := make([]Tile, 0, SetSize)
	id := 0
	for index := 0; index < NumTypes; index++ {
		base := FromTypeIndex(index)
		for n := 0; n < CopiesPerType; n++ {
			tiles = append(tiles, Tile{Suit: base.Suit, Value: base.Value, ID: id})
			id++
		}
	}
	return tiles
}

// Shuffle randomizes tile order in place using the Fisher-Yates shuffle.
// The random source is injected so deals are reproducible under test.
func Shuffle(tiles []Tile, rng *rand.Rand) {
	for i := len(tiles) - 1; i > 0; i-- {
		j := rng.IntN(i + 1)
		tiles[i], tiles[j] = tiles[j], tiles[i]
	}
}

// Counts tallies tiles by type index. Invalid tiles are ignored.
func Counts(tiles []Tile) [NumTypes]int {
	var counts [NumTypes]int
	for _, t := range tiles {
		if index := t.TypeIndex(); index >= 0 {
			counts[index]++
		}
	}
	return counts
}
