package tile

import rand "math/rand/v2"

// Wall is the shared face-down draw pile. Draws come off the end of the
// tile list.
type Wall struct {
	tiles []Tile
}

// NewWall builds a full shuffled wall from the injected random source
func NewWall(rng *rand.Rand) *Wall {
	tiles := NewFullSet()
	Shuffle(tiles, rng)
	return &Wall{tiles: tiles}
}

// NewWallFromTiles builds a wall with a fixed tile order. Used for
// deterministic setups and for restoring saved games.
func NewWallFromTiles(tiles []Tile) *Wall {
	owned := make([]Tile, len(tiles))
	copy(owned, tiles)
	return &Wall{tiles: owned}
}

// Draw removes and returns the tile at the end of the wall. The second
// return value is false when the wall is exhausted.
func (w *Wall) Draw() (Tile, bool) {
	if len(w.tiles) == 0 {
		return Tile{}, false
	}
	t := w.tiles[len(w.tiles)-1]
	w.tiles = w.tiles[:len(w.tiles)-1]
	return t, true
}

// DrawN draws up to n tiles from the wall
func (w *Wall) DrawN(n int) []Tile {
	if n > len(w.tiles) {
		n = len(w.tiles)
	}
	tiles := make([]Tile, 0, n)
	for i := 0; i < n; i++ {
		t, ok := w.Draw()
		if !ok {
			break
		}
		tiles = append(tiles, t)
	}
	return tiles
}

// Remaining returns the number of tiles left in the wall
func (w *Wall) Remaining() int {
	return len(w.tiles)
}

// IsEmpty returns true if the wall has no tiles left
func (w *Wall) IsEmpty() bool {
	return len(w.tiles) == 0
}

// Tiles returns a copy of the remaining wall in draw order
func (w *Wall) Tiles() []Tile {
	out := make([]Tile, len(w.tiles))
	copy(out, w.tiles)
	return out
}
