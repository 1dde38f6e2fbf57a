package tile

import (
	"testing"

	"github.com/lox/mahjongforbots/internal/randutil"
)

func TestNewFullSet(t *testing.T) {
	t.Parallel()
	tiles := NewFullSet()

	if len(tiles) != SetSize {
		t.Fatalf("full set has %d tiles, want %d", len(tiles), SetSize)
	}

	counts := Counts(tiles)
	for index, count := range counts {
		if count != CopiesPerType {
			t.Errorf("type %v has %d copies, want %d", FromTypeIndex(index), count, CopiesPerType)
		}
	}

	// Copy IDs must be unique across the whole set
	seen := make(map[int]bool, len(tiles))
	for _, tl := range tiles {
		if seen[tl.ID] {
			t.Errorf("duplicate copy ID %d", tl.ID)
		}
		seen[tl.ID] = true
	}
}

func TestShuffleIsDeterministicPerSeed(t *testing.T) {
	t.Parallel()
	first := NewFullSet()
	Shuffle(first, randutil.New(42))

	second := NewFullSet()
	Shuffle(second, randutil.New(42))

	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("shuffles with the same seed diverged at %d: %v vs %v", i, first[i], second[i])
		}
	}

	third := NewFullSet()
	Shuffle(third, randutil.New(43))
	same := true
	for i := range first {
		if first[i] != third[i] {
			same = false
			break
		}
	}
	if same {
		t.Error("shuffles with different seeds produced identical order")
	}
}

func TestShufflePreservesTiles(t *testing.T) {
	t.Parallel()
	tiles := NewFullSet()
	Shuffle(tiles, randutil.New(7))

	counts := Counts(tiles)
	for index, count := range counts {
		if count != CopiesPerType {
			t.Errorf("after shuffle, type %v has %d copies", FromTypeIndex(index), count)
		}
	}
}

func TestSortCanonicalOrder(t *testing.T) {
	t.Parallel()
	tiles := MustParseTiles("wd 9b ew 1b 5c 5d 1c")
	Sort(tiles)

	want := MustParseTiles("1b 9b 1c 5c 5d ew wd")
	for i := range want {
		if !tiles[i].Equals(want[i]) {
			t.Fatalf("sorted[%d] = %v, want %v", i, tiles[i], want[i])
		}
	}
}

func TestWallDrawsFromEnd(t *testing.T) {
	t.Parallel()
	tiles := MustParseTiles("1b 2b 3b")
	w := NewWallFromTiles(tiles)

	drawn, ok := w.Draw()
	if !ok {
		t.Fatal("draw from non-empty wall failed")
	}
	if !drawn.Equals(New(Bamboo, 3)) {
		t.Errorf("drew %v, want the tile at the wall's end", drawn)
	}
	if w.Remaining() != 2 {
		t.Errorf("wall has %d tiles, want 2", w.Remaining())
	}
}

func TestWallExhaustion(t *testing.T) {
	t.Parallel()
	w := NewWallFromTiles(nil)
	if !w.IsEmpty() {
		t.Fatal("empty wall reports tiles remaining")
	}
	if _, ok := w.Draw(); ok {
		t.Error("draw from an empty wall should report failure")
	}
}

func TestWallDrawN(t *testing.T) {
	t.Parallel()
	w := NewWall(randutil.New(1))
	hand := w.DrawN(13)
	if len(hand) != 13 {
		t.Fatalf("drew %d tiles, want 13", len(hand))
	}
	if w.Remaining() != SetSize-13 {
		t.Errorf("wall has %d tiles, want %d", w.Remaining(), SetSize-13)
	}
}
