package evaluator

import "github.com/lox/mahjongforbots/internal/tile"

// IsWinningHand reports whether exactly 14 tiles partition into one pair and
// four non-overlapping pungs or chows covering every tile. Any other tile
// count is not a winning hand.
func IsWinningHand(tiles []tile.Tile) bool {
	return CompletesWithMelds(tiles, 0)
}

// CompletesWithMelds reports whether the concealed tiles finish a hand that
// already has melds revealed sets on the table. The concealed portion must
// supply one pair plus the remaining 4-melds groups, so its length must be
// exactly 14-3*melds.
func CompletesWithMelds(tiles []tile.Tile, melds int) bool {
	return newSearch().completes(tiles, melds)
}

// search carries the memo table for one analysis. Waiting-tile probes share
// a single search so decomposition sub-results survive across the 34
// candidate hands.
type search struct {
	memo map[string]bool
}

func newSearch() *search {
	return &search{memo: make(map[string]bool)}
}

func (s *search) completes(tiles []tile.Tile, melds int) bool {
	if melds < 0 || melds > 4 {
		return false
	}
	if len(tiles) != 14-3*melds {
		return false
	}

	counts := tile.Counts(tiles)
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != len(tiles) {
		// Invalid tiles dropped by the tally; the hand cannot be scored.
		return false
	}

	groups := 4 - melds
	for i := 0; i < tile.NumTypes; i++ {
		if counts[i] < 2 {
			continue
		}
		counts[i] -= 2
		ok := s.formsGroups(&counts, groups)
		counts[i] += 2
		if ok {
			return true
		}
	}
	return false
}

// formsGroups reports whether counts decompose into exactly n pungs/chows.
// The lowest remaining type must head some group, so branching on it is
// exhaustive. Results are memoized on the remaining-multiset signature; n is
// implied by the tile total.
func (s *search) formsGroups(counts *[tile.NumTypes]int, n int) bool {
	first := -1
	for i := 0; i < tile.NumTypes; i++ {
		if counts[i] > 0 {
			first = i
			break
		}
	}
	if first == -1 {
		return n == 0
	}
	if n == 0 {
		return false
	}

	key := signature(counts)
	if result, ok := s.memo[key]; ok {
		return result
	}

	result := false
	if counts[first] >= 3 {
		counts[first] -= 3
		result = s.formsGroups(counts, n-1)
		counts[first] += 3
	}
	if !result && chowFits(counts, first) {
		counts[first]--
		counts[first+1]--
		counts[first+2]--
		result = s.formsGroups(counts, n-1)
		counts[first]++
		counts[first+1]++
		counts[first+2]++
	}

	s.memo[key] = result
	return result
}

// chowFits reports whether a chow starting at type index i is available:
// the index must be suited with two higher values in the same suit, and both
// successor types must be present.
func chowFits(counts *[tile.NumTypes]int, i int) bool {
	if i >= 27 || i%9 > 6 {
		return false
	}
	return counts[i+1] > 0 && counts[i+2] > 0
}

func signature(counts *[tile.NumTypes]int) string {
	var b [tile.NumTypes]byte
	for i, c := range counts {
		b[i] = byte(c)
	}
	return string(b[:])
}
