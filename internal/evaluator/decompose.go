package evaluator

import "github.com/lox/mahjongforbots/internal/tile"

// Decompose returns one pair-plus-four-groups partition of a winning
// 14-tile hand, pair first and groups in canonical order. The second return
// value is false when no partition exists. Witness tiles are type-level and
// carry no copy IDs.
func Decompose(tiles []tile.Tile) ([]Group, bool) {
	return DecomposeWithMelds(tiles, 0)
}

// DecomposeWithMelds produces the witness for a concealed hand completing
// around melds revealed sets
func DecomposeWithMelds(tiles []tile.Tile, melds int) ([]Group, bool) {
	if melds < 0 || melds > 4 {
		return nil, false
	}
	if len(tiles) != 14-3*melds {
		return nil, false
	}

	counts := tile.Counts(tiles)
	total := 0
	for _, c := range counts {
		total += c
	}
	if total != len(tiles) {
		return nil, false
	}

	want := 4 - melds
	for i := 0; i < tile.NumTypes; i++ {
		if counts[i] < 2 {
			continue
		}
		counts[i] -= 2
		groups, ok := witnessGroups(&counts, want)
		counts[i] += 2
		if !ok {
			continue
		}
		pairTile := tile.FromTypeIndex(i)
		pair := Group{Kind: GroupPair, Tiles: []tile.Tile{pairTile, pairTile}}
		return append([]Group{pair}, groups...), true
	}
	return nil, false
}

func witnessGroups(counts *[tile.NumTypes]int, n int) ([]Group, bool) {
	first := -1
	for i := 0; i < tile.NumTypes; i++ {
		if counts[i] > 0 {
			first = i
			break
		}
	}
	if first == -1 {
		return nil, n == 0
	}
	if n == 0 {
		return nil, false
	}

	if counts[first] >= 3 {
		counts[first] -= 3
		rest, ok := witnessGroups(counts, n-1)
		counts[first] += 3
		if ok {
			t := tile.FromTypeIndex(first)
			pung := Group{Kind: GroupPung, Tiles: []tile.Tile{t, t, t}}
			return append([]Group{pung}, rest...), true
		}
	}

	if chowFits(counts, first) {
		counts[first]--
		counts[first+1]--
		counts[first+2]--
		rest, ok := witnessGroups(counts, n-1)
		counts[first]++
		counts[first+1]++
		counts[first+2]++
		if ok {
			chow := Group{Kind: GroupChow, Tiles: []tile.Tile{
				tile.FromTypeIndex(first),
				tile.FromTypeIndex(first + 1),
				tile.FromTypeIndex(first + 2),
			}}
			return append([]Group{chow}, rest...), true
		}
	}

	return nil, false
}
