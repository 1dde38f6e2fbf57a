package game

import (
	"fmt"
	"sort"

	"github.com/lox/mahjongforbots/internal/evaluator"
	"github.com/lox/mahjongforbots/internal/tile"
)

// ClaimKind identifies what a seat wants to do with a discarded tile
type ClaimKind int

const (
	ClaimWin ClaimKind = iota
	ClaimPung
	ClaimChow
)

// String returns the string representation of the claim kind
func (k ClaimKind) String() string {
	switch k {
	case ClaimWin:
		return "win"
	case ClaimPung:
		return "pung"
	case ClaimChow:
		return "chow"
	default:
		return fmt.Sprintf("ClaimKind(%d)", int(k))
	}
}

// Priority returns the claim precedence. Higher values beat lower ones
// when multiple seats contest the same discard.
func (k ClaimKind) Priority() int {
	switch k {
	case ClaimWin:
		return 3
	case ClaimPung:
		return 2
	case ClaimChow:
		return 1
	default:
		return 0
	}
}

// Claim is a seat's declared interest in the most recent discard. For a
// chow, Tiles holds the two hand tiles that extend the discard into a run.
// Win and pung claims leave Tiles empty; their hand tiles are implied.
type Claim struct {
	Seat  int
	Kind  ClaimKind
	Tiles []tile.Tile
}

// String returns a human-readable form of the claim
func (c Claim) String() string {
	if c.Kind == ClaimChow && len(c.Tiles) == 2 {
		return fmt.Sprintf("seat %d %s with %s %s", c.Seat, c.Kind, c.Tiles[0], c.Tiles[1])
	}
	return fmt.Sprintf("seat %d %s", c.Seat, c.Kind)
}

// clockwiseDistance returns how many seats clockwise from the discarder a
// seat sits, in 1..NumSeats-1. The next player is distance 1.
func clockwiseDistance(discarder, seat int) int {
	return ((seat - discarder) + NumSeats) % NumSeats
}

// chowWindows enumerates the pairs of hand tiles that would complete a run
// around the discarded value: the discard can sit at the top, middle or
// bottom of the run. Windows that fall outside 1..9 are skipped.
func chowWindows(t tile.Tile) [][2]tile.Tile {
	if t.IsHonor() {
		return nil
	}
	var windows [][2]tile.Tile
	for _, offsets := range [][2]int{{-2, -1}, {-1, 1}, {1, 2}} {
		lo, hi := t.Value+offsets[0], t.Value+offsets[1]
		if lo < 1 || hi > 9 {
			continue
		}
		windows = append(windows, [2]tile.Tile{
			tile.New(t.Suit, lo),
			tile.New(t.Suit, hi),
		})
	}
	return windows
}

// claimsForSeat computes every claim a single seat could make on the
// discard. A seat never claims its own discard. Chows are restricted to
// the seat immediately after the discarder and to suited tiles.
func claimsForSeat(p *Player, seat, discarder int, t tile.Tile) []Claim {
	if seat == discarder {
		return nil
	}

	var claims []Claim

	withTile := make([]tile.Tile, 0, len(p.Hand)+1)
	withTile = append(withTile, p.Hand...)
	withTile = append(withTile, t)
	if evaluator.CompletesWithMelds(withTile, len(p.Melds)) {
		claims = append(claims, Claim{Seat: seat, Kind: ClaimWin})
	}

	if p.holds(t) >= 2 {
		claims = append(claims, Claim{Seat: seat, Kind: ClaimPung})
	}

	if clockwiseDistance(discarder, seat) == 1 {
		for _, window := range chowWindows(t) {
			if p.holds(window[0]) > 0 && p.holds(window[1]) > 0 {
				claims = append(claims, Claim{
					Seat:  seat,
					Kind:  ClaimChow,
					Tiles: []tile.Tile{window[0], window[1]},
				})
			}
		}
	}

	return claims
}

// RankClaims orders claims by precedence: higher priority first, and
// among equal priorities the seat nearest clockwise from the discarder.
// The ordering is total, so the head of the result is the winning claim.
func RankClaims(claims []Claim, discarder int) []Claim {
	ranked := make([]Claim, len(claims))
	copy(ranked, claims)
	sort.SliceStable(ranked, func(i, j int) bool {
		pi, pj := ranked[i].Kind.Priority(), ranked[j].Kind.Priority()
		if pi != pj {
			return pi > pj
		}
		return clockwiseDistance(discarder, ranked[i].Seat) < clockwiseDistance(discarder, ranked[j].Seat)
	})
	return ranked
}
