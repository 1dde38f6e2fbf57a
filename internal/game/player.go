package game

import (
	"github.com/lox/mahjongforbots/internal/evaluator"
	"github.com/lox/mahjongforbots/internal/tile"
)

// Seats at the table, in clockwise turn order
const NumSeats = 4

// Player represents one seat. Owned exclusively by Game; external code sees
// copies through TableView and Snapshot.
type Player struct {
	Name      string
	SeatWind  int // tile wind value, East through North
	Hand      []tile.Tile
	Melds     []Meld
	Discarded []tile.Tile // every tile this seat ever discarded, claimed or not
	Score     int
	Automated bool
}

// Meld is a revealed set formed by claiming a discard
type Meld struct {
	Kind        evaluator.GroupKind
	Tiles       []tile.Tile
	ClaimedFrom int // seat that discarded the claimed tile
}

// tileCount returns the number of physical tiles in the meld
func (m Meld) tileCount() int {
	return len(m.Tiles)
}

// handSize is the seat's effective hand size: concealed tiles plus three
// per revealed meld. It is 13 outside the draw-to-discard window and 14
// inside it.
func (p *Player) handSize() int {
	return len(p.Hand) + 3*len(p.Melds)
}

// mustDiscard reports whether the seat is inside the discard window
func (p *Player) mustDiscard() bool {
	return p.handSize() == 14
}

// removeTile removes one copy of a tile type from the concealed hand and
// reports whether a copy was found
func (p *Player) removeTile(t tile.Tile) bool {
	for i, h := range p.Hand {
		if h.Equals(t) {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return true
		}
	}
	return false
}

// holds counts the copies of a tile type in the concealed hand
func (p *Player) holds(t tile.Tile) int {
	count := 0
	for _, h := range p.Hand {
		if h.Equals(t) {
			count++
		}
	}
	return count
}

// sortHand re-sorts the concealed hand into canonical order
func (p *Player) sortHand() {
	tile.Sort(p.Hand)
}
