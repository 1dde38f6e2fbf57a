package game

import (
	"fmt"

	"github.com/lox/mahjongforbots/internal/evaluator"
	"github.com/lox/mahjongforbots/internal/tile"
)

// DecisionAction is the kind of decision an agent can return
type DecisionAction int

const (
	// DecideDiscard discards Decision.Tile from the hand
	DecideDiscard DecisionAction = iota
	// DecideWin declares a self-drawn win
	DecideWin
	// DecideClaim accepts Decision.Claim on the last discard
	DecideClaim
	// DecidePass declines to claim the last discard
	DecidePass
)

// String returns the string representation of the decision action
func (a DecisionAction) String() string {
	switch a {
	case DecideDiscard:
		return "discard"
	case DecideWin:
		return "win"
	case DecideClaim:
		return "claim"
	case DecidePass:
		return "pass"
	default:
		return fmt.Sprintf("DecisionAction(%d)", int(a))
	}
}

// Decision represents a seat's decision with reasoning
type Decision struct {
	Action    DecisionAction
	Tile      tile.Tile // for discards
	Claim     Claim     // for claim decisions
	Reasoning string    // human-readable explanation
}

// ValidDecision represents a decision a seat can legally take
type ValidDecision struct {
	Action DecisionAction
	Tiles  []tile.Tile // for discards: the tiles that may be discarded
	Claim  Claim       // for claims: the claim on offer
}

// PlayerState represents the read-only state of a seat for decision making
type PlayerState struct {
	Name      string
	SeatWind  int
	Score     int
	HandSize  int
	Hand      []tile.Tile // only populated for the acting seat
	Melds     []Meld
	Discarded []tile.Tile
}

// TableState represents the read-only state of the table for decision
// making. Concealed hands other than the acting seat's are hidden.
type TableState struct {
	GameID         string
	PrevailingWind int
	RoundNumber    int
	TurnNumber     int
	WallRemaining  int
	DiscardPile    []tile.Tile
	LastDiscard    *tile.Tile
	LastDiscarder  int
	Players        []PlayerState
	ActingSeatIdx  int
}

// Agent represents any entity (human or AI) that can make decisions for
// a seat. Agents receive immutable game state and return decisions; all
// mutation happens inside the engine.
type Agent interface {
	// MakeDecision analyzes immutable game state and returns a decision
	MakeDecision(tableState TableState, validDecisions []ValidDecision) Decision
}

// TableStateFor builds the read-only view presented to a seat's agent.
// Only the acting seat's concealed hand is included; melds and discards
// are public for every seat.
func (g *Game) TableStateFor(seat int) TableState {
	state := TableState{
		GameID:         g.id,
		PrevailingWind: g.prevailingWind,
		RoundNumber:    g.roundNumber,
		TurnNumber:     g.turnNumber,
		WallRemaining:  g.wall.Remaining(),
		DiscardPile:    g.DiscardPile(),
		LastDiscarder:  g.lastDiscarder,
		Players:        make([]PlayerState, NumSeats),
		ActingSeatIdx:  seat,
	}
	if g.hasLastDiscard {
		last := g.lastDiscard
		state.LastDiscard = &last
	}
	for s := 0; s < NumSeats; s++ {
		p := g.players[s]
		ps := PlayerState{
			Name:      p.Name,
			SeatWind:  p.SeatWind,
			Score:     p.Score,
			HandSize:  len(p.Hand),
			Melds:     g.Melds(s),
			Discarded: g.Discards(s),
		}
		if s == seat {
			ps.Hand = g.Hand(s)
		}
		state.Players[s] = ps
	}
	return state
}

// ValidDecisionsFor returns the decisions a seat can legally make right
// now. It is empty when the seat has nothing to decide, such as when a
// draw is forced or another seat is acting.
func (g *Game) ValidDecisionsFor(seat int) []ValidDecision {
	if g.phase == PhaseEnded || seat < 0 || seat >= NumSeats {
		return nil
	}

	if len(g.pendingClaims) > 0 {
		var valid []ValidDecision
		for _, c := range g.pendingClaims {
			if c.Seat == seat {
				valid = append(valid, ValidDecision{Action: DecideClaim, Claim: c})
			}
		}
		if len(valid) > 0 {
			valid = append(valid, ValidDecision{Action: DecidePass})
		}
		return valid
	}

	if seat != g.current || !g.awaitingDiscard {
		return nil
	}

	var valid []ValidDecision
	p := g.players[seat]
	if evaluator.CompletesWithMelds(p.Hand, len(p.Melds)) {
		valid = append(valid, ValidDecision{Action: DecideWin})
	}
	valid = append(valid, ValidDecision{Action: DecideDiscard, Tiles: g.Hand(seat)})
	return valid
}
