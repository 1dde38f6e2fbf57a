// Package bot provides decision-making agents that play seats at a
// table. Bots receive immutable table state and return decisions; they
// never mutate game state.
package bot

import (
	"fmt"
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/mahjongforbots/internal/evaluator"
	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/tile"
)

// DefaultClaimBias is how often PolicyBot claims a discard that keeps
// its hand waiting
const DefaultClaimBias = 0.7

// Discard scoring weights. A tile's usefulness is what it contributes
// toward future groups: copies in hand toward pairs and pungs, suited
// neighbors toward runs, with a small bonus for simples.
const (
	duplicateWeight = 5
	neighborWeight  = 2
	simpleBonus     = 1
)

// PolicyBot plays a simple tile-efficiency strategy. It always declares
// a win when it has one and discards its least useful tile; discards
// that keep its hand waiting are claimed with probability ClaimBias.
type PolicyBot struct {
	rng    *rand.Rand
	logger *log.Logger

	// ClaimBias is the probability of accepting an eligible pung or
	// chow claim. Win claims are always accepted.
	ClaimBias float64
}

// NewPolicyBot creates a new PolicyBot instance
func NewPolicyBot(rng *rand.Rand, logger *log.Logger) *PolicyBot {
	return &PolicyBot{
		rng:       rng,
		logger:    logger,
		ClaimBias: DefaultClaimBias,
	}
}

// MakeDecision analyzes immutable game state and returns a decision
func (b *PolicyBot) MakeDecision(tableState game.TableState, validDecisions []game.ValidDecision) game.Decision {
	if len(validDecisions) == 0 {
		return game.Decision{Action: game.DecidePass, Reasoning: "policy-bot no valid decisions"}
	}

	if d, ok := findDecision(game.DecideWin, validDecisions); ok {
		return game.Decision{Action: d.Action, Reasoning: "policy-bot declaring win"}
	}

	acting := tableState.Players[tableState.ActingSeatIdx]

	for _, valid := range validDecisions {
		if valid.Action != game.DecideClaim {
			continue
		}
		if valid.Claim.Kind == game.ClaimWin {
			return game.Decision{
				Action:    game.DecideClaim,
				Claim:     valid.Claim,
				Reasoning: "policy-bot winning on the discard",
			}
		}
		if tableState.LastDiscard == nil {
			continue
		}
		if !b.ShouldClaim(acting.Hand, valid.Claim, *tableState.LastDiscard, len(acting.Melds)) {
			continue
		}
		return game.Decision{
			Action:    game.DecideClaim,
			Claim:     valid.Claim,
			Reasoning: fmt.Sprintf("policy-bot claiming %s to stay waiting", valid.Claim.Kind),
		}
	}

	if d, ok := findDecision(game.DecideDiscard, validDecisions); ok {
		discard, score := b.ChooseDiscard(d.Tiles)
		return game.Decision{
			Action:    game.DecideDiscard,
			Tile:      discard,
			Reasoning: fmt.Sprintf("policy-bot discarding %s (usefulness %d)", discard, score),
		}
	}

	return game.Decision{Action: game.DecidePass, Reasoning: "policy-bot passing"}
}

// ChooseDiscard returns the least useful tile in the hand and its
// usefulness score. Ties go to the earliest tile in canonical order.
func (b *PolicyBot) ChooseDiscard(hand []tile.Tile) (tile.Tile, int) {
	sorted := make([]tile.Tile, len(hand))
	copy(sorted, hand)
	tile.Sort(sorted)

	best := sorted[0]
	bestScore := b.usefulness(sorted, sorted[0])
	for _, t := range sorted[1:] {
		if score := b.usefulness(sorted, t); score < bestScore {
			best, bestScore = t, score
		}
	}
	return best, bestScore
}

// usefulness scores one tile against the rest of the hand
func (b *PolicyBot) usefulness(hand []tile.Tile, t tile.Tile) int {
	score := 0
	for _, other := range hand {
		if other.Equals(t) {
			score += duplicateWeight
		}
	}
	score -= duplicateWeight // exclude the tile itself

	if t.Suit.IsSuited() {
		for _, other := range hand {
			if other.Suit != t.Suit || other.Equals(t) {
				continue
			}
			if diff := other.Value - t.Value; diff >= -2 && diff <= 2 {
				score += neighborWeight
			}
		}
	}

	if t.IsSimple() {
		score += simpleBonus
	}
	return score
}

// ShouldClaim reports whether to accept a pung or chow claim. The claim
// is worth taking when some follow-up discard leaves the hand waiting,
// and even then only with probability ClaimBias.
func (b *PolicyBot) ShouldClaim(hand []tile.Tile, claim game.Claim, discarded tile.Tile, melds int) bool {
	if !claimKeepsWaiting(hand, claim, discarded, melds) {
		return false
	}
	return b.rng.Float64() < b.ClaimBias
}

// claimKeepsWaiting forms the claimed meld and checks whether any
// discard from the remaining tiles leaves a waiting hand
func claimKeepsWaiting(hand []tile.Tile, claim game.Claim, discarded tile.Tile, melds int) bool {
	remaining := make([]tile.Tile, len(hand))
	copy(remaining, hand)

	switch claim.Kind {
	case game.ClaimPung:
		if !removeCopy(&remaining, discarded) || !removeCopy(&remaining, discarded) {
			return false
		}
	case game.ClaimChow:
		if len(claim.Tiles) != 2 {
			return false
		}
		if !removeCopy(&remaining, claim.Tiles[0]) || !removeCopy(&remaining, claim.Tiles[1]) {
			return false
		}
	default:
		return false
	}

	tried := make(map[int]bool)
	for i, t := range remaining {
		if tried[t.TypeIndex()] {
			continue
		}
		tried[t.TypeIndex()] = true

		after := make([]tile.Tile, 0, len(remaining)-1)
		after = append(after, remaining[:i]...)
		after = append(after, remaining[i+1:]...)
		if len(evaluator.WaitingTilesWithMelds(after, melds+1)) > 0 {
			return true
		}
	}
	return false
}

// removeCopy removes one copy of a tile type and reports success
func removeCopy(tiles *[]tile.Tile, t tile.Tile) bool {
	for i, held := range *tiles {
		if held.Equals(t) {
			*tiles = append((*tiles)[:i], (*tiles)[i+1:]...)
			return true
		}
	}
	return false
}

// findDecision returns the first valid decision with the given action
func findDecision(action game.DecisionAction, valid []game.ValidDecision) (game.ValidDecision, bool) {
	for _, v := range valid {
		if v.Action == action {
			return v, true
		}
	}
	return game.ValidDecision{}, false
}
