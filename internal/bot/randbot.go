package bot

import (
	"math/rand/v2"

	"github.com/charmbracelet/log"

	"github.com/lox/mahjongforbots/internal/game"
)

// RandBot is a simple bot that makes uniform random legal decisions
type RandBot struct {
	rng    *rand.Rand
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng *rand.Rand, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) MakeDecision(tableState game.TableState, validDecisions []game.ValidDecision) game.Decision {
	if len(validDecisions) == 0 {
		return game.Decision{Action: game.DecidePass, Reasoning: "rand-bot no valid decisions"}
	}

	// Pick random valid decision
	choice := validDecisions[r.rng.IntN(len(validDecisions))]

	decision := game.Decision{
		Action:    choice.Action,
		Claim:     choice.Claim,
		Reasoning: "rand-bot random decision",
	}

	// For discards, pick a random tile from the hand
	if choice.Action == game.DecideDiscard && len(choice.Tiles) > 0 {
		decision.Tile = choice.Tiles[r.rng.IntN(len(choice.Tiles))]
	}

	return decision
}
