package main

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/lox/mahjongforbots/internal/bot"
	"github.com/lox/mahjongforbots/internal/game"
)

// botAliases maps accepted opponent names to canonical bot types
var botAliases = map[string]string{
	"policy": "policy",
	"smart":  "policy",
	"rand":   "rand",
	"random": "rand",
}

// opponentSeats expands an opponent selector into one bot type per
// non-hero seat. The "mixed" selector uses the same lineup the
// simulator runs against.
func opponentSeats(selector string) ([]string, error) {
	name := strings.ToLower(selector)
	if name == "mixed" {
		return []string{"policy", "rand", "policy"}, nil
	}
	canonical, ok := botAliases[name]
	if !ok {
		return nil, fmt.Errorf("unknown opponent type %q (available: policy, rand, mixed)", selector)
	}
	return []string{canonical, canonical, canonical}, nil
}

// newBot constructs an in-process bot agent by canonical type
func newBot(botType string, rng *rand.Rand, logger *log.Logger) (game.Agent, error) {
	switch botType {
	case "policy":
		return bot.NewPolicyBot(rng, logger), nil
	case "rand":
		return bot.NewRandBot(rng, logger), nil
	}
	return nil, fmt.Errorf("unknown bot type %q", botType)
}
