package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lox/mahjongforbots/cmd/mahjongforbots/shared"
	"github.com/lox/mahjongforbots/internal/bot"
	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/randutil"
	"github.com/lox/mahjongforbots/internal/tile"
)

type ReplayCmd struct {
	Snapshot string `arg:"" help:"Snapshot file to restore" type:"existingfile"`
	Seed     int64  `default:"1" help:"RNG seed for any further draws"`
	Finish   bool   `help:"Let policy bots play the restored round to its end"`
	Debug    bool   `help:"Enable debug logging"`
}

func (c *ReplayCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	snap, err := game.LoadSnapshotFile(c.Snapshot)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	rng := randutil.New(c.Seed)
	g, err := game.RestoreGame(snap, rng)
	if err != nil {
		return fmt.Errorf("failed to restore game: %w", err)
	}
	logger.Info("Restored game", "gameID", g.GameID(), "round", g.RoundNumber(), "turn", g.TurnNumber())

	printTableState(g)

	if history := g.History(); len(history) > 0 {
		fmt.Printf("\n=== MOVE HISTORY (%d moves) ===\n", len(history))
		for i, entry := range history {
			fmt.Printf("%3d. %s\n", i+1, entry)
		}
	}

	if !c.Finish {
		return nil
	}
	if g.Phase() != game.PhasePlaying {
		fmt.Println("\nRound already ended, nothing to finish.")
		return nil
	}

	fmt.Println("\n=== FINISHING ROUND ===")
	agents := make(map[string]game.Agent, game.NumSeats)
	for seat := 0; seat < game.NumSeats; seat++ {
		agents[g.PlayerName(seat)] = bot.NewPolicyBot(rng, logger)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	runner := game.NewRunner(g, agents[g.PlayerName(0)], logger)
	result, err := runner.PlayRound(ctx, agents)
	if err != nil {
		return fmt.Errorf("failed to finish round: %w", err)
	}

	if result.Winner == game.NoWinner {
		fmt.Println("Round drawn, wall exhausted.")
	} else {
		how := "by claiming a discard"
		if result.SelfDrawn {
			how = "by self-draw"
		}
		fmt.Printf("%s wins %d points %s.\n", result.WinnerName, result.Score, how)
	}
	fmt.Println()
	printTableState(g)
	return nil
}

// printTableState dumps the restored table to stdout, one line per seat
func printTableState(g *game.Game) {
	fmt.Printf("=== GAME %s ===\n", g.GameID())
	fmt.Printf("Round %d, %s prevailing, turn %d, %s\n",
		g.RoundNumber(), tile.WindName(g.PrevailingWind()), g.TurnNumber(), g.Phase())
	fmt.Printf("Wall: %d tiles remaining\n", g.WallRemaining())

	for seat := 0; seat < game.NumSeats; seat++ {
		marker := " "
		if g.Phase() == game.PhasePlaying && seat == g.CurrentPlayer() {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s (%s): %d points, %d concealed",
			marker, g.PlayerName(seat), tile.WindName(g.SeatWind(seat)), g.Score(seat), len(g.Hand(seat)))
		if melds := g.Melds(seat); len(melds) > 0 {
			parts := make([]string, len(melds))
			for i, m := range melds {
				parts[i] = fmt.Sprintf("%s[%s]", m.Kind, tileText(m.Tiles))
			}
			line += ", melds " + strings.Join(parts, " ")
		}
		fmt.Println(line)
	}

	if pile := g.DiscardPile(); len(pile) > 0 {
		fmt.Printf("Discards: %s\n", tileText(pile))
	}
}

func tileText(tiles []tile.Tile) string {
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}
