package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/mahjongforbots/cmd/mahjongforbots/shared"
	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/randutil"
	"github.com/lox/mahjongforbots/internal/tile"
	"github.com/lox/mahjongforbots/internal/tui"
)

type PlayCmd struct {
	Name      string `default:"You" help:"Your player name"`
	Opponents string `default:"policy" help:"Opponent type (policy, rand, mixed)"`
	Rounds    int    `default:"4" help:"Rounds to play before the table closes"`
	Seed      *int64 `help:"RNG seed (default: current time)"`
	Delay     int    `default:"600" help:"Bot move delay in milliseconds"`
	RecordDir string `help:"Directory for game records (empty disables recording)"`
	Debug     bool   `help:"Enable debug logging"`
}

func (c *PlayCmd) Run() error {
	// The TUI owns the terminal, so logs go to a file
	logger, logFile, err := shared.SetupFileLogger("mahjong-main.log", c.Debug)
	if err != nil {
		return fmt.Errorf("failed to create main debug log: %w", err)
	}
	defer func() {
		if err := logFile.Close(); err != nil {
			log.Error("Failed to close debug file", "error", err)
		}
	}()

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := randutil.New(seed)
	logger.Info("Starting interactive table", "seed", seed, "opponents", c.Opponents)

	opponents, err := opponentSeats(c.Opponents)
	if err != nil {
		return err
	}

	// Human takes seat 0, bots fill the remaining seats
	names := make([]string, game.NumSeats)
	names[0] = c.Name
	for seat := 1; seat < game.NumSeats; seat++ {
		names[seat] = fmt.Sprintf("Bot-%d", seat)
	}

	tuiAgent, err := tui.NewAgent(logger)
	if err != nil {
		return fmt.Errorf("failed to create interface: %w", err)
	}
	if err := tuiAgent.Start(); err != nil {
		return fmt.Errorf("failed to start TUI: %w", err)
	}
	defer func() {
		if err := tuiAgent.Close(); err != nil {
			log.Error("Failed to close interface", "error", err)
		}
	}()

	model := tuiAgent.Model()
	bus := game.NewEventBus()
	bus.Subscribe(tui.NewWatcher(model))

	var record *game.GameRecord
	if c.RecordDir != "" {
		record = game.NewGameRecord(seed, game.NewFileRecordWriter(c.RecordDir))
		bus.Subscribe(record)
	}

	g, err := game.NewGame(names, rng, game.WithEventBus(bus))
	if err != nil {
		return err
	}

	agents := make(map[string]game.Agent)
	agents[c.Name] = tuiAgent
	for seat := 1; seat < game.NumSeats; seat++ {
		b, err := newBot(opponents[seat-1], rng, logger)
		if err != nil {
			return err
		}
		agents[names[seat]] = b
	}

	// Fallback covers any seat missing from the agents map
	fallback, err := newBot("policy", rng, logger)
	if err != nil {
		return err
	}

	runner := game.NewRunner(g, fallback, logger,
		game.WithMoveDelay(time.Duration(c.Delay)*time.Millisecond))

	ctx := shared.ShutdownContext(logger)

	// Main table loop
	for {
		refreshSidebar(model, g)

		result, err := runner.PlayRound(ctx, agents)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Interrupted, leaving table")
				return nil
			}
			return err
		}
		logger.Info("Round complete", "round", result.RoundNumber, "winner", result.WinnerName, "turns", result.Turns)
		refreshSidebar(model, g)

		if record != nil {
			if err := record.SaveToFile(); err != nil {
				logger.Error("Failed to save game record", "error", err, "gameID", result.GameID)
			}
		}

		if g.RoundNumber() >= c.Rounds {
			model.Announce("Table closed after the final round. Press Enter to leave.")
			model.WaitForCommand()
			return nil
		}

		model.Announce("Press Enter for the next round, or type quit to leave the table.")
		cmd := model.WaitForCommand()
		if cmd.Quit || cmd.Verb == "quit" || cmd.Verb == "q" || cmd.Verb == "exit" {
			logger.Info("Player left the table", "round", g.RoundNumber())
			return nil
		}

		model.ClearLog()
		if err := g.StartNextRound(); err != nil {
			return err
		}
	}
}

// refreshSidebar pushes the current scores, winds and meld counts into
// the TUI sidebar. The human always sits at seat 0.
func refreshSidebar(model *tui.Model, g *game.Game) {
	players := make([]tui.PlayerInfo, game.NumSeats)
	for seat := 0; seat < game.NumSeats; seat++ {
		players[seat] = tui.PlayerInfo{
			Name:     g.PlayerName(seat),
			SeatWind: tile.WindName(g.SeatWind(seat)),
			Score:    g.Score(seat),
			Melds:    len(g.Melds(seat)),
		}
	}
	model.SetTableInfo(g.GameID(), 0, players)
}
