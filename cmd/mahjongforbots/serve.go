package main

import (
	"fmt"
	"time"

	"github.com/lox/mahjongforbots/cmd/mahjongforbots/shared"
	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/randutil"
	"github.com/lox/mahjongforbots/internal/spectator"
)

type ServeCmd struct {
	Addr     string `default:":8090" help:"WebSocket listen address"`
	Opponent string `default:"mixed" help:"Bot lineup (policy, rand, mixed)"`
	Rounds   int    `default:"0" help:"Rounds to stream, 0 for unlimited"`
	Seed     *int64 `help:"RNG seed (default: current time)"`
	Delay    int    `default:"1000" help:"Delay between moves in milliseconds"`
	Debug    bool   `help:"Enable debug logging"`
}

func (c *ServeCmd) Run() error {
	logger := shared.SetupLogger(c.Debug)

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	rng := randutil.New(seed)

	lineup, err := opponentSeats(c.Opponent)
	if err != nil {
		return err
	}
	// Seat 0 always runs the policy bot so every stream has at least
	// one competent player to follow
	types := append([]string{"policy"}, lineup...)

	srv := spectator.NewServer(c.Addr, logger)
	go func() {
		if err := srv.Start(); err != nil {
			logger.Fatal("Spectator server failed", "error", err)
		}
	}()
	defer srv.Stop()
	logger.Info("Streaming bot games", "addr", c.Addr, "seed", seed, "lineup", types)

	ctx := shared.ShutdownContext(logger)

	names := make([]string, game.NumSeats)
	agents := make(map[string]game.Agent, game.NumSeats)
	for seat := 0; seat < game.NumSeats; seat++ {
		names[seat] = fmt.Sprintf("%s-%d", types[seat], seat+1)
		b, err := newBot(types[seat], rng, logger)
		if err != nil {
			return err
		}
		agents[names[seat]] = b
	}

	bus := game.NewEventBus()
	bus.Subscribe(spectator.NewBroadcaster(srv, logger))

	g, err := game.NewGame(names, rng, game.WithEventBus(bus))
	if err != nil {
		return err
	}

	runner := game.NewRunner(g, agents[names[0]], logger,
		game.WithMoveDelay(time.Duration(c.Delay)*time.Millisecond))

	for {
		result, err := runner.PlayRound(ctx, agents)
		if err != nil {
			if ctx.Err() != nil {
				logger.Info("Interrupted, stopping stream")
				return nil
			}
			return err
		}
		logger.Info("Round complete",
			"round", result.RoundNumber,
			"winner", result.WinnerName,
			"score", result.Score,
			"turns", result.Turns,
			"spectators", srv.ConnectionCount())

		if c.Rounds > 0 && g.RoundNumber() >= c.Rounds {
			return nil
		}

		// Let spectators read the result before the next deal
		select {
		case <-ctx.Done():
			return nil
		case <-time.After(3 * time.Second):
		}

		if err := g.StartNextRound(); err != nil {
			return err
		}
	}
}
