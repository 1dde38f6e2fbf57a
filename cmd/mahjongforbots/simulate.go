package main

import (
	"fmt"
	"time"

	"github.com/lox/mahjongforbots/cmd/mahjongforbots/shared"
	"github.com/lox/mahjongforbots/internal/simulator"
)

type SimulateCmd struct {
	Config    string `default:"simulation.hcl" help:"HCL configuration file (missing file uses defaults)"`
	Rounds    int    `help:"Number of rounds to simulate (overrides config)"`
	Opponent  string `help:"Opponent type: policy, rand, mixed (overrides config)"`
	Seed      int64  `help:"RNG seed, 0 for current time (overrides config)"`
	Workers   int    `help:"Parallel workers (overrides config)"`
	Timeout   int    `help:"Per-round timeout in seconds (overrides config)"`
	RecordDir string `help:"Directory for game records (overrides config)"`
	Debug     bool   `help:"Enable debug logging"`
}

func (c *SimulateCmd) Run() error {
	fileConfig, err := simulator.LoadFileConfig(c.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags override the file
	if c.Rounds > 0 {
		fileConfig.Simulation.Rounds = c.Rounds
	}
	if c.Opponent != "" {
		fileConfig.Simulation.Opponent = c.Opponent
	}
	if c.Seed != 0 {
		fileConfig.Simulation.Seed = c.Seed
	}
	if c.Workers > 0 {
		fileConfig.Simulation.Workers = c.Workers
	}
	if c.Timeout > 0 {
		fileConfig.Simulation.TimeoutSeconds = c.Timeout
	}
	if c.RecordDir != "" {
		fileConfig.Simulation.RecordDir = c.RecordDir
	}
	if err := fileConfig.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	seed := fileConfig.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	logger := shared.SetupLogger(c.Debug || fileConfig.Simulation.LogLevel == "debug")

	config := simulator.Config{
		Rounds:       fileConfig.Simulation.Rounds,
		OpponentType: fileConfig.Simulation.Opponent,
		Seed:         seed,
		Timeout:      time.Duration(fileConfig.Simulation.TimeoutSeconds) * time.Second,
		Workers:      fileConfig.Simulation.Workers,
		RecordDir:    fileConfig.Simulation.RecordDir,
		Logger:       logger,
	}
	if len(fileConfig.Tables) > 0 {
		config.WinScore = fileConfig.Tables[0].WinScore
		config.PlayerNames = fileConfig.Tables[0].Players
	}

	fmt.Printf("Starting simulation: %d rounds vs %s-bot (seed: %d, workers: %d)\n",
		config.Rounds, config.OpponentType, seed, config.Workers)

	startTime := time.Now()
	stats, opponentInfo, err := simulator.New(config).Run()
	if err != nil {
		return fmt.Errorf("simulation failed: %w", err)
	}
	duration := time.Since(startTime)

	fmt.Printf("Completed %d rounds in %v (%.1f rounds/sec)\n",
		stats.Rounds, duration.Round(time.Millisecond),
		float64(stats.Rounds)/duration.Seconds())
	simulator.PrintSummary(stats, opponentInfo)
	return nil
}
