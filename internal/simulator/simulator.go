package simulator

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/mahjongforbots/internal/bot"
	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/randutil"
	"github.com/lox/mahjongforbots/internal/statistics"
)

// heroName is the player whose results the statistics track
const heroName = "OurBot"

// Config holds configuration for running simulations
type Config struct {
	Rounds       int
	OpponentType string
	Seed         int64
	Timeout      time.Duration
	Workers      int
	RecordDir    string
	WinScore     int      // zero keeps the engine default
	PlayerNames  []string // optional seat names, focal player first
	Logger       *log.Logger
}

// Simulator runs rounds against configured opponents and collects
// statistics for the focal seat. Each round derives its own seed from
// the base seed, so results are identical regardless of worker count.
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	return &Simulator{config: config}
}

// Run executes the simulation and returns results
func (s *Simulator) Run() (*statistics.Statistics, string, error) {
	// Determine opponent info string
	opponentInfo := s.config.OpponentType
	var opponentMix []string
	if s.config.OpponentType == "mixed" {
		opponentMix = createMixedOpponentTypes()
		opponentInfo = fmt.Sprintf("mixed(%s)", strings.Join(opponentMix, ","))
	}

	var stats *statistics.Statistics
	var err error
	if s.config.Workers > 1 {
		stats, err = s.runParallel(opponentMix)
	} else {
		stats, err = s.runSequential(opponentMix)
	}
	if err != nil {
		return nil, "", err
	}

	// Validate statistics before returning
	if err := stats.Validate(); err != nil {
		return nil, "", fmt.Errorf("statistics validation failed: %w", err)
	}

	return stats, opponentInfo, nil
}

func (s *Simulator) runSequential(opponentMix []string) (*statistics.Statistics, error) {
	stats := &statistics.Statistics{}
	for round := 0; round < s.config.Rounds; round++ {
		outcome, err := s.playRound(round, opponentMix)
		if err != nil {
			return nil, fmt.Errorf("round %d failed: %w", round+1, err)
		}
		stats.Add(outcome)
	}
	return stats, nil
}

// runParallel fans rounds out across workers. Each round still gets its
// seed from the base seed and round index, so the set of outcomes
// matches a sequential run.
func (s *Simulator) runParallel(opponentMix []string) (*statistics.Statistics, error) {
	workers := s.config.Workers
	roundsPerWorker := s.config.Rounds / workers
	remainder := s.config.Rounds % workers

	// Use errgroup to manage workers
	g, ctx := errgroup.WithContext(context.Background())
	results := make(chan statistics.RoundOutcome, workers)

	// Launch workers over disjoint round ranges
	start := 0
	for w := 0; w < workers; w++ {
		count := roundsPerWorker
		if w < remainder {
			count++ // Distribute remainder rounds
		}
		workerStart := start
		start += count

		g.Go(func() error {
			for round := workerStart; round < workerStart+count; round++ {
				outcome, err := s.playRound(round, opponentMix)
				if err != nil {
					return fmt.Errorf("round %d failed: %w", round+1, err)
				}
				select {
				case results <- outcome:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	// Collect results
	go func() {
		defer close(results)
		g.Wait()
	}()

	stats := &statistics.Statistics{}
	for outcome := range results {
		stats.Add(outcome)
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}

// playRound simulates a single round. The focal seat rotates with the
// round index to remove seat bias from the results.
func (s *Simulator) playRound(round int, opponentMix []string) (statistics.RoundOutcome, error) {
	roundSeed := randutil.Derive(s.config.Seed, round)
	heroSeat := round % game.NumSeats
	rng := randutil.New(roundSeed)

	// Seat our bot among the opponents. Configured names keep their
	// order; only the focal seat rotates.
	heroLabel := heroName
	if len(s.config.PlayerNames) > 0 {
		heroLabel = s.config.PlayerNames[0]
	}
	names := make([]string, game.NumSeats)
	oppIndex := 1
	for seat := 0; seat < game.NumSeats; seat++ {
		switch {
		case seat == heroSeat:
			names[seat] = heroLabel
		case len(s.config.PlayerNames) == game.NumSeats:
			names[seat] = s.config.PlayerNames[oppIndex]
			oppIndex++
		default:
			names[seat] = fmt.Sprintf("Opp%d", seat)
		}
	}

	var opts []game.GameOption
	if s.config.WinScore > 0 {
		opts = append(opts, game.WithWinScore(s.config.WinScore))
	}
	var record *game.GameRecord
	if s.config.RecordDir != "" {
		bus := game.NewEventBus()
		record = game.NewGameRecord(roundSeed, game.NewFileRecordWriter(s.config.RecordDir))
		bus.Subscribe(record)
		opts = append(opts, game.WithEventBus(bus))
	}

	g, err := game.NewGame(names, rng, opts...)
	if err != nil {
		return statistics.RoundOutcome{}, err
	}

	// Create agents with controlled RNG
	agents := make(map[string]game.Agent)
	agents[heroLabel] = bot.NewPolicyBot(rng, s.config.Logger)
	typeIndex := 0
	for seat := 0; seat < game.NumSeats; seat++ {
		if seat == heroSeat {
			continue
		}
		opponentType := s.config.OpponentType
		if len(opponentMix) > 0 {
			opponentType = opponentMix[typeIndex%len(opponentMix)]
			typeIndex++
		}
		agents[names[seat]] = createOpponent(opponentType, rng, s.config.Logger)
	}

	// The timeout bounds a wedged round; the runner checks the context
	// between decisions
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Timeout)
	defer cancel()

	runner := game.NewRunner(g, agents[heroLabel], s.config.Logger)
	result, err := runner.PlayRound(ctx, agents)
	if err != nil {
		if ctx.Err() != nil {
			return statistics.RoundOutcome{}, fmt.Errorf("round timed out after %v (seed: %d, seat: %d)",
				s.config.Timeout, roundSeed, heroSeat)
		}
		return statistics.RoundOutcome{}, err
	}

	if record != nil {
		if err := record.SaveToFile(); err != nil {
			s.config.Logger.Error("Failed to save game record", "error", err, "gameID", result.GameID)
		}
	}

	return statistics.RoundOutcome{
		NetPoints: float64(g.Score(heroSeat)),
		Seed:      roundSeed,
		Seat:      heroSeat,
		Winner:    result.Winner,
		SelfDrawn: result.SelfDrawn,
		Turns:     result.Turns,
	}, nil
}

// createMixedOpponentTypes returns a fixed mix of opponent types for
// consistent testing
func createMixedOpponentTypes() []string {
	return []string{"policy", "rand", "policy"}
}

// createOpponent creates an opponent of the specified type
func createOpponent(opponentType string, rng *rand.Rand, logger *log.Logger) game.Agent {
	switch opponentType {
	case "policy":
		return bot.NewPolicyBot(rng, logger)
	case "rand":
		return bot.NewRandBot(rng, logger)
	default:
		logger.Fatal("Unknown opponent type", "type", opponentType)
		return nil
	}
}

// RunSimulation is a convenience function for running a simulation with
// basic parameters
func RunSimulation(rounds int, opponentType string, seed int64, timeout time.Duration, logger *log.Logger) (*statistics.Statistics, string, error) {
	config := Config{
		Rounds:       rounds,
		OpponentType: opponentType,
		Seed:         seed,
		Timeout:      timeout,
		Workers:      1,
		Logger:       logger,
	}

	simulator := New(config)
	return simulator.Run()
}

// PrintSummary prints a comprehensive summary of simulation results
func PrintSummary(stats *statistics.Statistics, opponentType string) {
	mean := stats.Mean()
	median := stats.Median()
	stdDev := stats.StdDev()
	stdErr := stats.StdError()
	low, high := stats.ConfidenceInterval95()
	p25 := stats.Percentile(0.25)
	p75 := stats.Percentile(0.75)
	p95 := stats.Percentile(0.95)
	p05 := stats.Percentile(0.05)

	fmt.Printf("\n=== FINAL RESULTS vs %s-bot ===\n", opponentType)
	fmt.Printf("Rounds played: %d\n", stats.Rounds)

	fmt.Printf("\n=== STATISTICAL RESULTS ===\n")
	fmt.Printf("Mean: %.4f points/round\n", mean)
	fmt.Printf("Median: %.4f points/round\n", median)
	fmt.Printf("Std Dev: %.4f points\n", stdDev)
	fmt.Printf("Std Error: %.4f points\n", stdErr)
	fmt.Printf("95%% CI: [%.4f, %.4f] points/round\n", low, high)
	fmt.Printf("Percentiles: P5=%.3f, P25=%.3f, P75=%.3f, P95=%.3f\n", p05, p25, p75, p95)

	fmt.Printf("\n=== WIN SOURCE ANALYSIS ===\n")
	fmt.Printf("Win rate: %.1f%%, draw rate: %.1f%%\n", stats.WinRate()*100, stats.DrawRate()*100)
	totalWins := stats.SelfDrawnWins + stats.ClaimedWins
	if totalWins > 0 {
		selfDrawnPct := float64(stats.SelfDrawnWins) / float64(totalWins) * 100
		claimedPct := float64(stats.ClaimedWins) / float64(totalWins) * 100
		fmt.Printf("Winning rounds: %d self-drawn (%.1f%%), %d on discards (%.1f%%)\n",
			stats.SelfDrawnWins, selfDrawnPct, stats.ClaimedWins, claimedPct)
	}

	// Report means per ALL rounds, not just wins
	meanSelfDrawn := stats.SelfDrawnPoints / float64(stats.Rounds)
	meanClaimed := stats.ClaimedPoints / float64(stats.Rounds)
	fmt.Printf("Self-drawn rounds: %.2f points/round avg (all rounds)\n", meanSelfDrawn)
	fmt.Printf("Claimed rounds: %.2f points/round avg (all rounds)\n", meanClaimed)
	fmt.Printf("Sanity check: %.2f + %.2f = %.2f (should equal %.2f)\n",
		meanSelfDrawn, meanClaimed, meanSelfDrawn+meanClaimed, mean)

	fmt.Printf("\n=== ROUND LENGTH ANALYSIS ===\n")
	fmt.Printf("Mean length: %.1f turns\n", stats.MeanTurns())
	fmt.Printf("Longest round: %d turns\n", stats.MaxTurns)
	fmt.Printf("Long rounds (>=60 turns): %d (%.1f%%)\n",
		stats.LongRounds, float64(stats.LongRounds)/float64(stats.Rounds)*100)

	fmt.Printf("\n=== SEAT ANALYSIS ===\n")
	for seat := 0; seat < statistics.NumSeats; seat++ {
		ss := stats.SeatResults[seat]
		if ss.Rounds > 0 {
			fmt.Printf("Seat %d: %d rounds, %.3f points/round\n", seat, ss.Rounds, stats.SeatMean(seat))
		}
	}
}
