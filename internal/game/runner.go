package game

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/lox/mahjongforbots/internal/tile"
)

// Runner drives a game to completion, asking agents for decisions and
// applying them through the engine. It owns the loop logic shared by
// interactive play and simulation.
type Runner struct {
	game         *Game
	defaultAgent Agent
	logger       *log.Logger
	clock        quartz.Clock
	moveDelay    time.Duration
}

// RunnerOption configures a Runner
type RunnerOption func(*Runner)

// WithMoveDelay paces the game by pausing between decisions. The pause
// is cancellable through the run context.
func WithMoveDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.moveDelay = d
	}
}

// WithClock sets the clock used for pacing, allowing tests to control
// time
func WithClock(clock quartz.Clock) RunnerOption {
	return func(r *Runner) {
		r.clock = clock
	}
}

// NewRunner creates a runner for a game with a default agent
func NewRunner(g *Game, defaultAgent Agent, logger *log.Logger, opts ...RunnerOption) *Runner {
	r := &Runner{
		game:         g,
		defaultAgent: defaultAgent,
		logger:       logger,
		clock:        quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Game returns the game being driven
func (r *Runner) Game() *Game {
	return r.game
}

// RoundResult contains the results of a completed round
type RoundResult struct {
	GameID      string
	RoundNumber int
	Winner      int
	WinnerName  string
	SelfDrawn   bool
	Score       int
	Turns       int
	Decisions   []SeatDecision
}

// SeatDecision records one decision made during the round
type SeatDecision struct {
	Seat       int
	PlayerName string
	Action     DecisionAction
	Reasoning  string
}

// PlayRound runs the current round from its present state to the end
// and returns the result. Agents are selected by player name, falling
// back to the runner's default agent. Cancelling the context stops the
// round between decisions.
func (r *Runner) PlayRound(ctx context.Context, agents map[string]Agent) (*RoundResult, error) {
	g := r.game
	result := &RoundResult{
		GameID:      g.GameID(),
		RoundNumber: g.RoundNumber(),
	}

	r.logger.Debug("Starting round", "gameID", g.GameID(), "round", g.RoundNumber())

	for g.Phase() == PhasePlaying {
		if err := r.pause(ctx); err != nil {
			return nil, err
		}

		switch {
		case len(g.PendingClaims()) > 0:
			if err := r.resolveClaims(agents, result); err != nil {
				return nil, err
			}
			if g.Phase() == PhasePlaying && len(g.PendingClaims()) == 0 && !g.AwaitingDiscard() {
				if err := g.NextTurn(); err != nil {
					return nil, err
				}
			}

		case g.AwaitingDiscard():
			if err := r.playDiscardWindow(agents, result); err != nil {
				return nil, err
			}

		default:
			if _, ok, err := g.Draw(); err != nil {
				return nil, err
			} else if !ok {
				r.logger.Debug("Wall exhausted", "gameID", g.GameID())
			}
		}
	}

	if err := g.ValidateTileConservation(); err != nil {
		r.logger.Error("Tile conservation violation detected!", "error", err)
		return nil, fmt.Errorf("tile conservation violation: %w", err)
	}

	result.Winner = g.Winner()
	result.SelfDrawn = g.SelfDrawn()
	result.Turns = g.TurnNumber()
	if result.Winner != NoWinner {
		result.WinnerName = g.PlayerName(result.Winner)
		result.Score = g.winScore
		if result.SelfDrawn {
			result.Score = g.winScore * (NumSeats - 1)
		}
		r.logger.Debug("Round complete", "winner", result.WinnerName, "selfDrawn", result.SelfDrawn)
	} else {
		r.logger.Debug("Round complete", "outcome", "drawn")
	}
	return result, nil
}

// playDiscardWindow asks the current seat's agent what to do with its
// fourteenth tile and applies the decision. An invalid decision falls
// back to discarding the first legal tile, so one broken agent cannot
// wedge the round.
func (r *Runner) playDiscardWindow(agents map[string]Agent, result *RoundResult) error {
	g := r.game
	seat := g.CurrentPlayer()
	agent := r.agentFor(seat, agents)

	tableState := g.TableStateFor(seat)
	valid := g.ValidDecisionsFor(seat)
	decision := agent.MakeDecision(tableState, valid)
	r.recordDecision(result, seat, decision)

	var err error
	switch decision.Action {
	case DecideWin:
		err = g.DeclareWin(seat)
	case DecideDiscard:
		_, err = g.Discard(decision.Tile)
	default:
		err = fmt.Errorf("%w: %s is not a turn decision", ErrInvalidArgument, decision.Action)
	}
	if err == nil {
		r.advanceIfQuiet()
		return nil
	}

	r.logger.Error("Failed to apply agent decision", "error", err, "player", g.PlayerName(seat))
	fallback, ok := findValidDiscard(valid)
	if !ok {
		return fmt.Errorf("no valid decision available for seat %d: %w", seat, err)
	}
	if _, err := g.Discard(fallback); err != nil {
		r.logger.Error("Fallback decision also failed", "error", err, "player", g.PlayerName(seat))
		return err
	}
	r.advanceIfQuiet()
	return nil
}

// advanceIfQuiet passes the turn when a discard attracted no claims
func (r *Runner) advanceIfQuiet() {
	g := r.game
	if g.Phase() == PhasePlaying && len(g.PendingClaims()) == 0 && !g.AwaitingDiscard() {
		if err := g.NextTurn(); err != nil {
			r.logger.Error("Failed to advance turn", "error", err)
		}
	}
}

// resolveClaims asks each claiming seat whether it wants its claims and
// settles the window. Unwanted claims are withdrawn; the engine then
// accepts the highest-ranked claim left, or the window closes with a
// pass when nobody claims.
func (r *Runner) resolveClaims(agents map[string]Agent, result *RoundResult) error {
	g := r.game
	pending := g.PendingClaims()

	wanted := make(map[int]*Decision)
	for _, claim := range pending {
		if _, asked := wanted[claim.Seat]; asked {
			continue
		}
		agent := r.agentFor(claim.Seat, agents)
		decision := agent.MakeDecision(g.TableStateFor(claim.Seat), g.ValidDecisionsFor(claim.Seat))
		r.recordDecision(result, claim.Seat, decision)
		wanted[claim.Seat] = &decision
	}

	anyAccepted := false
	for _, claim := range pending {
		decision := wanted[claim.Seat]
		if decision.Action == DecideClaim && claimsEqual(decision.Claim, claim) {
			anyAccepted = true
			continue
		}
		if err := g.DeclineClaim(claim); err != nil {
			return err
		}
	}

	if !anyAccepted {
		if len(g.PendingClaims()) > 0 {
			return g.PassClaims()
		}
		return nil
	}

	remaining := g.PendingClaims()
	if len(remaining) == 0 {
		return nil
	}
	return g.AcceptClaim(remaining[0])
}

// agentFor selects the agent for a seat by player name, falling back to
// the default agent
func (r *Runner) agentFor(seat int, agents map[string]Agent) Agent {
	if agents != nil {
		if agent, ok := agents[r.game.PlayerName(seat)]; ok && agent != nil {
			return agent
		}
	}
	return r.defaultAgent
}

func (r *Runner) recordDecision(result *RoundResult, seat int, decision Decision) {
	result.Decisions = append(result.Decisions, SeatDecision{
		Seat:       seat,
		PlayerName: r.game.PlayerName(seat),
		Action:     decision.Action,
		Reasoning:  decision.Reasoning,
	})
	r.logger.Debug("Seat decision",
		"player", r.game.PlayerName(seat),
		"action", decision.Action,
		"reasoning", decision.Reasoning)
}

// pause waits for the configured move delay or context cancellation
func (r *Runner) pause(ctx context.Context) error {
	if r.moveDelay <= 0 {
		return ctx.Err()
	}

	fired := make(chan struct{})
	timer := r.clock.AfterFunc(r.moveDelay, func() {
		close(fired)
	})
	defer timer.Stop()

	select {
	case <-fired:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// findValidDiscard returns the first legal discard on offer
func findValidDiscard(valid []ValidDecision) (tile.Tile, bool) {
	for _, v := range valid {
		if v.Action == DecideDiscard && len(v.Tiles) > 0 {
			return v.Tiles[0], true
		}
	}
	return tile.Tile{}, false
}
