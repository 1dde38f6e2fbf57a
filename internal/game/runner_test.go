package game

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/coder/quartz"

	"github.com/lox/mahjongforbots/internal/randutil"
	"github.com/lox/mahjongforbots/internal/tile"
)

// passiveAgent discards the first tile on offer and never claims or wins
type passiveAgent struct{}

func (a *passiveAgent) MakeDecision(tableState TableState, valid []ValidDecision) Decision {
	for _, v := range valid {
		if v.Action == DecidePass {
			return Decision{Action: DecidePass, Reasoning: "never claims"}
		}
	}
	for _, v := range valid {
		if v.Action == DecideDiscard && len(v.Tiles) > 0 {
			return Decision{Action: DecideDiscard, Tile: v.Tiles[0], Reasoning: "first tile"}
		}
	}
	return Decision{Action: DecidePass, Reasoning: "nothing to do"}
}

// greedyAgent takes any win on offer, drawn or discarded. Otherwise it
// behaves like passiveAgent
type greedyAgent struct{}

func (a *greedyAgent) MakeDecision(tableState TableState, valid []ValidDecision) Decision {
	for _, v := range valid {
		if v.Action == DecideWin {
			return Decision{Action: DecideWin, Reasoning: "complete hand"}
		}
		if v.Action == DecideClaim && v.Claim.Kind == ClaimWin {
			return Decision{Action: DecideClaim, Claim: v.Claim, Reasoning: "winning discard"}
		}
	}
	return (&passiveAgent{}).MakeDecision(tableState, valid)
}

// claimAgent accepts the first claim of the wanted kind and otherwise
// behaves like passiveAgent
type claimAgent struct {
	kind ClaimKind
}

func (a *claimAgent) MakeDecision(tableState TableState, valid []ValidDecision) Decision {
	for _, v := range valid {
		if v.Action == DecideClaim && v.Claim.Kind == a.kind {
			return Decision{Action: DecideClaim, Claim: v.Claim, Reasoning: "wanted claim"}
		}
	}
	return (&passiveAgent{}).MakeDecision(tableState, valid)
}

// scriptedAgent plays back fixed decisions, then falls back to passive play
type scriptedAgent struct {
	decisions []Decision
	index     int
}

func (a *scriptedAgent) MakeDecision(tableState TableState, valid []ValidDecision) Decision {
	if a.index < len(a.decisions) {
		decision := a.decisions[a.index]
		a.index++
		return decision
	}
	return (&passiveAgent{}).MakeDecision(tableState, valid)
}

// brokenAgent always returns an unplayable discard
type brokenAgent struct{}

func (a *brokenAgent) MakeDecision(tableState TableState, valid []ValidDecision) Decision {
	return Decision{Action: DecideDiscard, Tile: tile.Tile{}, Reasoning: "confused"}
}

func riggedSelfDrawWall() []tile.Tile {
	return MustRiggedWall([NumSeats]string{
		winnerHand,
		"1b 2b 3b 4b 5b 6b 7b 8b 9b ew ew sw sw",
		"1b 2b 3b 4b 5b 6b 7b 8b 9b ww ww nw nw",
		"1d 1d 2d 2d 9d 9d wd wd gd gd rd rd nw",
	}, "5d")
}

func TestRunnerPlaysSelfDrawnWin(t *testing.T) {
	g := NewTestGame(WithWall(riggedSelfDrawWall()))
	runner := NewRunner(g, &passiveAgent{}, testLogger())

	agents := map[string]Agent{"Alice": &greedyAgent{}}
	result, err := runner.PlayRound(context.Background(), agents)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Winner != 0 {
		t.Errorf("Expected seat 0 to win, got %d", result.Winner)
	}
	if result.WinnerName != "Alice" {
		t.Errorf("Expected Alice to win, got %s", result.WinnerName)
	}
	if !result.SelfDrawn {
		t.Error("Expected a self-drawn win")
	}
	if result.Score != DefaultWinScore*(NumSeats-1) {
		t.Errorf("Expected score %d, got %d", DefaultWinScore*(NumSeats-1), result.Score)
	}
	if result.GameID != g.GameID() {
		t.Errorf("Expected game ID %s, got %s", g.GameID(), result.GameID)
	}
	if len(result.Decisions) != 1 {
		t.Fatalf("Expected a single decision, got %d", len(result.Decisions))
	}
	if result.Decisions[0].Action != DecideWin || result.Decisions[0].PlayerName != "Alice" {
		t.Errorf("Expected Alice's win recorded, got %v", result.Decisions[0])
	}
}

func TestRunnerPlaysClaimedWin(t *testing.T) {
	wall := MustRiggedWall([NumSeats]string{
		"1d 1d 2d 2d 9d 9d wd wd gd gd rd rd nw",
		"1b 2b 3b 4b 5b 6b 7b 8b 9b ew ew sw sw",
		winnerHand,
		"1b 2b 3b 4b 5b 6b 7b 8b 9b ww ww nw nw",
	}, "5d")
	g := NewTestGame(WithWall(wall))
	runner := NewRunner(g, &passiveAgent{}, testLogger())

	agents := map[string]Agent{
		"Alice":   &scriptedAgent{decisions: []Decision{{Action: DecideDiscard, Tile: tile.MustParseTiles("5d")[0], Reasoning: "feeding the wait"}}},
		"Charlie": &greedyAgent{},
	}
	result, err := runner.PlayRound(context.Background(), agents)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Winner != 2 {
		t.Errorf("Expected seat 2 to win, got %d", result.Winner)
	}
	if result.SelfDrawn {
		t.Error("Expected a claimed win")
	}
	if result.Score != DefaultWinScore {
		t.Errorf("Expected score %d, got %d", DefaultWinScore, result.Score)
	}
	if g.Score(0) != -DefaultWinScore {
		t.Errorf("Expected the discarder to pay, got %d", g.Score(0))
	}
	if len(result.Decisions) != 2 {
		t.Fatalf("Expected the discard and the claim recorded, got %d", len(result.Decisions))
	}
	if result.Decisions[1].PlayerName != "Charlie" || result.Decisions[1].Action != DecideClaim {
		t.Errorf("Expected Charlie's claim recorded, got %v", result.Decisions[1])
	}
}

func TestRunnerResolvesContestedClaims(t *testing.T) {
	g := riggedClaimGame(t)
	runner := NewRunner(g, &passiveAgent{}, testLogger())

	agents := map[string]Agent{
		"Alice":   &scriptedAgent{decisions: []Decision{{Action: DecideDiscard, Tile: tile.MustParseTiles("3d")[0]}}},
		"Charlie": &claimAgent{kind: ClaimPung},
	}
	result, err := runner.PlayRound(context.Background(), agents)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	melds := g.Melds(2)
	if len(melds) == 0 {
		t.Fatal("Expected seat 2 to expose a pung")
	}
	if melds[0].Kind.String() != "pung" || tilesText(melds[0].Tiles) != "3d 3d 3d" {
		t.Errorf("Expected the 3d pung exposed, got %s of %s", melds[0].Kind, tilesText(melds[0].Tiles))
	}
	if result.Winner != NoWinner {
		t.Errorf("Expected the round drawn after passive play, got winner %d", result.Winner)
	}

	claimRecorded := false
	for _, entry := range g.History() {
		if entry.Action == ActionClaim {
			claimRecorded = true
		}
	}
	if !claimRecorded {
		t.Error("Expected the claim in the move history")
	}
}

func TestRunnerDrawnRound(t *testing.T) {
	g := NewTestGame()
	runner := NewRunner(g, &passiveAgent{}, testLogger())

	result, err := runner.PlayRound(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if result.Winner != NoWinner {
		t.Errorf("Expected no winner, got %d", result.Winner)
	}
	if result.WinnerName != "" {
		t.Errorf("Expected no winner name, got %s", result.WinnerName)
	}
	if result.Score != 0 {
		t.Errorf("Expected no score in a drawn round, got %d", result.Score)
	}
	if g.WallRemaining() != 0 {
		t.Errorf("Expected an empty wall, got %d", g.WallRemaining())
	}
	for seat := 0; seat < NumSeats; seat++ {
		if g.Score(seat) != 0 {
			t.Errorf("Expected seat %d untouched, got %d", seat, g.Score(seat))
		}
	}
}

func TestRunnerDeterministicForSeed(t *testing.T) {
	play := func() []string {
		g, err := NewGame(TestNames, randutil.New(7))
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		runner := NewRunner(g, &passiveAgent{}, testLogger())
		if _, err := runner.PlayRound(context.Background(), nil); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		moves := make([]string, 0, len(g.History()))
		for _, entry := range g.History() {
			moves = append(moves, entry.String())
		}
		return moves
	}

	first := play()
	second := play()
	if len(first) != len(second) {
		t.Fatalf("Expected identical move counts, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("Expected move %d to match, got %q and %q", i, first[i], second[i])
		}
	}
}

func TestRunnerFallsBackOnBadDecisions(t *testing.T) {
	g := NewTestGame()
	runner := NewRunner(g, &brokenAgent{}, testLogger())

	result, err := runner.PlayRound(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if result.Winner != NoWinner {
		t.Errorf("Expected the round to run to exhaustion, got winner %d", result.Winner)
	}
	if g.Phase() != PhaseEnded {
		t.Errorf("Expected the round finished, got %v", g.Phase())
	}
}

func TestRunnerStopsOnCancelledContext(t *testing.T) {
	g := NewTestGame()
	runner := NewRunner(g, &passiveAgent{}, testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := runner.PlayRound(ctx, nil)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if result != nil {
		t.Errorf("Expected no result after cancellation, got %v", result)
	}
}

func TestRunnerCancelInterruptsPause(t *testing.T) {
	g := NewTestGame()
	runner := NewRunner(g, &passiveAgent{}, testLogger(), WithMoveDelay(time.Hour))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan error, 1)
	go func() {
		_, err := runner.PlayRound(ctx, nil)
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Expected the pause to yield to cancellation")
	}
}

func TestRunnerPacesMovesWithClock(t *testing.T) {
	mockClock := quartz.NewMock(t)
	g := NewTestGame(WithWall(riggedSelfDrawWall()))
	runner := NewRunner(g, &greedyAgent{}, testLogger(),
		WithMoveDelay(time.Second),
		WithClock(mockClock))

	trap := mockClock.Trap().AfterFunc()
	defer trap.Close()

	type outcome struct {
		result *RoundResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := runner.PlayRound(context.Background(), nil)
		done <- outcome{result, err}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// one pause before the draw, one before the winning declaration
	for i := 0; i < 2; i++ {
		call := trap.MustWait(ctx)
		call.Release(ctx)
		mockClock.Advance(time.Second).MustWait(ctx)
	}

	select {
	case out := <-done:
		if out.err != nil {
			t.Fatalf("Unexpected error: %v", out.err)
		}
		if out.result.Winner != 0 {
			t.Errorf("Expected seat 0 to win, got %d", out.result.Winner)
		}
	case <-ctx.Done():
		t.Fatal("Expected the round to finish after two paced moves")
	}
}

func TestRunnerAgentSelectionByName(t *testing.T) {
	g := NewTestGame(WithWall(riggedSelfDrawWall()))
	runner := NewRunner(g, &passiveAgent{}, testLogger())

	scripted := &scriptedAgent{decisions: []Decision{
		{Action: DecideDiscard, Tile: tile.MustParseTiles("5d")[0], Reasoning: "scripted opening"},
	}}
	agents := map[string]Agent{"Alice": scripted}

	result, err := runner.PlayRound(context.Background(), agents)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Decisions) == 0 {
		t.Fatal("Expected recorded decisions")
	}
	first := result.Decisions[0]
	if first.PlayerName != "Alice" || first.Reasoning != "scripted opening" {
		t.Errorf("Expected Alice's scripted decision first, got %v", first)
	}
	if scripted.index != 1 {
		t.Errorf("Expected the script consumed, got index %d", scripted.index)
	}
}
