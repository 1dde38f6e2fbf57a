package bot

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/randutil"
	"github.com/lox/mahjongforbots/internal/tile"
)

func testPolicyBot(seed int64) *PolicyBot {
	logger := log.NewWithOptions(io.Discard, log.Options{})
	return NewPolicyBot(randutil.New(seed), logger)
}

// claimState builds the table view a seat sees during a claim window
func claimState(hand string, lastDiscard string) game.TableState {
	state := game.TableState{
		ActingSeatIdx: 1,
		Players:       make([]game.PlayerState, game.NumSeats),
	}
	state.Players[1].Hand = tile.MustParseTiles(hand)
	if lastDiscard != "" {
		t := tile.MustParseTiles(lastDiscard)[0]
		state.LastDiscard = &t
	}
	return state
}

func TestPolicyBotDeclaresWin(t *testing.T) {
	bot := testPolicyBot(1)
	state := claimState("1c 1c 1c 2c 3c 4c 5c 6c 7c 8c 8c 8c 5d 5d", "")

	decision := bot.MakeDecision(state, []game.ValidDecision{
		{Action: game.DecideWin},
		{Action: game.DecideDiscard, Tiles: state.Players[1].Hand},
	})

	if decision.Action != game.DecideWin {
		t.Errorf("Expected the win declared, got %v", decision.Action)
	}
}

func TestPolicyBotAlwaysTakesWinningClaim(t *testing.T) {
	bot := testPolicyBot(1)
	bot.ClaimBias = 0 // the bias must not gate win claims

	state := claimState("1c 1c 1c 2c 3c 4c 5c 6c 7c 8c 8c 8c 5d", "5d")
	winClaim := game.Claim{Seat: 1, Kind: game.ClaimWin}

	decision := bot.MakeDecision(state, []game.ValidDecision{
		{Action: game.DecideClaim, Claim: winClaim},
		{Action: game.DecidePass},
	})

	if decision.Action != game.DecideClaim {
		t.Fatalf("Expected the winning claim taken, got %v", decision.Action)
	}
	if decision.Claim.Kind != game.ClaimWin {
		t.Errorf("Expected a win claim, got %v", decision.Claim.Kind)
	}
}

func TestPolicyBotPassesWithoutDecisions(t *testing.T) {
	bot := testPolicyBot(1)
	decision := bot.MakeDecision(game.TableState{}, nil)
	if decision.Action != game.DecidePass {
		t.Errorf("Expected a pass with nothing to do, got %v", decision.Action)
	}
}

func TestChooseDiscardDropsIsolatedHonor(t *testing.T) {
	bot := testPolicyBot(1)
	hand := tile.MustParseTiles("1b 1b 5c 6c ew")

	discard, score := bot.ChooseDiscard(hand)
	if discard.String() != "ew" {
		t.Errorf("Expected the lone wind discarded, got %s", discard)
	}
	if score != 0 {
		t.Errorf("Expected usefulness 0 for an isolated honor, got %d", score)
	}
}

func TestChooseDiscardKeepsPairsAndRuns(t *testing.T) {
	bot := testPolicyBot(1)

	tests := []struct {
		name     string
		hand     string
		expected string
	}{
		{
			name:     "lone terminal loses to connected tiles",
			hand:     "2c 3c 4c 9b 5d 5d",
			expected: "9b",
		},
		{
			name:     "isolated simple loses to a pair",
			hand:     "7b 7b 2d 9c 9c",
			expected: "2d",
		},
		{
			name:     "honors drop before simples",
			hand:     "4b 5b 6b wd 8d",
			expected: "wd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			discard, _ := bot.ChooseDiscard(tile.MustParseTiles(tt.hand))
			if discard.String() != tt.expected {
				t.Errorf("Expected %s discarded, got %s", tt.expected, discard)
			}
		})
	}
}

func TestChooseDiscardTieBreaksCanonically(t *testing.T) {
	bot := testPolicyBot(1)
	hand := tile.MustParseTiles("2b 3b 4b rd ew")

	// both honors score zero; the wind sorts first
	discard, _ := bot.ChooseDiscard(hand)
	if discard.String() != "ew" {
		t.Errorf("Expected the earlier tile in canonical order, got %s", discard)
	}
}

func TestShouldClaimRejectsClaimThatBreaksTheHand(t *testing.T) {
	bot := testPolicyBot(1)
	bot.ClaimBias = 1 // isolate the waiting check from the bias

	hand := tile.MustParseTiles("1b 1b 9d ew sw ww nw rd gd wd 2c 5c 8c")
	claim := game.Claim{Seat: 1, Kind: game.ClaimPung}

	if bot.ShouldClaim(hand, claim, tile.MustParseTiles("1b")[0], 0) {
		t.Error("Expected the claim rejected when no follow-up keeps the hand waiting")
	}
}

func TestShouldClaimAcceptsUsefulPung(t *testing.T) {
	bot := testPolicyBot(1)
	bot.ClaimBias = 1

	// punging 5d then discarding an 8c leaves a waiting hand
	hand := tile.MustParseTiles("5d 5d 1c 1c 1c 2c 3c 4c 5c 6c 7c 8c 8c")
	claim := game.Claim{Seat: 1, Kind: game.ClaimPung}

	if !bot.ShouldClaim(hand, claim, tile.MustParseTiles("5d")[0], 0) {
		t.Error("Expected the pung accepted when it keeps the hand waiting")
	}
}

func TestShouldClaimAcceptsUsefulChow(t *testing.T) {
	bot := testPolicyBot(1)
	bot.ClaimBias = 1

	hand := tile.MustParseTiles("4d 6d 1c 1c 1c 2c 3c 4c 5c 6c 7c 8c 8c")
	claim := game.Claim{Seat: 1, Kind: game.ClaimChow, Tiles: tile.MustParseTiles("4d 6d")}

	if !bot.ShouldClaim(hand, claim, tile.MustParseTiles("5d")[0], 0) {
		t.Error("Expected the chow accepted when it keeps the hand waiting")
	}
}

func TestShouldClaimHonorsBias(t *testing.T) {
	hand := tile.MustParseTiles("5d 5d 1c 1c 1c 2c 3c 4c 5c 6c 7c 8c 8c")
	claim := game.Claim{Seat: 1, Kind: game.ClaimPung}
	discarded := tile.MustParseTiles("5d")[0]

	never := testPolicyBot(1)
	never.ClaimBias = 0
	for i := 0; i < 50; i++ {
		if never.ShouldClaim(hand, claim, discarded, 0) {
			t.Fatal("Expected zero bias to reject every eligible claim")
		}
	}

	sometimes := testPolicyBot(1)
	accepted := 0
	trials := 200
	for i := 0; i < trials; i++ {
		if sometimes.ShouldClaim(hand, claim, discarded, 0) {
			accepted++
		}
	}
	rate := float64(accepted) / float64(trials)
	if rate < 0.5 || rate > 0.9 {
		t.Errorf("Expected the default bias near %.1f, got %.2f (%d/%d)",
			DefaultClaimBias, rate, accepted, trials)
	}
}

func TestPolicyBotClaimsOnlyWhenStillWaiting(t *testing.T) {
	bot := testPolicyBot(1)
	bot.ClaimBias = 1

	// a pung of 1b would tear up four junk singles
	state := claimState("1b 1b 9d ew sw ww nw rd gd wd 2c 5c 8c", "1b")
	pung := game.Claim{Seat: 1, Kind: game.ClaimPung}

	decision := bot.MakeDecision(state, []game.ValidDecision{
		{Action: game.DecideClaim, Claim: pung},
		{Action: game.DecidePass},
	})

	if decision.Action != game.DecidePass {
		t.Errorf("Expected the useless claim passed, got %v", decision.Action)
	}
}
