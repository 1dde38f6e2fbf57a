package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/tile"
)

// Agent plays a seat with a human behind it, prompting through the
// table view. It implements game.Agent.
type Agent struct {
	model   *Model
	program *tea.Program
	logger  *log.Logger
}

// NewAgent creates a human agent with its own bubbletea program
func NewAgent(logger *log.Logger) (*Agent, error) {
	model := NewModel(logger)
	program := tea.NewProgram(model, tea.WithAltScreen())

	return &Agent{
		model:   model,
		program: program,
		logger:  logger.WithPrefix("player"),
	}, nil
}

// NewTestAgent creates an agent around a test-mode model with no
// terminal program attached. Commands are fed through Model().Inject
// and output is captured on the model.
func NewTestAgent(logger *log.Logger) *Agent {
	return &Agent{
		model:  NewTestModel(logger),
		logger: logger.WithPrefix("player"),
	}
}

// Model returns the underlying view model so callers can feed it game
// events and table info
func (a *Agent) Model() *Model {
	return a.model
}

// Start runs the bubbletea program in the background. A test agent has
// no program and starts as a no-op.
func (a *Agent) Start() error {
	if a.program == nil {
		return nil
	}
	go func() {
		if _, err := a.program.Run(); err != nil {
			fmt.Printf("Error running TUI: %v\n", err)
		}
	}()
	return nil
}

// Close shuts the program down and restores the terminal
func (a *Agent) Close() error {
	if a.program != nil {
		a.program.Quit()
		a.program.Wait()

		fmt.Print("\033[?25h") // Show cursor
		fmt.Print("\033c")     // Reset terminal
	}
	return nil
}

// MakeDecision prompts until the typed command maps to a legal decision
func (a *Agent) MakeDecision(tableState game.TableState, validDecisions []game.ValidDecision) game.Decision {
	acting := tableState.Players[tableState.ActingSeatIdx]
	a.model.SetActing(acting.Hand, acting.Melds)
	a.model.UpdateValidDecisions(validDecisions)
	defer func() {
		a.model.ClearActing()
		a.model.UpdateValidDecisions(nil)
	}()

	for {
		a.logger.Info("Waiting for player input")
		cmd := a.model.WaitForCommand()
		a.logger.Info("Player input", "verb", cmd.Verb, "args", cmd.Args, "quit", cmd.Quit)

		if cmd.Quit {
			return fallbackDecision(validDecisions, "player quit")
		}
		if decision, handled := a.dispatch(cmd, tableState, validDecisions); handled {
			return decision
		}
	}
}

// dispatch maps a typed command onto one of the valid decisions. The
// second return value is false when the input was informational or
// invalid and the prompt should repeat.
func (a *Agent) dispatch(cmd Command, tableState game.TableState, validDecisions []game.ValidDecision) (game.Decision, bool) {
	switch cmd.Verb {
	case "quit", "q", "exit":
		a.model.RequestQuit()
		return fallbackDecision(validDecisions, "player quit"), true

	case "":
		// Enter with no text; show a nudge and keep waiting
		a.model.AppendLog("Type a command, e.g. 'discard 5b'. 'help' lists commands.")
		return game.Decision{}, false

	case "discard", "d":
		return a.handleDiscard(cmd.Args, validDecisions)

	case "win", "w":
		return a.handleWin(validDecisions)

	case "claim", "pung", "chow":
		return a.handleClaim(cmd.Verb, cmd.Args, validDecisions)

	case "pass", "p":
		for _, vd := range validDecisions {
			if vd.Action == game.DecidePass {
				return game.Decision{Action: game.DecidePass, Reasoning: "player passed"}, true
			}
		}
		a.model.AppendLog("Nothing to pass on right now.")
		return game.Decision{}, false

	case "hand", "h", "tiles":
		a.showHand(tableState)
		return game.Decision{}, false

	case "discards":
		a.showDiscards(tableState)
		return game.Decision{}, false

	case "help", "?":
		a.showHelp()
		return game.Decision{}, false

	default:
		a.model.AppendLog(fmt.Sprintf("Unknown command: %s. Type 'help' for available commands.", cmd.Verb))
		return game.Decision{}, false
	}
}

// handleDiscard validates a discard command against the legal discards
func (a *Agent) handleDiscard(args []string, validDecisions []game.ValidDecision) (game.Decision, bool) {
	if len(args) == 0 {
		a.model.AppendLog("Usage: discard <tile>, e.g. 'discard 5b' or 'discard ew'")
		return game.Decision{}, false
	}

	t, err := tile.ParseTile(args[0])
	if err != nil {
		a.model.AppendLog(fmt.Sprintf("Unrecognized tile %q: %v", args[0], err))
		return game.Decision{}, false
	}

	for _, vd := range validDecisions {
		if vd.Action != game.DecideDiscard {
			continue
		}
		for _, legal := range vd.Tiles {
			if legal.Equals(t) {
				return game.Decision{
					Action:    game.DecideDiscard,
					Tile:      legal,
					Reasoning: fmt.Sprintf("player discarded %s", legal),
				}, true
			}
		}
		a.model.AppendLog(fmt.Sprintf("You don't hold %s.", t))
		return game.Decision{}, false
	}

	a.model.AppendLog("You can't discard right now.")
	return game.Decision{}, false
}

// handleWin maps 'win' onto either a self-draw declaration or a win claim
func (a *Agent) handleWin(validDecisions []game.ValidDecision) (game.Decision, bool) {
	for _, vd := range validDecisions {
		if vd.Action == game.DecideWin {
			return game.Decision{Action: game.DecideWin, Reasoning: "player declared win"}, true
		}
	}
	for _, vd := range validDecisions {
		if vd.Action == game.DecideClaim && vd.Claim.Kind == game.ClaimWin {
			return game.Decision{
				Action:    game.DecideClaim,
				Claim:     vd.Claim,
				Reasoning: "player claimed the discard to win",
			}, true
		}
	}

	a.model.AppendLog("Your hand isn't complete.")
	return game.Decision{}, false
}

// handleClaim resolves 'claim', 'pung' and 'chow' commands against the
// claims on offer
func (a *Agent) handleClaim(verb string, args []string, validDecisions []game.ValidDecision) (game.Decision, bool) {
	var offers []game.ValidDecision
	for _, vd := range validDecisions {
		if vd.Action == game.DecideClaim {
			offers = append(offers, vd)
		}
	}
	if len(offers) == 0 {
		a.model.AppendLog("There is no discard to claim.")
		return game.Decision{}, false
	}

	// 'pung'/'chow' act as 'claim pung'/'claim chow'
	want := ""
	if verb != "claim" {
		want = verb
	} else if len(args) > 0 {
		want = args[0]
	}

	if want == "" {
		if len(offers) == 1 {
			return claimDecision(offers[0]), true
		}
		var kinds []string
		for _, offer := range offers {
			kinds = append(kinds, offer.Claim.Kind.String())
		}
		a.model.AppendLog(fmt.Sprintf("Specify which claim: %s", strings.Join(kinds, ", ")))
		return game.Decision{}, false
	}

	for _, offer := range offers {
		if offer.Claim.Kind.String() == want {
			return claimDecision(offer), true
		}
	}

	a.model.AppendLog(fmt.Sprintf("No %s claim is available.", want))
	return game.Decision{}, false
}

func claimDecision(offer game.ValidDecision) game.Decision {
	return game.Decision{
		Action:    game.DecideClaim,
		Claim:     offer.Claim,
		Reasoning: fmt.Sprintf("player claimed %s", offer.Claim.Kind),
	}
}

// showHand prints the acting seat's tiles to the log
func (a *Agent) showHand(tableState game.TableState) {
	acting := tableState.Players[tableState.ActingSeatIdx]
	a.model.AppendLog(fmt.Sprintf("Your hand: %s", formatTiles(acting.Hand)))
	for _, meld := range acting.Melds {
		a.model.AppendLog(fmt.Sprintf("  Meld: %s", formatTiles(meld.Tiles)))
	}
}

// showDiscards prints the shared discard pile to the log
func (a *Agent) showDiscards(tableState game.TableState) {
	if len(tableState.DiscardPile) == 0 {
		a.model.AppendLog("No discards yet.")
		return
	}
	a.model.AppendLog(fmt.Sprintf("Discards: %s", formatTiles(tableState.DiscardPile)))
}

// showHelp prints the command reference to the log
func (a *Agent) showHelp() {
	a.model.AppendLog("Commands:")
	a.model.AppendLog("  discard <tile> (d)  discard a tile, e.g. 'discard 5b'")
	a.model.AppendLog("  win (w)             declare a winning hand")
	a.model.AppendLog("  claim [kind]        claim the last discard (pung/chow/win)")
	a.model.AppendLog("  pass (p)            decline to claim")
	a.model.AppendLog("  hand (h)            show your tiles")
	a.model.AppendLog("  discards            show the discard pile")
	a.model.AppendLog("  quit (q)            leave the game")
}

// fallbackDecision picks a safe legal decision when the player quits.
// Passing is preferred, then the first legal discard.
func fallbackDecision(validDecisions []game.ValidDecision, reasoning string) game.Decision {
	for _, vd := range validDecisions {
		if vd.Action == game.DecidePass {
			return game.Decision{Action: game.DecidePass, Reasoning: reasoning}
		}
	}
	for _, vd := range validDecisions {
		if vd.Action == game.DecideDiscard && len(vd.Tiles) > 0 {
			return game.Decision{Action: game.DecideDiscard, Tile: vd.Tiles[0], Reasoning: reasoning}
		}
	}
	if len(validDecisions) > 0 {
		vd := validDecisions[0]
		return game.Decision{Action: vd.Action, Claim: vd.Claim, Reasoning: reasoning}
	}
	return game.Decision{Action: game.DecidePass, Reasoning: reasoning}
}
