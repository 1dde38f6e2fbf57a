package tui

import (
	"fmt"
	"strings"

	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/tile"
)

// Watcher renders engine events into the TUI game log. It implements
// game.EventSubscriber and can be attached to a game's event bus.
type Watcher struct {
	view  *Model
	names []string
}

// NewWatcher creates a watcher that feeds events into view
func NewWatcher(view *Model) *Watcher {
	return &Watcher{view: view}
}

// OnEvent translates a game event into log lines and sidebar updates
func (w *Watcher) OnEvent(event game.GameEvent) {
	switch e := event.(type) {
	case game.GameInitializedEvent:
		w.names = e.PlayerNames
		w.view.UpdateRound(e.RoundNumber, tile.WindName(e.PrevailingWind))
		w.view.AppendLogSection(fmt.Sprintf("Round %d • %s prevailing • %s deals",
			e.RoundNumber, tile.WindName(e.PrevailingWind), w.seatName(e.Dealer)))
		w.view.AppendLog("")

	case game.TileDrawnEvent:
		w.view.UpdateWall(e.WallRemaining)

	case game.TileDiscardedEvent:
		w.view.AppendLog(fmt.Sprintf("%s discards %s",
			w.seatName(e.Seat), TileStyle(e.Tile).Render(e.Tile.String())))

	case game.ClaimAvailableEvent:
		var offers []string
		for _, c := range e.Claims {
			offers = append(offers, fmt.Sprintf("%s: %s", c.Kind, w.seatName(c.Seat)))
		}
		w.view.AppendLog(InfoStyle.Render(fmt.Sprintf("  %s is claimable (%s)",
			e.Tile, strings.Join(offers, ", "))))

	case game.TileClaimedEvent:
		w.view.AppendLog(fmt.Sprintf("%s melds %s %s from %s",
			w.seatName(e.Seat), e.Claim.Kind, formatTiles(e.Meld.Tiles),
			w.seatName(e.Meld.ClaimedFrom)))

	case game.TurnChangedEvent:
		// Sidebar only; a line per turn would drown the log

	case game.WallExhaustedEvent:
		w.view.UpdateWall(0)
		w.view.AppendLog("")
		w.view.AppendLog(WarningStyle.Render("*** WALL EXHAUSTED ***"))

	case game.GameEndedEvent:
		w.view.AppendLog("")
		if e.Winner == game.NoWinner {
			w.view.AppendLog(WarningStyle.Render("Round drawn, no winner"))
			break
		}
		how := "by claim"
		if e.SelfDrawn {
			how = "self-drawn"
		}
		w.view.AppendLog(SuccessStyle.Render(fmt.Sprintf("%s wins %d points (%s)",
			w.seatName(e.Winner), e.Score, how)))
		if len(e.WinningHand) > 0 {
			w.view.AppendLog(fmt.Sprintf("  %s", formatTiles(e.WinningHand)))
		}
	}
}

// seatName resolves a seat index to the player's name
func (w *Watcher) seatName(seat int) string {
	if seat >= 0 && seat < len(w.names) {
		return w.names[seat]
	}
	return fmt.Sprintf("seat %d", seat)
}
