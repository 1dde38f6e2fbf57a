package game

import (
	"fmt"
	"math/rand/v2"

	"github.com/lox/mahjongforbots/internal/evaluator"
	"github.com/lox/mahjongforbots/internal/gameid"
	"github.com/lox/mahjongforbots/internal/tile"
)

// NewGame creates a four-seat game, deals thirteen tiles to every seat
// and gives the first turn to the dealer. The random source is required;
// callers control determinism by seeding it.
func NewGame(playerNames []string, rng *rand.Rand, opts ...GameOption) (*Game, error) {
	if rng == nil {
		panic("game: rng is required")
	}
	if len(playerNames) != NumSeats {
		return nil, fmt.Errorf("%w: need %d player names, got %d",
			ErrInvalidConfiguration, NumSeats, len(playerNames))
	}

	g := &Game{
		winner:         NoWinner,
		winScore:       DefaultWinScore,
		prevailingWind: tile.East,
		roundNumber:    1,
		turnNumber:     1,
		rng:            rng,
	}

	for _, opt := range opts {
		opt(g)
	}

	if g.dealer < 0 || g.dealer >= NumSeats {
		return nil, fmt.Errorf("%w: dealer seat %d out of range", ErrInvalidConfiguration, g.dealer)
	}
	if g.wall == nil {
		g.wall = tile.NewWall(rng)
	}
	if g.wall.Remaining() != tile.SetSize {
		return nil, fmt.Errorf("%w: wall has %d tiles, want %d",
			ErrInvalidConfiguration, g.wall.Remaining(), tile.SetSize)
	}
	if g.id == "" {
		g.id = gameid.GenerateWithRandSource(rng)
	}

	for seat := 0; seat < NumSeats; seat++ {
		g.players[seat] = &Player{
			Name:     playerNames[seat],
			SeatWind: (seat-g.dealer+NumSeats)%NumSeats + 1,
		}
	}

	g.deal()
	g.current = g.dealer

	g.publish(NewGameInitializedEvent(g.id, playerNames, g.roundNumber, g.prevailingWind, g.dealer))
	return g, nil
}

// deal draws the starting hands, one seat at a time beginning with the
// dealer, and sorts them
func (g *Game) deal() {
	for offset := 0; offset < NumSeats; offset++ {
		seat := (g.dealer + offset) % NumSeats
		g.players[seat].Hand = g.wall.DrawN(startingHandSize)
		g.players[seat].sortHand()
	}
}

// Draw takes the next tile from the wall for the current seat. The second
// return value is false when the wall is exhausted, which ends the game
// in a draw; exhaustion is an outcome, not an error.
func (g *Game) Draw() (tile.Tile, bool, error) {
	if g.phase == PhaseEnded {
		return tile.Tile{}, false, fmt.Errorf("%w: game has ended", ErrInvalidArgument)
	}
	if g.awaitingDiscard {
		return tile.Tile{}, false, fmt.Errorf("%w: seat %d must discard first", ErrInvalidArgument, g.current)
	}
	if len(g.pendingClaims) > 0 {
		return tile.Tile{}, false, fmt.Errorf("%w: claims pending on the last discard", ErrInvalidArgument)
	}

	drawn, ok := g.wall.Draw()
	if !ok {
		g.phase = PhaseEnded
		g.winner = NoWinner
		g.recordMove(HistoryEntry{Seat: g.current, Action: ActionDraw})
		g.publish(NewWallExhaustedEvent())
		g.publish(NewGameEndedEvent(NoWinner, "", 0, false, nil))
		return tile.Tile{}, false, nil
	}

	p := g.players[g.current]
	p.Hand = append(p.Hand, drawn)
	p.sortHand()
	g.awaitingDiscard = true
	g.hasLastDiscard = false

	g.recordMove(HistoryEntry{Seat: g.current, Action: ActionDraw, Tile: drawn, HasTile: true})
	g.publish(NewTileDrawnEvent(g.current, drawn, g.wall.Remaining()))
	return drawn, true, nil
}

// Discard removes the given tile from the current seat's hand and places
// it on the shared pile, then computes the ranked claims the other seats
// could make on it. An invalid discard leaves the game untouched.
func (g *Game) Discard(t tile.Tile) ([]Claim, error) {
	if g.phase == PhaseEnded {
		return nil, fmt.Errorf("%w: game has ended", ErrInvalidArgument)
	}
	if len(g.pendingClaims) > 0 {
		return nil, fmt.Errorf("%w: claims pending on the last discard", ErrInvalidArgument)
	}
	if !g.awaitingDiscard {
		return nil, fmt.Errorf("%w: seat %d has no tile to discard", ErrInvalidArgument, g.current)
	}

	p := g.players[g.current]
	if !p.removeTile(t) {
		return nil, fmt.Errorf("%w: tile %s not in seat %d's hand", ErrInvalidArgument, t, g.current)
	}

	p.Discarded = append(p.Discarded, t)
	g.discardPile = append(g.discardPile, t)
	g.lastDiscard = t
	g.lastDiscarder = g.current
	g.hasLastDiscard = true
	g.awaitingDiscard = false

	var claims []Claim
	for seat := 0; seat < NumSeats; seat++ {
		claims = append(claims, claimsForSeat(g.players[seat], seat, g.current, t)...)
	}
	g.pendingClaims = RankClaims(claims, g.current)

	g.recordMove(HistoryEntry{Seat: g.current, Action: ActionDiscard, Tile: t, HasTile: true})
	g.publish(NewTileDiscardedEvent(g.current, t))
	if len(g.pendingClaims) > 0 {
		g.publish(NewClaimAvailableEvent(t, g.current, g.pendingClaims))
	}
	return g.PendingClaims(), nil
}

// AcceptClaim executes a claim on the last discard. Only the top-ranked
// pending claim may be accepted; precedence is win over pung over chow,
// then the seat nearest clockwise from the discarder. A win claim ends
// the game; a pung or chow exposes a meld and passes the turn to the
// claimant, who must then discard.
func (g *Game) AcceptClaim(c Claim) error {
	if g.phase == PhaseEnded {
		return fmt.Errorf("%w: game has ended", ErrInvalidArgument)
	}
	if len(g.pendingClaims) == 0 {
		return fmt.Errorf("%w: no claims pending", ErrInvalidArgument)
	}
	if !claimsEqual(c, g.pendingClaims[0]) {
		return fmt.Errorf("%w: claim %s is not the highest-ranked pending claim", ErrInvalidArgument, c)
	}

	claimed := g.lastDiscard
	claimant := g.players[c.Seat]

	switch c.Kind {
	case ClaimWin:
		winningHand := make([]tile.Tile, 0, len(claimant.Hand)+1)
		winningHand = append(winningHand, claimant.Hand...)
		winningHand = append(winningHand, claimed)
		tile.Sort(winningHand)
		if !evaluator.CompletesWithMelds(winningHand, len(claimant.Melds)) {
			return fmt.Errorf("%w: seat %d's hand does not win on %s", ErrInvalidWinClaim, c.Seat, claimed)
		}

		g.takeLastDiscard()
		claimant.Hand = winningHand
		claimant.Score += g.winScore
		g.players[g.lastDiscarder].Score -= g.winScore
		g.pendingClaims = nil
		g.phase = PhaseEnded
		g.winner = c.Seat
		g.selfDrawn = false

		g.recordMove(HistoryEntry{Seat: c.Seat, Action: ActionClaim, Claim: &c})
		g.publish(NewGameEndedEvent(c.Seat, claimant.Name, g.winScore, false, winningHand))
		return nil

	case ClaimPung:
		if claimant.holds(claimed) < 2 {
			return fmt.Errorf("%w: seat %d cannot pung %s", ErrInvalidArgument, c.Seat, claimed)
		}
		g.takeLastDiscard()
		claimant.removeTile(claimed)
		claimant.removeTile(claimed)
		meld := Meld{
			Kind:        evaluator.GroupPung,
			Tiles:       []tile.Tile{claimed, claimed, claimed},
			ClaimedFrom: g.lastDiscarder,
		}
		g.finishMeldClaim(c, meld)
		return nil

	case ClaimChow:
		if len(c.Tiles) != 2 || claimant.holds(c.Tiles[0]) == 0 || claimant.holds(c.Tiles[1]) == 0 {
			return fmt.Errorf("%w: seat %d cannot chow %s", ErrInvalidArgument, c.Seat, claimed)
		}
		g.takeLastDiscard()
		claimant.removeTile(c.Tiles[0])
		claimant.removeTile(c.Tiles[1])
		run := []tile.Tile{c.Tiles[0], c.Tiles[1], claimed}
		tile.Sort(run)
		meld := Meld{
			Kind:        evaluator.GroupChow,
			Tiles:       run,
			ClaimedFrom: g.lastDiscarder,
		}
		g.finishMeldClaim(c, meld)
		return nil

	default:
		return fmt.Errorf("%w: unknown claim kind %d", ErrInvalidArgument, int(c.Kind))
	}
}

// takeLastDiscard removes the claimed tile from the shared pile. The
// discarder's personal discard list keeps it as a historical record.
func (g *Game) takeLastDiscard() {
	g.discardPile = g.discardPile[:len(g.discardPile)-1]
	g.hasLastDiscard = false
}

// finishMeldClaim exposes the meld, moves the turn to the claimant and
// leaves them owing a discard
func (g *Game) finishMeldClaim(c Claim, meld Meld) {
	claimant := g.players[c.Seat]
	claimant.Melds = append(claimant.Melds, meld)
	g.pendingClaims = nil
	g.current = c.Seat
	g.turnNumber++
	g.awaitingDiscard = true

	g.recordMove(HistoryEntry{Seat: c.Seat, Action: ActionClaim, Claim: &c})
	g.publish(NewTileClaimedEvent(c.Seat, c, meld))
	g.publish(NewTurnChangedEvent(g.current, g.turnNumber))
}

// DeclineClaim withdraws a single pending claim, leaving any others
// live. Withdrawing every claim closes the window without a pass entry.
func (g *Game) DeclineClaim(c Claim) error {
	if g.phase == PhaseEnded {
		return fmt.Errorf("%w: game has ended", ErrInvalidArgument)
	}
	for i, pending := range g.pendingClaims {
		if claimsEqual(c, pending) {
			g.pendingClaims = append(g.pendingClaims[:i], g.pendingClaims[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: claim %s is not pending", ErrInvalidArgument, c)
}

// PassClaims declines every pending claim on the last discard, leaving
// the tile on the pile
func (g *Game) PassClaims() error {
	if g.phase == PhaseEnded {
		return fmt.Errorf("%w: game has ended", ErrInvalidArgument)
	}
	if len(g.pendingClaims) == 0 {
		return fmt.Errorf("%w: no claims pending", ErrInvalidArgument)
	}
	g.pendingClaims = nil
	g.recordMove(HistoryEntry{Seat: g.current, Action: ActionPass})
	return nil
}

// DeclareWin declares a self-drawn win for a seat. The claim is checked
// strictly: it must be that seat's turn, the seat must hold a freshly
// drawn tile, and the full hand must decompose into four groups and a
// pair. An invalid claim changes nothing.
func (g *Game) DeclareWin(seat int) error {
	if g.phase == PhaseEnded {
		return fmt.Errorf("%w: game has ended", ErrInvalidArgument)
	}
	if err := validateSeat(seat); err != nil {
		return err
	}
	if seat != g.current {
		return fmt.Errorf("%w: it is not seat %d's turn", ErrInvalidWinClaim, seat)
	}
	if len(g.pendingClaims) > 0 {
		return fmt.Errorf("%w: claims pending on the last discard", ErrInvalidWinClaim)
	}
	if !g.awaitingDiscard {
		return fmt.Errorf("%w: seat %d has not drawn a tile", ErrInvalidWinClaim, seat)
	}

	p := g.players[seat]
	if !evaluator.CompletesWithMelds(p.Hand, len(p.Melds)) {
		return fmt.Errorf("%w: seat %d's hand is not a winning hand", ErrInvalidWinClaim, seat)
	}

	total := g.winScore * (NumSeats - 1)
	p.Score += total
	for other := 0; other < NumSeats; other++ {
		if other != seat {
			g.players[other].Score -= g.winScore
		}
	}
	g.phase = PhaseEnded
	g.winner = seat
	g.selfDrawn = true
	g.awaitingDiscard = false

	g.recordMove(HistoryEntry{Seat: seat, Action: ActionWin})
	g.publish(NewGameEndedEvent(seat, p.Name, total, true, p.Hand))
	return nil
}

// NextTurn passes the turn clockwise to the next seat
func (g *Game) NextTurn() error {
	if g.phase == PhaseEnded {
		return fmt.Errorf("%w: game has ended", ErrInvalidArgument)
	}
	if g.awaitingDiscard {
		return fmt.Errorf("%w: seat %d must discard first", ErrInvalidArgument, g.current)
	}
	if len(g.pendingClaims) > 0 {
		return fmt.Errorf("%w: claims pending on the last discard", ErrInvalidArgument)
	}

	g.current = (g.current + 1) % NumSeats
	g.turnNumber++

	g.recordMove(HistoryEntry{Seat: g.current, Action: ActionNextTurn})
	g.publish(NewTurnChangedEvent(g.current, g.turnNumber))
	return nil
}

// StartNextRound deals a fresh round with the same seats and carried
// scores. The dealer repeats after winning or an exhausted wall and
// otherwise rotates clockwise; the prevailing wind advances each time
// the dealership returns to the first seat.
func (g *Game) StartNextRound() error {
	if g.phase != PhaseEnded {
		return fmt.Errorf("%w: round still in progress", ErrInvalidArgument)
	}

	if g.winner != NoWinner && g.winner != g.dealer {
		g.dealer = (g.dealer + 1) % NumSeats
		if g.dealer == 0 {
			g.prevailingWind = g.prevailingWind%NumSeats + 1
		}
	}
	g.roundNumber++

	names := make([]string, NumSeats)
	for seat := 0; seat < NumSeats; seat++ {
		p := g.players[seat]
		names[seat] = p.Name
		p.Hand = nil
		p.Melds = nil
		p.Discarded = nil
		p.SeatWind = (seat-g.dealer+NumSeats)%NumSeats + 1
	}

	g.wall = tile.NewWall(g.rng)
	g.discardPile = nil
	g.pendingClaims = nil
	g.hasLastDiscard = false
	g.awaitingDiscard = false
	g.phase = PhasePlaying
	g.winner = NoWinner
	g.selfDrawn = false
	g.turnNumber = 1
	g.history = nil

	g.deal()
	g.current = g.dealer

	g.publish(NewGameInitializedEvent(g.id, names, g.roundNumber, g.prevailingWind, g.dealer))
	return nil
}

// claimsEqual compares claims by seat, kind and chow tiles
func claimsEqual(a, b Claim) bool {
	if a.Seat != b.Seat || a.Kind != b.Kind || len(a.Tiles) != len(b.Tiles) {
		return false
	}
	for i := range a.Tiles {
		if !a.Tiles[i].Equals(b.Tiles[i]) {
			return false
		}
	}
	return true
}
