package game

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/lox/mahjongforbots/internal/fileutil"
	"github.com/lox/mahjongforbots/internal/tile"
)

// Snapshot is the complete serializable state of a game. Restoring a
// snapshot yields a game that behaves identically to the original from
// that point on, given the same random source.
type Snapshot struct {
	GameID          string           `json:"game_id"`
	Phase           Phase            `json:"phase"`
	Players         []PlayerSnapshot `json:"players"`
	Wall            []tile.Tile      `json:"wall"`
	DiscardPile     []tile.Tile      `json:"discard_pile"`
	Current         int              `json:"current"`
	TurnNumber      int              `json:"turn_number"`
	Winner          int              `json:"winner"`
	SelfDrawn       bool             `json:"self_drawn,omitempty"`
	AwaitingDiscard bool             `json:"awaiting_discard"`
	PendingClaims   []Claim          `json:"pending_claims,omitempty"`
	LastDiscard     *tile.Tile       `json:"last_discard,omitempty"`
	LastDiscarder   int              `json:"last_discarder"`
	Dealer          int              `json:"dealer"`
	PrevailingWind  int              `json:"prevailing_wind"`
	RoundNumber     int              `json:"round_number"`
	WinScore        int              `json:"win_score"`
	History         []HistoryEntry   `json:"history,omitempty"`
}

// PlayerSnapshot captures one seat's state
type PlayerSnapshot struct {
	Name      string      `json:"name"`
	SeatWind  int         `json:"seat_wind"`
	Hand      []tile.Tile `json:"hand"`
	Melds     []Meld      `json:"melds,omitempty"`
	Discarded []tile.Tile `json:"discarded,omitempty"`
	Score     int         `json:"score"`
}

// Snapshot captures the complete current state of the game
func (g *Game) Snapshot() *Snapshot {
	snap := &Snapshot{
		GameID:          g.id,
		Phase:           g.phase,
		Players:         make([]PlayerSnapshot, NumSeats),
		Wall:            g.wall.Tiles(),
		DiscardPile:     g.DiscardPile(),
		Current:         g.current,
		TurnNumber:      g.turnNumber,
		Winner:          g.winner,
		SelfDrawn:       g.selfDrawn,
		AwaitingDiscard: g.awaitingDiscard,
		PendingClaims:   g.PendingClaims(),
		LastDiscarder:   g.lastDiscarder,
		Dealer:          g.dealer,
		PrevailingWind:  g.prevailingWind,
		RoundNumber:     g.roundNumber,
		WinScore:        g.winScore,
		History:         g.History(),
	}
	if g.hasLastDiscard {
		last := g.lastDiscard
		snap.LastDiscard = &last
	}
	for seat := 0; seat < NumSeats; seat++ {
		p := g.players[seat]
		snap.Players[seat] = PlayerSnapshot{
			Name:      p.Name,
			SeatWind:  p.SeatWind,
			Hand:      g.Hand(seat),
			Melds:     g.Melds(seat),
			Discarded: g.Discards(seat),
			Score:     p.Score,
		}
	}
	return snap
}

// RestoreGame reconstructs a game from a snapshot. The snapshot is
// validated before any state is built: seats, phase and the full tile
// set must all be intact, so a corrupted snapshot cannot produce a
// playable game.
func RestoreGame(snap *Snapshot, rng *rand.Rand) (*Game, error) {
	if rng == nil {
		panic("game: rng is required")
	}
	if snap == nil {
		return nil, fmt.Errorf("%w: nil snapshot", ErrInvalidConfiguration)
	}
	if len(snap.Players) != NumSeats {
		return nil, fmt.Errorf("%w: snapshot has %d seats, want %d",
			ErrInvalidConfiguration, len(snap.Players), NumSeats)
	}
	if snap.Current < 0 || snap.Current >= NumSeats {
		return nil, fmt.Errorf("%w: current seat %d out of range", ErrInvalidConfiguration, snap.Current)
	}
	if snap.Dealer < 0 || snap.Dealer >= NumSeats {
		return nil, fmt.Errorf("%w: dealer seat %d out of range", ErrInvalidConfiguration, snap.Dealer)
	}
	if snap.Phase != PhasePlaying && snap.Phase != PhaseEnded {
		return nil, fmt.Errorf("%w: unknown phase %d", ErrInvalidConfiguration, int(snap.Phase))
	}

	g := &Game{
		id:              snap.GameID,
		phase:           snap.Phase,
		wall:            tile.NewWallFromTiles(snap.Wall),
		current:         snap.Current,
		turnNumber:      snap.TurnNumber,
		winner:          snap.Winner,
		selfDrawn:       snap.SelfDrawn,
		awaitingDiscard: snap.AwaitingDiscard,
		lastDiscarder:   snap.LastDiscarder,
		dealer:          snap.Dealer,
		prevailingWind:  snap.PrevailingWind,
		roundNumber:     snap.RoundNumber,
		winScore:        snap.WinScore,
		rng:             rng,
	}
	if snap.WinScore == 0 {
		g.winScore = DefaultWinScore
	}
	if snap.LastDiscard != nil {
		g.lastDiscard = *snap.LastDiscard
		g.hasLastDiscard = true
	}

	g.discardPile = make([]tile.Tile, len(snap.DiscardPile))
	copy(g.discardPile, snap.DiscardPile)
	g.pendingClaims = make([]Claim, len(snap.PendingClaims))
	copy(g.pendingClaims, snap.PendingClaims)
	g.history = make([]HistoryEntry, len(snap.History))
	copy(g.history, snap.History)

	for seat := 0; seat < NumSeats; seat++ {
		ps := snap.Players[seat]
		p := &Player{
			Name:     ps.Name,
			SeatWind: ps.SeatWind,
			Score:    ps.Score,
		}
		p.Hand = make([]tile.Tile, len(ps.Hand))
		copy(p.Hand, ps.Hand)
		p.Melds = make([]Meld, len(ps.Melds))
		copy(p.Melds, ps.Melds)
		p.Discarded = make([]tile.Tile, len(ps.Discarded))
		copy(p.Discarded, ps.Discarded)
		g.players[seat] = p
	}

	if err := g.ValidateTileConservation(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfiguration, err)
	}
	return g, nil
}

// ValidateTileConservation ensures every tile type appears exactly four
// times across the wall, the concealed hands, the exposed melds and the
// shared discard pile
func (g *Game) ValidateTileConservation() error {
	var counts [tile.NumTypes]int
	total := 0

	add := func(tiles []tile.Tile) error {
		for _, t := range tiles {
			idx := t.TypeIndex()
			if idx < 0 {
				return fmt.Errorf("invalid tile %v in play", t)
			}
			counts[idx]++
			total++
		}
		return nil
	}

	if err := add(g.wall.Tiles()); err != nil {
		return err
	}
	if err := add(g.discardPile); err != nil {
		return err
	}
	for seat := 0; seat < NumSeats; seat++ {
		p := g.players[seat]
		if err := add(p.Hand); err != nil {
			return err
		}
		for _, m := range p.Melds {
			if err := add(m.Tiles); err != nil {
				return err
			}
		}
	}

	if total != tile.SetSize {
		return fmt.Errorf("tile conservation violation: expected %d tiles in play, but found %d",
			tile.SetSize, total)
	}
	for idx, count := range counts {
		if count != tile.CopiesPerType {
			return fmt.Errorf("tile conservation violation: %s appears %d times, want %d",
				tile.FromTypeIndex(idx), count, tile.CopiesPerType)
		}
	}
	return nil
}

// SaveSnapshotFile writes the game's snapshot as JSON
func (g *Game) SaveSnapshotFile(path string) error {
	data, err := json.MarshalIndent(g.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return fileutil.WriteFileAtomicDirs(path, data, 0644)
}

// LoadSnapshotFile reads a JSON snapshot from disk
func LoadSnapshotFile(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to parse snapshot: %w", err)
	}
	return &snap, nil
}
