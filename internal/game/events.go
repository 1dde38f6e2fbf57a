package game

import (
	"time"

	"github.com/lox/mahjongforbots/internal/tile"
)

// EventType represents a game event type with type safety
type EventType string

// EventType constants for game domain events
const (
	EventTypeGameInitialized EventType = "game_initialized"
	EventTypeTileDrawn       EventType = "tile_drawn"
	EventTypeTileDiscarded   EventType = "tile_discarded"
	EventTypeClaimAvailable  EventType = "claim_available"
	EventTypeTileClaimed     EventType = "tile_claimed"
	EventTypeTurnChanged     EventType = "turn_changed"
	EventTypeWallExhausted   EventType = "wall_exhausted"
	EventTypeGameEnded       EventType = "game_ended"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// GameEvent represents any event emitted by the engine
type GameEvent interface {
	EventType() EventType
	Timestamp() time.Time
}

// GameInitializedEvent is published when a game is dealt, both for a fresh
// game and for each subsequent round
type GameInitializedEvent struct {
	GameID         string
	PlayerNames    []string
	RoundNumber    int
	PrevailingWind int
	Dealer         int
	timestamp      time.Time
}

func (e GameInitializedEvent) EventType() EventType { return EventTypeGameInitialized }
func (e GameInitializedEvent) Timestamp() time.Time { return e.timestamp }

// NewGameInitializedEvent creates a new game initialized event
func NewGameInitializedEvent(gameID string, playerNames []string, roundNumber, prevailingWind, dealer int) GameInitializedEvent {
	names := make([]string, len(playerNames))
	copy(names, playerNames)
	return GameInitializedEvent{
		GameID:         gameID,
		PlayerNames:    names,
		RoundNumber:    roundNumber,
		PrevailingWind: prevailingWind,
		Dealer:         dealer,
		timestamp:      time.Now(),
	}
}

// TileDrawnEvent is published when a seat draws from the wall
type TileDrawnEvent struct {
	Seat          int
	Tile          tile.Tile
	WallRemaining int
	timestamp     time.Time
}

func (e TileDrawnEvent) EventType() EventType { return EventTypeTileDrawn }
func (e TileDrawnEvent) Timestamp() time.Time { return e.timestamp }

// NewTileDrawnEvent creates a new tile drawn event
func NewTileDrawnEvent(seat int, t tile.Tile, wallRemaining int) TileDrawnEvent {
	return TileDrawnEvent{
		Seat:          seat,
		Tile:          t,
		WallRemaining: wallRemaining,
		timestamp:     time.Now(),
	}
}

// TileDiscardedEvent is published when a seat discards a tile
type TileDiscardedEvent struct {
	Seat      int
	Tile      tile.Tile
	timestamp time.Time
}

func (e TileDiscardedEvent) EventType() EventType { return EventTypeTileDiscarded }
func (e TileDiscardedEvent) Timestamp() time.Time { return e.timestamp }

// NewTileDiscardedEvent creates a new tile discarded event
func NewTileDiscardedEvent(seat int, t tile.Tile) TileDiscardedEvent {
	return TileDiscardedEvent{
		Seat:      seat,
		Tile:      t,
		timestamp: time.Now(),
	}
}

// ClaimAvailableEvent is published after a discard when other seats are
// eligible to claim the tile. Claims are already ranked.
type ClaimAvailableEvent struct {
	Tile      tile.Tile
	Discarder int
	Claims    []Claim
	timestamp time.Time
}

func (e ClaimAvailableEvent) EventType() EventType { return EventTypeClaimAvailable }
func (e ClaimAvailableEvent) Timestamp() time.Time { return e.timestamp }

// NewClaimAvailableEvent creates a new claim available event
func NewClaimAvailableEvent(t tile.Tile, discarder int, claims []Claim) ClaimAvailableEvent {
	owned := make([]Claim, len(claims))
	copy(owned, claims)
	return ClaimAvailableEvent{
		Tile:      t,
		Discarder: discarder,
		Claims:    owned,
		timestamp: time.Now(),
	}
}

// TileClaimedEvent is published when a claim is accepted and executed
type TileClaimedEvent struct {
	Seat      int
	Claim     Claim
	Meld      Meld
	timestamp time.Time
}

func (e TileClaimedEvent) EventType() EventType { return EventTypeTileClaimed }
func (e TileClaimedEvent) Timestamp() time.Time { return e.timestamp }

// NewTileClaimedEvent creates a new tile claimed event
func NewTileClaimedEvent(seat int, claim Claim, meld Meld) TileClaimedEvent {
	return TileClaimedEvent{
		Seat:      seat,
		Claim:     claim,
		Meld:      meld,
		timestamp: time.Now(),
	}
}

// TurnChangedEvent is published whenever control moves to another seat
type TurnChangedEvent struct {
	Seat       int
	TurnNumber int
	timestamp  time.Time
}

func (e TurnChangedEvent) EventType() EventType { return EventTypeTurnChanged }
func (e TurnChangedEvent) Timestamp() time.Time { return e.timestamp }

// NewTurnChangedEvent creates a new turn changed event
func NewTurnChangedEvent(seat, turnNumber int) TurnChangedEvent {
	return TurnChangedEvent{
		Seat:       seat,
		TurnNumber: turnNumber,
		timestamp:  time.Now(),
	}
}

// WallExhaustedEvent is published when a draw finds the wall empty. The
// game ends in a draw; this is a modeled outcome, not an error.
type WallExhaustedEvent struct {
	timestamp time.Time
}

func (e WallExhaustedEvent) EventType() EventType { return EventTypeWallExhausted }
func (e WallExhaustedEvent) Timestamp() time.Time { return e.timestamp }

// NewWallExhaustedEvent creates a new wall exhausted event
func NewWallExhaustedEvent() WallExhaustedEvent {
	return WallExhaustedEvent{timestamp: time.Now()}
}

// GameEndedEvent is published exactly once, when the game reaches the Ended
// phase. Winner is NoWinner for an exhausted wall.
type GameEndedEvent struct {
	Winner      int
	WinnerName  string
	Score       int
	SelfDrawn   bool
	WinningHand []tile.Tile
	timestamp   time.Time
}

func (e GameEndedEvent) EventType() EventType { return EventTypeGameEnded }
func (e GameEndedEvent) Timestamp() time.Time { return e.timestamp }

// NewGameEndedEvent creates a new game ended event
func NewGameEndedEvent(winner int, winnerName string, score int, selfDrawn bool, winningHand []tile.Tile) GameEndedEvent {
	hand := make([]tile.Tile, len(winningHand))
	copy(hand, winningHand)
	return GameEndedEvent{
		Winner:      winner,
		WinnerName:  winnerName,
		Score:       score,
		SelfDrawn:   selfDrawn,
		WinningHand: hand,
		timestamp:   time.Now(),
	}
}

// EventSubscriber can subscribe to game events
type EventSubscriber interface {
	OnEvent(event GameEvent)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event GameEvent)
}

// SimpleEventBus is a basic in-memory event bus implementation
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() EventBus {
	return &SimpleEventBus{
		subscribers: make([]EventSubscriber, 0),
	}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to all subscribers
func (bus *SimpleEventBus) Publish(event GameEvent) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
