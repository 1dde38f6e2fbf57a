// Package spectator streams live game events to WebSocket clients.
// Spectators are strictly read-only: concealed tiles never leave the
// engine, and nothing a client sends can reach the game.
package spectator

import (
	"encoding/json"
	"time"

	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/tile"
)

// MessageType identifies the type of message sent to spectators
type MessageType string

const (
	MessageTypeGameInitialized MessageType = "game_initialized"
	MessageTypeTileDrawn       MessageType = "tile_drawn"
	MessageTypeTileDiscarded   MessageType = "tile_discarded"
	MessageTypeClaimAvailable  MessageType = "claim_available"
	MessageTypeTileClaimed     MessageType = "tile_claimed"
	MessageTypeTurnChanged     MessageType = "turn_changed"
	MessageTypeWallExhausted   MessageType = "wall_exhausted"
	MessageTypeGameEnded       MessageType = "game_ended"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Server → Spectator Messages

type GameInitializedData struct {
	GameID         string   `json:"gameId"`
	PlayerNames    []string `json:"playerNames"`
	RoundNumber    int      `json:"roundNumber"`
	PrevailingWind string   `json:"prevailingWind"`
	Dealer         int      `json:"dealer"`
}

// TileDrawnData deliberately omits the tile itself; only the seat and
// the shrinking wall are public
type TileDrawnData struct {
	Seat          int `json:"seat"`
	WallRemaining int `json:"wallRemaining"`
}

type TileDiscardedData struct {
	Seat int    `json:"seat"`
	Tile string `json:"tile"`
}

type ClaimData struct {
	Seat int    `json:"seat"`
	Kind string `json:"kind"`
}

type ClaimAvailableData struct {
	Tile      string      `json:"tile"`
	Discarder int         `json:"discarder"`
	Claims    []ClaimData `json:"claims"`
}

type TileClaimedData struct {
	Seat  int      `json:"seat"`
	Kind  string   `json:"kind"`
	Tiles []string `json:"tiles"`
	From  int      `json:"from"`
}

type TurnChangedData struct {
	Seat       int `json:"seat"`
	TurnNumber int `json:"turnNumber"`
}

type WallExhaustedData struct{}

type GameEndedData struct {
	Winner      int      `json:"winner"`
	WinnerName  string   `json:"winnerName,omitempty"`
	Score       int      `json:"score"`
	SelfDrawn   bool     `json:"selfDrawn"`
	WinningHand []string `json:"winningHand,omitempty"`
}

// MessageFromEvent translates an engine event into a spectator message,
// hiding information spectators must not see
func MessageFromEvent(event game.GameEvent) (*Message, error) {
	switch e := event.(type) {
	case game.GameInitializedEvent:
		return NewMessage(MessageTypeGameInitialized, GameInitializedData{
			GameID:         e.GameID,
			PlayerNames:    e.PlayerNames,
			RoundNumber:    e.RoundNumber,
			PrevailingWind: tile.WindName(e.PrevailingWind),
			Dealer:         e.Dealer,
		})
	case game.TileDrawnEvent:
		return NewMessage(MessageTypeTileDrawn, TileDrawnData{
			Seat:          e.Seat,
			WallRemaining: e.WallRemaining,
		})
	case game.TileDiscardedEvent:
		return NewMessage(MessageTypeTileDiscarded, TileDiscardedData{
			Seat: e.Seat,
			Tile: e.Tile.String(),
		})
	case game.ClaimAvailableEvent:
		claims := make([]ClaimData, len(e.Claims))
		for i, c := range e.Claims {
			claims[i] = ClaimData{Seat: c.Seat, Kind: c.Kind.String()}
		}
		return NewMessage(MessageTypeClaimAvailable, ClaimAvailableData{
			Tile:      e.Tile.String(),
			Discarder: e.Discarder,
			Claims:    claims,
		})
	case game.TileClaimedEvent:
		return NewMessage(MessageTypeTileClaimed, TileClaimedData{
			Seat:  e.Seat,
			Kind:  e.Claim.Kind.String(),
			Tiles: tileStrings(e.Meld.Tiles),
			From:  e.Meld.ClaimedFrom,
		})
	case game.TurnChangedEvent:
		return NewMessage(MessageTypeTurnChanged, TurnChangedData{
			Seat:       e.Seat,
			TurnNumber: e.TurnNumber,
		})
	case game.WallExhaustedEvent:
		return NewMessage(MessageTypeWallExhausted, WallExhaustedData{})
	case game.GameEndedEvent:
		return NewMessage(MessageTypeGameEnded, GameEndedData{
			Winner:      e.Winner,
			WinnerName:  e.WinnerName,
			Score:       e.Score,
			SelfDrawn:   e.SelfDrawn,
			WinningHand: tileStrings(e.WinningHand),
		})
	default:
		return nil, nil
	}
}

func tileStrings(tiles []tile.Tile) []string {
	out := make([]string, len(tiles))
	for i, t := range tiles {
		out[i] = t.String()
	}
	return out
}
