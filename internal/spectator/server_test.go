package spectator

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/lox/mahjongforbots/internal/evaluator"
	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/tile"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestServerHealth(t *testing.T) {
	t.Parallel()
	srv := NewServer(":0", testLogger())

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	srv.handleHealth(w, req)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
}

func TestMessageFromEventRedactsDrawnTile(t *testing.T) {
	t.Parallel()
	event := game.NewTileDrawnEvent(2, tile.New(tile.Bamboo, 5), 69)

	msg, err := MessageFromEvent(event)
	if err != nil {
		t.Fatalf("MessageFromEvent failed: %v", err)
	}
	if msg.Type != MessageTypeTileDrawn {
		t.Errorf("Expected type %s, got %s", MessageTypeTileDrawn, msg.Type)
	}

	var fields map[string]interface{}
	if err := json.Unmarshal(msg.Data, &fields); err != nil {
		t.Fatalf("Failed to unmarshal data: %v", err)
	}

	if _, present := fields["tile"]; present {
		t.Error("Drawn tile leaked to spectators")
	}
	if fields["seat"] != float64(2) {
		t.Errorf("Expected seat 2, got %v", fields["seat"])
	}
	if fields["wallRemaining"] != float64(69) {
		t.Errorf("Expected wallRemaining 69, got %v", fields["wallRemaining"])
	}
}

func TestMessageFromEventDiscard(t *testing.T) {
	t.Parallel()
	event := game.NewTileDiscardedEvent(1, tile.New(tile.Dot, 9))

	msg, err := MessageFromEvent(event)
	if err != nil {
		t.Fatalf("MessageFromEvent failed: %v", err)
	}
	if msg.Type != MessageTypeTileDiscarded {
		t.Errorf("Expected type %s, got %s", MessageTypeTileDiscarded, msg.Type)
	}

	var data TileDiscardedData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		t.Fatalf("Failed to unmarshal data: %v", err)
	}
	if data.Seat != 1 {
		t.Errorf("Expected seat 1, got %d", data.Seat)
	}
	if data.Tile != "9d" {
		t.Errorf("Expected tile 9d, got %s", data.Tile)
	}
}

func TestMessageFromEventClaimAvailable(t *testing.T) {
	t.Parallel()
	claims := []game.Claim{
		{Seat: 3, Kind: game.ClaimWin},
		{Seat: 0, Kind: game.ClaimPung},
	}
	event := game.NewClaimAvailableEvent(tile.New(tile.Character, 4), 2, claims)

	msg, err := MessageFromEvent(event)
	if err != nil {
		t.Fatalf("MessageFromEvent failed: %v", err)
	}

	var data ClaimAvailableData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		t.Fatalf("Failed to unmarshal data: %v", err)
	}
	if data.Tile != "4c" {
		t.Errorf("Expected tile 4c, got %s", data.Tile)
	}
	if data.Discarder != 2 {
		t.Errorf("Expected discarder 2, got %d", data.Discarder)
	}
	if len(data.Claims) != 2 {
		t.Fatalf("Expected 2 claims, got %d", len(data.Claims))
	}
	if data.Claims[0].Kind != "win" || data.Claims[0].Seat != 3 {
		t.Errorf("Expected win claim from seat 3, got %s from seat %d", data.Claims[0].Kind, data.Claims[0].Seat)
	}
}

func TestMessageFromEventGameEnded(t *testing.T) {
	t.Parallel()
	hand := tile.MustParseTiles("1b 1b 1b 2b 3b 4b 5b 6b 7b 8b 9b 9b 9b 5c")
	event := game.NewGameEndedEvent(1, "Alice", 24, true, hand)

	msg, err := MessageFromEvent(event)
	if err != nil {
		t.Fatalf("MessageFromEvent failed: %v", err)
	}

	var data GameEndedData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		t.Fatalf("Failed to unmarshal data: %v", err)
	}
	if data.Winner != 1 {
		t.Errorf("Expected winner 1, got %d", data.Winner)
	}
	if data.WinnerName != "Alice" {
		t.Errorf("Expected winner name Alice, got %s", data.WinnerName)
	}
	if !data.SelfDrawn {
		t.Error("Expected self-drawn win")
	}
	if len(data.WinningHand) != 14 {
		t.Errorf("Expected 14 winning tiles, got %d", len(data.WinningHand))
	}
}

func waitForConnections(t *testing.T, s *Server, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if s.ConnectionCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected %d connections, got %d", want, s.ConnectionCount())
}

func dialSpectator(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Failed to dial %s: %v", wsURL, err)
	}
	return ws
}

func TestBroadcastReachesAllSpectators(t *testing.T) {
	t.Parallel()
	srv := NewServer(":0", testLogger())
	defer srv.Stop()

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")

	ws1 := dialSpectator(t, wsURL)
	defer ws1.Close()
	ws2 := dialSpectator(t, wsURL)
	defer ws2.Close()

	waitForConnections(t, srv, 2)

	msg, err := NewMessage(MessageTypeWallExhausted, WallExhaustedData{})
	if err != nil {
		t.Fatalf("NewMessage failed: %v", err)
	}
	srv.Broadcast(msg)

	for i, ws := range []*websocket.Conn{ws1, ws2} {
		ws.SetReadDeadline(time.Now().Add(2 * time.Second))
		var got Message
		if err := ws.ReadJSON(&got); err != nil {
			t.Fatalf("Spectator %d failed to read: %v", i, err)
		}
		if got.Type != MessageTypeWallExhausted {
			t.Errorf("Spectator %d: expected type %s, got %s", i, MessageTypeWallExhausted, got.Type)
		}
	}
}

func TestBroadcasterRelaysBusEvents(t *testing.T) {
	t.Parallel()
	srv := NewServer(":0", testLogger())
	defer srv.Stop()

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	ws := dialSpectator(t, wsURL)
	defer ws.Close()

	waitForConnections(t, srv, 1)

	bus := game.NewEventBus()
	bus.Subscribe(NewBroadcaster(srv, testLogger()))

	meld := game.Meld{
		Kind:        evaluator.GroupPung,
		Tiles:       tile.MustParseTiles("7b 7b 7b"),
		ClaimedFrom: 0,
	}
	claim := game.Claim{Seat: 2, Kind: game.ClaimPung}
	bus.Publish(game.NewTileClaimedEvent(2, claim, meld))

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	var got Message
	if err := ws.ReadJSON(&got); err != nil {
		t.Fatalf("Failed to read broadcast: %v", err)
	}
	if got.Type != MessageTypeTileClaimed {
		t.Errorf("Expected type %s, got %s", MessageTypeTileClaimed, got.Type)
	}

	var data TileClaimedData
	if err := json.Unmarshal(got.Data, &data); err != nil {
		t.Fatalf("Failed to unmarshal data: %v", err)
	}
	if data.Seat != 2 {
		t.Errorf("Expected seat 2, got %d", data.Seat)
	}
	if data.Kind != "pung" {
		t.Errorf("Expected kind pung, got %s", data.Kind)
	}
	if len(data.Tiles) != 3 {
		t.Errorf("Expected 3 meld tiles, got %d", len(data.Tiles))
	}
}

func TestDisconnectUnregisters(t *testing.T) {
	t.Parallel()
	srv := NewServer(":0", testLogger())
	defer srv.Stop()

	ts := httptest.NewServer(http.HandlerFunc(srv.handleWebSocket))
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http")
	ws := dialSpectator(t, wsURL)

	waitForConnections(t, srv, 1)

	ws.Close()
	waitForConnections(t, srv, 0)
}
