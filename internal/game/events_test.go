package game

import (
	"testing"

	"github.com/lox/mahjongforbots/internal/tile"
)

type captureSubscriber struct {
	events []GameEvent
}

func (s *captureSubscriber) OnEvent(event GameEvent) {
	s.events = append(s.events, event)
}

func (s *captureSubscriber) types() []EventType {
	types := make([]EventType, len(s.events))
	for i, event := range s.events {
		types[i] = event.EventType()
	}
	return types
}

func (s *captureSubscriber) count(eventType EventType) int {
	n := 0
	for _, event := range s.events {
		if event.EventType() == eventType {
			n++
		}
	}
	return n
}

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeGameInitialized, "game_initialized"},
		{EventTypeTileDrawn, "tile_drawn"},
		{EventTypeTileDiscarded, "tile_discarded"},
		{EventTypeClaimAvailable, "claim_available"},
		{EventTypeTileClaimed, "tile_claimed"},
		{EventTypeTurnChanged, "turn_changed"},
		{EventTypeWallExhausted, "wall_exhausted"},
		{EventTypeGameEnded, "game_ended"},
	}
	for _, tt := range tests {
		if got := tt.eventType.String(); got != tt.expected {
			t.Errorf("Expected %q, got %q", tt.expected, got)
		}
	}
}

func TestEventConstructorsCopySlices(t *testing.T) {
	names := []string{"Alice", "Bob", "Charlie", "Diana"}
	initEvent := NewGameInitializedEvent("id", names, 1, tile.East, 0)
	names[0] = "Mallory"
	if initEvent.PlayerNames[0] != "Alice" {
		t.Errorf("Expected the event to keep its own name copy, got %s", initEvent.PlayerNames[0])
	}

	hand := tile.MustParseTiles("1b 2b 3b")
	endEvent := NewGameEndedEvent(0, "Alice", 8, false, hand)
	hand[0] = tile.MustParseTiles("9d")[0]
	if endEvent.WinningHand[0].String() != "1b" {
		t.Errorf("Expected the event to keep its own hand copy, got %s", endEvent.WinningHand[0])
	}
}

func TestEventBusSubscribeAndUnsubscribe(t *testing.T) {
	bus := NewEventBus()
	first := &captureSubscriber{}
	second := &captureSubscriber{}
	bus.Subscribe(first)
	bus.Subscribe(second)

	bus.Publish(NewWallExhaustedEvent())
	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("Expected both subscribers notified, got %d and %d", len(first.events), len(second.events))
	}

	bus.Unsubscribe(first)
	bus.Publish(NewWallExhaustedEvent())
	if len(first.events) != 1 {
		t.Errorf("Expected no events after unsubscribing, got %d", len(first.events))
	}
	if len(second.events) != 2 {
		t.Errorf("Expected the remaining subscriber notified, got %d", len(second.events))
	}
}

func TestGamePublishesInitializedOnCreation(t *testing.T) {
	bus := NewEventBus()
	sub := &captureSubscriber{}
	bus.Subscribe(sub)

	g := riggedClaimGame(t, WithEventBus(bus))

	if len(sub.events) != 1 {
		t.Fatalf("Expected 1 event after setup, got %d", len(sub.events))
	}
	initEvent, ok := sub.events[0].(GameInitializedEvent)
	if !ok {
		t.Fatalf("Expected a GameInitializedEvent, got %T", sub.events[0])
	}
	if initEvent.GameID != g.GameID() {
		t.Errorf("Expected game ID %s, got %s", g.GameID(), initEvent.GameID)
	}
	if initEvent.Dealer != 0 || initEvent.RoundNumber != 1 {
		t.Errorf("Expected dealer 0 round 1, got %d and %d", initEvent.Dealer, initEvent.RoundNumber)
	}
	if len(initEvent.PlayerNames) != NumSeats {
		t.Errorf("Expected %d names, got %d", NumSeats, len(initEvent.PlayerNames))
	}
}

func TestClaimFlowEventSequence(t *testing.T) {
	bus := NewEventBus()
	sub := &captureSubscriber{}
	bus.Subscribe(sub)

	g := riggedClaimGame(t, WithEventBus(bus))
	claims := discardRigged(t, g)
	if err := g.AcceptClaim(claims[0]); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expected := []EventType{
		EventTypeGameInitialized,
		EventTypeTileDrawn,
		EventTypeTileDiscarded,
		EventTypeClaimAvailable,
		EventTypeTileClaimed,
		EventTypeTurnChanged,
	}
	got := sub.types()
	if len(got) != len(expected) {
		t.Fatalf("Expected %d events, got %d: %v", len(expected), len(got), got)
	}
	for i, eventType := range expected {
		if got[i] != eventType {
			t.Errorf("Expected event %d to be %s, got %s", i, eventType, got[i])
		}
	}

	claimAvailable := sub.events[3].(ClaimAvailableEvent)
	if claimAvailable.Tile.String() != "3d" || claimAvailable.Discarder != 0 {
		t.Errorf("Expected 3d from seat 0, got %s from %d", claimAvailable.Tile, claimAvailable.Discarder)
	}
	if len(claimAvailable.Claims) != 2 {
		t.Errorf("Expected 2 ranked claims, got %d", len(claimAvailable.Claims))
	}

	claimed := sub.events[4].(TileClaimedEvent)
	if claimed.Seat != 2 || claimed.Meld.Kind.String() != "pung" {
		t.Errorf("Expected seat 2's pung, got seat %d %s", claimed.Seat, claimed.Meld.Kind)
	}
}

func TestQuietDiscardSkipsClaimEvent(t *testing.T) {
	bus := NewEventBus()
	sub := &captureSubscriber{}
	bus.Subscribe(sub)

	g := riggedDiscardWinGame(t, WithEventBus(bus))
	if _, _, err := g.Draw(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	// discarding 1d instead of the drawn 5d attracts nobody
	if _, err := g.Discard(g.Hand(0)[0]); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if sub.count(EventTypeClaimAvailable) != 0 {
		t.Errorf("Expected no claim window for a quiet discard, got %d", sub.count(EventTypeClaimAvailable))
	}
	if sub.count(EventTypeTileDiscarded) != 1 {
		t.Errorf("Expected the discard announced, got %d", sub.count(EventTypeTileDiscarded))
	}
}

func TestGameEndedPublishedOnce(t *testing.T) {
	bus := NewEventBus()
	sub := &captureSubscriber{}
	bus.Subscribe(sub)

	g := riggedDiscardWinGame(t, WithEventBus(bus))
	drawn, _, err := g.Draw()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	claims, err := g.Discard(drawn)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := g.AcceptClaim(claims[0]); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if sub.count(EventTypeGameEnded) != 1 {
		t.Fatalf("Expected exactly one game ended event, got %d", sub.count(EventTypeGameEnded))
	}

	ended := sub.events[len(sub.events)-1].(GameEndedEvent)
	if ended.Winner != 2 || ended.WinnerName != "Charlie" {
		t.Errorf("Expected Charlie in seat 2 to win, got %s in seat %d", ended.WinnerName, ended.Winner)
	}
	if ended.SelfDrawn {
		t.Error("Expected a claimed win")
	}
	if ended.Score != DefaultWinScore {
		t.Errorf("Expected score %d, got %d", DefaultWinScore, ended.Score)
	}
	if len(ended.WinningHand) != 14 {
		t.Errorf("Expected a 14-tile winning hand, got %d", len(ended.WinningHand))
	}
}

func TestWallExhaustionEvents(t *testing.T) {
	bus := NewEventBus()
	sub := &captureSubscriber{}
	bus.Subscribe(sub)

	g := NewTestGame(WithEventBus(bus))
	playToExhaustion(t, g)

	types := sub.types()
	if len(types) < 2 {
		t.Fatalf("Expected a full event stream, got %d events", len(types))
	}
	if types[len(types)-2] != EventTypeWallExhausted {
		t.Errorf("Expected wall exhausted before the end, got %s", types[len(types)-2])
	}
	if types[len(types)-1] != EventTypeGameEnded {
		t.Errorf("Expected game ended last, got %s", types[len(types)-1])
	}

	ended := sub.events[len(sub.events)-1].(GameEndedEvent)
	if ended.Winner != NoWinner {
		t.Errorf("Expected no winner in a drawn game, got %d", ended.Winner)
	}
}

func TestStartNextRoundAnnouncesNewRound(t *testing.T) {
	bus := NewEventBus()
	sub := &captureSubscriber{}
	bus.Subscribe(sub)

	g := riggedDiscardWinGame(t, WithEventBus(bus))
	drawn, _, err := g.Draw()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	claims, err := g.Discard(drawn)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := g.AcceptClaim(claims[0]); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := g.StartNextRound(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	last := sub.events[len(sub.events)-1]
	initEvent, ok := last.(GameInitializedEvent)
	if !ok {
		t.Fatalf("Expected a GameInitializedEvent for the new round, got %T", last)
	}
	if initEvent.RoundNumber != 2 {
		t.Errorf("Expected round 2 announced, got %d", initEvent.RoundNumber)
	}
	if initEvent.Dealer != 1 {
		t.Errorf("Expected the rotated dealer announced, got %d", initEvent.Dealer)
	}
}
