package spectator

import (
	"github.com/charmbracelet/log"

	"github.com/lox/mahjongforbots/internal/game"
)

// Broadcaster forwards engine events to the spectator server. It
// implements game.EventSubscriber so it can be attached to a game's
// event bus
type Broadcaster struct {
	server *Server
	logger *log.Logger
}

// NewBroadcaster creates a broadcaster that relays events to server
func NewBroadcaster(server *Server, logger *log.Logger) *Broadcaster {
	return &Broadcaster{
		server: server,
		logger: logger.WithPrefix("broadcaster"),
	}
}

// OnEvent translates a game event and broadcasts it to all spectators
func (b *Broadcaster) OnEvent(event game.GameEvent) {
	msg, err := MessageFromEvent(event)
	if err != nil {
		b.logger.Error("Failed to encode event", "type", event.EventType(), "error", err)
		return
	}
	if msg == nil {
		return
	}

	b.server.Broadcast(msg)
}
