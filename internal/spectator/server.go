package spectator

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// shutdownTimeout bounds how long Stop waits for the listener to drain
const shutdownTimeout = 5 * time.Second

// Server broadcasts game events to spectator WebSocket connections
type Server struct {
	httpServer *http.Server
	upgrader   websocket.Upgrader
	logger     *log.Logger

	mu    sync.Mutex
	conns map[*Connection]struct{}
}

// NewServer creates a spectator server that will listen on addr once
// started
func NewServer(addr string, logger *log.Logger) *Server {
	s := &Server{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Spectators only ever receive public information, so
			// any origin may watch
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: logger.WithPrefix("spectator"),
		conns:  make(map[*Connection]struct{}),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)
	s.httpServer = &http.Server{Addr: addr, Handler: mux}

	return s
}

// Start serves the WebSocket and health endpoints until Stop is called.
// It blocks, in the manner of http.ListenAndServe
func (s *Server) Start() error {
	s.logger.Info("Starting spectator server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop closes every spectator connection and shuts down the listener
func (s *Server) Stop() error {
	s.mu.Lock()
	for conn := range s.conns {
		_ = conn.Close()
	}
	s.conns = make(map[*Connection]struct{})
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("Failed to upgrade connection", "error", err)
		return
	}

	conn := NewConnection(ws, s.logger)
	s.add(conn)
	conn.Start()

	go func() {
		<-conn.Done()
		s.remove(conn)
	}()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) add(conn *Connection) {
	s.mu.Lock()
	s.conns[conn] = struct{}{}
	total := len(s.conns)
	s.mu.Unlock()

	s.logger.Info("Spectator connected", "total", total)
}

func (s *Server) remove(conn *Connection) {
	s.mu.Lock()
	_, present := s.conns[conn]
	delete(s.conns, conn)
	total := len(s.conns)
	s.mu.Unlock()

	if present {
		s.logger.Info("Spectator disconnected", "total", total)
	}
}

// Broadcast queues msg on every connected spectator. Spectators that
// cannot keep up are dropped by their own connection rather than
// allowed to stall the feed
func (s *Server) Broadcast(msg *Message) {
	s.mu.Lock()
	conns := make([]*Connection, 0, len(s.conns))
	for conn := range s.conns {
		conns = append(conns, conn)
	}
	s.mu.Unlock()

	sent := 0
	for _, conn := range conns {
		if err := conn.SendMessage(msg); err != nil {
			s.logger.Debug("Dropped spectator message", "error", err)
			continue
		}
		sent++
	}

	s.logger.Debug("Broadcast message", "type", msg.Type, "recipients", sent)
}

// ConnectionCount returns the number of connected spectators
func (s *Server) ConnectionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.conns)
}
