package testing

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/spectator"
	"github.com/lox/mahjongforbots/internal/tui"
)

// Test constants
const (
	readTimeout        = 2 * time.Second
	feedTimeout        = 10 * time.Second
	serverReadyTimeout = 5 * time.Second
	injectRetryDelay   = time.Millisecond
	movePacing         = time.Millisecond
)

func discardLogger() *log.Logger {
	return log.New(io.Discard)
}

// streamRecorder captures engine events in publish order
type streamRecorder struct {
	events []game.GameEvent
}

func (r *streamRecorder) OnEvent(event game.GameEvent) {
	r.events = append(r.events, event)
}

// haltAfter cancels the run context once its wrapped agent has made a
// fixed number of decisions, stranding the game mid-round
type haltAfter struct {
	inner     game.Agent
	remaining int
	cancel    context.CancelFunc
}

func (h *haltAfter) MakeDecision(tableState game.TableState, valid []game.ValidDecision) game.Decision {
	decision := h.inner.MakeDecision(tableState, valid)
	h.remaining--
	if h.remaining <= 0 {
		h.cancel()
	}
	return decision
}

// keyboardSeat plays one seat through the interactive command path,
// typing what the prompt offers: win when possible, claim any meld on
// offer, otherwise discard the first legal tile. The first prompt also
// walks the help and hand commands the way a person feeling out the
// interface would.
type keyboardSeat struct {
	agent    *tui.Agent
	prompted bool
}

func newKeyboardSeat(logger *log.Logger) *keyboardSeat {
	return &keyboardSeat{agent: tui.NewTestAgent(logger)}
}

func (k *keyboardSeat) capturedLog() []string {
	return k.agent.Model().CapturedLog()
}

// MakeDecision types the composed command lines into the prompt and
// returns whatever decision the interactive agent produces
func (k *keyboardSeat) MakeDecision(tableState game.TableState, valid []game.ValidDecision) game.Decision {
	lines := k.compose(valid)
	model := k.agent.Model()
	go func() {
		for _, line := range lines {
			fields := strings.Fields(line)
			for model.Inject(fields[0], fields[1:]...) != nil {
				time.Sleep(injectRetryDelay)
			}
		}
	}()
	return k.agent.MakeDecision(tableState, valid)
}

// compose picks the lines to type at the current prompt. All but the
// last are informational; the last always maps to a legal decision, so
// the prompt never hangs waiting for more input.
func (k *keyboardSeat) compose(valid []game.ValidDecision) []string {
	var lines []string
	if !k.prompted {
		k.prompted = true
		lines = append(lines, "help", "hand", "discard bogus")
	}
	return append(lines, k.action(valid))
}

func (k *keyboardSeat) action(valid []game.ValidDecision) string {
	for _, vd := range valid {
		if vd.Action == game.DecideWin {
			return "win"
		}
	}
	for _, vd := range valid {
		if vd.Action == game.DecideClaim && vd.Claim.Kind == game.ClaimWin {
			return "win"
		}
	}
	for _, vd := range valid {
		if vd.Action == game.DecideClaim {
			return "claim " + vd.Claim.Kind.String()
		}
	}
	for _, vd := range valid {
		if vd.Action == game.DecideDiscard && len(vd.Tiles) > 0 {
			return "discard " + vd.Tiles[0].String()
		}
	}
	return "pass"
}

// Helper Functions

func findFreePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	_ = listener.Close()
	return port
}

// startSpectatorServer runs a spectator server on a free port and waits
// until its health endpoint answers
func startSpectatorServer(t *testing.T) (*spectator.Server, string) {
	t.Helper()
	addr := fmt.Sprintf("127.0.0.1:%d", findFreePort(t))
	srv := spectator.NewServer(addr, discardLogger())
	go func() {
		_ = srv.Start()
	}()
	t.Cleanup(func() { _ = srv.Stop() })

	waitForServerReady(t, addr)
	return srv, "ws://" + addr + "/ws"
}

func waitForServerReady(t *testing.T, addr string) {
	t.Helper()
	url := "http://" + addr + "/health"
	deadline := time.Now().Add(serverReadyTimeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Spectator server at %s did not become ready within %v", addr, serverReadyTimeout)
}

func dialSpectator(t *testing.T, wsURL string) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err, "Failed to dial %s", wsURL)
	return ws
}

func waitForConnections(t *testing.T, srv *spectator.Server, want int) {
	t.Helper()
	deadline := time.Now().Add(readTimeout)
	for time.Now().Before(deadline) {
		if srv.ConnectionCount() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("Expected %d spectator connections, got %d", want, srv.ConnectionCount())
}

// spectatorFeed collects the message stream one spectator sees. Reading
// stops at the game result, so a feed covers exactly one round.
type spectatorFeed struct {
	messages []spectator.Message
	err      error
	done     chan struct{}
}

func collectFeed(ws *websocket.Conn) *spectatorFeed {
	feed := &spectatorFeed{done: make(chan struct{})}
	go func() {
		defer close(feed.done)
		for {
			_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
			var msg spectator.Message
			if err := ws.ReadJSON(&msg); err != nil {
				feed.err = err
				return
			}
			feed.messages = append(feed.messages, msg)
			if msg.Type == spectator.MessageTypeGameEnded {
				return
			}
		}
	}()
	return feed
}

func (f *spectatorFeed) wait(t *testing.T) []spectator.Message {
	t.Helper()
	select {
	case <-f.done:
	case <-time.After(feedTimeout):
		t.Fatal("Spectator feed did not reach the game result")
	}
	require.NoError(t, f.err, "Spectator feed failed")
	return f.messages
}

func countType(messages []spectator.Message, messageType spectator.MessageType) int {
	count := 0
	for _, msg := range messages {
		if msg.Type == messageType {
			count++
		}
	}
	return count
}

// stripHistoryTimestamps clears wall-clock fields so snapshots taken on
// different runs compare structurally
func stripHistoryTimestamps(snap *game.Snapshot) {
	for i := range snap.History {
		snap.History[i].Timestamp = time.Time{}
	}
}
