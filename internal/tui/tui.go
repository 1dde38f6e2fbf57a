package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/lox/mahjongforbots/internal/game"
	"github.com/lox/mahjongforbots/internal/tile"
)

// Focusable panes
const (
	paneLog = iota
	paneInput
)

// Command is one line of player input split into a verb and its
// arguments. Quit is set when the input loop should stop prompting.
type Command struct {
	Verb string
	Args []string
	Quit bool
}

// QuitMsg asks the bubbletea program to shut down
type QuitMsg struct{}

// PlayerInfo is one sidebar row
type PlayerInfo struct {
	Name     string
	SeatWind string
	Score    int
	Melds    int
}

// Model is the bubbletea model for the table view: a scrollable game
// log, a seat sidebar and a command prompt. Engine goroutines feed it
// through the exported mutators; the player's typed commands come back
// out of WaitForCommand.
type Model struct {
	logger *log.Logger

	logView viewport.Model
	input   textinput.Model

	logLines    []string
	commands    chan Command
	quitCh      chan struct{}
	quitting    bool
	focusedPane int

	// Sidebar state, event driven
	gameID         string
	seatNumber     int
	players        []PlayerInfo
	wallRemaining  int
	prevailingWind string
	roundNumber    int

	// Prompt state while the player is acting
	acting         bool
	hand           []tile.Tile
	melds          []game.Meld
	validDecisions []game.ValidDecision

	width, height int
	sized         bool

	// Test mode keeps a copy of log lines for assertions
	testMode bool
	captured []string
}

// NewModel creates the table view model
func NewModel(logger *log.Logger) *Model {
	return newModel(logger, false)
}

// NewTestModel creates a model that captures log lines for assertions
// instead of driving a terminal
func NewTestModel(logger *log.Logger) *Model {
	return newModel(logger, true)
}

func newModel(logger *log.Logger, testMode bool) *Model {
	input := textinput.New()
	input.Prompt = "> "
	input.PromptStyle = PromptStyle
	input.TextStyle = InputTextStyle
	input.CharLimit = 100
	input.Width = 100
	input.Focus()

	return &Model{
		logger:      logger.WithPrefix("tui"),
		logView:     viewport.New(10, 5),
		input:       input,
		commands:    make(chan Command, 1),
		quitCh:      make(chan struct{}, 1),
		focusedPane: paneInput,
		testMode:    testMode,
	}
}

// Init starts the cursor blink and the quit listener
func (m *Model) Init() tea.Cmd {
	awaitQuit := func() tea.Msg {
		<-m.quitCh
		return QuitMsg{}
	}
	return tea.Batch(textinput.Blink, awaitQuit)
}

// Update handles bubbletea messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case QuitMsg:
		m.quitting = true
		return m, tea.Sequence(tea.ClearScreen, tea.Quit)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.logger.Debug("Resized", "width", m.width, "height", m.height)

	case tea.KeyMsg:
		if cmd, done := m.handleKey(msg); done {
			return m, cmd
		}
	}

	var cmds []tea.Cmd
	if m.focusedPane == paneInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.logView, cmd = m.logView.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// handleKey returns done=true when the key ends the update cycle
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	switch key := msg.String(); key {
	case "ctrl+c", "esc":
		m.quitting = true
		m.commands <- Command{Verb: "quit", Quit: true}
		return tea.Sequence(tea.ClearScreen, tea.Quit), true

	case "tab":
		if m.focusedPane == paneInput {
			m.focusedPane = paneLog
			m.input.Blur()
		} else {
			m.focusedPane = paneInput
			m.input.Focus()
		}

	case "enter":
		if m.focusedPane == paneInput {
			m.submit(m.input.Value())
			m.input.SetValue("")
		}

	default:
		if m.focusedPane == paneLog {
			m.scrollLog(key)
		}
	}
	return nil, false
}

// scrollLog applies vim-style scrolling to the log viewport
func (m *Model) scrollLog(key string) {
	switch key {
	case "up", "k":
		m.logView.ScrollUp(1)
	case "down", "j":
		m.logView.ScrollDown(1)
	case "pgup", "b":
		m.logView.HalfPageUp()
	case "pgdown", "f":
		m.logView.HalfPageDown()
	case "home", "g":
		m.logView.GotoTop()
	case "end", "G":
		m.logView.GotoBottom()
	}
}

// View renders the three panes: log and sidebar on top, prompt below
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	prompt := m.renderPrompt()
	promptHeight := lipgloss.Height(prompt)

	sidebar := m.renderSidebar()
	sidebarWidth := max(lipgloss.Width(sidebar), 25)

	// Borders take two cells per pane in each direction
	logWidth := clamp1(m.width - sidebarWidth - 4)
	logHeight := clamp1(m.height - promptHeight - 4)

	m.logView.Width = logWidth
	m.logView.Height = logHeight
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	if !m.sized && logWidth > 1 && logHeight > 1 {
		m.logView.GotoTop()
		m.sized = true
	}

	logPane := paneBorder(m.focusedPane == paneLog).
		Width(logWidth).Height(logHeight).
		Render(m.logView.View())
	sidebarPane := paneBorder(false).
		Width(clamp1(sidebarWidth)).Height(logHeight).
		Render(sidebar)
	promptPane := paneBorder(true).
		Width(clamp1(m.width - 2)).Height(clamp1(promptHeight - 2)).
		Render(prompt)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, logPane, sidebarPane)
	return lipgloss.JoinVertical(lipgloss.Top, topRow, promptPane)
}

// renderSidebar builds the round header and seat list
func (m *Model) renderSidebar() string {
	var b strings.Builder

	if m.prevailingWind != "" {
		b.WriteString(WarningStyle.Render(fmt.Sprintf("%s round %d", m.prevailingWind, m.roundNumber)))
		b.WriteString("\n")
	}
	b.WriteString(WarningStyle.Render(fmt.Sprintf("Wall: %d", m.wallRemaining)))
	b.WriteString("\n\n")

	if len(m.players) == 0 {
		return b.String()
	}
	b.WriteString(InfoStyle.Render("Seats:"))
	b.WriteString("\n")
	for seat, p := range m.players {
		marker := " "
		if seat == m.seatNumber {
			marker = "*"
		}
		fmt.Fprintf(&b, "%s %s (%s): %d", marker, p.Name, p.SeatWind, p.Score)
		if p.Melds > 0 {
			fmt.Fprintf(&b, " [%d melds]", p.Melds)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderPrompt builds the bottom pane with the hand, legal actions and
// the input line
func (m *Model) renderPrompt() string {
	var b strings.Builder

	if m.acting {
		b.WriteString(m.renderHand())
		b.WriteString("\n")
		b.WriteString(m.renderActions())
		b.WriteString("\n")
		m.input.Placeholder = "Enter your action (discard 5b, win, claim, pass, etc.)"
	} else {
		b.WriteString(HandInfoStyle.Render("Waiting..."))
		b.WriteString("\n")
		m.input.Placeholder = "Enter to continue, 'quit' to exit"
	}

	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(m.renderKeyHelp())
	return b.String()
}

func (m *Model) renderKeyHelp() string {
	if m.focusedPane == paneLog {
		return InfoStyle.Render("Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input")
	}
	if m.acting {
		return InfoStyle.Render("Tab to scroll log • Enter to submit • Ctrl+C to quit")
	}
	return InfoStyle.Render("Tab to scroll log • Ctrl+C to quit")
}

// renderHand shows the acting seat's concealed tiles plus melds
func (m *Model) renderHand() string {
	parts := []string{fmt.Sprintf("Hand: %s", formatTiles(m.hand))}
	for _, meld := range m.melds {
		parts = append(parts, formatTiles(meld.Tiles))
	}
	return HandInfoStyle.Render(strings.Join(parts, "  "))
}

// renderActions lists the decisions the engine will accept
func (m *Model) renderActions() string {
	var actions []string
	for _, vd := range m.validDecisions {
		switch vd.Action {
		case game.DecideWin:
			actions = append(actions, SuccessStyle.Render("[win]"))
		case game.DecideDiscard:
			actions = append(actions, WarningStyle.Render("[discard <tile>]"))
		case game.DecideClaim:
			actions = append(actions, ActionsStyle.Render(fmt.Sprintf("[claim %s]", vd.Claim.Kind)))
		case game.DecidePass:
			actions = append(actions, InfoStyle.Render("[pass]"))
		}
	}
	if len(actions) == 0 {
		actions = append(actions, ErrorStyle.Render("[no actions available]"))
	}
	return ActionsStyle.Render("Actions: ") + strings.Join(actions, " ")
}

// formatTiles renders tiles in suit colors inside brackets
func formatTiles(tiles []tile.Tile) string {
	if len(tiles) == 0 {
		return "[]"
	}
	parts := make([]string, len(tiles))
	for i, t := range tiles {
		parts[i] = TileStyle(t).Render(t.String())
	}
	return "[" + strings.Join(parts, " ") + "]"
}

func clamp1(v int) int {
	if v < 1 {
		return 1
	}
	return v
}

// AppendLog adds a line to the game log and follows it
func (m *Model) AppendLog(line string) {
	m.logLines = append(m.logLines, line)
	if m.testMode {
		m.captured = append(m.captured, line)
		return
	}
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	if m.logView.Width > 0 && m.logView.Height > 0 {
		m.logView.GotoBottom()
	}
}

// AppendLogSection adds a line and scrolls it to the top of the
// viewport, so a round header starts a fresh screen
func (m *Model) AppendLogSection(line string) {
	m.logLines = append(m.logLines, line)
	if m.testMode {
		m.captured = append(m.captured, line)
		return
	}
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	if m.logView.Width > 0 && m.logView.Height > 0 {
		m.logView.SetYOffset(len(m.logLines) - 1)
	}
}

// Announce prepends a bold line and scrolls to it
func (m *Model) Announce(line string) {
	bold := "\033[1m" + line + "\033[0m"
	m.logLines = append([]string{bold}, m.logLines...)
	if m.testMode {
		m.captured = append([]string{line}, m.captured...)
		return
	}
	m.logView.SetContent(strings.Join(m.logLines, "\n"))
	m.logView.GotoTop()
}

// ClearLog drops the log contents
func (m *Model) ClearLog() {
	m.logLines = nil
	m.logView.SetContent("")
}

// SetTableInfo fills the sidebar seat list
func (m *Model) SetTableInfo(gameID string, seatNumber int, players []PlayerInfo) {
	m.gameID = gameID
	m.seatNumber = seatNumber
	m.players = players
}

// UpdateWall updates the wall counter shown in the sidebar
func (m *Model) UpdateWall(remaining int) {
	m.wallRemaining = remaining
}

// UpdateRound updates the round header shown in the sidebar
func (m *Model) UpdateRound(roundNumber int, prevailingWind string) {
	m.roundNumber = roundNumber
	m.prevailingWind = prevailingWind
}

// UpdateValidDecisions updates the action hints in the prompt pane
func (m *Model) UpdateValidDecisions(decisions []game.ValidDecision) {
	m.validDecisions = decisions
}

// SetActing gives the prompt the acting seat's tiles
func (m *Model) SetActing(hand []tile.Tile, melds []game.Meld) {
	m.acting = true
	m.hand = hand
	m.melds = melds
}

// ClearActing returns the prompt to its waiting state
func (m *Model) ClearActing() {
	m.acting = false
	m.hand = nil
	m.melds = nil
}

// submit parses raw input into a Command for the waiting decision loop
func (m *Model) submit(raw string) {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(raw)))
	cmd := Command{}
	if len(fields) > 0 {
		cmd.Verb = fields[0]
		cmd.Args = fields[1:]
	}
	m.commands <- cmd
}

// WaitForCommand blocks until the player submits a line
func (m *Model) WaitForCommand() Command {
	return <-m.commands
}

// RequestQuit asks the program to exit after the current render
func (m *Model) RequestQuit() {
	select {
	case m.quitCh <- struct{}{}:
	default:
	}
}

// InTestMode reports whether log lines are being captured
func (m *Model) InTestMode() bool {
	return m.testMode
}

// CapturedLog returns a copy of the captured log lines
func (m *Model) CapturedLog() []string {
	if !m.testMode {
		return nil
	}
	out := make([]string, len(m.captured))
	copy(out, m.captured)
	return out
}

// Inject queues a command as if the player had typed it
func (m *Model) Inject(verb string, args ...string) error {
	if !m.testMode {
		return fmt.Errorf("command injection requires the test model")
	}
	select {
	case m.commands <- Command{Verb: verb, Args: args}:
		return nil
	default:
		return fmt.Errorf("command queue full")
	}
}
