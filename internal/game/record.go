package game

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/lox/mahjongforbots/internal/fileutil"
	"github.com/lox/mahjongforbots/internal/tile"
)

// RecordWriter persists finished game transcripts
type RecordWriter interface {
	WriteRecord(recordID string, content string) error
}

// FileRecordWriter writes game transcripts to files in a directory
type FileRecordWriter struct {
	directory string
}

// NewFileRecordWriter creates a new file-based record writer
func NewFileRecordWriter(directory string) *FileRecordWriter {
	return &FileRecordWriter{directory: directory}
}

// WriteRecord writes a transcript to <directory>/game_<recordID>.txt
func (w *FileRecordWriter) WriteRecord(recordID string, content string) error {
	filename := filepath.Join(w.directory, fmt.Sprintf("game_%s.txt", recordID))
	if err := fileutil.WriteFileAtomicDirs(filename, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write record file: %w", err)
	}
	return nil
}

// NoOpRecordWriter discards transcripts, for tests and simulations
type NoOpRecordWriter struct{}

// WriteRecord does nothing
func (w *NoOpRecordWriter) WriteRecord(recordID string, content string) error {
	return nil
}

// GameRecord builds a text transcript of one round from the event
// stream. Subscribe it to the game's event bus, then call SaveToFile
// once the round has ended.
type GameRecord struct {
	Seed      int64
	StartTime time.Time

	gameID         string
	roundNumber    int
	prevailingWind int
	dealer         int
	playerNames    []string

	moves  []string
	result string

	writer RecordWriter
}

// NewGameRecord creates a record that persists through the given writer
func NewGameRecord(seed int64, writer RecordWriter) *GameRecord {
	return &GameRecord{
		Seed:      seed,
		StartTime: time.Now(),
		writer:    writer,
	}
}

// OnEvent implements EventSubscriber
func (r *GameRecord) OnEvent(event GameEvent) {
	switch e := event.(type) {
	case GameInitializedEvent:
		r.gameID = e.GameID
		r.roundNumber = e.RoundNumber
		r.prevailingWind = e.PrevailingWind
		r.dealer = e.Dealer
		r.playerNames = e.PlayerNames
		r.moves = nil
		r.result = ""
	case TileDrawnEvent:
		r.addMove(fmt.Sprintf("%s draws %s (%d tiles left)", r.seatName(e.Seat), e.Tile, e.WallRemaining))
	case TileDiscardedEvent:
		r.addMove(fmt.Sprintf("%s discards %s", r.seatName(e.Seat), e.Tile))
	case TileClaimedEvent:
		r.addMove(fmt.Sprintf("%s claims %s of %s from %s",
			r.seatName(e.Seat), e.Claim.Kind, tileList(e.Meld.Tiles), r.seatName(e.Meld.ClaimedFrom)))
	case TurnChangedEvent:
		r.addMove(fmt.Sprintf("turn %d: %s to act", e.TurnNumber, r.seatName(e.Seat)))
	case WallExhaustedEvent:
		r.addMove("wall exhausted")
	case GameEndedEvent:
		if e.Winner == NoWinner {
			r.result = "Drawn game: the wall ran out\n"
			return
		}
		how := "discard"
		if e.SelfDrawn {
			how = "self-draw"
		}
		r.result = fmt.Sprintf("%s wins %d points by %s\nWinning hand: %s\n",
			e.WinnerName, e.Score, how, tileList(e.WinningHand))
	}
}

func (r *GameRecord) addMove(line string) {
	r.moves = append(r.moves, line)
}

func (r *GameRecord) seatName(seat int) string {
	if seat >= 0 && seat < len(r.playerNames) {
		return fmt.Sprintf("%s (seat %d)", r.playerNames[seat], seat)
	}
	return fmt.Sprintf("seat %d", seat)
}

// GenerateText creates a formatted text representation of the round
func (r *GameRecord) GenerateText() string {
	var record string

	record += fmt.Sprintf("=== GAME %s ROUND %d ===\n", r.gameID, r.roundNumber)
	record += fmt.Sprintf("Date: %s\n", r.StartTime.Format("2006-01-02 15:04:05"))
	record += fmt.Sprintf("Seed: %d\n", r.Seed)
	record += fmt.Sprintf("Prevailing Wind: %s\n", tile.WindName(r.prevailingWind))
	record += fmt.Sprintf("Dealer: %s\n\n", r.seatName(r.dealer))

	record += "SEATS:\n"
	for seat, name := range r.playerNames {
		record += fmt.Sprintf("Seat %d: %s\n", seat, name)
	}
	record += "\n"

	record += "PLAY:\n"
	for _, move := range r.moves {
		record += move + "\n"
	}
	record += "\n"

	record += "RESULT:\n"
	record += r.result

	return record
}

// SaveToFile saves the transcript using the configured writer
func (r *GameRecord) SaveToFile() error {
	recordID := fmt.Sprintf("%s_r%d", r.gameID, r.roundNumber)
	return r.writer.WriteRecord(recordID, r.GenerateText())
}

// tileList renders tiles as a space-separated string
func tileList(tiles []tile.Tile) string {
	out := ""
	for i, t := range tiles {
		if i > 0 {
			out += " "
		}
		out += t.String()
	}
	return out
}
