package tile

import "fmt"

// Suit represents a tile suit. The constant order is the canonical sort
// order for hands.
type Suit int

const (
	Bamboo Suit = iota
	Character
	Dot
	Wind
	Dragon
)

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Bamboo:
		return "Bamboo"
	case Character:
		return "Character"
	case Dot:
		return "Dot"
	case Wind:
		return "Wind"
	case Dragon:
		return "Dragon"
	default:
		return "?"
	}
}

// IsSuited returns true for the three numbered suits
func (s Suit) IsSuited() bool {
	return s == Bamboo || s == Character || s == Dot
}

// Wind tile values
const (
	East = iota + 1
	South
	West
	North
)

// Dragon tile values
const (
	Red = iota + 1
	Green
	White
)

// WindName returns the name of a wind value ("East" .. "North")
func WindName(value int) string {
	switch value {
	case East:
		return "East"
	case South:
		return "South"
	case West:
		return "West"
	case North:
		return "North"
	default:
		return "?"
	}
}

// DragonName returns the name of a dragon value ("Red" .. "White")
func DragonName(value int) string {
	switch value {
	case Red:
		return "Red"
	case Green:
		return "Green"
	case White:
		return "White"
	default:
		return "?"
	}
}

// Tile represents a single tile. Suit and Value define identity; ID only
// distinguishes the four physical copies of each type and never takes part
// in comparisons.
type Tile struct {
	Suit  Suit
	Value int
	ID    int
}

// New creates a tile of the given type with no copy ID
func New(suit Suit, value int) Tile {
	return Tile{Suit: suit, Value: value}
}

// Equals compares two tiles structurally, ignoring copy IDs
func (t Tile) Equals(other Tile) bool {
	return t.Suit == other.Suit && t.Value == other.Value
}

// IsHonor returns true for wind and dragon tiles
func (t Tile) IsHonor() bool {
	return t.Suit == Wind || t.Suit == Dragon
}

// IsTerminal returns true for suited tiles of value 1 or 9
func (t Tile) IsTerminal() bool {
	return t.Suit.IsSuited() && (t.Value == 1 || t.Value == 9)
}

// IsSimple returns true for suited tiles of value 2 through 8
func (t Tile) IsSimple() bool {
	return t.Suit.IsSuited() && t.Value >= 2 && t.Value <= 8
}

// IsValid returns true if the tile is one of the 34 legal types
func (t Tile) IsValid() bool {
	switch t.Suit {
	case Bamboo, Character, Dot:
		return t.Value >= 1 && t.Value <= 9
	case Wind:
		return t.Value >= East && t.Value <= North
	case Dragon:
		return t.Value >= Red && t.Value <= White
	default:
		return false
	}
}

// String returns the compact representation (e.g. "3b", "ew", "rd")
func (t Tile) String() string {
	switch t.Suit {
	case Bamboo:
		return fmt.Sprintf("%db", t.Value)
	case Character:
		return fmt.Sprintf("%dc", t.Value)
	case Dot:
		return fmt.Sprintf("%dd", t.Value)
	case Wind:
		switch t.Value {
		case East:
			return "ew"
		case South:
			return "sw"
		case West:
			return "ww"
		case North:
			return "nw"
		}
	case Dragon:
		switch t.Value {
		case Red:
			return "rd"
		case Green:
			return "gd"
		case White:
			return "wd"
		}
	}
	return "??"
}

// Name returns the long form (e.g. "3 Bamboo", "East Wind", "Red Dragon")
func (t Tile) Name() string {
	switch t.Suit {
	case Bamboo, Character, Dot:
		return fmt.Sprintf("%d %s", t.Value, t.Suit)
	case Wind:
		return WindName(t.Value) + " Wind"
	case Dragon:
		return DragonName(t.Value) + " Dragon"
	default:
		return "??"
	}
}

// ParseTile parses a compact tile string like "3b" or "ew" into a Tile
func ParseTile(s string) (Tile, error) {
	if len(s) != 2 {
		return Tile{}, fmt.Errorf("invalid tile string: %q", s)
	}

	switch s {
	case "ew":
		return New(Wind, East), nil
	case "sw":
		return New(Wind, South), nil
	case "ww":
		return New(Wind, West), nil
	case "nw":
		return New(Wind, North), nil
	case "rd":
		return New(Dragon, Red), nil
	case "gd":
		return New(Dragon, Green), nil
	case "wd":
		return New(Dragon, White), nil
	}

	if s[0] < '1' || s[0] > '9' {
		return Tile{}, fmt.Errorf("invalid tile value: %q", s)
	}
	value := int(s[0] - '0')

	var suit Suit
	switch s[1] {
	case 'b':
		suit = Bamboo
	case 'c':
		suit = Character
	case 'd':
		suit = Dot
	default:
		return Tile{}, fmt.Errorf("invalid tile suit: %q", s)
	}

	return New(suit, value), nil
}

// MustParseTiles parses a space-separated list of compact tile strings and
// panics on malformed input. Intended for fixtures and tests.
func MustParseTiles(s string) []Tile {
	tiles, err := ParseTiles(s)
	if err != nil {
		panic(err)
	}
	return tiles
}

// ParseTiles parses a space-separated list of compact tile strings
func ParseTiles(s string) ([]Tile, error) {
	var tiles []Tile
	start := -1
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ' ' {
			if start >= 0 {
				t, err := ParseTile(s[start:i])
				if err != nil {
					return nil, err
				}
				tiles = append(tiles, t)
			}
			start = -1
			continue
		}
		if start < 0 {
			start = i
		}
	}
	return tiles, nil
}
