// Package gameid generates identifiers for games and their saved records.
// IDs are lexically sortable by creation time so record directories list in
// play order.
package gameid

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// Crockford's base32 alphabet
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

const (
	timeChars   = 9  // 45 bits of millisecond timestamp
	randomChars = 11 // 55 bits of randomness
	idLength    = timeChars + randomChars
)

// RandSource is the randomness a Generator needs, satisfied by *rand.Rand
// so tests can inject a seeded source.
type RandSource interface {
	IntN(n int) int
}

// Generator produces game IDs with configurable randomness
type Generator struct {
	randSource RandSource
	now        func() time.Time
}

// NewGenerator creates a generator. A nil RandSource selects crypto/rand.
func NewGenerator(randSource RandSource) *Generator {
	return &Generator{randSource: randSource, now: time.Now}
}

// Generate creates a new game ID using crypto/rand
func Generate() string {
	return NewGenerator(nil).Generate()
}

// GenerateWithRandSource creates a new game ID using the provided RandSource
func GenerateWithRandSource(randSource RandSource) string {
	return NewGenerator(randSource).Generate()
}

// Generate creates a new ID: a big-endian base32 millisecond timestamp
// followed by random padding
func (g *Generator) Generate() string {
	id := make([]byte, idLength)

	ms := g.now().UnixMilli()
	for i := timeChars - 1; i >= 0; i-- {
		id[i] = alphabet[ms&31]
		ms >>= 5
	}

	if g.randSource != nil {
		for i := timeChars; i < idLength; i++ {
			id[i] = alphabet[g.randSource.IntN(32)]
		}
	} else {
		var buf [randomChars]byte
		if _, err := rand.Read(buf[:]); err != nil {
			panic("failed to generate random bytes: " + err.Error())
		}
		for i, b := range buf {
			id[timeChars+i] = alphabet[int(b)&31]
		}
	}

	return string(id)
}

// Validate checks that a game ID has the expected length and alphabet
func Validate(id string) error {
	if len(id) != idLength {
		return fmt.Errorf("game ID must be exactly %d characters, got %d", idLength, len(id))
	}
	for i := 0; i < len(id); i++ {
		if strings.IndexByte(alphabet, id[i]) < 0 {
			return fmt.Errorf("game ID contains invalid character %q at position %d", id[i], i)
		}
	}
	return nil
}
