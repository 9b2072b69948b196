// Package roundid generates sortable identifiers for rounds: a UUIDv7
// rendered as 26 characters of Crockford base32, the TypeID suffix format.
package roundid

import (
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
)

// Crockford's base32 alphabet, lower case
const alphabet = "0123456789abcdefghjkmnpqrstvwxyz"

// Length of an encoded ID
const Length = 26

// Generator creates IDs, optionally from a caller supplied random stream
type Generator struct {
	rand io.Reader
}

// NewGenerator returns a Generator reading randomness from r. A nil r uses
// crypto/rand.
func NewGenerator(r io.Reader) *Generator {
	return &Generator{rand: r}
}

// Generate creates a new round ID using crypto/rand
func Generate() string {
	id, err := NewGenerator(nil).Generate()
	if err != nil {
		panic("roundid: " + err.Error())
	}
	return id
}

// Generate creates a new round ID
func (g *Generator) Generate() (string, error) {
	var (
		u   uuid.UUID
		err error
	)
	if g.rand != nil {
		u, err = uuid.NewV7FromReader(g.rand)
	} else {
		u, err = uuid.NewV7()
	}
	if err != nil {
		return "", fmt.Errorf("generate uuidv7: %w", err)
	}
	return Encode(u), nil
}

// Encode renders a UUID as 26 base32 characters. The 128 bits are treated
// as a 130-bit number with two leading zero bits, so the first character is
// always 0-7.
func Encode(u uuid.UUID) string {
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		var v byte
		for j := 0; j < 5; j++ {
			v <<= 1
			if pos := i*5 + j - 2; pos >= 0 && u[pos/8]>>(7-pos%8)&1 == 1 {
				v |= 1
			}
		}
		b.WriteByte(alphabet[v])
	}
	return b.String()
}

// Validate checks that id is 26 characters of lower case base32 whose first
// character is 0-7.
func Validate(id string) error {
	if len(id) != Length {
		return fmt.Errorf("round ID must be exactly %d characters, got %d", Length, len(id))
	}
	if id[0] > '7' {
		return fmt.Errorf("round ID first character must be 0-7, got %c", id[0])
	}
	for i, char := range id {
		if !strings.ContainsRune(alphabet, char) {
			return fmt.Errorf("invalid character %c at position %d", char, i)
		}
	}
	return nil
}
