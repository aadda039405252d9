package enhancer

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand"
	"time"
	"unicode"
)

// Character classes. The special set matches the one the scoring engine
// awards variety points for, so an enhanced password earns every bonus.
const (
	lowerChars   = "abcdefghijklmnopqrstuvwxyz"
	upperChars   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digitChars   = "0123456789"
	specialChars = `!@#$%^&*(),.?":{}|<>`

	letterChars  = lowerChars + upperChars
	fullAlphabet = lowerChars + upperChars + digitChars + specialChars
)

// NewSeededRand returns a math/rand source seeded from crypto/rand, falling
// back to the clock if the system entropy pool is unavailable. Tests inject
// a fixed-seed source instead.
func NewSeededRand() *rand.Rand {
	var buf [8]byte
	if _, err := crand.Read(buf[:]); err != nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(buf[:]))))
}

func randomFrom(rng *rand.Rand, set string) rune {
	return rune(set[rng.Intn(len(set))])
}

// replacementSetFor picks the character class a pattern rune is replaced
// from: digits replace digits, letters replace letters, anything else is
// replaced with a special character.
func replacementSetFor(r rune) string {
	switch {
	case unicode.IsDigit(r):
		return digitChars
	case unicode.IsLetter(r):
		return letterChars
	default:
		return specialChars
	}
}
