package enhancer

import (
	"math/rand"
	"sync"
)

// DefaultGenerateLength is used when the caller does not ask for a
// specific length.
const DefaultGenerateLength = 16

// Generator produces fresh strong passwords, independent of any input.
// Randomness is injected for reproducible tests.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(rng *rand.Rand) *Generator {
	return &Generator{rng: rng}
}

// Generate returns a password of the requested length containing at least
// one character from each of the four classes. The mandatory class
// characters are shuffled into random positions, never left at the front.
// Lengths below 8 fall back to DefaultGenerateLength.
func (g *Generator) Generate(length int) string {
	if length < 8 {
		length = DefaultGenerateLength
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	runes := make([]rune, 0, length)
	for _, set := range []string{lowerChars, upperChars, digitChars, specialChars} {
		runes = append(runes, randomFrom(g.rng, set))
	}
	for len(runes) < length {
		runes = append(runes, randomFrom(g.rng, fullAlphabet))
	}

	g.rng.Shuffle(len(runes), func(i, j int) {
		runes[i], runes[j] = runes[j], runes[i]
	})

	return string(runes)
}
