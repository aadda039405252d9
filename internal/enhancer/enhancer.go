package enhancer

import (
	"math/rand"
	"strings"
	"sync"
	"unicode"

	"github.com/jwalitptl/passcheck-api/internal/model"
	"github.com/jwalitptl/passcheck-api/internal/pattern"
)

const (
	// TargetLength is the minimum length an enhanced password is padded to.
	TargetLength = 16

	// commonSuffixLen is the length of the random suffix appended when the
	// original password was a known common one.
	commonSuffixLen = 6

	// maxPatternPasses bounds the re-detect/replace loop; a replacement can
	// in principle form a new run, so the result is re-scanned.
	maxPatternPasses = 8
)

// Enhancer repairs the weaknesses a scoring assessment found, producing a
// candidate that never scores lower than its input. Randomness is injected
// so behavior is reproducible under a seeded source.
type Enhancer struct {
	detector *pattern.Detector

	mu  sync.Mutex
	rng *rand.Rand
}

func New(detector *pattern.Detector, rng *rand.Rand) *Enhancer {
	return &Enhancer{detector: detector, rng: rng}
}

// Enhance applies the ordered repair steps: pad to TargetLength, insert
// missing character classes, replace detected pattern runs in kind, and
// append a random suffix if the original was a common password. Each step
// sees the output of the previous one, so pattern replacement can never
// reintroduce a short-length penalty.
func (e *Enhancer) Enhance(password string, assessment model.Assessment, _ pattern.Finding) string {
	e.mu.Lock()
	defer e.mu.Unlock()

	runes := []rune(password)

	// Pad length.
	for len(runes) < TargetLength {
		runes = append(runes, randomFrom(e.rng, fullAlphabet))
	}

	// Ensure one character from each class.
	runes = e.ensureVariety(runes)

	// Replace pattern runs, re-detecting against the partially repaired
	// string each pass.
	for i := 0; i < maxPatternPasses; i++ {
		finding := e.detector.Detect(string(runes))
		if !finding.Any() {
			break
		}
		runes = e.replacePatterns(runes, finding)
	}

	// Push a common password out of the word list.
	if assessment.IsCommon {
		runes = append(runes, e.mixedSuffix(commonSuffixLen)...)
	}

	return string(runes)
}

func (e *Enhancer) ensureVariety(runes []rune) []rune {
	var hasLower, hasUpper, hasDigit, hasSpecial bool
	for _, r := range runes {
		switch {
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case strings.ContainsRune(specialChars, r):
			hasSpecial = true
		}
	}

	for _, miss := range []struct {
		present bool
		set     string
	}{
		{hasLower, lowerChars},
		{hasUpper, upperChars},
		{hasDigit, digitChars},
		{hasSpecial, specialChars},
	} {
		if miss.present {
			continue
		}
		pos := e.rng.Intn(len(runes) + 1)
		runes = append(runes[:pos], append([]rune{randomFrom(e.rng, miss.set)}, runes[pos:]...)...)
	}
	return runes
}

// replacePatterns overwrites each matched run with random characters drawn
// from the same class, preserving length and variety.
func (e *Enhancer) replacePatterns(runes []rune, finding pattern.Finding) []rune {
	for _, m := range finding.Matches {
		idx := runeIndex(runes, []rune(m.Substring))
		if idx < 0 {
			continue
		}
		for i := idx; i < idx+len([]rune(m.Substring)); i++ {
			runes[i] = randomFrom(e.rng, replacementSetFor(runes[i]))
		}
	}
	return runes
}

// mixedSuffix builds a suffix of n characters covering all four classes.
func (e *Enhancer) mixedSuffix(n int) []rune {
	sets := []string{lowerChars, upperChars, digitChars, specialChars}
	suffix := make([]rune, 0, n)
	for i := 0; i < n; i++ {
		if i < len(sets) {
			suffix = append(suffix, randomFrom(e.rng, sets[i]))
		} else {
			suffix = append(suffix, randomFrom(e.rng, fullAlphabet))
		}
	}
	e.rng.Shuffle(len(suffix), func(i, j int) {
		suffix[i], suffix[j] = suffix[j], suffix[i]
	})
	return suffix
}

// runeIndex returns the rune offset of the first occurrence of sub in s,
// or -1.
func runeIndex(s, sub []rune) int {
	if len(sub) == 0 || len(sub) > len(s) {
		return -1
	}
	for i := 0; i+len(sub) <= len(s); i++ {
		match := true
		for j := range sub {
			if s[i+j] != sub[j] {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
