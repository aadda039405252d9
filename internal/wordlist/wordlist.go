package wordlist

import (
	"bufio"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Set is a read-only membership set of known common passwords. Entries are
// stored lowercased so lookups are case-insensitive. A nil or empty Set is
// valid and matches nothing.
type Set struct {
	words map[string]struct{}
}

// New builds a Set from the given words, lowercasing and trimming each one.
func New(words []string) *Set {
	s := &Set{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		s.words[strings.ToLower(w)] = struct{}{}
	}
	return s
}

// Load reads a newline-delimited password list from path. A missing or
// unreadable file is not fatal: the returned Set is empty and every
// Contains call reports false, so assessments still succeed.
func Load(path string) *Set {
	f, err := os.Open(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("common password list unavailable, continuing with empty set")
		return New(nil)
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		words = append(words, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed reading common password list, continuing with empty set")
		return New(nil)
	}

	s := New(words)
	log.Info().Int("count", s.Len()).Str("path", path).Msg("loaded common password list")
	return s
}

// Contains reports whether password is in the set, ignoring case.
func (s *Set) Contains(password string) bool {
	if s == nil || len(s.words) == 0 {
		return false
	}
	_, ok := s.words[strings.ToLower(password)]
	return ok
}

// Len returns the number of entries in the set.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.words)
}
