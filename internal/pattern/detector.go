package pattern

import (
	"strings"
	"unicode"
)

// Category identifies one class of predictable password structure.
type Category string

const (
	SequentialDigits  Category = "sequential_digits"
	SequentialLetters Category = "sequential_letters"
	RepeatedChar      Category = "repeated_char"
	KeyboardRun       Category = "keyboard_run"
)

// Match is one detected occurrence of a category. Substring is taken from
// the original input (original casing) so callers can locate it again.
type Match struct {
	Category  Category
	Substring string
}

// Finding is the set of categories matched in a single password. A password
// can match several categories at once; at most one Match is recorded per
// category (the first occurrence).
type Finding struct {
	Matches []Match
}

// Any reports whether at least one category matched.
func (f Finding) Any() bool { return len(f.Matches) > 0 }

// Has reports whether the given category matched.
func (f Finding) Has(c Category) bool {
	for _, m := range f.Matches {
		if m.Category == c {
			return true
		}
	}
	return false
}

// Categories returns the distinct matched categories in detection order.
func (f Finding) Categories() []Category {
	cats := make([]Category, 0, len(f.Matches))
	for _, m := range f.Matches {
		cats = append(cats, m.Category)
	}
	return cats
}

// baseKeyboardRuns are known adjacent-key sequences. Reversed forms are
// derived at construction time.
var baseKeyboardRuns = []string{
	"qwerty",
	"wertyu",
	"asdfgh",
	"sdfghj",
	"zxcvbn",
	"xcvbnm",
	"qazwsx",
	"1q2w3e",
}

// Detector finds predictable structure in passwords. It is stateless and
// safe for concurrent use.
type Detector struct {
	keyboardRuns []string
}

func NewDetector() *Detector {
	runs := make([]string, 0, 2*len(baseKeyboardRuns))
	for _, r := range baseKeyboardRuns {
		runs = append(runs, r, reverse(r))
	}
	return &Detector{keyboardRuns: runs}
}

// Detect scans password for all pattern categories. Detection is a pure
// function of the input string.
func (d *Detector) Detect(password string) Finding {
	var f Finding

	orig := []rune(password)
	lower := make([]rune, len(orig))
	for i, r := range orig {
		lower[i] = unicode.ToLower(r)
	}

	if m, ok := d.sequentialRun(orig, lower, unicode.IsDigit); ok {
		f.Matches = append(f.Matches, Match{Category: SequentialDigits, Substring: m})
	}
	if m, ok := d.sequentialRun(orig, lower, unicode.IsLetter); ok {
		f.Matches = append(f.Matches, Match{Category: SequentialLetters, Substring: m})
	}
	if m, ok := d.repeatedRun(orig); ok {
		f.Matches = append(f.Matches, Match{Category: RepeatedChar, Substring: m})
	}
	if m, ok := d.keyboardRun(orig, string(lower)); ok {
		f.Matches = append(f.Matches, Match{Category: KeyboardRun, Substring: m})
	}

	return f
}

// sequentialRun finds the first ascending run of length >= 3 whose runes all
// satisfy class. Comparison is over lowercased code points, so letter runs
// are case-insensitive. The returned substring is the maximal run, in the
// input's original casing.
func (d *Detector) sequentialRun(orig, lower []rune, class func(rune) bool) (string, bool) {
	for i := 0; i+2 < len(lower); i++ {
		if !class(lower[i]) || !class(lower[i+1]) || !class(lower[i+2]) {
			continue
		}
		if lower[i+1] != lower[i]+1 || lower[i+2] != lower[i+1]+1 {
			continue
		}
		end := i + 3
		for end < len(lower) && class(lower[end]) && lower[end] == lower[end-1]+1 {
			end++
		}
		return string(orig[i:end]), true
	}
	return "", false
}

// repeatedRun finds the first run of the same rune of length >= 3.
func (d *Detector) repeatedRun(orig []rune) (string, bool) {
	for i := 0; i < len(orig); {
		j := i + 1
		for j < len(orig) && orig[j] == orig[i] {
			j++
		}
		if j-i >= 3 {
			return string(orig[i:j]), true
		}
		i = j
	}
	return "", false
}

// keyboardRun checks the lowercased password against the fixed list of
// adjacent-key sequences and their reverses.
func (d *Detector) keyboardRun(orig []rune, lower string) (string, bool) {
	for _, run := range d.keyboardRuns {
		idx := strings.Index(lower, run)
		if idx < 0 {
			continue
		}
		// lower was built rune-by-rune from orig, and the runs are ASCII,
		// so byte offsets into lower map onto rune offsets via prefix count.
		start := len([]rune(lower[:idx]))
		return string(orig[start : start+len([]rune(run))]), true
	}
	return "", false
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
