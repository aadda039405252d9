package scorer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jwalitptl/passcheck-api/internal/model"
	"github.com/jwalitptl/passcheck-api/internal/pattern"
	"github.com/jwalitptl/passcheck-api/internal/wordlist"
)

// Policy holds every tunable point value and threshold used by the engine.
// The numbers are compatibility constants: changing them changes scores for
// existing callers, so they live here rather than inline in the algorithm.
type Policy struct {
	// Length points: passwords shorter than MidLengthMin score
	// ShortLengthFactor per character, then fixed points per band.
	ShortLengthFactor int
	MidLengthMin      int // start of the 20-point band
	LongLengthMin     int // start of the 25-point band
	MaxLengthMin      int // start of the 30-point band
	MidLengthPoints   int
	LongLengthPoints  int
	MaxLengthPoints   int

	// VarietyPoints is awarded once per character class present.
	VarietyPoints int
	SpecialChars  string

	CommonPenalty  int // subtracted when the password is a known common one
	PatternPenalty int // subtracted per distinct matched pattern category
	BreachPenalty  int // subtracted when a breach lookup confirmed exposure

	// CleanBonus is awarded when nothing at all is wrong: full length band,
	// all four classes, not common, no patterns. Without it the additive
	// parts top out below the very-strong threshold.
	CleanBonus int

	MediumThreshold     int
	StrongThreshold     int
	VeryStrongThreshold int
}

// DefaultPolicy returns the standard scoring policy.
func DefaultPolicy() Policy {
	return Policy{
		ShortLengthFactor: 2,
		MidLengthMin:      8,
		LongLengthMin:     12,
		MaxLengthMin:      16,
		MidLengthPoints:   20,
		LongLengthPoints:  25,
		MaxLengthPoints:   30,

		VarietyPoints: 10,
		SpecialChars:  `!@#$%^&*(),.?":{}|<>`,

		CommonPenalty:  20,
		PatternPenalty: 10,
		BreachPenalty:  30,
		CleanBonus:     10,

		MediumThreshold:     30,
		StrongThreshold:     60,
		VeryStrongThreshold: 80,
	}
}

// Engine turns a raw password into an Assessment. It is the single source
// of truth for what counts as strong: enhanced and generated passwords are
// re-scored through the same engine. Stateless apart from its injected
// collaborators, so safe for concurrent use.
type Engine struct {
	policy   Policy
	common   *wordlist.Set
	detector *pattern.Detector
}

func NewEngine(policy Policy, common *wordlist.Set, detector *pattern.Detector) *Engine {
	return &Engine{policy: policy, common: common, detector: detector}
}

// Policy returns the engine's scoring policy.
func (e *Engine) Policy() Policy { return e.policy }

// Score assesses password. breach may be nil when no lookup was attempted
// or the caller wants the fast path; in that case no breach penalty or
// feedback is applied and IsBreached stays false.
//
// Feedback is emitted in a fixed order: length, variety, common password,
// patterns, breach.
func (e *Engine) Score(password string, breach *model.BreachResult) model.Assessment {
	length := utf8.RuneCountInString(password)

	if length == 0 {
		return model.Assessment{
			Score:    0,
			Strength: model.StrengthWeak,
			Feedback: []string{"No password provided"},
		}
	}

	p := e.policy
	score := 0
	var feedback []string

	// Length.
	switch {
	case length < p.MidLengthMin:
		score += p.ShortLengthFactor * length
		feedback = append(feedback, fmt.Sprintf("Too short: use at least %d characters", p.MidLengthMin))
	case length < p.LongLengthMin:
		score += p.MidLengthPoints
		feedback = append(feedback, fmt.Sprintf("Longer is stronger: aim for %d or more characters", p.LongLengthMin))
	case length < p.MaxLengthMin:
		score += p.LongLengthPoints
	default:
		score += p.MaxLengthPoints
	}

	// Character variety.
	classes := classesPresent(password, p.SpecialChars)
	for _, cl := range classOrder {
		if classes[cl] {
			score += p.VarietyPoints
		} else {
			feedback = append(feedback, classAdvice[cl])
		}
	}

	// Common password.
	isCommon := e.common.Contains(password)
	if isCommon {
		score -= p.CommonPenalty
		feedback = append(feedback, "This is a commonly used password")
	}

	// Patterns.
	finding := e.detector.Detect(password)
	for _, m := range finding.Matches {
		score -= p.PatternPenalty
		feedback = append(feedback, patternAdvice(m))
	}

	// Nothing to complain about so far: reward the clean password. The
	// bonus is what makes the very-strong band reachable.
	if len(feedback) == 0 && length >= p.LongLengthMin {
		score += p.CleanBonus
	}

	// Breach, only when a lookup actually completed.
	a := model.Assessment{
		IsCommon:    isCommon,
		HasPatterns: finding.Any(),
		Length:      length,
	}
	if breach != nil && breach.IsBreached {
		score -= p.BreachPenalty
		a.IsBreached = true
		a.BreachCount = breach.Count
		feedback = append(feedback, fmt.Sprintf("Found in %d known data breaches: do not use this password", breach.Count))
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	if len(feedback) == 0 {
		feedback = []string{"This is a strong password"}
	}

	a.Score = score
	a.Strength = e.strengthFor(score)
	a.Feedback = feedback
	return a
}

// strengthFor maps a clamped score onto a strength band.
func (e *Engine) strengthFor(score int) model.Strength {
	p := e.policy
	switch {
	case score >= p.VeryStrongThreshold:
		return model.StrengthVeryStrong
	case score >= p.StrongThreshold:
		return model.StrengthStrong
	case score >= p.MediumThreshold:
		return model.StrengthMedium
	default:
		return model.StrengthWeak
	}
}

type charClass int

const (
	classLower charClass = iota
	classUpper
	classDigit
	classSpecial
)

var classOrder = []charClass{classLower, classUpper, classDigit, classSpecial}

var classAdvice = map[charClass]string{
	classLower:   "Add lowercase letters",
	classUpper:   "Add uppercase letters",
	classDigit:   "Add digits",
	classSpecial: "Add special characters",
}

func classesPresent(password, specials string) map[charClass]bool {
	present := make(map[charClass]bool, 4)
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			present[classLower] = true
		case unicode.IsUpper(r):
			present[classUpper] = true
		case unicode.IsDigit(r):
			present[classDigit] = true
		case strings.ContainsRune(specials, r):
			present[classSpecial] = true
		}
	}
	return present
}

func patternAdvice(m pattern.Match) string {
	switch m.Category {
	case pattern.SequentialDigits:
		return fmt.Sprintf("Avoid sequential digits like %q", m.Substring)
	case pattern.SequentialLetters:
		return fmt.Sprintf("Avoid sequential letters like %q", m.Substring)
	case pattern.RepeatedChar:
		return fmt.Sprintf("Avoid repeated characters like %q", m.Substring)
	case pattern.KeyboardRun:
		return fmt.Sprintf("Avoid keyboard patterns like %q", m.Substring)
	default:
		return "Avoid predictable patterns"
	}
}
