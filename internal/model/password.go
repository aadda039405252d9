package model

// Strength buckets a score into a coarse label. The mapping from score to
// strength is owned by the scoring engine and is a pure function of the
// clamped score.
type Strength string

const (
	StrengthWeak       Strength = "weak"
	StrengthMedium     Strength = "medium"
	StrengthStrong     Strength = "strong"
	StrengthVeryStrong Strength = "very_strong"
)

// Assessment is the full result of scoring a password. It is immutable once
// produced; callers should treat IsBreached=false as "not confirmed
// breached", not "confirmed clean", when no breach lookup was performed.
type Assessment struct {
	Score       int      `json:"score"`
	Strength    Strength `json:"strength"`
	Feedback    []string `json:"feedback"`
	IsCommon    bool     `json:"is_common"`
	HasPatterns bool     `json:"has_patterns"`
	IsBreached  bool     `json:"is_breached"`
	BreachCount int      `json:"breach_count"`
	Length      int      `json:"length"`
}

// BreachResult is the outcome of a k-anonymity breach lookup.
// Count is only meaningful when IsBreached is true.
type BreachResult struct {
	IsBreached bool `json:"is_breached"`
	Count      int  `json:"breach_count"`
}

type CheckRequest struct {
	// Password may be any UTF-8 string, including empty.
	Password    string `json:"password"`
	CheckBreach bool   `json:"check_breach"`
}

type EnhanceRequest struct {
	Password string `json:"password"`
}

type EnhanceResponse struct {
	Password   string     `json:"password"`
	Assessment Assessment `json:"assessment"`
}

type GenerateRequest struct {
	Length int `json:"length" binding:"omitempty,min=8,max=128"`
}

type GenerateResponse struct {
	Password   string     `json:"password"`
	Length     int        `json:"length"`
	Assessment Assessment `json:"assessment"`
}

type BreachCheckRequest struct {
	Password string `json:"password" binding:"required"`
}
