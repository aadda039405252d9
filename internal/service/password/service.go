package password

import (
	"context"

	"github.com/jwalitptl/passcheck-api/internal/breach"
	"github.com/jwalitptl/passcheck-api/internal/enhancer"
	"github.com/jwalitptl/passcheck-api/internal/model"
	"github.com/jwalitptl/passcheck-api/internal/pattern"
	"github.com/jwalitptl/passcheck-api/internal/scorer"
	"github.com/jwalitptl/passcheck-api/pkg/metrics"
)

// Service orchestrates scoring, breach checking, enhancement and
// generation. The scoring engine is the single source of truth for
// strength: every enhanced or generated candidate is re-scored through it.
type Service struct {
	engine    *scorer.Engine
	checker   *breach.Checker
	enhancer  *enhancer.Enhancer
	generator *enhancer.Generator
	detector  *pattern.Detector
	metrics   *metrics.Metrics
}

func NewService(engine *scorer.Engine, checker *breach.Checker, enh *enhancer.Enhancer,
	gen *enhancer.Generator, detector *pattern.Detector, m *metrics.Metrics) *Service {
	return &Service{
		engine:    engine,
		checker:   checker,
		enhancer:  enh,
		generator: gen,
		detector:  detector,
		metrics:   m,
	}
}

// Check assesses password. When withBreach is set the breach corpus is
// consulted first (cache-first, then network); callers wanting the lowest
// latency pass withBreach=false and follow up with CheckBreach separately.
func (s *Service) Check(ctx context.Context, password string, withBreach bool) model.Assessment {
	var result *model.BreachResult
	if withBreach && password != "" {
		r := s.checker.Check(ctx, password)
		result = &r
	}

	a := s.engine.Score(password, result)
	s.metrics.RecordAssessment(string(a.Strength))
	return a
}

// CheckBreach runs only the k-anonymity breach lookup. It never fails: any
// lookup problem is reported as "not breached".
func (s *Service) CheckBreach(ctx context.Context, password string) model.BreachResult {
	return s.checker.Check(ctx, password)
}

// Enhance repairs the weaknesses found in password and returns the
// candidate together with its fresh assessment. The candidate is produced
// from the same findings the assessment reported, then re-scored to confirm
// the improvement.
func (s *Service) Enhance(ctx context.Context, password string) (string, model.Assessment) {
	finding := s.detector.Detect(password)
	assessment := s.engine.Score(password, nil)

	candidate := s.enhancer.Enhance(password, assessment, finding)
	s.metrics.RecordEnhancement()

	return candidate, s.engine.Score(candidate, nil)
}

// Generate produces a fresh password of the requested length and its
// assessment.
func (s *Service) Generate(length int) (string, model.Assessment) {
	pw := s.generator.Generate(length)
	s.metrics.RecordGenerated()
	return pw, s.engine.Score(pw, nil)
}
