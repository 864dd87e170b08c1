package scoring

import (
	"github.com/guyc74/stocks/internal/domain"
	"github.com/guyc74/stocks/internal/modules/metrics"
	"github.com/rs/zerolog"
)

// Result is the score of one security with the rules it failed
type Result struct {
	SecurityID domain.SecurityID `json:"security_id" msgpack:"security_id"`
	Score      float64           `json:"score" msgpack:"score"`
	PE         float64           `json:"pe" msgpack:"pe"`
	Ratios     metrics.Ratios    `json:"ratios" msgpack:"ratios"`
	Failed     []Rule            `json:"failed" msgpack:"failed"`
}

// Passed reports whether the security failed no rule
func (r Result) Passed() bool { return len(r.Failed) == 0 }

// FailedLabels returns the labels of the failed rules in table order
func (r Result) FailedLabels() []string {
	labels := make([]string, len(r.Failed))
	for i, rule := range r.Failed {
		labels[i] = rule.Label
	}
	return labels
}

// FailedRule reports whether the named rule failed
func (r Result) FailedRule(name string) bool {
	for _, rule := range r.Failed {
		if rule.Name == name {
			return true
		}
	}
	return false
}

// Scorer evaluates a rule table against securities
type Scorer struct {
	calc  *metrics.Calculator
	rules RuleSet
	log   zerolog.Logger
}

// NewScorer creates a scorer over the rule table
func NewScorer(calc *metrics.Calculator, rules RuleSet, log zerolog.Logger) *Scorer {
	return &Scorer{
		calc:  calc,
		rules: rules,
		log:   log.With().Str("service", "scorer").Logger(),
	}
}

// Rules returns the rule table in use
func (s *Scorer) Rules() RuleSet { return s.rules }

// Calculator returns the ratio calculator
func (s *Scorer) Calculator() *metrics.Calculator { return s.calc }

// Score computes the ratios of the security and evaluates every rule
func (s *Scorer) Score(src metrics.Source) Result {
	return s.Evaluate(src.ID(), s.calc.Ratios(src))
}

// Evaluate scores precomputed ratios. When any rule fails the score is the
// product of the failed weights, otherwise PassBase - P/E.
func (s *Scorer) Evaluate(id domain.SecurityID, ratios metrics.Ratios) Result {
	var failed []Rule
	for _, rule := range s.rules.Rules {
		if rule.Fails(ratios) {
			failed = append(failed, rule)
		}
	}

	score := s.rules.PassBase - ratios.PE
	if len(failed) > 0 {
		score = 1
		for _, rule := range failed {
			score *= rule.Weight
		}
	}

	s.log.Debug().
		Int64("id", int64(id)).
		Float64("score", score).
		Int("failed", len(failed)).
		Msg("Scored security")

	return Result{
		SecurityID: id,
		Score:      score,
		PE:         ratios.PE,
		Ratios:     ratios,
		Failed:     failed,
	}
}
