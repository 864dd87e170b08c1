// Package scoring ranks securities by a data-driven table of screening rules.
package scoring

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/guyc74/stocks/internal/modules/metrics"
	"gopkg.in/yaml.v2"
)

var (
	// ErrUnknownMetric is returned when a rule references a ratio the engine does not compute
	ErrUnknownMetric = errors.New("unknown metric")
	// ErrInvalidOperator is returned for comparison operators other than >, <, >=, <=
	ErrInvalidOperator = errors.New("invalid operator")
)

// Comparison operators
const (
	OpGreater      = ">"
	OpLess         = "<"
	OpGreaterEqual = ">="
	OpLessEqual    = "<="
)

// DefaultPassBase is the score base of a security failing no rule: score = base - P/E
const DefaultPassBase = 15.0

// Rule is one screening condition. A rule fails when Metric Op bound holds,
// where bound is Factor × Against when Against is set, else Threshold.
// A failed rule with weight 0 vetoes the security.
type Rule struct {
	Name      string  `yaml:"name" json:"name" msgpack:"name"`
	Label     string  `yaml:"label" json:"label" msgpack:"label"`
	Weight    float64 `yaml:"weight" json:"weight" msgpack:"weight"`
	Metric    string  `yaml:"metric" json:"metric" msgpack:"metric"`
	Op        string  `yaml:"op" json:"op" msgpack:"op"`
	Threshold float64 `yaml:"threshold,omitempty" json:"threshold,omitempty" msgpack:"threshold,omitempty"`
	Against   string  `yaml:"against,omitempty" json:"against,omitempty" msgpack:"against,omitempty"`
	Factor    float64 `yaml:"factor,omitempty" json:"factor,omitempty" msgpack:"factor,omitempty"`
}

// Fails evaluates the rule against the ratios
func (r Rule) Fails(ratios metrics.Ratios) bool {
	value, _ := ratios.Value(r.Metric)
	return compare(value, r.Op, r.bound(ratios))
}

func (r Rule) bound(ratios metrics.Ratios) float64 {
	if r.Against == "" {
		return r.Threshold
	}
	other, _ := ratios.Value(r.Against)
	factor := r.Factor
	if factor == 0 {
		// An omitted factor compares against the other ratio as-is
		factor = 1
	}
	return factor * other
}

func compare(value float64, op string, bound float64) bool {
	switch op {
	case OpGreater:
		return value > bound
	case OpLess:
		return value < bound
	case OpGreaterEqual:
		return value >= bound
	case OpLessEqual:
		return value <= bound
	}
	return false
}

// Validate checks the rule references known ratios and a known operator
func (r Rule) Validate() error {
	if r.Name == "" {
		return fmt.Errorf("rule without a name")
	}
	if !metrics.IsRatio(r.Metric) {
		return unknownMetric(r.Name, r.Metric)
	}
	if r.Against != "" && !metrics.IsRatio(r.Against) {
		return unknownMetric(r.Name, r.Against)
	}
	switch r.Op {
	case OpGreater, OpLess, OpGreaterEqual, OpLessEqual:
	default:
		return fmt.Errorf("rule %s: %w %q", r.Name, ErrInvalidOperator, r.Op)
	}
	if r.Weight < 0 {
		return fmt.Errorf("rule %s: negative weight %v", r.Name, r.Weight)
	}
	return nil
}

func unknownMetric(rule, metric string) error {
	return fmt.Errorf("rule %s: %w %q (known: %s)",
		rule, ErrUnknownMetric, metric, strings.Join(metrics.RatioNames(), ", "))
}

// ErrUnknownRule is returned when a rule file includes a rule that is not built in
var ErrUnknownRule = errors.New("unknown rule")

// RuleSet is an ordered rule table plus the base of the passing score.
// Include names built-in rules to append, see BuiltinRule.
type RuleSet struct {
	PassBase float64  `yaml:"pass_base" json:"pass_base"`
	Rules    []Rule   `yaml:"rules" json:"rules"`
	Include  []string `yaml:"include,omitempty" json:"-"`
}

// Validate checks every rule and that rule names are unique
func (rs RuleSet) Validate() error {
	if len(rs.Rules) == 0 {
		return fmt.Errorf("rule set has no rules")
	}
	seen := make(map[string]bool, len(rs.Rules))
	for _, r := range rs.Rules {
		if err := r.Validate(); err != nil {
			return err
		}
		if seen[r.Name] {
			return fmt.Errorf("duplicate rule %s", r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}

// DividendStdevRule flags an unstable dividend. It is not part of the
// default table; rule files enable it with "include: [dividend_stdev_large]".
var DividendStdevRule = Rule{
	Name:    "dividend_stdev_large",
	Label:   "Dividend STD is larger than 15%",
	Weight:  0.5,
	Metric:  metrics.RatioDividendStdev,
	Op:      OpGreater,
	Against: metrics.RatioDividendMean,
	Factor:  0.15,
}

// DefaultRuleSet returns the built-in screening table
func DefaultRuleSet() RuleSet {
	return RuleSet{
		PassBase: DefaultPassBase,
		Rules: []Rule{
			{Name: "high_pe", Label: "High P/E", Weight: 0,
				Metric: metrics.RatioPE, Op: OpGreater, Threshold: 15},
			{Name: "cfm_above_pe", Label: "CFM is larger than P/E", Weight: 0,
				Metric: metrics.RatioCashFlowMultiple, Op: OpGreater, Against: metrics.RatioPE, Factor: 1},
			{Name: "cfm_negative", Label: "CFM negative", Weight: 0,
				Metric: metrics.RatioCashFlowMultiple, Op: OpLess, Threshold: 0},
			{Name: "op_to_sales_small", Label: "Operational profit to sales ratio smaller than 10%", Weight: 0,
				Metric: metrics.RatioOpProfitToSales, Op: OpLess, Threshold: 0.10},
			{Name: "np_to_sales_small", Label: "Net profit to sales ratio smaller than 4%", Weight: 0,
				Metric: metrics.RatioNetProfitToSales, Op: OpLess, Threshold: 0.04},
			{Name: "dividend_mean_small", Label: "Average dividend below 3%", Weight: 0.5,
				Metric: metrics.RatioDividendMean, Op: OpLess, Threshold: 3},
			{Name: "return_mean_small", Label: "Average return is less than 10%", Weight: 1,
				Metric: metrics.RatioReturnMean, Op: OpLess, Threshold: 10},
			{Name: "dividend_share_large", Label: "Dividend is more than 50% of return.", Weight: 1,
				Metric: metrics.RatioDividendMean, Op: OpGreater, Against: metrics.RatioReturnMean, Factor: 0.5},
			{Name: "return_12m_small", Label: "12 month return is less than 10%", Weight: 1,
				Metric: metrics.RatioTwelveMonthReturn, Op: OpLess, Threshold: 10},
		},
	}
}

// BuiltinRule returns the built-in rule with the name: every rule of the
// default table plus the optional DividendStdevRule.
func BuiltinRule(name string) (Rule, bool) {
	if name == DividendStdevRule.Name {
		return DividendStdevRule, true
	}
	for _, r := range DefaultRuleSet().Rules {
		if r.Name == name {
			return r, true
		}
	}
	return Rule{}, false
}

// ParseRuleSet decodes and validates a YAML rule table.
// A missing pass_base defaults to DefaultPassBase. Included rules are
// appended after the listed ones; a file with includes but no rules
// extends the default table.
func ParseRuleSet(data []byte) (RuleSet, error) {
	rs := RuleSet{PassBase: DefaultPassBase}
	if err := yaml.UnmarshalStrict(data, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("failed to parse rule set: %w", err)
	}
	if len(rs.Include) > 0 {
		if len(rs.Rules) == 0 {
			rs.Rules = DefaultRuleSet().Rules
		}
		for _, name := range rs.Include {
			r, ok := BuiltinRule(name)
			if !ok {
				return RuleSet{}, fmt.Errorf("invalid rule set: %w %q", ErrUnknownRule, name)
			}
			rs.Rules = append(rs.Rules, r)
		}
		rs.Include = nil
	}
	if err := rs.Validate(); err != nil {
		return RuleSet{}, fmt.Errorf("invalid rule set: %w", err)
	}
	return rs, nil
}

// LoadRuleSet reads a YAML rule table from path.
// An empty path returns the built-in table.
func LoadRuleSet(path string) (RuleSet, error) {
	if path == "" {
		return DefaultRuleSet(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("failed to read rule set: %w", err)
	}
	return ParseRuleSet(data)
}
