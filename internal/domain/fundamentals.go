// Package domain provides the core value types shared by the screening engine.
package domain

import "fmt"

// SecurityID identifies a tradable security (the exchange's numeric paper id)
type SecurityID int64

// Metric names of the time-indexed fundamentals.
// The strings are part of the persisted key format and must not change.
const (
	MetricEPS                    = "EPS"
	MetricCashFlowFromOperations = "cash_flow_from_operations"
	MetricDividend               = "dividend"
	MetricEarnings               = "earnings"
	MetricOperationalProfit      = "operational_profit"
	MetricReturn                 = "return"
	MetricSales                  = "sales"
	MetricNetProfit              = "net_profit"
)

// Metrics lists every known fundamental metric
var Metrics = []string{
	MetricEPS,
	MetricCashFlowFromOperations,
	MetricDividend,
	MetricEarnings,
	MetricOperationalProfit,
	MetricReturn,
	MetricSales,
	MetricNetProfit,
}

// Period distinguishes annual from quarterly facts
type Period int

const (
	// Annual facts are keyed by (metric, year)
	Annual Period = iota
	// Quarterly facts are keyed by (metric, year, quarter)
	Quarterly
)

// String returns the persisted prefix of the period
func (p Period) String() string {
	if p == Quarterly {
		return "Q"
	}
	return "A"
}

// Fact is a single time-indexed fundamental value
type Fact struct {
	Metric  string  `json:"metric"`
	Period  Period  `json:"period"`
	Year    int     `json:"year"`
	Quarter int     `json:"quarter,omitempty"` // 0 for annual facts
	Value   float64 `json:"value"`
}

// Before reports whether f is chronologically older than other
func (f Fact) Before(other Fact) bool {
	if f.Year != other.Year {
		return f.Year < other.Year
	}
	return f.Quarter < other.Quarter
}

// String renders the fact for log output
func (f Fact) String() string {
	if f.Period == Quarterly {
		return fmt.Sprintf("%s %d Q%d = %g", f.Metric, f.Year, f.Quarter, f.Value)
	}
	return fmt.Sprintf("%s %d = %g", f.Metric, f.Year, f.Value)
}
