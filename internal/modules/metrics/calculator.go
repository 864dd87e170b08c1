// Package metrics derives the financial ratios of a security from its stored facts.
//
// Every function resolves missing or insufficient data to 0 instead of failing,
// so a full comparison table can be produced even for sparse histories.
package metrics

import (
	"github.com/guyc74/stocks/internal/domain"
	"github.com/guyc74/stocks/pkg/formulas"
	"github.com/rs/zerolog"
)

const (
	// TrailingQuarters is the number of quarters aggregated by the trailing ratios
	TrailingQuarters = 4
	// HistoryYears is the length of the historical window ending the year before the reference year
	HistoryYears = 4
	// ReturnYears is the length of the return window ending at the reference year
	ReturnYears = 5
)

// Source is the read surface of a security record the calculator needs
type Source interface {
	ID() domain.SecurityID
	Price() float64
	MarketCapital() float64
	Annual(metric string, year int) (float64, bool)
	WindowValues(metric string, count int, period domain.Period) []float64
}

// Calculator computes ratios relative to a fixed reference year
type Calculator struct {
	referenceYear int
	log           zerolog.Logger
}

// NewCalculator creates a calculator for the reference year
func NewCalculator(referenceYear int, log zerolog.Logger) *Calculator {
	return &Calculator{
		referenceYear: referenceYear,
		log:           log.With().Str("component", "metrics").Logger(),
	}
}

// ReferenceYear returns the year the windows are anchored to
func (c *Calculator) ReferenceYear() int { return c.referenceYear }

// TrailingEPS sums the last four quarterly EPS facts. With fewer than four
// quarters it falls back to the latest annual EPS, then to 0.
func (c *Calculator) TrailingEPS(src Source) float64 {
	quarters := src.WindowValues(domain.MetricEPS, TrailingQuarters, domain.Quarterly)
	if len(quarters) == TrailingQuarters {
		return formulas.Sum(quarters)
	}

	annual := src.WindowValues(domain.MetricEPS, 1, domain.Annual)
	if len(annual) == 0 {
		c.log.Debug().Int64("id", int64(src.ID())).Msg("No EPS facts")
		return 0
	}
	return annual[0]
}

// PriceToEarnings is (price / 100) / trailing EPS. Prices are quoted in
// hundredths of the currency EPS is reported in.
func (c *Calculator) PriceToEarnings(src Source) float64 {
	eps := c.TrailingEPS(src)
	if eps == 0 {
		return 0
	}
	return (src.Price() / 100) / eps
}

// CashFlowMultiplier is market capitalization over the trailing four quarters
// of cash flow from operations
func (c *Calculator) CashFlowMultiplier(src Source) float64 {
	flows, ok := c.trailing(src, domain.MetricCashFlowFromOperations)
	if !ok || flows == 0 {
		return 0
	}
	return src.MarketCapital() / flows
}

// OperatingProfitToSales is the trailing operational profit over trailing sales
func (c *Calculator) OperatingProfitToSales(src Source) float64 {
	return c.toSales(src, domain.MetricOperationalProfit)
}

// NetProfitToSales is the trailing net profit over trailing sales
func (c *Calculator) NetProfitToSales(src Source) float64 {
	return c.toSales(src, domain.MetricNetProfit)
}

func (c *Calculator) toSales(src Source, numerator string) float64 {
	profit, ok := c.trailing(src, numerator)
	if !ok {
		return 0
	}
	sales, ok := c.trailing(src, domain.MetricSales)
	if !ok || sales == 0 {
		return 0
	}
	return profit / sales
}

// trailing sums the last four quarters of a metric; false when fewer exist
func (c *Calculator) trailing(src Source, metric string) (float64, bool) {
	values := src.WindowValues(metric, TrailingQuarters, domain.Quarterly)
	if len(values) < TrailingQuarters {
		c.log.Debug().
			Int64("id", int64(src.ID())).
			Str("metric", metric).
			Int("quarters", len(values)).
			Msg("Insufficient quarterly facts")
		return 0, false
	}
	return formulas.Sum(values), true
}

// FourYearSeries returns the annual facts of the metric for the four years
// preceding the reference year, oldest first, missing years as 0
func (c *Calculator) FourYearSeries(src Source, metric string) []float64 {
	return c.annualSeries(src, metric, c.referenceYear-HistoryYears, HistoryYears)
}

// FiveYearReturn returns the annual returns of the five years ending at the
// reference year, oldest first, missing years as 0
func (c *Calculator) FiveYearReturn(src Source) []float64 {
	return c.annualSeries(src, domain.MetricReturn, c.referenceYear-ReturnYears+1, ReturnYears)
}

func (c *Calculator) annualSeries(src Source, metric string, from, years int) []float64 {
	series := make([]float64, years)
	for i := range series {
		if v, ok := src.Annual(metric, from+i); ok {
			series[i] = v
		}
	}
	return series
}

// TwelveMonthReturn is the annual return of the reference year, 0 if absent
func (c *Calculator) TwelveMonthReturn(src Source) float64 {
	v, _ := src.Annual(domain.MetricReturn, c.referenceYear)
	return v
}

// DividendMean is the mean dividend over the four-year history window
func (c *Calculator) DividendMean(src Source) float64 {
	return formulas.Mean(c.FourYearSeries(src, domain.MetricDividend))
}

// DividendStdev is the sample standard deviation of the dividend over the four-year history window
func (c *Calculator) DividendStdev(src Source) float64 {
	return formulas.SampleStdDev(c.FourYearSeries(src, domain.MetricDividend))
}

// ReturnMean is the mean of the five-year return series
func (c *Calculator) ReturnMean(src Source) float64 {
	return formulas.Mean(c.FiveYearReturn(src))
}

// Trend fits a line through the series, see formulas.LinearTrend
func (c *Calculator) Trend(series []float64) Trend {
	growth, volatility := formulas.LinearTrend(series)
	return Trend{Growth: growth, Volatility: volatility}
}
