package metrics

import (
	"sort"

	"github.com/guyc74/stocks/internal/domain"
)

// Names under which ratios are addressed by rules
const (
	RatioPE                = "pe"
	RatioCashFlowMultiple  = "cfm"
	RatioOpProfitToSales   = "op_to_sales"
	RatioNetProfitToSales  = "np_to_sales"
	RatioDividendMean      = "dividend_mean"
	RatioDividendStdev     = "dividend_stdev"
	RatioReturnMean        = "return_mean"
	RatioTwelveMonthReturn = "return_12m"
	RatioTrailingEPS       = "trailing_eps"
	RatioEarningsGrowth    = "earnings_growth"
	RatioOpProfitGrowth    = "op_profit_growth"
)

// Trend is a normalised linear fit: slope and residual spread over the series mean
type Trend struct {
	Growth     float64 `json:"growth" msgpack:"growth"`
	Volatility float64 `json:"volatility" msgpack:"volatility"`
}

// Ratios is the full set of derived values of one security
type Ratios struct {
	TrailingEPS            float64   `json:"trailing_eps" msgpack:"trailing_eps"`
	PE                     float64   `json:"pe" msgpack:"pe"`
	CashFlowMultiplier     float64   `json:"cfm" msgpack:"cfm"`
	OpProfitToSales        float64   `json:"op_to_sales" msgpack:"op_to_sales"`
	NetProfitToSales       float64   `json:"np_to_sales" msgpack:"np_to_sales"`
	DividendMean           float64   `json:"dividend_mean" msgpack:"dividend_mean"`
	DividendStdev          float64   `json:"dividend_stdev" msgpack:"dividend_stdev"`
	ReturnMean             float64   `json:"return_mean" msgpack:"return_mean"`
	TwelveMonthReturn      float64   `json:"return_12m" msgpack:"return_12m"`
	Dividends              []float64 `json:"dividends" msgpack:"dividends"`
	Returns                []float64 `json:"returns" msgpack:"returns"`
	Earnings               []float64 `json:"earnings" msgpack:"earnings"`
	OperationalProfit      []float64 `json:"operational_profit" msgpack:"operational_profit"`
	EarningsTrend          Trend     `json:"earnings_trend" msgpack:"earnings_trend"`
	OperationalProfitTrend Trend     `json:"operational_profit_trend" msgpack:"operational_profit_trend"`
}

// Ratios computes every derived value of the source
func (c *Calculator) Ratios(src Source) Ratios {
	r := Ratios{
		TrailingEPS:        c.TrailingEPS(src),
		PE:                 c.PriceToEarnings(src),
		CashFlowMultiplier: c.CashFlowMultiplier(src),
		OpProfitToSales:    c.OperatingProfitToSales(src),
		NetProfitToSales:   c.NetProfitToSales(src),
		DividendMean:       c.DividendMean(src),
		DividendStdev:      c.DividendStdev(src),
		ReturnMean:         c.ReturnMean(src),
		TwelveMonthReturn:  c.TwelveMonthReturn(src),
		Dividends:          c.FourYearSeries(src, domain.MetricDividend),
		Returns:            c.FiveYearReturn(src),
		Earnings:           c.FourYearSeries(src, domain.MetricEarnings),
		OperationalProfit:  c.FourYearSeries(src, domain.MetricOperationalProfit),
	}
	r.EarningsTrend = c.Trend(r.Earnings)
	r.OperationalProfitTrend = c.Trend(r.OperationalProfit)
	return r
}

// Value looks a ratio up by name. The second return value is false for unknown names.
func (r Ratios) Value(name string) (float64, bool) {
	switch name {
	case RatioPE:
		return r.PE, true
	case RatioCashFlowMultiple:
		return r.CashFlowMultiplier, true
	case RatioOpProfitToSales:
		return r.OpProfitToSales, true
	case RatioNetProfitToSales:
		return r.NetProfitToSales, true
	case RatioDividendMean:
		return r.DividendMean, true
	case RatioDividendStdev:
		return r.DividendStdev, true
	case RatioReturnMean:
		return r.ReturnMean, true
	case RatioTwelveMonthReturn:
		return r.TwelveMonthReturn, true
	case RatioTrailingEPS:
		return r.TrailingEPS, true
	case RatioEarningsGrowth:
		return r.EarningsTrend.Growth, true
	case RatioOpProfitGrowth:
		return r.OperationalProfitTrend.Growth, true
	}
	return 0, false
}

var ratioNames = []string{
	RatioPE, RatioCashFlowMultiple, RatioOpProfitToSales, RatioNetProfitToSales,
	RatioDividendMean, RatioDividendStdev, RatioReturnMean, RatioTwelveMonthReturn,
	RatioTrailingEPS, RatioEarningsGrowth, RatioOpProfitGrowth,
}

// IsRatio reports whether name addresses a ratio
func IsRatio(name string) bool {
	_, ok := Ratios{}.Value(name)
	return ok
}

// RatioNames returns every addressable ratio name, sorted
func RatioNames() []string {
	names := append([]string(nil), ratioNames...)
	sort.Strings(names)
	return names
}
