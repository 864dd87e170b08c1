// Package report assembles the ranked comparison table of the universe.
// Rows are plain data; rendering them is left to the caller.
package report

import (
	"fmt"
	"sync"

	"github.com/guyc74/stocks/internal/domain"
	"github.com/guyc74/stocks/internal/modules/charts"
	"github.com/guyc74/stocks/internal/modules/metrics"
	"github.com/guyc74/stocks/internal/modules/scoring"
	"github.com/guyc74/stocks/internal/modules/universe"
	"github.com/rs/zerolog"
)

// Row is one line of the comparison table
type Row struct {
	Rank                   int               `json:"rank"`
	SecurityID             domain.SecurityID `json:"security_id"`
	Name                   string            `json:"name"`
	Score                  float64           `json:"score"`
	FailedRules            []string          `json:"failed_rules"`
	MarketCapital          float64           `json:"market_capital"`
	Price                  float64           `json:"price"`
	PE                     float64           `json:"pe"`
	CashFlowMultiplier     float64           `json:"cfm"`
	OpProfitToSales        float64           `json:"op_to_sales"`
	NetProfitToSales       float64           `json:"np_to_sales"`
	DividendMean           float64           `json:"dividend_mean"`
	DividendStdev          float64           `json:"dividend_stdev"`
	ReturnMean             float64           `json:"return_mean"`
	TwelveMonthReturn      float64           `json:"return_12m"`
	EarningsTrend          metrics.Trend     `json:"earnings_trend"`
	OperationalProfitTrend metrics.Trend     `json:"operational_profit_trend"`
	Charts                 map[string]string `json:"charts"`
}

// Report is a ranking run together with its table
type Report struct {
	Run  scoring.Run `json:"run"`
	Rows []Row       `json:"rows"`
}

// Builder scores the universe and assembles report rows
type Builder struct {
	scorer *scoring.Scorer
	charts *charts.Service
	log    zerolog.Logger
}

// NewBuilder creates a report builder
func NewBuilder(scorer *scoring.Scorer, chartService *charts.Service, log zerolog.Logger) *Builder {
	return &Builder{
		scorer: scorer,
		charts: chartService,
		log:    log.With().Str("service", "report").Logger(),
	}
}

// Score evaluates every active security and ranks the results
func (b *Builder) Score(store *universe.Store) []scoring.Result {
	active := store.Active()
	results := make([]scoring.Result, len(active))
	for i, rec := range active {
		results[i] = b.scorer.Score(rec)
	}
	return scoring.Rank(results)
}

// Build ranks the active securities of the store into rows
func (b *Builder) Build(store *universe.Store) []Row {
	return Rows(store, b.Score(store))
}

// Run ranks the universe and renders every chart.
// Chart failures are logged and do not abort the run.
func (b *Builder) Run(store *universe.Store) (*Report, error) {
	results := b.Score(store)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		failures int
	)
	for _, res := range results {
		wg.Add(1)
		go func(res scoring.Result) {
			defer wg.Done()
			if _, err := b.charts.GenerateFromRatios(res.SecurityID, res.Ratios); err != nil {
				b.log.Error().Err(err).Int64("id", int64(res.SecurityID)).Msg("Failed to generate charts")
				mu.Lock()
				failures++
				mu.Unlock()
			}
		}(res)
	}
	wg.Wait()

	if len(results) > 0 && failures == len(results) {
		return nil, fmt.Errorf("failed to generate charts for all %d securities", failures)
	}

	run := scoring.NewRun(b.scorer.Calculator().ReferenceYear(), results)
	b.log.Info().
		Str("run_id", run.ID).
		Int("securities", len(results)).
		Int("chart_failures", failures).
		Msg("Report run complete")

	return &Report{Run: run, Rows: Rows(store, results)}, nil
}

// Rows turns ranked results into table rows, taking names and prices from
// the store. Results for securities missing from the store keep empty names.
func Rows(store *universe.Store, results []scoring.Result) []Row {
	rows := make([]Row, len(results))
	for i, res := range results {
		row := Row{
			Rank:                   i + 1,
			SecurityID:             res.SecurityID,
			Score:                  res.Score,
			FailedRules:            res.FailedLabels(),
			PE:                     res.PE,
			CashFlowMultiplier:     res.Ratios.CashFlowMultiplier,
			OpProfitToSales:        res.Ratios.OpProfitToSales,
			NetProfitToSales:       res.Ratios.NetProfitToSales,
			DividendMean:           res.Ratios.DividendMean,
			DividendStdev:          res.Ratios.DividendStdev,
			ReturnMean:             res.Ratios.ReturnMean,
			TwelveMonthReturn:      res.Ratios.TwelveMonthReturn,
			EarningsTrend:          res.Ratios.EarningsTrend,
			OperationalProfitTrend: res.Ratios.OperationalProfitTrend,
			Charts:                 make(map[string]string, len(charts.Charts)),
		}
		if rec, err := store.Get(res.SecurityID); err == nil {
			row.Name = rec.Name()
			row.Price = rec.Price()
			row.MarketCapital = rec.MarketCapital()
		}
		for _, chart := range charts.Charts {
			row.Charts[chart] = charts.FileName(chart, res.SecurityID)
		}
		rows[i] = row
	}
	return rows
}

// Find returns the row of the security
func Find(rows []Row, id domain.SecurityID) (Row, bool) {
	for _, row := range rows {
		if row.SecurityID == id {
			return row, true
		}
	}
	return Row{}, false
}
