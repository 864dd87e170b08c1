package charts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/guyc74/stocks/internal/domain"
	"github.com/guyc74/stocks/internal/modules/metrics"
	"github.com/rs/zerolog"
)

// Chart names, used as file name prefixes
const (
	ChartDividend          = "dividend"
	ChartReturn            = "return"
	ChartEarnings          = "earnings"
	ChartOperationalProfit = "operational_profit"
)

// Charts lists every chart generated per security, in display order
var Charts = []string{ChartDividend, ChartReturn, ChartEarnings, ChartOperationalProfit}

// IsChart reports whether name is a generated chart
func IsChart(name string) bool {
	for _, c := range Charts {
		if c == name {
			return true
		}
	}
	return false
}

// FileName returns the deterministic file name of a chart
func FileName(chart string, id domain.SecurityID) string {
	return fmt.Sprintf("%s_%d.png", chart, id)
}

// Series returns the values a chart plots
func Series(chart string, ratios metrics.Ratios) []float64 {
	switch chart {
	case ChartDividend:
		return ratios.Dividends
	case ChartReturn:
		return ratios.Returns
	case ChartEarnings:
		return ratios.Earnings
	case ChartOperationalProfit:
		return ratios.OperationalProfit
	}
	return nil
}

// Service writes chart files into a directory
type Service struct {
	dir  string
	calc *metrics.Calculator
	log  zerolog.Logger
}

// NewService creates a new charts service writing into dir
func NewService(dir string, calc *metrics.Calculator, log zerolog.Logger) *Service {
	return &Service{
		dir:  dir,
		calc: calc,
		log:  log.With().Str("service", "charts").Logger(),
	}
}

// Dir returns the output directory
func (s *Service) Dir() string { return s.dir }

// Path returns where the chart of the security is written
func (s *Service) Path(chart string, id domain.SecurityID) string {
	return filepath.Join(s.dir, FileName(chart, id))
}

// Generate writes every chart of the security and returns the file names
func (s *Service) Generate(src metrics.Source) ([]string, error) {
	return s.GenerateFromRatios(src.ID(), s.calc.Ratios(src))
}

// GenerateFromRatios writes every chart from precomputed ratios
func (s *Service) GenerateFromRatios(id domain.SecurityID, ratios metrics.Ratios) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create chart directory: %w", err)
	}

	names := make([]string, 0, len(Charts))
	for _, chart := range Charts {
		if err := s.write(s.Path(chart, id), Series(chart, ratios)); err != nil {
			return names, fmt.Errorf("failed to write %s chart of %d: %w", chart, id, err)
		}
		names = append(names, FileName(chart, id))
	}

	s.log.Debug().Int64("id", int64(id)).Int("charts", len(names)).Msg("Generated charts")
	return names, nil
}

func (s *Service) write(path string, values []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteBars(f, values); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
