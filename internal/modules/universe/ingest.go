package universe

import (
	"fmt"
	"strings"

	"github.com/guyc74/stocks/internal/domain"
	"github.com/shopspring/decimal"
)

// Ingestor is the write-only surface external ingesters use to deposit raw facts.
// Every call creates the record when it does not exist yet.
type Ingestor interface {
	SetName(id domain.SecurityID, name string)
	SetPrice(id domain.SecurityID, price float64)
	SetMarketCapital(id domain.SecurityID, capital float64)
	SetPriceAndMarketCapital(id domain.SecurityID, price, capital float64)
	SetAnnual(id domain.SecurityID, metric string, year int, value float64)
	SetQuarterly(id domain.SecurityID, metric string, year, quarter int, value float64)
}

var _ Ingestor = (*Store)(nil)

// SetName implements Ingestor
func (s *Store) SetName(id domain.SecurityID, name string) {
	s.GetOrCreate(id).SetName(name)
}

// SetPrice implements Ingestor
func (s *Store) SetPrice(id domain.SecurityID, price float64) {
	s.GetOrCreate(id).SetPrice(price)
}

// SetMarketCapital implements Ingestor
func (s *Store) SetMarketCapital(id domain.SecurityID, capital float64) {
	s.GetOrCreate(id).SetMarketCapital(capital)
}

// SetPriceAndMarketCapital implements Ingestor
func (s *Store) SetPriceAndMarketCapital(id domain.SecurityID, price, capital float64) {
	s.GetOrCreate(id).SetPriceAndMarketCapital(price, capital)
}

// SetAnnual implements Ingestor
func (s *Store) SetAnnual(id domain.SecurityID, metric string, year int, value float64) {
	s.GetOrCreate(id).SetAnnual(metric, year, value)
}

// SetQuarterly implements Ingestor
func (s *Store) SetQuarterly(id domain.SecurityID, metric string, year, quarter int, value float64) {
	s.GetOrCreate(id).SetQuarterly(metric, year, quarter, value)
}

// ParseAmount converts a number as scraped from a quote page into a float.
// "--" and blank cells mean "not reported" and read as 0; thousands separators are dropped.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" || s == "--" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, ",", "")

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("failed to parse amount %q: %w", raw, err)
	}
	return d.InexactFloat64(), nil
}
