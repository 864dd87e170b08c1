package universe

import (
	"errors"
	"fmt"
	"sort"

	"github.com/guyc74/stocks/internal/domain"
)

// ErrImmutableID is returned when a caller tries to change a record's id
var ErrImmutableID = errors.New("security id is immutable")

// Capitalization is how a record knows its market capitalization:
// either an explicitly stored value or a share count recomputed against the price.
type Capitalization interface {
	// Of returns the market capitalization at the given price
	Of(price float64) float64
	isCapitalization()
}

// ExplicitCapitalization is a stored market capitalization
type ExplicitCapitalization float64

// DerivedCapitalization recomputes the capitalization as price × shares
type DerivedCapitalization struct {
	Shares float64
}

func (ExplicitCapitalization) isCapitalization() {}
func (DerivedCapitalization) isCapitalization()  {}

// Of ignores the price; the value was stored as-is
func (c ExplicitCapitalization) Of(float64) float64 { return float64(c) }

// Of multiplies the share count by the price
func (c DerivedCapitalization) Of(price float64) float64 { return price * c.Shares }

// Record holds every stored attribute of one security.
// Missing attributes are simply absent; readers resolve them to defaults.
type Record struct {
	id             domain.SecurityID
	name           *string
	price          *float64
	capitalization Capitalization
	skip           *bool
	facts          map[Key]float64
	extra          map[string]string // unmodelled keys, kept for lossless round-trips
}

// NewRecord creates an empty record for the id
func NewRecord(id domain.SecurityID) *Record {
	return &Record{
		id:    id,
		facts: make(map[Key]float64),
		extra: make(map[string]string),
	}
}

// ID returns the security id
func (r *Record) ID() domain.SecurityID { return r.id }

// Name returns the display name, "" when unset
func (r *Record) Name() string {
	if r.name == nil {
		return ""
	}
	return *r.name
}

// SetName sets the display name
func (r *Record) SetName(name string) *Record {
	r.name = &name
	return r
}

// Price returns the current price, 0 when unset
func (r *Record) Price() float64 {
	if r.price == nil {
		return 0
	}
	return *r.price
}

// SetPrice sets the current price. A derived capitalization follows the new price.
func (r *Record) SetPrice(price float64) *Record {
	r.price = &price
	return r
}

// SetMarketCapital stores an explicit market capitalization, replacing any share count
func (r *Record) SetMarketCapital(capital float64) *Record {
	r.capitalization = ExplicitCapitalization(capital)
	return r
}

// SetShares stores a share count, replacing any explicit capitalization
func (r *Record) SetShares(shares float64) *Record {
	r.capitalization = DerivedCapitalization{Shares: shares}
	return r
}

// SetPriceAndMarketCapital sets the price and derives the share count from the
// capitalization, so the capitalization is recomputed from the price from then on.
// A zero price cannot yield a share count and keeps the capitalization explicit.
func (r *Record) SetPriceAndMarketCapital(price, capital float64) *Record {
	r.SetPrice(price)
	if price == 0 {
		return r.SetMarketCapital(capital)
	}
	return r.SetShares(capital / price)
}

// Capitalization returns the stored capitalization variant, nil when unset
func (r *Record) Capitalization() Capitalization { return r.capitalization }

// MarketCapital returns the market capitalization, 0 when unknown
func (r *Record) MarketCapital() float64 {
	if r.capitalization == nil {
		return 0
	}
	return r.capitalization.Of(r.Price())
}

// Skip reports whether the record is excluded from active processing
func (r *Record) Skip() bool {
	return r.skip != nil && *r.skip
}

// SetSkip sets the skip marker
func (r *Record) SetSkip(skip bool) *Record {
	r.skip = &skip
	return r
}

// SetAnnual upserts an annual fact
func (r *Record) SetAnnual(metric string, year int, value float64) *Record {
	r.facts[AnnualKey(metric, year)] = value
	return r
}

// SetQuarterly upserts a quarterly fact
func (r *Record) SetQuarterly(metric string, year, quarter int, value float64) *Record {
	r.facts[QuarterlyKey(metric, year, quarter)] = value
	return r
}

// Annual returns the annual fact for the metric and year
func (r *Record) Annual(metric string, year int) (float64, bool) {
	v, ok := r.facts[AnnualKey(metric, year)]
	return v, ok
}

// Quarterly returns the quarterly fact for the metric, year and quarter
func (r *Record) Quarterly(metric string, year, quarter int) (float64, bool) {
	v, ok := r.facts[QuarterlyKey(metric, year, quarter)]
	return v, ok
}

// Window returns the most recent count facts of the metric, newest first
// (year descending, then quarter descending). Fewer facts are returned when
// fewer exist and none when the metric has no facts. count <= 0 returns all.
func (r *Record) Window(metric string, count int, period domain.Period) []domain.Fact {
	kind := KindAnnual
	if period == domain.Quarterly {
		kind = KindQuarterly
	}

	var facts []domain.Fact
	for k, v := range r.facts {
		if k.Kind != kind || k.Name != metric {
			continue
		}
		facts = append(facts, domain.Fact{
			Metric:  metric,
			Period:  period,
			Year:    k.Year,
			Quarter: k.Quarter,
			Value:   v,
		})
	}

	sort.Slice(facts, func(i, j int) bool {
		return facts[j].Before(facts[i])
	})

	if count > 0 && len(facts) > count {
		facts = facts[:count]
	}
	return facts
}

// WindowValues is Window reduced to the fact values
func (r *Record) WindowValues(metric string, count int, period domain.Period) []float64 {
	facts := r.Window(metric, count, period)
	values := make([]float64, len(facts))
	for i, f := range facts {
		values[i] = f.Value
	}
	return values
}

// Attribute returns the stored value under the key.
// The id always exists; every other key may be absent.
func (r *Record) Attribute(k Key) (Value, bool) {
	switch {
	case k == KeyID:
		return Number(r.id), true
	case k == KeyName:
		if r.name == nil {
			return nil, false
		}
		return Text(*r.name), true
	case k == KeyPrice:
		if r.price == nil {
			return nil, false
		}
		return Number(*r.price), true
	case k == KeyMarketCapital:
		if c, ok := r.capitalization.(ExplicitCapitalization); ok {
			return Number(c), true
		}
		return nil, false
	case k == KeyNumberOfShares:
		if c, ok := r.capitalization.(DerivedCapitalization); ok {
			return Number(c.Shares), true
		}
		return nil, false
	case k == KeySkip:
		if r.skip == nil {
			return nil, false
		}
		return Flag(*r.skip), true
	case k.IsSeries():
		v, ok := r.facts[k]
		if !ok {
			return nil, false
		}
		return Number(v), true
	}
	return nil, false
}

// Number returns a numeric attribute, 0 when absent or not numeric
func (r *Record) Number(k Key) float64 {
	v, ok := r.Attribute(k)
	if !ok {
		return 0
	}
	if n, ok := v.(Number); ok {
		return float64(n)
	}
	return 0
}

// SetAttribute stores a value under the key, checking the value type the key expects
func (r *Record) SetAttribute(k Key, v Value) error {
	switch {
	case k == KeyID:
		n, ok := v.(Number)
		if !ok || domain.SecurityID(n) != r.id || float64(n) != float64(int64(n)) {
			return fmt.Errorf("%w: record %d cannot take id %v", ErrImmutableID, r.id, v)
		}
		return nil
	case k == KeyName:
		t, ok := v.(Text)
		if !ok {
			return fmt.Errorf("name expects text, got %T", v)
		}
		r.SetName(string(t))
		return nil
	case k == KeySkip:
		f, ok := v.(Flag)
		if !ok {
			return fmt.Errorf("%s expects a flag, got %T", k, v)
		}
		r.SetSkip(bool(f))
		return nil
	}

	n, ok := v.(Number)
	if !ok {
		return fmt.Errorf("%s expects a number, got %T", k, v)
	}

	switch {
	case k == KeyPrice:
		r.SetPrice(float64(n))
	case k == KeyMarketCapital:
		r.SetMarketCapital(float64(n))
	case k == KeyNumberOfShares:
		r.SetShares(float64(n))
	case k.IsSeries():
		r.facts[k] = float64(n)
	default:
		return fmt.Errorf("unsupported attribute key %q", k)
	}
	return nil
}

// SetExtra keeps an attribute this package does not model
func (r *Record) SetExtra(key, raw string) {
	r.extra[key] = raw
}

// Extra returns the unmodelled attributes
func (r *Record) Extra() map[string]string {
	out := make(map[string]string, len(r.extra))
	for k, v := range r.extra {
		out[k] = v
	}
	return out
}

// Keys returns every stored key (the id included), unmodelled keys excluded
func (r *Record) Keys() []Key {
	keys := []Key{KeyID}
	for _, k := range []Key{KeyName, KeyPrice, KeyMarketCapital, KeyNumberOfShares, KeySkip} {
		if _, ok := r.Attribute(k); ok {
			keys = append(keys, k)
		}
	}
	for k := range r.facts {
		keys = append(keys, k)
	}
	return keys
}

// Facts returns every stored fact, oldest first
func (r *Record) Facts() []domain.Fact {
	facts := make([]domain.Fact, 0, len(r.facts))
	for k, v := range r.facts {
		facts = append(facts, domain.Fact{
			Metric:  k.Name,
			Period:  k.Period(),
			Year:    k.Year,
			Quarter: k.Quarter,
			Value:   v,
		})
	}
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Period != facts[j].Period {
			return facts[i].Period < facts[j].Period
		}
		if facts[i].Metric != facts[j].Metric {
			return facts[i].Metric < facts[j].Metric
		}
		return facts[i].Before(facts[j])
	})
	return facts
}
