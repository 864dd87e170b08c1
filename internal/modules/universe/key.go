package universe

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/guyc74/stocks/internal/domain"
)

// KeyKind tags what sort of attribute a Key addresses
type KeyKind int

const (
	// KindIdentity covers the id and the display name
	KindIdentity KeyKind = iota
	// KindScalar covers flat numeric/boolean attributes (price, capitalization, skip)
	KindScalar
	// KindAnnual addresses an annual fact (metric, year)
	KindAnnual
	// KindQuarterly addresses a quarterly fact (metric, year, quarter)
	KindQuarterly
)

// Key addresses one stored attribute of a Record.
// For identity and scalar keys Name is the attribute name; for series keys it is the metric.
type Key struct {
	Kind    KeyKind
	Name    string
	Year    int
	Quarter int
}

// Flat attribute keys. Their String() form is the persisted key.
var (
	KeyID             = Key{Kind: KindIdentity, Name: "id"}
	KeyName           = Key{Kind: KindIdentity, Name: "name"}
	KeyPrice          = Key{Kind: KindScalar, Name: "price"}
	KeyMarketCapital  = Key{Kind: KindScalar, Name: "market_capital"}
	KeyNumberOfShares = Key{Kind: KindScalar, Name: "number_of_shares"}
	KeySkip           = Key{Kind: KindScalar, Name: "+skip"}
)

var flatKeys = map[string]Key{
	KeyID.Name:             KeyID,
	KeyName.Name:           KeyName,
	KeyPrice.Name:          KeyPrice,
	KeyMarketCapital.Name:  KeyMarketCapital,
	KeyNumberOfShares.Name: KeyNumberOfShares,
	KeySkip.Name:           KeySkip,
}

// AnnualKey builds the key of an annual fact
func AnnualKey(metric string, year int) Key {
	return Key{Kind: KindAnnual, Name: metric, Year: year}
}

// QuarterlyKey builds the key of a quarterly fact
func QuarterlyKey(metric string, year, quarter int) Key {
	return Key{Kind: KindQuarterly, Name: metric, Year: year, Quarter: quarter}
}

// IsSeries reports whether the key addresses a time-series fact
func (k Key) IsSeries() bool {
	return k.Kind == KindAnnual || k.Kind == KindQuarterly
}

// Period returns the fact period of a series key
func (k Key) Period() domain.Period {
	if k.Kind == KindQuarterly {
		return domain.Quarterly
	}
	return domain.Annual
}

// String returns the persisted form of the key:
// "price", "A <metric> <year>", "Q <metric> <year> <quarter>"
func (k Key) String() string {
	switch k.Kind {
	case KindAnnual:
		return fmt.Sprintf("A %s %d", k.Name, k.Year)
	case KindQuarterly:
		return fmt.Sprintf("Q %s %d %d", k.Name, k.Year, k.Quarter)
	default:
		return k.Name
	}
}

// ParseKey parses the persisted form of a key.
// The second return value is false for keys this package does not model;
// callers keep those verbatim.
func ParseKey(s string) (Key, bool) {
	if k, ok := flatKeys[s]; ok {
		return k, true
	}

	switch {
	case strings.HasPrefix(s, "A "):
		metric, year, ok := cutLastField(s[2:])
		if !ok {
			return Key{}, false
		}
		y, err := strconv.Atoi(year)
		if err != nil {
			return Key{}, false
		}
		return AnnualKey(metric, y), true
	case strings.HasPrefix(s, "Q "):
		rest, quarter, ok := cutLastField(s[2:])
		if !ok {
			return Key{}, false
		}
		metric, year, ok := cutLastField(rest)
		if !ok {
			return Key{}, false
		}
		y, err := strconv.Atoi(year)
		if err != nil {
			return Key{}, false
		}
		q, err := strconv.Atoi(quarter)
		if err != nil {
			return Key{}, false
		}
		return QuarterlyKey(metric, y, q), true
	}

	return Key{}, false
}

// cutLastField splits s at its last space. Metric names may themselves
// contain spaces; the year and quarter never do.
func cutLastField(s string) (head, last string, ok bool) {
	i := strings.LastIndexByte(s, ' ')
	if i <= 0 || i == len(s)-1 {
		return "", "", false
	}
	return s[:i], s[i+1:], true
}
