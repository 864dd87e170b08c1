package universe

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a stored attribute value: Number, Text or Flag
type Value interface {
	fmt.Stringer
	isValue()
}

// Number is a numeric attribute value (price, capitalization, facts)
type Number float64

// Text is a textual attribute value (display name)
type Text string

// Flag is a boolean attribute value (skip marker)
type Flag bool

func (Number) isValue() {}
func (Text) isValue()   {}
func (Flag) isValue()   {}

// String formats the number in plain decimal notation, shortest lossless form
func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (t Text) String() string {
	return string(t)
}

// String uses the capitalised spelling of the persisted data file
func (f Flag) String() string {
	if f {
		return "True"
	}
	return "False"
}

// ParseValue converts the persisted text of an attribute into the value type its key expects
func ParseValue(k Key, raw string) (Value, error) {
	switch {
	case k == KeyName:
		return Text(raw), nil
	case k == KeySkip:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid flag %q for %s: %w", raw, k, err)
		}
		return Flag(b), nil
	default:
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return Number(f), nil
		}
		// Hand-edited or scraped values: "1,234.5", "--"
		f, err := ParseAmount(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q for %s: %w", raw, k, err)
		}
		return Number(f), nil
	}
}
