package universe

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/guyc74/stocks/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec() *Codec {
	return NewCodec(zerolog.New(nil).Level(zerolog.Disabled))
}

func attributeSet(r *Record) map[string]string {
	out := r.Extra()
	for _, k := range r.Keys() {
		v, _ := r.Attribute(k)
		out[k.String()] = v.String()
	}
	return out
}

func TestCodec_EncodeRecord(t *testing.T) {
	r := NewRecord(1082379).SetName("Acme").SetPriceAndMarketCapital(200, 5000)
	r.SetAnnual(domain.MetricDividend, 2018, 4.5)
	r.SetQuarterly(domain.MetricSales, 2019, 1, -3)

	var buf bytes.Buffer
	require.NoError(t, newTestCodec().EncodeRecord(&buf, r))

	expected := strings.Join([]string{
		"stock data:",
		"  A dividend 2018 = 4.5",
		"  Q sales 2019 1 = -3",
		"  id = 1082379",
		"  name = Acme",
		"  number_of_shares = 25",
		"  price = 200",
		"",
	}, "\n")
	assert.Equal(t, expected, buf.String())
}

func TestCodec_RoundTrip(t *testing.T) {
	store := NewStore()

	full := store.GetOrCreate(1).SetName("Full = Name").SetPriceAndMarketCapital(150.5, 1e9).SetSkip(false)
	full.SetAnnual(domain.MetricReturn, 2019, -12.25)
	full.SetAnnual(domain.MetricEPS, 2018, 0)
	full.SetQuarterly(domain.MetricCashFlowFromOperations, 2019, 2, -0.001)
	full.SetExtra("sector", "banks")

	store.GetOrCreate(2).SetMarketCapital(0).SetSkip(true).SetName("")
	store.GetOrCreate(3)
	store.GetOrCreate(4).SetName("Trailing ")
	store.GetOrCreate(5).SetName("  Leading")
	store.SetAnnual(6, "net profit", 2019, 5)
	store.SetQuarterly(6, "free cash flow", 2019, 3, -2)

	codec := newTestCodec()
	var buf bytes.Buffer
	require.NoError(t, codec.Encode(&buf, store))

	decoded, err := codec.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, store.IDs(), decoded.IDs())

	for _, original := range store.All() {
		restored, err := decoded.Get(original.ID())
		require.NoError(t, err)
		assert.Equal(t, attributeSet(original), attributeSet(restored), "security %d", original.ID())
	}

	restored, _ := decoded.Get(1)
	assert.InDelta(t, 1e9, restored.MarketCapital(), 1e-3)
	assert.Equal(t, "Full = Name", restored.Name())

	empty, _ := decoded.Get(2)
	_, hasName := empty.Attribute(KeyName)
	assert.True(t, hasName, "an empty name is still a stored name")

	trailing, _ := decoded.Get(4)
	assert.Equal(t, "Trailing ", trailing.Name())
	leading, _ := decoded.Get(5)
	assert.Equal(t, "  Leading", leading.Name())

	spaced, _ := decoded.Get(6)
	netProfit, ok := spaced.Annual("net profit", 2019)
	assert.True(t, ok)
	assert.Equal(t, 5.0, netProfit)
	fcf, ok := spaced.Quarterly("free cash flow", 2019, 3)
	assert.True(t, ok)
	assert.Equal(t, -2.0, fcf)
	assert.Empty(t, spaced.Extra())
}

func TestCodec_DecodeBareSeparator(t *testing.T) {
	input := "stock data: \r\n  id = 7 \r\n  name =\r\n  price = 1,250.5\r\n"
	store, err := newTestCodec().Decode(strings.NewReader(input))
	require.NoError(t, err)

	rec, err := store.Get(7)
	require.NoError(t, err)
	name, ok := rec.Attribute(KeyName)
	require.True(t, ok)
	assert.Equal(t, Text(""), name)
	assert.Equal(t, 1250.5, rec.Price())
}

func TestCodec_DecodeDataFile(t *testing.T) {
	input := `stock data:
  +skip = True
  A return 2019 = 12.0
  id = 100
  name = First
  price = 1520.0
stock data:
  Q EPS 2019 1 = 0.25
  id = 200
  market_capital = 3000000.0
`
	store, err := newTestCodec().Decode(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())

	first, err := store.Get(100)
	require.NoError(t, err)
	assert.True(t, first.Skip())
	assert.Equal(t, 1520.0, first.Price())
	ret, ok := first.Annual(domain.MetricReturn, 2019)
	assert.True(t, ok)
	assert.Equal(t, 12.0, ret)

	second, err := store.Get(200)
	require.NoError(t, err)
	assert.Equal(t, 3000000.0, second.MarketCapital())
	assert.Equal(t, []float64{0.25}, second.WindowValues(domain.MetricEPS, 4, domain.Quarterly))
}

func TestCodec_DecodeSkipsMalformed(t *testing.T) {
	input := `stock data:
  id = 1
  this line has no separator
  price = not-a-number
  A sales 2019 = 10
stock data:
  name = orphan block without id
stock data:
  id = abc
stock data:
  id = 2
  name = Second
`
	store, err := newTestCodec().Decode(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, []domain.SecurityID{1, 2}, store.IDs())

	first, _ := store.Get(1)
	assert.Equal(t, 0.0, first.Price())
	sales, ok := first.Annual(domain.MetricSales, 2019)
	assert.True(t, ok)
	assert.Equal(t, 10.0, sales)
}

func TestCodec_DecodeRecord(t *testing.T) {
	codec := newTestCodec()

	r, err := codec.DecodeRecord("  id = 9\n  name = X\n")
	require.NoError(t, err)
	assert.Equal(t, domain.SecurityID(9), r.ID())

	_, err = codec.DecodeRecord("  name = X\n")
	assert.Error(t, err)
}

func TestCodec_Files(t *testing.T) {
	codec := newTestCodec()
	path := filepath.Join(t.TempDir(), "data", "stock_data.txt")

	_, err := codec.ReadFile(path)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	store := NewStore()
	store.GetOrCreate(5).SetName("Five").SetPrice(10)
	require.NoError(t, codec.WriteFile(path, store))

	loaded, err := codec.ReadFile(path)
	require.NoError(t, err)
	rec, err := loaded.Get(5)
	require.NoError(t, err)
	assert.Equal(t, "Five", rec.Name())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temporary file is cleaned up")
}
