package universe

import (
	"database/sql"
	"testing"

	"github.com/guyc74/stocks/internal/database"
	"github.com/guyc74/stocks/internal/domain"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestUniverseDB creates an in-memory SQLite database with the universe schema
func setupTestUniverseDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	// One connection, otherwise every connection sees its own in-memory database
	db.SetMaxOpenConns(1)

	schema, err := database.Schema("universe")
	require.NoError(t, err)
	_, err = db.Exec(schema)
	require.NoError(t, err)

	t.Cleanup(func() { db.Close() })
	return db
}

func TestSecurityRepository_SaveAndLoad(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewSecurityRepository(setupTestUniverseDB(t), log)

	store := NewStore()
	a := store.GetOrCreate(1).SetName("Alpha").SetPriceAndMarketCapital(100, 2000)
	a.SetAnnual(domain.MetricDividend, 2018, 3.5)
	a.SetQuarterly(domain.MetricSales, 2019, 4, -2)
	a.SetExtra("sector", "tech")
	store.GetOrCreate(2).SetMarketCapital(900).SetSkip(true)
	store.GetOrCreate(3)

	require.NoError(t, repo.SaveAll(store))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	assert.Equal(t, []domain.SecurityID{1, 2, 3}, loaded.IDs())

	alpha, err := loaded.Get(1)
	require.NoError(t, err)
	assert.Equal(t, "Alpha", alpha.Name())
	assert.Equal(t, DerivedCapitalization{Shares: 20}, alpha.Capitalization())
	assert.Equal(t, 2000.0, alpha.MarketCapital())
	assert.Equal(t, []float64{-2}, alpha.WindowValues(domain.MetricSales, 4, domain.Quarterly))
	assert.Equal(t, map[string]string{"sector": "tech"}, alpha.Extra())
	_, hasSkip := alpha.Attribute(KeySkip)
	assert.False(t, hasSkip)

	beta, _ := loaded.Get(2)
	assert.True(t, beta.Skip())
	assert.Equal(t, ExplicitCapitalization(900), beta.Capitalization())

	empty, _ := loaded.Get(3)
	assert.Empty(t, empty.Facts())
	assert.Nil(t, empty.Capitalization())
}

func TestSecurityRepository_SaveReplacesFacts(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewSecurityRepository(setupTestUniverseDB(t), log)

	rec := NewRecord(1)
	rec.SetAnnual(domain.MetricEPS, 2017, 1)
	require.NoError(t, repo.Save(rec))

	replacement := NewRecord(1).SetPrice(5)
	replacement.SetAnnual(domain.MetricEPS, 2018, 2)
	require.NoError(t, repo.Save(replacement))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	got, _ := loaded.Get(1)
	assert.Equal(t, []float64{2}, got.WindowValues(domain.MetricEPS, 0, domain.Annual))
	assert.Equal(t, 5.0, got.Price())
}

func TestSecurityRepository_SetSkip(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	repo := NewSecurityRepository(setupTestUniverseDB(t), log)

	require.NoError(t, repo.Save(NewRecord(8)))
	require.NoError(t, repo.SetSkip(8, true))

	loaded, err := repo.LoadAll()
	require.NoError(t, err)
	rec, _ := loaded.Get(8)
	assert.True(t, rec.Skip())

	assert.ErrorIs(t, repo.SetSkip(9, true), ErrNotFound)
}
