package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/guyc74/stocks/internal/domain"
	"github.com/guyc74/stocks/internal/modules/universe"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSecurities struct {
	store   *universe.Store
	loadErr error
}

func (f *fakeSecurities) LoadAll() (*universe.Store, error) {
	return f.store, f.loadErr
}

func (f *fakeSecurities) SetSkip(id domain.SecurityID, skip bool) error {
	return f.store.SetSkip(id, skip)
}

func setupRouter(securities *fakeSecurities) *chi.Mux {
	handler := NewUniverseHandlers(securities, zerolog.New(nil).Level(zerolog.Disabled))
	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func testStore() *universe.Store {
	store := universe.NewStore()
	store.GetOrCreate(5).SetName("Five").SetPrice(10).SetShares(100)
	store.GetOrCreate(5).SetAnnual(domain.MetricDividend, 2018, 1.5)
	store.GetOrCreate(5).SetExtra("sector", "retail")
	store.GetOrCreate(6).SetName("Six").SetSkip(true)
	return store
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	var body struct {
		Data     json.RawMessage        `json:"data"`
		Metadata map[string]interface{} `json:"metadata"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Contains(t, body.Metadata, "timestamp")
	require.NoError(t, json.Unmarshal(body.Data, out))
}

func TestHandleGetSecurities(t *testing.T) {
	r := setupRouter(&fakeSecurities{store: testStore()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/universe", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var summaries []SecuritySummary
	decodeData(t, rec, &summaries)
	require.Len(t, summaries, 2)
	assert.Equal(t, domain.SecurityID(5), summaries[0].SecurityID)
	assert.Equal(t, 1000.0, summaries[0].MarketCapital)
	assert.Equal(t, 1, summaries[0].Facts)
	assert.True(t, summaries[1].Skip, "skipped securities are listed")
}

func TestHandleGetSecurities_LoadError(t *testing.T) {
	r := setupRouter(&fakeSecurities{loadErr: errors.New("disk")})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/universe", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestHandleGetSecurity(t *testing.T) {
	r := setupRouter(&fakeSecurities{store: testStore()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/universe/5", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var detail SecurityDetail
	decodeData(t, rec, &detail)
	assert.Equal(t, "Five", detail.Name)
	assert.Equal(t, "5", detail.Attributes["id"])
	assert.Equal(t, "100", detail.Attributes["number_of_shares"])
	assert.Equal(t, "1.5", detail.Attributes["A "+domain.MetricDividend+" 2018"])
	assert.Equal(t, "retail", detail.Attributes["sector"])
	assert.NotContains(t, detail.Attributes, "market_capital")
}

func TestHandleGetSecurity_Errors(t *testing.T) {
	r := setupRouter(&fakeSecurities{store: testStore()})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/universe/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/universe/99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleSetSkip(t *testing.T) {
	securities := &fakeSecurities{store: testStore()}
	r := setupRouter(securities)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/universe/5/skip", strings.NewReader(`{"skip": true}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := securities.store.Get(5)
	require.NoError(t, err)
	assert.True(t, stored.Skip())

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/universe/6/skip", strings.NewReader(`{"skip": false}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err = securities.store.Get(6)
	require.NoError(t, err)
	assert.False(t, stored.Skip())
}

func TestHandleSetSkip_Errors(t *testing.T) {
	r := setupRouter(&fakeSecurities{store: testStore()})

	tests := []struct {
		name string
		path string
		body string
		want int
	}{
		{"bad id", "/universe/x/skip", `{"skip": true}`, http.StatusBadRequest},
		{"missing field", "/universe/5/skip", `{}`, http.StatusBadRequest},
		{"bad json", "/universe/5/skip", `{`, http.StatusBadRequest},
		{"unknown security", "/universe/99/skip", `{"skip": true}`, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPut, tt.path, strings.NewReader(tt.body)))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
