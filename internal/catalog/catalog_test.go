package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"loan-advisor-workers/internal/common/config"
	"loan-advisor-workers/internal/common/database"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/loan"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

var testOffers = []loan.BankOffer{
	{Bank: "Alpha Bank", LoanType: loan.LoanTypeHome, InterestRate: 8.5, MaxAmount: 5000000, MaxTenureMonths: 240},
	{Bank: "Beta Bank", LoanType: loan.LoanTypeHome, InterestRate: 8.75},
	{Bank: "Gamma Bank", LoanType: loan.LoanTypeCar, InterestRate: 9.1},
}

func writeOffersFile(t *testing.T) string {
	t.Helper()
	data, err := json.Marshal(testOffers)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "bank_offers.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

type countingSource struct {
	offers []loan.BankOffer
	err    error
	calls  int
}

func (c *countingSource) Offers(context.Context, loan.LoanType) ([]loan.BankOffer, error) {
	c.calls++
	return c.offers, c.err
}

type fakeSearcher struct {
	index string
	query map[string]interface{}
	hits  []json.RawMessage
	err   error
}

func (f *fakeSearcher) Search(_ context.Context, index string, query map[string]interface{}) ([]json.RawMessage, error) {
	f.index = index
	f.query = query
	return f.hits, f.err
}

// ==========================
// Sources
// ==========================

func TestFileSource_Offers(t *testing.T) {
	src := FileSource{Path: writeOffersFile(t)}

	offers, err := src.Offers(context.Background(), loan.LoanTypeHome)
	require.NoError(t, err)
	require.Len(t, offers, 2)
	assert.Equal(t, "Alpha Bank", offers[0].Bank)

	offers, err = src.Offers(context.Background(), loan.LoanTypeEducation)
	require.NoError(t, err)
	assert.Empty(t, offers)

	_, err = FileSource{Path: "/does/not/exist.json"}.Offers(context.Background(), loan.LoanTypeHome)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

func TestFileSource_ShippedCatalog(t *testing.T) {
	src := FileSource{Path: filepath.Join("..", "..", "configs", "bank_offers.json")}

	for _, lt := range loan.LoanTypes {
		offers, err := src.Offers(context.Background(), lt)
		require.NoError(t, err)
		assert.NotEmpty(t, offers, "no offers for %s", lt)
	}
}

func TestElasticSource_Offers(t *testing.T) {
	fake := &fakeSearcher{hits: []json.RawMessage{
		json.RawMessage(`{"bank":"Alpha Bank","loanType":"Car","interestRate":8.9}`),
	}}
	src := &ElasticSource{es: fake, index: "bank_offers"}

	offers, err := src.Offers(context.Background(), loan.LoanTypeCar)

	require.NoError(t, err)
	require.Len(t, offers, 1)
	assert.Equal(t, 8.9, offers[0].InterestRate)
	assert.Equal(t, "bank_offers", fake.index)
	term := fake.query["query"].(map[string]interface{})["term"].(map[string]interface{})
	assert.Equal(t, "Car", term["loanType"])

	fake.err = errors.New("index_not_found_exception")
	_, err = src.Offers(context.Background(), loan.LoanTypeCar)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
}

// ==========================
// Cache
// ==========================

func TestHTTPSource_Offers(t *testing.T) {
	var gotLoanType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLoanType = r.URL.Query().Get("loanType")
		// The feed ignores the filter and returns everything.
		json.NewEncoder(w).Encode(testOffers)
	}))
	defer server.Close()

	src, err := NewSource(config.CatalogConfig{Source: config.CatalogSourceHTTP, URL: server.URL + "/rates?region=IN", Timeout: 2000}, nil, nil, logger.NewNoOpLogger())
	require.NoError(t, err)

	offers, err := src.Offers(context.Background(), loan.LoanTypeHome)

	require.NoError(t, err)
	assert.Equal(t, "Home", gotLoanType)
	require.Len(t, offers, 2)
	assert.Equal(t, "Alpha Bank", offers[0].Bank)
}

func TestHTTPSource_FeedDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	src, err := NewSource(config.CatalogConfig{Source: config.CatalogSourceHTTP, URL: server.URL, Timeout: 2000}, nil, nil, logger.NewNoOpLogger())
	require.NoError(t, err)

	_, err = src.Offers(context.Background(), loan.LoanTypeCar)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.ErrorContains(t, err, "503")
}

func TestCachedSource_MissThenHit(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := database.NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	next := &countingSource{offers: testOffers[:2]}
	src := NewCachedSource(next, rdb, 5*time.Minute, logger.NewTestLogger(t))

	first, err := src.Offers(context.Background(), loan.LoanTypeHome)
	require.NoError(t, err)
	second, err := src.Offers(context.Background(), loan.LoanTypeHome)
	require.NoError(t, err)

	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("catalog:offers:Home"))
	assert.Equal(t, 5*time.Minute, mr.TTL("catalog:offers:Home"))
}

func TestCachedSource_RedisDown(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("catalog:offers:Car").SetErr(errors.New("connection refused"))

	next := &countingSource{offers: testOffers[2:]}
	src := NewCachedSource(next, database.NewRedisFromClient(rdb), time.Minute, logger.NewTestLogger(t))

	offers, err := src.Offers(context.Background(), loan.LoanTypeCar)

	require.NoError(t, err)
	assert.Len(t, offers, 1)
	assert.Equal(t, 1, next.calls)
}

func TestCachedSource_UnderlyingError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet("catalog:offers:Home").RedisNil()

	next := &countingSource{err: ErrCatalogUnavailable}
	src := NewCachedSource(next, database.NewRedisFromClient(rdb), time.Minute, logger.NewTestLogger(t))

	_, err := src.Offers(context.Background(), loan.LoanTypeHome)
	assert.ErrorIs(t, err, ErrCatalogUnavailable)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewSource(t *testing.T) {
	src, err := NewSource(config.CatalogConfig{Source: config.CatalogSourceFile, FilePath: "x.json"}, nil, nil, logger.NewNoOpLogger())
	require.NoError(t, err)
	assert.IsType(t, FileSource{}, src)

	_, err = NewSource(config.CatalogConfig{Source: config.CatalogSourceElasticsearch}, nil, nil, logger.NewNoOpLogger())
	assert.Error(t, err)

	_, err = NewSource(config.CatalogConfig{Source: config.CatalogSourceHTTP}, nil, nil, logger.NewNoOpLogger())
	assert.ErrorContains(t, err, "needs a url")

	_, err = NewSource(config.CatalogConfig{Source: "ftp"}, nil, nil, logger.NewNoOpLogger())
	assert.ErrorContains(t, err, "unknown catalog source")
}
