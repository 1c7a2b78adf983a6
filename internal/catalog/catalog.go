// internal/catalog/catalog.go
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"loan-advisor-workers/internal/common/config"
	"loan-advisor-workers/internal/common/database"
	httpclient "loan-advisor-workers/internal/common/http"
	"loan-advisor-workers/internal/common/logger"
	"loan-advisor-workers/internal/loan"
)

var ErrCatalogUnavailable = errors.New("bank offer catalog unavailable")

// Source lists the bank offers published for a loan type.
type Source interface {
	Offers(ctx context.Context, loanType loan.LoanType) ([]loan.BankOffer, error)
}

// FileSource reads offers from a JSON array on disk on every call.
type FileSource struct {
	Path string
}

func (f FileSource) Offers(_ context.Context, loanType loan.LoanType) ([]loan.BankOffer, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	var all []loan.BankOffer
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrCatalogUnavailable, f.Path, err)
	}

	offers := make([]loan.BankOffer, 0, len(all))
	for _, o := range all {
		if o.LoanType == loanType {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

type searcher interface {
	Search(ctx context.Context, index string, query map[string]interface{}) ([]json.RawMessage, error)
}

// ElasticSource queries the bank offer index.
type ElasticSource struct {
	es    searcher
	index string
}

func NewElasticSource(es *database.ElasticsearchClient, index string) *ElasticSource {
	return &ElasticSource{es: es, index: index}
}

func (e *ElasticSource) Offers(ctx context.Context, loanType loan.LoanType) ([]loan.BankOffer, error) {
	hits, err := e.es.Search(ctx, e.index, map[string]interface{}{
		"size": 100,
		"query": map[string]interface{}{
			"term": map[string]interface{}{"loanType": string(loanType)},
		},
		"sort": []interface{}{
			map[string]interface{}{"interestRate": "asc"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	offers := make([]loan.BankOffer, 0, len(hits))
	for _, hit := range hits {
		var o loan.BankOffer
		if err := json.Unmarshal(hit, &o); err != nil {
			return nil, fmt.Errorf("%w: decode offer: %v", ErrCatalogUnavailable, err)
		}
		offers = append(offers, o)
	}
	return offers, nil
}

type jsonGetter interface {
	GetJSON(ctx context.Context, url string, out interface{}) error
}

// HTTPSource reads offers from a partner rate feed that answers
// GET <url>?loanType=<type> with a JSON array of offers.
type HTTPSource struct {
	client jsonGetter
	url    string
}

func NewHTTPSource(client *httpclient.Client, feedURL string) *HTTPSource {
	return &HTTPSource{client: client, url: feedURL}
}

func (h *HTTPSource) Offers(ctx context.Context, loanType loan.LoanType) ([]loan.BankOffer, error) {
	u, err := url.Parse(h.url)
	if err != nil {
		return nil, fmt.Errorf("%w: feed url: %v", ErrCatalogUnavailable, err)
	}
	q := u.Query()
	q.Set("loanType", string(loanType))
	u.RawQuery = q.Encode()

	var all []loan.BankOffer
	if err := h.client.GetJSON(ctx, u.String(), &all); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCatalogUnavailable, err)
	}

	// Feeds are not trusted to honour the filter.
	offers := make([]loan.BankOffer, 0, len(all))
	for _, o := range all {
		if o.LoanType == loanType {
			offers = append(offers, o)
		}
	}
	return offers, nil
}

type jsonCache interface {
	GetJSON(ctx context.Context, key string, out interface{}) (bool, error)
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// CachedSource fronts another source with Redis. Cache failures are logged
// and fall through to the underlying source.
type CachedSource struct {
	next  Source
	cache jsonCache
	ttl   time.Duration
	log   logger.Logger
}

func NewCachedSource(next Source, redis *database.RedisClient, ttl time.Duration, log logger.Logger) *CachedSource {
	return &CachedSource{next: next, cache: redis, ttl: ttl, log: log}
}

func cacheKey(loanType loan.LoanType) string {
	return "catalog:offers:" + string(loanType)
}

func (c *CachedSource) Offers(ctx context.Context, loanType loan.LoanType) ([]loan.BankOffer, error) {
	key := cacheKey(loanType)

	var cached []loan.BankOffer
	found, err := c.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		c.log.Warn("catalog cache read failed", map[string]interface{}{"key": key, "error": err})
	} else if found {
		return cached, nil
	}

	offers, err := c.next.Offers(ctx, loanType)
	if err != nil {
		return nil, err
	}

	if err := c.cache.SetJSON(ctx, key, offers, c.ttl); err != nil {
		c.log.Warn("catalog cache write failed", map[string]interface{}{"key": key, "error": err})
	}
	return offers, nil
}

// NewSource builds the configured source, wrapped in a Redis cache when a
// client is given.
func NewSource(cfg config.CatalogConfig, es *database.ElasticsearchClient, redis *database.RedisClient, log logger.Logger) (Source, error) {
	var src Source
	switch cfg.Source {
	case config.CatalogSourceElasticsearch:
		if es == nil {
			return nil, fmt.Errorf("catalog source %q needs an elasticsearch client", cfg.Source)
		}
		src = NewElasticSource(es, cfg.Index)
	case config.CatalogSourceHTTP:
		if cfg.URL == "" {
			return nil, fmt.Errorf("catalog source %q needs a url", cfg.Source)
		}
		src = NewHTTPSource(httpclient.NewClient(config.GetDuration(cfg.Timeout)), cfg.URL)
	case config.CatalogSourceFile, "":
		src = FileSource{Path: cfg.FilePath}
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}

	if redis == nil {
		return src, nil
	}
	return NewCachedSource(src, redis, time.Duration(cfg.CacheTTL)*time.Second, log), nil
}

