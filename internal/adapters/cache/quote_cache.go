package cache

import (
	"fmt"

	"fxconvert/internal/converter"
	"fxconvert/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// RistrettoQuoteCache keeps derived multi-hop quotes. Keys carry the converter's
// configuration generation, so entries of an older configuration are never hit
// and simply age out.
type RistrettoQuoteCache struct {
	cache *ristretto.Cache
}

func NewQuoteCache(maxItems int64) (*RistrettoQuoteCache, error) {
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create quote cache failed: %w", err)
	}
	return &RistrettoQuoteCache{cache: c}, nil
}

func (c *RistrettoQuoteCache) Get(key converter.QuoteKey) (domain.Quote, bool) {
	if v, ok := c.cache.Get(toKey(key)); ok {
		q, ok := v.(domain.Quote)
		return q, ok
	}
	return domain.Quote{}, false
}

func (c *RistrettoQuoteCache) Set(key converter.QuoteKey, quote domain.Quote) {
	c.cache.Set(toKey(key), quote, 1)
}

func (c *RistrettoQuoteCache) Close() { c.cache.Close() }

func toKey(k converter.QuoteKey) string { return fmt.Sprintf("%d:%d:%d", k.Generation, k.From, k.To) }
