package converter

import (
	"fmt"
	"slices"
	"sync"

	"fxconvert/internal/domain"
)

// QuoteKey identifies a derived quote within one configuration generation.
type QuoteKey struct {
	Generation uint64
	From       int
	To         int
}

// QuoteCache memoises multi-hop quotes. Implementations may drop entries at will.
type QuoteCache interface {
	Get(key QuoteKey) (domain.Quote, bool)
	Set(key QuoteKey, quote domain.Quote)
}

type Option func(*Converter)

func WithQuoteCache(cache QuoteCache) Option {
	return func(c *Converter) { c.cache = cache }
}

// Converter owns the currency index and the rate graph. Every read and write of
// either goes through mu, so readers never observe a partially applied batch.
type Converter struct {
	mu         sync.Mutex
	index      *CurrencyIndex
	graph      *RateGraph
	generation uint64
	cache      QuoteCache
}

func New(opts ...Option) *Converter {
	c := &Converter{
		index: NewCurrencyIndex(),
		graph: NewRateGraph(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ClearConfiguration forgets every currency and rate.
func (c *Converter) ClearConfiguration() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.index.Clear()
	c.graph.Clear()
	c.generation++
}

// UpdateConfiguration registers the codes of every rate and stores each rate with
// its reciprocal. The batch is validated up front: one bad rate rejects the whole
// batch and nothing is applied.
func (c *Converter) UpdateConfiguration(rates []domain.ConversionRate) error {
	if err := ValidateBatch(rates); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range rates {
		src := c.index.GetOrAssignID(r.Base)
		dst := c.index.GetOrAssignID(r.Quote)
		if src == dst {
			continue
		}
		// already validated
		_ = c.graph.SetEdge(src, dst, r.Value)
	}
	c.generation++
	return nil
}

// ValidateBatch checks every rate of a configuration batch. A currency may only
// be quoted against itself at rate 1.
func ValidateBatch(rates []domain.ConversionRate) error {
	for _, r := range rates {
		if err := ValidateRate(r.Value); err != nil {
			return fmt.Errorf("rate %s/%s: %w", r.Base, r.Quote, err)
		}
		if r.Base == r.Quote && r.Value != 1 {
			return fmt.Errorf("rate %s/%s must be 1: %w", r.Base, r.Quote, domain.ErrInvalidRate)
		}
	}
	return nil
}

// Convert converts amount of from into to.
func (c *Converter) Convert(from, to string, amount float64) (float64, error) {
	conv, err := c.Exchange(from, to, amount)
	if err != nil {
		return 0, err
	}
	return conv.Result, nil
}

// Exchange converts amount and reports the quote used, both under one lock.
func (c *Converter) Exchange(from, to string, amount float64) (domain.Conversion, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	q, err := c.quote(from, to)
	if err != nil {
		return domain.Conversion{}, err
	}
	return domain.Conversion{Quote: q, Amount: amount, Result: q.Apply(amount)}, nil
}

// Quote returns the effective rate from -> to and the legs it is made of.
func (c *Converter) Quote(from, to string) (domain.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quote(from, to)
}

func (c *Converter) quote(from, to string) (domain.Quote, error) {
	src, dst, err := c.resolve(from, to)
	if err != nil {
		return domain.Quote{}, err
	}
	if src == dst {
		return domain.Quote{From: from, To: to, Rate: 1}, nil
	}
	if rate, ok := c.graph.GetEdge(src, dst); ok {
		return direct(from, to, rate), nil
	}
	if rate, ok := c.graph.GetEdge(dst, src); ok {
		// not reachable while the reciprocal invariant holds
		return direct(from, to, 1/rate), nil
	}

	key := QuoteKey{Generation: c.generation, From: src, To: dst}
	if c.cache != nil {
		if q, ok := c.cache.Get(key); ok {
			q.Legs = slices.Clone(q.Legs)
			return q, nil
		}
	}

	hops, ok := findPath(c.graph, src, dst)
	if !ok {
		return domain.Quote{}, fmt.Errorf("%w: %s -> %s", domain.ErrNoConversionPath, from, to)
	}
	codes := c.index.codesByID()
	q := domain.Quote{From: from, To: to, Rate: 1, Legs: make([]domain.Leg, 0, len(hops))}
	prev := from
	for _, h := range hops {
		q.Rate *= h.rate
		q.Legs = append(q.Legs, domain.Leg{From: prev, To: codes[h.to], Rate: h.rate})
		prev = codes[h.to]
	}
	if c.cache != nil {
		cached := q
		cached.Legs = slices.Clone(q.Legs)
		c.cache.Set(key, cached)
	}
	return q, nil
}

func direct(from, to string, rate float64) domain.Quote {
	return domain.Quote{From: from, To: to, Rate: rate, Legs: []domain.Leg{{From: from, To: to, Rate: rate}}}
}

// Currencies lists every registered code in alphabetical order.
func (c *Converter) Currencies() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index.Codes()
}

func (c *Converter) resolve(from, to string) (int, int, error) {
	src, err := c.index.Lookup(from)
	if err != nil {
		return 0, 0, err
	}
	dst, err := c.index.Lookup(to)
	if err != nil {
		return 0, 0, err
	}
	return src, dst, nil
}
