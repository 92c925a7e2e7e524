package domain

import (
	"time"
)

// ConversionRate says that 1 unit of Base is worth Value units of Quote.
type ConversionRate struct {
	Base  string
	Quote string
	Value float64
}

type StoredRate struct {
	ConversionRate
	UpdatedAt time.Time
}

type RatePair struct {
	Base  string
	Quote string
}

func (p RatePair) Reversed() RatePair {
	return RatePair{
		Base:  p.Quote,
		Quote: p.Base,
	}
}

// Leg is one directly known rate used by a quote.
type Leg struct {
	From string
	To   string
	Rate float64
}

// Quote is the effective rate between two currencies and the legs it was derived
// from. A quote of a currency to itself has no legs and rate 1.
type Quote struct {
	From string
	To   string
	Rate float64
	Legs []Leg
}

func (q Quote) Hops() int { return len(q.Legs) }

// Path lists the currencies the quote passes through, From and To included.
func (q Quote) Path() []string {
	path := []string{q.From}
	for _, l := range q.Legs {
		path = append(path, l.To)
	}
	return path
}

// Apply converts amount leg by leg.
func (q Quote) Apply(amount float64) float64 {
	result := amount
	for _, l := range q.Legs {
		result *= l.Rate
	}
	return result
}

type Conversion struct {
	Quote
	Amount float64
	Result float64
}
