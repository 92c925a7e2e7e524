package adapters

import (
	"context"
	"fxconvert/internal/domain"
)

type RateClient interface {
	GetExchangeRates(ctx context.Context, code string) (map[string]float64, error)
}

type RateStore interface {
	Upsert(ctx context.Context, rates []domain.ConversionRate) error
	LoadAll(ctx context.Context) ([]domain.StoredRate, error)
	// LoadCurrencies lists every stored code in the order it was first stored.
	LoadCurrencies(ctx context.Context) ([]string, error)
	DeleteAll(ctx context.Context) error
}
