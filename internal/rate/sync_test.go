package rate

import (
	"context"
	"errors"
	"math"
	"testing"

	"fxconvert/internal/converter"
	"fxconvert/internal/domain"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRateClient struct{ mock.Mock }

func (m *MockRateClient) GetExchangeRates(ctx context.Context, code string) (map[string]float64, error) {
	args := m.Called(ctx, code)
	rates, _ := args.Get(0).(map[string]float64)
	return rates, args.Error(1)
}

// --- buildBatch ---

func TestBuildBatch_SkipsReversedSelfAndUnusable(t *testing.T) {
	tables := map[string]map[string]float64{
		"USD": {"USD": 1, "EUR": 0.9, "JPY": 150, "XXX": 0},
		"EUR": {"USD": 1.12, "GBP": 0.8, "BAD": math.NaN()},
	}

	batch := buildBatch([]string{"USD", "EUR", "CHF"}, tables)

	require.Equal(t, []domain.ConversionRate{
		{Base: "USD", Quote: "EUR", Value: 0.9},
		{Base: "USD", Quote: "JPY", Value: 150},
		{Base: "EUR", Quote: "GBP", Value: 0.8},
	}, batch)
}

func TestBuildBatch_Empty(t *testing.T) {
	require.Empty(t, buildBatch([]string{"USD"}, map[string]map[string]float64{}))
}

// --- fetchTables ---

func TestFetchTables_FailedBaseIsSkipped(t *testing.T) {
	client := new(MockRateClient)
	client.On("GetExchangeRates", mock.Anything, "USD").Return(map[string]float64{"EUR": 0.9}, nil).Once()
	client.On("GetExchangeRates", mock.Anything, "EUR").Return(nil, errors.New("timeout")).Once()
	client.On("GetExchangeRates", mock.Anything, "GBP").Return(map[string]float64{"USD": 1.25}, nil).Once()

	tables := fetchTables(context.Background(), client, []string{"USD", "EUR", "GBP"}, 2)

	require.Len(t, tables, 2)
	require.Equal(t, map[string]float64{"EUR": 0.9}, tables["USD"])
	require.Equal(t, map[string]float64{"USD": 1.25}, tables["GBP"])
	client.AssertExpectations(t)
}

// --- Syncer ---

func TestSyncer_Sync_AppliesBatch(t *testing.T) {
	client := new(MockRateClient)
	store := new(MockRateStore)
	recorder := new(MockRecorder)
	conv := converter.New()
	svc := NewService(conv, store, nil)
	syncer := NewSyncer(client, svc, []string{"USD", "EUR"}, 0, recorder)

	client.On("GetExchangeRates", mock.Anything, "USD").Return(map[string]float64{"EUR": 0.9, "JPY": 150}, nil).Once()
	client.On("GetExchangeRates", mock.Anything, "EUR").Return(map[string]float64{"USD": 1.11, "GBP": 0.8}, nil).Once()
	store.On("Upsert", mock.Anything, mock.MatchedBy(func(rates []domain.ConversionRate) bool {
		return len(rates) == 3
	})).Return(nil).Once()
	recorder.On("ObserveSync", 3, nil).Return().Once()

	n, err := syncer.Sync(context.Background(), "exec-1")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	got, err := conv.Convert("GBP", "JPY", 1)
	require.NoError(t, err)
	require.InDelta(t, 1/0.8/0.9*150, got, 1e-9)

	client.AssertExpectations(t)
	store.AssertExpectations(t)
	recorder.AssertExpectations(t)
}

func TestSyncer_Sync_NothingFetched(t *testing.T) {
	client := new(MockRateClient)
	store := new(MockRateStore)
	recorder := new(MockRecorder)
	svc := NewService(converter.New(), store, nil)
	syncer := NewSyncer(client, svc, []string{"USD"}, 1, recorder)

	client.On("GetExchangeRates", mock.Anything, "USD").Return(nil, errors.New("unexpected status code 503")).Once()
	recorder.On("ObserveSync", 0, ErrNothingFetched).Return().Once()

	_, err := syncer.Sync(context.Background(), "exec-2")
	require.ErrorIs(t, err, ErrNothingFetched)
	store.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	recorder.AssertExpectations(t)
}

func TestSyncer_Sync_StoreError(t *testing.T) {
	client := new(MockRateClient)
	store := new(MockRateStore)
	svc := NewService(converter.New(), store, nil)
	syncer := NewSyncer(client, svc, []string{"USD"}, 1, nil)
	wantErr := errors.New("db temporarily unavailable")

	client.On("GetExchangeRates", mock.Anything, "USD").Return(map[string]float64{"EUR": 0.9}, nil).Once()
	store.On("Upsert", mock.Anything, mock.Anything).Return(wantErr).Once()

	_, err := syncer.Sync(context.Background(), "exec-3")
	require.ErrorIs(t, err, wantErr)
	require.Empty(t, svc.Currencies())
}
