package rate

import (
	"context"
	"testing"
	"time"

	"fxconvert/internal/converter"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestSyncer(client *MockRateClient) *Syncer {
	return NewSyncer(client, NewService(converter.New(), nil, nil), []string{"USD"}, 1, nil)
}

func TestNewScheduler_Constructs(t *testing.T) {
	s := NewScheduler(newTestSyncer(new(MockRateClient)), 10*time.Second)
	require.NotNil(t, s)
	require.False(t, s.running())
}

func TestScheduler_Shutdown_NoScheduler_ReturnsNil(t *testing.T) {
	s := NewScheduler(newTestSyncer(new(MockRateClient)), 10*time.Second)
	require.NoError(t, s.Shutdown())
	require.False(t, s.running())
}

func TestScheduler_Start_RunsImmediately(t *testing.T) {
	client := new(MockRateClient)
	client.On("GetExchangeRates", mock.Anything, "USD").Return(map[string]float64{"EUR": 0.9}, nil)
	syncer := newTestSyncer(client)
	s := NewScheduler(syncer, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.Eventually(t, func() bool {
		return len(syncer.service.Currencies()) == 2
	}, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Shutdown())
}

func TestScheduler_Start_And_ContextCancel_ShutsDown(t *testing.T) {
	client := new(MockRateClient)
	client.On("GetExchangeRates", mock.Anything, "USD").Return(map[string]float64{"EUR": 0.9}, nil).Maybe()
	s := NewScheduler(newTestSyncer(client), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, s.Start(ctx))
	require.True(t, s.running())

	cancel()

	require.Eventually(t, func() bool { return !s.running() }, 2*time.Second, 10*time.Millisecond,
		"expected scheduler to be shutdown after ctx cancel")
}

func TestScheduler_Shutdown_AfterStart_Idempotent(t *testing.T) {
	client := new(MockRateClient)
	client.On("GetExchangeRates", mock.Anything, "USD").Return(map[string]float64{"EUR": 0.9}, nil).Maybe()
	s := NewScheduler(newTestSyncer(client), time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, s.Start(ctx))
	require.True(t, s.running())

	require.NoError(t, s.Shutdown())
	require.False(t, s.running())

	require.NoError(t, s.Shutdown())
}

func TestNewScheduler_UsesProvidedInterval(t *testing.T) {
	s := NewScheduler(newTestSyncer(new(MockRateClient)), 42*time.Second)
	require.Equal(t, 42*time.Second, s.syncInterval)
}

func TestNewScheduler_DefaultsIntervalWhenInvalid(t *testing.T) {
	s := NewScheduler(newTestSyncer(new(MockRateClient)), 0)
	require.Equal(t, time.Hour, s.syncInterval)
}
