package rate

import (
	"context"
	"fmt"
	"sync"

	"fxconvert/internal/adapters"
	"fxconvert/internal/converter"
	"fxconvert/internal/domain"

	"github.com/sirupsen/logrus"
)

type Converter interface {
	Exchange(from, to string, amount float64) (domain.Conversion, error)
	UpdateConfiguration(rates []domain.ConversionRate) error
	ClearConfiguration()
	Currencies() []string
}

type Recorder interface {
	ObserveConversion(hops int, err error)
	ObserveSync(applied int, err error)
	SetCurrencies(n int)
}

type nopRecorder struct{}

func (nopRecorder) ObserveConversion(int, error) {}
func (nopRecorder) ObserveSync(int, error)       {}
func (nopRecorder) SetCurrencies(int)            {}

// Service keeps the converter and the rate store in step. The store is optional.
// mu serialises every write so the store and the converter always receive the
// same batches in the same order.
type Service struct {
	mu       sync.Mutex
	conv     Converter
	store    adapters.RateStore
	recorder Recorder
}

func (s *Service) Convert(from, to string, amount float64) (domain.Conversion, error) {
	conv, err := s.conv.Exchange(from, to, amount)
	s.recorder.ObserveConversion(conv.Hops(), err)
	return conv, err
}

// UpdateRates persists the batch, then applies it to the converter. An invalid
// batch reaches neither.
func (s *Service) UpdateRates(ctx context.Context, rates []domain.ConversionRate) error {
	if err := converter.ValidateBatch(rates); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.Upsert(ctx, rates); err != nil {
			return fmt.Errorf("failed to store rates: %w", err)
		}
	}
	if err := s.conv.UpdateConfiguration(rates); err != nil {
		return err
	}
	s.recorder.SetCurrencies(len(s.conv.Currencies()))
	return nil
}

func (s *Service) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store != nil {
		if err := s.store.DeleteAll(ctx); err != nil {
			return fmt.Errorf("failed to delete stored rates: %w", err)
		}
	}
	s.conv.ClearConfiguration()
	s.recorder.SetCurrencies(0)
	return nil
}

func (s *Service) Currencies() []string {
	return s.conv.Currencies()
}

// Bootstrap loads every stored rate into the converter as one batch.
func (s *Service) Bootstrap(ctx context.Context) (int, error) {
	if s.store == nil {
		return 0, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.store.LoadAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load stored rates: %w", err)
	}
	if len(stored) == 0 {
		return 0, nil
	}

	codes, err := s.store.LoadCurrencies(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load stored currencies: %w", err)
	}

	// Registering the codes first, in stored order, gives them the same
	// relative ids they had when the rates were written.
	batch := make([]domain.ConversionRate, 0, len(codes)+len(stored))
	for _, code := range codes {
		batch = append(batch, domain.ConversionRate{Base: code, Quote: code, Value: 1})
	}
	for _, sr := range stored {
		batch = append(batch, sr.ConversionRate)
	}
	if err = s.conv.UpdateConfiguration(batch); err != nil {
		return 0, fmt.Errorf("failed to apply stored rates: %w", err)
	}
	s.recorder.SetCurrencies(len(s.conv.Currencies()))
	logrus.WithField("rates", len(stored)).Debug("stored rates applied")
	return len(stored), nil
}

func NewService(conv Converter, store adapters.RateStore, recorder Recorder) *Service {
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Service{conv: conv, store: store, recorder: recorder}
}
