package rate

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"fxconvert/internal/adapters"
	"fxconvert/internal/domain"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const (
	defaultWorkers    = 5
	perRequestTimeout = 5 * time.Second
)

var ErrNothingFetched = errors.New("no rates fetched from rate api")

// Syncer pulls rate tables for a fixed set of base currencies and applies them
// to the service as a single batch.
type Syncer struct {
	client   adapters.RateClient
	service  *Service
	bases    []string
	workers  int
	recorder Recorder
}

// Sync fetches every base in parallel and applies what was fetched. Bases whose
// request failed are skipped and picked up by the next run.
func (s *Syncer) Sync(ctx context.Context, execID string) (int, error) {
	applied, err := s.sync(ctx, execID)
	s.recorder.ObserveSync(applied, err)
	return applied, err
}

func (s *Syncer) sync(ctx context.Context, execID string) (int, error) {
	tables := fetchTables(ctx, s.client, s.bases, s.workers)
	if len(tables) == 0 {
		return 0, ErrNothingFetched
	}

	rates := buildBatch(s.bases, tables)
	if len(rates) == 0 {
		return 0, ErrNothingFetched
	}
	if err := s.service.UpdateRates(ctx, rates); err != nil {
		return 0, fmt.Errorf("failed to apply fetched rates: %w", err)
	}

	logrus.Infof("%d rates from %d/%d bases applied; execID: %s", len(rates), len(tables), len(s.bases), execID)
	return len(rates), nil
}

// fetchTables runs at most workers requests at a time, each bounded by perRequestTimeout.
func fetchTables(ctx context.Context, client adapters.RateClient, bases []string, workers int) map[string]map[string]float64 {
	var (
		mu     sync.Mutex
		tables = make(map[string]map[string]float64, len(bases))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, base := range bases {
		g.Go(func() error {
			reqCtx, cancel := context.WithTimeout(gctx, perRequestTimeout)
			defer cancel()

			table, err := client.GetExchangeRates(reqCtx, base)
			if err != nil {
				// not returned: one failing base must not cancel the others
				logrus.Warnf("Base '%s' wasn't fetched: %s", base, err)
				return nil
			}
			mu.Lock()
			tables[base] = table
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return tables
}

// buildBatch turns rate tables into one batch. Bases are taken in configured
// order; a pair already quoted from the other side is skipped, so "EUR/USD" is
// dropped when "USD/EUR" came first. Unusable values are skipped with a warning.
func buildBatch(bases []string, tables map[string]map[string]float64) []domain.ConversionRate {
	seen := make(map[domain.RatePair]struct{})
	rates := make([]domain.ConversionRate, 0)

	for _, base := range bases {
		table, ok := tables[base]
		if !ok {
			continue
		}
		for _, quote := range slices.Sorted(maps.Keys(table)) {
			value := table[quote]
			if quote == base {
				continue
			}
			pair := domain.RatePair{Base: base, Quote: quote}
			if _, dup := seen[pair.Reversed()]; dup {
				continue
			}
			if _, dup := seen[pair]; dup {
				continue
			}
			if value <= 0 || math.IsNaN(value) || math.IsInf(value, 0) {
				logrus.Warnf("Skipping '%s/%s' with unusable value %v", base, quote, value)
				continue
			}
			seen[pair] = struct{}{}
			rates = append(rates, domain.ConversionRate{Base: base, Quote: quote, Value: value})
		}
	}
	return rates
}

func NewSyncer(client adapters.RateClient, service *Service, bases []string, workers int, recorder Recorder) *Syncer {
	if workers <= 0 {
		workers = defaultWorkers
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &Syncer{client: client, service: service, bases: slices.Clone(bases), workers: workers, recorder: recorder}
}
