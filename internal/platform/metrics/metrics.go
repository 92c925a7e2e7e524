package metrics

import (
	"errors"
	"net/http"

	"fxconvert/internal/domain"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "fxconvert"

type Metrics struct {
	registry    *prometheus.Registry
	conversions *prometheus.CounterVec
	hops        prometheus.Histogram
	syncs       *prometheus.CounterVec
	syncedRates prometheus.Counter
	currencies  prometheus.Gauge
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		conversions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "conversions_total",
			Help:      "Conversion requests by outcome.",
		}, []string{"outcome"}),
		hops: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "conversion_hops",
			Help:      "Number of direct rates chained per successful conversion.",
			Buckets:   []float64{0, 1, 2, 3, 4, 6, 8},
		}),
		syncs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_syncs_total",
			Help:      "Rate feed synchronisations by result.",
		}, []string{"result"}),
		syncedRates: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "synced_rates_total",
			Help:      "Rates applied by feed synchronisation.",
		}),
		currencies: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "currencies",
			Help:      "Currencies currently known to the converter.",
		}),
	}
}

// ObserveConversion records the outcome of one conversion.
func (m *Metrics) ObserveConversion(hops int, err error) {
	if err != nil {
		m.conversions.WithLabelValues(Outcome(err)).Inc()
		return
	}
	m.conversions.WithLabelValues("ok").Inc()
	m.hops.Observe(float64(hops))
}

func (m *Metrics) ObserveSync(applied int, err error) {
	if err != nil {
		m.syncs.WithLabelValues("error").Inc()
		return
	}
	m.syncs.WithLabelValues("ok").Inc()
	m.syncedRates.Add(float64(applied))
}

func (m *Metrics) SetCurrencies(n int) { m.currencies.Set(float64(n)) }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func Outcome(err error) string {
	switch {
	case errors.Is(err, domain.ErrCurrencyNotFound):
		return "unknown_currency"
	case errors.Is(err, domain.ErrNoConversionPath):
		return "no_path"
	case errors.Is(err, domain.ErrInvalidRate):
		return "invalid_rate"
	default:
		return "error"
	}
}
