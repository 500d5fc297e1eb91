// Package metrics collects and exposes Prometheus metrics for draws, ledger
// calls and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/arcanaland/seer/internal/card"
)

// Recorder is what the rest of the program reports to
type Recorder interface {
	RecordDraw(cards []card.Card)
	RecordLedgerCall(method, outcome string, d time.Duration)
	RecordHTTPRequest(route string, status int)
}

// Collector is the Prometheus Recorder
type Collector struct {
	draws         prometheus.Counter
	cardsDrawn    *prometheus.CounterVec
	reversals     prometheus.Counter
	ledgerCalls   *prometheus.CounterVec
	ledgerLatency *prometheus.HistogramVec
	httpRequests  *prometheus.CounterVec
}

// NewCollector creates a Collector and registers it with reg
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		draws: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seer_draws_total",
			Help: "Number of draws from the local deck",
		}),
		cardsDrawn: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seer_cards_drawn_total",
			Help: "Cards drawn, by suit",
		}, []string{"suit"}),
		reversals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "seer_reversals_total",
			Help: "Cards drawn reversed",
		}),
		ledgerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seer_ledger_calls_total",
			Help: "Ledger calls by method and outcome",
		}, []string{"method", "outcome"}),
		ledgerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "seer_ledger_call_seconds",
			Help:    "Ledger call latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "seer_http_requests_total",
			Help: "HTTP API requests by route and status code",
		}, []string{"route", "status_code"}),
	}

	reg.MustRegister(
		c.draws,
		c.cardsDrawn,
		c.reversals,
		c.ledgerCalls,
		c.ledgerLatency,
		c.httpRequests,
	)

	return c
}

// RecordDraw counts one draw and its cards
func (c *Collector) RecordDraw(cards []card.Card) {
	c.draws.Inc()
	for _, cd := range cards {
		c.cardsDrawn.WithLabelValues(card.SuitSlug(cd.Suit)).Inc()
		if cd.IsReversed {
			c.reversals.Inc()
		}
	}
}

// RecordLedgerCall implements ledger.Recorder
func (c *Collector) RecordLedgerCall(method, outcome string, d time.Duration) {
	c.ledgerCalls.WithLabelValues(method, outcome).Inc()
	c.ledgerLatency.WithLabelValues(method).Observe(d.Seconds())
}

// RecordHTTPRequest counts an API response
func (c *Collector) RecordHTTPRequest(route string, status int) {
	c.httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}

// Handler serves the gathered metrics for scraping
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop discards everything
type Nop struct{}

func (Nop) RecordDraw([]card.Card)                          {}
func (Nop) RecordLedgerCall(string, string, time.Duration) {}
func (Nop) RecordHTTPRequest(string, int)                   {}
