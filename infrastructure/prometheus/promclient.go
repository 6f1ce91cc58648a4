package promclient

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var QuotesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "quotes_total",
		Help: "quotes computed, by provider and outcome",
	},
	[]string{"provider", "outcome"},
)

var OrderBookFetchDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "orderbook_fetch_duration_seconds",
		Help:    "time spent fetching an order book snapshot from the provider",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider"},
)

var OrderBookLevelsReceived = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "orderbook_levels_received",
		Help:    "levels received in an order book snapshot, both sides",
		Buckets: prometheus.ExponentialBuckets(1, 2, 10),
	},
	[]string{"provider"},
)

// NewRegistry returns a registry holding the quote metrics and the Go
// runtime collector.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()

	reg.MustRegister(QuotesTotal)
	reg.MustRegister(OrderBookFetchDuration)
	reg.MustRegister(OrderBookLevelsReceived)
	reg.MustRegister(collectors.NewGoCollector())

	return reg
}

func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}
