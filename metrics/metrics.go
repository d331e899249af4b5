// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics holds the Prometheus collectors exposed on /metrics.
// All methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Vote outcome label values
const (
	OutcomeAdmitted  = "admitted"
	OutcomeDuplicate = "duplicate"
	OutcomeNotFound  = "not_found"
	OutcomeInvalid   = "invalid"
	OutcomeError     = "error"
)

type Metrics struct {
	registry *prometheus.Registry

	votes              *prometheus.CounterVec
	pollsCreated       prometheus.Counter
	subscribers        prometheus.Gauge
	subscribersDropped prometheus.Counter
	publishFailures    prometheus.Counter
	httpRequests       *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		votes: f.NewCounterVec(prometheus.CounterOpts{
			Name: "livepoll_votes_total",
			Help: "Vote attempts by outcome.",
		}, []string{"outcome"}),
		pollsCreated: f.NewCounter(prometheus.CounterOpts{
			Name: "livepoll_polls_created_total",
			Help: "Polls created.",
		}),
		subscribers: f.NewGauge(prometheus.GaugeOpts{
			Name: "livepoll_subscribers",
			Help: "Currently connected live subscribers.",
		}),
		subscribersDropped: f.NewCounter(prometheus.CounterOpts{
			Name: "livepoll_subscribers_dropped_total",
			Help: "Subscribers disconnected because their queue was full.",
		}),
		publishFailures: f.NewCounter(prometheus.CounterOpts{
			Name: "livepoll_publish_failures_total",
			Help: "Admitted votes whose live notification failed.",
		}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "livepoll_http_requests_total",
			Help: "HTTP requests by route pattern and status code.",
		}, []string{"route", "code"}),
	}
}

func (m *Metrics) Vote(outcome string) {
	if m == nil {
		return
	}
	m.votes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) PollCreated() {
	if m == nil {
		return
	}
	m.pollsCreated.Inc()
}

func (m *Metrics) SubscriberAdded() {
	if m == nil {
		return
	}
	m.subscribers.Inc()
}

func (m *Metrics) SubscriberRemoved(dropped bool) {
	if m == nil {
		return
	}
	m.subscribers.Dec()
	if dropped {
		m.subscribersDropped.Inc()
	}
}

func (m *Metrics) PublishFailed() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

func (m *Metrics) Request(route string, code int) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// Registry exposes the underlying registry, mostly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
