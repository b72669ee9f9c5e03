// Package linkmetrics exports link registry activity as Prometheus metrics.
//
//	m := linkmetrics.New(prometheus.NewRegistry())
//	reg := link.New(link.Config{Observer: m})
//	http.Handle("/metrics", m.Handler())
package linkmetrics

import (
	"errors"
	"net/http"
	"reflect"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vitalvas/pagelink/link"
)

const namespace = "pagelink"

// Label values of the result label.
const (
	ResultHit        = "hit"
	ResultMiss       = "miss"
	ResultOK         = "ok"
	ResultNoSuchLink = "no_such_link"
	ResultError      = "error"
)

// Metrics is a link.Observer recording registrations, matches and
// generated links.
type Metrics struct {
	registrations prometheus.Counter
	patterns      prometheus.Counter
	matches       *prometheus.CounterVec
	links         *prometheus.CounterVec

	gatherer prometheus.Gatherer
}

var _ link.Observer = (*Metrics)(nil)

// New creates the collectors and registers them with reg. A nil reg gets a
// fresh prometheus.Registry. New panics if the collectors are already
// registered with reg.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Number of committed controller declarations.",
		}),
		patterns: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "patterns_total",
			Help:      "Number of registered link patterns.",
		}),
		matches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "matches_total",
			Help:      "Number of resolved request paths by result.",
		}, []string{"result"}),
		links: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_total",
			Help:      "Number of generated links by result.",
		}, []string{"result"}),
	}

	reg.MustRegister(m.registrations, m.patterns, m.matches, m.links)

	m.gatherer = prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		m.gatherer = g
	}

	return m
}

// Registered implements link.Observer.
func (m *Metrics) Registered(_ reflect.Type, patterns int) {
	m.registrations.Inc()
	m.patterns.Add(float64(patterns))
}

// Matched implements link.Observer.
func (m *Metrics) Matched(_ string, match *link.Match) {
	if match == nil {
		m.matches.WithLabelValues(ResultMiss).Inc()
		return
	}
	m.matches.WithLabelValues(ResultHit).Inc()
}

// Generated implements link.Observer.
func (m *Metrics) Generated(_ reflect.Type, err error) {
	switch {
	case err == nil:
		m.links.WithLabelValues(ResultOK).Inc()
	case errors.Is(err, link.ErrNoSuchLink):
		m.links.WithLabelValues(ResultNoSuchLink).Inc()
	default:
		m.links.WithLabelValues(ResultError).Inc()
	}
}

// Handler returns an http.Handler serving the metrics of the registerer
// passed to New in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
