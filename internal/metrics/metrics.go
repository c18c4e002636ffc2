package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	SignIns           *prometheus.CounterVec
	ActiveSessions    prometheus.Gauge
	OrdersSubmitted   prometheus.Counter
	SubmitRejected    prometheus.Counter
	StatusTransitions *prometheus.CounterVec
	FormsSubmitted    *prometheus.CounterVec
	Requests          *prometheus.CounterVec
	RequestSec        prometheus.Histogram
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	signIns := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "portal_sign_ins_total"}, []string{"role", "result"})
	active := prometheus.NewGauge(prometheus.GaugeOpts{Name: "portal_active_sessions"})
	submitted := prometheus.NewCounter(prometheus.CounterOpts{Name: "portal_orders_submitted_total"})
	rejected := prometheus.NewCounter(prometheus.CounterOpts{Name: "portal_order_submissions_rejected_total"})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "portal_order_status_transitions_total"}, []string{"to"})
	forms := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "portal_forms_submitted_total"}, []string{"form", "result"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "portal_http_requests_total"}, []string{"method", "code"})
	latency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "portal_http_request_seconds",
		Buckets: prometheus.DefBuckets,
	})

	r.MustRegister(signIns, active, submitted, rejected, transitions, forms, requests, latency)
	return &Registry{
		reg:               r,
		SignIns:           signIns,
		ActiveSessions:    active,
		OrdersSubmitted:   submitted,
		SubmitRejected:    rejected,
		StatusTransitions: transitions,
		FormsSubmitted:    forms,
		Requests:          requests,
		RequestSec:        latency,
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
