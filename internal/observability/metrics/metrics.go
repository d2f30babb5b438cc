package metrics

import "github.com/prometheus/client_golang/prometheus"

// SiteMetrics exposes counters/histograms for form submissions, email
// dispatch and inbound webhooks.
type SiteMetrics struct {
	submissionsTotal *prometheus.CounterVec
	emailTotal       *prometheus.CounterVec
	emailLatency     *prometheus.HistogramVec
	webhookTotal     *prometheus.CounterVec
}

func NewSiteMetrics(reg prometheus.Registerer) *SiteMetrics {
	m := &SiteMetrics{
		submissionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitefront",
			Subsystem: "forms",
			Name:      "submissions_total",
			Help:      "Total form submissions by form and outcome",
		}, []string{"form", "outcome"}),
		emailTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitefront",
			Subsystem: "email",
			Name:      "dispatch_total",
			Help:      "Total email dispatch attempts by kind and status",
		}, []string{"kind", "status"}),
		emailLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "sitefront",
			Subsystem: "email",
			Name:      "dispatch_seconds",
			Help:      "Latency of email provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
		webhookTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "sitefront",
			Subsystem: "webhooks",
			Name:      "events_total",
			Help:      "Total inbound scheduling webhooks",
		}, []string{"event", "status"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.submissionsTotal, m.emailTotal, m.emailLatency, m.webhookTotal)
	return m
}

// ObserveSubmission records one form submission; outcome is one of
// success, invalid, failed or limited.
func (m *SiteMetrics) ObserveSubmission(form, outcome string) {
	if m == nil {
		return
	}
	m.submissionsTotal.WithLabelValues(form, outcome).Inc()
}

func (m *SiteMetrics) ObserveEmail(kind string, ok bool, seconds float64) {
	if m == nil {
		return
	}
	status := "sent"
	if !ok {
		status = "failed"
	}
	m.emailTotal.WithLabelValues(kind, status).Inc()
	m.emailLatency.WithLabelValues(kind).Observe(seconds)
}

func (m *SiteMetrics) ObserveWebhook(event, status string) {
	if m == nil {
		return
	}
	m.webhookTotal.WithLabelValues(event, status).Inc()
}
