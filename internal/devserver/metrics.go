package devserver

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes counters/histograms for the stub backend.
type Metrics struct {
	chatTotal   *prometheus.CounterVec
	leadTotal   *prometheus.CounterVec
	chatLatency prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		chatTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "devserver",
			Name:      "chat_requests_total",
			Help:      "Total chat requests served",
		}, []string{"status"}),
		leadTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "concierge",
			Subsystem: "devserver",
			Name:      "lead_submissions_total",
			Help:      "Total lead submissions received",
		}, []string{"status"}),
		chatLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "concierge",
			Subsystem: "devserver",
			Name:      "chat_latency_seconds",
			Help:      "Latency of chat request handling",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.chatTotal, m.leadTotal, m.chatLatency)
	return m
}

func (m *Metrics) ObserveChat(status string, seconds float64) {
	if m == nil {
		return
	}
	m.chatTotal.WithLabelValues(status).Inc()
	m.chatLatency.Observe(seconds)
}

func (m *Metrics) ObserveLead(status string) {
	if m == nil {
		return
	}
	m.leadTotal.WithLabelValues(status).Inc()
}
