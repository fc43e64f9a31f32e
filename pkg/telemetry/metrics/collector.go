package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config contains configuration for the Collector.
type Config struct {
	// Enabled turns metric recording on. A disabled collector still
	// serves its endpoint, exposing only the build-info gauge.
	Enabled bool

	// Namespace and Subsystem prefix every metric name. They default to
	// "vaultsbx" and "gateway".
	Namespace string
	Subsystem string
}

// Collector owns the Prometheus registry and every gateway metric.
type Collector struct {
	config   Config
	registry *prometheus.Registry

	buildInfo       *prometheus.GaugeVec
	configBuildTime prometheus.Gauge

	smtpConnections prometheus.Gauge
	smtpMessages    *prometheus.CounterVec
	smtpBytes       prometheus.Counter

	inboxesActive prometheus.Gauge
	sseClients    prometheus.Gauge

	webhookDeliveries *prometheus.CounterVec
	webhookDuration   prometheus.Histogram

	certRenewals   *prometheus.CounterVec
	certExpiryDays prometheus.Gauge

	orchestrationLeader prometheus.Gauge
	heartbeatsSent      prometheus.Counter
}

// NewCollector creates a metrics collector with its own registry. If
// registry is nil a fresh one is created, so tests never collide on the
// global default registry.
func NewCollector(cfg Config, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	if cfg.Namespace == "" {
		cfg.Namespace = "vaultsbx"
	}
	if cfg.Subsystem == "" {
		cfg.Subsystem = "gateway"
	}

	opts := func(name, help string) prometheus.GaugeOpts {
		return prometheus.GaugeOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		}
	}
	counterOpts := func(name, help string) prometheus.CounterOpts {
		return prometheus.CounterOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      name,
			Help:      help,
		}
	}

	c := &Collector{
		config:   cfg,
		registry: registry,

		buildInfo: prometheus.NewGaugeVec(
			opts("build_info", "Gateway build information; always 1."),
			[]string{"mode", "environment", "version"},
		),
		configBuildTime: prometheus.NewGauge(
			opts("config_build_timestamp_seconds", "Unix time of the last successful configuration build."),
		),

		smtpConnections: prometheus.NewGauge(
			opts("smtp_connections", "Currently open SMTP connections."),
		),
		smtpMessages: prometheus.NewCounterVec(
			counterOpts("smtp_messages_total", "Messages handled by the SMTP engine, by outcome."),
			[]string{"outcome"},
		),
		smtpBytes: prometheus.NewCounter(
			counterOpts("smtp_bytes_total", "Accepted message bytes."),
		),

		inboxesActive: prometheus.NewGauge(
			opts("inboxes_active", "Live inboxes in local mode."),
		),
		sseClients: prometheus.NewGauge(
			opts("sse_clients", "Connected console stream subscribers."),
		),

		webhookDeliveries: prometheus.NewCounterVec(
			counterOpts("webhook_deliveries_total", "Webhook delivery attempts, by status."),
			[]string{"status"},
		),
		webhookDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: cfg.Namespace,
			Subsystem: cfg.Subsystem,
			Name:      "webhook_duration_seconds",
			Help:      "Webhook delivery duration.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),

		certRenewals: prometheus.NewCounterVec(
			counterOpts("cert_renewals_total", "Certificate renewal attempts, by result."),
			[]string{"result"},
		),
		certExpiryDays: prometheus.NewGauge(
			opts("cert_expiry_days", "Days until the active certificate expires."),
		),

		orchestrationLeader: prometheus.NewGauge(
			opts("orchestration_leader", "1 when this node holds the leadership lease."),
		),
		heartbeatsSent: prometheus.NewCounter(
			counterOpts("orchestration_heartbeats_total", "Heartbeats sent to the backend."),
		),
	}

	registry.MustRegister(
		c.buildInfo,
		c.configBuildTime,
		c.smtpConnections,
		c.smtpMessages,
		c.smtpBytes,
		c.inboxesActive,
		c.sseClients,
		c.webhookDeliveries,
		c.webhookDuration,
		c.certRenewals,
		c.certExpiryDays,
		c.orchestrationLeader,
		c.heartbeatsSent,
	)

	return c
}

// SetBuildInfo records the static build-info gauge. Recorded even when
// the collector is disabled so a scrape always identifies the process.
func (c *Collector) SetBuildInfo(mode, environment, version string) {
	c.buildInfo.WithLabelValues(mode, environment, version).Set(1)
}

// ConfigBuilt marks a successful configuration build.
func (c *Collector) ConfigBuilt(at time.Time) {
	if !c.config.Enabled {
		return
	}
	c.configBuildTime.Set(float64(at.Unix()))
}

// SMTPConnectionOpened and SMTPConnectionClosed track the connection gauge.
func (c *Collector) SMTPConnectionOpened() {
	if c.config.Enabled {
		c.smtpConnections.Inc()
	}
}

func (c *Collector) SMTPConnectionClosed() {
	if c.config.Enabled {
		c.smtpConnections.Dec()
	}
}

// RecordMessage records a handled message. outcome is "accepted",
// "rejected", or "throttled"; bytes is only counted for accepted mail.
func (c *Collector) RecordMessage(outcome string, bytes int) {
	if !c.config.Enabled {
		return
	}
	c.smtpMessages.WithLabelValues(outcome).Inc()
	if outcome == "accepted" && bytes > 0 {
		c.smtpBytes.Add(float64(bytes))
	}
}

// SetActiveInboxes updates the live inbox gauge.
func (c *Collector) SetActiveInboxes(n int) {
	if c.config.Enabled {
		c.inboxesActive.Set(float64(n))
	}
}

// SSEClientConnected and SSEClientDisconnected track console subscribers.
func (c *Collector) SSEClientConnected() {
	if c.config.Enabled {
		c.sseClients.Inc()
	}
}

func (c *Collector) SSEClientDisconnected() {
	if c.config.Enabled {
		c.sseClients.Dec()
	}
}

// RecordWebhookDelivery records one delivery attempt. status is
// "delivered", "retried", or "failed".
func (c *Collector) RecordWebhookDelivery(status string, duration time.Duration) {
	if !c.config.Enabled {
		return
	}
	c.webhookDeliveries.WithLabelValues(status).Inc()
	c.webhookDuration.Observe(duration.Seconds())
}

// RecordCertRenewal records a renewal attempt. result is "renewed",
// "skipped", or "failed".
func (c *Collector) RecordCertRenewal(result string) {
	if c.config.Enabled {
		c.certRenewals.WithLabelValues(result).Inc()
	}
}

// SetCertExpiryDays updates the certificate expiry gauge.
func (c *Collector) SetCertExpiryDays(days float64) {
	if c.config.Enabled {
		c.certExpiryDays.Set(days)
	}
}

// SetLeader records whether this node currently holds the lease.
func (c *Collector) SetLeader(leader bool) {
	if !c.config.Enabled {
		return
	}
	if leader {
		c.orchestrationLeader.Set(1)
	} else {
		c.orchestrationLeader.Set(0)
	}
}

// HeartbeatSent counts one heartbeat.
func (c *Collector) HeartbeatSent() {
	if c.config.Enabled {
		c.heartbeatsSent.Inc()
	}
}

// Registry exposes the underlying registry for the HTTP handler.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
