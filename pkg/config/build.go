package config

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/robfig/cron/v3"
)

// Builder assembles a configuration Snapshot from a Source. The build is
// synchronous and single-pass; every step, including file reads and writes,
// is a blocking call executed in sequence.
type Builder struct {
	src Source
	log *slog.Logger
}

// NewBuilder returns a Builder reading from src and logging advisory
// warnings through log. A nil src reads the process environment; a nil log
// uses slog.Default.
func NewBuilder(src Source, log *slog.Logger) *Builder {
	if src == nil {
		src = OSEnv{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Builder{src: src, log: log}
}

// Build assembles the configuration. Sections are built in the order that
// satisfies their data dependencies; the first section to fail aborts the
// entire build and no partial snapshot is returned.
func Build(src Source, log *slog.Logger) (*Snapshot, error) {
	return NewBuilder(src, log).Build()
}

// Build assembles the configuration snapshot.
func (b *Builder) Build() (*Snapshot, error) {
	// The certificate-management flag feeds cross-field checks in sections
	// built before the certificate section itself.
	certEnabled := parseBool(b.src, "VSB_CERT_ENABLED", false)

	smtp, err := b.buildSMTP(certEnabled)
	if err != nil {
		return nil, err
	}

	main, err := b.buildMain(certEnabled, smtp.Domains)
	if err != nil {
		return nil, err
	}

	orch, err := b.buildOrchestration(main)
	if err != nil {
		return nil, err
	}

	cert, err := b.buildCertificate(certEnabled, smtp, orch, main.DataPath)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Environment:   parseString(b.src, "VSB_ENV", DefaultEnvironment),
		Main:          main,
		SMTP:          smtp,
		Orchestration: orch,
		Certificate:   cert,
	}

	if main.GatewayMode == ModeLocal {
		local, err := b.buildLocalConfig(main.DataPath)
		if err != nil {
			return nil, err
		}
		snap.Local = &LocalMode{API: local}
	}

	if snap.Crypto, err = b.buildCrypto(); err != nil {
		return nil, err
	}
	if snap.Throttle, err = b.buildThrottle(); err != nil {
		return nil, err
	}
	if snap.SMTPRateLimit, err = b.buildSMTPRateLimit(); err != nil {
		return nil, err
	}
	if snap.SSEConsole, err = b.buildSSEConsole(); err != nil {
		return nil, err
	}

	if snap.Local != nil {
		if snap.Local.Webhook, err = b.buildWebhook(snap.Crypto); err != nil {
			return nil, err
		}
		if snap.Local.EmailAuth, err = b.buildEmailAuth(); err != nil {
			return nil, err
		}
		if snap.Local.SpamAnalysis, err = b.buildSpamAnalysis(); err != nil {
			return nil, err
		}
		if snap.Local.Chaos, err = b.buildChaos(); err != nil {
			return nil, err
		}
	}

	return snap, nil
}

// buildSMTP establishes the validated recipient-domain list and the TLS
// posture of the mail listener. It runs first: later sections derive
// values from the domain list.
func (b *Builder) buildSMTP(certEnabled bool) (SMTPConfig, error) {
	var cfg SMTPConfig
	var err error

	cfg.Domains, err = parseList(b.src, "VSB_DOMAINS", nil, foldLower)
	if err != nil {
		return cfg, err
	}
	var bad []string
	for _, d := range cfg.Domains {
		if !IsValidDomain(d) {
			bad = append(bad, d)
		}
	}
	if len(bad) > 0 {
		return cfg, invalidf("VSB_DOMAINS", "invalid recipient domain(s): %s",
			strings.Join(bad, ", "))
	}

	cfg.Host = parseString(b.src, "VSB_SMTP_HOST", DefaultSMTPHost)
	if cfg.Port, err = parseInt(b.src, "VSB_SMTP_PORT", DefaultSMTPPort); err != nil {
		return cfg, err
	}
	cfg.Hostname = parseString(b.src, "VSB_SMTP_HOSTNAME", cfg.Domains[0])
	cfg.Secure = parseBool(b.src, "VSB_SMTP_SECURE", false)

	if cfg.TLS, err = b.loadTLSMaterial("VSB_SMTP_TLS_CERT_PATH", "VSB_SMTP_TLS_KEY_PATH"); err != nil {
		return cfg, err
	}

	if cfg.Secure && cfg.TLS == nil && !certEnabled {
		return cfg, conflictf("VSB_SMTP_SECURE is set but no TLS source is available; " +
			"either provide VSB_SMTP_TLS_CERT_PATH and VSB_SMTP_TLS_KEY_PATH, " +
			"or enable certificate management with VSB_CERT_ENABLED")
	}
	if cfg.Secure && cfg.Port == 25 {
		b.log.Warn("forced TLS on port 25 will refuse plain-text senders; " +
			"most MTAs expect STARTTLS on 25 and implicit TLS on 465")
	}
	if cfg.TLS != nil && certEnabled {
		b.log.Warn("both manual TLS material and certificate management are configured; " +
			"the manual certificate takes precedence for the SMTP listener")
	}

	if cfg.MaxMessageBytes, err = parseInt(b.src, "VSB_SMTP_MAX_MESSAGE_BYTES", DefaultMaxMessageBytes); err != nil {
		return cfg, err
	}
	if cfg.MaxConnections, err = parseInt(b.src, "VSB_SMTP_MAX_CONNECTIONS", DefaultMaxConnections); err != nil {
		return cfg, err
	}
	if cfg.MaxRecipients, err = parseInt(b.src, "VSB_SMTP_MAX_RECIPIENTS", DefaultMaxRecipients); err != nil {
		return cfg, err
	}
	if cfg.DisabledCommands, err = parseList(b.src, "VSB_SMTP_DISABLED_COMMANDS",
		defaultDisabledCommands, foldUpper); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// buildMain validates the gateway mode and derives the HTTPS flag and CORS
// origin. domains is the validated recipient-domain list from the SMTP
// section; it is never empty because the domain-list parser fails first.
func (b *Builder) buildMain(certEnabled bool, domains []string) (MainConfig, error) {
	var cfg MainConfig
	var err error

	mode := GatewayMode(parseString(b.src, "VSB_GATEWAY_MODE", string(DefaultGatewayMode)))
	if mode != ModeLocal && mode != ModeBackend {
		return cfg, invalidf("VSB_GATEWAY_MODE",
			"unknown gateway mode %q, must be %q or %q", mode, ModeLocal, ModeBackend)
	}
	cfg.GatewayMode = mode

	cfg.DataPath = parseString(b.src, "VSB_DATA_PATH", DefaultDataPath)
	cfg.BackendURL = parseString(b.src, "VSB_BACKEND_URL", "")
	cfg.BackendAPIKey = parseString(b.src, "VSB_BACKEND_API_KEY", "")

	if cfg.HTTPPort, err = parseInt(b.src, "VSB_HTTP_PORT", DefaultHTTPPort); err != nil {
		return cfg, err
	}
	if cfg.HTTPSPort, err = parseInt(b.src, "VSB_HTTPS_PORT", DefaultHTTPSPort); err != nil {
		return cfg, err
	}

	cfg.EnableHTTPS = parseBool(b.src, "VSB_ENABLE_HTTPS", certEnabled)
	if cfg.EnableHTTPS && !certEnabled {
		b.log.Warn("HTTPS is enabled without certificate management; " +
			"the HTTPS listener needs externally provisioned certificates")
	}

	// An explicit origin, including the literal wildcard, is honored
	// verbatim.
	if origin, ok := b.src.Lookup("VSB_SERVER_ORIGIN"); ok && origin != "" {
		cfg.ServerOrigin = origin
	} else {
		scheme := "http"
		if cfg.EnableHTTPS {
			scheme = "https"
		}
		cfg.ServerOrigin = scheme + "://" + domains[0]
	}

	missingBackend := strings.TrimSpace(cfg.BackendURL) == "" ||
		strings.TrimSpace(cfg.BackendAPIKey) == ""
	if mode == ModeBackend && missingBackend {
		return cfg, conflictf("gateway mode %q requires backend credentials; "+
			"set both VSB_BACKEND_URL and VSB_BACKEND_API_KEY", ModeBackend)
	}
	if parseBool(b.src, "VSB_ORCHESTRATION_ENABLED", false) && missingBackend {
		return cfg, conflictf("orchestration is enabled but backend credentials are missing; " +
			"set both VSB_BACKEND_URL and VSB_BACKEND_API_KEY")
	}

	cfg.LogLevel = parseString(b.src, "VSB_LOG_LEVEL", DefaultLogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return cfg, invalidf("VSB_LOG_LEVEL",
			"unknown level %q, must be debug, info, warn, or error", cfg.LogLevel)
	}
	cfg.LogFormat = parseString(b.src, "VSB_LOG_FORMAT", DefaultLogFormat)
	switch cfg.LogFormat {
	case "json", "text", "console":
	default:
		return cfg, invalidf("VSB_LOG_FORMAT",
			"unknown format %q, must be json, text, or console", cfg.LogFormat)
	}

	cfg.MetricsEnabled = parseBool(b.src, "VSB_METRICS_ENABLED", true)
	cfg.MetricsPath = parseString(b.src, "VSB_METRICS_PATH", DefaultMetricsPath)

	return cfg, nil
}

// buildOrchestration configures multi-node coordination. The backend
// credential requirement is checked by the main section.
func (b *Builder) buildOrchestration(main MainConfig) (OrchestrationConfig, error) {
	var cfg OrchestrationConfig
	var err error

	cfg.Enabled = parseBool(b.src, "VSB_ORCHESTRATION_ENABLED", false)

	cfg.NodeID = parseString(b.src, "VSB_ORCHESTRATION_NODE_ID", "")
	if cfg.NodeID == "" {
		if cfg.NodeID, err = generateNodeID(); err != nil {
			return cfg, err
		}
	}

	if cfg.HeartbeatSeconds, err = parseInt(b.src, "VSB_ORCHESTRATION_HEARTBEAT_SECONDS",
		DefaultHeartbeatSeconds); err != nil {
		return cfg, err
	}
	if cfg.LeaseSeconds, err = parseInt(b.src, "VSB_ORCHESTRATION_LEASE_SECONDS",
		DefaultLeaseSeconds); err != nil {
		return cfg, err
	}
	if cfg.LeaseSeconds <= cfg.HeartbeatSeconds {
		return cfg, conflictf("VSB_ORCHESTRATION_LEASE_SECONDS (%d) must exceed "+
			"VSB_ORCHESTRATION_HEARTBEAT_SECONDS (%d), or leadership flaps on every beat",
			cfg.LeaseSeconds, cfg.HeartbeatSeconds)
	}

	return cfg, nil
}

// buildCertificate configures certificate management. firstDomain
// auto-derivation depends on the SMTP section having already validated a
// non-empty domain list; it is passed in rather than re-derived.
func (b *Builder) buildCertificate(enabled bool, smtp SMTPConfig, orch OrchestrationConfig, dataPath string) (CertificateConfig, error) {
	var cfg CertificateConfig
	var err error

	cfg.Enabled = enabled
	cfg.Email = parseString(b.src, "VSB_CERT_EMAIL", "")
	if cfg.Enabled && cfg.Email == "" {
		b.log.Info("no certificate contact email configured; " +
			"expiry notifications will be unavailable")
	}

	cfg.Domain = parseString(b.src, "VSB_CERT_DOMAIN", "")
	if cfg.Domain == "" {
		cfg.Domain = smtp.Domains[0]
	}

	cfg.AdditionalDomains, err = parseList(b.src, "VSB_CERT_ADDITIONAL_DOMAINS",
		[]string{}, foldLower)
	if err != nil {
		return cfg, err
	}
	var bad []string
	for _, d := range cfg.AdditionalDomains {
		if !IsValidDomain(d) {
			bad = append(bad, d)
		}
	}
	if len(bad) > 0 {
		return cfg, invalidf("VSB_CERT_ADDITIONAL_DOMAINS",
			"invalid domain(s): %s", strings.Join(bad, ", "))
	}

	cfg.Staging = parseBool(b.src, "VSB_CERT_STAGING", false)

	cfg.RenewSchedule = parseString(b.src, "VSB_CERT_RENEW_SCHEDULE", DefaultRenewSchedule)
	if _, err := cron.ParseStandard(cfg.RenewSchedule); err != nil {
		return cfg, &Error{Kind: KindInvalidFormat, Var: "VSB_CERT_RENEW_SCHEDULE",
			Message: "not a valid cron expression", Err: err}
	}

	cfg.StoragePath = filepath.Join(dataPath, "certificates")

	cfg.PeerSharedSecret = parseString(b.src, "VSB_CERT_SHARED_SECRET", "")
	if cfg.PeerSharedSecret == "" && cfg.Enabled {
		if cfg.PeerSharedSecret, err = generateSharedSecret(); err != nil {
			return cfg, err
		}
		cfg.PeerSecretGenerated = true
		if orch.Enabled {
			b.log.Warn("multi-node orchestration with certificate management is using " +
				"an auto-generated shared secret; set VSB_CERT_SHARED_SECRET so all " +
				"nodes agree on one value")
		}
	}

	return cfg, nil
}
