package config

// GatewayMode selects how the gateway operates.
type GatewayMode string

const (
	// ModeLocal runs the gateway standalone: inboxes, API keys, webhooks,
	// and spam analysis are handled by this process.
	ModeLocal GatewayMode = "local"

	// ModeBackend runs the gateway in front of a backend service that owns
	// inboxes and API keys.
	ModeBackend GatewayMode = "backend"
)

// Snapshot is the immutable result of one configuration build. Collaborators
// read fields and never mutate them; a new build produces a new snapshot.
type Snapshot struct {
	// Environment is the deployment environment label (e.g. "production").
	Environment string

	// Main contains server-level configuration.
	Main MainConfig

	// SMTP contains the mail-receiving configuration, including the
	// validated recipient-domain list and TLS posture.
	SMTP SMTPConfig

	// Orchestration contains multi-node coordination configuration.
	Orchestration OrchestrationConfig

	// Certificate contains automatic certificate management configuration.
	Certificate CertificateConfig

	// Crypto contains signing and token configuration.
	Crypto CryptoConfig

	// Throttle contains connection throttling configuration.
	Throttle ThrottleConfig

	// SMTPRateLimit contains per-source SMTP rate limiting configuration.
	SMTPRateLimit SMTPRateLimitConfig

	// SSEConsole contains live console stream configuration.
	SSEConsole SSEConsoleConfig

	// Local contains configuration that exists only in local gateway mode.
	// It is nil when Main.GatewayMode is ModeBackend, so backend-mode code
	// cannot observe local-only settings.
	Local *LocalMode
}

// LocalMode groups the sections that are only built in local gateway mode.
type LocalMode struct {
	// API contains local API key and inbox configuration.
	API LocalConfig

	// Webhook contains webhook delivery configuration.
	Webhook WebhookConfig

	// EmailAuth contains SPF/DKIM/DMARC verification configuration.
	EmailAuth EmailAuthConfig

	// SpamAnalysis contains spam-analysis client configuration.
	SpamAnalysis SpamAnalysisConfig

	// Chaos contains fault-injection configuration for resilience testing.
	Chaos ChaosConfig
}

// MainConfig contains server-level configuration.
type MainConfig struct {
	// GatewayMode is "local" or "backend".
	GatewayMode GatewayMode

	// DataPath is the root directory for persisted state: the API key file
	// and the certificate storage directory live under it.
	DataPath string

	// BackendURL is the backend base URL. Required in backend mode and when
	// orchestration is enabled.
	BackendURL string

	// BackendAPIKey authenticates this gateway against the backend.
	BackendAPIKey string

	// HTTPPort is the plain HTTP listen port.
	HTTPPort int

	// HTTPSPort is the TLS listen port, used when HTTPS is enabled.
	HTTPSPort int

	// EnableHTTPS controls the TLS listener. Defaults to the value of
	// Certificate.Enabled unless explicitly overridden.
	EnableHTTPS bool

	// ServerOrigin is the CORS origin honored by the HTTP API. If not set
	// explicitly it is derived as "<http|https>://<first recipient domain>".
	ServerOrigin string

	// LogLevel is the minimum log level ("debug", "info", "warn", "error").
	LogLevel string

	// LogFormat is the log output format ("json", "text", "console").
	LogFormat string

	// MetricsEnabled controls the Prometheus endpoint.
	MetricsEnabled bool

	// MetricsPath is the HTTP path of the Prometheus endpoint.
	MetricsPath string
}

// SMTPConfig contains the mail-receiving configuration.
type SMTPConfig struct {
	// Host is the SMTP listen address.
	Host string

	// Port is the SMTP listen port.
	Port int

	// Hostname is the banner hostname, defaulting to the first recipient
	// domain.
	Hostname string

	// Domains is the validated, lowercased recipient-domain list. Mail for
	// any other domain is rejected to prevent open-relay behavior.
	Domains []string

	// Secure forces TLS on the SMTP listener. Requires either manual TLS
	// material or certificate management.
	Secure bool

	// TLS is the manual TLS material, nil when no cert/key pair is
	// configured.
	TLS *TLSMaterial

	// MaxMessageBytes is the maximum accepted message size.
	MaxMessageBytes int

	// MaxConnections is the maximum number of concurrent SMTP connections.
	MaxConnections int

	// MaxRecipients is the maximum number of recipients per message.
	MaxRecipients int

	// DisabledCommands lists SMTP verbs the engine refuses, uppercased.
	DisabledCommands []string
}

// OrchestrationConfig contains multi-node coordination configuration.
type OrchestrationConfig struct {
	// Enabled turns on multi-node orchestration through the backend.
	Enabled bool

	// NodeID identifies this node. Generated as "<hostname>-<hex8>" when
	// not configured.
	NodeID string

	// HeartbeatSeconds is the node heartbeat interval.
	HeartbeatSeconds int

	// LeaseSeconds is the leadership lease duration. Must exceed the
	// heartbeat interval.
	LeaseSeconds int
}

// CertificateConfig contains automatic certificate management configuration.
type CertificateConfig struct {
	// Enabled turns on ACME certificate management.
	Enabled bool

	// Email is the ACME account contact, optional. Without it expiry
	// notifications are unavailable.
	Email string

	// Domain is the primary certificate domain. Auto-derived from the first
	// recipient domain when not set explicitly.
	Domain string

	// AdditionalDomains are extra SANs covered by the certificate.
	AdditionalDomains []string

	// Staging selects the ACME staging environment.
	Staging bool

	// RenewSchedule is a cron expression for renewal checks.
	RenewSchedule string

	// StoragePath is where issued certificates are stored, always
	// <dataPath>/certificates.
	StoragePath string

	// PeerSharedSecret authenticates peer nodes exchanging issued
	// certificates. Generated when not configured.
	PeerSharedSecret string

	// PeerSecretGenerated records whether PeerSharedSecret was generated
	// rather than supplied; used for advisory logging only.
	PeerSecretGenerated bool
}

// LocalConfig contains local-mode API key and inbox configuration.
type LocalConfig struct {
	// APIKey authenticates API clients. Always at least 32 characters,
	// regardless of origin.
	APIKey string

	// APIKeyOrigin records where the key came from: "environment",
	// "persisted-file", or "generated". Drives logging only.
	APIKeyOrigin string

	// InboxAliasRandomBytes is the entropy of generated inbox aliases,
	// between 4 and 32.
	InboxAliasRandomBytes int

	// InboxTTLHours is the inbox lifetime.
	InboxTTLHours int

	// MaxInboxes caps concurrently live inboxes. Zero means unlimited.
	MaxInboxes int
}

// CryptoConfig contains signing and token configuration.
type CryptoConfig struct {
	// SigningPublicKeyPath and SigningPrivateKeyPath point to a PEM key
	// pair used to sign webhook events. Both or neither must be set.
	SigningPublicKeyPath  string
	SigningPrivateKeyPath string

	// TokenTTLMinutes is the lifetime of issued access tokens.
	TokenTTLMinutes int
}

// ThrottleConfig contains connection throttling configuration.
type ThrottleConfig struct {
	// Enabled turns on connection throttling.
	Enabled bool

	// WindowSeconds is the sliding window length.
	WindowSeconds int

	// MaxPerWindow is the connection budget per source per window.
	MaxPerWindow int

	// BanSeconds is how long a source exceeding the budget is refused.
	BanSeconds int
}

// SMTPRateLimitConfig contains per-source SMTP rate limiting configuration.
type SMTPRateLimitConfig struct {
	// Enabled turns on SMTP rate limiting.
	Enabled bool

	// MessagesPerHour is the per-source-IP message budget.
	MessagesPerHour int

	// MaxErrors is the number of protocol errors tolerated per connection
	// before it is dropped.
	MaxErrors int
}

// SSEConsoleConfig contains live console stream configuration.
type SSEConsoleConfig struct {
	// Enabled turns on the SSE console endpoint.
	Enabled bool

	// HeartbeatSeconds is the keep-alive comment interval.
	HeartbeatSeconds int

	// MaxClients caps concurrent console subscribers.
	MaxClients int

	// RetryMillis is the reconnect delay advertised to clients.
	RetryMillis int
}

// WebhookConfig contains webhook delivery configuration.
type WebhookConfig struct {
	// Enabled is true when a webhook URL is configured.
	Enabled bool

	// URL is the delivery endpoint.
	URL string

	// TimeoutSeconds is the per-delivery timeout.
	TimeoutSeconds int

	// MaxRetries is the number of redelivery attempts.
	MaxRetries int

	// SignEvents enables event signing with the crypto key pair.
	SignEvents bool
}

// EmailAuthConfig contains SPF/DKIM/DMARC verification configuration.
type EmailAuthConfig struct {
	// Enabled turns on email authentication checks.
	Enabled bool

	// CheckSPF, CheckDKIM, and CheckDMARC toggle the individual checks.
	CheckSPF   bool
	CheckDKIM  bool
	CheckDMARC bool

	// FailAction is what happens to failing mail: "tag" or "reject".
	FailAction string
}

// SpamAnalysisConfig contains spam-analysis client configuration.
type SpamAnalysisConfig struct {
	// Enabled turns on spam analysis.
	Enabled bool

	// URL is the analysis service endpoint. Required when enabled.
	URL string

	// TimeoutSeconds is the per-scan timeout.
	TimeoutSeconds int

	// RejectScore is the score at or above which mail is rejected.
	RejectScore int
}

// ChaosConfig contains fault-injection configuration.
type ChaosConfig struct {
	// Enabled turns on fault injection. Never enable in production.
	Enabled bool

	// FailurePercent is the share of operations to fail, 0-100.
	FailurePercent int

	// LatencyMillis is artificial latency added to operations.
	LatencyMillis int

	// Seed seeds the fault source for reproducible runs. Zero means a
	// random seed.
	Seed int
}
