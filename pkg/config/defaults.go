package config

// Default values for configuration fields.
const (
	// Main defaults
	DefaultEnvironment = "production"
	DefaultGatewayMode = ModeLocal
	DefaultDataPath    = "./data"
	DefaultHTTPPort    = 80
	DefaultHTTPSPort   = 443
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultMetricsPath = "/metrics"

	// SMTP defaults
	DefaultSMTPHost        = "0.0.0.0"
	DefaultSMTPPort        = 25
	DefaultMaxMessageBytes = 10 * 1024 * 1024
	DefaultMaxConnections  = 100
	DefaultMaxRecipients   = 50

	// TLS hardening defaults
	DefaultTLSMinVersion    = "TLSv1.2"
	DefaultTLSECDHCurve     = "auto"
	DefaultHonorCipherOrder = true

	// Orchestration defaults
	DefaultHeartbeatSeconds = 15
	DefaultLeaseSeconds     = 60

	// Certificate defaults
	DefaultRenewSchedule = "0 3 * * *"

	// Local-mode defaults
	DefaultInboxAliasRandomBytes = 8
	DefaultInboxTTLHours         = 48
	MinInboxAliasRandomBytes     = 4
	MaxInboxAliasRandomBytes     = 32

	// MinAPIKeyLength is the minimum accepted API key length regardless of
	// origin.
	MinAPIKeyLength = 32

	// Crypto defaults
	DefaultTokenTTLMinutes = 60

	// Throttle defaults
	DefaultThrottleWindowSeconds = 60
	DefaultThrottleMaxPerWindow  = 100
	DefaultThrottleBanSeconds    = 300

	// SMTP rate limit defaults
	DefaultRateLimitMessagesPerHour = 200
	DefaultRateLimitMaxErrors       = 5

	// SSE console defaults
	DefaultSSEHeartbeatSeconds = 30
	DefaultSSEMaxClients       = 100
	DefaultSSERetryMillis      = 3000

	// Webhook defaults
	DefaultWebhookTimeoutSeconds = 10
	DefaultWebhookMaxRetries     = 5

	// Email authentication defaults
	DefaultEmailAuthFailAction = "tag"

	// Spam analysis defaults
	DefaultSpamTimeoutSeconds = 5
	DefaultSpamRejectScore    = 15
)

// DefaultCipherList is the default SMTP TLS cipher list: ECDHE AEAD suites
// only, in OpenSSL notation, joined with ":".
const DefaultCipherList = "ECDHE-ECDSA-AES128-GCM-SHA256:" +
	"ECDHE-RSA-AES128-GCM-SHA256:" +
	"ECDHE-ECDSA-AES256-GCM-SHA384:" +
	"ECDHE-RSA-AES256-GCM-SHA384:" +
	"ECDHE-ECDSA-CHACHA20-POLY1305:" +
	"ECDHE-RSA-CHACHA20-POLY1305"

// defaultDisabledCommands are the SMTP verbs refused when
// VSB_SMTP_DISABLED_COMMANDS is not set. VRFY and EXPN leak address
// information.
var defaultDisabledCommands = []string{"VRFY", "EXPN"}
