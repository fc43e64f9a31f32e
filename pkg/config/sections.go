package config

// buildLocalConfig provisions the local-mode API key and inbox settings.
// Only invoked in local gateway mode.
func (b *Builder) buildLocalConfig(dataPath string) (LocalConfig, error) {
	var cfg LocalConfig
	var err error

	strict := parseBool(b.src, "VSB_REQUIRE_API_KEY", false)
	if cfg.APIKey, cfg.APIKeyOrigin, err = b.provisionAPIKey(dataPath, strict); err != nil {
		return cfg, err
	}
	b.log.Info("local API key provisioned", "origin", cfg.APIKeyOrigin)

	if cfg.InboxAliasRandomBytes, err = parseInt(b.src, "VSB_INBOX_ALIAS_RANDOM_BYTES",
		DefaultInboxAliasRandomBytes); err != nil {
		return cfg, err
	}
	if cfg.InboxAliasRandomBytes < MinInboxAliasRandomBytes ||
		cfg.InboxAliasRandomBytes > MaxInboxAliasRandomBytes {
		return cfg, invalidf("VSB_INBOX_ALIAS_RANDOM_BYTES",
			"value %d is outside [%d, %d]", cfg.InboxAliasRandomBytes,
			MinInboxAliasRandomBytes, MaxInboxAliasRandomBytes)
	}

	if cfg.InboxTTLHours, err = parseInt(b.src, "VSB_INBOX_TTL_HOURS",
		DefaultInboxTTLHours); err != nil {
		return cfg, err
	}
	if cfg.MaxInboxes, err = parseInt(b.src, "VSB_MAX_INBOXES", 0); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// buildCrypto configures the webhook signing key pair and token lifetime.
func (b *Builder) buildCrypto() (CryptoConfig, error) {
	var cfg CryptoConfig
	var err error

	cfg.SigningPublicKeyPath, cfg.SigningPrivateKeyPath, err =
		b.checkKeyPairPaths("VSB_SIGNING_PUBLIC_KEY_PATH", "VSB_SIGNING_PRIVATE_KEY_PATH")
	if err != nil {
		return cfg, err
	}

	if cfg.TokenTTLMinutes, err = parseInt(b.src, "VSB_TOKEN_TTL_MINUTES",
		DefaultTokenTTLMinutes); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildThrottle configures connection throttling.
func (b *Builder) buildThrottle() (ThrottleConfig, error) {
	var cfg ThrottleConfig
	var err error

	cfg.Enabled = parseBool(b.src, "VSB_THROTTLE_ENABLED", true)
	if cfg.WindowSeconds, err = parseInt(b.src, "VSB_THROTTLE_WINDOW_SECONDS",
		DefaultThrottleWindowSeconds); err != nil {
		return cfg, err
	}
	if cfg.MaxPerWindow, err = parseInt(b.src, "VSB_THROTTLE_MAX_PER_WINDOW",
		DefaultThrottleMaxPerWindow); err != nil {
		return cfg, err
	}
	if cfg.BanSeconds, err = parseInt(b.src, "VSB_THROTTLE_BAN_SECONDS",
		DefaultThrottleBanSeconds); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildSMTPRateLimit configures per-source SMTP rate limiting.
func (b *Builder) buildSMTPRateLimit() (SMTPRateLimitConfig, error) {
	var cfg SMTPRateLimitConfig
	var err error

	cfg.Enabled = parseBool(b.src, "VSB_SMTP_RATE_LIMIT_ENABLED", true)
	if cfg.MessagesPerHour, err = parseInt(b.src, "VSB_SMTP_RATE_LIMIT_MESSAGES_PER_HOUR",
		DefaultRateLimitMessagesPerHour); err != nil {
		return cfg, err
	}
	if cfg.MaxErrors, err = parseInt(b.src, "VSB_SMTP_RATE_LIMIT_MAX_ERRORS",
		DefaultRateLimitMaxErrors); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildSSEConsole configures the live console stream.
func (b *Builder) buildSSEConsole() (SSEConsoleConfig, error) {
	var cfg SSEConsoleConfig
	var err error

	cfg.Enabled = parseBool(b.src, "VSB_SSE_ENABLED", true)
	if cfg.HeartbeatSeconds, err = parseInt(b.src, "VSB_SSE_HEARTBEAT_SECONDS",
		DefaultSSEHeartbeatSeconds); err != nil {
		return cfg, err
	}
	if cfg.HeartbeatSeconds < 1 {
		return cfg, invalidf("VSB_SSE_HEARTBEAT_SECONDS",
			"value %d must be at least 1", cfg.HeartbeatSeconds)
	}
	if cfg.MaxClients, err = parseInt(b.src, "VSB_SSE_MAX_CLIENTS",
		DefaultSSEMaxClients); err != nil {
		return cfg, err
	}
	if cfg.RetryMillis, err = parseInt(b.src, "VSB_SSE_RETRY_MS",
		DefaultSSERetryMillis); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildWebhook configures webhook delivery. The section is enabled by the
// presence of a URL; signing needs the crypto key pair.
func (b *Builder) buildWebhook(crypto CryptoConfig) (WebhookConfig, error) {
	var cfg WebhookConfig
	var err error

	cfg.URL = parseString(b.src, "VSB_WEBHOOK_URL", "")
	cfg.Enabled = cfg.URL != ""

	if cfg.TimeoutSeconds, err = parseInt(b.src, "VSB_WEBHOOK_TIMEOUT_SECONDS",
		DefaultWebhookTimeoutSeconds); err != nil {
		return cfg, err
	}
	if cfg.MaxRetries, err = parseInt(b.src, "VSB_WEBHOOK_MAX_RETRIES",
		DefaultWebhookMaxRetries); err != nil {
		return cfg, err
	}

	cfg.SignEvents = parseBool(b.src, "VSB_WEBHOOK_SIGN", true)
	if cfg.Enabled && cfg.SignEvents && crypto.SigningPrivateKeyPath == "" {
		b.log.Warn("webhook signing is enabled without a signing key pair; " +
			"events will be delivered unsigned until " +
			"VSB_SIGNING_PUBLIC_KEY_PATH and VSB_SIGNING_PRIVATE_KEY_PATH are set")
	}

	return cfg, nil
}

// buildEmailAuth configures SPF/DKIM/DMARC verification.
func (b *Builder) buildEmailAuth() (EmailAuthConfig, error) {
	var cfg EmailAuthConfig

	cfg.Enabled = parseBool(b.src, "VSB_EMAIL_AUTH_ENABLED", true)
	cfg.CheckSPF = parseBool(b.src, "VSB_EMAIL_AUTH_SPF", true)
	cfg.CheckDKIM = parseBool(b.src, "VSB_EMAIL_AUTH_DKIM", true)
	cfg.CheckDMARC = parseBool(b.src, "VSB_EMAIL_AUTH_DMARC", true)

	cfg.FailAction = parseString(b.src, "VSB_EMAIL_AUTH_FAIL_ACTION", DefaultEmailAuthFailAction)
	switch cfg.FailAction {
	case "tag", "reject":
	default:
		return cfg, invalidf("VSB_EMAIL_AUTH_FAIL_ACTION",
			"unknown action %q, must be \"tag\" or \"reject\"", cfg.FailAction)
	}
	return cfg, nil
}

// buildSpamAnalysis configures the spam-analysis client.
func (b *Builder) buildSpamAnalysis() (SpamAnalysisConfig, error) {
	var cfg SpamAnalysisConfig
	var err error

	cfg.Enabled = parseBool(b.src, "VSB_SPAM_ANALYSIS_ENABLED", false)
	cfg.URL = parseString(b.src, "VSB_SPAM_ANALYSIS_URL", "")
	if cfg.Enabled && cfg.URL == "" {
		return cfg, missingf("VSB_SPAM_ANALYSIS_URL",
			"required when VSB_SPAM_ANALYSIS_ENABLED is set")
	}

	if cfg.TimeoutSeconds, err = parseInt(b.src, "VSB_SPAM_ANALYSIS_TIMEOUT_SECONDS",
		DefaultSpamTimeoutSeconds); err != nil {
		return cfg, err
	}
	if cfg.RejectScore, err = parseInt(b.src, "VSB_SPAM_REJECT_SCORE",
		DefaultSpamRejectScore); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// buildChaos configures fault injection.
func (b *Builder) buildChaos() (ChaosConfig, error) {
	var cfg ChaosConfig
	var err error

	cfg.Enabled = parseBool(b.src, "VSB_CHAOS_ENABLED", false)
	if cfg.FailurePercent, err = parseInt(b.src, "VSB_CHAOS_FAILURE_PERCENT", 0); err != nil {
		return cfg, err
	}
	if cfg.FailurePercent > 100 {
		return cfg, invalidf("VSB_CHAOS_FAILURE_PERCENT",
			"value %d exceeds 100", cfg.FailurePercent)
	}
	if cfg.LatencyMillis, err = parseInt(b.src, "VSB_CHAOS_LATENCY_MS", 0); err != nil {
		return cfg, err
	}
	if cfg.Seed, err = parseInt(b.src, "VSB_CHAOS_SEED", 0); err != nil {
		return cfg, err
	}
	return cfg, nil
}
