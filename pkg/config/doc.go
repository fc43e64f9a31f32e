// Package config builds, validates, and assembles the startup configuration
// for the VaultSBX gateway.
//
// Configuration is read from environment variables (prefix VSB_) through an
// injected Source, parsed with typed default-aware parsers, and assembled
// into a single immutable Snapshot. The build is fail-fast: the first
// section builder that encounters an invalid or missing value aborts the
// whole build and no partial snapshot is ever returned.
//
// # Build Pipeline
//
// Sections are built in dependency order:
//
//  1. SMTP: establishes the validated recipient-domain list and TLS posture
//  2. Main: gateway mode, ports, data path, derived CORS origin
//  3. Orchestration: multi-node coordination settings
//  4. Certificate: ACME settings, domain auto-derived from the SMTP section
//  5. Local mode: API key provisioning, inbox settings (local mode only)
//  6. Crypto, Throttle, SMTPRateLimit, SSEConsole
//  7. Webhook, EmailAuth, SpamAnalysis, Chaos (local mode only)
//
// # Gateway Modes
//
// The gateway runs either standalone ("local") or in front of a backend
// ("backend"). Sections that only exist in local mode live under
// Snapshot.Local, which is nil in backend mode, so backend-mode code cannot
// observe local-only configuration.
//
// # Secret Provisioning
//
// The local-mode API key is resolved through a strict precedence chain:
// environment value, then a persisted file at <dataPath>/.api-key, then
// generation with persistence. A generated key that cannot be persisted
// fails the build, since it would not survive a restart.
//
// # Error Taxonomy
//
// All build failures are config.Error values with one of four kinds:
// missing required value, invalid format, cross-field conflict, or
// persistence failure. Advisory conditions (auto-generated secrets in
// multi-node setups, HTTPS without certificate management, and similar)
// are logged as warnings and never fail the build.
//
// For deterministic tests, pass a config.Map as the Source:
//
//	snap, err := config.NewBuilder(config.Map{
//	    "VSB_DOMAINS": "example.com",
//	}, nil).Build()
package config
