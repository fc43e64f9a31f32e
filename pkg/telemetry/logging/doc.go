// Package logging provides structured logging for the gateway with
// redaction of secrets and mail addresses.
//
// The logger wraps log/slog with a configurable level and output format.
// When redaction is enabled, API keys, shared secrets, bearer tokens, and
// email addresses are masked before any field reaches the output writer.
// A mail gateway handles other people's addresses on every message, so
// redaction defaults to on.
package logging
