package gateway

import (
	"context"
	"crypto/tls"
	"time"
)

// SMTPEngine receives mail for the configured recipient domains.
type SMTPEngine interface {
	// Start begins accepting connections and returns once the listener
	// is bound. Connection handling continues in the background.
	Start(ctx context.Context) error

	// Shutdown stops accepting connections and drains in-flight
	// sessions until ctx expires.
	Shutdown(ctx context.Context) error

	// ActiveConnections reports currently open sessions.
	ActiveConnections() int
}

// CertificateManager obtains and renews TLS certificates.
type CertificateManager interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error

	// Certificate returns the active certificate, or nil when none has
	// been issued yet.
	Certificate() *tls.Certificate
}

// Orchestrator coordinates multiple gateway nodes through the backend:
// heartbeats, leadership leases, and certificate distribution.
type Orchestrator interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error

	// IsLeader reports whether this node currently holds the lease.
	IsLeader() bool
}

// WebhookSink delivers inbound-mail events to the configured endpoint.
type WebhookSink interface {
	// Deliver posts one event payload. Retries happen inside the sink.
	Deliver(ctx context.Context, payload []byte) error
}

// SpamAnalyzer scores a raw message.
type SpamAnalyzer interface {
	// Score returns the spam score for raw message bytes. The caller
	// compares it against the configured rejection threshold.
	Score(ctx context.Context, raw []byte) (int, error)
}

// ConsoleHub fans live gateway events out to SSE subscribers.
type ConsoleHub interface {
	// Publish broadcasts an event to all connected subscribers.
	Publish(event string, data []byte)

	// Subscribers reports the current subscriber count.
	Subscribers() int

	// Close disconnects all subscribers.
	Close()
}

// noopEngine satisfies the collaborator interfaces for components that
// are disabled by configuration.
type noopEngine struct{}

func (noopEngine) Start(context.Context) error    { return nil }
func (noopEngine) Shutdown(context.Context) error { return nil }
func (noopEngine) ActiveConnections() int         { return 0 }
func (noopEngine) Certificate() *tls.Certificate  { return nil }
func (noopEngine) IsLeader() bool                 { return false }

// NoopSMTPEngine returns an SMTPEngine that does nothing.
func NoopSMTPEngine() SMTPEngine { return noopEngine{} }

// NoopCertificateManager returns a CertificateManager that does nothing.
func NoopCertificateManager() CertificateManager { return noopEngine{} }

// NoopOrchestrator returns an Orchestrator that does nothing.
func NoopOrchestrator() Orchestrator { return noopEngine{} }

// shutdownGrace bounds how long Shutdown waits for each collaborator.
const shutdownGrace = 30 * time.Second
