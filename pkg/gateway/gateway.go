package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/google/uuid"

	"vaultsbx/gateway/pkg/config"
	"vaultsbx/gateway/pkg/telemetry/logging"
	"vaultsbx/gateway/pkg/telemetry/metrics"
)

// Gateway is the running mail gateway process.
type Gateway struct {
	snap    *config.Snapshot
	log     *logging.Logger
	metrics *metrics.Collector

	// instanceID distinguishes process restarts of the same node in
	// logs and events.
	instanceID string

	smtp  SMTPEngine
	certs CertificateManager
	orch  Orchestrator
	http  Runner

	certWatcher *CertWatcher
	certReload  func() error

	shutdownOnce sync.Once
	shutdownCh   chan struct{}

	mu      sync.RWMutex
	running bool
}

// Runner is the lifecycle contract of the HTTP front.
type Runner interface {
	Start(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

// Options carries the collaborators for a Gateway. Nil collaborators
// are replaced with no-ops, so partial deployments (for example backend
// mode without certificate management) need no special casing.
type Options struct {
	SMTP         SMTPEngine
	Certificates CertificateManager
	Orchestrator Orchestrator
	HTTP         Runner
	Metrics      *metrics.Collector

	// CertReload is invoked when a file in the certificate storage
	// directory changes, so renewed pairs go live without a restart.
	CertReload func() error
}

// New creates a Gateway from a built configuration snapshot.
func New(snap *config.Snapshot, log *logging.Logger, opts Options) *Gateway {
	if opts.SMTP == nil {
		opts.SMTP = NoopSMTPEngine()
	}
	if opts.Certificates == nil {
		opts.Certificates = NoopCertificateManager()
	}
	if opts.Orchestrator == nil {
		opts.Orchestrator = NoopOrchestrator()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewCollector(metrics.Config{}, nil)
	}

	return &Gateway{
		snap:       snap,
		log:        log,
		metrics:    opts.Metrics,
		instanceID: uuid.NewString(),
		smtp:       opts.SMTP,
		certs:      opts.Certificates,
		orch:       opts.Orchestrator,
		http:       opts.HTTP,
		certReload: opts.CertReload,
		shutdownCh: make(chan struct{}),
	}
}

// InstanceID returns the per-process identifier.
func (g *Gateway) InstanceID() string {
	return g.instanceID
}

// Start brings up the collaborators and blocks until ctx is cancelled,
// a termination signal arrives, or Stop is called.
func (g *Gateway) Start(ctx context.Context) error {
	g.mu.Lock()
	if g.running {
		g.mu.Unlock()
		return fmt.Errorf("gateway is already running")
	}
	g.running = true
	g.mu.Unlock()

	g.log.Info("starting gateway",
		"mode", string(g.snap.Main.GatewayMode),
		"environment", g.snap.Environment,
		"instance_id", g.instanceID,
	)

	// Certificates first: the SMTP engine and HTTP front may need TLS
	// material from the manager.
	if err := g.certs.Start(ctx); err != nil {
		return fmt.Errorf("start certificate manager: %w", err)
	}

	if g.snap.Certificate.Enabled {
		w, err := NewCertWatcher(g.snap.Certificate.StoragePath, g.log)
		if err != nil {
			// The storage directory may not exist before first issuance;
			// the gateway runs without hot reload until restart.
			g.log.Warn("certificate watcher unavailable", "error", err)
		} else {
			g.certWatcher = w
			if g.certReload != nil {
				g.certWatcher.OnChange(func(string) {
					if err := g.certReload(); err != nil {
						g.log.Warn("certificate reload failed", "error", err)
					}
				})
			}
			g.certWatcher.Start()
		}
	}

	if err := g.smtp.Start(ctx); err != nil {
		return fmt.Errorf("start SMTP engine: %w", err)
	}
	if g.http != nil {
		if err := g.http.Start(ctx); err != nil {
			return fmt.Errorf("start HTTP front: %w", err)
		}
	}
	if g.snap.Orchestration.Enabled {
		if err := g.orch.Start(ctx); err != nil {
			return fmt.Errorf("start orchestrator: %w", err)
		}
	}

	g.metrics.SetBuildInfo(string(g.snap.Main.GatewayMode), g.snap.Environment, g.instanceID)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-ctx.Done():
		g.log.Info("context cancelled, shutting down")
	case sig := <-sigCh:
		g.log.Info("received shutdown signal", "signal", sig.String())
	case <-g.shutdownCh:
		g.log.Info("shutdown requested")
	}

	return g.Shutdown(context.Background())
}

// Stop requests shutdown from another goroutine. Safe to call more
// than once.
func (g *Gateway) Stop() {
	g.shutdownOnce.Do(func() { close(g.shutdownCh) })
}

// Shutdown tears the collaborators down in reverse start order.
func (g *Gateway) Shutdown(ctx context.Context) error {
	g.mu.Lock()
	if !g.running {
		g.mu.Unlock()
		return nil
	}
	g.running = false
	g.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, shutdownGrace)
	defer cancel()

	var firstErr error
	record := func(what string, err error) {
		if err != nil {
			g.log.Error("shutdown error", "component", what, "error", err)
			if firstErr == nil {
				firstErr = fmt.Errorf("shutdown %s: %w", what, err)
			}
		}
	}

	if g.snap.Orchestration.Enabled {
		record("orchestrator", g.orch.Shutdown(ctx))
	}
	if g.http != nil {
		record("http front", g.http.Shutdown(ctx))
	}
	record("smtp engine", g.smtp.Shutdown(ctx))
	if g.certWatcher != nil {
		record("certificate watcher", g.certWatcher.Close())
	}
	record("certificate manager", g.certs.Shutdown(ctx))

	g.log.Info("gateway stopped", "instance_id", g.instanceID)
	return firstErr
}

// IsRunning reports whether Start is active.
func (g *Gateway) IsRunning() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.running
}
