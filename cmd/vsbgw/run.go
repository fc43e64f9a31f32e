package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"vaultsbx/gateway/pkg/config"
	"vaultsbx/gateway/pkg/gateway"
	"vaultsbx/gateway/pkg/server"
	"vaultsbx/gateway/pkg/telemetry/logging"
	"vaultsbx/gateway/pkg/telemetry/metrics"
)

var runFlags struct {
	logLevel  string
	logFormat string
	dryRun    bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the mail gateway",
	Long: `Start the mail gateway with configuration from the environment.

The configuration build is fail-fast: the first invalid or missing
variable aborts startup with an error naming the variable.

Examples:
  # Start in local mode
  VSB_DOMAINS=example.com vsbgw run

  # Validate the environment without starting
  VSB_DOMAINS=example.com vsbgw run --dry-run

  # Override the log level
  vsbgw run --log-level debug`,
	RunE: runGateway,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().StringVar(&runFlags.logFormat, "log-format", "", "override log format (json, text, console)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate configuration without starting")
}

func runGateway(cmd *cobra.Command, args []string) error {
	snap, log, err := buildConfig()
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Println("✓ Configuration valid")
		fmt.Printf("  mode:    %s\n", snap.Main.GatewayMode)
		fmt.Printf("  domains: %d recipient domain(s)\n", len(snap.SMTP.Domains))
		return nil
	}

	collector := metrics.NewCollector(metrics.Config{
		Enabled: snap.Main.MetricsEnabled,
	}, nil)

	console := server.NewConsoleHub(snap.SSEConsole, log)
	defer console.Close()

	serverOpts := server.Options{
		Metrics: collector.Handler(),
		Console: console,
	}
	gwOpts := gateway.Options{
		Metrics: collector,
	}

	if reloader := newKeyPairReloader(snap, log); reloader != nil {
		serverOpts.TLSConfig = &tls.Config{
			MinVersion:     tls.VersionTLS12,
			GetCertificate: reloader.GetCertificateFunc(),
		}
		gwOpts.CertReload = reloader.Reload
	}

	gwOpts.HTTP = server.New(snap, log, serverOpts)

	gw := gateway.New(snap, log, gwOpts)

	return gw.Start(context.Background())
}

// tlsKeyPairPaths picks the key pair backing the TLS listeners. Manual
// material takes precedence over the managed storage layout; neither
// source means the gateway serves plain HTTP only.
func tlsKeyPairPaths(snap *config.Snapshot) (certPath, keyPath string) {
	if snap.SMTP.TLS != nil {
		return snap.SMTP.TLS.CertPath, snap.SMTP.TLS.KeyPath
	}
	if snap.Certificate.Enabled {
		return filepath.Join(snap.Certificate.StoragePath, "tls.crt"),
			filepath.Join(snap.Certificate.StoragePath, "tls.key")
	}
	return "", ""
}

// newKeyPairReloader builds the reloader serving the TLS listeners, or
// nil when no pair is configured. A managed pair that has not been
// issued yet starts pending and goes live on the first reload.
func newKeyPairReloader(snap *config.Snapshot, log *logging.Logger) *gateway.KeyPairReloader {
	certPath, keyPath := tlsKeyPairPaths(snap)
	if certPath == "" {
		return nil
	}
	reloader, err := gateway.NewKeyPairReloader(certPath, keyPath)
	if err != nil {
		log.Warn("certificate pair not loadable yet, handshakes fail until issuance",
			"cert", certPath, "error", err)
		return gateway.NewPendingKeyPairReloader(certPath, keyPath)
	}
	return reloader
}

// buildConfig assembles the snapshot and the logger configured by it.
// Config-build warnings go to a bootstrap logger on stderr, since the
// configured logger cannot exist before the build finishes.
func buildConfig() (*config.Snapshot, *logging.Logger, error) {
	bootstrap, err := logging.New(logging.Config{
		Level:  "info",
		Format: "text",
		Writer: os.Stderr,
	})
	if err != nil {
		return nil, nil, err
	}

	snap, err := config.Build(nil, bootstrap.Slog())
	if err != nil {
		return nil, nil, fmt.Errorf("configuration: %w", err)
	}

	level := snap.Main.LogLevel
	if runFlags.logLevel != "" {
		level = runFlags.logLevel
	}
	format := snap.Main.LogFormat
	if runFlags.logFormat != "" {
		format = runFlags.logFormat
	}

	log, err := logging.New(logging.Config{
		Level:  level,
		Format: format,
		Redact: true,
	})
	if err != nil {
		return nil, nil, err
	}
	return snap, log, nil
}
