package main

import (
	"io"
	"path/filepath"
	"testing"

	"vaultsbx/gateway/pkg/config"
	"vaultsbx/gateway/pkg/telemetry/logging"
)

func testLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.New(logging.Config{Format: "text", Writer: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	return log
}

func TestTLSKeyPairPaths_ManualMaterialWins(t *testing.T) {
	snap := &config.Snapshot{
		SMTP: config.SMTPConfig{
			TLS: &config.TLSMaterial{CertPath: "/etc/tls/cert.pem", KeyPath: "/etc/tls/key.pem"},
		},
		Certificate: config.CertificateConfig{Enabled: true, StoragePath: "/data/certificates"},
	}

	cert, key := tlsKeyPairPaths(snap)
	if cert != "/etc/tls/cert.pem" || key != "/etc/tls/key.pem" {
		t.Errorf("paths = (%q, %q), want manual material", cert, key)
	}
}

func TestTLSKeyPairPaths_ManagedStorage(t *testing.T) {
	snap := &config.Snapshot{
		Certificate: config.CertificateConfig{Enabled: true, StoragePath: "/data/certificates"},
	}

	cert, key := tlsKeyPairPaths(snap)
	if cert != filepath.Join("/data/certificates", "tls.crt") ||
		key != filepath.Join("/data/certificates", "tls.key") {
		t.Errorf("paths = (%q, %q), want managed storage layout", cert, key)
	}
}

func TestTLSKeyPairPaths_NoSource(t *testing.T) {
	cert, key := tlsKeyPairPaths(&config.Snapshot{})
	if cert != "" || key != "" {
		t.Errorf("paths = (%q, %q), want none", cert, key)
	}
}

func TestNewKeyPairReloader_PendingBeforeIssuance(t *testing.T) {
	snap := &config.Snapshot{
		Certificate: config.CertificateConfig{Enabled: true, StoragePath: t.TempDir()},
	}

	r := newKeyPairReloader(snap, testLogger(t))
	if r == nil {
		t.Fatal("managed certificates produced no reloader")
	}
	if r.Certificate() != nil {
		t.Error("reloader has a certificate before issuance")
	}

	if r := newKeyPairReloader(&config.Snapshot{}, testLogger(t)); r != nil {
		t.Error("snapshot without a TLS source produced a reloader")
	}
}
