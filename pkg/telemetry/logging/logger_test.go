package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_RejectsUnknownLevelAndFormat(t *testing.T) {
	if _, err := New(Config{Level: "verbose"}); err == nil {
		t.Error("unknown level accepted")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("unknown format accepted")
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Level: "warn", Format: "text", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	log.Debug("debug line")
	log.Info("info line")
	log.Warn("warn line")
	log.Error("error line")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Errorf("below-threshold lines emitted: %s", out)
	}
	if !strings.Contains(out, "warn line") || !strings.Contains(out, "error line") {
		t.Errorf("at-threshold lines missing: %s", out)
	}
}

func TestLogger_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	log.Info("message received", "size", 1024)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "message received" {
		t.Errorf("msg = %v", entry["msg"])
	}
	if entry["size"] != float64(1024) {
		t.Errorf("size = %v", entry["size"])
	}
}

func TestLogger_RedactsSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Format: "json", Redact: true, Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	secret := "0123456789abcdef0123456789abcdef"
	log.Info("key provisioned", "api_key", secret, "sender", "alice@example.com")

	out := buf.String()
	if strings.Contains(out, secret) {
		t.Errorf("secret leaked into output: %s", out)
	}
	if strings.Contains(out, "alice@example.com") {
		t.Errorf("address leaked into output: %s", out)
	}
	if !strings.Contains(out, "@example.com") {
		t.Errorf("domain should stay visible: %s", out)
	}
}

func TestLogger_WithAttachesFields(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Config{Format: "json", Writer: &buf})
	if err != nil {
		t.Fatal(err)
	}

	log.With("node_id", "gw-1").Info("heartbeat")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatal(err)
	}
	if entry["node_id"] != "gw-1" {
		t.Errorf("node_id = %v, want gw-1", entry["node_id"])
	}
}
