package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector(t *testing.T, enabled bool) *Collector {
	t.Helper()
	return NewCollector(Config{Enabled: enabled}, prometheus.NewRegistry())
}

func TestCollector_RecordsMessages(t *testing.T) {
	c := newTestCollector(t, true)

	c.RecordMessage("accepted", 2048)
	c.RecordMessage("accepted", 1024)
	c.RecordMessage("rejected", 0)

	if got := testutil.ToFloat64(c.smtpMessages.WithLabelValues("accepted")); got != 2 {
		t.Errorf("accepted count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.smtpMessages.WithLabelValues("rejected")); got != 1 {
		t.Errorf("rejected count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(c.smtpBytes); got != 3072 {
		t.Errorf("byte count = %v, want 3072", got)
	}
}

func TestCollector_DisabledRecordsNothing(t *testing.T) {
	c := newTestCollector(t, false)

	c.RecordMessage("accepted", 2048)
	c.SMTPConnectionOpened()
	c.SetActiveInboxes(5)

	if got := testutil.ToFloat64(c.smtpMessages.WithLabelValues("accepted")); got != 0 {
		t.Errorf("disabled collector counted %v messages", got)
	}
	if got := testutil.ToFloat64(c.smtpConnections); got != 0 {
		t.Errorf("disabled collector counted %v connections", got)
	}
}

func TestCollector_ConnectionGauge(t *testing.T) {
	c := newTestCollector(t, true)

	c.SMTPConnectionOpened()
	c.SMTPConnectionOpened()
	c.SMTPConnectionClosed()

	if got := testutil.ToFloat64(c.smtpConnections); got != 1 {
		t.Errorf("connection gauge = %v, want 1", got)
	}
}

func TestCollector_LeaderGauge(t *testing.T) {
	c := newTestCollector(t, true)

	c.SetLeader(true)
	if got := testutil.ToFloat64(c.orchestrationLeader); got != 1 {
		t.Errorf("leader gauge = %v, want 1", got)
	}
	c.SetLeader(false)
	if got := testutil.ToFloat64(c.orchestrationLeader); got != 0 {
		t.Errorf("leader gauge = %v, want 0", got)
	}
}

func TestHandler_ServesExposition(t *testing.T) {
	c := newTestCollector(t, true)
	c.SetBuildInfo("local", "production", "dev")
	c.RecordWebhookDelivery("delivered", 120*time.Millisecond)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	c.Handler().ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("status = %d", rec.Code)
	}
	body, _ := io.ReadAll(rec.Body)
	out := string(body)
	if !strings.Contains(out, "vaultsbx_gateway_build_info") {
		t.Errorf("exposition missing build info:\n%s", out)
	}
	if !strings.Contains(out, "vaultsbx_gateway_webhook_deliveries_total") {
		t.Errorf("exposition missing webhook counter:\n%s", out)
	}
}
