package gateway

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"vaultsbx/gateway/pkg/config"
	"vaultsbx/gateway/pkg/telemetry/logging"
)

func discardLogger(t *testing.T) *logging.Logger {
	t.Helper()
	log, err := logging.New(logging.Config{Format: "text", Writer: io.Discard})
	if err != nil {
		t.Fatal(err)
	}
	return log
}

// stubRunner records lifecycle calls in order.
type stubRunner struct {
	name  string
	trace *callTrace
	fail  error
}

type callTrace struct {
	mu    sync.Mutex
	calls []string
}

func (c *callTrace) add(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, s)
}

func (c *callTrace) list() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.calls...)
}

func (s *stubRunner) Start(context.Context) error {
	s.trace.add(s.name + ".start")
	return s.fail
}

func (s *stubRunner) Shutdown(context.Context) error {
	s.trace.add(s.name + ".stop")
	return nil
}

func (s *stubRunner) ActiveConnections() int { return 0 }

func testSnapshot(orchestration bool) *config.Snapshot {
	return &config.Snapshot{
		Environment: "test",
		Main:        config.MainConfig{GatewayMode: config.ModeLocal},
		Orchestration: config.OrchestrationConfig{
			Enabled: orchestration,
		},
	}
}

func TestGateway_StartStopLifecycle(t *testing.T) {
	trace := &callTrace{}
	smtp := &stubRunner{name: "smtp", trace: trace}
	httpFront := &stubRunner{name: "http", trace: trace}

	g := New(testSnapshot(false), discardLogger(t), Options{
		SMTP: smtp,
		HTTP: httpFront,
	})

	done := make(chan error, 1)
	go func() { done <- g.Start(context.Background()) }()

	// Wait for the gateway to come up before stopping it.
	deadline := time.After(2 * time.Second)
	for !g.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("gateway never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	g.Stop()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after Stop")
	}

	calls := trace.list()
	want := []string{"smtp.start", "http.start", "http.stop", "smtp.stop"}
	if len(calls) != len(want) {
		t.Fatalf("calls = %v, want %v", calls, want)
	}
	for i := range want {
		if calls[i] != want[i] {
			t.Fatalf("calls = %v, want %v", calls, want)
		}
	}
}

func TestGateway_ContextCancelShutsDown(t *testing.T) {
	trace := &callTrace{}
	g := New(testSnapshot(false), discardLogger(t), Options{
		SMTP: &stubRunner{name: "smtp", trace: trace},
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- g.Start(ctx) }()

	deadline := time.After(2 * time.Second)
	for !g.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("gateway never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Start returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
	if g.IsRunning() {
		t.Error("gateway still running after shutdown")
	}
}

func TestGateway_StartFailurePropagates(t *testing.T) {
	trace := &callTrace{}
	smtp := &stubRunner{name: "smtp", trace: trace, fail: context.DeadlineExceeded}

	g := New(testSnapshot(false), discardLogger(t), Options{SMTP: smtp})
	if err := g.Start(context.Background()); err == nil {
		t.Fatal("failed SMTP start did not propagate")
	}
}

func TestGateway_OrchestratorOnlyWhenEnabled(t *testing.T) {
	trace := &callTrace{}
	orch := &stubRunner{name: "orch", trace: trace}

	g := New(testSnapshot(false), discardLogger(t), Options{
		SMTP:         &stubRunner{name: "smtp", trace: trace},
		Orchestrator: orchAdapter{orch},
	})

	done := make(chan error, 1)
	go func() { done <- g.Start(context.Background()) }()
	deadline := time.After(2 * time.Second)
	for !g.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("gateway never started")
		case <-time.After(5 * time.Millisecond):
		}
	}
	g.Stop()
	<-done

	for _, call := range trace.list() {
		if call == "orch.start" {
			t.Error("orchestrator started despite being disabled")
		}
	}
}

// orchAdapter gives a stubRunner the Orchestrator shape.
type orchAdapter struct{ *stubRunner }

func (orchAdapter) IsLeader() bool { return false }

func TestGateway_CertChangeTriggersReload(t *testing.T) {
	storage := t.TempDir()
	snap := testSnapshot(false)
	snap.Certificate = config.CertificateConfig{Enabled: true, StoragePath: storage}

	reloaded := make(chan struct{}, 4)
	g := New(snap, discardLogger(t), Options{
		SMTP: &stubRunner{name: "smtp", trace: &callTrace{}},
		CertReload: func() error {
			select {
			case reloaded <- struct{}{}:
			default:
			}
			return nil
		},
	})

	done := make(chan error, 1)
	go func() { done <- g.Start(context.Background()) }()
	deadline := time.After(2 * time.Second)
	for !g.IsRunning() {
		select {
		case <-deadline:
			t.Fatal("gateway never started")
		case <-time.After(5 * time.Millisecond):
		}
	}

	if err := os.WriteFile(filepath.Join(storage, "tls.crt"), []byte("pem bytes"), 0o600); err != nil {
		t.Fatal(err)
	}
	select {
	case <-reloaded:
	case <-time.After(3 * time.Second):
		t.Fatal("certificate change did not trigger a reload")
	}

	g.Stop()
	if err := <-done; err != nil {
		t.Fatalf("Start returned %v", err)
	}
}

func TestGateway_InstanceIDsAreUnique(t *testing.T) {
	a := New(testSnapshot(false), discardLogger(t), Options{})
	b := New(testSnapshot(false), discardLogger(t), Options{})
	if a.InstanceID() == b.InstanceID() {
		t.Error("two gateways share an instance ID")
	}
	if a.InstanceID() == "" {
		t.Error("empty instance ID")
	}
}
