package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
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

func testSnapshot() *config.Snapshot {
	return &config.Snapshot{
		Environment: "test",
		Main: config.MainConfig{
			GatewayMode:    config.ModeLocal,
			HTTPPort:       8080,
			HTTPSPort:      8443,
			ServerOrigin:   "http://first.com",
			MetricsEnabled: true,
			MetricsPath:    "/metrics",
		},
	}
}

// freePort reserves an ephemeral port and releases it for the test to use.
func freePort(t *testing.T) int {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	port := ln.Addr().(*net.TCPAddr).Port
	ln.Close()
	return port
}

func TestStart_HTTPSWithoutTLSLeavesNothingBound(t *testing.T) {
	port := freePort(t)
	snap := testSnapshot()
	snap.Main.HTTPPort = port
	snap.Main.EnableHTTPS = true

	s := New(snap, discardLogger(t), Options{})
	if err := s.Start(context.Background()); err == nil {
		t.Fatal("HTTPS without TLS material did not fail Start")
	}

	// The failed start must not leave the plain listener running.
	if conn, err := net.DialTimeout("tcp",
		fmt.Sprintf("127.0.0.1:%d", port), 200*time.Millisecond); err == nil {
		conn.Close()
		t.Fatal("plain HTTP port is bound after a failed start")
	}
	if err := s.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown after failed start: %v", err)
	}
}

func TestHandler_Health(t *testing.T) {
	s := New(testSnapshot(), discardLogger(t), Options{})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"mode":"local"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestHandler_ReadyReflectsProbe(t *testing.T) {
	probeErr := error(nil)
	s := New(testSnapshot(), discardLogger(t), Options{
		Ready: func() error { return probeErr },
	})
	h := s.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("ready status = %d, want 200", rec.Code)
	}

	probeErr = errors.New("smtp listener down")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/ready", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("unready status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "smtp listener down") {
		t.Errorf("body does not carry the reason: %s", rec.Body.String())
	}
}

func TestHandler_MetricsMountHonorsConfig(t *testing.T) {
	served := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("metrics here"))
	})

	s := New(testSnapshot(), discardLogger(t), Options{Metrics: served})
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if !strings.Contains(rec.Body.String(), "metrics here") {
		t.Error("metrics handler not mounted")
	}

	snap := testSnapshot()
	snap.Main.MetricsEnabled = false
	s = New(snap, discardLogger(t), Options{Metrics: served})
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled metrics endpoint returned %d, want 404", rec.Code)
	}
}

func TestRequestID_GeneratedAndEchoed(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	})

	rec := httptest.NewRecorder()
	RequestID(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if seen == "" {
		t.Fatal("no request ID in context")
	}
	if got := rec.Header().Get(RequestIDHeader); got != seen {
		t.Errorf("header ID %q != context ID %q", got, seen)
	}

	// Client-supplied IDs pass through.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set(RequestIDHeader, "client-chosen")
	rec = httptest.NewRecorder()
	RequestID(inner).ServeHTTP(rec, req)
	if seen != "client-chosen" {
		t.Errorf("context ID = %q, want client-chosen", seen)
	}
}

func TestCORS_SingleOriginPolicy(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := CORS("http://first.com")(inner)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://first.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://first.com" {
		t.Errorf("allowed origin header = %q", got)
	}

	req = httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://evil.com")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin got header %q", got)
	}
}

func TestCORS_Wildcard(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := CORS("*")(inner)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("wildcard header = %q", got)
	}
}

func TestCORS_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("preflight reached the inner handler")
	})
	h := CORS("*")(inner)

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://anywhere.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Methods") == "" {
		t.Error("preflight missing allowed methods")
	}
}

func TestRecovery_ConvertsPanics(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	Recovery(discardLogger(t))(inner).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status after panic = %d, want 500", rec.Code)
	}
}
