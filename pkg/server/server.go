package server

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"vaultsbx/gateway/pkg/config"
	"vaultsbx/gateway/pkg/telemetry/logging"
)

// Server is the HTTP front of the gateway.
type Server struct {
	snap *config.Snapshot
	log  *logging.Logger

	httpServer  *http.Server
	httpsServer *http.Server

	// metricsHandler serves the Prometheus endpoint when metrics are
	// enabled.
	metricsHandler http.Handler

	// console serves the SSE stream, mounted at /events.
	console http.Handler

	// tlsConfig backs the HTTPS listener. Required when the snapshot
	// enables HTTPS.
	tlsConfig *tls.Config

	// ready is consulted by the readiness probe.
	ready func() error

	mu      sync.Mutex
	running bool
}

// Options carries the optional pieces of the front.
type Options struct {
	Metrics   http.Handler
	Console   http.Handler
	TLSConfig *tls.Config

	// Ready reports whether the gateway can take traffic. Nil means
	// always ready.
	Ready func() error
}

// New creates the HTTP front for a configuration snapshot.
func New(snap *config.Snapshot, log *logging.Logger, opts Options) *Server {
	return &Server{
		snap:           snap,
		log:            log,
		metricsHandler: opts.Metrics,
		console:        opts.Console,
		tlsConfig:      opts.TLSConfig,
		ready:          opts.Ready,
	}
}

// Start binds the listeners and returns once they are serving. Listener
// errors after startup are logged, not returned.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return fmt.Errorf("server is already running")
	}

	// Fail before binding anything: an error return must not leave a
	// listener goroutine behind.
	if s.snap.Main.EnableHTTPS && s.tlsConfig == nil {
		return fmt.Errorf("HTTPS is enabled but no TLS configuration was provided")
	}

	handler := s.routes()

	s.httpServer = &http.Server{
		Addr:              ":" + strconv.Itoa(s.snap.Main.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	go s.serve("http", s.httpServer, false)

	if s.snap.Main.EnableHTTPS {
		s.httpsServer = &http.Server{
			Addr:              ":" + strconv.Itoa(s.snap.Main.HTTPSPort),
			Handler:           handler,
			TLSConfig:         s.tlsConfig,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		go s.serve("https", s.httpsServer, true)
	}

	s.running = true
	s.log.Info("http front started",
		"http_port", s.snap.Main.HTTPPort,
		"https_enabled", s.snap.Main.EnableHTTPS,
		"origin", s.snap.Main.ServerOrigin,
	)
	return nil
}

func (s *Server) serve(name string, srv *http.Server, useTLS bool) {
	var err error
	if useTLS {
		// Certificates come from TLSConfig.GetCertificate.
		err = srv.ListenAndServeTLS("", "")
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.log.Error("listener stopped", "listener", name, "error", err)
	}
}

// Shutdown drains both listeners.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return nil
	}
	s.running = false

	var firstErr error
	for _, srv := range []*http.Server{s.httpServer, s.httpsServer} {
		if srv == nil {
			continue
		}
		if err := srv.Shutdown(ctx); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.log.Info("http front stopped")
	return firstErr
}

// Handler returns the routed handler with the middleware chain applied.
// Exposed for tests and for embedding behind another mux.
func (s *Server) Handler() http.Handler {
	return s.routes()
}

// routes builds the mux and wraps it in the middleware chain.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", s.handleHealth)
	mux.HandleFunc("/ready", s.handleReady)

	if s.snap.Main.MetricsEnabled && s.metricsHandler != nil {
		mux.Handle(s.snap.Main.MetricsPath, s.metricsHandler)
	}
	if s.console != nil {
		mux.Handle("/events", s.console)
	}

	var handler http.Handler = mux
	handler = CORS(s.snap.Main.ServerOrigin)(handler)
	handler = Logging(s.log)(handler)
	handler = RequestID(handler)
	handler = Recovery(s.log)(handler)
	return handler
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","mode":%q}`, s.snap.Main.GatewayMode)
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.ready != nil {
		if err := s.ready(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			fmt.Fprintf(w, `{"status":"unavailable","reason":%q}`, err.Error())
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `{"status":"ready"}`)
}
