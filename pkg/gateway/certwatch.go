package gateway

import (
	"crypto/tls"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"vaultsbx/gateway/pkg/telemetry/logging"
)

// CertWatcher watches the certificate storage directory and invokes
// reload callbacks when certificate files change, so renewals take
// effect without a restart.
type CertWatcher struct {
	dir     string
	log     *logging.Logger
	watcher *fsnotify.Watcher
	stopCh  chan struct{}

	mu        sync.Mutex
	callbacks []func(path string)
	closed    bool
}

// NewCertWatcher creates a watcher over dir. The directory must exist.
func NewCertWatcher(dir string, log *logging.Logger) (*CertWatcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("stat certificate directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("certificate path is not a directory: %s", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	return &CertWatcher{
		dir:     dir,
		log:     log,
		watcher: watcher,
		stopCh:  make(chan struct{}),
	}, nil
}

// OnChange registers a callback invoked with the changed file's path.
// Callbacks run on the watch goroutine and must not block.
func (w *CertWatcher) OnChange(fn func(path string)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, fn)
}

// Start begins the watch goroutine.
func (w *CertWatcher) Start() {
	go w.watchLoop()
	w.log.Info("watching certificate directory", "path", w.dir)
}

func (w *CertWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			w.log.Debug("certificate file changed",
				"file", filepath.Base(event.Name), "op", event.Op.String())

			w.mu.Lock()
			callbacks := w.callbacks
			w.mu.Unlock()
			for _, fn := range callbacks {
				fn(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("certificate watcher error", "error", err)

		case <-w.stopCh:
			return
		}
	}
}

// Close stops the watcher.
func (w *CertWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	close(w.stopCh)
	return w.watcher.Close()
}

// KeyPairReloader serves a certificate/key pair from disk and reloads
// it when the files' modification times advance. It backs
// tls.Config.GetCertificate for both the SMTP and HTTPS listeners.
type KeyPairReloader struct {
	certFile string
	keyFile  string

	mu       sync.RWMutex
	cert     *tls.Certificate
	certTime time.Time
	keyTime  time.Time
}

// NewKeyPairReloader loads the initial pair from disk.
func NewKeyPairReloader(certFile, keyFile string) (*KeyPairReloader, error) {
	r := &KeyPairReloader{certFile: certFile, keyFile: keyFile}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// NewPendingKeyPairReloader creates a reloader for a pair that does not
// exist on disk yet. Handshakes fail until the first successful Reload,
// typically triggered by the watcher once issuance writes the files.
func NewPendingKeyPairReloader(certFile, keyFile string) *KeyPairReloader {
	return &KeyPairReloader{certFile: certFile, keyFile: keyFile}
}

// Reload re-reads the pair from disk if either file changed since the
// last load. A failed reload keeps the previous certificate in service.
func (r *KeyPairReloader) Reload() error {
	certInfo, err := os.Stat(r.certFile)
	if err != nil {
		return fmt.Errorf("stat certificate: %w", err)
	}
	keyInfo, err := os.Stat(r.keyFile)
	if err != nil {
		return fmt.Errorf("stat key: %w", err)
	}

	r.mu.RLock()
	unchanged := r.cert != nil &&
		!certInfo.ModTime().After(r.certTime) &&
		!keyInfo.ModTime().After(r.keyTime)
	r.mu.RUnlock()
	if unchanged {
		return nil
	}

	cert, err := tls.LoadX509KeyPair(r.certFile, r.keyFile)
	if err != nil {
		return fmt.Errorf("load key pair: %w", err)
	}

	r.mu.Lock()
	r.cert = &cert
	r.certTime = certInfo.ModTime()
	r.keyTime = keyInfo.ModTime()
	r.mu.Unlock()
	return nil
}

// Certificate returns the currently loaded pair.
func (r *KeyPairReloader) Certificate() *tls.Certificate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cert
}

// GetCertificateFunc adapts the reloader to tls.Config.GetCertificate.
func (r *KeyPairReloader) GetCertificateFunc() func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
	return func(*tls.ClientHelloInfo) (*tls.Certificate, error) {
		cert := r.Certificate()
		if cert == nil {
			return nil, fmt.Errorf("no certificate available for %s", r.certFile)
		}
		return cert, nil
	}
}
