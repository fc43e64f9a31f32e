package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// apiKeyFileName is the persisted secret file, relative to the data path.
const apiKeyFileName = ".api-key"

// API key origins, recorded for logging only.
const (
	OriginEnvironment   = "environment"
	OriginPersistedFile = "persisted-file"
	OriginGenerated     = "generated"
)

// provisionAPIKey resolves the local-mode API key through a strict
// precedence chain: environment value, then persisted file, then
// generation with persistence. The chain short-circuits on first success.
//
// A too-short file value is treated as absent and falls through to
// generation; a too-short environment value is a hard failure, since the
// operator explicitly chose it.
func (b *Builder) provisionAPIKey(dataPath string, strict bool) (key, origin string, err error) {
	if raw, ok := b.src.Lookup("VSB_API_KEY"); ok {
		if v := strings.TrimSpace(raw); v != "" {
			if len(v) < MinAPIKeyLength {
				return "", "", invalidf("VSB_API_KEY",
					"API key must be at least %d characters, got %d", MinAPIKeyLength, len(v))
			}
			return v, OriginEnvironment, nil
		}
	}

	if strict {
		return "", "", missingf("VSB_API_KEY",
			"required when VSB_REQUIRE_API_KEY is set; automatic key generation is disabled")
	}

	keyPath := filepath.Join(dataPath, apiKeyFileName)
	if data, readErr := os.ReadFile(keyPath); readErr == nil {
		v := strings.TrimSpace(string(data))
		if len(v) >= MinAPIKeyLength {
			return v, OriginPersistedFile, nil
		}
		b.log.Warn("persisted API key is too short, regenerating",
			"path", keyPath, "length", len(v))
	} else if !os.IsNotExist(readErr) {
		// Unreadable counts as not found; generation still persists a
		// usable key or fails the build.
		b.log.Warn("cannot read persisted API key", "path", keyPath, "error", readErr)
	}

	generated, err := randomHex(32)
	if err != nil {
		return "", "", fmt.Errorf("generate API key: %w", err)
	}
	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		return "", "", persistf(err,
			"cannot create data directory %s for the generated API key; "+
				"set VSB_API_KEY or make the directory writable", dataPath)
	}
	if err := os.WriteFile(keyPath, []byte(generated+"\n"), 0o600); err != nil {
		// A generated-but-unpersisted key would not survive a restart.
		return "", "", persistf(err,
			"cannot persist the generated API key to %s; "+
				"set VSB_API_KEY or make the data directory writable", keyPath)
	}
	return generated, OriginGenerated, nil
}

// generateNodeID builds a node identifier of the form
// "<hostname>-<8 lowercase hex chars>".
func generateNodeID() (string, error) {
	host, err := os.Hostname()
	if err != nil {
		host = "node"
	}
	suffix, err := randomHex(4)
	if err != nil {
		return "", fmt.Errorf("generate node ID: %w", err)
	}
	return host + "-" + suffix, nil
}

// generateSharedSecret produces a peer-authentication secret: 32 random
// bytes, hex-encoded.
func generateSharedSecret() (string, error) {
	s, err := randomHex(32)
	if err != nil {
		return "", fmt.Errorf("generate shared secret: %w", err)
	}
	return s, nil
}

// randomHex returns n cryptographically random bytes as lowercase hex.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
