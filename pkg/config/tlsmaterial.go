package config

import (
	"os"
	"strings"
)

// TLSMaterial is a loaded certificate/key pair plus the hardening options
// applied to the SMTP listener. It is built once and owned by the SMTP
// section; absent entirely when no cert/key pair is configured.
type TLSMaterial struct {
	// CertPath and KeyPath are the source file paths, kept so the runtime
	// can reload the pair after renewal.
	CertPath string
	KeyPath  string

	// CertPEM and KeyPEM are the raw PEM bytes read at build time.
	CertPEM []byte
	KeyPEM  []byte

	// MinVersion is the minimum accepted protocol version, e.g. "TLSv1.2".
	MinVersion string

	// CipherList is the enabled cipher suites in OpenSSL notation, joined
	// with ":".
	CipherList string

	// HonorCipherOrder prefers the server's cipher ordering.
	HonorCipherOrder bool

	// ECDHCurve selects the ECDH curve, "auto" by default.
	ECDHCurve string
}

// loadTLSMaterial reads the manual SMTP TLS material. Neither path set
// means no material (not an error); exactly one set is a conflict. Each
// file must contain PEM BEGIN and END markers.
func (b *Builder) loadTLSMaterial(certVar, keyVar string) (*TLSMaterial, error) {
	certPath := parseString(b.src, certVar, "")
	keyPath := parseString(b.src, keyVar, "")

	if certPath == "" && keyPath == "" {
		return nil, nil
	}
	if certPath == "" || keyPath == "" {
		return nil, conflictf("%s and %s must both be set or both be empty; "+
			"a certificate without its key (or vice versa) cannot serve TLS", certVar, keyVar)
	}

	certPEM, err := readPEMFile(certVar, certPath)
	if err != nil {
		return nil, err
	}
	keyPEM, err := readPEMFile(keyVar, keyPath)
	if err != nil {
		return nil, err
	}

	return &TLSMaterial{
		CertPath:         certPath,
		KeyPath:          keyPath,
		CertPEM:          certPEM,
		KeyPEM:           keyPEM,
		MinVersion:       parseString(b.src, "VSB_SMTP_TLS_MIN_VERSION", DefaultTLSMinVersion),
		CipherList:       parseString(b.src, "VSB_SMTP_TLS_CIPHERS", DefaultCipherList),
		HonorCipherOrder: parseBool(b.src, "VSB_SMTP_TLS_HONOR_CIPHER_ORDER", DefaultHonorCipherOrder),
		ECDHCurve:        parseString(b.src, "VSB_SMTP_TLS_ECDH_CURVE", DefaultTLSECDHCurve),
	}, nil
}

// readPEMFile reads path and verifies it contains PEM framing.
func readPEMFile(name, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Kind: KindInvalidFormat, Var: name,
			Message: "cannot read " + path, Err: err}
	}
	s := string(data)
	if !strings.Contains(s, "-----BEGIN ") || !strings.Contains(s, "-----END ") {
		return nil, invalidf(name, "%s is not PEM-encoded (missing BEGIN/END markers)", path)
	}
	return data, nil
}

// checkKeyPairPaths enforces the both-or-neither rule for a PEM key pair
// without loading it; used for the signing key pair whose consumption is
// deferred to the webhook signer.
func (b *Builder) checkKeyPairPaths(pubVar, privVar string) (pub, priv string, err error) {
	pub = parseString(b.src, pubVar, "")
	priv = parseString(b.src, privVar, "")
	if (pub == "") != (priv == "") {
		return "", "", conflictf("%s and %s must both be set or both be empty", pubVar, privVar)
	}
	if pub == "" {
		return "", "", nil
	}
	if _, err := readPEMFile(pubVar, pub); err != nil {
		return "", "", err
	}
	if _, err := readPEMFile(privVar, priv); err != nil {
		return "", "", err
	}
	return pub, priv, nil
}
