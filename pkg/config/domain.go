package config

import (
	"regexp"
	"strconv"
	"strings"
)

// InternalServiceName is the hostname the backend is reachable at inside a
// composed deployment. It is accepted wherever a recipient or certificate
// domain is expected.
const InternalServiceName = "vsb-backend"

// devHostnames are accepted as domains in development setups.
var devHostnames = map[string]bool{
	"localhost":            true,
	InternalServiceName:    true,
	"host.docker.internal": true,
}

// fqdnPattern requires at least one label separator and a final label of
// two or more alphabetic characters.
var fqdnPattern = regexp.MustCompile(`^([a-zA-Z0-9]([a-zA-Z0-9-]*[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}$`)

// IsValidDomain reports whether s is acceptable as a recipient or
// certificate domain: a known development hostname, a private or loopback
// IPv4 literal, or an FQDN.
func IsValidDomain(s string) bool {
	if devHostnames[s] {
		return true
	}
	if isPrivateIPv4(s) {
		return true
	}
	return fqdnPattern.MatchString(s)
}

// isPrivateIPv4 reports whether s is a strict dotted-quad IPv4 literal in
// 127.0.0.0/8, 10.0.0.0/8, 172.16.0.0/12, or 192.168.0.0/16.
func isPrivateIPv4(s string) bool {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return false
	}
	octets := make([]int, 4)
	for i, p := range parts {
		if p == "" || len(p) > 3 {
			return false
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				return false
			}
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > 255 {
			return false
		}
		octets[i] = n
	}
	switch {
	case octets[0] == 127:
		return true
	case octets[0] == 10:
		return true
	case octets[0] == 172 && octets[1] >= 16 && octets[1] <= 31:
		return true
	case octets[0] == 192 && octets[1] == 168:
		return true
	default:
		return false
	}
}
