// Vsbgw is the VaultSBX mail gateway.
//
// It receives mail over SMTP for a set of recipient domains, manages
// TLS certificates, and either handles inboxes locally or fronts a
// backend service. All configuration comes from VSB_-prefixed
// environment variables.
//
// Usage:
//
//	# Start the gateway
//	VSB_DOMAINS=example.com vsbgw run
//
//	# Validate the environment without starting
//	VSB_DOMAINS=example.com vsbgw run --dry-run
//
//	# Print the effective configuration with secrets masked
//	vsbgw config
//
//	# Show version information
//	vsbgw version
package main

func main() {
	Execute()
}
