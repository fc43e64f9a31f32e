package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "vsbgw",
	Short: "VaultSBX mail gateway",
	Long: `Vsbgw is the VaultSBX mail gateway: an SMTP receiver for disposable
inboxes with automatic TLS and optional multi-node orchestration.

The gateway runs in one of two modes:
  local    inboxes, API keys, and webhooks are handled in-process
  backend  the gateway fronts a backend service that owns them

All configuration is read from VSB_-prefixed environment variables.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
