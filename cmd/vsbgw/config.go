package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vaultsbx/gateway/pkg/config"
	"vaultsbx/gateway/pkg/telemetry/logging"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	Long: `Assemble the configuration from the environment and print it as YAML
with secrets masked. Useful for verifying a deployment environment
before starting the gateway.`,
	RunE: printConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

// configView is the YAML shape of a redacted snapshot. Secrets are
// masked, never omitted, so operators can see that a value is present.
type configView struct {
	Environment string `yaml:"environment"`

	Main struct {
		GatewayMode    string `yaml:"gateway_mode"`
		DataPath       string `yaml:"data_path"`
		BackendURL     string `yaml:"backend_url,omitempty"`
		BackendAPIKey  string `yaml:"backend_api_key,omitempty"`
		HTTPPort       int    `yaml:"http_port"`
		HTTPSPort      int    `yaml:"https_port"`
		EnableHTTPS    bool   `yaml:"enable_https"`
		ServerOrigin   string `yaml:"server_origin"`
		LogLevel       string `yaml:"log_level"`
		LogFormat      string `yaml:"log_format"`
		MetricsEnabled bool   `yaml:"metrics_enabled"`
		MetricsPath    string `yaml:"metrics_path"`
	} `yaml:"main"`

	SMTP struct {
		Host             string   `yaml:"host"`
		Port             int      `yaml:"port"`
		Hostname         string   `yaml:"hostname"`
		Domains          []string `yaml:"domains"`
		Secure           bool     `yaml:"secure"`
		ManualTLS        bool     `yaml:"manual_tls"`
		MaxMessageBytes  int      `yaml:"max_message_bytes"`
		MaxConnections   int      `yaml:"max_connections"`
		MaxRecipients    int      `yaml:"max_recipients"`
		DisabledCommands []string `yaml:"disabled_commands"`
	} `yaml:"smtp"`

	Orchestration struct {
		Enabled          bool   `yaml:"enabled"`
		NodeID           string `yaml:"node_id"`
		HeartbeatSeconds int    `yaml:"heartbeat_seconds"`
		LeaseSeconds     int    `yaml:"lease_seconds"`
	} `yaml:"orchestration"`

	Certificate struct {
		Enabled           bool     `yaml:"enabled"`
		Email             string   `yaml:"email,omitempty"`
		Domain            string   `yaml:"domain"`
		AdditionalDomains []string `yaml:"additional_domains,omitempty"`
		Staging           bool     `yaml:"staging"`
		RenewSchedule     string   `yaml:"renew_schedule"`
		StoragePath       string   `yaml:"storage_path"`
		PeerSharedSecret  string   `yaml:"peer_shared_secret,omitempty"`
	} `yaml:"certificate"`

	Local *localView `yaml:"local,omitempty"`
}

// localView is the local-mode section of the YAML view. It is a
// pointer in configView so backend-mode output omits it entirely.
type localView struct {
	APIKey                string `yaml:"api_key"`
	APIKeyOrigin          string `yaml:"api_key_origin"`
	InboxAliasRandomBytes int    `yaml:"inbox_alias_random_bytes"`
	InboxTTLHours         int    `yaml:"inbox_ttl_hours"`
	MaxInboxes            int    `yaml:"max_inboxes"`
	WebhookURL            string `yaml:"webhook_url,omitempty"`
}

func printConfig(cmd *cobra.Command, args []string) error {
	snap, _, err := buildConfig()
	if err != nil {
		return err
	}

	out, err := yaml.Marshal(redactSnapshot(snap))
	if err != nil {
		return fmt.Errorf("render configuration: %w", err)
	}
	_, err = os.Stdout.Write(out)
	return err
}

// redactSnapshot flattens a snapshot into its YAML view with secrets
// masked.
func redactSnapshot(snap *config.Snapshot) *configView {
	v := &configView{Environment: snap.Environment}

	v.Main.GatewayMode = string(snap.Main.GatewayMode)
	v.Main.DataPath = snap.Main.DataPath
	v.Main.BackendURL = snap.Main.BackendURL
	if snap.Main.BackendAPIKey != "" {
		v.Main.BackendAPIKey = logging.MaskAPIKey(snap.Main.BackendAPIKey)
	}
	v.Main.HTTPPort = snap.Main.HTTPPort
	v.Main.HTTPSPort = snap.Main.HTTPSPort
	v.Main.EnableHTTPS = snap.Main.EnableHTTPS
	v.Main.ServerOrigin = snap.Main.ServerOrigin
	v.Main.LogLevel = snap.Main.LogLevel
	v.Main.LogFormat = snap.Main.LogFormat
	v.Main.MetricsEnabled = snap.Main.MetricsEnabled
	v.Main.MetricsPath = snap.Main.MetricsPath

	v.SMTP.Host = snap.SMTP.Host
	v.SMTP.Port = snap.SMTP.Port
	v.SMTP.Hostname = snap.SMTP.Hostname
	v.SMTP.Domains = snap.SMTP.Domains
	v.SMTP.Secure = snap.SMTP.Secure
	v.SMTP.ManualTLS = snap.SMTP.TLS != nil
	v.SMTP.MaxMessageBytes = snap.SMTP.MaxMessageBytes
	v.SMTP.MaxConnections = snap.SMTP.MaxConnections
	v.SMTP.MaxRecipients = snap.SMTP.MaxRecipients
	v.SMTP.DisabledCommands = snap.SMTP.DisabledCommands

	v.Orchestration.Enabled = snap.Orchestration.Enabled
	v.Orchestration.NodeID = snap.Orchestration.NodeID
	v.Orchestration.HeartbeatSeconds = snap.Orchestration.HeartbeatSeconds
	v.Orchestration.LeaseSeconds = snap.Orchestration.LeaseSeconds

	v.Certificate.Enabled = snap.Certificate.Enabled
	v.Certificate.Email = snap.Certificate.Email
	v.Certificate.Domain = snap.Certificate.Domain
	v.Certificate.AdditionalDomains = snap.Certificate.AdditionalDomains
	v.Certificate.Staging = snap.Certificate.Staging
	v.Certificate.RenewSchedule = snap.Certificate.RenewSchedule
	v.Certificate.StoragePath = snap.Certificate.StoragePath
	if snap.Certificate.PeerSharedSecret != "" {
		v.Certificate.PeerSharedSecret = logging.MaskAPIKey(snap.Certificate.PeerSharedSecret)
	}

	if snap.Local != nil {
		v.Local = &localView{
			APIKey:                logging.MaskAPIKey(snap.Local.API.APIKey),
			APIKeyOrigin:          snap.Local.API.APIKeyOrigin,
			InboxAliasRandomBytes: snap.Local.API.InboxAliasRandomBytes,
			InboxTTLHours:         snap.Local.API.InboxTTLHours,
			MaxInboxes:            snap.Local.API.MaxInboxes,
			WebhookURL:            snap.Local.Webhook.URL,
		}
	}

	return v
}
