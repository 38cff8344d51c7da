package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/srb2live/infoboard/config"
)

// validateCmd validates a config file without starting the server.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a config file",
	Long: `Validate an infoboard configuration file without starting the server.

This command parses the YAML, expands environment variables, and validates
all fields. It's useful for CI/CD pipelines or pre-deployment checks.

Exit codes:
  0 - Config is valid
  1 - Config is invalid (error details printed to stderr)

Example:
  infoboard validate -c config.yaml
  infoboard validate --config /etc/infoboard/config.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().StringP("config", "c", "", "path to config file (required)")
	_ = validateCmd.MarkFlagRequired("config")
}

func runValidate(cmd *cobra.Command, args []string) error {
	configFile, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	gameServer := cfg.GameServer
	if gameServer == "" {
		gameServer = "(none)"
	}
	database := "configured"
	if cfg.DatabaseURL == "" {
		database = "(none)"
	}

	fmt.Printf("Config is valid!\n")
	fmt.Printf("  Port:             %d\n", cfg.Port)
	fmt.Printf("  API URL:          %s\n", cfg.APIURL)
	fmt.Printf("  Refresh interval: %s\n", cfg.RefreshInterval.Duration())
	fmt.Printf("  Game server:      %s\n", gameServer)
	fmt.Printf("  Database:         %s\n", database)

	return nil
}
