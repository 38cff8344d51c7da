// Package main is the entry point for the infoboard CLI.
//
// infoboard can be run either as a library (SDK) or as a standalone binary
// with YAML configuration. This CLI provides the standalone binary approach.
//
// Usage:
//
//	infoboard serve -c config.yaml    # Start the info page server
//	infoboard validate -c config.yaml # Validate configuration
//	infoboard version                 # Show version info
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information - set at build time via ldflags.
// Example: go build -ldflags "-X main.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCmd is the base command when called without subcommands.
// It just displays help - actual functionality is in subcommands.
var rootCmd = &cobra.Command{
	Use:   "infoboard",
	Short: "A live info page for an SRB2 game server",
	Long: `infoboard serves a live info page for an SRB2 game server.

It refreshes the server-info feed at a configurable interval and shows the
current map, server name and player list, with Server-Sent Events keeping
the page live. The highscores JSON API is served alongside the page.

Quick start:
  1. Create a config file (infoboard.yaml)
  2. Run: infoboard serve -c infoboard.yaml
  3. Open http://localhost:8080 in your browser

Example config:
  port: 8080
  api_url: http://localhost:8080/highscores/api
  refresh_interval: 10s
  game_server: srb2.example.org:5029`,
	// No Run/RunE means this just shows help when called without subcommands
}

// Execute runs the root command.
// This is the main entry point called from main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Cobra already prints the error, just exit with code 1
		os.Exit(1)
	}
}

func main() {
	Execute()
}

// versionCmd prints version information.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Print the version, commit hash, and build date of this infoboard binary.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("infoboard %s\n", version)
		fmt.Printf("  commit: %s\n", commit)
		fmt.Printf("  built:  %s\n", date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
