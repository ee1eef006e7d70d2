package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/artpar/billgate/bootstrap"
	"github.com/artpar/billgate/config"
)

var (
	hotReload bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the billing server",
	Long: `Start the BillGate billing server.

The server will:
  - Load configuration from billgate.yaml (or --config)
  - Or load configuration from BILLGATE_* environment variables
  - Connect to the database and run migrations
  - Serve the billing API on the configured address

Environment variables (for Docker deployments):
  BILLGATE_DATABASE_DSN      - Database path (default: billgate.db)
  BILLGATE_SERVER_PORT       - Server port (default: 8080)
  BILLGATE_BILLING_CURRENCY  - Currency code (default: usd)
  BILLGATE_BILLING_PROVIDER  - Payment provider: none or dummy
  BILLGATE_LOG_LEVEL         - Log level: debug, info, warn, error

Examples:
  billgate serve
  billgate serve --config /etc/billgate/config.yaml
  billgate serve --hot-reload=false

  # Docker (env vars only):
  BILLGATE_DATABASE_DSN=/data/billgate.db billgate serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&hotReload, "hot-reload", true, "enable hot reload of configuration")
}

func runServe(cmd *cobra.Command, args []string) error {
	hasConfigFile := false
	if _, err := os.Stat(cfgFile); err == nil {
		hasConfigFile = true
	}

	var app *bootstrap.App
	var err error

	if hasConfigFile && hotReload {
		// Hot reload only works with a config file
		app, err = bootstrap.NewWithHotReload(cfgFile)
	} else {
		// Load config (file with env overrides, or env-only)
		cfg, loadErr := config.LoadWithFallback(cfgFile)
		if loadErr != nil {
			return fmt.Errorf("error loading config: %w", loadErr)
		}

		if !hasConfigFile {
			if config.HasEnvConfig() {
				fmt.Println("Running with environment variables (no config file)")
			} else {
				fmt.Println("Running with built-in defaults (no config file)")
			}
		}

		app, err = bootstrap.New(cfg)
	}

	if err != nil {
		return fmt.Errorf("error initializing: %w", err)
	}

	// Run (blocks until shutdown)
	return app.Run()
}
