package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "billgate",
	Short: "Billing engine with invoicing, checkout, promos, and payouts",
	Long: `BillGate is a self-hosted billing engine.

It handles invoice lifecycle and proration, payment retry and grace
periods, checkout sessions, promo codes, commission splits, and vendor
payouts behind a provider-agnostic JSON API.

Quick start:
  billgate serve     # Start the billing server

Management:
  billgate validate  # Validate configuration
  billgate version   # Print version information`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "billgate.yaml", "config file path")
}
