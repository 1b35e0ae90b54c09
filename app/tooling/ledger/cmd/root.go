// Package cmd contains the ledger operator client.
package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

var (
	url     string
	timeout time.Duration
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&url, "url", "u", "http://localhost:5000", "Url of the node.")
	rootCmd.PersistentFlags().DurationVarP(&timeout, "timeout", "t", 2*time.Minute, "Time to wait for the node to respond.")
}

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Operate a ledger node",
}

// Execute runs the command tree and exits non zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
