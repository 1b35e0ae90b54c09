package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine a block with the pending transactions.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.Context(), http.MethodGet, "/v1/mine_block", nil)
	},
}

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the full chain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.Context(), http.MethodGet, "/v1/get_chain", nil)
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Ask the node to validate its chain.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.Context(), http.MethodGet, "/v1/is_valid", nil)
	},
}

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run consensus against the known peers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.Context(), http.MethodGet, "/v1/replace_chain", nil)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the node status and known peers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd.Context(), http.MethodGet, "/v1/status", nil)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd, chainCmd, validateCmd, resolveCmd, statusCmd)
}
