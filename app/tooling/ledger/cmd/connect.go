package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var connectCmd = &cobra.Command{
	Use:   "connect <address>...",
	Short: "Register peer nodes with the node.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nodes := struct {
			Nodes []string `json:"nodes"`
		}{
			Nodes: args,
		}

		return call(cmd.Context(), http.MethodPost, "/v1/connect_node", nodes)
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)
}
