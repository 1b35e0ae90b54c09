package cmd

import (
	"errors"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	sender   string
	receiver string
	amount   float64
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node's pool.",
	RunE: func(cmd *cobra.Command, args []string) error {
		if sender == "" || receiver == "" {
			return errors.New("sender and receiver are required")
		}

		tx := struct {
			Sender   string  `json:"sender"`
			Receiver string  `json:"receiver"`
			Amount   float64 `json:"amount"`
		}{
			Sender:   sender,
			Receiver: receiver,
			Amount:   amount,
		}

		return call(cmd.Context(), http.MethodPost, "/v1/add_transaction", tx)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Name of the sender.")
	sendCmd.Flags().StringVarP(&receiver, "receiver", "r", "", "Name of the receiver.")
	sendCmd.Flags().Float64VarP(&amount, "amount", "a", 0, "Amount to send.")
}
