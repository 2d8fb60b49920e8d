package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var (
	sender    string
	recipient string
	amount    string
)

// sendCmd represents the send command
var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Submit a transaction to the node's pool.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		tx := struct {
			Sender    string `json:"sender"`
			Recipient string `json:"recipient"`
			Amount    string `json:"amount"`
		}{
			Sender:    sender,
			Recipient: recipient,
			Amount:    amount,
		}

		return call(cmd, http.MethodPost, "/transactions/new", tx)
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)
	sendCmd.Flags().StringVarP(&sender, "sender", "s", "", "Sender of the transaction.")
	sendCmd.Flags().StringVarP(&recipient, "recipient", "r", "", "Recipient of the transaction.")
	sendCmd.Flags().StringVarP(&amount, "amount", "a", "", "Amount to send.")
}
