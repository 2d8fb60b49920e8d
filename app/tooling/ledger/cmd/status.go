package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the node's status summary.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/node/status", nil)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
