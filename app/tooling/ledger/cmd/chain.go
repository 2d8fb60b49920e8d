package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var chainCmd = &cobra.Command{
	Use:   "chain",
	Short: "Print the node's full chain.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/chain", nil)
	},
}

func init() {
	rootCmd.AddCommand(chainCmd)
}
