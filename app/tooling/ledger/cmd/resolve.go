package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Run consensus against the node's peers.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/nodes/resolve", nil)
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}
