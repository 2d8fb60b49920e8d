package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Ask the node to mine the next block.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/mine", nil)
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
}
