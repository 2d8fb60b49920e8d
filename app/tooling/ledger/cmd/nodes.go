package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var nodesCmd = &cobra.Command{
	Use:   "nodes",
	Short: "List the node's known peers.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodGet, "/nodes/list", nil)
	},
}

func init() {
	rootCmd.AddCommand(nodesCmd)
}
