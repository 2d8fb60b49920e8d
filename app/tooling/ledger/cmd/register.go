package cmd

import (
	"net/http"

	"github.com/spf13/cobra"
)

var registerCmd = &cobra.Command{
	Use:   "register URL...",
	Short: "Register peer nodes with the node.",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return call(cmd, http.MethodPost, "/nodes/register", args)
	},
}

func init() {
	rootCmd.AddCommand(registerCmd)
}
