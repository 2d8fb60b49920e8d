package cmd

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"
)

var blockCmd = &cobra.Command{
	Use:   "block NUMBER",
	Short: "Print a single block by number.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		num, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid block number %q: %w", args[0], err)
		}

		return call(cmd, http.MethodGet, fmt.Sprintf("/blocks/%d", num), nil)
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
}
