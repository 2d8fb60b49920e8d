// Package cmd contains the ledger client commands.
package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

var nodeURL string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "ledger",
	Short:         "Client for a proof of work ledger node",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&nodeURL, "url", "u", "http://localhost:8000", "Url of the node.")
}

var client = http.Client{Timeout: time.Minute}

// call performs the request against the configured node and writes the
// indented response document to the command's output.
func call(cmd *cobra.Command, method string, path string, body any) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}

	url := strings.TrimSuffix(nodeURL, "/") + path
	req, err := http.NewRequestWithContext(cmd.Context(), method, url, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, data, "", "  "); err != nil {
		out.Reset()
		out.Write(data)
	}
	fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(out.String()))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: status %d", method, path, resp.StatusCode)
	}

	return nil
}
