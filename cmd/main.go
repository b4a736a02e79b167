/*
Package main is the entry point for the English Pro Tech web tier.

The serve command (the default) loads configuration, initializes the global
logger and tracing, starts the HTTP server and shuts it down gracefully on
SIGINT or SIGTERM. The check command runs one of the form validators from the
command line.
*/
package main

import (
	"github.com/spf13/cobra"

	"eptweb/internal/pkg/logx"
)

var rootCmd = &cobra.Command{
	Use:           "ept-web",
	Short:         "English Pro Tech web tier",
	Long:          `Serves the English Pro Tech pages, the session endpoint and the backend proxy routes.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logx.Fatal(err, "ept-web exited with an error")
	}
}
