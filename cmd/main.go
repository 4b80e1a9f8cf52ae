package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// @title        Cup Controller API
// @version      1.0
// @description  Faraday cup relay control and cycle program scheduling.
// @BasePath     /
func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "cupd",
		Short: "Faraday cup controller",
		Long: `cupd drives the Faraday cup relay over HTTP and runs timed
open/closed cycle programs. Without a subcommand it serves the REST API.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), configPath, false)
		},
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yml)")

	rootCmd.AddCommand(serveCmd(&configPath))
	rootCmd.AddCommand(runCmd(&configPath))
	rootCmd.AddCommand(validateCmd())

	return rootCmd
}
