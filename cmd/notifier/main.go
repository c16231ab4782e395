package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "notifier",
		Short: "Contract expiry notifier",
		Long: `Scans the contract table and sends an alert for every contract whose
expiry date is 27 days away (response check) or one calendar month away
(contract ending).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env if present)")

	rootCmd.AddCommand(newRunCmd(&envFile))
	rootCmd.AddCommand(newServeCmd(&envFile))
	return rootCmd
}
