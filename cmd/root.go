package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "salesmsg",
		Short:         "Sales message processor: ingest sale and adjustment lines, report totals",
		Long:          "salesmsg listens for line-oriented sale and price adjustment messages over TCP, keeps per-product totals, prints a report every few messages and a final adjusted report once the daily quota is reached.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.PersistentFlags().String("config", "", "Path to a config file (toml, yaml or json)")

	rootCmd.AddCommand(
		newServeCmd(),
		newSendCmd(),
		newStatsCmd(),
		newProductCmd(),
		newConfigCmd(),
	)

	return rootCmd
}
