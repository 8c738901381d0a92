package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "supplyline",
	Short: "Supplyline - Smartphone Supply Chain Simulator",
	Long: `Supplyline simulates a daily economic cycle among independent trading
parties: a manufacturer, component suppliers, and phone customers that
negotiate, fulfill, and pay for goods entirely through asynchronous
messages.

Each simulated day the manufacturer discovers its trading partners,
collects supplier pricing, accepts or rejects customer orders, procures
components, assembles and ships phones, and settles the day's books.`,
}

var verbose bool

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
