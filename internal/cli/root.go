// Package cli is the terminal presentation layer: thin cobra commands over
// the services. It collects input, shows the returned messages, and gates
// commands on session presence and role capabilities.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgPath string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pos",
	Short: "Restaurant point-of-sale terminal",
	Long: `pos is the terminal client of the restaurant point-of-sale system.

Staff authenticate with a 6-digit PIN against the hosted staff directory.
Accounts lock for 30 minutes after 5 failed attempts. A successful login is
cached locally so the terminal stays signed in across invocations until an
explicit logout.

Examples:
  pos login                      # prompt for a PIN
  pos menu --category drinks     # browse the catalog
  pos order new --item p-burger:2 --item p-cola --pay card --table 5
  pos orders --status completed
  pos report --from 2026-08-01 --csv sales.csv
  pos users list                 # staff administration (admin/manager)`,
	SilenceUsage: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		loginCmd,
		logoutCmd,
		statusCmd,
		pinCmd,
		menuCmd,
		orderCmd,
		ordersCmd,
		reportCmd,
		usersCmd,
	)
}
