// Command mcctl reads and writes PLC devices over the MC protocol and runs a PLC simulator.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)

		var se *statusError
		if errors.As(err, &se) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	app := &app{}

	rootCmd := &cobra.Command{
		Use:   "mcctl",
		Short: "MELSEC MC protocol (3E ASCII) client",
		Long: `mcctl reads and writes devices of a MELSEC PLC over the MC protocol
3E ASCII frame and can run an in-memory PLC simulator.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&app.configPath, "config", "", "config file (.yaml, .yml or .toml)")
	flags.StringVar(&app.flagHost, "host", "", "PLC host")
	flags.IntVar(&app.flagPort, "port", 0, "PLC port")
	flags.IntVar(&app.flagRetry, "retry", 0, "retries after a failed attempt")
	flags.StringVar(&app.flagLogLevel, "log-level", "", "log level (debug, info, warn, error, fatal)")

	rootCmd.AddCommand(newReadCmd(app))
	rootCmd.AddCommand(newWriteCmd(app))
	rootCmd.AddCommand(newSimCmd(app))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
