package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cartokit/carto"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "cartoplan",
	Short: "Turn a vector map into an ordered list of draw shapes",
	Long: `cartoplan resolves the colours, symbols and geometry of a map and
prints the resulting draw plan in paint order.

The map is the built-in sample orienteering sheet. Colours can be
calibrated against a CMYK ICC profile.`,
	Version: carto.Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			carto.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			})))
		}
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log pipeline details to stderr")
}
