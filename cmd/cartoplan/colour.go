package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cartokit/carto/colour"
	"github.com/cartokit/carto/icc"
)

var (
	colourProfile string
	colourIntent  string
)

var colourCmd = &cobra.Command{
	Use:   "colour COLOUR...",
	Short: "Parse colours and show their device values",
	Long: `Parse each argument in colour notation and print its canonical form,
the naive device value and, with --profile, the calibrated value.

Spot names are looked up in the sample map's spot definitions.

Examples:
  cartoplan colour '#3366cc' 'cmyk(0,50%,100%,0)' 'spot("brown",0.5)'`,
	Aliases: []string{"color"},
	Args:    cobra.MinimumNArgs(1),
	RunE:    runColour,
}

func init() {
	colourCmd.Flags().StringVarP(&colourProfile, "profile", "p", "", "CMYK ICC profile used for the calibrated column")
	colourCmd.Flags().StringVar(&colourIntent, "intent", icc.IntentRelativeColorimetric.String(), "rendering intent: perceptual, relative or saturation")

	rootCmd.AddCommand(colourCmd)
}

func runColour(cmd *cobra.Command, args []string) error {
	m, err := sampleMap()
	if err != nil {
		return fmt.Errorf("build sample map: %w", err)
	}
	naive := colour.NewResolver(colour.NewCalibrationTable(nil), m)

	var calibrated *colour.Resolver
	if colourProfile != "" {
		intent, err := icc.ParseIntent(colourIntent)
		if err != nil {
			return err
		}
		if err := applyProfile(m, colourProfile, intent); err != nil {
			return err
		}
		calibrated = m.Resolver()
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	if calibrated != nil {
		fmt.Fprintln(tw, "COLOUR\tNAIVE\tCALIBRATED")
	} else {
		fmt.Fprintln(tw, "COLOUR\tNAIVE")
	}
	for _, arg := range args {
		c, err := colour.Parse(arg)
		if err != nil {
			return err
		}
		rgba, err := naive.Resolve(c)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s", c, hexOf(rgba))
		if calibrated != nil {
			rgba, err := calibrated.Resolve(c)
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "\t%s", hexOf(rgba))
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
