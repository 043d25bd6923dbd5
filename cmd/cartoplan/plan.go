package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/colour"
	"github.com/cartokit/carto/icc"
	"github.com/cartokit/carto/model"
	"github.com/cartokit/carto/render"
	"github.com/cartokit/carto/text"
)

var (
	profilePath  string
	intentName   string
	subdivisions int
	parallelism  int
	abortOnError bool
	watchProfile bool
	measurerName string
	fontPath     string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Print the draw plan of the sample map",
	Long: `Render the sample map and print one row per shape in paint order.

With --watch the plan is printed again whenever the ICC profile given by
--profile changes on disk. Stop with Ctrl-C.`,
	Args: cobra.NoArgs,
	RunE: runPlan,
}

func init() {
	planCmd.Flags().StringVarP(&profilePath, "profile", "p", "", "CMYK ICC profile used to calibrate process colours")
	planCmd.Flags().StringVar(&intentName, "intent", icc.IntentRelativeColorimetric.String(), "rendering intent: perceptual, relative or saturation")
	planCmd.Flags().IntVarP(&subdivisions, "subdivisions", "n", render.DefaultSubdivisions, "samples per Bezier segment")
	planCmd.Flags().IntVar(&parallelism, "parallel", 1, "resolve instances on this many goroutines")
	planCmd.Flags().BoolVar(&abortOnError, "abort", false, "fail on the first broken instance instead of skipping it")
	planCmd.Flags().BoolVarP(&watchProfile, "watch", "w", false, "re-render when the profile file changes")
	planCmd.Flags().StringVar(&measurerName, "measurer", "gotext", "text measurer: gotext (HarfBuzz shaping) or sfnt (advances and kerning)")
	planCmd.Flags().StringVar(&fontPath, "font", "", "TrueType/OpenType font for text (default Go Regular)")

	rootCmd.AddCommand(planCmd)
}

func runPlan(cmd *cobra.Command, args []string) error {
	intent, err := icc.ParseIntent(intentName)
	if err != nil {
		return err
	}
	if watchProfile && profilePath == "" {
		return fmt.Errorf("--watch needs --profile")
	}

	m, err := sampleMap()
	if err != nil {
		return fmt.Errorf("build sample map: %w", err)
	}

	opts := []render.Option{
		render.WithSubdivisions(subdivisions),
		render.WithParallelism(parallelism),
	}
	if abortOnError {
		opts = append(opts, render.WithPolicy(render.PolicyAbort))
	}
	measurer, err := newMeasurer(measurerName, fontPath)
	if err != nil {
		return err
	}
	opts = append(opts, render.WithMeasurer(measurer))

	out := cmd.OutOrStdout()
	once := func() error {
		if profilePath != "" {
			if err := applyProfile(m, profilePath, intent); err != nil {
				return err
			}
		}
		plan, err := render.Render(m, opts...)
		if err != nil {
			return err
		}
		return printPlan(out, plan)
	}

	if err := once(); err != nil {
		return err
	}
	if !watchProfile {
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := newProfileWatcher(profilePath, func() {
		fmt.Fprintln(out)
		if err := once(); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
	})
	if err != nil {
		return err
	}
	defer w.Close()

	carto.Logger().Info("watching profile", "path", profilePath)
	w.Run(ctx)
	return nil
}

// newMeasurer builds the named text measurer over the font at path, or
// over Go Regular when path is empty.
func newMeasurer(name, path string) (text.Measurer, error) {
	var data []byte
	if path != "" {
		var err error
		if data, err = os.ReadFile(path); err != nil {
			return nil, err
		}
	}

	var (
		m   text.Measurer
		err error
	)
	switch name {
	case "gotext":
		m, err = text.NewGoTextMeasurer(data)
	case "sfnt":
		m, err = text.NewSFNTMeasurer(data)
	default:
		return nil, fmt.Errorf("unknown measurer %q, want gotext or sfnt", name)
	}
	if err != nil {
		return nil, err
	}
	return text.NewCachedMeasurer(m), nil
}

// applyProfile loads the ICC profile at path and installs its CMYK
// transform on m. The map keeps its calibration table when the profile
// bytes have not changed.
func applyProfile(m *model.Map, path string, intent icc.RenderingIntent) error {
	p, err := icc.Load(path)
	if err != nil {
		return err
	}
	fn, err := p.CMYKTransform(intent)
	if err != nil {
		return err
	}
	m.SetProfile(fn, p.Fingerprint())
	return nil
}

func printPlan(w io.Writer, plan *render.Plan) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "Z\tKIND\tINSTANCE\tPART\tCOLOUR\tOPACITY")
	for _, s := range plan.Shapes {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s\t%g\n",
			s.Z, s.Kind(), s.Instance, s.Part, hexOf(s.Colour), s.Opacity)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "%d shapes", len(plan.Shapes))
	if plan.Degraded() {
		fmt.Fprintf(w, ", %d instances skipped", len(plan.Skipped))
	}
	fmt.Fprintln(w)
	for _, e := range plan.Skipped {
		fmt.Fprintf(w, "  skipped: %v\n", e)
	}
	return nil
}

func hexOf(c colour.RGBA) string {
	return fmt.Sprintf("%s/%02x", colour.RGB{R: c.R, G: c.G, B: c.B}.Hex(), c.A)
}
