package render

import (
	"log/slog"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/text"
)

// DefaultSubdivisions is the number of samples taken between consecutive
// Bezier anchors unless WithSubdivisions says otherwise.
const DefaultSubdivisions = 8

// Policy decides what Render does when one instance cannot be resolved.
type Policy uint8

const (
	// PolicySkip records the failure in Plan.Skipped and renders the rest.
	PolicySkip Policy = iota

	// PolicyAbort returns the first failure in paint order.
	PolicyAbort
)

var policyNames = [...]string{
	PolicySkip:  "skip",
	PolicyAbort: "abort",
}

func (p Policy) String() string {
	if int(p) < len(policyNames) {
		return policyNames[p]
	}
	return "unknown"
}

// Option configures Render.
//
// Example:
//
//	plan, err := render.Render(m,
//		render.WithSubdivisions(16),
//		render.WithPolicy(render.PolicyAbort),
//	)
type Option func(*options)

type options struct {
	subdivisions int
	policy       Policy
	measurer     text.Measurer
	parallelism  int
	logger       *slog.Logger
}

func defaultOptions() options {
	return options{
		subdivisions: DefaultSubdivisions,
		policy:       PolicySkip,
		parallelism:  1,
	}
}

// WithSubdivisions sets the number of curve samples between Bezier anchors.
// Negative values are treated as zero.
func WithSubdivisions(n int) Option {
	return func(o *options) {
		o.subdivisions = max(n, 0)
	}
}

// WithPolicy sets the per-instance failure policy.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithMeasurer sets the text measurer. Without one, text is measured with
// the embedded Go Regular face through go-text shaping.
func WithMeasurer(m text.Measurer) Option {
	return func(o *options) {
		o.measurer = m
	}
}

// WithParallelism resolves up to n instances concurrently. The plan is
// identical to a sequential render.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = max(n, 1)
	}
}

// WithLogger overrides the package logger for one render.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

func (o *options) log() *slog.Logger {
	if o.logger != nil {
		return o.logger
	}
	return carto.Logger()
}
