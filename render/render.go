package render

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/cartokit/carto/model"
	"github.com/cartokit/carto/text"
)

var defaultMeasurer = sync.OnceValues(func() (text.Measurer, error) {
	m, err := text.NewGoTextMeasurer(nil)
	if err != nil {
		return nil, err
	}
	return text.NewCachedMeasurer(m), nil
})

// part is a shape before its final z is known. order is the sub-object's
// drawing rank within the instance.
type part struct {
	order int
	shape Shape
}

type result struct {
	parts []part
	err   error
}

// Render resolves m into a plan.
//
// The map is validated first; a structurally invalid map is an error and
// yields no plan. Instances are then resolved in paint order. A failing
// instance never contributes shapes: under PolicySkip it is listed in
// Plan.Skipped, under PolicyAbort Render returns its *InstanceError.
func Render(m *model.Map, opts ...Option) (*Plan, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("render: invalid map: %w", err)
	}

	r := &resolver{m: m, opts: &o}
	instances := m.Instances()
	results := make([]result, len(instances))

	if o.parallelism > 1 && len(instances) > 1 {
		var g errgroup.Group
		g.SetLimit(o.parallelism)
		for i, inst := range instances {
			i, inst := i, inst
			g.Go(func() error {
				parts, err := r.instance(inst)
				results[i] = result{parts, err}
				return nil
			})
		}
		_ = g.Wait() // workers report through results
	} else {
		for i, inst := range instances {
			parts, err := r.instance(inst)
			results[i] = result{parts, err}
		}
	}

	plan := &Plan{}
	z := 0
	for i, res := range results {
		id := instances[i].Common().ID
		if res.err != nil {
			ierr := &InstanceError{Instance: id, Err: res.err}
			if o.policy == PolicyAbort {
				return nil, ierr
			}
			o.log().Warn("skipping instance", "instance", id, "err", res.err)
			plan.Skipped = append(plan.Skipped, ierr)
			continue
		}
		slices.SortStableFunc(res.parts, func(a, b part) int {
			return cmp.Compare(a.order, b.order)
		})
		for _, p := range res.parts {
			p.shape.Z = z
			z++
			plan.Shapes = append(plan.Shapes, p.shape)
		}
	}

	o.log().Debug("render plan",
		"instances", len(instances),
		"shapes", len(plan.Shapes),
		"skipped", len(plan.Skipped),
		"calibrated", m.Calibration().Len())
	return plan, nil
}

// instance resolves one instance into its parts.
func (r *resolver) instance(inst model.Instance) ([]part, error) {
	b := inst.Common()
	if math.IsNaN(b.Opacity) || b.Opacity < 0 || b.Opacity > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOpacity, b.Opacity)
	}
	sym, ok := r.m.Symbol(b.Symbol)
	if !ok {
		// Validate has run, so this is a broken map invariant.
		panic(fmt.Sprintf("render: instance %s refers to missing symbol %s", b.ID, b.Symbol))
	}

	var (
		parts []part
		err   error
	)
	switch inst := inst.(type) {
	case *model.PointInstance:
		parts, err = r.point(inst, sym)
	case *model.FileInstance:
		parts, err = r.file(inst, sym)
	case *model.LineInstance:
		parts, err = r.line(inst, sym)
	case *model.AreaInstance:
		parts, err = r.area(inst, sym)
	case *model.TextInstance:
		parts, err = r.text(inst, sym)
	default:
		panic(fmt.Sprintf("render: unknown instance type %T", inst))
	}
	if err != nil {
		return nil, err
	}

	// Drop what cannot be seen, then rank the rest by z-index override.
	out := parts[:0]
	for _, p := range parts {
		if p.shape.Colour.IsTransparent() || b.Opacity == 0 {
			continue
		}
		p.shape.Instance = b.ID
		p.shape.Opacity = b.Opacity
		if z := b.ZIndex(p.shape.Part); z >= 0 {
			p.order = z
		}
		out = append(out, p)
	}
	return out, nil
}
