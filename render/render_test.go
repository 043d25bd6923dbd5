package render

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"testing"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/colour"
	"github.com/cartokit/carto/geometry"
	"github.com/cartokit/carto/model"
	"github.com/cartokit/carto/symbol"
	"github.com/cartokit/carto/text"
)

// inkProfile is a deliberately non-naive calibration.
func inkProfile(c colour.CMYK) colour.RGB {
	return colour.RGB{R: uint8(30 * (1 - c.K)), G: 20, B: uint8(200 * (1 - c.C))}
}

func squarePath(x0, y0, x1, y1 float64) *geometry.Collection {
	return geometry.NewCollection(geometry.Line(
		carto.Pt(x0, y0), carto.Pt(x1, y0), carto.Pt(x1, y1), carto.Pt(x0, y1), carto.Pt(x0, y0),
	))
}

func newMap(t *testing.T) *model.Map {
	t.Helper()
	m := model.NewMap("render test")
	m.SetProfile(inkProfile, "ink")
	must(t, m.AddColour("black", colour.NewCMYK(0, 0, 0, 1)))
	must(t, m.AddColour("blue", colour.NewCMYK(1, 0.2, 0, 0)))
	must(t, m.AddColour("brown", colour.RGB{R: 180, G: 90, B: 0}))
	must(t, m.AddColour("none", colour.Transparent{}))
	must(t, m.AddSymbol(&symbol.Symbol{
		ID:    "black area",
		Style: &symbol.AreaStyle{Fill: symbol.SolidFill{Colour: "black"}},
	}))
	return m
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}

func area(id model.ID, sym symbol.ID, layer int) *model.AreaInstance {
	a := &model.AreaInstance{
		Base:         model.NewBase(id, sym),
		PathGeometry: model.PathGeometry{Path: squarePath(0, 0, 10, 10), Closed: true},
		Holes:        []*geometry.Collection{squarePath(2, 2, 4, 4)},
	}
	a.Layer = layer
	return a
}

func TestRenderAreaWithHole(t *testing.T) {
	m := newMap(t)
	must(t, m.AddInstance(area("upper", "black area", 1)))
	must(t, m.AddInstance(area("lower", "black area", 0)))

	plan, err := Render(m)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if plan.Degraded() {
		t.Fatalf("unexpected skips: %v", plan.Skipped)
	}

	lower := plan.ShapesOf("lower")
	if len(lower) != 1 {
		t.Fatalf("lower instance produced %d shapes, want 1", len(lower))
	}
	s := lower[0]
	if s.Kind() != KindPolygon {
		t.Fatalf("Kind() = %v, want Polygon", s.Kind())
	}
	if want := colour.Opaque(inkProfile(colour.NewCMYK(0, 0, 0, 1))); s.Colour != want {
		t.Errorf("Colour = %v, want %v", s.Colour, want)
	}
	poly := s.Geometry.(Polygon)
	if len(poly.Holes) != 1 || math.Abs(poly.Area()-96) > 1e-9 {
		t.Errorf("polygon area = %v with %d holes, want 96 with 1", poly.Area(), len(poly.Holes))
	}
	if poly.Contains(carto.Pt(3, 3)) || !poly.Contains(carto.Pt(6, 6)) {
		t.Error("polygon does not exclude the hole")
	}

	if len(plan.Shapes) != 2 || plan.Shapes[0].Instance != "lower" || plan.Shapes[1].Instance != "upper" {
		t.Errorf("paint order = %v, want lower then upper", plan.Shapes)
	}
	if plan.Shapes[0].Z >= plan.Shapes[1].Z {
		t.Error("z must increase along the plan")
	}
}

func TestRenderLineWithGapAndBorder(t *testing.T) {
	m := newMap(t)
	must(t, m.AddSymbol(&symbol.Symbol{ID: "road", Style: &symbol.LineStyle{
		Colour: "brown",
		Width:  0.5,
		Dash:   &symbol.Dash{Pattern: []float64{2, 1}},
		Border: &symbol.Border{Colour: "black", Width: 0.1, Shift: 0.05},
	}}))
	path := geometry.NewCollection()
	path.Add(geometry.Line(carto.Pt(0, 0), carto.Pt(5, 0)))
	gap := path.Add(geometry.Line(carto.Pt(5, 0), carto.Pt(6, 0)))
	path.Add(geometry.Curve(
		geometry.Corner(carto.Pt(6, 0)),
		geometry.Smooth(carto.Pt(7, 1), carto.Pt(8, 2), carto.Pt(9, 3)),
		geometry.Corner(carto.Pt(10, 0)),
	))
	path.SetGap(gap)
	must(t, m.AddInstance(&model.LineInstance{
		Base:         model.NewBase("r1", "road"),
		PathGeometry: model.PathGeometry{Path: path},
	}))

	plan, err := Render(m, WithSubdivisions(3))
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Shapes) != 2 {
		t.Fatalf("got %d shapes, want border and main stroke", len(plan.Shapes))
	}
	border := plan.Shapes[0].Geometry.(Polyline)
	main := plan.Shapes[1].Geometry.(Polyline)
	if math.Abs(border.Width-0.8) > 1e-9 {
		t.Errorf("border width = %v, want 0.8", border.Width)
	}
	if main.Dash == nil || border.Dash != nil {
		t.Error("dash belongs to the main stroke only")
	}
	// The plan owns its dash; editing the catalog afterwards leaves it alone.
	sym, _ := m.Symbol("road")
	sym.Style.(*symbol.LineStyle).Dash.Pattern[0] = 9
	if main.Dash.Pattern[0] != 2 {
		t.Errorf("plan dash = %v, want a copy of [2 1]", main.Dash.Pattern)
	}
	if len(main.Runs) != 2 {
		t.Fatalf("main stroke has %d runs, want 2", len(main.Runs))
	}
	// 3 anchors with 3 samples between each pair.
	if got := len(main.Runs[1]); got != 9 {
		t.Errorf("curve run has %d points, want 9", got)
	}
}

func TestRenderCombinedFillRotation(t *testing.T) {
	m := newMap(t)
	must(t, m.AddSymbol(&symbol.Symbol{ID: "hatched", Style: &symbol.AreaStyle{
		Fill: symbol.CombinedFill{
			First:  symbol.PatternFill{Colour: "blue", Angle: 0.25, Spacing: 1, LineWidth: 0.1},
			Second: symbol.PatternFill{Colour: "black", Angle: 1.0, Spacing: 2, LineWidth: 0.2},
		},
		Border: &symbol.LineStyle{Colour: "black", Width: 0.2},
	}}))
	a := area("h", "hatched", 0)
	a.PatternRotation = 0.5
	must(t, m.AddInstance(a))

	plan, err := Render(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Shapes) != 3 {
		t.Fatalf("got %d shapes, want two patterns and a border", len(plan.Shapes))
	}
	for i, want := range []float64{0.75, 1.5} {
		p, ok := plan.Shapes[i].Geometry.(Pattern)
		if !ok {
			t.Fatalf("shape %d is %v, want Pattern", i, plan.Shapes[i].Kind())
		}
		if math.Abs(p.Angle-want) > 1e-12 {
			t.Errorf("pattern %d angle = %v, want %v", i, p.Angle, want)
		}
	}
	border := plan.Shapes[2].Geometry.(Polyline)
	if len(border.Runs) != 2 {
		t.Errorf("border has %d runs, want outline and hole", len(border.Runs))
	}
}

func TestRenderPointSymbol(t *testing.T) {
	m := newMap(t)
	must(t, m.AddSymbol(&symbol.Symbol{ID: "post", Style: &symbol.PointStyle{
		Elements: []symbol.Element{
			symbol.Rectangle{Rect: carto.NewRect(carto.Pt(-1, -1), carto.Pt(1, 1)), Colour: "brown"},
			symbol.Circle{Radius: 0.5, Colour: "black"},
			symbol.Circle{Radius: 2, Colour: "none"},
		},
	}}))
	p := &model.PointInstance{Base: model.NewBase("p", "post"), Position: carto.Pt(10, 20), Rotation: math.Pi / 4}
	p.SetZIndex(0, 5)
	must(t, m.AddInstance(p))

	plan, err := Render(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Shapes) != 2 {
		t.Fatalf("got %d shapes, want 2 (transparent element dropped)", len(plan.Shapes))
	}
	// The z-index override moves the rectangle above the circle.
	circle, ok := plan.Shapes[0].Geometry.(Ellipse)
	if !ok || plan.Shapes[0].Part != 1 {
		t.Fatalf("first shape = %v, want the circle", plan.Shapes[0])
	}
	if !circle.Centre.ApproxEqual(carto.Pt(10, 20), 1e-12) || circle.RX != 0.5 {
		t.Errorf("circle = %+v", circle)
	}
	rotated, ok := plan.Shapes[1].Geometry.(Polygon)
	if !ok {
		t.Fatalf("rotated rectangle is %v, want Polygon", plan.Shapes[1].Kind())
	}
	if math.Abs(rotated.Area()-4) > 1e-9 {
		t.Errorf("rotated rectangle area = %v, want 4", rotated.Area())
	}
}

func TestRenderPointRotation(t *testing.T) {
	tests := []struct {
		name    string
		upright bool
		want    carto.Point
	}{
		{"rotated", false, carto.Pt(10, 11)},
		{"upright", true, carto.Pt(11, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMap(t)
			must(t, m.AddSymbol(&symbol.Symbol{ID: "tick", Style: &symbol.PointStyle{
				Upright: tt.upright,
				Elements: []symbol.Element{
					symbol.Polyline{Points: []carto.Point{{}, {X: 1}}, Colour: "black", Width: 0.1},
				},
			}}))
			must(t, m.AddInstance(&model.PointInstance{
				Base:     model.NewBase("t", "tick"),
				Position: carto.Pt(10, 10),
				Rotation: math.Pi / 2,
			}))

			plan, err := Render(m)
			if err != nil {
				t.Fatal(err)
			}
			run := plan.Shapes[0].Geometry.(Polyline).Runs[0]
			if !run[0].ApproxEqual(carto.Pt(10, 10), 1e-12) {
				t.Errorf("origin placed at %v, want (10,10)", run[0])
			}
			if !run[1].ApproxEqual(tt.want, 1e-12) {
				t.Errorf("(1,0) placed at %v, want %v", run[1], tt.want)
			}
		})
	}
}

func TestRenderFileSymbolScale(t *testing.T) {
	m := newMap(t)
	must(t, m.AddSymbol(&symbol.Symbol{ID: "logo", Style: &symbol.FileStyle{
		Source:   "logo.svg",
		Elements: []symbol.Element{symbol.Rectangle{Rect: carto.NewRect(carto.Pt(0, 0), carto.Pt(1, 2)), Colour: "blue"}},
	}}))
	must(t, m.AddInstance(&model.FileInstance{Base: model.NewBase("f", "logo"), Centre: carto.Pt(5, 5), Scale: 3}))

	plan, err := Render(m)
	if err != nil {
		t.Fatal(err)
	}
	r := plan.Shapes[0].Geometry.(Rectangle)
	want := carto.NewRect(carto.Pt(5, 5), carto.Pt(8, 11))
	if r.Rect != want {
		t.Errorf("Rect = %v, want %v", r.Rect, want)
	}
}

func TestRenderSkipAndAbort(t *testing.T) {
	m := newMap(t)
	bad := area("bad", "black area", 0)
	bad.Holes = []*geometry.Collection{squarePath(8, 8, 12, 12)}
	must(t, m.AddInstance(bad))
	must(t, m.AddInstance(area("good", "black area", 0)))
	faint := area("faint", "black area", 0)
	faint.Opacity = 1.5
	must(t, m.AddInstance(faint))

	plan, err := Render(m)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !plan.Degraded() || len(plan.Skipped) != 2 {
		t.Fatalf("Skipped = %v, want 2 entries", plan.Skipped)
	}
	if plan.Skipped[0].Instance != "bad" || !errors.Is(plan.Skipped[0], carto.ErrInvalidHoleGeometry) {
		t.Errorf("Skipped[0] = %v", plan.Skipped[0])
	}
	if !errors.Is(plan.Skipped[1], ErrInvalidOpacity) {
		t.Errorf("Skipped[1] = %v", plan.Skipped[1])
	}
	if len(plan.ShapesOf("bad")) != 0 || len(plan.ShapesOf("good")) != 1 {
		t.Error("skipped instance leaked shapes")
	}

	_, err = Render(m, WithPolicy(PolicyAbort))
	var ierr *InstanceError
	if !errors.As(err, &ierr) || ierr.Instance != "bad" {
		t.Errorf("PolicyAbort error = %v, want InstanceError for bad", err)
	}
}

func TestRenderInvalidMap(t *testing.T) {
	m := newMap(t)
	must(t, m.AddColour("spot", colour.NewSpot("PMS 871", 1)))
	if _, err := Render(m); !errors.Is(err, carto.ErrUnresolvedColourReference) {
		t.Errorf("Render() error = %v, want ErrUnresolvedColourReference", err)
	}
}

func TestRenderTransparentInstance(t *testing.T) {
	m := newMap(t)
	a := area("ghost", "black area", 0)
	a.Opacity = 0
	must(t, m.AddInstance(a))
	plan, err := Render(m)
	if err != nil {
		t.Fatal(err)
	}
	if len(plan.Shapes) != 0 || plan.Degraded() {
		t.Errorf("fully transparent instance produced %v", plan)
	}
}

type fixedMeasurer struct{}

func (fixedMeasurer) Measure(s string, size float64) ([]text.Glyph, error) {
	var out []text.Glyph
	for i := range []rune(s) {
		out = append(out, text.Glyph{Cluster: i, Advance: size / 2})
	}
	return out, nil
}

func (fixedMeasurer) Metrics(size float64) text.Metrics {
	return text.Metrics{Ascent: size, Descent: size / 4}
}

func TestRenderText(t *testing.T) {
	m := newMap(t)
	must(t, m.AddSymbol(&symbol.Symbol{ID: "label", Style: &symbol.TextStyle{
		Font:   symbol.Font{Family: "Go", Size: 2},
		Colour: "black",
	}}))
	must(t, m.AddInstance(&model.TextInstance{
		Base:    model.NewBase("t", "label"),
		Text:    "Hill",
		TopLeft: carto.Pt(0, 0),
		Align:   text.AlignJustify,
		Width:   10,
	}))

	plan, err := Render(m, WithMeasurer(fixedMeasurer{}))
	if err != nil {
		t.Fatal(err)
	}
	txt := plan.Shapes[0].Geometry.(Text)
	last := txt.Glyphs[len(txt.Glyphs)-1]
	if end := last.Origin.X + last.Advance; math.Abs(end-10) > 1e-9 {
		t.Errorf("justified text ends at %v, want 10", end)
	}
	if txt.Glyphs[0].Origin.Y != 2 {
		t.Errorf("baseline = %v, want 2", txt.Glyphs[0].Origin.Y)
	}
}

func TestRenderParallelMatchesSequential(t *testing.T) {
	m := newMap(t)
	must(t, m.AddSymbol(&symbol.Symbol{ID: "line", Style: &symbol.LineStyle{Colour: "blue", Width: 0.3}}))
	for i := 0; i < 40; i++ {
		x := float64(i)
		if i%3 == 0 {
			a := area(model.ID(fmt.Sprintf("a%d", i)), "black area", i%4)
			a.Path = squarePath(x, 0, x+10, 10)
			a.Holes = []*geometry.Collection{squarePath(x+2, 2, x+4, 4)}
			must(t, m.AddInstance(a))
			continue
		}
		l := &model.LineInstance{
			Base: model.NewBase(model.ID(fmt.Sprintf("l%d", i)), "line"),
			PathGeometry: model.PathGeometry{Path: geometry.NewCollection(geometry.Curve(
				geometry.Corner(carto.Pt(x, 0)),
				geometry.Smooth(carto.Pt(x, 1), carto.Pt(x+1, 2), carto.Pt(x+2, 3)),
				geometry.Corner(carto.Pt(x+3, 0)),
			))},
		}
		l.Layer = i % 4
		must(t, m.AddInstance(l))
	}

	seq, err := Render(m)
	if err != nil {
		t.Fatal(err)
	}
	par, err := Render(m, WithParallelism(8))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(seq, par) {
		t.Error("parallel plan differs from sequential plan")
	}
	for i := 1; i < len(par.Shapes); i++ {
		if par.Shapes[i].Z <= par.Shapes[i-1].Z {
			t.Fatalf("z not increasing at %d", i)
		}
	}
}
