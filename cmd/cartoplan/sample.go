package main

import (
	"math"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/colour"
	"github.com/cartokit/carto/geometry"
	"github.com/cartokit/carto/model"
	"github.com/cartokit/carto/symbol"
	"github.com/cartokit/carto/text"
)

// sampleColours are the sheet's colours in definition order. Brown and
// blue are spot inks with process fallbacks.
var sampleColours = []struct {
	ref   symbol.ColourRef
	value string
}{
	{"black", "cmyk(0,0,0,100%)"},
	{"brown", `spot("brown",1)`},
	{"brown 50%", `spot("brown",0.5)`},
	{"blue", `spot("blue",1)`},
	{"yellow", "cmyk(0,27%,79%,0)"},
	{"green", "cmyk(76%,0,91%,0)"},
	{"purple", "#a626ff"},
	{"white", "rgb(255,255,255)"},
	{"none", "transparent"},
}

var sampleSpots = map[string]string{
	"brown": "cmyk(0,56%,100%,18%)",
	"blue":  "cmyk(100%,0,0,0)",
}

func sampleSymbols() []*symbol.Symbol {
	return []*symbol.Symbol{
		{
			ID: "contour", Name: "Contour", Code: symbol.Code{101, 0, 0},
			Style: &symbol.LineStyle{Colour: "brown", Width: 0.14},
		},
		{
			ID: "form-line", Name: "Form line", Code: symbol.Code{103, 0, 0},
			Style: &symbol.LineStyle{
				Colour: "brown",
				Width:  0.14,
				Dash:   &symbol.Dash{Pattern: []float64{2.5, 0.25}},
			},
		},
		{
			ID: "track", Name: "Track", Code: symbol.Code{506, 0, 0},
			Style: &symbol.LineStyle{
				Colour: "black",
				Width:  0.35,
				Border: &symbol.Border{Colour: "white", Width: 0.1, Shift: 0.05},
			},
		},
		{
			ID: "lake", Name: "Lake", Code: symbol.Code{301, 0, 0},
			Style: &symbol.AreaStyle{
				Fill:   symbol.SolidFill{Colour: "blue"},
				Border: &symbol.LineStyle{Colour: "black", Width: 0.18},
			},
		},
		{
			ID: "marsh", Name: "Marsh", Code: symbol.Code{308, 0, 0},
			Style: &symbol.AreaStyle{
				Fill: symbol.PatternFill{Colour: "blue", Spacing: 0.5, LineWidth: 0.12},
			},
		},
		{
			ID: "undergrowth", Name: "Undergrowth", Code: symbol.Code{407, 0, 0},
			Style: &symbol.AreaStyle{
				Fill: symbol.CombinedFill{
					First:  symbol.PatternFill{Colour: "green", Spacing: 0.6, LineWidth: 0.15},
					Second: symbol.PatternFill{Colour: "green", Angle: math.Pi / 2, Spacing: 0.6, LineWidth: 0.15},
				},
			},
		},
		{
			ID: "open-land", Name: "Open land", Code: symbol.Code{401, 0, 0},
			Style: &symbol.AreaStyle{Fill: symbol.SolidFill{Colour: "yellow"}},
		},
		{
			ID: "boulder", Name: "Boulder", Code: symbol.Code{206, 0, 0},
			Style: &symbol.PointStyle{Elements: []symbol.Element{
				symbol.Circle{Radius: 0.2, Colour: "black"},
			}},
		},
		{
			ID: "start", Name: "Start", Code: symbol.Code{701, 0, 0},
			Style: &symbol.PointStyle{
				Elements: []symbol.Element{
					symbol.Polyline{
						Points: []carto.Point{{X: 0, Y: 3.5}, {X: 3, Y: -1.75}, {X: -3, Y: -1.75}},
						Colour: "purple",
						Width:  0.35,
						Closed: true,
					},
				},
			},
		},
		{
			ID: "logo", Name: "Club logo", Code: symbol.Code{999, 1, 0},
			Style: &symbol.FileStyle{
				Source: "logo.svg",
				Elements: []symbol.Element{
					symbol.Rectangle{Rect: carto.NewRect(carto.Pt(-5, -2), carto.Pt(5, 2)), Colour: "green"},
					symbol.Rectangle{Rect: carto.NewRect(carto.Pt(-5, -2), carto.Pt(5, 2)), Colour: "black", Width: 0.2},
					symbol.Polygon{
						Points: []carto.Point{{X: -4, Y: -1.5}, {X: -2, Y: 1.5}, {X: 0, Y: -1.5}},
						Colour: "white",
					},
				},
			},
		},
		{
			ID: "label", Name: "Map name", Code: symbol.Code{999, 2, 0},
			Style: &symbol.TextStyle{
				Font:   symbol.Font{Family: "Go", Size: 4, Bold: true},
				Colour: "black",
			},
		},
		{
			ID: "helper", Name: "Construction line", Code: symbol.Code{999, 9, 0}, Helper: true,
			Style: &symbol.LineStyle{Colour: "none", Width: 0.1},
		},
	}
}

func sampleInstances() []model.Instance {
	ring := func(pts ...carto.Point) *geometry.Collection {
		return geometry.NewCollection(geometry.Line(pts...))
	}

	hill := geometry.NewCollection(
		geometry.Curve(
			geometry.Corner(carto.Pt(10, 40)),
			geometry.Smooth(carto.Pt(20, 52), carto.Pt(30, 50), carto.Pt(40, 48)),
			geometry.Corner(carto.Pt(50, 40)),
		),
		geometry.Line(carto.Pt(50, 40), carto.Pt(30, 30), carto.Pt(10, 40)),
	)

	track := geometry.NewCollection()
	track.Add(geometry.Line(carto.Pt(0, 0), carto.Pt(30, 10)))
	bridge := track.Add(geometry.Line(carto.Pt(30, 10), carto.Pt(35, 12)))
	track.Add(geometry.Line(carto.Pt(35, 12), carto.Pt(80, 20)))
	track.SetGap(bridge)

	spur := geometry.NewCollection(geometry.Curve(
		geometry.Corner(carto.Pt(60, 60)),
		geometry.Corner(carto.Pt(75, 70)),
	))

	start := &model.PointInstance{Base: model.NewBase("start", "start"), Position: carto.Pt(5, 5), Rotation: math.Pi / 6}
	start.Layer = 2

	boulder := &model.PointInstance{Base: model.NewBase("boulder-1", "boulder"), Position: carto.Pt(28, 38)}
	boulder.SetZIndex(0, 5)

	logo := &model.FileInstance{Base: model.NewBase("logo", "logo"), Centre: carto.Pt(90, 90), Scale: 0.5}
	logo.Opacity = 0.8

	return []model.Instance{
		&model.AreaInstance{
			Base:         model.NewBase("field", "open-land"),
			PathGeometry: model.PathGeometry{Path: ring(carto.Pt(0, 60), carto.Pt(40, 60), carto.Pt(40, 95), carto.Pt(0, 95)), Closed: true},
		},
		&model.AreaInstance{
			Base:            model.NewBase("thicket", "undergrowth"),
			PathGeometry:    model.PathGeometry{Path: ring(carto.Pt(55, 0), carto.Pt(95, 0), carto.Pt(95, 35), carto.Pt(55, 35)), Closed: true},
			PatternRotation: math.Pi / 4,
		},
		&model.AreaInstance{
			Base:         model.NewBase("lake", "lake"),
			PathGeometry: model.PathGeometry{Path: ring(carto.Pt(60, 40), carto.Pt(90, 40), carto.Pt(90, 55), carto.Pt(60, 55)), Closed: true},
			Holes:        []*geometry.Collection{ring(carto.Pt(70, 45), carto.Pt(75, 45), carto.Pt(75, 50), carto.Pt(70, 50))},
		},
		&model.AreaInstance{
			Base:         model.NewBase("marsh", "marsh"),
			PathGeometry: model.PathGeometry{Path: ring(carto.Pt(5, 65), carto.Pt(20, 65), carto.Pt(12, 80)), Closed: true},
		},
		&model.LineInstance{
			Base:         model.NewBase("hill", "contour"),
			PathGeometry: model.PathGeometry{Path: hill, Closed: true},
		},
		&model.LineInstance{Base: model.NewBase("spur", "form-line"), PathGeometry: model.PathGeometry{Path: spur}},
		&model.LineInstance{Base: model.NewBase("track", "track"), PathGeometry: model.PathGeometry{Path: track}},
		&model.LineInstance{
			Base:         model.NewBase("grid", "helper"),
			PathGeometry: model.PathGeometry{Path: ring(carto.Pt(0, 50), carto.Pt(100, 50))},
		},
		boulder,
		start,
		logo,
		&model.TextInstance{
			Base:    model.NewBase("title", "label"),
			Text:    "Sample Forest\n1:10 000",
			TopLeft: carto.Pt(5, 100),
			Align:   text.AlignCentre,
			Width:   60,
		},
	}
}

// sampleMap builds a small orienteering sheet that touches every symbol
// kind, fill type and path feature.
func sampleMap() (*model.Map, error) {
	m := model.NewMap("Sample Forest")
	m.ScaleDenominator = 10000

	for name, def := range sampleSpots {
		c, err := colour.Parse(def)
		if err != nil {
			return nil, err
		}
		if err := m.DefineSpot(name, c); err != nil {
			return nil, err
		}
	}
	for _, sc := range sampleColours {
		c, err := colour.Parse(sc.value)
		if err != nil {
			return nil, err
		}
		if err := m.AddColour(sc.ref, c); err != nil {
			return nil, err
		}
	}
	for _, s := range sampleSymbols() {
		if err := m.AddSymbol(s); err != nil {
			return nil, err
		}
	}
	for _, inst := range sampleInstances() {
		if err := m.AddInstance(inst); err != nil {
			return nil, err
		}
	}
	return m, nil
}
