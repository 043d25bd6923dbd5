// Package carto provides the geometric primitives and shared error values of
// a cartographic vector-map engine.
//
// # Overview
//
// A map is built from three parts:
//   - symbols: reusable style definitions (package symbol)
//   - instances: placements of a symbol with concrete geometry (package model)
//   - colours: process, device and spot colours resolved through a calibration
//     profile (packages colour and icc)
//
// The render package walks a model.Map and produces an ordered list of
// renderer-agnostic shape descriptors. Turning those descriptors into pixels,
// PDF operators or screen primitives is left to the caller. The cartoplan
// command prints the plan of a sample map.
//
// # Quick Start
//
//	m := model.NewMap("Forest sprint")
//	_ = m.AddColour("black", colour.NewCMYK(0, 0, 0, 1))
//	_ = m.AddSymbol(&symbol.Symbol{
//	    ID:   "area.black",
//	    Name: "Black area",
//	    Code: symbol.Code{401, 0, 0},
//	    Style: &symbol.AreaStyle{Fill: symbol.SolidFill{Colour: "black"}},
//	})
//	...
//	plan, err := render.Render(m)
//
// # Coordinate System
//
// Map-local coordinates in millimetres on paper:
//   - X increases right
//   - Y increases down
//   - Angles in radians
//
// # Logging
//
// The engine is silent by default. Call SetLogger to route diagnostics to a
// log/slog handler.
package carto

// Version is the current version of the module.
const Version = "0.3.0"
