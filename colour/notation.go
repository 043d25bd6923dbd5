package colour

import (
	"fmt"
	"strconv"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// notationLexer tokenises the textual colour notation:
//
//	#1a2b3c
//	rgb(26, 43, 60)
//	cmyk(0, 0.5, 0, 1)   or   cmyk(0%, 50%, 0%, 100%)
//	spot("PMS 485", 0.4)
//	transparent
var notationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Hex", Pattern: `#[0-9a-fA-F]{6}`},
	{Name: "String", Pattern: `"(?:[^"\\]|\\.)*"`},
	{Name: "Number", Pattern: `[-+]?(?:\d+(?:\.\d*)?|\.\d+)(?:[eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z_][a-zA-Z0-9_]*`},
	{Name: "Percent", Pattern: `%`},
	{Name: "Punct", Pattern: `[(),]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

type notation struct {
	Hex         *string   `parser:"@Hex"`
	RGB         *rgbArgs  `parser:"| \"rgb\" \"(\" @@ \")\""`
	CMYK        *cmykArgs `parser:"| \"cmyk\" \"(\" @@ \")\""`
	Spot        *spotArgs `parser:"| \"spot\" \"(\" @@ \")\""`
	Transparent bool      `parser:"| @\"transparent\""`
}

type rgbArgs struct {
	R int `parser:"@Number \",\""`
	G int `parser:"@Number \",\""`
	B int `parser:"@Number"`
}

type component struct {
	Value   float64 `parser:"@Number"`
	Percent bool    `parser:"@\"%\"?"`
}

func (c component) unit() float64 {
	if c.Percent {
		return c.Value / 100
	}
	return c.Value
}

type cmykArgs struct {
	C component `parser:"@@ \",\""`
	M component `parser:"@@ \",\""`
	Y component `parser:"@@ \",\""`
	K component `parser:"@@"`
}

type spotArgs struct {
	Name string    `parser:"@String \",\""`
	Tint component `parser:"@@"`
}

var notationParser = participle.MustBuild[notation](
	participle.Lexer(notationLexer),
	participle.Elide("Whitespace"),
	participle.Unquote("String"),
)

// Parse reads a colour written in the notation produced by Colour.String.
// Out-of-range process channels and tints are clamped; out-of-range device
// channels are an error.
func Parse(s string) (Colour, error) {
	n, err := notationParser.ParseString("", s)
	if err != nil {
		return nil, fmt.Errorf("colour: parse %q: %w", s, err)
	}

	switch {
	case n.Hex != nil:
		v, err := strconv.ParseUint((*n.Hex)[1:], 16, 32)
		if err != nil {
			return nil, fmt.Errorf("colour: parse %q: %w", s, err)
		}
		return RGB{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v)}, nil
	case n.RGB != nil:
		for _, v := range []int{n.RGB.R, n.RGB.G, n.RGB.B} {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("colour: parse %q: channel %d out of range 0..255", s, v)
			}
		}
		return RGB{R: uint8(n.RGB.R), G: uint8(n.RGB.G), B: uint8(n.RGB.B)}, nil
	case n.CMYK != nil:
		a := n.CMYK
		return NewCMYK(a.C.unit(), a.M.unit(), a.Y.unit(), a.K.unit()), nil
	case n.Spot != nil:
		if n.Spot.Name == "" {
			return nil, fmt.Errorf("colour: parse %q: empty spot name", s)
		}
		return NewSpot(n.Spot.Name, n.Spot.Tint.unit()), nil
	case n.Transparent:
		return Transparent{}, nil
	}
	return nil, fmt.Errorf("colour: parse %q: empty colour", s)
}

// MustParse is like Parse but panics on error. It is intended for
// package-level tables of known-good colours.
func MustParse(s string) Colour {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}
