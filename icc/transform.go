package icc

import (
	"fmt"

	"github.com/cartokit/carto"
	"github.com/cartokit/carto/colour"
)

// RenderingIntent selects which device-to-PCS tag is evaluated.
type RenderingIntent int

const (
	IntentPerceptual RenderingIntent = iota
	IntentRelativeColorimetric
	IntentSaturation
)

var intentNames = [...]string{
	IntentPerceptual:           "perceptual",
	IntentRelativeColorimetric: "relative",
	IntentSaturation:           "saturation",
}

func (i RenderingIntent) String() string {
	if i >= 0 && int(i) < len(intentNames) {
		return intentNames[i]
	}
	return fmt.Sprintf("RenderingIntent(%d)", int(i))
}

// ParseIntent maps a name produced by RenderingIntent.String back to
// the intent.
func ParseIntent(name string) (RenderingIntent, error) {
	for i, n := range intentNames {
		if n == name {
			return RenderingIntent(i), nil
		}
	}
	return 0, fmt.Errorf("icc: unknown rendering intent %q", name)
}

func (i RenderingIntent) tag() string {
	return fmt.Sprintf("A2B%d", int(i))
}

// CMYKTransform returns the profile's CMYK to sRGB transform as a
// colour.Profile. The LUT for the requested intent is used when present,
// otherwise A2B0.
//
// All validation happens here; the returned function is total.
func (p *Profile) CMYKTransform(intent RenderingIntent) (colour.Profile, error) {
	if p.header.ColorSpace != "CMYK" {
		return nil, fmt.Errorf("%w: colour space %q, want CMYK", ErrUnsupported, p.header.ColorSpace)
	}

	lut, err := p.LUT(intent.tag())
	if err != nil && intent != IntentPerceptual {
		lut, err = p.LUT(IntentPerceptual.tag())
	}
	if err != nil {
		return nil, err
	}
	if lut.InputChannels != 4 || lut.OutputChannels != 3 {
		return nil, fmt.Errorf("%w: lut is %d->%d channels, want 4->3",
			ErrUnsupported, lut.InputChannels, lut.OutputChannels)
	}

	var toXYZ func([]float64) (float64, float64, float64)
	switch p.header.PCS {
	case "Lab ":
		toXYZ = func(v []float64) (float64, float64, float64) {
			return LabToXYZ(decodeLab(v, lut.Wide))
		}
	case "XYZ ":
		toXYZ = decodeXYZ
	default:
		return nil, fmt.Errorf("%w: PCS %q", ErrUnsupported, p.header.PCS)
	}

	carto.Logger().Info("icc transform ready",
		"class", p.header.Class, "pcs", p.header.PCS, "grid", lut.GridPoints, "wide", lut.Wide)

	return func(c colour.CMYK) colour.RGB {
		pcs := lut.Eval([]float64{c.C, c.M, c.Y, c.K})
		r, g, b := XYZToSRGB(toXYZ(pcs))
		return colour.RGB{R: to8(r), G: to8(g), B: to8(b)}
	}, nil
}

func to8(v float64) uint8 {
	return uint8(clamp01(v)*255 + 0.5)
}
