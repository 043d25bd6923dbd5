package icc

import "math"

// D50 white point of the ICC profile connection space.
const (
	D50X = 0.9642
	D50Y = 1.0000
	D50Z = 0.8249
)

// decodeLab maps normalised LUT output to CIELAB. lut16 uses the legacy
// encoding where 0xFF00 is L=100; lut8 spans the full byte range.
func decodeLab(v []float64, wide bool) (l, a, b float64) {
	scale := 1.0
	if wide {
		scale = 65535.0 / 65280.0
	}
	return v[0] * scale * 100,
		v[1]*scale*255 - 128,
		v[2]*scale*255 - 128
}

// decodeXYZ maps normalised LUT output to XYZ (u1Fixed15 encoding).
func decodeXYZ(v []float64) (x, y, z float64) {
	const scale = 65535.0 / 32768.0
	return v[0] * scale, v[1] * scale, v[2] * scale
}

// LabToXYZ converts CIELAB to XYZ relative to the D50 white point.
func LabToXYZ(l, a, b float64) (x, y, z float64) {
	fy := (l + 16) / 116
	fx := a/500 + fy
	fz := fy - b/200

	fInv := func(t float64) float64 {
		if t > 6.0/29.0 {
			return t * t * t
		}
		return (t - 16.0/116.0) / 7.787
	}
	return D50X * fInv(fx), D50Y * fInv(fy), D50Z * fInv(fz)
}

// XYZToSRGB converts D50 XYZ to companded sRGB in [0, 1], using the
// Bradford-adapted D50 matrix.
func XYZToSRGB(x, y, z float64) (r, g, b float64) {
	lr := 3.1338561*x - 1.6168667*y - 0.4906146*z
	lg := -0.9787684*x + 1.9161415*y + 0.0334540*z
	lb := 0.0719453*x - 0.2289914*y + 1.4052427*z
	return compand(lr), compand(lg), compand(lb)
}

func compand(v float64) float64 {
	v = clamp01(v)
	if v <= 0.0031308 {
		return 12.92 * v
	}
	return 1.055*math.Pow(v, 1/2.4) - 0.055
}
