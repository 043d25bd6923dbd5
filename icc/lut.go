package icc

import (
	"encoding/binary"
	"fmt"
)

const (
	sigMFT1 = 0x6D667431 // 'mft1' (lut8Type)
	sigMFT2 = 0x6D667432 // 'mft2' (lut16Type)

	// maxLUTChannels is the ICC limit on lut8/lut16 channel counts.
	maxLUTChannels = 15
)

// LUT is a lut8/lut16 transform with all values normalised to [0, 1].
//
// Evaluation order is input curves, n-linear CLUT interpolation, output
// curves. The 3x3 matrix is only applied when the input has three channels
// (XYZ input), which never happens for CMYK device profiles.
type LUT struct {
	InputChannels  int
	OutputChannels int
	GridPoints     int
	Matrix         [9]float64
	InputTables    [][]float64
	CLUT           []float64
	OutputTables   [][]float64

	// Wide is true for mft2 data; it selects the 16-bit PCS encodings.
	Wide bool
}

// LUT reads and decodes a lut8 or lut16 tag.
func (p *Profile) LUT(sig string) (*LUT, error) {
	data, ok := p.Tag(sig)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrTagNotFound, sig)
	}
	if len(data) < 52 {
		return nil, fmt.Errorf("%w: tag %s too short", ErrInvalidProfile, sig)
	}

	switch binary.BigEndian.Uint32(data[0:4]) {
	case sigMFT1:
		return parseLUT(data, false)
	case sigMFT2:
		return parseLUT(data, true)
	}
	return nil, fmt.Errorf("%w: tag %s has type %q", ErrUnsupported, sig, data[0:4])
}

// lutReader walks the tables of an mft1/mft2 tag.
type lutReader struct {
	data   []byte
	offset int
	wide   bool
}

func (r *lutReader) table(n int) ([]float64, error) {
	width := 1
	if r.wide {
		width = 2
	}
	if n < 0 || uint64(r.offset)+uint64(n)*uint64(width) > uint64(len(r.data)) {
		return nil, fmt.Errorf("%w: lut truncated", ErrInvalidProfile)
	}
	out := make([]float64, n)
	for i := range out {
		if r.wide {
			out[i] = float64(binary.BigEndian.Uint16(r.data[r.offset:])) / 65535
		} else {
			out[i] = float64(r.data[r.offset]) / 255
		}
		r.offset += width
	}
	return out, nil
}

func parseLUT(data []byte, wide bool) (*LUT, error) {
	lut := &LUT{
		InputChannels:  int(data[8]),
		OutputChannels: int(data[9]),
		GridPoints:     int(data[10]),
		Wide:           wide,
	}
	if lut.InputChannels == 0 || lut.OutputChannels == 0 || lut.GridPoints < 2 ||
		lut.InputChannels > maxLUTChannels || lut.OutputChannels > maxLUTChannels {
		return nil, fmt.Errorf("%w: lut dimensions %dx%d grid %d",
			ErrInvalidProfile, lut.InputChannels, lut.OutputChannels, lut.GridPoints)
	}

	for i := range lut.Matrix {
		lut.Matrix[i] = s15Fixed16(binary.BigEndian.Uint32(data[12+i*4:]))
	}

	inEntries, outEntries, offset := 256, 256, 48
	if wide {
		inEntries = int(binary.BigEndian.Uint16(data[48:50]))
		outEntries = int(binary.BigEndian.Uint16(data[50:52]))
		offset = 52
		if inEntries < 2 || outEntries < 2 {
			return nil, fmt.Errorf("%w: lut16 table entries %d/%d", ErrInvalidProfile, inEntries, outEntries)
		}
	}

	r := &lutReader{data: data, offset: offset, wide: wide}
	var err error

	lut.InputTables = make([][]float64, lut.InputChannels)
	for c := range lut.InputTables {
		if lut.InputTables[c], err = r.table(inEntries); err != nil {
			return nil, err
		}
	}

	// A grid larger than the tag cannot be stored in it; stopping there
	// also keeps the product from overflowing.
	points := 1
	for i := 0; i < lut.InputChannels; i++ {
		points *= lut.GridPoints
		if points > len(data) {
			return nil, fmt.Errorf("%w: lut grid %d^%d exceeds tag size",
				ErrInvalidProfile, lut.GridPoints, lut.InputChannels)
		}
	}
	if lut.CLUT, err = r.table(points * lut.OutputChannels); err != nil {
		return nil, err
	}

	lut.OutputTables = make([][]float64, lut.OutputChannels)
	for c := range lut.OutputTables {
		if lut.OutputTables[c], err = r.table(outEntries); err != nil {
			return nil, err
		}
	}
	return lut, nil
}

// Eval runs the LUT on in, which must have InputChannels values in [0, 1].
func (l *LUT) Eval(in []float64) []float64 {
	tmp := make([]float64, l.InputChannels)
	copy(tmp, in)

	if l.InputChannels == 3 {
		m := l.Matrix
		x := tmp[0]*m[0] + tmp[1]*m[1] + tmp[2]*m[2]
		y := tmp[0]*m[3] + tmp[1]*m[4] + tmp[2]*m[5]
		z := tmp[0]*m[6] + tmp[1]*m[7] + tmp[2]*m[8]
		tmp[0], tmp[1], tmp[2] = x, y, z
	}

	for c := range tmp {
		tmp[c] = interp1D(tmp[c], l.InputTables[c])
	}

	out := interpGrid(tmp, l.CLUT, l.OutputChannels, l.GridPoints)
	for c := range out {
		out[c] = interp1D(out[c], l.OutputTables[c])
	}
	return out
}

func interp1D(val float64, table []float64) float64 {
	if val <= 0 {
		return table[0]
	}
	if val >= 1 {
		return table[len(table)-1]
	}
	f := val * float64(len(table)-1)
	idx := int(f)
	frac := f - float64(idx)
	return table[idx]*(1-frac) + table[idx+1]*frac
}

// interpGrid performs n-linear interpolation over a grid whose first
// dimension varies least rapidly. Each of the 2^n cell corners contributes
// the product of its per-axis weights.
func interpGrid(in []float64, grid []float64, outCh, points int) []float64 {
	n := len(in)
	base := make([]int, n)
	frac := make([]float64, n)
	stride := make([]int, n)

	s := outCh
	for i := n - 1; i >= 0; i-- {
		stride[i] = s
		s *= points
	}

	for i, v := range in {
		f := clamp01(v) * float64(points-1)
		b := int(f)
		if b >= points-1 {
			b = points - 2
		}
		base[i] = b
		frac[i] = f - float64(b)
	}

	out := make([]float64, outCh)
	for corner := 0; corner < 1<<n; corner++ {
		w := 1.0
		off := 0
		for i := 0; i < n; i++ {
			idx := base[i]
			if corner&(1<<(n-1-i)) != 0 {
				idx++
				w *= frac[i]
			} else {
				w *= 1 - frac[i]
			}
			off += idx * stride[i]
		}
		if w == 0 {
			continue
		}
		for c := 0; c < outCh; c++ {
			out[c] += w * grid[off+c]
		}
	}
	return out
}

func s15Fixed16(v uint32) float64 {
	return float64(int32(v)) / 65536
}

func clamp01(x float64) float64 {
	switch {
	case x < 0:
		return 0
	case x > 1:
		return 1
	}
	return x
}
