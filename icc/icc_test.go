package icc

import (
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/cartokit/carto/colour"
)

// makeLabLUT16 builds an mft2 CMYK->Lab tag on a grid of two points per
// axis. L falls linearly with K, a and b stay neutral.
func makeLabLUT16() []byte {
	const grid, in, out, entries = 2, 4, 3, 2
	var buf []byte
	u16 := func(v uint16) { buf = binary.BigEndian.AppendUint16(buf, v) }
	u32 := func(v uint32) { buf = binary.BigEndian.AppendUint32(buf, v) }

	u32(sigMFT2)
	u32(0)
	buf = append(buf, in, out, grid, 0)
	for i := 0; i < 9; i++ {
		if i%4 == 0 {
			u32(1 << 16)
		} else {
			u32(0)
		}
	}
	u16(entries)
	u16(entries)

	for c := 0; c < in; c++ {
		u16(0)
		u16(0xFFFF)
	}
	for idx := 0; idx < 16; idx++ {
		k := idx & 1 // last dimension varies fastest
		if k == 1 {
			u16(0)
		} else {
			u16(0xFF00)
		}
		u16(0x8000)
		u16(0x8000)
	}
	for c := 0; c < out; c++ {
		u16(0)
		u16(0xFFFF)
	}
	return buf
}

func makeProfile(space, pcs string, tags map[string][]byte) []byte {
	data := make([]byte, headerSize+4)
	copy(data[12:16], "prtr")
	copy(data[16:20], space)
	copy(data[20:24], pcs)
	copy(data[36:40], magic)

	binary.BigEndian.PutUint32(data[headerSize:], uint32(len(tags)))
	tableEnd := len(data) + len(tags)*tagEntrySize
	entries := make([]byte, 0, len(tags)*tagEntrySize)
	var body []byte
	for sig, tag := range tags {
		entries = append(entries, sig...)
		entries = binary.BigEndian.AppendUint32(entries, uint32(tableEnd+len(body)))
		entries = binary.BigEndian.AppendUint32(entries, uint32(len(tag)))
		body = append(body, tag...)
	}
	data = append(data, entries...)
	data = append(data, body...)
	binary.BigEndian.PutUint32(data[0:4], uint32(len(data)))
	return data
}

func TestParseHeader(t *testing.T) {
	p, err := Parse(makeProfile("CMYK", "Lab ", map[string][]byte{"A2B0": makeLabLUT16()}))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	h := p.Header()
	if h.ColorSpace != "CMYK" || h.PCS != "Lab " || h.Class != "prtr" {
		t.Errorf("Header() = %+v", h)
	}
	if _, ok := p.Tag("A2B0"); !ok {
		t.Error("Tag(A2B0) missing")
	}
	if _, ok := p.Tag("B2A0"); ok {
		t.Error("Tag(B2A0) should be absent")
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"short", make([]byte, 10)},
		{"no magic", make([]byte, 200)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(tt.data); !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("Parse() error = %v, want ErrInvalidProfile", err)
			}
		})
	}
}

func TestInterpGrid4D(t *testing.T) {
	// f(c,m,y,k) = c + 2m + 4y + 8k on a 2-point grid is reproduced exactly.
	grid := make([]float64, 16)
	for idx := range grid {
		c, m, y, k := idx>>3&1, idx>>2&1, idx>>1&1, idx&1
		grid[idx] = float64(c + 2*m + 4*y + 8*k)
	}
	tests := []struct {
		in   []float64
		want float64
	}{
		{[]float64{0, 0, 0, 0}, 0},
		{[]float64{1, 1, 1, 1}, 15},
		{[]float64{0.5, 0, 0, 0}, 0.5},
		{[]float64{0.5, 0.5, 0.5, 0.5}, 7.5},
		{[]float64{0, 0, 0, 0.25}, 2},
	}
	for _, tt := range tests {
		got := interpGrid(tt.in, grid, 1, 2)[0]
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("interpGrid(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestCMYKTransform(t *testing.T) {
	p, err := Parse(makeProfile("CMYK", "Lab ", map[string][]byte{"A2B0": makeLabLUT16()}))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	tr, err := p.CMYKTransform(IntentRelativeColorimetric)
	if err != nil {
		t.Fatalf("CMYKTransform() error = %v", err)
	}

	if got := tr(colour.NewCMYK(0, 0, 0, 1)); got != (colour.RGB{}) {
		t.Errorf("black = %v, want rgb(0,0,0)", got)
	}
	white := tr(colour.NewCMYK(0, 0, 0, 0))
	for _, v := range []uint8{white.R, white.G, white.B} {
		if v < 253 {
			t.Errorf("white = %v, want near rgb(255,255,255)", white)
			break
		}
	}
	grey := tr(colour.NewCMYK(0, 0, 0, 0.5))
	if grey.R < 100 || grey.R > 140 || absDiff(grey.R, grey.G) > 2 || absDiff(grey.G, grey.B) > 2 {
		t.Errorf("50%% K = %v, want neutral mid grey", grey)
	}
}

func TestCMYKTransformRejectsRGBProfile(t *testing.T) {
	p, err := Parse(makeProfile("RGB ", "Lab ", nil))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if _, err := p.CMYKTransform(IntentPerceptual); !errors.Is(err, ErrUnsupported) {
		t.Errorf("CMYKTransform() error = %v, want ErrUnsupported", err)
	}

	cmyk, _ := Parse(makeProfile("CMYK", "Lab ", nil))
	if _, err := cmyk.CMYKTransform(IntentPerceptual); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("CMYKTransform() without A2B0 error = %v, want ErrTagNotFound", err)
	}
}

func TestFingerprintAndLoad(t *testing.T) {
	data := makeProfile("CMYK", "Lab ", map[string][]byte{"A2B0": makeLabLUT16()})
	path := filepath.Join(t.TempDir(), "press.icc")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	parsed, _ := Parse(data)
	if loaded.Fingerprint() != parsed.Fingerprint() {
		t.Error("same bytes should give the same fingerprint")
	}
	if len(loaded.Fingerprint()) != 64 {
		t.Errorf("Fingerprint() length = %d, want 64 hex chars", len(loaded.Fingerprint()))
	}

	other, _ := Parse(makeProfile("CMYK", "XYZ ", map[string][]byte{"A2B0": makeLabLUT16()}))
	if other.Fingerprint() == parsed.Fingerprint() {
		t.Error("different bytes should give different fingerprints")
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.icc")); err == nil {
		t.Error("Load(missing) error = nil")
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestParseIntent(t *testing.T) {
	for _, want := range []RenderingIntent{IntentPerceptual, IntentRelativeColorimetric, IntentSaturation} {
		got, err := ParseIntent(want.String())
		if err != nil || got != want {
			t.Errorf("ParseIntent(%q) = %v, %v, want %v", want.String(), got, err, want)
		}
	}
	if _, err := ParseIntent("absolute"); err == nil {
		t.Error("ParseIntent(absolute) succeeded")
	}
	if got := RenderingIntent(7).String(); got != "RenderingIntent(7)" {
		t.Errorf("String() = %q", got)
	}
}

// oversizedLUT8 returns an mft1 tag declaring channels inputs on a grid of
// the given size, carrying only its input tables.
func oversizedLUT8(channels, grid byte) []byte {
	buf := binary.BigEndian.AppendUint32(nil, sigMFT1)
	buf = append(buf, 0, 0, 0, 0, channels, 3, grid, 0)
	buf = append(buf, make([]byte, 36)...)
	return append(buf, make([]byte, int(channels)*256)...)
}

func TestCMYKTransformRejectsOversizedLUT(t *testing.T) {
	tests := []struct {
		name     string
		channels byte
		grid     byte
	}{
		{"grid overflows", 9, 128},
		{"too many channels", 16, 2},
		{"grid larger than tag", 4, 255},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(makeProfile("CMYK", "Lab ", map[string][]byte{"A2B0": oversizedLUT8(tt.channels, tt.grid)}))
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if _, err := p.CMYKTransform(IntentPerceptual); !errors.Is(err, ErrInvalidProfile) {
				t.Errorf("CMYKTransform() error = %v, want ErrInvalidProfile", err)
			}
		})
	}
}

func TestLUTReaderRejectsNegativeCount(t *testing.T) {
	r := &lutReader{data: make([]byte, 8)}
	if _, err := r.table(-1); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("table(-1) error = %v, want ErrInvalidProfile", err)
	}
}
