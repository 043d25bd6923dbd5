package colour

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cartokit/carto"
)

func TestNewCMYKClamps(t *testing.T) {
	got := NewCMYK(-0.5, 1.5, 0.25, 2)
	want := CMYK{C: 0, M: 1, Y: 0.25, K: 1}
	if got != want {
		t.Errorf("NewCMYK = %v, want %v", got, want)
	}
}

func TestColourValueEquality(t *testing.T) {
	var a, b Colour = NewCMYK(0, 0, 0, 1), NewCMYK(0, 0, 0, 1)
	if a != b {
		t.Error("identical CMYK colours should compare equal")
	}
	if Colour(RGB{R: 1}) == Colour(RGB{R: 2}) {
		t.Error("distinct RGB colours should not compare equal")
	}
}

func TestConversions(t *testing.T) {
	tests := []struct {
		name string
		in   CMYK
		want RGB
	}{
		{"black", NewCMYK(0, 0, 0, 1), RGB{}},
		{"white", NewCMYK(0, 0, 0, 0), RGB{R: 255, G: 255, B: 255}},
		{"cyan", NewCMYK(1, 0, 0, 0), RGB{R: 0, G: 255, B: 255}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.in.Naive(); got != tt.want {
				t.Errorf("%v.Naive() = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	if got := (RGB{}).CMYK(); got != (CMYK{K: 1}) {
		t.Errorf("black RGB.CMYK() = %v, want K=1", got)
	}
	if got := (RGB{R: 255, G: 255, B: 255}).CMYK(); got != (CMYK{}) {
		t.Errorf("white RGB.CMYK() = %v, want zero", got)
	}
	if got := (RGB{}).Tint(0.5); got != (RGB{R: 128, G: 128, B: 128}) {
		t.Errorf("black.Tint(0.5) = %v, want mid grey", got)
	}
}

func countingProfile(calls *atomic.Int32) Profile {
	return func(c CMYK) RGB {
		calls.Add(1)
		return c.Naive()
	}
}

func TestCalibrationTableCacheCoherent(t *testing.T) {
	var calls atomic.Int32
	table := NewCalibrationTable(countingProfile(&calls))
	c := NewCMYK(0.1, 0.2, 0.3, 0.4)

	first := table.Lookup(c)
	if table.Len() != 1 {
		t.Fatalf("Len() after first lookup = %d, want 1", table.Len())
	}
	second := table.Lookup(c)
	if first != second {
		t.Errorf("second lookup = %v, want bit-identical %v", second, first)
	}
	if table.Len() != 1 {
		t.Errorf("Len() after second lookup = %d, want 1", table.Len())
	}
	if calls.Load() != 1 {
		t.Errorf("profile called %d times, want 1", calls.Load())
	}
	if !table.Cached(c) {
		t.Error("Cached() = false after lookup")
	}
}

func TestCalibrationTableExactKeys(t *testing.T) {
	table := NewCalibrationTable(nil)
	table.Lookup(CMYK{C: 0.5})
	table.Lookup(CMYK{C: 0.5000001})
	if table.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (tuples must not be rounded)", table.Len())
	}
}

func TestCalibrationTableConcurrent(t *testing.T) {
	var calls atomic.Int32
	table := NewCalibrationTable(countingProfile(&calls))

	var wg sync.WaitGroup
	for g := 0; g < 16; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 100; i++ {
				table.Lookup(NewCMYK(float64(i)/100, 0, 0, 0))
			}
		}()
	}
	wg.Wait()

	if table.Len() != 100 {
		t.Errorf("Len() = %d, want 100", table.Len())
	}
	if calls.Load() != 100 {
		t.Errorf("profile called %d times, want 100", calls.Load())
	}
}

func TestResolve(t *testing.T) {
	spots := SpotMap{
		"blue":  RGB{B: 255},
		"brown": NewCMYK(0, 0.56, 1, 0.18),
		"alias": NewSpot("brown", 1),
		"loop":  NewSpot("loop", 1),
	}
	r := NewResolver(nil, spots)

	tests := []struct {
		name string
		in   Colour
		want RGBA
	}{
		{"rgb identity", RGB{R: 10, G: 20, B: 30}, RGBA{R: 10, G: 20, B: 30, A: 255}},
		{"transparent", Transparent{}, RGBA{}},
		{"cmyk black", NewCMYK(0, 0, 0, 1), RGBA{A: 255}},
		{"spot rgb full", NewSpot("blue", 1), RGBA{B: 255, A: 255}},
		{"spot rgb tint", NewSpot("blue", 0), RGBA{R: 255, G: 255, B: 255, A: 255}},
		{"spot cmyk", NewSpot("brown", 1), Opaque(NewCMYK(0, 0.56, 1, 0.18).Naive())},
		{"spot alias", NewSpot("alias", 1), Opaque(NewCMYK(0, 0.56, 1, 0.18).Naive())},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.in)
			if err != nil {
				t.Fatalf("Resolve(%v) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Resolve(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolveUnresolvedSpot(t *testing.T) {
	r := NewResolver(nil, SpotMap{"loop": NewSpot("loop", 1)})

	for _, c := range []Colour{NewSpot("missing", 1), NewSpot("loop", 1), nil} {
		_, err := r.Resolve(c)
		if !errors.Is(err, carto.ErrUnresolvedColourReference) {
			t.Errorf("Resolve(%v) error = %v, want ErrUnresolvedColourReference", c, err)
		}
	}

	noSpots := NewResolver(nil, nil)
	if _, err := noSpots.Resolve(NewSpot("x", 1)); !errors.Is(err, carto.ErrUnresolvedColourReference) {
		t.Errorf("Resolve without spot table error = %v, want ErrUnresolvedColourReference", err)
	}
}
