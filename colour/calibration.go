package colour

import (
	"github.com/cartokit/carto"
	"github.com/cartokit/carto/cache"
)

// Profile transforms a process colour to calibrated device colour. It is
// supplied by an ICC-style profile interpreter and must be total and free of
// side effects: the same input always yields the same output.
type Profile func(CMYK) RGB

// NaiveProfile is the uncalibrated fallback profile.
func NaiveProfile(c CMYK) RGB {
	return c.Naive()
}

// CalibrationTable memoises a Profile. Entries are keyed by the exact CMYK
// tuple (no rounding) and are never evicted, so the table grows only with the
// distinct process colours a document actually resolves.
//
// CalibrationTable is safe for concurrent use.
type CalibrationTable struct {
	profile Profile
	entries *cache.Memo[CMYK, RGB]
}

// NewCalibrationTable creates an empty table over profile. A nil profile
// selects NaiveProfile.
func NewCalibrationTable(profile Profile) *CalibrationTable {
	if profile == nil {
		profile = NaiveProfile
	}
	return &CalibrationTable{
		profile: profile,
		entries: cache.NewMemo[CMYK, RGB](hashCMYK),
	}
}

// Lookup returns the device colour for c, running the profile on first use.
// Channels outside [0, 1] are clamped first; no other normalisation applies.
func (t *CalibrationTable) Lookup(c CMYK) RGB {
	c = NewCMYK(c.C, c.M, c.Y, c.K)
	return t.entries.GetOrCreate(c, func() RGB {
		rgb := t.profile(c)
		carto.Logger().Debug("calibration miss", "cmyk", c.String(), "rgb", rgb.Hex())
		return rgb
	})
}

// Cached reports whether c already has an entry.
func (t *CalibrationTable) Cached(c CMYK) bool {
	return t.entries.Contains(c)
}

// Len returns the number of distinct tuples resolved so far.
func (t *CalibrationTable) Len() int {
	return t.entries.Len()
}

// Stats returns lookup statistics.
func (t *CalibrationTable) Stats() cache.Stats {
	return t.entries.Stats()
}

func hashCMYK(c CMYK) uint64 {
	return cache.Float64sHasher(c.C, c.M, c.Y, c.K)
}
