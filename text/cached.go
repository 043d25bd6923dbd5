package text

import (
	"math"

	"github.com/cartokit/carto/cache"
)

type measureKey struct {
	s    string
	size float64
}

type measured struct {
	glyphs []Glyph
	err    error
}

// CachedMeasurer memoises the glyphs of a wrapped Measurer per string and
// size. Returned slices are shared and must not be modified.
type CachedMeasurer struct {
	m       Measurer
	memo    *cache.Memo[measureKey, measured]
	metrics *cache.Memo[float64, Metrics]
}

// NewCachedMeasurer wraps m.
func NewCachedMeasurer(m Measurer) *CachedMeasurer {
	return &CachedMeasurer{
		memo: cache.NewMemo[measureKey, measured](func(k measureKey) uint64 {
			return cache.StringHasher(k.s) ^ math.Float64bits(k.size)
		}),
		metrics: cache.NewMemo[float64, Metrics](func(v float64) uint64 {
			return cache.Float64sHasher(v)
		}),
		m: m,
	}
}

// Measure implements Measurer.
func (c *CachedMeasurer) Measure(s string, size float64) ([]Glyph, error) {
	r := c.memo.GetOrCreate(measureKey{s, size}, func() measured {
		g, err := c.m.Measure(s, size)
		return measured{g, err}
	})
	return r.glyphs, r.err
}

// Metrics implements Measurer.
func (c *CachedMeasurer) Metrics(size float64) Metrics {
	return c.metrics.GetOrCreate(size, func() Metrics { return c.m.Metrics(size) })
}

// Stats reports the glyph cache statistics.
func (c *CachedMeasurer) Stats() cache.Stats {
	return c.memo.Stats()
}
