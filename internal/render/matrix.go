package render

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/go-iamf/iamf/internal/demix"
)

// GainMatrix is a dense sourceChannels x targetChannels linear projection:
// output[j] = sum_i input[i] * Weights[i][j].
type GainMatrix struct {
	Weights [][]float64
}

// tableKey identifies one (source layout, target layout) pairing in the
// built-in table and in the cache.
type tableKey struct {
	Source string
	Target string
}

// builtinTables holds the hand-authored EAR/channel projection matrices
// this module ships with, keyed by (source, target) layout name pair, per
// spec.md §4.8's "precomputed loudspeaker-to-loudspeaker gain matrix keyed
// by source/target layout name" rendering strategy.
var builtinTables = map[tableKey]GainMatrix{
	{Source: "0+2+0", Target: "0+5+0"}: {
		// Stereo folded forward into the 5.1 front pair; surrounds and
		// centre/LFE are silent from a stereo source.
		Weights: [][]float64{
			{1, 0, 0, 0, 0, 0},
			{0, 1, 0, 0, 0, 0},
		},
	},
	{Source: "0+5+0", Target: "0+2+0"}: {
		// Downmix: L2 = L5 + 0.707*C + 0.707*Ls5, symmetric for R.
		Weights: [][]float64{
			{1, 0},
			{0, 1},
			{0.707, 0.707},
			{0, 0},
			{0.707, 0},
			{0, 0.707},
		},
	},
	{Source: "1OA", Target: "0+2+0"}: {
		// Cardioid first-order-ambisonics-to-stereo decode in ACN/SN3D
		// order (W, Y, Z, X): L = W + 0.707*Y, R = W - 0.707*Y. Z (height)
		// and X (front-back) don't project onto a horizontal stereo pair.
		Weights: [][]float64{
			{1, 1},
			{0.707, -0.707},
			{0, 0},
			{0, 0},
		},
	},
}

// Cache wraps an LRU of resolved gain matrices so repeated temporal units
// for the same audio-element/layout pairing skip table lookup and matrix
// re-derivation (SPEC_FULL.md §4.8a).
type Cache struct {
	lru *lru.Cache[tableKey, GainMatrix]
}

// NewCache returns a Cache holding up to size resolved matrices.
func NewCache(size int) (*Cache, error) {
	c, err := lru.New[tableKey, GainMatrix](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lru: c}, nil
}

// ErrNoProjection is returned when no pass-through or table entry connects
// source to target.
var ErrNoProjection = fmt.Errorf("render: no projection available between requested layouts")

// Resolve returns the gain matrix projecting source onto target, consulting
// the cache first, then the built-in table, then erroring.
func (c *Cache) Resolve(source, target Layout) (GainMatrix, error) {
	key := tableKey{Source: source.Name, Target: target.Name}
	if m, ok := c.lru.Get(key); ok {
		return m, nil
	}
	m, ok := builtinTables[key]
	if !ok {
		return GainMatrix{}, fmt.Errorf("%w: %s -> %s", ErrNoProjection, source.Name, target.Name)
	}
	c.lru.Add(key, m)
	return m, nil
}

// Project applies m to one tick's worth of labeled input channels (ordered
// per source.Channels), producing samples ordered per target.Channels.
func Project(m GainMatrix, source, target Layout, in map[demix.Label]demix.Samples) ([]demix.Samples, error) {
	if len(m.Weights) != len(source.Channels) {
		return nil, fmt.Errorf("render: gain matrix has %d rows, want %d (len(source.Channels))", len(m.Weights), len(source.Channels))
	}

	numSamples := 0
	for _, ch := range in {
		if len(ch) > numSamples {
			numSamples = len(ch)
		}
	}

	out := make([]demix.Samples, len(target.Channels))
	for j := range out {
		out[j] = make(demix.Samples, numSamples)
	}

	for i, label := range source.Channels {
		src, ok := in[label]
		if !ok {
			continue
		}
		row := m.Weights[i]
		for j := 0; j < len(target.Channels) && j < len(row); j++ {
			w := row[j]
			if w == 0 {
				continue
			}
			for s := 0; s < len(src) && s < numSamples; s++ {
				out[j][s] += src[s] * w
			}
		}
	}
	return out, nil
}
