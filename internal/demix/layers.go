package demix

import "fmt"

// channelSlot names one wire-order position within a channel-based layer's
// substream list: either a single label carried by a non-coupled substream,
// or a stereo pair carried by one coupled substream (interleaved L/R in a
// single decoded buffer).
type channelSlot struct {
	Single  Label
	PairL   Label
	PairR   Label
	Coupled bool
}

func single(l Label) channelSlot  { return channelSlot{Single: l} }
func pair(l, r Label) channelSlot { return channelSlot{PairL: l, PairR: r, Coupled: true} }

// baseLayerSlots gives the full, wire-order channel slot list for a layer
// that carries its loudspeaker_layout's complete channel set directly,
// either because it is the element's only layer or because it is layer 0
// of a scalable element with no lower layer to demix from. Keyed by the
// audio-element layer's LoudspeakerLayout wire value (0=Mono, 1=Stereo,
// 2=5.1, 7=7.1.4, matching the same four values internal/render's Layout
// table names).
var baseLayerSlots = map[uint8][]channelSlot{
	0: {single(LabelMono)},
	1: {pair(LabelL2, LabelR2)},
	2: {pair(LabelL5, LabelR5), single(LabelCentre), single(LabelLFE), pair(LabelLs5, LabelRs5)},
	7: {
		pair(LabelL7, LabelR7), single(LabelCentre), single(LabelLFE),
		pair(LabelLss7, LabelRss7), pair(LabelLrs7, LabelRrs7),
		pair(LabelLtf4, LabelRtf4), pair(LabelLtb4, LabelRtb4),
	},
}

// addedLayerSlots gives the slot list a layer transmits when layered on top
// of a specific previous loudspeaker_layout, carrying only the labels the
// demix lattice can't reconstruct from lower layers. Keyed by
// [2]uint8{previousLayout, thisLayout}.
var addedLayerSlots = map[[2]uint8][]channelSlot{
	// Stereo layered on Mono: only L2 is transmitted; R2 = 2*Mono - L2 via
	// S1ToS2, per spec.md §4.6's worked example.
	{0, 1}: {single(LabelL2)},
}

// BuildChannelLabelMap assigns decoded per-substream channel buffers to
// their Labels across a channel-based audio element's scalable layers,
// then runs the demix lattice to recover every label the top layer
// implies. rawSubstreams holds one entry per transmitted substream, in the
// audio element's substream_ids order, not yet split into left/right.
//
// Supported layer structures are deliberately narrow: a single base layer
// at Mono/Stereo/5.1/7.1.4, or exactly a two-layer Mono-then-Stereo
// element (spec.md §4.6's S1->S2 worked example). Growing this table to
// the rest of the scalable lattice (3.1.2/5.1.2/5.1.4/7.1/7.1.2
// intermediate layers) is mechanical but needs the full per-layer
// substream-assignment tables, which nothing in the retrieved corpus
// specifies byte-for-byte.
func BuildChannelLabelMap(layouts []uint8, rawSubstreams []Samples, params DownMixParams) (LabelMap, error) {
	if len(layouts) == 0 {
		return nil, fmt.Errorf("demix: channel-based audio element has no layers")
	}

	out := make(LabelMap, len(rawSubstreams)*2)
	idx := 0
	consume := func(slots []channelSlot) error {
		for _, s := range slots {
			if idx >= len(rawSubstreams) {
				return fmt.Errorf("demix: not enough substreams for layer assignment (need index %d, have %d)", idx, len(rawSubstreams))
			}
			raw := rawSubstreams[idx]
			idx++
			if s.Coupled {
				l, r := deinterleave(raw)
				out[s.PairL] = l
				out[s.PairR] = r
			} else {
				out[s.Single] = raw
			}
		}
		return nil
	}

	base, ok := baseLayerSlots[layouts[0]]
	if !ok {
		return nil, fmt.Errorf("demix: base layer loudspeaker_layout %d has no channel-slot table", layouts[0])
	}
	if err := consume(base); err != nil {
		return nil, err
	}

	prev := layouts[0]
	for _, layout := range layouts[1:] {
		slots, ok := addedLayerSlots[[2]uint8{prev, layout}]
		if !ok {
			return nil, fmt.Errorf("demix: layering loudspeaker_layout %d on top of %d has no channel-slot table", layout, prev)
		}
		if err := consume(slots); err != nil {
			return nil, err
		}
		prev = layout
	}

	if idx != len(rawSubstreams) {
		return nil, fmt.Errorf("demix: %d substreams given but only %d assigned to labels", len(rawSubstreams), idx)
	}

	return RunChain(DefaultChain, out, params), nil
}

// deinterleave splits one coupled substream's interleaved L/R samples into
// two independent channels.
func deinterleave(in Samples) (Samples, Samples) {
	n := len(in) / 2
	l := make(Samples, n)
	r := make(Samples, n)
	for i := 0; i < n; i++ {
		l[i] = in[2*i]
		r[i] = in[2*i+1]
	}
	return l, r
}
