// Package render projects an audio-element's demixed channels into a
// requested output layout: pass-through when the layouts already match, a
// precomputed gain matrix when they differ, or an external binaural
// renderer, then mixes multiple elements and converts to the caller's
// output sample format.
package render

import "github.com/go-iamf/iamf/internal/demix"

// Layout names a channel layout the way the bitstream and the rendering
// tables both do: a short string like "0+2+0" (stereo) or "4+7+0"
// (surround-with-height). Order matters: Channels lists the Label each
// position in an interleaved output frame corresponds to.
type Layout struct {
	Name     string
	Channels []demix.Label
}

// Well-known layouts referenced by the built-in gain-matrix table and by
// pass-through matching. Additional layouts can be supplied by callers
// without changing this package, since Layout is just data.
var (
	LayoutMono = Layout{Name: "0+1+0", Channels: []demix.Label{demix.LabelMono}}

	LayoutStereo = Layout{Name: "0+2+0", Channels: []demix.Label{demix.LabelL2, demix.LabelR2}}

	Layout5_1 = Layout{Name: "0+5+0", Channels: []demix.Label{
		demix.LabelL5, demix.LabelR5, demix.LabelCentre, demix.LabelLFE, demix.LabelLs5, demix.LabelRs5,
	}}

	Layout7_1_4 = Layout{Name: "4+7+0", Channels: []demix.Label{
		demix.LabelL7, demix.LabelR7, demix.LabelCentre, demix.LabelLFE,
		demix.LabelLss7, demix.LabelRss7, demix.LabelLrs7, demix.LabelRrs7,
		demix.LabelLtf4, demix.LabelRtf4, demix.LabelLtb4, demix.LabelRtb4,
	}}

	LayoutBinaural = Layout{Name: "binaural", Channels: []demix.Label{demix.LabelL2, demix.LabelR2}}

	// Layout1OA names a first-order ambisonics source in ACN order
	// (W, Y, Z, X), the source side of the built-in 1OA->Stereo
	// projection table.
	Layout1OA = Layout{Name: "1OA", Channels: []demix.Label{
		demix.LabelA0, demix.LabelA1, demix.LabelA2, demix.LabelA3,
	}}
)

// SameLayout reports whether a and b name the same channel arrangement,
// which is the pass-through rendering condition.
func SameLayout(a, b Layout) bool {
	if a.Name != b.Name || len(a.Channels) != len(b.Channels) {
		return false
	}
	for i := range a.Channels {
		if a.Channels[i] != b.Channels[i] {
			return false
		}
	}
	return true
}
