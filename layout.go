package iamf

import "github.com/go-iamf/iamf/internal/render"

// OutputLayout names a target playback layout a caller may request output
// in, mirroring the ITU-2051 SoundSystem table carried by a bitstream's
// loudspeaker_layout() (Settings field and the public layout API).
// Values 0..13 line up 1:1 with LoudspeakerLayout.SoundSystem on the wire
// when LayoutType is layoutTypeLoudspeakers; OutputLayoutBinaural has no
// SoundSystem value and is matched via layoutTypeBinaural instead.
type OutputLayout uint8

const (
	OutputLayoutStereo   OutputLayout = iota // "0+2+0"
	OutputLayout5_1                          // "0+5+0"
	OutputLayout5_1_2                        // "2+5+0"
	OutputLayout5_1_4                        // "4+5+0"
	OutputLayoutSystemE                      // "4+5+1"
	OutputLayoutSystemF                      // "3+7+0"
	OutputLayoutSystemG                      // "4+9+0"
	OutputLayoutSystemH                      // "9+10+3"
	OutputLayout7_1                          // "0+7+0"
	OutputLayout7_1_4                        // "4+7+0"
	OutputLayout7_1_2                        // "2+7+0"
	OutputLayout3_1_2                        // "2+3+0"
	OutputLayoutMono                         // "0+1+0"
	OutputLayoutSystem13                     // "6+9+0"
	OutputLayoutBinaural
)

const (
	layoutTypeLoudspeakers uint8 = 2
	layoutTypeBinaural     uint8 = 3
)

// outputLayoutNames gives each OutputLayout the bitstream-table name it
// corresponds to, purely for diagnostics — SameLayout/the rendering tables
// never see these strings directly except through renderLayouts below.
var outputLayoutNames = [...]string{
	"0+2+0", "0+5+0", "2+5+0", "4+5+0", "4+5+1", "3+7+0", "4+9+0", "9+10+3",
	"0+7+0", "4+7+0", "2+7+0", "2+3+0", "0+1+0", "6+9+0", "binaural",
}

func (l OutputLayout) String() string {
	if int(l) < len(outputLayoutNames) {
		return outputLayoutNames[l]
	}
	return "reserved"
}

// renderLayouts supplies the concrete render.Layout (channel count and
// label order) for the OutputLayout values this module can actually
// render to. A nil entry means the layout is a valid request and a valid
// wire match target, but this module has no gain table or label ordering
// for it yet — Decode surfaces KindUnimplemented rather than guess at a
// channel layout nothing here can verify.
var renderLayouts = [...]*render.Layout{
	OutputLayoutStereo:   &render.LayoutStereo,
	OutputLayout5_1:      &render.Layout5_1,
	OutputLayout5_1_2:    nil,
	OutputLayout5_1_4:    nil,
	OutputLayoutSystemE:  nil,
	OutputLayoutSystemF:  nil,
	OutputLayoutSystemG:  nil,
	OutputLayoutSystemH:  nil,
	OutputLayout7_1:      nil,
	OutputLayout7_1_4:    &render.Layout7_1_4,
	OutputLayout7_1_2:    nil,
	OutputLayout3_1_2:    nil,
	OutputLayoutMono:     &render.LayoutMono,
	OutputLayoutSystem13: nil,
	OutputLayoutBinaural: &render.LayoutBinaural,
}

// renderLayoutFor resolves the OutputLayout to a concrete render.Layout,
// or reports that nothing is wired for it yet.
func renderLayoutFor(l OutputLayout) (render.Layout, bool) {
	if int(l) >= len(renderLayouts) || renderLayouts[l] == nil {
		return render.Layout{}, false
	}
	return *renderLayouts[l], true
}

// wireLayoutFor converts a requested OutputLayout into the (layout_type,
// sound_system) pair a bitstream's loudspeaker_layout() carries, for
// constructing an internal/mixselect.Request.
func wireLayoutFor(l OutputLayout) (layoutType, soundSystem uint8) {
	if l == OutputLayoutBinaural {
		return layoutTypeBinaural, 0
	}
	return layoutTypeLoudspeakers, uint8(l)
}

// outputLayoutForWire is wireLayoutFor's inverse, used to report which
// OutputLayout a Mix Selector's chosen LoudspeakerLayout corresponds to.
func outputLayoutForWire(layoutType, soundSystem uint8) (OutputLayout, bool) {
	if layoutType == layoutTypeBinaural {
		return OutputLayoutBinaural, true
	}
	if layoutType == layoutTypeLoudspeakers && int(soundSystem) < int(OutputLayoutBinaural) {
		return OutputLayout(soundSystem), true
	}
	return 0, false
}

// loudspeakerLayoutLabels gives the label order for the wire-level
// audio-element loudspeaker_layout() enum (a distinct, 4-bit, per-scalable
// -layer field from the channel count table above), for the single-layer
// and base-layer channel assignment the Demix Graph Builder performs.
// Only the four values this module has a render.Layout for are populated;
// everything else (5.1.2, 5.1.4, 7.1, 7.1.2, 3.1.2, the expanded-layout
// escape value 15, and reserved values) is left unmapped.
var loudspeakerLayoutLabels = map[uint8]render.Layout{
	0: render.LayoutMono,
	1: render.LayoutStereo,
	2: render.Layout5_1,
	7: render.Layout7_1_4,
}
