package obu

import "github.com/go-iamf/iamf/internal/bitbuffer"

// MixGain describes a (possibly time-varying) gain applied to one element or
// submix; the animated case defers to the Mix-Gain parameter identified by
// ParameterID, resolved against temporal-unit parameter blocks at render
// time.
type MixGain struct {
	ParameterID    uint32
	ParameterRate  uint32
	DefaultMixGain int16 // Q7.8 fixed point, used before any parameter block arrives
}

// ElementMixConfig is the per-Audio-Element rendering entry within a
// sub-mix: which element, its local mix gain, and (for channel-based
// elements) headphone rendering guidance.
type ElementMixConfig struct {
	AudioElementID     uint32
	RenderingConfigTag uint8
	ElementMixGain     MixGain
}

// LoudspeakerLayout names one target playback layout plus its measured
// loudness, the information the Mix Selector and Renderer use to locate and
// validate the best match for a requested OutputLayout.
type LoudspeakerLayout struct {
	LayoutType               uint8
	SoundSystem              uint8 // selects a named channel layout when LayoutType == 2, "loudspeakers"
	IntegratedLoudness       int16 // Q7.8 LKFS
	DigitalPeak              int16
	TruePeak                 int16
	TruePeakPresent          bool
	AnchoredLoudnessPresent  bool
	DialogueAnchoredLoudness int16
	AlbumAnchoredLoudness    int16
}

// SubMix is one sub_mix(): a set of Audio-Elements combined with per-element
// and output mix gains, rendered to one or more target layouts.
type SubMix struct {
	Elements      []ElementMixConfig
	OutputMixGain MixGain
	Layouts       []LoudspeakerLayout
}

// MixPresentation is the Mix-Presentation OBU payload: a named bundle of
// sub-mixes that together define one playable program.
type MixPresentation struct {
	MixPresentationID uint32
	CountLabel        uint32
	AnnotationsTag    []string // language-tagged descriptive strings; opaque beyond count
	SubMixes          []SubMix
}

func readMixPresentation(rb *bitbuffer.Buffer) (MixPresentation, error) {
	id, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return MixPresentation{}, err
	}
	countLabel, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return MixPresentation{}, err
	}

	mp := MixPresentation{MixPresentationID: id, CountLabel: countLabel}

	// mix_presentation_annotations: one untagged-language UTF-8 string per
	// count_label entry, null terminated. The content isn't interpreted by
	// the pipeline; it's surfaced to callers verbatim via the public API.
	for i := uint32(0); i < countLabel; i++ {
		s, err := readNullTerminatedString(rb)
		if err != nil {
			return MixPresentation{}, err
		}
		mp.AnnotationsTag = append(mp.AnnotationsTag, s)
	}

	numSubMixes, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return MixPresentation{}, err
	}
	for i := uint32(0); i < numSubMixes; i++ {
		sm, err := readSubMix(rb)
		if err != nil {
			return MixPresentation{}, err
		}
		mp.SubMixes = append(mp.SubMixes, sm)
	}

	return mp, nil
}

func readSubMix(rb *bitbuffer.Buffer) (SubMix, error) {
	numElements, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return SubMix{}, err
	}

	sm := SubMix{}
	for i := uint32(0); i < numElements; i++ {
		elementID, err := rb.ReadUnsignedLeb128()
		if err != nil {
			return SubMix{}, err
		}
		renderingTag, err := rb.ReadUnsigned(8)
		if err != nil {
			return SubMix{}, err
		}
		gain, err := readMixGain(rb)
		if err != nil {
			return SubMix{}, err
		}
		sm.Elements = append(sm.Elements, ElementMixConfig{
			AudioElementID:     elementID,
			RenderingConfigTag: uint8(renderingTag),
			ElementMixGain:     gain,
		})
	}

	outGain, err := readMixGain(rb)
	if err != nil {
		return SubMix{}, err
	}
	sm.OutputMixGain = outGain

	numLayouts, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return SubMix{}, err
	}
	for i := uint32(0); i < numLayouts; i++ {
		layout, err := readLoudspeakerLayout(rb)
		if err != nil {
			return SubMix{}, err
		}
		sm.Layouts = append(sm.Layouts, layout)
	}

	return sm, nil
}

func readMixGain(rb *bitbuffer.Buffer) (MixGain, error) {
	animated, err := rb.ReadUnsigned(1)
	if err != nil {
		return MixGain{}, err
	}
	if _, err := rb.ReadUnsigned(7); err != nil { // reserved
		return MixGain{}, err
	}
	if animated == 0 {
		gain, err := rb.ReadSigned(16)
		if err != nil {
			return MixGain{}, err
		}
		return MixGain{DefaultMixGain: int16(gain)}, nil
	}

	paramID, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return MixGain{}, err
	}
	rate, err := rb.ReadUnsignedLeb128()
	if err != nil {
		return MixGain{}, err
	}
	defaultGain, err := rb.ReadSigned(16)
	if err != nil {
		return MixGain{}, err
	}
	return MixGain{
		ParameterID:    paramID,
		ParameterRate:  rate,
		DefaultMixGain: int16(defaultGain),
	}, nil
}

func readLoudspeakerLayout(rb *bitbuffer.Buffer) (LoudspeakerLayout, error) {
	layoutType, err := rb.ReadUnsigned(2)
	if err != nil {
		return LoudspeakerLayout{}, err
	}
	soundSystem, err := rb.ReadUnsigned(6)
	if err != nil {
		return LoudspeakerLayout{}, err
	}

	layout := LoudspeakerLayout{
		LayoutType:  uint8(layoutType),
		SoundSystem: uint8(soundSystem),
	}

	infoType, err := rb.ReadUnsigned(8)
	if err != nil {
		return LoudspeakerLayout{}, err
	}
	integrated, err := rb.ReadSigned(16)
	if err != nil {
		return LoudspeakerLayout{}, err
	}
	peak, err := rb.ReadSigned(16)
	if err != nil {
		return LoudspeakerLayout{}, err
	}
	layout.IntegratedLoudness = int16(integrated)
	layout.DigitalPeak = int16(peak)

	// info_type bit 0: true peak present. bit 1: anchored loudness present.
	if infoType&0x1 != 0 {
		truePeak, err := rb.ReadSigned(16)
		if err != nil {
			return LoudspeakerLayout{}, err
		}
		layout.TruePeak = int16(truePeak)
		layout.TruePeakPresent = true
	}
	if infoType&0x2 != 0 {
		numAnchors, err := rb.ReadUnsigned(8)
		if err != nil {
			return LoudspeakerLayout{}, err
		}
		layout.AnchoredLoudnessPresent = true
		for i := uint32(0); i < numAnchors; i++ {
			element, err := rb.ReadUnsigned(8)
			if err != nil {
				return LoudspeakerLayout{}, err
			}
			anchored, err := rb.ReadSigned(16)
			if err != nil {
				return LoudspeakerLayout{}, err
			}
			switch element {
			case 0:
				layout.DialogueAnchoredLoudness = int16(anchored)
			case 1:
				layout.AlbumAnchoredLoudness = int16(anchored)
			}
		}
	}

	return layout, nil
}

func readNullTerminatedString(rb *bitbuffer.Buffer) (string, error) {
	var out []byte
	for {
		b, err := rb.ReadUnsigned(8)
		if err != nil {
			return "", err
		}
		if b == 0 {
			break
		}
		out = append(out, byte(b))
	}
	return string(out), nil
}
