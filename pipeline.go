package iamf

import (
	"fmt"

	"github.com/go-iamf/iamf/internal/demix"
	"github.com/go-iamf/iamf/internal/obu"
	"github.com/go-iamf/iamf/internal/render"
	"github.com/go-iamf/iamf/internal/reorder"
	"github.com/go-iamf/iamf/internal/temporal"
)

// outputUnit is one rendered Temporal Unit waiting in the Decoder's output
// queue for GetOutputTemporalUnit to drain, in FIFO order.
type outputUnit struct {
	startTimestamp uint64
	pcm            []byte
}

// drainCompletedUnits pops every Temporal Unit the Assembler now considers
// complete, in arrival order, renders each to PCM, and appends it to the
// output queue. It stops at the first incomplete unit, matching the
// Assembler's in-order delivery guarantee.
func (d *Decoder) drainCompletedUnits() *Error {
	for {
		u, ok := d.assembler.PopCompleted(d.requiredSubstreams, d.requiredParams)
		if !ok {
			return nil
		}
		pcm, err := d.renderUnit(u)
		if err != nil {
			return err
		}
		d.sampleTypeLocked = true
		d.outputQueue = append(d.outputQueue, outputUnit{startTimestamp: u.StartTimestamp, pcm: pcm})
	}
}

// renderUnit runs one Temporal Unit through the Demix Graph Builder and
// Renderer for every audio-element in the selected sub-mix, sums the
// results, applies the sub-mix's output gain, trims, reorders, and
// converts to the caller's requested PCM encoding.
func (d *Decoder) renderUnit(u *temporal.Unit) ([]byte, *Error) {
	sm := d.selection.MixPresentation.SubMixes[d.selection.SubMixIndex]

	elementOutputs := make([][]demix.Samples, 0, len(sm.Elements))
	for _, ec := range sm.Elements {
		ae, ok := d.store.AudioElements[ec.AudioElementID]
		if !ok {
			return nil, newError(KindMalformedBitstream, fmt.Sprintf("sub_mix references unknown audio_element_id %d", ec.AudioElementID))
		}

		labelMap, source, err := d.buildLabelMap(ae, u)
		if err != nil {
			return nil, err
		}

		rendered, _, rerr := render.RenderElement(d.renderCache, d.settings.BinauralRenderer, source, d.targetLayout, labelMap)
		if rerr != nil {
			return nil, wrapError(KindUnimplemented, fmt.Sprintf("rendering audio_element_id %d", ec.AudioElementID), rerr)
		}

		gain := gainEnvelopeFor(ec.ElementMixGain, u)
		for i := range rendered {
			rendered[i] = render.ApplyGainEnvelope(rendered[i], gain)
		}
		elementOutputs = append(elementOutputs, rendered)
	}

	mixed, err := render.SumElements(elementOutputs)
	if err != nil {
		return nil, wrapError(KindMalformedBitstream, "summing rendered audio elements", err)
	}

	outGain := gainEnvelopeFor(sm.OutputMixGain, u)
	for i := range mixed {
		mixed[i] = render.ApplyGainEnvelope(mixed[i], outGain)
	}

	mixed = trimSamples(mixed, u.TrimAtStart, u.TrimAtEnd)

	if d.settings.LoudnessObserver != nil {
		d.settings.LoudnessObserver.Observe(render.RenderedUnit{
			StartTimestamp: u.StartTimestamp,
			Channels:       mixed,
			SampleType:     d.sampleType,
		})
	}

	ordered := reorder.Permute(d.settings.ChannelOrdering, mixed)
	return render.ClipAndConvert(ordered, d.sampleType), nil
}

// trimSamples drops the authored head/tail padding carried by a Temporal
// Unit's audio-frames from every channel, per spec.md §4.7.
func trimSamples(channels []demix.Samples, start, end uint32) []demix.Samples {
	out := make([]demix.Samples, len(channels))
	for i, ch := range channels {
		lo := int(start)
		if lo > len(ch) {
			lo = len(ch)
		}
		hi := len(ch) - int(end)
		if hi < lo {
			hi = lo
		}
		out[i] = ch[lo:hi]
	}
	return out
}

// gainEnvelopeFor resolves a MixGain field to a flat (non-animated)
// GainEnvelope: the parameter-block's current subblock value when a
// Mix-Gain parameter is bound and resolvable at this unit's timestamp,
// otherwise the descriptor's default_mix_gain. The obu.ParameterBlock
// model only carries one Q7.8 value per subblock (no animation-type or
// Bézier control points), so every envelope here is a step function.
func gainEnvelopeFor(mg obu.MixGain, u *temporal.Unit) render.GainEnvelope {
	gain := mg.DefaultMixGain
	if mg.ParameterID != 0 {
		if pb, ok := u.ParameterBlocks[mg.ParameterID]; ok && len(pb.Subblocks) > 0 {
			gain = pb.Subblocks[0].MixGain
		}
	}
	return render.GainEnvelope{Shape: render.InterpolationStep, StartGain: gain, EndGain: gain}
}

// buildLabelMap decodes every substream belonging to ae for Temporal Unit u
// via its bound inner-codec decoder, then assembles and demixes (for
// channel-based elements) or reconstructs (for ambisonics elements) the
// resulting LabelMap, returning it alongside the Layout the element's
// labels are expressed in (the Renderer's "source" layout).
func (d *Decoder) buildLabelMap(ae obu.AudioElement, u *temporal.Unit) (demix.LabelMap, render.Layout, *Error) {
	dec, ok := d.decoders[ae.CodecConfigID]
	if !ok {
		return nil, render.Layout{}, newError(KindMalformedBitstream, fmt.Sprintf("no inner-codec decoder bound for audio_element_id %d", ae.AudioElementID))
	}

	raw := make([]demix.Samples, 0, len(ae.SubstreamIDs))
	for _, sid := range ae.SubstreamIDs {
		af, ok := u.AudioFrames[sid]
		if !ok {
			return nil, render.Layout{}, newError(KindMalformedBitstream, fmt.Sprintf("temporal unit at timestamp %d missing audio_frame for substream %d", u.StartTimestamp, sid))
		}
		pcm, derr := dec.DecodeFrame(sid, af.EncodedPayload)
		if derr != nil {
			return nil, render.Layout{}, wrapError(KindUnimplemented, fmt.Sprintf("decoding substream %d", sid), derr)
		}
		raw = append(raw, toSamples(pcm))
	}

	switch ae.ElementType {
	case obu.AudioElementSceneBased:
		return d.buildAmbisonicsLabelMap(ae, raw)
	default:
		return d.buildChannelLabelMap(ae, raw, u)
	}
}

func toSamples(pcm []float32) demix.Samples {
	out := make(demix.Samples, len(pcm))
	for i, v := range pcm {
		out[i] = float64(v)
	}
	return out
}

func (d *Decoder) buildChannelLabelMap(ae obu.AudioElement, raw []demix.Samples, u *temporal.Unit) (demix.LabelMap, render.Layout, *Error) {
	layouts := make([]uint8, len(ae.Channel.Layers))
	for i, layer := range ae.Channel.Layers {
		layouts[i] = layer.LoudspeakerLayout
	}

	params := d.downMixParamsFor(ae, u)
	labelMap, err := demix.BuildChannelLabelMap(layouts, raw, params)
	if err != nil {
		return nil, render.Layout{}, wrapError(KindUnimplemented, fmt.Sprintf("assembling channel-based audio_element_id %d", ae.AudioElementID), err)
	}

	top := ae.Channel.Layers[len(ae.Channel.Layers)-1]
	source, ok := loudspeakerLayoutLabels[top.LoudspeakerLayout]
	if !ok {
		return nil, render.Layout{}, newError(KindUnimplemented, fmt.Sprintf("audio_element_id %d's top layer loudspeaker_layout %d has no Layout mapping", ae.AudioElementID, top.LoudspeakerLayout))
	}

	if top.OutputGainFlag {
		for _, label := range source.Channels {
			if s, ok := labelMap[label]; ok {
				labelMap[label] = demix.ApplyOutputGain(s, top.OutputGain)
			}
		}
	}

	return labelMap, source, nil
}

// downMixParamsFor resolves the active Demixing-Info parameter for ae at
// u's timestamp, falling back to dmixp_mode 1 / default_w 0 when no
// Demixing-Info parameter block covers this unit yet (spec.md §4.6).
func (d *Decoder) downMixParamsFor(ae obu.AudioElement, u *temporal.Unit) demix.DownMixParams {
	for _, pid := range ae.DemixingParamIDs {
		if pb, ok := u.ParameterBlocks[pid]; ok && len(pb.Subblocks) > 0 {
			sb := pb.Subblocks[0]
			return demix.DefaultDownMixParams(uint8(sb.DMixPMode), sb.DefaultW)
		}
	}
	return demix.DefaultDownMixParams(1, 0)
}

func (d *Decoder) buildAmbisonicsLabelMap(ae obu.AudioElement, raw []demix.Samples) (demix.LabelMap, render.Layout, *Error) {
	switch ae.Scene.Mode {
	case obu.AmbisonicsModeMono:
		cfg := ae.Scene.Mono
		lm, err := demix.MonoReconstruct(raw, cfg.ChannelMapping)
		if err != nil {
			return nil, render.Layout{}, wrapError(KindMalformedBitstream, fmt.Sprintf("reconstructing ambisonics-mono audio_element_id %d", ae.AudioElementID), err)
		}
		source, ok := ambisonicsSourceLayout(cfg.OutputChannelCount)
		if !ok {
			return nil, render.Layout{}, newError(KindUnimplemented, fmt.Sprintf("audio_element_id %d's ambisonics order has no Layout mapping", ae.AudioElementID))
		}
		return lm, source, nil

	case obu.AmbisonicsModeProjection:
		cfg := ae.Scene.Projection
		lm, err := demix.ProjectionReconstruct(raw, cfg.DemixingMatrix, int(cfg.SubstreamCount), int(cfg.CoeffChannelCount), int(cfg.OutputChannelCount))
		if err != nil {
			return nil, render.Layout{}, wrapError(KindMalformedBitstream, fmt.Sprintf("reconstructing ambisonics-projection audio_element_id %d", ae.AudioElementID), err)
		}
		source, ok := ambisonicsSourceLayout(cfg.OutputChannelCount)
		if !ok {
			return nil, render.Layout{}, newError(KindUnimplemented, fmt.Sprintf("audio_element_id %d's ambisonics order has no Layout mapping", ae.AudioElementID))
		}
		return lm, source, nil

	default:
		return nil, render.Layout{}, newError(KindMalformedBitstream, fmt.Sprintf("audio_element_id %d has an unknown ambisonics mode", ae.AudioElementID))
	}
}

// ambisonicsSourceLayout resolves an ambisonics element's output_channel_count
// to a render.Layout naming its ACN channel order. Only first-order (4
// channels, "1OA") has a wired rendering table; higher orders are valid to
// parse and demix but KindUnimplemented at render time, since this module
// ships no higher-order ambisonics projection matrices.
func ambisonicsSourceLayout(outputChannelCount uint8) (render.Layout, bool) {
	if outputChannelCount == uint8(len(render.Layout1OA.Channels)) {
		return render.Layout1OA, true
	}
	return render.Layout{}, false
}
