// Package iamf decodes an IAMF (Immersive Audio Model and Formats) bitstream
// into PCM, progressively: push compressed bytes in with Decode, pull
// rendered temporal units out with GetOutputTemporalUnit.
package iamf

import (
	"errors"
	"fmt"

	_ "github.com/go-iamf/iamf/codec/aac/plugin"
	"github.com/go-iamf/iamf/internal/bitbuffer"
	"github.com/go-iamf/iamf/internal/codecplugin"
	"github.com/go-iamf/iamf/internal/descriptor"
	"github.com/go-iamf/iamf/internal/mixselect"
	"github.com/go-iamf/iamf/internal/obu"
	"github.com/go-iamf/iamf/internal/profile"
	"github.com/go-iamf/iamf/internal/render"
	"github.com/go-iamf/iamf/internal/temporal"
)

// state is the Pipeline Controller's lifecycle.
type state uint8

const (
	stateAccepting state = iota
	stateTemporalUnit
	stateEndOfStream
	stateClosed
)

// Decoder is a single IAMF decode session: one IA sequence's descriptors,
// the mix presentation selected from them, and every temporal unit decoded
// and rendered so far.
type Decoder struct {
	settings Settings
	log      logger

	rb     *bitbuffer.Buffer
	parser *obu.Parser
	store  *descriptor.Store

	state state
	tick  uint32

	assembler *temporal.Assembler

	selection mixselect.Selection
	selected  bool

	outputLayout OutputLayout
	targetLayout render.Layout

	requiredSubstreams []uint32
	requiredParams     []uint32

	decoders    map[uint32]codecplugin.Decoder // keyed by codec_config_id
	renderCache *render.Cache

	sampleRate uint32
	frameSize  uint32

	arbitraryOBUs []obu.Arbitrary

	// descriptorBytes caches the raw descriptor OBU bytes once sealed, so
	// Reset/ResetWithNewLayout can rebuild the Demix Graphs and Renderer
	// from scratch without the caller re-supplying them.
	descriptorBytes []byte

	sampleType       render.OutputSampleType
	sampleTypeLocked bool

	outputQueue []outputUnit
}

// logger is the narrow slice of *charmlog.Logger this package actually
// calls, so Settings.logger() can be exercised without importing the real
// type into every file that wants to log something.
type logger interface {
	Debug(msg interface{}, keyvals ...interface{})
	Info(msg interface{}, keyvals ...interface{})
}

// Create returns a Decoder ready to accept a bitstream progressively,
// starting with its descriptor OBUs, via repeated Decode calls.
func Create(settings Settings) (*Decoder, error) {
	cache, err := render.NewCache(settings.gainCacheSize())
	if err != nil {
		return nil, wrapError(KindInvalidArgument, "constructing gain-matrix cache", err)
	}
	d := &Decoder{
		settings:    settings,
		log:         settings.logger(),
		rb:          bitbuffer.New(),
		store:       descriptor.New(),
		state:       stateAccepting,
		assembler:   temporal.New(),
		decoders:    make(map[uint32]codecplugin.Decoder),
		renderCache: cache,
		sampleType:  settings.SampleType,
	}
	d.parser = obu.NewParser(d.rb, nil)
	return d, nil
}

// CreateFromDescriptors builds a Decoder whose descriptor set is already
// known, skipping the AcceptingData phase: descriptorOBUs must hold exactly
// the IA-Sequence-Header, Codec-Config, Audio-Element, and Mix-Presentation
// OBUs for one IA sequence, with no temporal delimiter.
func CreateFromDescriptors(descriptorOBUs []byte, settings Settings) (*Decoder, error) {
	d, err := Create(settings)
	if err != nil {
		return nil, err
	}
	d.descriptorBytes = append([]byte(nil), descriptorOBUs...)
	d.rb.PushBytes(descriptorOBUs)

	sawDelim := false
	for {
		o, perr := d.parser.Next()
		if perr != nil {
			if errors.Is(perr, bitbuffer.ErrInsufficientData) {
				break
			}
			return nil, wrapError(KindMalformedBitstream, "parsing descriptor OBUs", perr)
		}
		if o.Kind == obu.TypeTemporalDelim {
			sawDelim = true
			break
		}
		if o.Arbitrary != nil {
			d.arbitraryOBUs = append(d.arbitraryOBUs, *o.Arbitrary)
			continue
		}
		if err := d.store.Add(o); err != nil {
			return nil, wrapError(KindMalformedBitstream, "accumulating descriptor", err)
		}
	}

	consumedBytes := d.rb.Tell() / 8
	if !sawDelim && consumedBytes < len(descriptorOBUs) {
		return nil, newError(KindInvalidArgument, "CreateFromDescriptors given bytes beyond a complete descriptor set")
	}

	if err := d.sealAndSelectMix(); err != nil {
		return nil, err
	}
	d.state = stateTemporalUnit
	d.tick = 1
	d.parser.SetInsertionContext(obu.InsertionHookBeforeTemporalUnit, d.tick)
	d.rb.Flush(d.rb.Tell() / 8)
	return d, nil
}

// Decode feeds data into the session. It always accepts the full slice;
// KindInsufficientData never reaches the caller, since an incomplete OBU
// simply waits in the buffer for more bytes on a later call. Any other
// failure — malformed bitstream, no profile left standing, a descriptor
// OBU after temporal-unit processing has begun — is returned as an *Error
// and leaves the Decoder usable for diagnostics but not further progress.
func (d *Decoder) Decode(data []byte) (int, error) {
	if d.state == stateClosed {
		return 0, newError(KindInvalidArgument, "Decode called on a closed decoder")
	}
	if d.state == stateEndOfStream {
		return 0, newError(KindInvalidArgument, "Decode called after SignalEndOfDecoding")
	}

	if d.state == stateAccepting {
		d.descriptorBytes = append(d.descriptorBytes, data...)
	}
	d.rb.PushBytes(data)

	for {
		wasAccepting := d.state == stateAccepting
		o, err := d.parser.Next()
		if err != nil {
			if errors.Is(err, bitbuffer.ErrInsufficientData) {
				break
			}
			return len(data), wrapError(KindMalformedBitstream, "parsing OBU", err)
		}
		if perr := d.process(o); perr != nil {
			return len(data), perr
		}
		// spec: the first descriptor seal returns control to the caller
		// immediately, without consuming any temporal-unit bytes that
		// happen to already be buffered.
		if wasAccepting && d.state == stateTemporalUnit {
			d.rb.Flush(d.rb.Tell() / 8)
			return len(data), nil
		}
	}

	if perr := d.drainCompletedUnits(); perr != nil {
		return len(data), perr
	}

	d.rb.Flush(d.rb.Tell() / 8)
	return len(data), nil
}

func (d *Decoder) process(o obu.OBU) *Error {
	switch d.state {
	case stateAccepting:
		return d.processDescriptorPhase(o)
	case stateTemporalUnit:
		return d.processTemporalPhase(o)
	default:
		return newError(KindInvalidArgument, "OBU received outside descriptor or temporal-unit processing")
	}
}

func (d *Decoder) processDescriptorPhase(o obu.OBU) *Error {
	switch {
	case o.Kind == obu.TypeTemporalDelim:
		if err := d.sealAndSelectMix(); err != nil {
			return err
		}
		d.state = stateTemporalUnit
		d.tick = 1
		d.parser.SetInsertionContext(obu.InsertionHookBeforeTemporalUnit, d.tick)
		return nil

	case o.Arbitrary != nil:
		d.arbitraryOBUs = append(d.arbitraryOBUs, *o.Arbitrary)
		return nil

	default:
		if err := d.store.Add(o); err != nil {
			return wrapError(KindMalformedBitstream, "accumulating descriptor", err)
		}
		if o.Kind == obu.TypeSequenceHeader {
			d.log.Debug("ia_sequence_header parsed")
		}
		return nil
	}
}

func (d *Decoder) processTemporalPhase(o obu.OBU) *Error {
	switch {
	case o.Kind == obu.TypeTemporalDelim:
		d.tick++
		d.parser.SetInsertionContext(obu.InsertionHookBeforeTemporalUnit, d.tick)
		return nil

	case o.AudioFrame != nil:
		d.assembler.AddAudioFrame(uint64(d.tick), o.Header, *o.AudioFrame)
		return nil

	case o.ParameterBlock != nil:
		d.assembler.AddParameterBlock(uint64(d.tick), *o.ParameterBlock)
		return nil

	case o.Arbitrary != nil:
		d.assembler.AddArbitrary(*o.Arbitrary)
		return nil

	case o.SequenceHeader != nil, o.CodecConfig != nil, o.AudioElement != nil, o.MixPresentation != nil:
		return newError(KindMalformedBitstream, "descriptor OBU encountered after temporal-unit processing began")

	default:
		return nil
	}
}

// sealAndSelectMix runs the Profile Filter and Mix Selector once the
// descriptor set is complete, eagerly constructing every inner-codec
// decoder the chosen mix presentation will need so construction failures
// surface immediately rather than mid-stream.
func (d *Decoder) sealAndSelectMix() *Error {
	if err := d.store.Seal(); err != nil {
		return wrapError(KindMalformedBitstream, "sealing descriptor set", err)
	}
	d.parser.SetResolver(d.store.Resolver())

	profiles := profile.NewSet(d.settings.profileSet()...)
	req := mixselect.Request{
		MixPresentationID: d.settings.RequestedMixPresentationID,
		HasMixID:          d.settings.HasRequestedMixPresentationID,
	}
	if d.settings.HasRequestedLayout {
		req.LayoutType, req.SoundSystem = wireLayoutFor(d.settings.RequestedLayout)
		req.HasLayout = true
	}

	sel, err := mixselect.Select(d.store, profiles, req)
	if err != nil {
		return wrapError(KindProfileMismatch, "selecting a playable mix presentation", err)
	}
	d.selection = sel
	d.selected = true

	chosenLayout := sel.MixPresentation.SubMixes[sel.SubMixIndex].Layouts[sel.LayoutIndex]
	ol, ok := outputLayoutForWire(chosenLayout.LayoutType, chosenLayout.SoundSystem)
	if !ok {
		return newError(KindUnimplemented, fmt.Sprintf("selected layout_type=%d sound_system=%d has no OutputLayout mapping", chosenLayout.LayoutType, chosenLayout.SoundSystem))
	}
	target, ok := renderLayoutFor(ol)
	if !ok {
		return newError(KindUnimplemented, fmt.Sprintf("output layout %s has no rendering table wired", ol))
	}
	d.outputLayout = ol
	d.targetLayout = target

	sm := sel.MixPresentation.SubMixes[sel.SubMixIndex]
	for i, ec := range sm.Elements {
		ae, ok := d.store.AudioElements[ec.AudioElementID]
		if !ok {
			return newError(KindMalformedBitstream, fmt.Sprintf("sub_mix references unknown audio_element_id %d", ec.AudioElementID))
		}
		d.requiredSubstreams = append(d.requiredSubstreams, ae.SubstreamIDs...)
		d.requiredParams = append(d.requiredParams, ae.DemixingParamIDs...)
		d.requiredParams = append(d.requiredParams, ae.ReconGainParamIDs...)
		if ec.ElementMixGain.ParameterID != 0 {
			d.requiredParams = append(d.requiredParams, ec.ElementMixGain.ParameterID)
		}

		dec, derr := d.decoderFor(ae)
		if derr != nil {
			return derr
		}
		if i == 0 {
			d.sampleRate = dec.OutputSampleRate()
			d.frameSize = dec.OutputFrameSize()
		}
	}
	if sm.OutputMixGain.ParameterID != 0 {
		d.requiredParams = append(d.requiredParams, sm.OutputMixGain.ParameterID)
	}

	d.log.Info("mix presentation selected", "mix_presentation_id", sel.MixPresentation.MixPresentationID, "layout", ol.String())
	return nil
}

// Reset discards all buffered and queued temporal-unit state — decoded PCM
// not yet drained, partially-assembled units, inner-codec decoder state —
// and rebuilds the session from its cached descriptor bytes, ready to accept
// temporal units again from tick 1. The descriptor set and selected mix
// presentation are unaffected.
func (d *Decoder) Reset() error {
	if d.state == stateClosed {
		return newError(KindInvalidArgument, "Reset called on a closed decoder")
	}
	if len(d.descriptorBytes) == 0 {
		return newError(KindInvalidArgument, "Reset called before any descriptor set has been sealed")
	}
	return d.reinitFromDescriptorBytes(d.settings)
}

// ResetWithNewLayout behaves like Reset, but additionally re-runs the Mix
// Selector against layout, so a caller can switch target output layouts
// (e.g. stereo to binaural) mid-session without re-supplying the bitstream.
func (d *Decoder) ResetWithNewLayout(layout OutputLayout) error {
	if d.state == stateClosed {
		return newError(KindInvalidArgument, "ResetWithNewLayout called on a closed decoder")
	}
	if len(d.descriptorBytes) == 0 {
		return newError(KindInvalidArgument, "ResetWithNewLayout called before any descriptor set has been sealed")
	}
	settings := d.settings
	settings.RequestedLayout = layout
	settings.HasRequestedLayout = true
	return d.reinitFromDescriptorBytes(settings)
}

// reinitFromDescriptorBytes rebuilds the Decoder's descriptor store, mix
// selection, inner-codec decoders, and render/assembler state from the
// cached descriptor bytes, under settings.
func (d *Decoder) reinitFromDescriptorBytes(settings Settings) error {
	fresh, err := CreateFromDescriptors(d.descriptorBytes, settings)
	if err != nil {
		return err
	}
	*d = *fresh
	return nil
}

// SignalEndOfDecoding tells the Decoder no further bytes are coming,
// draining any temporal units the Assembler can still complete from
// partial data (trailing arbitrary OBUs are discarded) and transitioning to
// the terminal EndOfStream state. Decode calls after this return an error.
func (d *Decoder) SignalEndOfDecoding() error {
	if d.state == stateClosed {
		return newError(KindInvalidArgument, "SignalEndOfDecoding called on a closed decoder")
	}
	if d.state == stateEndOfStream {
		return nil
	}
	if perr := d.drainCompletedUnits(); perr != nil {
		d.state = stateEndOfStream
		return perr
	}
	d.state = stateEndOfStream
	return nil
}

// Close releases the Decoder's inner-codec decoders and marks the session
// unusable. Close is idempotent.
func (d *Decoder) Close() error {
	if d.state == stateClosed {
		return nil
	}
	for id, dec := range d.decoders {
		if closer, ok := dec.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				d.log.Debug("inner-codec decoder close failed", "codec_config_id", id, "error", err)
			}
		}
	}
	d.state = stateClosed
	return nil
}

// IsDescriptorProcessingComplete reports whether the descriptor set has been
// sealed and a mix presentation selected.
func (d *Decoder) IsDescriptorProcessingComplete() bool {
	return d.selected
}

// IsTemporalUnitAvailable reports whether GetOutputTemporalUnit has a
// rendered unit ready to return without blocking for more input.
func (d *Decoder) IsTemporalUnitAvailable() bool {
	return len(d.outputQueue) > 0
}

// GetOutputTemporalUnit copies the oldest queued rendered temporal unit's
// PCM bytes into buf, returning the number of bytes written. It returns
// ErrNoTemporalUnitAvailable if the queue is empty, or a fatal error if buf
// is too small to hold the unit (the unit stays queued for a retry with a
// larger buffer).
func (d *Decoder) GetOutputTemporalUnit(buf []byte) (int, error) {
	if len(d.outputQueue) == 0 {
		return 0, ErrNoTemporalUnitAvailable
	}
	u := d.outputQueue[0]
	if len(buf) < len(u.pcm) {
		return 0, newError(KindInvalidArgument, fmt.Sprintf("output buffer too small: need %d bytes, have %d", len(u.pcm), len(buf)))
	}
	n := copy(buf, u.pcm)
	d.outputQueue = d.outputQueue[1:]
	return n, nil
}

// GetOutputLayout returns the OutputLayout the Mix Selector chose.
func (d *Decoder) GetOutputLayout() (OutputLayout, error) {
	if !d.selected {
		return 0, newError(KindInvalidArgument, "GetOutputLayout called before descriptor processing completed")
	}
	return d.outputLayout, nil
}

// GetNumberOfOutputChannels returns the channel count of the selected output
// layout.
func (d *Decoder) GetNumberOfOutputChannels() (int, error) {
	if !d.selected {
		return 0, newError(KindInvalidArgument, "GetNumberOfOutputChannels called before descriptor processing completed")
	}
	return len(d.targetLayout.Channels), nil
}

// GetSampleRate returns the inner-codec output sample rate for the selected
// mix presentation's audio elements.
func (d *Decoder) GetSampleRate() (uint32, error) {
	if !d.selected {
		return 0, newError(KindInvalidArgument, "GetSampleRate called before descriptor processing completed")
	}
	return d.sampleRate, nil
}

// GetFrameSize returns the inner-codec output frame size, in samples per
// channel, for the selected mix presentation's audio elements.
func (d *Decoder) GetFrameSize() (uint32, error) {
	if !d.selected {
		return 0, newError(KindInvalidArgument, "GetFrameSize called before descriptor processing completed")
	}
	return d.frameSize, nil
}

// GetOutputSampleType returns the PCM encoding GetOutputTemporalUnit writes.
func (d *Decoder) GetOutputSampleType() render.OutputSampleType {
	return d.sampleType
}

// ConfigureOutputSampleType changes the PCM encoding GetOutputTemporalUnit
// writes. It is a fatal error to call this after any temporal unit has
// already been rendered, since mixing encodings mid-stream would silently
// corrupt a caller's output buffer framing.
func (d *Decoder) ConfigureOutputSampleType(t render.OutputSampleType) error {
	if d.sampleTypeLocked {
		return newError(KindInvalidArgument, "ConfigureOutputSampleType called after a temporal unit was already rendered")
	}
	d.sampleType = t
	return nil
}

// GetOutputMix returns the Mix Presentation the Mix Selector chose.
func (d *Decoder) GetOutputMix() (obu.MixPresentation, error) {
	if !d.selected {
		return obu.MixPresentation{}, newError(KindInvalidArgument, "GetOutputMix called before descriptor processing completed")
	}
	return d.selection.MixPresentation, nil
}

func (d *Decoder) decoderFor(ae obu.AudioElement) (codecplugin.Decoder, *Error) {
	if dec, ok := d.decoders[ae.CodecConfigID]; ok {
		return dec, nil
	}
	cc, ok := d.store.CodecConfigs[ae.CodecConfigID]
	if !ok {
		return nil, newError(KindMalformedBitstream, fmt.Sprintf("audio_element %d references unknown codec_config_id %d", ae.AudioElementID, ae.CodecConfigID))
	}
	factory := d.settings.CodecFactories.resolve(cc.CodecID)
	if factory == nil {
		return nil, newError(KindUnimplemented, fmt.Sprintf("no inner-codec factory registered for codec_id 0x%08x", uint32(cc.CodecID)))
	}
	dec, err := factory(cc)
	if err != nil {
		return nil, wrapError(KindUnimplemented, "constructing inner-codec decoder", err)
	}
	d.decoders[ae.CodecConfigID] = dec
	return dec, nil
}
