// Package descriptor accumulates the descriptor OBUs (IA-Sequence-Header,
// Codec-Config, Audio-Element, Mix-Presentation) that precede every IA
// sequence's temporal units, validates the cross-references between them,
// and seals once temporal-unit processing begins.
package descriptor

import (
	"errors"
	"fmt"

	"github.com/go-iamf/iamf/internal/obu"
)

// State is the Descriptor Store's lifecycle: it only ever accumulates, then
// seals once — there is no going back to Accumulating short of a fresh
// decoder instance.
type State uint8

const (
	StateAccumulating State = iota
	StateSealed
)

var (
	// ErrAlreadySealed is returned by Add when a descriptor OBU arrives
	// after the store has sealed; a new descriptor mid-sequence would mean
	// a second IA sequence, which this decoder treats as fatal rather than
	// as an implicit reset.
	ErrAlreadySealed = errors.New("descriptor: store already sealed")

	// ErrNotSealed is returned by Resolver/Validate-dependent accessors
	// before Seal has run.
	ErrNotSealed = errors.New("descriptor: store not yet sealed")

	// ErrDuplicateSequenceHeader is returned if a second IA-Sequence-Header
	// is added to the same store.
	ErrDuplicateSequenceHeader = errors.New("descriptor: duplicate ia_sequence_header")

	// ErrUnresolvedReference is wrapped around any dangling cross-reference
	// discovered at Seal time.
	ErrUnresolvedReference = errors.New("descriptor: unresolved cross-reference")
)

// ParamDef is what the store knows about one parameter_id once sealed:
// which kind of parameter it is, the rate used to schedule its subblocks,
// and (for Recon-Gain parameters) the ordered channel indices its
// subblocks' flag bits refer to.
type ParamDef struct {
	Kind                obu.ParamDefinitionType
	Rate                uint32
	ActiveLayerChannels []int
}

// Store holds the accumulated descriptor set for one IA sequence.
type Store struct {
	state State

	SequenceHeader   *obu.SequenceHeader
	CodecConfigs     map[uint32]obu.CodecConfig
	AudioElements    map[uint32]obu.AudioElement
	MixPresentations []obu.MixPresentation

	params map[uint32]ParamDef
}

// New returns an empty, Accumulating Store.
func New() *Store {
	return &Store{
		state:         StateAccumulating,
		CodecConfigs:  make(map[uint32]obu.CodecConfig),
		AudioElements: make(map[uint32]obu.AudioElement),
		params:        make(map[uint32]ParamDef),
	}
}

// State reports the store's current lifecycle state.
func (s *Store) State() State { return s.state }

// Add ingests one descriptor OBU. Passing anything but a SequenceHeader,
// CodecConfig, AudioElement, or MixPresentation payload is a programmer
// error (the Pipeline Controller routes other OBU kinds elsewhere).
func (s *Store) Add(o obu.OBU) error {
	if s.state == StateSealed {
		return ErrAlreadySealed
	}

	switch {
	case o.SequenceHeader != nil:
		if s.SequenceHeader != nil {
			return ErrDuplicateSequenceHeader
		}
		h := *o.SequenceHeader
		s.SequenceHeader = &h

	case o.CodecConfig != nil:
		s.CodecConfigs[o.CodecConfig.CodecConfigID] = *o.CodecConfig

	case o.AudioElement != nil:
		s.AudioElements[o.AudioElement.AudioElementID] = *o.AudioElement

	case o.MixPresentation != nil:
		s.MixPresentations = append(s.MixPresentations, *o.MixPresentation)

	default:
		return fmt.Errorf("descriptor: Add called with a non-descriptor OBU (kind %v)", o.Kind)
	}
	return nil
}

// Seal validates every cross-reference named in the accumulated descriptor
// set, builds the parameter_id -> ParamDef table used to resolve
// Parameter-Block OBUs, and transitions the store to Sealed. Seal is
// idempotent: calling it again after a successful seal is a no-op.
func (s *Store) Seal() error {
	if s.state == StateSealed {
		return nil
	}

	for id, ae := range s.AudioElements {
		if _, ok := s.CodecConfigs[ae.CodecConfigID]; !ok {
			return fmt.Errorf("%w: audio_element %d references unknown codec_config_id %d", ErrUnresolvedReference, id, ae.CodecConfigID)
		}
	}

	for i, mp := range s.MixPresentations {
		for j, sm := range mp.SubMixes {
			for _, ec := range sm.Elements {
				if _, ok := s.AudioElements[ec.AudioElementID]; !ok {
					return fmt.Errorf("%w: mix_presentation %d sub_mix %d references unknown audio_element_id %d", ErrUnresolvedReference, i, j, ec.AudioElementID)
				}
			}
		}
	}

	for id, ae := range s.AudioElements {
		rate := s.defaultParamRate(ae)

		for _, pid := range ae.DemixingParamIDs {
			s.params[pid] = ParamDef{Kind: obu.ParamDefinitionDemixingInfo, Rate: rate}
		}
		for _, pid := range ae.ReconGainParamIDs {
			channels := activeChannelsForReconGain(ae)
			s.params[pid] = ParamDef{Kind: obu.ParamDefinitionReconGain, Rate: rate, ActiveLayerChannels: channels}
		}
		_ = id
	}

	for i, mp := range s.MixPresentations {
		for j, sm := range mp.SubMixes {
			if sm.OutputMixGain.ParameterID != 0 {
				s.params[sm.OutputMixGain.ParameterID] = ParamDef{Kind: obu.ParamDefinitionMixGain, Rate: sm.OutputMixGain.ParameterRate}
			}
			for _, ec := range sm.Elements {
				if ec.ElementMixGain.ParameterID != 0 {
					s.params[ec.ElementMixGain.ParameterID] = ParamDef{Kind: obu.ParamDefinitionMixGain, Rate: ec.ElementMixGain.ParameterRate}
				}
			}
			_ = i
			_ = j
		}
	}

	s.state = StateSealed
	return nil
}

// defaultParamRate derives a parameter subblock rate from the audio
// element's bound codec config when no explicit rate was carried by the
// parameter's own definition (spec.md's Parameter-Block model keys
// subblock durations in the same units as num_samples_per_frame).
func (s *Store) defaultParamRate(ae obu.AudioElement) uint32 {
	cc, ok := s.CodecConfigs[ae.CodecConfigID]
	if !ok {
		return 0
	}
	return cc.SampleRate
}

// activeChannelsForReconGain returns the sequential channel indices a
// Recon-Gain subblock's flag bits are positioned against, derived from the
// channel counts of this element's scalable layers. The indices are
// resolved to real output-channel labels downstream, in internal/demix,
// which alone knows the label assignment the scalable lattice uses.
func activeChannelsForReconGain(ae obu.AudioElement) []int {
	total := 0
	for _, layer := range ae.Channel.Layers {
		if layer.ReconGainFlag {
			total += int(layer.NumSubstreams) + int(layer.CoupledSubstreamCnt)
		}
	}
	channels := make([]int, total)
	for i := range channels {
		channels[i] = i
	}
	return channels
}

// Resolver returns an obu.ParameterResolver backed by this sealed store,
// for handing to obu.Parser.SetResolver once temporal-unit processing
// begins. It returns an error for every call if the store isn't sealed.
func (s *Store) Resolver() obu.ParameterResolver {
	return func(parameterID uint32) (obu.ParamDefinitionType, uint32, []int, error) {
		if s.state != StateSealed {
			return 0, 0, nil, ErrNotSealed
		}
		def, ok := s.params[parameterID]
		if !ok {
			return 0, 0, nil, fmt.Errorf("%w: parameter_id %d", obu.ErrUnknownParameter, parameterID)
		}
		return def.Kind, def.Rate, def.ActiveLayerChannels, nil
	}
}

// AudioElementsReferencedBy returns the Audio-Element ids used by one
// sub-mix of a Mix-Presentation, resolved against this store. Used by
// internal/profile and internal/mixselect, which both need this mapping
// without re-walking OBU payloads themselves.
func (s *Store) AudioElementsReferencedBy(sm obu.SubMix) []obu.AudioElement {
	out := make([]obu.AudioElement, 0, len(sm.Elements))
	for _, ec := range sm.Elements {
		if ae, ok := s.AudioElements[ec.AudioElementID]; ok {
			out = append(out, ae)
		}
	}
	return out
}
